// Package scene2d builds the top-down plan of a scenario: one footprint
// polygon per building plus per-zoning aggregates.
package scene2d

import (
	"math"
	"time"

	"github.com/CORaleigh/NextCenturyCities/pkg/building"
	"github.com/CORaleigh/NextCenturyCities/pkg/geo"
	"github.com/CORaleigh/NextCenturyCities/pkg/scenario"
)

// UnzonedKey groups buildings without a zoning code.
const UnzonedKey = "unzoned"

// Input is the scenario state a plan is drawn from.
type Input struct {
	Entries []scenario.Entry
	// Changed reports whether a building differs from its baseline. Nil
	// treats every building as unchanged.
	Changed  func(building.ID) bool
	Selected building.ID
	Pending  *building.Location
}

// Assemble2D converts scenario entries into a plan suitable for a map
// overlay. Footprints keep the entry order so later buildings draw on top.
func Assemble2D(in Input) *Scene2D {
	s := &Scene2D{
		Footprints: assembleFootprints(in),
		Buildings:  assembleBuildingSummary(in.Entries),
	}
	if in.Pending != nil {
		s.Pending = &[2]float64{in.Pending.X, in.Pending.Y}
	}
	s.Metadata = assembleMetadata(s)
	return s
}

func assembleMetadata(s *Scene2D) Metadata {
	changed := 0
	for _, f := range s.Footprints {
		if f.Changed {
			changed++
		}
	}
	return Metadata{
		Buildings:   len(s.Footprints),
		Changed:     changed,
		Bounds:      planBounds(s),
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	}
}

func assembleFootprints(in Input) []Footprint2D {
	result := make([]Footprint2D, 0, len(in.Entries))
	for _, e := range in.Entries {
		a := e.Attributes
		center := geo.Pt(e.Location.X, e.Location.Y)
		poly := geo.Footprint(center, a.Width, a.Depth, a.Angle)

		changed := false
		if in.Changed != nil {
			changed = in.Changed(e.ID)
		}
		result = append(result, Footprint2D{
			ID:        string(e.ID),
			Center:    [2]float64{center.X, center.Y},
			Polygon:   polygonToCoords(poly),
			AreaM2:    poly.Area(),
			Zoning:    deref(a.Zoning),
			PinNumber: deref(a.PinNumber),
			Stories:   a.TotalStories(),
			HeightM:   a.TotalHeight(),
			Use:       dominantUse(a),
			Changed:   changed,
			Selected:  in.Selected != "" && e.ID == in.Selected,
		})
	}
	return result
}

func assembleBuildingSummary(entries []scenario.Entry) BuildingSummary {
	summary := BuildingSummary{
		TotalBuildings: len(entries),
		ByZoning:       make(map[string]ZoningSum),
	}
	for _, e := range entries {
		a := e.Attributes
		key := deref(a.Zoning)
		if key == "" {
			key = UnzonedKey
		}
		zs := summary.ByZoning[key]
		zs.Buildings++
		zs.Stories += a.TotalStories()
		zs.MaxStories = max(zs.MaxStories, a.TotalStories())
		if e.Report != nil {
			zs.TotalVolume += e.Report.TotalVolume
		}
		summary.ByZoning[key] = zs
		summary.TotalStories += a.TotalStories()
	}
	return summary
}

// dominantUse names the use-type with the most stories. Ties go to the
// use-type listed first in building.UseTypes; a building with no stories
// has no use.
func dominantUse(a building.Attributes) string {
	best, count := "", 0
	for _, u := range building.UseTypes {
		if c := a.Story(u).Count; c > count {
			best, count = string(u), c
		}
	}
	if best == "" {
		return "none"
	}
	return best
}

func planBounds(s *Scene2D) [2][2]float64 {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	extend := func(x, y float64) {
		minX, minY = math.Min(minX, x), math.Min(minY, y)
		maxX, maxY = math.Max(maxX, x), math.Max(maxY, y)
	}
	for _, f := range s.Footprints {
		for _, c := range f.Polygon {
			extend(c[0], c[1])
		}
	}
	if s.Pending != nil {
		extend(s.Pending[0], s.Pending[1])
	}
	if math.IsInf(minX, 1) {
		return [2][2]float64{}
	}
	return [2][2]float64{{minX, minY}, {maxX, maxY}}
}

func polygonToCoords(p geo.Polygon) [][2]float64 {
	coords := make([][2]float64, len(p.Vertices))
	for i, v := range p.Vertices {
		coords[i] = [2]float64{v.X, v.Y}
	}
	return coords
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
