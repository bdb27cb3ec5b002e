// Package massing regenerates the stack of per-floor volumes that the render
// layer draws for a building.
package massing

import (
	"fmt"

	"github.com/CORaleigh/NextCenturyCities/pkg/building"
)

// RGBA is a color with channels in 0-255 and alpha in 0-1.
type RGBA [4]float64

// Colors per use-type.
var Colors = map[building.UseType]RGBA{
	building.Retail:      {255, 23, 68, 0.9},
	building.Office:      {33, 150, 243, 0.9},
	building.Residential: {255, 241, 118, 0.9},
}

// FloorVolume is one extruded story of a building. BaseZ is measured from
// the ground in meters.
type FloorVolume struct {
	BuildingID     building.ID      `json:"building_id"`
	Level          int              `json:"level"`
	ColorClass     building.UseType `json:"color_class"`
	Color          RGBA             `json:"color"`
	X              float64          `json:"x"`
	Y              float64          `json:"y"`
	FootprintWidth float64          `json:"footprint_width"`
	FootprintDepth float64          `json:"footprint_depth"`
	Heading        float64          `json:"heading"`
	BaseZ          float64          `json:"base_z"`
	FloorHeight    float64          `json:"floor_height"`
}

// Top returns the height of the floor's ceiling.
func (f FloorVolume) Top() float64 {
	return f.BaseZ + f.FloorHeight
}

// RegenerateStack builds the complete floor stack of a building: retail at
// the bottom, office above it, residential on top. Every call derives all
// three sections again, so the result does not depend on which count was
// edited last.
func RegenerateStack(a building.Attributes, loc building.Location) ([]FloorVolume, error) {
	for _, u := range building.UseTypes {
		if c := a.Story(u).Count; c < 0 {
			return nil, fmt.Errorf("%w: %s %d", building.ErrInvalidStoryCount, u, c)
		}
	}

	stack := make([]FloorVolume, 0, a.TotalStories())
	below := 0.0
	for _, u := range building.UseTypes {
		story := a.Story(u)
		h := u.FloorHeight()
		for i := 0; i < story.Count; i++ {
			stack = append(stack, FloorVolume{
				BuildingID:     a.ID,
				Level:          len(stack),
				ColorClass:     u,
				Color:          Colors[u],
				X:              loc.X,
				Y:              loc.Y,
				FootprintWidth: a.Width,
				FootprintDepth: a.Depth,
				Heading:        a.Angle,
				BaseZ:          below + float64(i)*h,
				FloorHeight:    h,
			})
		}
		below += story.Height
	}
	return stack, nil
}

// StackHeight returns the height of the top of the stack, 0 when empty.
func StackHeight(stack []FloorVolume) float64 {
	if len(stack) == 0 {
		return 0
	}
	return stack[len(stack)-1].Top()
}
