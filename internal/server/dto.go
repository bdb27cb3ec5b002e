package server

import (
	"math"

	"github.com/samber/lo"

	"github.com/CORaleigh/NextCenturyCities/pkg/analytics"
	"github.com/CORaleigh/NextCenturyCities/pkg/building"
	"github.com/CORaleigh/NextCenturyCities/pkg/massing"
	"github.com/CORaleigh/NextCenturyCities/pkg/scenario"
	"github.com/CORaleigh/NextCenturyCities/pkg/units"
	"github.com/CORaleigh/NextCenturyCities/pkg/volume"
)

type loadRequest struct {
	SampleSize *int   `json:"sample_size"`
	Where      string `json:"where"`
}

type attributeRequest struct {
	Field string   `json:"field"`
	Value *float64 `json:"value"`
	// Unit is "m" (default) or "ft"; only width and depth are converted.
	Unit string `json:"unit"`
}

type offsetRequest struct {
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

type pickRequest struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
}

type createRequest struct {
	Name string `json:"name"`
}

type dragStartRequest struct {
	ID string `json:"id"`
}

// BuildingResponse is a scenario entry as the UI shows it.
type BuildingResponse struct {
	scenario.Entry
	WidthFt float64 `json:"width_ft"`
	DepthFt float64 `json:"depth_ft"`
	Changed bool    `json:"changed"`
}

func newBuildingResponse(e scenario.Entry, changed bool) BuildingResponse {
	return BuildingResponse{
		Entry:   e,
		WidthFt: math.Round(units.ToFeet(e.Attributes.Width)),
		DepthFt: math.Round(units.ToFeet(e.Attributes.Depth)),
		Changed: changed,
	}
}

// LoadResponse reports the buildings sampled by a load.
type LoadResponse struct {
	Buildings int                `json:"buildings"`
	Totals    analytics.Totals   `json:"totals"`
	Entries   []BuildingResponse `json:"entries"`
}

// EditResponse is the outcome of a committed edit.
type EditResponse struct {
	Building   BuildingResponse      `json:"building"`
	Stack      []massing.FloorVolume `json:"stack"`
	Marker     massing.Marker        `json:"marker"`
	Comparison analytics.Comparison  `json:"comparison"`
	Formatted  FormattedComparison   `json:"formatted"`
	MaxStories int                   `json:"max_stories,omitempty"`

	// Available is empty when the story cap is disabled.
	Available map[string]int `json:"available_stories,omitempty"`
}

// FormattedComparison renders a comparison the way the report panel shows it.
type FormattedComparison struct {
	Area              string `json:"area"`
	TotalVolume       string `json:"total_volume"`
	RetailVolume      string `json:"retail_volume"`
	OfficeVolume      string `json:"office_volume"`
	ResidentialVolume string `json:"residential_volume"`
}

func formatComparison(c analytics.Comparison) FormattedComparison {
	return FormattedComparison{
		Area:              analytics.FormatDelta(c.Current.Area, c.New.Area),
		TotalVolume:       analytics.FormatDelta(c.Current.TotalVolume, c.New.TotalVolume),
		RetailVolume:      analytics.FormatDelta(c.Current.RetailVolume, c.New.RetailVolume),
		OfficeVolume:      analytics.FormatDelta(c.Current.OfficeVolume, c.New.OfficeVolume),
		ResidentialVolume: analytics.FormatDelta(c.Current.ResidentialVolume, c.New.ResidentialVolume),
	}
}

// OriginalResponse is the about-building view of a baseline entry.
type OriginalResponse struct {
	Exists   bool              `json:"exists"`
	Building *BuildingResponse `json:"building,omitempty"`
	Report   *volume.Report    `json:"report,omitempty"`
}

// PickResponse is the outcome of a pick on the map.
type PickResponse struct {
	Hit      bool               `json:"hit"`
	Building *BuildingResponse  `json:"building,omitempty"`
	Pending  *building.Location `json:"pending,omitempty"`
	Marker   massing.Marker     `json:"marker"`
}

// DragUpdateResponse carries the preview of an accepted drag update.
type DragUpdateResponse struct {
	Accepted bool                  `json:"accepted"`
	Preview  *scenario.DragPreview `json:"preview,omitempty"`
}

// ReportResponse is the whole-scenario report.
type ReportResponse struct {
	scenario.Summary
	Formatted  FormattedComparison `json:"formatted"`
	MaxStories int                 `json:"max_stories,omitempty"`
}

// ChangesResponse lists the edited buildings.
type ChangesResponse struct {
	Count int           `json:"count"`
	IDs   []building.ID `json:"ids"`
}

func (s *Server) buildings() []BuildingResponse {
	return lo.Map(s.store.Entries(), func(e scenario.Entry, _ int) BuildingResponse {
		return newBuildingResponse(e, s.store.IsChanged(e.ID))
	})
}

func (s *Server) editResponse(e scenario.Edit) EditResponse {
	var available map[string]int
	if s.store.MaxStories() > 0 {
		available = make(map[string]int, len(building.UseTypes))
		for _, u := range building.UseTypes {
			if n, err := s.store.AvailableStories(e.Entry.ID, u); err == nil {
				available[string(u)] = n
			}
		}
	}
	return EditResponse{
		Building:   newBuildingResponse(e.Entry, e.Changed),
		Stack:      e.Stack,
		Marker:     e.Marker,
		Comparison: e.Comparison,
		Formatted:  formatComparison(e.Comparison),
		MaxStories: max(s.store.MaxStories(), 0),
		Available:  available,
	}
}
