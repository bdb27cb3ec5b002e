// Package volume computes the area and volume metrics of a single building.
package volume

import (
	"github.com/CORaleigh/NextCenturyCities/pkg/building"
	"github.com/CORaleigh/NextCenturyCities/pkg/units"
)

// Report holds the footprint area (ft²) and volumes (ft³) of one building.
type Report struct {
	Area              int64 `json:"area"`
	TotalVolume       int64 `json:"total_volume"`
	RetailVolume      int64 `json:"retail_volume"`
	OfficeVolume      int64 `json:"office_volume"`
	ResidentialVolume int64 `json:"residential_volume"`
}

// Compute derives the report from width, depth and the three story heights.
// Footprint sides are rounded to whole feet before the area is taken.
// The building location plays no part.
func Compute(a building.Attributes) Report {
	area := units.Round(units.ToFeet(a.Width)) * units.Round(units.ToFeet(a.Depth))
	totalHeight := units.ToFeet(a.Retail.Height + a.Office.Height + a.Residential.Height)

	return Report{
		Area:              int64(units.Round(area)),
		TotalVolume:       int64(units.Round(area * totalHeight)),
		RetailVolume:      int64(units.Round(units.ToFeet(a.Retail.Height) * area)),
		OfficeVolume:      int64(units.Round(units.ToFeet(a.Office.Height) * area)),
		ResidentialVolume: int64(units.Round(units.ToFeet(a.Residential.Height) * area)),
	}
}

// Volume returns the volume of the given use-type.
func (r Report) Volume(u building.UseType) int64 {
	switch u {
	case building.Retail:
		return r.RetailVolume
	case building.Office:
		return r.OfficeVolume
	case building.Residential:
		return r.ResidentialVolume
	default:
		return 0
	}
}
