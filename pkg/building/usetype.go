package building

import "github.com/CORaleigh/NextCenturyCities/pkg/units"

// UseType identifies what a story is used for.
type UseType string

const (
	Retail      UseType = "retail"
	Office      UseType = "office"
	Residential UseType = "residential"
)

// UseTypes lists every use-type in vertical stacking order, bottom to top.
var UseTypes = []UseType{Retail, Office, Residential}

// FloorHeight returns the fixed height of one story of this use-type in meters.
func (u UseType) FloorHeight() float64 {
	switch u {
	case Retail:
		return units.RetailFloorHeight
	case Office:
		return units.OfficeFloorHeight
	case Residential:
		return units.ResidentialFloorHeight
	default:
		return 0
	}
}

// Valid reports whether u is one of the known use-types.
func (u UseType) Valid() bool {
	switch u {
	case Retail, Office, Residential:
		return true
	}
	return false
}
