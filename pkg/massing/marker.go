package massing

import (
	"github.com/CORaleigh/NextCenturyCities/pkg/building"
	"github.com/CORaleigh/NextCenturyCities/pkg/units"
)

// Marker is the floating selection marker shown above the selected building,
// together with the facts its popup displays.
type Marker struct {
	BuildingID building.ID `json:"building_id,omitempty"`
	X          float64     `json:"x"`
	Y          float64     `json:"y"`
	Z          float64     `json:"z"`
	PinNumber  string      `json:"pin_number,omitempty"`
	Zoning     string      `json:"zoning,omitempty"`
}

// MarkerFor places the marker at the stack's total height in feet plus the
// fixed offset.
func MarkerFor(a building.Attributes, loc building.Location) Marker {
	m := Marker{
		BuildingID: a.ID,
		X:          loc.X,
		Y:          loc.Y,
		Z:          units.ToFeet(a.TotalHeight()) + units.MarkerOffset,
	}
	if a.PinNumber != nil {
		m.PinNumber = *a.PinNumber
	}
	if a.Zoning != nil {
		m.Zoning = *a.Zoning
	}
	return m
}

// GroundMarker marks a picked spot of bare ground.
func GroundMarker(x, y float64) Marker {
	return Marker{X: x, Y: y, Z: units.MarkerOffset}
}
