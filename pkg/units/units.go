// Package units holds the conversion factors and fixed parameters shared by
// the massing, volume and scenario packages.
package units

import "math"

// Length conversion.
const (
	FeetPerMeter  = 3.28084 // ft/m
	MetersPerFoot = 0.3048  // m/ft
)

// Floor heights per use-type, in meters.
const (
	RetailFloorHeight      = 4.5
	OfficeFloorHeight      = 3.3
	ResidentialFloorHeight = 3.3
)

// Scenario parameters.
const (
	MaxStories        = 40 // total stories across all use-types
	DefaultSampleSize = 10 // buildings sampled on load
	DragFramerate     = 60 // drag updates per second ceiling
	MarkerOffset      = 20 // selection marker height above the stack
)

// Defaults for buildings created on bare ground.
const (
	NewBuildingWidth   = 25.0 // m
	NewBuildingDepth   = 25.0 // m
	NewBuildingStories = 1    // per use-type
)

// ToFeet converts meters to feet.
func ToFeet(m float64) float64 {
	return m * FeetPerMeter
}

// ToMeters converts feet to meters.
func ToMeters(ft float64) float64 {
	return ft * MetersPerFoot
}

// Round rounds to the nearest integer with halves going up, so -45.5
// becomes -45.
func Round(v float64) float64 {
	return math.Floor(v + 0.5)
}
