package scenario

import "errors"

var (
	// ErrUnknownBuildingID is returned when an operation names an id that is
	// not in the scenario set.
	ErrUnknownBuildingID = errors.New("unknown building id")

	// ErrInvalidSampleSize is returned when a load asks for more buildings
	// than the source returned, or for a negative count.
	ErrInvalidSampleSize = errors.New("invalid sample size")

	// ErrNoBuildingHere is returned by SelectByLocation when the picked
	// point is bare ground.
	ErrNoBuildingHere = errors.New("no building here")

	// ErrNoPendingLocation is returned by CreateBuilding when no ground
	// location was picked first.
	ErrNoPendingLocation = errors.New("no pending location")

	// ErrDuplicateBuildingID is returned when a created building would reuse
	// an existing id.
	ErrDuplicateBuildingID = errors.New("duplicate building id")

	// ErrNotDragging is returned by drag updates outside a drag gesture.
	ErrNotDragging = errors.New("no drag in progress")
)
