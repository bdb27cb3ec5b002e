package scenario

import (
	"fmt"
	"time"

	"github.com/CORaleigh/NextCenturyCities/pkg/building"
	"github.com/CORaleigh/NextCenturyCities/pkg/massing"
	"github.com/CORaleigh/NextCenturyCities/pkg/units"
)

// DragInterval is the minimum spacing of accepted drag updates.
const DragInterval = time.Second / units.DragFramerate

// DragPhase is the state of the drag gesture.
type DragPhase int

const (
	Idle DragPhase = iota
	Dragging
)

func (p DragPhase) String() string {
	if p == Dragging {
		return "dragging"
	}
	return "idle"
}

type dragState struct {
	phase  DragPhase
	id     building.ID
	dx, dy float64
}

// DragPreview is the provisional placement of a building during a drag.
// Nothing is committed until EndDrag.
type DragPreview struct {
	ID       building.ID           `json:"id"`
	DX       float64               `json:"dx"`
	DY       float64               `json:"dy"`
	Location building.Location     `json:"location"`
	Stack    []massing.FloorVolume `json:"stack"`
	Marker   massing.Marker        `json:"marker"`
}

// Drag returns the current phase and the building being dragged.
func (s *Store) Drag() (DragPhase, building.ID) {
	return s.drag.phase, s.drag.id
}

// StartDrag begins dragging building id and selects it. A stale gesture
// left by an earlier start is discarded.
func (s *Store) StartDrag(id building.ID) (Entry, error) {
	e, err := s.SelectByID(id)
	if err != nil {
		return Entry{}, err
	}
	s.drag = dragState{phase: Dragging, id: id}
	return e, nil
}

// UpdateDrag records the cumulative offset (dx, dy) from the drag origin.
// Updates arriving faster than DragInterval after the last accepted one
// are dropped and reported with ok == false.
func (s *Store) UpdateDrag(dx, dy float64) (preview DragPreview, ok bool, err error) {
	if s.drag.phase != Dragging {
		return DragPreview{}, false, ErrNotDragging
	}
	if !finite(dx) || !finite(dy) {
		return DragPreview{}, false, fmt.Errorf("%w: drag offset (%v, %v)", building.ErrInvalidDimension, dx, dy)
	}
	now := s.now()
	if !s.lastDrag.IsZero() && now.Sub(s.lastDrag) < DragInterval {
		return DragPreview{}, false, nil
	}

	e := s.scenario.get(s.drag.id)
	if e == nil {
		s.drag = dragState{}
		return DragPreview{}, false, fmt.Errorf("%w: %s", ErrUnknownBuildingID, s.drag.id)
	}
	loc := e.Location.Translate(dx, dy)
	stack, err := massing.RegenerateStack(e.Attributes, loc)
	if err != nil {
		return DragPreview{}, false, fmt.Errorf("building %s: %w", e.ID, err)
	}

	s.lastDrag = now
	s.drag.dx, s.drag.dy = dx, dy
	return DragPreview{
		ID:       e.ID,
		DX:       dx,
		DY:       dy,
		Location: loc,
		Stack:    stack,
		Marker:   massing.MarkerFor(e.Attributes, loc),
	}, true, nil
}

// EndDrag commits the last accepted offset as a Translate and returns the
// gesture to Idle.
func (s *Store) EndDrag() (Edit, error) {
	if s.drag.phase != Dragging {
		return Edit{}, ErrNotDragging
	}
	d := s.drag
	s.drag = dragState{}
	return s.Translate(d.id, d.dx, d.dy)
}

// AbortDrag drops any gesture in progress without committing it. Call it
// when the view that owned the gesture goes away.
func (s *Store) AbortDrag() {
	s.drag = dragState{}
}
