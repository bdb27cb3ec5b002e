package scenario

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/CORaleigh/NextCenturyCities/pkg/analytics"
	"github.com/CORaleigh/NextCenturyCities/pkg/building"
	"github.com/CORaleigh/NextCenturyCities/pkg/geo"
	"github.com/CORaleigh/NextCenturyCities/pkg/massing"
	"github.com/CORaleigh/NextCenturyCities/pkg/units"
	"github.com/CORaleigh/NextCenturyCities/pkg/volume"
)

// Edit is the outcome of a committed mutation: the updated entry, its
// regenerated stack and marker, and the comparison against its baseline.
type Edit struct {
	Entry      Entry                 `json:"entry"`
	Stack      []massing.FloorVolume `json:"stack"`
	Marker     massing.Marker        `json:"marker"`
	Comparison analytics.Comparison  `json:"comparison"`
	Changed    bool                  `json:"changed"`
}

// Report returns the entry's cached report.
func (e Edit) Report() volume.Report {
	if e.Entry.Report == nil {
		return volume.Report{}
	}
	return *e.Entry.Report
}

// UpdateAttribute sets one massing field of building id. The story height
// of a story field, the floor stack, the report and the change set are all
// updated in the same step; on error nothing changes.
func (s *Store) UpdateAttribute(id building.ID, field building.Field, value float64) (Edit, error) {
	e := s.scenario.get(id)
	if e == nil {
		return Edit{}, fmt.Errorf("%w: %s", ErrUnknownBuildingID, id)
	}
	a, err := e.Attributes.With(field, value)
	if err != nil {
		s.logger.Debug("edit rejected", "id", id, "field", field, "value", value, "error", err)
		return Edit{}, fmt.Errorf("building %s: %w", id, err)
	}
	if err := a.Validate(s.maxStories); err != nil {
		s.logger.Debug("edit rejected", "id", id, "field", field, "value", value, "error", err)
		return Edit{}, fmt.Errorf("building %s: %w", id, err)
	}
	return s.commit(e, a, e.Location)
}

// Translate moves building id by (dx, dy). The report is unaffected but the
// change set is recomputed.
func (s *Store) Translate(id building.ID, dx, dy float64) (Edit, error) {
	e := s.scenario.get(id)
	if e == nil {
		return Edit{}, fmt.Errorf("%w: %s", ErrUnknownBuildingID, id)
	}
	if !finite(dx) || !finite(dy) {
		return Edit{}, fmt.Errorf("building %s: %w: translation (%v, %v)", id, building.ErrInvalidDimension, dx, dy)
	}
	return s.commit(e, e.Attributes, e.Location.Translate(dx, dy))
}

// commit regenerates the stack, recomputes the report and only then writes
// attributes, location and report back to e.
func (s *Store) commit(e *Entry, a building.Attributes, loc building.Location) (Edit, error) {
	stack, err := massing.RegenerateStack(a, loc)
	if err != nil {
		return Edit{}, fmt.Errorf("building %s: %w", e.ID, err)
	}
	r := volume.Compute(a)

	e.Attributes = a
	e.Location = loc
	e.Report = &r
	s.refresh(e.ID)

	return s.edit(e, stack), nil
}

func (s *Store) edit(e *Entry, stack []massing.FloorVolume) Edit {
	var baseline *volume.Report
	if b := s.baseline.get(e.ID); b != nil {
		baseline = b.Report
	}
	return Edit{
		Entry:      e.Clone(),
		Stack:      stack,
		Marker:     massing.MarkerFor(e.Attributes, e.Location),
		Comparison: analytics.Compare(baseline, *e.Report),
		Changed:    s.changes.Contains(e.ID),
	}
}

// Stack regenerates the floor stack and marker of building id.
func (s *Store) Stack(id building.ID) (Edit, error) {
	e := s.scenario.get(id)
	if e == nil {
		return Edit{}, fmt.Errorf("%w: %s", ErrUnknownBuildingID, id)
	}
	stack, err := massing.RegenerateStack(e.Attributes, e.Location)
	if err != nil {
		return Edit{}, fmt.Errorf("building %s: %w", id, err)
	}
	if e.Report == nil {
		r := volume.Compute(e.Attributes)
		e.Report = &r
	}
	return s.edit(e, stack), nil
}

// RevertToOriginal restores building id to its baseline. A created
// building has no baseline and is removed instead; the returned flag is
// false in that case.
func (s *Store) RevertToOriginal(id building.ID) (Entry, bool, error) {
	e := s.scenario.get(id)
	if e == nil {
		return Entry{}, false, fmt.Errorf("%w: %s", ErrUnknownBuildingID, id)
	}

	if s.selected == id {
		s.selected = ""
	}
	if s.drag.id == id {
		s.drag = dragState{}
	}
	s.changes.Remove(id)

	b := s.baseline.get(id)
	if b == nil {
		s.scenario.remove(id)
		s.logger.Info("created building removed", "id", id)
		return Entry{}, false, nil
	}
	restored := b.Clone()
	*e = restored
	s.logger.Info("building reverted", "id", id)
	return restored.Clone(), true, nil
}

// SelectByID makes building id the current selection.
func (s *Store) SelectByID(id building.ID) (Entry, error) {
	e := s.scenario.get(id)
	if e == nil {
		return Entry{}, fmt.Errorf("%w: %s", ErrUnknownBuildingID, id)
	}
	s.selected = id
	s.pending = nil
	return e.Clone(), nil
}

// SelectByLocation selects the topmost building whose footprint contains
// (x, y). On bare ground the selection is cleared, the point becomes the
// pending location for CreateBuilding and ErrNoBuildingHere is returned.
func (s *Store) SelectByLocation(x, y float64) (Entry, error) {
	if !finite(x) || !finite(y) {
		return Entry{}, fmt.Errorf("%w: pick (%v, %v)", building.ErrInvalidDimension, x, y)
	}
	pt := geo.Pt(x, y)
	entries := s.scenario.entries()
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		a := e.Attributes
		fp := geo.Footprint(geo.Pt(e.Location.X, e.Location.Y), a.Width, a.Depth, a.Angle)
		if fp.Contains(pt) {
			return s.SelectByID(e.ID)
		}
	}

	s.selected = ""
	s.pending = &building.Location{X: x, Y: y}
	return Entry{}, fmt.Errorf("%w: (%v, %v)", ErrNoBuildingHere, x, y)
}

// Selection returns the currently selected entry.
func (s *Store) Selection() (Entry, bool) {
	if s.selected == "" {
		return Entry{}, false
	}
	return s.Entry(s.selected)
}

// ClearSelection drops the current selection and any pending location.
func (s *Store) ClearSelection() {
	s.selected = ""
	s.pending = nil
}

// PendingLocation returns the bare-ground point picked last, if any.
func (s *Store) PendingLocation() (building.Location, bool) {
	if s.pending == nil {
		return building.Location{}, false
	}
	return *s.pending, true
}

// CreateBuilding inserts a building with no baseline at the pending
// location and selects it. An empty name gets a generated id.
func (s *Store) CreateBuilding(name string) (Edit, error) {
	if s.pending == nil {
		return Edit{}, ErrNoPendingLocation
	}
	id := building.ID(name)
	if name == "" {
		id = building.ID(uuid.NewString())
	}
	if s.scenario.get(id) != nil || s.baseline.get(id) != nil {
		return Edit{}, fmt.Errorf("%w: %s", ErrDuplicateBuildingID, id)
	}

	a, err := building.New(id, units.NewBuildingWidth, units.NewBuildingDepth, 0,
		units.NewBuildingStories, units.NewBuildingStories, units.NewBuildingStories)
	if err != nil {
		return Edit{}, err
	}
	if err := a.Validate(s.maxStories); err != nil {
		return Edit{}, fmt.Errorf("building %s: %w", id, err)
	}
	loc := *s.pending
	stack, err := massing.RegenerateStack(a, loc)
	if err != nil {
		return Edit{}, fmt.Errorf("building %s: %w", id, err)
	}

	e := newEntry(a, loc)
	s.scenario.add(e)
	s.refresh(id)
	s.selected = id
	s.pending = nil
	s.logger.Info("building created", "id", id, "x", loc.X, "y", loc.Y)
	return s.edit(e, stack), nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
