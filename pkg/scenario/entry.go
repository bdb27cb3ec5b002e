package scenario

import (
	"github.com/CORaleigh/NextCenturyCities/pkg/building"
	"github.com/CORaleigh/NextCenturyCities/pkg/volume"
)

// Entry is one building of the baseline or scenario set. Report is nil
// until the building's report has been computed.
type Entry struct {
	ID         building.ID         `json:"id"`
	Attributes building.Attributes `json:"attributes"`
	Location   building.Location   `json:"location"`
	Report     *volume.Report      `json:"report,omitempty"`
}

func newEntry(a building.Attributes, loc building.Location) *Entry {
	r := volume.Compute(a)
	return &Entry{ID: a.ID, Attributes: a, Location: loc, Report: &r}
}

// Clone returns a deep copy of e.
func (e Entry) Clone() Entry {
	c := e
	c.Attributes = e.Attributes.Clone()
	if e.Report != nil {
		r := *e.Report
		c.Report = &r
	}
	return c
}

// differs reports whether the scenario entry s has moved away from its
// baseline b on any tracked field.
func differs(b, s *Entry) bool {
	if b == nil {
		return true
	}
	return !b.Attributes.SameMassing(s.Attributes) ||
		b.Location.X != s.Location.X ||
		b.Location.Y != s.Location.Y
}

// entrySet is an ordered collection of entries keyed by id.
type entrySet struct {
	order []building.ID
	byID  map[building.ID]*Entry
}

func newEntrySet(capacity int) *entrySet {
	return &entrySet{
		order: make([]building.ID, 0, capacity),
		byID:  make(map[building.ID]*Entry, capacity),
	}
}

func (s *entrySet) add(e *Entry) {
	if _, ok := s.byID[e.ID]; !ok {
		s.order = append(s.order, e.ID)
	}
	s.byID[e.ID] = e
}

func (s *entrySet) get(id building.ID) *Entry {
	if s == nil {
		return nil
	}
	return s.byID[id]
}

func (s *entrySet) remove(id building.ID) {
	if _, ok := s.byID[id]; !ok {
		return
	}
	delete(s.byID, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *entrySet) entries() []*Entry {
	if s == nil {
		return nil
	}
	out := make([]*Entry, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out
}

func (s *entrySet) clone() *entrySet {
	c := newEntrySet(len(s.order))
	for _, e := range s.entries() {
		ce := e.Clone()
		c.add(&ce)
	}
	return c
}
