// Package building defines the canonical per-building record used by the
// scenario store, the massing engine and the volume calculator, and
// normalizes raw feature records into it.
package building

import (
	"fmt"
	"math"
)

// ID identifies a building across the baseline and scenario sets.
type ID string

// Story holds the story count of one use-type and the stacked height it
// derives. Height is always Count times the use-type's floor height.
type Story struct {
	Count  int     `json:"count" yaml:"count"`
	Height float64 `json:"height" yaml:"height"`
}

func newStory(u UseType, count int) Story {
	return Story{Count: count, Height: float64(count) * u.FloorHeight()}
}

// Attributes is the canonical attribute set of one building.
// Width and Depth are meters, Angle is degrees.
type Attributes struct {
	ID        ID      `json:"id" yaml:"id"`
	PinNumber *string `json:"pin_number,omitempty" yaml:"pin_number,omitempty"`
	Zoning    *string `json:"zoning,omitempty" yaml:"zoning,omitempty"`
	ParcelID  *string `json:"parcel_id,omitempty" yaml:"parcel_id,omitempty"`

	Width float64 `json:"width" yaml:"width"`
	Depth float64 `json:"depth" yaml:"depth"`
	Angle float64 `json:"angle" yaml:"angle"`

	Retail      Story `json:"retail" yaml:"retail"`
	Office      Story `json:"office" yaml:"office"`
	Residential Story `json:"residential" yaml:"residential"`
}

// New builds attributes from story counts, deriving every story height.
func New(id ID, width, depth, angle float64, retail, office, residential int) (Attributes, error) {
	a := Attributes{
		ID:          id,
		Width:       width,
		Depth:       depth,
		Angle:       angle,
		Retail:      newStory(Retail, retail),
		Office:      newStory(Office, office),
		Residential: newStory(Residential, residential),
	}
	if err := a.check(); err != nil {
		return Attributes{}, err
	}
	return a, nil
}

// Story returns the story record of the given use-type.
func (a Attributes) Story(u UseType) Story {
	switch u {
	case Retail:
		return a.Retail
	case Office:
		return a.Office
	case Residential:
		return a.Residential
	default:
		return Story{}
	}
}

func (a *Attributes) setStory(u UseType, count int) {
	s := newStory(u, count)
	switch u {
	case Retail:
		a.Retail = s
	case Office:
		a.Office = s
	case Residential:
		a.Residential = s
	}
}

// TotalStories returns the story count summed over all use-types.
func (a Attributes) TotalStories() int {
	return a.Retail.Count + a.Office.Count + a.Residential.Count
}

// TotalHeight returns the full stack height in meters.
func (a Attributes) TotalHeight() float64 {
	return a.Retail.Height + a.Office.Height + a.Residential.Height
}

// Clone returns a deep copy that shares no mutable state with a.
func (a Attributes) Clone() Attributes {
	c := a
	c.PinNumber = cloneString(a.PinNumber)
	c.Zoning = cloneString(a.Zoning)
	c.ParcelID = cloneString(a.ParcelID)
	return c
}

// Equal reports whether a and b hold identical values, descriptive fields included.
func (a Attributes) Equal(b Attributes) bool {
	return a.ID == b.ID &&
		equalString(a.PinNumber, b.PinNumber) &&
		equalString(a.Zoning, b.Zoning) &&
		equalString(a.ParcelID, b.ParcelID) &&
		a.SameMassing(b)
}

// SameMassing reports whether a and b have the same footprint, heading and
// story counts. These are the fields scenario edits can change.
func (a Attributes) SameMassing(b Attributes) bool {
	return a.Width == b.Width &&
		a.Depth == b.Depth &&
		a.Angle == b.Angle &&
		a.Retail.Count == b.Retail.Count &&
		a.Office.Count == b.Office.Count &&
		a.Residential.Count == b.Residential.Count
}

// With returns a copy of a with field set to value. The story height of a
// story field is derived in the same step. a is never modified.
func (a Attributes) With(field Field, value float64) (Attributes, error) {
	c := a.Clone()
	switch field {
	case FieldWidth, FieldDepth:
		if err := checkDimension(string(field), value); err != nil {
			return Attributes{}, err
		}
		if field == FieldWidth {
			c.Width = value
		} else {
			c.Depth = value
		}
	case FieldAngle:
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return Attributes{}, fmt.Errorf("%w: angle %v", ErrInvalidDimension, value)
		}
		c.Angle = value
	case FieldRetail, FieldOffice, FieldResidential:
		count, err := storyCount(string(field), value)
		if err != nil {
			return Attributes{}, err
		}
		c.setStory(field.UseType(), count)
	default:
		return Attributes{}, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return c, nil
}

// Validate checks dimensions, story counts, the derived story heights and
// the total story cap. maxStories <= 0 disables the cap.
func (a Attributes) Validate(maxStories int) error {
	if err := a.check(); err != nil {
		return err
	}
	for _, u := range UseTypes {
		s := a.Story(u)
		if s.Height != newStory(u, s.Count).Height {
			return fmt.Errorf("%w: %s height %v does not match %d stories", ErrInvalidStoryCount, u, s.Height, s.Count)
		}
	}
	if maxStories > 0 && a.TotalStories() > maxStories {
		return fmt.Errorf("%w: %d stories exceeds the maximum of %d", ErrInvalidStoryCount, a.TotalStories(), maxStories)
	}
	return nil
}

func (a Attributes) check() error {
	if err := checkDimension("width", a.Width); err != nil {
		return err
	}
	if err := checkDimension("depth", a.Depth); err != nil {
		return err
	}
	if math.IsNaN(a.Angle) || math.IsInf(a.Angle, 0) {
		return fmt.Errorf("%w: angle %v", ErrInvalidDimension, a.Angle)
	}
	for _, u := range UseTypes {
		if c := a.Story(u).Count; c < 0 {
			return fmt.Errorf("%w: %s %d", ErrInvalidStoryCount, u, c)
		}
	}
	return nil
}

func checkDimension(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return fmt.Errorf("%w: %s %v", ErrInvalidDimension, name, v)
	}
	return nil
}

func storyCount(name string, v float64) (int, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 || v != math.Trunc(v) {
		return 0, fmt.Errorf("%w: %s %v", ErrInvalidStoryCount, name, v)
	}
	return int(v), nil
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func equalString(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
