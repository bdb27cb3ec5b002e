package building

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/CORaleigh/NextCenturyCities/pkg/units"
)

// Raw feature attribute names as published by the scenario feature service.
const (
	KeyFID         = "FID"
	KeyPinNumber   = "PIN_NUM"
	KeyZoning      = "ZONING"
	KeyParcelID    = "Parcel_FID"
	KeyWidth       = "Dim1"
	KeyDepth       = "Dim2"
	KeyAngle       = "Angle"
	KeyResidential = "Residen"
	KeyOffice      = "Office"
	KeyRetail      = "Retail"
)

// Point is a raw feature geometry.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z,omitempty" yaml:"z,omitempty"`
}

// RawFeature is one record returned by a data source.
type RawFeature struct {
	Attributes map[string]any `json:"attributes" yaml:"attributes"`
	Geometry   *Point         `json:"geometry,omitempty" yaml:"geometry,omitempty"`
}

// Normalize extracts the canonical attributes from a raw feature. Width,
// depth and angle are rounded to whole units and story heights are derived
// from the story counts.
func Normalize(f RawFeature) (Attributes, error) {
	if f.Attributes == nil {
		return Attributes{}, fmt.Errorf("%w: no attributes", ErrInvalidRecord)
	}

	id, err := featureID(f.Attributes[KeyFID])
	if err != nil {
		return Attributes{}, err
	}

	var dims [3]float64
	for i, key := range []string{KeyWidth, KeyDepth, KeyAngle} {
		v, err := number(f.Attributes, key)
		if err != nil {
			return Attributes{}, fmt.Errorf("feature %s: %w", id, err)
		}
		dims[i] = units.Round(v)
	}

	var counts [3]int
	for i, key := range []string{KeyRetail, KeyOffice, KeyResidential} {
		v, err := number(f.Attributes, key)
		if err != nil {
			return Attributes{}, fmt.Errorf("feature %s: %w", id, err)
		}
		c, err := storyCount(key, v)
		if err != nil {
			return Attributes{}, fmt.Errorf("feature %s: %w: %w", id, ErrInvalidRecord, err)
		}
		counts[i] = c
	}

	a, err := New(id, dims[0], dims[1], dims[2], counts[0], counts[1], counts[2])
	if err != nil {
		return Attributes{}, fmt.Errorf("feature %s: %w: %w", id, ErrInvalidRecord, err)
	}
	a.PinNumber = text(f.Attributes[KeyPinNumber])
	a.Zoning = text(f.Attributes[KeyZoning])
	a.ParcelID = text(f.Attributes[KeyParcelID])
	return a, nil
}

// Locate extracts the building location from a raw feature's geometry.
func Locate(f RawFeature) (Location, error) {
	if f.Geometry == nil {
		return Location{}, fmt.Errorf("%w: no geometry", ErrInvalidRecord)
	}
	g := f.Geometry
	for _, v := range []float64{g.X, g.Y, g.Z} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Location{}, fmt.Errorf("%w: non-finite geometry", ErrInvalidRecord)
		}
	}
	return Location{X: g.X, Y: g.Y, Z: g.Z}, nil
}

// Feature renders a back into a raw feature at location l. For attributes
// produced by Normalize, Normalize(a.Feature(l)) yields a again.
func (a Attributes) Feature(l Location) RawFeature {
	attrs := map[string]any{
		KeyFID:         string(a.ID),
		KeyWidth:       a.Width,
		KeyDepth:       a.Depth,
		KeyAngle:       a.Angle,
		KeyRetail:      a.Retail.Count,
		KeyOffice:      a.Office.Count,
		KeyResidential: a.Residential.Count,
	}
	for key, v := range map[string]*string{KeyPinNumber: a.PinNumber, KeyZoning: a.Zoning, KeyParcelID: a.ParcelID} {
		if v != nil {
			attrs[key] = *v
		}
	}
	return RawFeature{
		Attributes: attrs,
		Geometry:   &Point{X: l.X, Y: l.Y, Z: l.Z},
	}
}

func featureID(v any) (ID, error) {
	switch t := v.(type) {
	case nil:
		return "", fmt.Errorf("%w: missing %s", ErrInvalidRecord, KeyFID)
	case string:
		if t == "" {
			return "", fmt.Errorf("%w: empty %s", ErrInvalidRecord, KeyFID)
		}
		return ID(t), nil
	default:
		n, err := toFloat(v)
		if err != nil || n != math.Trunc(n) {
			return "", fmt.Errorf("%w: %s %v is not an identifier", ErrInvalidRecord, KeyFID, v)
		}
		return ID(strconv.FormatInt(int64(n), 10)), nil
	}
}

func number(attrs map[string]any, key string) (float64, error) {
	v, ok := attrs[key]
	if !ok || v == nil {
		return 0, fmt.Errorf("%w: missing %s", ErrInvalidRecord, key)
	}
	n, err := toFloat(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", ErrInvalidRecord, key, err)
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, fmt.Errorf("%w: %s is not finite", ErrInvalidRecord, key)
	}
	return n, nil
}

func toFloat(v any) (float64, error) {
	switch t := v.(type) {
	case float64:
		return t, nil
	case float32:
		return float64(t), nil
	case int:
		return float64(t), nil
	case int32:
		return float64(t), nil
	case int64:
		return float64(t), nil
	case uint64:
		return float64(t), nil
	case json.Number:
		return t.Float64()
	default:
		return 0, fmt.Errorf("unexpected type %T", v)
	}
}

func text(v any) *string {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		return &t
	case json.Number:
		s := t.String()
		return &s
	default:
		n, err := toFloat(v)
		if err == nil && n == math.Trunc(n) {
			s := strconv.FormatInt(int64(n), 10)
			return &s
		}
		s := fmt.Sprint(v)
		return &s
	}
}
