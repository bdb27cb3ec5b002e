// Package source provides the building data sources a scenario loads from:
// local feature files and remote feature service layers.
package source

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/CORaleigh/NextCenturyCities/pkg/building"
)

// ErrInvalidResponse is returned when a data source answers with something
// that is not a feature set.
var ErrInvalidResponse = errors.New("invalid feature response")

// Source returns raw building features. filter is a where clause, fields
// the attribute names to return ("*" or none for all).
type Source interface {
	Query(ctx context.Context, filter string, fields []string, wantGeometry bool) ([]building.RawFeature, error)
}

// FeatureSet is the on-disk and on-wire layout of a list of features.
type FeatureSet struct {
	Features []building.RawFeature `json:"features" yaml:"features"`
}

// project keeps only the named attributes of f, and drops the geometry
// unless wanted. The feature id is always kept.
func project(f building.RawFeature, fields []string, wantGeometry bool) building.RawFeature {
	out := building.RawFeature{Attributes: f.Attributes}
	if wantGeometry && f.Geometry != nil {
		g := *f.Geometry
		out.Geometry = &g
	}
	if allFields(fields) {
		return out
	}
	out.Attributes = make(map[string]any, len(fields)+1)
	for _, k := range append([]string{building.KeyFID}, fields...) {
		if v, ok := f.Attributes[k]; ok {
			out.Attributes[k] = v
		}
	}
	return out
}

func allFields(fields []string) bool {
	return len(fields) == 0 || (len(fields) == 1 && strings.TrimSpace(fields[0]) == "*")
}

// clause is a parsed where clause. Only "1=1" and single equality
// comparisons are understood.
type clause struct {
	key, value string
}

func parseFilter(filter string) (*clause, error) {
	f := strings.TrimSpace(filter)
	if f == "" || strings.ReplaceAll(f, " ", "") == "1=1" {
		return nil, nil
	}
	key, value, ok := strings.Cut(f, "=")
	key = strings.TrimSpace(key)
	value = strings.Trim(strings.TrimSpace(value), "'\"")
	if !ok || key == "" || strings.ContainsAny(key, " <>!") {
		return nil, fmt.Errorf("unsupported filter %q", filter)
	}
	return &clause{key: key, value: value}, nil
}

func (c *clause) match(f building.RawFeature) bool {
	if c == nil {
		return true
	}
	v, ok := f.Attributes[c.key]
	return ok && v != nil && fmt.Sprint(v) == c.value
}
