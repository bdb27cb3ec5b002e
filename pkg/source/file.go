package source

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/CORaleigh/NextCenturyCities/pkg/building"
)

// FileSource reads features from a YAML or JSON feature set on disk.
type FileSource struct {
	Path string
}

// NewFileSource creates a file source reading path.
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

// Query reads the file on every call and applies filter and fields.
func (s *FileSource) Query(ctx context.Context, filter string, fields []string, wantGeometry bool) ([]building.RawFeature, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	where, err := parseFilter(filter)
	if err != nil {
		return nil, err
	}
	set, err := ReadFeatureSet(s.Path)
	if err != nil {
		return nil, err
	}

	out := make([]building.RawFeature, 0, len(set.Features))
	for _, f := range set.Features {
		if where.match(f) {
			out = append(out, project(f, fields, wantGeometry))
		}
	}
	return out, nil
}

// ReadFeatureSet loads a feature set file. JSON files parse as YAML.
func ReadFeatureSet(path string) (*FeatureSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading feature file: %w", err)
	}
	var set FeatureSet
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %w", ErrInvalidResponse, path, err)
	}
	for i, f := range set.Features {
		if f.Attributes == nil {
			return nil, fmt.Errorf("%w: %s: feature %d has no attributes", ErrInvalidResponse, path, i)
		}
	}
	return &set, nil
}
