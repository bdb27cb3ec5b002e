// Package project loads scenario project files.
package project

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/CORaleigh/NextCenturyCities/pkg/building"
	"github.com/CORaleigh/NextCenturyCities/pkg/source"
	"github.com/CORaleigh/NextCenturyCities/pkg/units"
)

// FileName is the project file looked up in a project directory.
const FileName = "scenario.yaml"

// DefaultFields are the attributes requested from a feature service.
var DefaultFields = []string{
	building.KeyFID, building.KeyPinNumber, building.KeyZoning, building.KeyParcelID,
	building.KeyWidth, building.KeyDepth, building.KeyAngle,
	building.KeyResidential, building.KeyOffice, building.KeyRetail,
}

// Load reads a project from a YAML file and fills in defaults.
func Load(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading project file: %w", err)
	}

	var p Project
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing project YAML: %w", err)
	}
	p.Dir = filepath.Dir(path)
	p.applyDefaults()
	return &p, nil
}

// LoadProject loads a project from a project directory.
// It looks for scenario.yaml in the given directory.
func LoadProject(projectDir string) (*Project, error) {
	return Load(filepath.Join(projectDir, FileName))
}

func (p *Project) applyDefaults() {
	if p.SampleSize == 0 {
		p.SampleSize = units.DefaultSampleSize
	}
	if p.MaxStories == 0 {
		p.MaxStories = units.MaxStories
	}
	if p.Source.Where == "" {
		p.Source.Where = "1=1"
	}
	if len(p.Source.OutFields) == 0 {
		p.Source.OutFields = DefaultFields
	}
}

// SourcePath returns the feature file path resolved against the project
// directory.
func (p *Project) SourcePath() string {
	if p.Source.File == "" || filepath.IsAbs(p.Source.File) {
		return p.Source.File
	}
	return filepath.Join(p.Dir, p.Source.File)
}

// OpenSource builds the data source the project names.
func (p *Project) OpenSource(logger *slog.Logger) (source.Source, error) {
	switch {
	case p.Source.File != "" && p.Source.URL != "":
		return nil, errors.New("source: set either file or url, not both")
	case p.Source.File != "":
		return source.NewFileSource(p.SourcePath()), nil
	case p.Source.URL != "":
		timeout, err := p.Source.TimeoutDuration()
		if err != nil {
			return nil, err
		}
		return source.NewFeatureServer(p.Source.URL, timeout, logger), nil
	default:
		return nil, errors.New("source: no file or url configured")
	}
}
