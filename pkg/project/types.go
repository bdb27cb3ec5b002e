package project

import (
	"fmt"
	"time"
)

// Project is a scenario project file.
type Project struct {
	Name       string    `yaml:"name" json:"name"`
	Source     SourceDef `yaml:"source" json:"source"`
	SampleSize int       `yaml:"sample_size" json:"sample_size"`
	Seed       uint64    `yaml:"seed" json:"seed"`
	MaxStories int       `yaml:"max_stories" json:"max_stories"`

	// Dir is the directory the project was loaded from. Relative source
	// files resolve against it.
	Dir string `yaml:"-" json:"-"`
}

// SourceDef names where buildings come from: a local feature file or a
// feature service layer.
type SourceDef struct {
	File      string   `yaml:"file,omitempty" json:"file,omitempty"`
	URL       string   `yaml:"url,omitempty" json:"url,omitempty"`
	Where     string   `yaml:"where,omitempty" json:"where,omitempty"`
	OutFields []string `yaml:"out_fields,omitempty" json:"out_fields,omitempty"`
	Timeout   string   `yaml:"timeout,omitempty" json:"timeout,omitempty"`
}

// TimeoutDuration parses Timeout. An empty timeout is zero.
func (s SourceDef) TimeoutDuration() (time.Duration, error) {
	if s.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s.Timeout)
	if err != nil {
		return 0, fmt.Errorf("source.timeout: %w", err)
	}
	return d, nil
}
