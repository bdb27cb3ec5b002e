package validation

import (
	"fmt"
	"net/url"
	"os"

	"github.com/CORaleigh/NextCenturyCities/pkg/project"
	"github.com/CORaleigh/NextCenturyCities/pkg/units"
)

// ValidateProject checks a loaded project file before any data is fetched.
func ValidateProject(p *project.Project) *Report {
	r := NewReport()

	validateSource(p, r)
	validateSampling(p, r)

	return r
}

func validateSource(p *project.Project, r *Report) {
	src := p.Source
	switch {
	case src.File == "" && src.URL == "":
		r.AddError(Result{
			Level:       LevelProject,
			Message:     "source must name a feature file or a feature service url",
			Path:        "source",
			Suggestions: []string{"Set source.file to a YAML or JSON feature set", "Set source.url to a FeatureServer layer"},
		})
		return
	case src.File != "" && src.URL != "":
		r.AddError(Result{
			Level:   LevelProject,
			Message: "source.file and source.url are mutually exclusive",
			Path:    "source",
		})
		return
	}

	if src.File != "" {
		if _, err := os.Stat(p.SourcePath()); err != nil {
			r.AddError(Result{
				Level:       LevelProject,
				Message:     fmt.Sprintf("feature file is not readable: %v", err),
				Path:        "source.file",
				ActualValue: src.File,
			})
		}
	}

	if src.URL != "" {
		u, err := url.Parse(src.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			r.AddError(Result{
				Level:       LevelProject,
				Message:     "source.url must be an absolute http(s) url",
				Path:        "source.url",
				ActualValue: src.URL,
			})
		}
		if _, err := src.TimeoutDuration(); err != nil {
			r.AddError(Result{
				Level:       LevelProject,
				Message:     err.Error(),
				Path:        "source.timeout",
				ActualValue: src.Timeout,
				Expected:    "a duration such as 30s",
			})
		}
	} else if src.Timeout != "" {
		r.AddWarning(Result{
			Level:   LevelProject,
			Message: "source.timeout only applies to feature service sources",
			Path:    "source.timeout",
		})
	}
}

func validateSampling(p *project.Project, r *Report) {
	if p.SampleSize < 0 {
		r.AddError(Result{
			Level:       LevelProject,
			Message:     "sample_size must not be negative",
			Path:        "sample_size",
			ActualValue: p.SampleSize,
			Expected:    ">= 0",
		})
	}
	if p.MaxStories > units.MaxStories {
		r.AddWarning(Result{
			Level:       LevelProject,
			Message:     fmt.Sprintf("max_stories %d is above the zoning maximum of %d", p.MaxStories, units.MaxStories),
			Path:        "max_stories",
			ActualValue: p.MaxStories,
		})
	}
	if p.Seed != 0 {
		r.AddInfo(Result{
			Level:   LevelProject,
			Message: fmt.Sprintf("sampling is reproducible with seed %d", p.Seed),
			Path:    "seed",
		})
	}
}
