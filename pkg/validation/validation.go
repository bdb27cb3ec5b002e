// Package validation checks scenario projects and the building records they
// load, collecting findings into a Report.
package validation

import "fmt"

// Level indicates which validation stage produced the result.
type Level string

const (
	LevelProject Level = "project"
	LevelRecord  Level = "record"
	LevelSample  Level = "sample"
	LevelScene   Level = "scene"
)

// Severity indicates how critical a validation result is.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Result is a single validation finding.
type Result struct {
	Level       Level    `json:"level"`
	Severity    Severity `json:"severity"`
	Message     string   `json:"message"`
	Path        string   `json:"path"`
	ActualValue any      `json:"actual_value,omitempty"`
	Expected    string   `json:"expected,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// Report is the complete validation output.
type Report struct {
	Valid    bool     `json:"valid"`
	Errors   []Result `json:"errors"`
	Warnings []Result `json:"warnings"`
	Info     []Result `json:"info"`
	Summary  string   `json:"summary"`
}

// NewReport creates an empty valid report.
func NewReport() *Report {
	r := &Report{Valid: true, Errors: []Result{}, Warnings: []Result{}, Info: []Result{}}
	r.summarize()
	return r
}

// AddError records a finding that makes the report invalid.
func (r *Report) AddError(res Result) { r.add(SeverityError, res) }

// AddWarning records a finding that does not block a load.
func (r *Report) AddWarning(res Result) { r.add(SeverityWarning, res) }

// AddInfo records a note such as the usable record count.
func (r *Report) AddInfo(res Result) { r.add(SeverityInfo, res) }

func (r *Report) add(sev Severity, res Result) {
	res.Severity = sev
	switch sev {
	case SeverityError:
		r.Errors = append(r.Errors, res)
		r.Valid = false
	case SeverityWarning:
		r.Warnings = append(r.Warnings, res)
	default:
		r.Info = append(r.Info, res)
	}
	r.summarize()
}

// Merge appends the findings of other. A nil report is ignored.
func (r *Report) Merge(other *Report) {
	if other == nil {
		return
	}
	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
	r.Info = append(r.Info, other.Info...)
	r.Valid = r.Valid && other.Valid
	r.summarize()
}

// Err is nil for a valid report. Otherwise it names the first error, so
// callers can refuse a load with a single message.
func (r *Report) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	first := r.Errors[0]
	msg := first.Message
	if first.Path != "" {
		msg = first.Path + ": " + msg
	}
	return fmt.Errorf("%s (%s)", msg, r.Summary)
}

func (r *Report) summarize() {
	r.Summary = fmt.Sprintf("%d errors, %d warnings, %d info", len(r.Errors), len(r.Warnings), len(r.Info))
}
