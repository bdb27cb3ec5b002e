package analytics

import (
	"github.com/dustin/go-humanize"

	"github.com/CORaleigh/NextCenturyCities/pkg/volume"
)

// Comparison holds the baseline figures of a building or scenario, the
// edited figures and the change between them.
type Comparison struct {
	Current Totals `json:"current"`
	New     Totals `json:"new"`
	Diff    Totals `json:"diff"`
}

// Compare compares one building's baseline report with its scenario report.
// A building without a baseline is compared against zero.
func Compare(baseline *volume.Report, scenario volume.Report) Comparison {
	var current Totals
	if baseline != nil {
		current = FromReport(*baseline)
	}
	updated := FromReport(scenario)
	return Comparison{Current: current, New: updated, Diff: Diff(current, updated)}
}

// CompareTotals compares baseline and scenario totals.
func CompareTotals(baseline, scenario Totals) Comparison {
	return Comparison{Current: baseline, New: scenario, Diff: Diff(baseline, scenario)}
}

// FormatNumber renders n with thousands separators.
func FormatNumber(n int64) string {
	return humanize.Comma(n)
}

// FormatDelta renders b - a with thousands separators and a leading "+"
// when positive.
func FormatDelta(a, b int64) string {
	d := Delta(a, b)
	if d > 0 {
		return "+" + humanize.Comma(d)
	}
	return humanize.Comma(d)
}
