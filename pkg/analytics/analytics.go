// Package analytics aggregates per-building volume reports into scenario
// totals and compares baseline and scenario figures.
package analytics

import (
	"math"

	"github.com/samber/lo"

	"github.com/CORaleigh/NextCenturyCities/pkg/building"
	"github.com/CORaleigh/NextCenturyCities/pkg/volume"
)

// Totals sums the reports of a set of buildings. As the result of Diff the
// figures are signed.
type Totals struct {
	Buildings         int   `json:"buildings"`
	Area              int64 `json:"area"`
	TotalVolume       int64 `json:"total_volume"`
	RetailVolume      int64 `json:"retail_volume"`
	OfficeVolume      int64 `json:"office_volume"`
	ResidentialVolume int64 `json:"residential_volume"`
}

// Volume returns the summed volume of the given use-type.
func (t Totals) Volume(u building.UseType) int64 {
	switch u {
	case building.Retail:
		return t.RetailVolume
	case building.Office:
		return t.OfficeVolume
	case building.Residential:
		return t.ResidentialVolume
	default:
		return 0
	}
}

// Aggregate sums every non-nil report. Nil entries are buildings whose
// report has not been computed yet; they are skipped rather than counted as
// zero.
func Aggregate(reports []*volume.Report) Totals {
	present := lo.Filter(reports, func(r *volume.Report, _ int) bool { return r != nil })

	return Totals{
		Buildings:         len(present),
		Area:              lo.SumBy(present, func(r *volume.Report) int64 { return r.Area }),
		TotalVolume:       lo.SumBy(present, func(r *volume.Report) int64 { return r.TotalVolume }),
		RetailVolume:      lo.SumBy(present, func(r *volume.Report) int64 { return r.RetailVolume }),
		OfficeVolume:      lo.SumBy(present, func(r *volume.Report) int64 { return r.OfficeVolume }),
		ResidentialVolume: lo.SumBy(present, func(r *volume.Report) int64 { return r.ResidentialVolume }),
	}
}

// FromReport lifts a single report into totals.
func FromReport(r volume.Report) Totals {
	return Aggregate([]*volume.Report{&r})
}

// Delta returns b - a.
func Delta(a, b int64) int64 {
	return b - a
}

// Diff returns the signed per-metric change from a to b.
func Diff(a, b Totals) Totals {
	return Totals{
		Buildings:         b.Buildings - a.Buildings,
		Area:              Delta(a.Area, b.Area),
		TotalVolume:       Delta(a.TotalVolume, b.TotalVolume),
		RetailVolume:      Delta(a.RetailVolume, b.RetailVolume),
		OfficeVolume:      Delta(a.OfficeVolume, b.OfficeVolume),
		ResidentialVolume: Delta(a.ResidentialVolume, b.ResidentialVolume),
	}
}

// PercentageShare returns part as a percentage of whole, clamped to
// [0, 100]. A zero whole yields 0.
func PercentageShare(part, whole int64) float64 {
	if whole == 0 {
		return 0
	}
	p := float64(part) / float64(whole) * 100
	return math.Max(0, math.Min(100, p))
}

// Share is the use-type breakdown of a total volume, in percent.
type Share struct {
	Retail      float64 `json:"retail"`
	Office      float64 `json:"office"`
	Residential float64 `json:"residential"`
}

// Shares breaks the total volume down by use-type, rounded to one decimal.
func Shares(t Totals) Share {
	return Share{
		Retail:      round1(PercentageShare(t.RetailVolume, t.TotalVolume)),
		Office:      round1(PercentageShare(t.OfficeVolume, t.TotalVolume)),
		Residential: round1(PercentageShare(t.ResidentialVolume, t.TotalVolume)),
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
