package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/CORaleigh/NextCenturyCities/pkg/building"
	"github.com/CORaleigh/NextCenturyCities/pkg/volume"
)

func reports() []*volume.Report {
	return []*volume.Report{
		{Area: 100, TotalVolume: 3000, RetailVolume: 1000, OfficeVolume: 0, ResidentialVolume: 2000},
		nil,
		{Area: 50, TotalVolume: 1000, RetailVolume: 0, OfficeVolume: 600, ResidentialVolume: 400},
	}
}

func TestAggregateSkipsMissing(t *testing.T) {
	got := Aggregate(reports())

	assert.Equal(t, Totals{
		Buildings:         2,
		Area:              150,
		TotalVolume:       4000,
		RetailVolume:      1000,
		OfficeVolume:      600,
		ResidentialVolume: 2400,
	}, got)
	assert.Equal(t, int64(600), got.Volume(building.Office))
}

func TestAggregateEmpty(t *testing.T) {
	assert.Equal(t, Totals{}, Aggregate(nil))
	assert.Equal(t, Totals{}, Aggregate([]*volume.Report{nil, nil}))
}

func TestDiff(t *testing.T) {
	a := Totals{Buildings: 2, Area: 150, TotalVolume: 4000}
	b := Totals{Buildings: 3, Area: 120, TotalVolume: 4500}

	d := Diff(a, b)
	assert.Equal(t, 1, d.Buildings)
	assert.Equal(t, int64(-30), d.Area)
	assert.Equal(t, int64(500), d.TotalVolume)
	assert.Equal(t, int64(0), Delta(7, 7))
}

func TestPercentageShare(t *testing.T) {
	assert.Equal(t, 0.0, PercentageShare(10, 0))
	assert.Equal(t, 25.0, PercentageShare(1, 4))
	assert.Equal(t, 100.0, PercentageShare(5, 5))
	assert.Equal(t, 0.0, PercentageShare(-5, 5))
}

func TestSharesSumToHundred(t *testing.T) {
	tot := Totals{TotalVolume: 3000, RetailVolume: 1000, OfficeVolume: 1000, ResidentialVolume: 1000}

	s := Shares(tot)
	assert.Equal(t, 33.3, s.Retail)
	assert.InDelta(t, 100, s.Retail+s.Office+s.Residential, 0.15)

	assert.Equal(t, Share{}, Shares(Totals{}))
}

func TestCompare(t *testing.T) {
	base := &volume.Report{Area: 8036, TotalVolume: 261012, OfficeVolume: 87004, ResidentialVolume: 174008}
	edited := volume.Report{Area: 8036, TotalVolume: 435020, OfficeVolume: 261012, ResidentialVolume: 174008}

	c := Compare(base, edited)
	assert.Equal(t, int64(174008), c.Diff.TotalVolume)
	assert.Equal(t, int64(0), c.Diff.Area)
	assert.Equal(t, 1, c.New.Buildings)

	fresh := Compare(nil, edited)
	assert.Equal(t, Totals{}, fresh.Current)
	assert.Equal(t, edited.TotalVolume, fresh.Diff.TotalVolume)
}

func TestFormatDelta(t *testing.T) {
	assert.Equal(t, "+174,008", FormatDelta(261012, 435020))
	assert.Equal(t, "-1,000", FormatDelta(2000, 1000))
	assert.Equal(t, "0", FormatDelta(5, 5))
	assert.Equal(t, "261,012", FormatNumber(261012))
}
