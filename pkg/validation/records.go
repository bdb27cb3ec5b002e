package validation

import (
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/hashicorp/go-set/v2"

	"github.com/CORaleigh/NextCenturyCities/pkg/building"
)

// ValidateRecords checks the raw records a source returned the way a load
// would see them: each must normalize and locate, stay within maxStories
// and carry a unique id, and there must be at least sampleSize usable
// records.
func ValidateRecords(records []building.RawFeature, maxStories, sampleSize int) *Report {
	r := NewReport()

	ids := set.New[building.ID](len(records))
	zoning := set.New[string](0)
	usable := 0
	for i, f := range records {
		path := fmt.Sprintf("features[%d]", i)

		a, err := building.Normalize(f)
		if err != nil {
			r.AddError(Result{Level: LevelRecord, Message: err.Error(), Path: path})
			continue
		}
		if _, err := building.Locate(f); err != nil {
			r.AddError(Result{Level: LevelRecord, Message: err.Error(), Path: path + ".geometry"})
			continue
		}
		if !ids.Insert(a.ID) {
			r.AddError(Result{
				Level:       LevelRecord,
				Message:     fmt.Sprintf("duplicate %s %s", building.KeyFID, a.ID),
				Path:        path + "." + building.KeyFID,
				ActualValue: string(a.ID),
			})
			continue
		}
		if err := a.Validate(maxStories); err != nil {
			res := Result{Level: LevelRecord, Message: err.Error(), Path: path, ActualValue: a.TotalStories()}
			if errors.Is(err, building.ErrInvalidStoryCount) {
				res.Expected = fmt.Sprintf("<= %d stories", maxStories)
			}
			r.AddError(res)
			continue
		}

		usable++
		if a.TotalStories() == 0 {
			r.AddWarning(Result{
				Level:   LevelRecord,
				Message: fmt.Sprintf("building %s has no stories", a.ID),
				Path:    path,
			})
		}
		if a.Zoning != nil {
			zoning.Insert(*a.Zoning)
		}
	}

	if sampleSize > usable {
		r.AddError(Result{
			Level:       LevelSample,
			Message:     fmt.Sprintf("sample_size %d exceeds the %d usable records", sampleSize, usable),
			Path:        "sample_size",
			ActualValue: sampleSize,
			Expected:    fmt.Sprintf("<= %d", usable),
		})
	}
	r.AddInfo(Result{
		Level:   LevelSample,
		Message: fmt.Sprintf("%s usable records across %d zoning codes", humanize.Comma(int64(usable)), zoning.Size()),
	})
	return r
}
