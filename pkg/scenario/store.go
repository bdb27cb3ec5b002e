// Package scenario owns the baseline and scenario building sets of one
// planning session, tracks which buildings were edited, and applies edits
// atomically.
//
// A Store is single-threaded. Callers that share one across goroutines must
// serialize access themselves.
package scenario

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/hashicorp/go-set/v2"
	"github.com/samber/lo"

	"github.com/CORaleigh/NextCenturyCities/pkg/analytics"
	"github.com/CORaleigh/NextCenturyCities/pkg/building"
	"github.com/CORaleigh/NextCenturyCities/pkg/units"
	"github.com/CORaleigh/NextCenturyCities/pkg/volume"
)

// Querier is the data source a Store loads from.
type Querier interface {
	Query(ctx context.Context, filter string, fields []string, wantGeometry bool) ([]building.RawFeature, error)
}

// Options configures a Store.
type Options struct {
	// Logger receives store events. Nil discards them.
	Logger *slog.Logger
	// MaxStories caps the total story count of every building.
	// Zero means units.MaxStories; a negative value disables the cap.
	MaxStories int
	// Seed seeds the sampler. Zero seeds from the clock.
	Seed uint64
	// Clock drives the drag throttle. Nil means time.Now.
	Clock func() time.Time
}

// Store holds one session's baseline and scenario sets.
type Store struct {
	logger     *slog.Logger
	maxStories int
	rng        *rand.Rand
	now        func() time.Time

	baseline *entrySet
	scenario *entrySet
	changes  *set.Set[building.ID]

	selected building.ID
	pending  *building.Location

	drag     dragState
	lastDrag time.Time
}

// New returns an empty store.
func New(opts Options) *Store {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	maxStories := opts.MaxStories
	if maxStories == 0 {
		maxStories = units.MaxStories
	}
	seed := opts.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Store{
		logger:     logger.With("component", "scenario"),
		maxStories: maxStories,
		rng:        rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		now:        clock,
		baseline:   newEntrySet(0),
		scenario:   newEntrySet(0),
		changes:    set.New[building.ID](0),
	}
}

// MaxStories returns the story cap applied to every building, or a value
// <= 0 when the cap is disabled.
func (s *Store) MaxStories() int {
	return s.maxStories
}

// Load samples k distinct records, normalizes each of them once per set and
// replaces both sets. Only the sampled records are checked; a malformed
// one aborts the load and leaves the store as it was.
func (s *Store) Load(records []building.RawFeature, k int) error {
	if k < 0 || k > len(records) {
		return fmt.Errorf("%w: %d of %d records", ErrInvalidSampleSize, k, len(records))
	}

	picks := s.rng.Perm(len(records))[:k]
	baseline := newEntrySet(k)
	scenario := newEntrySet(k)
	for _, i := range picks {
		b, err := s.normalize(records[i])
		if err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
		if baseline.get(b.ID) != nil {
			return fmt.Errorf("record %d: %w: duplicate %s %s", i, building.ErrInvalidRecord, building.KeyFID, b.ID)
		}
		sc, err := s.normalize(records[i])
		if err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
		baseline.add(b)
		scenario.add(sc)
	}

	s.baseline = baseline
	s.scenario = scenario
	s.clearSession()
	s.logger.Info("scenario loaded", "records", len(records), "sampled", k)
	return nil
}

// LoadFrom queries q and loads a sample of k of the returned records.
func (s *Store) LoadFrom(ctx context.Context, q Querier, filter string, fields []string, k int) error {
	records, err := q.Query(ctx, filter, fields, true)
	if err != nil {
		return fmt.Errorf("querying buildings: %w", err)
	}
	return s.Load(records, k)
}

func (s *Store) normalize(f building.RawFeature) (*Entry, error) {
	a, err := building.Normalize(f)
	if err != nil {
		return nil, err
	}
	if err := a.Validate(s.maxStories); err != nil {
		return nil, fmt.Errorf("feature %s: %w: %w", a.ID, building.ErrInvalidRecord, err)
	}
	loc, err := building.Locate(f)
	if err != nil {
		return nil, fmt.Errorf("feature %s: %w", a.ID, err)
	}
	return newEntry(a, loc), nil
}

// ResetAll discards every scenario edit and created building.
func (s *Store) ResetAll() {
	s.scenario = s.baseline.clone()
	s.clearSession()
	s.logger.Info("scenario reset", "buildings", len(s.scenario.order))
}

func (s *Store) clearSession() {
	s.changes = set.New[building.ID](0)
	s.selected = ""
	s.pending = nil
	s.drag = dragState{}
}

// Entries returns copies of the scenario entries in load order, created
// buildings last.
func (s *Store) Entries() []Entry {
	return lo.Map(s.scenario.entries(), func(e *Entry, _ int) Entry { return e.Clone() })
}

// BaselineEntries returns copies of the baseline entries in load order.
func (s *Store) BaselineEntries() []Entry {
	return lo.Map(s.baseline.entries(), func(e *Entry, _ int) Entry { return e.Clone() })
}

// Entry returns a copy of the scenario entry for id.
func (s *Store) Entry(id building.ID) (Entry, bool) {
	e := s.scenario.get(id)
	if e == nil {
		return Entry{}, false
	}
	return e.Clone(), true
}

// Original returns a copy of the baseline entry for id. Created buildings
// have none.
func (s *Store) Original(id building.ID) (Entry, bool) {
	e := s.baseline.get(id)
	if e == nil {
		return Entry{}, false
	}
	return e.Clone(), true
}

// Changes returns the ids of the edited buildings in sorted order.
func (s *Store) Changes() []building.ID {
	ids := s.changes.Slice()
	slices.Sort(ids)
	return ids
}

// IsChanged reports whether id differs from its baseline.
func (s *Store) IsChanged(id building.ID) bool {
	return s.changes.Contains(id)
}

// refresh recomputes the change set membership of id from full equality
// with its baseline.
func (s *Store) refresh(id building.ID) {
	e := s.scenario.get(id)
	if e == nil || !differs(s.baseline.get(id), e) {
		s.changes.Remove(id)
		return
	}
	s.changes.Insert(id)
}

// AvailableStories returns how many stories of use-type u the building can
// hold given its other use-types and the story cap. Without a cap it
// returns math.MaxInt.
func (s *Store) AvailableStories(id building.ID, u building.UseType) (int, error) {
	e := s.scenario.get(id)
	if e == nil {
		return 0, fmt.Errorf("%w: %s", ErrUnknownBuildingID, id)
	}
	if !u.Valid() {
		return 0, fmt.Errorf("%w: use-type %q", building.ErrUnknownField, u)
	}
	if s.maxStories <= 0 {
		return math.MaxInt, nil
	}
	others := e.Attributes.TotalStories() - e.Attributes.Story(u).Count
	return max(s.maxStories-others, 0), nil
}

// BaselineTotals sums the cached reports of the baseline set.
func (s *Store) BaselineTotals() analytics.Totals {
	return analytics.Aggregate(reports(s.baseline))
}

// ScenarioTotals sums the cached reports of the scenario set.
func (s *Store) ScenarioTotals() analytics.Totals {
	return analytics.Aggregate(reports(s.scenario))
}

// Summary compares the scenario totals with the baseline totals.
func (s *Store) Summary() Summary {
	cmp := analytics.CompareTotals(s.BaselineTotals(), s.ScenarioTotals())
	return Summary{
		Comparison:     cmp,
		BaselineShares: analytics.Shares(cmp.Current),
		ScenarioShares: analytics.Shares(cmp.New),
		Changed:        s.changes.Size(),
	}
}

// Summary is the whole-scenario report shown next to the building editor.
type Summary struct {
	analytics.Comparison
	BaselineShares analytics.Share `json:"baseline_shares"`
	ScenarioShares analytics.Share `json:"scenario_shares"`
	Changed        int             `json:"changed"`
}

func reports(es *entrySet) []*volume.Report {
	return lo.Map(es.entries(), func(e *Entry, _ int) *volume.Report { return e.Report })
}
