package tier

import (
	"fmt"
)

// SummarizeFunc builds a Summary from a contiguous run of records covering
// turns [start, end]. Records arrive oldest first. Implementations must be
// deterministic; the store calls them on the turn-execution hot path.
type SummarizeFunc func(records []TurnRecord, start, end int) Summary

// Config holds the tier store's tuning parameters. Zero values are replaced
// with documented defaults; see DefaultConfig in the archive package for the
// full set used by the facade.
type Config struct {
	// MaxCurrent is the size of the current (full-record) band.
	MaxCurrent int

	// MaxRecent is the size of the recent (delta-record) band.
	MaxRecent int

	// CompactionInterval is the block length for scheduled compaction:
	// after every interval-th turn the completed block is summarized.
	CompactionInterval int

	// MaxSummaryEvents caps major events kept when summaries are merged.
	MaxSummaryEvents int
}

func (c Config) withDefaults() Config {
	if c.MaxCurrent <= 0 {
		c.MaxCurrent = 6
	}
	if c.MaxRecent <= 0 {
		c.MaxRecent = 10
	}
	if c.CompactionInterval <= 0 {
		c.CompactionInterval = 10
	}
	if c.MaxSummaryEvents <= 0 {
		c.MaxSummaryEvents = 12
	}
	return c
}

// OrderingError reports a Place call whose turn number is not exactly one
// greater than the last recorded turn. It indicates a caller bug; the store
// is left unmodified.
type OrderingError struct {
	// Last is the last turn number successfully recorded.
	Last int

	// Got is the turn number of the rejected record.
	Got int
}

func (e *OrderingError) Error() string {
	return fmt.Sprintf("tier: turn %d out of order (last recorded %d, want %d)", e.Got, e.Last, e.Last+1)
}

// MergeInfo describes one summary merge performed under size pressure.
type MergeInfo struct {
	// TurnRange is the inclusive range covered by the merged summary.
	TurnRange [2]int

	// BytesBefore is the estimated store size before the merge.
	BytesBefore int

	// BytesAfter is the estimated store size after the merge.
	BytesAfter int
}

// Store holds the three retention bands and owns the compaction policy that
// moves data between them. It is not safe for concurrent use; each store
// belongs to exactly one session whose turns are already serialized.
type Store struct {
	cfg       Config
	summarize SummarizeFunc

	// Bands are ordered oldest first. Every live record's turn number is
	// strictly greater than archivedEnd.
	current   []TurnRecord
	recent    []TurnRecord
	summaries []Summary

	lastTurn    int
	archivedEnd int
}

// NewStore creates an empty tier store. The summarize function is invoked
// whenever a run of records is compacted into a summary.
func NewStore(cfg Config, summarize SummarizeFunc) *Store {
	return &Store{
		cfg:       cfg.withDefaults(),
		summarize: summarize,
	}
}

// Place inserts a record for the next turn. The record enters the current
// band; the eviction it may cause demotes the oldest current record into the
// recent band, and a recent-band overflow forces an early compaction of the
// oldest block. The returned summary is non-nil only in that overflow case.
func (s *Store) Place(rec TurnRecord) (*Summary, error) {
	if rec.TurnNumber != s.lastTurn+1 {
		return nil, &OrderingError{Last: s.lastTurn, Got: rec.TurnNumber}
	}

	s.current = append(s.current, rec)
	s.lastTurn = rec.TurnNumber

	if len(s.current) > s.cfg.MaxCurrent {
		evicted := s.current[0]
		s.current = append(s.current[:0], s.current[1:]...)
		s.recent = append(s.recent, evicted.Demote())
	}

	if len(s.recent) > s.cfg.MaxRecent {
		return s.compactOldestRecent(), nil
	}
	return nil, nil
}

// compactOldestRecent summarizes the oldest compaction-interval-sized run of
// the recent band. Called when the band overflows between scheduled
// boundaries (interval larger than the live-record budget).
func (s *Store) compactOldestRecent() *Summary {
	n := s.cfg.CompactionInterval
	if n > len(s.recent) {
		n = len(s.recent)
	}
	run := s.recent[:n]
	start := s.archivedEnd + 1
	end := run[n-1].TurnNumber

	summary := s.summarize(run, start, end)
	s.summaries = append(s.summaries, summary)
	s.recent = append([]TurnRecord(nil), s.recent[n:]...)
	s.archivedEnd = end
	return &summary
}

// MaybeCompact performs scheduled compaction: when the last recorded turn
// completes a compaction-interval block, every record in the block is
// summarized and discarded. Re-invoking after a block is archived is a no-op,
// which is what makes compaction idempotent per turn range.
func (s *Store) MaybeCompact() *Summary {
	if s.lastTurn == 0 || s.lastTurn%s.cfg.CompactionInterval != 0 {
		return nil
	}
	if s.archivedEnd == s.lastTurn {
		return nil
	}

	records := make([]TurnRecord, 0, len(s.recent)+len(s.current))
	records = append(records, s.recent...)
	records = append(records, s.current...)

	start := s.archivedEnd + 1
	summary := s.summarize(records, start, s.lastTurn)
	s.summaries = append(s.summaries, summary)
	s.recent = nil
	s.current = nil
	s.archivedEnd = s.lastTurn
	return &summary
}

// Compact enforces the memory ceiling. Any remaining recent-band run is first
// flushed into a summary (the end-of-session partial block), then the two
// oldest summaries are merged repeatedly until the estimated size fits
// maxBytes or a single summary remains. Current-band records are never
// touched: current-band fidelity is the one guarantee compaction will not
// trade away. Compact never fails; worst case it degrades detail.
func (s *Store) Compact(maxBytes int) (*Summary, []MergeInfo) {
	var flushed *Summary
	if len(s.recent) > 0 {
		run := s.recent
		start := s.archivedEnd + 1
		end := run[len(run)-1].TurnNumber
		summary := s.summarize(run, start, end)
		s.summaries = append(s.summaries, summary)
		s.recent = nil
		s.archivedEnd = end
		flushed = &summary
	}

	var merges []MergeInfo
	for maxBytes > 0 && s.EstimatedSize() > maxBytes && len(s.summaries) > 1 {
		before := s.EstimatedSize()
		merged := MergeSummaries(s.summaries[0], s.summaries[1], s.cfg.MaxSummaryEvents)
		s.summaries = append([]Summary{merged}, s.summaries[2:]...)
		merges = append(merges, MergeInfo{
			TurnRange:   merged.TurnRange,
			BytesBefore: before,
			BytesAfter:  s.EstimatedSize(),
		})
	}
	return flushed, merges
}

// EstimatedSize returns the approximate serialized footprint of all bands.
func (s *Store) EstimatedSize() int {
	size := 0
	for _, rec := range s.current {
		size += rec.EstimatedSize()
	}
	for _, rec := range s.recent {
		size += rec.EstimatedSize()
	}
	for _, sum := range s.summaries {
		size += sum.EstimatedSize()
	}
	return size
}

// LiveSize returns the approximate footprint of the current and recent bands
// only (the live, unsummarized records).
func (s *Store) LiveSize() int {
	size := 0
	for _, rec := range s.current {
		size += rec.EstimatedSize()
	}
	for _, rec := range s.recent {
		size += rec.EstimatedSize()
	}
	return size
}

// LastTurn returns the highest turn number recorded.
func (s *Store) LastTurn() int { return s.lastTurn }

// ArchivedEnd returns the highest turn number covered by a summary.
func (s *Store) ArchivedEnd() int { return s.archivedEnd }

// LiveCount returns the number of retained full and delta records.
func (s *Store) LiveCount() int { return len(s.current) + len(s.recent) }

// CurrentBand returns a copy of the current band, oldest first.
func (s *Store) CurrentBand() []TurnRecord {
	return append([]TurnRecord(nil), s.current...)
}

// RecentBand returns a copy of the recent band, oldest first.
func (s *Store) RecentBand() []TurnRecord {
	return append([]TurnRecord(nil), s.recent...)
}

// Summaries returns a copy of the archived summaries, oldest first.
func (s *Store) Summaries() []Summary {
	return append([]Summary(nil), s.summaries...)
}

// RestoreStore rebuilds a store from previously exported bands. It validates
// that the bands and summary ranges partition [1, lastTurn] with no gap or
// overlap; any violation returns an error and no store.
func RestoreStore(cfg Config, summarize SummarizeFunc, current, recent []TurnRecord, summaries []Summary, lastTurn int) (*Store, error) {
	next := 1
	for i, sum := range summaries {
		if sum.Start() != next || sum.End() < sum.Start() {
			return nil, fmt.Errorf("tier: summary %d covers [%d,%d], want start %d", i, sum.Start(), sum.End(), next)
		}
		next = sum.End() + 1
	}
	archivedEnd := next - 1
	for _, rec := range recent {
		if rec.TurnNumber != next {
			return nil, fmt.Errorf("tier: recent record for turn %d, want %d", rec.TurnNumber, next)
		}
		next++
	}
	for _, rec := range current {
		if rec.TurnNumber != next {
			return nil, fmt.Errorf("tier: current record for turn %d, want %d", rec.TurnNumber, next)
		}
		next++
	}
	if next != lastTurn+1 {
		return nil, fmt.Errorf("tier: bands cover [1,%d], want [1,%d]", next-1, lastTurn)
	}

	return &Store{
		cfg:         cfg.withDefaults(),
		summarize:   summarize,
		current:     append([]TurnRecord(nil), current...),
		recent:      append([]TurnRecord(nil), recent...),
		summaries:   append([]Summary(nil), summaries...),
		lastTurn:    lastTurn,
		archivedEnd: archivedEnd,
	}, nil
}
