// Package archive implements the turn-history archive for one narrative
// session: a tiered, memory-bounded store of everything that happened, with
// compaction into lossy summaries and a deterministic policy for surfacing
// archived history to the generation component.
//
// All operations are synchronous in-memory computation; the archive never
// touches disk or network. One archive belongs to exactly one session, whose
// orchestrator already serializes turn execution, so the archive does no
// locking of its own.
package archive

import (
	"fmt"

	"github.com/entrhq/chronicle/pkg/archive/extract"
	"github.com/entrhq/chronicle/pkg/archive/tier"
	"github.com/entrhq/chronicle/pkg/archive/timeline"
	"github.com/entrhq/chronicle/pkg/llm/tokenizer"
	"github.com/entrhq/chronicle/pkg/types"
)

// Archive is the aggregate root: it owns the tier store, the timeline
// trackers, and the event extractor, and exposes the per-turn operations the
// orchestrator calls.
type Archive struct {
	cfg       Config
	store     *tier.Store
	extractor *extract.Extractor
	threat    *timeline.ThreatTimeline
	actors    *timeline.ActorHistory
	counter   tokenizer.Counter
	eventCh   chan<- *types.ArchiveEvent
}

// New creates an empty archive for a fresh session. Zero-valued config fields
// fall back to DefaultConfig.
func New(cfg Config) *Archive {
	cfg = cfg.withDefaults()
	a := &Archive{
		cfg:       cfg,
		extractor: extract.New(cfg.MinEventLength, cfg.CriticalHealth),
		threat:    timeline.NewThreatTimeline(cfg.TimelineWindow),
		actors:    timeline.NewActorHistory(cfg.TimelineWindow),
		counter:   tokenizer.NewApproximate(),
	}
	a.store = tier.NewStore(a.tierConfig(), a.summarize)
	return a
}

func (a *Archive) tierConfig() tier.Config {
	return tier.Config{
		MaxCurrent:         a.cfg.MaxCurrent,
		MaxRecent:          a.cfg.MaxRecent,
		CompactionInterval: a.cfg.CompactionInterval,
		MaxSummaryEvents:   a.cfg.MaxSummaryEvents,
	}
}

// SetEventChannel sets the channel for observability events. Sends are
// non-blocking: a full or absent channel drops events rather than stalling
// the turn-execution hot path.
func (a *Archive) SetEventChannel(ch chan<- *types.ArchiveEvent) {
	a.eventCh = ch
}

// SetTokenCounter replaces the token counter used to size injected context.
// The default is the approximate counter; callers with a real encoding
// available pass a *tokenizer.Tokenizer.
func (a *Archive) SetTokenCounter(counter tokenizer.Counter) {
	if counter != nil {
		a.counter = counter
	}
}

func (a *Archive) emit(event *types.ArchiveEvent) {
	if a.eventCh == nil {
		return
	}
	select {
	case a.eventCh <- event:
	default:
	}
}

// RecordTurn records one completed turn. Exactly one of full and delta may be
// nil: early turns carry a full snapshot (with or without a delta), later
// turns a delta alone. Turn numbers must increase by exactly one; a violation
// returns an OrderingError and mutates nothing. When recording pushes the
// archive past MaxArchiveBytes, the oldest history degrades in place.
func (a *Archive) RecordTurn(turn int, full *types.TurnState, delta *types.TurnDelta) error {
	if turn != a.store.LastTurn()+1 {
		return &OrderingError{Last: a.store.LastTurn(), Got: turn}
	}
	if full == nil && delta == nil {
		return fmt.Errorf("archive: turn %d carries neither snapshot nor delta", turn)
	}
	if delta != nil {
		if err := delta.Validate(); err != nil {
			return fmt.Errorf("archive: turn %d: %w", turn, err)
		}
	}

	a.observe(turn, full, delta)

	var rec tier.TurnRecord
	if full != nil {
		rec = tier.NewFullRecord(turn, full, delta)
	} else {
		rec = tier.NewDeltaRecord(turn, delta)
	}

	overflow, err := a.store.Place(rec)
	if err != nil {
		return err
	}
	if overflow != nil {
		records := overflow.End() - overflow.Start() + 1
		a.emit(types.NewRecentOverflowEvent(overflow.Start(), overflow.End(), records))
	}
	if sum := a.store.MaybeCompact(); sum != nil {
		records := sum.End() - sum.Start() + 1
		a.emit(types.NewCompactionEvent(sum.Start(), sum.End(), records, len(a.store.Summaries())))
	}
	if a.store.EstimatedSize() > a.cfg.MaxArchiveBytes {
		a.Compact(a.cfg.MaxArchiveBytes)
	}
	return nil
}

// observe feeds this turn's signals to the timeline trackers. The snapshot
// provides the baseline; the delta overrides where it speaks.
func (a *Archive) observe(turn int, full *types.TurnState, delta *types.TurnDelta) {
	switch {
	case delta != nil && delta.Threat != nil:
		a.threat.Observe(turn, *delta.Threat)
	case full != nil:
		a.threat.Observe(turn, full.Threat)
	}

	if full != nil {
		a.actors.ObserveAll(turn, full.Actors)
	}
	if delta != nil {
		a.actors.ObserveAll(turn, delta.Actors)
	}
}

// summarize is the tier store's SummarizeFunc: it runs extraction over the
// consumed records in turn order, keeps the last observed status per actor,
// and stamps the block with the current threat trend.
func (a *Archive) summarize(records []tier.TurnRecord, start, end int) tier.Summary {
	var events []string
	snapshots := make(map[string]types.ActorStatus)

	for _, rec := range records {
		events = append(events, a.extractor.Extract(rec.Delta)...)

		var actors map[string]types.ActorStatus
		if rec.Delta != nil {
			actors = rec.Delta.Actors
		}
		if actors == nil && rec.State != nil {
			actors = rec.State.Actors
		}
		for id, status := range actors {
			snapshots[id] = status
		}
	}
	if len(snapshots) == 0 {
		snapshots = nil
	}

	return tier.Summary{
		TurnRange:      [2]int{start, end},
		MajorEvents:    events,
		ActorSnapshots: snapshots,
		ThreatTrend:    a.trend(),
	}
}

// trend maps the threat timeline's direction onto the summary vocabulary.
// Recomputed on every call; never cached.
func (a *Archive) trend() types.ThreatTrend {
	switch a.threat.Direction() {
	case timeline.Up:
		return types.TrendRising
	case timeline.Down:
		return types.TrendFalling
	default:
		return types.TrendStable
	}
}

// Compact enforces the memory ceiling, flushing any leftover recent-band run
// and merging the oldest summaries until the archive fits maxBytes. Current
// band records are never sacrificed. Degradation is reported through the
// event channel, never as an error.
func (a *Archive) Compact(maxBytes int) {
	flushed, merges := a.store.Compact(maxBytes)
	if flushed != nil {
		records := flushed.End() - flushed.Start() + 1
		a.emit(types.NewCompactionEvent(flushed.Start(), flushed.End(), records, len(a.store.Summaries())))
	}
	for _, m := range merges {
		a.emit(types.NewSummaryMergeEvent(m.TurnRange[0], m.TurnRange[1], len(a.store.Summaries()), m.BytesBefore, m.BytesAfter))
	}
}

// LastTurn returns the last recorded turn number, zero before any turn.
func (a *Archive) LastTurn() int {
	return a.store.LastTurn()
}

// CurrentStateSize returns the estimated footprint of the live (current plus
// recent) records, for instrumentation and backpressure decisions.
func (a *Archive) CurrentStateSize() int {
	return a.store.LiveSize()
}

// EstimatedSize returns the estimated footprint of the whole archive,
// summaries included.
func (a *Archive) EstimatedSize() int {
	return a.store.EstimatedSize()
}

// Stats is a point-in-time view of the archive's shape.
type Stats struct {
	LastTurn      int
	LiveRecords   int
	Summaries     int
	ArchivedEnd   int
	EstimatedSize int
}

// Stats returns the archive's current shape.
func (a *Archive) Stats() Stats {
	return Stats{
		LastTurn:      a.store.LastTurn(),
		LiveRecords:   a.store.LiveCount(),
		Summaries:     len(a.store.Summaries()),
		ArchivedEnd:   a.store.ArchivedEnd(),
		EstimatedSize: a.store.EstimatedSize(),
	}
}
