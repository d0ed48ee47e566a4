package types

// ArchiveEventType defines the type of observability event emitted by an archive.
type ArchiveEventType string

const (
	EventTypeCompaction      ArchiveEventType = "compaction"       // EventTypeCompaction indicates a run of records was summarized.
	EventTypeSummaryMerge    ArchiveEventType = "summary_merge"    // EventTypeSummaryMerge indicates two summaries were merged under size pressure.
	EventTypeRecentOverflow  ArchiveEventType = "recent_overflow"  // EventTypeRecentOverflow indicates the recent band overflowed and forced an early compaction.
	EventTypeContextInjected ArchiveEventType = "context_injected" // EventTypeContextInjected indicates a history block was composed for prompt injection.
)

// ArchiveEvent is an observability event emitted by an archive during turn
// recording or compaction. Events report soft degradation and cadence; they
// never carry errors, since structural failures are returned to the caller.
type ArchiveEvent struct {
	// Type indicates the kind of event.
	Type ArchiveEventType

	// TurnRange is the inclusive [start, end] range of turns involved.
	TurnRange [2]int

	// Records is the number of turn records consumed (compaction events).
	Records int

	// Summaries is the number of summaries live after the operation.
	Summaries int

	// BytesBefore is the estimated archive size before the operation.
	BytesBefore int

	// BytesAfter is the estimated archive size after the operation.
	BytesAfter int

	// Tokens is the token length of the composed block (injection events).
	Tokens int
}

// NewCompactionEvent creates a compaction event for the given turn range.
func NewCompactionEvent(start, end, records, summaries int) *ArchiveEvent {
	return &ArchiveEvent{
		Type:      EventTypeCompaction,
		TurnRange: [2]int{start, end},
		Records:   records,
		Summaries: summaries,
	}
}

// NewSummaryMergeEvent creates a summary merge event for the merged range.
func NewSummaryMergeEvent(start, end, summaries, bytesBefore, bytesAfter int) *ArchiveEvent {
	return &ArchiveEvent{
		Type:        EventTypeSummaryMerge,
		TurnRange:   [2]int{start, end},
		Summaries:   summaries,
		BytesBefore: bytesBefore,
		BytesAfter:  bytesAfter,
	}
}

// NewRecentOverflowEvent creates a recent-band overflow event.
func NewRecentOverflowEvent(start, end, records int) *ArchiveEvent {
	return &ArchiveEvent{
		Type:      EventTypeRecentOverflow,
		TurnRange: [2]int{start, end},
		Records:   records,
	}
}

// NewContextInjectedEvent creates a context injection event for one turn.
func NewContextInjectedEvent(turn, tokens int) *ArchiveEvent {
	return &ArchiveEvent{
		Type:      EventTypeContextInjected,
		TurnRange: [2]int{turn, turn},
		Tokens:    tokens,
	}
}
