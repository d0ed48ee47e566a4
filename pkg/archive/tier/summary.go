package tier

import (
	"github.com/entrhq/chronicle/pkg/types"
)

// Summary is the archived form of a contiguous run of turns. Building a
// summary is the lossy step: the source records are discarded afterwards and
// only the fields here survive. Summaries are immutable once built.
type Summary struct {
	// TurnRange is the inclusive [start, end] range of turns covered.
	TurnRange [2]int

	// MajorEvents lists preserved event descriptions in the order their
	// source turns occurred.
	MajorEvents []string

	// ActorSnapshots maps actor ID to the last status observed within the
	// covered range.
	ActorSnapshots map[string]types.ActorStatus

	// ThreatTrend is the threat direction over the covered range.
	ThreatTrend types.ThreatTrend
}

// Start returns the first turn covered by the summary.
func (s Summary) Start() int { return s.TurnRange[0] }

// End returns the last turn covered by the summary.
func (s Summary) End() int { return s.TurnRange[1] }

// EstimatedSize returns an approximate serialized footprint in bytes.
func (s Summary) EstimatedSize() int {
	size := summaryOverhead
	for _, ev := range s.MajorEvents {
		size += entryOverhead + len(ev)
	}
	size += sizeOfActors(s.ActorSnapshots)
	return size
}

// MergeSummaries combines two adjacent summaries into one covering the union
// of their ranges. Major events keep source order with the oldest dropped
// first once maxEvents is exceeded; actor snapshots come from whichever
// summary is newer per actor; the trend of the later summary wins.
func MergeSummaries(older, newer Summary, maxEvents int) Summary {
	events := make([]string, 0, len(older.MajorEvents)+len(newer.MajorEvents))
	events = append(events, older.MajorEvents...)
	events = append(events, newer.MajorEvents...)
	if maxEvents > 0 && len(events) > maxEvents {
		events = append([]string(nil), events[len(events)-maxEvents:]...)
	}

	snapshots := make(map[string]types.ActorStatus, len(older.ActorSnapshots)+len(newer.ActorSnapshots))
	for id, status := range older.ActorSnapshots {
		snapshots[id] = status
	}
	for id, status := range newer.ActorSnapshots {
		snapshots[id] = status
	}

	trend := newer.ThreatTrend
	if trend == "" {
		trend = older.ThreatTrend
	}

	return Summary{
		TurnRange:      [2]int{older.Start(), newer.End()},
		MajorEvents:    events,
		ActorSnapshots: snapshots,
		ThreatTrend:    trend,
	}
}
