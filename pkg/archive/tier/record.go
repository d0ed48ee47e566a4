package tier

import (
	"github.com/entrhq/chronicle/pkg/types"
)

// Kind identifies the storage form of a turn record.
type Kind string

const (
	// KindFull records carry a complete state snapshot.
	KindFull Kind = "full"
	// KindDelta records carry only the change relative to the prior turn.
	KindDelta Kind = "delta"
)

// TurnRecord is one recorded turn. Records are immutable once placed;
// demotion produces a new record rather than mutating in place.
type TurnRecord struct {
	// TurnNumber is the 1-based turn this record describes.
	TurnNumber int

	// Kind is the storage form (full snapshot or delta).
	Kind Kind

	// State is the full snapshot. Set only while Kind is KindFull.
	State *types.TurnState

	// Delta is the change-only representation. Always set for KindDelta
	// records; for KindFull records it holds the caller-supplied delta
	// (if any) so demotion does not have to reconstruct one.
	Delta *types.TurnDelta
}

// NewFullRecord creates a full-snapshot record. The delta may be nil on the
// first turn of a session, where no prior state exists to diff against.
func NewFullRecord(turn int, state *types.TurnState, delta *types.TurnDelta) TurnRecord {
	return TurnRecord{
		TurnNumber: turn,
		Kind:       KindFull,
		State:      state.Clone(),
		Delta:      delta.Clone(),
	}
}

// NewDeltaRecord creates a delta-only record.
func NewDeltaRecord(turn int, delta *types.TurnDelta) TurnRecord {
	return TurnRecord{
		TurnNumber: turn,
		Kind:       KindDelta,
		Delta:      delta.Clone(),
	}
}

// Demote converts a full record into its delta form, dropping the snapshot.
// If no caller-supplied delta exists the delta is synthesized from the
// snapshot so no turn ever becomes unobservable to compaction.
// Demoting a delta record returns it unchanged.
func (r TurnRecord) Demote() TurnRecord {
	if r.Kind == KindDelta {
		return r
	}
	delta := r.Delta
	if delta == nil {
		delta = types.DeltaFromState(r.State)
	}
	return TurnRecord{
		TurnNumber: r.TurnNumber,
		Kind:       KindDelta,
		Delta:      delta,
	}
}

// EstimatedSize returns an approximate serialized footprint in bytes.
// The estimate is deterministic and cheap; it is used for the memory
// ceiling and instrumentation, not for exact accounting.
func (r TurnRecord) EstimatedSize() int {
	size := recordOverhead
	if r.State != nil {
		size += sizeOfState(r.State)
	}
	if r.Delta != nil {
		size += sizeOfDelta(r.Delta)
	}
	return size
}

const (
	recordOverhead  = 32
	summaryOverhead = 48
	actorOverhead   = 24
	entryOverhead   = 16
)

func sizeOfState(s *types.TurnState) int {
	size := entryOverhead + len(s.Location) + len(s.Scene)
	size += sizeOfActors(s.Actors)
	size += len(s.Resources) * entryOverhead
	return size
}

func sizeOfDelta(d *types.TurnDelta) int {
	size := entryOverhead + len(d.Location)
	for _, ev := range d.Events {
		size += entryOverhead + len(ev.Description) + len(ev.Tags)*entryOverhead
	}
	size += sizeOfActors(d.Actors)
	size += len(d.Resources) * entryOverhead
	return size
}

func sizeOfActors(actors map[string]types.ActorStatus) int {
	size := 0
	for id, status := range actors {
		size += actorOverhead + len(id) + len(status.Condition) + len(status.Location)
	}
	return size
}
