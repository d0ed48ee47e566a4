// Package extract decides which events from a run of turn deltas survive
// compaction. Extraction is stateless and deterministic: the same deltas with
// the same settings always yield the same event list, in source order.
package extract

import (
	"fmt"
	"sort"

	"github.com/entrhq/chronicle/pkg/types"
)

// Extractor selects major events from turn deltas.
type Extractor struct {
	// MinLength is the description length at which an untagged event is
	// considered substantial enough to preserve.
	MinLength int

	// CriticalHealth is the health level at or below which an actor status
	// change is reported as a derived event.
	CriticalHealth int
}

// New creates an extractor. Non-positive settings fall back to defaults
// (minimum length 40, critical health 25).
func New(minLength, criticalHealth int) *Extractor {
	if minLength <= 0 {
		minLength = 40
	}
	if criticalHealth <= 0 {
		criticalHealth = 25
	}
	return &Extractor{MinLength: minLength, CriticalHealth: criticalHealth}
}

// Extract returns the major events of one delta, in the order the delta lists
// them. An event survives when it carries a significant tag or its description
// meets the minimum length. Actor status changes crossing the critical health
// boundary yield derived events after the delta's own.
func (e *Extractor) Extract(delta *types.TurnDelta) []string {
	if delta == nil {
		return nil
	}

	var events []string
	for _, ev := range delta.Events {
		if ev.Tagged() || len(ev.Description) >= e.MinLength {
			events = append(events, ev.Description)
		}
	}
	for _, id := range sortedActorIDs(delta.Actors) {
		status := delta.Actors[id]
		if status.Health <= e.CriticalHealth {
			events = append(events, fmt.Sprintf("%s critically injured (health %d)", id, status.Health))
		}
	}
	return events
}

func sortedActorIDs(actors map[string]types.ActorStatus) []string {
	ids := make([]string, 0, len(actors))
	for id := range actors {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ExtractAll runs extraction over a run of deltas, oldest first, and
// concatenates the results.
func (e *Extractor) ExtractAll(deltas []*types.TurnDelta) []string {
	var events []string
	for _, delta := range deltas {
		events = append(events, e.Extract(delta)...)
	}
	return events
}
