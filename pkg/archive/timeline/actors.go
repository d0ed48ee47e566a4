package timeline

import (
	"sort"

	"github.com/entrhq/chronicle/pkg/types"
)

// ActorPoint is one observed actor status.
type ActorPoint struct {
	// Turn is the turn the status was observed on.
	Turn int `yaml:"turn" json:"turn"`

	// Status is the actor's status at that turn.
	Status types.ActorStatus `yaml:"status" json:"status"`
}

// ActorHistory tracks a bounded status window per actor. Actors enter the
// history the first time a snapshot or delta mentions them; there is no
// registration step.
type ActorHistory struct {
	window int
	actors map[string][]ActorPoint
}

// NewActorHistory creates a history retaining at most window points per actor.
// A non-positive window falls back to 32.
func NewActorHistory(window int) *ActorHistory {
	if window <= 0 {
		window = 32
	}
	return &ActorHistory{
		window: window,
		actors: make(map[string][]ActorPoint),
	}
}

// Observe records the status of one actor at the given turn.
func (h *ActorHistory) Observe(turn int, id string, status types.ActorStatus) {
	points := append(h.actors[id], ActorPoint{Turn: turn, Status: status})
	if len(points) > h.window {
		points = append(points[:0], points[1:]...)
	}
	h.actors[id] = points
}

// ObserveAll records statuses for every actor in the map.
func (h *ActorHistory) ObserveAll(turn int, statuses map[string]types.ActorStatus) {
	for id, status := range statuses {
		h.Observe(turn, id, status)
	}
}

// Latest returns the most recent known status of every tracked actor.
func (h *ActorHistory) Latest() map[string]types.ActorStatus {
	out := make(map[string]types.ActorStatus, len(h.actors))
	for id, points := range h.actors {
		out[id] = points[len(points)-1].Status
	}
	return out
}

// History returns a copy of one actor's retained window, oldest first.
// The second return is false for an actor never observed.
func (h *ActorHistory) History(id string) ([]ActorPoint, bool) {
	points, ok := h.actors[id]
	if !ok {
		return nil, false
	}
	return append([]ActorPoint(nil), points...), true
}

// IDs returns the tracked actor IDs in sorted order.
func (h *ActorHistory) IDs() []string {
	ids := make([]string, 0, len(h.actors))
	for id := range h.actors {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Restore replaces the history for one actor, keeping only the newest points
// that fit the window.
func (h *ActorHistory) Restore(id string, points []ActorPoint) {
	if len(points) == 0 {
		return
	}
	if len(points) > h.window {
		points = points[len(points)-h.window:]
	}
	h.actors[id] = append([]ActorPoint(nil), points...)
}
