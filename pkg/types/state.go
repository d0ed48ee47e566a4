package types

import "fmt"

// DeltaSchemaVersion is the current version of the TurnDelta schema.
// Bump when a field is added whose absence changes extraction behavior.
const DeltaSchemaVersion = 1

// ThreatTrend describes the direction of the threat level over a window of turns.
type ThreatTrend string

const (
	TrendRising  ThreatTrend = "rising"  // TrendRising indicates the threat level is climbing.
	TrendStable  ThreatTrend = "stable"  // TrendStable indicates no meaningful change in threat.
	TrendFalling ThreatTrend = "falling" // TrendFalling indicates the threat level is receding.
)

// EventTag marks a delta event as narratively significant regardless of its
// description length. Tags are assigned by the rule engine that produced the delta.
type EventTag string

const (
	TagStructureDestroyed EventTag = "structure_destroyed" // TagStructureDestroyed records the loss of a structure or stronghold.
	TagActorCritical      EventTag = "actor_critical"      // TagActorCritical records an actor crossing a critical status boundary.
	TagActorDown          EventTag = "actor_down"          // TagActorDown records an actor being incapacitated or killed.
	TagDiscovery          EventTag = "discovery"           // TagDiscovery records a significant find (location, item, information).
	TagAllianceShift      EventTag = "alliance_shift"      // TagAllianceShift records a faction changing allegiance.
	TagObjectiveComplete  EventTag = "objective_complete"  // TagObjectiveComplete records a story objective being resolved.
)

// significantTags is the set of tags that force an event to be preserved
// through compaction.
var significantTags = map[EventTag]bool{
	TagStructureDestroyed: true,
	TagActorCritical:      true,
	TagActorDown:          true,
	TagDiscovery:          true,
	TagAllianceShift:      true,
	TagObjectiveComplete:  true,
}

// IsSignificant reports whether the tag marks a major event.
func (t EventTag) IsSignificant() bool {
	return significantTags[t]
}

// ActorStatus is the per-actor status block carried by snapshots and deltas.
type ActorStatus struct {
	// Health is the actor's current health. The critical boundary is a
	// tuning parameter of the archive, not a property of this type.
	Health int `yaml:"health" json:"health"`

	// Morale is the actor's current morale.
	Morale int `yaml:"morale" json:"morale"`

	// Condition is a short free-text status label ("wounded", "steady").
	Condition string `yaml:"condition,omitempty" json:"condition,omitempty"`

	// Location is the actor's current location, if tracked.
	Location string `yaml:"location,omitempty" json:"location,omitempty"`
}

// DeltaEvent is one narrative happening within a turn.
type DeltaEvent struct {
	// Description is the narrative text of the event.
	Description string `yaml:"description" json:"description"`

	// Tags mark the event as significant for compaction.
	Tags []EventTag `yaml:"tags,omitempty" json:"tags,omitempty"`
}

// Tagged reports whether any of the event's tags is significant.
func (e DeltaEvent) Tagged() bool {
	for _, tag := range e.Tags {
		if tag.IsSignificant() {
			return true
		}
	}
	return false
}

// TurnState is a complete snapshot of game state at the end of a turn.
type TurnState struct {
	// Threat is the global threat level in [0, 1].
	Threat float64 `yaml:"threat" json:"threat"`

	// Location is the party's current location.
	Location string `yaml:"location,omitempty" json:"location,omitempty"`

	// Scene is a one-line description of the current scene.
	Scene string `yaml:"scene,omitempty" json:"scene,omitempty"`

	// Actors maps actor ID to current status.
	Actors map[string]ActorStatus `yaml:"actors,omitempty" json:"actors,omitempty"`

	// Resources maps resource name to current quantity.
	Resources map[string]int `yaml:"resources,omitempty" json:"resources,omitempty"`
}

// Clone returns a deep copy of the snapshot.
func (s *TurnState) Clone() *TurnState {
	if s == nil {
		return nil
	}
	out := &TurnState{
		Threat:   s.Threat,
		Location: s.Location,
		Scene:    s.Scene,
	}
	if s.Actors != nil {
		out.Actors = make(map[string]ActorStatus, len(s.Actors))
		for id, status := range s.Actors {
			out.Actors[id] = status
		}
	}
	if s.Resources != nil {
		out.Resources = make(map[string]int, len(s.Resources))
		for name, qty := range s.Resources {
			out.Resources[name] = qty
		}
	}
	return out
}

// TurnDelta is the change-only representation of one turn, produced by the
// rule engine. Every field the extractor reads is declared here; there is no
// free-form key/value payload.
type TurnDelta struct {
	// SchemaVersion identifies the delta schema this value was built against.
	SchemaVersion int `yaml:"schema_version" json:"schema_version"`

	// Threat is the new threat level if it changed this turn.
	Threat *float64 `yaml:"threat,omitempty" json:"threat,omitempty"`

	// Location is the new location if the party moved (empty = unchanged).
	Location string `yaml:"location,omitempty" json:"location,omitempty"`

	// Events lists the narrative happenings of this turn, in order.
	Events []DeltaEvent `yaml:"events,omitempty" json:"events,omitempty"`

	// Actors maps actor ID to new status, for actors whose status changed.
	Actors map[string]ActorStatus `yaml:"actors,omitempty" json:"actors,omitempty"`

	// Resources maps resource name to the signed change in quantity.
	Resources map[string]int `yaml:"resources,omitempty" json:"resources,omitempty"`
}

// Validate checks that the delta is well-formed under the current schema.
func (d *TurnDelta) Validate() error {
	if d == nil {
		return fmt.Errorf("types: nil delta")
	}
	if d.SchemaVersion <= 0 || d.SchemaVersion > DeltaSchemaVersion {
		return fmt.Errorf("types: unsupported delta schema version %d", d.SchemaVersion)
	}
	if d.Threat != nil && (*d.Threat < 0 || *d.Threat > 1) {
		return fmt.Errorf("types: threat %v outside [0,1]", *d.Threat)
	}
	return nil
}

// Clone returns a deep copy of the delta.
func (d *TurnDelta) Clone() *TurnDelta {
	if d == nil {
		return nil
	}
	out := &TurnDelta{
		SchemaVersion: d.SchemaVersion,
		Location:      d.Location,
	}
	if d.Threat != nil {
		threat := *d.Threat
		out.Threat = &threat
	}
	if d.Events != nil {
		out.Events = make([]DeltaEvent, len(d.Events))
		for i, ev := range d.Events {
			out.Events[i] = DeltaEvent{Description: ev.Description}
			if ev.Tags != nil {
				out.Events[i].Tags = append([]EventTag(nil), ev.Tags...)
			}
		}
	}
	if d.Actors != nil {
		out.Actors = make(map[string]ActorStatus, len(d.Actors))
		for id, status := range d.Actors {
			out.Actors[id] = status
		}
	}
	if d.Resources != nil {
		out.Resources = make(map[string]int, len(d.Resources))
		for name, qty := range d.Resources {
			out.Resources[name] = qty
		}
	}
	return out
}

// DeltaFromState synthesizes a delta equivalent to the observable content of a
// full snapshot. Used when a full record is demoted out of the current band
// and no caller-supplied delta exists for that turn (typically turn 1).
func DeltaFromState(state *TurnState) *TurnDelta {
	if state == nil {
		return &TurnDelta{SchemaVersion: DeltaSchemaVersion}
	}
	threat := state.Threat
	delta := &TurnDelta{
		SchemaVersion: DeltaSchemaVersion,
		Threat:        &threat,
		Location:      state.Location,
	}
	if state.Scene != "" {
		delta.Events = []DeltaEvent{{Description: state.Scene}}
	}
	if state.Actors != nil {
		delta.Actors = make(map[string]ActorStatus, len(state.Actors))
		for id, status := range state.Actors {
			delta.Actors[id] = status
		}
	}
	return delta
}
