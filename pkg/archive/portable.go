package archive

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/entrhq/chronicle/pkg/archive/tier"
	"github.com/entrhq/chronicle/pkg/archive/timeline"
	"github.com/entrhq/chronicle/pkg/types"
)

// PortableVersion is the current portable-form version. The major component
// gates restore; minor bumps stay backward-readable (unknown optional fields
// are ignored on read).
const PortableVersion = "1.0"

// PortableArchive is the flat, versioned representation of an archive used
// for session save and load. Only recorded data is persisted; derived values
// (the threat trend, size estimates) are recomputed after restore.
type PortableArchive struct {
	Version   string            `yaml:"version"`
	LastTurn  int               `yaml:"last_turn"`
	Current   []PortableRecord  `yaml:"current,omitempty"`
	Recent    []PortableRecord  `yaml:"recent,omitempty"`
	Summaries []PortableSummary `yaml:"summaries,omitempty"`

	ThreatTimeline []timeline.ThreatPoint           `yaml:"threat_timeline,omitempty"`
	ActorTimelines map[string][]timeline.ActorPoint `yaml:"actor_timelines,omitempty"`
}

// PortableRecord is the serialized form of one turn record.
type PortableRecord struct {
	Turn  int              `yaml:"turn"`
	Kind  string           `yaml:"kind"`
	State *types.TurnState `yaml:"state,omitempty"`
	Delta *types.TurnDelta `yaml:"delta,omitempty"`
}

// PortableSummary is the serialized form of one archive summary.
type PortableSummary struct {
	TurnRange      [2]int                       `yaml:"turn_range"`
	MajorEvents    []string                     `yaml:"major_events,omitempty"`
	ActorSnapshots map[string]types.ActorStatus `yaml:"actor_snapshots,omitempty"`
	ThreatTrend    types.ThreatTrend            `yaml:"threat_trend,omitempty"`
}

// Portable returns the archive's portable form. The result shares no mutable
// state with the archive.
func (a *Archive) Portable() *PortableArchive {
	p := &PortableArchive{
		Version:        PortableVersion,
		LastTurn:       a.store.LastTurn(),
		ThreatTimeline: a.threat.Points(),
	}
	for _, rec := range a.store.CurrentBand() {
		p.Current = append(p.Current, portableRecord(rec))
	}
	for _, rec := range a.store.RecentBand() {
		p.Recent = append(p.Recent, portableRecord(rec))
	}
	for _, sum := range a.store.Summaries() {
		p.Summaries = append(p.Summaries, PortableSummary{
			TurnRange:      sum.TurnRange,
			MajorEvents:    append([]string(nil), sum.MajorEvents...),
			ActorSnapshots: copyActors(sum.ActorSnapshots),
			ThreatTrend:    sum.ThreatTrend,
		})
	}
	for _, id := range a.actors.IDs() {
		points, _ := a.actors.History(id)
		if p.ActorTimelines == nil {
			p.ActorTimelines = make(map[string][]timeline.ActorPoint)
		}
		p.ActorTimelines[id] = points
	}
	return p
}

// Marshal serializes the archive's portable form to YAML.
func (a *Archive) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(a.Portable())
	if err != nil {
		return nil, fmt.Errorf("archive: failed to marshal portable form: %w", err)
	}
	return data, nil
}

// FromPortable rehydrates an archive from its portable form. A malformed or
// version-mismatched form fails with a CorruptArchiveError; no partially
// restored archive is ever returned.
func FromPortable(cfg Config, p *PortableArchive) (*Archive, error) {
	if p == nil {
		return nil, &CorruptArchiveError{Reason: "nil portable form"}
	}
	if err := checkVersion(p.Version); err != nil {
		return nil, err
	}
	if p.LastTurn < 0 {
		return nil, &CorruptArchiveError{Reason: fmt.Sprintf("negative last turn %d", p.LastTurn)}
	}

	a := New(cfg)

	current, err := restoreRecords("current", p.Current)
	if err != nil {
		return nil, err
	}
	recent, err := restoreRecords("recent", p.Recent)
	if err != nil {
		return nil, err
	}
	summaries := make([]tier.Summary, 0, len(p.Summaries))
	for _, sum := range p.Summaries {
		summaries = append(summaries, tier.Summary{
			TurnRange:      sum.TurnRange,
			MajorEvents:    append([]string(nil), sum.MajorEvents...),
			ActorSnapshots: copyActors(sum.ActorSnapshots),
			ThreatTrend:    sum.ThreatTrend,
		})
	}

	store, err := tier.RestoreStore(a.tierConfig(), a.summarize, current, recent, summaries, p.LastTurn)
	if err != nil {
		return nil, &CorruptArchiveError{Reason: "bands do not partition the session", Err: err}
	}
	a.store = store

	a.threat.Restore(p.ThreatTimeline)
	for id, points := range p.ActorTimelines {
		a.actors.Restore(id, points)
	}
	return a, nil
}

// Unmarshal deserializes a YAML portable form and rehydrates the archive.
func Unmarshal(cfg Config, data []byte) (*Archive, error) {
	var p PortableArchive
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, &CorruptArchiveError{Reason: "invalid yaml", Err: err}
	}
	return FromPortable(cfg, &p)
}

func checkVersion(version string) error {
	if version == "" {
		return &CorruptArchiveError{Reason: "missing version"}
	}
	major := version
	if idx := strings.Index(version, "."); idx >= 0 {
		major = version[:idx]
	}
	if major != "1" {
		return &CorruptArchiveError{Reason: fmt.Sprintf("unsupported version %q", version)}
	}
	return nil
}

func portableRecord(rec tier.TurnRecord) PortableRecord {
	return PortableRecord{
		Turn:  rec.TurnNumber,
		Kind:  string(rec.Kind),
		State: rec.State.Clone(),
		Delta: rec.Delta.Clone(),
	}
}

// restoreRecords rebuilds one band's records, validating each record against
// its own kind: a full record needs a state, a delta record a valid delta.
// Bands do not constrain kind; delta-only turns place delta records in the
// current band, and demotion puts nothing but deltas in the recent band.
func restoreRecords(band string, records []PortableRecord) ([]tier.TurnRecord, error) {
	out := make([]tier.TurnRecord, 0, len(records))
	for _, rec := range records {
		switch tier.Kind(rec.Kind) {
		case tier.KindFull:
			if rec.State == nil {
				return nil, &CorruptArchiveError{Reason: fmt.Sprintf("turn %d full record in %s band missing state", rec.Turn, band)}
			}
			out = append(out, tier.NewFullRecord(rec.Turn, rec.State, rec.Delta))
		case tier.KindDelta:
			if rec.Delta == nil {
				return nil, &CorruptArchiveError{Reason: fmt.Sprintf("turn %d delta record in %s band missing delta", rec.Turn, band)}
			}
			if err := rec.Delta.Validate(); err != nil {
				return nil, &CorruptArchiveError{Reason: fmt.Sprintf("turn %d delta invalid", rec.Turn), Err: err}
			}
			out = append(out, tier.NewDeltaRecord(rec.Turn, rec.Delta))
		default:
			return nil, &CorruptArchiveError{Reason: fmt.Sprintf("turn %d in %s band has unknown record kind %q", rec.Turn, band, rec.Kind)}
		}
	}
	return out, nil
}

func copyActors(actors map[string]types.ActorStatus) map[string]types.ActorStatus {
	if actors == nil {
		return nil
	}
	out := make(map[string]types.ActorStatus, len(actors))
	for id, status := range actors {
		out[id] = status
	}
	return out
}
