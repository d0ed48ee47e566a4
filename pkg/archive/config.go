package archive

// Config holds the archive's tuning parameters. All values are tuning knobs
// with documented defaults, not hard invariants; DefaultConfig returns the
// set used when a zero Config is passed to New.
type Config struct {
	// MaxCurrent is the number of turns kept as full snapshots.
	MaxCurrent int

	// MaxRecent is the number of turns kept as deltas after leaving the
	// current band.
	MaxRecent int

	// CompactionInterval is the number of turns per summarized block.
	CompactionInterval int

	// MaxSummaryEvents caps major events retained when summaries merge.
	MaxSummaryEvents int

	// InjectionInterval is the base cadence, in turns, at which archived
	// context is surfaced to the prompt assembly step.
	InjectionInterval int

	// InjectionWidenEvery doubles the effective injection interval every
	// this many turns, keeping injected volume roughly constant as the
	// session grows. Zero disables widening.
	InjectionWidenEvery int

	// MaxContextTokens is the soft ceiling on the injected block's token
	// length. Oldest major events are dropped first to respect it.
	MaxContextTokens int

	// MaxArchiveBytes is the memory ceiling on the whole archive's
	// estimated size. When recording pushes past it the oldest summaries
	// are merged until the archive fits again.
	MaxArchiveBytes int

	// MinEventLength is the description length at which an untagged delta
	// event counts as major.
	MinEventLength int

	// CriticalHealth is the health level at or below which an actor change
	// is reported as a derived major event.
	CriticalHealth int

	// TimelineWindow is the retention window of the threat and actor
	// trackers, in observations.
	TimelineWindow int
}

// DefaultConfig returns the default tuning parameters.
func DefaultConfig() Config {
	return Config{
		MaxCurrent:          6,
		MaxRecent:           10,
		CompactionInterval:  10,
		MaxSummaryEvents:    12,
		InjectionInterval:   10,
		InjectionWidenEvery: 0,
		MaxContextTokens:    600,
		MaxArchiveBytes:     64 * 1024,
		MinEventLength:      40,
		CriticalHealth:      25,
		TimelineWindow:      32,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.MaxCurrent <= 0 {
		c.MaxCurrent = def.MaxCurrent
	}
	if c.MaxRecent <= 0 {
		c.MaxRecent = def.MaxRecent
	}
	if c.CompactionInterval <= 0 {
		c.CompactionInterval = def.CompactionInterval
	}
	if c.MaxSummaryEvents <= 0 {
		c.MaxSummaryEvents = def.MaxSummaryEvents
	}
	if c.InjectionInterval <= 0 {
		c.InjectionInterval = def.InjectionInterval
	}
	if c.InjectionWidenEvery < 0 {
		c.InjectionWidenEvery = 0
	}
	if c.MaxContextTokens <= 0 {
		c.MaxContextTokens = def.MaxContextTokens
	}
	if c.MaxArchiveBytes <= 0 {
		c.MaxArchiveBytes = def.MaxArchiveBytes
	}
	if c.MinEventLength <= 0 {
		c.MinEventLength = def.MinEventLength
	}
	if c.CriticalHealth <= 0 {
		c.CriticalHealth = def.CriticalHealth
	}
	if c.TimelineWindow <= 0 {
		c.TimelineWindow = def.TimelineWindow
	}
	return c
}
