package config

import (
	"fmt"
	"sync"

	"github.com/entrhq/chronicle/pkg/archive"
)

const (
	// SectionIDArchive is the identifier for the archive tuning section
	SectionIDArchive = "archive"
)

// ArchiveSection manages the turn-history archive's tuning parameters.
// Values here are applied when sessions are created; changing them does not
// retune archives already in flight.
type ArchiveSection struct {
	MaxCurrent          int
	MaxRecent           int
	CompactionInterval  int
	MaxSummaryEvents    int
	InjectionInterval   int
	InjectionWidenEvery int
	MaxContextTokens    int
	MaxArchiveBytes     int
	MinEventLength      int
	CriticalHealth      int
	TimelineWindow      int
	mu                  sync.RWMutex
}

// NewArchiveSection creates an archive section with default tuning.
func NewArchiveSection() *ArchiveSection {
	s := &ArchiveSection{}
	s.applyDefaults()
	return s
}

func (s *ArchiveSection) applyDefaults() {
	def := archive.DefaultConfig()
	s.MaxCurrent = def.MaxCurrent
	s.MaxRecent = def.MaxRecent
	s.CompactionInterval = def.CompactionInterval
	s.MaxSummaryEvents = def.MaxSummaryEvents
	s.InjectionInterval = def.InjectionInterval
	s.InjectionWidenEvery = def.InjectionWidenEvery
	s.MaxContextTokens = def.MaxContextTokens
	s.MaxArchiveBytes = def.MaxArchiveBytes
	s.MinEventLength = def.MinEventLength
	s.CriticalHealth = def.CriticalHealth
	s.TimelineWindow = def.TimelineWindow
}

// ID returns the section identifier.
func (s *ArchiveSection) ID() string {
	return SectionIDArchive
}

// Title returns the section title.
func (s *ArchiveSection) Title() string {
	return "Archive Tuning"
}

// Description returns the section description.
func (s *ArchiveSection) Description() string {
	return "Tune the turn-history archive: retention band sizes, compaction interval, and the context injection policy."
}

// Data returns the current configuration data.
func (s *ArchiveSection) Data() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return map[string]interface{}{
		"max_current":           s.MaxCurrent,
		"max_recent":            s.MaxRecent,
		"compaction_interval":   s.CompactionInterval,
		"max_summary_events":    s.MaxSummaryEvents,
		"injection_interval":    s.InjectionInterval,
		"injection_widen_every": s.InjectionWidenEvery,
		"max_context_tokens":    s.MaxContextTokens,
		"max_archive_bytes":     s.MaxArchiveBytes,
		"min_event_length":      s.MinEventLength,
		"critical_health":       s.CriticalHealth,
		"timeline_window":       s.TimelineWindow,
	}
}

// SetData updates the configuration from the provided data.
func (s *ArchiveSection) SetData(data map[string]interface{}) error {
	if data == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	setInt(data, "max_current", &s.MaxCurrent)
	setInt(data, "max_recent", &s.MaxRecent)
	setInt(data, "compaction_interval", &s.CompactionInterval)
	setInt(data, "max_summary_events", &s.MaxSummaryEvents)
	setInt(data, "injection_interval", &s.InjectionInterval)
	setInt(data, "injection_widen_every", &s.InjectionWidenEvery)
	setInt(data, "max_context_tokens", &s.MaxContextTokens)
	setInt(data, "max_archive_bytes", &s.MaxArchiveBytes)
	setInt(data, "min_event_length", &s.MinEventLength)
	setInt(data, "critical_health", &s.CriticalHealth)
	setInt(data, "timeline_window", &s.TimelineWindow)
	return nil
}

// setInt applies an integer field from loaded data. JSON decodes numbers as
// float64, so both representations are accepted.
func setInt(data map[string]interface{}, key string, dst *int) {
	switch v := data[key].(type) {
	case int:
		*dst = v
	case float64:
		*dst = int(v)
	}
}

// Validate validates the current configuration.
func (s *ArchiveSection) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	checks := []struct {
		name  string
		value int
	}{
		{"max_current", s.MaxCurrent},
		{"max_recent", s.MaxRecent},
		{"compaction_interval", s.CompactionInterval},
		{"max_summary_events", s.MaxSummaryEvents},
		{"injection_interval", s.InjectionInterval},
		{"max_context_tokens", s.MaxContextTokens},
		{"max_archive_bytes", s.MaxArchiveBytes},
		{"min_event_length", s.MinEventLength},
		{"critical_health", s.CriticalHealth},
		{"timeline_window", s.TimelineWindow},
	}
	for _, c := range checks {
		if c.value <= 0 {
			return fmt.Errorf("%s must be positive, got %d", c.name, c.value)
		}
	}
	if s.InjectionWidenEvery < 0 {
		return fmt.Errorf("injection_widen_every must not be negative, got %d", s.InjectionWidenEvery)
	}
	return nil
}

// Reset resets the section to default configuration.
func (s *ArchiveSection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applyDefaults()
}

// ArchiveConfig returns the section's values as an archive configuration.
func (s *ArchiveSection) ArchiveConfig() archive.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return archive.Config{
		MaxCurrent:          s.MaxCurrent,
		MaxRecent:           s.MaxRecent,
		CompactionInterval:  s.CompactionInterval,
		MaxSummaryEvents:    s.MaxSummaryEvents,
		InjectionInterval:   s.InjectionInterval,
		InjectionWidenEvery: s.InjectionWidenEvery,
		MaxContextTokens:    s.MaxContextTokens,
		MaxArchiveBytes:     s.MaxArchiveBytes,
		MinEventLength:      s.MinEventLength,
		CriticalHealth:      s.CriticalHealth,
		TimelineWindow:      s.TimelineWindow,
	}
}
