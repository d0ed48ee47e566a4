package config

import (
	"testing"
)

func TestArchiveSection_Defaults(t *testing.T) {
	section := NewArchiveSection()

	if section.MaxCurrent != 6 {
		t.Errorf("Expected default max_current 6, got %d", section.MaxCurrent)
	}
	if section.CompactionInterval != 10 {
		t.Errorf("Expected default compaction_interval 10, got %d", section.CompactionInterval)
	}
	if err := section.Validate(); err != nil {
		t.Errorf("Defaults should validate: %v", err)
	}
}

func TestArchiveSection_SetData(t *testing.T) {
	t.Run("applies integer values", func(t *testing.T) {
		section := NewArchiveSection()

		err := section.SetData(map[string]interface{}{
			"max_current":        8,
			"injection_interval": 16,
		})
		if err != nil {
			t.Fatalf("SetData failed: %v", err)
		}

		if section.MaxCurrent != 8 {
			t.Errorf("Expected max_current 8, got %d", section.MaxCurrent)
		}
		if section.InjectionInterval != 16 {
			t.Errorf("Expected injection_interval 16, got %d", section.InjectionInterval)
		}
	})

	t.Run("accepts JSON float64 numbers", func(t *testing.T) {
		section := NewArchiveSection()

		err := section.SetData(map[string]interface{}{
			"max_recent": float64(12),
		})
		if err != nil {
			t.Fatalf("SetData failed: %v", err)
		}

		if section.MaxRecent != 12 {
			t.Errorf("Expected max_recent 12, got %d", section.MaxRecent)
		}
	})

	t.Run("ignores unknown keys", func(t *testing.T) {
		section := NewArchiveSection()

		if err := section.SetData(map[string]interface{}{"mystery": 42}); err != nil {
			t.Fatalf("SetData failed: %v", err)
		}
		if err := section.Validate(); err != nil {
			t.Errorf("Section should still validate: %v", err)
		}
	})

	t.Run("handles nil data", func(t *testing.T) {
		section := NewArchiveSection()
		if err := section.SetData(nil); err != nil {
			t.Fatalf("SetData(nil) failed: %v", err)
		}
	})
}

func TestArchiveSection_Validate(t *testing.T) {
	section := NewArchiveSection()

	section.CompactionInterval = 0
	if err := section.Validate(); err == nil {
		t.Error("Expected validation error for zero compaction_interval")
	}

	section.Reset()
	if err := section.Validate(); err != nil {
		t.Errorf("Reset section should validate: %v", err)
	}

	section.InjectionWidenEvery = -1
	if err := section.Validate(); err == nil {
		t.Error("Expected validation error for negative injection_widen_every")
	}
}

func TestArchiveSection_RoundTrip(t *testing.T) {
	section := NewArchiveSection()
	section.MaxContextTokens = 900
	section.MaxArchiveBytes = 32 * 1024

	data := section.Data()

	restored := NewArchiveSection()
	if err := restored.SetData(data); err != nil {
		t.Fatalf("SetData failed: %v", err)
	}

	if restored.MaxContextTokens != 900 {
		t.Errorf("Expected max_context_tokens 900, got %d", restored.MaxContextTokens)
	}

	cfg := restored.ArchiveConfig()
	if cfg.MaxContextTokens != 900 {
		t.Errorf("ArchiveConfig did not carry max_context_tokens, got %d", cfg.MaxContextTokens)
	}
	if cfg.MaxArchiveBytes != 32*1024 {
		t.Errorf("ArchiveConfig did not carry max_archive_bytes, got %d", cfg.MaxArchiveBytes)
	}
}
