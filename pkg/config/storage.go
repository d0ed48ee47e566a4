package config

import (
	"os"
	"path/filepath"
	"sync"
)

const (
	// SectionIDStorage is the identifier for the storage settings section
	SectionIDStorage = "storage"
)

// StorageSection manages where session saves are written.
type StorageSection struct {
	SaveDir string
	mu      sync.RWMutex
}

// NewStorageSection creates a storage section with default settings.
func NewStorageSection() *StorageSection {
	return &StorageSection{
		SaveDir: defaultSaveDir(),
	}
}

func defaultSaveDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "saves"
	}
	return filepath.Join(homeDir, ".chronicle", "saves")
}

// ID returns the section identifier.
func (s *StorageSection) ID() string {
	return SectionIDStorage
}

// Title returns the section title.
func (s *StorageSection) Title() string {
	return "Storage"
}

// Description returns the section description.
func (s *StorageSection) Description() string {
	return "Configure where session saves are stored."
}

// Data returns the current configuration data.
func (s *StorageSection) Data() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return map[string]interface{}{
		"save_dir": s.SaveDir,
	}
}

// SetData updates the configuration from the provided data.
func (s *StorageSection) SetData(data map[string]interface{}) error {
	if data == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if saveDir, ok := data["save_dir"].(string); ok && saveDir != "" {
		s.SaveDir = saveDir
	}
	return nil
}

// Validate validates the current configuration.
func (s *StorageSection) Validate() error {
	// The directory is created lazily on first save; any non-empty path is
	// acceptable here.
	return nil
}

// Reset resets the section to default configuration.
func (s *StorageSection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.SaveDir = defaultSaveDir()
}

// GetSaveDir returns the configured save directory.
func (s *StorageSection) GetSaveDir() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.SaveDir
}

// SavePath returns the full path for a named save file.
func (s *StorageSection) SavePath(name string) string {
	return filepath.Join(s.GetSaveDir(), name+".yaml")
}
