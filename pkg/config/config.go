package config

import (
	"sync"
)

var (
	// globalManager is the singleton configuration manager instance
	globalManager *Manager
	globalMu      sync.Mutex
)

// Initialize creates and initializes the global configuration manager.
// This should be called once at application startup.
func Initialize(configPath string) error {
	globalMu.Lock()
	defer globalMu.Unlock()

	// Create file store
	store, err := NewFileStore(configPath)
	if err != nil {
		return err
	}

	// Create manager
	manager := NewManager(store)

	// Register default sections
	if err := manager.RegisterSection(NewArchiveSection()); err != nil {
		return err
	}

	if err := manager.RegisterSection(NewStorageSection()); err != nil {
		return err
	}

	// Load configuration
	if err := manager.LoadAll(); err != nil {
		return err
	}

	globalManager = manager
	return nil
}

// Global returns the global configuration manager.
// Panics if Initialize has not been called.
func Global() *Manager {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalManager == nil {
		panic("config not initialized: call config.Initialize first")
	}

	return globalManager
}

// IsInitialized returns true if the global configuration has been initialized.
func IsInitialized() bool {
	globalMu.Lock()
	defer globalMu.Unlock()
	return globalManager != nil
}

// GetArchive returns the archive tuning section from global config.
// Returns nil if config is not initialized.
func GetArchive() *ArchiveSection {
	if !IsInitialized() {
		return nil
	}

	section, ok := Global().GetSection(SectionIDArchive)
	if !ok {
		return nil
	}

	archiveSection, ok := section.(*ArchiveSection)
	if !ok {
		return nil
	}

	return archiveSection
}

// GetStorage returns the storage section from global config.
// Returns nil if config is not initialized.
func GetStorage() *StorageSection {
	if !IsInitialized() {
		return nil
	}

	section, ok := Global().GetSection(SectionIDStorage)
	if !ok {
		return nil
	}

	storage, ok := section.(*StorageSection)
	if !ok {
		return nil
	}

	return storage
}
