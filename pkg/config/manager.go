package config

import (
	"fmt"
	"sync"
)

// Section represents a logical group of configuration settings.
type Section interface {
	// ID returns the unique identifier for this section
	ID() string

	// Title returns a human-readable title for this section
	Title() string

	// Description returns a human-readable description of this section
	Description() string

	// Data returns the section's current configuration data
	Data() map[string]interface{}

	// SetData updates the section's configuration from the provided data
	SetData(data map[string]interface{}) error

	// Validate checks that the current configuration is valid
	Validate() error

	// Reset restores the section to its default configuration
	Reset()
}

// Manager coordinates configuration sections and their persistence.
type Manager struct {
	store    Store
	sections map[string]Section
	order    []string // Registration order, for stable iteration
	mu       sync.RWMutex
}

// NewManager creates a new configuration manager backed by the given store.
func NewManager(store Store) *Manager {
	return &Manager{
		store:    store,
		sections: make(map[string]Section),
	}
}

// Store returns the underlying store.
func (m *Manager) Store() Store {
	return m.store
}

// RegisterSection adds a section to the manager. Section IDs must be unique.
func (m *Manager) RegisterSection(section Section) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := section.ID()
	if _, exists := m.sections[id]; exists {
		return fmt.Errorf("section already registered: %s", id)
	}

	m.sections[id] = section
	m.order = append(m.order, id)
	return nil
}

// GetSection retrieves a registered section by ID.
func (m *Manager) GetSection(id string) (Section, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	section, exists := m.sections[id]
	return section, exists
}

// GetSections returns all registered sections in registration order.
func (m *Manager) GetSections() []Section {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sections := make([]Section, 0, len(m.order))
	for _, id := range m.order {
		sections = append(sections, m.sections[id])
	}
	return sections
}

// LoadAll loads the store from disk and pushes each section's data into the
// registered sections.
func (m *Manager) LoadAll() error {
	if err := m.store.Load(); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, id := range m.order {
		data, err := m.store.GetSection(id)
		if err != nil {
			return fmt.Errorf("failed to load section %s: %w", id, err)
		}
		if err := m.sections[id].SetData(data); err != nil {
			return fmt.Errorf("failed to apply section %s: %w", id, err)
		}
	}
	return nil
}

// SaveAll validates every section, pushes their data into the store, and
// persists it. Validation failures abort the save before anything is written.
func (m *Manager) SaveAll() error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, id := range m.order {
		if err := m.sections[id].Validate(); err != nil {
			return fmt.Errorf("section %s failed validation: %w", id, err)
		}
	}

	for _, id := range m.order {
		if err := m.store.SetSection(id, m.sections[id].Data()); err != nil {
			return fmt.Errorf("failed to stage section %s: %w", id, err)
		}
	}

	if err := m.store.Save(); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}
	return nil
}

// ResetAll restores every section to its default configuration.
func (m *Manager) ResetAll() {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, id := range m.order {
		m.sections[id].Reset()
	}
}
