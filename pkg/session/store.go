package session

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/entrhq/chronicle/pkg/archive"
	"github.com/entrhq/chronicle/pkg/logging"
)

// Store manages active sessions. All operations are thread-safe: different
// sessions may run turns concurrently on different goroutines, while the
// store guards only its own registry.
type Store struct {
	cfg      archive.Config
	sessions map[string]*Session
	mu       sync.RWMutex
	logger   *logging.Logger
}

// NewStore creates a session store. All sessions it creates share the same
// archive configuration.
func NewStore(cfg archive.Config) *Store {
	logger, _ := logging.NewLogger("session")
	return &Store{
		cfg:      cfg,
		sessions: make(map[string]*Session),
		logger:   logger,
	}
}

// Create starts a new session with an empty archive.
func (s *Store) Create(name string) *Session {
	sess := newSession(name, archive.New(s.cfg))

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[sess.ID] = sess
	s.logger.Infof("created session %s (%q)", sess.ID, name)
	return sess
}

// Get retrieves a session by ID.
func (s *Store) Get(id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, exists := s.sessions[id]
	if !exists {
		return nil, fmt.Errorf("session not found: %s", id)
	}
	return sess, nil
}

// End removes a session from the store. The caller is expected to have saved
// the archive first if the session should be resumable.
func (s *Store) End(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[id]; !exists {
		return fmt.Errorf("session not found: %s", id)
	}
	delete(s.sessions, id)
	s.logger.Infof("ended session %s", id)
	return nil
}

// List returns the active sessions, most recently updated first.
func (s *Store) List() []*Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		result = append(result, sess)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].UpdatedAt.After(result[j].UpdatedAt)
	})
	return result
}

// Count returns the number of active sessions.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.sessions)
}

// Save writes a session's archive to the given path. The write goes through
// a temporary file and rename so a crash never leaves a half-written save.
func (s *Store) Save(id, path string) error {
	sess, err := s.Get(id)
	if err != nil {
		return err
	}

	data, err := sess.Archive.Marshal()
	if err != nil {
		return fmt.Errorf("failed to serialize session %s: %w", id, err)
	}
	s.logger.Debugf("serialized session %s: %d bytes, %d summaries", id, len(data), sess.Archive.Stats().Summaries)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create save directory: %w", err)
	}

	tempFile, err := os.CreateTemp(dir, "session-*.yaml.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tempPath := tempFile.Name()
	defer os.Remove(tempPath)

	if _, err := tempFile.Write(data); err != nil {
		tempFile.Close()
		return fmt.Errorf("failed to write save data: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("failed to finalize save file: %w", err)
	}

	sess.Touch()
	s.logger.Infof("saved session %s to %s (turn %d)", id, path, sess.Archive.LastTurn())
	return nil
}

// Restore loads a saved archive from disk and registers it as a new session.
// A corrupt save surfaces the archive's CorruptArchiveError unchanged so the
// caller can distinguish it from plain I/O failures.
func (s *Store) Restore(name, path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read save file: %w", err)
	}

	a, err := archive.Unmarshal(s.cfg, data)
	if err != nil {
		s.logger.Warnf("rejected save file %s: %v", path, err)
		return nil, err
	}

	sess := newSession(name, a)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[sess.ID] = sess
	s.logger.Infof("restored session %s (%q) from %s at turn %d", sess.ID, name, path, a.LastTurn())
	return sess, nil
}
