// Package session manages the lifetime of narrative sessions and their
// archives. Each session owns exactly one archive; the store hands out
// session handles and serializes save and load, keeping the archive core
// itself free of I/O.
package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/entrhq/chronicle/pkg/archive"
)

// Session is one live narrative session.
type Session struct {
	// ID uniquely identifies the session.
	ID string

	// Name is the player-facing session name.
	Name string

	// CreatedAt is when the session was created or first restored.
	CreatedAt time.Time

	// UpdatedAt is when the session last recorded a turn or was saved.
	UpdatedAt time.Time

	// Archive is the session's turn-history archive. Turn execution for a
	// session is serialized by the caller; the archive does no locking.
	Archive *archive.Archive
}

func newSession(name string, a *archive.Archive) *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
		Archive:   a,
	}
}

// Touch updates the session's last-activity timestamp.
func (s *Session) Touch() {
	s.UpdatedAt = time.Now()
}
