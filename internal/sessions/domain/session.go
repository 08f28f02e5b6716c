// Package domain provides the pure domain layer for writing sessions with no
// infrastructure dependencies.
//
// A writing session covers one stretch of work on a document: it starts with
// the first edit, accumulates character and word deltas, and ends when the
// writer closes the document or goes idle past the configured timeout.
//
// The domain layer has no knowledge of persistence; see the sqlite
// infrastructure package for the repository implementation.
package domain

import "time"

// SessionState represents the lifecycle state of a writing session.
type SessionState string

const (
	// SessionStateActive indicates the session is accumulating edits.
	SessionStateActive SessionState = "active"

	// SessionStateEnded indicates the session was closed normally.
	SessionStateEnded SessionState = "ended"

	// SessionStateTimedOut indicates the session was closed by the idle timeout.
	SessionStateTimedOut SessionState = "timed_out"
)

// String returns the string representation of the session state.
func (s SessionState) String() string {
	return string(s)
}

// IsValid returns true if the state is a recognized session state.
func (s SessionState) IsValid() bool {
	switch s {
	case SessionStateActive, SessionStateEnded, SessionStateTimedOut:
		return true
	default:
		return false
	}
}

// Session represents one stretch of writing on a document.
// All fields are unexported to enforce encapsulation; use the constructor
// and getter methods to access data.
type Session struct {
	id       int64
	guid     string
	document string
	state    SessionState

	// Edit metrics
	charsAdded   int64
	charsDeleted int64
	wordsWritten int64

	// Timestamps
	startedAt      time.Time
	endedAt        *time.Time
	lastActivityAt time.Time
	updatedAt      time.Time
}

// NewSession creates an active Session for the given GUID and document path.
// The ID is left as zero; it will be assigned by the persistence layer.
func NewSession(guid, document string) *Session {
	now := time.Now()
	return &Session{
		id:             0,
		guid:           guid,
		document:       document,
		state:          SessionStateActive,
		charsAdded:     0,
		charsDeleted:   0,
		wordsWritten:   0,
		startedAt:      now,
		endedAt:        nil,
		lastActivityAt: now,
		updatedAt:      now,
	}
}

// ReconstituteSession creates a Session from existing data, typically when
// hydrating from the database. All fields are provided explicitly.
func ReconstituteSession(
	id int64,
	guid, document string,
	state SessionState,
	charsAdded, charsDeleted, wordsWritten int64,
	startedAt time.Time,
	endedAt *time.Time,
	lastActivityAt, updatedAt time.Time,
) *Session {
	return &Session{
		id:             id,
		guid:           guid,
		document:       document,
		state:          state,
		charsAdded:     charsAdded,
		charsDeleted:   charsDeleted,
		wordsWritten:   wordsWritten,
		startedAt:      startedAt,
		endedAt:        endedAt,
		lastActivityAt: lastActivityAt,
		updatedAt:      updatedAt,
	}
}

// ID returns the database identifier for this session.
// Returns 0 for newly created sessions that haven't been persisted.
func (s *Session) ID() int64 {
	return s.id
}

// GUID returns the globally unique identifier for this session.
func (s *Session) GUID() string {
	return s.guid
}

// Document returns the path of the document this session belongs to.
func (s *Session) Document() string {
	return s.document
}

// State returns the current state of this session.
func (s *Session) State() SessionState {
	return s.state
}

// CharsAdded returns the total characters inserted during this session.
func (s *Session) CharsAdded() int64 {
	return s.charsAdded
}

// CharsDeleted returns the total characters removed during this session.
func (s *Session) CharsDeleted() int64 {
	return s.charsDeleted
}

// WordsWritten returns the total words inserted during this session.
func (s *Session) WordsWritten() int64 {
	return s.wordsWritten
}

// StartedAt returns when this session started.
func (s *Session) StartedAt() time.Time {
	return s.startedAt
}

// EndedAt returns when this session ended, or nil while active.
func (s *Session) EndedAt() *time.Time {
	return s.endedAt
}

// LastActivityAt returns when the last edit was recorded.
func (s *Session) LastActivityAt() time.Time {
	return s.lastActivityAt
}

// UpdatedAt returns when this session was last updated.
func (s *Session) UpdatedAt() time.Time {
	return s.updatedAt
}

// IsActive returns true while the session is accumulating edits.
func (s *Session) IsActive() bool {
	return s.state == SessionStateActive
}

// Duration returns how long the session ran. For active sessions this is
// the time elapsed since the start.
func (s *Session) Duration() time.Duration {
	if s.endedAt != nil {
		return s.endedAt.Sub(s.startedAt)
	}
	return time.Since(s.startedAt)
}

// IdleFor returns how long the session has been without edits as of now.
func (s *Session) IdleFor(now time.Time) time.Duration {
	return now.Sub(s.lastActivityAt)
}

// RecordEdit accumulates an edit into the session metrics and refreshes the
// activity timestamp. Edits on a non-active session are ignored.
func (s *Session) RecordEdit(charsAdded, charsDeleted, wordsWritten int64) {
	if !s.IsActive() {
		return
	}
	now := time.Now()
	s.charsAdded += charsAdded
	s.charsDeleted += charsDeleted
	s.wordsWritten += wordsWritten
	s.lastActivityAt = now
	s.updatedAt = now
}

// End transitions the session to the ended state and sets endedAt.
func (s *Session) End() {
	if !s.IsActive() {
		return
	}
	now := time.Now()
	s.state = SessionStateEnded
	s.endedAt = &now
	s.updatedAt = now
}

// MarkTimedOut transitions the session to the timed_out state. The session
// ends at its last activity, not at the moment the timeout was noticed.
func (s *Session) MarkTimedOut() {
	if !s.IsActive() {
		return
	}
	ended := s.lastActivityAt
	s.state = SessionStateTimedOut
	s.endedAt = &ended
	s.updatedAt = time.Now()
}

// SetID sets the database identifier for this session.
// This is typically called by the persistence layer after inserting a new session.
func (s *Session) SetID(id int64) {
	s.id = id
}
