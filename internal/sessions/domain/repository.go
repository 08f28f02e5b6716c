package domain

import "fmt"

// SessionNotFoundError indicates no session matched the given identifiers.
type SessionNotFoundError struct {
	GUID     string
	Document string
}

func (e *SessionNotFoundError) Error() string {
	if e.GUID == "" {
		return "session not found"
	}
	return fmt.Sprintf("session %s not found for document %s", e.GUID, e.Document)
}

// NoActiveSessionError indicates the document has no session in the active state.
type NoActiveSessionError struct {
	Document string
}

func (e *NoActiveSessionError) Error() string {
	return fmt.Sprintf("no active session for document %s", e.Document)
}

// ListFilter provides filtering options for listing sessions.
type ListFilter struct {
	// State filters sessions by their current state.
	// If empty, all states are included.
	State SessionState

	// Limit restricts the number of sessions returned.
	// If 0, no limit is applied.
	Limit int
}

// SessionRepository defines the persistence interface for Session entities.
// Implementations may use SQLite, in-memory storage, or other backends.
type SessionRepository interface {
	// Save persists a session to the repository.
	// For new sessions (ID == 0), this creates a new record and sets the ID.
	// For existing sessions (ID > 0), this updates the existing record.
	Save(session *Session) error

	// FindByGUID retrieves a session by its GUID within a specific document.
	// Returns SessionNotFoundError if no matching session exists.
	FindByGUID(document, guid string) (*Session, error)

	// GetActiveSession retrieves the currently active session for a document.
	// Returns NoActiveSessionError if no session is in the active state.
	GetActiveSession(document string) (*Session, error)

	// Delete permanently removes a session.
	// Returns SessionNotFoundError if no matching session exists.
	Delete(document, guid string) error

	// DeleteAllForDocument permanently removes all sessions for a document.
	DeleteAllForDocument(document string) error

	// ListWithFilter retrieves sessions for a document matching the given
	// filter criteria. Results are ordered by started_at descending.
	ListWithFilter(document string, filter ListFilter) ([]*Session, error)

	// Close releases any resources held by the repository.
	Close() error
}
