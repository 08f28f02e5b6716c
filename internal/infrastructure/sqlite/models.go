package sqlite

import (
	"time"

	"github.com/dtannen/scrivo/internal/sessions/domain"
)

// SessionModel represents the database row for the sessions table.
// Fields map directly to SQL columns with Unix timestamps for time values.
type SessionModel struct {
	ID       int64
	GUID     string
	Document string
	State    string

	CharsAdded   int64
	CharsDeleted int64
	WordsWritten int64

	StartedAt      int64  // Unix timestamp
	EndedAt        *int64 // Unix timestamp, nullable
	LastActivityAt int64  // Unix timestamp
	UpdatedAt      int64  // Unix timestamp
}

// toSessionModel converts a domain Session entity to a database SessionModel.
func toSessionModel(s *domain.Session) *SessionModel {
	m := &SessionModel{
		ID:             s.ID(),
		GUID:           s.GUID(),
		Document:       s.Document(),
		State:          string(s.State()),
		CharsAdded:     s.CharsAdded(),
		CharsDeleted:   s.CharsDeleted(),
		WordsWritten:   s.WordsWritten(),
		StartedAt:      s.StartedAt().Unix(),
		LastActivityAt: s.LastActivityAt().Unix(),
		UpdatedAt:      s.UpdatedAt().Unix(),
	}
	if s.EndedAt() != nil {
		ended := s.EndedAt().Unix()
		m.EndedAt = &ended
	}
	return m
}

// toDomain converts a database SessionModel to a domain Session entity.
func (m *SessionModel) toDomain() *domain.Session {
	var endedAt *time.Time
	if m.EndedAt != nil {
		t := time.Unix(*m.EndedAt, 0)
		endedAt = &t
	}
	return domain.ReconstituteSession(
		m.ID,
		m.GUID, m.Document,
		domain.SessionState(m.State),
		m.CharsAdded, m.CharsDeleted, m.WordsWritten,
		time.Unix(m.StartedAt, 0),
		endedAt,
		time.Unix(m.LastActivityAt, 0), time.Unix(m.UpdatedAt, 0),
	)
}
