package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/dtannen/scrivo/internal/sessions/domain"
)

const sessionColumns = `id, guid, document, state, chars_added, chars_deleted, words_written,
	started_at, ended_at, last_activity_at, updated_at`

// sessionRepository implements domain.SessionRepository using SQLite.
type sessionRepository struct {
	db *sql.DB
}

var _ domain.SessionRepository = (*sessionRepository)(nil)

func newSessionRepository(db *sql.DB) *sessionRepository {
	return &sessionRepository{db: db}
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*SessionModel, error) {
	var model SessionModel
	err := row.Scan(
		&model.ID, &model.GUID, &model.Document, &model.State,
		&model.CharsAdded, &model.CharsDeleted, &model.WordsWritten,
		&model.StartedAt, &model.EndedAt, &model.LastActivityAt, &model.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &model, nil
}

// Save inserts sessions that have no ID yet and updates the rest. A first
// save assigns the generated row ID back to the session.
func (r *sessionRepository) Save(session *domain.Session) error {
	if session.ID() == 0 {
		return r.insert(session)
	}
	return r.update(session)
}

func (r *sessionRepository) insert(session *domain.Session) error {
	model := toSessionModel(session)

	result, err := r.db.Exec(
		`INSERT INTO sessions (
			guid, document, state, chars_added, chars_deleted, words_written,
			started_at, ended_at, last_activity_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		model.GUID, model.Document, model.State,
		model.CharsAdded, model.CharsDeleted, model.WordsWritten,
		model.StartedAt, model.EndedAt, model.LastActivityAt, model.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("read inserted session id: %w", err)
	}
	session.SetID(id)
	return nil
}

func (r *sessionRepository) update(session *domain.Session) error {
	model := toSessionModel(session)

	_, err := r.db.Exec(
		`UPDATE sessions SET
			state = ?, chars_added = ?, chars_deleted = ?, words_written = ?,
			ended_at = ?, last_activity_at = ?, updated_at = ?
		WHERE id = ?`,
		model.State, model.CharsAdded, model.CharsDeleted, model.WordsWritten,
		model.EndedAt, model.LastActivityAt, model.UpdatedAt,
		model.ID,
	)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	return nil
}

// FindByGUID retrieves a session by its GUID within a document. Returns
// SessionNotFoundError when no row matches.
func (r *sessionRepository) FindByGUID(document, guid string) (*domain.Session, error) {
	row := r.db.QueryRow(
		`SELECT `+sessionColumns+` FROM sessions WHERE document = ? AND guid = ?`,
		document, guid,
	)

	model, err := scanSession(row)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, &domain.SessionNotFoundError{GUID: guid, Document: document}
	case err != nil:
		return nil, fmt.Errorf("find session by guid: %w", err)
	}
	return model.toDomain(), nil
}

// GetActiveSession retrieves the newest active session for a document.
// Returns NoActiveSessionError when none is active.
func (r *sessionRepository) GetActiveSession(document string) (*domain.Session, error) {
	row := r.db.QueryRow(
		`SELECT `+sessionColumns+` FROM sessions WHERE document = ? AND state = 'active'
		 ORDER BY started_at DESC LIMIT 1`,
		document,
	)

	model, err := scanSession(row)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, &domain.NoActiveSessionError{Document: document}
	case err != nil:
		return nil, fmt.Errorf("get active session: %w", err)
	}
	return model.toDomain(), nil
}

// Delete permanently removes a session. Returns SessionNotFoundError when no
// row matches.
func (r *sessionRepository) Delete(document, guid string) error {
	result, err := r.db.Exec(
		`DELETE FROM sessions WHERE document = ? AND guid = ?`,
		document, guid,
	)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("read rows affected: %w", err)
	}
	if affected == 0 {
		return &domain.SessionNotFoundError{GUID: guid, Document: document}
	}
	return nil
}

// DeleteAllForDocument permanently removes every session for a document.
func (r *sessionRepository) DeleteAllForDocument(document string) error {
	if _, err := r.db.Exec(`DELETE FROM sessions WHERE document = ?`, document); err != nil {
		return fmt.Errorf("delete sessions for document: %w", err)
	}
	return nil
}

// ListWithFilter retrieves a document's sessions, newest first, filtered by
// state and capped by limit when those are set.
func (r *sessionRepository) ListWithFilter(document string, filter domain.ListFilter) ([]*domain.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE document = ?`
	args := []any{document}

	if filter.State != "" {
		query += ` AND state = ?`
		args = append(args, string(filter.State))
	}
	query += ` ORDER BY started_at DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var sessions []*domain.Session
	for rows.Next() {
		model, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session row: %w", err)
		}
		sessions = append(sessions, model.toDomain())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate session rows: %w", err)
	}

	return sessions, nil
}

// Close is a no-op; the connection is owned by the DB struct.
func (r *sessionRepository) Close() error {
	return nil
}
