// Package sessions tracks writing sessions: it diffs document snapshots into
// edit metrics and persists them through the domain repository.
package sessions

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/dtannen/scrivo/internal/log"
	"github.com/dtannen/scrivo/internal/sessions/domain"
)

// Recorder turns document snapshots into session metrics. Feed it the full
// document text after each save or debounce cycle; it diffs against the
// previous snapshot, accumulates the edit into the active session, and rolls
// the session over when the writer has been idle past the timeout.
type Recorder struct {
	mu sync.Mutex

	repo        domain.SessionRepository
	document    string
	idleTimeout time.Duration

	current  *domain.Session
	lastText string
	dmp      *diffmatchpatch.DiffMatchPatch

	// now is swappable for tests.
	now func() time.Time
}

// NewRecorder creates a recorder for the given document. initialText is the
// document content at open time, so loading a file does not count as writing.
// idleTimeout <= 0 disables session rollover.
func NewRecorder(repo domain.SessionRepository, document, initialText string, idleTimeout time.Duration) *Recorder {
	return &Recorder{
		repo:        repo,
		document:    document,
		idleTimeout: idleTimeout,
		lastText:    initialText,
		dmp:         diffmatchpatch.New(),
		now:         time.Now,
	}
}

// Observe diffs text against the previous snapshot and accumulates the edit.
// The first edit starts a session; an edit after the idle timeout closes the
// stale session as timed out and starts a fresh one.
func (r *Recorder) Observe(text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if text == r.lastText {
		return nil
	}

	added, deleted, words := r.measure(r.lastText, text)
	r.lastText = text
	if added == 0 && deleted == 0 {
		return nil
	}

	if r.current != nil && r.idleTimeout > 0 && r.current.IdleFor(r.now()) > r.idleTimeout {
		if err := r.rollOver(); err != nil {
			return err
		}
	}

	if r.current == nil {
		r.current = domain.NewSession(uuid.NewString(), r.document)
		log.Debug(log.CatSession, "session started",
			"guid", r.current.GUID(), "document", r.document)
	}

	r.current.RecordEdit(added, deleted, words)
	if err := r.repo.Save(r.current); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Current returns the active session, or nil before the first edit.
func (r *Recorder) Current() *domain.Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Close ends the active session and persists it.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.current == nil {
		return nil
	}
	r.current.End()
	err := r.repo.Save(r.current)
	r.current = nil
	if err != nil {
		return fmt.Errorf("failed to save session on close: %w", err)
	}
	return nil
}

// rollOver closes the idle session as timed out and clears it so the next
// edit starts a new one.
func (r *Recorder) rollOver() error {
	log.Debug(log.CatSession, "session timed out",
		"guid", r.current.GUID(), "idle", r.current.IdleFor(r.now()).String())
	r.current.MarkTimedOut()
	err := r.repo.Save(r.current)
	r.current = nil
	if err != nil {
		return fmt.Errorf("failed to save timed out session: %w", err)
	}
	return nil
}

// measure diffs two snapshots into character and word deltas.
func (r *Recorder) measure(before, after string) (added, deleted, words int64) {
	diffs := r.dmp.DiffMain(before, after, false)
	diffs = r.dmp.DiffCleanupSemantic(diffs)

	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			added += int64(len([]rune(d.Text)))
			words += int64(len(strings.Fields(d.Text)))
		case diffmatchpatch.DiffDelete:
			deleted += int64(len([]rune(d.Text)))
		}
	}
	return added, deleted, words
}
