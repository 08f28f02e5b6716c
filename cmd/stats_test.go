package cmd

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtannen/scrivo/internal/infrastructure/sqlite"
	"github.com/dtannen/scrivo/internal/sessions/domain"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		name string
		d    time.Duration
		want string
	}{
		{"seconds", 42 * time.Second, "42s"},
		{"minutes", 4*time.Minute + 10*time.Second, "4m 10s"},
		{"hours", time.Hour + 23*time.Minute, "1h 23m"},
		{"zero", 0, "0s"},
		{"rounds subsecond", 900 * time.Millisecond, "1s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatDuration(tt.d))
		})
	}
}

func TestRunStats_MissingDatabase(t *testing.T) {
	orig := cfg
	t.Cleanup(func() { cfg = orig })
	cfg.Sessions.DBPath = filepath.Join(t.TempDir(), "absent.db")

	err := runStats(statsCmd, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no sessions recorded yet")
}

func TestRunStats_ListsSessions(t *testing.T) {
	orig := cfg
	t.Cleanup(func() { cfg = orig })

	dir := t.TempDir()
	cfg.Sessions.DBPath = filepath.Join(dir, "scrivo.db")
	docPath, err := filepath.Abs(filepath.Join(dir, "draft.md"))
	require.NoError(t, err)

	db, err := sqlite.NewDB(cfg.Sessions.DBPath)
	require.NoError(t, err)

	s := domain.NewSession("guid-1", docPath)
	s.RecordEdit(120, 4, 25)
	s.End()
	require.NoError(t, db.SessionRepository().Save(s))
	require.NoError(t, db.Close())

	var out bytes.Buffer
	statsCmd.SetOut(&out)
	t.Cleanup(func() { statsCmd.SetOut(nil) })

	require.NoError(t, runStats(statsCmd, []string{docPath}))

	assert.Contains(t, out.String(), "STARTED")
	assert.Contains(t, out.String(), "25")
	assert.Contains(t, out.String(), "ended")
}

func TestRunStats_EmptyDocument(t *testing.T) {
	orig := cfg
	t.Cleanup(func() { cfg = orig })

	dir := t.TempDir()
	cfg.Sessions.DBPath = filepath.Join(dir, "scrivo.db")

	db, err := sqlite.NewDB(cfg.Sessions.DBPath)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	var out bytes.Buffer
	statsCmd.SetOut(&out)
	t.Cleanup(func() { statsCmd.SetOut(nil) })

	require.NoError(t, runStats(statsCmd, []string{filepath.Join(dir, "other.md")}))

	assert.Contains(t, out.String(), "No sessions recorded")
}
