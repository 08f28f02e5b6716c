// Package sqlite provides the SQLite-backed persistence layer for writing
// sessions.
package sqlite

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/dtannen/scrivo/internal/log"
	"github.com/dtannen/scrivo/internal/sessions/domain"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// DB owns the SQLite connection and hands out repositories bound to it.
type DB struct {
	conn *sql.DB
	path string
}

// NewDB opens (creating if necessary) the database at path, applies pragmas,
// backs up the existing file, and runs pending migrations.
func NewDB(path string) (*DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// A backup before migrations makes a bad migration recoverable.
	if _, err := os.Stat(path); err == nil {
		if err := backupFile(path, path+".bak"); err != nil {
			return nil, fmt.Errorf("failed to back up database: %w", err)
		}
	}

	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	db := &DB{conn: conn, path: path}
	if err := db.migrate(); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return db, nil
}

// Connection returns the underlying *sql.DB.
func (d *DB) Connection() *sql.DB {
	return d.conn
}

// SessionRepository returns a repository bound to this connection.
func (d *DB) SessionRepository() domain.SessionRepository {
	return newSessionRepository(d.conn)
}

// Close closes the underlying connection.
func (d *DB) Close() error {
	return d.conn.Close()
}

// migrate applies pending migrations in version order. Migration files are
// embedded and enumerated through the golang-migrate iofs source driver;
// applied versions are tracked in schema_migrations.
func (d *DB) migrate() error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}
	defer func() { _ = src.Close() }()

	if _, err := d.conn.Exec(
		`CREATE TABLE IF NOT EXISTS schema_migrations (version INTEGER PRIMARY KEY, applied_at INTEGER NOT NULL)`,
	); err != nil {
		return fmt.Errorf("failed to create schema_migrations: %w", err)
	}

	version, err := src.First()
	for ; err == nil; version, err = src.Next(version) {
		applied, checkErr := d.isApplied(version)
		if checkErr != nil {
			return checkErr
		}
		if applied {
			continue
		}
		if applyErr := d.applyMigration(src, version); applyErr != nil {
			return applyErr
		}
	}
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to enumerate migrations: %w", err)
	}
	return nil
}

func (d *DB) isApplied(version uint) (bool, error) {
	var count int
	err := d.conn.QueryRow(
		`SELECT COUNT(*) FROM schema_migrations WHERE version = ?`, version,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check migration %d: %w", version, err)
	}
	return count > 0, nil
}

func (d *DB) applyMigration(src source.Driver, version uint) error {
	reader, identifier, err := src.ReadUp(version)
	if err != nil {
		return fmt.Errorf("failed to read migration %d: %w", version, err)
	}
	defer func() { _ = reader.Close() }()

	stmts, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("failed to read migration %d body: %w", version, err)
	}

	tx, err := d.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin migration %d: %w", version, err)
	}
	if _, err := tx.Exec(string(stmts)); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("migration %d (%s) failed: %w", version, identifier, err)
	}
	if _, err := tx.Exec(
		`INSERT INTO schema_migrations (version, applied_at) VALUES (?, unixepoch())`, version,
	); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to record migration %d: %w", version, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration %d: %w", version, err)
	}

	log.Info(log.CatDB, "applied migration", "version", version, "identifier", identifier)
	return nil
}

// backupFile copies src to dst, replacing any previous backup.
func backupFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
