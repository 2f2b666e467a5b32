// ════════════════════════════════════════════════════════════════════════════════════════════════
// 💾 SNAPSHOT STORE
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Project: ndhist
// Component: SQLite Histogram Persistence
//
// Description:
//   Keeps named histogram snapshots in one SQLite table. Each row carries the
//   JSON snapshot together with its SHA3 fingerprint, so a row edited or
//   damaged outside the store is detected on load instead of decoded silently.
//
// Schema management:
//   PRAGMA user_version records the schema revision. Opening an older file
//   migrates it; opening a file written by a newer revision fails.
//
// Threading model:
//   One connection, serialized by database/sql. Safe for concurrent callers.
//
// ════════════════════════════════════════════════════════════════════════════════════════════════

package store

import (
	"context"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"ndhist/constants"
	"ndhist/debug"
	"ndhist/histogram"
	"ndhist/utils"
)

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// ERRORS
// ═══════════════════════════════════════════════════════════════════════════════════════════════

var (
	// ErrNotFound reports a name with no stored snapshot.
	ErrNotFound = errors.New("histogram not found")

	// ErrCorrupt reports a stored snapshot that fails to decode or whose
	// fingerprint no longer matches its content.
	ErrCorrupt = errors.New("stored histogram is corrupt")

	// ErrSchema reports a database written by a newer schema revision.
	ErrSchema = errors.New("unsupported store schema")
)

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// TYPE DEFINITIONS
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// Store is a handle on one snapshot database.
type Store struct {
	db *sql.DB
}

// Entry describes a stored snapshot without decoding it.
type Entry struct {
	Name        string
	Dim         int
	Sum         uint64
	Fingerprint string // hex SHA3-256
	Updated     time.Time
}

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// LIFECYCLE
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// Open connects to the SQLite database at dsn and brings its schema up to date.
// dsn is a file path or ":memory:", optionally with go-sqlite3 query parameters.
func Open(ctx context.Context, dsn string) (*Store, error) {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	db, err := sql.Open("sqlite3", dsn+sep+constants.StorePragmas)
	if err != nil {
		return nil, fmt.Errorf("failed to open store %s: %w", dsn, err)
	}
	// ":memory:" databases exist per connection.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	debug.DropMessage("STORE_OPEN", dsn)
	return s, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate(ctx context.Context) error {
	var version int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	switch {
	case version == constants.StoreSchemaVersion:
		return nil
	case version > constants.StoreSchemaVersion:
		return fmt.Errorf("%w: version %d, supported %d", ErrSchema, version, constants.StoreSchemaVersion)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS ` + constants.StoreTable + ` (
		name        TEXT PRIMARY KEY,
		dim         INTEGER NOT NULL,
		total       TEXT NOT NULL,
		fingerprint TEXT NOT NULL,
		snapshot    BLOB NOT NULL,
		updated_at  INTEGER NOT NULL
	) WITHOUT ROWID;
	`
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin migration: %w", err)
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", constants.StoreSchemaVersion)); err != nil {
		return fmt.Errorf("failed to set schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration: %w", err)
	}
	debug.DropMessage("STORE_MIGRATE", "schema v"+utils.Itoa(version)+" -> v"+utils.Itoa(constants.StoreSchemaVersion))
	return nil
}

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// OPERATIONS
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// Save stores h under name, replacing any previous snapshot with that name.
func (s *Store) Save(ctx context.Context, name string, h *histogram.Histogram) error {
	if name == "" {
		return fmt.Errorf("%w: empty snapshot name", histogram.ErrInvalidArgument)
	}
	raw, err := histogram.Marshal(h)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}
	fp := h.Fingerprint()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO `+constants.StoreTable+` (name, dim, total, fingerprint, snapshot, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			dim = excluded.dim,
			total = excluded.total,
			fingerprint = excluded.fingerprint,
			snapshot = excluded.snapshot,
			updated_at = excluded.updated_at`,
		name, h.Dim(), strconv.FormatUint(h.Sum(), 10), hex.EncodeToString(fp[:]), raw, time.Now().UnixNano())
	if err != nil {
		return fmt.Errorf("failed to save %s: %w", name, err)
	}
	return nil
}

// Load decodes the snapshot stored under name and checks its fingerprint.
func (s *Store) Load(ctx context.Context, name string) (*histogram.Histogram, error) {
	var raw []byte
	var want string
	err := s.db.QueryRowContext(ctx,
		`SELECT snapshot, fingerprint FROM `+constants.StoreTable+` WHERE name = ?`, name).Scan(&raw, &want)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", name, err)
	}

	h, err := histogram.Unmarshal(raw)
	if err != nil {
		debug.DropError("STORE_CORRUPT "+name, err)
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, name, err)
	}
	fp := h.Fingerprint()
	if got := hex.EncodeToString(fp[:]); got != want {
		debug.DropMessage("STORE_CORRUPT "+name, "fingerprint "+got+" != "+want)
		return nil, fmt.Errorf("%w: %s: fingerprint mismatch", ErrCorrupt, name)
	}
	return h, nil
}

// List describes every stored snapshot, ordered by name.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, dim, total, fingerprint, updated_at FROM `+constants.StoreTable+` ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var total string
		var updated int64
		if err := rows.Scan(&e.Name, &e.Dim, &total, &e.Fingerprint, &updated); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot row: %w", err)
		}
		if e.Sum, err = strconv.ParseUint(total, 10, 64); err != nil {
			return nil, fmt.Errorf("%w: %s: total %q", ErrCorrupt, e.Name, total)
		}
		e.Updated = time.Unix(0, updated)
		out = append(out, e)
	}
	return out, rows.Err()
}

// Delete removes the snapshot stored under name.
func (s *Store) Delete(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM `+constants.StoreTable+` WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", name, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return nil
}
