package manifest

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Artifact is one published file.
type Artifact struct {
	ContextDir       string    `json:"context_dir"`
	AssetID          string    `json:"asset_id"`
	Ext              string    `json:"ext"`
	Version          string    `json:"version"`
	ContentHash      string    `json:"content_hash"`
	RelPath          string    `json:"rel_path"`
	Size             int64     `json:"size"`
	FirstPublishedAt time.Time `json:"first_published_at"`
	LastPublishedAt  time.Time `json:"last_published_at"`
}

// Filter narrows List results. Empty fields match everything.
type Filter struct {
	ContextDir string
	AssetID    string
}

// ErrNotFound is returned by Lookup when no artifact has the requested path.
var ErrNotFound = errors.New("artifact not found")

// Store manages manifest persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the manifest database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("manifest path required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create manifest directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database location.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record inserts an artifact or, when its path is already known, refreshes the
// last-published timestamp and content details.
func (s *Store) Record(ctx context.Context, a Artifact) error {
	if strings.TrimSpace(a.RelPath) == "" {
		return errors.New("record artifact: rel_path required")
	}
	now := time.Now().UTC()
	if a.LastPublishedAt.IsZero() {
		a.LastPublishedAt = now
	}
	if a.FirstPublishedAt.IsZero() {
		a.FirstPublishedAt = a.LastPublishedAt
	}

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO artifacts (
            context_dir, asset_id, ext, version, content_hash, rel_path, size,
            first_published_at, last_published_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(rel_path) DO UPDATE SET
            content_hash = excluded.content_hash,
            size = excluded.size,
            last_published_at = excluded.last_published_at`,
		a.ContextDir,
		a.AssetID,
		a.Ext,
		a.Version,
		a.ContentHash,
		a.RelPath,
		a.Size,
		formatTime(a.FirstPublishedAt),
		formatTime(a.LastPublishedAt),
	)
	if err != nil {
		return fmt.Errorf("record artifact %s: %w", a.RelPath, err)
	}
	return nil
}

// Lookup returns the artifact published at relPath.
func (s *Store) Lookup(ctx context.Context, relPath string) (*Artifact, error) {
	row := s.db.QueryRowContext(ctx, selectArtifacts+" WHERE rel_path = ?", relPath)
	artifact, err := scanArtifact(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, relPath)
		}
		return nil, fmt.Errorf("lookup artifact %s: %w", relPath, err)
	}
	return artifact, nil
}

// List returns artifacts matching filter ordered by context dir, id and path.
func (s *Store) List(ctx context.Context, filter Filter) ([]Artifact, error) {
	query := selectArtifacts
	var (
		clauses []string
		args    []any
	)
	if filter.ContextDir != "" {
		clauses = append(clauses, "context_dir = ?")
		args = append(args, filter.ContextDir)
	}
	if filter.AssetID != "" {
		clauses = append(clauses, "asset_id = ?")
		args = append(args, filter.AssetID)
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY context_dir, asset_id, rel_path"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list artifacts: %w", err)
	}
	defer rows.Close()

	var artifacts []Artifact
	for rows.Next() {
		artifact, err := scanArtifact(rows)
		if err != nil {
			return nil, fmt.Errorf("scan artifact: %w", err)
		}
		artifacts = append(artifacts, *artifact)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate artifacts: %w", err)
	}
	return artifacts, nil
}

// Prune deletes every artifact whose version differs from keepVersion and
// returns the removed rows. Published files are left on disk.
func (s *Store) Prune(ctx context.Context, keepVersion string) ([]Artifact, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin prune tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	rows, err := tx.QueryContext(ctx, selectArtifacts+" WHERE version <> ? ORDER BY rel_path", keepVersion)
	if err != nil {
		return nil, fmt.Errorf("select stale artifacts: %w", err)
	}
	var removed []Artifact
	for rows.Next() {
		artifact, err := scanArtifact(rows)
		if err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan artifact: %w", err)
		}
		removed = append(removed, *artifact)
	}
	if err := rows.Close(); err != nil {
		return nil, fmt.Errorf("close rows: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM artifacts WHERE version <> ?", keepVersion); err != nil {
		return nil, fmt.Errorf("delete stale artifacts: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit prune: %w", err)
	}
	return removed, nil
}

const selectArtifacts = `SELECT context_dir, asset_id, ext, version, content_hash, rel_path, size,
        first_published_at, last_published_at FROM artifacts`

type scanner interface {
	Scan(dest ...any) error
}

func scanArtifact(row scanner) (*Artifact, error) {
	var (
		a         Artifact
		firstText string
		lastText  string
	)
	if err := row.Scan(
		&a.ContextDir,
		&a.AssetID,
		&a.Ext,
		&a.Version,
		&a.ContentHash,
		&a.RelPath,
		&a.Size,
		&firstText,
		&lastText,
	); err != nil {
		return nil, err
	}
	a.FirstPublishedAt = parseTime(firstText)
	a.LastPublishedAt = parseTime(lastText)
	return &a, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(value string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return t
}
