// ABOUTME: SQLite-backed snapshot store with a mirrored action-log audit table.
// ABOUTME: The JSON payload is the record of truth; log rows are queryable copies.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/2389-research/plexus/graph"
)

// ErrSnapshotNotFound reports a snapshot id with no stored row.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// SnapshotInfo is a row from the snapshots table for list queries.
type SnapshotInfo struct {
	SnapshotID string
	Name       string
	GraphID    string
	CreatedAt  string
	SavedAt    string
	Version    int
}

// ActionRow is one mirrored action-log row for audit queries.
type ActionRow struct {
	Version    int
	Operation  string
	At         string
	DurationMS float64
	Nodes      int
	Edges      int
}

// SQLiteStore persists whole-graph snapshots. Each save writes one snapshots
// row holding the full JSON payload plus one action_log row per log entry,
// so the history is queryable without decoding payloads.
type SQLiteStore struct {
	db *sql.DB
}

// Open opens or creates a snapshot database at the given path and ensures
// the schema is up to date.
func Open(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	schema := `
		CREATE TABLE IF NOT EXISTS snapshots (
			snapshot_id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			graph_id TEXT NOT NULL,
			created_at TEXT NOT NULL,
			saved_at TEXT NOT NULL,
			version INTEGER NOT NULL,
			payload BLOB NOT NULL
		);

		CREATE TABLE IF NOT EXISTS action_log (
			snapshot_id TEXT NOT NULL,
			version INTEGER NOT NULL,
			operation TEXT NOT NULL,
			at TEXT NOT NULL,
			duration_ms REAL NOT NULL,
			nodes INTEGER NOT NULL,
			edges INTEGER NOT NULL,
			PRIMARY KEY (snapshot_id, version),
			FOREIGN KEY (snapshot_id) REFERENCES snapshots(snapshot_id) ON DELETE CASCADE
		);`

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Save stores a snapshot of the graph under a fresh snapshot id and mirrors
// its action log. Saving the same graph twice yields two independent rows.
func (s *SQLiteStore) Save(g *graph.Graph) (string, error) {
	if g == nil {
		return "", fmt.Errorf("save snapshot: nil graph")
	}
	snap := g.Snapshot()
	payload, err := Encode(snap)
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}

	id := uuid.New().String()
	savedAt := time.Now().UTC().Format(time.RFC3339)

	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("begin save: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.Exec(
		`INSERT INTO snapshots (snapshot_id, name, graph_id, created_at, saved_at, version, payload)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, snap.Name, snap.ID, snap.CreatedAt.Format(time.RFC3339), savedAt, len(snap.Log), payload)
	if err != nil {
		return "", fmt.Errorf("insert snapshot: %w", err)
	}

	for _, e := range snap.Log {
		_, err = tx.Exec(
			`INSERT INTO action_log (snapshot_id, version, operation, at, duration_ms, nodes, edges)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			id, e.Version, e.Operation, e.Time.Format(time.RFC3339),
			float64(e.Duration)/float64(time.Millisecond), e.Nodes, e.Edges)
		if err != nil {
			return "", fmt.Errorf("insert log row %d: %w", e.Version, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit save: %w", err)
	}
	return id, nil
}

// Load reads a snapshot payload and reconstructs the graph from it. The
// restored graph has no log sink attached.
func (s *SQLiteStore) Load(id string) (*graph.Graph, error) {
	var payload []byte
	err := s.db.QueryRow("SELECT payload FROM snapshots WHERE snapshot_id = ?", id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrSnapshotNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("query snapshot: %w", err)
	}

	snap, err := Decode(payload)
	if err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", id, err)
	}
	g, err := graph.FromSnapshot(snap)
	if err != nil {
		return nil, fmt.Errorf("restore snapshot %s: %w", id, err)
	}
	return g, nil
}

// List returns stored snapshots, most recently saved first.
func (s *SQLiteStore) List() ([]SnapshotInfo, error) {
	rows, err := s.db.Query(
		`SELECT snapshot_id, name, graph_id, created_at, saved_at, version
		 FROM snapshots ORDER BY saved_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var infos []SnapshotInfo
	for rows.Next() {
		var info SnapshotInfo
		if err := rows.Scan(&info.SnapshotID, &info.Name, &info.GraphID,
			&info.CreatedAt, &info.SavedAt, &info.Version); err != nil {
			return nil, fmt.Errorf("scan snapshot row: %w", err)
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// ActionLog returns the mirrored log rows for a snapshot, ordered by version.
func (s *SQLiteStore) ActionLog(id string) ([]ActionRow, error) {
	rows, err := s.db.Query(
		`SELECT version, operation, at, duration_ms, nodes, edges
		 FROM action_log WHERE snapshot_id = ? ORDER BY version ASC`, id)
	if err != nil {
		return nil, fmt.Errorf("query action log: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var actions []ActionRow
	for rows.Next() {
		var a ActionRow
		if err := rows.Scan(&a.Version, &a.Operation, &a.At,
			&a.DurationMS, &a.Nodes, &a.Edges); err != nil {
			return nil, fmt.Errorf("scan action row: %w", err)
		}
		actions = append(actions, a)
	}
	return actions, rows.Err()
}

// Delete removes a snapshot and, through the cascade, its mirrored log rows.
func (s *SQLiteStore) Delete(id string) error {
	res, err := s.db.Exec("DELETE FROM snapshots WHERE snapshot_id = ?", id)
	if err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrSnapshotNotFound, id)
	}
	return nil
}
