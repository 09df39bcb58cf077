// Package sqlite provides SQLite-backed snapshot persistence.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/ralvey/morph-go/engine/store"
	"github.com/ralvey/morph-go/engine/store/sqlite/migrations"
	"gopkg.in/yaml.v2"
	_ "modernc.org/sqlite"
)

// Store provides SQLite-backed persistence for stage snapshots.
type Store struct {
	sqlDB *sql.DB
}

var _ store.Store = &Store{}

// Open opens and migrates a snapshot SQLite store.
//
// Parameters:
//   - path: the database file path
//
// Returns:
//   - *Store: the migrated store
//   - error: an error if the database cannot be opened or migrated
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	s := &Store{sqlDB: sqlDB}
	if err := applyMigrations(s.sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return s, nil
}

// Close releases the underlying SQLite connection.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// SaveSnapshot persists a snapshot under the next revision for its name.
func (s *Store) SaveSnapshot(ctx context.Context, snap store.Snapshot) (int64, error) {
	if s == nil || s.sqlDB == nil {
		return 0, fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(snap.Name) == "" {
		return 0, fmt.Errorf("snapshot name is required")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin save: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var revision int64
	row := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(revision), 0) + 1 FROM snapshots WHERE name = ?`, snap.Name)
	if err := row.Scan(&revision); err != nil {
		return 0, fmt.Errorf("next revision: %w", err)
	}

	savedAt := snap.SavedAt
	if savedAt.IsZero() {
		savedAt = time.Now().UTC()
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO snapshots (name, revision, saved_at) VALUES (?, ?, ?)`,
		snap.Name, revision, savedAt.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("insert snapshot: %w", err)
	}
	snapshotID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("snapshot id: %w", err)
	}

	for position, obj := range snap.Objects {
		children, err := encodeChildren(obj.GroupChildren)
		if err != nil {
			return 0, fmt.Errorf("object %q: %w", obj.Name, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO snapshot_objects
			 (snapshot_id, position, name, kind, payload_yaml, material_yaml, enabled, group_children)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			snapshotID, position, obj.Name, obj.Kind,
			obj.PayloadYAML, obj.MaterialYAML, boolToInt(obj.Enabled), children,
		); err != nil {
			return 0, fmt.Errorf("insert object %q: %w", obj.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit save: %w", err)
	}
	return revision, nil
}

// LoadSnapshot retrieves a snapshot by name and revision, 0 for the latest.
func (s *Store) LoadSnapshot(ctx context.Context, name string, revision int64) (store.Snapshot, error) {
	if s == nil || s.sqlDB == nil {
		return store.Snapshot{}, fmt.Errorf("storage is not configured")
	}

	query := `SELECT id, name, revision, saved_at FROM snapshots WHERE name = ?`
	args := []any{name}
	if revision > 0 {
		query += ` AND revision = ?`
		args = append(args, revision)
	}
	query += ` ORDER BY revision DESC LIMIT 1`

	var snapshotID int64
	var snap store.Snapshot
	var savedAt int64
	row := s.sqlDB.QueryRowContext(ctx, query, args...)
	if err := row.Scan(&snapshotID, &snap.Name, &snap.Revision, &savedAt); err != nil {
		if err == sql.ErrNoRows {
			return store.Snapshot{}, store.ErrNotFound
		}
		return store.Snapshot{}, fmt.Errorf("load snapshot: %w", err)
	}
	snap.SavedAt = time.UnixMilli(savedAt).UTC()

	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT name, kind, payload_yaml, material_yaml, enabled, group_children
		 FROM snapshot_objects WHERE snapshot_id = ? ORDER BY position`, snapshotID)
	if err != nil {
		return store.Snapshot{}, fmt.Errorf("load objects: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var obj store.ObjectRow
		var enabled int64
		var children sql.NullString
		if err := rows.Scan(&obj.Name, &obj.Kind, &obj.PayloadYAML, &obj.MaterialYAML, &enabled, &children); err != nil {
			return store.Snapshot{}, fmt.Errorf("scan object: %w", err)
		}
		obj.Enabled = enabled != 0
		if children.Valid {
			obj.GroupChildren, err = decodeChildren(children.String)
			if err != nil {
				return store.Snapshot{}, fmt.Errorf("object %q: %w", obj.Name, err)
			}
		}
		snap.Objects = append(snap.Objects, obj)
	}
	if err := rows.Err(); err != nil {
		return store.Snapshot{}, fmt.Errorf("iterate objects: %w", err)
	}
	return snap, nil
}

// ListSnapshots returns snapshot metadata ordered by name then revision.
func (s *Store) ListSnapshots(ctx context.Context) ([]store.Snapshot, error) {
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT name, revision, saved_at FROM snapshots ORDER BY name, revision`)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var snaps []store.Snapshot
	for rows.Next() {
		var snap store.Snapshot
		var savedAt int64
		if err := rows.Scan(&snap.Name, &snap.Revision, &savedAt); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		snap.SavedAt = time.UnixMilli(savedAt).UTC()
		snaps = append(snaps, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshots: %w", err)
	}
	return snaps, nil
}

// DeleteSnapshot removes every revision stored under a name.
func (s *Store) DeleteSnapshot(ctx context.Context, name string) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}

	res, err := s.sqlDB.ExecContext(ctx, `DELETE FROM snapshots WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// encodeChildren serializes a child-name list for the group_children
// column. Empty lists store NULL.
func encodeChildren(children []string) (any, error) {
	if len(children) == 0 {
		return nil, nil
	}
	body, err := yaml.Marshal(children)
	if err != nil {
		return nil, fmt.Errorf("encode children: %w", err)
	}
	return string(body), nil
}

func decodeChildren(body string) ([]string, error) {
	if strings.TrimSpace(body) == "" {
		return nil, nil
	}
	var children []string
	if err := yaml.Unmarshal([]byte(body), &children); err != nil {
		return nil, fmt.Errorf("decode children: %w", err)
	}
	return children, nil
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
