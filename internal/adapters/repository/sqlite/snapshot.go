// Package sqlite persists canvas snapshots in SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/canvasgraph/canvasgraph/internal/app/dto"
	"github.com/canvasgraph/canvasgraph/pkg/serialization"
)

// SnapshotSaver implements services.SnapshotSaver for SQLite.
type SnapshotSaver struct {
	db         *sql.DB
	serializer *serialization.Serializer
	tableName  string
}

// NewSnapshotSaver creates a SQLite snapshot saver.
func NewSnapshotSaver(db *sql.DB, serializer *serialization.Serializer) *SnapshotSaver {
	if serializer == nil {
		serializer = serialization.DefaultSnapshotSerializer()
	}
	return &SnapshotSaver{
		db:         db,
		serializer: serializer,
		tableName:  "canvas_snapshots",
	}
}

// WithTableName overrides the default table name with validation. Only
// alphanumeric and underscore are permitted to prevent SQL injection via
// identifiers.
func (s *SnapshotSaver) WithTableName(name string) *SnapshotSaver {
	if isSafeIdent(name) {
		s.tableName = name
	}
	return s
}

func isSafeIdent(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_' {
			continue
		}
		return false
	}
	return true
}

// Init creates the snapshot table if needed.
func (s *SnapshotSaver) Init(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			canvas_id TEXT PRIMARY KEY,
			payload   BLOB NOT NULL,
			taken_at  TIMESTAMP NOT NULL,
			saved_at  TIMESTAMP NOT NULL
		)
	`, s.tableName)
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("create snapshot table: %w", err)
	}
	return nil
}

// Save upserts the snapshot for a canvas.
func (s *SnapshotSaver) Save(ctx context.Context, canvasID string, snap *dto.Snapshot) error {
	if canvasID == "" || snap == nil {
		return fmt.Errorf("invalid snapshot save request")
	}
	data, err := s.serializer.Serialize(snap)
	if err != nil {
		return fmt.Errorf("serialize snapshot: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (canvas_id, payload, taken_at, saved_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (canvas_id) DO UPDATE SET
			payload = excluded.payload,
			taken_at = excluded.taken_at,
			saved_at = excluded.saved_at
	`, s.tableName)
	if _, err := s.db.ExecContext(ctx, query, canvasID, data, snap.TakenAt, time.Now()); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// Load retrieves the snapshot for a canvas.
func (s *SnapshotSaver) Load(ctx context.Context, canvasID string) (*dto.Snapshot, error) {
	query := fmt.Sprintf(`SELECT payload FROM %s WHERE canvas_id = ?`, s.tableName)

	var data []byte
	err := s.db.QueryRowContext(ctx, query, canvasID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("no snapshot for canvas %s", canvasID)
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	var snap dto.Snapshot
	if err := s.serializer.Deserialize(data, &snap); err != nil {
		return nil, fmt.Errorf("deserialize snapshot: %w", err)
	}
	return &snap, nil
}

// Delete removes the snapshot for a canvas.
func (s *SnapshotSaver) Delete(ctx context.Context, canvasID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE canvas_id = ?`, s.tableName)
	if _, err := s.db.ExecContext(ctx, query, canvasID); err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	return nil
}
