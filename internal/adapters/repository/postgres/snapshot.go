// Package postgres persists canvas snapshots in PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/canvasgraph/canvasgraph/internal/app/dto"
	"github.com/canvasgraph/canvasgraph/pkg/serialization"
)

// SnapshotSaver implements services.SnapshotSaver for PostgreSQL.
type SnapshotSaver struct {
	pool       *pgxpool.Pool
	serializer *serialization.Serializer
	tableName  string
}

// NewSnapshotSaver creates a PostgreSQL snapshot saver.
func NewSnapshotSaver(pool *pgxpool.Pool, serializer *serialization.Serializer) *SnapshotSaver {
	if serializer == nil {
		serializer = serialization.DefaultSnapshotSerializer()
	}
	return &SnapshotSaver{
		pool:       pool,
		serializer: serializer,
		tableName:  "canvas_snapshots",
	}
}

// Init creates the snapshot table if needed.
func (s *SnapshotSaver) Init(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			canvas_id TEXT PRIMARY KEY,
			payload   BYTEA NOT NULL,
			taken_at  TIMESTAMPTZ NOT NULL,
			saved_at  TIMESTAMPTZ NOT NULL
		)
	`, s.tableName)
	if _, err := s.pool.Exec(ctx, query); err != nil {
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
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (canvas_id) DO UPDATE SET
			payload = EXCLUDED.payload,
			taken_at = EXCLUDED.taken_at,
			saved_at = EXCLUDED.saved_at
	`, s.tableName)
	if _, err := s.pool.Exec(ctx, query, canvasID, data, snap.TakenAt, time.Now()); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// Load retrieves the snapshot for a canvas.
func (s *SnapshotSaver) Load(ctx context.Context, canvasID string) (*dto.Snapshot, error) {
	query := fmt.Sprintf(`SELECT payload FROM %s WHERE canvas_id = $1`, s.tableName)

	var data []byte
	err := s.pool.QueryRow(ctx, query, canvasID).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
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
	query := fmt.Sprintf(`DELETE FROM %s WHERE canvas_id = $1`, s.tableName)
	if _, err := s.pool.Exec(ctx, query, canvasID); err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	return nil
}
