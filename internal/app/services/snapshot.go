package services

import (
	"context"
	"fmt"
	"time"

	"github.com/canvasgraph/canvasgraph/internal/app/dto"
	"github.com/canvasgraph/canvasgraph/internal/core/graph"
)

// SnapshotSaver persists canvas snapshots to a secondary store, keyed by
// canvas id. Implementations live under internal/adapters/repository.
type SnapshotSaver interface {
	Save(ctx context.Context, canvasID string, snap *dto.Snapshot) error
	Load(ctx context.Context, canvasID string) (*dto.Snapshot, error)
	Delete(ctx context.Context, canvasID string) error
}

// SnapshotService captures, persists, and restores canvas snapshots. Restore
// goes through the reconciler so an in-progress local gesture survives a
// reload, same as any remote snapshot.
type SnapshotService struct {
	saver      SnapshotSaver
	reconciler *Reconciler
}

// NewSnapshotService creates a snapshot service over the given saver.
func NewSnapshotService(saver SnapshotSaver) *SnapshotService {
	return &SnapshotService{saver: saver, reconciler: NewReconciler()}
}

// Capture builds a full snapshot of the canvas.
func Capture(canvas *graph.Canvas) *dto.Snapshot {
	nodes := canvas.Nodes()
	snap := &dto.Snapshot{
		Nodes:       make([]dto.SnapshotNode, 0, len(nodes)),
		Connections: append([]*graph.Connection(nil), canvas.Connections...),
		TakenAt:     time.Now(),
	}
	for _, n := range nodes {
		snap.Nodes = append(snap.Nodes, dto.FromNode(n))
	}
	return snap
}

// Persist captures and stores the canvas's current state.
func (s *SnapshotService) Persist(ctx context.Context, canvas *graph.Canvas) error {
	if err := s.saver.Save(ctx, canvas.ID, Capture(canvas)); err != nil {
		return fmt.Errorf("persist canvas %s: %w", canvas.ID, err)
	}
	return nil
}

// Restore loads the stored snapshot and merges it into the canvas, honoring
// active interaction states.
func (s *SnapshotService) Restore(ctx context.Context, canvas *graph.Canvas, states map[string]dto.InteractionState) (MergeResult, error) {
	snap, err := s.saver.Load(ctx, canvas.ID)
	if err != nil {
		return MergeResult{}, fmt.Errorf("restore canvas %s: %w", canvas.ID, err)
	}
	return s.reconciler.Merge(canvas, states, snap), nil
}
