package canvas

import (
	"context"
	"time"

	graphrepo "github.com/canvasgraph/canvasgraph/internal/adapters/repository/graph"
	adapters "github.com/canvasgraph/canvasgraph/internal/adapters/repository/memory"
	"github.com/canvasgraph/canvasgraph/internal/app/dto"
	"github.com/canvasgraph/canvasgraph/internal/app/services"
	"github.com/canvasgraph/canvasgraph/internal/app/usecases"
	"github.com/canvasgraph/canvasgraph/internal/core/compile"
	coregraph "github.com/canvasgraph/canvasgraph/internal/core/graph"
	"github.com/canvasgraph/canvasgraph/pkg/validation"
)

// Re-export core canvas types for convenience
type Canvas = coregraph.Canvas
type Node = coregraph.Node
type Connection = coregraph.Connection
type NodeKind = coregraph.NodeKind
type Rules = coregraph.Rules

// Re-export boundary types
type Batch = dto.Batch
type ToolCall = dto.ToolCall
type BatchResult = dto.BatchResult
type Snapshot = dto.Snapshot
type InteractionState = dto.InteractionState
type MergeResult = services.MergeResult

// Re-export boundary errors for callers that branch on them.
var (
	ErrCanvasNotFound = coregraph.ErrCanvasNotFound
	ErrEmptyBatch     = dto.ErrEmptyBatch
	ErrSnapshotEmpty  = dto.ErrSnapshotEmpty
)

// Runtime is a simple façade to construct and operate canvases without
// importing internal packages directly. The default runtime uses in-memory
// components and is suitable for local usage and tests.
type Runtime struct {
	repo       *graphrepo.InMemoryCanvasRepository
	compiler   *compile.Compiler
	reconciler *services.Reconciler
	snapshots  *services.SnapshotService
}

// NewRuntime constructs a default runtime with in-memory services suitable for local usage.
func NewRuntime() *Runtime {
	return &Runtime{
		repo:       graphrepo.NewInMemoryCanvasRepository(),
		compiler:   compile.NewCompiler(),
		reconciler: services.NewReconciler(),
		snapshots:  services.NewSnapshotService(adapters.NewInMemorySnapshotSaver()),
	}
}

// NewCanvas creates and stores an empty canvas.
func (rt *Runtime) NewCanvas(ctx context.Context, id, name string) (*coregraph.Canvas, error) {
	c := coregraph.NewCanvas(id, name)
	if err := rt.repo.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// SaveCanvas persists a canvas to the runtime repository after structural
// validation.
func (rt *Runtime) SaveCanvas(ctx context.Context, c *coregraph.Canvas) error {
	if err := validation.ValidateCanvas(c); err != nil {
		return err
	}
	return rt.repo.Save(ctx, c)
}

// Canvas retrieves a stored canvas by id.
func (rt *Runtime) Canvas(ctx context.Context, id string) (*coregraph.Canvas, error) {
	return rt.repo.Get(ctx, id)
}

// Compile builds the preview document for one preview node of a stored
// canvas. forceReload appends a fingerprint comment so an unchanged document
// still busts the iframe cache.
func (rt *Runtime) Compile(ctx context.Context, canvasID, previewID string, forceReload bool) (string, error) {
	c, err := rt.repo.Get(ctx, canvasID)
	if err != nil {
		return "", err
	}
	return rt.compiler.Compile(c, previewID, forceReload), nil
}

// Mutate validates and executes a tool-call batch against a stored canvas.
// anchorID names the node near which implicitly created nodes are placed;
// it may be empty.
func (rt *Runtime) Mutate(ctx context.Context, canvasID, anchorID string, batch dto.Batch) (dto.BatchResult, error) {
	if err := validation.ValidateBatch(batch); err != nil {
		return dto.BatchResult{}, err
	}
	c, err := rt.repo.Get(ctx, canvasID)
	if err != nil {
		return dto.BatchResult{}, err
	}
	engine := usecases.NewMutationEngine(c, nil, nil, anchorID)
	return engine.Execute(batch), nil
}

// Sync merges a remote snapshot into a stored canvas, honoring per-node
// interaction states.
func (rt *Runtime) Sync(ctx context.Context, canvasID string, states map[string]dto.InteractionState, snap *dto.Snapshot) (services.MergeResult, error) {
	c, err := rt.repo.Get(ctx, canvasID)
	if err != nil {
		return services.MergeResult{}, err
	}
	if snap == nil || (snap.Nodes == nil && snap.Connections == nil) {
		return services.MergeResult{}, dto.ErrSnapshotEmpty
	}
	return rt.reconciler.Merge(c, states, snap), nil
}

// Watch returns a scheduler that recompiles a preview after edits to the
// canvas settle for delay. Callers Mark the scheduler on every edit; the
// compiled document is delivered to onDocument. Stop the scheduler when the
// preview closes.
func (rt *Runtime) Watch(ctx context.Context, canvasID, previewID string, delay time.Duration, onDocument func(string)) (*services.RecompileScheduler, error) {
	c, err := rt.repo.Get(ctx, canvasID)
	if err != nil {
		return nil, err
	}
	return services.NewRecompileScheduler(delay, func() {
		onDocument(rt.compiler.Compile(c, previewID, false))
	}), nil
}

// Persist captures and stores a snapshot of a stored canvas.
func (rt *Runtime) Persist(ctx context.Context, canvasID string) error {
	c, err := rt.repo.Get(ctx, canvasID)
	if err != nil {
		return err
	}
	return rt.snapshots.Persist(ctx, c)
}

// Restore loads the stored snapshot for a canvas and merges it in.
func (rt *Runtime) Restore(ctx context.Context, canvasID string, states map[string]dto.InteractionState) (services.MergeResult, error) {
	c, err := rt.repo.Get(ctx, canvasID)
	if err != nil {
		return services.MergeResult{}, err
	}
	return rt.snapshots.Restore(ctx, c, states)
}
