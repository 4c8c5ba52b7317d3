// Package graphrepo provides canvas repository implementations.
package graphrepo

import (
	"context"
	"sync"

	"github.com/canvasgraph/canvasgraph/internal/core/graph"
)

// InMemoryCanvasRepository provides thread-safe in-memory canvas storage
// PRINCIPLES:
// - KISS: Simple map-based storage
// - SRP: Only responsible for canvas persistence
type InMemoryCanvasRepository struct {
	mu       sync.RWMutex
	canvases map[string]*graph.Canvas
}

func NewInMemoryCanvasRepository() *InMemoryCanvasRepository {
	return &InMemoryCanvasRepository{
		canvases: make(map[string]*graph.Canvas),
	}
}

func (r *InMemoryCanvasRepository) Save(ctx context.Context, c *graph.Canvas) error {
	if c == nil || c.ID == "" {
		return graph.ErrCanvasNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.canvases[c.ID] = c
	return nil
}

func (r *InMemoryCanvasRepository) Get(ctx context.Context, id string) (*graph.Canvas, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.canvases[id]
	if !ok {
		return nil, graph.ErrCanvasNotFound
	}
	return c, nil
}

func (r *InMemoryCanvasRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.canvases[id]; !ok {
		return graph.ErrCanvasNotFound
	}
	delete(r.canvases, id)
	return nil
}

func (r *InMemoryCanvasRepository) List(ctx context.Context) ([]*graph.Canvas, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*graph.Canvas, 0, len(r.canvases))
	for _, c := range r.canvases {
		out = append(out, c)
	}
	return out, nil
}
