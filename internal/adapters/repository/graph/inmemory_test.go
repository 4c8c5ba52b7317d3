package graphrepo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canvasgraph/canvasgraph/internal/core/graph"
)

func TestInMemoryCanvasRepository_SaveAndGet(t *testing.T) {
	repo := NewInMemoryCanvasRepository()
	ctx := context.Background()

	c := graph.NewCanvas("c1", "main")
	require.NoError(t, repo.Save(ctx, c))

	got, err := repo.Get(ctx, "c1")
	require.NoError(t, err)
	assert.Same(t, c, got)
}

func TestInMemoryCanvasRepository_GetMissing(t *testing.T) {
	repo := NewInMemoryCanvasRepository()

	_, err := repo.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, graph.ErrCanvasNotFound)
}

func TestInMemoryCanvasRepository_SaveInvalid(t *testing.T) {
	repo := NewInMemoryCanvasRepository()
	ctx := context.Background()

	assert.Error(t, repo.Save(ctx, nil))
	assert.Error(t, repo.Save(ctx, &graph.Canvas{}))
}

func TestInMemoryCanvasRepository_Delete(t *testing.T) {
	repo := NewInMemoryCanvasRepository()
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, graph.NewCanvas("c1", "main")))
	require.NoError(t, repo.Delete(ctx, "c1"))

	_, err := repo.Get(ctx, "c1")
	assert.ErrorIs(t, err, graph.ErrCanvasNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "c1"), graph.ErrCanvasNotFound)
}

func TestInMemoryCanvasRepository_List(t *testing.T) {
	repo := NewInMemoryCanvasRepository()
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, graph.NewCanvas("c1", "one")))
	require.NoError(t, repo.Save(ctx, graph.NewCanvas("c2", "two")))

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
