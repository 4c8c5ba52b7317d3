package services

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canvasgraph/canvasgraph/internal/core/graph"
)

func TestFingerprint_TracksWatchedFieldsOnly(t *testing.T) {
	c := graph.NewCanvas("canvas-1", "test")
	n := &graph.Node{ID: "a", Kind: graph.KindCode, Title: "a.js", Content: graph.ScriptContent{Source: "v1"}}
	require.NoError(t, c.AddNode(n))
	base := Fingerprint(c)

	// position is not watched
	n.Position = graph.Position{X: 500, Y: 500}
	assert.Equal(t, base, Fingerprint(c))

	// content is watched
	n.Content = graph.ScriptContent{Source: "v2"}
	afterContent := Fingerprint(c)
	assert.NotEqual(t, base, afterContent)

	// wiring is watched
	require.NoError(t, c.AddNode(&graph.Node{ID: "b", Kind: graph.KindCode, Title: "b.js", Content: graph.ScriptContent{}}))
	require.NotNil(t, graph.NewRules(c).ConnectRole("a", "b", graph.RoleImports))
	assert.NotEqual(t, afterContent, Fingerprint(c))
}

func TestScheduler_CoalescesRapidMarks(t *testing.T) {
	c := graph.NewCanvas("canvas-1", "test")
	n := &graph.Node{ID: "a", Kind: graph.KindCode, Title: "a.js", Content: graph.ScriptContent{Source: "v0"}}
	require.NoError(t, c.AddNode(n))

	var compiles atomic.Int32
	s := NewRecompileScheduler(20*time.Millisecond, func() { compiles.Add(1) })
	defer s.Stop()

	for i := 0; i < 5; i++ {
		n.Content = graph.ScriptContent{Source: string(rune('a' + i))}
		assert.True(t, s.Mark(c))
	}

	assert.Eventually(t, func() bool { return compiles.Load() == 1 },
		500*time.Millisecond, 5*time.Millisecond)
	// quiet canvas stays at one compile
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), compiles.Load())
}

func TestScheduler_UnchangedFingerprintIsNoop(t *testing.T) {
	c := graph.NewCanvas("canvas-1", "test")
	require.NoError(t, c.AddNode(&graph.Node{ID: "a", Kind: graph.KindCode, Title: "a.js", Content: graph.ScriptContent{}}))

	var compiles atomic.Int32
	s := NewRecompileScheduler(10*time.Millisecond, func() { compiles.Add(1) })
	defer s.Stop()

	assert.True(t, s.Mark(c))
	assert.Eventually(t, func() bool { return compiles.Load() == 1 },
		500*time.Millisecond, 5*time.Millisecond)

	assert.False(t, s.Mark(c))
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, int32(1), compiles.Load())
}

func TestScheduler_StopCancelsPending(t *testing.T) {
	c := graph.NewCanvas("canvas-1", "test")
	require.NoError(t, c.AddNode(&graph.Node{ID: "a", Kind: graph.KindCode, Title: "a.js", Content: graph.ScriptContent{}}))

	var compiles atomic.Int32
	s := NewRecompileScheduler(30*time.Millisecond, func() { compiles.Add(1) })

	assert.True(t, s.Mark(c))
	s.Stop()
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(0), compiles.Load())
	assert.False(t, s.Mark(c))
}
