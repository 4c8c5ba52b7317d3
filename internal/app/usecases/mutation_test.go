package usecases

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canvasgraph/canvasgraph/internal/app/dto"
	"github.com/canvasgraph/canvasgraph/internal/core/graph"
	"github.com/canvasgraph/canvasgraph/internal/core/path"
)

func newEngine(t *testing.T, nodes ...*graph.Node) (*MutationEngine, *graph.Canvas) {
	t.Helper()
	c := graph.NewCanvas("canvas-1", "test")
	for _, n := range nodes {
		require.NoError(t, c.AddNode(n))
	}
	return NewMutationEngine(c, nil, nil, ""), c
}

func codeFile(id, title, source string) *graph.Node {
	return &graph.Node{ID: id, Kind: graph.KindCode, Title: title, Content: graph.ScriptContent{Source: source}}
}

func findByTitle(c *graph.Canvas, title string) *graph.Node {
	for _, n := range c.Nodes() {
		if n.Title == title {
			return n
		}
	}
	return nil
}

func TestExecute_UpdateCreatesFileAndFolder(t *testing.T) {
	engine, c := newEngine(t)

	result := engine.Execute(dto.Batch{
		{Op: dto.OpUpdate, Path: "components/Button.tsx", Content: "export default () => null;"},
	})

	button := findByTitle(c, "Button.tsx")
	require.NotNil(t, button)
	assert.Equal(t, graph.KindCode, button.Kind)
	folder := findByTitle(c, "components")
	require.NotNil(t, folder)
	assert.Equal(t, graph.KindFolder, folder.Kind)

	require.Len(t, c.Connections, 1)
	assert.Equal(t, button.ID, c.Connections[0].SourceNodeID)
	assert.Equal(t, folder.ID, c.Connections[0].TargetNodeID)

	assert.Contains(t, result.Transcript, "Created Button.tsx")
	assert.Contains(t, result.Transcript, "Moved Button.tsx into components")
	assert.Equal(t, 1, result.Applied)
	assert.Equal(t, "components/Button.tsx", path.NewResolver(c).PathOf(button))
}

func TestExecute_UpdateOverwritesExisting(t *testing.T) {
	engine, c := newEngine(t, codeFile("a", "app.js", "old"))

	result := engine.Execute(dto.Batch{
		{Op: dto.OpUpdate, Path: "app.js", Content: "new"},
	})

	assert.Equal(t, "new", findByTitle(c, "app.js").Text())
	assert.Contains(t, result.Transcript, "Updated app.js")
	assert.Equal(t, 0, result.Skipped)
}

func TestExecute_UpdateWithoutFolderWiresAnchor(t *testing.T) {
	c := graph.NewCanvas("canvas-1", "test")
	require.NoError(t, c.AddNode(&graph.Node{ID: "chat", Kind: graph.KindAiChat, Title: "chat"}))
	engine := NewMutationEngine(c, nil, nil, "chat")

	engine.Execute(dto.Batch{{Op: dto.OpUpdate, Path: "util.js", Content: "export {};"}})

	created := findByTitle(c, "util.js")
	require.NotNil(t, created)
	require.Len(t, c.Connections, 1)
	assert.Equal(t, created.ID, c.Connections[0].SourceNodeID)
	assert.Equal(t, "chat", c.Connections[0].TargetNodeID)
	assert.True(t, graph.RoleMatches(c.Connections[0].TargetPortID, graph.RoleImports))
}

func TestExecute_CreateThenReferenceWithinBatch(t *testing.T) {
	engine, c := newEngine(t)

	result := engine.Execute(dto.Batch{
		{Op: dto.OpUpdate, Path: "a.js", Content: "export const a = 1;"},
		{Op: dto.OpUpdate, Path: "b.js", Content: "import { a } from 'a.js';"},
		{Op: dto.OpConnect, SourceTitle: "a.js", TargetTitle: "b.js"},
	})

	assert.Equal(t, 3, result.Applied)
	assert.Zero(t, result.Skipped)
	a, b := findByTitle(c, "a.js"), findByTitle(c, "b.js")
	require.NotNil(t, a)
	require.NotNil(t, b)
	require.Len(t, c.Connections, 1)
	assert.Equal(t, a.ID, c.Connections[0].SourceNodeID)
	assert.Equal(t, b.ID, c.Connections[0].TargetNodeID)
}

// Edges added earlier in the same batch are invisible to later structural
// removal: decisions read the pre-batch connection snapshot.
func TestExecute_StructuralRemovalReadsPreBatchSnapshot(t *testing.T) {
	engine, c := newEngine(t,
		codeFile("f", "a.js", ""),
		&graph.Node{ID: "lib", Kind: graph.KindFolder, Title: "lib"},
		&graph.Node{ID: "src", Kind: graph.KindFolder, Title: "src"},
	)

	result := engine.Execute(dto.Batch{
		{Op: dto.OpMove, Title: "a.js", TargetFolder: "lib"},
		{Op: dto.OpMove, Title: "a.js", TargetFolder: "src"},
	})

	assert.Equal(t, 2, result.Applied)
	// The lib edge was added mid-batch, so the second move cannot see it to
	// remove it: a.js ends up wired to both folders. Pinning the split from
	// the shadow-list design; see DESIGN.md before "fixing" this.
	var targets []string
	for _, conn := range c.Connections {
		targets = append(targets, conn.TargetNodeID)
	}
	assert.ElementsMatch(t, []string{"lib", "src"}, targets)
}

func TestExecute_MovePreservesFeedEdges(t *testing.T) {
	engine, c := newEngine(t,
		&graph.Node{ID: "img", Kind: graph.KindImage, Title: "pic.png"},
		codeFile("app", "app.js", ""),
		&graph.Node{ID: "lib", Kind: graph.KindFolder, Title: "lib"},
		&graph.Node{ID: "p", Kind: graph.KindPreview},
		&graph.Node{ID: "term", Kind: graph.KindTerminal},
	)
	rules := graph.NewRules(c)
	require.NotNil(t, rules.ConnectRole("img", "p", graph.RoleDOM))
	require.NotNil(t, rules.ConnectRole("img", "term", graph.RoleSource))
	require.NotNil(t, rules.ConnectRole("img", "app", graph.RoleImports))

	result := engine.Execute(dto.Batch{
		{Op: dto.OpMove, Title: "pic.png", TargetFolder: "lib"},
	})

	assert.Equal(t, 1, result.Applied)
	targetKinds := map[graph.NodeKind]int{}
	for _, conn := range c.Connections {
		target, ok := c.Node(conn.TargetNodeID)
		require.True(t, ok)
		targetKinds[target.Kind]++
	}
	assert.Equal(t, 1, targetKinds[graph.KindPreview], "preview feed must survive")
	assert.Equal(t, 1, targetKinds[graph.KindTerminal], "terminal feed must survive")
	assert.Equal(t, 1, targetKinds[graph.KindFolder])
	assert.Zero(t, targetKinds[graph.KindCode], "import edge is structural and goes")
}

func TestExecute_MoveWithoutFolderDetaches(t *testing.T) {
	engine, c := newEngine(t,
		codeFile("f", "a.js", ""),
		&graph.Node{ID: "lib", Kind: graph.KindFolder, Title: "lib"},
	)
	_, err := graph.NewRules(c).AttachToFolder("f", "lib")
	require.NoError(t, err)

	result := engine.Execute(dto.Batch{{Op: dto.OpMove, Title: "a.js"}})

	assert.Contains(t, result.Transcript, "Detached a.js")
	assert.Empty(t, c.Connections)
}

func TestExecute_ConnectToCodeIsAdditive(t *testing.T) {
	engine, c := newEngine(t,
		codeFile("s", "shared.js", ""),
		codeFile("a", "a.js", ""),
		codeFile("b", "b.js", ""),
	)
	require.NotNil(t, graph.NewRules(c).ConnectRole("s", "a", graph.RoleImports))

	result := engine.Execute(dto.Batch{
		{Op: dto.OpConnect, SourceTitle: "shared.js", TargetTitle: "b.js"},
	})

	assert.Equal(t, 1, result.Applied)
	// Prior import edge survives: unlike folder wiring, imports are not
	// single-parent.
	assert.Len(t, c.Connections, 2)
}

func TestExecute_RenameNeverTouchesWiring(t *testing.T) {
	engine, c := newEngine(t,
		codeFile("f", "a.js", ""),
		&graph.Node{ID: "lib", Kind: graph.KindFolder, Title: "lib"},
	)
	_, err := graph.NewRules(c).AttachToFolder("f", "lib")
	require.NoError(t, err)

	result := engine.Execute(dto.Batch{
		{Op: dto.OpRename, OldTitle: "a.js", NewTitle: "b.js"},
	})

	assert.Contains(t, result.Transcript, "Renamed a.js to b.js")
	assert.Equal(t, "b.js", findByTitle(c, "b.js").Title)
	assert.Len(t, c.Connections, 1)
	assert.Equal(t, "lib/b.js", path.NewResolver(c).PathOf(findByTitle(c, "b.js")))
}

func TestExecute_DeleteCascades(t *testing.T) {
	engine, c := newEngine(t,
		codeFile("f", "a.js", ""),
		codeFile("g", "b.js", ""),
	)
	require.NotNil(t, graph.NewRules(c).ConnectRole("f", "g", graph.RoleImports))

	result := engine.Execute(dto.Batch{{Op: dto.OpDelete, Title: "a.js"}})

	assert.Contains(t, result.Transcript, "Deleted a.js")
	assert.Nil(t, findByTitle(c, "a.js"))
	assert.Empty(t, c.Connections)
}

func TestExecute_SkipsFailuresAndContinues(t *testing.T) {
	c := graph.NewCanvas("canvas-1", "test")
	require.NoError(t, c.AddNode(codeFile("locked", "locked.js", "x")))
	require.NoError(t, c.AddNode(codeFile("free", "free.js", "y")))
	denyLocked := func(nodeID string) bool { return nodeID != "locked" }
	engine := NewMutationEngine(c, denyLocked, nil, "")

	result := engine.Execute(dto.Batch{
		{Op: dto.OpUpdate, Path: "locked.js", Content: "nope"},
		{Op: dto.OpDelete, Title: "ghost.js"},
		{Op: dto.OpUpdate, Path: "free.js", Content: "updated"},
	})

	assert.Equal(t, 1, result.Applied)
	assert.Equal(t, 2, result.Skipped)
	assert.Contains(t, result.Transcript, `Error: "locked.js" is locked`)
	assert.Contains(t, result.Transcript, `Error: no file named "ghost.js"`)
	assert.Equal(t, "x", findByTitle(c, "locked.js").Text())
	assert.Equal(t, "updated", findByTitle(c, "free.js").Text())
}

func TestExecute_HighlightsTouchedNodes(t *testing.T) {
	c := graph.NewCanvas("canvas-1", "test")
	require.NoError(t, c.AddNode(codeFile("a", "a.js", "")))
	var highlighted []string
	engine := NewMutationEngine(c, nil, func(id string) { highlighted = append(highlighted, id) }, "")

	engine.Execute(dto.Batch{{Op: dto.OpUpdate, Path: "a.js", Content: "z"}})

	assert.Equal(t, []string{"a"}, highlighted)
}

type stubAssistant struct {
	batch dto.Batch
	err   error
}

func (s stubAssistant) Propose(context.Context, string, []string) (dto.Batch, error) {
	return s.batch, s.err
}

func TestRunAssistant_FailurePropagates(t *testing.T) {
	engine, _ := newEngine(t)

	_, err := RunAssistant(context.Background(), stubAssistant{err: errors.New("rate limited")}, engine, "do it", nil)

	assert.ErrorIs(t, err, dto.ErrAssistantUnavailable)
}

func TestRunAssistant_AppliesBatch(t *testing.T) {
	engine, c := newEngine(t)
	a := stubAssistant{batch: dto.Batch{{Op: dto.OpUpdate, Path: "x.js", Content: "1"}}}

	result, err := RunAssistant(context.Background(), a, engine, "make x", nil)

	require.NoError(t, err)
	assert.Equal(t, 1, result.Applied)
	assert.NotNil(t, findByTitle(c, "x.js"))
}
