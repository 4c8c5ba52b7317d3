package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canvasgraph/canvasgraph/internal/core/graph"
)

type wiring struct {
	source, target, role string
}

func buildCanvas(t *testing.T, nodes []*graph.Node, wires []wiring) *graph.Canvas {
	t.Helper()
	c := graph.NewCanvas("canvas-1", "test")
	for _, n := range nodes {
		require.NoError(t, c.AddNode(n))
	}
	rules := graph.NewRules(c)
	for _, w := range wires {
		require.NotNil(t, rules.ConnectRole(w.source, w.target, w.role), "wire %v", w)
	}
	return c
}

func code(id string) *graph.Node {
	return &graph.Node{ID: id, Kind: graph.KindCode, Title: id + ".js", Content: graph.ScriptContent{}}
}

func folder(id string) *graph.Node {
	return &graph.Node{ID: id, Kind: graph.KindFolder, Title: id}
}

func ids(nodes []*graph.Node) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.ID)
	}
	return out
}

func TestResolver_SingleSource(t *testing.T) {
	c := buildCanvas(t,
		[]*graph.Node{code("a"), code("b"), {ID: "p", Kind: graph.KindPreview}},
		[]wiring{{"a", "p", graph.RoleDOM}},
	)
	r := NewResolver(c)

	src, ok := r.SingleSource("p", graph.RoleDOM)
	require.True(t, ok)
	assert.Equal(t, "a", src.ID)

	_, ok = r.SingleSource("p", graph.RoleImports)
	assert.False(t, ok)
}

func TestResolver_AllSources(t *testing.T) {
	c := buildCanvas(t,
		[]*graph.Node{code("root"), code("a"), code("b")},
		[]wiring{
			{"a", "root", graph.RoleImports},
			{"b", "root", graph.RoleImports},
		},
	)
	r := NewResolver(c)

	assert.Equal(t, []string{"a", "b"}, ids(r.AllSources("root", graph.RoleImports)))
	assert.Empty(t, r.AllSources("a", graph.RoleImports))
}

func TestResolver_Closure_DepthFirstOrder(t *testing.T) {
	// root imports a and b; a imports c. Depth-first discovery: a, c, b.
	c := buildCanvas(t,
		[]*graph.Node{code("root"), code("a"), code("b"), code("c")},
		[]wiring{
			{"a", "root", graph.RoleImports},
			{"b", "root", graph.RoleImports},
			{"c", "a", graph.RoleImports},
		},
	)
	r := NewResolver(c)

	root, _ := c.Node("root")
	assert.Equal(t, []string{"a", "c", "b"}, ids(r.Closure(root)))
}

func TestResolver_Closure_CycleSafe(t *testing.T) {
	c := buildCanvas(t,
		[]*graph.Node{code("a"), code("b")},
		[]wiring{
			{"b", "a", graph.RoleImports},
			{"a", "b", graph.RoleImports},
		},
	)
	r := NewResolver(c)

	a, _ := c.Node("a")
	closure := r.Closure(a)
	assert.Equal(t, []string{"b"}, ids(closure))
}

func TestResolver_Closure_ExpandsFolders(t *testing.T) {
	// root imports folder lib; lib contains m1 and m2; m1 imports util.
	c := buildCanvas(t,
		[]*graph.Node{code("root"), folder("lib"), code("m1"), code("m2"), code("util")},
		[]wiring{
			{"lib", "root", graph.RoleImports},
			{"m1", "lib", graph.RoleFiles},
			{"m2", "lib", graph.RoleFiles},
			{"util", "m1", graph.RoleImports},
		},
	)
	r := NewResolver(c)

	root, _ := c.Node("root")
	closure := r.Closure(root)
	assert.Equal(t, []string{"m1", "util", "m2"}, ids(closure))
	for _, n := range closure {
		assert.NotEqual(t, graph.KindFolder, n.Kind)
	}
}

func TestResolver_Closure_DedupAcrossPaths(t *testing.T) {
	// shared is reachable through both a and b but contributes once.
	c := buildCanvas(t,
		[]*graph.Node{code("root"), code("a"), code("b"), code("shared")},
		[]wiring{
			{"a", "root", graph.RoleImports},
			{"b", "root", graph.RoleImports},
			{"shared", "a", graph.RoleImports},
			{"shared", "b", graph.RoleImports},
		},
	)
	r := NewResolver(c)

	root, _ := c.Node("root")
	assert.Equal(t, []string{"a", "shared", "b"}, ids(r.Closure(root)))
}

func TestResolver_Closure_NilRoot(t *testing.T) {
	c := buildCanvas(t, []*graph.Node{code("a")}, nil)
	assert.Nil(t, NewResolver(c).Closure(nil))
}
