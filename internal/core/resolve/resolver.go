// Package resolve traverses the connection graph to answer dependency
// questions: what feeds a given input role, and which nodes form the import
// closure of a compilation root. The canvas may contain cycles, so every
// traversal here is visited-set guarded and iterative.
package resolve

import (
	"github.com/canvasgraph/canvasgraph/internal/core/graph"
)

// Resolver answers dependency questions over one canvas.
// PRINCIPLES:
// - SRP: Traversal only; no mutation, no compilation
// - KISS: Worklist iteration instead of recursion, safe under cycles
type Resolver struct {
	canvas *graph.Canvas
}

// NewResolver creates a dependency resolver bound to a canvas.
func NewResolver(canvas *graph.Canvas) *Resolver {
	return &Resolver{canvas: canvas}
}

// SingleSource returns the source node of the first connection whose target
// is nodeID and whose target port carries the given role. Role comparison is
// a substring match on the port id, not exact equality.
func (r *Resolver) SingleSource(nodeID, role string) (*graph.Node, bool) {
	for _, conn := range r.canvas.Connections {
		if conn.TargetNodeID != nodeID || !graph.RoleMatches(conn.TargetPortID, role) {
			continue
		}
		if src, ok := r.canvas.Node(conn.SourceNodeID); ok {
			return src, true
		}
	}
	return nil, false
}

// AllSources returns every source node wired into the given role of nodeID,
// in connection-list order.
func (r *Resolver) AllSources(nodeID, role string) []*graph.Node {
	var out []*graph.Node
	for _, conn := range r.canvas.Connections {
		if conn.TargetNodeID != nodeID || !graph.RoleMatches(conn.TargetPortID, role) {
			continue
		}
		if src, ok := r.canvas.Node(conn.SourceNodeID); ok {
			out = append(out, src)
		}
	}
	return out
}

// Closure returns the deduplicated import closure of root, excluding root
// itself, in depth-first discovery order. Folder imports are expanded to
// their "files" members as if they were direct imports; each member then
// contributes its own imports. A visited set keyed by node id means a node
// appears at most once regardless of how many paths (or cycles) reach it.
func (r *Resolver) Closure(root *graph.Node) []*graph.Node {
	if root == nil {
		return nil
	}
	visited := map[string]bool{root.ID: true}
	var ordered []*graph.Node

	// Explicit worklist: top of stack is the next node to consider, so
	// pushing a node's dependencies in reverse preserves recursion order.
	stack := reversed(r.AllSources(root.ID, graph.RoleImports))
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if n.Kind == graph.KindFolder {
			// A folder import stands for its member files.
			if !visited[n.ID] {
				visited[n.ID] = true
				stack = append(stack, reversed(r.AllSources(n.ID, graph.RoleFiles))...)
			}
			continue
		}
		if visited[n.ID] {
			continue
		}
		visited[n.ID] = true
		ordered = append(ordered, n)
		stack = append(stack, reversed(r.AllSources(n.ID, graph.RoleImports))...)
	}
	return ordered
}

func reversed(nodes []*graph.Node) []*graph.Node {
	out := make([]*graph.Node, len(nodes))
	for i, n := range nodes {
		out[len(nodes)-1-i] = n
	}
	return out
}
