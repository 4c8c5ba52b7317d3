// Package path computes and resolves virtual hierarchical paths for canvas
// nodes. A path is derived purely from folder wiring: it is never stored on
// the node, so renames and rewires are reflected immediately.
package path

import (
	"github.com/canvasgraph/canvasgraph/internal/core/graph"
)

// Resolver answers path questions over one canvas.
// PRINCIPLES:
// - SRP: Path derivation only; wiring policy lives in graph.Rules
// - KISS: One folder level, two lookup passes
type Resolver struct {
	canvas *graph.Canvas
}

// NewResolver creates a path resolver bound to a canvas.
func NewResolver(canvas *graph.Canvas) *Resolver {
	return &Resolver{canvas: canvas}
}

// PathOf returns the node's virtual path. A node wired into a folder's
// "files" input reports "<folderTitle>/<nodeTitle>"; an unwired node reports
// its bare title. Folder nesting is exactly one level: folders are never
// themselves folder children in this model.
func (r *Resolver) PathOf(node *graph.Node) string {
	if node == nil {
		return ""
	}
	for _, conn := range r.canvas.Connections {
		if conn.SourceNodeID != node.ID {
			continue
		}
		target, ok := r.canvas.Node(conn.TargetNodeID)
		if !ok || target.Kind != graph.KindFolder {
			continue
		}
		if graph.RoleMatches(conn.TargetPortID, graph.RoleFiles) {
			return target.Title + "/" + node.Title
		}
	}
	return node.Title
}

// Resolve scans all nodes in stable order and returns the first whose title
// equals the string, else the first whose computed path equals it. Title
// equality is checked before path equality, across the whole collection.
func (r *Resolver) Resolve(pathOrTitle string) (*graph.Node, bool) {
	nodes := r.canvas.Nodes()
	for _, n := range nodes {
		if n.Title == pathOrTitle {
			return n, true
		}
	}
	for _, n := range nodes {
		if r.PathOf(n) == pathOrTitle {
			return n, true
		}
	}
	return nil, false
}
