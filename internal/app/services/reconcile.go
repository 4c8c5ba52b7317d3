// Package services implements application services around the canvas: remote
// snapshot reconciliation and debounced recompile scheduling.
package services

import (
	"github.com/canvasgraph/canvasgraph/internal/app/dto"
	"github.com/canvasgraph/canvasgraph/internal/core/graph"
	"github.com/canvasgraph/canvasgraph/internal/infrastructure/metrics"
)

// Reconciler folds a remote snapshot into a canvas with in-flight local
// edits. The merge is field-level last-writer-wins gated by a coarse
// two-value interaction lock: a dragged node keeps its local position, an
// edited node keeps its local content and title, and every other incoming
// field wins. Fields outside position/content/title can still be clobbered
// mid-gesture; that tradeoff is intentional and documented, not a bug.
//
// The reconciler is the only component permitted to replace the canvas's
// node collection wholesale.
type Reconciler struct{}

// NewReconciler creates a reconciler.
func NewReconciler() *Reconciler {
	return &Reconciler{}
}

// MergeResult reports what a merge did, for callers that log or test it.
type MergeResult struct {
	Added        int
	Dropped      int
	KeptPosition int
	KeptContent  int
}

// Merge applies the snapshot to the canvas. Sections absent from the
// snapshot (nil) leave the corresponding local collection untouched. Local
// nodes absent from an included node section are dropped; incoming nodes
// absent locally are added.
func (r *Reconciler) Merge(canvas *graph.Canvas, states map[string]dto.InteractionState, snap *dto.Snapshot) MergeResult {
	metrics.IncReconciles()
	var result MergeResult
	if snap == nil {
		return result
	}

	if snap.Nodes != nil {
		merged := make([]*graph.Node, 0, len(snap.Nodes))
		incoming := make(map[string]bool, len(snap.Nodes))
		for _, sn := range snap.Nodes {
			incoming[sn.ID] = true
			local, exists := canvas.Node(sn.ID)
			if !exists {
				merged = append(merged, sn.ToNode())
				result.Added++
				continue
			}
			merged = append(merged, mergeNode(local, sn, states[sn.ID], &result))
		}
		for _, n := range canvas.Nodes() {
			if !incoming[n.ID] {
				result.Dropped++
			}
		}

		connections := canvas.Connections
		if snap.Connections != nil {
			connections = snap.Connections
		}
		canvas.ReplaceAll(merged, pruneConnections(connections, merged))
	} else if snap.Connections != nil {
		nodes := canvas.Nodes()
		canvas.ReplaceAll(nodes, pruneConnections(snap.Connections, nodes))
	}

	metrics.AddReconcileKept(result.KeptPosition + result.KeptContent)
	return result
}

// pruneConnections drops connections whose endpoints are no longer present,
// so a merge never leaves an edge pointing at a dropped node.
func pruneConnections(connections []*graph.Connection, nodes []*graph.Node) []*graph.Connection {
	alive := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		alive[n.ID] = true
	}
	kept := make([]*graph.Connection, 0, len(connections))
	for _, c := range connections {
		if alive[c.SourceNodeID] && alive[c.TargetNodeID] {
			kept = append(kept, c)
		}
	}
	return kept
}

// mergeNode builds the post-merge node for one id present on both sides.
func mergeNode(local *graph.Node, sn dto.SnapshotNode, state dto.InteractionState, result *MergeResult) *graph.Node {
	node := sn.ToNode()
	switch state {
	case dto.InteractionDrag:
		node.Position = local.Position
		result.KeptPosition++
	case dto.InteractionEdit:
		node.Content = local.Content
		node.Title = local.Title
		result.KeptContent++
	}
	return node
}
