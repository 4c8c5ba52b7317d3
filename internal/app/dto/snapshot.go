package dto

import (
	"time"

	"github.com/canvasgraph/canvasgraph/internal/core/graph"
)

// InteractionState marks a node under active local interaction. The
// reconciler consults it to keep gesture-owned fields local when a remote
// snapshot arrives.
type InteractionState string

const (
	InteractionNone InteractionState = ""
	InteractionDrag InteractionState = "drag"
	InteractionEdit InteractionState = "edit"
)

// SnapshotNode is the wire shape of a node in a remote snapshot. Payloads
// travel as a kind-tagged string pair so the snapshot serializes identically
// under the JSON and msgpack codecs.
type SnapshotNode struct {
	ID             string                 `json:"id" msgpack:"id"`
	Kind           graph.NodeKind         `json:"kind" msgpack:"kind"`
	Title          string                 `json:"title" msgpack:"title"`
	ContentKind    graph.ContentKind      `json:"content_kind,omitempty" msgpack:"content_kind,omitempty"`
	Content        string                 `json:"content,omitempty" msgpack:"content,omitempty"`
	Position       graph.Position         `json:"position" msgpack:"position"`
	Size           graph.Size             `json:"size" msgpack:"size"`
	AutoHeight     bool                   `json:"auto_height,omitempty" msgpack:"auto_height,omitempty"`
	IsMinimized    bool                   `json:"is_minimized,omitempty" msgpack:"is_minimized,omitempty"`
	IsLoading      bool                   `json:"is_loading,omitempty" msgpack:"is_loading,omitempty"`
	LockedBy       string                 `json:"locked_by,omitempty" msgpack:"locked_by,omitempty"`
	Messages       []graph.Message        `json:"messages,omitempty" msgpack:"messages,omitempty"`
	ContextNodeIDs []string               `json:"context_node_ids,omitempty" msgpack:"context_node_ids,omitempty"`
	SharedState    map[string]interface{} `json:"shared_state,omitempty" msgpack:"shared_state,omitempty"`
}

// Snapshot is a full or partial external snapshot of a canvas. Nil section
// pointers mean "not included", distinct from "included and empty".
type Snapshot struct {
	Nodes       []SnapshotNode      `json:"nodes,omitempty" msgpack:"nodes,omitempty"`
	Connections []*graph.Connection `json:"connections,omitempty" msgpack:"connections,omitempty"`
	RunningIDs  []string            `json:"running_ids,omitempty" msgpack:"running_ids,omitempty"`
	Pan         *graph.Position     `json:"pan,omitempty" msgpack:"pan,omitempty"`
	Zoom        *float64            `json:"zoom,omitempty" msgpack:"zoom,omitempty"`
	TakenAt     time.Time           `json:"taken_at" msgpack:"taken_at"`
}

// FromNode converts a live node into its snapshot shape.
func FromNode(n *graph.Node) SnapshotNode {
	sn := SnapshotNode{
		ID:             n.ID,
		Kind:           n.Kind,
		Title:          n.Title,
		Position:       n.Position,
		Size:           n.Size,
		AutoHeight:     n.AutoHeight,
		IsMinimized:    n.IsMinimized,
		IsLoading:      n.IsLoading,
		LockedBy:       n.LockedBy,
		Messages:       n.Messages,
		ContextNodeIDs: n.ContextNodeIDs,
		SharedState:    n.SharedState,
	}
	if n.Content != nil {
		sn.ContentKind = n.Content.Kind()
		sn.Content = n.Content.Text()
	}
	return sn
}

// ToNode converts a snapshot node back into a live node.
func (sn SnapshotNode) ToNode() *graph.Node {
	return &graph.Node{
		ID:             sn.ID,
		Kind:           sn.Kind,
		Title:          sn.Title,
		Content:        graph.NewContent(sn.Kind, sn.Content),
		Position:       sn.Position,
		Size:           sn.Size,
		AutoHeight:     sn.AutoHeight,
		IsMinimized:    sn.IsMinimized,
		IsLoading:      sn.IsLoading,
		LockedBy:       sn.LockedBy,
		Messages:       sn.Messages,
		ContextNodeIDs: sn.ContextNodeIDs,
		SharedState:    sn.SharedState,
	}
}
