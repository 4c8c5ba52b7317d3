// Package usecases implements the engine's application operations: executing
// externally supplied tool-call batches against a canvas, and the assistant
// collaborator boundary.
package usecases

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/canvasgraph/canvasgraph/internal/app/dto"
	"github.com/canvasgraph/canvasgraph/internal/core/graph"
	"github.com/canvasgraph/canvasgraph/internal/core/path"
	"github.com/canvasgraph/canvasgraph/internal/infrastructure/metrics"
)

// PermissionFunc reports whether the caller may mutate the given node.
// Locking is advisory: every content-mutating operation consults this before
// applying, nothing else enforces it.
type PermissionFunc func(nodeID string) bool

// HighlightFunc notifies the presentation layer that a node was touched.
type HighlightFunc func(nodeID string)

// Offsets for nodes the engine creates implicitly, relative to the anchor.
const (
	createOffsetX = 360.0
	createOffsetY = 48.0
)

// MutationEngine executes ordered tool-call batches against one canvas.
//
// Node existence and content are read through the live canvas, which already
// reflects earlier operations in the same batch (the shadow list: create a
// file, then reference it, within one batch). Structural-rewiring decisions
// (which of a node's edges to remove on a move) are taken from the
// connection snapshot captured before the batch started. This split is
// deliberate and load-bearing: an edge added earlier in the same batch is
// never considered for removal by a later operation.
type MutationEngine struct {
	canvas    *graph.Canvas
	rules     *graph.Rules
	paths     *path.Resolver
	permitted PermissionFunc
	highlight HighlightFunc
	anchorID  string

	preBatch []*graph.Connection
	created  int
}

// NewMutationEngine creates an engine bound to a canvas. anchorID names the
// node near which implicitly created nodes are positioned (typically the
// chat node that issued the batch); it may be empty.
func NewMutationEngine(canvas *graph.Canvas, permitted PermissionFunc, highlight HighlightFunc, anchorID string) *MutationEngine {
	if permitted == nil {
		permitted = func(string) bool { return true }
	}
	if highlight == nil {
		highlight = func(string) {}
	}
	return &MutationEngine{
		canvas:    canvas,
		rules:     graph.NewRules(canvas),
		paths:     path.NewResolver(canvas),
		permitted: permitted,
		highlight: highlight,
		anchorID:  anchorID,
	}
}

// Execute runs the batch in order and returns the cumulative transcript.
// A failed operation appends an error annotation and is skipped; the batch
// never aborts.
func (e *MutationEngine) Execute(batch dto.Batch) dto.BatchResult {
	e.preBatch = make([]*graph.Connection, len(e.canvas.Connections))
	copy(e.preBatch, e.canvas.Connections)
	e.created = 0

	var transcript []string
	result := dto.BatchResult{}
	for _, call := range batch {
		notes, err := e.apply(call)
		metrics.ToolCall(string(call.Op))
		if err != nil {
			metrics.ToolCallFailed(string(call.Op))
			transcript = append(transcript, "Error: "+err.Error())
			result.Skipped++
			continue
		}
		transcript = append(transcript, notes...)
		result.Applied++
	}
	result.Transcript = strings.Join(transcript, "\n")
	return result
}

func (e *MutationEngine) apply(call dto.ToolCall) ([]string, error) {
	switch call.Op {
	case dto.OpUpdate:
		return e.applyUpdate(call.Path, call.Content)
	case dto.OpDelete:
		return e.applyDelete(call.Title)
	case dto.OpMove:
		return e.applyMove(call.Title, call.TargetFolder)
	case dto.OpRename:
		return e.applyRename(call.OldTitle, call.NewTitle)
	case dto.OpConnect:
		return e.applyConnect(call.SourceTitle, call.TargetTitle)
	default:
		return nil, fmt.Errorf("%w: %q", dto.ErrUnknownOperation, call.Op)
	}
}

// applyUpdate overwrites an existing file's content or creates the file,
// honoring an optional one-level folder qualifier in the path.
func (e *MutationEngine) applyUpdate(p, content string) ([]string, error) {
	folderTitle, filename := splitPath(p)

	target, found := e.paths.Resolve(p)
	if !found {
		// Fall back to a filename match among code nodes.
		for _, n := range e.canvas.Nodes() {
			if n.Kind == graph.KindCode && n.Title == filename {
				target, found = n, true
				break
			}
		}
	}

	var notes []string
	if found {
		if !e.permitted(target.ID) {
			return nil, fmt.Errorf("%q is locked by another participant", filename)
		}
		target.Content = graph.NewContent(target.Kind, content)
		notes = append(notes, fmt.Sprintf("Updated %s", e.paths.PathOf(target)))
	} else {
		target = e.createNode(graph.KindCode, filename, content)
		if err := e.canvas.AddNode(target); err != nil {
			return nil, fmt.Errorf("create %q: %v", filename, err)
		}
		notes = append(notes, fmt.Sprintf("Created %s", filename))
		if folderTitle == "" && e.anchorID != "" {
			// An unqualified new file hangs off the anchor as an import.
			e.rules.ConnectRole(target.ID, e.anchorID, graph.RoleImports)
		}
	}
	e.highlight(target.ID)

	if folderTitle != "" {
		folderNotes := e.wireToFolder(target, folderTitle)
		notes = append(notes, folderNotes...)
	}
	return notes, nil
}

// applyMove rewires a file under a folder, or detaches it when no folder is
// given.
func (e *MutationEngine) applyMove(title, targetFolder string) ([]string, error) {
	target, found := e.resolveByTitle(title, graph.KindCode, graph.KindImage, graph.KindText)
	if !found {
		return nil, fmt.Errorf("no file named %q", title)
	}
	if !e.permitted(target.ID) {
		return nil, fmt.Errorf("%q is locked by another participant", title)
	}
	e.highlight(target.ID)

	if targetFolder == "" {
		e.removeStructuralPerSnapshot(target.ID)
		return []string{fmt.Sprintf("Detached %s from its folder", title)}, nil
	}
	return e.wireToFolder(target, targetFolder), nil
}

// applyConnect wires source into target. A folder target gets move
// semantics (single parent); a code target gets an additive imports edge so
// several dependents can share one source.
func (e *MutationEngine) applyConnect(sourceTitle, targetTitle string) ([]string, error) {
	source, ok := e.resolveByTitle(sourceTitle)
	if !ok {
		return nil, fmt.Errorf("no node named %q", sourceTitle)
	}
	target, ok := e.resolveByTitle(targetTitle)
	if !ok {
		return nil, fmt.Errorf("no node named %q", targetTitle)
	}
	e.highlight(source.ID)

	switch target.Kind {
	case graph.KindFolder:
		return e.wireToFolder(source, target.Title), nil
	case graph.KindCode:
		e.rules.ConnectRole(source.ID, target.ID, graph.RoleImports)
		return []string{fmt.Sprintf("Connected %s to %s", sourceTitle, targetTitle)}, nil
	default:
		return nil, fmt.Errorf("cannot connect to a %s node", target.Kind)
	}
}

// applyRename changes a code node's title. Wiring is never touched: paths
// are derived, so every path containing the old title updates for free.
func (e *MutationEngine) applyRename(oldTitle, newTitle string) ([]string, error) {
	target, found := e.resolveByTitle(oldTitle, graph.KindCode)
	if !found {
		return nil, fmt.Errorf("no file named %q", oldTitle)
	}
	if !e.permitted(target.ID) {
		return nil, fmt.Errorf("%q is locked by another participant", oldTitle)
	}
	target.Title = newTitle
	e.highlight(target.ID)
	return []string{fmt.Sprintf("Renamed %s to %s", oldTitle, newTitle)}, nil
}

// applyDelete removes a code node, cascading its connections.
func (e *MutationEngine) applyDelete(title string) ([]string, error) {
	target, found := e.resolveByTitle(title, graph.KindCode)
	if !found {
		return nil, fmt.Errorf("no file named %q", title)
	}
	if !e.permitted(target.ID) {
		return nil, fmt.Errorf("%q is locked by another participant", title)
	}
	e.canvas.RemoveNode(target.ID)
	return []string{fmt.Sprintf("Deleted %s", title)}, nil
}

// wireToFolder ensures the folder exists (creating it near the anchor if
// not), removes the target's structural edges per the pre-batch snapshot,
// and wires target into the folder's files input.
func (e *MutationEngine) wireToFolder(target *graph.Node, folderTitle string) []string {
	var notes []string
	folder, found := e.resolveByTitle(folderTitle, graph.KindFolder)
	if !found {
		folder = e.createNode(graph.KindFolder, folderTitle, "")
		if err := e.canvas.AddNode(folder); err != nil {
			return []string{fmt.Sprintf("Error: create folder %q: %v", folderTitle, err)}
		}
		notes = append(notes, fmt.Sprintf("Created folder %s", folderTitle))
	}
	e.removeStructuralPerSnapshot(target.ID)
	e.rules.ConnectRole(target.ID, folder.ID, graph.RoleFiles)
	notes = append(notes, fmt.Sprintf("Moved %s into %s", target.Title, folderTitle))
	return notes
}

// removeStructuralPerSnapshot removes the node's outgoing edges into Folder
// or Code nodes, deciding from the pre-batch connection snapshot. Edges into
// Preview/Terminal nodes represent consumption, not organization, and are
// preserved.
func (e *MutationEngine) removeStructuralPerSnapshot(nodeID string) {
	for _, conn := range e.preBatch {
		if conn.SourceNodeID != nodeID {
			continue
		}
		target, ok := e.canvas.Node(conn.TargetNodeID)
		if !ok {
			continue
		}
		if target.Kind == graph.KindFolder || target.Kind == graph.KindCode {
			e.rules.Disconnect(conn.ID)
		}
	}
}

// resolveByTitle finds the first node with an exactly matching title,
// optionally restricted to the given kinds.
func (e *MutationEngine) resolveByTitle(title string, kinds ...graph.NodeKind) (*graph.Node, bool) {
	for _, n := range e.canvas.Nodes() {
		if n.Title != title {
			continue
		}
		if len(kinds) == 0 {
			return n, true
		}
		for _, k := range kinds {
			if n.Kind == k {
				return n, true
			}
		}
	}
	return nil, false
}

// createNode builds a node positioned near the anchor, staggering repeated
// creations so they do not stack.
func (e *MutationEngine) createNode(kind graph.NodeKind, title, content string) *graph.Node {
	pos := graph.Position{X: 120, Y: 120}
	if anchor, ok := e.canvas.Node(e.anchorID); ok {
		pos = graph.Position{
			X: anchor.Position.X + anchor.Size.Width + createOffsetX,
			Y: anchor.Position.Y + float64(e.created)*createOffsetY,
		}
	}
	e.created++
	return &graph.Node{
		ID:       uuid.NewString(),
		Kind:     kind,
		Title:    title,
		Content:  graph.NewContent(kind, content),
		Position: pos,
		Size:     graph.Size{Width: 320, Height: 240},
	}
}

// splitPath separates an optional one-level folder qualifier from the
// filename.
func splitPath(p string) (folder, filename string) {
	if i := strings.LastIndex(p, "/"); i >= 0 {
		return p[:i], p[i+1:]
	}
	return "", p
}
