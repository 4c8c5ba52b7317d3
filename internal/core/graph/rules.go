// Package graph provides connection wiring rules
package graph

import "github.com/google/uuid"

// Rules validates and applies connect/disconnect requests against a canvas.
// Rejections are silent no-ops: a duplicate tuple or an occupied singular
// input leaves the connection set unchanged rather than raising. Cycles are
// not checked here; they are tolerated structurally and guarded at
// traversal time.
// PRINCIPLES:
// - SRP: Wiring policy only; structure lives on Canvas
// - KISS: Silent no-op instead of an error taxonomy for user gestures
type Rules struct {
	canvas *Canvas
}

// NewRules creates wiring rules bound to a canvas.
func NewRules(canvas *Canvas) *Rules {
	return &Rules{canvas: canvas}
}

// Connect appends the candidate connection unless an identical tuple already
// exists or the target port is a singular input that already has any
// connection. Returns the applied connection, or nil when the request was a
// no-op. Endpoints must reference live nodes.
func (r *Rules) Connect(candidate *Connection) *Connection {
	if candidate == nil || candidate.Validate() != nil {
		return nil
	}
	if _, ok := r.canvas.Node(candidate.SourceNodeID); !ok {
		return nil
	}
	if _, ok := r.canvas.Node(candidate.TargetNodeID); !ok {
		return nil
	}
	for _, existing := range r.canvas.Connections {
		if existing.SameTuple(candidate) {
			return nil
		}
		if SingularRole(candidate.TargetRole()) && existing.TargetPortID == candidate.TargetPortID {
			return nil
		}
	}
	applied := *candidate
	if applied.ID == "" {
		applied.ID = uuid.NewString()
	}
	r.canvas.Connections = append(r.canvas.Connections, &applied)
	return &applied
}

// ConnectRole wires source's output into target's input for the given role.
func (r *Rules) ConnectRole(sourceID, targetID, role string) *Connection {
	return r.Connect(&Connection{
		SourceNodeID: sourceID,
		SourcePortID: PortID(sourceID, RoleOutput),
		TargetNodeID: targetID,
		TargetPortID: PortID(targetID, role),
	})
}

// Disconnect removes every connection whose id matches, or whose source or
// target port id matches, the given identifier.
func (r *Rules) Disconnect(id string) int {
	removed := 0
	kept := r.canvas.Connections[:0]
	for _, conn := range r.canvas.Connections {
		if conn.ID == id || conn.SourcePortID == id || conn.TargetPortID == id {
			removed++
			continue
		}
		kept = append(kept, conn)
	}
	r.canvas.Connections = kept
	return removed
}

// AttachToFolder wires a file node under a folder with move semantics: any
// prior folder-parent connection is removed first, so a file has at most one
// folder parent. Connections into Preview/Terminal inputs are a different
// relation ("feeds") and are never touched.
func (r *Rules) AttachToFolder(fileID, folderID string) (*Connection, error) {
	file, ok := r.canvas.Node(fileID)
	if !ok {
		return nil, ErrNodeNotFound
	}
	if !file.IsFile() {
		return nil, ErrNotAFile
	}
	folder, ok := r.canvas.Node(folderID)
	if !ok {
		return nil, ErrNodeNotFound
	}
	if folder.Kind != KindFolder {
		return nil, ErrNotAFolder
	}
	r.removeFolderParent(fileID)
	return r.ConnectRole(fileID, folderID, RoleFiles), nil
}

// removeFolderParent drops the file's folder-parent connection, if any.
// Import edges and feeds edges are untouched: only organization moves.
func (r *Rules) removeFolderParent(fileID string) {
	kept := r.canvas.Connections[:0]
	for _, conn := range r.canvas.Connections {
		if conn.SourceNodeID == fileID && RoleMatches(conn.TargetPortID, RoleFiles) {
			if target, ok := r.canvas.Node(conn.TargetNodeID); ok && target.Kind == KindFolder {
				continue
			}
		}
		kept = append(kept, conn)
	}
	r.canvas.Connections = kept
}

// DetachStructural removes the node's outgoing edges into Folder or Code
// nodes (organization and dependency edges). Edges feeding Preview or
// Terminal nodes represent consumption, not organization, and survive.
func (r *Rules) DetachStructural(nodeID string) int {
	removed := 0
	kept := r.canvas.Connections[:0]
	for _, conn := range r.canvas.Connections {
		if conn.SourceNodeID == nodeID {
			if target, ok := r.canvas.Node(conn.TargetNodeID); ok &&
				(target.Kind == KindFolder || target.Kind == KindCode) {
				removed++
				continue
			}
		}
		kept = append(kept, conn)
	}
	r.canvas.Connections = kept
	return removed
}

// FolderParent returns the folder a file is wired under, if any.
func (r *Rules) FolderParent(fileID string) (*Node, bool) {
	for _, conn := range r.canvas.Connections {
		if conn.SourceNodeID != fileID {
			continue
		}
		target, ok := r.canvas.Node(conn.TargetNodeID)
		if ok && target.Kind == KindFolder && RoleMatches(conn.TargetPortID, RoleFiles) {
			return target, true
		}
	}
	return nil, false
}
