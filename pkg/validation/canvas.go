package validation

import (
	"errors"
	"fmt"
	"strings"

	coregraph "github.com/canvasgraph/canvasgraph/internal/core/graph"
)

var (
	// ErrDuplicateConnection signals two connections with the identical
	// source/target tuple.
	ErrDuplicateConnection = errors.New("duplicate connection tuple")
	// ErrSingularConflict signals more than one connection into a
	// singular input port.
	ErrSingularConflict = errors.New("singular port has multiple connections")
	// ErrPortMismatch signals a port id that does not belong to the node
	// it is attached to.
	ErrPortMismatch = errors.New("port id does not match its node")
)

// CanvasValidationOptions controls optional validation checks.
type CanvasValidationOptions struct {
	// ForbidCycles rejects canvases containing directed cycles. Off by
	// default: cycles are structurally legal and traversal guards against
	// them, but external callers importing into a cycle-free system may
	// want the check.
	ForbidCycles bool
}

// ValidateCanvas performs structural validation on a canvas entity. It is
// intended for canvases loaded from external sources where in-method guards
// (AddNode, Rules.Connect) may have been bypassed.
func ValidateCanvas(c *coregraph.Canvas, opts ...CanvasValidationOptions) error {
	if c == nil {
		return coregraph.ErrCanvasNotFound
	}

	for _, n := range c.Nodes() {
		if n == nil {
			return coregraph.ErrNilNode
		}
		if err := n.Validate(); err != nil {
			return fmt.Errorf("node %s: %w", n.ID, err)
		}
	}

	type edgeKey struct{ s, sp, t, tp string }
	seen := make(map[edgeKey]struct{})
	singular := make(map[string]int)

	for _, conn := range c.Connections {
		if conn == nil {
			return coregraph.ErrNilConnection
		}
		if err := conn.Validate(); err != nil {
			return err
		}
		if _, ok := c.Node(conn.SourceNodeID); !ok {
			return fmt.Errorf("connection %s: source: %w", conn.ID, coregraph.ErrEndpointMissed)
		}
		if _, ok := c.Node(conn.TargetNodeID); !ok {
			return fmt.Errorf("connection %s: target: %w", conn.ID, coregraph.ErrEndpointMissed)
		}
		if !strings.HasPrefix(conn.SourcePortID, conn.SourceNodeID+":") {
			return fmt.Errorf("connection %s: %w", conn.ID, ErrPortMismatch)
		}
		if !strings.HasPrefix(conn.TargetPortID, conn.TargetNodeID+":") {
			return fmt.Errorf("connection %s: %w", conn.ID, ErrPortMismatch)
		}

		k := edgeKey{conn.SourceNodeID, conn.SourcePortID, conn.TargetNodeID, conn.TargetPortID}
		if _, dup := seen[k]; dup {
			return fmt.Errorf("connection %s: %w", conn.ID, ErrDuplicateConnection)
		}
		seen[k] = struct{}{}

		if coregraph.SingularRole(conn.TargetRole()) {
			singular[conn.TargetPortID]++
			if singular[conn.TargetPortID] > 1 {
				return fmt.Errorf("port %s: %w", conn.TargetPortID, ErrSingularConflict)
			}
		}
	}

	var cfg CanvasValidationOptions
	if len(opts) > 0 {
		cfg = opts[0]
	}
	if cfg.ForbidCycles && hasCycle(c) {
		return errors.New("canvas contains a cycle")
	}

	return nil
}

// hasCycle detects any directed cycle using DFS with coloring.
func hasCycle(c *coregraph.Canvas) bool {
	const (
		white = 0 // unvisited
		gray  = 1 // visiting
		black = 2 // visited
	)
	color := make(map[string]int, c.Len())
	adj := make(map[string][]string, c.Len())
	for _, conn := range c.Connections {
		adj[conn.SourceNodeID] = append(adj[conn.SourceNodeID], conn.TargetNodeID)
	}
	var dfs func(string) bool
	dfs = func(u string) bool {
		color[u] = gray
		for _, v := range adj[u] {
			if color[v] == gray {
				return true // back-edge
			}
			if color[v] == white {
				if dfs(v) {
					return true
				}
			}
		}
		color[u] = black
		return false
	}
	for _, n := range c.Nodes() {
		if color[n.ID] == white {
			if dfs(n.ID) {
				return true
			}
		}
	}
	return false
}
