// Package graph provides the canvas collection type
package graph

import "time"

// Canvas holds one project's nodes and connections. Nodes live in a flat
// id-keyed map with a separate insertion-order index so lookups stay O(1)
// while scans stay deterministic; connections are a plain edge list. The
// graph may contain cycles; traversal safety is the caller's concern, not
// a structural restriction.
// PRINCIPLES:
// - KISS: Simple struct, no complex hierarchies
// - SRP: Only responsible for graph structure, not compilation
type Canvas struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Connections []*Connection `json:"connections"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`

	nodes map[string]*Node
	order []string
}

// NewCanvas creates an empty canvas.
func NewCanvas(id, name string) *Canvas {
	now := time.Now()
	return &Canvas{
		ID:        id,
		Name:      name,
		nodes:     make(map[string]*Node),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AddNode adds a node to the canvas
func (c *Canvas) AddNode(node *Node) error {
	if node == nil {
		return ErrNilNode
	}
	if err := node.Validate(); err != nil {
		return err
	}
	if c.nodes == nil {
		c.nodes = make(map[string]*Node)
	}
	// Prevent duplicate node IDs
	if _, exists := c.nodes[node.ID]; exists {
		return ErrDuplicateNode
	}
	c.nodes[node.ID] = node
	c.order = append(c.order, node.ID)
	c.UpdatedAt = time.Now()
	return nil
}

// Node looks up a node by id.
func (c *Canvas) Node(id string) (*Node, bool) {
	n, ok := c.nodes[id]
	return n, ok
}

// Nodes returns all nodes in insertion order. Path and title resolution
// depend on this order being stable across calls.
func (c *Canvas) Nodes() []*Node {
	out := make([]*Node, 0, len(c.order))
	for _, id := range c.order {
		if n, ok := c.nodes[id]; ok {
			out = append(out, n)
		}
	}
	return out
}

// Len returns the number of nodes on the canvas.
func (c *Canvas) Len() int {
	return len(c.nodes)
}

// RemoveNode deletes a node and cascades removal of every connection that
// touches it, so no connection ever references a dead endpoint.
func (c *Canvas) RemoveNode(id string) bool {
	if _, exists := c.nodes[id]; !exists {
		return false
	}
	delete(c.nodes, id)
	for i, oid := range c.order {
		if oid == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	kept := c.Connections[:0]
	for _, conn := range c.Connections {
		if !conn.Touches(id) {
			kept = append(kept, conn)
		}
	}
	c.Connections = kept
	c.UpdatedAt = time.Now()
	return true
}

// ReplaceAll swaps the node and connection collections wholesale. Only the
// state reconciler may call this; every other mutation path goes through
// AddNode/RemoveNode and the connection rules.
func (c *Canvas) ReplaceAll(nodes []*Node, connections []*Connection) {
	c.nodes = make(map[string]*Node, len(nodes))
	c.order = c.order[:0]
	for _, n := range nodes {
		if n == nil {
			continue
		}
		if _, dup := c.nodes[n.ID]; dup {
			continue
		}
		c.nodes[n.ID] = n
		c.order = append(c.order, n.ID)
	}
	c.Connections = connections
	c.UpdatedAt = time.Now()
}

// ConnectionsInto returns every connection targeting the given node whose
// target port carries the given role.
func (c *Canvas) ConnectionsInto(nodeID, role string) []*Connection {
	var out []*Connection
	for _, conn := range c.Connections {
		if conn.TargetNodeID == nodeID && RoleMatches(conn.TargetPortID, role) {
			out = append(out, conn)
		}
	}
	return out
}

// ConnectionsFrom returns every connection whose source is the given node.
func (c *Canvas) ConnectionsFrom(nodeID string) []*Connection {
	var out []*Connection
	for _, conn := range c.Connections {
		if conn.SourceNodeID == nodeID {
			out = append(out, conn)
		}
	}
	return out
}
