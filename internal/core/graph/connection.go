// Package graph provides connection definitions
package graph

// Connection represents a directed edge between a specific output port and a
// specific input port. Connections are the only relationship primitive on the
// canvas: folder membership, import dependency, and "feeds a preview" are all
// connections distinguished by target port role.
// PRINCIPLES:
// - KISS: Simple edge representation
// - SRP: Only responsible for edge data
type Connection struct {
	ID           string `json:"id"`
	SourceNodeID string `json:"source_node_id"`
	SourcePortID string `json:"source_port_id"`
	TargetNodeID string `json:"target_node_id"`
	TargetPortID string `json:"target_port_id"`
}

// Validate ensures connection integrity
func (c *Connection) Validate() error {
	if c.SourceNodeID == "" || c.SourcePortID == "" {
		return ErrInvalidSource
	}
	if c.TargetNodeID == "" || c.TargetPortID == "" {
		return ErrInvalidTarget
	}
	return nil
}

// SameTuple reports whether two connections describe the identical edge,
// ignoring ids.
func (c *Connection) SameTuple(other *Connection) bool {
	return c.SourceNodeID == other.SourceNodeID &&
		c.SourcePortID == other.SourcePortID &&
		c.TargetNodeID == other.TargetNodeID &&
		c.TargetPortID == other.TargetPortID
}

// TargetRole returns the role label of the target port.
func (c *Connection) TargetRole() string {
	return PortRole(c.TargetPortID)
}

// Touches reports whether the connection has nodeID as either endpoint.
func (c *Connection) Touches(nodeID string) bool {
	return c.SourceNodeID == nodeID || c.TargetNodeID == nodeID
}
