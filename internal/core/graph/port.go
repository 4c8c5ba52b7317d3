// Package graph provides derived port definitions
package graph

import (
	"fmt"
	"strings"
)

// Port roles. A role names an attachment point; the port id is derived from
// the owning node id and the role, never stored.
const (
	// RoleImports is the input receiving a node's import dependencies.
	RoleImports = "imports"
	// RoleDOM is the Preview node's document-source input (singular).
	RoleDOM = "dom"
	// RoleFiles is the Folder node's membership input.
	RoleFiles = "files"
	// RoleSource is the Terminal node's source input.
	RoleSource = "source"
	// RoleContext is the AiChat node's context input.
	RoleContext = "context"
	// RoleOutput is the single output every node exposes.
	RoleOutput = "output"
)

// PortDirection distinguishes inputs from outputs.
type PortDirection string

const (
	DirectionInput  PortDirection = "input"
	DirectionOutput PortDirection = "output"
)

// Port is a named, directional attachment point on a node. Ports are derived
// from the node's kind on demand; they carry no state of their own.
type Port struct {
	ID        string        `json:"id"`
	NodeID    string        `json:"node_id"`
	Role      string        `json:"role"`
	Direction PortDirection `json:"direction"`
	Accepts   []NodeKind    `json:"accepts,omitempty"` // empty = any kind
	Singular  bool          `json:"singular,omitempty"`
}

// PortID derives the deterministic port id for a node/role pair.
func PortID(nodeID, role string) string {
	return fmt.Sprintf("%s:%s", nodeID, role)
}

// PortRole extracts the role label from a derived port id.
func PortRole(portID string) string {
	if i := strings.LastIndex(portID, ":"); i >= 0 {
		return portID[i+1:]
	}
	return portID
}

// RoleMatches reports whether a port id carries the given role. The node-id
// half of the port id is excluded; matching is by substring on the role label
// alone, mirroring how free-text roles are compared throughout traversal.
func RoleMatches(portID, role string) bool {
	return strings.Contains(PortRole(portID), role)
}

// portSpec describes one input a node kind exposes.
type portSpec struct {
	role     string
	accepts  []NodeKind
	singular bool
}

var inputSpecs = map[NodeKind][]portSpec{
	KindCode: {
		{role: RoleImports, accepts: []NodeKind{KindCode, KindPackageSearch, KindFolder}},
	},
	KindPreview: {
		{role: RoleDOM, accepts: []NodeKind{KindCode}, singular: true},
	},
	KindTerminal: {
		{role: RoleSource, accepts: []NodeKind{KindCode}},
	},
	KindAiChat: {
		{role: RoleContext},
	},
	KindFolder: {
		{role: RoleFiles, accepts: []NodeKind{KindCode, KindImage, KindText}},
	},
}

// InputPorts derives the input ports a node exposes.
func InputPorts(n *Node) []Port {
	specs := inputSpecs[n.Kind]
	ports := make([]Port, 0, len(specs))
	for _, s := range specs {
		ports = append(ports, Port{
			ID:        PortID(n.ID, s.role),
			NodeID:    n.ID,
			Role:      s.role,
			Direction: DirectionInput,
			Accepts:   s.accepts,
			Singular:  s.singular,
		})
	}
	return ports
}

// OutputPort derives the single output port every node exposes.
func OutputPort(n *Node) Port {
	return Port{
		ID:        PortID(n.ID, RoleOutput),
		NodeID:    n.ID,
		Role:      RoleOutput,
		Direction: DirectionOutput,
	}
}

// SingularRole reports whether the role admits at most one incoming
// connection on any node kind that exposes it.
func SingularRole(role string) bool {
	for _, specs := range inputSpecs {
		for _, s := range specs {
			if s.role == role && s.singular {
				return true
			}
		}
	}
	return false
}
