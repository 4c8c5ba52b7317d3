// Package graph provides the core canvas domain entities
// following Clean Architecture principles with zero external dependencies.
package graph

import "time"

// NodeKind represents the kind of node on the canvas
type NodeKind string

const (
	// KindCode represents a source file node
	KindCode NodeKind = "code"
	// KindPreview represents a live preview node
	KindPreview NodeKind = "preview"
	// KindTerminal represents a terminal node
	KindTerminal NodeKind = "terminal"
	// KindAiChat represents an AI assistant node
	KindAiChat NodeKind = "ai_chat"
	// KindPackageSearch represents a package search node
	KindPackageSearch NodeKind = "package_search"
	// KindImage represents an image node
	KindImage NodeKind = "image"
	// KindText represents a markdown text node
	KindText NodeKind = "text"
	// KindFolder represents a folder node
	KindFolder NodeKind = "folder"
)

// Position is a node's location on the canvas.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is a node's rendered dimensions.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// MessageRole identifies the author of a chat message.
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// Message is one entry in an AiChat node's transcript.
type Message struct {
	ID      string      `json:"id"`
	Role    MessageRole `json:"role"`
	Content string      `json:"content"`
}

// Node represents a typed unit on the canvas
// PRINCIPLES:
// - KISS: Simple node representation
// - SRP: Only responsible for node data
type Node struct {
	ID             string                 `json:"id"`
	Kind           NodeKind               `json:"kind"`
	Title          string                 `json:"title"`
	Content        Content                `json:"-"`
	Position       Position               `json:"position"`
	Size           Size                   `json:"size"`
	AutoHeight     bool                   `json:"auto_height,omitempty"`
	IsMinimized    bool                   `json:"is_minimized,omitempty"`
	IsLoading      bool                   `json:"is_loading,omitempty"`
	LockedBy       string                 `json:"locked_by,omitempty"`
	Messages       []Message              `json:"messages,omitempty"`
	ContextNodeIDs []string               `json:"context_node_ids,omitempty"`
	SharedState    map[string]interface{} `json:"shared_state,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
}

// Validate ensures node integrity
func (n *Node) Validate() error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if n.Kind == "" {
		return ErrInvalidNodeKind
	}
	if n.Title == "" && n.Kind != KindPreview && n.Kind != KindTerminal {
		return ErrInvalidNodeTitle
	}
	if n.Content != nil && !n.Content.AllowedOn(n.Kind) {
		return ErrContentKindMismatch
	}
	return nil
}

// IsFile reports whether the node is an organizable file kind.
// Only file kinds participate in folder wiring and path computation.
func (n *Node) IsFile() bool {
	return n.Kind == KindCode || n.Kind == KindImage || n.Kind == KindText
}

// Text returns the node's payload text, or "" when no payload is set.
func (n *Node) Text() string {
	if n.Content == nil {
		return ""
	}
	return n.Content.Text()
}
