// Package graph defines domain-specific errors
package graph

import "errors"

// Domain errors - DRY principle: defined once, used everywhere
var (
	// Canvas errors
	ErrCanvasNotFound = errors.New("canvas not found")

	// Node errors
	ErrNilNode             = errors.New("node cannot be nil")
	ErrInvalidNodeID       = errors.New("invalid node ID")
	ErrInvalidNodeKind     = errors.New("invalid node kind")
	ErrInvalidNodeTitle    = errors.New("invalid node title")
	ErrNodeNotFound        = errors.New("node not found")
	ErrDuplicateNode       = errors.New("duplicate node ID")
	ErrContentKindMismatch = errors.New("content payload not allowed on node kind")

	// Connection errors
	ErrNilConnection  = errors.New("connection cannot be nil")
	ErrInvalidSource  = errors.New("invalid source endpoint")
	ErrInvalidTarget  = errors.New("invalid target endpoint")
	ErrEndpointMissed = errors.New("connection endpoint references missing node")
	ErrNotAFolder     = errors.New("target node is not a folder")
	ErrNotAFile       = errors.New("node is not an organizable file kind")
)
