package dto

import "errors"

// Boundary errors
var (
	ErrEmptyBatch           = errors.New("tool-call batch is empty")
	ErrUnknownOperation     = errors.New("unknown tool-call operation")
	ErrAssistantUnavailable = errors.New("assistant service unavailable")
	ErrSnapshotEmpty        = errors.New("snapshot carries no sections")
)
