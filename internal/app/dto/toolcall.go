// Package dto defines the data-transfer shapes crossing the engine's
// boundaries: tool-call batches from the AI collaborator, remote snapshots
// from the sync layer, and the transcript returned to callers.
package dto

// OpName names one tool-call operation. The set is closed: each member must
// also define its structural-edge-removal policy in the mutation engine, so
// additions are deliberate.
type OpName string

const (
	OpUpdate  OpName = "update"
	OpDelete  OpName = "delete"
	OpMove    OpName = "move"
	OpRename  OpName = "rename"
	OpConnect OpName = "connect"
)

// ToolCall is one named operation in an externally supplied mutation batch.
// Fields are op-specific: Update uses Path+Content, Delete/Move use Title,
// Rename uses OldTitle+NewTitle, Connect uses SourceTitle+TargetTitle.
type ToolCall struct {
	Op OpName `json:"operation" validate:"required,oneof=update delete move rename connect"`

	Path    string `json:"path,omitempty" validate:"required_if=Op update"`
	Content string `json:"content,omitempty"`

	Title        string `json:"title,omitempty" validate:"required_if=Op delete,required_if=Op move"`
	TargetFolder string `json:"target_folder,omitempty"`

	OldTitle string `json:"old_title,omitempty" validate:"required_if=Op rename"`
	NewTitle string `json:"new_title,omitempty" validate:"required_if=Op rename"`

	SourceTitle string `json:"source_title,omitempty" validate:"required_if=Op connect"`
	TargetTitle string `json:"target_title,omitempty" validate:"required_if=Op connect"`
}

// Batch is an ordered list of tool calls executed as one unit. Failed
// operations are skipped, not aborted: a large batch never fails atomically
// because of one bad call.
type Batch []ToolCall

// BatchResult is the cumulative outcome of executing a batch: one
// human-readable annotation per effect or per failure, in order.
type BatchResult struct {
	Transcript string `json:"transcript"`
	Applied    int    `json:"applied"`
	Skipped    int    `json:"skipped"`
}
