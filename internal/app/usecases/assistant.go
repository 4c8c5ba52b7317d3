package usecases

import (
	"context"
	"fmt"

	"github.com/canvasgraph/canvasgraph/internal/app/dto"
)

// Assistant is the external AI tool-calling collaborator. Implementations
// turn a prompt plus canvas context into an ordered tool-call batch; prompts
// and model selection live entirely on the other side of this boundary.
type Assistant interface {
	// Propose returns the batch the assistant wants applied. An error here
	// is fatal to the operation in progress: the service has exhausted its
	// retries and there is no local recovery, so the caller must surface it.
	Propose(ctx context.Context, prompt string, contextNodeIDs []string) (dto.Batch, error)
}

// RunAssistant asks the assistant for a batch and executes it. Unlike every
// other failure in the engine, an assistant failure propagates: it is the
// one error category the caller must show the user as blocking.
func RunAssistant(ctx context.Context, a Assistant, engine *MutationEngine, prompt string, contextNodeIDs []string) (dto.BatchResult, error) {
	batch, err := a.Propose(ctx, prompt, contextNodeIDs)
	if err != nil {
		return dto.BatchResult{}, fmt.Errorf("%w: %v", dto.ErrAssistantUnavailable, err)
	}
	if len(batch) == 0 {
		return dto.BatchResult{}, dto.ErrEmptyBatch
	}
	return engine.Execute(batch), nil
}
