// Package validation provides boundary validation for tool-call batches and
// structural validation for canvases loaded from external sources.
package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/canvasgraph/canvasgraph/internal/app/dto"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// BatchError reports everything wrong with a batch in one pass, so callers
// can surface all problems to the assistant instead of the first one.
type BatchError struct {
	Problems []string
}

func (e *BatchError) Error() string {
	if len(e.Problems) == 0 {
		return "invalid batch"
	}
	return strings.Join(e.Problems, "; ")
}

// ValidateBatch checks a tool-call batch before it reaches the mutation
// engine: known operation names and the fields each operation requires.
// PRINCIPLES:
// - KISS: declarative struct tags, one pass
// - SRP: shape checks only; semantic failures are the engine's to report per call
func ValidateBatch(batch dto.Batch) error {
	if len(batch) == 0 {
		return dto.ErrEmptyBatch
	}

	var problems []string
	for i, call := range batch {
		if err := validate.Struct(call); err != nil {
			var fieldErrs validator.ValidationErrors
			if errors.As(err, &fieldErrs) {
				for _, fe := range fieldErrs {
					problems = append(problems, describeFieldError(i, call.Op, fe))
				}
				continue
			}
			problems = append(problems, fmt.Sprintf("call %d: %v", i, err))
		}
	}

	if len(problems) > 0 {
		return &BatchError{Problems: problems}
	}
	return nil
}

func describeFieldError(index int, op dto.OpName, fe validator.FieldError) string {
	switch fe.Tag() {
	case "oneof":
		return fmt.Sprintf("call %d: %v: %q", index, dto.ErrUnknownOperation, fe.Value())
	case "required":
		return fmt.Sprintf("call %d: missing operation name", index)
	case "required_if":
		return fmt.Sprintf("call %d: %s requires %s", index, op, fe.Field())
	default:
		return fmt.Sprintf("call %d: field %s failed %s", index, fe.Field(), fe.Tag())
	}
}
