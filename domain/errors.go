package domain

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrValidation marks out-of-range or missing input; rejected before any engine work.
	ErrValidation = errors.New("validation error")
	// ErrPersistence marks an unreachable store or a rejected write.
	ErrPersistence = errors.New("persistence error")
	// ErrTraining marks a failed model rebuild; the previous model keeps serving.
	ErrTraining = errors.New("training error")
	// ErrInferenceUnavailable marks an external inference call that could not be completed.
	ErrInferenceUnavailable = errors.New("inference unavailable")
)

// ValidationError names the offending field and a user-facing reason.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Messages shown to end users in place of internal error text.
const (
	MsgAssistantUnavailable = "The assistant is currently unavailable, please try again later."
	MsgStoreUnavailable     = "The data store is currently unavailable, please try again later."
	MsgTrainingFailed       = "Model retraining failed, the previous model is still serving."
	MsgTimeout              = "The request took too long, please try again."
	MsgInternal             = "Something went wrong, please try again later."
)

// UserMessage maps err onto a message that is safe to show on any transport.
// Validation errors keep their specific reason.
func UserMessage(err error) string {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		return verr.Error()
	case errors.Is(err, ErrInferenceUnavailable):
		return MsgAssistantUnavailable
	case errors.Is(err, ErrTraining):
		return MsgTrainingFailed
	case errors.Is(err, ErrPersistence):
		return MsgStoreUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return MsgTimeout
	default:
		return MsgInternal
	}
}
