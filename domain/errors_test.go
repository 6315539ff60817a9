//go:build !integration

package domain

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "validation keeps reason", err: &ValidationError{Field: "gwa", Reason: "must be between 75 and 100"}, want: "gwa must be between 75 and 100"},
		{name: "inference", err: fmt.Errorf("%w: failed to submit inference call: dial tcp 10.0.0.1:443: connection refused", ErrInferenceUnavailable), want: MsgAssistantUnavailable},
		{name: "inference timeout", err: fmt.Errorf("%w: %w", ErrInferenceUnavailable, context.DeadlineExceeded), want: MsgAssistantUnavailable},
		{name: "training", err: fmt.Errorf("%w: scan feedback: pq: relation does not exist", ErrTraining), want: MsgTrainingFailed},
		{name: "persistence", err: fmt.Errorf("%w: load question bank", ErrPersistence), want: MsgStoreUnavailable},
		{name: "deadline", err: context.DeadlineExceeded, want: MsgTimeout},
		{name: "unknown", err: errors.New("runtime error: index out of range"), want: MsgInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UserMessage(tt.err))
		})
	}
}
