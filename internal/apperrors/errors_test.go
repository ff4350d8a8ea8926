package apperrors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_MatchesKindAndCause(t *testing.T) {
	cause := context.DeadlineExceeded
	err := fmt.Errorf("posting: %w", NewTransient(ReasonStoreTimeout, "timed out", cause))

	assert.ErrorIs(t, err, ErrTransient)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.NotErrorIs(t, err, ErrValidation)
	assert.Equal(t, ReasonStoreTimeout, Reason(err))
	assert.True(t, IsKnown(err))
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		kind   error
		reason string
	}{
		{"validation", NewValidation(ReasonUnbalanced, "debits %s != credits %s", "1", "2"), ErrValidation, ReasonUnbalanced},
		{"not found", NewNotFound("account", "a1"), ErrNotFound, "NOT_FOUND"},
		{"conflict", NewConflict(ReasonAlreadyReversed, "already reversed"), ErrConflict, ReasonAlreadyReversed},
		{"audit", NewAuditFailure(errors.New("disk full")), ErrAuditFailure, ReasonAuditUnavailable},
		{"not implemented", NewNotImplemented("PDF export"), ErrNotImplemented, ReasonCapabilityUnavailable},
		{"insufficient data", InsufficientData("need %d periods", 2), ErrValidation, ReasonInsufficientData},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.err, tt.kind)
			assert.Equal(t, tt.reason, Reason(tt.err))
		})
	}
	assert.Equal(t, "validation error: debits 1 != credits 2", NewValidation(ReasonUnbalanced, "debits %s != credits %s", "1", "2").Error())
}

func TestDuplicateIsConflict(t *testing.T) {
	err := fmt.Errorf("%w: accounts_org_number_key", ErrDuplicate)
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, ReasonDuplicateNumber, Reason(err))
}

func TestUnclassified(t *testing.T) {
	err := errors.New("boom")
	assert.False(t, IsKnown(err))
	assert.Empty(t, Reason(err))
}
