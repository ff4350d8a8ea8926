package apperrors

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by the core wraps exactly one of these.
var (
	// ErrValidation indicates that input data failed validation checks.
	ErrValidation = errors.New("validation error")
	// ErrNotFound indicates that a requested resource could not be found
	// within the caller's organization.
	ErrNotFound = errors.New("resource not found")
	// ErrConflict indicates the request conflicts with current state.
	ErrConflict = errors.New("conflict")
	// ErrTransient indicates a retryable store failure (timeout, lock contention).
	ErrTransient = errors.New("transient failure")
	// ErrAuditFailure indicates the audit sink could not persist a record.
	ErrAuditFailure = errors.New("audit failure")
	// ErrNotImplemented is returned by stubbed capabilities.
	ErrNotImplemented = errors.New("not implemented")
)

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = fmt.Errorf("%w: resource already exists", ErrConflict)

// Machine-readable reasons carried by AppError.
const (
	ReasonTooFewEntries         = "TOO_FEW_ENTRIES"
	ReasonTooManyEntries        = "TOO_MANY_ENTRIES"
	ReasonNonPositiveAmount     = "NON_POSITIVE_AMOUNT"
	ReasonInvalidEntryType      = "INVALID_ENTRY_TYPE"
	ReasonUnbalanced            = "UNBALANCED_TRANSACTION"
	ReasonEmptyDescription      = "EMPTY_DESCRIPTION"
	ReasonDescriptionTooLong    = "DESCRIPTION_TOO_LONG"
	ReasonInactiveAccount       = "INACTIVE_ACCOUNT"
	ReasonInvalidAccountNumber  = "INVALID_ACCOUNT_NUMBER"
	ReasonInvalidAccountType    = "INVALID_ACCOUNT_TYPE"
	ReasonEmptyName             = "EMPTY_NAME"
	ReasonParentTypeMismatch    = "PARENT_TYPE_MISMATCH"
	ReasonInvalidLiquidity      = "INVALID_LIQUIDITY_CLASS"
	ReasonInvalidBusinessType   = "INVALID_BUSINESS_TYPE"
	ReasonInvalidPeriod         = "INVALID_PERIOD"
	ReasonInvalidPageToken      = "INVALID_PAGE_TOKEN"
	ReasonInsufficientData      = "INSUFFICIENT_DATA"
	ReasonUnsupportedExport     = "UNSUPPORTED_EXPORT"
	ReasonDuplicateNumber       = "DUPLICATE_ACCOUNT_NUMBER"
	ReasonCircularHierarchy     = "CIRCULAR_HIERARCHY"
	ReasonCircularDependency    = "CIRCULAR_DEPENDENCY"
	ReasonAlreadyReversed       = "ALREADY_REVERSED"
	ReasonAccountHasEntries     = "ACCOUNT_HAS_ENTRIES"
	ReasonAccountHasChildren    = "ACCOUNT_HAS_CHILDREN"
	ReasonAccountHasBalance     = "ACCOUNT_HAS_BALANCE"
	ReasonStoreTimeout          = "STORE_TIMEOUT"
	ReasonLockContention        = "LOCK_CONTENTION"
	ReasonAuditUnavailable      = "AUDIT_UNAVAILABLE"
	ReasonCapabilityUnavailable = "NOT_IMPLEMENTED"
)

// AppError is a classified error. It matches its Kind and its cause with errors.Is.
type AppError struct {
	Kind    error
	Reason  string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes both the kind and the underlying cause.
func (e *AppError) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

func newf(kind error, reason, format string, args ...any) *AppError {
	return &AppError{Kind: kind, Reason: reason, Message: fmt.Sprintf(format, args...)}
}

// NewValidation builds a validation error.
func NewValidation(reason, format string, args ...any) error {
	return newf(ErrValidation, reason, format, args...)
}

// NewNotFound builds a not-found error for the given entity. It deliberately
// carries no organization detail.
func NewNotFound(entity, id string) error {
	return &AppError{Kind: ErrNotFound, Reason: "NOT_FOUND", Message: fmt.Sprintf("%s %s not found", entity, id)}
}

// NewConflict builds a conflict error.
func NewConflict(reason, format string, args ...any) error {
	return newf(ErrConflict, reason, format, args...)
}

// NewTransient wraps a retryable store failure.
func NewTransient(reason, msg string, err error) error {
	return &AppError{Kind: ErrTransient, Reason: reason, Message: msg, Err: err}
}

// NewAuditFailure wraps an audit sink failure.
func NewAuditFailure(err error) error {
	return &AppError{Kind: ErrAuditFailure, Reason: ReasonAuditUnavailable, Message: "failed to record audit entry", Err: err}
}

// NewNotImplemented reports a stubbed capability.
func NewNotImplemented(what string) error {
	return newf(ErrNotImplemented, ReasonCapabilityUnavailable, "%s is not implemented", what)
}

// InsufficientData reports that an analytical computation lacks the history it needs.
func InsufficientData(format string, args ...any) error {
	return newf(ErrValidation, ReasonInsufficientData, format, args...)
}

// Reason returns the machine-readable reason of err, or "" when it is unclassified.
func Reason(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Reason
	}
	switch {
	case errors.Is(err, ErrDuplicate):
		return ReasonDuplicateNumber
	case errors.Is(err, ErrNotFound):
		return "NOT_FOUND"
	}
	return ""
}

// IsKnown reports whether err belongs to the taxonomy.
func IsKnown(err error) bool {
	for _, k := range []error{ErrValidation, ErrNotFound, ErrConflict, ErrTransient, ErrAuditFailure, ErrNotImplemented} {
		if errors.Is(err, k) {
			return true
		}
	}
	return false
}
