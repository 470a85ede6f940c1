package generator

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/willfong/restaurant-datagen/internal/utils"
)

// Error kinds. Match with errors.Is; the typed errors below unwrap to them.
var (
	ErrConfiguration = errors.New("configuration error")
	ErrPersistence   = errors.New("persistence error")
	ErrConsistency   = errors.New("consistency violation")
)

// ErrorType categorizes errors for logs and the final summary
type ErrorType string

const (
	ErrorTypeConfiguration ErrorType = "configuration"
	ErrorTypePersistence   ErrorType = "persistence"
	ErrorTypeConsistency   ErrorType = "consistency"
	ErrorTypeCanceled      ErrorType = "canceled"
	ErrorTypeUnknown       ErrorType = "unknown"
)

// ConfigurationError reports a setup defect, such as an empty weighted pool.
// It is fatal and never retried.
type ConfigurationError struct {
	Pool   string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Pool == "" {
		return fmt.Sprintf("configuration error: %s", e.Reason)
	}
	return fmt.Sprintf("configuration error: %s: %s", e.Pool, e.Reason)
}

// Is makes errors.Is(err, ErrConfiguration) match
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// PersistenceError reports a failed insert, lookup or commit. The batch it
// belongs to has been rolled back.
type PersistenceError struct {
	Table string
	Batch int
	Err   error
}

func (e *PersistenceError) Error() string {
	if e.Table == "" {
		return fmt.Sprintf("persistence error in batch %d: %v", e.Batch, e.Err)
	}
	return fmt.Sprintf("persistence error in batch %d (%s): %v", e.Batch, e.Table, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrPersistence) match
func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}

// ConsistencyViolation reports a broken financial invariant on a sale. It
// indicates a bug and stops generation before the sale is written.
type ConsistencyViolation struct {
	Field   string
	Want    utils.Money
	Got     utils.Money
	SaleRef uuid.UUID
}

func (e *ConsistencyViolation) Error() string {
	return fmt.Sprintf("consistency violation on sale %s: %s want %s, got %s",
		e.SaleRef, e.Field, e.Want, e.Got)
}

// Is makes errors.Is(err, ErrConsistency) match
func (e *ConsistencyViolation) Is(target error) bool {
	return target == ErrConsistency
}

// ClassifyError returns the ErrorType for err
func ClassifyError(err error) ErrorType {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrConfiguration):
		return ErrorTypeConfiguration
	case errors.Is(err, ErrConsistency):
		return ErrorTypeConsistency
	case errors.Is(err, ErrPersistence):
		return ErrorTypePersistence
	case isCanceled(err):
		return ErrorTypeCanceled
	default:
		return ErrorTypeUnknown
	}
}

func configErr(pool, format string, args ...any) error {
	return &ConfigurationError{Pool: pool, Reason: fmt.Sprintf(format, args...)}
}

func isCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
