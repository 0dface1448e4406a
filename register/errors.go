/*
errors.go - Error taxonomy of the sales session engine

PURPOSE:
  Every failure the till can report, in one place. None of them is fatal:
  the operation that raised it is aborted and in-memory state is left as it
  was before the call.

ERROR CATEGORIES:
  1. ErrInvalidInput       - empty name, non-positive price or quantity,
                             unparsable payment amount, unknown method
  2. ErrNotFound           - product no longer in the catalog
  3. ErrOutOfRange         - cart index or sale ordinal that does not exist
  4. ErrInsufficientPayment- cash received below the sale total
  5. ErrEmptyCart          - finalize with no items
  6. ErrPersistenceFailure - catalog/export/report write failed

USAGE:
  if errors.Is(err, register.ErrInsufficientPayment) {
      var ipe *register.InsufficientPaymentError
      errors.As(err, &ipe) // ipe.Shortfall
  }
*/
package register

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrNotFound            = errors.New("not found")
	ErrOutOfRange          = errors.New("out of range")
	ErrInsufficientPayment = errors.New("insufficient payment")
	ErrEmptyCart           = errors.New("empty cart")
	ErrPersistenceFailure  = errors.New("persistence failure")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InsufficientPaymentError provides details about a cash shortfall.
type InsufficientPaymentError struct {
	Total     decimal.Decimal
	Received  decimal.Decimal
	Shortfall decimal.Decimal
}

func (e *InsufficientPaymentError) Error() string {
	return fmt.Sprintf("insufficient payment: total %s, received %s, missing %s",
		FormatMoney(e.Total), FormatMoney(e.Received), FormatMoney(e.Shortfall))
}

func (e *InsufficientPaymentError) Unwrap() error {
	return ErrInsufficientPayment
}

// OutOfRangeError reports a position that does not address an element.
// Position is 1-based for sales, as displayed.
type OutOfRangeError struct {
	What     string // "cart item", "sale"
	Position int
	Len      int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("%s #%d out of range (have %d)", e.What, e.Position, e.Len)
}

func (e *OutOfRangeError) Unwrap() error {
	return ErrOutOfRange
}

// PersistenceError wraps the underlying cause of a failed write.
type PersistenceError struct {
	Op  string // "save catalog", "export session", "export report"
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() []error {
	return []error{ErrPersistenceFailure, e.Err}
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

func invalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// IsClientError returns true if the error is due to operator input and the
// operator can correct it.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrInsufficientPayment) ||
		errors.Is(err, ErrEmptyCart)
}

// IsNotFound returns true if the error references something that is gone.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrOutOfRange)
}
