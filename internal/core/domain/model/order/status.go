package order

import (
	"fmt"

	"dinemate/internal/pkg/errs"
)

// Status represents the lifecycle state of a confirmed order.
// It implements a state machine whose forward progression is
//
//	Pending ──> Preparing ──> InProcess ──> Ready ──> Completed | Delivered
//
// with Canceled reachable through the cancellation path only (never through
// Advance). Canceled, Completed and Delivered are terminal: once reached,
// the order is immutable.
//
// The integer ordering of the constants is meaningful: the kitchen may only
// advance an order to a strictly later status.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status set when a cart is confirmed.
	Pending

	// Preparing indicates the kitchen has picked the order up.
	Preparing

	// InProcess indicates the food is actively being cooked.
	InProcess

	// Ready indicates the order is ready for pickup or dispatch.
	Ready

	// Completed indicates the order was handed over. Terminal.
	Completed

	// Delivered indicates the order reached the customer. Terminal.
	Delivered

	// Canceled indicates the customer canceled within the allowed window. Terminal.
	Canceled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "Unknown",
		Pending:   "Pending",
		Preparing: "Preparing",
		InProcess: "In Process",
		Ready:     "Ready",
		Completed: "Completed",
		Delivered: "Delivered",
		Canceled:  "Canceled",
	}
}

func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Pending:   "Pending",
		Preparing: "Preparing",
		InProcess: "In Process",
		Ready:     "Ready",
		Completed: "Completed",
		Delivered: "Delivered",
		Canceled:  "Canceled",
	}
}

// ParseStatus converts the displayed string form back to a Status.
// Returns an error for strings that name no valid status.
func ParseStatus(s string) (Status, error) {
	for status, str := range getValidStatusStrings() {
		if str == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause(
		"status",
		fmt.Errorf("%q is not a valid status", s),
	)
}

// Validate checks that the Status value is one of the defined states.
// Unknown (0) and out-of-range values are invalid.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%d is not a valid status", s),
		)
	}
	return nil
}

// String returns the human-readable name of the status.
// Implements fmt.Stringer; safe on any value, including invalid ones.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// IsTerminal reports whether the status permits no further transitions.
func (s Status) IsTerminal() bool {
	return s == Canceled || s == Completed || s == Delivered
}

// IsModifiable reports whether order items may still be replaced in this
// status. Only Pending and Preparing orders are modifiable; from InProcess
// onward the kitchen has committed ingredients.
func (s Status) IsModifiable() bool {
	return s == Pending || s == Preparing
}

// Advance transitions to newStatus along the forward progression.
//
// Valid transitions move to any strictly later status that is not Canceled,
// from any non-terminal status. Cancellation is deliberately unreachable
// here: it has its own path with window enforcement (see Cancel).
//
// Returns the new status, or an error satisfying
// errors.Is(err, ErrInvalidTransition) when the move is not allowed.
func (s Status) Advance(newStatus Status) (Status, error) {
	if err := newStatus.Validate(); err != nil {
		return Unknown, err
	}
	if newStatus == Canceled {
		return Unknown, fmt.Errorf("%w: cancellation is not a status advance", ErrInvalidTransition)
	}
	if s.IsTerminal() {
		return Unknown, fmt.Errorf("%w: order is already %s", ErrInvalidTransition, s)
	}
	if newStatus <= s {
		return Unknown, fmt.Errorf("%w: %s is not reachable from %s", ErrInvalidTransition, newStatus, s)
	}

	return newStatus, nil
}

// Cancel transitions to Canceled from any non-terminal status.
// The time-window check lives in the domain services layer; this method only
// enforces status legality so the two refusal reasons stay independently
// reportable.
func (s Status) Cancel() (Status, error) {
	if s.IsTerminal() {
		return Unknown, fmt.Errorf("%w: order is already %s", ErrInvalidTransition, s)
	}
	return Canceled, nil
}
