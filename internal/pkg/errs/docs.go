// Package errs provides standardized error types for the application.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the codebase.
//
// The package includes error types for the common failure scenarios:
//   - ObjectNotFoundError: for when an object cannot be found by its identifier
//   - ValueIsInvalidError: for when a value fails validation
//   - ValueIsRequiredError: for when a required value is missing
//
// Each error type follows the same pattern:
//   - A sentinel error variable (e.g. ErrObjectNotFound)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method so errors.Is matches the sentinel
//
// Domain-specific errors (cart, menu, order lifecycle) live next to the types
// they describe; this package only carries the cross-cutting validation and
// lookup failures.
package errs
