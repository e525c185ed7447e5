// Package kernel provides core domain primitives used throughout the domain model.
//
// The package currently carries a single primitive:
//   - UUID: a value object for conversation/session identity with validation
//     and comparison behavior
//
// Order identity is intentionally not a UUID: orders use database-allocated
// serial integers (see the order repository), so customers can quote a short
// number back to the bot when tracking or canceling.
package kernel
