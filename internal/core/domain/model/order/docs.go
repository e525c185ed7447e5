// Package order contains the Order aggregate and its Status state machine.
//
// An Order is born when a conversation's cart is confirmed and lives forever
// in the store (orders are never physically deleted). Its lifecycle moves
// forward through the kitchen statuses and ends in exactly one of three
// terminal states: Completed, Delivered or Canceled.
//
// The aggregate enforces structural invariants (positive quantities, cached
// total, single ID assignment, terminal immutability). Policy that depends on
// wall-clock time, such as the modification window, lives outside the
// aggregate in the domain services layer, so both the chat path and the
// kitchen path share one implementation of it.
package order
