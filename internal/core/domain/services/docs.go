// Package services provides domain services that implement business policy
// spanning more than one aggregate or depending on inputs (like wall-clock
// time) that don't belong inside an aggregate.
//
// The package includes:
//   - WindowPolicy: the time-boxed mutation window shared by the order
//     modification and cancellation paths
//
// Keeping the window in one service guarantees the inclusive boundary
// behaves identically everywhere it is checked.
package services
