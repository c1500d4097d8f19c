// Package mppi provides the core primitives shared by every stage of the
// MPPI local trajectory controller: the settings bundle read from the
// parameter surface, the sample/time/control shape it implies, and the
// domain error types raised across the pipeline.
//
//   - [Settings]: immutable-within-tick configuration for one control tick
//   - [Constraints]: symmetric per-axis velocity limits
//   - [ConfigurationError]: raised at init or reconfiguration time
//   - [OptimizationFailure]: raised when fallback exhausts its retry budget
//
// # Thread Safety
//
// Settings and the error types are plain values; nothing in this package
// is safe for concurrent mutation. The optimizer that owns a Settings
// value is expected to run one tick at a time on a single caller goroutine.
package mppi
