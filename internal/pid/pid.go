// Package pid defines the kernel's process identifier type.
//
// It is split out from package task so that task and scheme — each of
// which needs to refer to a PID without depending on the other's full
// type — can both import this leaf package without forming a cycle
// (task.Task owns scheme.FileDescriptor values; scheme.CallerContext needs
// a PID to attribute an operation to a caller).
package pid

import "sync/atomic"

// PID uniquely and monotonically identifies a task (spec.md §3: "PID is
// unique and monotonically assigned").
type PID uint64

var counter atomic.Uint64

// New allocates the next monotonically increasing PID. PID 0 is never
// issued, so it is safe to use as a "no PID" sentinel.
func New() PID {
	return PID(counter.Add(1))
}
