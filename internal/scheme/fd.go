package scheme

import "sync/atomic"

// FDID is a globally unique file descriptor handle (spec.md §3
// FileDescriptorId).
type FDID uint64

var nextFD atomic.Uint64

// NewFDID allocates the next globally unique file descriptor id.
func NewFDID() FDID {
	return FDID(nextFD.Add(1))
}

// FileDescriptor is the per-task record attached to an open scheme handle
// (spec.md §3).
type FileDescriptor struct {
	ID     FDID
	Offset int64
	Scheme string
	Flags  OpenFlags
}
