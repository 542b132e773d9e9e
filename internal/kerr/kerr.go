// Package kerr provides typed error handling for the jon kernel simulation.
//
// Every failure that can cross a syscall or scheme boundary carries an
// Errno: the same negative-on-the-wire code a real syscall would return in
// rax. Internal code should prefer the sentinel values in sentinel.go and
// only build ad-hoc *Error values when no sentinel fits.
package kerr

import (
	"errors"
	"fmt"
)

// Errno is one of the kernel's wire error codes.
type Errno int

// The errno set used on the wire (spec.md "Errno set used").
const (
	ESRCH  Errno = 3
	EIO    Errno = 5
	ENOENT Errno = 2
	EINTR  Errno = 4
	EBADF  Errno = 9
	EAGAIN Errno = 11
	ENOMEM Errno = 12
	EINVAL Errno = 22
	ENOSPC Errno = 28
	ENOSYS Errno = 38
)

// String returns the conventional errno name.
func (e Errno) String() string {
	switch e {
	case ESRCH:
		return "ESRCH"
	case EIO:
		return "EIO"
	case ENOENT:
		return "ENOENT"
	case EINTR:
		return "EINTR"
	case EBADF:
		return "EBADF"
	case EAGAIN:
		return "EAGAIN"
	case ENOMEM:
		return "ENOMEM"
	case EINVAL:
		return "EINVAL"
	case ENOSPC:
		return "ENOSPC"
	case ENOSYS:
		return "ENOSYS"
	default:
		return fmt.Sprintf("errno(%d)", int(e))
	}
}

// Error represents a kernel-internal error tagged with its wire errno.
type Error struct {
	// Op is the operation that failed (e.g. "open", "map", "schedule").
	Op string
	// Task is the PID involved, if any. Zero means "not applicable".
	Task uint64
	// Errno is the wire error code this failure maps to.
	Errno Errno
	// Detail provides additional human-readable context.
	Detail string
	// Err is the underlying error, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	var msg string
	if e.Task != 0 {
		msg = fmt.Sprintf("task %d: ", e.Task)
	}
	if e.Op != "" {
		msg += fmt.Sprintf("%s: ", e.Op)
	}
	if e.Detail != "" {
		msg += e.Detail
	} else {
		msg += e.Errno.String()
	}
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is reports whether target is a *Error with the same Errno.
func (e *Error) Is(target error) bool {
	if e == nil {
		return target == nil
	}
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Errno == t.Errno
}

// New creates a new *Error with the given errno.
func New(errno Errno, op, detail string) *Error {
	return &Error{Op: op, Errno: errno, Detail: detail}
}

// Wrap wraps err with an operation and errno classification.
func Wrap(err error, errno Errno, op string) *Error {
	return &Error{Op: op, Errno: errno, Err: err}
}

// WrapTask wraps err with task context.
func WrapTask(err error, errno Errno, op string, pid uint64) *Error {
	return &Error{Op: op, Task: pid, Errno: errno, Err: err}
}

// ToErrno recovers the wire errno for err, defaulting to EIO if err does
// not carry one of its own.
func ToErrno(err error) Errno {
	if err == nil {
		return 0
	}
	var kerr *Error
	if errors.As(err, &kerr) {
		return kerr.Errno
	}
	return EIO
}

// Re-exported standard library functions for convenience, matching the
// teacher's errors package convention.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
)
