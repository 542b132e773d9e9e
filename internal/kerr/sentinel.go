package kerr

// Task/scheduler errors.
var (
	ErrTaskNotFound = &Error{Errno: ESRCH, Detail: "task not found"}
	ErrSelfKill     = &Error{Errno: EINVAL, Detail: "a task may not kill itself"}
	ErrInvalidSpawn = &Error{Errno: EINVAL, Detail: "invalid spawn index"}
)

// Memory manager errors.
var (
	ErrOutOfMemory      = &Error{Errno: ENOMEM, Detail: "out of physical memory"}
	ErrAlreadyMapped    = &Error{Errno: EINVAL, Detail: "address already mapped"}
	ErrNotMapped        = &Error{Errno: EINVAL, Detail: "address not mapped"}
	ErrNoPhysicalMemory = &Error{Errno: ENOMEM, Detail: "no physical memory available"}
	ErrInvalidAddress   = &Error{Errno: EINVAL, Detail: "misaligned or non-canonical address"}
	ErrOutOfRange       = &Error{Errno: EINVAL, Detail: "address range exceeds backing RAM size"}
)

// ELF loader errors.
var (
	ErrParse                = &Error{Errno: EINVAL, Detail: "failed to parse ELF image"}
	ErrInvalidInput         = &Error{Errno: EINVAL, Detail: "segment offset/size out of file bounds"}
	ErrMemoryAllocation     = &Error{Errno: ENOMEM, Detail: "failed to allocate segment frames"}
	ErrMapping              = &Error{Errno: EINVAL, Detail: "failed to map segment"}
	ErrUnsupportedReloc     = &Error{Errno: EINVAL, Detail: "unsupported relocation type"}
)

// Scheme/FD errors.
var (
	ErrUnknownScheme   = &Error{Errno: ENOENT, Detail: "unknown scheme"}
	ErrUnknownPath     = &Error{Errno: ENOENT, Detail: "unknown path"}
	ErrBadFD           = &Error{Errno: EBADF, Detail: "bad file descriptor"}
	ErrWouldBlock      = &Error{Errno: EAGAIN, Detail: "operation would block"}
	ErrNotSupported    = &Error{Errno: ENOSYS, Detail: "operation not supported by this scheme"}
	ErrPipeExists      = &Error{Errno: ENOSPC, Detail: "pipe already exists (O_CREAT without O_EXCL semantics expected absence)"}
	ErrInvalidOpenFlag = &Error{Errno: EINVAL, Detail: "invalid open flags"}
)

// Syscall ABI errors.
var (
	ErrUnknownSyscall = &Error{Errno: ENOENT, Detail: "unknown syscall number"}
)
