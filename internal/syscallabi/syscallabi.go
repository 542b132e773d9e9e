// Package syscallabi implements the kernel's syscall fast-path dispatch
// table (spec.md §3 Syscall fast-path, §4.9).
//
// Grounded on original_source's syscall/mod.rs handle_syscall: this
// simulation has no real syscall/sysretq instruction pair, swapgs, or
// MSR-programmed entry point, so Dispatch stands in for handle_syscall
// directly — the register-pivoting asm in syscall_instruction has no
// host-process equivalent and is intentionally not modeled.
//
// The original ABI passes a path or buffer as a (pointer, length) pair
// into the caller's address space, which handle_syscall dereferences with
// core::slice::from_raw_parts. This simulation has no separate user
// address space to dereference into — caller (driverclient.Client) and
// kernel run in the same Go process — so Args carries the path/buffer
// directly instead of a synthesized pointer, and every other register
// stays a plain uint64 to keep the rest of the ABI faithful.
package syscallabi

import (
	"jon/internal/kerr"
	"jon/internal/memory"
	"jon/internal/pid"
	"jon/internal/scheme"
	"jon/internal/task"
	"jon/internal/vpath"
)

// CallerContext identifies the task and CPU a syscall executes on behalf
// of.
type CallerContext struct {
	PID pid.PID
	CPU uint32
}

// Syscall numbers (spec.md §4.9, with the two Open Questions resolved:
// 62=lseek/61=kill and 0=exit; see DESIGN.md).
const (
	SysExit   = 0
	SysBrk    = 12
	SysGetPID = 39
	SysOpen   = 56
	SysKill   = 61
	SysLseek  = 62
	SysRead   = 63
	SysWrite  = 64
	SysSpawn  = 220
)

// Args carries a syscall's arguments. A2-A6 play the role of rsi/rdx/r10/
// r8/r9; Path and Buf stand in for a (pointer, length) pair for the two
// syscalls that need one (open's path, read/write's buffer).
type Args struct {
	A1, A2, A3, A4, A5, A6 uint64
	Path                   string
	Buf                    []byte
}

// TaskTable is the subset of Scheduler behavior Dispatch needs, kept as an
// interface so this package doesn't import sched directly (sched already
// imports task and pcr; syscallabi sits above both).
type TaskTable interface {
	Get(id pid.PID) (*task.Task, bool)
	RemoveTask(id pid.PID) bool
}

// Spawner resolves a builtin driver index into a running task
// (spec.md §4.9 spawn; implemented by *kernel.Kernel to avoid a cycle with
// package kernel).
type Spawner interface {
	Spawn(ctx CallerContext, index int) (pid.PID, error)
}

// wireErrno converts an errno into the syscall ABI's failure encoding:
// uint64(-int64(errno)) (spec.md §4.9 "Return convention").
func wireErrno(errno kerr.Errno) uint64 {
	return uint64(-int64(errno))
}

// Dispatch routes one syscall by number, mirroring handle_syscall's match
// over SYS_* constants (spec.md §4.9). The result is the raw wire value:
// non-negative on success, uint64(-int64(errno)) on failure.
func Dispatch(tasks TaskTable, schemes *scheme.Registry, spawner Spawner, ctx CallerContext, num uint64, args Args) uint64 {
	var (
		result uint64
		err    error
	)

	switch num {
	case SysExit:
		result, err = sysExit(tasks, schemes, ctx)
	case SysBrk:
		result, err = sysBrk(tasks, ctx, args.A1)
	case SysGetPID:
		result, err = sysGetPID(ctx)
	case SysOpen:
		result, err = sysOpen(tasks, schemes, ctx, args.Path, args.A1)
	case SysRead:
		result, err = sysRead(tasks, schemes, ctx, args.A1, args.Buf)
	case SysWrite:
		result, err = sysWrite(tasks, schemes, ctx, args.A1, args.Buf)
	case SysLseek:
		result, err = sysLseek(tasks, schemes, ctx, args.A1, args.A2, args.A3)
	case SysKill:
		result, err = sysKill(tasks, schemes, ctx, args.A1)
	case SysSpawn:
		result, err = sysSpawn(spawner, ctx, args.A1)
	default:
		err = kerr.ErrUnknownSyscall
	}

	if err != nil {
		return wireErrno(kerr.ToErrno(err))
	}
	return result
}

func sysExit(tasks TaskTable, schemes *scheme.Registry, ctx CallerContext) (uint64, error) {
	closeAllFDs(tasks, schemes, ctx.PID, ctx.CPU)
	tasks.RemoveTask(ctx.PID)
	return 0, nil
}

func sysGetPID(ctx CallerContext) (uint64, error) {
	return uint64(ctx.PID), nil
}

// sysBrk returns the current brk when newBrk is 0 (a probe), otherwise
// moves it (spec.md §3 MemoryDescriptor: "Updated ... by the brk
// syscall").
func sysBrk(tasks TaskTable, ctx CallerContext, newBrk uint64) (uint64, error) {
	t, ok := tasks.Get(ctx.PID)
	if !ok {
		return 0, kerr.ErrTaskNotFound
	}
	if newBrk == 0 {
		return uint64(t.Mem.Brk), nil
	}
	t.Mem.Brk = memory.VirtualAddress(newBrk)
	return uint64(t.Mem.Brk), nil
}

// sysOpen resolves the scheme named in path, delegates, and attaches the
// resulting descriptor to the caller's task (spec.md §4.9, grounded on
// sys_open).
func sysOpen(tasks TaskTable, schemes *scheme.Registry, ctx CallerContext, path string, rawFlags uint64) (uint64, error) {
	t, ok := tasks.Get(ctx.PID)
	if !ok {
		return 0, kerr.ErrTaskNotFound
	}

	name, sub, err := vpath.Parse(path)
	if err != nil {
		return 0, err
	}
	s, ok := schemes.Lookup(name)
	if !ok {
		return 0, kerr.ErrUnknownScheme
	}

	flags := scheme.OpenFlags(rawFlags)
	id, err := s.Open(sub, flags, scheme.CallerContext{PID: ctx.PID, CPU: ctx.CPU})
	if err != nil {
		return 0, err
	}

	t.AddFD(&scheme.FileDescriptor{ID: id, Scheme: name, Flags: flags})
	return uint64(id), nil
}

func sysRead(tasks TaskTable, schemes *scheme.Registry, ctx CallerContext, fd uint64, buf []byte) (uint64, error) {
	s, _, err := lookupFD(tasks, schemes, ctx, fd)
	if err != nil {
		return 0, err
	}
	n, err := s.Read(scheme.FDID(fd), buf)
	if err != nil {
		return 0, err
	}
	return uint64(n), nil
}

func sysWrite(tasks TaskTable, schemes *scheme.Registry, ctx CallerContext, fd uint64, buf []byte) (uint64, error) {
	s, _, err := lookupFD(tasks, schemes, ctx, fd)
	if err != nil {
		return 0, err
	}
	n, err := s.Write(scheme.FDID(fd), buf)
	if err != nil {
		return 0, err
	}
	return uint64(n), nil
}

func sysLseek(tasks TaskTable, schemes *scheme.Registry, ctx CallerContext, fd, offset, whence uint64) (uint64, error) {
	s, _, err := lookupFD(tasks, schemes, ctx, fd)
	if err != nil {
		return 0, err
	}
	pos, err := s.Lseek(scheme.FDID(fd), int64(offset), int(whence))
	if err != nil {
		return 0, err
	}
	return uint64(pos), nil
}

func sysKill(tasks TaskTable, schemes *scheme.Registry, ctx CallerContext, target uint64) (uint64, error) {
	if pid.PID(target) == ctx.PID {
		return 0, kerr.ErrSelfKill
	}
	closeAllFDs(tasks, schemes, pid.PID(target), ctx.CPU)
	if !tasks.RemoveTask(pid.PID(target)) {
		return 0, kerr.ErrTaskNotFound
	}
	return 0, nil
}

// closeAllFDs invokes each owning scheme's Close on every descriptor the
// target task still holds (spec.md §5: "cancellation ... closes every
// descriptor it owns (each scheme's close is invoked)"; §8 Testable
// Property 4). Best-effort: one scheme erroring on Close does not stop
// the rest from being closed, matching how a real process's fds are all
// torn down on exit regardless of individual close failures.
func closeAllFDs(tasks TaskTable, schemes *scheme.Registry, target pid.PID, cpu uint32) {
	t, ok := tasks.Get(target)
	if !ok {
		return
	}
	closeCtx := scheme.CallerContext{PID: target, CPU: cpu}
	for _, fd := range t.FDs {
		if s, ok := schemes.Lookup(fd.Scheme); ok {
			s.Close(fd.ID, closeCtx)
		}
	}
}

func sysSpawn(spawner Spawner, ctx CallerContext, index uint64) (uint64, error) {
	if spawner == nil {
		return 0, kerr.ErrInvalidSpawn
	}
	newPID, err := spawner.Spawn(ctx, int(index))
	if err != nil {
		return 0, err
	}
	return uint64(newPID), nil
}

func lookupFD(tasks TaskTable, schemes *scheme.Registry, ctx CallerContext, fd uint64) (scheme.Scheme, *task.Task, error) {
	t, ok := tasks.Get(ctx.PID)
	if !ok {
		return nil, nil, kerr.ErrTaskNotFound
	}
	descriptor, ok := t.FindFD(scheme.FDID(fd))
	if !ok {
		return nil, nil, kerr.ErrBadFD
	}
	s, ok := schemes.Lookup(descriptor.Scheme)
	if !ok {
		return nil, nil, kerr.ErrUnknownScheme
	}
	return s, t, nil
}
