package syscallabi

import (
	"testing"

	"jon/internal/kerr"
	"jon/internal/pid"
	"jon/internal/scheme"
	"jon/internal/task"
)

type fakeTasks struct {
	tasks map[pid.PID]*task.Task
}

func (f fakeTasks) Get(id pid.PID) (*task.Task, bool) { t, ok := f.tasks[id]; return t, ok }
func (f fakeTasks) RemoveTask(id pid.PID) bool {
	t, ok := f.tasks[id]
	if !ok {
		return false
	}
	t.State = task.Stopped
	return true
}

func TestDispatchUnknownSyscall(t *testing.T) {
	schemes := scheme.NewRegistry()
	got := Dispatch(fakeTasks{tasks: map[pid.PID]*task.Task{}}, schemes, nil, CallerContext{PID: 1}, 999, Args{})
	errno := int64(kerr.ENOENT)
	want := uint64(-errno)
	if got != want {
		t.Fatalf("Dispatch(999) = %#x, want %#x", got, want)
	}
}

func TestDispatchOpenAndReadPipe(t *testing.T) {
	schemes := scheme.NewRegistry()
	ps := scheme.NewPipeScheme()
	schemes.Register("pipe", ps)

	owner := &task.Task{PID: 1, Mem: &task.MemoryDescriptor{}}
	tasks := fakeTasks{tasks: map[pid.PID]*task.Task{1: owner}}
	ctx := CallerContext{PID: 1}

	fdRaw := Dispatch(tasks, schemes, nil, ctx, SysOpen, Args{Path: "pipe:q", A1: uint64(scheme.OCREAT | scheme.ORDWR)})
	if int64(fdRaw) < 0 {
		t.Fatalf("open failed: wire = %#x", fdRaw)
	}

	n := Dispatch(tasks, schemes, nil, ctx, SysWrite, Args{A1: fdRaw, Buf: []byte("hi")})
	if n != 2 {
		t.Fatalf("write returned %d, want 2", n)
	}

	buf := make([]byte, 8)
	n = Dispatch(tasks, schemes, nil, ctx, SysRead, Args{A1: fdRaw, Buf: buf})
	if n != 2 || string(buf[:2]) != "hi" {
		t.Fatalf("read returned n=%d buf=%q", n, buf[:2])
	}
}

func TestDispatchExitClosesOwnedDescriptors(t *testing.T) {
	schemes := scheme.NewRegistry()
	schemes.Register("pipe", scheme.NewPipeScheme())

	owner := &task.Task{PID: 1, Mem: &task.MemoryDescriptor{}}
	tasks := fakeTasks{tasks: map[pid.PID]*task.Task{1: owner}}
	ctx := CallerContext{PID: 1}

	fdRaw := Dispatch(tasks, schemes, nil, ctx, SysOpen, Args{Path: "pipe:q", A1: uint64(scheme.OCREAT | scheme.ORDWR)})
	if int64(fdRaw) < 0 {
		t.Fatalf("open failed: wire = %#x", fdRaw)
	}

	Dispatch(tasks, schemes, nil, ctx, SysExit, Args{})

	// Re-creating the same pipe name must succeed: exit should have closed
	// the owned descriptor, tearing the pipe down (spec.md §5/§4.9 "closes
	// every descriptor it owns (each scheme's close is invoked)"). If exit
	// never closed it, this reopen would fail with ErrPipeExists.
	second := Dispatch(tasks, schemes, nil, ctx, SysOpen, Args{Path: "pipe:q", A1: uint64(scheme.OCREAT | scheme.ORDWR)})
	if int64(second) < 0 {
		t.Fatalf("reopen after exit = %#x, want success (pipe should have been torn down)", second)
	}
}

func TestDispatchKillClosesTargetOwnedDescriptors(t *testing.T) {
	schemes := scheme.NewRegistry()
	schemes.Register("pipe", scheme.NewPipeScheme())

	killer := &task.Task{PID: 1, Mem: &task.MemoryDescriptor{}}
	target := &task.Task{PID: 2, Mem: &task.MemoryDescriptor{}}
	tasks := fakeTasks{tasks: map[pid.PID]*task.Task{1: killer, 2: target}}

	fdRaw := Dispatch(tasks, schemes, nil, CallerContext{PID: 2}, SysOpen, Args{Path: "pipe:q", A1: uint64(scheme.OCREAT | scheme.ORDWR)})
	if int64(fdRaw) < 0 {
		t.Fatalf("open failed: wire = %#x", fdRaw)
	}

	killRaw := Dispatch(tasks, schemes, nil, CallerContext{PID: 1}, SysKill, Args{A1: 2})
	if int64(killRaw) < 0 {
		t.Fatalf("kill failed: wire = %#x", killRaw)
	}

	// As above: if kill never closed pid 2's descriptors, this reopen
	// would fail with ErrPipeExists instead of succeeding.
	second := Dispatch(tasks, schemes, nil, CallerContext{PID: 2}, SysOpen, Args{Path: "pipe:q", A1: uint64(scheme.OCREAT | scheme.ORDWR)})
	if int64(second) < 0 {
		t.Fatalf("reopen after kill = %#x, want success (target's pipe should have been torn down)", second)
	}
}

func TestDispatchSelfKillRejected(t *testing.T) {
	schemes := scheme.NewRegistry()
	owner := &task.Task{PID: 1}
	tasks := fakeTasks{tasks: map[pid.PID]*task.Task{1: owner}}
	ctx := CallerContext{PID: 1}

	got := Dispatch(tasks, schemes, nil, ctx, SysKill, Args{A1: 1})
	errno := int64(kerr.EINVAL)
	want := uint64(-errno)
	if got != want {
		t.Fatalf("self-kill = %#x, want %#x", got, want)
	}
}
