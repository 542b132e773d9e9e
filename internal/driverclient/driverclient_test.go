package driverclient

import (
	"testing"

	"jon/internal/pid"
	"jon/internal/scheme"
	"jon/internal/syscallabi"
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

func newTestClient(t *testing.T) (*Client, fakeTasks) {
	t.Helper()
	schemes := scheme.NewRegistry()
	schemes.Register("pipe", scheme.NewPipeScheme())

	owner := &task.Task{PID: 1, Mem: &task.MemoryDescriptor{}}
	tasks := fakeTasks{tasks: map[pid.PID]*task.Task{1: owner}}

	dispatch := func(ctx syscallabi.CallerContext, num uint64, args syscallabi.Args) uint64 {
		return syscallabi.Dispatch(tasks, schemes, nil, ctx, num, args)
	}
	return New(dispatch, 1, 0), tasks
}

func TestClientOpenWriteRead(t *testing.T) {
	c, _ := newTestClient(t)

	fd, err := c.Open("pipe:q", scheme.OCREAT|scheme.ORDWR)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	n, err := c.Write(fd, []byte("hi"))
	if err != nil || n != 2 {
		t.Fatalf("Write() = %d, %v; want 2, nil", n, err)
	}

	buf := make([]byte, 8)
	n, err = c.Read(fd, buf)
	if err != nil || n != 2 || string(buf[:2]) != "hi" {
		t.Fatalf("Read() = %d, %q, %v; want 2, \"hi\", nil", n, buf[:2], err)
	}
}

func TestClientGetPID(t *testing.T) {
	c, _ := newTestClient(t)
	got, err := c.GetPID()
	if err != nil {
		t.Fatalf("GetPID() error = %v", err)
	}
	if got != 1 {
		t.Fatalf("GetPID() = %d, want 1", got)
	}
}

func TestClientKillSelfRejected(t *testing.T) {
	c, _ := newTestClient(t)
	if err := c.Kill(1); err == nil {
		t.Fatalf("Kill(self) should fail")
	}
}

func TestClientReadUnopenedFDFails(t *testing.T) {
	c, _ := newTestClient(t)
	buf := make([]byte, 8)
	if _, err := c.Read(99, buf); err == nil {
		t.Fatalf("Read() on an unopened fd should fail")
	}
}
