package sched

import (
	"testing"

	"jon/internal/pcr"
	"jon/internal/pid"
	"jon/internal/task"
)

func newTestScheduler(t *testing.T) (*Scheduler, *pcr.Registry) {
	t.Helper()
	pcrs := pcr.NewRegistry(1, pcr.Selectors{})
	return New(pcrs), pcrs
}

func TestTickIdlesWithEmptyQueue(t *testing.T) {
	s, pcrs := newTestScheduler(t)
	idle := &task.Task{PID: pid.New(), Name: "idle", State: task.Waiting}
	s.AddTask(idle, 0)
	pcrs.Get(0).SetIdlePID(idle.PID)
	pcrs.Get(0).Dequeue() // simulate idle already taken off queue at boot

	s.Tick(0)
	if pcrs.Get(0).CurrentPID() != idle.PID {
		t.Fatalf("current pid = %v, want idle %v", pcrs.Get(0).CurrentPID(), idle.PID)
	}
}

func TestQuantumExpiryRequeues(t *testing.T) {
	s, pcrs := newTestScheduler(t)
	a := &task.Task{PID: pid.New(), Name: "a", Priority: task.Normal, State: task.Waiting}
	b := &task.Task{PID: pid.New(), Name: "b", Priority: task.Normal, State: task.Waiting}
	s.AddTask(a, 0)
	s.AddTask(b, 0)

	s.Tick(0) // a becomes current
	if pcrs.Get(0).CurrentPID() != a.PID {
		t.Fatalf("current = %v, want a", pcrs.Get(0).CurrentPID())
	}

	for i := 0; i < QuantumBase; i++ {
		s.Tick(0)
	}

	if pcrs.Get(0).CurrentPID() != b.PID {
		t.Fatalf("current after quantum expiry = %v, want b", pcrs.Get(0).CurrentPID())
	}
}

func TestFairnessAcrossThreeNormalTasks(t *testing.T) {
	s, _ := newTestScheduler(t)
	names := []string{"a", "b", "c"}
	tasks := make([]*task.Task, len(names))
	for i, n := range names {
		tasks[i] = &task.Task{PID: pid.New(), Name: n, Priority: task.Normal, State: task.Waiting}
		s.AddTask(tasks[i], 0)
	}

	runCounts := make(map[pid.PID]int)
	const ticks = 3000
	for i := 0; i < ticks; i++ {
		s.Tick(0)
		for _, tk := range tasks {
			if tk.State == task.Running {
				runCounts[tk.PID]++
			}
		}
	}

	expected := ticks / len(tasks)
	for _, tk := range tasks {
		got := runCounts[tk.PID]
		diff := got - expected
		if diff < 0 {
			diff = -diff
		}
		if diff > QuantumBase {
			t.Fatalf("task %s ran %d ticks, want within %d of %d", tk.Name, got, QuantumBase, expected)
		}
	}
}

func TestBlockUnblock(t *testing.T) {
	s, _ := newTestScheduler(t)
	a := &task.Task{PID: pid.New(), Name: "a", State: task.Waiting}
	s.AddTask(a, 0)

	if err := s.BlockTask(a.PID); err != nil {
		t.Fatalf("BlockTask: %v", err)
	}
	if a.State != task.Blocked {
		t.Fatalf("state after block = %v, want Blocked", a.State)
	}

	if err := s.UnblockTask(a.PID, 0); err != nil {
		t.Fatalf("UnblockTask: %v", err)
	}
	if a.State != task.Waiting {
		t.Fatalf("state after unblock = %v, want Waiting", a.State)
	}
}

func TestRemoveTaskStopsAndClearsCurrent(t *testing.T) {
	s, pcrs := newTestScheduler(t)
	a := &task.Task{PID: pid.New(), Name: "a", State: task.Waiting}
	s.AddTask(a, 0)
	s.Tick(0)

	if pcrs.Get(0).CurrentPID() != a.PID {
		t.Fatalf("expected a to be current")
	}

	if !s.RemoveTask(a.PID) {
		t.Fatalf("RemoveTask returned false")
	}
	if a.State != task.Stopped {
		t.Fatalf("state after remove = %v, want Stopped", a.State)
	}
	if pcrs.Get(0).CurrentPID() != 0 {
		t.Fatalf("current pid not cleared after remove")
	}
}
