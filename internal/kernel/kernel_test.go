package kernel

import (
	"context"
	"testing"
	"time"
)

func TestBootSpawnsFiveBuiltinTasks(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CPUs = 1
	k := New(cfg)

	if err := k.Boot(); err != nil {
		t.Fatalf("Boot() error = %v", err)
	}

	tasks := k.Sched.Snapshot()
	if len(tasks) != 5 {
		t.Fatalf("len(Snapshot()) = %d, want 5 (idle + 4 drivers)", len(tasks))
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CPUs = 1
	cfg.TickRate = time.Millisecond
	k := New(cfg)

	if err := k.Boot(); err != nil {
		t.Fatalf("Boot() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- k.Run(ctx) }()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("Run() did not return after context cancellation")
	}
}

func TestSpawnAddsAnotherTask(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CPUs = 1
	k := New(cfg)
	if err := k.Boot(); err != nil {
		t.Fatalf("Boot() error = %v", err)
	}

	before := len(k.Sched.Snapshot())
	if _, err := k.spawnBuiltin(0, 0); err != nil {
		t.Fatalf("spawnBuiltin() error = %v", err)
	}
	after := len(k.Sched.Snapshot())

	if after != before+1 {
		t.Fatalf("task count after spawn = %d, want %d", after, before+1)
	}
}
