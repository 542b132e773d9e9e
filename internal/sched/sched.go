// Package sched implements the priority round-robin scheduler (spec.md
// §3 Scheduler, §4.2; grounded on original_source's sched/scheduler.rs).
package sched

import (
	"sync"

	"jon/internal/kerr"
	"jon/internal/pcr"
	"jon/internal/pid"
	"jon/internal/task"
)

// Quantum tuning (spec.md §4.2: "base 8, bonus 24, penalty 6").
const (
	QuantumBase  = 8
	HighBonus    = 24
	LowPenalty   = 6
)

// QuantumLimit returns the tick count a task of the given priority may run
// before the scheduler forces a switch.
func QuantumLimit(p task.Priority) int {
	switch p {
	case task.High:
		return QuantumBase + HighBonus
	case task.Low:
		return QuantumBase - LowPenalty
	default:
		return QuantumBase
	}
}

// ContextSwitch is invoked by Tick whenever the running task on a CPU
// changes. Tests replace it to observe switches without a real register
// restore (spec.md §4.6 "Context switch contract").
var ContextSwitch = func(cpu uint32, from, to *task.Task) {}

// Scheduler owns the kernel-wide task table, the blocked queue, and the
// per-CPU PCR registry (spec.md §5: "task table ... behind a reader-writer
// lock").
type Scheduler struct {
	mu     sync.RWMutex
	tasks  map[pid.PID]*task.Task
	blocked map[pid.PID]struct{}

	pcrs *pcr.Registry
}

// New builds a scheduler over the given PCR registry.
func New(pcrs *pcr.Registry) *Scheduler {
	return &Scheduler{
		tasks:   make(map[pid.PID]*task.Task),
		blocked: make(map[pid.PID]struct{}),
		pcrs:    pcrs,
	}
}

// AddTask registers t and enqueues it on the given CPU's ready queue
// (spec.md §4.5: "add_task(task, cpu_affinity) enqueues on the specified
// CPU's ready queue or the caller's").
func (s *Scheduler) AddTask(t *task.Task, cpu uint32) {
	s.mu.Lock()
	s.tasks[t.PID] = t
	s.mu.Unlock()

	p := s.pcrs.Get(cpu)
	if p != nil {
		p.Enqueue(t.PID)
	}
}

// RemoveTask marks t Stopped and removes it from every CPU's ready queue
// and the blocked queue, clearing current-PID wherever it matches (spec.md
// §4.5: "does not drop the task immediately").
func (s *Scheduler) RemoveTask(id pid.PID) bool {
	for _, p := range s.pcrs.All() {
		p.Remove(id)
		if p.CurrentPID() == id {
			p.SetCurrentPID(0)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blocked, id)
	t, ok := s.tasks[id]
	if !ok {
		return false
	}
	t.State = task.Stopped
	return true
}

// BlockTask moves a task to the blocked queue (spec.md §4.5: "moves a
// task to the blocked queue and, if it was current, yields" — yielding is
// the caller's responsibility via Tick).
func (s *Scheduler) BlockTask(id pid.PID) error {
	for _, p := range s.pcrs.All() {
		p.Remove(id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok {
		return kerr.ErrTaskNotFound
	}
	t.State = task.Blocked
	s.blocked[id] = struct{}{}
	return nil
}

// UnblockTask puts a blocked task back on the given CPU's ready queue.
func (s *Scheduler) UnblockTask(id pid.PID, cpu uint32) error {
	s.mu.Lock()
	t, ok := s.tasks[id]
	if !ok {
		s.mu.Unlock()
		return kerr.ErrTaskNotFound
	}
	delete(s.blocked, id)
	t.State = task.Waiting
	s.mu.Unlock()

	p := s.pcrs.Get(cpu)
	if p != nil {
		p.Enqueue(id)
	}
	return nil
}

// Get returns the task with the given PID.
func (s *Scheduler) Get(id pid.PID) (*task.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tasks[id]
	return t, ok
}

// Snapshot returns every registered task, for the proc scheme (spec.md
// §4.10.5).
func (s *Scheduler) Snapshot() []*task.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*task.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		out = append(out, t)
	}
	return out
}

// Tick runs one scheduling decision for the given CPU (spec.md §4.2).
//
// If the CPU is idle with an empty ready queue, the idle task takes over.
// Otherwise the current task's quantum is incremented; once it reaches its
// priority's limit, the task is reset and requeued (if still Running) and
// the next ready task, if any, takes over.
func (s *Scheduler) Tick(cpu uint32) {
	p := s.pcrs.Get(cpu)
	if p == nil {
		return
	}

	current := p.CurrentPID()
	if current == 0 {
		next, ok := p.Dequeue()
		if !ok {
			next = p.IdlePID()
		}
		s.switchTo(p, 0, next)
		return
	}

	s.mu.Lock()
	curTask, ok := s.tasks[current]
	if !ok {
		s.mu.Unlock()
		return
	}
	curTask.Quantum++
	limit := QuantumLimit(curTask.Priority)
	if curTask.Quantum < limit {
		s.mu.Unlock()
		return
	}
	curTask.Quantum = 0
	stillRunning := curTask.State == task.Running
	s.mu.Unlock()

	if stillRunning {
		p.Enqueue(current)
	}

	next, ok := p.Dequeue()
	if !ok {
		return
	}
	s.switchTo(p, current, next)
}

func (s *Scheduler) switchTo(p *pcr.PCR, from, to pid.PID) {
	s.mu.Lock()
	var fromTask, toTask *task.Task
	if from != 0 {
		if t, ok := s.tasks[from]; ok {
			t.State = task.Waiting
			t.Quantum = 0
			fromTask = t
		}
	}
	if t, ok := s.tasks[to]; ok {
		t.State = task.Running
		toTask = t
	}
	s.mu.Unlock()

	p.SetCurrentPID(to)
	ContextSwitch(p.ID, fromTask, toTask)
}
