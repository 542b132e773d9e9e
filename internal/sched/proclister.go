package sched

import (
	"jon/internal/pid"
	"jon/internal/scheme"
	"jon/internal/task"
)

// ProcLister adapts Scheduler to scheme.ProcLister, letting the proc
// scheme read task snapshots without scheme importing sched/task (spec.md
// §4.10.5).
type ProcLister struct {
	Sched *Scheduler
}

func toRecord(t *task.Task) scheme.ProcRecord {
	var name [16]byte
	n := copy(name[:], t.Name)
	if n < 16 {
		name[n] = 0
	}
	return scheme.ProcRecord{
		PID:      uint64(t.PID),
		Name:     name,
		State:    uint8(t.State),
		Priority: uint8(t.Priority),
	}
}

// ListProcs returns every task currently in the table.
func (l ProcLister) ListProcs() []scheme.ProcRecord {
	tasks := l.Sched.Snapshot()
	out := make([]scheme.ProcRecord, len(tasks))
	for i, t := range tasks {
		out[i] = toRecord(t)
	}
	return out
}

// GetProc returns the snapshot for a single PID.
func (l ProcLister) GetProc(p pid.PID) (scheme.ProcRecord, bool) {
	t, ok := l.Sched.Get(p)
	if !ok {
		return scheme.ProcRecord{}, false
	}
	return toRecord(t), true
}
