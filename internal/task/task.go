package task

import (
	"jon/internal/memory"
	"jon/internal/pid"
	"jon/internal/scheme"
)

// Stack sizes and per-PID stride for the simulated user/kernel stack
// ranges (spec.md §3 Stacks: "contiguous virtual ranges... per-task user
// and kernel stacks"; §4.5 "per-PID stride within reserved ranges").
const (
	UserStackSize   = 64 * memory.PageSize
	KernelStackSize = 16 * memory.PageSize

	UserStackBase   memory.VirtualAddress = 0x0000_6000_0000_0000
	KernelStackBase memory.VirtualAddress = 0xFFFF_9000_0000_0000

	stackStride = UserStackSize + KernelStackSize
)

// StackRange is a task's stack bounds: [Base, Top).
type StackRange struct {
	Base memory.VirtualAddress
	Top  memory.VirtualAddress
}

// UserStackFor and KernelStackFor compute the non-aliasing stack range
// for the given PID (spec.md §4.5: "their addresses must never alias
// those of another live task").
func UserStackFor(p pid.PID) StackRange {
	base := UserStackBase + memory.VirtualAddress(uint64(p)*stackStride)
	return StackRange{Base: base, Top: base + UserStackSize}
}

func KernelStackFor(p pid.PID) StackRange {
	base := KernelStackBase + memory.VirtualAddress(uint64(p)*stackStride)
	return StackRange{Base: base, Top: base + KernelStackSize}
}

// Task is a schedulable unit of execution (spec.md §3 Task, §4.6).
type Task struct {
	PID      pid.PID
	Parent   pid.PID // 0 if none
	Name     string
	State    State
	Priority Priority
	Quantum  int

	Registers Registers

	UserStack   StackRange
	KernelStack StackRange

	Mem *MemoryDescriptor

	FDs []*scheme.FileDescriptor

	// Affinity pins the task to a CPU; nil means "the CPU that last
	// received it" (spec.md §4.5 "add_task(task, cpu_affinity)").
	Affinity *uint32
}

// AddFD appends a newly opened descriptor (spec.md §3: "fds are owned
// solely by the task"; descriptor ids themselves come from
// scheme.NewFDID, which is the kernel-wide allocator spec.md's
// FileDescriptorId names).
func (t *Task) AddFD(fd *scheme.FileDescriptor) {
	t.FDs = append(t.FDs, fd)
}

// RemoveFD drops the descriptor with the given id, if present.
func (t *Task) RemoveFD(id scheme.FDID) (*scheme.FileDescriptor, bool) {
	for i, fd := range t.FDs {
		if fd.ID == id {
			t.FDs = append(t.FDs[:i], t.FDs[i+1:]...)
			return fd, true
		}
	}
	return nil, false
}

// FindFD looks up an open descriptor by id.
func (t *Task) FindFD(id scheme.FDID) (*scheme.FileDescriptor, bool) {
	for _, fd := range t.FDs {
		if fd.ID == id {
			return fd, true
		}
	}
	return nil, false
}
