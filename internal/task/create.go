package task

import (
	"jon/internal/elfload"
	"jon/internal/memory"
	"jon/internal/pid"
)

// Selectors are the GDT selector values placed into a fresh task's Iret
// frame (spec.md §4.1: "GDT contains kernel and user code/data selectors").
type Selectors struct {
	UserCode uint64
	UserData uint64
}

// New allocates a PID, carves out non-aliasing user/kernel stacks, loads
// binary via the ELF loader, and returns a Task in its initial Waiting
// state (spec.md §4.5).
func New(name string, parent pid.PID, priority Priority, sel Selectors, fa *memory.FrameAllocator, ram *memory.RAM, vm *memory.AddressSpace, loadBase memory.VirtualAddress, binary []byte) (*Task, error) {
	id := pid.New()

	userStack := UserStackFor(id)
	kernelStack := KernelStackFor(id)

	result, err := elfload.Load(fa, ram, vm, loadBase, binary)
	if err != nil {
		return nil, err
	}

	mem := &MemoryDescriptor{
		StartStack: userStack.Base,
		Stack:      userStack.Top,
	}
	for _, seg := range result.Segments {
		mem.AddArea(VMA{
			Start: seg.Start,
			End:   seg.End,
			Flags: seg.Flags,
			Type:  areaTypeOf(seg),
		})
	}
	mem.AddArea(VMA{Start: userStack.Base, End: userStack.Top, Flags: memory.Present | memory.Writable | memory.User, Type: AreaStack})
	if len(mem.Areas) > 0 {
		mem.StartBrk = mem.Areas[len(mem.Areas)-1].End
		mem.Brk = mem.StartBrk
	}

	regs := NewRegisters(sel.UserCode, sel.UserData, uint64(result.Entry), uint64(userStack.Top))

	return &Task{
		PID:         id,
		Parent:      parent,
		Name:        name,
		State:       Waiting,
		Priority:    priority,
		Registers:   regs,
		UserStack:   userStack,
		KernelStack: kernelStack,
		Mem:         mem,
	}, nil
}

// areaTypeOf mirrors original_source's elf.rs classification: an
// executable segment is Text, else a writable one is Data, else Heap.
func areaTypeOf(seg elfload.Segment) AreaType {
	switch {
	case seg.Executable:
		return AreaText
	case seg.Writable:
		return AreaData
	default:
		return AreaHeap
	}
}
