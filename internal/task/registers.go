package task

// Registers is a task's saved register image, restored on every context
// switch back into user mode (spec.md §4.6 "saved register image";
// grounded on original_source's arch/x86/structures.rs Registers/Scratch/
// Preserved/Iret split — kept as three logical groups rather than one flat
// struct so a reimplementation mirrors exactly what a real iret frame
// contains).
type Registers struct {
	Scratch
	Preserved
	Iret
}

// Scratch holds caller-saved registers clobbered across a syscall.
type Scratch struct {
	R11, R10, R9, R8       uint64
	RSI, RDI, RDX, RCX, RAX uint64
}

// Preserved holds callee-saved registers.
type Preserved struct {
	R15, R14, R13, R12 uint64
	RBP, RBX           uint64
}

// Iret holds the frame the CPU pops on return to user mode.
type Iret struct {
	RIP    uint64
	CS     uint64
	RFlags uint64
	RSP    uint64
	SS     uint64
}

// Interrupt-enable bit in RFLAGS (spec.md §4.6: "rflags = IF").
const flagsInterruptEnable = 1 << 9

// NewRegisters builds the initial register image for a freshly loaded
// task: interrupts enabled, user code/data selectors, entry point and
// top-of-stack from the loader (spec.md §4.6).
func NewRegisters(userCodeSelector, userDataSelector, entry, stackTop uint64) Registers {
	return Registers{
		Iret: Iret{
			RIP:    entry,
			CS:     userCodeSelector,
			RFlags: flagsInterruptEnable,
			RSP:    stackTop,
			SS:     userDataSelector,
		},
	}
}
