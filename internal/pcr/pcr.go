// Package pcr implements the per-CPU Processor Control Region: the block
// of state each CPU reaches through its GS base in the real kernel
// (spec.md §3 PCR, §4.1).
package pcr

import (
	"sync"

	"jon/internal/pid"
)

// TSS models the subset of the Task State Segment the kernel actually
// uses: the privilege-level-0 stack pointer reloaded on every interrupt
// and context switch (spec.md §4.6: "reload the TSS privilege-stack
// pointer to point at the incoming task's kernel stack").
type TSS struct {
	RSP0 uint64
}

// Selectors are the GDT selector values a PCR hands to newly created
// tasks (spec.md §4.1: "GDT contains kernel and user code/data selectors
// plus a TSS descriptor").
type Selectors struct {
	KernelCode uint64
	KernelData uint64
	UserCode   uint64
	UserData   uint64
	TSS        uint64
}

// PCR is one CPU's control region (spec.md §4.1). GS_BASE/KERNEL_GS_BASE
// are not modeled since this is a host process simulation; the PCR
// pointer stands in for "per-CPU storage reached via an implicit base"
// per spec.md §9's substitution guidance.
type PCR struct {
	ID     uint32
	APICID uint32

	Selectors Selectors
	TSS       TSS

	mu        sync.Mutex
	readyQueue []pid.PID
	currentPID pid.PID
	idlePID    pid.PID
}

// NewPCR constructs an empty PCR for the given CPU index and APIC id.
func NewPCR(id, apicID uint32, sel Selectors) *PCR {
	return &PCR{ID: id, APICID: apicID, Selectors: sel}
}

// CurrentPID returns the PID currently running on this CPU.
func (p *PCR) CurrentPID() pid.PID {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.currentPID
}

// SetCurrentPID updates the PID running on this CPU.
func (p *PCR) SetCurrentPID(id pid.PID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.currentPID = id
}

// IdlePID returns this CPU's idle task PID.
func (p *PCR) IdlePID() pid.PID {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.idlePID
}

// SetIdlePID records this CPU's idle task PID.
func (p *PCR) SetIdlePID(id pid.PID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.idlePID = id
}

// Enqueue pushes a PID to the back of this CPU's ready queue (spec.md §3:
// "per-CPU ready queue of PIDs").
func (p *PCR) Enqueue(id pid.PID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.readyQueue = append(p.readyQueue, id)
}

// Dequeue pops the front of this CPU's ready queue.
func (p *PCR) Dequeue() (pid.PID, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.readyQueue) == 0 {
		return 0, false
	}
	id := p.readyQueue[0]
	p.readyQueue = p.readyQueue[1:]
	return id, true
}

// Remove drops id from this CPU's ready queue wherever it appears.
func (p *PCR) Remove(id pid.PID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := p.readyQueue[:0]
	for _, q := range p.readyQueue {
		if q != id {
			out = append(out, q)
		}
	}
	p.readyQueue = out
}

// ReadyLen reports the current ready-queue depth, for scheduler fairness
// tests and diagnostics.
func (p *PCR) ReadyLen() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.readyQueue)
}

// Registry holds every CPU's PCR (spec.md §4.1: "BSP and AP entry paths").
type Registry struct {
	cpus []*PCR
}

// NewRegistry builds a registry with n CPUs, each given selectors sel.
func NewRegistry(n int, sel Selectors) *Registry {
	r := &Registry{cpus: make([]*PCR, n)}
	for i := 0; i < n; i++ {
		r.cpus[i] = NewPCR(uint32(i), uint32(i), sel)
	}
	return r
}

// Get returns the PCR for the given CPU index.
func (r *Registry) Get(cpu uint32) *PCR {
	if int(cpu) >= len(r.cpus) {
		return nil
	}
	return r.cpus[cpu]
}

// All returns every PCR, BSP (cpu 0) first.
func (r *Registry) All() []*PCR {
	return r.cpus
}

// Len reports how many CPUs are registered.
func (r *Registry) Len() int { return len(r.cpus) }
