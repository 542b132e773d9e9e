// Package interrupt simulates the kernel's exception/IDT dispatch and the
// LAPIC timer vector (spec.md §3 IDT & timer, §4.7).
package interrupt

import (
	"fmt"
	"time"
)

// Vector identifies an interrupt source.
type Vector uint8

const (
	VectorDivideError Vector = iota
	VectorDebug
	VectorBreakpoint
	VectorGeneralProtection
	VectorPageFault
	VectorDoubleFault
	VectorTimer
	VectorLAPICError
	VectorSpurious
)

func (v Vector) String() string {
	switch v {
	case VectorDivideError:
		return "divide-error"
	case VectorDebug:
		return "debug"
	case VectorBreakpoint:
		return "breakpoint"
	case VectorGeneralProtection:
		return "general-protection"
	case VectorPageFault:
		return "page-fault"
	case VectorDoubleFault:
		return "double-fault"
	case VectorTimer:
		return "timer"
	case VectorLAPICError:
		return "lapic-error"
	case VectorSpurious:
		return "spurious"
	default:
		return "unknown"
	}
}

// Frame is the saved context an exception handler receives (spec.md §4.7:
// "records the vector and error code ... page faults additionally log
// CR2").
type Frame struct {
	CPU       uint32
	Vector    Vector
	ErrorCode uint64
	RIP       uint64
	CS        uint64
	RFlags    uint64
	RSP       uint64
	SS        uint64
	CR2       uint64 // valid only for VectorPageFault
}

// PanicHandler is invoked for every fatal exception. Tests replace it to
// observe panics without crashing the test process (spec.md §4.7: "panics
// (printing the saved frame)").
var PanicHandler = func(f Frame) {
	panic(fmt.Sprintf("kernel panic: cpu=%d vector=%s error=%#x rip=%#x cr2=%#x", f.CPU, f.Vector, f.ErrorCode, f.RIP, f.CR2))
}

// fatalVectors are the standard exceptions that always panic (spec.md
// §4.7: "Every standard x86_64 exception installs a handler that ...
// panics").
var fatalVectors = map[Vector]bool{
	VectorDivideError:       true,
	VectorBreakpoint:        true,
	VectorGeneralProtection: true,
	VectorPageFault:         true,
	VectorDoubleFault:       true,
}

// SchedulerTick is called on every timer vector (spec.md §4.7: "timer
// acknowledges EOI and calls the scheduler").
var SchedulerTick = func(cpu uint32) {}

// Controller dispatches interrupt frames to the appropriate handler.
type Controller struct{}

// NewController builds a dispatcher.
func NewController() *Controller { return &Controller{} }

// Dispatch routes f to the handler for its vector.
func (c *Controller) Dispatch(f Frame) {
	switch f.Vector {
	case VectorTimer:
		SchedulerTick(f.CPU)
	case VectorLAPICError, VectorSpurious:
		// Acknowledged and returned; nothing else to do (spec.md §4.7).
	case VectorDebug:
		// Non-fatal; logged by the caller if desired.
	default:
		if fatalVectors[f.Vector] {
			PanicHandler(f)
		}
	}
}

// Timer wraps a ticker that fires VectorTimer frames into a Controller,
// plus a manual Fire for deterministic tests (spec.md §4.7: "LAPIC timer
// at a fixed rate").
type Timer struct {
	Controller *Controller
	CPU        uint32

	ticker *time.Ticker
	stop   chan struct{}
}

// NewTimer builds a timer for the given CPU.
func NewTimer(ctrl *Controller, cpu uint32) *Timer {
	return &Timer{Controller: ctrl, CPU: cpu}
}

// Start begins firing timer interrupts every interval until Stop is
// called.
func (t *Timer) Start(interval time.Duration) {
	t.ticker = time.NewTicker(interval)
	t.stop = make(chan struct{})
	go func() {
		for {
			select {
			case <-t.ticker.C:
				t.Fire()
			case <-t.stop:
				return
			}
		}
	}()
}

// Stop halts the background ticker goroutine, if running.
func (t *Timer) Stop() {
	if t.ticker != nil {
		t.ticker.Stop()
	}
	if t.stop != nil {
		close(t.stop)
	}
}

// Fire dispatches a single timer interrupt synchronously, for tests that
// want deterministic scheduling steps without a real clock.
func (t *Timer) Fire() {
	t.Controller.Dispatch(Frame{CPU: t.CPU, Vector: VectorTimer})
}
