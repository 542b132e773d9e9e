// Package kernel ties together every subsystem and implements the boot
// flow spec.md §2 describes but does not name as its own module.
package kernel

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"jon/internal/driverclient"
	"jon/internal/drivers"
	"jon/internal/elfload"
	"jon/internal/interrupt"
	"jon/internal/kerr"
	"jon/internal/klog"
	"jon/internal/memory"
	"jon/internal/pcr"
	"jon/internal/pid"
	"jon/internal/sched"
	"jon/internal/scheme"
	"jon/internal/syscallabi"
	"jon/internal/task"
)

// Config holds the boot-time parameters a real kernel would get from its
// Limine handoff and arch init (spec.md §2 Boot).
type Config struct {
	CPUs       int
	TickRate   time.Duration
	HeapBase   memory.VirtualAddress
	HeapSize   uintptr
	FrameCount int

	// FBWidth/FBHeight/FBBitsPerPixel describe the one bootloader-reported
	// framebuffer the vga scheme serves at "vga:0" (spec.md §3 "vga | list
	// of framebuffers"; §4.10.1).
	FBWidth        uint32
	FBHeight       uint32
	FBBitsPerPixel uint32
}

// DefaultConfig returns a single-CPU configuration with a modest heap and
// frame pool, enough to run the five builtin drivers.
func DefaultConfig() Config {
	return Config{
		CPUs:           1,
		TickRate:       10 * time.Millisecond,
		HeapBase:       memory.HeapBase,
		HeapSize:       memory.HeapSize,
		FrameCount:     4096,
		FBWidth:        1024,
		FBHeight:       768,
		FBBitsPerPixel: 32,
	}
}

// Kernel owns every subsystem and orchestrates boot and the tick loop.
type Kernel struct {
	cfg Config

	Frames *memory.FrameAllocator
	RAM    *memory.RAM
	VM     *memory.AddressSpace
	Heap   *memory.BuddyAllocator

	PCRs      *pcr.Registry
	Sched     *sched.Scheduler
	Schemes   *scheme.Registry
	Interrupt *interrupt.Controller
	timers    []*interrupt.Timer

	BuiltinDrivers [5]func(context.Context, *driverclient.Client)

	loadCursor memory.VirtualAddress
	log        *slog.Logger

	ps2Source scheme.ByteSource
}

const driverLoadBase memory.VirtualAddress = 0x0000_4000_0000_0000
const driverLoadStride = 0x1000_0000

// New constructs a Kernel from cfg without booting it.
func New(cfg Config) *Kernel {
	k := &Kernel{
		cfg:        cfg,
		Frames:     memory.NewFrameAllocator(uintptr(cfg.FrameCount)),
		RAM:        memory.NewRAM(uintptr(cfg.FrameCount) * memory.PageSize),
		VM:         memory.NewAddressSpace(),
		Heap:       memory.NewBuddyAllocator(),
		Schemes:    scheme.NewRegistry(),
		loadCursor: driverLoadBase,
		log:        klog.Default(),
	}
	k.BuiltinDrivers = [5]func(context.Context, *driverclient.Client){
		drivers.Idle,
		drivers.Reincarnation,
		drivers.Random,
		drivers.RandomEcho,
		drivers.TaskManager,
	}
	return k
}

// Boot runs the spec.md §2 boot flow: logger init (already done by New),
// memory init, one PCR per configured CPU, scheme registration, the five
// builtin driver tasks enqueued, and one timer per CPU created (Run starts
// them).
func (k *Kernel) Boot() error {
	k.log.Info("booting", "cpus", k.cfg.CPUs, "frames", k.cfg.FrameCount)

	k.Frames.Reserve(0, memory.PhysicalAddress(uintptr(k.cfg.FrameCount)*memory.PageSize))
	heapFrames, err := k.Frames.AllocateContiguous(k.cfg.HeapSize)
	if err != nil {
		return fmt.Errorf("boot: allocating heap frames: %w", err)
	}
	if err := k.VM.MapRange(k.cfg.HeapBase, heapFrames, k.cfg.HeapSize, memory.Writable|memory.Present); err != nil {
		return fmt.Errorf("boot: mapping heap: %w", err)
	}
	k.Heap.Init(k.cfg.HeapBase, k.cfg.HeapSize)

	sel := pcr.Selectors{UserCode: 0x1b, UserData: 0x23, KernelCode: 0x08, KernelData: 0x10}
	k.PCRs = pcr.NewRegistry(k.cfg.CPUs, sel)
	k.Sched = sched.New(k.PCRs)
	k.Interrupt = interrupt.NewController()
	interrupt.SchedulerTick = k.Sched.Tick

	k.registerSchemes()

	for i := 0; i < k.cfg.CPUs; i++ {
		cpu := uint32(i)
		idleTask, err := k.spawnBuiltin(cpu, 0)
		if err != nil {
			return fmt.Errorf("boot: spawning idle on cpu %d: %w", cpu, err)
		}
		k.PCRs.Get(cpu).SetIdlePID(idleTask)
	}

	for _, idx := range []int{1, 2, 3, 4} {
		if _, err := k.spawnBuiltin(0, idx); err != nil {
			return fmt.Errorf("boot: spawning driver %d: %w", idx, err)
		}
	}

	k.timers = make([]*interrupt.Timer, k.cfg.CPUs)
	for i := 0; i < k.cfg.CPUs; i++ {
		k.timers[i] = interrupt.NewTimer(k.Interrupt, uint32(i))
	}

	k.log.Info("boot complete")
	return nil
}

func (k *Kernel) registerSchemes() {
	k.Schemes.Register("pipe", scheme.NewPipeScheme())
	k.Schemes.Register("serial", scheme.NewSerialScheme(func(line string) { k.log.Info("serial", "line", line) }))
	k.Schemes.Register("vga", scheme.NewFramebufferScheme([]*scheme.Framebuffer{k.newFramebuffer()}))
	k.Schemes.Register("ps2", scheme.NewPs2Scheme(k.ps2Source))
	k.Schemes.Register("proc", scheme.NewProcScheme(sched.ProcLister{Sched: k.Sched}))
}

// newFramebuffer builds the one framebuffer "vga:0" resolves to, sized per
// cfg (spec.md §4.10.1). Without a real framebuffer here, every open of
// "vga:0" — which is what the taskmgr driver (spec.md §6) needs to render
// its panel — fails with ErrUnknownPath and the driver returns at boot.
func (k *Kernel) newFramebuffer() *scheme.Framebuffer {
	pitch := k.cfg.FBWidth * (k.cfg.FBBitsPerPixel / 8)
	return &scheme.Framebuffer{
		Width:        k.cfg.FBWidth,
		Height:       k.cfg.FBHeight,
		BitsPerPixel: k.cfg.FBBitsPerPixel,
		Pitch:        pitch,
		Buffer:       make([]byte, uintptr(pitch)*uintptr(k.cfg.FBHeight)),
	}
}

// AttachPs2 wires a real host input source into the ps2 scheme. Call
// before Boot; registerSchemes reads ps2Source once during boot.
func (k *Kernel) AttachPs2(src scheme.ByteSource) {
	k.ps2Source = src
}

// driverELF is a degenerate single-segment ELF binary image: the five
// builtin drivers are Go closures, not real compiled binaries (spec.md §1
// scopes driver internals out; see DESIGN.md), so each gets a minimal
// placeholder image just large enough to exercise the loader and produce
// a non-trivial MemoryDescriptor, instead of a hand-rolled zero-segment
// task that bypasses elfload entirely.
var driverELF = buildPlaceholderELF()

// Spawn implements syscallabi.Spawner: index selects a builtin driver by
// its position in BuiltinDrivers (spec.md §4.9 spawn; §6 driver table).
func (k *Kernel) Spawn(ctx syscallabi.CallerContext, index int) (pid.PID, error) {
	return k.spawnBuiltin(ctx.CPU, index)
}

func (k *Kernel) spawnBuiltin(cpu uint32, index int) (pid.PID, error) {
	if index < 0 || index >= len(k.BuiltinDrivers) {
		return 0, fmt.Errorf("spawn: invalid driver index %d: %w", index, kerr.ErrInvalidSpawn)
	}

	base := k.loadCursor
	k.loadCursor += driverLoadStride

	sel := k.PCRs.Get(cpu).Selectors
	t, err := task.New(driverName(index), 0, task.Normal, task.Selectors{UserCode: sel.UserCode, UserData: sel.UserData}, k.Frames, k.RAM, k.VM, base, driverELF)
	if err != nil {
		return 0, err
	}

	k.Sched.AddTask(t, cpu)

	client := driverclient.New(k.dispatcher(), t.PID, cpu)
	go k.BuiltinDrivers[index](context.Background(), client)

	return t.PID, nil
}

func (k *Kernel) dispatcher() driverclient.Dispatcher {
	return func(c syscallabi.CallerContext, num uint64, args syscallabi.Args) uint64 {
		return syscallabi.Dispatch(k.Sched, k.Schemes, k, c, num, args)
	}
}

// OperatorClient returns a driverclient.Client bound to the reserved "no
// task" PID 0 (pid.New never issues it), for host-side callers — the CLI's
// kill command — that need to drive the syscall ABI without being a
// scheduled task themselves. Routing through the ABI, rather than calling
// Scheduler methods directly, ensures operator-issued kills run the same
// descriptor cleanup (closeAllFDs in syscallabi) a task-issued kill would.
func (k *Kernel) OperatorClient() *driverclient.Client {
	return driverclient.New(k.dispatcher(), 0, 0)
}

func driverName(index int) string {
	names := [5]string{"idle", "reincarnation", "random", "random-echo", "taskmgr"}
	if index < 0 || index >= len(names) {
		return "unknown"
	}
	return names[index]
}

// Run drives the timer ticks until ctx is canceled (spec.md §2: "the
// first timer tick pulls a PID off the ready queue").
func (k *Kernel) Run(ctx context.Context) error {
	for _, t := range k.timers {
		t.Start(k.cfg.TickRate)
	}
	defer func() {
		for _, t := range k.timers {
			t.Stop()
		}
	}()

	<-ctx.Done()
	k.log.Info("shutting down")
	return nil
}

func buildPlaceholderELF() []byte {
	return elfload.MinimalStaticImage()
}
