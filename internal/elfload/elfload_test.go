package elfload

import (
	"testing"

	"jon/internal/memory"
)

func newTestSpace(t *testing.T) (*memory.FrameAllocator, *memory.RAM, *memory.AddressSpace) {
	t.Helper()
	const frames = 64
	fa := memory.NewFrameAllocator(frames)
	fa.Reserve(0, memory.PhysicalAddress(frames*memory.PageSize))
	ram := memory.NewRAM(frames * memory.PageSize)
	vm := memory.NewAddressSpace()
	return fa, ram, vm
}

func TestLoadMinimalStaticImageMapsOneSegment(t *testing.T) {
	fa, ram, vm := newTestSpace(t)

	const base memory.VirtualAddress = 0x0000_1000_0000_0000
	result, err := Load(fa, ram, vm, base, MinimalStaticImage())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(result.Segments) != 1 {
		t.Fatalf("len(Segments) = %d, want 1", len(result.Segments))
	}

	seg := result.Segments[0]
	if !seg.Executable {
		t.Fatalf("segment should be executable")
	}
	if seg.End <= seg.Start {
		t.Fatalf("segment End (%d) should be greater than Start (%d)", seg.End, seg.Start)
	}

	if result.Entry != base.Offset(0x1000) {
		t.Fatalf("Entry = %#x, want %#x", result.Entry, base.Offset(0x1000))
	}
}

func TestLoadRejectsGarbageBinary(t *testing.T) {
	fa, ram, vm := newTestSpace(t)
	const base memory.VirtualAddress = 0x0000_1000_0000_0000

	if _, err := Load(fa, ram, vm, base, []byte("not an elf file")); err == nil {
		t.Fatalf("Load() on garbage input should fail")
	}
}
