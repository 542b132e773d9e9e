package task

import (
	"jon/internal/scheme"
	"testing"
)

func TestAddRemoveFD(t *testing.T) {
	tk := &Task{PID: 1}
	fd := &scheme.FileDescriptor{ID: 42, Scheme: "pipe"}
	tk.AddFD(fd)

	if got, ok := tk.FindFD(42); !ok || got != fd {
		t.Fatalf("FindFD(42) = %v, %v; want %v, true", got, ok, fd)
	}

	removed, ok := tk.RemoveFD(42)
	if !ok || removed != fd {
		t.Fatalf("RemoveFD(42) = %v, %v; want %v, true", removed, ok, fd)
	}
	if _, ok := tk.FindFD(42); ok {
		t.Fatalf("FindFD(42) found after removal")
	}
}

func TestStackRangesDoNotAlias(t *testing.T) {
	a := UserStackFor(1)
	b := UserStackFor(2)
	if a.Top > b.Base {
		t.Fatalf("stack ranges alias: pid1 top %v > pid2 base %v", a.Top, b.Base)
	}
}

func TestMemoryDescriptorAddAreaOrdered(t *testing.T) {
	m := &MemoryDescriptor{}
	m.AddArea(VMA{Start: 0x2000, End: 0x3000, Type: AreaData})
	m.AddArea(VMA{Start: 0x1000, End: 0x2000, Type: AreaText})

	if m.Areas[0].Type != AreaText || m.Areas[1].Type != AreaData {
		t.Fatalf("areas not ordered by start: %+v", m.Areas)
	}

	v, ok := m.FindArea(0x1500)
	if !ok || v.Type != AreaText {
		t.Fatalf("FindArea(0x1500) = %+v, %v", v, ok)
	}
}
