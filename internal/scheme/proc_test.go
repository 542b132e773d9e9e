package scheme

import (
	"testing"

	"jon/internal/pid"
)

type fakeLister struct {
	procs []ProcRecord
}

func (f fakeLister) ListProcs() []ProcRecord { return f.procs }

func (f fakeLister) GetProc(p pid.PID) (ProcRecord, bool) {
	for _, r := range f.procs {
		if r.PID == uint64(p) {
			return r, true
		}
	}
	return ProcRecord{}, false
}

func TestProcSchemeListAll(t *testing.T) {
	var name [16]byte
	copy(name[:], "idle")
	lister := fakeLister{procs: []ProcRecord{
		{PID: 1, Name: name, State: 0, Priority: 1},
		{PID: 2, Name: name, State: 1, Priority: 0},
	}}
	s := NewProcScheme(lister)

	id, err := s.Open("", ORDONLY, CallerContext{})
	if err != nil {
		t.Fatalf("Open(\"\") error = %v", err)
	}

	buf := make([]byte, 26*2)
	n, err := s.Read(id, buf)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if n != 52 {
		t.Fatalf("Read() n = %d, want 52 (two 26-byte records)", n)
	}
}

func TestProcSchemeSingleTarget(t *testing.T) {
	var name [16]byte
	copy(name[:], "random")
	lister := fakeLister{procs: []ProcRecord{{PID: 9, Name: name, State: 2, Priority: 2}}}
	s := NewProcScheme(lister)

	id, err := s.Open("9", ORDONLY, CallerContext{})
	if err != nil {
		t.Fatalf("Open(\"9\") error = %v", err)
	}

	buf := make([]byte, 26)
	n, err := s.Read(id, buf)
	if err != nil || n != 26 {
		t.Fatalf("Read() = %d, %v; want 26, nil", n, err)
	}

	if _, err := s.Open("404", ORDONLY, CallerContext{}); err != nil {
		t.Fatalf("Open(\"404\") itself should succeed; the miss surfaces on Read")
	}
}

func TestProcSchemeWriteUnsupported(t *testing.T) {
	s := NewProcScheme(fakeLister{})
	id, _ := s.Open("", ORDONLY, CallerContext{})
	if _, err := s.Write(id, []byte("x")); err == nil {
		t.Fatalf("Write() should be unsupported on the proc scheme")
	}
}
