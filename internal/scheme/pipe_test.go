package scheme

import (
	"testing"

	"jon/internal/kerr"
)

func TestPipeRendezvousAndEAGAIN(t *testing.T) {
	ps := NewPipeScheme()

	reader := CallerContext{PID: 7}
	rootFD, err := ps.Open("q", ORDONLY|OCREAT, reader)
	if err != nil {
		t.Fatalf("creating pipe: %v", err)
	}

	writer := CallerContext{PID: 9}
	wFD, err := ps.Open("7/q", OWRONLY, writer)
	if err != nil {
		t.Fatalf("attaching writer: %v", err)
	}

	if _, err := ps.Write(wFD, []byte{1, 2, 3, 4}); err != nil {
		t.Fatalf("write: %v", err)
	}

	buf := make([]byte, 16)
	n, err := ps.Read(rootFD, buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if n != 4 {
		t.Fatalf("read n = %d, want 4", n)
	}
	for i, want := range []byte{1, 2, 3, 4} {
		if buf[i] != want {
			t.Fatalf("buf[%d] = %d, want %d", i, buf[i], want)
		}
	}

	if _, err := ps.Read(rootFD, buf); err != kerr.ErrWouldBlock {
		t.Fatalf("second read err = %v, want EAGAIN", err)
	}
}

func TestPipeCloseRootReclaims(t *testing.T) {
	ps := NewPipeScheme()
	owner := CallerContext{PID: 5}

	rootFD, err := ps.Open("x", OCREAT|ORDWR, owner)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := ps.Close(rootFD, owner); err != nil {
		t.Fatalf("close root: %v", err)
	}

	if _, err := ps.Open("5/x", ORDWR, CallerContext{PID: 1}); err != kerr.ErrUnknownPath {
		t.Fatalf("reopen after root close: err = %v, want ENOENT", err)
	}
}
