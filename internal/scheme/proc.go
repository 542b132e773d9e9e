package scheme

import (
	"bytes"
	"encoding/binary"
	"strconv"
	"sync"

	"jon/internal/kerr"
	"jon/internal/pid"
)

// ProcRecord is the fixed-layout snapshot of one task exposed by the proc
// scheme (spec.md §4.10.5; grounded on original_source's `Proc` struct,
// which is read verbatim as raw bytes by the proc userland driver).
type ProcRecord struct {
	PID      uint64
	Name     [16]byte
	State    uint8
	Priority uint8
}

func (r ProcRecord) encode() []byte {
	var buf bytes.Buffer
	_ = binary.Write(&buf, binary.LittleEndian, r)
	return buf.Bytes()
}

// ProcLister supplies task snapshots without the scheme package needing to
// import the task/scheduler packages (which in turn depend on scheme),
// keeping the dependency graph acyclic.
type ProcLister interface {
	ListProcs() []ProcRecord
	GetProc(p pid.PID) (ProcRecord, bool)
}

// ProcScheme exposes the task table as fixed-layout records, one file per
// PID plus an aggregate listing at the empty path (spec.md §4.10.5).
type ProcScheme struct {
	Unseekable

	Lister ProcLister

	mu      sync.Mutex
	targets map[FDID]pid.PID // 0 means "list all"
}

// NewProcScheme wraps a task-table snapshot provider as the proc scheme.
func NewProcScheme(lister ProcLister) *ProcScheme {
	return &ProcScheme{Lister: lister, targets: make(map[FDID]pid.PID)}
}

func (s *ProcScheme) Open(path string, flags OpenFlags, ctx CallerContext) (FDID, error) {
	var target pid.PID
	if path != "" {
		n, err := strconv.ParseUint(path, 10, 64)
		if err != nil {
			return 0, kerr.ErrInvalidOpenFlag
		}
		target = pid.PID(n)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	id := NewFDID()
	s.targets[id] = target
	return id, nil
}

func (s *ProcScheme) Read(id FDID, buf []byte) (int, error) {
	s.mu.Lock()
	target, ok := s.targets[id]
	s.mu.Unlock()
	if !ok {
		return 0, kerr.ErrBadFD
	}

	if target == 0 {
		offset := 0
		for _, rec := range s.Lister.ListProcs() {
			b := rec.encode()
			if offset+len(b) > len(buf) {
				break
			}
			offset += copy(buf[offset:], b)
		}
		return offset, nil
	}

	rec, ok := s.Lister.GetProc(target)
	if !ok {
		return 0, kerr.ErrUnknownPath
	}
	b := rec.encode()
	if len(b) > len(buf) {
		return 0, nil
	}
	return copy(buf, b), nil
}

// Write is unsupported; the proc scheme is read-only.
func (s *ProcScheme) Write(id FDID, buf []byte) (int, error) {
	return 0, kerr.ErrNotSupported
}

func (s *ProcScheme) Close(id FDID, ctx CallerContext) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.targets[id]; !ok {
		return kerr.ErrUnknownPath
	}
	delete(s.targets, id)
	return nil
}
