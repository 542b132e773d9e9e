package scheme

import (
	"sync"

	"jon/internal/kerr"
)

// ByteSource supplies PS/2 scancodes from the host. ReadByte blocks or
// returns an error per the implementation's choice; the ps2host bridge
// backs this with a real host input device (spec.md §4.10.4, ambient: the
// real controller init sequence is out of scope for a host simulation, so
// only the open/read/write/close contract is modeled).
type ByteSource interface {
	ReadByte() (byte, error)
}

// Ps2Scheme exposes a single-byte-at-a-time keyboard scancode stream.
// Writes are always rejected, matching the original controller scheme
// (grounded on original_source's ps2.rs: write returns EINVAL).
type Ps2Scheme struct {
	Unseekable

	Source ByteSource

	mu  sync.Mutex
	fds map[FDID]struct{}
}

// NewPs2Scheme wraps a host byte source as the ps2 scheme.
func NewPs2Scheme(src ByteSource) *Ps2Scheme {
	return &Ps2Scheme{Source: src, fds: make(map[FDID]struct{})}
}

func (s *Ps2Scheme) Open(path string, flags OpenFlags, ctx CallerContext) (FDID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := NewFDID()
	s.fds[id] = struct{}{}
	return id, nil
}

func (s *Ps2Scheme) Read(id FDID, buf []byte) (int, error) {
	s.mu.Lock()
	_, ok := s.fds[id]
	s.mu.Unlock()
	if !ok {
		return 0, kerr.ErrBadFD
	}
	if len(buf) == 0 {
		return 0, nil
	}
	if s.Source == nil {
		return 0, kerr.ErrWouldBlock
	}
	b, err := s.Source.ReadByte()
	if err != nil {
		return 0, kerr.Wrap(err, kerr.EIO, "ps2.read")
	}
	buf[0] = b
	return 1, nil
}

// Write is always rejected; the controller is a read-only scancode stream.
func (s *Ps2Scheme) Write(id FDID, buf []byte) (int, error) {
	return 0, kerr.ErrInvalidOpenFlag
}

func (s *Ps2Scheme) Close(id FDID, ctx CallerContext) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.fds[id]; !ok {
		return kerr.ErrBadFD
	}
	delete(s.fds, id)
	return nil
}
