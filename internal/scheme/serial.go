package scheme

import (
	"sync"

	"jon/internal/kerr"
)

// SerialScheme writes bytes to the kernel's log sink and never supports
// reads (spec.md §4.10; grounded on original_source's serial scheme, which
// forwards writes to the kernel logger and returns ENOSYS from read).
type SerialScheme struct {
	Unseekable

	Sink func(line string)

	mu    sync.Mutex
	fds   map[FDID]struct{}
}

// NewSerialScheme wraps a sink function invoked once per write with the
// written bytes decoded as a string.
func NewSerialScheme(sink func(line string)) *SerialScheme {
	return &SerialScheme{Sink: sink, fds: make(map[FDID]struct{})}
}

func (s *SerialScheme) Open(path string, flags OpenFlags, ctx CallerContext) (FDID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := NewFDID()
	s.fds[id] = struct{}{}
	return id, nil
}

// Read is unsupported; serial is write-only from the task's perspective.
func (s *SerialScheme) Read(id FDID, buf []byte) (int, error) {
	return 0, kerr.ErrNotSupported
}

func (s *SerialScheme) Write(id FDID, buf []byte) (int, error) {
	s.mu.Lock()
	_, ok := s.fds[id]
	s.mu.Unlock()
	if !ok {
		return 0, kerr.ErrBadFD
	}
	if s.Sink != nil {
		s.Sink(string(buf))
	}
	return len(buf), nil
}

func (s *SerialScheme) Close(id FDID, ctx CallerContext) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.fds[id]; !ok {
		return kerr.ErrBadFD
	}
	delete(s.fds, id)
	return nil
}
