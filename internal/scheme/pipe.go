package scheme

import (
	"fmt"
	"sync"

	"jon/internal/kerr"
)

// pipe is a bidirectional byte-message queue (spec.md §3 Pipe, §4.10.2).
// The root descriptor is the first one opened; closing it tears down the
// pipe and every descriptor derived from it.
type pipe struct {
	key     string
	root    FDID
	buffer  [][]byte
	readers []FDID
	writers []FDID
}

func (p *pipe) removeFD(id FDID) {
	p.readers = removeFDID(p.readers, id)
	p.writers = removeFDID(p.writers, id)
}

func removeFDID(s []FDID, id FDID) []FDID {
	for i, v := range s {
		if v == id {
			return append(s[:i], s[i+1:]...)
		}
	}
	return s
}

// PipeScheme implements the "pipe" scheme: named FIFOs namespaced by the
// path key the creator used, prefixed with the creator's PID (spec.md
// §4.10.2).
type PipeScheme struct {
	Unseekable

	mu      sync.Mutex
	byKey   map[string]*pipe
	handles map[FDID]*handle
}

type handle struct {
	key   string
	flags OpenFlags
}

// NewPipeScheme creates an empty pipe namespace.
func NewPipeScheme() *PipeScheme {
	return &PipeScheme{
		byKey:   make(map[string]*pipe),
		handles: make(map[FDID]*handle),
	}
}

// Open resolves path to a pipe. O_CREAT means "create if absent, fail if
// present"; the effective key is "<caller pid>/<path>" when creating.
// Without O_CREAT the path is used verbatim and must already name an
// existing pipe (typically "<owner pid>/<path>" as constructed by a peer).
func (s *PipeScheme) Open(path string, flags OpenFlags, ctx CallerContext) (FDID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if flags.Has(OCREAT) {
		key := fmt.Sprintf("%d/%s", ctx.PID, path)
		if _, exists := s.byKey[key]; exists {
			return 0, kerr.ErrPipeExists
		}
		id := NewFDID()
		p := &pipe{key: key, root: id}
		s.byKey[key] = p
		s.attach(p, id, flags)
		s.handles[id] = &handle{key: key, flags: flags}
		return id, nil
	}

	p, ok := s.byKey[path]
	if !ok {
		return 0, kerr.ErrUnknownPath
	}
	id := NewFDID()
	s.attach(p, id, flags)
	s.handles[id] = &handle{key: path, flags: flags}
	return id, nil
}

func (s *PipeScheme) attach(p *pipe, id FDID, flags OpenFlags) {
	if flags.Writable() {
		p.writers = append(p.writers, id)
	} else {
		p.readers = append(p.readers, id)
	}
}

// Read pops the front message. An empty pipe returns EAGAIN (spec.md
// §4.10.2, §8 errno table).
func (s *PipeScheme) Read(id FDID, buf []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, ok := s.handles[id]
	if !ok {
		return 0, kerr.ErrBadFD
	}
	p, ok := s.byKey[h.key]
	if !ok {
		return 0, kerr.ErrBadFD
	}
	if len(p.buffer) == 0 {
		return 0, kerr.ErrWouldBlock
	}
	msg := p.buffer[0]
	p.buffer = p.buffer[1:]
	n := copy(buf, msg)
	return n, nil
}

// Write pushes a copy of buf as a single message (spec.md §4.10.2: "no
// partial merges").
func (s *PipeScheme) Write(id FDID, buf []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, ok := s.handles[id]
	if !ok {
		return 0, kerr.ErrBadFD
	}
	p, ok := s.byKey[h.key]
	if !ok {
		return 0, kerr.ErrBadFD
	}
	msg := make([]byte, len(buf))
	copy(msg, buf)
	p.buffer = append(p.buffer, msg)
	return len(buf), nil
}

// Close detaches the descriptor. Closing the root descriptor force-closes
// every other descriptor derived from it and unbinds the name.
func (s *PipeScheme) Close(id FDID, ctx CallerContext) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, ok := s.handles[id]
	if !ok {
		return kerr.ErrBadFD
	}
	p, ok := s.byKey[h.key]
	if !ok {
		delete(s.handles, id)
		return nil
	}

	if id == p.root {
		for _, fd := range append(append([]FDID{}, p.readers...), p.writers...) {
			delete(s.handles, fd)
		}
		delete(s.handles, id)
		delete(s.byKey, h.key)
		return nil
	}

	p.removeFD(id)
	delete(s.handles, id)
	return nil
}
