package scheme

import (
	"strconv"
	"sync"

	"jon/internal/kerr"
)

// Framebuffer is one entry in the bootloader-reported framebuffer list
// (spec.md §3: "vga | list of framebuffers").
type Framebuffer struct {
	Width, Height  uint32
	BitsPerPixel   uint32
	Pitch          uint32
	Buffer         []byte
}

// FramebufferScheme exposes a list of framebuffers addressed by decimal
// index (spec.md §4.10.1).
type FramebufferScheme struct {
	Unseekable

	mu           sync.Mutex
	framebuffers []*Framebuffer
	handles      map[FDID]int // fd -> framebuffer index
}

// NewFramebufferScheme wraps a list of framebuffers for the vga scheme.
func NewFramebufferScheme(fbs []*Framebuffer) *FramebufferScheme {
	return &FramebufferScheme{framebuffers: fbs, handles: make(map[FDID]int)}
}

func (s *FramebufferScheme) Open(path string, flags OpenFlags, ctx CallerContext) (FDID, error) {
	idx, err := strconv.Atoi(path)
	if err != nil {
		return 0, kerr.ErrUnknownPath
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if idx < 0 || idx >= len(s.framebuffers) {
		return 0, kerr.ErrUnknownPath
	}
	id := NewFDID()
	s.handles[id] = idx
	return id, nil
}

func (s *FramebufferScheme) Read(id FDID, buf []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := s.handles[id]
	if !ok {
		return 0, kerr.ErrBadFD
	}
	fb := s.framebuffers[idx]
	n := copy(buf, fb.Buffer)
	return n, nil
}

func (s *FramebufferScheme) Write(id FDID, buf []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := s.handles[id]
	if !ok {
		return 0, kerr.ErrBadFD
	}
	fb := s.framebuffers[idx]
	n := copy(fb.Buffer, buf)
	return n, nil
}

func (s *FramebufferScheme) Close(id FDID, ctx CallerContext) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.handles[id]; !ok {
		return kerr.ErrBadFD
	}
	delete(s.handles, id)
	return nil
}
