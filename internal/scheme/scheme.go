// Package scheme implements the kernel's named virtual-file namespaces
// (spec.md §3 Scheme, §4.10) — vga, pipe, serial, ps2, and proc — plus the
// file descriptor and registry plumbing every scheme shares.
package scheme

import (
	"sync"

	"jon/internal/kerr"
	"jon/internal/pid"
)

// CallerContext identifies the task and CPU an operation is performed on
// behalf of.
type CallerContext struct {
	PID pid.PID
	CPU uint32
}

// Scheme is a named namespace of virtual files exposing
// open/read/write/close/lseek (spec.md §3).
type Scheme interface {
	Open(path string, flags OpenFlags, ctx CallerContext) (FDID, error)
	Read(id FDID, buf []byte) (int, error)
	Write(id FDID, buf []byte) (int, error)
	Close(id FDID, ctx CallerContext) error
	Lseek(id FDID, offset int64, whence int) (int64, error)
}

// Unseekable is embeddable by schemes that don't support lseek; it returns
// ENOSYS, matching spec.md's "lseek defaults to 'not supported' ... unless
// overridden".
type Unseekable struct{}

// Lseek always returns ENOSYS.
func (Unseekable) Lseek(FDID, int64, int) (int64, error) {
	return 0, kerr.ErrNotSupported
}

// Registry is the kernel-wide ordered map of scheme name to handler
// (spec.md §3 table; spec.md §5: "read-write lock; readers during
// dispatch, writers only at boot").
type Registry struct {
	mu      sync.RWMutex
	order   []string
	schemes map[string]Scheme
}

// NewRegistry creates an empty scheme registry.
func NewRegistry() *Registry {
	return &Registry{schemes: make(map[string]Scheme)}
}

// Register adds a scheme under name. Intended to be called only during
// boot, before any task can race a reader against it.
func (r *Registry) Register(name string, s Scheme) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.schemes[name]; !exists {
		r.order = append(r.order, name)
	}
	r.schemes[name] = s
}

// Lookup returns the scheme registered under name.
func (r *Registry) Lookup(name string) (Scheme, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.schemes[name]
	return s, ok
}

// Names returns the registered scheme names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}
