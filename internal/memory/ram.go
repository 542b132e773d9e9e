package memory

import (
	"sync"

	"jon/internal/kerr"
)

// RAM is a byte-addressable simulation of physical memory, sized to match
// a FrameAllocator's frame count. The real kernel writes directly through
// the higher-half offset mapping; this host simulation gives the ELF
// loader (spec.md §4.4) something concrete to copy segment bytes into,
// zero BSS in, and apply relocations against.
type RAM struct {
	mu    sync.RWMutex
	bytes []byte
}

// NewRAM allocates a zeroed byte store of size bytes.
func NewRAM(size uintptr) *RAM {
	return &RAM{bytes: make([]byte, size)}
}

// WriteAt copies src into RAM starting at physical address pa.
func (r *RAM) WriteAt(pa PhysicalAddress, src []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if uintptr(pa)+uintptr(len(src)) > uintptr(len(r.bytes)) {
		return kerr.ErrOutOfRange
	}
	copy(r.bytes[pa:], src)
	return nil
}

// ReadAt copies len(dst) bytes starting at pa into dst.
func (r *RAM) ReadAt(pa PhysicalAddress, dst []byte) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if uintptr(pa)+uintptr(len(dst)) > uintptr(len(r.bytes)) {
		return kerr.ErrOutOfRange
	}
	copy(dst, r.bytes[pa:])
	return nil
}

// ZeroAt zeroes n bytes starting at pa, used to clear BSS.
func (r *RAM) ZeroAt(pa PhysicalAddress, n uintptr) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if uintptr(pa)+n > uintptr(len(r.bytes)) {
		return kerr.ErrOutOfRange
	}
	clear(r.bytes[pa : uintptr(pa)+n])
	return nil
}

// PutUint64At writes a little-endian u64 at pa, used for
// R_X86_64_RELATIVE relocations.
func (r *RAM) PutUint64At(pa PhysicalAddress, v uint64) error {
	var buf [8]byte
	for i := range buf {
		buf[i] = byte(v >> (8 * i))
	}
	return r.WriteAt(pa, buf[:])
}
