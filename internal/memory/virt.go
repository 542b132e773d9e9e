package memory

import (
	"sync"

	"jon/internal/kerr"
)

type pte struct {
	target PhysicalAddress
	flags  PageFlags
}

// FlushTLB is called after every successful Map/Unmap with the affected
// virtual address, standing in for the real invlpg instruction (spec.md
// §4.3: "Every successful change flushes the corresponding TLB entry").
// Tests may replace it to count/assert invocations.
var FlushTLB = func(VirtualAddress) {}

// AddressSpace is an offset-mapped view of one simulated page table
// (spec.md §4.3). A single instance models "a single address space for
// now" (spec.md §5).
type AddressSpace struct {
	mu      sync.RWMutex
	entries map[VirtualAddress]pte
}

// NewAddressSpace creates an empty address space.
func NewAddressSpace() *AddressSpace {
	return &AddressSpace{entries: make(map[VirtualAddress]pte)}
}

// Map creates a mapping from va to pa with the given flags.
func (a *AddressSpace) Map(va VirtualAddress, pa PhysicalAddress, flags PageFlags) error {
	if !va.IsPageAligned() || !pa.IsPageAligned() || !va.IsCanonical() {
		return kerr.ErrInvalidAddress
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.entries[va]; ok {
		return kerr.ErrAlreadyMapped
	}
	a.entries[va] = pte{target: pa, flags: flags}
	FlushTLB(va)
	return nil
}

// Unmap removes the mapping at va.
func (a *AddressSpace) Unmap(va VirtualAddress) error {
	if !va.IsCanonical() {
		return kerr.ErrInvalidAddress
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.entries[va]; !ok {
		return kerr.ErrNotMapped
	}
	delete(a.entries, va)
	FlushTLB(va)
	return nil
}

// MapRange maps size bytes starting at va to pa in page-sized strides.
//
// This is atomic only per page: if a later page in the range fails to map,
// earlier pages in this call remain mapped. This mirrors spec.md §4.3's
// documented partial-failure behavior for map_range and is intentional —
// callers that need all-or-nothing semantics must Unmap the prefix
// themselves on error.
func (a *AddressSpace) MapRange(va VirtualAddress, pa PhysicalAddress, size uintptr, flags PageFlags) error {
	pages := (size + PageSize - 1) / PageSize
	for i := uintptr(0); i < pages; i++ {
		off := i * PageSize
		if err := a.Map(va.Offset(off), pa.Offset(off), flags); err != nil {
			return err
		}
	}
	return nil
}

// Translate returns the physical address and effective flags backing va.
func (a *AddressSpace) Translate(va VirtualAddress) (PhysicalAddress, PageFlags, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	page := va.AlignDown()
	e, ok := a.entries[page]
	if !ok {
		return 0, 0, kerr.ErrNotMapped
	}
	off := uintptr(va) - uintptr(page)
	return e.target.Offset(off), e.flags, nil
}

// IsMapped reports whether va's containing page is mapped.
func (a *AddressSpace) IsMapped(va VirtualAddress) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	_, ok := a.entries[va.AlignDown()]
	return ok
}
