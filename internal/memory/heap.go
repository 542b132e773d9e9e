package memory

import (
	"sync"

	"jon/internal/kerr"
)

// HeapBase and HeapSize are the fixed virtual range the kernel heap is
// initialized over, matching the original's HEAP_START/HEAP_SIZE constants
// (spec.md §4.4: "a fixed virtual range (10 MiB starting at a configured
// base)").
const (
	HeapBase = VirtualAddress(0x_4444_4444_0000)
	HeapSize = 10 * 1024 * 1024
)

// maxOrder bounds block sizes to 2^maxOrder bytes.
const maxOrder = 32

// BuddyAllocator is a buddy-system allocator over a fixed virtual range,
// backed by frames mapped WRITABLE|PRESENT at Init time (spec.md §4.4).
// Allocation after Init is wait-free at the allocator level; concurrent
// callers serialize on its single lock.
type BuddyAllocator struct {
	mu        sync.Mutex
	base      VirtualAddress
	size      uintptr
	freeLists [maxOrder + 1][]VirtualAddress
	allocated map[VirtualAddress]int // addr -> order, for Free
}

// NewBuddyAllocator constructs an uninitialized allocator; call Init before
// use.
func NewBuddyAllocator() *BuddyAllocator {
	return &BuddyAllocator{allocated: make(map[VirtualAddress]int)}
}

func order(size uintptr) int {
	o := 0
	blk := uintptr(1)
	for blk < size {
		blk <<= 1
		o++
	}
	return o
}

// Init initializes the allocator over [base, base+size). The caller must
// have already mapped that whole range WRITABLE|PRESENT via an
// AddressSpace and a FrameAllocator before calling Init.
func (b *BuddyAllocator) Init(base VirtualAddress, size uintptr) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.base = base
	b.size = size
	for i := range b.freeLists {
		b.freeLists[i] = nil
	}

	// Decompose [base, base+size) into maximal power-of-two aligned blocks.
	offset := uintptr(0)
	for offset < size {
		remaining := size - offset
		addr := uintptr(base) + offset
		o := order(remaining + 1)
		for o > 0 && (uintptr(1)<<o) > remaining {
			o--
		}
		for o > 0 && addr%(uintptr(1)<<o) != 0 {
			o--
		}
		blockSize := uintptr(1) << o
		b.freeLists[o] = append(b.freeLists[o], VirtualAddress(addr))
		offset += blockSize
	}
}

// Alloc returns a block of at least size bytes, aligned to align (which
// must be a power of two no greater than size's rounded-up order).
func (b *BuddyAllocator) Alloc(size, align uintptr) (VirtualAddress, error) {
	if size == 0 {
		size = 1
	}
	need := order(size)
	if a := order(align); a > need {
		need = a
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	o := need
	for o <= maxOrder && len(b.freeLists[o]) == 0 {
		o++
	}
	if o > maxOrder {
		return 0, kerr.ErrOutOfMemory
	}

	// Pop a block of order o and split down to `need`.
	list := b.freeLists[o]
	addr := list[len(list)-1]
	b.freeLists[o] = list[:len(list)-1]

	for o > need {
		o--
		buddy := VirtualAddress(uintptr(addr) + (uintptr(1) << o))
		b.freeLists[o] = append(b.freeLists[o], buddy)
	}

	b.allocated[addr] = need
	return addr, nil
}

// Free releases a block previously returned by Alloc.
func (b *BuddyAllocator) Free(addr VirtualAddress, size uintptr) {
	b.mu.Lock()
	defer b.mu.Unlock()

	o, ok := b.allocated[addr]
	if !ok {
		return
	}
	delete(b.allocated, addr)

	// Attempt buddy coalescing up through maxOrder.
	for o < maxOrder {
		buddyAddr := uintptr(addr) ^ (uintptr(1) << o)
		list := b.freeLists[o]
		idx := -1
		for i, a := range list {
			if uintptr(a) == buddyAddr {
				idx = i
				break
			}
		}
		if idx < 0 {
			break
		}
		list[idx] = list[len(list)-1]
		b.freeLists[o] = list[:len(list)-1]
		if buddyAddr < uintptr(addr) {
			addr = VirtualAddress(buddyAddr)
		}
		o++
	}
	b.freeLists[o] = append(b.freeLists[o], addr)
}
