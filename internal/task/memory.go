package task

import "jon/internal/memory"

// AreaType tags the purpose of a virtual memory area (spec.md §3
// MemoryDescriptor).
type AreaType uint8

const (
	AreaText AreaType = iota
	AreaData
	AreaHeap
	AreaStack
)

func (t AreaType) String() string {
	switch t {
	case AreaText:
		return "text"
	case AreaData:
		return "data"
	case AreaHeap:
		return "heap"
	case AreaStack:
		return "stack"
	default:
		return "unknown"
	}
}

// VMA is one virtual memory area owned by a task (spec.md §3
// MemoryDescriptor: "{start, end, flags, type}").
type VMA struct {
	Start memory.VirtualAddress
	End   memory.VirtualAddress
	Flags memory.PageFlags
	Type  AreaType
}

// Contains reports whether addr falls within [Start, End).
func (v VMA) Contains(addr memory.VirtualAddress) bool {
	return addr >= v.Start && addr < v.End
}

// MemoryDescriptor is a task's address-space bookkeeping: the ordered
// region list plus the brk and stack bounds the loader establishes and the
// brk syscall mutates (spec.md §3 MemoryDescriptor, §4.1 "brk syscall").
type MemoryDescriptor struct {
	Areas      []VMA
	StartBrk   memory.VirtualAddress
	Brk        memory.VirtualAddress
	StartStack memory.VirtualAddress
	Stack      memory.VirtualAddress
}

// AddArea appends a new region to the descriptor, keeping it ordered by
// start address to mirror the original "ordered list of VMAs" invariant.
func (m *MemoryDescriptor) AddArea(v VMA) {
	i := 0
	for ; i < len(m.Areas); i++ {
		if m.Areas[i].Start > v.Start {
			break
		}
	}
	m.Areas = append(m.Areas, VMA{})
	copy(m.Areas[i+1:], m.Areas[i:])
	m.Areas[i] = v
}

// FindArea returns the VMA containing addr, if any.
func (m *MemoryDescriptor) FindArea(addr memory.VirtualAddress) (VMA, bool) {
	for _, v := range m.Areas {
		if v.Contains(addr) {
			return v, true
		}
	}
	return VMA{}, false
}
