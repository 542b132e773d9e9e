// Package elfload parses and loads user ELF binaries into a task's
// address space (spec.md §3 ELF Loader, §4.4).
//
// Grounded on original_source's memory/loader/elf.rs, which uses the
// goblin crate; no third-party ELF library appears anywhere in the
// example pack, so this uses the standard library's debug/elf, which
// covers the same PT_LOAD/relocation surface goblin does.
package elfload

import (
	"bytes"
	"debug/elf"
	"encoding/binary"

	"jon/internal/kerr"
	"jon/internal/memory"
)

// Segment is one loaded PT_LOAD region, tagged by the access the program
// header's flags grant (spec.md §4.4: "records a list of virtual memory
// areas tagged {Text, Data, Heap, Stack}").
type Segment struct {
	Start      memory.VirtualAddress
	End        memory.VirtualAddress
	Flags      memory.PageFlags
	Executable bool
	Writable   bool
}

// Result is everything the loader produces for a freshly mapped binary.
type Result struct {
	Segments []Segment
	Entry    memory.VirtualAddress
}

// segmentFlags mirrors the original loader's USER_ACCESSIBLE | PRESENT |
// WRITABLE mapping for every loaded segment (original_source's elf.rs
// load_segment always maps writable, user-accessible pages regardless of
// the ELF segment's own write bit — a simplification this loader keeps).
const segmentFlags = memory.Present | memory.Writable | memory.User

// Load parses binary as an ELF image, maps its PT_LOAD segments into vm
// (backed by frames from fa and byte contents in ram) at the given base
// address, zeroes BSS, and applies R_X86_64_RELATIVE relocations
// (spec.md §4.4).
func Load(fa *memory.FrameAllocator, ram *memory.RAM, vm *memory.AddressSpace, base memory.VirtualAddress, binary []byte) (*Result, error) {
	f, err := elf.NewFile(bytes.NewReader(binary))
	if err != nil {
		return nil, kerr.ErrParse
	}
	defer f.Close()

	result := &Result{}

	for _, prog := range f.Progs {
		if prog.Type != elf.PT_LOAD {
			continue
		}
		seg, err := loadSegment(fa, ram, vm, base, binary, prog)
		if err != nil {
			return nil, err
		}
		result.Segments = append(result.Segments, seg)
	}

	if err := applyRelocations(ram, vm, f, base); err != nil {
		return nil, err
	}

	result.Entry = base.Offset(uintptr(f.Entry))
	return result, nil
}

func loadSegment(fa *memory.FrameAllocator, ram *memory.RAM, vm *memory.AddressSpace, base memory.VirtualAddress, binary []byte, prog *elf.Prog) (Segment, error) {
	if prog.Memsz == 0 {
		return Segment{}, nil
	}
	if prog.Off+prog.Filesz > uint64(len(binary)) {
		return Segment{}, kerr.ErrInvalidInput
	}

	vaddr := memory.VirtualAddress(prog.Vaddr).AlignDown()
	fileOffsetInPage := uintptr(prog.Vaddr) % memory.PageSize
	totalSize := uintptr(prog.Memsz) + fileOffsetInPage
	mappedSize := alignUp(totalSize, memory.PageSize)

	phys, err := fa.AllocateContiguous(mappedSize)
	if err != nil {
		return Segment{}, kerr.ErrMemoryAllocation
	}

	virt := base.Offset(uintptr(vaddr))
	if err := vm.MapRange(virt, phys, mappedSize, segmentFlags); err != nil {
		return Segment{}, kerr.ErrMapping
	}

	destPhys := phys.Offset(fileOffsetInPage)
	if err := ram.WriteAt(destPhys, binary[prog.Off:prog.Off+prog.Filesz]); err != nil {
		return Segment{}, kerr.ErrMapping
	}

	if prog.Memsz > prog.Filesz {
		bssPhys := destPhys.Offset(uintptr(prog.Filesz))
		bssSize := uintptr(prog.Memsz - prog.Filesz)
		if err := ram.ZeroAt(bssPhys, bssSize); err != nil {
			return Segment{}, kerr.ErrMapping
		}
	}

	start := base.Offset(uintptr(prog.Vaddr))
	end := start.Offset(uintptr(prog.Memsz))

	return Segment{
		Start:      start,
		End:        end,
		Flags:      segmentFlags,
		Executable: prog.Flags&elf.PF_X != 0,
		Writable:   prog.Flags&elf.PF_W != 0,
	}, nil
}

// elf64Rela mirrors the on-disk Elf64_Rela layout: r_offset, r_info,
// r_addend, each a little-endian 8-byte field on x86_64.
type elf64Rela struct {
	Offset uint64
	Info   uint64
	Addend int64
}

// applyRelocations walks the ".rela.dyn" section, if present, and applies
// only R_X86_64_RELATIVE entries, rejecting anything else (spec.md §4.4:
// "applies R_*_RELATIVE relocations"; original_source's apply_relocations
// logs and skips unsupported types — this loader treats them as fatal to
// the load instead, since a silently-skipped relocation is a worse
// failure mode for a reimplementation to hide). The standard library's
// debug/elf has no cross-arch relocation decoder, so the section is
// parsed by hand, matching how the original's goblin-based loader exposes
// `elf.dynrelas` as plain structured data.
func applyRelocations(ram *memory.RAM, vm *memory.AddressSpace, f *elf.File, base memory.VirtualAddress) error {
	sec := f.Section(".rela.dyn")
	if sec == nil {
		// No dynamic relocation section is the common case for a
		// statically-linked, non-PIE task binary.
		return nil
	}
	data, err := sec.Data()
	if err != nil {
		return kerr.ErrParse
	}

	const relaSize = 24
	for off := 0; off+relaSize <= len(data); off += relaSize {
		var rela elf64Rela
		rela.Offset = binary.LittleEndian.Uint64(data[off : off+8])
		rela.Info = binary.LittleEndian.Uint64(data[off+8 : off+16])
		rela.Addend = int64(binary.LittleEndian.Uint64(data[off+16 : off+24]))

		switch elf.R_X86_64(rela.Info & 0xffffffff) {
		case elf.R_X86_64_RELATIVE:
			addr := base.Offset(uintptr(rela.Offset))
			value := uint64(base) + uint64(rela.Addend)
			phys, _, err := vm.Translate(addr)
			if err != nil {
				return kerr.ErrMapping
			}
			if err := ram.PutUint64At(phys, value); err != nil {
				return kerr.ErrMapping
			}
		default:
			return kerr.ErrUnsupportedReloc
		}
	}
	return nil
}

func alignUp(v, align uintptr) uintptr {
	return (v + align - 1) &^ (align - 1)
}
