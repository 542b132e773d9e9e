package elfload

import (
	"bytes"
	"encoding/binary"
)

// MinimalStaticImage builds a tiny, valid, statically-linked ELF64
// executable: one PT_LOAD segment, no dynamic section, a few bytes of
// "code" followed by a BSS tail. It exists because the kernel's five
// builtin drivers (spec.md §6) are Go closures rather than real compiled
// binaries (spec.md §1 explicitly scopes driver internals out), but
// task.New always goes through the real ELF loader — this gives that path
// a genuine image to parse instead of special-casing builtin tasks around
// elfload entirely.
func MinimalStaticImage() []byte {
	const (
		ehdrSize = 64
		phdrSize = 56
		codeSize = 16
		bssSize  = 4096
		vaddr    = 0x1000
	)

	var buf bytes.Buffer

	ident := [16]byte{0x7f, 'E', 'L', 'F', 2 /* ELFCLASS64 */, 1 /* ELFDATA2LSB */, 1 /* EV_CURRENT */, 0}
	buf.Write(ident[:])

	write16 := func(v uint16) { binary.Write(&buf, binary.LittleEndian, v) }
	write32 := func(v uint32) { binary.Write(&buf, binary.LittleEndian, v) }
	write64 := func(v uint64) { binary.Write(&buf, binary.LittleEndian, v) }

	write16(2)              // e_type = ET_EXEC
	write16(62)              // e_machine = EM_X86_64
	write32(1)               // e_version
	write64(uint64(vaddr))   // e_entry
	write64(uint64(ehdrSize)) // e_phoff
	write64(0)               // e_shoff
	write32(0)                // e_flags
	write16(ehdrSize)          // e_ehsize
	write16(phdrSize)          // e_phentsize
	write16(1)                 // e_phnum
	write16(0)                 // e_shentsize
	write16(0)                 // e_shnum
	write16(0)                 // e_shstrndx

	fileOffset := uint64(ehdrSize + phdrSize)
	write32(1)                       // p_type = PT_LOAD
	write32(5)                       // p_flags = R|X
	write64(fileOffset)              // p_offset
	write64(uint64(vaddr))           // p_vaddr
	write64(uint64(vaddr))           // p_paddr
	write64(codeSize)                // p_filesz
	write64(codeSize + bssSize)      // p_memsz
	write64(0x1000)                  // p_align

	code := make([]byte, codeSize)
	copy(code, []byte{0xf4, 0xeb, 0xfd}) // hlt; jmp $-1 (never executed by this simulation)
	buf.Write(code)

	return buf.Bytes()
}
