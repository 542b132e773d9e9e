package scheme

// OpenFlags mirrors the open(2)-style flag bits a task passes to the open
// syscall (spec.md §3 FileDescriptorId).
type OpenFlags uint32

const (
	ORDONLY OpenFlags = 1 << iota
	OWRONLY
	ORDWR
	OAPPEND
	OCREAT
	OEXCL
	OTRUNC
)

// Readable reports whether flags permit reads.
func (f OpenFlags) Readable() bool { return f&ORDONLY != 0 || f&ORDWR != 0 }

// Writable reports whether flags permit writes.
func (f OpenFlags) Writable() bool { return f&OWRONLY != 0 || f&ORDWR != 0 }

// Has reports whether all bits in want are set.
func (f OpenFlags) Has(want OpenFlags) bool { return f&want == want }
