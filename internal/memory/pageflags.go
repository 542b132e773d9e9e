package memory

// PageFlags is the portable page-protection bit set from spec.md §3.
// Architecture mappers translate this set into target PTE flags; this
// simulation has no real architecture mapper to translate to, so the
// portable set doubles as the stored representation.
type PageFlags uint32

const (
	Present PageFlags = 1 << iota
	Writable
	User
	WriteThrough
	NoCache
	Accessed
	Dirty
	Huge
	Global
	NoExecute
)

// Has reports whether all bits in want are set in f.
func (f PageFlags) Has(want PageFlags) bool { return f&want == want }
