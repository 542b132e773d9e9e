package memory

import "testing"

func TestAddressSpaceMapUnmap(t *testing.T) {
	as := NewAddressSpace()
	va := VirtualAddress(0x1000)
	pa := PhysicalAddress(0x2000)

	if err := as.Map(va, pa, Present|Writable); err != nil {
		t.Fatalf("map: %v", err)
	}
	if err := as.Map(va, pa, Present); err == nil {
		t.Fatal("expected AlreadyMapped on remap")
	}

	gotPA, flags, err := as.Translate(va)
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if gotPA != pa {
		t.Fatalf("translate: got %v want %v", gotPA, pa)
	}
	if !flags.Has(Writable) {
		t.Fatal("expected writable flag preserved")
	}

	if err := as.Unmap(va); err != nil {
		t.Fatalf("unmap: %v", err)
	}
	if _, _, err := as.Translate(va); err == nil {
		t.Fatal("expected NotMapped after unmap")
	}
	if err := as.Unmap(va); err == nil {
		t.Fatal("expected NotMapped on double unmap")
	}
}

func TestAddressSpaceMapMisaligned(t *testing.T) {
	as := NewAddressSpace()
	if err := as.Map(VirtualAddress(0x1001), PhysicalAddress(0x2000), Present); err == nil {
		t.Fatal("expected InvalidAddress for misaligned va")
	}
	if err := as.Map(VirtualAddress(0x1000), PhysicalAddress(0x2001), Present); err == nil {
		t.Fatal("expected InvalidAddress for misaligned pa")
	}
}

func TestAddressSpaceMapRangePartialFailureLeavesPriorPagesMapped(t *testing.T) {
	as := NewAddressSpace()
	va := VirtualAddress(0x10000)
	pa := PhysicalAddress(0x20000)

	// Pre-map the second page so MapRange's second iteration fails.
	if err := as.Map(va.Offset(PageSize), PhysicalAddress(0x99000), Present); err != nil {
		t.Fatalf("pre-map: %v", err)
	}

	err := as.MapRange(va, pa, 2*PageSize, Present|Writable)
	if err == nil {
		t.Fatal("expected MapRange to fail on the pre-mapped second page")
	}

	// First page should remain mapped despite the overall failure.
	got, _, terr := as.Translate(va)
	if terr != nil {
		t.Fatalf("expected first page still mapped: %v", terr)
	}
	if got != pa {
		t.Fatalf("first page translate mismatch: got %v want %v", got, pa)
	}
}

func TestAddressSpaceTranslateWithinPage(t *testing.T) {
	as := NewAddressSpace()
	va := VirtualAddress(0x3000)
	pa := PhysicalAddress(0x4000)
	if err := as.Map(va, pa, Present); err != nil {
		t.Fatalf("map: %v", err)
	}

	got, _, err := as.Translate(va.Offset(0x10))
	if err != nil {
		t.Fatalf("translate offset: %v", err)
	}
	if got != pa.Offset(0x10) {
		t.Fatalf("got %v want %v", got, pa.Offset(0x10))
	}
}

func TestAddressSpaceFlushTLBCalled(t *testing.T) {
	var calls []VirtualAddress
	orig := FlushTLB
	FlushTLB = func(va VirtualAddress) { calls = append(calls, va) }
	defer func() { FlushTLB = orig }()

	as := NewAddressSpace()
	va := VirtualAddress(0x5000)
	as.Map(va, PhysicalAddress(0x6000), Present)
	as.Unmap(va)

	if len(calls) != 2 {
		t.Fatalf("expected 2 flush calls, got %d", len(calls))
	}
}
