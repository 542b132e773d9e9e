package scheme

import "testing"

func TestFramebufferSchemeReadWrite(t *testing.T) {
	fb := &Framebuffer{Width: 2, Height: 1, BitsPerPixel: 32, Pitch: 8, Buffer: make([]byte, 8)}
	s := NewFramebufferScheme([]*Framebuffer{fb})

	id, err := s.Open("0", ORDWR, CallerContext{})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	n, err := s.Write(id, []byte{1, 2, 3, 4})
	if err != nil || n != 4 {
		t.Fatalf("Write() = %d, %v; want 4, nil", n, err)
	}

	buf := make([]byte, 8)
	n, err = s.Read(id, buf)
	if err != nil || n != 8 {
		t.Fatalf("Read() = %d, %v; want 8, nil", n, err)
	}
	if buf[0] != 1 || buf[1] != 2 || buf[2] != 3 || buf[3] != 4 {
		t.Fatalf("Read() = %v, want first 4 bytes [1 2 3 4]", buf)
	}
}

func TestFramebufferSchemeOpenRejectsBadIndex(t *testing.T) {
	s := NewFramebufferScheme([]*Framebuffer{{Buffer: make([]byte, 4)}})
	if _, err := s.Open("notanumber", ORDWR, CallerContext{}); err == nil {
		t.Fatalf("Open(\"notanumber\") should fail")
	}
	if _, err := s.Open("5", ORDWR, CallerContext{}); err == nil {
		t.Fatalf("Open(\"5\") out of range should fail")
	}
}
