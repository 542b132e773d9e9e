// Package ps2hostbridge backs the simulated ps2 scheme with a real host
// input device, the way runc's linux package reaches past the standard
// library for low-level host interaction (grounded on linux/namespace.go's
// unix.SYS_SETNS use). It is the optional bridge for `boot --interactive`;
// headless boots leave the ps2 scheme's Source nil.
package ps2hostbridge

import (
	"fmt"
	"sync"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// Bridge reads raw bytes off a host terminal fd in raw mode and exposes
// them one at a time, satisfying scheme.ByteSource without scheme needing
// to import this package (avoids a dependency from simulated hardware onto
// host terminal handling).
type Bridge struct {
	fd       int
	oldState *term.State

	mu  sync.Mutex
	buf [256]byte
	pos int
	n   int
}

// Open puts fd (normally os.Stdin.Fd()) into raw mode and returns a Bridge
// reading from it. Restore must be called to return the terminal to its
// original state.
func Open(fd int) (*Bridge, error) {
	if !term.IsTerminal(fd) {
		return nil, fmt.Errorf("ps2hostbridge: fd %d is not a terminal", fd)
	}
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("ps2hostbridge: make raw: %w", err)
	}
	return &Bridge{fd: fd, oldState: oldState}, nil
}

// Restore returns the host terminal to the state it was in before Open.
func (b *Bridge) Restore() error {
	if b.oldState == nil {
		return nil
	}
	return term.Restore(b.fd, b.oldState)
}

// ReadByte pulls one scancode-sized byte from the host fd, refilling its
// internal buffer via a raw unix.Read when empty.
func (b *Bridge) ReadByte() (byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.pos >= b.n {
		n, err := unix.Read(b.fd, b.buf[:])
		if err != nil {
			return 0, fmt.Errorf("ps2hostbridge: read: %w", err)
		}
		if n == 0 {
			return 0, fmt.Errorf("ps2hostbridge: eof")
		}
		b.pos, b.n = 0, n
	}

	c := b.buf[b.pos]
	b.pos++
	return c, nil
}

// Size reports the attached terminal's current dimensions. Nothing else in
// this module calls it.
func Size(fd int) (width, height int, err error) {
	return term.GetSize(fd)
}
