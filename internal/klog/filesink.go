package klog

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// FileSink opens path for append and takes an advisory exclusive lock on
// it for the process lifetime, so two kernel instances pointed at the same
// --log file don't interleave writes mid-line. Grounded on how runc's
// linux package reaches past the standard library (os.File has no flock)
// for host-level file coordination.
type FileSink struct {
	f *os.File
}

// OpenFileSink opens (creating if needed) path and locks it.
func OpenFileSink(path string) (*FileSink, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("klog: open %s: %w", path, err)
	}
	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX); err != nil {
		f.Close()
		return nil, fmt.Errorf("klog: flock %s: %w", path, err)
	}
	return &FileSink{f: f}, nil
}

func (s *FileSink) Write(p []byte) (int, error) {
	return s.f.Write(p)
}

// Close releases the lock and closes the underlying file.
func (s *FileSink) Close() error {
	unix.Flock(int(s.f.Fd()), unix.LOCK_UN)
	return s.f.Close()
}
