package drivers

import (
	"context"
	"fmt"
	"time"

	"jon/internal/driverclient"
	"jon/internal/scheme"
)

// TaskManager is builtin driver index 4: periodically reads the task
// table from "proc:" and blits a plain text rendering into the "vga:0"
// framebuffer (spec.md §6). Font rasterization and keyboard-driven
// navigation are out of scope per spec.md §1 ("user drivers ... treated
// as external collaborators" whose internals aren't part of the kernel
// ABI this repo covers): the driver only renders into "vga:0" and never
// reads "ps2:".
func TaskManager(ctx context.Context, c *driverclient.Client) {
	procFD, err := c.Open("proc:", scheme.ORDONLY)
	if err != nil {
		return
	}
	vgaFD, err := c.Open("vga:0", scheme.ORDWR)
	if err != nil {
		return
	}

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	buf := make([]byte, 26*64)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		n, err := c.Read(procFD, buf)
		if err != nil {
			continue
		}
		text := renderProcTable(buf[:n])
		c.Write(vgaFD, []byte(text))
	}
}

func renderProcTable(raw []byte) string {
	const recordSize = 26
	out := "PID   NAME             STATE   PRIORITY\n"
	for off := 0; off+recordSize <= len(raw); off += recordSize {
		pid := uint64(0)
		for i := 0; i < 8; i++ {
			pid |= uint64(raw[off+i]) << (8 * i)
		}
		name := nameFromBytes([16]byte(raw[off+8 : off+24]))
		state := raw[off+24]
		priority := raw[off+25]
		out += fmt.Sprintf("%-5d %-16s %-7d %-8d\n", pid, name, state, priority)
	}
	return out
}
