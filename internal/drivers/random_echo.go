package drivers

import (
	"context"
	"encoding/binary"
	"fmt"
	"time"

	"jon/internal/driverclient"
	"jon/internal/scheme"
)

// RandomEcho is builtin driver index 3: periodically asks the random
// daemon for a number and logs it to serial (spec.md §6; grounded on
// drivers/random_echo/src/main.rs's read/callback/write loop, simplified
// from its reconnect-on-EBADF state machine to a single connect at startup
// since this simulation's random daemon is long-lived for the kernel's
// lifetime). Like the original's init()/get_random_pid(), it resolves the
// random daemon's pid through the reincarnation registry before
// constructing its pipe paths — pipes are namespaced
// "<creator pid>/<name>" (spec.md §4.10.2), so a bare "pipe:read"/
// "pipe:write" open can never match the random daemon's own pipes.
func RandomEcho(ctx context.Context, c *driverclient.Client) {
	serialFD, err := c.Open("serial:", scheme.OWRONLY)
	if err != nil {
		return
	}

	randomPID, ok := lookupPID(ctx, c, "random")
	if !ok {
		return
	}

	readFD, err := openRetry(ctx, c, "pipe:"+itoa(randomPID)+"/write", scheme.ORDONLY)
	if err != nil {
		return
	}
	writeFD, err := openRetry(ctx, c, "pipe:"+itoa(randomPID)+"/read", scheme.OWRONLY)
	if err != nil {
		return
	}

	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		req := Message{Type: MsgRead}
		if _, err := c.Write(writeFD, req.Encode()); err != nil {
			continue
		}

		buf := make([]byte, 8)
		n, err := waitForRead(ctx, c, readFD, buf)
		if err != nil || n < 8 {
			continue
		}
		num := binary.LittleEndian.Uint64(buf)
		c.Write(serialFD, []byte(fmt.Sprintf("Random number: %d\n", num)))
	}
}

// waitForRead retries on EAGAIN until ctx is done, mirroring the
// original's read-attempt retry loop without busy-spinning a host CPU.
func waitForRead(ctx context.Context, c *driverclient.Client, fd scheme.FDID, buf []byte) (int, error) {
	for {
		n, err := c.Read(fd, buf)
		if err == nil {
			return n, nil
		}
		select {
		case <-ctx.Done():
			return 0, err
		case <-time.After(time.Millisecond):
		}
	}
}
