package drivers

import (
	"context"
	"encoding/binary"
	"time"

	"jon/internal/driverclient"
	"jon/internal/scheme"
)

// reincarnationPID is the well-known pid of the reincarnation daemon.
// Kernel.Boot spawns one idle task per CPU (driver index 0) before any of
// the four remaining builtin drivers, so under the single-CPU
// DefaultConfig reincarnation (index 1) always lands on pid 2 — the same
// fixed address drivers/common/src/daemon.rs's register() hardcodes as
// "pipe:2/read". A peer can't ask reincarnation to resolve reincarnation's
// own pid, so every other daemon addresses it through this constant
// instead of a lookup.
const reincarnationPID = 2

// Reincarnation is builtin driver index 1: a name→PID registry over a
// well-known pipe rendezvous (spec.md §6; grounded on
// drivers/reincarnation/src/main.rs, whose NAMES table this driver makes
// functional — the original stub never read its own rendezvous pipe).
//
// Other daemons register with a MsgWrite whose 16-byte Data holds their
// NUL-padded name and whose Origin is their PID; callers resolve a name
// with a MsgRead carrying the name in Data, and get back a MsgRead reply
// on "pipe:<caller pid>/reincarnation-reply" whose Data holds the
// resolved PID as a little-endian u64, or all zero bytes if the name is
// unknown.
func Reincarnation(ctx context.Context, c *driverclient.Client) {
	fd, err := c.Open("pipe:reincarnation", scheme.OCREAT|scheme.ORDWR)
	if err != nil {
		return
	}

	names := make(map[string]uint64)
	buf := make([]byte, 64)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		n, err := c.Read(fd, buf)
		if err != nil || n == 0 {
			time.Sleep(time.Millisecond)
			continue
		}
		msg, ok := DecodeMessage(buf[:n])
		if !ok {
			continue
		}

		switch msg.Type {
		case MsgWrite:
			name := nameFromBytes(msg.Data)
			names[name] = msg.Origin
		case MsgRead:
			name := nameFromBytes(msg.Data)
			reply := Message{Type: MsgRead}
			if pid, ok := names[name]; ok {
				binary.LittleEndian.PutUint64(reply.Data[:8], pid)
			}
			replyFD, err := c.Open(replyPath(msg.Origin), scheme.OWRONLY)
			if err == nil {
				c.Write(replyFD, reply.Encode())
			}
		}
	}
}

func nameFromBytes(b [16]byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b[:])
}
func replyPath(originPID uint64) string {
	return "pipe:" + itoa(originPID) + "/reincarnation-reply"
}

func itoa(v uint64) string {
	if v == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}
