package drivers

import (
	"context"
	"encoding/binary"
	"math/rand/v2"
	"time"

	"jon/internal/driverclient"
	"jon/internal/scheme"
)

// Random is builtin driver index 2: services pipe requests with
// pseudo-random bytes (spec.md §6; grounded on drivers/random/src/main.rs,
// whose Daemon loop this reproduces over a single read/write pipe pair
// rather than the jon_common Daemon abstraction, which has no Go
// counterpart in the example pack). It registers itself with the
// reincarnation name service as "random" so peers — random_echo, or any
// future driver — can resolve its pid and construct its pipe paths
// without a hardcoded PID.
//
// The PRNG algorithm is explicitly out of scope (spec.md §1); math/rand/v2
// is used because no third-party PRNG package appears anywhere in the
// example pack and the Non-goals make the generator's quality a
// don't-care.
func Random(ctx context.Context, c *driverclient.Client) {
	readFD, err := c.Open("pipe:read", scheme.OCREAT|scheme.ORDONLY)
	if err != nil {
		return
	}
	writeFD, err := c.Open("pipe:write", scheme.OCREAT|scheme.OWRONLY)
	if err != nil {
		return
	}
	registerWithReincarnation(ctx, c, "random")

	buf := make([]byte, 64)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		n, err := c.Read(readFD, buf)
		if err != nil || n == 0 {
			time.Sleep(time.Millisecond)
			continue
		}
		if _, ok := DecodeMessage(buf[:n]); !ok {
			continue
		}

		var out [8]byte
		binary.LittleEndian.PutUint64(out[:], rand.Uint64())
		c.Write(writeFD, out[:])
	}
}
