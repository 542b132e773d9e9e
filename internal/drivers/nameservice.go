package drivers

import (
	"context"
	"encoding/binary"
	"time"

	"jon/internal/driverclient"
	"jon/internal/scheme"
)

// reincarnationPath builds the path to reincarnation's own rendezvous
// pipe. It's namespaced "<reincarnationPID>/reincarnation" because
// PipeScheme.Open always prefixes an O_CREAT path with the creating
// task's own pid (internal/scheme/pipe.go), and reincarnation created it
// with itself as the caller; a peer's non-O_CREAT open must supply that
// same key verbatim.
func reincarnationPath() string {
	return "pipe:" + itoa(reincarnationPID) + "/reincarnation"
}

// registerWithReincarnation advertises name -> the caller's own PID
// through the reincarnation registry (spec.md §6; grounded on
// drivers/reincarnation/src/main.rs's NAMES registration convention,
// which every other daemon in the original relies on before a peer can
// find its pipes).
func registerWithReincarnation(ctx context.Context, c *driverclient.Client, name string) {
	selfPID, err := c.GetPID()
	if err != nil {
		return
	}
	fd, err := openRetry(ctx, c, reincarnationPath(), scheme.OWRONLY)
	if err != nil {
		return
	}
	msg := Message{Type: MsgWrite, Origin: uint64(selfPID)}
	copy(msg.Data[:], name)
	c.Write(fd, msg.Encode())
}

// lookupPID resolves name through the reincarnation registry, mirroring
// drivers/random_echo/src/main.rs's get_random_pid: create the reply pipe
// before sending the request so reincarnation's reply (which never uses
// O_CREAT) always finds an existing key, then poll it for the answer.
func lookupPID(ctx context.Context, c *driverclient.Client, name string) (uint64, bool) {
	selfPID, err := c.GetPID()
	if err != nil {
		return 0, false
	}

	replyFD, err := openRetry(ctx, c, "pipe:reincarnation-reply", scheme.OCREAT|scheme.ORDONLY)
	if err != nil {
		return 0, false
	}

	reqFD, err := openRetry(ctx, c, reincarnationPath(), scheme.OWRONLY)
	if err != nil {
		return 0, false
	}

	req := Message{Type: MsgRead, Origin: uint64(selfPID)}
	copy(req.Data[:], name)
	if _, err := c.Write(reqFD, req.Encode()); err != nil {
		return 0, false
	}

	buf := make([]byte, 32)
	n, err := waitForRead(ctx, c, replyFD, buf)
	if err != nil || n < 32 {
		return 0, false
	}
	reply, ok := DecodeMessage(buf[:n])
	if !ok {
		return 0, false
	}
	pid := binary.LittleEndian.Uint64(reply.Data[:8])
	return pid, pid != 0
}

// openRetry retries Open against transient failures (spec.md §4.10.2's
// ENOENT-until-created window between a pipe's name being advertised and
// the creating driver's goroutine actually reaching its Open call), until
// ctx is canceled.
func openRetry(ctx context.Context, c *driverclient.Client, path string, flags scheme.OpenFlags) (scheme.FDID, error) {
	for {
		fd, err := c.Open(path, flags)
		if err == nil {
			return fd, nil
		}
		select {
		case <-ctx.Done():
			return 0, err
		case <-time.After(time.Millisecond):
		}
	}
}
