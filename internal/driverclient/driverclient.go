// Package driverclient gives the kernel's built-in drivers (spec.md §6)
// the same narrow ABI surface a compiled user ELF binary would get: every
// call goes through syscallabi.Dispatch, never a kernel internal directly
// (spec.md §9: "user drivers are treated as external collaborators that
// consume this ABI").
package driverclient

import (
	"jon/internal/kerr"
	"jon/internal/pid"
	"jon/internal/scheme"
	"jon/internal/syscallabi"
)

// Dispatcher is the single entry point a Client calls through, matching
// syscallabi.Dispatch's signature.
type Dispatcher func(ctx syscallabi.CallerContext, num uint64, args syscallabi.Args) uint64

// Client is a driver's handle into the kernel, scoped to one task.
type Client struct {
	Dispatch Dispatcher
	PID      pid.PID
	CPU      uint32
}

// New builds a client bound to a task's PID and CPU.
func New(dispatch Dispatcher, id pid.PID, cpu uint32) *Client {
	return &Client{Dispatch: dispatch, PID: id, CPU: cpu}
}

func (c *Client) ctx() syscallabi.CallerContext {
	return syscallabi.CallerContext{PID: c.PID, CPU: c.CPU}
}

func decode(wire uint64) (int64, error) {
	signed := int64(wire)
	if signed < 0 {
		return 0, kerr.New(kerr.Errno(-signed), "syscall", "")
	}
	return signed, nil
}

// Open issues the open syscall and returns the new descriptor id.
func (c *Client) Open(path string, flags scheme.OpenFlags) (scheme.FDID, error) {
	wire := c.Dispatch(c.ctx(), syscallabi.SysOpen, syscallabi.Args{Path: path, A1: uint64(flags)})
	n, err := decode(wire)
	if err != nil {
		return 0, err
	}
	return scheme.FDID(n), nil
}

// Read issues the read syscall, filling buf and returning the byte count.
func (c *Client) Read(fd scheme.FDID, buf []byte) (int, error) {
	wire := c.Dispatch(c.ctx(), syscallabi.SysRead, syscallabi.Args{A1: uint64(fd), Buf: buf})
	n, err := decode(wire)
	return int(n), err
}

// Write issues the write syscall.
func (c *Client) Write(fd scheme.FDID, buf []byte) (int, error) {
	wire := c.Dispatch(c.ctx(), syscallabi.SysWrite, syscallabi.Args{A1: uint64(fd), Buf: buf})
	n, err := decode(wire)
	return int(n), err
}

// GetPID issues the getpid syscall.
//
// There is no standalone close syscall in spec.md's table; closing
// happens implicitly via kill/exit reclaiming descriptors (spec.md §4.9
// "Cancellation... closes every descriptor it owns"). Drivers that want
// to drop a descriptor before exiting do so by exiting and respawning,
// matching the reference drivers, none of which ever call close
// directly.
func (c *Client) GetPID() (pid.PID, error) {
	wire := c.Dispatch(c.ctx(), syscallabi.SysGetPID, syscallabi.Args{})
	n, err := decode(wire)
	return pid.PID(n), err
}

// Exit issues the exit syscall.
func (c *Client) Exit(code uint64) {
	c.Dispatch(c.ctx(), syscallabi.SysExit, syscallabi.Args{A1: code})
}

// Lseek issues the lseek syscall.
func (c *Client) Lseek(fd scheme.FDID, offset int64, whence int) (int64, error) {
	wire := c.Dispatch(c.ctx(), syscallabi.SysLseek, syscallabi.Args{A1: uint64(fd), A2: uint64(offset), A3: uint64(whence)})
	return decode(wire)
}

// Kill issues the kill syscall.
func (c *Client) Kill(target pid.PID) error {
	_, err := decode(c.Dispatch(c.ctx(), syscallabi.SysKill, syscallabi.Args{A1: uint64(target)}))
	return err
}

// Spawn issues the spawn syscall for a builtin driver index.
func (c *Client) Spawn(index int) (pid.PID, error) {
	wire := c.Dispatch(c.ctx(), syscallabi.SysSpawn, syscallabi.Args{A1: uint64(index)})
	n, err := decode(wire)
	return pid.PID(n), err
}
