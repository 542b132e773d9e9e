// Package drivers holds the kernel's built-in user-space drivers (spec.md
// §6): idle, reincarnation, random, random-echo, and the task-manager
// TUI. Each talks to the kernel exclusively through a
// driverclient.Client, the same surface a compiled ELF task gets.
package drivers

import "encoding/binary"

// MessageType is the reincarnation/random daemon IPC convention's opcode
// (spec.md §3 Message: "one of {Read, Write, Delete, Heartbeat}").
type MessageType uint8

const (
	MsgRead MessageType = iota
	MsgWrite
	MsgDelete
	MsgHeartbeat
)

// Message is the fixed 32-byte record daemons exchange over pipes
// (spec.md §8 "Pipe message layout": "32 bytes: type:u8 padded to word,
// data:[u8;16], origin:usize").
type Message struct {
	Type   MessageType
	Data   [16]byte
	Origin uint64
}

const messageSize = 32

// Encode packs m into the 32-byte wire layout.
func (m Message) Encode() []byte {
	buf := make([]byte, messageSize)
	buf[0] = byte(m.Type)
	copy(buf[8:24], m.Data[:])
	binary.LittleEndian.PutUint64(buf[24:32], m.Origin)
	return buf
}

// DecodeMessage unpacks a 32-byte wire message. ok is false if b is too
// short.
func DecodeMessage(b []byte) (Message, bool) {
	if len(b) < messageSize {
		return Message{}, false
	}
	var m Message
	m.Type = MessageType(b[0])
	copy(m.Data[:], b[8:24])
	m.Origin = binary.LittleEndian.Uint64(b[24:32])
	return m, true
}
