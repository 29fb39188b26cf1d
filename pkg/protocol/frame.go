// Package protocol implements the framing shared by the wired and the
// wireless links.
//
// A frame is encoded as
//
//	0xA5 | cmd | len | payload (len bytes) | sum | 0x5A
//
// where sum is the low byte of the sum of cmd, len and payload.
package protocol

import (
	"errors"
	"io"
)

// Envelope bytes.
const (
	Head byte = 0xA5
	Tail byte = 0x5A

	// Overhead is the number of envelope bytes around a payload.
	Overhead = 5
	// MaxPayload is the largest payload a frame can carry.
	MaxPayload = 0xff
)

var (
	// ErrIncomplete indicates more bytes are needed for a frame.
	ErrIncomplete = errors.New("incomplete frame")
	// ErrEnvelope indicates a bad head or tail byte.
	ErrEnvelope = errors.New("invalid frame envelope")
	// ErrChecksum indicates checksum mismatch.
	ErrChecksum = errors.New("checksum mismatch")
	// ErrUnknownCommand indicates the command is not recognized.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrPayloadTooLarge indicates the payload exceeds MaxPayload.
	ErrPayloadTooLarge = errors.New("payload too large")
)

// Frame is a decoded frame.
type Frame struct {
	Cmd     Command
	Payload []byte
}

// Len returns the encoded length.
func (f *Frame) Len() int {
	return len(f.Payload) + Overhead
}

// Bytes returns encoded bytes for sending.
func (f *Frame) Bytes() []byte {
	b := make([]byte, f.Len())
	b[0], b[1], b[2] = Head, byte(f.Cmd), byte(len(f.Payload))
	copy(b[3:], f.Payload)
	b[len(b)-2] = checksum(b[1 : len(b)-2])
	b[len(b)-1] = Tail
	return b
}

// WriteTo writes encoded bytes.
func (f *Frame) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(f.Bytes())
	return int64(n), err
}

// Parse decodes the frame at the beginning of buf. It returns the number
// of bytes the frame occupies. ErrIncomplete is returned when buf holds
// a prefix of a frame, any other error means buf can't start a frame.
func Parse(buf []byte) (*Frame, int, error) {
	if len(buf) == 0 {
		return nil, 0, ErrIncomplete
	}
	if buf[0] != Head {
		return nil, 0, ErrEnvelope
	}
	if len(buf) < 3 {
		return nil, 0, ErrIncomplete
	}
	size := int(buf[2]) + Overhead
	if len(buf) < size {
		return nil, 0, ErrIncomplete
	}
	if buf[size-1] != Tail {
		return nil, 0, ErrEnvelope
	}
	if checksum(buf[1:size-2]) != buf[size-2] {
		return nil, 0, ErrChecksum
	}
	cmd := Command(buf[1])
	if !cmd.IsKnown() {
		return nil, 0, ErrUnknownCommand
	}
	payload := make([]byte, size-Overhead)
	copy(payload, buf[3:size-2])
	return &Frame{Cmd: cmd, Payload: payload}, size, nil
}

func checksum(b []byte) (sum byte) {
	for _, v := range b {
		sum += v
	}
	return
}
