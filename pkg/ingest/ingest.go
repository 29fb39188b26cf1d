// Package ingest polls the receive channels and dispatches parsed
// packets.
package ingest

import (
	"github.com/golang/glog"

	fx "github.com/robotalks/gyropad/pkg/framework"
	"github.com/robotalks/gyropad/pkg/state"
)

// Channel is a receive channel polled by Ingest.
type Channel interface {
	// Poll returns the pending bytes and whether the ready flag is set.
	Poll() ([]byte, bool)
	// Release clears the ready flag.
	Release()
}

// Holder is implemented by channels which accept more bytes while a
// partial packet is pending.
type Holder interface {
	// Hold keeps the pending bytes for the next poll, it returns false
	// if they can't grow anymore.
	Hold() bool
}

// Status is the outcome of parsing a receive buffer.
type Status int

// Parse status
const (
	Incomplete Status = iota
	Valid
	Invalid
)

func (s Status) String() string {
	switch s {
	case Valid:
		return "valid"
	case Invalid:
		return "invalid"
	}
	return "incomplete"
}

// Result is returned by Parser.
type Result struct {
	Status   Status
	Consumed int
}

// Parser interprets a receive buffer.
type Parser interface {
	Parse(state.Source, []byte) Result
}

type input struct {
	source  state.Source
	channel Channel
}

// Ingest is the receive task.
type Ingest struct {
	Parser Parser

	inputs []input
	writer *state.IngestWriter
}

// New creates the receive task.
func New(parser Parser, w *state.IngestWriter) *Ingest {
	return &Ingest{Parser: parser, writer: w}
}

// Attach adds a channel, channels are polled in the order attached.
func (in *Ingest) Attach(src state.Source, ch Channel) *Ingest {
	in.inputs = append(in.inputs, input{source: src, channel: ch})
	return in
}

// Control implements Controller.
func (in *Ingest) Control(cc fx.ControlContext) error {
	for _, i := range in.inputs {
		buf, ok := i.channel.Poll()
		if !ok {
			continue
		}
		res := in.Parser.Parse(i.source, buf)
		switch res.Status {
		case Valid:
			in.writer.AddReceived(res.Consumed, i.source)
			i.channel.Release()
		case Invalid:
			glog.V(2).Infof("%s: discard %d bytes", i.source, len(buf))
			i.channel.Release()
		default:
			if h, ok := i.channel.(Holder); ok && !h.Hold() {
				glog.V(2).Infof("%s: discard %d bytes of overflowed packet", i.source, len(buf))
				i.channel.Release()
			}
		}
	}
	return nil
}
