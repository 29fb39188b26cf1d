// Package joystick turns a gamepad into menu keys for host runs.
package joystick

import (
	"context"
	"io"

	"github.com/golang/glog"

	fx "github.com/robotalks/gyropad/pkg/framework"
	"github.com/robotalks/gyropad/pkg/keys"
)

// Event is a button or axis change.
type Event struct {
	// Init marks events reporting the initial state.
	Init  bool
	Axis  bool
	Index int
	Value int
}

// Source produces joystick events.
type Source interface {
	io.Closer
	ReadEvent() (Event, error)
}

// DefaultButtons maps button indices to keys.
var DefaultButtons = map[int]keys.Code{
	0: keys.Confirm,
	1: keys.Cancel,
	2: keys.LongA,
	3: keys.LongB,
}

// DefaultThreshold is the axis deflection counted as a press.
const DefaultThreshold = 16384

// Pad presses keys from joystick events. The first axis moves
// Prev/Next.
type Pad struct {
	Source    Source
	Keys      *keys.Latch
	Buttons   map[int]keys.Code
	Threshold int

	axis int
}

// NewPad creates a Pad pressing into latch.
func NewPad(src Source, latch *keys.Latch) *Pad {
	return &Pad{Source: src, Keys: latch, Buttons: DefaultButtons, Threshold: DefaultThreshold}
}

// Run reads events until ctx is done. The source is closed on return.
func (p *Pad) Run(ctx context.Context) error {
	return fx.RunWithContextCloser(ctx, p.Source, func() error {
		for {
			ev, err := p.Source.ReadEvent()
			if err != nil {
				return err
			}
			if code := p.Translate(ev); code != keys.None {
				glog.V(3).Infof("joystick %s", code)
				p.Keys.Press(code)
			}
		}
	})
}

// Translate maps an event to a key, axis moves count once per
// deflection.
func (p *Pad) Translate(ev Event) keys.Code {
	if ev.Init {
		return keys.None
	}
	if !ev.Axis {
		if ev.Value == 0 {
			return keys.None
		}
		return p.Buttons[ev.Index]
	}
	if ev.Index != 0 {
		return keys.None
	}
	dir := 0
	switch {
	case ev.Value <= -p.Threshold:
		dir = -1
	case ev.Value >= p.Threshold:
		dir = 1
	}
	if dir == p.axis {
		return keys.None
	}
	p.axis = dir
	switch dir {
	case -1:
		return keys.Prev
	case 1:
		return keys.Next
	}
	return keys.None
}
