// Package serial implements the wired link over a serial port.
package serial

import (
	"context"
	"errors"
	"io"
	"os"
	"sync"
	"time"

	"github.com/golang/glog"
	"github.com/tarm/serial"

	fx "github.com/robotalks/gyropad/pkg/framework"
	"github.com/robotalks/gyropad/pkg/protocol"
)

// DefaultReadTimeout is the idle gap after which a partial frame is dropped.
const DefaultReadTimeout = 100 * time.Millisecond

// Receiver accepts a received frame candidate, returning false when it
// is dropped.
type Receiver func([]byte) bool

// Port is the wired link. It sends frames and delivers received frame
// candidates to Receiver.
type Port struct {
	Receiver Receiver

	rw     io.ReadWriteCloser
	lock   sync.Mutex
	framer protocol.Framer
}

// Open opens a serial device.
func Open(name string, baud int) (*Port, error) {
	p, err := serial.OpenPort(&serial.Config{
		Name:        name,
		Baud:        baud,
		ReadTimeout: DefaultReadTimeout,
	})
	if err != nil {
		return nil, err
	}
	return New(p), nil
}

// New wraps a ReadWriteCloser which times out reads.
func New(rw io.ReadWriteCloser) *Port {
	return &Port{rw: rw}
}

// SendFrame implements the comms Transport.
func (p *Port) SendFrame(f *protocol.Frame) (int, error) {
	p.lock.Lock()
	defer p.lock.Unlock()
	n, err := f.WriteTo(p.rw)
	return int(n), err
}

// Run reads the port until ctx is done. The port is closed on return.
func (p *Port) Run(ctx context.Context) error {
	return fx.RunWithContextCloser(ctx, p.rw, p.readLoop)
}

func (p *Port) readLoop() error {
	buf := make([]byte, 64)
	for {
		n, err := p.rw.Read(buf)
		if n > 0 {
			p.consume(buf[:n])
			continue
		}
		if err == nil || err == io.EOF || os.IsTimeout(err) {
			p.idle()
			continue
		}
		if errors.Is(err, os.ErrClosed) {
			return nil
		}
		return err
	}
}

func (p *Port) consume(data []byte) {
	for _, b := range data {
		out := p.framer.Push(b)
		if out == nil {
			continue
		}
		if p.Receiver == nil || !p.Receiver(out) {
			glog.V(2).Infof("serial: %d bytes dropped", len(out))
		}
	}
}

func (p *Port) idle() {
	if p.framer.Pending() {
		glog.V(2).Info("serial: partial frame dropped")
		p.framer.Reset()
	}
}
