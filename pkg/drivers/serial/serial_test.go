package serial

import (
	"bytes"
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/gyropad/pkg/protocol"
)

type fakePort struct {
	bytes.Buffer
	data   chan []byte
	closed chan struct{}
	once   sync.Once
}

func newFakePort() *fakePort {
	return &fakePort{data: make(chan []byte, 4), closed: make(chan struct{})}
}

func (p *fakePort) Read(b []byte) (int, error) {
	select {
	case d := <-p.data:
		return copy(b, d), nil
	case <-p.closed:
		return 0, os.ErrClosed
	}
}

func (p *fakePort) Close() error {
	p.once.Do(func() { close(p.closed) })
	return nil
}

func TestConsume(t *testing.T) {
	a := (&protocol.Frame{Cmd: protocol.CmdPing, Payload: []byte{0x08, 0x01}}).Bytes()
	b := (&protocol.Frame{Cmd: protocol.CmdIdentity}).Bytes()
	var got [][]byte
	p := New(newFakePort())
	p.Receiver = func(data []byte) bool {
		got = append(got, append([]byte(nil), data...))
		return true
	}
	p.consume(append([]byte{0x00}, a[:3]...))
	p.consume(a[3:])
	p.consume(b[:2])
	p.idle()
	p.consume(b[2:])
	p.consume(b)
	require.Equal(t, [][]byte{a, b}, got)
}

func TestSendFrame(t *testing.T) {
	port := newFakePort()
	p := New(port)
	f := &protocol.Frame{Cmd: protocol.CmdPing, Payload: []byte{0x08, 0x02}}
	n, err := p.SendFrame(f)
	require.NoError(t, err)
	require.Equal(t, f.Len(), n)
	require.Equal(t, f.Bytes(), port.Bytes())
}

func TestRun(t *testing.T) {
	port := newFakePort()
	p := New(port)
	recvCh := make(chan []byte, 1)
	p.Receiver = func(data []byte) bool {
		recvCh <- append([]byte(nil), data...)
		return true
	}
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- p.Run(ctx) }()

	frame := (&protocol.Frame{Cmd: protocol.CmdPing}).Bytes()
	port.data <- frame
	select {
	case got := <-recvCh:
		require.Equal(t, frame, got)
	case <-time.After(time.Second):
		t.Fatal("frame not received")
	}
	cancel()
	select {
	case err := <-errCh:
		require.Equal(t, context.Canceled, err)
	case <-time.After(time.Second):
		t.Fatal("run not stopped")
	}
}
