// Package mirror serves the framebuffer to websocket clients.
package mirror

import (
	"context"
	"net/http"
	"sync"

	"github.com/golang/glog"
	"golang.org/x/net/websocket"

	"github.com/robotalks/gyropad/pkg/display"
	fx "github.com/robotalks/gyropad/pkg/framework"
)

// Message is sent to clients on every change.
type Message struct {
	Lines []string `json:"lines"`
}

type client struct {
	send chan Message
}

// Mirror implements display.Panel and serves frames over websocket at
// /ws, a viewer page is served at /.
type Mirror struct {
	Addr string

	lock    sync.Mutex
	clients map[*client]struct{}
	last    []string
}

// New creates a Mirror listening on addr.
func New(addr string) *Mirror {
	return &Mirror{Addr: addr, clients: make(map[*client]struct{})}
}

// Handler returns the HTTP handler.
func (m *Mirror) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/ws", websocket.Handler(m.serve))
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(viewerPage))
	})
	return mux
}

// Present implements display.Panel. Slow clients only get the latest
// frame.
func (m *Mirror) Present(f *display.Frame) error {
	lines := f.Lines()
	m.lock.Lock()
	defer m.lock.Unlock()
	if equalLines(lines, m.last) {
		return nil
	}
	m.last = lines
	msg := Message{Lines: lines}
	for c := range m.clients {
		select {
		case <-c.send:
		default:
		}
		c.send <- msg
	}
	return nil
}

// Clients returns the number of connected clients.
func (m *Mirror) Clients() int {
	m.lock.Lock()
	defer m.lock.Unlock()
	return len(m.clients)
}

func (m *Mirror) join() *client {
	c := &client{send: make(chan Message, 1)}
	m.lock.Lock()
	m.clients[c] = struct{}{}
	if m.last != nil {
		c.send <- Message{Lines: m.last}
	}
	m.lock.Unlock()
	return c
}

func (m *Mirror) leave(c *client) {
	m.lock.Lock()
	delete(m.clients, c)
	m.lock.Unlock()
}

func (m *Mirror) serve(ws *websocket.Conn) {
	c := m.join()
	defer m.leave(c)
	glog.V(1).Infof("mirror: %s joined", ws.Request().RemoteAddr)

	closed := make(chan struct{})
	go func() {
		var discard []byte
		for websocket.Message.Receive(ws, &discard) == nil {
		}
		close(closed)
	}()
	for {
		select {
		case msg := <-c.send:
			if err := websocket.JSON.Send(ws, msg); err != nil {
				glog.V(1).Infof("mirror: %v", err)
				return
			}
		case <-closed:
			return
		}
	}
}

// Run serves HTTP until ctx is done.
func (m *Mirror) Run(ctx context.Context) error {
	server := &http.Server{Addr: m.Addr, Handler: m.Handler()}
	glog.Infof("mirror on %s", m.Addr)
	err := fx.RunWithContextCloser(ctx, server, server.ListenAndServe)
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func equalLines(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for n := range a {
		if a[n] != b[n] {
			return false
		}
	}
	return true
}

const viewerPage = `<!DOCTYPE html>
<html><body style="background:#000;color:#6cf">
<pre id="screen" style="font-size:20px"></pre>
<script>
var ws = new WebSocket("ws://" + location.host + "/ws");
ws.onmessage = function(e) {
  document.getElementById("screen").textContent = JSON.parse(e.data).lines.join("\n");
};
</script>
</body></html>
`
