package mirror

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/websocket"

	"github.com/robotalks/gyropad/pkg/display"
)

func TestMirror(t *testing.T) {
	m := New("")
	server := httptest.NewServer(m.Handler())
	defer server.Close()

	f := display.NewFrame()
	f.Print(0, 0, "first")
	require.NoError(t, m.Present(f))

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	ws, err := websocket.Dial(url, "", server.URL)
	require.NoError(t, err)
	defer ws.Close()
	ws.SetDeadline(time.Now().Add(5 * time.Second))

	var msg Message
	require.NoError(t, websocket.JSON.Receive(ws, &msg))
	require.Len(t, msg.Lines, display.Rows)
	require.Equal(t, "first", strings.TrimSpace(msg.Lines[0]))
	require.Equal(t, 1, m.Clients())

	require.NoError(t, m.Present(f))
	f.Print(1, 0, "second")
	require.NoError(t, m.Present(f))
	require.NoError(t, websocket.JSON.Receive(ws, &msg))
	require.Equal(t, "second", strings.TrimSpace(msg.Lines[1]))
}

func TestViewerPage(t *testing.T) {
	rec := httptest.NewRecorder()
	m := New("")
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	require.Equal(t, 200, rec.Code)
	require.Contains(t, rec.Body.String(), "/ws")
}
