package comms

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	fx "github.com/robotalks/gyropad/pkg/framework"
	"github.com/robotalks/gyropad/pkg/protocol"
	"github.com/robotalks/gyropad/pkg/radio"
	"github.com/robotalks/gyropad/pkg/state"
)

type fakeTransport struct {
	frames []*protocol.Frame
	err    error
}

func (t *fakeTransport) SendFrame(f *protocol.Frame) (int, error) {
	if t.err != nil {
		return 0, t.err
	}
	t.frames = append(t.frames, f)
	return f.Len(), nil
}

func (t *fakeTransport) cmds() (cmds []protocol.Command) {
	for _, f := range t.frames {
		cmds = append(cmds, f.Cmd)
	}
	return
}

type fakeRadio struct {
	calls []string
	down  bool
	err   error
}

func (r *fakeRadio) call(name string) error {
	r.calls = append(r.calls, name)
	return r.err
}

func (r *fakeRadio) InitDefault() error       { return r.call("default") }
func (r *fakeRadio) SwitchToSecondary() error { return r.call("secondary") }
func (r *fakeRadio) SwitchToPrimary() error   { return r.call("primary") }
func (r *fakeRadio) LinkStatus() bool         { return !r.down }

type fakeControlContext struct {
	now time.Time
}

func (c *fakeControlContext) Time() time.Time         { return c.now }
func (c *fakeControlContext) Context() context.Context { return context.TODO() }
func (c *fakeControlContext) PriorityLevel() int       { return fx.PrLvComm }
func (c *fakeControlContext) TaskName() string         { return "comms" }

type commsTestEnv struct {
	state    *state.State
	writers  state.Writers
	wired    fakeTransport
	wireless fakeTransport
	radio    fakeRadio
	d        *Dispatcher
	loop     *fx.Loop
	start    time.Time
	now      time.Time
}

func newCommsTestEnv() *commsTestEnv {
	env := &commsTestEnv{start: time.Unix(2000, 0)}
	env.now = env.start
	env.state, env.writers = state.New()
	env.d = New(env.state, env.writers.Link)
	env.d.Wired = &env.wired
	env.d.Wireless = &env.wireless
	env.d.Radio = &env.radio
	env.d.Identity = "pad-1"
	env.loop = fx.NewLoop().AddTask(fx.PrLvComm, "comms", 20*time.Millisecond, env.d)
	return env
}

// run steps the loop every 10ms until the elapsed time since start is
// reached, inclusive.
func (e *commsTestEnv) run(until time.Duration) {
	for ; !e.now.After(e.start.Add(until)); e.now = e.now.Add(10 * time.Millisecond) {
		e.loop.Step(context.TODO(), e.now)
	}
}

func TestUploadFrameCount(t *testing.T) {
	env := newCommsTestEnv()
	env.writers.Settings.SetUploadInterval(100 * time.Millisecond)
	env.writers.Settings.SetFrameKind(state.FrameSampling)
	env.run(250 * time.Millisecond)
	up := env.state.Upload()
	require.Equal(t, 2, up.SentCount)
	require.Len(t, env.wired.frames, 2)
	require.Equal(t, env.wired.frames[0].Len()+env.wired.frames[1].Len(), up.SentBytes)
	require.Equal(t, []protocol.Command{protocol.CmdSampling, protocol.CmdSampling}, env.wired.cmds())
	require.Empty(t, env.wireless.frames)
}

func TestUploadDisabled(t *testing.T) {
	env := newCommsTestEnv()
	env.run(time.Second)
	require.Zero(t, env.state.Upload().SentCount)
	require.Empty(t, env.wired.frames)
}

func TestUploadStopsOnModeChange(t *testing.T) {
	env := newCommsTestEnv()
	env.writers.Settings.SetUploadInterval(50 * time.Millisecond)
	env.run(120 * time.Millisecond)
	require.Len(t, env.wired.frames, 2)

	env.writers.Settings.SetActiveMode(state.PeerPrimary)
	env.run(500 * time.Millisecond)
	require.Len(t, env.wired.frames, 2)
	require.NotEmpty(t, env.wireless.frames)

	// the loop restarts at 520ms, first frame due at 570ms
	env.writers.Settings.SetActiveMode(state.Standalone)
	env.run(560 * time.Millisecond)
	require.Len(t, env.wired.frames, 2)
	env.run(600 * time.Millisecond)
	require.Len(t, env.wired.frames, 3)
}

func TestUploadIntervalCleared(t *testing.T) {
	env := newCommsTestEnv()
	env.writers.Settings.SetUploadInterval(50 * time.Millisecond)
	env.run(120 * time.Millisecond)
	require.Len(t, env.wired.frames, 2)

	env.writers.Settings.SetUploadInterval(0)
	env.run(time.Second)
	require.Len(t, env.wired.frames, 2)
	require.Equal(t, 2, env.state.Upload().SentCount)
}

func TestUploadIntervalChanged(t *testing.T) {
	env := newCommsTestEnv()
	env.writers.Settings.SetUploadInterval(100 * time.Millisecond)
	env.run(200 * time.Millisecond)
	require.Len(t, env.wired.frames, 2)

	// the frame due at 300ms is kept, later ones follow the new interval
	env.writers.Settings.SetUploadInterval(20 * time.Millisecond)
	env.run(300 * time.Millisecond)
	require.Len(t, env.wired.frames, 3)
	env.run(400 * time.Millisecond)
	require.Len(t, env.wired.frames, 8)
}

func TestUploadErrorNotCounted(t *testing.T) {
	env := newCommsTestEnv()
	env.wired.err = errors.New("port closed")
	env.writers.Settings.SetUploadInterval(20 * time.Millisecond)
	env.run(200 * time.Millisecond)
	require.Zero(t, env.state.Upload().SentCount)
	require.Zero(t, env.state.Upload().SentBytes)
}

func TestCommit(t *testing.T) {
	testCases := []struct {
		mode state.Mode
		call string
	}{
		{state.Standalone, "default"},
		{state.PeerSecondary, "secondary"},
		{state.PeerPrimary, "primary"},
	}
	for _, tc := range testCases {
		t.Run(tc.mode.String(), func(t *testing.T) {
			env := newCommsTestEnv()
			env.writers.Settings.SetUploadInterval(30 * time.Millisecond)
			require.NoError(t, env.d.Commit(env.writers.Settings, tc.mode))
			require.Equal(t, []string{tc.call}, env.radio.calls)
			require.Zero(t, env.state.Upload().Interval)
			require.Equal(t, tc.mode, env.state.ActiveMode())
		})
	}
}

func TestCommitRadioFailure(t *testing.T) {
	env := newCommsTestEnv()
	env.radio.err = errors.New("no module")
	env.writers.Settings.SetUploadInterval(30 * time.Millisecond)
	require.Error(t, env.d.Commit(env.writers.Settings, state.PeerPrimary))
	require.Zero(t, env.state.Upload().Interval)
	require.Equal(t, state.Standalone, env.state.ActiveMode())
}

func TestPeerExchange(t *testing.T) {
	env := newCommsTestEnv()
	env.writers.Settings.SetActiveMode(state.PeerSecondary)
	env.run(0)
	require.Equal(t, []protocol.Command{protocol.CmdIdentity}, env.wireless.cmds())

	env.writers.Ingest.EstablishPeer("pad-2")
	env.run(20 * time.Millisecond)
	require.Equal(t, []protocol.Command{protocol.CmdIdentity, protocol.CmdProcessed}, env.wireless.cmds())
	require.Equal(t, 2, env.state.Upload().SentCount)

	env.writers.Settings.SetActiveMode(state.PeerPrimary)
	env.run(100 * time.Millisecond)
	require.Len(t, env.wireless.frames, 2)
	require.Empty(t, env.wired.frames)
}

func TestPeerExchangeWaitsForLink(t *testing.T) {
	env := newCommsTestEnv()
	env.writers.Settings.SetActiveMode(state.PeerSecondary)
	env.radio.down = true
	env.wireless.err = radio.ErrNotConnected
	for i := 0; i < 50; i++ {
		env.now = env.now.Add(20 * time.Millisecond)
		require.NoError(t, env.d.Control(&fakeControlContext{now: env.now}))
	}
	require.Empty(t, env.wireless.frames)
	require.Zero(t, env.state.Upload().SentCount)

	env.radio.down = false
	env.wireless.err = nil
	env.now = env.now.Add(20 * time.Millisecond)
	require.NoError(t, env.d.Control(&fakeControlContext{now: env.now}))
	require.Equal(t, []protocol.Command{protocol.CmdIdentity}, env.wireless.cmds())
}

func TestDisconnectClearsPeerOnce(t *testing.T) {
	for _, mode := range []state.Mode{state.Standalone, state.PeerSecondary, state.PeerPrimary} {
		t.Run(mode.String(), func(t *testing.T) {
			env := newCommsTestEnv()
			env.writers.Settings.SetActiveMode(mode)
			env.writers.Ingest.EstablishPeer("pad-2")
			env.writers.Ingest.EstablishPeer("pad-2")
			env.run(40 * time.Millisecond)
			require.Equal(t, 2, env.state.HandshakeCount())

			env.radio.down = true
			env.run(200 * time.Millisecond)
			require.Empty(t, env.state.PeerIdentity())
			require.Zero(t, env.state.HandshakeCount())
			require.Equal(t, 1, env.d.Disconnections())
		})
	}
}
