package menu

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	fx "github.com/robotalks/gyropad/pkg/framework"
	"github.com/robotalks/gyropad/pkg/keys"
	"github.com/robotalks/gyropad/pkg/state"
)

type fakeCommitter struct {
	modes []state.Mode
}

func (c *fakeCommitter) Commit(w *state.SettingsWriter, m state.Mode) error {
	w.SetUploadInterval(0)
	w.SetActiveMode(m)
	c.modes = append(c.modes, m)
	return nil
}

type menuTestEnv struct {
	t      *testing.T
	model  *Model
	state  *state.State
	latch  keys.Latch
	redraw *fx.Signal
	commit fakeCommitter
	in     *Interpreter
	loop   *fx.Loop
	now    time.Time
}

func newMenuTestEnv(t *testing.T) *menuTestEnv {
	env := &menuTestEnv{t: t, model: NewModel(), redraw: fx.NewSignal(), now: time.Unix(1000, 0)}
	var w state.Writers
	env.state, w = state.New()
	env.in = NewInterpreter(env.model, env.state, w.Settings, env.redraw)
	env.in.Keys = &env.latch
	env.in.Committer = &env.commit
	env.loop = fx.NewLoop().AddTask(fx.PrLvInput, "input", 20*time.Millisecond, env.in)
	return env
}

func (e *menuTestEnv) press(codes ...keys.Code) {
	for _, code := range codes {
		e.latch.Press(code)
		e.loop.Step(context.TODO(), e.now)
		e.now = e.now.Add(20 * time.Millisecond)
	}
}

func (e *menuTestEnv) requirePos(root bool, depth, page, subPage int) {
	require.Equal(e.t, root, e.model.IsRoot(), "root")
	require.Equal(e.t, depth, e.model.Depth(), "depth")
	require.Equal(e.t, page, e.model.Page(), "page")
	require.Equal(e.t, subPage, e.model.SubPage(), "sub page")
}

func TestRootNavigation(t *testing.T) {
	env := newMenuTestEnv(t)
	env.press(keys.Prev)
	env.requirePos(true, 0, 0, 0)
	env.press(keys.Next, keys.Next, keys.Next, keys.Next, keys.Next, keys.Next)
	env.requirePos(true, 0, 4, 0)
	env.press(keys.Cancel)
	env.requirePos(true, 0, 0, 0)
	env.press(keys.Next, keys.Confirm)
	env.requirePos(false, 1, 1, 0)
	require.Equal(t, ScreenAttitudeLED, env.model.Screen())
}

func TestSubPageBounds(t *testing.T) {
	testCases := []struct {
		page  int
		bound int
	}{
		{PageSysTest, 3},
		{PageAttitude, 0},
		{PageUpload, 1},
		{PageLink, 0},
		{PageRemote, 1},
	}
	for _, tc := range testCases {
		t.Run(PageTitles[tc.page], func(t *testing.T) {
			env := newMenuTestEnv(t)
			for i := 0; i < tc.page; i++ {
				env.press(keys.Next)
			}
			env.press(keys.Confirm)
			for i := 0; i < 6; i++ {
				env.press(keys.Next)
			}
			require.Equal(t, tc.bound, env.model.SubPage())
			for i := 0; i < 6; i++ {
				env.press(keys.Prev)
			}
			require.Equal(t, 0, env.model.SubPage())
		})
	}
}

func TestRandomSequencesStayInBounds(t *testing.T) {
	env := newMenuTestEnv(t)
	rnd := rand.New(rand.NewSource(42))
	for i := 0; i < 5000; i++ {
		code := keys.Code(rnd.Intn(int(keys.LongB)) + 1)
		if code == keys.Confirm && env.model.Page() == PageLink && !env.model.IsRoot() {
			continue
		}
		env.press(code)
		m := env.model
		require.True(t, m.Page() >= 0 && m.Page() < NumPages)
		require.True(t, m.SubPage() >= 0)
		if m.IsRoot() {
			require.Zero(t, m.Depth())
		} else {
			require.True(t, m.SubPage() < SubPages(m.Page()))
			require.Equal(t, 1, m.Depth())
		}
		require.True(t, env.state.PendingMode().IsValid())
	}
}

func TestCancelFromAnySub(t *testing.T) {
	for page := 0; page < NumPages; page++ {
		for sub := 0; sub < SubPages(page); sub++ {
			env := newMenuTestEnv(t)
			for i := 0; i < page; i++ {
				env.press(keys.Next)
			}
			env.press(keys.Confirm)
			for i := 0; i < sub; i++ {
				env.press(keys.Next)
			}
			require.Equal(t, ScreenAt(page, sub), env.model.Screen())
			env.press(keys.Cancel)
			env.requirePos(true, 0, page, 0)
		}
	}
}

func TestFrameKindCycle(t *testing.T) {
	env := newMenuTestEnv(t)
	env.press(keys.Next, keys.Next, keys.Next, keys.Confirm)
	env.requirePos(false, 1, PageLink, 0)

	env = newMenuTestEnv(t)
	env.press(keys.Next, keys.Next, keys.Confirm)
	env.requirePos(false, 1, PageUpload, 0)
	var kinds []state.FrameKind
	for i := 0; i < 3; i++ {
		env.press(keys.LongB)
		kinds = append(kinds, env.state.Upload().Kind)
	}
	require.Equal(t, []state.FrameKind{state.FrameSampling, state.FrameProcessed, state.FrameBasic}, kinds)
}

func TestUploadInterval(t *testing.T) {
	env := newMenuTestEnv(t)
	env.press(keys.Next, keys.Next, keys.Confirm)

	env.press(keys.Confirm)
	require.Equal(t, IntervalFineStep, env.state.Upload().Interval)
	env.press(keys.Confirm)
	require.Zero(t, env.state.Upload().Interval)

	var seen []time.Duration
	for i := 0; i < 20; i++ {
		env.press(keys.LongA)
		seen = append(seen, env.state.Upload().Interval)
	}
	require.Equal(t, 10*time.Millisecond, seen[0])
	require.Equal(t, 100*time.Millisecond, seen[9])
	require.Equal(t, 200*time.Millisecond, seen[10])
	require.Equal(t, 1000*time.Millisecond, seen[18])
	require.Equal(t, 10*time.Millisecond, seen[19])

	env.press(keys.LongA, keys.LongA)
	env.press(keys.Confirm)
	require.Zero(t, env.state.Upload().Interval)
	env.press(keys.Confirm)
	require.Equal(t, 30*time.Millisecond, env.state.Upload().Interval)
}

func TestModeCommit(t *testing.T) {
	env := newMenuTestEnv(t)
	env.press(keys.Next, keys.Next, keys.Next, keys.Confirm)
	env.press(keys.Next, keys.Next, keys.Next)
	require.Equal(t, state.PeerPrimary, env.state.PendingMode())
	require.Equal(t, state.Standalone, env.state.ActiveMode())
	env.press(keys.Prev)
	env.press(keys.Confirm)
	require.Equal(t, []state.Mode{state.PeerSecondary}, env.commit.modes)
	require.Equal(t, state.PeerSecondary, env.state.ActiveMode())
}

func TestRemoteToggle(t *testing.T) {
	env := newMenuTestEnv(t)
	env.press(keys.Next, keys.Next, keys.Next, keys.Next, keys.Confirm)
	env.press(keys.Confirm)
	require.True(t, env.state.RemoteEnabled())
	env.press(keys.LongA, keys.LongB)
	require.True(t, env.state.RemoteEnabled())
	env.press(keys.Confirm)
	require.False(t, env.state.RemoteEnabled())
}

func TestRedrawRaisedOnKeys(t *testing.T) {
	env := newMenuTestEnv(t)
	env.loop.Step(context.TODO(), env.now)
	env.now = env.now.Add(20 * time.Millisecond)
	require.False(t, env.redraw.Take())
	env.press(keys.Next, keys.Prev, keys.LongA)
	require.True(t, env.redraw.Take())
	require.False(t, env.redraw.Take())
}

func TestScreenAt(t *testing.T) {
	require.Equal(t, ScreenSysTestVoltage, ScreenAt(PageSysTest, 3))
	require.Equal(t, ScreenRoot, ScreenAt(PageSysTest, 4))
	require.Equal(t, ScreenRoot, ScreenAt(7, 0))
	for s := ScreenRoot; s < NumScreens; s++ {
		require.NotEqual(t, "invalid", s.String())
	}
}
