// Package menu implements the on-device navigation state machine and
// the input task interpreting key codes against it.
package menu

import (
	"time"

	"github.com/golang/glog"

	fx "github.com/robotalks/gyropad/pkg/framework"
	"github.com/robotalks/gyropad/pkg/keys"
	"github.com/robotalks/gyropad/pkg/state"
)

// Model is the navigation state. It is mutated only by the Interpreter.
type Model struct {
	root    bool
	depth   int
	page    int
	subPage int
}

// NewModel creates a Model positioned on the root menu.
func NewModel() *Model {
	return &Model{root: true}
}

// IsRoot reports whether the root menu is shown.
func (m *Model) IsRoot() bool { return m.root }

// Depth is the number of levels below root.
func (m *Model) Depth() int { return m.depth }

// Page is the selected root entry.
func (m *Model) Page() int { return m.page }

// SubPage is the selected sub page.
func (m *Model) SubPage() int { return m.subPage }

// Screen returns the screen for the current position.
func (m *Model) Screen() Screen {
	if m.root {
		return ScreenRoot
	}
	return ScreenAt(m.page, m.subPage)
}

// Position copies the model for snapshots.
func (m *Model) Position() state.MenuPosition {
	return state.MenuPosition{
		Root:    m.root,
		Depth:   m.depth,
		Page:    m.page,
		SubPage: m.subPage,
		Screen:  m.Screen().String(),
	}
}

// Committer switches the running mode. It must clear the upload
// interval before any role change.
type Committer interface {
	Commit(w *state.SettingsWriter, m state.Mode) error
}

// Upload interval stepping.
const (
	IntervalFineStep   = 10 * time.Millisecond
	IntervalCoarseStep = 100 * time.Millisecond
	IntervalFineMax    = 100 * time.Millisecond
	IntervalCoarseMax  = 1000 * time.Millisecond
)

// Interpreter is the input task.
type Interpreter struct {
	Keys      keys.Scanner
	Committer Committer

	model    *Model
	state    *state.State
	settings *state.SettingsWriter
	redraw   *fx.Signal
}

// NewInterpreter creates the input task. It takes ownership of the
// settings writer and the model.
func NewInterpreter(model *Model, s *state.State, w *state.SettingsWriter, redraw *fx.Signal) *Interpreter {
	return &Interpreter{
		model:    model,
		state:    s,
		settings: w,
		redraw:   redraw,
	}
}

// Control implements Controller.
func (in *Interpreter) Control(cc fx.ControlContext) error {
	if in.Keys == nil {
		return nil
	}
	code := in.Keys.Scan()
	if !code.IsValid() {
		return nil
	}
	glog.V(3).Infof("key %s at %s", code, in.model.Screen())
	err := in.Apply(code)
	in.redraw.Raise()
	return err
}

// Apply performs the transition for one key.
func (in *Interpreter) Apply(code keys.Code) error {
	if in.model.root {
		in.applyRoot(code)
		return nil
	}
	return in.applySub(code)
}

func (in *Interpreter) applyRoot(code keys.Code) {
	m := in.model
	switch code {
	case keys.Next:
		if m.page < NumPages-1 {
			m.page++
		}
	case keys.Prev:
		if m.page > 0 {
			m.page--
		}
	case keys.Confirm:
		m.root = false
		m.depth++
		m.subPage = 0
	case keys.Cancel:
		m.page, m.subPage = 0, 0
	}
}

func (in *Interpreter) applySub(code keys.Code) error {
	m := in.model
	if code == keys.Cancel {
		m.root, m.depth, m.subPage = true, 0, 0
		return nil
	}
	switch m.page {
	case PageSysTest:
		in.moveSubPage(code)
	case PageUpload:
		switch code {
		case keys.Next, keys.Prev:
			in.moveSubPage(code)
		case keys.Confirm:
			in.toggleUpload()
		case keys.LongA:
			in.settings.SetUploadInterval(nextInterval(in.state.Upload().Interval))
		case keys.LongB:
			in.settings.SetFrameKind((in.state.Upload().Kind + 1) % state.NumFrameKinds)
		}
	case PageLink:
		pending := in.state.PendingMode()
		switch code {
		case keys.Next:
			if pending < state.NumModes-1 {
				in.settings.SetPendingMode(pending + 1)
			}
		case keys.Prev:
			if pending > 0 {
				in.settings.SetPendingMode(pending - 1)
			}
		case keys.Confirm:
			if in.Committer == nil {
				return nil
			}
			return in.Committer.Commit(in.settings, pending)
		}
	case PageRemote:
		switch code {
		case keys.Next, keys.Prev:
			in.moveSubPage(code)
		case keys.Confirm:
			in.settings.SetRemoteEnabled(!in.state.RemoteEnabled())
		}
	}
	return nil
}

func (in *Interpreter) moveSubPage(code keys.Code) {
	m := in.model
	switch code {
	case keys.Next:
		if m.subPage < SubPages(m.page)-1 {
			m.subPage++
		}
	case keys.Prev:
		if m.subPage > 0 {
			m.subPage--
		}
	}
}

func (in *Interpreter) toggleUpload() {
	if in.state.Upload().Interval > 0 {
		in.settings.SetUploadInterval(0)
		return
	}
	interval := in.settings.LastUploadInterval()
	if interval <= 0 {
		interval = IntervalFineStep
	}
	in.settings.SetUploadInterval(interval)
}

func nextInterval(d time.Duration) time.Duration {
	switch {
	case d < IntervalFineMax:
		return d + IntervalFineStep
	case d < IntervalCoarseMax:
		return d + IntervalCoarseStep
	}
	return IntervalFineStep
}
