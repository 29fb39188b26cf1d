// Package led implements the LED task driving the LED bank from the
// menu position and LED settings.
package led

import (
	"time"

	fx "github.com/robotalks/gyropad/pkg/framework"
	"github.com/robotalks/gyropad/pkg/menu"
	"github.com/robotalks/gyropad/pkg/state"
)

// NumLEDs is the size of the LED bank.
const NumLEDs = 4

// Levels are LED luminances in percent.
type Levels [NumLEDs]int

// Driver renders the LED bank.
type Driver interface {
	// SetLevels sets individual luminances.
	SetLevels(Levels) error
	// Effect runs a built-in effect pattern.
	Effect(kind, speed int) error
}

// MaxSpeed is the highest LED speed.
const MaxSpeed = 9

// FlowStep is the time a flowing light stays on one LED. The light
// doesn't move unless speed is in 1..MaxSpeed.
func FlowStep(speed int) (time.Duration, bool) {
	if speed <= 0 || speed > MaxSpeed {
		return 0, false
	}
	return time.Duration(1000-speed*100) * time.Millisecond, true
}

// AngleLuminance maps an angle in -180..180 degrees linearly to 0..100
// percent.
func AngleLuminance(deg float64) int {
	lum := int((deg + 180) * 100 / 360)
	if lum < 0 {
		return 0
	}
	if lum > 100 {
		return 100
	}
	return lum
}

type output struct {
	effect bool
	kind   int
	speed  int
	levels Levels
}

// Task is the LED task.
type Task struct {
	Driver Driver

	model *menu.Model
	state *state.State

	flowPos int
	flowDir int
	flowDue time.Time
	last    output
	sent    bool
}

// NewTask creates the LED task.
func NewTask(d Driver, model *menu.Model, s *state.State) *Task {
	return &Task{Driver: d, model: model, state: s, flowPos: -1}
}

// Control implements Controller.
func (t *Task) Control(cc fx.ControlContext) error {
	if t.Driver == nil {
		return nil
	}
	out := t.compute(cc.Time())
	if t.sent && out == t.last {
		return nil
	}
	var err error
	if out.effect {
		err = t.Driver.Effect(out.kind, out.speed)
	} else {
		err = t.Driver.SetLevels(out.levels)
	}
	t.last, t.sent = out, err == nil
	return err
}

func (t *Task) compute(now time.Time) (out output) {
	m, settings := t.model, t.state.LED()
	if m.Screen() != menu.ScreenSysTestLED {
		t.flowPos = -1
	}
	switch {
	case m.Screen() == menu.ScreenSysTestLED:
		if step, ok := FlowStep(settings.Speed); ok && (t.flowPos < 0 || !now.Before(t.flowDue)) {
			t.advanceFlow()
			t.flowDue = now.Add(step)
		}
		if t.flowPos >= 0 {
			out.levels[t.flowPos] = 100
		}
	case !m.IsRoot() && m.Page() == menu.PageAttitude:
		att := t.state.Attitude()
		out.levels[1] = AngleLuminance(att.Roll)
		out.levels[2] = AngleLuminance(att.Pitch)
		out.levels[3] = AngleLuminance(att.Yaw)
	case settings.Type != 0:
		out.effect, out.kind, out.speed = true, settings.Type, settings.Speed
	default:
		lum := settings.Luminance * 10
		if lum > 100 {
			lum = 100
		} else if lum < 0 {
			lum = 0
		}
		for n := range out.levels {
			if settings.Mask&(1<<uint(n)) != 0 {
				out.levels[n] = lum
			}
		}
	}
	return
}

// advanceFlow moves the light one LED, bouncing at both ends.
func (t *Task) advanceFlow() {
	switch {
	case t.flowPos < 0:
		t.flowPos, t.flowDir = 0, 1
		return
	case t.flowPos >= NumLEDs-1:
		t.flowDir = -1
	case t.flowPos == 0:
		t.flowDir = 1
	}
	t.flowPos += t.flowDir
}
