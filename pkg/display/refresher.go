package display

import (
	"github.com/golang/glog"

	fx "github.com/robotalks/gyropad/pkg/framework"
	"github.com/robotalks/gyropad/pkg/menu"
	"github.com/robotalks/gyropad/pkg/state"
)

// Panel shows a frame.
type Panel interface {
	Present(*Frame) error
}

// Refresher is the display task.
type Refresher struct {
	Panels []Panel
	// LinkStatus reports the wireless link, optional.
	LinkStatus func() bool

	frame    *Frame
	view     View
	redraw   *fx.Signal
	statics  *Renderers
	dynamics *Renderers
	failing  map[int]bool
}

// NewRefresher creates the display task. The redraw signal is raised
// so the first cycle draws the root screen.
func NewRefresher(model *menu.Model, s *state.State, redraw *fx.Signal) (*Refresher, error) {
	return newRefresher(model, s, redraw, &StaticRenderers, &DynamicRenderers)
}

func newRefresher(model *menu.Model, s *state.State, redraw *fx.Signal, statics, dynamics *Renderers) (*Refresher, error) {
	if err := Validate(statics, dynamics); err != nil {
		return nil, err
	}
	r := &Refresher{
		frame:    NewFrame(),
		view:     View{State: s, Model: model},
		redraw:   redraw,
		statics:  statics,
		dynamics: dynamics,
		failing:  make(map[int]bool),
	}
	redraw.Raise()
	return r, nil
}

// Frame returns the framebuffer.
func (r *Refresher) Frame() *Frame {
	return r.frame
}

// AddPanel adds a panel.
func (r *Refresher) AddPanel(p Panel) *Refresher {
	r.Panels = append(r.Panels, p)
	return r
}

// Control implements Controller.
func (r *Refresher) Control(cc fx.ControlContext) error {
	if r.LinkStatus != nil {
		r.view.LinkUp = r.LinkStatus()
	}
	screen := r.view.Model.Screen()
	if r.redraw.Take() {
		r.frame.Clear()
		r.statics[screen](r.frame, &r.view)
	}
	if screen != menu.ScreenRoot {
		r.dynamics[screen](r.frame, &r.view)
	}
	var errs fx.AggregatedError
	for n, p := range r.Panels {
		err := p.Present(r.frame)
		// report a failing panel once until it recovers
		if err != nil && !r.failing[n] {
			errs.Add(err)
		}
		r.failing[n] = err != nil
	}
	if err := errs.Aggregate(); err != nil {
		return err
	}
	if glog.V(5) {
		glog.Infof("frame:\n%s", r.frame)
	}
	return nil
}
