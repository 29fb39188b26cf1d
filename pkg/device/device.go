// Package device assembles drivers and tasks into a running gyropad.
package device

import (
	"context"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/gyropad/pkg/comms"
	"github.com/robotalks/gyropad/pkg/display"
	fx "github.com/robotalks/gyropad/pkg/framework"
	"github.com/robotalks/gyropad/pkg/ingest"
	"github.com/robotalks/gyropad/pkg/keys"
	"github.com/robotalks/gyropad/pkg/led"
	"github.com/robotalks/gyropad/pkg/menu"
	"github.com/robotalks/gyropad/pkg/sampler"
	"github.com/robotalks/gyropad/pkg/state"
)

// Task priority levels, lower runs first within a step.
const (
	PrLvAttitude = fx.PrLvSense
	PrLvInput    = fx.PrLvInput
	PrLvIngest   = fx.PrLvInput + 2
	PrLvComms    = fx.PrLvComm
	PrLvAnalog   = fx.PrLvComm + 2
	PrLvLED      = fx.PrLvLow
	PrLvDisplay  = fx.PrLvLow + 1
	PrLvSnapshot = fx.PrLvPostProc
)

// Task periods.
var (
	AttitudePeriod = 50 * time.Millisecond
	TaskPeriod     = 20 * time.Millisecond
)

// Device is an assembled gyropad.
type Device struct {
	Config  *Config
	Drivers *Drivers
	State   *state.State
	Board   state.Board
	Model   *menu.Model
	Loop    *fx.Loop

	// Keys accepts presses from a console.
	Keys keys.Latch
	// Remote accepts presses from remote key commands.
	Remote keys.Latch

	Input   *menu.Interpreter
	Comms   *comms.Dispatcher
	Ingest  *ingest.Ingest
	Handler *ingest.Handler
	Display *display.Refresher
	LED     *led.Task
}

// New assembles a device from drivers.
func New(conf *Config, drv *Drivers) (*Device, error) {
	s, w := state.New()
	d := &Device{
		Config:  conf,
		Drivers: drv,
		State:   s,
		Model:   menu.NewModel(),
		Loop:    fx.NewLoop(),
	}
	redraw := fx.NewSignal()

	if drv.Radio != nil {
		if err := drv.Radio.InitDefault(); err != nil {
			glog.Warningf("wireless init: %v", err)
		}
	}

	d.Comms = comms.New(s, w.Link)
	d.Comms.Identity = conf.Identity
	d.Comms.Radio = drv.Radio
	d.Comms.Wired, d.Comms.Wireless = drv.Wired, drv.Wireless

	d.Input = menu.NewInterpreter(d.Model, s, w.Settings, redraw)
	d.Input.Keys = keys.Mux{drv.Keypad, &d.Keys, &d.Remote}
	d.Input.Committer = d.Comms

	d.Handler = ingest.NewHandler(s, w.Ingest)
	d.Handler.Remote = &d.Remote
	d.Ingest = ingest.New(d.Handler, w.Ingest)
	if drv.WiredRx != nil {
		d.Ingest.Attach(state.SourceWired, drv.WiredRx)
	}
	if drv.WirelessRx != nil {
		d.Ingest.Attach(state.SourceWireless, drv.WirelessRx)
	}

	var err error
	if d.Display, err = display.NewRefresher(d.Model, s, redraw); err != nil {
		return nil, err
	}
	for _, p := range drv.Panels {
		d.Display.AddPanel(p)
	}
	if drv.Radio != nil {
		d.Display.LinkStatus = drv.Radio.LinkStatus
	}

	d.LED = led.NewTask(drv.LED, d.Model, s)

	analog := sampler.NewAnalog(drv.ADC, s, w.Analog)
	analog.Channel = conf.AnalogChannel

	d.Loop.
		AddTask(PrLvAttitude, "attitude", AttitudePeriod, sampler.NewAttitude(drv.Sensor, s, w.Sensor)).
		AddTask(PrLvInput, "input", TaskPeriod, d.Input).
		AddTask(PrLvIngest, "ingest", TaskPeriod, d.Ingest).
		AddTask(PrLvComms, "comms", TaskPeriod, d.Comms).
		AddTask(PrLvAnalog, "analog", TaskPeriod, analog).
		AddTask(PrLvLED, "led", TaskPeriod, d.LED).
		AddTask(PrLvDisplay, "display", TaskPeriod, d.Display).
		AddTask(PrLvSnapshot, "snapshot", fx.DefaultTick, fx.ControlFunc(d.publish)).
		AddRunnable(drv.Runnables...)
	return d, nil
}

func (d *Device) publish(cc fx.ControlContext) error {
	snap := d.State.Snapshot(cc.Time())
	snap.Menu = d.Model.Position()
	if r := d.Drivers.Radio; r != nil {
		snap.LinkUp = r.LinkStatus()
	}
	d.Board.Publish(snap)
	return nil
}

// Snapshot returns the latest published state, safe from any goroutine.
func (d *Device) Snapshot() *state.Snapshot {
	return d.Board.Latest()
}

// Run runs the loop and driver runners until ctx is done, then halts
// the drivers.
func (d *Device) Run(ctx context.Context) error {
	glog.Infof("%s running tasks %v", d.Config.Identity, d.Loop.TaskNames())
	err := d.Loop.Run(ctx)
	d.Drivers.Shutdown()
	return err
}
