// Package sampler implements the periodic sensor sampling tasks.
package sampler

import (
	"fmt"

	"github.com/golang/glog"

	fx "github.com/robotalks/gyropad/pkg/framework"
	"github.com/robotalks/gyropad/pkg/state"
)

// Reading is one sensor sample.
type Reading struct {
	Raw      state.RawIMU
	Attitude state.Attitude
}

// Sensor provides the inertial sample and the fused attitude.
type Sensor interface {
	Sample() (Reading, error)
}

// ADC reads analog channels.
type ADC interface {
	// Average returns the mean raw value of n conversions.
	Average(channel, n int) (int, error)
}

// Defaults of the analog sampler.
const (
	DefaultAnalogChannel = 1
	DefaultAnalogSamples = 5
)

// failures reports the first error of a failure streak and logs the
// rest at high verbosity.
type failures struct {
	what    string
	failing bool
}

func (f *failures) check(err error) error {
	if err == nil {
		if f.failing {
			glog.Infof("%s recovered", f.what)
			f.failing = false
		}
		return nil
	}
	if f.failing {
		glog.V(2).Infof("%s: %v", f.what, err)
		return nil
	}
	f.failing = true
	return fmt.Errorf("%s: %v", f.what, err)
}

// Attitude samples the inertial sensor.
type Attitude struct {
	Sensor Sensor

	state  *state.State
	writer *state.SensorWriter
	errs   failures
}

// NewAttitude creates the attitude task. It takes ownership of the
// sensor writer.
func NewAttitude(sensor Sensor, s *state.State, w *state.SensorWriter) *Attitude {
	return &Attitude{Sensor: sensor, state: s, writer: w, errs: failures{what: "attitude sensor"}}
}

// Control implements Controller.
func (a *Attitude) Control(cc fx.ControlContext) error {
	if a.state.ActiveMode() == state.PeerPrimary || a.Sensor == nil {
		return nil
	}
	r, err := a.Sensor.Sample()
	if err = a.errs.check(err); err != nil || a.errs.failing {
		return err
	}
	a.writer.SetSample(r.Raw, r.Attitude)
	return nil
}

// Analog samples the battery voltage channel.
type Analog struct {
	ADC     ADC
	Channel int
	Samples int

	state  *state.State
	writer *state.AnalogWriter
	errs   failures
}

// NewAnalog creates the analog task. It takes ownership of the analog
// writer.
func NewAnalog(adc ADC, s *state.State, w *state.AnalogWriter) *Analog {
	return &Analog{
		ADC:     adc,
		Channel: DefaultAnalogChannel,
		Samples: DefaultAnalogSamples,
		state:   s,
		writer:  w,
		errs:    failures{what: "analog input"},
	}
}

// Control implements Controller.
func (a *Analog) Control(cc fx.ControlContext) error {
	if a.state.ActiveMode() == state.PeerPrimary || a.ADC == nil {
		return nil
	}
	v, err := a.ADC.Average(a.Channel, a.Samples)
	if err = a.errs.check(err); err != nil || a.errs.failing {
		return err
	}
	a.writer.SetVoltageRaw(v)
	return nil
}
