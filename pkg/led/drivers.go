package led

import (
	"fmt"

	"github.com/golang/glog"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
)

// LogDriver logs LED changes.
type LogDriver struct{}

// SetLevels implements Driver.
func (LogDriver) SetLevels(l Levels) error {
	glog.V(1).Infof("LED %v", l)
	return nil
}

// Effect implements Driver.
func (LogDriver) Effect(kind, speed int) error {
	glog.V(1).Infof("LED effect %d speed %d", kind, speed)
	return nil
}

// DefaultPWMFrequency is the PWM frequency of the GPIO driver.
const DefaultPWMFrequency = physic.KiloHertz

// PWM drives LEDs with GPIO PWM.
type PWM struct {
	Frequency physic.Frequency

	pins [NumLEDs]gpio.PinOut
}

// OpenPWM opens the pins by name. The periph host must be initialized.
func OpenPWM(names [NumLEDs]string) (*PWM, error) {
	d := &PWM{Frequency: DefaultPWMFrequency}
	for n, name := range names {
		p := gpioreg.ByName(name)
		if p == nil {
			return nil, fmt.Errorf("led pin %q not found", name)
		}
		d.pins[n] = p
	}
	return d, nil
}

// SetLevels implements Driver.
func (d *PWM) SetLevels(l Levels) error {
	for n, p := range d.pins {
		if err := p.PWM(gpio.DutyMax*gpio.Duty(l[n])/100, d.Frequency); err != nil {
			return fmt.Errorf("led %d: %w", n, err)
		}
	}
	return nil
}

// Effect implements Driver. Plain GPIO has no effect engine, all LEDs
// are lit at half luminance instead.
func (d *PWM) Effect(kind, speed int) error {
	return d.SetLevels(Levels{50, 50, 50, 50})
}

// Halt turns off all LEDs.
func (d *PWM) Halt() error {
	var err error
	for _, p := range d.pins {
		if e := p.Out(gpio.Low); e != nil && err == nil {
			err = e
		}
	}
	return err
}
