package device

import (
	"fmt"

	"github.com/golang/glog"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"github.com/robotalks/gyropad/pkg/comms"
	"github.com/robotalks/gyropad/pkg/display"
	"github.com/robotalks/gyropad/pkg/display/mirror"
	"github.com/robotalks/gyropad/pkg/display/oled"
	"github.com/robotalks/gyropad/pkg/drivers/adc"
	"github.com/robotalks/gyropad/pkg/drivers/imu"
	"github.com/robotalks/gyropad/pkg/drivers/joystick"
	"github.com/robotalks/gyropad/pkg/drivers/serial"
	fx "github.com/robotalks/gyropad/pkg/framework"
	"github.com/robotalks/gyropad/pkg/ingest"
	"github.com/robotalks/gyropad/pkg/keys"
	"github.com/robotalks/gyropad/pkg/led"
	"github.com/robotalks/gyropad/pkg/radio"
	"github.com/robotalks/gyropad/pkg/radio/mqtt"
	"github.com/robotalks/gyropad/pkg/sampler"
)

// Halter is a driver to stop on exit.
type Halter interface {
	Halt() error
}

// Drivers are the hardware adapters of a device. Nil drivers disable the
// corresponding function.
type Drivers struct {
	Sensor   sampler.Sensor
	ADC      sampler.ADC
	Keypad   keys.Scanner
	Radio    radio.Radio
	Wired    comms.Transport
	Wireless comms.Transport
	Panels   []display.Panel
	LED      led.Driver

	// WiredRx and WirelessRx receive packets from the transports.
	WiredRx    *ingest.Buffer
	WirelessRx *ingest.Buffer

	// Runnables are background runners of the drivers.
	Runnables []fx.Runnable
	Halters   []Halter
}

// Halt stops the drivers.
func (d *Drivers) Halt() error {
	var errs fx.AggregatedError
	for _, h := range d.Halters {
		errs.Add(h.Halt())
	}
	return errs.Aggregate()
}

// Shutdown halts the drivers, failures are logged.
func (d *Drivers) Shutdown() {
	if err := d.Halt(); err != nil {
		glog.Warningf("halt drivers: %v", err)
	}
}

// OpenDrivers creates the drivers from the config.
func (c *Config) OpenDrivers() (*Drivers, error) {
	drv := &Drivers{}
	var err error
	if c.Hardware {
		err = c.openHardware(drv)
	} else {
		c.openSim(drv)
	}
	if err == nil {
		err = c.openLinks(drv)
	}
	if err != nil {
		drv.Shutdown()
		return nil, err
	}
	if c.Joystick >= 0 {
		js, err := joystick.Open(c.Joystick)
		if err != nil {
			drv.Shutdown()
			return nil, err
		}
		glog.Infof("joystick %q as keys", js.Name)
		var latch keys.Latch
		drv.Keypad = keys.Mux{drv.Keypad, &latch}
		drv.Runnables = append(drv.Runnables, fx.NamedRun("joystick", joystick.NewPad(js, &latch)))
	}
	if c.MirrorAddr != "" {
		m := mirror.New(c.MirrorAddr)
		drv.Panels = append(drv.Panels, m)
		drv.Runnables = append(drv.Runnables, fx.NamedRun("mirror", m))
	}
	return drv, nil
}

func (c *Config) openHardware(drv *Drivers) error {
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("host init: %w", err)
	}
	bus, err := i2creg.Open(c.I2CBus)
	if err != nil {
		return fmt.Errorf("open i2c %q: %w", c.I2CBus, err)
	}
	drv.Halters = append(drv.Halters, closeHalter{bus})

	panel, err := oled.Open(bus)
	if err != nil {
		return err
	}
	drv.Panels = append(drv.Panels, panel)

	conv, err := adc.OpenADS1115(bus)
	if err != nil {
		return err
	}
	drv.ADC = conv
	drv.Halters = append(drv.Halters, conv)

	if drv.Sensor, err = imu.OpenMPU9250(c.SPIPort, c.IMUChipSelect); err != nil {
		return err
	}

	var pins [4]string
	copy(pins[:], c.KeyPins)
	if drv.Keypad, err = keys.OpenKeypad(pins); err != nil {
		return err
	}

	var ledPins [led.NumLEDs]string
	copy(ledPins[:], c.LEDPins)
	pwm, err := led.OpenPWM(ledPins)
	if err != nil {
		return err
	}
	drv.LED = pwm
	drv.Halters = append(drv.Halters, pwm)
	return nil
}

func (c *Config) openSim(drv *Drivers) {
	glog.Info("using simulated sensors")
	drv.Sensor = imu.NewSim()
	drv.ADC = adc.NewSim(2048, 8)
	drv.LED = led.LogDriver{}
}

func (c *Config) openLinks(drv *Drivers) error {
	if c.SerialPort != "" {
		port, err := serial.Open(c.SerialPort, c.SerialBaud)
		if err != nil {
			return fmt.Errorf("open serial %q: %w", c.SerialPort, err)
		}
		drv.WiredRx = ingest.NewBuffer(ingest.DefaultBufferSize)
		port.Receiver = drv.WiredRx.Offer
		drv.Wired = port
		drv.Runnables = append(drv.Runnables, fx.NamedRun("serial", port))
	}
	if c.MQTTBrokerURL == "" {
		drv.Radio = &radio.Loopback{}
		return nil
	}
	q, err := mqtt.NewQueueFromURL(c.MQTTBrokerURL)
	if err != nil {
		return fmt.Errorf("wireless link: %w", err)
	}
	link := mqtt.NewLink(q, c.Identity)
	link.Group = c.PairGroup
	drv.WirelessRx = ingest.NewBuffer(ingest.DefaultBufferSize)
	link.Receiver = drv.WirelessRx.Offer
	drv.Radio, drv.Wireless = link, link
	drv.Runnables = append(drv.Runnables, fx.NamedRun("wireless", link))
	return nil
}

type closeHalter struct {
	c interface{ Close() error }
}

func (h closeHalter) Halt() error {
	return h.c.Close()
}
