// Package adc provides analog inputs for the analog sampler.
package adc

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/golang/glog"
	"periph.io/x/conn/v3/analog"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/ads1x15"
)

// NumChannels is the number of single-ended channels.
const NumChannels = 4

// ADS1115 reads single-ended channels of an ADS1115 over I2C.
type ADS1115 struct {
	MaxVoltage physic.ElectricPotential
	Rate       physic.Frequency

	dev  *ads1x15.Dev
	pins [NumChannels]analog.PinADC
	lock sync.Mutex
}

// OpenADS1115 opens the converter at the default address on bus.
func OpenADS1115(bus i2c.Bus) (*ADS1115, error) {
	dev, err := ads1x15.NewADS1115(bus, &ads1x15.DefaultOpts)
	if err != nil {
		return nil, fmt.Errorf("ads1115: %w", err)
	}
	return &ADS1115{
		MaxVoltage: 3300 * physic.MilliVolt,
		Rate:       128 * physic.Hertz,
		dev:        dev,
	}, nil
}

func (a *ADS1115) pin(channel int) (analog.PinADC, error) {
	if channel < 0 || channel >= NumChannels {
		return nil, fmt.Errorf("invalid channel %d", channel)
	}
	if p := a.pins[channel]; p != nil {
		return p, nil
	}
	p, err := a.dev.PinForChannel(ads1x15.Channel0+ads1x15.Channel(channel), a.MaxVoltage, a.Rate, ads1x15.BestQuality)
	if err != nil {
		return nil, fmt.Errorf("channel %d: %w", channel, err)
	}
	a.pins[channel] = p
	return p, nil
}

// Average implements sampler.ADC.
func (a *ADS1115) Average(channel, n int) (int, error) {
	a.lock.Lock()
	defer a.lock.Unlock()
	p, err := a.pin(channel)
	if err != nil {
		return 0, err
	}
	return average(n, func() (int, error) {
		s, err := p.Read()
		return int(s.Raw), err
	})
}

// Halt releases the converter.
func (a *ADS1115) Halt() error {
	a.lock.Lock()
	defer a.lock.Unlock()
	for n, p := range a.pins {
		if p != nil {
			if err := p.Halt(); err != nil {
				glog.Warningf("halt ADC channel %d: %v", n, err)
			}
			a.pins[n] = nil
		}
	}
	return a.dev.Halt()
}

func average(n int, read func() (int, error)) (int, error) {
	if n <= 0 {
		n = 1
	}
	sum := 0
	for i := 0; i < n; i++ {
		v, err := read()
		if err != nil {
			return 0, err
		}
		sum += v
	}
	return sum / n, nil
}

// Sim is a simulated converter returning Value with uniform noise of
// up to Noise counts.
type Sim struct {
	Value int
	Noise int

	rnd *rand.Rand
}

// NewSim creates a Sim.
func NewSim(value, noise int) *Sim {
	return &Sim{Value: value, Noise: noise, rnd: rand.New(rand.NewSource(1))}
}

// Average implements sampler.ADC.
func (s *Sim) Average(channel, n int) (int, error) {
	if channel < 0 || channel >= NumChannels {
		return 0, fmt.Errorf("invalid channel %d", channel)
	}
	return average(n, func() (int, error) {
		if s.Noise <= 0 {
			return s.Value, nil
		}
		return s.Value + s.rnd.Intn(2*s.Noise+1) - s.Noise, nil
	})
}
