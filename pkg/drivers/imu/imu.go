// Package imu provides inertial sensors for the attitude sampler.
package imu

import (
	"fmt"
	"math"
	"time"

	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/devices/v3/mpu9250"

	"github.com/robotalks/gyropad/pkg/sampler"
	"github.com/robotalks/gyropad/pkg/state"
)

// Tilt derives roll and pitch in degrees from accelerometer axes. Yaw
// is not observable without a magnetometer and is left 0.
func Tilt(ax, ay, az float64) state.Attitude {
	return state.Attitude{
		Roll:  math.Atan2(ay, az) * 180 / math.Pi,
		Pitch: math.Atan2(-ax, math.Sqrt(ay*ay+az*az)) * 180 / math.Pi,
	}
}

// MPU9250 reads an MPU9250 over SPI.
type MPU9250 struct {
	dev *mpu9250.MPU9250
}

// OpenMPU9250 opens the sensor on the SPI device with the chip select
// pin. The periph host must be initialized.
func OpenMPU9250(spiPath, csPin string) (*MPU9250, error) {
	cs := gpioreg.ByName(csPin)
	if cs == nil {
		return nil, fmt.Errorf("imu cs pin %q not found", csPin)
	}
	tr, err := mpu9250.NewSpiTransport(spiPath, cs)
	if err != nil {
		return nil, fmt.Errorf("imu spi transport: %w", err)
	}
	dev, err := mpu9250.New(tr)
	if err != nil {
		return nil, fmt.Errorf("imu device: %w", err)
	}
	if err := dev.Init(); err != nil {
		return nil, fmt.Errorf("imu init: %w", err)
	}
	if err := dev.Calibrate(); err != nil {
		return nil, fmt.Errorf("imu calibrate: %w", err)
	}
	return &MPU9250{dev: dev}, nil
}

// Sample implements sampler.Sensor.
func (m *MPU9250) Sample() (r sampler.Reading, err error) {
	reads := []struct {
		axis string
		fn   func() (int16, error)
		dst  *int16
	}{
		{"accel x", m.dev.GetAccelerationX, &r.Raw.AX},
		{"accel y", m.dev.GetAccelerationY, &r.Raw.AY},
		{"accel z", m.dev.GetAccelerationZ, &r.Raw.AZ},
		{"gyro x", m.dev.GetRotationX, &r.Raw.GX},
		{"gyro y", m.dev.GetRotationY, &r.Raw.GY},
		{"gyro z", m.dev.GetRotationZ, &r.Raw.GZ},
	}
	for _, rd := range reads {
		if *rd.dst, err = rd.fn(); err != nil {
			return r, fmt.Errorf("%s: %w", rd.axis, err)
		}
	}
	r.Attitude = Tilt(float64(r.Raw.AX), float64(r.Raw.AY), float64(r.Raw.AZ))
	return r, nil
}

// Sim is a simulated sensor slowly rocking around roll and pitch.
type Sim struct {
	Now func() time.Time
	// Period of a full swing.
	Period time.Duration
	// Amplitude of the swing in degrees.
	Amplitude float64

	start time.Time
}

// OneG is the raw accelerometer value of 1g at the default range.
const OneG = 16384

// NewSim creates a Sim.
func NewSim() *Sim {
	return &Sim{Now: time.Now, Period: 4 * time.Second, Amplitude: 30}
}

// Sample implements sampler.Sensor.
func (s *Sim) Sample() (sampler.Reading, error) {
	now := s.Now()
	if s.start.IsZero() {
		s.start = now
	}
	phase := 2 * math.Pi * float64(now.Sub(s.start)) / float64(s.Period)
	roll := s.Amplitude * math.Sin(phase) * math.Pi / 180
	pitch := s.Amplitude / 2 * math.Cos(phase) * math.Pi / 180

	ax := -math.Sin(pitch)
	ay := math.Cos(pitch) * math.Sin(roll)
	az := math.Cos(pitch) * math.Cos(roll)
	raw := state.RawIMU{
		AX: int16(ax * OneG),
		AY: int16(ay * OneG),
		AZ: int16(az * OneG),
	}
	return sampler.Reading{Raw: raw, Attitude: Tilt(ax, ay, az)}, nil
}
