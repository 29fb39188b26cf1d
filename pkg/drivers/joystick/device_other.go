//go:build !linux

package joystick

import "errors"

// Device is not available on this platform.
type Device struct {
	Name    string
	Axes    int
	Buttons int
}

// Open fails on platforms without /dev/input/js devices.
func Open(index int) (*Device, error) {
	return nil, errors.New("joystick is only supported on linux")
}

// Close implements Source.
func (d *Device) Close() error {
	return nil
}

// ReadEvent implements Source.
func (d *Device) ReadEvent() (Event, error) {
	return Event{}, errors.New("joystick is only supported on linux")
}
