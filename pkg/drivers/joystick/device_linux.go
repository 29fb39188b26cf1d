//go:build linux

package joystick

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"syscall"
	"unsafe"
)

const (
	iocGAXES    uint = 0x80016a11
	iocGBUTTONS uint = 0x80016a12
	iocGNAME    uint = 0x80ff6a13 // JSIOCGNAME(255)

	evINIT uint8 = 0x80
	evBTN  uint8 = 0x01
	evAXIS uint8 = 0x02
)

// Device is an opened /dev/input/js device.
type Device struct {
	Name    string
	Axes    int
	Buttons int

	file *os.File
}

// nameBuffer receives the device name, it must hold the length encoded
// in iocGNAME.
type nameBuffer [256]byte

type rawEvent struct {
	Time   uint32
	Value  int16
	Type   uint8
	Number uint8
}

// Open opens the joystick with index.
func Open(index int) (*Device, error) {
	f, err := os.OpenFile(fmt.Sprintf("/dev/input/js%d", index), os.O_RDONLY, 0)
	if err != nil {
		return nil, err
	}
	d := &Device{file: f}
	var axes, buttons uint8
	var name nameBuffer
	errno := d.ioctl(iocGAXES, unsafe.Pointer(&axes))
	if errno == 0 {
		errno = d.ioctl(iocGBUTTONS, unsafe.Pointer(&buttons))
	}
	if errno == 0 {
		errno = d.ioctl(iocGNAME, unsafe.Pointer(&name))
	}
	if errno != 0 {
		f.Close()
		return nil, fmt.Errorf("joystick %d: %w", index, errno)
	}
	d.Axes, d.Buttons = int(axes), int(buttons)
	if pos := bytes.IndexByte(name[:], 0); pos >= 0 {
		d.Name = string(name[:pos])
	}
	return d, nil
}

// Close implements Source.
func (d *Device) Close() error {
	return d.file.Close()
}

// ReadEvent implements Source.
func (d *Device) ReadEvent() (Event, error) {
	var ev rawEvent
	if err := binary.Read(d.file, binary.LittleEndian, &ev); err != nil {
		return Event{}, err
	}
	return Event{
		Init:  ev.Type&evINIT != 0,
		Axis:  ev.Type&evAXIS != 0 && ev.Type&evBTN == 0,
		Index: int(ev.Number),
		Value: int(ev.Value),
	}, nil
}

func (d *Device) ioctl(req uint, ptr unsafe.Pointer) syscall.Errno {
	_, _, errno := syscall.Syscall(syscall.SYS_IOCTL, d.file.Fd(), uintptr(req), uintptr(ptr))
	return errno
}
