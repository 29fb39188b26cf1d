// Package oled presents frames on an SSD1306 OLED.
package oled

import (
	"fmt"
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"

	"github.com/robotalks/gyropad/pkg/display"
)

// Device is the drawing surface, *ssd1306.Dev implements it.
type Device interface {
	Bounds() image.Rectangle
	Draw(r image.Rectangle, src image.Image, sp image.Point) error
}

// LinePitch is the vertical distance between text rows in pixels.
const LinePitch = 12

// Panel implements display.Panel.
type Panel struct {
	dev   Device
	img   *image1bit.VerticalLSB
	face  font.Face
	last  []string
	drawn bool
}

// Open opens the OLED at the default address on bus.
func Open(bus i2c.Bus) (*Panel, error) {
	dev, err := ssd1306.NewI2C(bus, &ssd1306.DefaultOpts)
	if err != nil {
		return nil, fmt.Errorf("ssd1306: %w", err)
	}
	return New(dev), nil
}

// New creates a Panel on a device.
func New(dev Device) *Panel {
	return &Panel{
		dev:  dev,
		img:  image1bit.NewVerticalLSB(dev.Bounds()),
		face: basicfont.Face7x13,
	}
}

// Image returns the last rendered image.
func (p *Panel) Image() image.Image {
	return p.img
}

// Present implements display.Panel. The device is only updated when
// the text changed.
func (p *Panel) Present(f *display.Frame) error {
	lines := f.Lines()
	if p.drawn && equalLines(lines, p.last) {
		return nil
	}
	p.render(lines)
	if err := p.dev.Draw(p.dev.Bounds(), p.img, image.Point{}); err != nil {
		p.drawn = false
		return fmt.Errorf("oled draw: %w", err)
	}
	p.last, p.drawn = lines, true
	return nil
}

func (p *Panel) render(lines []string) {
	bounds := p.img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			p.img.SetBit(x, y, image1bit.Off)
		}
	}
	ascent := p.face.Metrics().Ascent.Ceil()
	d := font.Drawer{
		Dst:  p.img,
		Src:  &image.Uniform{C: image1bit.On},
		Face: p.face,
	}
	for row, line := range lines {
		d.Dot = fixed.P(bounds.Min.X, bounds.Min.Y+ascent+row*LinePitch)
		d.DrawString(line)
	}
}

func equalLines(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for n := range a {
		if a[n] != b[n] {
			return false
		}
	}
	return true
}
