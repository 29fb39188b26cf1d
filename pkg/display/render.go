package display

import (
	"fmt"

	"github.com/robotalks/gyropad/pkg/led"
	"github.com/robotalks/gyropad/pkg/menu"
	"github.com/robotalks/gyropad/pkg/state"
)

// View is what renderers draw from.
type View struct {
	State  *state.State
	Model  *menu.Model
	LinkUp bool
}

// RenderFunc draws a screen into the frame.
type RenderFunc func(*Frame, *View)

// Renderers maps every Screen to a renderer.
type Renderers [menu.NumScreens]RenderFunc

// StaticRenderers draw the fixed parts of screens. Every screen has one.
var StaticRenderers = Renderers{
	menu.ScreenRoot:            renderRoot,
	menu.ScreenSysTestLED:      title("LED test", "flowing light"),
	menu.ScreenSysTestIMU:      title("IMU raw", "accel", "", "gyro"),
	menu.ScreenSysTestAttitude: title("Attitude", "roll", "pitch", "yaw"),
	menu.ScreenSysTestVoltage:  title("Voltage", "raw"),
	menu.ScreenAttitudeLED:     title("Attitude LED", "roll", "pitch", "yaw"),
	menu.ScreenUploadSettings:  title("Upload", "every", "frame"),
	menu.ScreenUploadCounters:  title("Counters", "sent", "bytes", "recv"),
	menu.ScreenLinkMode:        title("Link mode", "", "active", "peer"),
	menu.ScreenRemoteSwitch:    title("Remote", "control"),
	menu.ScreenRemoteStatus:    title("Remote status", "led", "speed", "lum"),
}

// DynamicRenderers draw the live values of screens. The root screen is
// static only.
var DynamicRenderers = Renderers{
	menu.ScreenSysTestLED:      renderLEDTest,
	menu.ScreenSysTestIMU:      renderIMU,
	menu.ScreenSysTestAttitude: renderAttitude,
	menu.ScreenSysTestVoltage:  renderVoltage,
	menu.ScreenAttitudeLED:     renderAttitudeLED,
	menu.ScreenUploadSettings:  renderUploadSettings,
	menu.ScreenUploadCounters:  renderUploadCounters,
	menu.ScreenLinkMode:        renderLinkMode,
	menu.ScreenRemoteSwitch:    renderRemoteSwitch,
	menu.ScreenRemoteStatus:    renderRemoteStatus,
}

// Validate checks the tables cover every screen.
func Validate(statics, dynamics *Renderers) error {
	for s := menu.ScreenRoot; s < menu.NumScreens; s++ {
		if statics[s] == nil {
			return fmt.Errorf("no static renderer for %s", s)
		}
		if s != menu.ScreenRoot && dynamics[s] == nil {
			return fmt.Errorf("no dynamic renderer for %s", s)
		}
	}
	return nil
}

// valueCol is where values start right of the labels.
const valueCol = 7

func title(heading string, labels ...string) RenderFunc {
	return func(f *Frame, v *View) {
		f.Print(0, 0, heading)
		for n, label := range labels {
			f.Print(n+1, 0, label)
		}
	}
}

func renderRoot(f *Frame, v *View) {
	for n, t := range menu.PageTitles {
		marker := "  "
		if n == v.Model.Page() {
			marker = "> "
		}
		f.Print(n, 0, marker+t)
	}
}

func renderLEDTest(f *Frame, v *View) {
	f.ClearRow(2, 0)
	f.Printf(2, 0, "speed %d", v.State.LED().Speed)
}

func renderIMU(f *Frame, v *View) {
	raw := v.State.RawIMU()
	f.Printf(2, 0, "%6d%6d%6d", raw.AX, raw.AY, raw.AZ)
	f.Printf(4, 0, "%6d%6d%6d", raw.GX, raw.GY, raw.GZ)
}

func printAttitude(f *Frame, att state.Attitude) {
	f.Printf(1, valueCol, "%8.1f", att.Roll)
	f.Printf(2, valueCol, "%8.1f", att.Pitch)
	f.Printf(3, valueCol, "%8.1f", att.Yaw)
}

func renderAttitude(f *Frame, v *View) {
	printAttitude(f, v.State.Attitude())
}

func renderVoltage(f *Frame, v *View) {
	f.Printf(1, valueCol, "%8d", v.State.VoltageRaw())
}

func renderAttitudeLED(f *Frame, v *View) {
	att := v.State.Attitude()
	f.Printf(1, valueCol, "%8.1f %3d%%", att.Roll, led.AngleLuminance(att.Roll))
	f.Printf(2, valueCol, "%8.1f %3d%%", att.Pitch, led.AngleLuminance(att.Pitch))
	f.Printf(3, valueCol, "%8.1f %3d%%", att.Yaw, led.AngleLuminance(att.Yaw))
}

func renderUploadSettings(f *Frame, v *View) {
	up := v.State.Upload()
	f.ClearRow(1, valueCol)
	if up.Interval > 0 {
		f.Printf(1, valueCol, "%dms", up.Interval.Milliseconds())
	} else {
		f.Print(1, valueCol, "off")
	}
	f.ClearRow(2, valueCol)
	f.Print(2, valueCol, up.Kind.String())
}

func renderUploadCounters(f *Frame, v *View) {
	up, recv := v.State.Upload(), v.State.Receive()
	f.Printf(1, valueCol, "%11d", up.SentCount)
	f.Printf(2, valueCol, "%11d", up.SentBytes)
	f.Printf(3, valueCol, "%11d", recv.Count)
	f.ClearRow(4, 0)
	f.Printf(4, 0, "last %s", recv.LastSource)
}

func renderLinkMode(f *Frame, v *View) {
	f.ClearRow(1, 0)
	f.Printf(1, 0, "< %s >", v.State.PendingMode())
	f.ClearRow(2, valueCol)
	f.Print(2, valueCol, v.State.ActiveMode().String())
	f.ClearRow(3, valueCol)
	if peer := v.State.PeerIdentity(); peer != "" {
		f.Printf(3, valueCol, "%s", peer)
	} else {
		f.Print(3, valueCol, "-")
	}
	f.ClearRow(4, 0)
	link := "down"
	if v.LinkUp {
		link = "up"
	}
	f.Printf(4, 0, "link %s hs %d", link, v.State.HandshakeCount())
}

func renderRemoteSwitch(f *Frame, v *View) {
	f.ClearRow(1, valueCol+1)
	if v.State.RemoteEnabled() {
		f.Print(1, valueCol+1, "on")
	} else {
		f.Print(1, valueCol+1, "off")
	}
}

func renderRemoteStatus(f *Frame, v *View) {
	led := v.State.LED()
	f.Printf(1, valueCol, "%4d %02x", led.Type, led.Mask)
	f.Printf(2, valueCol, "%4d", led.Speed)
	f.Printf(3, valueCol, "%4d", led.Luminance)
	f.ClearRow(4, 0)
	if peer := v.State.Peer(); !peer.Updated.IsZero() {
		f.Printf(4, 0, "%5.0f%5.0f%5.0f", peer.Attitude.Roll, peer.Attitude.Pitch, peer.Attitude.Yaw)
	}
}
