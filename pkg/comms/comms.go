// Package comms implements the communication task: standalone uploads,
// peer exchange and mode commit.
package comms

import (
	"fmt"
	"time"

	"github.com/golang/glog"
	"github.com/golang/protobuf/proto"

	fx "github.com/robotalks/gyropad/pkg/framework"
	"github.com/robotalks/gyropad/pkg/protocol"
	"github.com/robotalks/gyropad/pkg/protocol/pb"
	"github.com/robotalks/gyropad/pkg/radio"
	"github.com/robotalks/gyropad/pkg/state"
)

// Transport sends encoded frames.
type Transport interface {
	SendFrame(*protocol.Frame) (int, error)
}

// SendFunc is the func form of Transport.
type SendFunc func(*protocol.Frame) (int, error)

// SendFrame implements Transport.
func (f SendFunc) SendFrame(frame *protocol.Frame) (int, error) {
	return f(frame)
}

// MaxCatchUp limits frames sent in one cycle after the scheduler stalled.
const MaxCatchUp = 4

// Dispatcher is the communication task.
type Dispatcher struct {
	Wired    Transport
	Wireless Transport
	Radio    radio.Radio
	Identity string

	state *state.State
	link  *state.LinkWriter

	started       time.Time
	uploading     bool
	nextDue       time.Time
	disconnection int
}

// New creates the Dispatcher. It takes ownership of the link writer.
func New(s *state.State, w *state.LinkWriter) *Dispatcher {
	return &Dispatcher{state: s, link: w}
}

// Disconnections is the number of peer disconnections handled.
func (d *Dispatcher) Disconnections() int {
	return d.disconnection
}

// Control implements Controller.
func (d *Dispatcher) Control(cc fx.ControlContext) error {
	now := cc.Time()
	if d.started.IsZero() {
		d.started = now
	}
	d.checkLink()
	if d.state.ActiveMode() == state.Standalone {
		return d.upload(now)
	}
	d.uploading = false
	return d.exchange(now)
}

func (d *Dispatcher) checkLink() {
	if d.Radio == nil || d.Radio.LinkStatus() {
		return
	}
	if peer := d.state.PeerIdentity(); peer != "" && d.link.ClearPeer() {
		d.disconnection++
		glog.Warningf("peer %s disconnected", peer)
	}
}

func (d *Dispatcher) uploadEnabled() bool {
	return d.state.ActiveMode() == state.Standalone && d.state.Upload().Interval > 0
}

// upload runs the standalone upload loop. The first frame is due one
// interval after the loop starts, mode and interval are checked again
// before every frame.
func (d *Dispatcher) upload(now time.Time) error {
	if !d.uploadEnabled() {
		d.uploading = false
		return nil
	}
	if !d.uploading {
		d.uploading = true
		d.nextDue = now.Add(d.state.Upload().Interval)
		return nil
	}
	for n := 0; d.uploadEnabled() && !now.Before(d.nextDue); n++ {
		if n >= MaxCatchUp {
			glog.V(2).Infof("upload behind schedule, skip to %v", now)
			d.nextDue = now.Add(d.state.Upload().Interval)
			break
		}
		d.nextDue = d.nextDue.Add(d.state.Upload().Interval)
		up := d.state.Upload()
		f, err := d.frame(up.Kind, now)
		if err != nil {
			return err
		}
		if err := d.send(d.Wired, f); err != nil {
			return err
		}
	}
	return nil
}

// exchange runs the peer loop, nothing is sent while the link is down.
func (d *Dispatcher) exchange(now time.Time) error {
	if d.Radio != nil && !d.Radio.LinkStatus() {
		return nil
	}
	if d.state.PeerIdentity() == "" {
		f, err := protocol.Encode(protocol.CmdIdentity, &pb.Identity{Name: d.Identity})
		if err != nil {
			return err
		}
		return d.send(d.Wireless, f)
	}
	if d.state.ActiveMode() != state.PeerSecondary {
		return nil
	}
	f, err := d.frame(state.FrameProcessed, now)
	if err != nil {
		return err
	}
	return d.send(d.Wireless, f)
}

func (d *Dispatcher) send(t Transport, f *protocol.Frame) error {
	if t == nil {
		return nil
	}
	n, err := t.SendFrame(f)
	if err != nil {
		return fmt.Errorf("send %s: %v", f.Cmd, err)
	}
	d.link.AddSent(n)
	glog.V(3).Infof("SEND %s %d bytes", f.Cmd, n)
	return nil
}

func (d *Dispatcher) frame(kind state.FrameKind, now time.Time) (*protocol.Frame, error) {
	cmd, ok := protocol.CommandOf(kind)
	if !ok {
		return nil, fmt.Errorf("invalid frame kind %d", kind)
	}
	var msg proto.Message
	switch kind {
	case state.FrameBasic:
		msg = &pb.BasicStatus{
			Identity:   d.Identity,
			Mode:       int32(d.state.ActiveMode()),
			VoltageRaw: int32(d.state.VoltageRaw()),
			UptimeMs:   uint32(now.Sub(d.started) / time.Millisecond),
		}
	case state.FrameSampling:
		raw := d.state.RawIMU()
		msg = &pb.SamplingData{
			VoltageRaw: int32(d.state.VoltageRaw()),
			Ax:         int32(raw.AX),
			Ay:         int32(raw.AY),
			Az:         int32(raw.AZ),
			Gx:         int32(raw.GX),
			Gy:         int32(raw.GY),
			Gz:         int32(raw.GZ),
		}
	default:
		att := d.state.Attitude()
		msg = &pb.ProcessedData{
			VoltageRaw: int32(d.state.VoltageRaw()),
			Roll:       float32(att.Roll),
			Pitch:      float32(att.Pitch),
			Yaw:        float32(att.Yaw),
		}
	}
	return protocol.Encode(cmd, msg)
}

// Commit switches the active mode. The upload interval is cleared before
// the radio changes role, then exactly one role operation runs. The
// active mode is left unchanged if the radio fails.
func (d *Dispatcher) Commit(w *state.SettingsWriter, m state.Mode) error {
	if !m.IsValid() {
		return fmt.Errorf("invalid mode %d", m)
	}
	w.SetUploadInterval(0)
	d.uploading = false
	if d.Radio != nil {
		var err error
		switch m {
		case state.PeerSecondary:
			err = d.Radio.SwitchToSecondary()
		case state.PeerPrimary:
			err = d.Radio.SwitchToPrimary()
		default:
			err = d.Radio.InitDefault()
		}
		if err != nil {
			return fmt.Errorf("switch to %s: %v", m, err)
		}
	}
	w.SetActiveMode(m)
	glog.Infof("mode %s committed", m)
	return nil
}
