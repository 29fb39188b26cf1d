package ingest

import (
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/gyropad/pkg/keys"
	"github.com/robotalks/gyropad/pkg/protocol"
	"github.com/robotalks/gyropad/pkg/protocol/pb"
	"github.com/robotalks/gyropad/pkg/state"
)

// Handler is the Parser for protocol frames.
type Handler struct {
	// Remote receives key presses from remote key commands.
	Remote *keys.Latch
	Now    func() time.Time

	state  *state.State
	writer *state.IngestWriter
}

// NewHandler creates a Handler.
func NewHandler(s *state.State, w *state.IngestWriter) *Handler {
	return &Handler{Now: time.Now, state: s, writer: w}
}

// Parse implements Parser.
func (h *Handler) Parse(src state.Source, buf []byte) Result {
	f, n, err := protocol.Parse(buf)
	if err == protocol.ErrIncomplete {
		return Result{Status: Incomplete}
	}
	if err != nil {
		glog.V(2).Infof("%s: %v", src, err)
		return Result{Status: Invalid}
	}
	msg, err := f.Message()
	if err != nil {
		glog.V(2).Infof("%s: %v", src, err)
		return Result{Status: Invalid}
	}
	if glog.V(3) {
		glog.Infof("%s: RECV %s %v", src, f.Cmd, msg)
	}
	h.handle(src, msg)
	return Result{Status: Valid, Consumed: n}
}

func (h *Handler) handle(src state.Source, msg interface{}) {
	switch m := msg.(type) {
	case *pb.Identity:
		if h.state.ActiveMode() == state.Standalone || m.Name == "" {
			return
		}
		if h.state.PeerIdentity() != m.Name {
			glog.Infof("paired with %s", m.Name)
		}
		h.writer.EstablishPeer(m.Name)
	case *pb.LEDSettings:
		h.writer.SetLED(state.LEDSettings{
			Type:      int(m.Type),
			Speed:     int(m.Speed),
			Luminance: int(m.Luminance),
			Mask:      uint8(m.Mask),
		})
	case *pb.RemoteKey:
		if h.Remote != nil && h.state.RemoteEnabled() {
			h.Remote.Press(keys.Code(m.Code))
		}
	case *pb.ProcessedData:
		if src != state.SourceWireless || h.state.ActiveMode() != state.PeerPrimary {
			return
		}
		h.writer.SetPeerTelemetry(state.PeerTelemetry{
			Attitude: state.Attitude{
				Roll:  float64(m.Roll),
				Pitch: float64(m.Pitch),
				Yaw:   float64(m.Yaw),
			},
			VoltageRaw: int(m.VoltageRaw),
			Updated:    h.Now(),
		})
	}
}
