package state

import "time"

// SensorWriter is owned by the attitude sampler.
type SensorWriter struct{ s *State }

// SetSample stores a sensor sample.
func (w *SensorWriter) SetSample(raw RawIMU, att Attitude) {
	w.s.rawIMU, w.s.attitude = raw, att
}

// AnalogWriter is owned by the analog sampler.
type AnalogWriter struct{ s *State }

// SetVoltageRaw stores the averaged ADC value.
func (w *AnalogWriter) SetVoltageRaw(v int) {
	w.s.voltageRaw = v
}

// SettingsWriter is owned by the input interpreter.
type SettingsWriter struct{ s *State }

// SetPendingMode records the operator's intended mode.
func (w *SettingsWriter) SetPendingMode(m Mode) {
	if m.IsValid() {
		w.s.pendingMode = m
	}
}

// SetActiveMode commits a mode. Only the menu commit action calls this.
func (w *SettingsWriter) SetActiveMode(m Mode) {
	if m.IsValid() {
		w.s.activeMode = m
	}
}

// SetRemoteEnabled switches remote control.
func (w *SettingsWriter) SetRemoteEnabled(en bool) {
	w.s.remoteEnabled = en
}

// SetUploadInterval sets the standalone upload interval, 0 stops uploads.
func (w *SettingsWriter) SetUploadInterval(d time.Duration) {
	if d < 0 {
		d = 0
	}
	if d > 0 {
		w.s.lastInterval = d
	}
	w.s.upload.Interval = d
}

// LastUploadInterval returns the most recent non-zero interval.
func (w *SettingsWriter) LastUploadInterval() time.Duration {
	return w.s.lastInterval
}

// SetFrameKind selects the upload frame kind.
func (w *SettingsWriter) SetFrameKind(k FrameKind) {
	if k >= 0 && k < NumFrameKinds {
		w.s.upload.Kind = k
	}
}

// LinkWriter is owned by the communication dispatcher.
type LinkWriter struct{ s *State }

// AddSent accounts one transmitted frame of n bytes.
func (w *LinkWriter) AddSent(n int) {
	w.s.upload.SentCount++
	w.s.upload.SentBytes += n
}

// ClearPeer forgets the paired peer. It reports whether there was one.
func (w *LinkWriter) ClearPeer() bool {
	if w.s.peerIdentity == "" {
		return false
	}
	w.s.peerIdentity = ""
	w.s.handshakeCount = 0
	w.s.peer = PeerTelemetry{}
	return true
}

// IngestWriter is owned by packet ingest.
type IngestWriter struct{ s *State }

// AddReceived accounts n consumed bytes from src.
func (w *IngestWriter) AddReceived(n int, src Source) {
	w.s.receive.Count += n
	w.s.receive.LastSource = src
}

// EstablishPeer records a handshake from a peer.
func (w *IngestWriter) EstablishPeer(identity string) {
	w.s.peerIdentity = identity
	w.s.handshakeCount++
}

// SetLED stores LED settings received from a remote.
func (w *IngestWriter) SetLED(led LEDSettings) {
	w.s.led = led
}

// SetPeerTelemetry stores telemetry received from the paired peer.
func (w *IngestWriter) SetPeerTelemetry(t PeerTelemetry) {
	w.s.peer = t
}
