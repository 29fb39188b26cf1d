// Package state holds the process-wide record shared by all device tasks.
//
// Every field has one designated writer. Writes go through capability
// types handed out once by New; the read side is the *State itself.
// All tasks run on the scheduler goroutine, other goroutines observe
// state only through a published Snapshot.
package state

import "time"

// Mode is the communication mode of the device.
type Mode int

// Modes
const (
	Standalone Mode = iota
	PeerSecondary
	PeerPrimary

	NumModes = 3
)

var modeNames = [NumModes]string{"standalone", "secondary", "primary"}

func (m Mode) String() string {
	if m >= 0 && m < NumModes {
		return modeNames[m]
	}
	return "unknown"
}

// IsValid checks the mode is one of the known modes.
func (m Mode) IsValid() bool {
	return m >= 0 && m < NumModes
}

// FrameKind selects the payload shape of uploads.
type FrameKind int

// Frame kinds
const (
	FrameBasic FrameKind = iota
	FrameSampling
	FrameProcessed

	NumFrameKinds = 3
)

var frameKindNames = [NumFrameKinds]string{"basic", "sampling", "processed"}

func (k FrameKind) String() string {
	if k >= 0 && k < NumFrameKinds {
		return frameKindNames[k]
	}
	return "unknown"
}

// Source identifies where a packet was received from.
type Source int

// Sources
const (
	SourceNone Source = iota
	SourceWired
	SourceWireless
)

func (s Source) String() string {
	switch s {
	case SourceWired:
		return "wired"
	case SourceWireless:
		return "wireless"
	}
	return "none"
}

// Attitude is the fused orientation in degrees.
type Attitude struct {
	Roll, Pitch, Yaw float64
}

// RawIMU holds raw accelerometer and gyroscope axes.
type RawIMU struct {
	AX, AY, AZ int16
	GX, GY, GZ int16
}

// LEDSettings configures the LED bank outside of test screens.
type LEDSettings struct {
	Type      int
	Speed     int
	Luminance int
	Mask      uint8
}

// Upload configures and accounts the standalone upload pipeline.
type Upload struct {
	Interval  time.Duration
	Kind      FrameKind
	SentCount int
	SentBytes int
}

// Receive accounts received packets.
type Receive struct {
	Count      int
	LastSource Source
}

// PeerTelemetry is the telemetry last received from a paired peer.
type PeerTelemetry struct {
	Attitude   Attitude
	VoltageRaw int
	Updated    time.Time
}

// Defaults
const (
	DefaultLEDSpeed = 9
)

// State is the shared record. Fields are read through accessors.
type State struct {
	attitude   Attitude
	rawIMU     RawIMU
	voltageRaw int

	pendingMode Mode
	activeMode  Mode

	remoteEnabled bool
	led           LEDSettings
	upload        Upload
	lastInterval  time.Duration
	receive       Receive

	peerIdentity   string
	handshakeCount int
	peer           PeerTelemetry
}

// Writers groups the write capabilities of State. Each one is meant to
// be handed to exactly one task.
type Writers struct {
	Sensor   *SensorWriter
	Analog   *AnalogWriter
	Settings *SettingsWriter
	Link     *LinkWriter
	Ingest   *IngestWriter
}

// New creates the State with startup defaults.
func New() (*State, Writers) {
	s := &State{
		led: LEDSettings{Speed: DefaultLEDSpeed},
	}
	return s, Writers{
		Sensor:   &SensorWriter{s: s},
		Analog:   &AnalogWriter{s: s},
		Settings: &SettingsWriter{s: s},
		Link:     &LinkWriter{s: s},
		Ingest:   &IngestWriter{s: s},
	}
}

// Attitude returns the last sampled attitude.
func (s *State) Attitude() Attitude { return s.attitude }

// RawIMU returns the last sampled raw axes.
func (s *State) RawIMU() RawIMU { return s.rawIMU }

// VoltageRaw returns the last averaged ADC value.
func (s *State) VoltageRaw() int { return s.voltageRaw }

// PendingMode returns the mode selected by the operator.
func (s *State) PendingMode() Mode { return s.pendingMode }

// ActiveMode returns the committed, running mode.
func (s *State) ActiveMode() Mode { return s.activeMode }

// RemoteEnabled reports whether remote key commands are accepted.
func (s *State) RemoteEnabled() bool { return s.remoteEnabled }

// LED returns the LED settings.
func (s *State) LED() LEDSettings { return s.led }

// Upload returns the upload settings and counters.
func (s *State) Upload() Upload { return s.upload }

// Receive returns the receive counters.
func (s *State) Receive() Receive { return s.receive }

// PeerIdentity returns the identity of the paired peer, empty if none.
func (s *State) PeerIdentity() string { return s.peerIdentity }

// HandshakeCount returns the number of handshakes since the last disconnection.
func (s *State) HandshakeCount() int { return s.handshakeCount }

// Peer returns telemetry received from the paired peer.
func (s *State) Peer() PeerTelemetry { return s.peer }
