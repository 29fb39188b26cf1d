package state

import (
	"sync/atomic"
	"time"
)

// MenuPosition is a copy of the navigation state.
type MenuPosition struct {
	Root    bool
	Depth   int
	Page    int
	SubPage int
	Screen  string
}

// Snapshot is an immutable copy of State, safe to read from any goroutine.
type Snapshot struct {
	Time           time.Time
	Attitude       Attitude
	RawIMU         RawIMU
	VoltageRaw     int
	PendingMode    Mode
	ActiveMode     Mode
	RemoteEnabled  bool
	LED            LEDSettings
	Upload         Upload
	Receive        Receive
	PeerIdentity   string
	HandshakeCount int
	Peer           PeerTelemetry
	Menu           MenuPosition
	LinkUp         bool
}

// Snapshot copies the state.
func (s *State) Snapshot(now time.Time) *Snapshot {
	return &Snapshot{
		Time:           now,
		Attitude:       s.attitude,
		RawIMU:         s.rawIMU,
		VoltageRaw:     s.voltageRaw,
		PendingMode:    s.pendingMode,
		ActiveMode:     s.activeMode,
		RemoteEnabled:  s.remoteEnabled,
		LED:            s.led,
		Upload:         s.upload,
		Receive:        s.receive,
		PeerIdentity:   s.peerIdentity,
		HandshakeCount: s.handshakeCount,
		Peer:           s.peer,
	}
}

// Board publishes the latest Snapshot.
type Board struct {
	latest atomic.Pointer[Snapshot]
}

// Publish replaces the latest snapshot.
func (b *Board) Publish(snap *Snapshot) {
	b.latest.Store(snap)
}

// Latest returns the latest snapshot or nil if nothing was published yet.
func (b *Board) Latest() *Snapshot {
	return b.latest.Load()
}
