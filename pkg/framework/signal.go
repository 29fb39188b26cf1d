package framework

// Signal is a saturating single-slot notification. Any number of
// raises between two takes collapse into one.
type Signal struct {
	ch chan struct{}
}

// NewSignal creates a Signal.
func NewSignal() *Signal {
	return &Signal{ch: make(chan struct{}, 1)}
}

// Raise marks the signal pending. It never blocks.
func (s *Signal) Raise() {
	select {
	case s.ch <- struct{}{}:
	default:
	}
}

// Take consumes the pending signal, reporting whether one was pending.
func (s *Signal) Take() bool {
	select {
	case <-s.ch:
		return true
	default:
		return false
	}
}
