package keys

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
)

// DefaultLongPress is the hold time turning a press into a long press.
const DefaultLongPress = time.Second

// Keypad scans four active-low push buttons. Holding Next or Prev
// reports LongA or LongB once the hold time is reached.
type Keypad struct {
	LongPress time.Duration
	Now       func() time.Time

	pins    [4]gpio.PinIn
	pressed int
	since   time.Time
	longHit bool
}

var padCodes = [4]Code{Next, Prev, Confirm, Cancel}

var longCodes = map[Code]Code{Next: LongA, Prev: LongB}

// OpenKeypad opens the GPIO pins by name, in Next, Prev, Confirm,
// Cancel order. The periph host must be initialized.
func OpenKeypad(names [4]string) (*Keypad, error) {
	k := &Keypad{LongPress: DefaultLongPress, Now: time.Now, pressed: -1}
	for n, name := range names {
		p := gpioreg.ByName(name)
		if p == nil {
			return nil, fmt.Errorf("key pin %q not found", name)
		}
		if err := p.In(gpio.PullUp, gpio.NoEdge); err != nil {
			return nil, fmt.Errorf("key pin %q: %v", name, err)
		}
		k.pins[n] = p
	}
	return k, nil
}

// Scan implements Scanner.
func (k *Keypad) Scan() Code {
	now := k.Now()
	down := -1
	for n, p := range k.pins {
		if p.Read() == gpio.Low {
			down = n
			break
		}
	}
	return k.update(down, now)
}

// update runs the press state machine with the index of the pressed
// button, -1 if none.
func (k *Keypad) update(down int, now time.Time) Code {
	if down >= 0 {
		if k.pressed != down {
			k.pressed, k.since, k.longHit = down, now, false
			return None
		}
		if long, ok := longCodes[padCodes[down]]; ok && !k.longHit && now.Sub(k.since) >= k.LongPress {
			k.longHit = true
			return long
		}
		return None
	}
	if k.pressed < 0 {
		return None
	}
	code := padCodes[k.pressed]
	wasLong := k.longHit
	k.pressed, k.longHit = -1, false
	if wasLong {
		return None
	}
	return code
}
