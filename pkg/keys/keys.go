// Package keys provides key codes and key scanners.
package keys

import (
	"fmt"
	"sync/atomic"
)

// Code is a semantic key code, 0 means no key.
type Code int

// Key codes
const (
	None Code = iota
	Next
	Prev
	Confirm
	Cancel
	LongA
	LongB
)

var codeNames = map[Code]string{
	None:    "none",
	Next:    "next",
	Prev:    "prev",
	Confirm: "confirm",
	Cancel:  "cancel",
	LongA:   "long-a",
	LongB:   "long-b",
}

func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("key(%d)", int(c))
}

// IsValid checks c is a recognized non-zero code.
func (c Code) IsValid() bool {
	return c >= Next && c <= LongB
}

// ParseCode parses a key name as printed by String.
func ParseCode(name string) (Code, error) {
	for code, n := range codeNames {
		if n == name && code != None {
			return code, nil
		}
	}
	return None, fmt.Errorf("unknown key %q", name)
}

// Scanner is polled once per input cycle.
type Scanner interface {
	Scan() Code
}

// Latch is a single-slot key register. A press overwrites any key not
// yet scanned, so keys are never queued.
type Latch struct {
	code atomic.Int32
}

// Press stores a key, invalid codes are ignored.
func (l *Latch) Press(c Code) {
	if c.IsValid() {
		l.code.Store(int32(c))
	}
}

// Scan implements Scanner and clears the latch.
func (l *Latch) Scan() Code {
	return Code(l.code.Swap(int32(None)))
}

// Mux scans several scanners and returns the first key found.
type Mux []Scanner

// Scan implements Scanner.
func (m Mux) Scan() Code {
	for _, s := range m {
		if s == nil {
			continue
		}
		if c := s.Scan(); c != None {
			return c
		}
	}
	return None
}
