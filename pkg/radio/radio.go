// Package radio defines the wireless link driver.
package radio

import "errors"

// Role is the pairing role of the wireless link.
type Role int

// Roles
const (
	RoleDefault Role = iota
	RoleSecondary
	RolePrimary
)

func (r Role) String() string {
	switch r {
	case RoleSecondary:
		return "secondary"
	case RolePrimary:
		return "primary"
	}
	return "default"
}

// ErrNotConnected indicates the link is down.
var ErrNotConnected = errors.New("link not connected")

// Radio controls the wireless module.
type Radio interface {
	// InitDefault restores the unpaired broadcast role.
	InitDefault() error
	// SwitchToSecondary pairs as the secondary.
	SwitchToSecondary() error
	// SwitchToPrimary pairs as the primary.
	SwitchToPrimary() error
	// LinkStatus reports whether the link is up.
	LinkStatus() bool
}

// Loopback is an in-process Radio which only tracks the role.
type Loopback struct {
	Role Role
	Down bool
}

// InitDefault implements Radio.
func (l *Loopback) InitDefault() error {
	l.Role = RoleDefault
	return nil
}

// SwitchToSecondary implements Radio.
func (l *Loopback) SwitchToSecondary() error {
	l.Role = RoleSecondary
	return nil
}

// SwitchToPrimary implements Radio.
func (l *Loopback) SwitchToPrimary() error {
	l.Role = RolePrimary
	return nil
}

// LinkStatus implements Radio.
func (l *Loopback) LinkStatus() bool {
	return !l.Down
}
