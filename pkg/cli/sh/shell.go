// Package sh provides the operator console: key presses and status
// inspection of a running device.
package sh

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"

	"github.com/abiosoft/ishell"

	fx "github.com/robotalks/gyropad/pkg/framework"
	"github.com/robotalks/gyropad/pkg/keys"
	"github.com/robotalks/gyropad/pkg/state"
)

// Shell provides ishell backed interactive console.
type Shell struct {
	// OutputJSON is the default of status -json.
	OutputJSON bool

	Shell *ishell.Shell
	// Keys receives key presses.
	Keys *keys.Latch
	// Status returns the latest snapshot, nil if not available yet.
	Status func() *state.Snapshot
}

const (
	shellKey = "$shell"
	prompt   = "gyropad > "
)

var commands = []*ishell.Cmd{
	&PressCmd,
	&StatusCmd,
}

func init() {
	for _, code := range []keys.Code{keys.Next, keys.Prev, keys.Confirm, keys.Cancel, keys.LongA, keys.LongB} {
		commands = append(commands, keyCmd(code))
	}
}

// New creates a new console.
func New(latch *keys.Latch, status func() *state.Snapshot) *Shell {
	s := &Shell{
		Shell:  ishell.New(),
		Keys:   latch,
		Status: status,
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(prompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// Press presses a key by name.
func (s *Shell) Press(name string) error {
	code, err := keys.ParseCode(name)
	if err != nil {
		return err
	}
	s.Keys.Press(code)
	return nil
}

// FormatStatus prints a snapshot for display.
func FormatStatus(snap *state.Snapshot) string {
	var w bytes.Buffer
	link := "down"
	if snap.LinkUp {
		link = "up"
	}
	fmt.Fprintf(&w, "mode     %s (pending %s) link %s\n", snap.ActiveMode, snap.PendingMode, link)
	if snap.Menu.Root {
		fmt.Fprintf(&w, "menu     root page %d\n", snap.Menu.Page)
	} else {
		fmt.Fprintf(&w, "menu     %s\n", snap.Menu.Screen)
	}
	fmt.Fprintf(&w, "attitude roll %.1f pitch %.1f yaw %.1f\n",
		snap.Attitude.Roll, snap.Attitude.Pitch, snap.Attitude.Yaw)
	fmt.Fprintf(&w, "voltage  %d\n", snap.VoltageRaw)
	interval := "off"
	if snap.Upload.Interval > 0 {
		interval = snap.Upload.Interval.String()
	}
	fmt.Fprintf(&w, "upload   %s %s, sent %d (%d bytes)\n",
		interval, snap.Upload.Kind, snap.Upload.SentCount, snap.Upload.SentBytes)
	fmt.Fprintf(&w, "receive  %d bytes, last %s\n", snap.Receive.Count, snap.Receive.LastSource)
	if snap.PeerIdentity != "" {
		fmt.Fprintf(&w, "peer     %s (handshakes %d)\n", snap.PeerIdentity, snap.HandshakeCount)
	}
	return w.String()
}

// StatusText formats the latest snapshot according to the status
// command arguments.
func (s *Shell) StatusText(args []string) (string, error) {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	asJSON := fs.Bool("json", s.OutputJSON, "print in JSON")
	if err := fs.Parse(args); err != nil {
		return "", err
	}
	if fs.NArg() > 0 {
		return "", fmt.Errorf("unexpected argument %q", fs.Arg(0))
	}
	snap := s.Status()
	if snap == nil {
		return "", fmt.Errorf("not running")
	}
	if !*asJSON {
		return FormatStatus(snap), nil
	}
	out, err := json.Marshal(snap)
	if err != nil {
		return "", err
	}
	return string(out) + "\n", nil
}

// PrintStatus prints the latest snapshot.
func (s *Shell) PrintStatus(c *ishell.Context) error {
	text, err := s.StatusText(c.Args)
	if err != nil {
		return err
	}
	c.Print(text)
	return nil
}

// Run runs the interactive console until the operator exits or ctx is
// done.
func (s *Shell) Run(ctx context.Context) error {
	return fx.RunWithContextCancel(ctx, s.Shell.Close, func() error {
		s.Shell.Run()
		return nil
	})
}

func keyCmd(code keys.Code) *ishell.Cmd {
	return &ishell.Cmd{
		Name: code.String(),
		Help: "press " + code.String(),
		Func: func(c *ishell.Context) {
			ShellFrom(c).Keys.Press(code)
		},
	}
}

var (
	// PressCmd presses a key by name.
	PressCmd = ishell.Cmd{
		Name:    "press",
		Aliases: []string{"p"},
		Help:    "KEY",
		Func: func(c *ishell.Context) {
			if len(c.Args) != 1 {
				c.Err(fmt.Errorf("expect exactly one key"))
				return
			}
			if err := ShellFrom(c).Press(c.Args[0]); err != nil {
				c.Err(err)
			}
		},
	}

	// StatusCmd prints device status.
	StatusCmd = ishell.Cmd{
		Name:    "status",
		Aliases: []string{"s"},
		Help:    "[-json]",
		Func: func(c *ishell.Context) {
			if err := ShellFrom(c).PrintStatus(c); err != nil {
				c.Err(err)
			}
		},
	}
)
