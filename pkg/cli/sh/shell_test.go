package sh

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/gyropad/pkg/keys"
	"github.com/robotalks/gyropad/pkg/state"
)

func TestPress(t *testing.T) {
	var latch keys.Latch
	s := &Shell{Keys: &latch}
	require.NoError(t, s.Press("long-a"))
	require.Equal(t, keys.LongA, latch.Scan())
	require.Error(t, s.Press("up"))
	require.Equal(t, keys.None, latch.Scan())
}

func TestFormatStatus(t *testing.T) {
	testCases := []struct {
		name     string
		snap     state.Snapshot
		contains []string
		absent   []string
	}{
		{
			name: "root",
			snap: state.Snapshot{Menu: state.MenuPosition{Root: true, Page: 2}, VoltageRaw: 1234},
			contains: []string{
				"mode     standalone (pending standalone) link down",
				"menu     root page 2",
				"voltage  1234",
				"upload   off basic",
			},
			absent: []string{"peer"},
		},
		{
			name: "paired",
			snap: state.Snapshot{
				ActiveMode:     state.PeerSecondary,
				PendingMode:    state.PeerSecondary,
				LinkUp:         true,
				Menu:           state.MenuPosition{Screen: "link.mode"},
				Upload:         state.Upload{Interval: 20 * time.Millisecond, Kind: state.FrameProcessed, SentCount: 3, SentBytes: 60},
				Receive:        state.Receive{Count: 12, LastSource: state.SourceWireless},
				PeerIdentity:   "pad-2",
				HandshakeCount: 4,
			},
			contains: []string{
				"link up",
				"menu     link.mode",
				"upload   20ms processed, sent 3 (60 bytes)",
				"receive  12 bytes, last wireless",
				"peer     pad-2 (handshakes 4)",
			},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out := FormatStatus(&tc.snap)
			for _, s := range tc.contains {
				require.Contains(t, out, s)
			}
			for _, s := range tc.absent {
				require.NotContains(t, out, s)
			}
		})
	}
}

func TestStatusText(t *testing.T) {
	snap := &state.Snapshot{PeerIdentity: "pad-2", VoltageRaw: 99}
	s := &Shell{Status: func() *state.Snapshot { return snap }}

	out, err := s.StatusText(nil)
	require.NoError(t, err)
	require.Contains(t, out, "peer     pad-2")

	out, err = s.StatusText([]string{"-json"})
	require.NoError(t, err)
	require.Contains(t, out, `"PeerIdentity":"pad-2"`)
	require.Contains(t, out, `"VoltageRaw":99`)

	s.OutputJSON = true
	out, err = s.StatusText([]string{"-json=false"})
	require.NoError(t, err)
	require.Contains(t, out, "voltage  99")

	_, err = s.StatusText([]string{"-yaml"})
	require.Error(t, err)
	_, err = s.StatusText([]string{"extra"})
	require.Error(t, err)

	s.Status = func() *state.Snapshot { return nil }
	_, err = s.StatusText(nil)
	require.EqualError(t, err, "not running")
}
