package joystick

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/gyropad/pkg/keys"
)

type fakeSource struct {
	events []Event
	closed bool
}

func (s *fakeSource) ReadEvent() (Event, error) {
	if len(s.events) == 0 {
		return Event{}, io.EOF
	}
	ev := s.events[0]
	s.events = s.events[1:]
	return ev, nil
}

func (s *fakeSource) Close() error {
	s.closed = true
	return nil
}

func TestTranslate(t *testing.T) {
	p := NewPad(nil, nil)
	testCases := []struct {
		name string
		ev   Event
		code keys.Code
	}{
		{"init ignored", Event{Init: true, Value: 1}, keys.None},
		{"button down", Event{Index: 0, Value: 1}, keys.Confirm},
		{"button up", Event{Index: 0, Value: 0}, keys.None},
		{"unmapped button", Event{Index: 9, Value: 1}, keys.None},
		{"long a", Event{Index: 2, Value: 1}, keys.LongA},
		{"axis right", Event{Axis: true, Value: 32767}, keys.Next},
		{"axis held", Event{Axis: true, Value: 30000}, keys.None},
		{"axis center", Event{Axis: true, Value: 100}, keys.None},
		{"axis left", Event{Axis: true, Value: -20000}, keys.Prev},
		{"other axis", Event{Axis: true, Index: 1, Value: 32767}, keys.None},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.code, p.Translate(tc.ev))
		})
	}
}

func TestPadRun(t *testing.T) {
	var latch keys.Latch
	src := &fakeSource{events: []Event{
		{Axis: true, Value: 32767},
		{Index: 1, Value: 1},
	}}
	err := NewPad(src, &latch).Run(context.Background())
	require.Equal(t, io.EOF, err)
	require.True(t, src.closed)
	require.Equal(t, keys.Cancel, latch.Scan())
}
