package imu

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTilt(t *testing.T) {
	testCases := []struct {
		name        string
		ax, ay, az  float64
		roll, pitch float64
	}{
		{"level", 0, 0, 1, 0, 0},
		{"roll 30", 0, math.Sin(math.Pi / 6), math.Cos(math.Pi / 6), 30, 0},
		{"pitch up 45", -math.Sqrt2 / 2, 0, math.Sqrt2 / 2, 0, 45},
		{"upside down", 0, 0, -1, 180, 0},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			att := Tilt(tc.ax, tc.ay, tc.az)
			require.InDelta(t, tc.roll, att.Roll, 1e-9)
			require.InDelta(t, tc.pitch, att.Pitch, 1e-9)
			require.Zero(t, att.Yaw)
		})
	}
}

func TestSim(t *testing.T) {
	now := time.Unix(0, 0)
	s := NewSim()
	s.Now = func() time.Time { return now }

	r, err := s.Sample()
	require.NoError(t, err)
	require.InDelta(t, 0, r.Attitude.Roll, 1e-6)
	require.InDelta(t, 15, r.Attitude.Pitch, 1e-6)

	now = now.Add(time.Second)
	r, err = s.Sample()
	require.NoError(t, err)
	require.InDelta(t, 30, r.Attitude.Roll, 1e-6)
	require.InDelta(t, 0, r.Attitude.Pitch, 1e-6)
	require.InDelta(t, OneG/2, float64(r.Raw.AY), 2)
}
