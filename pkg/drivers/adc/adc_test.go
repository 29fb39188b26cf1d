package adc

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAverage(t *testing.T) {
	values := []int{10, 20, 30, 40, 50}
	var i int
	read := func() (int, error) {
		v := values[i%len(values)]
		i++
		return v, nil
	}
	v, err := average(5, read)
	require.NoError(t, err)
	require.Equal(t, 30, v)
	require.Equal(t, 5, i)

	_, err = average(3, func() (int, error) { return 0, errors.New("bus") })
	require.Error(t, err)

	v, err = average(0, func() (int, error) { return 7, nil })
	require.NoError(t, err)
	require.Equal(t, 7, v)
}

func TestSim(t *testing.T) {
	s := NewSim(2000, 0)
	v, err := s.Average(1, 5)
	require.NoError(t, err)
	require.Equal(t, 2000, v)

	s.Noise = 8
	for i := 0; i < 100; i++ {
		v, err = s.Average(1, 5)
		require.NoError(t, err)
		require.InDelta(t, 2000, v, 8)
	}

	_, err = s.Average(NumChannels, 5)
	require.Error(t, err)
}
