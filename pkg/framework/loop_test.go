package framework

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type recorder struct {
	calls []string
	times []time.Time
}

func (r *recorder) task() Controller {
	return ControlFunc(func(cc ControlContext) error {
		r.calls = append(r.calls, cc.TaskName())
		r.times = append(r.times, cc.Time())
		return nil
	})
}

func TestLoopPriorityOrder(t *testing.T) {
	var rec recorder
	l := NewLoop().
		AddTask(PrLvLow, "display", 20*time.Millisecond, rec.task()).
		AddTask(PrLvTop, "attitude", 50*time.Millisecond, rec.task()).
		AddTask(PrLvInput, "input", 20*time.Millisecond, rec.task())
	require.Equal(t, []string{"attitude", "input", "display"}, l.TaskNames())

	base := time.Unix(1000, 0)
	l.Step(context.TODO(), base)
	require.Equal(t, []string{"attitude", "input", "display"}, rec.calls)
}

func TestLoopPeriods(t *testing.T) {
	var rec recorder
	l := NewLoop().
		AddTask(PrLvTop, "attitude", 50*time.Millisecond, rec.task()).
		AddTask(PrLvInput, "input", 20*time.Millisecond, rec.task())

	base := time.Unix(1000, 0)
	for ms := 0; ms <= 100; ms += 10 {
		l.Step(context.TODO(), base.Add(time.Duration(ms)*time.Millisecond))
	}
	counts := make(map[string]int)
	for _, name := range rec.calls {
		counts[name]++
	}
	// attitude at 0, 50, 100; input at 0, 20, ..., 100.
	require.Equal(t, 3, counts["attitude"])
	require.Equal(t, 6, counts["input"])
}

func TestLoopTaskErrorDoesNotStop(t *testing.T) {
	var rec recorder
	l := NewLoop().
		AddTask(PrLvTop, "failing", 20*time.Millisecond, ControlFunc(func(ControlContext) error {
			return errors.New("driver failure")
		})).
		AddTask(PrLvLow, "display", 20*time.Millisecond, rec.task())
	l.Step(context.TODO(), time.Unix(1000, 0))
	require.Equal(t, []string{"display"}, rec.calls)
}

func TestSignalSaturates(t *testing.T) {
	s := NewSignal()
	require.False(t, s.Take())
	for i := 0; i < 5; i++ {
		s.Raise()
	}
	require.True(t, s.Take())
	require.False(t, s.Take())
}

func TestAggregatedError(t *testing.T) {
	var errs AggregatedError
	require.NoError(t, errs.Add(nil, nil).Aggregate())
	errs.Add(errors.New("a"))
	require.EqualError(t, errs.Aggregate(), "a")
	errs.Add(errors.New("b"))
	require.EqualError(t, errs.Aggregate(), "Multiple errors:\na\nb")
}
