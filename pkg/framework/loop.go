package framework

import (
	"context"
	"log"
	"time"

	"github.com/golang/glog"
)

// DefaultTick is the default scheduling resolution of a Loop.
const DefaultTick = 5 * time.Millisecond

// Loop schedules a fixed set of periodic tasks on a single goroutine.
// On every step, due tasks run in priority order, so tasks never
// observe each other half way through an invocation.
type Loop struct {
	Tick time.Duration

	tasks   [PriorityLevels][]*task
	runners []Runnable
}

type task struct {
	name   string
	period time.Duration
	ctl    Controller
	due    time.Time
	primed bool
}

type taskInvocation struct {
	ctx           context.Context
	time          time.Time
	priorityLevel int
	task          *task
}

// NewLoop creates a Loop.
func NewLoop() *Loop {
	return &Loop{Tick: DefaultTick}
}

// AddTask registers a periodic task. After each invocation the task
// yields for period before it becomes due again.
func (l *Loop) AddTask(priorityLevel int, name string, period time.Duration, ctl Controller) *Loop {
	if priorityLevel < 0 || priorityLevel >= PriorityLevels {
		panic("invalid priority level")
	}
	if period <= 0 {
		panic("task period must be positive")
	}
	l.tasks[priorityLevel] = append(l.tasks[priorityLevel], &task{
		name:   name,
		period: period,
		ctl:    ctl,
	})
	if runner, ok := ctl.(Runnable); ok {
		l.runners = append(l.runners, NamedRun(name, runner))
	}
	return l
}

// AddRunnable adds Runnable implementions.
func (l *Loop) AddRunnable(runnables ...Runnable) *Loop {
	l.runners = append(l.runners, runnables...)
	return l
}

// TaskNames lists registered tasks in scheduling order.
func (l *Loop) TaskNames() []string {
	var names []string
	for _, lst := range l.tasks {
		for _, t := range lst {
			names = append(names, t.name)
		}
	}
	return names
}

// Run implements Runnable.
func (l *Loop) Run(ctx context.Context) error {
	runner := NewRunnerWith(ctx)
	runner.Go(l.runners...)
	defer runner.Wait()

	tick := l.Tick
	if tick <= 0 {
		tick = DefaultTick
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()
	l.Step(ctx, time.Now())
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			l.Step(ctx, now)
		}
	}
}

// RunOrFail is intended to be used in main to simply run the loop.
func (l *Loop) RunOrFail(ctx context.Context) {
	if err := l.Run(ctx); err != nil && err != context.Canceled {
		log.Fatalln(err)
	}
}

// Step runs every task due at now, highest priority first.
func (l *Loop) Step(ctx context.Context, now time.Time) {
	for lv := 0; lv < PriorityLevels; lv++ {
		for _, t := range l.tasks[lv] {
			if t.primed && now.Before(t.due) {
				continue
			}
			inv := &taskInvocation{ctx: ctx, time: now, priorityLevel: lv, task: t}
			if err := t.ctl.Control(inv); err != nil {
				glog.Errorf("task %s error: %v", t.name, err)
			}
			t.due, t.primed = now.Add(t.period), true
		}
	}
}

func (t *taskInvocation) Context() context.Context {
	return t.ctx
}

func (t *taskInvocation) Time() time.Time {
	return t.time
}

func (t *taskInvocation) PriorityLevel() int {
	return t.priorityLevel
}

func (t *taskInvocation) TaskName() string {
	return t.task.name
}
