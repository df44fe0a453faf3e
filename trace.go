package glow

import (
	"github.com/go-stack/stack"
	"github.com/karlmutch/errors"

	"github.com/TeamNorCal/glow/model"
)

// Sample is the color displayed at one tick
type Sample struct {
	Tick  model.Ticks
	Color model.Color
}

// Trace plays sched from its first tick for the given number of ticks and
// returns the color seen at each of them, looping when the schedule runs
// out. The schedule is attached to a private driver for the duration so it
// should not be one that is playing elsewhere.
func Trace(sched *Schedule, ticks model.Ticks) (samples []Sample, err errors.Error) {
	if sched == nil {
		return nil, errors.New("nil schedule").With("stack", stack.Trace().TrimRuntime())
	}

	color := model.Color{}
	drv := NewDriver(func(c model.Color) { color = c }, nil)
	if err = drv.SetSchedule(sched); err != nil {
		return nil, err
	}
	defer sched.setDriver(nil)

	samples = make([]Sample, 0, ticks)
	for tick := model.Ticks(0); tick < ticks; tick++ {
		samples = append(samples, Sample{Tick: tick, Color: color})
		drv.Tick(1)
	}
	return samples, nil
}
