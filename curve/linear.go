package curve

// Linear progression from a starting color to the target using integer
// arithmetic only. Each channel moves by a fixed increment every so many
// ticks, the pair chosen to land as close to the target as whole divisions
// of the duration allow.

import (
	"github.com/TeamNorCal/glow/model"
)

// MaxUpdateDelay is the update interval given to channels that have nothing
// to do, 11 seconds at the default tick rate
const MaxUpdateDelay model.Ticks = 11 * 50

type step struct {
	increment int64
	interval  model.Ticks
}

// Linear fades each channel from the starting color to the target
type Linear struct {
	base
	from  model.Color
	steps [model.NumChannels]step
	snap  bool
}

// NewLinear creates a linear fade to color over ticks. By default the curve
// lands exactly on the target when it completes.
func NewLinear(color model.Color, ticks model.Ticks) *Linear {
	return &Linear{
		base: newBase(color, ticks),
		snap: true,
	}
}

// WithoutSnap leaves the curve on whatever the integer steps reach at
// completion, which may fall short of the target by the rounding error of
// the chosen increment
func (l *Linear) WithoutSnap() *Linear {
	l.snap = false
	return l
}

func (l *Linear) Start(initial *model.Color) {
	l.Reset()
	l.SetTick(0, initial)
}

func (l *Linear) SetTick(pos model.Ticks, initial *model.Color) {
	l.resetCurrent(initial)
	l.from = l.current

	for i := range l.steps {
		l.steps[i] = plan(int64(l.target.Color[i])-int64(l.from[i]), l.target.Ticks)
	}

	l.current = l.at(pos)
	l.seeked(pos)
}

func (l *Linear) Tick(n model.Ticks) {
	l.advance(n)
	l.show(l.at(l.ticks))
}

// at computes the color pos ticks into the run from the number of whole
// intervals elapsed per channel
func (l *Linear) at(pos model.Ticks) (c model.Color) {
	if l.snap && pos > 0 && pos >= l.target.Ticks {
		return l.target.Color
	}
	for i, s := range l.steps {
		if s.increment == 0 {
			c[i] = l.from[i]
			continue
		}
		c[i] = model.Saturate(int64(l.from[i]) + int64(pos/s.interval)*s.increment)
	}
	return c
}

// plan searches for the update interval whose integer increment gets closest
// to delta over duration ticks. Ties go to the shortest interval.
func plan(delta int64, duration model.Ticks) step {
	if delta == 0 {
		return step{increment: 0, interval: MaxUpdateDelay}
	}
	if duration == 0 {
		return step{increment: delta, interval: 1}
	}

	abs := delta
	if abs < 0 {
		abs = -abs
	}

	// A large delta needs updates on nearly every tick, otherwise look as far
	// out as one unit step per interval would take
	maxInterval := model.Ticks(3)
	if abs < int64(duration) {
		maxInterval = duration/model.Ticks(abs) + 3
	}

	best := model.Ticks(1)
	bestErr := abs
	for interval := model.Ticks(1); bestErr > 0 && interval <= duration && interval <= maxInterval; interval++ {
		slices := int64(duration / interval)
		reached := (abs / slices) * slices
		if err := abs - reached; err < bestErr {
			bestErr = err
			best = interval
		}
	}

	increment := abs / int64(duration/best)
	if delta < 0 {
		increment = -increment
	}
	return step{increment: increment, interval: best}
}
