package glow

// This file contains the schedule, an ordered list of transition curves that
// are played back to back and looped. Each curve starts from where the
// previous one was heading so consecutive transitions are continuous.

import (
	"fmt"
	"sync/atomic"

	"github.com/go-stack/stack"
	"github.com/karlmutch/errors"

	"github.com/TeamNorCal/glow/curve"
	"github.com/TeamNorCal/glow/model"
)

const (
	// MaxTransitions is the largest number of curves a schedule holds
	MaxTransitions = 255

	// growBy is the number of slots added to the curve list each time it fills
	growBy = 5
)

var scheduleCounter uint32

// ScheduleID identifies a schedule to color callbacks
type ScheduleID uint8

// listener receives the output of a schedule, normally the Driver
type listener interface {
	setColor(sched *Schedule, color model.Color)
	scheduleComplete(sched *Schedule)
}

// Schedule sequences curves over their cumulative duration
type Schedule struct {
	id     ScheduleID
	curves []curve.Curve
	index  int
	span   model.Ticks
	driver listener
}

// NewSchedule creates an empty schedule. An id of zero is assigned from a
// running counter, explicit ids move the counter beyond themselves. Ids are
// eight bits wide and the counter wraps with them. Mixing
// the two styles can produce duplicates.
func NewSchedule(id ScheduleID) (sched *Schedule) {
	if id == 0 {
		id = ScheduleID(atomic.AddUint32(&scheduleCounter, 1) - 1)
	} else {
		for {
			last := atomic.LoadUint32(&scheduleCounter)
			if id < ScheduleID(last) || atomic.CompareAndSwapUint32(&scheduleCounter, last, uint32(id)+1) {
				break
			}
		}
	}

	return &Schedule{
		id:     id,
		curves: make([]curve.Curve, 0, growBy),
	}
}

// ID returns the identifier of the schedule
func (sched *Schedule) ID() ScheduleID { return sched.id }

// Len returns the number of curves in the schedule
func (sched *Schedule) Len() int { return len(sched.curves) }

// Span returns the total duration of the schedule in ticks
func (sched *Schedule) Span() model.Ticks { return sched.span }

// Active returns the position and curve currently playing, the curve is nil
// for an empty schedule
func (sched *Schedule) Active() (index int, c curve.Curve) {
	if len(sched.curves) == 0 {
		return 0, nil
	}
	return sched.index, sched.curves[sched.index]
}

func (sched *Schedule) setDriver(drv listener) {
	sched.driver = drv
}

// AddTransition appends a curve to the schedule. On failure the schedule is
// left exactly as it was.
func (sched *Schedule) AddTransition(c curve.Curve) (err errors.Error) {
	if c == nil {
		return errors.New("nil transition").With("schedule", sched.id).With("stack", stack.Trace().TrimRuntime())
	}
	if len(sched.curves) >= MaxTransitions {
		return errors.New("schedule is full").With("schedule", sched.id).With("limit", MaxTransitions).With("stack", stack.Trace().TrimRuntime())
	}

	ticks := c.Target().Ticks
	if sched.span+ticks < sched.span {
		return errors.New("schedule span overflows").With("schedule", sched.id).With("span", sched.span).With("ticks", ticks).With("stack", stack.Trace().TrimRuntime())
	}

	if len(sched.curves) == cap(sched.curves) {
		grown := make([]curve.Curve, len(sched.curves), cap(sched.curves)+growBy)
		copy(grown, sched.curves)
		sched.curves = grown
	}

	sched.curves = append(sched.curves, c)
	sched.span += ticks

	return nil
}

// SetTick moves the schedule to an absolute tick, wrapping around the span
// of the schedule. The curve covering that tick is reset and seeked to the
// remainder, starting from the target of the curve before it.
func (sched *Schedule) SetTick(tick model.Ticks) (err errors.Error) {
	if len(sched.curves) == 0 {
		return errors.New("schedule has no transitions").With("schedule", sched.id).With("stack", stack.Trace().TrimRuntime())
	}

	// A schedule made only of zero length curves has nothing to seek into
	position := model.Ticks(0)
	if sched.span != 0 {
		position = tick % sched.span
	}

	sched.index = 0
	remainder := model.Ticks(0)
	for position > 0 {
		ticks := sched.curves[sched.index].Target().Ticks
		if position >= ticks {
			position -= ticks
			sched.index++
			continue
		}
		remainder = position
		position = 0
	}

	var initial *model.Color
	if sched.index > 0 {
		prev := sched.curves[sched.index-1].Target().Color
		initial = &prev
	}

	active := sched.curves[sched.index]
	active.Reset()
	active.SetTick(remainder, initial)

	logger.Debug("schedule seek", "schedule", sched.id, "tick", tick, "transition", sched.index, "remainder", remainder)

	sched.send()
	return nil
}

// Tick advances the playing curve, moving on to the next one when it
// completes. Running off the end of the list rewinds to the first curve and
// reports the schedule complete.
func (sched *Schedule) Tick(n model.Ticks) {
	if len(sched.curves) == 0 {
		return
	}

	active := sched.curves[sched.index]
	active.Tick(n)

	if active.Dirty() {
		sched.send()
	}

	if !active.Completed() {
		return
	}

	last := active.Target().Color
	sched.index++
	if sched.index >= len(sched.curves) {
		logger.Debug("schedule complete", "schedule", sched.id)
		sched.index = 0
		sched.curves[0].Start(nil)
		if sched.driver != nil {
			sched.driver.scheduleComplete(sched)
		}
		return
	}

	sched.curves[sched.index].Start(&last)
}

func (sched *Schedule) send() {
	active := sched.curves[sched.index]
	if sched.driver != nil {
		sched.driver.setColor(sched, active.Current())
	}
	active.Acknowledge()
}

func (sched *Schedule) String() string {
	return fmt.Sprintf("schedule %d (%d transitions, %d ticks)", sched.id, len(sched.curves), sched.span)
}
