package glow

// This file contains the driver, the boundary between a host control loop and
// the schedule being played. The host ticks the driver at a fixed cadence and
// receives color snapshots, and optionally completion notices, through
// callbacks.

import (
	"github.com/go-stack/stack"
	"github.com/karlmutch/errors"
	logxi "github.com/mgutz/logxi/v1"

	"github.com/TeamNorCal/glow/model"
)

var (
	logger = logxi.New("glow")
)

// ColorFunc receives the color to display
type ColorFunc func(color model.Color)

// ScheduleColorFunc receives the color to display along with the schedule
// that produced it
type ScheduleColorFunc func(sched *Schedule, color model.Color)

// CompletedFunc is notified each time a schedule has played all of its curves
type CompletedFunc func(sched *Schedule)

// Driver forwards ticks to the current schedule and delivers its output
type Driver struct {
	setColorCB    ColorFunc
	setColorForCB ScheduleColorFunc
	completedCB   CompletedFunc

	schedule *Schedule
	ticks    model.Ticks
}

// NewDriver creates a driver delivering plain colors. Without a completed
// callback the driver loops the current schedule from the beginning.
func NewDriver(setColor ColorFunc, completed CompletedFunc) (drv *Driver) {
	return &Driver{
		setColorCB:  setColor,
		completedCB: completed,
	}
}

// NewScheduleDriver creates a driver delivering colors tagged with the
// schedule that produced them
func NewScheduleDriver(setColor ScheduleColorFunc, completed CompletedFunc) (drv *Driver) {
	return &Driver{
		setColorForCB: setColor,
		completedCB:   completed,
	}
}

// SetColorCallback replaces the color callback, clearing any schedule aware one
func (drv *Driver) SetColorCallback(cb ColorFunc) {
	drv.setColorCB = cb
	drv.setColorForCB = nil
}

// SetScheduleColorCallback replaces the color callback, clearing any plain one
func (drv *Driver) SetScheduleColorCallback(cb ScheduleColorFunc) {
	drv.setColorForCB = cb
	drv.setColorCB = nil
}

// SetCompletedCallback replaces the completion callback, nil restores looping
func (drv *Driver) SetCompletedCallback(cb CompletedFunc) {
	drv.completedCB = cb
}

// Schedule returns the schedule being played
func (drv *Driver) Schedule() *Schedule {
	return drv.schedule
}

// TickCount returns the number of ticks since the last reset
func (drv *Driver) TickCount() model.Ticks {
	return drv.ticks
}

// ResetTicks sets the tick count back to zero, the schedule is left where it is
func (drv *Driver) ResetTicks() {
	drv.ticks = 0
}

// SetSchedule makes sched the current schedule and seeks it to the driver's
// tick count. Replacing the schedule is how a running schedule is abandoned.
// A schedule that is rejected leaves the current one playing.
func (drv *Driver) SetSchedule(sched *Schedule) (err errors.Error) {
	if sched == nil {
		return errors.New("nil schedule").With("stack", stack.Trace().TrimRuntime())
	}
	if sched.Len() == 0 {
		return errors.New("schedule has no transitions").With("schedule", sched.ID()).With("stack", stack.Trace().TrimRuntime())
	}
	if drv.schedule != nil && drv.schedule != sched {
		drv.schedule.setDriver(nil)
	}

	drv.schedule = sched
	sched.setDriver(drv)

	if err = sched.SetTick(drv.ticks); err != nil {
		return err.With("ticks", drv.ticks)
	}
	logger.Debug("schedule set", "schedule", sched.ID(), "ticks", drv.ticks)
	return nil
}

// Tick lets n ticks of time pass
func (drv *Driver) Tick(n model.Ticks) {
	drv.ticks += n
	if drv.schedule != nil {
		drv.schedule.Tick(n)
	}
}

func (drv *Driver) setColor(sched *Schedule, color model.Color) {
	switch {
	case drv.setColorCB != nil:
		drv.setColorCB(color)
	case drv.setColorForCB != nil:
		drv.setColorForCB(sched, color)
	}
}

func (drv *Driver) scheduleComplete(sched *Schedule) {
	if drv.completedCB != nil {
		drv.completedCB(sched)
		return
	}

	// Nobody else wants to know so keep looping the same schedule
	drv.ResetTicks()
	if err := drv.SetSchedule(drv.schedule); err != nil {
		logger.Warn("schedule restart failed", "error", err.Error())
	}
}
