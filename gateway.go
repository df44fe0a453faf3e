package glow

// This module joins the schedule driver to the output sinks. The driver is
// ticked in real time from a single goroutine and every color it produces is
// broadcast to the subscribers of the fan out, which includes the fadecandy
// when one has been configured.

import (
	"time"

	"github.com/karlmutch/errors"

	"github.com/TeamNorCal/glow/model"
)

type Gateway struct {
	OPC      *OPCConfig    // nil when no fadecandy is attached
	Interval time.Duration // real time between ticks
	Timeout  time.Duration // how long a slow subscriber may hold up a color
}

func (gw *Gateway) interval() time.Duration {
	if gw.Interval <= 0 {
		return model.DefaultTickInterval
	}
	return gw.Interval
}

// Start creates the fan out and its sinks, returning a driver that publishes
// each color it is handed along with the channel used to add subscribers
func (gw *Gateway) Start(errorC chan<- errors.Error, quitC <-chan struct{}) (drv *Driver, subscribeC chan chan *model.ColorMsg) {

	timeout := gw.Timeout
	if timeout <= 0 {
		timeout = gw.interval()
	}

	colorC, subscribeC := startFanOut(timeout, quitC)

	if gw.OPC != nil {
		cfg := *gw.OPC
		if cfg.Refresh <= 0 {
			cfg.Refresh = gw.interval()
		}
		StartFadeCandy(cfg, subscribeC, errorC, quitC)
	}

	drv = NewScheduleDriver(func(sched *Schedule, color model.Color) {
		publish(colorC, &model.ColorMsg{Schedule: uint8(sched.ID()), Color: color})
	}, nil)

	return drv, subscribeC
}

// Run ticks drv once every interval until quitC is closed. A schedule
// arriving on swapC replaces the one being played, starting from its
// first tick.
func Run(drv *Driver, interval time.Duration, swapC <-chan *Schedule, errorC chan<- errors.Error, quitC <-chan struct{}) {

	if interval <= 0 {
		interval = model.DefaultTickInterval
	}

	tick := time.NewTicker(interval)
	defer tick.Stop()

	for {
		select {
		case <-tick.C:
			drv.Tick(1)

		case sched := <-swapC:
			if sched == nil {
				continue
			}
			drv.ResetTicks()
			if err := drv.SetSchedule(sched); err != nil {
				report(errorC, err)
				continue
			}
			logger.Debug("schedule swapped", "schedule", sched.ID(), "span", sched.Span())

		case <-quitC:
			return
		}
	}
}
