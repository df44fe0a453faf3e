/*
Package curve contains the transition curves that generate color values for
consecutive ticks of a control loop, along with the logic combinators used to
derive one curve from the output of others.

Using a curve directly looks like

	c.Start(nil)
	for !c.Completed() {
		c.Tick(1)
		if c.Dirty() {
			show(c.Current())
			c.Acknowledge()
		}
		// wait one tick interval
	}

A curve belongs to at most one parent (a schedule or a combinator) at a time,
ticking a curve from two places advances it twice.
*/
package curve

import (
	"github.com/TeamNorCal/glow/model"
)

// Curve is a tick driven state machine producing a color
type Curve interface {
	// Start rewinds the curve to tick zero, beginning from initial (all off when nil)
	Start(initial *model.Color)

	// SetTick recomputes the curve for an arbitrary position, beginning from initial.
	// It may be called repeatedly to seek.
	SetTick(pos model.Ticks, initial *model.Color)

	// Tick advances the curve by n ticks
	Tick(n model.Ticks)

	// Reset clears the tick count and completion flag
	Reset()

	// Completed is true once the curve has run for its target duration
	Completed() bool

	// Dirty is true when the current color has changed since the last Acknowledge
	Dirty() bool

	// Acknowledge is called by the consumer once the current color has been
	// reflected in the outside world
	Acknowledge()

	Current() model.Color
	Target() model.Target
}

// base carries the state shared by the leaf generators
type base struct {
	target    model.Target
	current   model.Color
	ticks     model.Ticks
	completed bool
	dirty     bool
}

func newBase(color model.Color, ticks model.Ticks) base {
	return base{target: model.Target{Color: color, Ticks: ticks}}
}

func (b *base) Reset() {
	b.completed = false
	b.ticks = 0
}

func (b *base) Completed() bool { return b.completed }
func (b *base) Dirty() bool { return b.dirty }
func (b *base) Acknowledge() { b.dirty = false }
func (b *base) Current() model.Color { return b.current }
func (b *base) Target() model.Target { return b.target }

// Position returns the number of ticks into the curve
func (b *base) Position() model.Ticks { return b.ticks }

func (b *base) resetCurrent(initial *model.Color) {
	if initial == nil {
		b.current = model.Color{}
		return
	}
	b.current = *initial
}

// show replaces the current color, flagging it dirty only when a channel changed
func (b *base) show(c model.Color) {
	if c != b.current {
		b.current = c
		b.dirty = true
	}
}

// seeked records a new position following a SetTick. A seek always leaves the
// curve dirty so the consumer picks up the new state.
func (b *base) seeked(pos model.Ticks) {
	b.ticks = pos
	b.dirty = true
	b.completed = b.target.Ticks > 0 && pos >= b.target.Ticks
}

// advance moves the tick count forward, returning the previous position
func (b *base) advance(n model.Ticks) (from model.Ticks) {
	from = b.ticks
	b.ticks += n
	if b.ticks < from {
		b.ticks = ^model.Ticks(0)
	}
	if b.ticks >= b.target.Ticks {
		b.completed = true
	}
	return from
}

// multiples counts the multiples of interval in the half open range (from, to]
func multiples(from, to, interval model.Ticks) model.Ticks {
	if interval == 0 || to <= from {
		return 0
	}
	return to/interval - from/interval
}
