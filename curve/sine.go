package curve

import (
	"math"

	"github.com/TeamNorCal/glow/model"
)

// Sine oscillates every channel between off and its target value
type Sine struct {
	base
	cycle  model.Ticks
	step   float64 // radians per tick
	offset float64 // radians
	phase  model.Ticks
}

// NewSine creates a sine wave peaking at color, running for ticks with one
// full oscillation every cycle ticks. degrees shifts the wave, 90 starts it
// at the peak.
func NewSine(color model.Color, ticks model.Ticks, cycle model.Ticks, degrees uint) *Sine {
	if cycle < 1 {
		cycle = 1
	}
	return &Sine{
		base:   newBase(color, ticks),
		cycle:  cycle,
		step:   2 * math.Pi / float64(cycle),
		offset: 2 * math.Pi * float64(degrees%360) / 360,
	}
}

func (s *Sine) Start(initial *model.Color) {
	s.Reset()
	s.SetTick(0, initial)
}

// SetTick positions the wave, the initial color plays no part as the wave is
// defined entirely by its phase
func (s *Sine) SetTick(pos model.Ticks, initial *model.Color) {
	s.phase = pos % s.cycle
	s.current = s.level()
	s.seeked(pos)
}

func (s *Sine) Tick(n model.Ticks) {
	s.advance(n)

	// The phase is held as whole ticks into the cycle and wraps to zero on
	// each cycle boundary, so it never accumulates floating point drift
	s.phase = (s.phase + n%s.cycle) % s.cycle
	s.show(s.level())
}

func (s *Sine) level() (c model.Color) {
	factor := (math.Sin(s.step*float64(s.phase)+s.offset) + 1) / 2
	for i, v := range s.target.Color {
		c[i] = model.Value(float64(v) * factor)
	}
	return c
}
