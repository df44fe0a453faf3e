package curve

import (
	"github.com/TeamNorCal/glow/model"
)

// MaxFlashes bounds the number of flashes a single curve makes
const MaxFlashes = 255

// Flasher is a square wave between a base color and the target color,
// starting on the base
type Flasher struct {
	base
	flashes  uint
	interval model.Ticks
	off      model.Color
	on       bool
}

// NewFlasher creates a curve flashing color a number of times over ticks,
// between 1 and MaxFlashes
func NewFlasher(color model.Color, ticks model.Ticks, flashes uint) *Flasher {
	if flashes < 1 {
		flashes = 1
	}
	if flashes > MaxFlashes {
		flashes = MaxFlashes
	}
	return &Flasher{
		base:     newBase(color, ticks),
		flashes:  flashes,
		interval: 1,
	}
}

// WithBase sets the color shown between flashes, all off by default
func (f *Flasher) WithBase(off model.Color) *Flasher {
	f.off = off
	return f
}

// On is true while the flash, rather than the base color, is showing
func (f *Flasher) On() bool {
	return f.on
}

// Interval returns the number of ticks between toggles
func (f *Flasher) Interval() model.Ticks {
	return f.interval
}

func (f *Flasher) Start(initial *model.Color) {
	f.Reset()
	f.SetTick(0, initial)
}

// SetTick positions the wave, the initial color plays no part as the wave
// always begins from its base
func (f *Flasher) SetTick(pos model.Ticks, initial *model.Color) {
	f.interval = model.Ticks(uint64(f.target.Ticks) / (2 * uint64(f.flashes)))
	if f.interval < 1 {
		f.interval = 1
	}

	f.on = (pos/f.interval)%2 == 1
	f.current = f.color()
	f.seeked(pos)
}

func (f *Flasher) Tick(n model.Ticks) {
	from := f.advance(n)
	if multiples(from, f.ticks, f.interval)%2 == 1 {
		f.on = !f.on
	}
	f.show(f.color())
}

func (f *Flasher) color() model.Color {
	if f.on {
		return f.target.Color
	}
	return f.off
}
