package curve

import (
	"github.com/TeamNorCal/glow/model"
)

// Constant jumps straight to its target color and holds it for the duration
type Constant struct {
	base
}

// NewConstant creates a curve holding color for ticks
func NewConstant(color model.Color, ticks model.Ticks) *Constant {
	return &Constant{base: newBase(color, ticks)}
}

func (c *Constant) Start(initial *model.Color) {
	c.Reset()
	c.SetTick(0, initial)
}

func (c *Constant) SetTick(pos model.Ticks, initial *model.Color) {
	c.current = c.target.Color
	c.seeked(pos)
}

func (c *Constant) Tick(n model.Ticks) {
	c.show(c.target.Color)
	c.advance(n)
}
