package curve

import (
	"github.com/TeamNorCal/glow/model"
)

// Dummy is a curve that does nothing. It never needs an update and never
// completes. Combinators with a single operand report it as their second.
type Dummy struct{}

func (Dummy) Start(*model.Color) {}
func (Dummy) SetTick(model.Ticks, *model.Color) {}
func (Dummy) Tick(model.Ticks) {}
func (Dummy) Reset() {}
func (Dummy) Completed() bool { return false }
func (Dummy) Dirty() bool { return false }
func (Dummy) Acknowledge() {}
func (Dummy) Current() model.Color { return model.Color{} }
func (Dummy) Target() model.Target { return model.Target{} }
