package model

// This module defines implementation neutral color and timing data
// structures shared by the curves, schedules and output sinks

import (
	"math"
	"time"
)

// Value is the intensity of a single color channel
type Value uint16

const (
	// MaxValue is the largest intensity a channel is driven to, 10 bit PWM
	MaxValue Value = 1023

	// NumChannels is the number of channels in a Color
	NumChannels = 3

	Red   = 0
	Green = 1
	Blue  = 2
)

// Color is an R-G-B triple indexed by Red, Green and Blue
type Color [NumChannels]Value

// RGB builds a Color from its components
func RGB(r, g, b Value) Color {
	return Color{r, g, b}
}

// Saturate clamps a signed intermediate into the representable range of a Value
func Saturate(v int64) Value {
	if v < 0 {
		return 0
	}
	if v > math.MaxUint16 {
		return math.MaxUint16
	}
	return Value(v)
}

// Ticks counts discrete steps of the control loop
type Ticks uint32

// Target is the color a curve heads toward and the number of ticks
// spent getting there
type Target struct {
	Color Color `json:"color"`
	Ticks Ticks `json:"ticks"`
}

// ColorMsg is a color snapshot published by a running schedule
type ColorMsg struct {
	Schedule uint8 `json:"schedule"`
	Color    Color `json:"color"`
}

// DefaultTickInterval is the real time expected between ticks, 20ms works
// well for LEDs without being so small the host cannot keep up
const DefaultTickInterval = 20 * time.Millisecond

// TicksPerSecond returns the number of ticks in a second at the given interval
func TicksPerSecond(interval time.Duration) Ticks {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	return Ticks(time.Second / interval)
}

// Seconds converts a duration in seconds into ticks at the given interval
func Seconds(secs float64, interval time.Duration) Ticks {
	if secs <= 0 {
		return 0
	}
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	return Ticks(math.Round(secs * float64(time.Second) / float64(interval)))
}

// Duration converts a tick count into wall clock time at the given interval
func (t Ticks) Duration(interval time.Duration) time.Duration {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	return time.Duration(t) * interval
}
