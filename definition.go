package glow

// This module reads schedule definitions from YAML documents and assembles
// the curves and schedules they describe, for example
//
//	max: 1023
//	tick: 20ms
//	schedules:
//	  - id: 1
//	    curves:
//	      - type: linear
//	        color: "#ff8800"
//	        seconds: 2
//	      - type: not
//	        channels: [red]
//	        of:
//	          - type: sine
//	            color: [1023, 0, 512]
//	            seconds: 4
//	            cycle: 1
//	            phase: 90

import (
	"fmt"
	"io/ioutil"
	"math"
	"strings"
	"time"

	"github.com/go-stack/stack"
	"github.com/karlmutch/errors"

	"github.com/lucasb-eyer/go-colorful"

	"gopkg.in/yaml.v2"

	"github.com/TeamNorCal/glow/curve"
	"github.com/TeamNorCal/glow/model"
)

// Definition is the document form of a set of schedules
type Definition struct {
	Max       model.Value   `yaml:"max"`
	Tick      time.Duration `yaml:"tick"`
	Schedules []ScheduleDef `yaml:"schedules"`
}

// ScheduleDef describes one schedule and its curves in playing order
type ScheduleDef struct {
	ID     ScheduleID `yaml:"id"`
	Name   string     `yaml:"name"`
	Curves []CurveDef `yaml:"curves"`
}

// CurveDef describes a single curve, combinators carry their operands in Of.
// Durations are given either in ticks or in seconds.
type CurveDef struct {
	Type       string      `yaml:"type"`
	Color      ColorDef    `yaml:"color"`
	Ticks      model.Ticks `yaml:"ticks"`
	Seconds    float64     `yaml:"seconds"`
	Flashes    uint        `yaml:"flashes"`
	Base       ColorDef    `yaml:"base"`
	Cycle      float64     `yaml:"cycle"`
	CycleTicks model.Ticks `yaml:"cycle_ticks"`
	Phase      uint        `yaml:"phase"`
	Snap       *bool       `yaml:"snap"`
	Channels   []string    `yaml:"channels"`
	Bits       uint        `yaml:"bits"`
	Direction  string      `yaml:"direction"`
	Threshold  model.Value `yaml:"threshold"`
	Default    model.Value `yaml:"default"`
	Of         []CurveDef  `yaml:"of"`
}

// ColorDef is a color written either as a hex string, scaled to the
// definition's maximum channel value, or as a list of three channel values
type ColorDef struct {
	hex    string
	values []model.Value
}

func (c *ColorDef) UnmarshalYAML(unmarshal func(interface{}) error) error {
	hex := ""
	if err := unmarshal(&hex); err == nil {
		c.hex = hex
		return nil
	}

	values := []model.Value{}
	if err := unmarshal(&values); err != nil {
		return err
	}
	if len(values) != model.NumChannels {
		return fmt.Errorf("color needs %d channel values, got %d", model.NumChannels, len(values))
	}
	c.values = values
	return nil
}

// IsZero is true when no color was given
func (c ColorDef) IsZero() bool {
	return c.hex == "" && len(c.values) == 0
}

func (c ColorDef) resolve(max model.Value) (color model.Color, err errors.Error) {
	if len(c.values) != 0 {
		for i, v := range c.values {
			if v > max {
				return color, errors.New("channel value above the maximum").With("value", v).With("max", max).With("stack", stack.Trace().TrimRuntime())
			}
			color[i] = v
		}
		return color, nil
	}
	if c.hex == "" {
		return color, nil
	}

	col, errGo := colorful.Hex(c.hex)
	if errGo != nil {
		return color, errors.Wrap(errGo).With("color", c.hex).With("stack", stack.Trace().TrimRuntime())
	}
	for i, v := range []float64{col.R, col.G, col.B} {
		color[i] = model.Value(math.Round(v * float64(max)))
	}
	return color, nil
}

// ParseDefinition decodes a YAML document
func ParseDefinition(body []byte) (def *Definition, err errors.Error) {
	def = &Definition{}
	if errGo := yaml.Unmarshal(body, def); errGo != nil {
		return nil, errors.Wrap(errGo).With("stack", stack.Trace().TrimRuntime())
	}
	return def, nil
}

// LoadDefinition reads and decodes a YAML document from a file
func LoadDefinition(fn string) (def *Definition, err errors.Error) {
	body, errGo := ioutil.ReadFile(fn)
	if errGo != nil {
		return nil, errors.Wrap(errGo).With("file", fn).With("stack", stack.Trace().TrimRuntime())
	}
	if def, err = ParseDefinition(body); err != nil {
		return nil, err.With("file", fn)
	}
	return def, nil
}

// Interval returns the real time between ticks the definition was written for
func (def *Definition) Interval() time.Duration {
	if def.Tick <= 0 {
		return model.DefaultTickInterval
	}
	return def.Tick
}

// MaxValue returns the channel value hex colors are scaled to
func (def *Definition) MaxValue() model.Value {
	if def.Max == 0 {
		return model.MaxValue
	}
	return def.Max
}

// Build assembles every schedule in the definition
func (def *Definition) Build() (scheds []*Schedule, err errors.Error) {
	if len(def.Schedules) == 0 {
		return nil, errors.New("definition has no schedules").With("stack", stack.Trace().TrimRuntime())
	}

	scheds = make([]*Schedule, 0, len(def.Schedules))
	for i, sd := range def.Schedules {
		sched, err := def.buildSchedule(sd)
		if err != nil {
			return nil, err.With("schedule", i).With("name", sd.Name)
		}
		scheds = append(scheds, sched)
	}
	return scheds, nil
}

func (def *Definition) buildSchedule(sd ScheduleDef) (sched *Schedule, err errors.Error) {
	if len(sd.Curves) == 0 {
		return nil, errors.New("schedule has no curves").With("stack", stack.Trace().TrimRuntime())
	}

	sched = NewSchedule(sd.ID)
	for i, cd := range sd.Curves {
		c, err := def.buildCurve(cd)
		if err != nil {
			return nil, err.With("curve", i)
		}
		if err = sched.AddTransition(c); err != nil {
			return nil, err.With("curve", i)
		}
	}
	return sched, nil
}

func (def *Definition) ticks(ticks model.Ticks, secs float64) model.Ticks {
	if ticks != 0 {
		return ticks
	}
	return model.Seconds(secs, def.Interval())
}

func (def *Definition) buildCurve(cd CurveDef) (c curve.Curve, err errors.Error) {
	kind := strings.ToLower(strings.TrimSpace(cd.Type))

	switch kind {
	case "constant", "linear", "flasher", "sine":
		return def.buildLeaf(kind, cd)
	case "and", "or":
		if len(cd.Of) != 2 {
			return nil, errors.New("combinator needs two operands").With("type", kind).With("operands", len(cd.Of)).With("stack", stack.Trace().TrimRuntime())
		}
	case "not", "shift", "threshold":
		if len(cd.Of) != 1 {
			return nil, errors.New("combinator needs one operand").With("type", kind).With("operands", len(cd.Of)).With("stack", stack.Trace().TrimRuntime())
		}
	default:
		return nil, errors.New("unknown curve type").With("type", cd.Type).With("stack", stack.Trace().TrimRuntime())
	}

	operands := make([]curve.Curve, 0, len(cd.Of))
	for i, od := range cd.Of {
		operand, err := def.buildCurve(od)
		if err != nil {
			return nil, err.With("operand", i).With("type", kind)
		}
		operands = append(operands, operand)
	}

	switch kind {
	case "and":
		return curve.NewAnd(operands[0], operands[1]), nil
	case "or":
		return curve.NewOr(operands[0], operands[1]), nil
	case "not":
		channels := [model.NumChannels]bool{}
		if len(cd.Channels) == 0 {
			channels = [model.NumChannels]bool{true, true, true}
		}
		for _, name := range cd.Channels {
			switch strings.ToLower(name) {
			case "red", "r":
				channels[model.Red] = true
			case "green", "g":
				channels[model.Green] = true
			case "blue", "b":
				channels[model.Blue] = true
			default:
				return nil, errors.New("unknown channel").With("channel", name).With("stack", stack.Trace().TrimRuntime())
			}
		}
		return curve.NewNot(operands[0], channels[model.Red], channels[model.Green], channels[model.Blue]).WithMask(def.MaxValue()), nil
	case "shift":
		switch strings.ToLower(cd.Direction) {
		case "left":
			return curve.NewShift(operands[0], cd.Bits, curve.ShiftLeft), nil
		case "right", "":
			return curve.NewShift(operands[0], cd.Bits, curve.ShiftRight), nil
		}
	case "threshold":
		switch strings.ToLower(cd.Direction) {
		case "above", "":
			return curve.NewThreshold(operands[0], cd.Threshold, curve.Above, cd.Default), nil
		case "below":
			return curve.NewThreshold(operands[0], cd.Threshold, curve.Below, cd.Default), nil
		}
	}
	return nil, errors.New("unknown direction").With("type", kind).With("direction", cd.Direction).With("stack", stack.Trace().TrimRuntime())
}

func (def *Definition) buildLeaf(kind string, cd CurveDef) (c curve.Curve, err errors.Error) {
	color, err := cd.Color.resolve(def.MaxValue())
	if err != nil {
		return nil, err.With("type", kind)
	}
	ticks := def.ticks(cd.Ticks, cd.Seconds)

	switch kind {
	case "constant":
		return curve.NewConstant(color, ticks), nil
	case "linear":
		l := curve.NewLinear(color, ticks)
		if cd.Snap != nil && !*cd.Snap {
			l.WithoutSnap()
		}
		return l, nil
	case "flasher":
		base, err := cd.Base.resolve(def.MaxValue())
		if err != nil {
			return nil, err.With("type", kind)
		}
		return curve.NewFlasher(color, ticks, cd.Flashes).WithBase(base), nil
	default:
		cycle := def.ticks(cd.CycleTicks, cd.Cycle)
		if cycle == 0 {
			cycle = model.TicksPerSecond(def.Interval())
		}
		return curve.NewSine(color, ticks, cycle, cd.Phase), nil
	}
}
