package curve

// Logic curves derive their color from the output of one or two other curves.
// All of the combinators share a single record, the kind of operation
// selecting the per channel rule applied when a child changes.

import (
	"fmt"

	"github.com/TeamNorCal/glow/model"
)

// Op selects the rule a Logic curve applies to its operands
type Op int

const (
	OpAnd Op = iota
	OpOr
	OpNot
	OpShift
	OpThreshold
)

func (op Op) String() string {
	switch op {
	case OpAnd:
		return "and"
	case OpOr:
		return "or"
	case OpNot:
		return "not"
	case OpShift:
		return "shift"
	case OpThreshold:
		return "threshold"
	}
	return fmt.Sprintf("op(%d)", int(op))
}

// Direction is the way a Shift moves bits
type Direction int

const (
	ShiftRight Direction = iota
	ShiftLeft
)

// Comparison is the test a Threshold applies against its level
type Comparison int

const (
	Above Comparison = iota
	Below
)

// Operands holds either one or two child curves
type Operands struct {
	first  Curve
	second Curve // nil for unary operations
}

// Unary wraps a single child
func Unary(c Curve) Operands {
	return Operands{first: c}
}

// Binary wraps a pair of children, ticked in the order given
func Binary(a, b Curve) Operands {
	return Operands{first: a, second: b}
}

// Arity returns the number of real children
func (o Operands) Arity() int {
	if o.second == nil {
		return 1
	}
	return 2
}

// pair returns both operands, a Dummy standing in for an absent second
func (o Operands) pair() [2]Curve {
	if o.second == nil {
		return [2]Curve{o.first, Dummy{}}
	}
	return [2]Curve{o.first, o.second}
}

// Logic is a composite curve. It is completed as soon as any child completes
// and dirty whenever any child is.
type Logic struct {
	op       Op
	operands Operands

	channels  [model.NumChannels]bool // OpNot
	mask      model.Value             // OpNot
	bits      uint                    // OpShift
	direction Direction               // OpShift
	threshold model.Value             // OpThreshold
	compare   Comparison              // OpThreshold
	fallback  model.Value             // OpThreshold

	current model.Color
	dirty   bool
}

// NewAnd combines two curves with a bitwise and of each channel
func NewAnd(a, b Curve) *Logic {
	return &Logic{op: OpAnd, operands: Binary(a, b)}
}

// NewOr combines two curves with a bitwise or of each channel
func NewOr(a, b Curve) *Logic {
	return &Logic{op: OpOr, operands: Binary(a, b)}
}

// NewNot complements the selected channels of c, the others pass through
// unchanged. The complement is masked to model.MaxValue, see WithMask.
func NewNot(c Curve, red, green, blue bool) *Logic {
	return &Logic{
		op:       OpNot,
		operands: Unary(c),
		channels: [model.NumChannels]bool{red, green, blue},
		mask:     model.MaxValue,
	}
}

// WithMask sets the largest valid channel value for a complement
func (l *Logic) WithMask(max model.Value) *Logic {
	l.mask = max
	return l
}

// NewShift moves every channel of c by bits in the given direction
func NewShift(c Curve, bits uint, direction Direction) *Logic {
	return &Logic{
		op:        OpShift,
		operands:  Unary(c),
		bits:      bits,
		direction: direction,
	}
}

// NewThreshold passes channels of c that are strictly above, or below, the
// threshold and substitutes fallback for the rest
func NewThreshold(c Curve, threshold model.Value, compare Comparison, fallback model.Value) *Logic {
	return &Logic{
		op:        OpThreshold,
		operands:  Unary(c),
		threshold: threshold,
		compare:   compare,
		fallback:  fallback,
	}
}

// Op returns the kind of combinator
func (l *Logic) Op() Op { return l.op }

// Operands returns the children the curve derives from
func (l *Logic) Operands() Operands { return l.operands }

func (l *Logic) Start(initial *model.Color) {
	for _, c := range l.operands.pair() {
		c.Start(initial)
	}
	l.refresh()
}

func (l *Logic) SetTick(pos model.Ticks, initial *model.Color) {
	for _, c := range l.operands.pair() {
		c.SetTick(pos, initial)
	}
	l.refresh()
}

func (l *Logic) Tick(n model.Ticks) {
	for _, c := range l.operands.pair() {
		c.Tick(n)
	}
	l.refresh()
}

func (l *Logic) Reset() {
	for _, c := range l.operands.pair() {
		c.Reset()
	}
}

func (l *Logic) Completed() bool {
	for _, c := range l.operands.pair() {
		if c.Completed() {
			return true
		}
	}
	return false
}

func (l *Logic) Dirty() bool {
	if l.dirty {
		return true
	}
	for _, c := range l.operands.pair() {
		if c.Dirty() {
			return true
		}
	}
	return false
}

func (l *Logic) Acknowledge() {
	l.dirty = false
	for _, c := range l.operands.pair() {
		c.Acknowledge()
	}
}

func (l *Logic) Current() model.Color {
	return l.current
}

// Target is the rule applied to the children's targets, reached after the
// shortest of the children's durations
func (l *Logic) Target() model.Target {
	a := l.operands.first.Target()
	if l.operands.second == nil {
		return model.Target{Color: l.derive(a.Color, model.Color{}), Ticks: a.Ticks}
	}

	b := l.operands.second.Target()
	ticks := a.Ticks
	if b.Ticks < ticks {
		ticks = b.Ticks
	}
	return model.Target{Color: l.derive(a.Color, b.Color), Ticks: ticks}
}

func (l *Logic) refresh() {
	pair := l.operands.pair()
	if !pair[0].Dirty() && !pair[1].Dirty() {
		return
	}
	l.current = l.derive(pair[0].Current(), pair[1].Current())
	l.dirty = true
}

func (l *Logic) derive(a, b model.Color) (c model.Color) {
	for i := range c {
		c[i] = l.channel(i, a[i], b[i])
	}
	return c
}

func (l *Logic) channel(i int, a, b model.Value) model.Value {
	switch l.op {
	case OpAnd:
		return a & b
	case OpOr:
		return a | b
	case OpNot:
		if l.channels[i] {
			return l.mask & ^a
		}
		return a
	case OpShift:
		if l.direction == ShiftLeft {
			return a << l.bits
		}
		return a >> l.bits
	case OpThreshold:
		if l.compare == Above {
			if a > l.threshold {
				return a
			}
			return l.fallback
		}
		if a < l.threshold {
			return a
		}
		return l.fallback
	}
	return a
}
