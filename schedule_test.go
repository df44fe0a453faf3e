package glow

import (
	"math"
	"sync/atomic"
	"testing"

	"github.com/TeamNorCal/glow/curve"
	"github.com/TeamNorCal/glow/model"
)

// probe is a curve that records how the schedule drives it
type probe struct {
	*curve.Constant
	starts   []*model.Color
	seeks    []model.Ticks
	initials []*model.Color
}

func newProbe(color model.Color, ticks model.Ticks) *probe {
	return &probe{Constant: curve.NewConstant(color, ticks)}
}

func (p *probe) Start(initial *model.Color) {
	p.starts = append(p.starts, initial)
	p.Constant.Start(initial)
}

func (p *probe) SetTick(pos model.Ticks, initial *model.Color) {
	p.seeks = append(p.seeks, pos)
	p.initials = append(p.initials, initial)
	p.Constant.SetTick(pos, initial)
}

// recorder collects what a schedule sends to its driver
type recorder struct {
	colors    []model.Color
	completed int
}

func (r *recorder) setColor(sched *Schedule, color model.Color) {
	r.colors = append(r.colors, color)
}

func (r *recorder) scheduleComplete(sched *Schedule) {
	r.completed++
}

var (
	colorA = model.RGB(1023, 0, 0)
	colorB = model.RGB(0, 1023, 0)
	colorC = model.RGB(0, 0, 1023)
)

func threeStep(t *testing.T) (sched *Schedule, probes []*probe) {
	sched = NewSchedule(0)
	probes = []*probe{newProbe(colorA, 10), newProbe(colorB, 5), newProbe(colorC, 15)}
	for _, p := range probes {
		if err := sched.AddTransition(p); err != nil {
			t.Fatalf("AddTransition() error = %v", err)
		}
	}
	return sched, probes
}

func TestScheduleSpan(t *testing.T) {
	sched, _ := threeStep(t)
	if sched.Span() != 30 || sched.Len() != 3 {
		t.Errorf("Expected 3 transitions over 30 ticks, got %s", sched)
	}
}

func TestScheduleSetTick(t *testing.T) {
	cases := []struct {
		tick      model.Ticks
		index     int
		remainder model.Ticks
	}{
		{7, 0, 7},
		{12, 1, 2},
		{30, 0, 0},
		{0, 0, 0},
		{10, 1, 0},
		{29, 2, 14},
		{72, 1, 2},
	}
	for _, c := range cases {
		sched, probes := threeStep(t)
		rec := &recorder{}
		sched.setDriver(rec)

		if err := sched.SetTick(c.tick); err != nil {
			t.Fatalf("SetTick(%d) error = %v", c.tick, err)
		}
		index, active := sched.Active()
		if index != c.index || active != probes[c.index] {
			t.Errorf("SetTick(%d) selected transition %d, want %d", c.tick, index, c.index)
			continue
		}
		p := probes[c.index]
		if len(p.seeks) != 1 || p.seeks[0] != c.remainder {
			t.Errorf("SetTick(%d) seeked %v, want [%d]", c.tick, p.seeks, c.remainder)
		}
		if len(rec.colors) != 1 || rec.colors[0] != p.Target().Color {
			t.Errorf("SetTick(%d) sent %v", c.tick, rec.colors)
		}
		if p.Dirty() {
			t.Errorf("SetTick(%d) left the transition unacknowledged", c.tick)
		}
	}
}

func TestScheduleSeekStartsFromPrevious(t *testing.T) {
	sched, probes := threeStep(t)
	sched.SetTick(3)
	if probes[0].initials[0] != nil {
		t.Errorf("Expected no initial color for the first transition, got %v", *probes[0].initials[0])
	}

	sched.SetTick(20)
	initial := probes[2].initials[0]
	if initial == nil || *initial != colorB {
		t.Errorf("Expected the third transition to start from %v, got %v", colorB, initial)
	}
}

func TestScheduleFullPass(t *testing.T) {
	sched, probes := threeStep(t)
	rec := &recorder{}
	sched.setDriver(rec)

	if err := sched.SetTick(0); err != nil {
		t.Fatalf("SetTick() error = %v", err)
	}
	for i := 0; i < 30; i++ {
		if rec.completed != 0 {
			t.Fatalf("completed early at tick %d", i)
		}
		sched.Tick(1)
	}

	if rec.completed != 1 {
		t.Errorf("Expected one completion, got %d", rec.completed)
	}
	want := []model.Color{colorA, colorB, colorC}
	if len(rec.colors) != len(want) {
		t.Fatalf("Expected colors %v, got %v", want, rec.colors)
	}
	for i := range want {
		if rec.colors[i] != want[i] {
			t.Errorf("color %d = %v, want %v", i, rec.colors[i], want[i])
		}
	}

	// the second and third were started from their predecessor, the first
	// was rewound once its pass finished
	for i, p := range probes {
		if len(p.starts) != 1 {
			t.Errorf("transition %d started %d times", i, len(p.starts))
		}
	}
	if *probes[1].starts[0] != colorA || *probes[2].starts[0] != colorB {
		t.Error("Expected each transition to start from the previous target")
	}
	if index, _ := sched.Active(); index != 0 {
		t.Errorf("Expected the schedule to rewind, at %d", index)
	}
}

func TestScheduleLinearContinuity(t *testing.T) {
	sched := NewSchedule(0)
	sched.AddTransition(curve.NewLinear(model.RGB(1000, 0, 0), 20))
	sched.AddTransition(curve.NewLinear(model.RGB(0, 0, 1000), 20))
	rec := &recorder{}
	sched.setDriver(rec)

	sched.SetTick(0)
	for i := 0; i < 40; i++ {
		sched.Tick(1)
	}

	// no jumps larger than a single step of either fade
	for i := 1; i < len(rec.colors); i++ {
		for ch := 0; ch < model.NumChannels; ch++ {
			d := int(rec.colors[i][ch]) - int(rec.colors[i-1][ch])
			if d > 50 || d < -50 {
				t.Fatalf("jump of %d on channel %d between %v and %v", d, ch, rec.colors[i-1], rec.colors[i])
			}
		}
	}
	if rec.completed != 1 {
		t.Errorf("Expected one completion, got %d", rec.completed)
	}
}

func TestScheduleEmpty(t *testing.T) {
	sched := NewSchedule(0)
	if err := sched.SetTick(10); err == nil {
		t.Error("Expected an error seeking an empty schedule")
	}
	sched.Tick(1)
	if _, active := sched.Active(); active != nil {
		t.Error("Expected no active transition")
	}
}

func TestScheduleZeroSpan(t *testing.T) {
	sched := NewSchedule(0)
	sched.AddTransition(curve.NewConstant(colorA, 0))
	sched.AddTransition(curve.NewConstant(colorB, 0))
	rec := &recorder{}
	sched.setDriver(rec)

	if err := sched.SetTick(1234); err != nil {
		t.Fatalf("SetTick() error = %v", err)
	}
	if index, _ := sched.Active(); index != 0 {
		t.Errorf("Expected the first transition, got %d", index)
	}

	sched.Tick(1)
	sched.Tick(1)
	if rec.completed != 1 {
		t.Errorf("Expected a pass every two ticks, got %d completions", rec.completed)
	}
}

func TestAddTransitionFailures(t *testing.T) {
	sched := NewSchedule(0)
	if err := sched.AddTransition(nil); err == nil {
		t.Error("Expected an error adding nil")
	}

	sched.AddTransition(curve.NewConstant(colorA, math.MaxUint32))
	if err := sched.AddTransition(curve.NewConstant(colorB, 1)); err == nil {
		t.Error("Expected an error on span overflow")
	}
	if sched.Len() != 1 || sched.Span() != math.MaxUint32 {
		t.Errorf("Expected the failed add to leave the schedule alone, got %s", sched)
	}

	full := NewSchedule(0)
	for i := 0; i < MaxTransitions; i++ {
		if err := full.AddTransition(curve.NewConstant(colorA, 1)); err != nil {
			t.Fatalf("add %d error = %v", i, err)
		}
	}
	if err := full.AddTransition(curve.NewConstant(colorA, 1)); err == nil {
		t.Error("Expected an error on a full schedule")
	}
	if full.Len() != MaxTransitions || full.Span() != MaxTransitions {
		t.Errorf("Expected the failed add to leave the schedule alone, got %s", full)
	}
}

func TestScheduleGrowsInBatches(t *testing.T) {
	sched := NewSchedule(0)
	for i := 0; i < 6; i++ {
		sched.AddTransition(curve.NewConstant(colorA, 1))
	}
	if got := cap(sched.curves); got != 2*growBy {
		t.Errorf("Expected capacity %d, got %d", 2*growBy, got)
	}
}

func TestScheduleIDs(t *testing.T) {
	a := NewSchedule(0)
	b := NewSchedule(0)
	if a.ID() == b.ID() {
		t.Errorf("Expected distinct ids, both %d", a.ID())
	}

	explicit := NewSchedule(200)
	next := NewSchedule(0)
	if explicit.ID() != 200 || next.ID() <= 200 {
		t.Errorf("Expected automatic ids to follow 200, got %d then %d", explicit.ID(), next.ID())
	}
}

func TestScheduleIDsWrap(t *testing.T) {
	saved := atomic.LoadUint32(&scheduleCounter)
	defer atomic.StoreUint32(&scheduleCounter, saved)

	// 300 schedules in, the next automatic id is 300 % 256
	atomic.StoreUint32(&scheduleCounter, 300)

	explicit := NewSchedule(100)
	next := NewSchedule(0)
	if explicit.ID() != 100 || next.ID() != 101 {
		t.Errorf("Expected automatic ids to follow 100 once wrapped, got %d then %d", explicit.ID(), next.ID())
	}

	low := NewSchedule(50)
	after := NewSchedule(0)
	if low.ID() != 50 || after.ID() != 102 {
		t.Errorf("Expected a lower explicit id to leave the counter alone, got %d", after.ID())
	}
}
