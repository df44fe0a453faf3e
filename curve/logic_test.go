package curve

import (
	"testing"

	"github.com/TeamNorCal/glow/model"
)

func TestAndOrConstants(t *testing.T) {
	x := model.RGB(0x0F0, 0x3FF, 0x155)
	y := model.RGB(0x0FF, 0x200, 0x2AA)

	cases := []struct {
		name  string
		build func(a, b Curve) *Logic
		want  model.Color
	}{
		{"and", NewAnd, model.RGB(0x0F0, 0x200, 0x000)},
		{"or", NewOr, model.RGB(0x0FF, 0x3FF, 0x3FF)},
	}
	for _, c := range cases {
		l := c.build(NewConstant(x, 50), NewConstant(y, 50))
		l.Start(nil)
		for i := 0; i < 49; i++ {
			if got := l.Current(); got != c.want {
				t.Fatalf("%s at tick %d = %v, want %v", c.name, i, got, c.want)
			}
			l.Acknowledge()
			l.Tick(1)
		}
		if l.Target().Color != c.want {
			t.Errorf("%s target = %v, want %v", c.name, l.Target().Color, c.want)
		}
	}
}

func TestNot(t *testing.T) {
	child := NewConstant(model.RGB(0, 1000, 23), 10)
	l := NewNot(child, true, false, true)
	l.SetTick(0, nil)
	if got, want := l.Current(), model.RGB(1023, 1000, 1000); got != want {
		t.Errorf("not = %v, want %v", got, want)
	}

	l = NewNot(NewConstant(model.RGB(0, 0, 0x0F), 10), true, true, true).WithMask(0xFF)
	l.SetTick(0, nil)
	if got, want := l.Current(), model.RGB(0xFF, 0xFF, 0xF0); got != want {
		t.Errorf("8 bit not = %v, want %v", got, want)
	}
}

func TestShift(t *testing.T) {
	child := model.RGB(0x01F, 0x100, 0x003)

	l := NewShift(NewConstant(child, 10), 5, ShiftLeft)
	l.Start(nil)
	if got, want := l.Current(), model.RGB(0x3E0, 0x2000, 0x060); got != want {
		t.Errorf("shift left = %v, want %v", got, want)
	}

	l = NewShift(NewConstant(child, 10), 2, ShiftRight)
	l.Start(nil)
	if got, want := l.Current(), model.RGB(0x007, 0x040, 0x000); got != want {
		t.Errorf("shift right = %v, want %v", got, want)
	}
}

func TestThreshold(t *testing.T) {
	child := model.RGB(100, 500, 501)

	l := NewThreshold(NewConstant(child, 10), 500, Above, 7)
	l.Start(nil)
	if got, want := l.Current(), model.RGB(7, 7, 501); got != want {
		t.Errorf("above = %v, want %v", got, want)
	}

	l = NewThreshold(NewConstant(child, 10), 500, Below, 0)
	l.Start(nil)
	if got, want := l.Current(), model.RGB(100, 0, 0); got != want {
		t.Errorf("below = %v, want %v", got, want)
	}
}

func TestUnaryFollowsChild(t *testing.T) {
	child := NewLinear(model.RGB(30, 0, 0), 30)
	l := NewShift(child, 1, ShiftLeft)
	if l.Operands().Arity() != 1 {
		t.Fatalf("Expected a unary combinator, got arity %d", l.Operands().Arity())
	}

	l.Start(nil)
	l.Acknowledge()
	if l.Dirty() || child.Dirty() {
		t.Fatal("Expected acknowledgement to reach the child")
	}

	// the child moves by one every tick
	l.Tick(1)
	if !l.Dirty() {
		t.Error("Expected the child's update to mark the combinator dirty")
	}
	if got := l.Current()[model.Red]; got != 2 {
		t.Errorf("Expected red 2, got %d", got)
	}

	for i := 1; i < 30; i++ {
		if l.Completed() {
			t.Fatalf("completed early at %d", i)
		}
		l.Tick(1)
	}
	if !l.Completed() {
		t.Error("Expected completion with the child")
	}
	if got := l.Target(); got.Ticks != 30 || got.Color != model.RGB(60, 0, 0) {
		t.Errorf("Expected derived target, got %+v", got)
	}
}

func TestBinaryCompletesWithFirstChild(t *testing.T) {
	short := NewConstant(model.RGB(1, 1, 1), 5)
	long := NewConstant(model.RGB(3, 3, 3), 10)
	l := NewOr(long, short)
	if l.Target().Ticks != 5 {
		t.Errorf("Expected the shortest duration, got %d", l.Target().Ticks)
	}

	l.Start(nil)
	for i := 0; i < 4; i++ {
		l.Tick(1)
	}
	if l.Completed() {
		t.Fatal("completed before either child")
	}
	l.Tick(1)
	if !l.Completed() {
		t.Error("Expected completion when the shorter child completes")
	}
}

func TestNestedLogic(t *testing.T) {
	// mask the low bits of a fade and magnify them into a sawtooth
	saw := NewShift(
		NewAnd(NewConstant(model.RGB(31, 0, 0), 200), NewLinear(model.RGB(1000, 0, 0), 200)),
		5, ShiftLeft)
	saw.Start(nil)

	seen := map[model.Value]bool{}
	for !saw.Completed() {
		saw.Tick(1)
		v := saw.Current()[model.Red]
		if v > 31<<5 {
			t.Fatalf("sawtooth escaped its mask: %d", v)
		}
		seen[v] = true
	}
	if len(seen) < 10 {
		t.Errorf("Expected a varied sawtooth, saw %d levels", len(seen))
	}
}

func TestOpString(t *testing.T) {
	if OpThreshold.String() != "threshold" || Op(42).String() != "op(42)" {
		t.Error("unexpected op names")
	}
}
