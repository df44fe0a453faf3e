package main

// This file implements a terminal display that fills the screen with the
// color being played, standing in for a strip of LEDs when none is attached

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/go-stack/stack"
	"github.com/karlmutch/errors"

	"github.com/TeamNorCal/glow/model"
)

// swatch converts a color to the 24 bit form a terminal understands
func swatch(color model.Color, max model.Value) tcell.Color {
	if max == 0 {
		max = model.MaxValue
	}
	scale := func(v model.Value) int32 {
		if v > max {
			v = max
		}
		return int32(uint32(v) * 255 / uint32(max))
	}
	return tcell.NewRGBColor(scale(color[model.Red]), scale(color[model.Green]), scale(color[model.Blue]))
}

func paint(screen tcell.Screen, msg *model.ColorMsg, max model.Value) {
	width, height := screen.Size()
	style := tcell.StyleDefault.Background(swatch(msg.Color, max))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			screen.SetContent(x, y, ' ', nil, style)
		}
	}

	label := fmt.Sprintf(" schedule %d  %v ", msg.Schedule, msg.Color)
	for i, r := range label {
		if i >= width {
			break
		}
		screen.SetContent(i, 0, r, nil, tcell.StyleDefault)
	}
	screen.Show()
}

// runTUI paints every color received until quitC is closed, an escape or
// ctrl-c typed into the terminal calls stop
func runTUI(subscribeC chan chan *model.ColorMsg, max model.Value, errorC chan<- errors.Error, stop func(), quitC <-chan struct{}) {

	screen, errGo := tcell.NewScreen()
	if errGo != nil {
		errorC <- errors.Wrap(errGo).With("stack", stack.Trace().TrimRuntime())
		return
	}
	if errGo = screen.Init(); errGo != nil {
		errorC <- errors.Wrap(errGo).With("stack", stack.Trace().TrimRuntime())
		return
	}
	defer screen.Fini()

	colorC := make(chan *model.ColorMsg, 1)
	defer close(colorC)
	subscribeC <- colorC

	eventC := make(chan tcell.Event, 10)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			eventC <- ev
		}
	}()

	last := &model.ColorMsg{}
	for {
		select {
		case msg := <-colorC:
			if msg == nil {
				continue
			}
			last = msg
			paint(screen, last, max)

		case ev := <-eventC:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
					stop()
				}
			case *tcell.EventResize:
				screen.Sync()
				paint(screen, last, max)
			}

		case <-quitC:
			return
		}
	}
}
