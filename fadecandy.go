package glow

// This file contains an output sink that listens for color snapshots and, on
// a regular basis, lifts the last known color and pushes it to the strip of
// LEDs attached to a fadecandy board through an OPC server

import (
	"bytes"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/go-stack/stack"
	"github.com/karlmutch/errors"

	"github.com/cnf/structhash"

	"github.com/kellydunn/go-opc"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/TeamNorCal/glow/model"
)

// OPCConfig describes where and how colors are sent to a fadecandy
type OPCConfig struct {
	Server  string        // host:port of the OPC server
	Channel uint8         // OPC channel, 0 broadcasts to all
	Pixels  int           // number of LEDs filled with the color
	Max     model.Value   // channel value mapped to full brightness
	Refresh time.Duration // how often the last color is examined
}

type lastColor struct {
	msg *model.ColorMsg
	sync.Mutex
}

func (cfg *OPCConfig) defaults() {
	if cfg.Pixels < 1 {
		cfg.Pixels = 1
	}
	if cfg.Max == 0 {
		cfg.Max = model.MaxValue
	}
	if cfg.Refresh <= 0 {
		cfg.Refresh = model.DefaultTickInterval
	}
}

// StartFadeCandy subscribes to the color fan out and starts sending colors
// to the OPC server until quitC is closed
func StartFadeCandy(cfg OPCConfig, subscribeC chan chan *model.ColorMsg, errorC chan<- errors.Error, quitC <-chan struct{}) {

	cfg.defaults()

	colorC := make(chan *model.ColorMsg, 1)
	subscribeC <- colorC

	last := &lastColor{}

	go func() {
		defer close(colorC)
		for {
			select {
			case msg := <-colorC:
				if nil == msg {
					continue
				}
				cpy := *msg
				last.Lock()
				last.msg = &cpy
				last.Unlock()
			case <-quitC:
				return
			}
		}
	}()

	go runFadeCandyOPC(last, cfg, errorC, quitC)
}

// toRGB255 scales channel values onto the 8 bits a fadecandy frame carries
func toRGB255(color model.Color, max model.Value) (r, g, b uint8) {
	if max == 0 {
		max = model.MaxValue
	}
	scale := float64(max)
	c := colorful.Color{
		R: float64(color[model.Red]) / scale,
		G: float64(color[model.Green]) / scale,
		B: float64(color[model.Blue]) / scale,
	}
	return c.Clamped().RGB255()
}

func frame(color model.Color, cfg OPCConfig) (m *opc.Message) {
	r, g, b := toRGB255(color, cfg.Max)

	m = opc.NewMessage(cfg.Channel)
	m.SetLength(uint16(cfg.Pixels * 3))
	for i := 0; i < cfg.Pixels; i++ {
		m.SetPixelColor(i, r, g, b)
	}
	return m
}

func report(errorC chan<- errors.Error, err errors.Error) {
	select {
	case errorC <- err:
	case <-time.After(100 * time.Millisecond):
		fmt.Fprintln(os.Stderr, err.Error())
	}
}

// opcClient is the part of an OPC connection used to push frames
type opcClient interface {
	Connect(protocol string, host string) error
	Send(m *opc.Message) error
}

// pusher sends frames to an OPC server, remembering the last snapshot that
// made it through
type pusher struct {
	oc   opcClient
	cfg  OPCConfig
	sent []byte
}

func (p *pusher) connect() (err errors.Error) {
	if errGo := p.oc.Connect("tcp", p.cfg.Server); errGo != nil {
		return errors.Wrap(errGo).With("url", p.cfg.Server).With("stack", stack.Trace().TrimRuntime())
	}
	return nil
}

// push sends msg unless it matches the last successful send. A failed send
// is retried on the next call after reconnecting.
func (p *pusher) push(msg *model.ColorMsg) (err errors.Error) {
	hash := structhash.Md5(msg, 1)
	if bytes.Equal(p.sent, hash) {
		return nil
	}

	if errGo := p.oc.Send(frame(msg.Color, p.cfg)); errGo != nil {
		p.sent = nil
		if err = p.connect(); err != nil {
			return err.With("send", errGo.Error())
		}
		return errors.Wrap(errGo).With("url", p.cfg.Server).With("stack", stack.Trace().TrimRuntime())
	}
	p.sent = hash
	return nil
}

func runFadeCandyOPC(last *lastColor, cfg OPCConfig, errorC chan<- errors.Error, quitC <-chan struct{}) {

	p := &pusher{oc: opc.NewClient(), cfg: cfg}
	if err := p.connect(); err != nil {
		report(errorC, err)
	}

	refresh := time.NewTicker(cfg.Refresh)
	defer refresh.Stop()

	for {
		select {
		case <-refresh.C:
			last.Lock()
			msg := last.msg
			last.Unlock()

			if msg == nil {
				continue
			}

			// Only talk to the board when the color has actually moved
			if err := p.push(msg); err != nil {
				report(errorC, err)
			}
		case <-quitC:
			return
		}
	}
}
