package glow

// This file contains the broadcast of color snapshots from the control loop
// to any number of output sinks. The control loop must never stall on a slow
// sink so publishing drops a message rather than wait.

import (
	"sync"
	"time"

	"github.com/TeamNorCal/glow/model"
)

// subs holds the channels of the sinks listening for colors
type subs struct {
	subs []chan *model.ColorMsg
	sync.Mutex
}

// startFanOut implements a broadcast mechanism accepting color messages and
// relaying them to subscribers. It returns the channel to which colors are
// sent and a channel used to add subscribers. A subscriber that cannot
// accept a message within the timeout misses that message, one that has
// been closed is dropped.
func startFanOut(timeout time.Duration, quitC <-chan struct{}) (inC chan *model.ColorMsg, subC chan chan *model.ColorMsg) {

	inC = make(chan *model.ColorMsg, 1)
	subC = make(chan chan *model.ColorMsg, 1)

	listeners := &subs{
		subs: []chan *model.ColorMsg{},
	}

	go func(quitC <-chan struct{}) {
		defer logger.Debug("fanout stopped")
		for {
			select {
			case <-quitC:
				return
			case sub := <-subC:
				if nil != sub {
					listeners.Lock()
					listeners.subs = append(listeners.subs, sub)
					listeners.Unlock()
					logger.Debug("subscription added", "count", len(listeners.subs))
				}
			case msg := <-inC:
				// Subscribers are groomed out on unrecoverable failures, see
				// https://github.com/golang/go/wiki/SliceTricks#filtering-without-allocating
				listeners.Lock()
				kept := listeners.subs[:0]
				for _, ch := range listeners.subs {
					if deliver(ch, msg, timeout) {
						kept = append(kept, ch)
						continue
					}
					logger.Debug("subscription dropped")
				}
				listeners.subs = kept
				listeners.Unlock()
			}
		}
	}(quitC)

	return inC, subC
}

// deliver sends msg to ch, returning false when ch has been closed
func deliver(ch chan *model.ColorMsg, msg *model.ColorMsg, timeout time.Duration) (alive bool) {
	defer func() {
		if r := recover(); r != nil {
			alive = false
		}
	}()

	select {
	case ch <- msg:
	case <-time.After(timeout):
		logger.Debug("subscription failed to send")
	}
	return true
}

// publish hands msg to the fan out without blocking the caller. When the fan
// out is still busy with an older message that message is replaced, the
// newest color is the only one a sink cares about.
func publish(inC chan *model.ColorMsg, msg *model.ColorMsg) (sent bool) {
	select {
	case inC <- msg:
		return true
	default:
	}

	select {
	case <-inC:
	default:
	}

	select {
	case inC <- msg:
		return true
	default:
		return false
	}
}
