package main

import (
	"fmt"

	"github.com/TeamNorCal/glow/model"
)

// This file implements a monitor that subscribes to and logs the colors
// being played

func runMonitoring(subscribeC chan chan *model.ColorMsg, quitC <-chan struct{}) {

	colorC := make(chan *model.ColorMsg, 1)
	defer close(colorC)
	subscribeC <- colorC

	for {
		select {
		case msg := <-colorC:
			if msg == nil {
				continue
			}
			logger.Debug(fmt.Sprintf("%+v", *msg))
		case <-quitC:
			return
		}
	}
}
