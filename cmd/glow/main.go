package main

import (
	"flag"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"path"
	"sync"
	"syscall"
	"time"

	"github.com/go-stack/stack"
	"github.com/karlmutch/errors"

	logxi "github.com/mgutz/logxi/v1" // Using a forked copy of this package results in build issues

	"github.com/karlmutch/envflag" // Forked copy of https://github.com/GoBike/envflag

	"github.com/TeamNorCal/glow"
	"github.com/TeamNorCal/glow/version"
)

var (
	logger = logxi.New("glow")

	verbose  = flag.Bool("v", false, "When enabled will print internal logging for this tool")
	schedule = flag.String("schedule", "./schedule.yaml", "File path or http URL of the schedule definition to play")
	playID   = flag.Uint("id", 0, "ID of the schedule within the definition to play, 0 plays the first")
	opcAddr  = flag.String("opc", "", "host:port of the OPC server driving the fadecandy, leave empty to run without LEDs")
	pixels   = flag.Int("pixels", 1, "Number of LEDs on the strip to be lit with the color")
	tick     = flag.Duration("tick", 0, "Override for the time between ticks, defaults to the tick of the definition")
	useTUI   = flag.Bool("tui", false, "Display the color being played in the terminal")
	watch    = flag.Duration("watch", 0, "Interval at which the definition is checked for changes, 0 disables watching")
)

func usage() {
	fmt.Fprintln(os.Stderr, path.Base(os.Args[0]))
	fmt.Fprintln(os.Stderr, "usage: ", os.Args[0], "[options]       schedule → OPC (glow)      ", version.GitHash, "    ", version.BuildTime)
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "glow plays RGB color schedules onto OPC based USB fadecandy boards")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Options:")
	fmt.Fprintln(os.Stderr, "")
	flag.PrintDefaults()
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Environment Variables:")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "options can also be extracted from environment variables by changing dashes '-' to underscores and using upper case.")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "log levels are handled by the LOGXI env variables, these are documented at https://github.com/mgutz/logxi")
}

func init() {
	flag.Usage = usage
}

// pick selects the schedule to be played from those a definition builds
func pick(def *glow.Definition, id uint) (sched *glow.Schedule, err errors.Error) {
	scheds, err := def.Build()
	if err != nil {
		return nil, err
	}
	if id == 0 {
		return scheds[0], nil
	}
	for _, sched := range scheds {
		if uint(sched.ID()) == id {
			return sched, nil
		}
	}
	return nil, errors.New("schedule not found").With("id", id).With("stack", stack.Trace().TrimRuntime())
}

func main() {

	// Parse the CLI flags
	if !flag.Parsed() {
		envflag.Parse()
	}

	if *verbose {
		logger.SetLevel(logxi.LevelDebug)
	}

	logger.Debug(fmt.Sprintf("%s built at %s, against commit id %s\n", os.Args[0], version.BuildTime, version.GitHash))

	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(-1)
	}
}

func run() (err errors.Error) {

	u, errGo := url.Parse(*schedule)
	if errGo != nil {
		return errors.Wrap(errGo).With("schedule", *schedule).With("stack", stack.Trace().TrimRuntime())
	}

	def, body, err := glow.FetchDefinition(*u)
	if err != nil {
		return err
	}
	sched, err := pick(def, *playID)
	if err != nil {
		return err
	}

	interval := def.Interval()
	if *tick > 0 {
		interval = *tick
	}

	quitC := make(chan struct{})
	defer close(quitC)

	// stopC is closed once by whichever of the signal handler or the
	// terminal display wants the program to finish
	stopC := make(chan struct{})
	stopOnce := sync.Once{}
	stop := func() { stopOnce.Do(func() { close(stopC) }) }

	errorC := make(chan errors.Error, 8)

	gw := &glow.Gateway{Interval: interval}
	if len(*opcAddr) != 0 {
		gw.OPC = &glow.OPCConfig{
			Server:  *opcAddr,
			Pixels:  *pixels,
			Max:     def.MaxValue(),
			Refresh: interval,
		}
	}
	drv, subscribeC := gw.Start(errorC, quitC)

	go runMonitoring(subscribeC, quitC)

	if *useTUI {
		go runTUI(subscribeC, def.MaxValue(), errorC, stop, quitC)
	}

	swapC := make(chan *glow.Schedule, 1)
	swapC <- sched
	go glow.Run(drv, interval, swapC, errorC, quitC)

	if *watch > 0 {
		defC := make(chan *glow.Definition, 1)
		watcher := glow.NewDefinitionWatcher(*u, *watch, defC, errorC)
		watcher.Seen(body)
		go watcher.Run(quitC)
		go reload(defC, swapC, interval, errorC, quitC)
	}

	sigC := make(chan os.Signal, 1)
	signal.Notify(sigC, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigC)

	for {
		select {
		case err := <-errorC:
			if err != nil {
				logger.Warn(err.Error())
			}
		case sig := <-sigC:
			logger.Debug("signal received", "signal", sig.String())
			stop()
		case <-stopC:
			return nil
		}
	}
}

// reload swaps in the selected schedule of every new definition the watcher sends
func reload(defC <-chan *glow.Definition, swapC chan<- *glow.Schedule, interval time.Duration, errorC chan<- errors.Error, quitC <-chan struct{}) {
	for {
		select {
		case def := <-defC:
			sched, err := pick(def, *playID)
			if err != nil {
				select {
				case errorC <- err:
				case <-quitC:
					return
				}
				continue
			}
			if def.Interval() != interval && *tick == 0 {
				logger.Warn("tick interval changes need a restart", "running", interval, "requested", def.Interval())
			}
			select {
			case swapC <- sched:
			case <-quitC:
				return
			}
		case <-quitC:
			return
		}
	}
}
