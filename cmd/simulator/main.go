package main

// The simulator serves a schedule definition over HTTP for controllers
// watching a remote definition, and renders traces of the colors a schedule
// produces so that shows can be checked without any LEDs attached

import (
	"encoding/csv"
	"flag"
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	logxi "github.com/mgutz/logxi/v1"

	"github.com/karlmutch/envflag"

	"github.com/TeamNorCal/glow"
	"github.com/TeamNorCal/glow/model"
)

var (
	listen  = flag.String("listen", ":8080", "Address to bind to")
	defPath = flag.String("path", "./schedule.yaml", "Schedule definition being served")
	remote  = flag.Bool("remote", false, "Enable remote management of the definition being served")
	maxSpan = flag.Uint("max-ticks", 100000, "Largest number of ticks a single trace may request")
)

var (
	// create Logger interface
	logW = logxi.NewLogger(logxi.NewConcurrentWriter(os.Stdout), "glow-simulator")
)

// served tracks the definition file being handed out
type served struct {
	fn string
	sync.Mutex
}

func (s *served) get() string {
	s.Lock()
	defer s.Unlock()
	return s.fn
}

func (s *served) set(fn string) {
	s.Lock()
	defer s.Unlock()
	s.fn = fn
}

type simulator struct {
	file     served
	remote   bool
	maxTicks model.Ticks
}

func main() {

	if !flag.Parsed() {
		envflag.Parse()
	}

	fn, err := filepath.Abs(*defPath)
	if err != nil {
		logxi.Fatal(err.Error())
		os.Exit(-1)
	}

	sim := &simulator{
		remote:   *remote,
		maxTicks: model.Ticks(*maxSpan),
	}
	sim.file.set(fn)

	if err = http.ListenAndServe(*listen, sim.handler()); err != nil {
		logW.Warn(err.Error())
	}
}

func (sim *simulator) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/trace", sim.serveTrace)
	mux.HandleFunc("/", sim.serveHandler)
	return mux
}

func (sim *simulator) serveConfigure(w http.ResponseWriter, r *http.Request) {

	fn := strings.TrimPrefix(r.URL.Path, "/configure")
	if !path.IsAbs(fn) {
		http.Error(w, "configure paths must be absolute", http.StatusNotFound)
		return
	}

	if _, err := glow.LoadDefinition(fn); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	sim.file.set(fn)
	logW.Debug(fmt.Sprintf("now serving %s", fn))
}

func (sim *simulator) serveHandler(w http.ResponseWriter, r *http.Request) {

	if sim.remote && strings.HasPrefix(r.URL.Path, "/configure/") {
		sim.serveConfigure(w, r)
		return
	}

	file := sim.file.get()
	logW.Debug(fmt.Sprintf("serving %s", file))

	http.ServeFile(w, r, file)
}

// serveTrace writes the colors the selected schedule produces, one CSV row per tick
func (sim *simulator) serveTrace(w http.ResponseWriter, r *http.Request) {

	def, err := glow.LoadDefinition(sim.file.get())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	scheds, err := def.Build()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	query := r.URL.Query()

	sched := scheds[0]
	if id := query.Get("schedule"); len(id) != 0 {
		want, errGo := strconv.ParseUint(id, 10, 8)
		if errGo != nil {
			http.Error(w, errGo.Error(), http.StatusBadRequest)
			return
		}
		sched = nil
		for _, s := range scheds {
			if uint64(s.ID()) == want {
				sched = s
				break
			}
		}
		if sched == nil {
			http.Error(w, "schedule not found", http.StatusNotFound)
			return
		}
	}

	ticks := sched.Span()
	if t := query.Get("ticks"); len(t) != 0 {
		n, errGo := strconv.ParseUint(t, 10, 32)
		if errGo != nil {
			http.Error(w, errGo.Error(), http.StatusBadRequest)
			return
		}
		ticks = model.Ticks(n)
	}
	if ticks > sim.maxTicks {
		http.Error(w, "too many ticks requested", http.StatusBadRequest)
		return
	}

	samples, err := glow.Trace(sched, ticks)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	out := csv.NewWriter(w)
	out.Write([]string{"tick", "red", "green", "blue"})
	for _, s := range samples {
		out.Write([]string{
			strconv.FormatUint(uint64(s.Tick), 10),
			strconv.Itoa(int(s.Color[model.Red])),
			strconv.Itoa(int(s.Color[model.Green])),
			strconv.Itoa(int(s.Color[model.Blue])),
		})
	}
	out.Flush()
	if errGo := out.Error(); errGo != nil {
		logW.Warn("trace not written", "error", errGo)
	}
}
