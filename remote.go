package glow

// This module fetches schedule definitions from either a local file or a web
// server, such as the simulator, and watches them for changes so that a
// running controller can pick up a new show without being restarted

import (
	"bytes"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/url"
	"time"

	"github.com/go-stack/stack"
	"github.com/karlmutch/errors"
)

// FetchDefinition retrieves and decodes the definition at u, returning the
// raw document alongside it
func FetchDefinition(u url.URL) (def *Definition, body []byte, err errors.Error) {

	switch u.Scheme {
	case "http", "https":
		resp, errGo := http.Get(u.String())
		if errGo != nil {
			return nil, nil, errors.Wrap(errGo).With("url", u.String()).With("stack", stack.Trace().TrimRuntime())
		}

		body, errGo = ioutil.ReadAll(resp.Body)
		resp.Body.Close()
		if errGo != nil {
			return nil, nil, errors.Wrap(errGo).With("url", u.String()).With("stack", stack.Trace().TrimRuntime())
		}
		if resp.StatusCode != http.StatusOK {
			return nil, nil, errors.New("unexpected response").With("url", u.String()).With("status", resp.Status).With("stack", stack.Trace().TrimRuntime())
		}

	case "file", "":
		fn := u.Path
		if fn == "" {
			fn = u.Opaque
		}
		var errGo error
		if body, errGo = ioutil.ReadFile(fn); errGo != nil {
			return nil, nil, errors.Wrap(errGo).With("file", fn).With("stack", stack.Trace().TrimRuntime())
		}

	default:
		errGo := fmt.Errorf("unknown scheme %s for a schedule definition", u.Scheme)
		return nil, nil, errors.Wrap(errGo).With("url", u.String()).With("stack", stack.Trace().TrimRuntime())
	}

	if def, err = ParseDefinition(body); err != nil {
		return nil, nil, err.With("url", u.String())
	}
	return def, body, nil
}

// DefinitionWatcher polls a definition and reports each version that differs
// from the one before it
type DefinitionWatcher struct {
	url      url.URL
	interval time.Duration
	defC     chan<- *Definition
	errorC   chan<- errors.Error

	last []byte
}

func NewDefinitionWatcher(u url.URL, interval time.Duration, defC chan<- *Definition, errorC chan<- errors.Error) (w *DefinitionWatcher) {
	if interval <= 0 {
		interval = time.Second
	}
	return &DefinitionWatcher{
		url:      u,
		interval: interval,
		defC:     defC,
		errorC:   errorC,
	}
}

// Seen primes the watcher with a document that has already been loaded so
// it is not sent again
func (w *DefinitionWatcher) Seen(body []byte) {
	w.last = body
}

func (w *DefinitionWatcher) check(quitC <-chan struct{}) {
	def, body, err := FetchDefinition(w.url)
	if err != nil {
		go report(w.errorC, err)
		return
	}
	if bytes.Equal(body, w.last) {
		return
	}

	select {
	case w.defC <- def:
		w.last = body
		logger.Debug("definition changed", "url", w.url.String())
	case <-quitC:
	case <-time.After(w.interval):
		go report(w.errorC, errors.New("definition update dropped").With("url", w.url.String()).With("stack", stack.Trace().TrimRuntime()))
	}
}

// Run checks the definition once every interval until quitC is closed
func (w *DefinitionWatcher) Run(quitC <-chan struct{}) {

	poll := time.NewTicker(w.interval)
	defer poll.Stop()

	for {
		select {
		case <-poll.C:
			w.check(quitC)

		case <-quitC:
			return
		}
	}
}
