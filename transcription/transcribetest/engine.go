package transcribetest

import (
	"context"
	"sync"

	"github.com/kbukum/transcribekit/transcription/live"
)

// Engine is a scripted live.Engine. Tests push events with Interim, Final,
// Fail and End after the recognizer has started it.
type Engine struct {
	// StartErr, when set, makes Start fail.
	StartErr error

	mu     sync.Mutex
	events chan live.Result
	closed bool
	starts int
	stops  int
}

// NewEngine creates an idle fake engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Factory returns a live.EngineFactory that always hands out e.
func (e *Engine) Factory() live.EngineFactory {
	return func() (live.Engine, error) { return e, nil }
}

// Globals returns host globals exposing e under name.
func (e *Engine) Globals(name string) live.MapGlobals {
	return live.MapGlobals{name: e.Factory()}
}

// Start opens a new event stream.
func (e *Engine) Start(_ context.Context) (<-chan live.Result, error) {
	if e.StartErr != nil {
		return nil, e.StartErr
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = make(chan live.Result, 16)
	e.closed = false
	e.starts++
	return e.events, nil
}

// Stop closes the stream. Calling it more than once is harmless.
func (e *Engine) Stop() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stops++
	e.closeLocked()
	return nil
}

// Interim emits a non-final segment.
func (e *Engine) Interim(text string) { e.emit(live.Result{Text: text}) }

// Final emits a finalized segment.
func (e *Engine) Final(text string) { e.emit(live.Result{Text: text, IsFinal: true}) }

// Fail emits an engine error.
func (e *Engine) Fail(err error) { e.emit(live.Result{Err: err}) }

// End closes the stream as if recognition finished on its own.
func (e *Engine) End() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closeLocked()
}

// Starts returns how many times Start succeeded.
func (e *Engine) Starts() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.starts
}

// Stops returns how many times Stop was called.
func (e *Engine) Stops() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stops
}

func (e *Engine) emit(r live.Result) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.events == nil || e.closed {
		return
	}
	e.events <- r
}

func (e *Engine) closeLocked() {
	if e.events != nil && !e.closed {
		close(e.events)
		e.closed = true
	}
}
