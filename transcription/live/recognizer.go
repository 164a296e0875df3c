package live

import (
	"context"
	"strings"
	"sync"

	"github.com/kbukum/transcribekit/logger"
)

// Recognizer runs at most one live session at a time and reports the running
// transcript after every event. Its state goes idle -> listening -> idle; Stop,
// an engine error or the natural end of recognition all return it to idle and
// clear the transcript.
//
// The live transcript is never merged with a job result.
type Recognizer struct {
	globals      Globals
	onTranscript func(string)
	log          *logger.Logger

	// deliver orders transcript callbacks against Stop.
	deliver   sync.Mutex
	mu        sync.Mutex
	listening bool
	session   uint64
	engine    Engine
	cancel    context.CancelFunc
	finals    []string
	interim   string
	wg        sync.WaitGroup
}

// Option configures a Recognizer.
type Option func(*Recognizer)

// WithLogger sets the recognizer logger.
func WithLogger(l *logger.Logger) Option {
	return func(r *Recognizer) {
		r.log = l
	}
}

// NewRecognizer creates an idle recognizer. onTranscript may be nil. It runs
// on the session's reader goroutine and is never called once Stop has
// returned, so it must not call Stop itself.
func NewRecognizer(globals Globals, onTranscript func(string), opts ...Option) *Recognizer {
	r := &Recognizer{
		globals:      globals,
		onTranscript: onTranscript,
		log:          logger.Get("live"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Supported reports whether the host exposes an engine.
func (r *Recognizer) Supported() bool {
	return Supported(r.globals)
}

// Start begins listening. It returns false without side effects when the host
// has no engine, a session is already running, or the engine cannot start.
func (r *Recognizer) Start(ctx context.Context) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.listening {
		return false
	}
	factory, ok := Probe(r.globals)
	if !ok {
		return false
	}
	engine, err := factory()
	if err != nil {
		r.log.Debug("recognition engine unavailable", logger.ErrorFields("create", err))
		return false
	}

	sctx, cancel := context.WithCancel(ctx)
	events, err := engine.Start(sctx)
	if err != nil {
		cancel()
		r.log.Debug("recognition did not start", logger.ErrorFields("start", err))
		return false
	}

	r.session++
	r.listening = true
	r.engine = engine
	r.cancel = cancel
	r.finals = nil
	r.interim = ""

	r.wg.Add(1)
	go r.read(sctx, r.session, events)
	return true
}

// Stop ends the current session, if any, and clears the transcript.
func (r *Recognizer) Stop() {
	r.deliver.Lock()
	r.mu.Lock()
	engine := r.resetLocked()
	r.mu.Unlock()
	r.deliver.Unlock()

	if engine != nil {
		if err := engine.Stop(); err != nil {
			r.log.Debug("recognition engine stop failed", logger.ErrorFields("stop", err))
		}
	}
}

// Listening reports whether a session is active.
func (r *Recognizer) Listening() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.listening
}

// Transcript returns the running transcript, empty when idle.
func (r *Recognizer) Transcript() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.runningLocked()
}

// Wait blocks until the reader of the last session has exited.
func (r *Recognizer) Wait() {
	r.wg.Wait()
}

func (r *Recognizer) read(ctx context.Context, session uint64, events <-chan Result) {
	defer r.wg.Done()
	for {
		select {
		case <-ctx.Done():
			r.end(session, nil)
			return
		case res, ok := <-events:
			if !ok {
				r.end(session, nil)
				return
			}
			if res.Err != nil {
				r.end(session, res.Err)
				return
			}
			r.apply(session, res)
		}
	}
}

func (r *Recognizer) apply(session uint64, res Result) {
	r.deliver.Lock()
	defer r.deliver.Unlock()
	r.mu.Lock()
	if !r.listening || r.session != session {
		r.mu.Unlock()
		return
	}
	text := strings.TrimSpace(res.Text)
	if res.IsFinal {
		if text != "" {
			r.finals = append(r.finals, text)
		}
		r.interim = ""
	} else {
		r.interim = text
	}
	running := r.runningLocked()
	r.mu.Unlock()

	if r.onTranscript != nil {
		r.onTranscript(running)
	}
}

// end returns the session to idle after an error, cancellation or natural end.
func (r *Recognizer) end(session uint64, err error) {
	r.mu.Lock()
	if r.session != session {
		r.mu.Unlock()
		return
	}
	engine := r.resetLocked()
	r.mu.Unlock()

	if err != nil {
		r.log.Warn("recognition error", logger.ErrorFields("recognize", err))
	}
	if engine != nil {
		_ = engine.Stop()
	}
}

// resetLocked moves to idle and returns the engine that still needs stopping.
func (r *Recognizer) resetLocked() Engine {
	if !r.listening {
		return nil
	}
	engine := r.engine
	r.cancel()
	r.listening = false
	r.engine = nil
	r.cancel = nil
	r.finals = nil
	r.interim = ""
	return engine
}

func (r *Recognizer) runningLocked() string {
	parts := r.finals
	if r.interim != "" {
		parts = append(parts[:len(parts):len(parts)], r.interim)
	}
	return strings.Join(parts, " ")
}
