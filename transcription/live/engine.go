package live

import "context"

// Global names under which a host exposes its recognition engine.
// The standard name wins when both are present.
const (
	StandardName = "SpeechRecognition"
	PrefixedName = "webkitSpeechRecognition"
)

// Result is one recognition event. Err ends the session.
type Result struct {
	Text    string
	IsFinal bool
	Err     error
}

// Engine is a continuous recognizer with interim results enabled.
// Start returns a channel of events that is closed when recognition ends on its own.
type Engine interface {
	Start(ctx context.Context) (<-chan Result, error)
	Stop() error
}

// EngineFactory creates a fresh engine for one listening session.
type EngineFactory func() (Engine, error)

// Globals is the host environment probed for an engine.
type Globals interface {
	Lookup(name string) (EngineFactory, bool)
}

// MapGlobals is a Globals backed by a map.
type MapGlobals map[string]EngineFactory

// Lookup returns the factory registered under name. Nil entries count as absent.
func (g MapGlobals) Lookup(name string) (EngineFactory, bool) {
	f, ok := g[name]
	return f, ok && f != nil
}

// Probe returns the engine factory the host exposes, if any.
func Probe(g Globals) (EngineFactory, bool) {
	if g == nil {
		return nil, false
	}
	for _, name := range []string{StandardName, PrefixedName} {
		if f, ok := g.Lookup(name); ok {
			return f, true
		}
	}
	return nil, false
}

// Supported reports whether the host exposes a recognition engine.
func Supported(g Globals) bool {
	_, ok := Probe(g)
	return ok
}
