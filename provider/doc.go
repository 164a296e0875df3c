// Package provider is a small generic framework for swappable backends.
//
// A Registry maps names to factories, a Manager keeps the active instances
// and a Selector chooses one per call when no default is pinned:
//
//	mgr := provider.NewManager(provider.NewRegistry[transcription.Provider](),
//	    &provider.PrioritySelector[transcription.Provider]{Priority: []string{"jobs", "whisper"}})
//	mgr.Register("whisper", whisper.Factory())
//	_ = mgr.Initialize("whisper", settings)
//	p, err := mgr.Get(ctx)
package provider
