// Package observability wires OpenTelemetry tracing and metrics for the
// transcription routine.
//
// Export is opt-in. With telemetry disabled the global no-op providers stay
// installed, so StartSpan and TranscriptionMetrics are always safe to call.
//
//	tel := observability.NewComponent(cfg)
//	if err := tel.Start(ctx); err != nil { ... }
//	defer tel.Stop(ctx)
//
//	metrics, err := observability.NewTranscriptionMetrics(observability.Meter())
//	ctx, span := observability.StartSpan(ctx, observability.SpanPoll)
//	defer observability.EndSpan(span, err)
package observability
