// Package live is best-effort, in-process speech recognition that shows a
// running transcript while the authoritative job-based transcription runs.
//
// The host exposes an engine under SpeechRecognition or
// webkitSpeechRecognition. Supported probes for it and Recognizer drives one
// session at a time:
//
//	rec := live.NewRecognizer(globals, func(text string) { render(text) })
//	if rec.Start(ctx) {
//	    defer rec.Stop()
//	}
package live
