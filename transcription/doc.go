// Package transcription defines the speech-to-text provider contract and the
// types shared by its backends.
//
// # Backends
//
//   - transcription/jobs: asynchronous job API (upload, submit, poll)
//   - transcription/whisper: synchronous faster-whisper sidecar
//
// transcription/live covers best-effort in-process recognition and
// transcription/archive keeps recordings for later re-attempts.
//
// # Usage
//
//	mgr := transcription.NewManager(transcription.WithPriority("jobs", "whisper"))
//	mgr.Add("jobs", jobs.NewProvider(client, poller))
//	p, err := mgr.Get(ctx)
//	resp, err := p.Transcribe(ctx, transcription.TranscriptionRequest{Audio: audio, UserID: "user-1"})
package transcription
