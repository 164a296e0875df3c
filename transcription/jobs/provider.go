package jobs

import (
	"context"

	"github.com/kbukum/transcribekit/transcription"
)

// ProviderName is the registered name of the job API backend.
const ProviderName = "jobs"

// Provider exposes the upload, submit and poll routine as a transcription.Provider.
type Provider struct {
	client *Client
	poller *Poller
}

var _ transcription.Provider = (*Provider)(nil)

// NewProvider combines a client and a poller.
func NewProvider(client *Client, poller *Poller) *Provider {
	return &Provider{client: client, poller: poller}
}

// Name returns the provider name.
func (p *Provider) Name() string { return ProviderName }

// IsAvailable reports whether the job API answers at all.
func (p *Provider) IsAvailable(ctx context.Context) bool {
	return p.client.Ping(ctx)
}

// Transcribe uploads the recording, starts a job and waits for its transcript.
// Language and Model are not supported by the job API and are ignored.
func (p *Provider) Transcribe(ctx context.Context, req transcription.TranscriptionRequest) (*transcription.TranscriptionResponse, error) {
	audio, err := transcription.LoadAudio(req)
	if err != nil {
		return nil, err
	}
	job, err := p.client.UploadAndSubmit(ctx, UploadRequest{
		Audio:  audio,
		UserID: req.UserID,
		Format: req.Format,
	})
	if err != nil {
		return nil, err
	}
	text, err := p.poller.Poll(ctx, job.JobName, job.UserID)
	if err != nil {
		return nil, err
	}
	return &transcription.TranscriptionResponse{Text: text, JobName: job.JobName}, nil
}
