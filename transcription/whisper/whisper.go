// Package whisper is a synchronous transcription backend that talks to a
// faster-whisper HTTP sidecar.
package whisper

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/go-viper/mapstructure/v2"

	"github.com/kbukum/transcribekit/errors"
	"github.com/kbukum/transcribekit/httpclient"
	"github.com/kbukum/transcribekit/provider"
	"github.com/kbukum/transcribekit/transcription"
)

const (
	// ProviderName is the registered name for the Whisper provider.
	ProviderName = "whisper"

	defaultURL     = "http://localhost:8387"
	defaultModel   = "base"
	defaultTimeout = 120 * time.Second
	defaultFormat  = "wav"
)

// Config holds configuration for the Whisper transcription provider.
type Config struct {
	URL      string        `yaml:"url" mapstructure:"url"`
	Model    string        `yaml:"model" mapstructure:"model"`
	Language string        `yaml:"language" mapstructure:"language"`
	Timeout  time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.URL == "" {
		c.URL = defaultURL
	}
	if c.Model == "" {
		c.Model = defaultModel
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
}

// Provider implements transcription.Provider against a faster-whisper sidecar.
type Provider struct {
	cfg    Config
	client *httpclient.Client
}

var _ transcription.Provider = (*Provider)(nil)

// NewProvider creates a Whisper provider.
func NewProvider(cfg Config) (*Provider, error) {
	cfg.ApplyDefaults()
	client, err := httpclient.New(httpclient.Config{
		Name:    ProviderName,
		BaseURL: cfg.URL,
		Timeout: cfg.Timeout,
	})
	if err != nil {
		return nil, err
	}
	return &Provider{cfg: cfg, client: client}, nil
}

// Factory returns a provider.Factory that decodes a settings map such as
// {"url": "...", "timeout": "90s"} into Config.
func Factory() provider.Factory[transcription.Provider] {
	return func(settings map[string]any) (transcription.Provider, error) {
		var cfg Config
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
			WeaklyTypedInput: true,
			Result:           &cfg,
		})
		if err != nil {
			return nil, err
		}
		if err := dec.Decode(settings); err != nil {
			return nil, errors.InvalidInput("whisper", err.Error())
		}
		return NewProvider(cfg)
	}
}

// Name returns the provider name.
func (p *Provider) Name() string { return ProviderName }

// IsAvailable reports whether the sidecar's health endpoint answers 200.
func (p *Provider) IsAvailable(ctx context.Context) bool {
	resp, err := p.client.Do(ctx, httpclient.Request{Method: http.MethodGet, Path: "/health"})
	return err == nil && resp.StatusCode == http.StatusOK
}

// Transcribe uploads the recording as multipart form data and waits for the text.
func (p *Provider) Transcribe(ctx context.Context, req transcription.TranscriptionRequest) (*transcription.TranscriptionResponse, error) {
	audio, err := transcription.LoadAudio(req)
	if err != nil {
		return nil, err
	}

	model := p.cfg.Model
	if req.Model != "" {
		model = req.Model
	}
	lang := p.cfg.Language
	if req.Language != "" {
		lang = req.Language
	}
	format := req.Format
	if format == "" {
		format = defaultFormat
	}

	body, contentType, err := multipartBody(audio, "audio."+format, model, lang)
	if err != nil {
		return nil, err
	}

	resp, err := httpclient.Post[whisperResponse](p.client, ctx, "/transcribe", body,
		httpclient.WithHeader("Content-Type", contentType))
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.ExternalServiceError(ProviderName, err)
	}
	return toTranscriptionResponse(&resp.Data), nil
}

func multipartBody(audio []byte, filename, model, lang string) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("audio", filename)
	if err != nil {
		return nil, "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return nil, "", fmt.Errorf("write audio data: %w", err)
	}
	if err := w.WriteField("model", model); err != nil {
		return nil, "", err
	}
	if lang != "" {
		if err := w.WriteField("language", lang); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

type whisperResponse struct {
	Text     string           `json:"text"`
	Segments []whisperSegment `json:"segments"`
	Language string           `json:"language"`
}

type whisperSegment struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

func toTranscriptionResponse(resp *whisperResponse) *transcription.TranscriptionResponse {
	segments := make([]transcription.Segment, len(resp.Segments))
	for i, seg := range resp.Segments {
		segments[i] = transcription.Segment{Start: seg.Start, End: seg.End, Text: seg.Text}
	}

	var duration float64
	if n := len(resp.Segments); n > 0 {
		duration = resp.Segments[n-1].End
	}

	return &transcription.TranscriptionResponse{
		Text:     resp.Text,
		Segments: segments,
		Duration: duration,
		Language: resp.Language,
	}
}
