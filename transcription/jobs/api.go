package jobs

import (
	"context"
	"net/http"

	"github.com/kbukum/transcribekit/httpclient"
	"github.com/kbukum/transcribekit/logger"
	"github.com/kbukum/transcribekit/transcription"
)

// REST paths of the job API.
const (
	PathPresignedURL = "/transcribe/presigned-url"
	PathStart        = "/transcribe/start"
	PathResult       = "/transcribe/result"
)

// DefaultFormat is the audio format assumed when none is given.
const DefaultFormat = "webm"

// UploadTarget is where a recording goes and which job it becomes.
type UploadTarget struct {
	UploadURL string `json:"uploadUrl"`
	S3Key     string `json:"s3Key"`
	JobName   string `json:"jobName"`
}

type presignRequest struct {
	UserID string `json:"userId"`
	Format string `json:"format,omitempty"`
}

type startResponse struct {
	JobName string `json:"jobName"`
	Status  string `json:"status"`
}

type resultResponse struct {
	Status     string `json:"status"`
	Transcript string `json:"transcript,omitempty"`
}

// Client talks to the job API. None of its calls are retried.
type Client struct {
	http      *httpclient.Client
	presigner Presigner
	log       *logger.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithPresigner replaces the default API presigner.
func WithPresigner(p Presigner) ClientOption {
	return func(c *Client) {
		c.presigner = p
	}
}

// WithLogger sets the client logger.
func WithLogger(l *logger.Logger) ClientOption {
	return func(c *Client) {
		c.log = l
	}
}

// NewClient creates a job API client on top of hc.
func NewClient(hc *httpclient.Client, opts ...ClientOption) *Client {
	c := &Client{
		http: hc,
		log:  logger.Get("transcription"),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.presigner == nil {
		c.presigner = NewAPIPresigner(hc)
	}
	return c
}

// PutAudio transfers the recording to a presigned upload URL. The API
// credentials are never sent to the storage host.
func (c *Client) PutAudio(ctx context.Context, uploadURL string, audio []byte, format string) error {
	_, err := c.http.Do(ctx, httpclient.Request{
		Method:  http.MethodPut,
		Path:    uploadURL,
		Body:    audio,
		Headers: map[string]string{"Content-Type": ContentType(format)},
		Auth:    httpclient.NoAuth(),
	})
	return err
}

// StartJob registers an uploaded recording for processing.
func (c *Client) StartJob(ctx context.Context, job transcription.Job) (transcription.Status, error) {
	resp, err := httpclient.Post[startResponse](c.http, ctx, PathStart, job)
	if err != nil {
		return transcription.StatusUnknown, err
	}
	return transcription.ParseStatus(resp.Data.Status), nil
}

// FetchResult asks for the current state of a job.
func (c *Client) FetchResult(ctx context.Context, jobName, userID string) (transcription.Result, error) {
	resp, err := httpclient.Get[resultResponse](c.http, ctx, PathResult,
		httpclient.WithQueryParam("jobName", jobName),
		httpclient.WithQueryParam("userId", userID),
	)
	if err != nil {
		return transcription.Result{}, err
	}
	status := transcription.ParseStatus(resp.Data.Status)
	if status == transcription.StatusUnknown {
		c.log.Debug("raw job status", logger.Fields(logger.FieldJobName, jobName, logger.FieldStatus, resp.Data.Status))
	}
	return transcription.Result{Status: status, Transcript: resp.Data.Transcript}, nil
}

// Ping reports whether the API host answers at all.
func (c *Client) Ping(ctx context.Context) bool {
	return c.http.Ping(ctx)
}

// ContentType returns the MIME type sent with an upload of the given format.
func ContentType(format string) string {
	return "audio/" + format
}
