package jobs

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/transcribekit/logger"
	"github.com/kbukum/transcribekit/observability"
	"github.com/kbukum/transcribekit/transcription"
	"github.com/kbukum/transcribekit/validation"
)

// UploadRequest is a recording to turn into a job.
type UploadRequest struct {
	Audio  []byte `json:"audio" validate:"required,min=1"`
	UserID string `json:"userId" validate:"required,key_segment"`
	Format string `json:"format" validate:"omitempty,audio_format"`
}

// UploadAndSubmit gets an upload destination, PUTs the audio there and
// starts the job. A failure at any step is returned as is.
func (c *Client) UploadAndSubmit(ctx context.Context, req UploadRequest) (transcription.Job, error) {
	if err := validation.Validate(req); err != nil {
		return transcription.Job{}, err
	}
	format := req.Format
	if format == "" {
		format = DefaultFormat
	}
	ctx = logger.ContextWithUserID(ctx, req.UserID)

	target, err := c.upload(ctx, req.UserID, format, req.Audio)
	if err != nil {
		c.log.Error("upload failed", logger.Fields(logger.FieldUserID, req.UserID, logger.FieldError, err.Error()))
		return transcription.Job{}, err
	}

	job := transcription.Job{
		JobName: target.JobName,
		S3Key:   target.S3Key,
		UserID:  req.UserID,
		Format:  format,
	}
	if err := c.submit(ctx, job); err != nil {
		c.log.Error("job start failed", logger.Fields(logger.FieldJobName, job.JobName, logger.FieldError, err.Error()))
		return transcription.Job{}, err
	}
	return job, nil
}

func (c *Client) upload(ctx context.Context, userID, format string, audio []byte) (_ UploadTarget, err error) {
	ctx, span := observability.StartSpan(ctx, observability.SpanUpload,
		attribute.String(observability.AttrUserID, userID),
		attribute.String(observability.AttrAudioFormat, format),
		attribute.Int(observability.AttrAudioBytes, len(audio)),
	)
	defer func() { observability.EndSpan(span, err) }()

	target, err := c.presigner.Presign(ctx, userID, format)
	if err != nil {
		return UploadTarget{}, err
	}
	span.SetAttributes(attribute.String(observability.AttrJobName, target.JobName))

	if err := c.PutAudio(ctx, target.UploadURL, audio, format); err != nil {
		return UploadTarget{}, err
	}
	c.log.Debug("audio uploaded", logger.Fields(
		logger.FieldJobName, target.JobName,
		"s3_key", target.S3Key,
		"bytes", len(audio),
	))
	return target, nil
}

func (c *Client) submit(ctx context.Context, job transcription.Job) (err error) {
	ctx, span := observability.StartSpan(ctx, observability.SpanSubmit,
		attribute.String(observability.AttrJobName, job.JobName),
		attribute.String(observability.AttrUserID, job.UserID),
	)
	defer func() { observability.EndSpan(span, err) }()

	status, err := c.StartJob(ctx, job)
	if err != nil {
		return err
	}
	c.log.Info("transcription job started", logger.Fields(
		logger.FieldJobName, job.JobName,
		logger.FieldUserID, job.UserID,
		logger.FieldStatus, status.String(),
	))
	return nil
}
