package jobs

import (
	"context"
	"path"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/transcribekit/errors"
	"github.com/kbukum/transcribekit/httpclient"
	"github.com/kbukum/transcribekit/storage"
	"github.com/kbukum/transcribekit/validation"
)

// Presigner hands out an upload destination and the job name it will become.
type Presigner interface {
	Presign(ctx context.Context, userID, format string) (UploadTarget, error)
}

// APIPresigner asks the job API for the destination.
type APIPresigner struct {
	client *httpclient.Client
}

// NewAPIPresigner creates a presigner that calls PathPresignedURL.
func NewAPIPresigner(client *httpclient.Client) *APIPresigner {
	return &APIPresigner{client: client}
}

// Presign requests an upload URL, storage key and job name.
func (p *APIPresigner) Presign(ctx context.Context, userID, format string) (UploadTarget, error) {
	resp, err := httpclient.Post[UploadTarget](p.client, ctx, PathPresignedURL, presignRequest{
		UserID: userID,
		Format: format,
	})
	if err != nil {
		return UploadTarget{}, err
	}
	t := resp.Data
	if t.UploadURL == "" || t.S3Key == "" || t.JobName == "" {
		return UploadTarget{}, errors.ExternalServiceError("transcription", nil).
			WithDetail("reason", "incomplete presigned-url response")
	}
	return t, nil
}

// S3Presigner signs the upload URL locally against the recording bucket.
// Keys look like <prefix>/<userId>/<jobName>.<format>.
type S3Presigner struct {
	store   storage.UploadPresigner
	prefix  string
	expiry  time.Duration
	newName func() string
}

// NewS3Presigner creates a presigner backed by store. Job names are random UUIDs.
func NewS3Presigner(store storage.UploadPresigner, prefix string, expiry time.Duration) *S3Presigner {
	if expiry <= 0 {
		expiry = 15 * time.Minute
	}
	return &S3Presigner{
		store:   store,
		prefix:  prefix,
		expiry:  expiry,
		newName: uuid.NewString,
	}
}

// Presign mints a job name and signs a PUT for its key.
func (p *S3Presigner) Presign(ctx context.Context, userID, format string) (UploadTarget, error) {
	if !validation.KeySegment(userID) {
		return UploadTarget{}, errors.InvalidInput("userId", "user id must not contain path separators or '..'")
	}
	jobName := p.newName()
	key := path.Join(p.prefix, userID, jobName+"."+format)
	url, err := p.store.PresignPut(ctx, key, ContentType(format), p.expiry)
	if err != nil {
		return UploadTarget{}, err
	}
	return UploadTarget{UploadURL: url, S3Key: key, JobName: jobName}, nil
}
