// Package archive keeps recordings in object storage so a failed
// transcription can be re-run from the same audio.
package archive

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/kbukum/transcribekit/encryption"
	"github.com/kbukum/transcribekit/errors"
	"github.com/kbukum/transcribekit/logger"
	"github.com/kbukum/transcribekit/storage"
	"github.com/kbukum/transcribekit/validation"
)

// DefaultPrefix is the key prefix recordings are stored under.
const DefaultPrefix = "recordings"

// timeLayout renders keys as yyyymmddThhmmssZ in UTC.
const timeLayout = "20060102T150405Z"

// Archive stores recordings under <prefix>/<userId>/<timestamp>.<format>.
type Archive struct {
	store  storage.Storage
	prefix string
	now    func() time.Time
	enc    encryption.Encryptor
	log    *logger.Logger
}

// Option configures an Archive.
type Option func(*Archive)

// WithPrefix overrides DefaultPrefix.
func WithPrefix(prefix string) Option {
	return func(a *Archive) {
		if prefix != "" {
			a.prefix = strings.Trim(prefix, "/")
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(a *Archive) { a.now = now }
}

// WithEncryptor seals recordings at rest. The object key is bound to the
// ciphertext, so a recording copied to another key fails to open.
func WithEncryptor(enc encryption.Encryptor) Option {
	return func(a *Archive) { a.enc = enc }
}

// WithLogger sets the archive logger.
func WithLogger(log *logger.Logger) Option {
	return func(a *Archive) { a.log = log.WithComponent("archive") }
}

// New creates an Archive over store.
func New(store storage.Storage, opts ...Option) *Archive {
	a := &Archive{
		store:  store,
		prefix: DefaultPrefix,
		now:    time.Now,
		log:    logger.Get("archive"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Key returns the key a recording made at t would be stored under.
func (a *Archive) Key(userID, format string, t time.Time) string {
	return path.Join(a.prefix, userID, t.UTC().Format(timeLayout)+"."+format)
}

// Save writes audio and returns its key.
func (a *Archive) Save(ctx context.Context, userID, format string, audio []byte) (string, error) {
	if userID == "" {
		return "", errors.InvalidInput("userId", "user id is required")
	}
	if !validation.KeySegment(userID) {
		return "", errors.InvalidInput("userId", "user id must not contain path separators or '..'")
	}
	if format == "" {
		return "", errors.InvalidInput("format", "format is required")
	}
	if len(audio) == 0 {
		return "", errors.InvalidInput("audio", "recording is empty")
	}
	key, err := a.freeKey(ctx, userID, format)
	if err != nil {
		return "", err
	}
	body, contentType := audio, "audio/"+format
	if a.enc != nil {
		sealed, err := a.enc.Seal(audio, []byte(key))
		if err != nil {
			return "", fmt.Errorf("seal %s: %w", key, err)
		}
		body, contentType = sealed, "application/octet-stream"
	}
	if err := a.store.Upload(ctx, key, bytes.NewReader(body), contentType); err != nil {
		return "", fmt.Errorf("archive %s: %w", key, err)
	}
	a.log.Info("recording archived", logger.Fields("key", key, "bytes", len(audio), "encrypted", a.enc != nil))
	return key, nil
}

// freeKey returns Key for the current time, suffixed with -2, -3, ... when a
// recording made in the same second already holds it.
func (a *Archive) freeKey(ctx context.Context, userID, format string) (string, error) {
	base := a.Key(userID, format, a.now())
	key := base
	for n := 2; ; n++ {
		taken, err := a.store.Exists(ctx, key)
		if err != nil {
			return "", fmt.Errorf("archive %s: %w", key, err)
		}
		if !taken {
			return key, nil
		}
		key = strings.TrimSuffix(base, "."+format) + "-" + strconv.Itoa(n) + "." + format
	}
}

// Load reads back a recording saved under key.
func (a *Archive) Load(ctx context.Context, key string) ([]byte, error) {
	rc, err := a.store.Download(ctx, key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	if a.enc != nil {
		if data, err = a.enc.Open(data, []byte(key)); err != nil {
			return nil, fmt.Errorf("open %s: %w", key, err)
		}
	}
	return data, nil
}

// List returns the recordings kept for userID in key order.
func (a *Archive) List(ctx context.Context, userID string) ([]storage.FileInfo, error) {
	if !validation.KeySegment(userID) {
		return nil, errors.InvalidInput("userId", "user id must not contain path separators or '..'")
	}
	return a.store.List(ctx, path.Join(a.prefix, userID)+"/")
}

// Format returns the audio format encoded in key's extension.
func Format(key string) string {
	return strings.TrimPrefix(path.Ext(key), ".")
}

// UserID returns the user segment of a key produced by Save.
func (a *Archive) UserID(key string) (string, bool) {
	rest, ok := strings.CutPrefix(key, a.prefix+"/")
	if !ok {
		return "", false
	}
	user, _, ok := strings.Cut(rest, "/")
	return user, ok && user != ""
}
