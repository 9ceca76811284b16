package upload

import (
	"context"
	"errors"
	"fmt"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/dalemusser/campushub/internal/app/backend"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultPutAttempts bounds how often the direct PUT is tried.
const DefaultPutAttempts = 3

// ObjectStore is the backend surface used for uploads. *backend.Client
// satisfies it.
type ObjectStore interface {
	Presign(ctx context.Context, fileName, fileType string) (backend.Presigned, error)
	PutObject(ctx context.Context, uploadURL, contentType string, data []byte) error
	DeleteObject(ctx context.Context, key string) error
}

// Uploader performs the two-phase upload: presign through the backend,
// then PUT the bytes straight to storage.
type Uploader struct {
	Store       ObjectStore
	CDNBase     string
	PutAttempts int
	Backoff     time.Duration
	Log         *zap.Logger
}

// Uploaded is a stored object.
type Uploaded struct {
	Key       string
	PublicURL string

	store ObjectStore
	log   *zap.Logger
}

// Upload stores f under folder and returns its public URL.
func (u *Uploader) Upload(ctx context.Context, folder string, f File) (Uploaded, error) {
	name := ObjectName(folder, f.Name)
	p, err := u.Store.Presign(ctx, name, f.ContentType)
	if err != nil {
		return Uploaded{}, fmt.Errorf("presign %s: %w", name, err)
	}

	attempts := u.PutAttempts
	if attempts <= 0 {
		attempts = DefaultPutAttempts
	}
	backoff := u.Backoff
	if backoff <= 0 {
		backoff = 250 * time.Millisecond
	}

	// A PUT to the same presigned URL is idempotent, so retrying is safe.
	for i := 1; ; i++ {
		err = u.Store.PutObject(ctx, p.UploadURL, f.ContentType, f.Data)
		if err == nil {
			break
		}
		if i >= attempts || ctx.Err() != nil || !retryable(err) {
			return Uploaded{}, fmt.Errorf("put %s (attempt %d): %w", p.Key, i, err)
		}
		u.logger().Warn("upload put failed, retrying",
			zap.String("key", p.Key), zap.Int("attempt", i), zap.Error(err))
		select {
		case <-ctx.Done():
			return Uploaded{}, ctx.Err()
		case <-time.After(backoff * time.Duration(i)):
		}
	}

	return Uploaded{
		Key:       p.Key,
		PublicURL: PublicURL(u.CDNBase, p.Key),
		store:     u.Store,
		log:       u.logger(),
	}, nil
}

// Discard removes the object after a later step failed. It is best-effort:
// failures are logged and otherwise ignored.
func (up Uploaded) Discard(ctx context.Context) {
	if up.store == nil || up.Key == "" {
		return
	}
	if err := up.store.DeleteObject(ctx, up.Key); err != nil && up.log != nil {
		up.log.Warn("failed to discard uploaded object", zap.String("key", up.Key), zap.Error(err))
	}
}

// Stored returns a handle for an object previously uploaded under the CDN
// base, so it can be discarded once nothing refers to it. URLs outside the
// CDN base report false.
func (u *Uploader) Stored(publicURL string) (Uploaded, bool) {
	base := strings.TrimRight(u.CDNBase, "/") + "/"
	if u.CDNBase == "" || !strings.HasPrefix(publicURL, base) {
		return Uploaded{}, false
	}
	key := strings.TrimPrefix(publicURL, base)
	if key == "" {
		return Uploaded{}, false
	}
	return Uploaded{Key: key, PublicURL: publicURL, store: u.Store, log: u.logger()}, true
}

func (u *Uploader) logger() *zap.Logger {
	if u.Log == nil {
		return zap.NewNop()
	}
	return u.Log
}

// retryable is false for 4xx answers, which a retry cannot fix.
func retryable(err error) bool {
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status >= 500 || apiErr.Status == 408 || apiErr.Status == 429
	}
	return true
}

// PublicURL joins the CDN base and an object key.
func PublicURL(cdnBase, key string) string {
	return strings.TrimRight(cdnBase, "/") + "/" + strings.TrimLeft(key, "/")
}

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// ObjectName is the name requested for an upload:
// "<folder>/<uuid>-<sanitized filename>".
func ObjectName(folder, filename string) string {
	base := path.Base(strings.ReplaceAll(filename, `\`, "/"))
	base = strings.Trim(unsafeName.ReplaceAllString(base, "-"), "-.")
	if base == "" {
		base = "file"
	}
	if len(base) > 100 {
		base = base[len(base)-100:]
	}
	name := uuid.NewString() + "-" + base
	if folder = strings.Trim(folder, "/"); folder != "" {
		return folder + "/" + name
	}
	return name
}
