// Package storage keeps uploaded images in a gocloud blob bucket.
package storage

import (
	"context"
	"log/slog"
	"path"
	"strings"

	"rentalhub/config"
	"rentalhub/internal/domain/service"
	"rentalhub/internal/errors"

	"github.com/google/uuid"
	"go.uber.org/fx"
	"gocloud.dev/blob"

	// Registered bucket schemes: file://, gs://, s3:// and mem://.
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/memblob"
	_ "gocloud.dev/blob/s3blob"
)

const defaultBucketURL = "mem://"

type blobStorage struct {
	bucket        *blob.Bucket
	publicBaseURL string
	logger        *slog.Logger
}

// NewBlobStorage opens the bucket at bucketURL. Objects are served from publicBaseURL.
func NewBlobStorage(ctx context.Context, bucketURL, publicBaseURL string, logger *slog.Logger) (*blobStorage, error) {
	if bucketURL == "" {
		bucketURL = defaultBucketURL
	}

	bucket, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open bucket %s", bucketURL)
	}

	return &blobStorage{
		bucket:        bucket,
		publicBaseURL: strings.TrimSuffix(publicBaseURL, "/"),
		logger:        logger,
	}, nil
}

// Upload stores data under <folder>/<uuid><ext>.
func (s *blobStorage) Upload(ctx context.Context, folder, filename, contentType string, data []byte) (*service.StoredObject, error) {
	key := path.Join(folder, uuid.NewString()+strings.ToLower(path.Ext(filename)))

	err := s.bucket.WriteAll(ctx, key, data, &blob.WriterOptions{ContentType: contentType})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to write object %s", key)
	}

	s.logger.DebugContext(ctx, "Object uploaded",
		slog.String("key", key),
		slog.Int("size", len(data)),
	)

	return &service.StoredObject{
		URL:         s.publicBaseURL + "/" + key,
		Key:         key,
		Size:        int64(len(data)),
		ContentType: contentType,
	}, nil
}

// Delete removes the object behind url. URLs outside publicBaseURL are ignored.
func (s *blobStorage) Delete(ctx context.Context, url string) {
	key, ok := s.keyFromURL(url)
	if !ok {
		s.logger.WarnContext(ctx, "Skipping delete of foreign object URL", slog.String("url", url))

		return
	}

	if err := s.bucket.Delete(ctx, key); err != nil {
		s.logger.ErrorContext(ctx, "Failed to delete object",
			slog.String("key", key),
			slog.Any("error", err),
		)
	}
}

// Close releases the bucket.
func (s *blobStorage) Close() error {
	return errors.WithStack(s.bucket.Close())
}

func (s *blobStorage) keyFromURL(url string) (string, bool) {
	prefix := s.publicBaseURL + "/"
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	key := strings.TrimPrefix(url, prefix)
	if key == "" || strings.Contains(key, "..") {
		return "", false
	}

	return key, true
}

// StorageParams holds dependencies for ObjectStorage, injected by Fx
type StorageParams struct {
	fx.In

	Lc     fx.Lifecycle
	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

// NewObjectStorage opens the configured bucket and closes it on shutdown.
func NewObjectStorage(params StorageParams) (service.ObjectStorage, error) {
	var bucketURL, publicBaseURL string
	if cfg := params.Config.Storage; cfg != nil {
		bucketURL, publicBaseURL = cfg.BucketURL, cfg.PublicBaseURL
	}
	if bucketURL == "" {
		params.Logger.Warn("Storage bucket not configured, uploads are kept in memory")
	}

	storage, err := NewBlobStorage(params.Ctx, bucketURL, publicBaseURL, params.Logger)
	if err != nil {
		return nil, err
	}

	params.Lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return storage.Close()
		},
	})

	return storage, nil
}

// Module provides the object storage FX module
//
//nolint:gochecknoglobals
var Module = fx.Options(
	fx.Provide(NewObjectStorage),
)
