package usecase

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path"
	"time"

	"github.com/google/uuid"

	"github.com/hszk-dev/govlog/internal/domain/model"
	"github.com/hszk-dev/govlog/internal/domain/repository"
	"github.com/hszk-dev/govlog/internal/infrastructure/metrics"
)

// Cleanup reasons recorded on queued blob deletions.
const (
	ReasonCreateFailed  = "create_failed"
	ReasonUpdateFailed  = "update_failed"
	ReasonCoverReplaced = "cover_replaced"
	ReasonMediaReplaced = "media_replaced"
	ReasonMediaDetached = "media_detached"
	ReasonVlogDeleted   = "vlog_deleted"
)

// MediaFile is an uploaded file waiting to be stored.
type MediaFile struct {
	Kind     model.MediaKind
	FileName string
	Data     []byte
}

// StoredMedia describes a file that is now in the blob store.
type StoredMedia struct {
	Kind        model.MediaKind
	Key         string
	ContentType string
}

// MediaStore validates files against their kind and moves them in and out
// of the blob store.
type MediaStore interface {
	// Validate checks the file without storing it.
	Validate(file MediaFile) error

	// Store validates and uploads the file.
	Store(ctx context.Context, file MediaFile) (*StoredMedia, error)

	// Discard removes blobs best effort. Failures are logged, never returned.
	Discard(ctx context.Context, reason string, keys ...string)
}

type mediaStore struct {
	storage repository.ObjectStorage
	queue   repository.MessageQueue
	now     func() time.Time
}

// NewMediaStore creates a MediaStore. queue may be nil, in which case
// discarded blobs are deleted inline.
func NewMediaStore(storage repository.ObjectStorage, queue repository.MessageQueue) MediaStore {
	return &mediaStore{
		storage: storage,
		queue:   queue,
		now:     time.Now,
	}
}

func (s *mediaStore) Validate(file MediaFile) error {
	_, _, err := model.ValidateMediaFile(file.Kind, file.FileName, file.Data)
	return err
}

func (s *mediaStore) Store(ctx context.Context, file MediaFile) (*StoredMedia, error) {
	contentType, ext, err := model.ValidateMediaFile(file.Kind, file.FileName, file.Data)
	if err != nil {
		metrics.MediaUploadsTotal.WithLabelValues(file.Kind.String(), "rejected").Inc()
		return nil, err
	}

	key := s.generateKey(file.Kind, ext)

	if err := s.storage.Upload(ctx, key, bytes.NewReader(file.Data), int64(len(file.Data)), contentType); err != nil {
		metrics.MediaUploadsTotal.WithLabelValues(file.Kind.String(), "error").Inc()
		return nil, fmt.Errorf("upload %s: %w", file.Kind, err)
	}
	metrics.MediaUploadsTotal.WithLabelValues(file.Kind.String(), "success").Inc()

	return &StoredMedia{
		Kind:        file.Kind,
		Key:         key,
		ContentType: contentType,
	}, nil
}

// Discard prefers the cleanup queue so deletion survives a blob store outage.
func (s *mediaStore) Discard(ctx context.Context, reason string, keys ...string) {
	ctx = context.WithoutCancel(ctx)

	for _, key := range keys {
		if key == "" {
			continue
		}

		if s.queue != nil {
			task := repository.CleanupTask{
				Key:        key,
				Reason:     reason,
				EnqueuedAt: s.now().UTC(),
			}
			err := s.queue.PublishCleanupTask(ctx, task)
			if err == nil {
				metrics.BlobCleanupTotal.WithLabelValues(metrics.CleanupQueued).Inc()
				continue
			}
			slog.Warn("failed to queue blob cleanup, deleting inline",
				"key", key,
				"reason", reason,
				"error", err,
			)
		}

		if err := s.storage.Delete(ctx, key); err != nil {
			metrics.BlobCleanupTotal.WithLabelValues(metrics.CleanupFailed).Inc()
			slog.Error("failed to delete blob",
				"key", key,
				"reason", reason,
				"error", err,
			)
			continue
		}
		metrics.BlobCleanupTotal.WithLabelValues(metrics.CleanupDeleted).Inc()
	}
}

// generateKey creates the storage key for a new file.
// Format: uploads/{images|videos|documents}/YYYY/MM/DD/{uuid}{ext}
func (s *mediaStore) generateKey(kind model.MediaKind, ext string) string {
	return path.Join("uploads", kind.Dir(), s.now().UTC().Format("2006/01/02"), uuid.NewString()+ext)
}
