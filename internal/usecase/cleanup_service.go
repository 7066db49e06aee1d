package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hszk-dev/govlog/internal/domain/repository"
	"github.com/hszk-dev/govlog/internal/infrastructure/metrics"
)

const (
	// DefaultMaxRetries is the default number of attempts before a cleanup task is dropped.
	DefaultMaxRetries = 3
)

// CleanupServiceConfig holds configuration for CleanupService.
type CleanupServiceConfig struct {
	MaxRetries int
}

// DefaultCleanupServiceConfig returns the default configuration.
func DefaultCleanupServiceConfig() CleanupServiceConfig {
	return CleanupServiceConfig{
		MaxRetries: DefaultMaxRetries,
	}
}

// CleanupService deletes blobs that are no longer referenced.
type CleanupService interface {
	// ProcessTask handles a cleanup task from the message queue.
	// Returns nil on success or when the task is dropped after max retries.
	// Returns error for failures that should trigger a retry.
	ProcessTask(ctx context.Context, task repository.CleanupTask) error
}

type cleanupService struct {
	storage    repository.ObjectStorage
	maxRetries int
}

// NewCleanupService creates a new CleanupService instance.
func NewCleanupService(storage repository.ObjectStorage, cfg CleanupServiceConfig) CleanupService {
	return &cleanupService{
		storage:    storage,
		maxRetries: cfg.MaxRetries,
	}
}

func (s *cleanupService) ProcessTask(ctx context.Context, task repository.CleanupTask) error {
	if task.RetryCount >= s.maxRetries {
		metrics.BlobCleanupTotal.WithLabelValues(metrics.CleanupDropped).Inc()
		slog.Error("dropping blob cleanup after max retries, object is orphaned",
			"key", task.Key,
			"reason", task.Reason,
			"retry_count", task.RetryCount,
		)
		return nil
	}

	if err := s.storage.Delete(ctx, task.Key); err != nil {
		metrics.BlobCleanupTotal.WithLabelValues(metrics.CleanupFailed).Inc()
		return fmt.Errorf("delete blob: %w", err)
	}

	metrics.BlobCleanupTotal.WithLabelValues(metrics.CleanupDeleted).Inc()
	slog.Info("blob deleted", "key", task.Key, "reason", task.Reason)
	return nil
}
