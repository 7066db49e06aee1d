package repository

import (
	"context"
	"time"
)

// CleanupTask asks a worker to remove a blob that is no longer referenced.
type CleanupTask struct {
	Key        string    `json:"key"`
	Reason     string    `json:"reason"`
	RetryCount int       `json:"retry_count"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

// MessageQueue defines the interface for message queue operations.
// Implementations should be provided by the infrastructure layer (e.g., RabbitMQ).
type MessageQueue interface {
	// PublishCleanupTask sends a blob cleanup task to the queue.
	// Used by the API server after a delete or replace has committed.
	PublishCleanupTask(ctx context.Context, task CleanupTask) error

	// ConsumeCleanupTasks blocks, calling handler for each task until ctx is done.
	// Used by the worker service.
	ConsumeCleanupTasks(ctx context.Context, handler func(task CleanupTask) error) error

	// Close gracefully closes the connection to the message queue.
	Close() error
}
