package repository

import (
	"context"

	"github.com/hszk-dev/govlog/internal/domain/model"
)

// EventPublisher delivers committed vlog changes to downstream consumers.
// Delivery is best effort.
type EventPublisher interface {
	Publish(ctx context.Context, event model.VlogEvent) error
	Close() error
}
