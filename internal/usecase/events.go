package usecase

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"

	"github.com/hszk-dev/govlog/internal/domain/model"
	"github.com/hszk-dev/govlog/internal/domain/repository"
)

var tracer = otel.Tracer("github.com/hszk-dev/govlog/internal/usecase")

// publishEvent sends a committed change downstream. Failures are logged only.
func publishEvent(ctx context.Context, publisher repository.EventPublisher, event model.VlogEvent) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(context.WithoutCancel(ctx), event); err != nil {
		slog.Warn("failed to publish vlog event",
			"type", event.Type,
			"vlog_id", event.VlogID,
			"error", err,
		)
	}
}

// CacheInvalidator drops cached vlog detail after a committed change.
type CacheInvalidator interface {
	InvalidateVlog(ctx context.Context, vlogID uuid.UUID)
}

type noopInvalidator struct{}

func (noopInvalidator) InvalidateVlog(context.Context, uuid.UUID) {}

func invalidatorOrNoop(inv CacheInvalidator) CacheInvalidator {
	if inv == nil {
		return noopInvalidator{}
	}
	return inv
}
