package cache

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hszk-dev/govlog/internal/domain/model"
)

// VlogCache caches the full vlog detail (media and comments included).
type VlogCache interface {
	// Get returns nil, nil on a cache miss.
	Get(ctx context.Context, vlogID uuid.UUID) (*model.Vlog, error)

	Set(ctx context.Context, vlog *model.Vlog, ttl time.Duration) error

	// Delete returns nil if the vlog was not cached.
	Delete(ctx context.Context, vlogID uuid.UUID) error
}
