package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/hszk-dev/govlog/internal/domain/model"
	"github.com/hszk-dev/govlog/internal/infrastructure/cache"
	"github.com/hszk-dev/govlog/internal/infrastructure/metrics"
)

// CachedVlogServiceConfig holds configuration for CachedVlogService.
type CachedVlogServiceConfig struct {
	// CacheTTL is the TTL for cached vlog detail.
	CacheTTL time.Duration
}

// DefaultCachedVlogServiceConfig returns the default configuration.
func DefaultCachedVlogServiceConfig() CachedVlogServiceConfig {
	return CachedVlogServiceConfig{
		CacheTTL: 5 * time.Minute,
	}
}

// CachedVlogService is a VlogService whose detail reads are cached. Other
// services use it as their CacheInvalidator.
type CachedVlogService interface {
	VlogService
	CacheInvalidator
}

// cachedVlogService wraps VlogService with caching capabilities.
// It implements the decorator pattern to add caching without modifying the original service.
type cachedVlogService struct {
	delegate VlogService
	cache    cache.VlogCache
	sfGroup  singleflight.Group

	cacheTTL time.Duration
}

// NewCachedVlogService creates a new CachedVlogService wrapping the provided VlogService.
func NewCachedVlogService(
	delegate VlogService,
	vlogCache cache.VlogCache,
	cfg CachedVlogServiceConfig,
) CachedVlogService {
	return &cachedVlogService{
		delegate: delegate,
		cache:    vlogCache,
		cacheTTL: cfg.CacheTTL,
	}
}

// CreateVlog delegates to the underlying service. New vlogs are never cached yet.
func (s *cachedVlogService) CreateVlog(ctx context.Context, input CreateVlogInput) (*model.Vlog, error) {
	return s.delegate.CreateVlog(ctx, input)
}

func (s *cachedVlogService) UpdateVlog(ctx context.Context, input UpdateVlogInput) (*model.Vlog, error) {
	vlog, err := s.delegate.UpdateVlog(ctx, input)
	if err == nil {
		s.InvalidateVlog(ctx, input.VlogID)
	}
	return vlog, err
}

func (s *cachedVlogService) DeleteVlog(ctx context.Context, caller model.Caller, vlogID uuid.UUID) error {
	err := s.delegate.DeleteVlog(ctx, caller, vlogID)
	if err == nil {
		s.InvalidateVlog(ctx, vlogID)
	}
	return err
}

func (s *cachedVlogService) AttachMedia(ctx context.Context, caller model.Caller, vlogID uuid.UUID, file MediaFile) (*model.MediaAttachment, error) {
	media, err := s.delegate.AttachMedia(ctx, caller, vlogID, file)
	if err == nil {
		s.InvalidateVlog(ctx, vlogID)
	}
	return media, err
}

func (s *cachedVlogService) ReplaceMedia(ctx context.Context, caller model.Caller, vlogID, mediaID uuid.UUID, file MediaFile) (*model.MediaAttachment, error) {
	media, err := s.delegate.ReplaceMedia(ctx, caller, vlogID, mediaID, file)
	if err == nil {
		s.InvalidateVlog(ctx, vlogID)
	}
	return media, err
}

func (s *cachedVlogService) DetachMedia(ctx context.Context, caller model.Caller, vlogID uuid.UUID, kind model.MediaKind, mediaID uuid.UUID) error {
	err := s.delegate.DetachMedia(ctx, caller, vlogID, kind, mediaID)
	if err == nil {
		s.InvalidateVlog(ctx, vlogID)
	}
	return err
}

// GetVlog retrieves vlog detail with caching.
// Uses singleflight to prevent cache stampede on concurrent requests for the same vlog.
func (s *cachedVlogService) GetVlog(ctx context.Context, vlogID uuid.UUID) (*model.Vlog, error) {
	key := vlogID.String()
	result, err, shared := s.sfGroup.Do(key, func() (any, error) {
		return s.getVlogWithCache(ctx, vlogID)
	})

	if shared {
		metrics.SingleflightRequestsTotal.WithLabelValues(metrics.SingleflightShared).Inc()
	} else {
		metrics.SingleflightRequestsTotal.WithLabelValues(metrics.SingleflightInitiated).Inc()
	}

	if err != nil {
		return nil, err
	}

	return result.(*model.Vlog), nil
}

// getVlogWithCache implements the cache-aside pattern.
func (s *cachedVlogService) getVlogWithCache(ctx context.Context, vlogID uuid.UUID) (*model.Vlog, error) {
	vlog, err := s.cache.Get(ctx, vlogID)
	if err != nil {
		slog.Warn("cache get failed, falling back to database",
			"vlog_id", vlogID,
			"error", err,
		)
	}

	if vlog != nil {
		return vlog, nil
	}

	vlog, err = s.delegate.GetVlog(ctx, vlogID)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, vlog, s.cacheTTL); err != nil {
		slog.Warn("failed to cache vlog",
			"vlog_id", vlogID,
			"error", err,
		)
	}

	return vlog, nil
}

// InvalidateVlog removes a vlog from the cache. Failures are logged; the
// entry then expires with its TTL.
func (s *cachedVlogService) InvalidateVlog(ctx context.Context, vlogID uuid.UUID) {
	if err := s.cache.Delete(context.WithoutCancel(ctx), vlogID); err != nil {
		slog.Warn("failed to invalidate vlog cache",
			"vlog_id", vlogID,
			"error", err,
		)
	}
}
