package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/hszk-dev/govlog/internal/domain/model"
	"github.com/hszk-dev/govlog/internal/infrastructure/metrics"
)

const vlogCacheKeyPrefix = "vlog:"

// Explicit wire structs keep the cached format independent of the domain model.
type vlogJSON struct {
	ID          uuid.UUID     `json:"id"`
	AuthorID    uuid.UUID     `json:"author_id"`
	AuthorName  string        `json:"author_name"`
	Title       string        `json:"title"`
	Cover       string        `json:"cover,omitempty"`
	Content     string        `json:"content,omitempty"`
	Description string        `json:"description"`
	TagID       *uuid.UUID    `json:"tag_id,omitempty"`
	Tag         string        `json:"tag,omitempty"`
	Likes       int           `json:"likes"`
	PostedAt    time.Time     `json:"posted_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
	Media       []mediaJSON   `json:"media"`
	Comments    []commentJSON `json:"comments"`
}

type mediaJSON struct {
	ID          uuid.UUID `json:"id"`
	Kind        string    `json:"kind"`
	FileKey     string    `json:"file_key"`
	ContentType string    `json:"content_type"`
	CreatedAt   time.Time `json:"created_at"`
}

type commentJSON struct {
	ID         uuid.UUID `json:"id"`
	AuthorID   uuid.UUID `json:"author_id"`
	AuthorName string    `json:"author_name"`
	Text       string    `json:"text"`
	PostedAt   time.Time `json:"posted_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// RedisVlogCache implements VlogCache using Redis as the backing store.
type RedisVlogCache struct {
	client *redis.Client
}

func NewRedisVlogCache(client *redis.Client) *RedisVlogCache {
	return &RedisVlogCache{client: client}
}

// Get retrieves a vlog from Redis. Returns nil, nil on cache miss.
func (c *RedisVlogCache) Get(ctx context.Context, vlogID uuid.UUID) (*model.Vlog, error) {
	data, err := c.client.Get(ctx, buildKey(vlogID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpGet, metrics.CacheStatusMiss).Inc()
			return nil, nil
		}
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpGet, metrics.CacheStatusError).Inc()
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var v vlogJSON
	if err := json.Unmarshal(data, &v); err != nil {
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpGet, metrics.CacheStatusError).Inc()
		return nil, fmt.Errorf("deserialize vlog: %w", err)
	}

	metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpGet, metrics.CacheStatusHit).Inc()
	return fromJSON(v), nil
}

// Set stores a vlog with the given TTL.
func (c *RedisVlogCache) Set(ctx context.Context, vlog *model.Vlog, ttl time.Duration) error {
	data, err := json.Marshal(toJSON(vlog))
	if err != nil {
		return fmt.Errorf("serialize vlog: %w", err)
	}

	if err := c.client.Set(ctx, buildKey(vlog.ID), data, ttl).Err(); err != nil {
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpSet, metrics.CacheStatusError).Inc()
		return fmt.Errorf("redis set: %w", err)
	}

	metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpSet, metrics.CacheStatusSuccess).Inc()
	return nil
}

// Delete removes a vlog from the cache.
func (c *RedisVlogCache) Delete(ctx context.Context, vlogID uuid.UUID) error {
	if err := c.client.Del(ctx, buildKey(vlogID)).Err(); err != nil {
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpDelete, metrics.CacheStatusError).Inc()
		return fmt.Errorf("redis del: %w", err)
	}

	metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpDelete, metrics.CacheStatusSuccess).Inc()
	return nil
}

func buildKey(vlogID uuid.UUID) string {
	return vlogCacheKeyPrefix + vlogID.String()
}

func toJSON(v *model.Vlog) vlogJSON {
	out := vlogJSON{
		ID:          v.ID,
		AuthorID:    v.AuthorID,
		AuthorName:  v.AuthorName,
		Title:       v.Title,
		Cover:       v.Cover,
		Content:     v.Content,
		Description: v.Description,
		TagID:       v.TagID,
		Tag:         v.Tag,
		Likes:       v.Likes,
		PostedAt:    v.PostedAt,
		UpdatedAt:   v.UpdatedAt,
		Media:       make([]mediaJSON, 0, len(v.Media)),
		Comments:    make([]commentJSON, 0, len(v.Comments)),
	}
	for _, m := range v.Media {
		out.Media = append(out.Media, mediaJSON{
			ID:          m.ID,
			Kind:        m.Kind.String(),
			FileKey:     m.FileKey,
			ContentType: m.ContentType,
			CreatedAt:   m.CreatedAt,
		})
	}
	for _, c := range v.Comments {
		out.Comments = append(out.Comments, commentJSON{
			ID:         c.ID,
			AuthorID:   c.AuthorID,
			AuthorName: c.AuthorName,
			Text:       c.Text,
			PostedAt:   c.PostedAt,
			UpdatedAt:  c.UpdatedAt,
		})
	}
	return out
}

func fromJSON(v vlogJSON) *model.Vlog {
	out := &model.Vlog{
		ID:          v.ID,
		AuthorID:    v.AuthorID,
		AuthorName:  v.AuthorName,
		Title:       v.Title,
		Cover:       v.Cover,
		Content:     v.Content,
		Description: v.Description,
		TagID:       v.TagID,
		Tag:         v.Tag,
		Likes:       v.Likes,
		PostedAt:    v.PostedAt,
		UpdatedAt:   v.UpdatedAt,
	}
	for _, m := range v.Media {
		out.Media = append(out.Media, &model.MediaAttachment{
			ID:          m.ID,
			VlogID:      v.ID,
			Kind:        model.MediaKind(m.Kind),
			FileKey:     m.FileKey,
			ContentType: m.ContentType,
			CreatedAt:   m.CreatedAt,
		})
	}
	for _, c := range v.Comments {
		out.Comments = append(out.Comments, &model.Comment{
			ID:         c.ID,
			VlogID:     v.ID,
			AuthorID:   c.AuthorID,
			AuthorName: c.AuthorName,
			Text:       c.Text,
			PostedAt:   c.PostedAt,
			UpdatedAt:  c.UpdatedAt,
		})
	}
	return out
}

var _ VlogCache = (*RedisVlogCache)(nil)
