package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/hszk-dev/govlog/internal/domain/model"
	"github.com/hszk-dev/govlog/internal/domain/repository"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

var ErrNegativeOffset = fmt.Errorf("%w: offset cannot be negative", model.ErrValidation)

// ListVlogsInput filters a listing. Empty fields match everything.
type ListVlogsInput struct {
	Title  string
	Tag    string
	Limit  int
	Offset int
}

// ListingService lists vlogs newest first. It is public.
type ListingService interface {
	ListVlogs(ctx context.Context, input ListVlogsInput) ([]*model.VlogSummary, error)
}

type listingService struct {
	store repository.Store
}

func NewListingService(store repository.Store) ListingService {
	return &listingService{store: store}
}

func (s *listingService) ListVlogs(ctx context.Context, input ListVlogsInput) ([]*model.VlogSummary, error) {
	if input.Offset < 0 {
		return nil, ErrNegativeOffset
	}

	limit := PageSize(input.Limit)

	summaries, err := s.store.Repositories().Vlogs.List(ctx, repository.VlogFilter{
		Title:  strings.TrimSpace(input.Title),
		Tag:    strings.TrimSpace(input.Tag),
		Limit:  limit,
		Offset: input.Offset,
	})
	if err != nil {
		return nil, fmt.Errorf("list vlogs: %w", err)
	}

	return summaries, nil
}

// PageSize clamps a requested limit to (0, MaxPageSize], using DefaultPageSize when unset.
func PageSize(limit int) int {
	switch {
	case limit <= 0:
		return DefaultPageSize
	case limit > MaxPageSize:
		return MaxPageSize
	default:
		return limit
	}
}
