package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/hszk-dev/govlog/internal/domain/model"
	"github.com/hszk-dev/govlog/internal/domain/repository"
	"github.com/hszk-dev/govlog/internal/infrastructure/metrics"
)

// LikeResult is the caller's like state on a vlog and the vlog's like count.
type LikeResult struct {
	VlogID uuid.UUID
	State  model.LikeState
	Likes  int
}

// LikeService defines the engagement operations. Toggles on the same vlog
// are serialized; the stored count always equals the number of likes.
type LikeService interface {
	// Like returns ErrAlreadyLiked if the caller already likes the vlog.
	Like(ctx context.Context, caller model.Caller, vlogID uuid.UUID) (*LikeResult, error)

	// Unlike returns ErrNotLiked if the caller does not like the vlog.
	Unlike(ctx context.Context, caller model.Caller, vlogID uuid.UUID) (*LikeResult, error)

	// LikeStatus reports the count and, for a signed-in caller, whether they like the vlog.
	LikeStatus(ctx context.Context, caller model.Caller, vlogID uuid.UUID) (*LikeResult, error)
}

type likeService struct {
	store       repository.Store
	invalidator CacheInvalidator
	publisher   repository.EventPublisher
}

// NewLikeService creates a new LikeService instance. invalidator may be nil.
func NewLikeService(
	store repository.Store,
	invalidator CacheInvalidator,
	publisher repository.EventPublisher,
) LikeService {
	return &likeService{
		store:       store,
		invalidator: invalidatorOrNoop(invalidator),
		publisher:   publisher,
	}
}

func (s *likeService) Like(ctx context.Context, caller model.Caller, vlogID uuid.UUID) (*LikeResult, error) {
	return s.toggle(ctx, caller, vlogID, model.LikeStateLiked)
}

func (s *likeService) Unlike(ctx context.Context, caller model.Caller, vlogID uuid.UUID) (*LikeResult, error) {
	return s.toggle(ctx, caller, vlogID, model.LikeStateNotLiked)
}

// toggle moves the caller's state to target under the vlog's row lock and
// recomputes the count before commit.
func (s *likeService) toggle(ctx context.Context, caller model.Caller, vlogID uuid.UUID, target model.LikeState) (_ *LikeResult, err error) {
	action, from, eventType := "like", model.LikeStateNotLiked, model.EventVlogLiked
	if target == model.LikeStateNotLiked {
		action, from, eventType = "unlike", model.LikeStateLiked, model.EventVlogUnliked
	}

	ctx, span := tracer.Start(ctx, "LikeService."+action, trace.WithAttributes(
		attribute.String("vlog.id", vlogID.String()),
	))
	defer func() {
		metrics.LikeTogglesTotal.WithLabelValues(action, toggleResult(err)).Inc()
		endSpan(span, err)
	}()

	if !caller.IsAuthenticated() {
		return nil, ErrUnauthenticated
	}
	if !from.CanTransitionTo(target) {
		return nil, fmt.Errorf("invalid like transition %s -> %s", from, target)
	}

	var likes int
	err = s.store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		if err := repos.Vlogs.LockForUpdate(ctx, vlogID); err != nil {
			return err
		}

		if target == model.LikeStateLiked {
			like, err := model.NewLike(caller.UserID, vlogID)
			if err != nil {
				return err
			}
			if err := repos.Likes.Create(ctx, like); err != nil {
				if errors.Is(err, repository.ErrDuplicateLike) {
					return ErrAlreadyLiked
				}
				return fmt.Errorf("create like: %w", err)
			}
		} else {
			if err := repos.Likes.Delete(ctx, caller.UserID, vlogID); err != nil {
				if errors.Is(err, repository.ErrLikeNotFound) {
					return ErrNotLiked
				}
				return fmt.Errorf("delete like: %w", err)
			}
		}

		n, err := repos.Vlogs.RecountLikes(ctx, vlogID)
		if err != nil {
			return fmt.Errorf("recount likes: %w", err)
		}
		likes = n
		return nil
	})
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("vlog.likes", likes))
	s.invalidator.InvalidateVlog(ctx, vlogID)

	event := model.NewVlogEvent(eventType, vlogID, caller.UserID)
	event.Likes = likes
	publishEvent(ctx, s.publisher, event)

	return &LikeResult{VlogID: vlogID, State: target, Likes: likes}, nil
}

func (s *likeService) LikeStatus(ctx context.Context, caller model.Caller, vlogID uuid.UUID) (*LikeResult, error) {
	repos := s.store.Repositories()

	vlog, err := repos.Vlogs.GetByID(ctx, vlogID)
	if err != nil {
		return nil, err
	}

	result := &LikeResult{VlogID: vlogID, State: model.LikeStateNotLiked, Likes: vlog.Likes}
	if !caller.IsAuthenticated() {
		return result, nil
	}

	liked, err := repos.Likes.Exists(ctx, caller.UserID, vlogID)
	if err != nil {
		return nil, fmt.Errorf("check like: %w", err)
	}
	if liked {
		result.State = model.LikeStateLiked
	}
	return result, nil
}

func toggleResult(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrAlreadyLiked):
		return "already_liked"
	case errors.Is(err, ErrNotLiked):
		return "not_liked"
	case errors.Is(err, repository.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}
