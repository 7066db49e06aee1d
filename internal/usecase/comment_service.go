package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/hszk-dev/govlog/internal/domain/model"
	"github.com/hszk-dev/govlog/internal/domain/repository"
)

// CommentService defines comment operations. Edits and deletes only match
// comments written by the caller on the given vlog; anything else is not found.
type CommentService interface {
	PostComment(ctx context.Context, caller model.Caller, vlogID uuid.UUID, text string) (*model.Comment, error)
	UpdateComment(ctx context.Context, caller model.Caller, vlogID, commentID uuid.UUID, text string) (*model.Comment, error)
	DeleteComment(ctx context.Context, caller model.Caller, vlogID, commentID uuid.UUID) error
}

type commentService struct {
	store       repository.Store
	invalidator CacheInvalidator
	publisher   repository.EventPublisher
}

// NewCommentService creates a new CommentService instance. invalidator may be nil.
func NewCommentService(
	store repository.Store,
	invalidator CacheInvalidator,
	publisher repository.EventPublisher,
) CommentService {
	return &commentService{
		store:       store,
		invalidator: invalidatorOrNoop(invalidator),
		publisher:   publisher,
	}
}

func (s *commentService) PostComment(ctx context.Context, caller model.Caller, vlogID uuid.UUID, text string) (*model.Comment, error) {
	if !caller.IsAuthenticated() {
		return nil, ErrUnauthenticated
	}

	comment, err := model.NewComment(vlogID, caller.UserID, text)
	if err != nil {
		return nil, err
	}

	err = s.store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		if err := repos.Comments.Create(ctx, comment); err != nil {
			return fmt.Errorf("create comment: %w", err)
		}
		author, err := repos.Users.GetByID(ctx, caller.UserID)
		if err != nil {
			return fmt.Errorf("get author: %w", err)
		}
		comment.AuthorName = author.Username
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidator.InvalidateVlog(ctx, vlogID)
	publishEvent(ctx, s.publisher, model.NewVlogEvent(model.EventCommentPosted, vlogID, caller.UserID))

	return comment, nil
}

func (s *commentService) UpdateComment(ctx context.Context, caller model.Caller, vlogID, commentID uuid.UUID, text string) (*model.Comment, error) {
	if !caller.IsAuthenticated() {
		return nil, ErrUnauthenticated
	}

	comment := &model.Comment{
		ID:       commentID,
		VlogID:   vlogID,
		AuthorID: caller.UserID,
	}
	if err := comment.Edit(text); err != nil {
		return nil, err
	}

	err := s.store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		if err := repos.Comments.Update(ctx, comment); err != nil {
			return err
		}
		author, err := repos.Users.GetByID(ctx, caller.UserID)
		if err != nil {
			return fmt.Errorf("get author: %w", err)
		}
		comment.AuthorName = author.Username
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidator.InvalidateVlog(ctx, vlogID)
	publishEvent(ctx, s.publisher, model.NewVlogEvent(model.EventCommentUpdated, vlogID, caller.UserID))
	return comment, nil
}

func (s *commentService) DeleteComment(ctx context.Context, caller model.Caller, vlogID, commentID uuid.UUID) error {
	if !caller.IsAuthenticated() {
		return ErrUnauthenticated
	}

	if err := s.store.Repositories().Comments.Delete(ctx, vlogID, caller.UserID, commentID); err != nil {
		return err
	}

	s.invalidator.InvalidateVlog(ctx, vlogID)
	publishEvent(ctx, s.publisher, model.NewVlogEvent(model.EventCommentDeleted, vlogID, caller.UserID))
	return nil
}
