package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/hszk-dev/govlog/internal/domain/model"
	"github.com/hszk-dev/govlog/internal/domain/repository"
)

// LikeRepository implements repository.LikeRepository using PostgreSQL.
// The (user_id, vlog_id) unique constraint is what rejects a second like.
type LikeRepository struct {
	db DBTX
}

func NewLikeRepository(db DBTX) *LikeRepository {
	return &LikeRepository{db: db}
}

func (r *LikeRepository) Create(ctx context.Context, like *model.Like) error {
	const query = `
		INSERT INTO likes (id, user_id, vlog_id, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.Exec(ctx, query, like.ID, like.UserID, like.VlogID, like.CreatedAt)
	if err != nil {
		switch code, constraint := pgError(err); {
		case code == codeUniqueViolation:
			return repository.ErrDuplicateLike
		case code == codeForeignKeyViolation && constraint == "fk_likes_user":
			return repository.ErrUserNotFound
		case code == codeForeignKeyViolation:
			return repository.ErrVlogNotFound
		}
		return fmt.Errorf("failed to create like: %w", err)
	}

	return nil
}

func (r *LikeRepository) Delete(ctx context.Context, userID, vlogID uuid.UUID) error {
	const query = `DELETE FROM likes WHERE user_id = $1 AND vlog_id = $2`

	tag, err := r.db.Exec(ctx, query, userID, vlogID)
	if err != nil {
		return fmt.Errorf("failed to delete like: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return repository.ErrLikeNotFound
	}

	return nil
}

func (r *LikeRepository) Exists(ctx context.Context, userID, vlogID uuid.UUID) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM likes WHERE user_id = $1 AND vlog_id = $2)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, userID, vlogID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check like: %w", err)
	}

	return exists, nil
}

func (r *LikeRepository) DeleteByVlog(ctx context.Context, vlogID uuid.UUID) (int64, error) {
	const query = `DELETE FROM likes WHERE vlog_id = $1`

	tag, err := r.db.Exec(ctx, query, vlogID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete likes by vlog: %w", err)
	}

	return tag.RowsAffected(), nil
}

var _ repository.LikeRepository = (*LikeRepository)(nil)
