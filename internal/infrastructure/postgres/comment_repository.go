package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hszk-dev/govlog/internal/domain/model"
	"github.com/hszk-dev/govlog/internal/domain/repository"
)

// CommentRepository implements repository.CommentRepository using PostgreSQL.
type CommentRepository struct {
	db DBTX
}

func NewCommentRepository(db DBTX) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(ctx context.Context, comment *model.Comment) error {
	const query = `
		INSERT INTO comments (id, vlog_id, author_id, text, posted_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query,
		comment.ID,
		comment.VlogID,
		comment.AuthorID,
		comment.Text,
		comment.PostedAt,
		comment.UpdatedAt,
	)
	if err != nil {
		if code, constraint := pgError(err); code == codeForeignKeyViolation {
			if constraint == "fk_comments_author" {
				return repository.ErrUserNotFound
			}
			return repository.ErrVlogNotFound
		}
		return fmt.Errorf("failed to create comment: %w", err)
	}

	return nil
}

// ListByVlog returns the thread newest first.
func (r *CommentRepository) ListByVlog(ctx context.Context, vlogID uuid.UUID) ([]*model.Comment, error) {
	const query = `
		SELECT c.id, c.vlog_id, c.author_id, u.username, c.text, c.posted_at, c.updated_at
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.vlog_id = $1
		ORDER BY c.posted_at DESC, c.id
	`

	rows, err := r.db.Query(ctx, query, vlogID)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments by vlog: %w", err)
	}
	defer rows.Close()

	var comments []*model.Comment
	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(&c.ID, &c.VlogID, &c.AuthorID, &c.AuthorName, &c.Text, &c.PostedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating comments: %w", err)
	}

	return comments, nil
}

// Update matches on comment, vlog and author at once, so another user's
// comment is indistinguishable from a missing one.
func (r *CommentRepository) Update(ctx context.Context, comment *model.Comment) error {
	const query = `
		UPDATE comments
		SET text = $4, updated_at = $5
		WHERE id = $1 AND vlog_id = $2 AND author_id = $3
		RETURNING posted_at
	`

	err := r.db.QueryRow(ctx, query,
		comment.ID,
		comment.VlogID,
		comment.AuthorID,
		comment.Text,
		comment.UpdatedAt,
	).Scan(&comment.PostedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repository.ErrCommentNotFound
		}
		return fmt.Errorf("failed to update comment: %w", err)
	}

	return nil
}

func (r *CommentRepository) Delete(ctx context.Context, vlogID, authorID, id uuid.UUID) error {
	const query = `DELETE FROM comments WHERE id = $1 AND vlog_id = $2 AND author_id = $3`

	tag, err := r.db.Exec(ctx, query, id, vlogID, authorID)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return repository.ErrCommentNotFound
	}

	return nil
}

func (r *CommentRepository) DeleteByVlog(ctx context.Context, vlogID uuid.UUID) (int64, error) {
	const query = `DELETE FROM comments WHERE vlog_id = $1`

	tag, err := r.db.Exec(ctx, query, vlogID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete comments by vlog: %w", err)
	}

	return tag.RowsAffected(), nil
}

var _ repository.CommentRepository = (*CommentRepository)(nil)
