package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hszk-dev/govlog/internal/domain/model"
	"github.com/hszk-dev/govlog/internal/domain/repository"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// VlogRepository implements repository.VlogRepository using PostgreSQL.
type VlogRepository struct {
	db DBTX
}

// NewVlogRepository creates a new VlogRepository instance.
func NewVlogRepository(db DBTX) *VlogRepository {
	return &VlogRepository{db: db}
}

// Create persists a new vlog.
func (r *VlogRepository) Create(ctx context.Context, vlog *model.Vlog) error {
	const query = `
		INSERT INTO vlogs (id, author_id, title, cover, content, description, tag_id, likes, posted_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.Exec(ctx, query,
		vlog.ID,
		vlog.AuthorID,
		vlog.Title,
		nullString(vlog.Cover),
		nullString(vlog.Content),
		vlog.Description,
		vlog.TagID,
		vlog.Likes,
		vlog.PostedAt,
		vlog.UpdatedAt,
	)
	if err != nil {
		if code, constraint := pgError(err); code == codeForeignKeyViolation {
			if constraint == "fk_vlogs_tag" {
				return repository.ErrTagNotFound
			}
			return repository.ErrUserNotFound
		}
		return fmt.Errorf("failed to create vlog: %w", err)
	}

	return nil
}

// GetByID retrieves a vlog with its author name and tag label.
func (r *VlogRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Vlog, error) {
	const query = `
		SELECT v.id, v.author_id, u.username, v.title, v.cover, v.content, v.description,
		       v.tag_id, t.tag, v.likes, v.posted_at, v.updated_at
		FROM vlogs v
		JOIN users u ON u.id = v.author_id
		LEFT JOIN tags t ON t.id = v.tag_id
		WHERE v.id = $1
	`

	var (
		vlog    model.Vlog
		cover   *string
		content *string
		tag     *string
	)
	err := r.db.QueryRow(ctx, query, id).Scan(
		&vlog.ID,
		&vlog.AuthorID,
		&vlog.AuthorName,
		&vlog.Title,
		&cover,
		&content,
		&vlog.Description,
		&vlog.TagID,
		&tag,
		&vlog.Likes,
		&vlog.PostedAt,
		&vlog.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrVlogNotFound
		}
		return nil, fmt.Errorf("failed to get vlog by ID: %w", err)
	}

	vlog.Cover = derefString(cover)
	vlog.Content = derefString(content)
	vlog.Tag = derefString(tag)

	return &vlog, nil
}

// Update persists the editable fields. It never writes likes.
func (r *VlogRepository) Update(ctx context.Context, vlog *model.Vlog) error {
	const query = `
		UPDATE vlogs
		SET title = $2, cover = $3, content = $4, description = $5, tag_id = $6, updated_at = $7
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query,
		vlog.ID,
		vlog.Title,
		nullString(vlog.Cover),
		nullString(vlog.Content),
		vlog.Description,
		vlog.TagID,
		vlog.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update vlog: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return repository.ErrVlogNotFound
	}

	return nil
}

// Delete removes the vlog row.
func (r *VlogRepository) Delete(ctx context.Context, id uuid.UUID) error {
	const query = `DELETE FROM vlogs WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete vlog: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return repository.ErrVlogNotFound
	}

	return nil
}

// LockForUpdate takes a row lock held until the surrounding transaction ends.
func (r *VlogRepository) LockForUpdate(ctx context.Context, id uuid.UUID) error {
	const query = `SELECT id FROM vlogs WHERE id = $1 FOR UPDATE`

	var locked uuid.UUID
	if err := r.db.QueryRow(ctx, query, id).Scan(&locked); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repository.ErrVlogNotFound
		}
		return fmt.Errorf("failed to lock vlog: %w", err)
	}

	return nil
}

// RecountLikes recomputes likes from the like rows.
func (r *VlogRepository) RecountLikes(ctx context.Context, id uuid.UUID) (int, error) {
	const query = `
		UPDATE vlogs
		SET likes = (SELECT COUNT(*) FROM likes WHERE vlog_id = $1)
		WHERE id = $1
		RETURNING likes
	`

	var likes int
	if err := r.db.QueryRow(ctx, query, id).Scan(&likes); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, repository.ErrVlogNotFound
		}
		return 0, fmt.Errorf("failed to recount likes: %w", err)
	}

	return likes, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// List returns vlog summaries newest first.
func (r *VlogRepository) List(ctx context.Context, filter repository.VlogFilter) ([]*model.VlogSummary, error) {
	builder := psql.
		Select(
			"v.id", "v.title", "v.cover", "v.content", "v.description", "v.likes",
			"t.tag", "u.username", "v.posted_at", "v.updated_at",
			"(SELECT COUNT(*) FROM comments c WHERE c.vlog_id = v.id) AS comment_count",
		).
		From("vlogs v").
		Join("users u ON u.id = v.author_id").
		LeftJoin("tags t ON t.id = v.tag_id").
		OrderBy("v.posted_at DESC", "v.id")

	if filter.Title != "" {
		builder = builder.Where(sq.ILike{"v.title": "%" + likeEscaper.Replace(filter.Title) + "%"})
	}
	if filter.Tag != "" {
		builder = builder.Where(sq.Eq{"t.tag": filter.Tag})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		builder = builder.Offset(uint64(filter.Offset))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build vlog list query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query vlogs: %w", err)
	}
	defer rows.Close()

	summaries := make([]*model.VlogSummary, 0)
	for rows.Next() {
		var (
			s       model.VlogSummary
			cover   *string
			content *string
			tag     *string
		)
		if err := rows.Scan(
			&s.ID,
			&s.Title,
			&cover,
			&content,
			&s.Description,
			&s.Likes,
			&tag,
			&s.AuthorName,
			&s.PostedAt,
			&s.UpdatedAt,
			&s.CommentCount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan vlog summary: %w", err)
		}
		s.Cover = derefString(cover)
		s.Content = derefString(content)
		s.Tags = []string{}
		if tag != nil {
			s.Tags = append(s.Tags, *tag)
		}
		summaries = append(summaries, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating vlogs: %w", err)
	}

	return summaries, nil
}

// Compile-time verification that VlogRepository implements repository.VlogRepository.
var _ repository.VlogRepository = (*VlogRepository)(nil)
