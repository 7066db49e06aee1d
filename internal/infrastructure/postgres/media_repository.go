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

// MediaRepository implements repository.MediaRepository using PostgreSQL.
// All three kinds share the media_attachments table.
type MediaRepository struct {
	db DBTX
}

func NewMediaRepository(db DBTX) *MediaRepository {
	return &MediaRepository{db: db}
}

func (r *MediaRepository) Create(ctx context.Context, media *model.MediaAttachment) error {
	const query = `
		INSERT INTO media_attachments (id, vlog_id, kind, file_key, content_type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query,
		media.ID,
		media.VlogID,
		media.Kind.String(),
		media.FileKey,
		media.ContentType,
		media.CreatedAt,
	)
	if err != nil {
		if code, _ := pgError(err); code == codeForeignKeyViolation {
			return repository.ErrVlogNotFound
		}
		return fmt.Errorf("failed to create media: %w", err)
	}

	return nil
}

func (r *MediaRepository) GetByID(ctx context.Context, vlogID uuid.UUID, kind model.MediaKind, id uuid.UUID) (*model.MediaAttachment, error) {
	const query = `
		SELECT id, vlog_id, kind, file_key, content_type, created_at
		FROM media_attachments
		WHERE id = $1 AND vlog_id = $2 AND kind = $3
	`

	media, err := scanMedia(r.db.QueryRow(ctx, query, id, vlogID, kind.String()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrMediaNotFound
		}
		return nil, fmt.Errorf("failed to get media by ID: %w", err)
	}

	return media, nil
}

func (r *MediaRepository) ListByVlog(ctx context.Context, vlogID uuid.UUID) ([]*model.MediaAttachment, error) {
	const query = `
		SELECT id, vlog_id, kind, file_key, content_type, created_at
		FROM media_attachments
		WHERE vlog_id = $1
		ORDER BY created_at, id
	`

	rows, err := r.db.Query(ctx, query, vlogID)
	if err != nil {
		return nil, fmt.Errorf("failed to query media by vlog: %w", err)
	}
	defer rows.Close()

	var media []*model.MediaAttachment
	for rows.Next() {
		m, err := scanMedia(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan media: %w", err)
		}
		media = append(media, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating media: %w", err)
	}

	return media, nil
}

func (r *MediaRepository) UpdateFile(ctx context.Context, media *model.MediaAttachment) error {
	const query = `
		UPDATE media_attachments
		SET file_key = $4, content_type = $5
		WHERE id = $1 AND vlog_id = $2 AND kind = $3
	`

	tag, err := r.db.Exec(ctx, query,
		media.ID,
		media.VlogID,
		media.Kind.String(),
		media.FileKey,
		media.ContentType,
	)
	if err != nil {
		return fmt.Errorf("failed to update media file: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return repository.ErrMediaNotFound
	}

	return nil
}

func (r *MediaRepository) Delete(ctx context.Context, vlogID uuid.UUID, kind model.MediaKind, id uuid.UUID) error {
	const query = `DELETE FROM media_attachments WHERE id = $1 AND vlog_id = $2 AND kind = $3`

	tag, err := r.db.Exec(ctx, query, id, vlogID, kind.String())
	if err != nil {
		return fmt.Errorf("failed to delete media: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return repository.ErrMediaNotFound
	}

	return nil
}

func (r *MediaRepository) DeleteByVlog(ctx context.Context, vlogID uuid.UUID) (int64, error) {
	const query = `DELETE FROM media_attachments WHERE vlog_id = $1`

	tag, err := r.db.Exec(ctx, query, vlogID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete media by vlog: %w", err)
	}

	return tag.RowsAffected(), nil
}

// scanMedia accepts pgx.Row so both QueryRow results and pgx.Rows can be scanned.
func scanMedia(row pgx.Row) (*model.MediaAttachment, error) {
	var (
		m    model.MediaAttachment
		kind string
	)

	if err := row.Scan(&m.ID, &m.VlogID, &kind, &m.FileKey, &m.ContentType, &m.CreatedAt); err != nil {
		return nil, err
	}
	m.Kind = model.MediaKind(kind)

	return &m, nil
}

var _ repository.MediaRepository = (*MediaRepository)(nil)
