package postgres

import (
	"context"
	"fmt"

	"github.com/hszk-dev/govlog/internal/domain/model"
	"github.com/hszk-dev/govlog/internal/domain/repository"
)

// TagRepository implements repository.TagRepository using PostgreSQL.
type TagRepository struct {
	db DBTX
}

func NewTagRepository(db DBTX) *TagRepository {
	return &TagRepository{db: db}
}

// FindOrCreate inserts the label if it is new and returns the stored tag.
// Concurrent callers with the same label converge on one row.
func (r *TagRepository) FindOrCreate(ctx context.Context, label string) (*model.Tag, error) {
	tag, err := model.NewTag(label)
	if err != nil {
		return nil, err
	}

	const insert = `INSERT INTO tags (id, tag) VALUES ($1, $2) ON CONFLICT (tag) DO NOTHING`
	if _, err := r.db.Exec(ctx, insert, tag.ID, tag.Label); err != nil {
		return nil, fmt.Errorf("failed to insert tag: %w", err)
	}

	const query = `SELECT id, tag FROM tags WHERE tag = $1`
	var stored model.Tag
	if err := r.db.QueryRow(ctx, query, tag.Label).Scan(&stored.ID, &stored.Label); err != nil {
		return nil, fmt.Errorf("failed to get tag: %w", err)
	}

	return &stored, nil
}

var _ repository.TagRepository = (*TagRepository)(nil)
