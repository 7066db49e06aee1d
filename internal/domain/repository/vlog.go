package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/hszk-dev/govlog/internal/domain/model"
)

// VlogFilter narrows a vlog listing. Zero values mean "no constraint".
type VlogFilter struct {
	// Title matches case-insensitively anywhere in the title.
	Title string
	// Tag matches the tag label exactly.
	Tag    string
	Limit  int
	Offset int
}

// VlogRepository defines persistence for the vlog row itself.
// Implementations should be provided by the infrastructure layer (e.g., PostgreSQL).
type VlogRepository interface {
	// Create persists a new vlog. Likes is stored as given (zero for new vlogs).
	Create(ctx context.Context, vlog *model.Vlog) error

	// GetByID retrieves a vlog with author name and tag label, without media or comments.
	// Returns nil and ErrVlogNotFound if the vlog does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Vlog, error)

	// Update persists title, cover, content, description, tag and updated_at.
	// It never writes likes. Returns ErrVlogNotFound if the vlog does not exist.
	Update(ctx context.Context, vlog *model.Vlog) error

	// Delete removes the vlog row. Children must already be gone.
	// Returns ErrVlogNotFound if the vlog does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// LockForUpdate takes a row lock on the vlog for the rest of the transaction.
	// Returns ErrVlogNotFound if the vlog does not exist.
	LockForUpdate(ctx context.Context, id uuid.UUID) error

	// RecountLikes sets likes to the number of like rows and returns it.
	RecountLikes(ctx context.Context, id uuid.UUID) (int, error)

	// List returns summaries newest first.
	List(ctx context.Context, filter VlogFilter) ([]*model.VlogSummary, error)
}

// MediaRepository defines persistence for vlog attachments.
type MediaRepository interface {
	Create(ctx context.Context, media *model.MediaAttachment) error

	// GetByID looks the attachment up within one vlog and kind.
	// Returns ErrMediaNotFound when any of the three does not match.
	GetByID(ctx context.Context, vlogID uuid.UUID, kind model.MediaKind, id uuid.UUID) (*model.MediaAttachment, error)

	// ListByVlog returns all attachments of a vlog, oldest first.
	ListByVlog(ctx context.Context, vlogID uuid.UUID) ([]*model.MediaAttachment, error)

	// UpdateFile stores a new file key and content type for the attachment.
	UpdateFile(ctx context.Context, media *model.MediaAttachment) error

	Delete(ctx context.Context, vlogID uuid.UUID, kind model.MediaKind, id uuid.UUID) error
	DeleteByVlog(ctx context.Context, vlogID uuid.UUID) (int64, error)
}

// CommentRepository defines persistence for comments. Mutations are scoped by
// comment ID, vlog ID and author ID together.
type CommentRepository interface {
	// Create returns ErrVlogNotFound if the vlog does not exist.
	Create(ctx context.Context, comment *model.Comment) error

	// ListByVlog returns comments newest first.
	ListByVlog(ctx context.Context, vlogID uuid.UUID) ([]*model.Comment, error)

	// Update writes text and updated_at and fills PostedAt from storage.
	// Returns ErrCommentNotFound if no comment matches (ID, VlogID, AuthorID).
	Update(ctx context.Context, comment *model.Comment) error

	// Delete returns ErrCommentNotFound if no comment matches the scope.
	Delete(ctx context.Context, vlogID, authorID, id uuid.UUID) error

	DeleteByVlog(ctx context.Context, vlogID uuid.UUID) (int64, error)
}

// LikeRepository defines persistence for likes.
type LikeRepository interface {
	// Create returns ErrDuplicateLike if the pair already exists and
	// ErrVlogNotFound if the vlog does not.
	Create(ctx context.Context, like *model.Like) error

	// Delete returns ErrLikeNotFound if the pair has no like.
	Delete(ctx context.Context, userID, vlogID uuid.UUID) error

	Exists(ctx context.Context, userID, vlogID uuid.UUID) (bool, error)
	DeleteByVlog(ctx context.Context, vlogID uuid.UUID) (int64, error)
}

// TagRepository defines persistence for tags.
type TagRepository interface {
	// FindOrCreate returns the tag with the given label, creating it if needed.
	FindOrCreate(ctx context.Context, label string) (*model.Tag, error)
}

// UserRepository defines persistence for accounts.
type UserRepository interface {
	// Create returns ErrDuplicateUsername if the username is taken.
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	SetAdmin(ctx context.Context, id uuid.UUID, isAdmin bool) error
}
