package repository

import "context"

// Repositories groups the repositories bound to one connection or transaction.
type Repositories struct {
	Vlogs    VlogRepository
	Media    MediaRepository
	Comments CommentRepository
	Likes    LikeRepository
	Tags     TagRepository
	Users    UserRepository
}

// Transactor runs fn inside a single database transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}

// Store exposes repositories for single statements and for transactions.
type Store interface {
	Transactor

	// Repositories returns repositories that run each statement on its own.
	Repositories() Repositories
}
