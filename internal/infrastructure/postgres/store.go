package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/hszk-dev/govlog/internal/domain/repository"
	"github.com/hszk-dev/govlog/internal/infrastructure/metrics"
)

// DBTX is an interface that abstracts pgxpool.Pool and pgx.Tx for testability.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TxBeginner is a DBTX that can open transactions. *pgxpool.Pool and
// pgxmock pools satisfy it.
type TxBeginner interface {
	DBTX
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Store hands out repositories bound either to the pool or to a transaction.
type Store struct {
	db TxBeginner
}

func NewStore(db TxBeginner) *Store {
	return &Store{db: db}
}

// Repositories returns repositories that run each statement on its own.
func (s *Store) Repositories() repository.Repositories {
	return newRepositories(s.db)
}

// WithinTx runs fn in one transaction. fn's error is returned unwrapped so
// callers can match sentinel errors.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, repos repository.Repositories) error) (err error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			metrics.TransactionsTotal.WithLabelValues("rollback").Inc()
			panic(p)
		}
	}()

	if err := fn(ctx, newRepositories(tx)); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			slog.Error("failed to roll back transaction", "error", rbErr)
		}
		metrics.TransactionsTotal.WithLabelValues("rollback").Inc()
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		metrics.TransactionsTotal.WithLabelValues("commit_failed").Inc()
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	metrics.TransactionsTotal.WithLabelValues("commit").Inc()
	return nil
}

func newRepositories(db DBTX) repository.Repositories {
	return repository.Repositories{
		Vlogs:    NewVlogRepository(db),
		Media:    NewMediaRepository(db),
		Comments: NewCommentRepository(db),
		Likes:    NewLikeRepository(db),
		Tags:     NewTagRepository(db),
		Users:    NewUserRepository(db),
	}
}

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// pgError returns the SQLSTATE code and constraint name of a PostgreSQL error.
func pgError(err error) (code, constraint string) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, pgErr.ConstraintName
	}
	return "", ""
}

// nullString returns nil for empty strings, otherwise returns a pointer to the string.
func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

var _ repository.Store = (*Store)(nil)
