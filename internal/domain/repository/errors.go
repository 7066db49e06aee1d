package repository

import (
	"errors"
	"fmt"
)

// ErrNotFound is the base of every lookup miss.
var ErrNotFound = errors.New("not found")

var (
	ErrVlogNotFound    = fmt.Errorf("vlog %w", ErrNotFound)
	ErrCommentNotFound = fmt.Errorf("comment %w", ErrNotFound)
	ErrMediaNotFound   = fmt.Errorf("media %w", ErrNotFound)
	ErrLikeNotFound    = fmt.Errorf("like %w", ErrNotFound)
	ErrUserNotFound    = fmt.Errorf("user %w", ErrNotFound)
	ErrTagNotFound     = fmt.Errorf("tag %w", ErrNotFound)
)

var (
	// ErrDuplicateLike is returned when the (user, vlog) pair already has a like.
	ErrDuplicateLike = errors.New("like already exists")

	// ErrDuplicateUsername is returned when registering a taken username.
	ErrDuplicateUsername = errors.New("username already exists")
)
