package model

import (
	"time"

	"github.com/google/uuid"
)

// Like records that a user likes a vlog. At most one exists per (user, vlog).
type Like struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	VlogID    uuid.UUID
	CreatedAt time.Time
}

func NewLike(userID, vlogID uuid.UUID) (*Like, error) {
	if userID == uuid.Nil {
		return nil, ErrInvalidUserID
	}
	if vlogID == uuid.Nil {
		return nil, ErrInvalidVlogID
	}
	return &Like{
		ID:        uuid.New(),
		UserID:    userID,
		VlogID:    vlogID,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// LikeState is the per-(user, vlog) engagement state.
type LikeState string

const (
	LikeStateNotLiked LikeState = "NOT_LIKED"
	LikeStateLiked    LikeState = "LIKED"
)

// Valid toggles:
// NOT_LIKED -> LIKED (Like)
// LIKED -> NOT_LIKED (Unlike)
var validLikeTransitions = map[LikeState]LikeState{
	LikeStateNotLiked: LikeStateLiked,
	LikeStateLiked:    LikeStateNotLiked,
}

func (s LikeState) CanTransitionTo(next LikeState) bool {
	allowed, ok := validLikeTransitions[s]
	return ok && allowed == next
}

func (s LikeState) String() string {
	return string(s)
}
