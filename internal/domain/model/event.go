package model

import (
	"time"

	"github.com/google/uuid"
)

// EventType names a change to a vlog or its engagement.
type EventType string

const (
	EventVlogCreated    EventType = "vlog.created"
	EventVlogUpdated    EventType = "vlog.updated"
	EventVlogDeleted    EventType = "vlog.deleted"
	EventVlogLiked      EventType = "vlog.liked"
	EventVlogUnliked    EventType = "vlog.unliked"
	EventCommentPosted  EventType = "comment.posted"
	EventCommentUpdated EventType = "comment.updated"
	EventCommentDeleted EventType = "comment.deleted"
)

// VlogEvent is published after a change has been committed.
type VlogEvent struct {
	Type       EventType `json:"type"`
	VlogID     uuid.UUID `json:"vlog_id"`
	ActorID    uuid.UUID `json:"actor_id"`
	Likes      int       `json:"likes,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewVlogEvent(eventType EventType, vlogID, actorID uuid.UUID) VlogEvent {
	return VlogEvent{
		Type:       eventType,
		VlogID:     vlogID,
		ActorID:    actorID,
		OccurredAt: time.Now().UTC(),
	}
}
