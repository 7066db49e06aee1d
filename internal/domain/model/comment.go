package model

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

var ErrEmptyComment = fmt.Errorf("%w: comment text cannot be empty", ErrValidation)

// Comment is a message left by a user on a vlog.
type Comment struct {
	ID         uuid.UUID
	VlogID     uuid.UUID
	AuthorID   uuid.UUID
	AuthorName string
	Text       string
	PostedAt   time.Time
	UpdatedAt  time.Time
}

func NewComment(vlogID, authorID uuid.UUID, text string) (*Comment, error) {
	if vlogID == uuid.Nil {
		return nil, ErrInvalidVlogID
	}
	if authorID == uuid.Nil {
		return nil, ErrInvalidUserID
	}
	if err := validateCommentText(text); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Comment{
		ID:        uuid.New(),
		VlogID:    vlogID,
		AuthorID:  authorID,
		Text:      text,
		PostedAt:  now,
		UpdatedAt: now,
	}, nil
}

// Edit replaces the text.
func (c *Comment) Edit(text string) error {
	if err := validateCommentText(text); err != nil {
		return err
	}
	c.Text = text
	c.UpdatedAt = time.Now().UTC()
	return nil
}

func validateCommentText(text string) error {
	if !utf8.ValidString(text) {
		return ErrInvalidEncoding
	}
	if strings.TrimSpace(text) == "" {
		return ErrEmptyComment
	}
	return nil
}
