package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// ErrValidation is the base of every field-level validation error.
var ErrValidation = errors.New("validation failed")

var (
	ErrEmptyTitle       = fmt.Errorf("%w: title cannot be empty", ErrValidation)
	ErrTitleTooLong     = fmt.Errorf("%w: title exceeds maximum length of %d characters", ErrValidation, MaxTitleLength)
	ErrContentTooLong   = fmt.Errorf("%w: content exceeds maximum length of %d characters", ErrValidation, MaxContentLength)
	ErrEmptyDescription = fmt.Errorf("%w: description cannot be empty", ErrValidation)
	ErrInvalidEncoding  = fmt.Errorf("%w: text must be valid UTF-8", ErrValidation)
	ErrInvalidUserID    = fmt.Errorf("%w: user ID cannot be nil", ErrValidation)
	ErrInvalidVlogID    = fmt.Errorf("%w: vlog ID cannot be nil", ErrValidation)
	ErrEmptyPatch       = fmt.Errorf("%w: no fields to update", ErrValidation)
)

const (
	MaxTitleLength   = 100
	MaxContentLength = 255
)

// Vlog is the content aggregate root. Likes is derived from the like rows and
// is only written by the engagement flow.
type Vlog struct {
	ID          uuid.UUID
	AuthorID    uuid.UUID
	AuthorName  string
	Title       string
	Cover       string
	Content     string
	Description string
	TagID       *uuid.UUID
	Tag         string
	Likes       int
	PostedAt    time.Time
	UpdatedAt   time.Time

	Media    []*MediaAttachment
	Comments []*Comment
}

// VlogFields are the author-editable text fields of a vlog.
type VlogFields struct {
	Title       string
	Content     string
	Description string
}

// NewVlog creates a vlog with zero likes.
func NewVlog(authorID uuid.UUID, fields VlogFields) (*Vlog, error) {
	if authorID == uuid.Nil {
		return nil, ErrInvalidUserID
	}
	if err := validateTitle(fields.Title); err != nil {
		return nil, err
	}
	if err := validateContent(fields.Content); err != nil {
		return nil, err
	}
	if err := validateDescription(fields.Description); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Vlog{
		ID:          uuid.New(),
		AuthorID:    authorID,
		Title:       fields.Title,
		Content:     fields.Content,
		Description: fields.Description,
		PostedAt:    now,
		UpdatedAt:   now,
	}, nil
}

func validateTitle(title string) error {
	if !utf8.ValidString(title) {
		return ErrInvalidEncoding
	}
	if strings.TrimSpace(title) == "" {
		return ErrEmptyTitle
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return ErrTitleTooLong
	}
	return nil
}

func validateContent(content string) error {
	if !utf8.ValidString(content) {
		return ErrInvalidEncoding
	}
	if utf8.RuneCountInString(content) > MaxContentLength {
		return ErrContentTooLong
	}
	return nil
}

func validateDescription(description string) error {
	if !utf8.ValidString(description) {
		return ErrInvalidEncoding
	}
	if strings.TrimSpace(description) == "" {
		return ErrEmptyDescription
	}
	return nil
}

// VlogPatch holds a partial update. Nil fields are left unchanged.
type VlogPatch struct {
	Title       *string
	Content     *string
	Description *string
}

// IsEmpty reports whether the patch changes nothing.
func (p VlogPatch) IsEmpty() bool {
	return p.Title == nil && p.Content == nil && p.Description == nil
}

// Apply validates every supplied field before changing any of them.
func (v *Vlog) Apply(p VlogPatch) error {
	if p.Title != nil {
		if err := validateTitle(*p.Title); err != nil {
			return err
		}
	}
	if p.Content != nil {
		if err := validateContent(*p.Content); err != nil {
			return err
		}
	}
	if p.Description != nil {
		if err := validateDescription(*p.Description); err != nil {
			return err
		}
	}

	if p.Title != nil {
		v.Title = *p.Title
	}
	if p.Content != nil {
		v.Content = *p.Content
	}
	if p.Description != nil {
		v.Description = *p.Description
	}
	v.touch()
	return nil
}

// SetCover replaces the cover key and returns the previous one.
func (v *Vlog) SetCover(key string) string {
	previous := v.Cover
	v.Cover = key
	v.touch()
	return previous
}

// SetTag links the vlog to a tag; nil clears it.
func (v *Vlog) SetTag(tag *Tag) {
	if tag == nil {
		v.TagID = nil
		v.Tag = ""
		return
	}
	id := tag.ID
	v.TagID = &id
	v.Tag = tag.Label
}

// MediaOf returns the attachments of one kind in their stored order.
func (v *Vlog) MediaOf(kind MediaKind) []*MediaAttachment {
	var out []*MediaAttachment
	for _, m := range v.Media {
		if m.Kind == kind {
			out = append(out, m)
		}
	}
	return out
}

// BlobKeys lists every storage key owned by the vlog, cover included.
func (v *Vlog) BlobKeys() []string {
	keys := make([]string, 0, len(v.Media)+1)
	if v.Cover != "" {
		keys = append(keys, v.Cover)
	}
	for _, m := range v.Media {
		keys = append(keys, m.FileKey)
	}
	return keys
}

func (v *Vlog) touch() {
	v.UpdatedAt = time.Now().UTC()
}

// VlogSummary is the listing projection of a vlog.
type VlogSummary struct {
	ID           uuid.UUID
	Title        string
	Cover        string
	Content      string
	Description  string
	Likes        int
	CommentCount int
	Tags         []string
	AuthorName   string
	PostedAt     time.Time
	UpdatedAt    time.Time
}
