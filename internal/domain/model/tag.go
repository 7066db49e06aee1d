package model

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

const MaxTagLength = 50

var (
	ErrEmptyTag   = fmt.Errorf("%w: tag cannot be empty", ErrValidation)
	ErrTagTooLong = fmt.Errorf("%w: tag exceeds maximum length of %d characters", ErrValidation, MaxTagLength)
)

// Tag is a unique label a vlog may be filed under.
type Tag struct {
	ID    uuid.UUID
	Label string
}

func NewTag(label string) (*Tag, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return nil, ErrEmptyTag
	}
	if utf8.RuneCountInString(label) > MaxTagLength {
		return nil, ErrTagTooLong
	}
	return &Tag{ID: uuid.New(), Label: label}, nil
}
