package model

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// MediaKind distinguishes the three attachment collections of a vlog.
type MediaKind string

const (
	MediaImage    MediaKind = "image"
	MediaVideo    MediaKind = "video"
	MediaDocument MediaKind = "document"
)

// ErrInvalidMedia is returned when a file does not satisfy its kind's allow-list.
var ErrInvalidMedia = errors.New("invalid media")

var ErrInvalidMediaKind = fmt.Errorf("%w: unknown media kind", ErrValidation)

type mediaRule struct {
	extensions []string
	mimeTypes  []string
	dir        string
}

// Extensions are compared case-insensitively. Images are accepted on content,
// not on name, and only as raster formats; SVG can carry script.
var mediaRules = map[MediaKind]mediaRule{
	MediaImage: {
		mimeTypes: []string{"image/png", "image/jpeg", "image/gif", "image/webp", "image/bmp", "image/tiff"},
		dir:       "images",
	},
	MediaVideo:    {extensions: []string{"MOV", "avi", "mp4", "webm", "mkv"}, dir: "videos"},
	MediaDocument: {extensions: []string{"txt", "pdf", "doc", "docx"}, dir: "documents"},
}

// ParseMediaKind accepts the singular or plural form ("video", "videos").
func ParseMediaKind(s string) (MediaKind, error) {
	k := MediaKind(strings.TrimSuffix(strings.ToLower(s), "s"))
	if !k.IsValid() {
		return "", ErrInvalidMediaKind
	}
	return k, nil
}

func (k MediaKind) IsValid() bool {
	_, ok := mediaRules[k]
	return ok
}

func (k MediaKind) String() string {
	return string(k)
}

// Dir is the storage directory for the kind.
func (k MediaKind) Dir() string {
	return mediaRules[k].dir
}

// AllowedExtensions returns the extension allow-list for the kind.
// It is empty for kinds validated on content.
func (k MediaKind) AllowedExtensions() []string {
	return append([]string(nil), mediaRules[k].extensions...)
}

// ValidateMediaFile checks a file against the kind's allow-list. It returns the
// detected content type and the extension to store the file under.
func ValidateMediaFile(kind MediaKind, fileName string, data []byte) (contentType, ext string, err error) {
	rule, ok := mediaRules[kind]
	if !ok {
		return "", "", ErrInvalidMediaKind
	}
	if len(data) == 0 {
		return "", "", fmt.Errorf("%w: %s is empty", ErrInvalidMedia, fileName)
	}

	detected := mimetype.Detect(data)

	if len(rule.mimeTypes) > 0 {
		for _, allowed := range rule.mimeTypes {
			if detected.Is(allowed) {
				return detected.String(), detected.Extension(), nil
			}
		}
		return "", "", fmt.Errorf("%w: %s is not a valid %s (detected %s)",
			ErrInvalidMedia, fileName, kind, detected.String())
	}

	ext = strings.TrimPrefix(filepath.Ext(fileName), ".")
	for _, allowed := range rule.extensions {
		if strings.EqualFold(ext, allowed) {
			return detected.String(), "." + strings.ToLower(ext), nil
		}
	}
	return "", "", fmt.Errorf("%w: extension %q is not allowed for %s; allowed extensions are %s",
		ErrInvalidMedia, ext, kind, strings.Join(rule.extensions, ", "))
}

// MediaAttachment is a file owned by exactly one vlog.
type MediaAttachment struct {
	ID          uuid.UUID
	VlogID      uuid.UUID
	Kind        MediaKind
	FileKey     string
	ContentType string
	CreatedAt   time.Time
}

var ErrEmptyFileKey = fmt.Errorf("%w: file key cannot be empty", ErrValidation)

// NewMediaAttachment creates an attachment for an already stored file.
func NewMediaAttachment(vlogID uuid.UUID, kind MediaKind, fileKey, contentType string) (*MediaAttachment, error) {
	if vlogID == uuid.Nil {
		return nil, ErrInvalidVlogID
	}
	if !kind.IsValid() {
		return nil, ErrInvalidMediaKind
	}
	if fileKey == "" {
		return nil, ErrEmptyFileKey
	}
	return &MediaAttachment{
		ID:          uuid.New(),
		VlogID:      vlogID,
		Kind:        kind,
		FileKey:     fileKey,
		ContentType: contentType,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// ReplaceFile points the attachment at a new stored file and returns the old key.
func (m *MediaAttachment) ReplaceFile(fileKey, contentType string) string {
	previous := m.FileKey
	m.FileKey = fileKey
	m.ContentType = contentType
	return previous
}
