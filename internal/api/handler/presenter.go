package handler

import (
	"strings"
	"time"

	"github.com/hszk-dev/govlog/internal/domain/model"
	"github.com/hszk-dev/govlog/internal/usecase"
)

const timeFormat = time.RFC3339

// URLBuilder turns a blob key into a public URL.
type URLBuilder func(key string) string

// NewURLBuilder joins keys onto a public base URL such as http://minio:9000/vlogs.
func NewURLBuilder(baseURL string) URLBuilder {
	base := strings.TrimRight(baseURL, "/")
	return func(key string) string {
		if key == "" {
			return ""
		}
		return base + "/" + key
	}
}

type MediaResponse struct {
	ID          string `json:"id"`
	Kind        string `json:"kind"`
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	CreatedAt   string `json:"created_at"`
}

type CommentResponse struct {
	ID        string `json:"id"`
	VlogID    string `json:"vlog_id"`
	Author    string `json:"author"`
	Text      string `json:"text"`
	PostedAt  string `json:"posted_at"`
	UpdatedAt string `json:"updated_at"`
}

type VlogResponse struct {
	ID          string            `json:"id"`
	Author      string            `json:"author"`
	Title       string            `json:"title"`
	Cover       string            `json:"cover,omitempty"`
	Content     string            `json:"content,omitempty"`
	Description string            `json:"description"`
	Tags        []string          `json:"tags"`
	Likes       int               `json:"likes"`
	Images      []MediaResponse   `json:"images"`
	Videos      []MediaResponse   `json:"videos"`
	Documents   []MediaResponse   `json:"documents"`
	Comments    []CommentResponse `json:"comments"`
	PostedAt    string            `json:"posted_at"`
	UpdatedAt   string            `json:"updated_at"`
}

type VlogSummaryResponse struct {
	ID           string   `json:"id"`
	Author       string   `json:"author"`
	Title        string   `json:"title"`
	Cover        string   `json:"cover,omitempty"`
	Content      string   `json:"content,omitempty"`
	Description  string   `json:"description"`
	Tags         []string `json:"tags"`
	Likes        int      `json:"likes"`
	CommentCount int      `json:"comment_count"`
	PostedAt     string   `json:"posted_at"`
	UpdatedAt    string   `json:"updated_at"`
}

type LikeResponse struct {
	VlogID string `json:"vlog_id"`
	Liked  bool   `json:"liked"`
	Likes  int    `json:"likes"`
}

func toMediaResponse(m *model.MediaAttachment, url URLBuilder) MediaResponse {
	return MediaResponse{
		ID:          m.ID.String(),
		Kind:        string(m.Kind),
		URL:         url(m.FileKey),
		ContentType: m.ContentType,
		CreatedAt:   m.CreatedAt.Format(timeFormat),
	}
}

func toMediaResponses(media []*model.MediaAttachment, url URLBuilder) []MediaResponse {
	out := make([]MediaResponse, 0, len(media))
	for _, m := range media {
		out = append(out, toMediaResponse(m, url))
	}
	return out
}

func toCommentResponse(c *model.Comment) CommentResponse {
	return CommentResponse{
		ID:        c.ID.String(),
		VlogID:    c.VlogID.String(),
		Author:    c.AuthorName,
		Text:      c.Text,
		PostedAt:  c.PostedAt.Format(timeFormat),
		UpdatedAt: c.UpdatedAt.Format(timeFormat),
	}
}

func toVlogResponse(v *model.Vlog, url URLBuilder) VlogResponse {
	tags := []string{}
	if v.Tag != "" {
		tags = append(tags, v.Tag)
	}

	comments := make([]CommentResponse, 0, len(v.Comments))
	for _, c := range v.Comments {
		comments = append(comments, toCommentResponse(c))
	}

	return VlogResponse{
		ID:          v.ID.String(),
		Author:      v.AuthorName,
		Title:       v.Title,
		Cover:       url(v.Cover),
		Content:     v.Content,
		Description: v.Description,
		Tags:        tags,
		Likes:       v.Likes,
		Images:      toMediaResponses(v.MediaOf(model.MediaImage), url),
		Videos:      toMediaResponses(v.MediaOf(model.MediaVideo), url),
		Documents:   toMediaResponses(v.MediaOf(model.MediaDocument), url),
		Comments:    comments,
		PostedAt:    v.PostedAt.Format(timeFormat),
		UpdatedAt:   v.UpdatedAt.Format(timeFormat),
	}
}

func toVlogSummaryResponse(s *model.VlogSummary, url URLBuilder) VlogSummaryResponse {
	tags := s.Tags
	if tags == nil {
		tags = []string{}
	}
	return VlogSummaryResponse{
		ID:           s.ID.String(),
		Author:       s.AuthorName,
		Title:        s.Title,
		Cover:        url(s.Cover),
		Content:      s.Content,
		Description:  s.Description,
		Tags:         tags,
		Likes:        s.Likes,
		CommentCount: s.CommentCount,
		PostedAt:     s.PostedAt.Format(timeFormat),
		UpdatedAt:    s.UpdatedAt.Format(timeFormat),
	}
}

func toLikeResponse(r *usecase.LikeResult) LikeResponse {
	return LikeResponse{
		VlogID: r.VlogID.String(),
		Liked:  r.State == model.LikeStateLiked,
		Likes:  r.Likes,
	}
}
