package handler

import (
	"net/http"

	"github.com/hszk-dev/govlog/internal/api/middleware"
	"github.com/hszk-dev/govlog/internal/usecase"
)

type CommentRequest struct {
	Text string `json:"text"`
}

// CommentHandler handles comment requests.
type CommentHandler struct {
	svc usecase.CommentService
}

// NewCommentHandler creates a new CommentHandler.
func NewCommentHandler(svc usecase.CommentService) *CommentHandler {
	return &CommentHandler{svc: svc}
}

// Post handles POST /v1/vlogs/{vlogID}/comments
func (h *CommentHandler) Post(w http.ResponseWriter, r *http.Request) {
	vlogID, ok := uuidParam(w, r, "vlogID", "invalid_vlog_id")
	if !ok {
		return
	}
	var req CommentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	comment, err := h.svc.PostComment(r.Context(), middleware.GetCaller(r.Context()), vlogID, req.Text)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	JSON(w, http.StatusCreated, toCommentResponse(comment))
}

// Update handles PATCH /v1/vlogs/{vlogID}/comments/{commentID}
func (h *CommentHandler) Update(w http.ResponseWriter, r *http.Request) {
	vlogID, ok := uuidParam(w, r, "vlogID", "invalid_vlog_id")
	if !ok {
		return
	}
	commentID, ok := uuidParam(w, r, "commentID", "invalid_comment_id")
	if !ok {
		return
	}
	var req CommentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	comment, err := h.svc.UpdateComment(r.Context(), middleware.GetCaller(r.Context()), vlogID, commentID, req.Text)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	JSON(w, http.StatusOK, toCommentResponse(comment))
}

// Delete handles DELETE /v1/vlogs/{vlogID}/comments/{commentID}
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	vlogID, ok := uuidParam(w, r, "vlogID", "invalid_vlog_id")
	if !ok {
		return
	}
	commentID, ok := uuidParam(w, r, "commentID", "invalid_comment_id")
	if !ok {
		return
	}

	if err := h.svc.DeleteComment(r.Context(), middleware.GetCaller(r.Context()), vlogID, commentID); err != nil {
		handleServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
