package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/hszk-dev/govlog/internal/api/middleware"
	"github.com/hszk-dev/govlog/internal/domain/model"
	"github.com/hszk-dev/govlog/internal/usecase"
)

// LikeHandler handles like toggles.
type LikeHandler struct {
	svc usecase.LikeService
}

// NewLikeHandler creates a new LikeHandler.
func NewLikeHandler(svc usecase.LikeService) *LikeHandler {
	return &LikeHandler{svc: svc}
}

// Status handles GET /v1/vlogs/{vlogID}/like
func (h *LikeHandler) Status(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, h.svc.LikeStatus)
}

// Like handles POST /v1/vlogs/{vlogID}/like
func (h *LikeHandler) Like(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, h.svc.Like)
}

// Unlike handles DELETE /v1/vlogs/{vlogID}/like
func (h *LikeHandler) Unlike(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, h.svc.Unlike)
}

func (h *LikeHandler) serve(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, caller model.Caller, vlogID uuid.UUID) (*usecase.LikeResult, error),
) {
	vlogID, ok := uuidParam(w, r, "vlogID", "invalid_vlog_id")
	if !ok {
		return
	}

	result, err := op(r.Context(), middleware.GetCaller(r.Context()), vlogID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	JSON(w, http.StatusOK, toLikeResponse(result))
}
