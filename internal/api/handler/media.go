package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hszk-dev/govlog/internal/api/middleware"
	"github.com/hszk-dev/govlog/internal/domain/model"
	"github.com/hszk-dev/govlog/internal/usecase"
)

// MediaHandler handles single-attachment requests under a vlog.
type MediaHandler struct {
	svc            usecase.VlogService
	url            URLBuilder
	maxUploadBytes int64
}

// NewMediaHandler creates a new MediaHandler.
func NewMediaHandler(svc usecase.VlogService, url URLBuilder, maxUploadBytes int64) *MediaHandler {
	return &MediaHandler{svc: svc, url: url, maxUploadBytes: maxUploadBytes}
}

// Attach handles POST /v1/vlogs/{vlogID}/media/{kind}
func (h *MediaHandler) Attach(w http.ResponseWriter, r *http.Request) {
	vlogID, ok := uuidParam(w, r, "vlogID", "invalid_vlog_id")
	if !ok {
		return
	}
	kind, ok := kindParam(w, r)
	if !ok {
		return
	}
	file, ok := h.uploadedFile(w, r, kind)
	if !ok {
		return
	}

	media, err := h.svc.AttachMedia(r.Context(), middleware.GetCaller(r.Context()), vlogID, *file)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	JSON(w, http.StatusCreated, toMediaResponse(media, h.url))
}

// Replace handles PATCH /v1/vlogs/{vlogID}/media/{kind}/{mediaID}
func (h *MediaHandler) Replace(w http.ResponseWriter, r *http.Request) {
	vlogID, ok := uuidParam(w, r, "vlogID", "invalid_vlog_id")
	if !ok {
		return
	}
	kind, ok := kindParam(w, r)
	if !ok {
		return
	}
	mediaID, ok := uuidParam(w, r, "mediaID", "invalid_media_id")
	if !ok {
		return
	}
	file, ok := h.uploadedFile(w, r, kind)
	if !ok {
		return
	}

	media, err := h.svc.ReplaceMedia(r.Context(), middleware.GetCaller(r.Context()), vlogID, mediaID, *file)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	JSON(w, http.StatusOK, toMediaResponse(media, h.url))
}

// Detach handles DELETE /v1/vlogs/{vlogID}/media/{kind}/{mediaID}
func (h *MediaHandler) Detach(w http.ResponseWriter, r *http.Request) {
	vlogID, ok := uuidParam(w, r, "vlogID", "invalid_vlog_id")
	if !ok {
		return
	}
	kind, ok := kindParam(w, r)
	if !ok {
		return
	}
	mediaID, ok := uuidParam(w, r, "mediaID", "invalid_media_id")
	if !ok {
		return
	}

	if err := h.svc.DetachMedia(r.Context(), middleware.GetCaller(r.Context()), vlogID, kind, mediaID); err != nil {
		handleServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *MediaHandler) uploadedFile(w http.ResponseWriter, r *http.Request, kind model.MediaKind) (*usecase.MediaFile, bool) {
	if !parseMultipart(w, r, h.maxUploadBytes) {
		return nil, false
	}

	file, err := formFile(r.MultipartForm, "file", kind)
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_request", "Unreadable file")
		return nil, false
	}
	if file == nil {
		Error(w, http.StatusBadRequest, "missing_file", "A file field is required")
		return nil, false
	}
	return file, true
}

// kindParam accepts both singular and plural forms, e.g. "image" and "images".
func kindParam(w http.ResponseWriter, r *http.Request) (model.MediaKind, bool) {
	kind, err := model.ParseMediaKind(chi.URLParam(r, "kind"))
	if err != nil {
		Error(w, http.StatusNotFound, "unknown_media_kind", "Media kind must be images, videos or documents")
		return "", false
	}
	return kind, true
}
