package handler

import (
	"net/http"
	"strconv"

	"github.com/hszk-dev/govlog/internal/api/middleware"
	"github.com/hszk-dev/govlog/internal/domain/model"
	"github.com/hszk-dev/govlog/internal/usecase"
)

// Multipart file fields accepted on create, by kind.
var mediaFields = []struct {
	field string
	kind  model.MediaKind
}{
	{"images", model.MediaImage},
	{"videos", model.MediaVideo},
	{"documents", model.MediaDocument},
}

// VlogHandler handles vlog aggregate and listing requests.
type VlogHandler struct {
	svc            usecase.VlogService
	listing        usecase.ListingService
	url            URLBuilder
	maxUploadBytes int64
}

// NewVlogHandler creates a new VlogHandler.
func NewVlogHandler(svc usecase.VlogService, listing usecase.ListingService, url URLBuilder, maxUploadBytes int64) *VlogHandler {
	return &VlogHandler{svc: svc, listing: listing, url: url, maxUploadBytes: maxUploadBytes}
}

// Create handles POST /v1/vlogs
func (h *VlogHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !parseMultipart(w, r, h.maxUploadBytes) {
		return
	}
	form := r.MultipartForm

	input := usecase.CreateVlogInput{
		Caller: middleware.GetCaller(r.Context()),
		Fields: model.VlogFields{
			Title:       formString(form, "title"),
			Content:     formString(form, "content"),
			Description: formString(form, "description"),
		},
		Tag: formString(form, "tag"),
	}

	cover, err := formFile(form, "cover", model.MediaImage)
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_request", "Unreadable cover file")
		return
	}
	input.Cover = cover

	for _, f := range mediaFields {
		files, err := formFiles(form, f.field, f.kind)
		if err != nil {
			Error(w, http.StatusBadRequest, "invalid_request", "Unreadable "+f.field+" file")
			return
		}
		input.Media = append(input.Media, files...)
	}

	vlog, err := h.svc.CreateVlog(r.Context(), input)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	JSON(w, http.StatusCreated, toVlogResponse(vlog, h.url))
}

// Get handles GET /v1/vlogs/{vlogID}
func (h *VlogHandler) Get(w http.ResponseWriter, r *http.Request) {
	vlogID, ok := uuidParam(w, r, "vlogID", "invalid_vlog_id")
	if !ok {
		return
	}

	vlog, err := h.svc.GetVlog(r.Context(), vlogID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	JSON(w, http.StatusOK, toVlogResponse(vlog, h.url))
}

// Update handles PATCH /v1/vlogs/{vlogID}
func (h *VlogHandler) Update(w http.ResponseWriter, r *http.Request) {
	vlogID, ok := uuidParam(w, r, "vlogID", "invalid_vlog_id")
	if !ok {
		return
	}
	if !parseMultipart(w, r, h.maxUploadBytes) {
		return
	}
	form := r.MultipartForm

	cover, err := formFile(form, "cover", model.MediaImage)
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_request", "Unreadable cover file")
		return
	}

	vlog, err := h.svc.UpdateVlog(r.Context(), usecase.UpdateVlogInput{
		Caller: middleware.GetCaller(r.Context()),
		VlogID: vlogID,
		Patch: model.VlogPatch{
			Title:       formField(form, "title"),
			Content:     formField(form, "content"),
			Description: formField(form, "description"),
		},
		Cover: cover,
	})
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	JSON(w, http.StatusOK, toVlogResponse(vlog, h.url))
}

// Delete handles DELETE /v1/vlogs/{vlogID}
func (h *VlogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	vlogID, ok := uuidParam(w, r, "vlogID", "invalid_vlog_id")
	if !ok {
		return
	}

	if err := h.svc.DeleteVlog(r.Context(), middleware.GetCaller(r.Context()), vlogID); err != nil {
		handleServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type ListVlogsResponse struct {
	Vlogs  []VlogSummaryResponse `json:"vlogs"`
	Limit  int                   `json:"limit"`
	Offset int                   `json:"offset"`
}

// List handles GET /v1/vlogs?title=&tags=&limit=&offset=
func (h *VlogHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit, ok := intQuery(w, q.Get("limit"), "limit")
	if !ok {
		return
	}
	offset, ok := intQuery(w, q.Get("offset"), "offset")
	if !ok {
		return
	}

	summaries, err := h.listing.ListVlogs(r.Context(), usecase.ListVlogsInput{
		Title:  q.Get("title"),
		Tag:    q.Get("tags"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	resp := ListVlogsResponse{
		Vlogs:  make([]VlogSummaryResponse, 0, len(summaries)),
		Limit:  usecase.PageSize(limit),
		Offset: offset,
	}
	for _, s := range summaries {
		resp.Vlogs = append(resp.Vlogs, toVlogSummaryResponse(s, h.url))
	}

	JSON(w, http.StatusOK, resp)
}

func intQuery(w http.ResponseWriter, raw, name string) (int, bool) {
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_"+name, name+" must be an integer")
		return 0, false
	}
	return n, true
}
