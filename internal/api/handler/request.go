package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hszk-dev/govlog/internal/domain/model"
	"github.com/hszk-dev/govlog/internal/usecase"
)

// multipartMemory is how much of a form is buffered in memory before
// file parts spill to temporary files.
const multipartMemory = 32 << 20

// uuidParam parses a chi URL parameter and writes a 400 when it is malformed.
func uuidParam(w http.ResponseWriter, r *http.Request, name, errCode string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		Error(w, http.StatusBadRequest, errCode, fmt.Sprintf("%s must be a valid UUID", name))
		return uuid.Nil, false
	}
	return id, true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		Error(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return false
	}
	return true
}

// parseMultipart bounds the body to maxBytes and parses it as multipart/form-data.
func parseMultipart(w http.ResponseWriter, r *http.Request, maxBytes int64) bool {
	if maxBytes > 0 {
		if r.ContentLength > maxBytes {
			Error(w, http.StatusRequestEntityTooLarge, "payload_too_large",
				fmt.Sprintf("Request body exceeds %d bytes", maxBytes))
			return false
		}
		// Chunked bodies carry no length; cap them while reading.
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			Error(w, http.StatusRequestEntityTooLarge, "payload_too_large",
				fmt.Sprintf("Request body exceeds %d bytes", tooLarge.Limit))
		case errors.Is(err, http.ErrNotMultipart):
			Error(w, http.StatusUnsupportedMediaType, "unsupported_media_type", "Expected multipart/form-data")
		default:
			Error(w, http.StatusBadRequest, "invalid_request", "Malformed multipart body")
		}
		return false
	}
	return true
}

// formField returns nil when the field is absent so callers can tell
// "not sent" from "sent empty".
func formField(form *multipart.Form, name string) *string {
	values, ok := form.Value[name]
	if !ok || len(values) == 0 {
		return nil
	}
	v := values[0]
	return &v
}

func formString(form *multipart.Form, name string) string {
	if v := formField(form, name); v != nil {
		return *v
	}
	return ""
}

// formFiles reads every file sent under name.
func formFiles(form *multipart.Form, name string, kind model.MediaKind) ([]usecase.MediaFile, error) {
	headers := form.File[name]
	files := make([]usecase.MediaFile, 0, len(headers))
	for _, fh := range headers {
		file, err := readFormFile(fh, kind)
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}
	return files, nil
}

// formFile reads the first file sent under name, or returns nil.
func formFile(form *multipart.Form, name string, kind model.MediaKind) (*usecase.MediaFile, error) {
	headers := form.File[name]
	if len(headers) == 0 {
		return nil, nil
	}
	file, err := readFormFile(headers[0], kind)
	if err != nil {
		return nil, err
	}
	return &file, nil
}

func readFormFile(fh *multipart.FileHeader, kind model.MediaKind) (usecase.MediaFile, error) {
	f, err := fh.Open()
	if err != nil {
		return usecase.MediaFile{}, fmt.Errorf("open %s: %w", fh.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return usecase.MediaFile{}, fmt.Errorf("read %s: %w", fh.Filename, err)
	}

	return usecase.MediaFile{Kind: kind, FileName: fh.Filename, Data: data}, nil
}
