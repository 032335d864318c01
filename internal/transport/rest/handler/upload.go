package handler

import (
	"net/http"

	"formforge/internal/storage"
)

// UploadHandler stores images in the blob store and returns their URL
type UploadHandler struct {
	images storage.ImageStore
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(images storage.ImageStore) *UploadHandler {
	return &UploadHandler{images: images}
}

// Upload handles POST /api/upload. Expects a multipart form with an "image"
// field; responds with the public retrieval URL.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if h.images == nil {
		writeError(w, http.StatusServiceUnavailable, "image storage is not configured")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, storage.MaxImageSize)
	if err := r.ParseMultipartForm(storage.MaxImageSize); err != nil {
		writeError(w, http.StatusBadRequest, "image exceeds the 5MB limit")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "no image uploaded")
		return
	}
	defer file.Close()

	if !storage.AllowedImage(header.Filename) {
		writeError(w, http.StatusBadRequest, "unsupported image format")
		return
	}

	url, err := h.images.Upload(header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"url":     url,
	})
}
