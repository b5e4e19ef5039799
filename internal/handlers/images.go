package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/ncnews/apiserver/internal/apperr"
	"github.com/ncnews/apiserver/internal/services"
	"github.com/rs/zerolog/log"
)

const formFieldImage = "image"

// ImageHandler uploads and serves article images.
type ImageHandler struct {
	images *services.ImageService
}

// NewImageHandler constructs an ImageHandler with the provided dependencies.
func NewImageHandler(images *services.ImageService) *ImageHandler {
	return &ImageHandler{images: images}
}

// UploadImage stores the multipart "image" file and returns its URL.
func (h *ImageHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, services.MaxImageBytes+1<<20)
	file, _, err := r.FormFile(formFieldImage)
	if err != nil {
		respondError(w, r, apperr.BadRequest("Bad request"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, services.MaxImageBytes+1))
	if err != nil {
		respondError(w, r, apperr.BadRequest("Bad request"))
		return
	}

	url, err := h.images.Upload(r.Context(), data)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, ImageResponse{ArticleImgURL: url})
}

// ServeImage streams a stored image.
func (h *ImageHandler) ServeImage(w http.ResponseWriter, r *http.Request) {
	reader, contentType, err := h.images.Open(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, reader); err != nil && !errors.Is(err, r.Context().Err()) {
		log.Warn().Err(err).Msg("failed to stream image")
	}
}

type ImageResponse struct {
	ArticleImgURL string `json:"article_img_url"`
}
