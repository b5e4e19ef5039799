package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/ncnews/apiserver/internal/apperr"
	"github.com/ncnews/apiserver/internal/storage"
)

// MaxImageBytes is the largest accepted article image.
const MaxImageBytes = 5 << 20

const imagePrefix = "articles/"

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// ObjectStore is the subset of object storage used for images.
type ObjectStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
}

// ImageService stores article cover images.
type ImageService struct {
	store   ObjectStore
	baseURL string
}

// NewImageService returns a service publishing image URLs under baseURL,
// which is the public prefix that serves the stored objects.
func NewImageService(store ObjectStore, baseURL string) *ImageService {
	return &ImageService{store: store, baseURL: strings.TrimRight(baseURL, "/")}
}

// Upload sniffs the image type, stores the bytes under a fresh key and
// returns the public URL to use as article_img_url.
func (s *ImageService) Upload(ctx context.Context, data []byte) (string, error) {
	if len(data) == 0 || len(data) > MaxImageBytes {
		return "", badRequest()
	}

	contentType := http.DetectContentType(data)
	ext, ok := imageExtensions[contentType]
	if !ok {
		return "", apperr.BadRequest("Unsupported image type")
	}

	name := uuid.NewString() + ext
	if err := s.store.Put(ctx, imagePrefix+name, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		return "", apperr.Internal("failed to store image", err)
	}
	return s.baseURL + "/" + name, nil
}

// Open returns a stored image and its content type. Names other than the
// ones Upload generates are reported as missing.
func (s *ImageService) Open(ctx context.Context, name string) (io.ReadCloser, string, error) {
	ext := path.Ext(name)
	contentType := ""
	for ct, e := range imageExtensions {
		if e == ext {
			contentType = ct
		}
	}
	if _, err := uuid.Parse(strings.TrimSuffix(name, ext)); contentType == "" || err != nil {
		return nil, "", apperr.NotFound("Image not found")
	}

	reader, err := s.store.Get(ctx, imagePrefix+name)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, "", apperr.NotFound("Image not found")
		}
		return nil, "", err
	}
	return reader, contentType, nil
}
