package service

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MaxImageSize is the upload size limit.
const MaxImageSize = 2 << 20 // 2 MiB

// ErrInvalidImage covers non-image uploads and oversized files; the message
// carries the field-level reason.
type ErrInvalidImage struct {
	Reason string
}

func (e *ErrInvalidImage) Error() string {
	return e.Reason
}

// StoredImage describes a stored upload.
type StoredImage struct {
	Path string `json:"path"`
	Size int64  `json:"size"`
	Mime string `json:"mime"`
}

// ImageService validates and stores uploaded recipe images.
type ImageService struct {
	storage ImageStorage
	logger  *zap.Logger
}

func NewImageService(storage ImageStorage, logger *zap.Logger) *ImageService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImageService{
		storage: storage,
		logger:  logger,
	}
}

// Upload validates a multipart image file and stores it under a fresh name,
// returning the path the client attaches to a recipe.
func (s *ImageService) Upload(ctx context.Context, file *multipart.FileHeader) (*StoredImage, error) {
	if file.Size > MaxImageSize {
		return nil, &ErrInvalidImage{Reason: fmt.Sprintf("file exceeds %d byte limit", MaxImageSize)}
	}

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = src.Close() }()

	data, err := io.ReadAll(io.LimitReader(src, MaxImageSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > MaxImageSize {
		return nil, &ErrInvalidImage{Reason: fmt.Sprintf("file exceeds %d byte limit", MaxImageSize)}
	}

	// Sniff the real content type rather than trusting the client header.
	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		return nil, &ErrInvalidImage{Reason: "only image files are allowed"}
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	key := uuid.New().String() + ext

	path, err := s.storage.Save(ctx, key, data, mime)
	if err != nil {
		return nil, err
	}

	s.logger.Info("image stored", zap.String("path", path), zap.Int("size", len(data)))
	return &StoredImage{
		Path: path,
		Size: int64(len(data)),
		Mime: mime,
	}, nil
}

// Remove deletes a stored image. Callers treat failures as advisory.
func (s *ImageService) Remove(ctx context.Context, path string) error {
	return s.storage.Delete(ctx, path)
}
