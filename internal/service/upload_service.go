package service

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"

	apperrors "zeme/internal/errors"
	"zeme/internal/models"
	"zeme/internal/storage"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// MaxUploadSize is the largest accepted file.
const MaxUploadSize = 5 << 20

// UploadPrefix is the object key prefix for uploaded files.
const UploadPrefix = "uploads/"

// allowedUploads maps accepted content types to the extensions that may carry them.
var allowedUploads = map[string][]string{
	"image/jpeg":      {".jpg", ".jpeg"},
	"image/png":       {".png"},
	"application/pdf": {".pdf"},
}

// UploadService stores listing images and documents.
type UploadService struct {
	storage storage.Storage
}

// NewUploadService creates a new UploadService.
func NewUploadService(storage storage.Storage) *UploadService {
	return &UploadService{storage: storage}
}

// Upload checks the file's extension and sniffed content type and stores it under
// a random name.
func (s *UploadService) Upload(ctx context.Context, fileName string, size int64, body io.Reader) (*models.UploadResponse, error) {
	if size > MaxUploadSize {
		return nil, apperrors.ErrFileTooLarge
	}

	data, err := io.ReadAll(io.LimitReader(body, MaxUploadSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, apperrors.ErrNoFile
	}
	if len(data) > MaxUploadSize {
		return nil, apperrors.ErrFileTooLarge
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	contentType, ok := detectUpload(data, ext)
	if !ok {
		return nil, apperrors.ErrUnsupportedFile
	}

	name := uuid.NewString() + ext
	key := UploadPrefix + name
	if err := s.storage.PutObject(ctx, key, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		return nil, err
	}

	return &models.UploadResponse{
		FileName: name,
		FilePath: s.storage.URL(key),
	}, nil
}

// detectUpload returns the content type when both the bytes and the extension
// name an accepted type.
func detectUpload(data []byte, ext string) (string, bool) {
	mt := mimetype.Detect(data)
	for contentType, exts := range allowedUploads {
		if !mt.Is(contentType) {
			continue
		}
		for _, e := range exts {
			if e == ext {
				return contentType, true
			}
		}
	}
	return "", false
}
