package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"

	"navhub/internal/common"
	"navhub/internal/models"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

const (
	MaxIconSize       = 1 << 20
	iconPresignExpiry = 15 * time.Minute
	iconURLPrefix     = "/api/icons/"
	iconSniffLen      = 512
)

// Raster formats only. SVG can carry script, so it is never stored.
var iconTypes = []struct {
	mediaType string
	ext       string
}{
	{"image/png", ".png"},
	{"image/jpeg", ".jpg"},
	{"image/gif", ".gif"},
	{"image/webp", ".webp"},
	{"image/x-icon", ".ico"},
}

type IconService interface {
	// Upload stores an image whose type is taken from its leading bytes;
	// whatever the client declared is ignored.
	Upload(ctx context.Context, size int64, reader io.Reader) (*models.IconUpload, error)
	// URL returns a short-lived download URL for a stored icon.
	URL(ctx context.Context, name string) (string, error)
	Delete(ctx context.Context, name string) error
}

type iconService struct {
	store  ObjectStore
	bucket string
}

func NewIconService(store ObjectStore, bucket string) IconService {
	return &iconService{store: store, bucket: bucket}
}

func detectIconType(head []byte) (mediaType, ext string, ok bool) {
	detected := mimetype.Detect(head)
	for _, t := range iconTypes {
		if detected.Is(t.mediaType) {
			return t.mediaType, t.ext, true
		}
	}
	return detected.String(), "", false
}

func (s *iconService) Upload(ctx context.Context, size int64, reader io.Reader) (*models.IconUpload, error) {
	if size <= 0 || size > MaxIconSize {
		return nil, common.NewError(common.ErrValidation, "icon must be between 1 byte and 1 MiB")
	}

	body := io.LimitReader(reader, size)
	head := make([]byte, iconSniffLen)
	n, err := io.ReadFull(body, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, common.NewError(common.ErrValidation, "unreadable upload")
	}
	head = head[:n]

	mediaType, ext, ok := detectIconType(head)
	if !ok {
		return nil, common.NewError(common.ErrValidation, "unsupported icon type %q", mediaType)
	}

	name := uuid.NewString() + ext
	content := io.MultiReader(bytes.NewReader(head), body)
	if err := s.store.PutObject(ctx, s.bucket, name, content, size, mediaType); err != nil {
		return nil, fmt.Errorf("failed to store icon: %w", err)
	}

	slog.InfoContext(ctx, "icon uploaded", "name", name, "size", size, "content_type", mediaType)
	return &models.IconUpload{Name: name, URL: iconURLPrefix + name}, nil
}

// validIconName accepts only names produced by Upload: a UUID plus a known
// extension.
func validIconName(name string) bool {
	ext := path.Ext(name)
	if _, err := uuid.Parse(strings.TrimSuffix(name, ext)); err != nil {
		return false
	}
	for _, t := range iconTypes {
		if ext == t.ext {
			return true
		}
	}
	return false
}

func (s *iconService) requireIcon(ctx context.Context, name string) error {
	if !validIconName(name) {
		return common.NotFoundError("icon")
	}
	exists, err := s.store.ObjectExists(ctx, s.bucket, name)
	if err != nil {
		return err
	}
	if !exists {
		return common.NotFoundError("icon")
	}
	return nil
}

func (s *iconService) URL(ctx context.Context, name string) (string, error) {
	if err := s.requireIcon(ctx, name); err != nil {
		return "", err
	}
	return s.store.GetPresignedURL(ctx, s.bucket, name, iconPresignExpiry)
}

func (s *iconService) Delete(ctx context.Context, name string) error {
	if err := s.requireIcon(ctx, name); err != nil {
		return err
	}
	if err := s.store.DeleteObject(ctx, s.bucket, name); err != nil {
		return fmt.Errorf("failed to delete icon: %w", err)
	}
	slog.InfoContext(ctx, "icon deleted", "name", name)
	return nil
}
