package services

import (
	"context"
	"net/url"
	"strings"

	"navhub/internal/common"
	"navhub/internal/models"
	"navhub/internal/repositories"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type BookmarkService interface {
	// List returns bookmarks newest first.
	List(ctx context.Context) ([]*models.Bookmark, error)
	Add(ctx context.Context, title, rawURL string) (*models.Bookmark, error)
	Delete(ctx context.Context, id int64) error
}

type bookmarkService struct {
	repo repositories.BookmarkRepository
}

func NewBookmarkService(repo repositories.BookmarkRepository) BookmarkService {
	return &bookmarkService{repo: repo}
}

func (s *bookmarkService) List(ctx context.Context) ([]*models.Bookmark, error) {
	bookmarks, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if bookmarks == nil {
		bookmarks = []*models.Bookmark{}
	}
	return bookmarks, nil
}

// NormalizeBookmarkURL trims raw, adds https:// when it carries no http(s)
// scheme and requires the result to be an absolute URL with a host.
func NormalizeBookmarkURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", common.NewError(common.ErrValidation, "url is required")
	}
	lower := strings.ToLower(raw)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		raw = "https://" + raw
	}

	parsed, err := url.Parse(raw)
	if err != nil || !parsed.IsAbs() || parsed.Host == "" {
		return "", common.NewError(common.ErrValidation, "invalid url %q", raw)
	}
	return raw, nil
}

func (s *bookmarkService) Add(ctx context.Context, title, rawURL string) (*models.Bookmark, error) {
	title = strings.TrimSpace(title)
	err := validation.Validate(title,
		validation.Required.Error("title and url are required"),
		validation.RuneLength(1, maxLinkTitleLength).Error("title must be at most 100 characters"))
	if err != nil {
		return nil, common.ValidationError(err)
	}

	normalized, err := NormalizeBookmarkURL(rawURL)
	if err != nil {
		return nil, err
	}
	if len(normalized) > maxURLLength {
		return nil, common.NewError(common.ErrValidation, "url must be at most 2048 characters")
	}

	bookmark := &models.Bookmark{Title: title, URL: normalized}
	if err := s.repo.Create(ctx, bookmark); err != nil {
		return nil, err
	}
	return bookmark, nil
}

func (s *bookmarkService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
