package services

import (
	"context"
	"strings"

	"navhub/internal/common"
	"navhub/internal/models"
	"navhub/internal/repositories"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type LinkService interface {
	List(ctx context.Context, filter models.LinkFilter) ([]*models.Link, error)
	// Get hides hidden links from viewers without access by reporting NotFound.
	Get(ctx context.Context, id int64, includeHidden bool) (*models.Link, error)
	Create(ctx context.Context, input models.LinkInput) (*models.Link, error)
	Update(ctx context.Context, id int64, update models.LinkUpdate) (*models.Link, error)
	Delete(ctx context.Context, id int64) error
	Reorder(ctx context.Context, items []models.OrderItem) error
}

type linkService struct {
	repo repositories.LinkRepository
}

func NewLinkService(repo repositories.LinkRepository) LinkService {
	return &linkService{repo: repo}
}

func (s *linkService) List(ctx context.Context, filter models.LinkFilter) ([]*models.Link, error) {
	links, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if links == nil {
		links = []*models.Link{}
	}
	return links, nil
}

func (s *linkService) Get(ctx context.Context, id int64, includeHidden bool) (*models.Link, error) {
	link, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if link.IsHidden && !includeHidden {
		return nil, common.NotFoundError("link")
	}
	return link, nil
}

func validateLinkFields(title, url string) error {
	return validation.Errors{
		"title": validation.Validate(title,
			validation.Required.Error("title is required"),
			validation.RuneLength(1, maxLinkTitleLength).Error("title must be at most 100 characters")),
		"url": validation.Validate(url,
			validation.Required.Error("url is required"),
			validation.RuneLength(1, maxURLLength).Error("url must be at most 2048 characters")),
	}.Filter()
}

// optionalText trims s and maps an empty result to NULL.
func optionalText(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func (s *linkService) Create(ctx context.Context, input models.LinkInput) (*models.Link, error) {
	link := &models.Link{
		Title:       strings.TrimSpace(input.Title),
		URL:         strings.TrimSpace(input.URL),
		Icon:        optionalText(input.Icon),
		Description: optionalText(input.Description),
		CategoryID:  input.CategoryID,
		IsHidden:    input.IsHidden,
	}
	if err := validateLinkFields(link.Title, link.URL); err != nil {
		return nil, common.ValidationError(err)
	}
	if err := validateSortOrder(input.SortOrder); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, link, input.SortOrder); err != nil {
		return nil, err
	}
	return link, nil
}

func (s *linkService) Update(ctx context.Context, id int64, update models.LinkUpdate) (*models.Link, error) {
	if err := validateSortOrder(update.SortOrder); err != nil {
		return nil, err
	}

	return s.repo.Update(ctx, id, update.SortOrder, func(link *models.Link) error {
		if update.Title != nil {
			link.Title = strings.TrimSpace(*update.Title)
		}
		if update.URL != nil {
			link.URL = strings.TrimSpace(*update.URL)
		}
		if update.Icon != nil {
			link.Icon = optionalText(update.Icon)
		}
		if update.Description != nil {
			link.Description = optionalText(update.Description)
		}
		if update.IsHidden != nil {
			link.IsHidden = *update.IsHidden
		}
		if update.CategoryID.Present {
			link.CategoryID = update.CategoryID.Value
		}
		if err := validateLinkFields(link.Title, link.URL); err != nil {
			return common.ValidationError(err)
		}
		return nil
	})
}

func (s *linkService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *linkService) Reorder(ctx context.Context, items []models.OrderItem) error {
	if len(items) == 0 {
		return common.NewError(common.ErrValidation, "orders must not be empty")
	}
	return s.repo.Reorder(ctx, items)
}
