package services

import (
	"context"
	"strings"

	"navhub/internal/caching"
	"navhub/internal/common"
	"navhub/internal/models"
	"navhub/internal/repositories"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type CategoryService interface {
	// List returns the tree in pre-order: each root followed by its children.
	List(ctx context.Context) ([]*models.Category, error)
	Get(ctx context.Context, id int64) (*models.Category, error)
	Create(ctx context.Context, input models.CategoryInput) (*models.Category, error)
	Update(ctx context.Context, id int64, update models.CategoryUpdate) (*models.Category, error)
	Delete(ctx context.Context, id int64) error
	Reorder(ctx context.Context, items []models.OrderItem) error
	GetDefault(ctx context.Context) (*int64, error)
	SetDefault(ctx context.Context, id *int64) error
}

type categoryService struct {
	repo  repositories.CategoryRepository
	cache publicCache
}

func NewCategoryService(repo repositories.CategoryRepository, cache caching.CacheService) CategoryService {
	return &categoryService{
		repo:  repo,
		cache: publicCache{cache: cache, ttl: DefaultPublicCacheTTL},
	}
}

func (s *categoryService) List(ctx context.Context) ([]*models.Category, error) {
	var cached []*models.Category
	if s.cache.get(ctx, caching.CategoriesKey, &cached) {
		return cached, nil
	}

	categories, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	defaultID, err := s.repo.GetDefault(ctx)
	if err != nil {
		return nil, err
	}

	tree := preOrder(categories)
	markDefault(tree, defaultID)
	s.cache.set(ctx, caching.CategoriesKey, tree)
	return tree, nil
}

// preOrder arranges rows already sorted by (sort_order, id) so every root is
// immediately followed by its children. Children whose parent is missing are
// appended at the end.
func preOrder(categories []*models.Category) []*models.Category {
	children := make(map[int64][]*models.Category)
	roots := make([]*models.Category, 0, len(categories))
	for _, c := range categories {
		if c.IsRoot() {
			roots = append(roots, c)
		} else {
			children[*c.ParentID] = append(children[*c.ParentID], c)
		}
	}

	result := make([]*models.Category, 0, len(categories))
	for _, root := range roots {
		result = append(result, root)
		result = append(result, children[root.ID]...)
		delete(children, root.ID)
	}
	for _, c := range categories {
		if !c.IsRoot() {
			if _, orphan := children[*c.ParentID]; orphan {
				result = append(result, c)
			}
		}
	}
	return result
}

func markDefault(categories []*models.Category, defaultID *int64) {
	for _, c := range categories {
		c.IsDefault = defaultID != nil && c.ID == *defaultID
	}
}

func (s *categoryService) Get(ctx context.Context, id int64) (*models.Category, error) {
	category, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	defaultID, err := s.repo.GetDefault(ctx)
	if err != nil {
		return nil, err
	}
	markDefault([]*models.Category{category}, defaultID)
	return category, nil
}

func validateCategoryName(name string) error {
	return validation.Validate(name,
		validation.Required.Error("name is required"),
		validation.RuneLength(1, maxCategoryNameLength).Error("name must be at most 50 characters"),
	)
}

func validateSortOrder(sortOrder *int) error {
	if sortOrder != nil && *sortOrder < 0 {
		return common.NewError(common.ErrValidation, "sort_order must not be negative")
	}
	return nil
}

func (s *categoryService) Create(ctx context.Context, input models.CategoryInput) (*models.Category, error) {
	name := strings.TrimSpace(input.Name)
	if err := validateCategoryName(name); err != nil {
		return nil, common.ValidationError(err)
	}
	if err := validateSortOrder(input.SortOrder); err != nil {
		return nil, err
	}

	category := &models.Category{Name: name, ParentID: input.ParentID}
	if err := s.repo.Create(ctx, category, input.SortOrder); err != nil {
		return nil, err
	}

	s.cache.invalidate(ctx, caching.CategoriesKey)
	return category, nil
}

func (s *categoryService) Update(ctx context.Context, id int64, update models.CategoryUpdate) (*models.Category, error) {
	var name string
	if update.Name != nil {
		name = strings.TrimSpace(*update.Name)
		if err := validateCategoryName(name); err != nil {
			return nil, common.ValidationError(err)
		}
	}
	if err := validateSortOrder(update.SortOrder); err != nil {
		return nil, err
	}
	if update.ParentID.Present && update.ParentID.Value != nil && *update.ParentID.Value == id {
		return nil, common.NewError(common.ErrValidation, "a category cannot be its own parent")
	}

	category, err := s.repo.Update(ctx, id, update.SortOrder, func(category *models.Category) error {
		if update.Name != nil {
			category.Name = name
		}
		if update.ParentID.Present {
			category.ParentID = update.ParentID.Value
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.cache.invalidate(ctx, caching.CategoriesKey)

	defaultID, err := s.repo.GetDefault(ctx)
	if err != nil {
		return nil, err
	}
	markDefault([]*models.Category{category}, defaultID)
	return category, nil
}

func (s *categoryService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.invalidate(ctx, caching.CategoriesKey)
	return nil
}

func (s *categoryService) Reorder(ctx context.Context, items []models.OrderItem) error {
	if len(items) == 0 {
		return common.NewError(common.ErrValidation, "orders must not be empty")
	}
	if err := s.repo.Reorder(ctx, items); err != nil {
		return err
	}
	s.cache.invalidate(ctx, caching.CategoriesKey)
	return nil
}

func (s *categoryService) GetDefault(ctx context.Context) (*int64, error) {
	return s.repo.GetDefault(ctx)
}

func (s *categoryService) SetDefault(ctx context.Context, id *int64) error {
	if err := s.repo.SetDefault(ctx, id); err != nil {
		return err
	}
	s.cache.invalidate(ctx, caching.CategoriesKey)
	return nil
}
