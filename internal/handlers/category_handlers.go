package handlers

import (
	"net/http"

	"navhub/internal/common"
	"navhub/internal/models"
	"navhub/internal/services"

	"github.com/labstack/echo/v4"
)

// CategoryHandlers serves the category tree and the default-category pointer.
type CategoryHandlers struct {
	categoryService services.CategoryService
}

func NewCategoryHandlers(categoryService services.CategoryService) *CategoryHandlers {
	return &CategoryHandlers{categoryService: categoryService}
}

type CreateCategoryRequest struct {
	Name      string `json:"name" validate:"required"`
	ParentID  *int64 `json:"parent_id" validate:"omitempty,gt=0"`
	SortOrder *int   `json:"sort_order" validate:"omitempty,gte=0"`
}

// UpdateCategoryRequest is partial; parent_id may be set to null to make the
// category a root.
type UpdateCategoryRequest struct {
	Name      *string              `json:"name"`
	ParentID  models.OptionalInt64 `json:"parent_id"`
	SortOrder *int                 `json:"sort_order" validate:"omitempty,gte=0"`
}

// ReorderRequest is shared by the category and link reorder endpoints.
type ReorderRequest struct {
	Orders []models.OrderItem `json:"orders" validate:"required,dive"`
}

type SetDefaultCategoryRequest struct {
	CategoryID *int64 `json:"category_id" validate:"omitempty,gt=0"`
}

// @Summary List categories in tree order
// @Tags categories
// @Produce json
// @Success 200 {array} models.Category
// @Router /categories [get]
func (h *CategoryHandlers) ListCategories(c echo.Context) error {
	categories, err := h.categoryService.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, categories)
}

func (h *CategoryHandlers) GetCategory(c echo.Context) error {
	id, err := common.ParseIDParam(c, "id")
	if err != nil {
		return err
	}
	category, err := h.categoryService.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, category)
}

// @Summary Create a category
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateCategoryRequest true "category"
// @Success 201 {object} models.Category
// @Failure 400 {object} common.ErrorResponse
// @Router /categories [post]
func (h *CategoryHandlers) CreateCategory(c echo.Context) error {
	var req CreateCategoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	category, err := h.categoryService.Create(c.Request().Context(), models.CategoryInput{
		Name:      req.Name,
		ParentID:  req.ParentID,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, category)
}

func (h *CategoryHandlers) UpdateCategory(c echo.Context) error {
	id, err := common.ParseIDParam(c, "id")
	if err != nil {
		return err
	}
	var req UpdateCategoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	category, err := h.categoryService.Update(c.Request().Context(), id, models.CategoryUpdate{
		Name:      req.Name,
		ParentID:  req.ParentID,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, category)
}

func (h *CategoryHandlers) DeleteCategory(c echo.Context) error {
	id, err := common.ParseIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.categoryService.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// @Summary Reorder categories
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ReorderRequest true "new positions"
// @Success 200 {object} common.MessageResponse
// @Failure 400 {object} common.ErrorResponse
// @Router /categories/reorder [put]
func (h *CategoryHandlers) ReorderCategories(c echo.Context) error {
	var req ReorderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.categoryService.Reorder(c.Request().Context(), req.Orders); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, common.MessageResponse{Message: "order updated"})
}

func (h *CategoryHandlers) GetDefaultCategory(c echo.Context) error {
	id, err := h.categoryService.GetDefault(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, models.DefaultCategory{CategoryID: id})
}

func (h *CategoryHandlers) SetDefaultCategory(c echo.Context) error {
	var req SetDefaultCategoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.categoryService.SetDefault(c.Request().Context(), req.CategoryID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, models.DefaultCategory{CategoryID: req.CategoryID})
}
