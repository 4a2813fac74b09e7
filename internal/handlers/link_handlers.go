package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"navhub/internal/common"
	"navhub/internal/middleware"
	"navhub/internal/models"
	"navhub/internal/services"

	"github.com/labstack/echo/v4"
)

const uncategorizedFilter = "uncategorized"

type LinkHandlers struct {
	linkService services.LinkService
}

func NewLinkHandlers(linkService services.LinkService) *LinkHandlers {
	return &LinkHandlers{linkService: linkService}
}

type CreateLinkRequest struct {
	Title       string  `json:"title" validate:"required"`
	URL         string  `json:"url" validate:"required"`
	Icon        *string `json:"icon"`
	Description *string `json:"description"`
	CategoryID  *int64  `json:"category_id" validate:"omitempty,gt=0"`
	SortOrder   *int    `json:"sort_order" validate:"omitempty,gte=0"`
	IsHidden    bool    `json:"is_hidden"`
}

type UpdateLinkRequest struct {
	Title       *string              `json:"title"`
	URL         *string              `json:"url"`
	Icon        *string              `json:"icon"`
	Description *string              `json:"description"`
	CategoryID  models.OptionalInt64 `json:"category_id"`
	SortOrder   *int                 `json:"sort_order" validate:"omitempty,gte=0"`
	IsHidden    *bool                `json:"is_hidden"`
}

// parseCategoryFilter reads ?category_id=<id>|uncategorized.
func parseCategoryFilter(raw string) (models.OptionalInt64, error) {
	raw = strings.TrimSpace(raw)
	switch raw {
	case "":
		return models.OptionalInt64{}, nil
	case uncategorizedFilter:
		return models.Set(nil), nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return models.OptionalInt64{}, common.NewError(common.ErrValidation, "invalid category_id %q", raw)
	}
	return models.Set(&id), nil
}

// @Summary List links
// @Description Hidden links are included for admin tokens, or with show_hidden=1 and a valid hidden_token.
// @Tags links
// @Produce json
// @Param category_id query string false "category id or 'uncategorized'"
// @Param show_hidden query string false "1 to request hidden links"
// @Param hidden_token query string false "hidden-scope token"
// @Success 200 {array} models.Link
// @Router /links [get]
func (h *LinkHandlers) ListLinks(c echo.Context) error {
	categoryFilter, err := parseCategoryFilter(c.QueryParam("category_id"))
	if err != nil {
		return err
	}
	links, err := h.linkService.List(c.Request().Context(), models.LinkFilter{
		IncludeHidden: middleware.IncludeHidden(c),
		CategoryID:    categoryFilter,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, links)
}

func (h *LinkHandlers) GetLink(c echo.Context) error {
	id, err := common.ParseIDParam(c, "id")
	if err != nil {
		return err
	}
	link, err := h.linkService.Get(c.Request().Context(), id, middleware.IncludeHidden(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, link)
}

// @Summary Create a link
// @Tags links
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateLinkRequest true "link"
// @Success 201 {object} models.Link
// @Failure 400 {object} common.ErrorResponse
// @Router /links [post]
func (h *LinkHandlers) CreateLink(c echo.Context) error {
	var req CreateLinkRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	link, err := h.linkService.Create(c.Request().Context(), models.LinkInput{
		Title:       req.Title,
		URL:         req.URL,
		Icon:        req.Icon,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		SortOrder:   req.SortOrder,
		IsHidden:    req.IsHidden,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, link)
}

func (h *LinkHandlers) UpdateLink(c echo.Context) error {
	id, err := common.ParseIDParam(c, "id")
	if err != nil {
		return err
	}
	var req UpdateLinkRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	link, err := h.linkService.Update(c.Request().Context(), id, models.LinkUpdate{
		Title:       req.Title,
		URL:         req.URL,
		Icon:        req.Icon,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		SortOrder:   req.SortOrder,
		IsHidden:    req.IsHidden,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, link)
}

func (h *LinkHandlers) DeleteLink(c echo.Context) error {
	id, err := common.ParseIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.linkService.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *LinkHandlers) ReorderLinks(c echo.Context) error {
	var req ReorderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.linkService.Reorder(c.Request().Context(), req.Orders); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, common.MessageResponse{Message: "order updated"})
}
