package handlers

import (
	"net/http"

	"navhub/internal/common"
	"navhub/internal/services"

	"github.com/labstack/echo/v4"
)

// BookmarkHandlers serves the private bookmark list. Every route sits behind
// the bookmark scope.
type BookmarkHandlers struct {
	bookmarkService services.BookmarkService
}

func NewBookmarkHandlers(bookmarkService services.BookmarkService) *BookmarkHandlers {
	return &BookmarkHandlers{bookmarkService: bookmarkService}
}

type AddBookmarkRequest struct {
	Title string `json:"title" validate:"required"`
	URL   string `json:"url" validate:"required"`
}

// @Summary List bookmarks, newest first
// @Tags bookmarks
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Bookmark
// @Failure 401 {object} common.ErrorResponse
// @Router /bookmarks [get]
func (h *BookmarkHandlers) ListBookmarks(c echo.Context) error {
	bookmarks, err := h.bookmarkService.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, bookmarks)
}

func (h *BookmarkHandlers) AddBookmark(c echo.Context) error {
	var req AddBookmarkRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	bookmark, err := h.bookmarkService.Add(c.Request().Context(), req.Title, req.URL)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, bookmark)
}

func (h *BookmarkHandlers) DeleteBookmark(c echo.Context) error {
	id, err := common.ParseIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.bookmarkService.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
