package handlers

import (
	"net/http"

	"navhub/internal/common"
	"navhub/internal/services"

	"github.com/labstack/echo/v4"
)

const iconFormField = "file"

// IconHandlers stores uploaded icons and serves them through presigned redirects.
type IconHandlers struct {
	iconService services.IconService
}

func NewIconHandlers(iconService services.IconService) *IconHandlers {
	return &IconHandlers{iconService: iconService}
}

// @Summary Upload an icon image
// @Tags icons
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "PNG, JPEG, GIF, WebP or ICO image, at most 1 MiB"
// @Success 201 {object} models.IconUpload
// @Failure 400 {object} common.ErrorResponse
// @Router /icons [post]
func (h *IconHandlers) UploadIcon(c echo.Context) error {
	// Reject oversized bodies before multipart parsing spools them to disk.
	c.Request().Body = http.MaxBytesReader(c.Response(), c.Request().Body, services.MaxIconSize+64<<10)

	fileHeader, err := c.FormFile(iconFormField)
	if err != nil {
		return common.NewError(common.ErrValidation, "file is required and must be at most %d bytes", services.MaxIconSize)
	}
	file, err := fileHeader.Open()
	if err != nil {
		return common.NewError(common.ErrValidation, "unreadable upload")
	}
	defer file.Close()

	icon, err := h.iconService.Upload(c.Request().Context(), fileHeader.Size, file)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, icon)
}

// GetIcon redirects to a short-lived presigned download URL.
func (h *IconHandlers) GetIcon(c echo.Context) error {
	url, err := h.iconService.URL(c.Request().Context(), c.Param("name"))
	if err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, url)
}

func (h *IconHandlers) DeleteIcon(c echo.Context) error {
	if err := h.iconService.Delete(c.Request().Context(), c.Param("name")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
