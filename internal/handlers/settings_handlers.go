package handlers

import (
	"net/http"

	"navhub/internal/models"
	"navhub/internal/services"

	"github.com/labstack/echo/v4"
)

type SettingsHandlers struct {
	settingsService services.SettingsService
}

func NewSettingsHandlers(settingsService services.SettingsService) *SettingsHandlers {
	return &SettingsHandlers{settingsService: settingsService}
}

type AdminPathRequest struct {
	AdminPath string `json:"admin_path" validate:"required"`
}

type AdminPathResponse struct {
	AdminPath string `json:"admin_path"`
}

type SecuritySettingsRequest struct {
	IPBindingEnabled *bool `json:"ip_binding_enabled" validate:"required"`
}

// @Summary Public site branding
// @Tags settings
// @Produce json
// @Success 200 {object} models.SiteSettings
// @Router /site-settings [get]
func (h *SettingsHandlers) GetSiteSettings(c echo.Context) error {
	settings, err := h.settingsService.GetSiteSettings(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, settings)
}

func (h *SettingsHandlers) UpdateSiteSettings(c echo.Context) error {
	var req models.SiteSettingsUpdate
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	settings, err := h.settingsService.UpdateSiteSettings(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, settings)
}

func (h *SettingsHandlers) GetAdminPath(c echo.Context) error {
	path, err := h.settingsService.GetAdminPath(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, AdminPathResponse{AdminPath: path})
}

func (h *SettingsHandlers) UpdateAdminPath(c echo.Context) error {
	var req AdminPathRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	path, err := h.settingsService.UpdateAdminPath(c.Request().Context(), req.AdminPath)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, AdminPathResponse{AdminPath: path})
}

func (h *SettingsHandlers) GetSecuritySettings(c echo.Context) error {
	settings, err := h.settingsService.GetSecuritySettings(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, settings)
}

func (h *SettingsHandlers) UpdateSecuritySettings(c echo.Context) error {
	var req SecuritySettingsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	settings := models.SecuritySettings{IPBindingEnabled: *req.IPBindingEnabled}
	if err := h.settingsService.UpdateSecuritySettings(c.Request().Context(), settings); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, settings)
}
