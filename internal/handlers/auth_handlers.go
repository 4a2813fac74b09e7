package handlers

import (
	"net/http"

	"navhub/internal/common"
	"navhub/internal/middleware"
	"navhub/internal/models"
	"navhub/internal/services"

	"github.com/labstack/echo/v4"
)

// AuthHandlers serves initialization, the three token exchanges and credential management.
type AuthHandlers struct {
	authService services.AuthService
}

func NewAuthHandlers(authService services.AuthService) *AuthHandlers {
	return &AuthHandlers{authService: authService}
}

type InitRequest struct {
	Username string `json:"username" validate:"omitempty,max=32"`
	Password string `json:"password" validate:"required"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// PasswordRequest is the body of every password-only endpoint.
type PasswordRequest struct {
	Password string `json:"password" validate:"required"`
}

// CheckInitResponse tells the admin UI whether to show the setup form.
type CheckInitResponse struct {
	NeedInit bool `json:"need_init"`
}

type VerifyTokenResponse struct {
	Valid    bool   `json:"valid"`
	Username string `json:"username"`
}

// Init stores the first admin credentials.
// @Summary Initialize the admin account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body InitRequest true "initial credentials"
// @Success 201 {object} common.MessageResponse
// @Failure 400 {object} common.ErrorResponse
// @Failure 409 {object} common.ErrorResponse
// @Router /init [post]
func (h *AuthHandlers) Init(c echo.Context) error {
	var req InitRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.authService.Init(c.Request().Context(), req.Username, req.Password); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, common.MessageResponse{Message: "initialized"})
}

// @Summary Report whether the admin account still needs to be set up
// @Tags auth
// @Produce json
// @Success 200 {object} CheckInitResponse
// @Router /check-init [get]
func (h *AuthHandlers) CheckInit(c echo.Context) error {
	initialized, err := h.authService.CheckInit(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, CheckInitResponse{NeedInit: !initialized})
}

// @Summary Exchange admin credentials for an admin token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "credentials"
// @Success 200 {object} models.TokenResponse
// @Failure 401 {object} common.ErrorResponse
// @Failure 429 {object} common.ErrorResponse
// @Router /login [post]
func (h *AuthHandlers) Login(c echo.Context) error {
	var req LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	token, err := h.authService.Login(c.Request().Context(), req.Username, req.Password, c.RealIP())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, token)
}

// VerifyToken reaches the handler only behind the admin scope middleware.
func (h *AuthHandlers) VerifyToken(c echo.Context) error {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		return common.ErrUnauthorized
	}
	return c.JSON(http.StatusOK, VerifyTokenResponse{Valid: true, Username: claims.Subject})
}

// @Summary Exchange the hidden password for a hidden-links token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body PasswordRequest true "hidden password"
// @Success 200 {object} models.TokenResponse
// @Failure 401 {object} common.ErrorResponse
// @Failure 429 {object} common.ErrorResponse
// @Router /verify-hidden [post]
func (h *AuthHandlers) VerifyHidden(c echo.Context) error {
	var req PasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	token, err := h.authService.VerifyHidden(c.Request().Context(), req.Password, c.RealIP())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, token)
}

// @Summary Exchange the bookmark password for a bookmark token
// @Tags bookmarks
// @Accept json
// @Produce json
// @Param request body PasswordRequest true "bookmark password"
// @Success 200 {object} models.TokenResponse
// @Failure 400 {object} common.ErrorResponse
// @Failure 401 {object} common.ErrorResponse
// @Router /bookmarks/auth [post]
func (h *AuthHandlers) AuthorizeBookmarks(c echo.Context) error {
	var req PasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	token, err := h.authService.AuthorizeBookmarks(c.Request().Context(), req.Password, c.RealIP())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, token)
}

func (h *AuthHandlers) GetAdminAccount(c echo.Context) error {
	account, err := h.authService.GetAdminAccount(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, account)
}

func (h *AuthHandlers) UpdateAdminAccount(c echo.Context) error {
	var req models.AdminAccountUpdate
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.authService.UpdateAdminAccount(c.Request().Context(), req); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, common.MessageResponse{Message: "admin account updated"})
}

func (h *AuthHandlers) UpdateHiddenPassword(c echo.Context) error {
	var req PasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.authService.UpdateHiddenPassword(c.Request().Context(), req.Password); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, common.MessageResponse{Message: "hidden password updated"})
}

func (h *AuthHandlers) UpdateBookmarkPassword(c echo.Context) error {
	var req PasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.authService.UpdateBookmarkPassword(c.Request().Context(), req.Password); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, common.MessageResponse{Message: "bookmark password updated"})
}
