package handlers

import (
	"navhub/internal/middleware"
	"navhub/internal/models"

	"github.com/labstack/echo/v4"
)

// Router holds every handler group and the middleware that guards them.
type Router struct {
	Auth       *AuthHandlers
	Categories *CategoryHandlers
	Links      *LinkHandlers
	Bookmarks  *BookmarkHandlers
	Settings   *SettingsHandlers
	Icons      *IconHandlers
	Health     *HealthHandlers

	Verifier    middleware.TokenVerifier
	AuthLimiter *middleware.RateLimiter
	Audit       *middleware.AuditMiddleware
}

// Register mounts the API under /api and the health checks at the root. Middleware
// is attached per route: echo group middleware would also intercept unknown
// paths under the shared /api prefix.
func (r *Router) Register(e *echo.Echo) {
	e.GET("/health", r.Health.LivenessCheck)
	e.GET("/health/ready", r.Health.ReadinessCheck)

	// Audit wraps the scope check so rejected admin calls are recorded too.
	admin := []echo.MiddlewareFunc{
		r.Audit.AuditRequest(),
		middleware.RequireScope(r.Verifier, models.ScopeAdmin),
	}
	bookmark := []echo.MiddlewareFunc{middleware.RequireScope(r.Verifier, models.ScopeBookmark)}
	guarded := []echo.MiddlewareFunc{r.AuthLimiter.RateLimit()}
	viewer := []echo.MiddlewareFunc{middleware.ViewerAccess(r.Verifier)}

	api := e.Group("/api")

	// Setup and token exchange
	api.POST("/init", r.Auth.Init, guarded...)
	api.GET("/check-init", r.Auth.CheckInit)
	api.POST("/login", r.Auth.Login, guarded...)
	api.GET("/verify-token", r.Auth.VerifyToken, admin...)
	api.POST("/verify-hidden", r.Auth.VerifyHidden, guarded...)
	api.POST("/bookmarks/auth", r.Auth.AuthorizeBookmarks, guarded...)

	// Categories
	api.GET("/categories", r.Categories.ListCategories)
	api.GET("/categories/:id", r.Categories.GetCategory)
	api.POST("/categories", r.Categories.CreateCategory, admin...)
	api.PUT("/categories/reorder", r.Categories.ReorderCategories, admin...)
	api.PUT("/categories/:id", r.Categories.UpdateCategory, admin...)
	api.DELETE("/categories/:id", r.Categories.DeleteCategory, admin...)
	api.GET("/default-category", r.Categories.GetDefaultCategory)
	api.PUT("/default-category", r.Categories.SetDefaultCategory, admin...)

	// Links
	api.GET("/links", r.Links.ListLinks, viewer...)
	api.GET("/links/:id", r.Links.GetLink, viewer...)
	api.POST("/links", r.Links.CreateLink, admin...)
	api.PUT("/links/reorder", r.Links.ReorderLinks, admin...)
	api.PUT("/links/:id", r.Links.UpdateLink, admin...)
	api.DELETE("/links/:id", r.Links.DeleteLink, admin...)

	// Bookmarks
	api.GET("/bookmarks", r.Bookmarks.ListBookmarks, bookmark...)
	api.POST("/bookmarks", r.Bookmarks.AddBookmark, bookmark...)
	api.DELETE("/bookmarks/:id", r.Bookmarks.DeleteBookmark, bookmark...)

	// Settings
	api.GET("/site-settings", r.Settings.GetSiteSettings)
	api.PUT("/site-settings", r.Settings.UpdateSiteSettings, admin...)
	api.GET("/admin-path", r.Settings.GetAdminPath, admin...)
	api.PUT("/admin-path", r.Settings.UpdateAdminPath, admin...)
	api.GET("/security-settings", r.Settings.GetSecuritySettings, admin...)
	api.PUT("/security-settings", r.Settings.UpdateSecuritySettings, admin...)
	api.GET("/admin-account", r.Auth.GetAdminAccount, admin...)
	api.PUT("/admin-account", r.Auth.UpdateAdminAccount, admin...)
	api.PUT("/config/hidden-password", r.Auth.UpdateHiddenPassword, admin...)
	api.PUT("/config/bookmark-password", r.Auth.UpdateBookmarkPassword, admin...)

	// Icons
	api.POST("/icons", r.Icons.UploadIcon, admin...)
	api.GET("/icons/:name", r.Icons.GetIcon)
	api.DELETE("/icons/:name", r.Icons.DeleteIcon, admin...)
}
