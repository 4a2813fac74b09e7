package middleware

import (
	"errors"
	"fmt"

	"navhub/internal/common"
	"navhub/internal/models"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

const (
	// ClaimsContextKey holds the verified *models.TokenClaims on the echo context.
	ClaimsContextKey = "claims"
	// IncludeHiddenContextKey is true when the viewer may see hidden links.
	IncludeHiddenContextKey = "include_hidden"
)

// TokenVerifier checks a bearer token against one scope.
type TokenVerifier interface {
	VerifyToken(scope models.TokenScope, token, clientIP string) (*models.TokenClaims, error)
}

// RequireScope rejects requests without a valid bearer token of scope. Every
// failure is the same 401 so clients cannot tell why a token was refused.
func RequireScope(verifier TokenVerifier, scope models.TokenScope) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey: ClaimsContextKey,
		ParseTokenFunc: func(c echo.Context, auth string) (interface{}, error) {
			claims, err := verifier.VerifyToken(scope, auth, c.RealIP())
			if err != nil {
				return nil, err
			}
			c.SetRequest(c.Request().WithContext(common.WithClaims(c.Request().Context(), claims)))
			return claims, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			if errors.Is(err, common.ErrUnauthorized) {
				return err
			}
			return fmt.Errorf("%w: %v", common.ErrUnauthorized, err)
		},
	})
}

// ViewerAccess marks whether the request may see hidden links: a valid admin
// bearer token, or show_hidden=1 with a valid hidden_token. Invalid tokens
// only downgrade the viewer to public.
func ViewerAccess(verifier TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(IncludeHiddenContextKey, canSeeHidden(c, verifier))
			return next(c)
		}
	}
}

func canSeeHidden(c echo.Context, verifier TokenVerifier) bool {
	ip := c.RealIP()
	if token := common.BearerToken(c); token != "" {
		if _, err := verifier.VerifyToken(models.ScopeAdmin, token, ip); err == nil {
			return true
		}
	}
	if c.QueryParam("show_hidden") != "1" {
		return false
	}
	token := c.QueryParam("hidden_token")
	if token == "" {
		return false
	}
	_, err := verifier.VerifyToken(models.ScopeHidden, token, ip)
	return err == nil
}

// IncludeHidden reports the flag set by ViewerAccess.
func IncludeHidden(c echo.Context) bool {
	v, _ := c.Get(IncludeHiddenContextKey).(bool)
	return v
}

// ClaimsFrom returns the claims set by RequireScope.
func ClaimsFrom(c echo.Context) (*models.TokenClaims, bool) {
	claims, ok := c.Get(ClaimsContextKey).(*models.TokenClaims)
	return claims, ok
}
