package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"navhub/internal/common"

	"github.com/labstack/echo/v4"
)

// AuditMiddleware records admin mutations as structured log entries.
type AuditMiddleware struct {
	logger *slog.Logger
}

func NewAuditMiddleware(logger *slog.Logger) *AuditMiddleware {
	return &AuditMiddleware{logger: logger.With("component", "audit")}
}

// AuditRequest logs every non-GET request after it has been handled.
func (m *AuditMiddleware) AuditRequest() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)

			method := c.Request().Method
			if method == http.MethodGet || method == http.MethodHead || method == http.MethodOptions {
				return err
			}

			status := c.Response().Status
			if err != nil {
				var he *echo.HTTPError
				if errors.As(err, &he) {
					status = he.Code
				} else {
					status = common.StatusCode(err)
				}
			}

			attrs := []any{
				"method", method,
				"path", c.Path(),
				"uri", c.Request().RequestURI,
				"status", status,
				"ip", c.RealIP(),
			}
			if claims, ok := ClaimsFrom(c); ok {
				attrs = append(attrs, "subject", claims.Subject, "token_id", claims.TokenID)
			}
			if err != nil {
				attrs = append(attrs, "error", err.Error())
			}
			m.logger.InfoContext(c.Request().Context(), "admin action", attrs...)
			return err
		}
	}
}
