package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/softline/vitrine/internal/common"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AuditRequest logs every admin mutation with the acting subject and the
// route parameters it touched.
func AuditRequest() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			method := c.Request().Method
			if method == http.MethodGet || method == http.MethodHead || method == http.MethodOptions {
				return err
			}

			subject, _ := common.GetSubjectFromContext(c.Request().Context())
			status := c.Response().Status
			var he *echo.HTTPError
			if errors.As(err, &he) {
				status = he.Code
			} else if err != nil {
				status = http.StatusInternalServerError
			}

			fields := []zap.Field{
				zap.String("subject", subject),
				zap.String("action", method+" "+c.Path()),
				zap.Int("status", status),
				zap.Duration("latency", time.Since(start)),
			}
			for _, name := range c.ParamNames() {
				fields = append(fields, zap.String(name, c.Param(name)))
			}
			zap.L().Info("audit", fields...)

			return err
		}
	}
}
