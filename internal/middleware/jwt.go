package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/softline/vitrine/internal/common"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// JWTCustomClaims are the claims issued by the storefront's auth server for
// back-office users.
type JWTCustomClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// JWTConfig builds the echo-jwt configuration for admin routes. With a JWKS
// URL keys are fetched and refreshed in the background; otherwise tokens
// are verified with the shared HMAC secret. The returned function stops the
// JWKS refresh.
func JWTConfig(secret, jwksURL string) (echojwt.Config, func(), error) {
	cfg := echojwt.Config{
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(JWTCustomClaims)
		},
		SuccessHandler: func(c echo.Context) {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return
			}
			claims, ok := token.Claims.(*JWTCustomClaims)
			if !ok {
				return
			}
			ctx := common.WithSubject(c.Request().Context(), claims.Subject, claims.Role)
			c.SetRequest(c.Request().WithContext(ctx))
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, "Token inválido")
		},
	}

	if jwksURL != "" {
		jwks, err := keyfunc.Get(jwksURL, keyfunc.Options{
			RefreshInterval:   time.Hour,
			RefreshRateLimit:  5 * time.Minute,
			RefreshTimeout:    10 * time.Second,
			RefreshUnknownKID: true,
			RefreshErrorHandler: func(err error) {
				zap.L().Warn("jwks refresh failed", zap.String("url", jwksURL), zap.Error(err))
			},
		})
		if err != nil {
			return echojwt.Config{}, nil, fmt.Errorf("load jwks: %w", err)
		}
		cfg.KeyFunc = jwks.Keyfunc
		return cfg, jwks.EndBackground, nil
	}

	if secret == "" {
		return echojwt.Config{}, nil, fmt.Errorf("jwt secret or jwks url is required")
	}
	cfg.SigningKey = []byte(secret)
	return cfg, func() {}, nil
}

// AdminAuth returns the middleware chain guarding admin routes.
func AdminAuth(cfg echojwt.Config) []echo.MiddlewareFunc {
	return []echo.MiddlewareFunc{echojwt.WithConfig(cfg), RequireRole("admin")}
}
