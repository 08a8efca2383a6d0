package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
)

// APIVersion represents API version information
type APIVersion struct {
	Version    string     `json:"version"`
	Status     string     `json:"status"` // "active", "deprecated"
	SunsetDate *time.Time `json:"sunset_date,omitempty"`
	Message    string     `json:"message,omitempty"`
}

// VersionMiddleware stamps API responses with version headers
type VersionMiddleware struct {
	supportedVersions map[string]APIVersion
	defaultVersion    string
}

func NewVersionMiddleware(version string) *VersionMiddleware {
	return &VersionMiddleware{
		supportedVersions: map[string]APIVersion{
			version: {
				Version: version,
				Status:  "active",
				Message: "Current stable API version",
			},
		},
		defaultVersion: version,
	}
}

// VersionHeader adds version information to response headers
func (vm *VersionMiddleware) VersionHeader() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			h.Set("X-API-Version", vm.defaultVersion)

			if ver, exists := vm.supportedVersions[vm.defaultVersion]; exists {
				if ver.Status == "deprecated" && ver.SunsetDate != nil {
					h.Set("X-API-Deprecated", "true")
					h.Set("X-API-Sunset", ver.SunsetDate.Format(time.RFC3339))
					h.Set("Warning", "299 vitrine \"This API version is deprecated and will be removed on "+ver.SunsetDate.Format("2006-01-02")+"\"")
				}
				h.Set("X-API-Message", ver.Message)
			}
			c.Set("api_version", vm.defaultVersion)

			return next(c)
		}
	}
}

// Deprecate marks the current version as deprecated until sunset.
func (vm *VersionMiddleware) Deprecate(message string, sunset time.Time) {
	vm.supportedVersions[vm.defaultVersion] = APIVersion{
		Version:    vm.defaultVersion,
		Status:     "deprecated",
		SunsetDate: &sunset,
		Message:    message,
	}
}
