// Package server assembles the echo router of the storefront API.
package server

import (
	"github.com/softline/vitrine/internal/handlers"
	"github.com/softline/vitrine/internal/middleware"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/softline/vitrine/docs"
)

const APIVersion = "v1"

// Deps are the handlers and settings the router is built from.
type Deps struct {
	Images   *handlers.ImageHandlers
	Checkout *handlers.CheckoutHandlers
	Health   *handlers.HealthHandlers

	JWT           echojwt.Config
	MaxUploadSize string
	Gatherer      prometheus.Gatherer
}

// NewRouter registers every route of the API on a new echo instance.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Pre(echoMiddleware.RemoveTrailingSlash())
	e.Use(echoMiddleware.RequestID())
	e.Use(middleware.RequestLogger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())

	// Health, metrics and docs (no auth required)
	e.GET("/health", d.Health.HealthCheck)
	e.GET("/health/ready", d.Health.ReadinessCheck)
	gatherer := d.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	versionMiddleware := middleware.NewVersionMiddleware(APIVersion)
	api := e.Group("/api", versionMiddleware.VersionHeader())

	// Storefront routes
	api.GET("/produtos/imagem/:codpro", d.Images.GetImages)
	api.POST("/vendas/pix", d.Checkout.CreatePixCharge)

	// Back-office routes
	admin := api.Group("/admin", middleware.AdminAuth(d.JWT)...)
	admin.Use(middleware.AuditRequest())
	admin.DELETE("/produtos/imagem/:codpro/:caminho", d.Images.DeleteImage)
	admin.POST("/produtos/imagem/:codpro/:caminho", d.Images.UploadImage, echoMiddleware.BodyLimit(d.MaxUploadSize))

	return e
}
