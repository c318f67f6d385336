package server

import (
	"github.com/OFFIS-RIT/constellation/backend/internal/server/routes"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func RegisterRoutes(e *echo.Echo) {
	e.GET("/health", routes.HealthHandler)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	apiRoutes := e.Group("/api")

	// Graph routes
	apiRoutes.GET("/graph", routes.GetGraphHandler)
	apiRoutes.POST("/graphs", routes.FetchGraphsHandler)
	apiRoutes.POST("/graph/generate", routes.GenerateGraphHandler)
	apiRoutes.POST("/graph/validate", routes.ValidateGraphHandler)

	// Template routes
	apiRoutes.GET("/templates", routes.GetTemplatesHandler)
}
