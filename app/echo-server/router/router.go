package router

import (
	"myMovieRecs/internal/rest"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupRecommendationRoutes(api *echo.Group, handler *rest.RecommendationHandler) {
	recs := api.Group("/recommendations")

	recs.GET("/content/:showId", handler.GetContentRecommendations)
	recs.GET("/:userId", handler.GetUserRecommendations)
}

func SetupHealthRoutes(e *echo.Echo, handler *rest.HealthHandler) {
	e.GET("/health", handler.Health)
}

func SetupMetricsRoutes(e *echo.Echo) {
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}
