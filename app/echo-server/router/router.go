package router

import (
	"admissionAdvisor/internal/rest"

	"github.com/labstack/echo/v4"
)

func SetRecommendationRoutes(api *echo.Group, handler *rest.RecommendationHandler) {
	reco := api.Group("/recommendations")
	reco.GET("", handler.Recommend)
	reco.POST("", handler.Recommend)
	reco.POST("/feedback", handler.Feedback)
	reco.GET("/model", handler.ModelInfo)
	reco.POST("/retrain", handler.Retrain)
}

func SetChatRoutes(api *echo.Group, handler *rest.ChatHandler) {
	chat := api.Group("/chat")
	chat.POST("", handler.Chat)
	chat.GET("/suggestions", handler.Suggestions)

	api.GET("/faqs", handler.ListFAQs)
}

// SetRootRoutes registers the unversioned health and chat paths.
func SetRootRoutes(e *echo.Echo, health *rest.HealthHandler, chat *rest.ChatHandler) {
	e.GET("/health", health.Health)
	e.POST("/chat", chat.Chat)
}
