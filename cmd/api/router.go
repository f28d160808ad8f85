package api

import (
	"net/http"

	"github.com/gustavorubino/Insta-Replyer-sub002/internal/auth/delivery"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, h *Handler) {
	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// SSE endpoint
		api.GET("/events", delivery.AuthMiddleware(h.authUsecase), func(c *gin.Context) {
			userID := c.GetString("userID")
			h.sseManager.ServeHTTP(c, userID)
		})

		// Webhook endpoints (verified by token, not by JWT)
		webhooks := api.Group("/webhooks")
		{
			webhooks.GET("/instagram", h.webhookHandler.Verify)
			webhooks.POST("/instagram", h.webhookHandler.Receive)
		}

		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", h.authHandler.Register)
			auth.POST("/login", h.authHandler.Login)
			auth.POST("/refresh", h.authHandler.RefreshToken)
			auth.POST("/logout", h.authHandler.Logout)
			auth.GET("/me", delivery.AuthMiddleware(h.authUsecase), h.authHandler.Me)
			auth.POST("/instagram/connect", delivery.AuthMiddleware(h.authUsecase), h.authHandler.ConnectInstagram)
			auth.DELETE("/instagram", delivery.AuthMiddleware(h.authUsecase), h.authHandler.DisconnectInstagram)
		}

		// FCM routes (protected)
		fcm := api.Group("/fcm")
		fcm.Use(delivery.AuthMiddleware(h.authUsecase))
		{
			fcm.POST("/register", h.authHandler.RegisterFCMToken)
			fcm.DELETE("/:token", h.authHandler.UnregisterFCMToken)
		}

		// Approval queue routes (protected)
		messages := api.Group("/messages")
		messages.Use(delivery.AuthMiddleware(h.authUsecase))
		{
			messages.GET("", h.messageHandler.List)
			messages.DELETE("/processed", h.messageHandler.DeleteProcessed)
			messages.GET("/:id", h.messageHandler.Get)
			messages.POST("/:id/approve", h.messageHandler.Approve)
			messages.POST("/:id/reject", h.messageHandler.Reject)
			messages.POST("/:id/regenerate", h.messageHandler.Regenerate)
			messages.POST("/:id/feedback", h.messageHandler.Feedback)
		}

		// Sync (protected)
		api.POST("/sync", delivery.AuthMiddleware(h.authUsecase), h.syncHandler.Sync)

		// Knowledge store routes (protected)
		knowledge := api.Group("/knowledge")
		knowledge.Use(delivery.AuthMiddleware(h.authUsecase))
		{
			knowledge.GET("/corrections", h.knowledgeHandler.ListCorrections)
			knowledge.POST("/corrections", h.knowledgeHandler.AddCorrection)
			knowledge.DELETE("/corrections/:id", h.knowledgeHandler.RemoveCorrection)

			knowledge.GET("/media", h.knowledgeHandler.ListMedia)
			knowledge.DELETE("/media/:id", h.knowledgeHandler.RemoveMedia)

			knowledge.GET("/interactions", h.knowledgeHandler.ListInteractions)
			knowledge.DELETE("/interactions/:id", h.knowledgeHandler.RemoveInteraction)

			knowledge.GET("/guidelines", h.knowledgeHandler.ListGuidelines)
			knowledge.POST("/guidelines", h.knowledgeHandler.CreateGuideline)
			knowledge.PUT("/guidelines/:id", h.knowledgeHandler.UpdateGuideline)
			knowledge.DELETE("/guidelines/:id", h.knowledgeHandler.RemoveGuideline)
		}

		// Personality generation (protected)
		api.POST("/personality/generate", delivery.AuthMiddleware(h.authUsecase), h.knowledgeHandler.GeneratePersona)

		// Simulator routes (protected)
		simulator := api.Group("/simulator")
		simulator.Use(delivery.AuthMiddleware(h.authUsecase))
		{
			simulator.POST("/ask", h.messageHandler.SimulatorAsk)
			simulator.POST("/correct", h.messageHandler.SimulatorCorrect)
		}

		// Settings routes (protected, plus runtime Ollama configuration)
		settings := api.Group("/settings")
		{
			settings.GET("", delivery.AuthMiddleware(h.authUsecase), h.settingsHandler.GetUserSettings)
			settings.PUT("", delivery.AuthMiddleware(h.authUsecase), h.settingsHandler.UpdateUserSettings)
			settings.GET("/global", delivery.AuthMiddleware(h.authUsecase), h.settingsHandler.GetGlobalSettings)
			settings.PUT("/global", delivery.AuthMiddleware(h.authUsecase), h.settingsHandler.UpdateGlobalSettings)

			settings.GET("/ollama", GetOllamaSettings)
			settings.PUT("/ollama", UpdateOllamaSettings)
			settings.POST("/ollama/test", TestOllamaConnection)
		}
	}
}
