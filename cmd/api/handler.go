package api

import (
	authDelivery "github.com/gustavorubino/Insta-Replyer-sub002/internal/auth/delivery"
	authUsecase "github.com/gustavorubino/Insta-Replyer-sub002/internal/auth/usecase"
	knowledgeDelivery "github.com/gustavorubino/Insta-Replyer-sub002/internal/knowledge/delivery"
	messageDelivery "github.com/gustavorubino/Insta-Replyer-sub002/internal/message/delivery"
	settingsDelivery "github.com/gustavorubino/Insta-Replyer-sub002/internal/settings/delivery"
	syncDelivery "github.com/gustavorubino/Insta-Replyer-sub002/internal/syncer/delivery"
	"github.com/gustavorubino/Insta-Replyer-sub002/pkg/config"
	"github.com/gustavorubino/Insta-Replyer-sub002/pkg/sse"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	authUsecase authUsecase.AuthUsecase
	sseManager  *sse.Manager
	config      *config.Config

	authHandler      *authDelivery.AuthHandler
	messageHandler   *messageDelivery.MessageHandler
	webhookHandler   *messageDelivery.WebhookHandler
	knowledgeHandler *knowledgeDelivery.KnowledgeHandler
	settingsHandler  *settingsDelivery.SettingsHandler
	syncHandler      *syncDelivery.SyncHandler
}

func NewHandler(
	authUc authUsecase.AuthUsecase,
	sseManager *sse.Manager,
	cfg *config.Config,
	authHandler *authDelivery.AuthHandler,
	messageHandler *messageDelivery.MessageHandler,
	webhookHandler *messageDelivery.WebhookHandler,
	knowledgeHandler *knowledgeDelivery.KnowledgeHandler,
	settingsHandler *settingsDelivery.SettingsHandler,
	syncHandler *syncDelivery.SyncHandler,
) *Handler {
	return &Handler{
		authUsecase:      authUc,
		sseManager:       sseManager,
		config:           cfg,
		authHandler:      authHandler,
		messageHandler:   messageHandler,
		webhookHandler:   webhookHandler,
		knowledgeHandler: knowledgeHandler,
		settingsHandler:  settingsHandler,
		syncHandler:      syncHandler,
	}
}

func (h *Handler) Start(addr string) error {
	gin.SetMode(gin.ReleaseMode)
	r := gin.Default()

	// CORS middleware
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	SetupRoutes(r, h)

	return r.Run(addr)
}
