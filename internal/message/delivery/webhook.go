package delivery

import (
	"log"
	"net/http"

	"github.com/gustavorubino/Insta-Replyer-sub002/internal/message/usecase"
	"github.com/gustavorubino/Insta-Replyer-sub002/pkg/instagram"

	"github.com/gin-gonic/gin"
)

// WebhookHandler receives Instagram webhook deliveries. The subscription
// handshake (GET) echoes the challenge when the verify token matches.
type WebhookHandler struct {
	messageUsecase usecase.MessageUsecase
	verifyToken    string
}

func NewWebhookHandler(messageUsecase usecase.MessageUsecase, verifyToken string) *WebhookHandler {
	return &WebhookHandler{
		messageUsecase: messageUsecase,
		verifyToken:    verifyToken,
	}
}

func (h *WebhookHandler) Verify(c *gin.Context) {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if mode == "subscribe" && token == h.verifyToken {
		c.String(http.StatusOK, challenge)
		return
	}
	c.Status(http.StatusForbidden)
}

func (h *WebhookHandler) Receive(c *gin.Context) {
	var payload instagram.WebhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.messageUsecase.HandleWebhook(c.Request.Context(), &payload); err != nil {
		// The platform retries on non-2xx; log and acknowledge so a single
		// bad entry cannot wedge the delivery.
		log.Printf("[Webhook] Processing error: %v", err)
	}
	c.JSON(http.StatusOK, gin.H{"status": "received"})
}
