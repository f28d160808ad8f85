package usecase

import (
	"context"
	"log"

	authrepo "github.com/gustavorubino/Insta-Replyer-sub002/internal/auth/repository"
	"github.com/gustavorubino/Insta-Replyer-sub002/internal/message/domain"
	"github.com/gustavorubino/Insta-Replyer-sub002/pkg/fcm"
	"github.com/gustavorubino/Insta-Replyer-sub002/pkg/sse"
)

const previewLength = 80

// workflowNotifier fans workflow events out to the operator's registered
// devices (FCM) and open dashboard streams (SSE). Both channels are best
// effort.
type workflowNotifier struct {
	fcmRepo    authrepo.FCMTokenRepository
	fcmClient  *fcm.Client  // nil when push is not configured
	sseManager *sse.Manager // nil in tests
}

func NewWorkflowNotifier(fcmRepo authrepo.FCMTokenRepository, fcmClient *fcm.Client, sseManager *sse.Manager) Notifier {
	return &workflowNotifier{
		fcmRepo:    fcmRepo,
		fcmClient:  fcmClient,
		sseManager: sseManager,
	}
}

func (n *workflowNotifier) NotifyPending(ctx context.Context, userID string, message *domain.InboundMessage) {
	if n.sseManager != nil {
		n.sseManager.SendToUser(userID, "message_pending", message)
	}
	n.push(ctx, userID, message, "New message awaiting review")
}

func (n *workflowNotifier) NotifyAutoSent(ctx context.Context, userID string, message *domain.InboundMessage) {
	if n.sseManager != nil {
		n.sseManager.SendToUser(userID, "message_auto_sent", message)
	}
}

func (n *workflowNotifier) push(ctx context.Context, userID string, message *domain.InboundMessage, title string) {
	if n.fcmClient == nil {
		return
	}

	tokens, err := n.fcmRepo.TokensForUser(userID)
	if err != nil {
		log.Printf("[Notifier] Failed to load FCM tokens for user %s: %v", userID, err)
		return
	}
	if len(tokens) == 0 {
		return
	}

	tokenStrings := make([]string, len(tokens))
	for i, t := range tokens {
		tokenStrings[i] = t.Token
	}

	body := message.Content
	if runes := []rune(body); len(runes) > previewLength {
		body = string(runes[:previewLength]) + "..."
	}
	if message.SenderUsername != "" {
		body = "@" + message.SenderUsername + ": " + body
	}

	failed, err := n.fcmClient.SendToDevices(ctx, tokenStrings, fcm.NotificationData{
		Title: title,
		Body:  body,
		Data: map[string]string{
			"message_id": message.ID,
			"type":       string(message.Type),
		},
	})
	if err != nil {
		log.Printf("[Notifier] Push failed for user %s: %v", userID, err)
		return
	}
	for _, token := range failed {
		if err := n.fcmRepo.Remove(token); err != nil {
			log.Printf("[Notifier] Failed to prune stale FCM token: %v", err)
		}
	}
}
