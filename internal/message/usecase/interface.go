package usecase

import (
	"context"
	"time"

	"github.com/gustavorubino/Insta-Replyer-sub002/internal/message/domain"
	"github.com/gustavorubino/Insta-Replyer-sub002/internal/message/dto"
	"github.com/gustavorubino/Insta-Replyer-sub002/pkg/instagram"
)

// MessageUsecase is the approval workflow: ingestion, drafting, routing and
// the pending-queue dispositions.
type MessageUsecase interface {
	// HandleWebhook normalizes a webhook delivery into inbound messages and
	// runs the drafting pipeline for each new one. Redeliveries are ignored.
	HandleWebhook(ctx context.Context, payload *instagram.WebhookPayload) error
	// Ingest records one inbound message and drafts a reply for it. Returns
	// nil when the external id was already seen.
	Ingest(ctx context.Context, userID string, message *domain.InboundMessage) (*domain.InboundMessage, error)

	Get(userID, id string) (*domain.InboundMessage, error)
	List(userID, status string, limit, offset int) ([]*domain.InboundMessage, error)

	// Approve resolves a pending message and sends the response. The approval
	// persists even when the outbound send fails; the send error is reported
	// in the result.
	Approve(ctx context.Context, userID, messageID string, req *dto.ApproveRequest) (*dto.ApproveResponse, error)
	Reject(userID, messageID string) error
	// Regenerate re-drafts the suggestion. The existing draft is kept intact
	// when generation fails.
	Regenerate(ctx context.Context, userID, messageID string) (*domain.DraftResponse, error)
	Feedback(userID, messageID, feedback string) error

	// DeleteProcessed bulk-deletes terminal-state messages older than before.
	DeleteProcessed(userID string, before time.Time) (int64, error)

	// SimulateAsk drafts a reply to a hypothetical question without
	// persisting a message or touching the queue.
	SimulateAsk(ctx context.Context, userID, question string) (*dto.SimulatorAskResponse, error)
}
