package usecase

import (
	"context"
	"log"
	"strings"
	"time"

	authusecase "github.com/gustavorubino/Insta-Replyer-sub002/internal/auth/usecase"
	knowledgedomain "github.com/gustavorubino/Insta-Replyer-sub002/internal/knowledge/domain"
	knowledgerepo "github.com/gustavorubino/Insta-Replyer-sub002/internal/knowledge/repository"
	"github.com/gustavorubino/Insta-Replyer-sub002/internal/message/domain"
	"github.com/gustavorubino/Insta-Replyer-sub002/internal/message/dto"
	"github.com/gustavorubino/Insta-Replyer-sub002/internal/message/repository"
	"github.com/gustavorubino/Insta-Replyer-sub002/internal/prompt"
	settingsdomain "github.com/gustavorubino/Insta-Replyer-sub002/internal/settings/domain"
	settingsusecase "github.com/gustavorubino/Insta-Replyer-sub002/internal/settings/usecase"
	"github.com/gustavorubino/Insta-Replyer-sub002/pkg/ai"
	"github.com/gustavorubino/Insta-Replyer-sub002/pkg/apperr"
	"github.com/gustavorubino/Insta-Replyer-sub002/pkg/instagram"

	"github.com/google/uuid"
)

// similarCorrectionLimit bounds the vector-retrieved corrections placed ahead
// of the recency sample in the prompt.
const similarCorrectionLimit = 5

// Sender is the slice of the Instagram client the workflow needs to deliver
// responses.
type Sender interface {
	SendMessage(ctx context.Context, accessToken, recipientID, text string) error
	SendCommentReply(ctx context.Context, accessToken, commentID, text string) error
}

// AccountResolver maps a local user to their decrypted Instagram account.
type AccountResolver interface {
	InstagramAccount(userID string) (*authusecase.InstagramAccount, error)
}

// WebhookUserLookup maps the Instagram account id a webhook entry targets to
// the local user id, empty when no user has that account connected.
type WebhookUserLookup func(igUserID string) (string, error)

// CorrectionIndex is the optional vector index over manual corrections.
type CorrectionIndex interface {
	SimilarCorrections(ctx context.Context, userID, query string, limit int) ([]string, error)
	UpsertCorrectionEmbedding(ctx context.Context, correctionID, userID, question, answer string) error
}

// Notifier pushes workflow events to the operator's devices and open
// dashboard connections.
type Notifier interface {
	NotifyPending(ctx context.Context, userID string, message *domain.InboundMessage)
	NotifyAutoSent(ctx context.Context, userID string, message *domain.InboundMessage)
}

type messageUsecase struct {
	messageRepo     repository.MessageRepository
	draftRepo       repository.DraftRepository
	correctionRepo  knowledgerepo.CorrectionRepository
	mediaRepo       knowledgerepo.MediaRepository
	interactionRepo knowledgerepo.InteractionRepository
	guidelineRepo   knowledgerepo.GuidelineRepository
	settingsUsecase settingsusecase.SettingsUsecase
	responder       ai.Responder
	sender          Sender
	accounts        AccountResolver
	lookupUser      WebhookUserLookup
	index           CorrectionIndex // nil when vector search is not configured
	notifier        Notifier        // nil in tests
	aiTimeout       time.Duration
	sendTimeout     time.Duration
}

func NewMessageUsecase(
	messageRepo repository.MessageRepository,
	draftRepo repository.DraftRepository,
	correctionRepo knowledgerepo.CorrectionRepository,
	mediaRepo knowledgerepo.MediaRepository,
	interactionRepo knowledgerepo.InteractionRepository,
	guidelineRepo knowledgerepo.GuidelineRepository,
	settingsUsecase settingsusecase.SettingsUsecase,
	responder ai.Responder,
	sender Sender,
	accounts AccountResolver,
	lookupUser WebhookUserLookup,
	index CorrectionIndex,
	notifier Notifier,
	aiTimeout time.Duration,
) MessageUsecase {
	return &messageUsecase{
		messageRepo:     messageRepo,
		draftRepo:       draftRepo,
		correctionRepo:  correctionRepo,
		mediaRepo:       mediaRepo,
		interactionRepo: interactionRepo,
		guidelineRepo:   guidelineRepo,
		settingsUsecase: settingsUsecase,
		responder:       responder,
		sender:          sender,
		accounts:        accounts,
		lookupUser:      lookupUser,
		index:           index,
		notifier:        notifier,
		aiTimeout:       aiTimeout,
		sendTimeout:     aiTimeout,
	}
}

func (u *messageUsecase) HandleWebhook(ctx context.Context, payload *instagram.WebhookPayload) error {
	for _, entry := range payload.Entry {
		userID, err := u.lookupUser(entry.ID)
		if err != nil {
			return err
		}
		if userID == "" {
			log.Printf("[Webhook] No connected account for entry %s, skipping", entry.ID)
			continue
		}

		for _, m := range entry.Messaging {
			// Echoes of our own outbound messages come back with the account
			// as sender.
			if m.Sender.ID == entry.ID {
				continue
			}
			message := &domain.InboundMessage{
				UserID:     userID,
				ExternalID: m.Message.MID,
				Type:       domain.MessageTypeDM,
				SenderID:   m.Sender.ID,
				Content:    m.Message.Text,
			}
			if len(m.Message.Attachments) > 0 {
				message.MediaURL = m.Message.Attachments[0].Payload.URL
			}
			if _, err := u.Ingest(ctx, userID, message); err != nil {
				log.Printf("[Webhook] Failed to ingest DM %s: %v", m.Message.MID, err)
			}
		}

		for _, change := range entry.Changes {
			if change.Field != "comments" {
				continue
			}
			if change.Value.From.ID == entry.ID {
				continue
			}
			message := &domain.InboundMessage{
				UserID:          userID,
				ExternalID:      change.Value.ID,
				Type:            domain.MessageTypeComment,
				SenderID:        change.Value.From.ID,
				SenderUsername:  change.Value.From.Username,
				Content:         change.Value.Text,
				PostID:          change.Value.Media.ID,
				ParentCommentID: change.Value.ParentID,
			}
			if _, err := u.Ingest(ctx, userID, message); err != nil {
				log.Printf("[Webhook] Failed to ingest comment %s: %v", change.Value.ID, err)
			}
		}
	}
	return nil
}

func (u *messageUsecase) Ingest(ctx context.Context, userID string, message *domain.InboundMessage) (*domain.InboundMessage, error) {
	message.UserID = userID
	if strings.TrimSpace(message.ExternalID) == "" {
		return nil, apperr.New(apperr.CodeValidation, "message has no external id")
	}
	if !message.Type.Valid() {
		return nil, apperr.New(apperr.CodeValidation, "unknown message type")
	}

	inserted, err := u.messageRepo.Insert(message)
	if err != nil {
		return nil, err
	}
	if !inserted {
		return nil, nil
	}

	u.generateAndRoute(ctx, message)
	return message, nil
}

// generateAndRoute drafts a reply and dispatches it. A drafting failure
// leaves the message pending without a draft so the operator can regenerate.
func (u *messageUsecase) generateAndRoute(ctx context.Context, message *domain.InboundMessage) {
	systemPrompt, eff, err := u.buildPrompt(ctx, message.UserID, message.Content)
	if err != nil {
		log.Printf("[Messages] Failed to compose prompt for %s: %v", message.ID, err)
		u.notifyPending(ctx, message)
		return
	}

	reply, err := u.generate(ctx, systemPrompt, message.Content)
	if err != nil {
		log.Printf("[Messages] Drafting failed for %s: %v", message.ID, err)
		u.notifyPending(ctx, message)
		return
	}

	draft := &domain.DraftResponse{
		ID:                uuid.New().String(),
		MessageID:         message.ID,
		SuggestedResponse: reply.Text,
		ConfidenceScore:   reply.Confidence,
		CreatedAt:         time.Now(),
	}
	if err := u.draftRepo.Create(draft); err != nil {
		log.Printf("[Messages] Failed to store draft for %s: %v", message.ID, err)
		u.notifyPending(ctx, message)
		return
	}
	message.Draft = draft

	if Route(eff.OperationMode, eff.ConfidenceThreshold, reply.Confidence) == DispositionAutoSend {
		if err := u.autoSend(ctx, message, draft); err == nil {
			return
		}
		// Falls back to the approval queue; the message is still pending.
	}
	u.notifyPending(ctx, message)
}

func (u *messageUsecase) autoSend(ctx context.Context, message *domain.InboundMessage, draft *domain.DraftResponse) error {
	if err := u.send(ctx, message.UserID, message, draft.SuggestedResponse); err != nil {
		log.Printf("[Messages] Auto-send failed for %s, queued for review: %v", message.ID, err)
		return err
	}

	flipped, err := u.messageRepo.UpdateStatusIfPending(message.ID, domain.StatusAutoSent)
	if err != nil || !flipped {
		return err
	}
	if err := u.draftRepo.Finalize(message.ID, draft.SuggestedResponse, false); err != nil {
		return err
	}
	message.Status = domain.StatusAutoSent
	log.Printf("[Messages] Auto-sent reply to %s (confidence %.2f)", message.ID, draft.ConfidenceScore)
	if u.notifier != nil {
		u.notifier.NotifyAutoSent(ctx, message.UserID, message)
	}
	return nil
}

func (u *messageUsecase) Get(userID, id string) (*domain.InboundMessage, error) {
	message, err := u.messageRepo.FindByID(userID, id)
	if err != nil {
		return nil, err
	}
	if message == nil {
		return nil, apperr.New(apperr.CodeNotFound, "message not found")
	}
	return message, nil
}

func (u *messageUsecase) List(userID, status string, limit, offset int) ([]*domain.InboundMessage, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	if status == "" {
		return u.messageRepo.List(userID, limit, offset)
	}
	st := domain.MessageStatus(status)
	if !st.Valid() {
		return nil, apperr.New(apperr.CodeValidation, "unknown status filter")
	}
	return u.messageRepo.ListByStatus(userID, st, limit, offset)
}

func (u *messageUsecase) Approve(ctx context.Context, userID, messageID string, req *dto.ApproveRequest) (*dto.ApproveResponse, error) {
	message, err := u.Get(userID, messageID)
	if err != nil {
		return nil, err
	}

	flipped, err := u.messageRepo.UpdateStatusIfPending(messageID, domain.StatusApproved)
	if err != nil {
		return nil, err
	}
	if !flipped {
		return nil, apperr.New(apperr.CodeAlreadyProcessed, "message was already resolved")
	}

	if message.Draft == nil {
		// AI drafting failed at ingest; the operator wrote the response.
		if err := u.draftRepo.Create(&domain.DraftResponse{MessageID: messageID}); err != nil {
			return nil, err
		}
	}
	if err := u.draftRepo.Finalize(messageID, req.Response, req.WasEdited); err != nil {
		return nil, err
	}

	if req.WasEdited {
		u.recordCorrection(ctx, userID, message.Content, req.Response)
	}

	resp := &dto.ApproveResponse{Status: string(domain.StatusApproved)}
	if err := u.send(ctx, userID, message, req.Response); err != nil {
		log.Printf("[Messages] Send after approval failed for %s: %v", messageID, err)
		resp.SendError = err.Error()
	}
	return resp, nil
}

func (u *messageUsecase) Reject(userID, messageID string) error {
	if _, err := u.Get(userID, messageID); err != nil {
		return err
	}

	flipped, err := u.messageRepo.UpdateStatusIfPending(messageID, domain.StatusRejected)
	if err != nil {
		return err
	}
	if !flipped {
		return apperr.New(apperr.CodeAlreadyProcessed, "message was already resolved")
	}
	return u.draftRepo.MarkRejected(messageID)
}

func (u *messageUsecase) Regenerate(ctx context.Context, userID, messageID string) (*domain.DraftResponse, error) {
	message, err := u.Get(userID, messageID)
	if err != nil {
		return nil, err
	}
	if message.Status.Terminal() {
		return nil, apperr.New(apperr.CodeAlreadyProcessed, "message was already resolved")
	}

	systemPrompt, _, err := u.buildPrompt(ctx, userID, message.Content)
	if err != nil {
		return nil, err
	}
	reply, err := u.generate(ctx, systemPrompt, message.Content)
	if err != nil {
		return nil, err
	}

	if message.Draft == nil {
		draft := &domain.DraftResponse{
			MessageID:         messageID,
			SuggestedResponse: reply.Text,
			ConfidenceScore:   reply.Confidence,
		}
		if err := u.draftRepo.Create(draft); err != nil {
			return nil, err
		}
		return draft, nil
	}

	if err := u.draftRepo.UpdateSuggestion(messageID, reply.Text, reply.Confidence); err != nil {
		return nil, err
	}
	return u.draftRepo.FindByMessageID(messageID)
}

func (u *messageUsecase) Feedback(userID, messageID, feedback string) error {
	if _, err := u.Get(userID, messageID); err != nil {
		return err
	}
	return u.draftRepo.SetFeedback(messageID, feedback)
}

func (u *messageUsecase) DeleteProcessed(userID string, before time.Time) (int64, error) {
	deleted, err := u.messageRepo.DeleteProcessedBefore(userID, before)
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		log.Printf("[Messages] Deleted %d processed messages for user %s", deleted, userID)
	}
	return deleted, nil
}

func (u *messageUsecase) SimulateAsk(ctx context.Context, userID, question string) (*dto.SimulatorAskResponse, error) {
	systemPrompt, _, err := u.buildPrompt(ctx, userID, question)
	if err != nil {
		return nil, err
	}
	reply, err := u.generate(ctx, systemPrompt, question)
	if err != nil {
		return nil, err
	}
	return &dto.SimulatorAskResponse{Response: reply.Text, Confidence: reply.Confidence}, nil
}

// buildPrompt assembles the live prompt for one user and question.
func (u *messageUsecase) buildPrompt(ctx context.Context, userID, question string) (string, settingsdomain.EffectiveSettings, error) {
	eff, err := u.settingsUsecase.Effective(userID)
	if err != nil {
		return "", eff, err
	}

	guidelines, err := u.guidelineRepo.ActiveByUser(userID)
	if err != nil {
		return "", eff, err
	}
	recent, err := u.correctionRepo.Recent(userID, prompt.CorrectionSample)
	if err != nil {
		return "", eff, err
	}
	media, err := u.mediaRepo.Recent(userID, prompt.MediaSample)
	if err != nil {
		return "", eff, err
	}
	interactions, err := u.interactionRepo.Recent(userID, prompt.InteractionSample)
	if err != nil {
		return "", eff, err
	}

	var similar []*knowledgedomain.ManualCorrection
	if u.index != nil && strings.TrimSpace(question) != "" {
		ids, err := u.index.SimilarCorrections(ctx, userID, question, similarCorrectionLimit)
		if err != nil {
			log.Printf("[Messages] Similarity lookup failed for user %s: %v", userID, err)
		} else if len(ids) > 0 {
			similar, err = u.correctionRepo.FindByIDs(userID, ids)
			if err != nil {
				return "", eff, err
			}
		}
	}

	composed := prompt.Compose(prompt.ComposeInput{
		SystemPrompt:       eff.SystemPrompt,
		Tone:               eff.AITone,
		Guidelines:         guidelines,
		SimilarCorrections: similar,
		RecentCorrections:  recent,
		Media:              media,
		Interactions:       interactions,
	})
	return composed, eff, nil
}

func (u *messageUsecase) generate(ctx context.Context, systemPrompt, message string) (*ai.Reply, error) {
	ctx, cancel := context.WithTimeout(ctx, u.aiTimeout)
	defer cancel()

	reply, err := u.responder.GenerateReply(ctx, systemPrompt, message)
	if err != nil {
		return nil, err
	}
	if reply.Confidence < 0 {
		reply.Confidence = 0
	}
	if reply.Confidence > 1 {
		reply.Confidence = 1
	}
	return reply, nil
}

// send delivers text to the message's origin: a DM back to the sender or a
// reply under the comment.
func (u *messageUsecase) send(ctx context.Context, userID string, message *domain.InboundMessage, text string) error {
	account, err := u.accounts.InstagramAccount(userID)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, u.sendTimeout)
	defer cancel()

	if message.Type == domain.MessageTypeComment {
		return u.sender.SendCommentReply(ctx, account.AccessToken, message.ExternalID, text)
	}
	return u.sender.SendMessage(ctx, account.AccessToken, message.SenderID, text)
}

func (u *messageUsecase) recordCorrection(ctx context.Context, userID, question, answer string) {
	correction := &knowledgedomain.ManualCorrection{
		UserID:   userID,
		Question: question,
		Answer:   answer,
		Source:   knowledgedomain.SourceApprovalQueue,
	}
	if err := u.correctionRepo.Add(correction); err != nil {
		log.Printf("[Messages] Failed to record correction for user %s: %v", userID, err)
		return
	}
	if u.index != nil {
		if err := u.index.UpsertCorrectionEmbedding(ctx, correction.ID, userID, question, answer); err != nil {
			log.Printf("[Messages] Failed to index correction %s: %v", correction.ID, err)
		}
	}
}

func (u *messageUsecase) notifyPending(ctx context.Context, message *domain.InboundMessage) {
	if u.notifier != nil {
		u.notifier.NotifyPending(ctx, message.UserID, message)
	}
}
