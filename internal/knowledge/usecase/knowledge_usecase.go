package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gustavorubino/Insta-Replyer-sub002/internal/knowledge/domain"
	"github.com/gustavorubino/Insta-Replyer-sub002/internal/knowledge/dto"
	"github.com/gustavorubino/Insta-Replyer-sub002/internal/knowledge/repository"
	settingsdomain "github.com/gustavorubino/Insta-Replyer-sub002/internal/settings/domain"
	settingsrepo "github.com/gustavorubino/Insta-Replyer-sub002/internal/settings/repository"
	"github.com/gustavorubino/Insta-Replyer-sub002/pkg/ai"
	"github.com/gustavorubino/Insta-Replyer-sub002/pkg/apperr"
	"github.com/gustavorubino/Insta-Replyer-sub002/pkg/chroma"

	"github.com/google/uuid"
)

const (
	personaMinInteractions   = 5
	personaMinCaptionedMedia = 3
	personaSampleSize        = 20
)

type knowledgeUsecase struct {
	correctionRepo  repository.CorrectionRepository
	mediaRepo       repository.MediaRepository
	interactionRepo repository.InteractionRepository
	guidelineRepo   repository.GuidelineRepository
	settingsRepo    settingsrepo.SettingsRepository
	responder       ai.Responder
	chromaClient    *chroma.ChromaClient // nil when vector search is not configured
	aiTimeout       time.Duration
}

func NewKnowledgeUsecase(
	correctionRepo repository.CorrectionRepository,
	mediaRepo repository.MediaRepository,
	interactionRepo repository.InteractionRepository,
	guidelineRepo repository.GuidelineRepository,
	settingsRepo settingsrepo.SettingsRepository,
	responder ai.Responder,
	chromaClient *chroma.ChromaClient,
	aiTimeout time.Duration,
) KnowledgeUsecase {
	return &knowledgeUsecase{
		correctionRepo:  correctionRepo,
		mediaRepo:       mediaRepo,
		interactionRepo: interactionRepo,
		guidelineRepo:   guidelineRepo,
		settingsRepo:    settingsRepo,
		responder:       responder,
		chromaClient:    chromaClient,
		aiTimeout:       aiTimeout,
	}
}

func (u *knowledgeUsecase) AddCorrection(ctx context.Context, userID string, req *dto.AddCorrectionRequest, source domain.CorrectionSource) (*domain.ManualCorrection, error) {
	correction := &domain.ManualCorrection{
		ID:        uuid.New().String(),
		UserID:    userID,
		Question:  strings.TrimSpace(req.Question),
		Answer:    strings.TrimSpace(req.Answer),
		Source:    source,
		CreatedAt: time.Now(),
	}
	if correction.Question == "" || correction.Answer == "" {
		return nil, apperr.New(apperr.CodeValidation, "question and answer must not be empty")
	}

	if err := u.correctionRepo.Add(correction); err != nil {
		return nil, err
	}

	// Indexing is best effort; the correction is already durable.
	if u.chromaClient != nil {
		if err := u.chromaClient.UpsertCorrectionEmbedding(ctx, correction.ID, userID, correction.Question, correction.Answer); err != nil {
			log.Printf("[Knowledge] Failed to index correction %s: %v", correction.ID, err)
		}
	}

	return correction, nil
}

func (u *knowledgeUsecase) RemoveCorrection(ctx context.Context, userID, id string) error {
	if err := u.correctionRepo.Remove(userID, id); err != nil {
		return err
	}
	if u.chromaClient != nil {
		if err := u.chromaClient.DeleteCorrectionEmbedding(ctx, id); err != nil {
			log.Printf("[Knowledge] Failed to remove correction %s from index: %v", id, err)
		}
	}
	return nil
}

func (u *knowledgeUsecase) ListCorrections(userID string) ([]*domain.ManualCorrection, error) {
	return u.correctionRepo.ListByUser(userID)
}

func (u *knowledgeUsecase) ListMedia(userID string) ([]*domain.MediaEntry, error) {
	return u.mediaRepo.ListByUser(userID)
}

func (u *knowledgeUsecase) RemoveMedia(userID, id string) error {
	return u.mediaRepo.Remove(userID, id)
}

func (u *knowledgeUsecase) ListInteractions(userID string) ([]*domain.InteractionEntry, error) {
	return u.interactionRepo.ListByUser(userID)
}

func (u *knowledgeUsecase) RemoveInteraction(userID, id string) error {
	return u.interactionRepo.Remove(userID, id)
}

func (u *knowledgeUsecase) CreateGuideline(userID string, req *dto.CreateGuidelineRequest) (*domain.Guideline, error) {
	priority := req.Priority
	if priority == 0 {
		priority = 3
	}
	if priority < 1 || priority > 5 {
		return nil, apperr.New(apperr.CodeValidation, "priority must be between 1 and 5")
	}

	guideline := &domain.Guideline{
		ID:        uuid.New().String(),
		UserID:    userID,
		Rule:      strings.TrimSpace(req.Rule),
		Priority:  priority,
		Category:  req.Category,
		IsActive:  true,
		CreatedAt: time.Now(),
	}
	if guideline.Rule == "" {
		return nil, apperr.New(apperr.CodeValidation, "rule must not be empty")
	}
	if req.IsActive != nil {
		guideline.IsActive = *req.IsActive
	}

	if err := u.guidelineRepo.Create(guideline); err != nil {
		return nil, err
	}
	return guideline, nil
}

func (u *knowledgeUsecase) UpdateGuideline(userID, id string, req *dto.UpdateGuidelineRequest) (*domain.Guideline, error) {
	guideline, err := u.guidelineRepo.FindByID(userID, id)
	if err != nil {
		return nil, err
	}
	if guideline == nil {
		return nil, apperr.New(apperr.CodeNotFound, "guideline not found")
	}

	if req.Rule != nil {
		rule := strings.TrimSpace(*req.Rule)
		if rule == "" {
			return nil, apperr.New(apperr.CodeValidation, "rule must not be empty")
		}
		guideline.Rule = rule
	}
	if req.Priority != nil {
		if *req.Priority < 1 || *req.Priority > 5 {
			return nil, apperr.New(apperr.CodeValidation, "priority must be between 1 and 5")
		}
		guideline.Priority = *req.Priority
	}
	if req.Category != nil {
		guideline.Category = *req.Category
	}
	if req.IsActive != nil {
		guideline.IsActive = *req.IsActive
	}

	if err := u.guidelineRepo.Update(guideline); err != nil {
		return nil, err
	}
	return guideline, nil
}

func (u *knowledgeUsecase) RemoveGuideline(userID, id string) error {
	return u.guidelineRepo.Remove(userID, id)
}

func (u *knowledgeUsecase) ListGuidelines(userID string) ([]*domain.Guideline, error) {
	return u.guidelineRepo.ListByUser(userID)
}

func (u *knowledgeUsecase) GeneratePersona(ctx context.Context, userID string) (string, error) {
	interactions, err := u.interactionRepo.Recent(userID, personaSampleSize)
	if err != nil {
		return "", err
	}
	media, err := u.mediaRepo.Recent(userID, domain.MediaEntryCap)
	if err != nil {
		return "", err
	}

	var captioned []*domain.MediaEntry
	for _, m := range media {
		if strings.TrimSpace(m.Caption) != "" {
			captioned = append(captioned, m)
		}
	}

	if len(interactions) < personaMinInteractions && len(captioned) < personaMinCaptionedMedia {
		return "", apperr.New(apperr.CodeInsufficientData,
			fmt.Sprintf("need at least %d interactions or %d captioned posts to analyze writing style", personaMinInteractions, personaMinCaptionedMedia))
	}

	prompt := buildPersonaPrompt(interactions, captioned)

	ctx, cancel := context.WithTimeout(ctx, u.aiTimeout)
	defer cancel()

	persona, err := u.responder.GeneratePersona(ctx, prompt)
	if err != nil {
		return "", err
	}
	persona = strings.TrimSpace(persona)

	settings, err := u.settingsRepo.GetUserSettings(userID)
	if err != nil {
		return "", err
	}
	if settings == nil {
		settings = &settingsdomain.UserSettings{UserID: userID}
	}
	settings.SystemPrompt = &persona
	if err := u.settingsRepo.UpsertUserSettings(settings); err != nil {
		return "", err
	}

	log.Printf("[Knowledge] Generated persona for user %s from %d interactions and %d captions", userID, len(interactions), len(captioned))
	return persona, nil
}

// buildPersonaPrompt assembles a style-analysis prompt from the user's own
// replies and post captions.
func buildPersonaPrompt(interactions []*domain.InteractionEntry, media []*domain.MediaEntry) string {
	var b strings.Builder
	b.WriteString("Analyze the writing samples below and describe the author's communication style ")
	b.WriteString("as a persona instruction for an assistant that will reply on their behalf. ")
	b.WriteString("Cover tone, typical length, vocabulary, emoji usage and language. ")
	b.WriteString("Write the persona in second person (\"You are...\") and nothing else.\n")

	if len(interactions) > 0 {
		b.WriteString("\nReplies the author wrote to followers:\n")
		for _, in := range interactions {
			if strings.TrimSpace(in.MyResponse) == "" {
				continue
			}
			fmt.Fprintf(&b, "- Follower: %s\n  Author: %s\n", in.UserMessage, in.MyResponse)
		}
	}

	if len(media) > 0 {
		b.WriteString("\nCaptions the author posted:\n")
		count := 0
		for _, m := range media {
			fmt.Fprintf(&b, "- %s\n", m.Caption)
			count++
			if count >= 10 {
				break
			}
		}
	}

	return b.String()
}
