package usecase

import (
	"context"

	"github.com/gustavorubino/Insta-Replyer-sub002/internal/knowledge/domain"
	"github.com/gustavorubino/Insta-Replyer-sub002/internal/knowledge/dto"
)

// KnowledgeUsecase manages the per-user learning collections that feed reply
// drafting: corrections, synced media, past interactions and guidelines.
type KnowledgeUsecase interface {
	AddCorrection(ctx context.Context, userID string, req *dto.AddCorrectionRequest, source domain.CorrectionSource) (*domain.ManualCorrection, error)
	RemoveCorrection(ctx context.Context, userID, id string) error
	ListCorrections(userID string) ([]*domain.ManualCorrection, error)

	ListMedia(userID string) ([]*domain.MediaEntry, error)
	RemoveMedia(userID, id string) error

	ListInteractions(userID string) ([]*domain.InteractionEntry, error)
	RemoveInteraction(userID, id string) error

	CreateGuideline(userID string, req *dto.CreateGuidelineRequest) (*domain.Guideline, error)
	UpdateGuideline(userID, id string, req *dto.UpdateGuidelineRequest) (*domain.Guideline, error)
	RemoveGuideline(userID, id string) error
	ListGuidelines(userID string) ([]*domain.Guideline, error)

	// GeneratePersona analyzes the stored interactions and captions and writes
	// the result as the user's system prompt override.
	GeneratePersona(ctx context.Context, userID string) (string, error)
}
