package repository

import (
	"errors"
	"time"

	"github.com/gustavorubino/Insta-Replyer-sub002/internal/message/domain"
	"github.com/gustavorubino/Insta-Replyer-sub002/pkg/apperr"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DraftRepository persists the 1:1 AI draft attached to each message.
type DraftRepository interface {
	Create(draft *domain.DraftResponse) error
	FindByMessageID(messageID string) (*domain.DraftResponse, error)
	// UpdateSuggestion overwrites the suggested text and confidence, leaving
	// disposition fields untouched.
	UpdateSuggestion(messageID, suggested string, confidence float64) error
	// Finalize records an approval or auto-send outcome once.
	Finalize(messageID, finalResponse string, wasEdited bool) error
	// MarkRejected records the rejection without touching the response fields.
	MarkRejected(messageID string) error
	SetFeedback(messageID, feedback string) error
}

type draftRepository struct {
	db *gorm.DB
}

func NewDraftRepository(db *gorm.DB) DraftRepository {
	return &draftRepository{db: db}
}

func (r *draftRepository) Create(draft *domain.DraftResponse) error {
	if draft.ID == "" {
		draft.ID = uuid.New().String()
	}
	if draft.CreatedAt.IsZero() {
		draft.CreatedAt = time.Now()
	}
	return r.db.Create(draft).Error
}

func (r *draftRepository) FindByMessageID(messageID string) (*domain.DraftResponse, error) {
	var draft domain.DraftResponse
	err := r.db.Where("message_id = ?", messageID).First(&draft).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &draft, nil
}

func (r *draftRepository) UpdateSuggestion(messageID, suggested string, confidence float64) error {
	return r.db.Model(&domain.DraftResponse{}).
		Where("message_id = ?", messageID).
		Updates(map[string]interface{}{
			"suggested_response": suggested,
			"confidence_score":   confidence,
		}).Error
}

func (r *draftRepository) Finalize(messageID, finalResponse string, wasEdited bool) error {
	now := time.Now()
	return r.db.Model(&domain.DraftResponse{}).
		Where("message_id = ?", messageID).
		Updates(map[string]interface{}{
			"final_response": finalResponse,
			"was_approved":   true,
			"was_edited":     wasEdited,
			"approved_at":    now,
		}).Error
}

func (r *draftRepository) MarkRejected(messageID string) error {
	return r.db.Model(&domain.DraftResponse{}).
		Where("message_id = ?", messageID).
		Update("was_approved", false).Error
}

func (r *draftRepository) SetFeedback(messageID, feedback string) error {
	res := r.db.Model(&domain.DraftResponse{}).
		Where("message_id = ?", messageID).
		Update("human_feedback", feedback)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.New(apperr.CodeNotFound, "draft not found")
	}
	return nil
}
