package repository

import (
	"time"

	"github.com/gustavorubino/Insta-Replyer-sub002/internal/knowledge/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// correctionRepository implements CorrectionRepository
type correctionRepository struct {
	db *gorm.DB
}

func NewCorrectionRepository(db *gorm.DB) CorrectionRepository {
	return &correctionRepository{db: db}
}

func (r *correctionRepository) Add(correction *domain.ManualCorrection) error {
	if correction.ID == "" {
		correction.ID = uuid.New().String()
	}
	if correction.CreatedAt.IsZero() {
		correction.CreatedAt = time.Now()
	}
	if correction.Source == "" {
		correction.Source = domain.SourceApprovalQueue
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := lockUser(tx, correction.UserID); err != nil {
			return err
		}
		if err := evictOldest(tx, &domain.ManualCorrection{}, correction.UserID, "created_at", domain.ManualCorrectionCap); err != nil {
			return err
		}
		return tx.Create(correction).Error
	})
}

func (r *correctionRepository) Remove(userID, id string) error {
	return deleteOwned(r.db, &domain.ManualCorrection{}, userID, id)
}

func (r *correctionRepository) ListByUser(userID string) ([]*domain.ManualCorrection, error) {
	var corrections []*domain.ManualCorrection
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&corrections).Error
	return corrections, err
}

func (r *correctionRepository) Recent(userID string, limit int) ([]*domain.ManualCorrection, error) {
	var corrections []*domain.ManualCorrection
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Limit(limit).Find(&corrections).Error
	return corrections, err
}

func (r *correctionRepository) FindByIDs(userID string, ids []string) ([]*domain.ManualCorrection, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var corrections []*domain.ManualCorrection
	err := r.db.Where("user_id = ? AND id IN ?", userID, ids).Find(&corrections).Error
	return corrections, err
}

func (r *correctionRepository) CountByUser(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&domain.ManualCorrection{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
