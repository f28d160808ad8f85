package repository

import (
	"time"

	"github.com/gustavorubino/Insta-Replyer-sub002/internal/knowledge/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// guidelineRepository implements GuidelineRepository
type guidelineRepository struct {
	db *gorm.DB
}

func NewGuidelineRepository(db *gorm.DB) GuidelineRepository {
	return &guidelineRepository{db: db}
}

func (r *guidelineRepository) Create(g *domain.Guideline) error {
	if g.ID == "" {
		g.ID = uuid.New().String()
	}
	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Now()
	}
	return r.db.Create(g).Error
}

func (r *guidelineRepository) Update(g *domain.Guideline) error {
	return r.db.Save(g).Error
}

func (r *guidelineRepository) Remove(userID, id string) error {
	return deleteOwned(r.db, &domain.Guideline{}, userID, id)
}

func (r *guidelineRepository) FindByID(userID, id string) (*domain.Guideline, error) {
	var g domain.Guideline
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&g).Error
	if err != nil {
		return nil, notFoundToNil(err)
	}
	return &g, nil
}

func (r *guidelineRepository) ListByUser(userID string) ([]*domain.Guideline, error) {
	var guidelines []*domain.Guideline
	err := r.db.Where("user_id = ?", userID).Order("priority DESC, created_at ASC").Find(&guidelines).Error
	return guidelines, err
}

func (r *guidelineRepository) ActiveByUser(userID string) ([]*domain.Guideline, error) {
	var guidelines []*domain.Guideline
	err := r.db.Where("user_id = ? AND is_active = ?", userID, true).
		Order("priority DESC, created_at ASC").Find(&guidelines).Error
	return guidelines, err
}
