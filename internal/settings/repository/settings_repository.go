package repository

import (
	"errors"
	"time"

	"github.com/gustavorubino/Insta-Replyer-sub002/internal/settings/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SettingsRepository persists the global defaults row and per-user overrides.
type SettingsRepository interface {
	// GetGlobal returns the singleton defaults row, creating it on first read.
	GetGlobal() (*domain.GlobalSettings, error)
	UpdateGlobal(settings *domain.GlobalSettings) error
	// GetUserSettings returns nil when the user has no overrides yet.
	GetUserSettings(userID string) (*domain.UserSettings, error)
	UpsertUserSettings(settings *domain.UserSettings) error
}

type settingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) GetGlobal() (*domain.GlobalSettings, error) {
	var global domain.GlobalSettings
	err := r.db.First(&global).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		global = domain.GlobalSettings{
			ID:                  uuid.New().String(),
			OperationMode:       domain.ModeManual,
			ConfidenceThreshold: 80,
			UpdatedAt:           time.Now(),
		}
		if err := r.db.Create(&global).Error; err != nil {
			return nil, err
		}
		return &global, nil
	}
	if err != nil {
		return nil, err
	}
	return &global, nil
}

func (r *settingsRepository) UpdateGlobal(settings *domain.GlobalSettings) error {
	settings.UpdatedAt = time.Now()
	return r.db.Save(settings).Error
}

func (r *settingsRepository) GetUserSettings(userID string) (*domain.UserSettings, error) {
	var settings domain.UserSettings
	err := r.db.Where("user_id = ?", userID).First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *settingsRepository) UpsertUserSettings(settings *domain.UserSettings) error {
	if settings.ID == "" {
		settings.ID = uuid.New().String()
	}
	settings.UpdatedAt = time.Now()
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"operation_mode", "confidence_threshold", "system_prompt", "ai_tone", "updated_at",
		}),
	}).Create(settings).Error
}
