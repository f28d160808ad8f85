package repository

import (
	"time"

	authdomain "github.com/gustavorubino/Insta-Replyer-sub002/internal/auth/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FCMTokenRepository stores the device tokens push notifications fan out to.
// One browser or phone registers one token; a token seen again moves to the
// user who presented it last.
type FCMTokenRepository interface {
	Register(userID, token, deviceInfo string) error
	TokensForUser(userID string) ([]authdomain.FCMToken, error)
	// Remove drops a single token, used both for explicit unregistration and
	// for pruning tokens FCM reports as dead.
	Remove(token string) error
	RemoveAllForUser(userID string) error
}

type fcmTokenRepository struct {
	db *gorm.DB
}

func NewFCMTokenRepository(db *gorm.DB) FCMTokenRepository {
	return &fcmTokenRepository{db: db}
}

func (r *fcmTokenRepository) Register(userID, token, deviceInfo string) error {
	now := time.Now()
	entry := &authdomain.FCMToken{
		ID:         uuid.New().String(),
		UserID:     userID,
		Token:      token,
		DeviceInfo: deviceInfo,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "token"}},
		DoUpdates: clause.AssignmentColumns([]string{"user_id", "device_info", "updated_at"}),
	}).Create(entry).Error
}

func (r *fcmTokenRepository) TokensForUser(userID string) ([]authdomain.FCMToken, error) {
	var tokens []authdomain.FCMToken
	err := r.db.Where("user_id = ?", userID).Find(&tokens).Error
	return tokens, err
}

func (r *fcmTokenRepository) Remove(token string) error {
	return r.db.Where("token = ?", token).Delete(&authdomain.FCMToken{}).Error
}

func (r *fcmTokenRepository) RemoveAllForUser(userID string) error {
	return r.db.Where("user_id = ?", userID).Delete(&authdomain.FCMToken{}).Error
}
