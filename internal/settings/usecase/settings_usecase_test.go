package usecase

import (
	"path/filepath"
	"testing"

	"github.com/gustavorubino/Insta-Replyer-sub002/internal/settings/domain"
	"github.com/gustavorubino/Insta-Replyer-sub002/internal/settings/dto"
	"github.com/gustavorubino/Insta-Replyer-sub002/internal/settings/repository"
	"github.com/gustavorubino/Insta-Replyer-sub002/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newSettingsUsecase(t *testing.T) SettingsUsecase {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "test.db") + "?_busy_timeout=10000&_txlock=immediate"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.GlobalSettings{}, &domain.UserSettings{}))
	return NewSettingsUsecase(repository.NewSettingsRepository(db))
}

func modePtr(m domain.OperationMode) *domain.OperationMode { return &m }
func intPtr(v int) *int                                    { return &v }
func strPtr(s string) *string                              { return &s }

func TestGlobalDefaultsAreCreatedOnFirstRead(t *testing.T) {
	uc := newSettingsUsecase(t)

	global, err := uc.GetGlobal()
	require.NoError(t, err)
	assert.Equal(t, domain.ModeManual, global.OperationMode)
	assert.Equal(t, 80, global.ConfidenceThreshold)

	// A second read returns the same row.
	again, err := uc.GetGlobal()
	require.NoError(t, err)
	assert.Equal(t, global.ID, again.ID)
}

func TestEffectiveFallsBackToGlobal(t *testing.T) {
	uc := newSettingsUsecase(t)

	_, err := uc.UpdateGlobal(&dto.UpdateGlobalSettingsRequest{
		OperationMode:       modePtr(domain.ModeSemiAuto),
		ConfidenceThreshold: intPtr(90),
		AITone:              strPtr("friendly"),
	})
	require.NoError(t, err)

	eff, err := uc.Effective("user-without-overrides")
	require.NoError(t, err)
	assert.Equal(t, domain.ModeSemiAuto, eff.OperationMode)
	assert.Equal(t, 90, eff.ConfidenceThreshold)
	assert.Equal(t, "friendly", eff.AITone)
}

func TestUserOverridesWinFieldByField(t *testing.T) {
	uc := newSettingsUsecase(t)

	_, err := uc.UpdateGlobal(&dto.UpdateGlobalSettingsRequest{
		OperationMode:       modePtr(domain.ModeSemiAuto),
		ConfidenceThreshold: intPtr(90),
		AITone:              strPtr("friendly"),
	})
	require.NoError(t, err)

	resp, err := uc.UpdateUserSettings("u1", &dto.UpdateUserSettingsRequest{
		OperationMode: modePtr(domain.ModeAuto),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ModeAuto, resp.Effective.OperationMode)
	// Untouched fields still come from the global row.
	assert.Equal(t, 90, resp.Effective.ConfidenceThreshold)
	assert.Equal(t, "friendly", resp.Effective.AITone)

	eff, err := uc.Effective("u1")
	require.NoError(t, err)
	assert.Equal(t, domain.ModeAuto, eff.OperationMode)

	// Other users are unaffected.
	other, err := uc.Effective("u2")
	require.NoError(t, err)
	assert.Equal(t, domain.ModeSemiAuto, other.OperationMode)
}

func TestUpdateUserSettingsMergesWithPriorOverrides(t *testing.T) {
	uc := newSettingsUsecase(t)

	_, err := uc.UpdateUserSettings("u1", &dto.UpdateUserSettingsRequest{
		ConfidenceThreshold: intPtr(95),
	})
	require.NoError(t, err)

	resp, err := uc.UpdateUserSettings("u1", &dto.UpdateUserSettingsRequest{
		SystemPrompt: strPtr("You are the shop owner."),
	})
	require.NoError(t, err)

	require.NotNil(t, resp.Overrides.ConfidenceThreshold)
	assert.Equal(t, 95, *resp.Overrides.ConfidenceThreshold)
	require.NotNil(t, resp.Overrides.SystemPrompt)
	assert.Equal(t, "You are the shop owner.", *resp.Overrides.SystemPrompt)
}

func TestSettingsValidation(t *testing.T) {
	uc := newSettingsUsecase(t)

	t.Run("unknown mode", func(t *testing.T) {
		_, err := uc.UpdateUserSettings("u1", &dto.UpdateUserSettingsRequest{
			OperationMode: modePtr(domain.OperationMode("yolo")),
		})
		assert.Equal(t, apperr.CodeValidation, apperr.CodeOf(err))
	})

	t.Run("threshold below range", func(t *testing.T) {
		_, err := uc.UpdateGlobal(&dto.UpdateGlobalSettingsRequest{
			ConfidenceThreshold: intPtr(49),
		})
		assert.Equal(t, apperr.CodeValidation, apperr.CodeOf(err))
	})

	t.Run("threshold above range", func(t *testing.T) {
		_, err := uc.UpdateUserSettings("u1", &dto.UpdateUserSettingsRequest{
			ConfidenceThreshold: intPtr(101),
		})
		assert.Equal(t, apperr.CodeValidation, apperr.CodeOf(err))
	})

	t.Run("boundaries are accepted", func(t *testing.T) {
		_, err := uc.UpdateGlobal(&dto.UpdateGlobalSettingsRequest{ConfidenceThreshold: intPtr(50)})
		assert.NoError(t, err)
		_, err = uc.UpdateGlobal(&dto.UpdateGlobalSettingsRequest{ConfidenceThreshold: intPtr(100)})
		assert.NoError(t, err)
	})
}

func TestGetUserSettingsWithoutOverrides(t *testing.T) {
	uc := newSettingsUsecase(t)

	resp, err := uc.GetUserSettings("u1")
	require.NoError(t, err)
	assert.Nil(t, resp.Overrides)
	assert.Equal(t, domain.ModeManual, resp.Effective.OperationMode)
}
