package usecase

import (
	"github.com/gustavorubino/Insta-Replyer-sub002/internal/settings/domain"
	"github.com/gustavorubino/Insta-Replyer-sub002/internal/settings/dto"
	"github.com/gustavorubino/Insta-Replyer-sub002/internal/settings/repository"
	"github.com/gustavorubino/Insta-Replyer-sub002/pkg/apperr"
)

// SettingsUsecase resolves the two-tier configuration: global defaults plus
// per-user overrides.
type SettingsUsecase interface {
	// Effective resolves the settings that govern routing for one user.
	Effective(userID string) (domain.EffectiveSettings, error)
	GetUserSettings(userID string) (*dto.UserSettingsResponse, error)
	UpdateUserSettings(userID string, req *dto.UpdateUserSettingsRequest) (*dto.UserSettingsResponse, error)
	GetGlobal() (*domain.GlobalSettings, error)
	UpdateGlobal(req *dto.UpdateGlobalSettingsRequest) (*domain.GlobalSettings, error)
}

type settingsUsecase struct {
	settingsRepo repository.SettingsRepository
}

func NewSettingsUsecase(settingsRepo repository.SettingsRepository) SettingsUsecase {
	return &settingsUsecase{settingsRepo: settingsRepo}
}

func (u *settingsUsecase) Effective(userID string) (domain.EffectiveSettings, error) {
	global, err := u.settingsRepo.GetGlobal()
	if err != nil {
		return domain.EffectiveSettings{}, err
	}
	user, err := u.settingsRepo.GetUserSettings(userID)
	if err != nil {
		return domain.EffectiveSettings{}, err
	}
	return domain.Resolve(global, user), nil
}

func (u *settingsUsecase) GetUserSettings(userID string) (*dto.UserSettingsResponse, error) {
	global, err := u.settingsRepo.GetGlobal()
	if err != nil {
		return nil, err
	}
	user, err := u.settingsRepo.GetUserSettings(userID)
	if err != nil {
		return nil, err
	}
	return &dto.UserSettingsResponse{
		Overrides: user,
		Effective: domain.Resolve(global, user),
	}, nil
}

func (u *settingsUsecase) UpdateUserSettings(userID string, req *dto.UpdateUserSettingsRequest) (*dto.UserSettingsResponse, error) {
	if err := validateFields(req.OperationMode, req.ConfidenceThreshold); err != nil {
		return nil, err
	}

	user, err := u.settingsRepo.GetUserSettings(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		user = &domain.UserSettings{UserID: userID}
	}

	if req.OperationMode != nil {
		user.OperationMode = req.OperationMode
	}
	if req.ConfidenceThreshold != nil {
		user.ConfidenceThreshold = req.ConfidenceThreshold
	}
	if req.SystemPrompt != nil {
		user.SystemPrompt = req.SystemPrompt
	}
	if req.AITone != nil {
		user.AITone = req.AITone
	}

	if err := u.settingsRepo.UpsertUserSettings(user); err != nil {
		return nil, err
	}

	global, err := u.settingsRepo.GetGlobal()
	if err != nil {
		return nil, err
	}
	return &dto.UserSettingsResponse{
		Overrides: user,
		Effective: domain.Resolve(global, user),
	}, nil
}

func (u *settingsUsecase) GetGlobal() (*domain.GlobalSettings, error) {
	return u.settingsRepo.GetGlobal()
}

func (u *settingsUsecase) UpdateGlobal(req *dto.UpdateGlobalSettingsRequest) (*domain.GlobalSettings, error) {
	if err := validateFields(req.OperationMode, req.ConfidenceThreshold); err != nil {
		return nil, err
	}

	global, err := u.settingsRepo.GetGlobal()
	if err != nil {
		return nil, err
	}

	if req.OperationMode != nil {
		global.OperationMode = *req.OperationMode
	}
	if req.ConfidenceThreshold != nil {
		global.ConfidenceThreshold = *req.ConfidenceThreshold
	}
	if req.SystemPrompt != nil {
		global.SystemPrompt = *req.SystemPrompt
	}
	if req.AITone != nil {
		global.AITone = *req.AITone
	}

	if err := u.settingsRepo.UpdateGlobal(global); err != nil {
		return nil, err
	}
	return global, nil
}

func validateFields(mode *domain.OperationMode, threshold *int) error {
	if mode != nil && !mode.Valid() {
		return apperr.New(apperr.CodeValidation, "operation_mode must be manual, semi_auto or auto")
	}
	if threshold != nil && (*threshold < 50 || *threshold > 100) {
		return apperr.New(apperr.CodeValidation, "confidence_threshold must be between 50 and 100")
	}
	return nil
}
