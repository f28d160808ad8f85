package dto

import "github.com/gustavorubino/Insta-Replyer-sub002/internal/settings/domain"

// UpdateUserSettingsRequest patches the caller's overrides. Nil fields keep
// their current value; the zero-value sentinel "" / -1 is not used.
type UpdateUserSettingsRequest struct {
	OperationMode       *domain.OperationMode `json:"operation_mode"`
	ConfidenceThreshold *int                  `json:"confidence_threshold"`
	SystemPrompt        *string               `json:"system_prompt"`
	AITone              *string               `json:"ai_tone"`
}

// UpdateGlobalSettingsRequest patches the workspace defaults.
type UpdateGlobalSettingsRequest struct {
	OperationMode       *domain.OperationMode `json:"operation_mode"`
	ConfidenceThreshold *int                  `json:"confidence_threshold"`
	SystemPrompt        *string               `json:"system_prompt"`
	AITone              *string               `json:"ai_tone"`
}

// UserSettingsResponse returns both the stored overrides and the resolved
// effective values so the UI can show which fields are inherited.
type UserSettingsResponse struct {
	Overrides *domain.UserSettings     `json:"overrides"`
	Effective domain.EffectiveSettings `json:"effective"`
}
