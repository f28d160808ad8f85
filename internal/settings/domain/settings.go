package domain

import "time"

// OperationMode governs how much human review a drafted reply requires.
type OperationMode string

const (
	ModeManual   OperationMode = "manual"
	ModeSemiAuto OperationMode = "semi_auto"
	ModeAuto     OperationMode = "auto"
)

// Valid reports whether m is a known mode.
func (m OperationMode) Valid() bool {
	switch m {
	case ModeManual, ModeSemiAuto, ModeAuto:
		return true
	}
	return false
}

// GlobalSettings is the single row of workspace-wide defaults.
type GlobalSettings struct {
	ID                  string        `json:"id" gorm:"primaryKey"`
	OperationMode       OperationMode `json:"operation_mode" gorm:"default:manual"`
	ConfidenceThreshold int           `json:"confidence_threshold" gorm:"default:80"` // 50-100
	SystemPrompt        string        `json:"system_prompt" gorm:"type:text"`
	AITone              string        `json:"ai_tone"`
	UpdatedAt           time.Time     `json:"updated_at"`
}

func (GlobalSettings) TableName() string {
	return "global_settings"
}

// UserSettings overrides the global defaults field-by-field. Nil means
// "fall back to the global value".
type UserSettings struct {
	ID                  string         `json:"id" gorm:"primaryKey"`
	UserID              string         `json:"user_id" gorm:"uniqueIndex;not null"`
	OperationMode       *OperationMode `json:"operation_mode,omitempty"`
	ConfidenceThreshold *int           `json:"confidence_threshold,omitempty"`
	SystemPrompt        *string        `json:"system_prompt,omitempty" gorm:"type:text"`
	AITone              *string        `json:"ai_tone,omitempty"`
	UpdatedAt           time.Time      `json:"updated_at"`
}

func (UserSettings) TableName() string {
	return "user_settings"
}

// EffectiveSettings is the two-tier resolution of global defaults and
// per-user overrides, computed at read time.
type EffectiveSettings struct {
	OperationMode       OperationMode `json:"operation_mode"`
	ConfidenceThreshold int           `json:"confidence_threshold"`
	SystemPrompt        string        `json:"system_prompt"`
	AITone              string        `json:"ai_tone"`
}

// Resolve applies user overrides on top of the global defaults, field by field.
func Resolve(global *GlobalSettings, user *UserSettings) EffectiveSettings {
	eff := EffectiveSettings{
		OperationMode:       global.OperationMode,
		ConfidenceThreshold: global.ConfidenceThreshold,
		SystemPrompt:        global.SystemPrompt,
		AITone:              global.AITone,
	}
	if user == nil {
		return eff
	}
	if user.OperationMode != nil {
		eff.OperationMode = *user.OperationMode
	}
	if user.ConfidenceThreshold != nil {
		eff.ConfidenceThreshold = *user.ConfidenceThreshold
	}
	if user.SystemPrompt != nil {
		eff.SystemPrompt = *user.SystemPrompt
	}
	if user.AITone != nil {
		eff.AITone = *user.AITone
	}
	return eff
}
