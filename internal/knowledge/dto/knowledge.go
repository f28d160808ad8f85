package dto

// AddCorrectionRequest stores a question/answer pair as a golden example.
type AddCorrectionRequest struct {
	Question string `json:"question" binding:"required"`
	Answer   string `json:"answer" binding:"required"`
}

// CreateGuidelineRequest creates a prompt directive.
type CreateGuidelineRequest struct {
	Rule     string `json:"rule" binding:"required"`
	Priority int    `json:"priority"`
	Category string `json:"category"`
	IsActive *bool  `json:"is_active"`
}

// UpdateGuidelineRequest patches a guideline; nil fields are left unchanged.
type UpdateGuidelineRequest struct {
	Rule     *string `json:"rule"`
	Priority *int    `json:"priority"`
	Category *string `json:"category"`
	IsActive *bool   `json:"is_active"`
}

// GeneratePersonaResponse carries the generated persona back to the client.
// The same text is stored as the user's system prompt override.
type GeneratePersonaResponse struct {
	Persona string `json:"persona"`
}
