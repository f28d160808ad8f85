package domain

import "time"

// DraftResponse is the AI-drafted reply attached 1:1 to an inbound message.
// FinalResponse, WasApproved and ApprovedAt are written exactly once, at
// disposition time.
type DraftResponse struct {
	ID                string     `json:"id" gorm:"primaryKey"`
	MessageID         string     `json:"message_id" gorm:"uniqueIndex;not null"`
	SuggestedResponse string     `json:"suggested_response" gorm:"type:text"`
	FinalResponse     string     `json:"final_response,omitempty" gorm:"type:text"`
	ConfidenceScore   float64    `json:"confidence_score"` // 0.0 - 1.0
	WasEdited         bool       `json:"was_edited"`
	WasApproved       *bool      `json:"was_approved,omitempty"`
	HumanFeedback     string     `json:"human_feedback,omitempty" gorm:"type:text"`
	CreatedAt         time.Time  `json:"created_at"`
	ApprovedAt        *time.Time `json:"approved_at,omitempty"`
}

// TableName specifies the table name for GORM
func (DraftResponse) TableName() string {
	return "draft_responses"
}
