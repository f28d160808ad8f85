package domain

import "time"

// Per-user caps for the three learning collections. These bounds are part of
// the durable contract: inserts beyond a cap evict the oldest row first.
const (
	ManualCorrectionCap = 500
	MediaEntryCap       = 50
	InteractionCap      = 200
)

// CorrectionSource records where a golden correction came from.
type CorrectionSource string

const (
	SourceApprovalQueue CorrectionSource = "approval_queue"
	SourceSimulator     CorrectionSource = "simulator"
)

// ManualCorrection is a human-edited response stored as a positive example.
type ManualCorrection struct {
	ID        string           `json:"id" gorm:"primaryKey"`
	UserID    string           `json:"user_id" gorm:"index;not null"`
	Question  string           `json:"question" gorm:"type:text;not null"`
	Answer    string           `json:"answer" gorm:"type:text;not null"`
	Source    CorrectionSource `json:"source" gorm:"default:approval_queue"`
	CreatedAt time.Time        `json:"created_at" gorm:"index"`
}

func (ManualCorrection) TableName() string {
	return "manual_corrections"
}

// MediaEntry is a synced post from the connected account's media library.
type MediaEntry struct {
	ID              string    `json:"id" gorm:"primaryKey"`
	UserID          string    `json:"user_id" gorm:"uniqueIndex:idx_media_user_external;not null"`
	ExternalMediaID string    `json:"external_media_id" gorm:"uniqueIndex:idx_media_user_external;not null"`
	Caption         string    `json:"caption" gorm:"type:text"`
	MediaType       string    `json:"media_type"`
	MediaURL        string    `json:"media_url"`
	ThumbnailURL    string    `json:"thumbnail_url"`
	Permalink       string    `json:"permalink"`
	AIDescription   string    `json:"ai_description,omitempty" gorm:"type:text"`
	AITranscription string    `json:"ai_transcription,omitempty" gorm:"type:text"`
	PostedAt        time.Time `json:"posted_at"`
	SyncedAt        time.Time `json:"synced_at" gorm:"index"`
}

func (MediaEntry) TableName() string {
	return "media_entries"
}

// ChannelType distinguishes where an interaction happened.
type ChannelType string

const (
	ChannelPublicComment ChannelType = "public_comment"
	ChannelPrivateDM     ChannelType = "private_dm"
)

// InteractionEntry is one past exchange with a follower, used as few-shot
// context for reply drafting.
type InteractionEntry struct {
	ID                string      `json:"id" gorm:"primaryKey"`
	UserID            string      `json:"user_id" gorm:"uniqueIndex:idx_interaction_user_external;not null"`
	ExternalCommentID string      `json:"external_comment_id" gorm:"uniqueIndex:idx_interaction_user_external;not null"`
	Channel           ChannelType `json:"channel" gorm:"not null"`
	SenderID          string      `json:"sender_id"`
	SenderUsername    string      `json:"sender_username"`
	UserMessage       string      `json:"user_message" gorm:"type:text"`
	MyResponse        string      `json:"my_response" gorm:"type:text"`
	PostContext       string      `json:"post_context,omitempty" gorm:"type:text"`
	InteractedAt      time.Time   `json:"interacted_at" gorm:"index"`
}

func (InteractionEntry) TableName() string {
	return "interaction_entries"
}

// Guideline is a prioritized directive injected into every prompt.
// Priority runs 1 (lowest) to 5 (highest).
type Guideline struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"index"`
	Rule      string    `json:"rule" gorm:"type:text;not null"`
	Priority  int       `json:"priority" gorm:"default:3"`
	Category  string    `json:"category,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func (Guideline) TableName() string {
	return "guidelines"
}
