package domain

import "time"

// MessageType distinguishes the two inbound channels.
type MessageType string

const (
	MessageTypeDM      MessageType = "dm"
	MessageTypeComment MessageType = "comment"
)

// Valid reports whether t is a known channel.
func (t MessageType) Valid() bool {
	return t == MessageTypeDM || t == MessageTypeComment
}

// MessageStatus is the approval-workflow state of an inbound message.
// pending is the only non-terminal state.
type MessageStatus string

const (
	StatusPending  MessageStatus = "pending"
	StatusApproved MessageStatus = "approved"
	StatusRejected MessageStatus = "rejected"
	StatusAutoSent MessageStatus = "auto_sent"
)

// Terminal reports whether no further disposition may be applied.
func (s MessageStatus) Terminal() bool {
	return s == StatusApproved || s == StatusRejected || s == StatusAutoSent
}

// Valid reports whether s is one of the known states.
func (s MessageStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusAutoSent:
		return true
	}
	return false
}

// InboundMessage is a DM or comment pulled from the platform, unique per
// external id so webhook redelivery cannot duplicate it.
type InboundMessage struct {
	ID         string      `json:"id" gorm:"primaryKey"`
	UserID     string      `json:"user_id" gorm:"index;not null"`
	ExternalID string      `json:"external_id" gorm:"uniqueIndex;not null"`
	Type       MessageType `json:"type" gorm:"not null"`

	SenderID       string `json:"sender_id"`
	SenderUsername string `json:"sender_username"`
	Content        string `json:"content" gorm:"type:text"`
	MediaURL       string `json:"media_url,omitempty"`

	// Post context, set for comments
	PostID        string `json:"post_id,omitempty"`
	PostCaption   string `json:"post_caption,omitempty" gorm:"type:text"`
	PostPermalink string `json:"post_permalink,omitempty"`

	// Parent comment, set for replies
	ParentCommentID   string `json:"parent_comment_id,omitempty"`
	ParentCommentText string `json:"parent_comment_text,omitempty" gorm:"type:text"`

	Status      MessageStatus `json:"status" gorm:"index;default:pending"`
	CreatedAt   time.Time     `json:"created_at"`
	ProcessedAt *time.Time    `json:"processed_at,omitempty"`

	Draft *DraftResponse `json:"draft,omitempty" gorm:"foreignKey:MessageID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for GORM
func (InboundMessage) TableName() string {
	return "inbound_messages"
}
