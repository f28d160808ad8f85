package instagram

import (
	"time"
)

// Profile is the connected account as the Graph API reports it.
type Profile struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Media is one published post of the connected account.
type Media struct {
	ID           string    `json:"id"`
	Caption      string    `json:"caption"`
	MediaType    string    `json:"media_type"` // IMAGE, VIDEO, CAROUSEL_ALBUM
	MediaURL     string    `json:"media_url"`
	ThumbnailURL string    `json:"thumbnail_url"`
	Permalink    string    `json:"permalink"`
	Timestamp    time.Time `json:"timestamp"`
}

// MediaPage is one page of the media listing plus the cursor for the next one.
type MediaPage struct {
	Items         []Media
	NextPageToken string
}

// CommentAuthor identifies who wrote a comment.
type CommentAuthor struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Comment is a comment on a media item, with one level of replies.
type Comment struct {
	ID        string        `json:"id"`
	Text      string        `json:"text"`
	From      CommentAuthor `json:"from"`
	Timestamp time.Time     `json:"timestamp"`
	Replies   []Comment     `json:"-"`
}

// Webhook payload types for inbound message deliveries.
// Signature verification happens upstream of this package.
type WebhookPayload struct {
	Object string         `json:"object"`
	Entry  []WebhookEntry `json:"entry"`
}

type WebhookEntry struct {
	ID        string             `json:"id"`
	Time      int64              `json:"time"`
	Messaging []WebhookMessaging `json:"messaging"`
	Changes   []WebhookChange    `json:"changes"`
}

// WebhookMessaging is a direct-message event.
type WebhookMessaging struct {
	Sender    struct{ ID string } `json:"sender"`
	Recipient struct{ ID string } `json:"recipient"`
	Timestamp int64               `json:"timestamp"`
	Message   struct {
		MID         string `json:"mid"`
		Text        string `json:"text"`
		Attachments []struct {
			Type    string `json:"type"`
			Payload struct {
				URL string `json:"url"`
			} `json:"payload"`
		} `json:"attachments"`
	} `json:"message"`
}

// WebhookChange is a comment event on a media object.
type WebhookChange struct {
	Field string `json:"field"`
	Value struct {
		ID       string        `json:"id"`
		Text     string        `json:"text"`
		From     CommentAuthor `json:"from"`
		Media    struct {
			ID string `json:"id"`
		} `json:"media"`
		ParentID string `json:"parent_id"`
	} `json:"value"`
}
