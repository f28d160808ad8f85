package instagram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/gustavorubino/Insta-Replyer-sub002/pkg/apperr"
)

const defaultBaseURL = "https://graph.instagram.com/v21.0"

// graphTimeLayout is the timestamp format the Graph API uses.
const graphTimeLayout = "2006-01-02T15:04:05-0700"

// Client is a thin REST client for the Instagram Graph API surface the
// application consumes: send a message, list media, list comments.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient() *Client {
	return &Client{
		baseURL: defaultBaseURL,
		http:    &http.Client{},
	}
}

// NewClientWithBaseURL points the client at a different endpoint. Used by tests.
func NewClientWithBaseURL(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{},
	}
}

// GetProfile fetches the connected account's id and username.
func (c *Client) GetProfile(ctx context.Context, accessToken string) (*Profile, error) {
	var profile Profile
	if err := c.get(ctx, "/me", url.Values{
		"fields":       {"id,username"},
		"access_token": {accessToken},
	}, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// SendMessage delivers a direct message to recipientID.
func (c *Client) SendMessage(ctx context.Context, accessToken, recipientID, text string) error {
	payload := map[string]interface{}{
		"recipient": map[string]string{"id": recipientID},
		"message":   map[string]string{"text": text},
	}
	if err := c.post(ctx, "/me/messages", accessToken, payload); err != nil {
		return apperr.Wrap(apperr.CodeSendFailed, "failed to send direct message", err)
	}
	return nil
}

// SendCommentReply posts a reply under commentID.
func (c *Client) SendCommentReply(ctx context.Context, accessToken, commentID, text string) error {
	payload := map[string]interface{}{
		"message": text,
	}
	if err := c.post(ctx, "/"+commentID+"/replies", accessToken, payload); err != nil {
		return apperr.Wrap(apperr.CodeSendFailed, "failed to reply to comment", err)
	}
	return nil
}

// ListMedia fetches one page of the account's recent media.
func (c *Client) ListMedia(ctx context.Context, accessToken, pageToken string) (*MediaPage, error) {
	params := url.Values{
		"fields":       {"id,caption,media_type,media_url,thumbnail_url,permalink,timestamp"},
		"limit":        {"25"},
		"access_token": {accessToken},
	}
	if pageToken != "" {
		params.Set("after", pageToken)
	}

	var raw struct {
		Data []struct {
			ID           string `json:"id"`
			Caption      string `json:"caption"`
			MediaType    string `json:"media_type"`
			MediaURL     string `json:"media_url"`
			ThumbnailURL string `json:"thumbnail_url"`
			Permalink    string `json:"permalink"`
			Timestamp    string `json:"timestamp"`
		} `json:"data"`
		Paging struct {
			Cursors struct {
				After string `json:"after"`
			} `json:"cursors"`
			Next string `json:"next"`
		} `json:"paging"`
	}
	if err := c.get(ctx, "/me/media", params, &raw); err != nil {
		return nil, err
	}

	page := &MediaPage{}
	for _, m := range raw.Data {
		page.Items = append(page.Items, Media{
			ID:           m.ID,
			Caption:      m.Caption,
			MediaType:    m.MediaType,
			MediaURL:     m.MediaURL,
			ThumbnailURL: m.ThumbnailURL,
			Permalink:    m.Permalink,
			Timestamp:    parseGraphTime(m.Timestamp),
		})
	}
	// Only advertise a next page when the API says there is one.
	if raw.Paging.Next != "" {
		page.NextPageToken = raw.Paging.Cursors.After
	}
	return page, nil
}

// ListComments fetches the comments of a media item with one level of replies.
func (c *Client) ListComments(ctx context.Context, accessToken, mediaID string) ([]Comment, error) {
	params := url.Values{
		"fields":       {"id,text,from,timestamp,replies{id,text,from,timestamp}"},
		"access_token": {accessToken},
	}

	var raw struct {
		Data []struct {
			ID        string        `json:"id"`
			Text      string        `json:"text"`
			From      CommentAuthor `json:"from"`
			Timestamp string        `json:"timestamp"`
			Replies   struct {
				Data []struct {
					ID        string        `json:"id"`
					Text      string        `json:"text"`
					From      CommentAuthor `json:"from"`
					Timestamp string        `json:"timestamp"`
				} `json:"data"`
			} `json:"replies"`
		} `json:"data"`
	}
	if err := c.get(ctx, "/"+mediaID+"/comments", params, &raw); err != nil {
		return nil, err
	}

	comments := make([]Comment, 0, len(raw.Data))
	for _, rc := range raw.Data {
		comment := Comment{
			ID:        rc.ID,
			Text:      rc.Text,
			From:      rc.From,
			Timestamp: parseGraphTime(rc.Timestamp),
		}
		for _, rr := range rc.Replies.Data {
			comment.Replies = append(comment.Replies, Comment{
				ID:        rr.ID,
				Text:      rr.Text,
				From:      rr.From,
				Timestamp: parseGraphTime(rr.Timestamp),
			})
		}
		comments = append(comments, comment)
	}
	return comments, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return c.transportError(ctx, err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return c.statusError(resp.StatusCode, respBody)
	}

	return json.Unmarshal(respBody, out)
}

func (c *Client) post(ctx context.Context, path, accessToken string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+path+"?access_token="+url.QueryEscape(accessToken), bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return c.transportError(ctx, err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return c.statusError(resp.StatusCode, respBody)
	}
	return nil
}

func (c *Client) transportError(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return apperr.Wrap(apperr.CodeTimeout, "instagram request timed out", err)
	}
	return apperr.Wrap(apperr.CodeAPIError, "instagram request failed", err)
}

func (c *Client) statusError(status int, body []byte) error {
	if status == http.StatusTooManyRequests {
		return apperr.New(apperr.CodeRateLimit, "instagram rate limit reached")
	}
	return apperr.New(apperr.CodeAPIError, fmt.Sprintf("instagram API error (%d): %s", status, string(body)))
}

func parseGraphTime(s string) time.Time {
	if t, err := time.Parse(graphTimeLayout, s); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	return time.Time{}
}
