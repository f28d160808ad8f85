package instagram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gustavorubino/Insta-Replyer-sub002/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetProfile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/me", r.URL.Path)
		assert.Equal(t, "tok", r.URL.Query().Get("access_token"))
		json.NewEncoder(w).Encode(map[string]string{"id": "ig-1", "username": "coffeeshop"})
	}))
	defer server.Close()

	client := NewClientWithBaseURL(server.URL)
	profile, err := client.GetProfile(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, "ig-1", profile.ID)
	assert.Equal(t, "coffeeshop", profile.Username)
}

func TestSendMessage(t *testing.T) {
	var body map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/me/messages", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		json.NewEncoder(w).Encode(map[string]string{"message_id": "m1"})
	}))
	defer server.Close()

	client := NewClientWithBaseURL(server.URL)
	err := client.SendMessage(context.Background(), "tok", "follower-1", "thanks!")
	require.NoError(t, err)

	recipient := body["recipient"].(map[string]interface{})
	message := body["message"].(map[string]interface{})
	assert.Equal(t, "follower-1", recipient["id"])
	assert.Equal(t, "thanks!", message["text"])
}

func TestSendMessageFailureIsTyped(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"invalid recipient"}}`))
	}))
	defer server.Close()

	client := NewClientWithBaseURL(server.URL)
	err := client.SendMessage(context.Background(), "tok", "nobody", "hi")
	require.Error(t, err)
	assert.Equal(t, apperr.CodeSendFailed, apperr.CodeOf(err))
}

func TestRateLimitIsTyped(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClientWithBaseURL(server.URL)
	_, err := client.GetProfile(context.Background(), "tok")
	require.Error(t, err)
	assert.Equal(t, apperr.CodeRateLimit, apperr.CodeOf(err))
}

func TestListMediaPagination(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "/me/media", r.URL.Path)
		if r.URL.Query().Get("after") == "" {
			json.NewEncoder(w).Encode(map[string]interface{}{
				"data": []map[string]string{
					{"id": "p1", "caption": "first post", "media_type": "IMAGE", "timestamp": "2026-08-01T10:00:00+0000"},
				},
				"paging": map[string]interface{}{
					"cursors": map[string]string{"after": "cursor-2"},
					"next":    "https://next.page",
				},
			})
			return
		}
		assert.Equal(t, "cursor-2", r.URL.Query().Get("after"))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]string{
				{"id": "p2", "caption": "second post", "media_type": "VIDEO", "timestamp": "2026-07-15T09:30:00+0000"},
			},
		})
	}))
	defer server.Close()

	client := NewClientWithBaseURL(server.URL)

	page, err := client.ListMedia(context.Background(), "tok", "")
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "p1", page.Items[0].ID)
	assert.Equal(t, "cursor-2", page.NextPageToken)
	assert.Equal(t, 2026, page.Items[0].Timestamp.Year())

	page, err = client.ListMedia(context.Background(), "tok", page.NextPageToken)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "p2", page.Items[0].ID)
	assert.Empty(t, page.NextPageToken)
	assert.Equal(t, 2, calls)
}

func TestListCommentsWithReplies(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/p1/comments", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]interface{}{
				{
					"id":        "c1",
					"text":      "love this!",
					"from":      map[string]string{"id": "f1", "username": "fan"},
					"timestamp": "2026-08-02T12:00:00+0000",
					"replies": map[string]interface{}{
						"data": []map[string]interface{}{
							{
								"id":        "c2",
								"text":      "thank you!",
								"from":      map[string]string{"id": "ig-1", "username": "coffeeshop"},
								"timestamp": "2026-08-02T12:05:00+0000",
							},
						},
					},
				},
			},
		})
	}))
	defer server.Close()

	client := NewClientWithBaseURL(server.URL)
	comments, err := client.ListComments(context.Background(), "tok", "p1")
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "fan", comments[0].From.Username)
	require.Len(t, comments[0].Replies, 1)
	assert.Equal(t, "coffeeshop", comments[0].Replies[0].From.Username)
}

func TestParseGraphTime(t *testing.T) {
	ts := parseGraphTime("2026-08-01T10:00:00+0000")
	assert.False(t, ts.IsZero())

	ts = parseGraphTime("2026-08-01T10:00:00Z")
	assert.False(t, ts.IsZero())

	assert.True(t, parseGraphTime("not a time").IsZero())
}
