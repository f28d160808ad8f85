package usecase

import (
	"context"
	"fmt"
	"log"
	"time"

	authusecase "github.com/gustavorubino/Insta-Replyer-sub002/internal/auth/usecase"
	knowledgedomain "github.com/gustavorubino/Insta-Replyer-sub002/internal/knowledge/domain"
	knowledgerepo "github.com/gustavorubino/Insta-Replyer-sub002/internal/knowledge/repository"
	messagedomain "github.com/gustavorubino/Insta-Replyer-sub002/internal/message/domain"
	"github.com/gustavorubino/Insta-Replyer-sub002/pkg/instagram"
	"github.com/gustavorubino/Insta-Replyer-sub002/pkg/sse"

	"github.com/google/uuid"
)

// Result summarizes one sync run. Errors holds per-item failures that did
// not stop the run.
type Result struct {
	MediaCount       int      `json:"media_count"`
	InteractionCount int      `json:"interaction_count"`
	MessageCount     int      `json:"message_count"`
	Errors           []string `json:"errors,omitempty"`
}

// SyncUsecase pulls the connected account's media library and comment
// threads into the knowledge store and the approval queue.
type SyncUsecase interface {
	Sync(ctx context.Context, userID string) (*Result, error)
}

// MediaLister is the slice of the Instagram client the sync needs.
type MediaLister interface {
	ListMedia(ctx context.Context, accessToken, pageToken string) (*instagram.MediaPage, error)
	ListComments(ctx context.Context, accessToken, mediaID string) ([]instagram.Comment, error)
}

// AccountResolver maps a local user to their decrypted Instagram account.
type AccountResolver interface {
	InstagramAccount(userID string) (*authusecase.InstagramAccount, error)
}

// Ingestor feeds unanswered comments into the approval workflow.
type Ingestor interface {
	Ingest(ctx context.Context, userID string, message *messagedomain.InboundMessage) (*messagedomain.InboundMessage, error)
}

type syncUsecase struct {
	accounts        AccountResolver
	client          MediaLister
	mediaRepo       knowledgerepo.MediaRepository
	interactionRepo knowledgerepo.InteractionRepository
	ingestor        Ingestor
	sseManager      *sse.Manager // nil in tests
}

func NewSyncUsecase(
	accounts AccountResolver,
	client MediaLister,
	mediaRepo knowledgerepo.MediaRepository,
	interactionRepo knowledgerepo.InteractionRepository,
	ingestor Ingestor,
	sseManager *sse.Manager,
) SyncUsecase {
	return &syncUsecase{
		accounts:        accounts,
		client:          client,
		mediaRepo:       mediaRepo,
		interactionRepo: interactionRepo,
		ingestor:        ingestor,
		sseManager:      sseManager,
	}
}

func (u *syncUsecase) Sync(ctx context.Context, userID string) (*Result, error) {
	account, err := u.accounts.InstagramAccount(userID)
	if err != nil {
		u.emit(userID, "sync_error", map[string]string{"message": err.Error()})
		return nil, err
	}

	media, err := u.fetchMedia(ctx, account.AccessToken)
	if err != nil {
		u.emit(userID, "sync_error", map[string]string{"message": err.Error()})
		return nil, err
	}

	result := &Result{}
	now := time.Now()
	for i, m := range media {
		if err := u.mediaRepo.Upsert(&knowledgedomain.MediaEntry{
			ID:              uuid.New().String(),
			UserID:          userID,
			ExternalMediaID: m.ID,
			Caption:         m.Caption,
			MediaType:       m.MediaType,
			MediaURL:        m.MediaURL,
			ThumbnailURL:    m.ThumbnailURL,
			Permalink:       m.Permalink,
			PostedAt:        m.Timestamp,
			SyncedAt:        now,
		}); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("media %s: %v", m.ID, err))
			log.Printf("[Sync] Failed to store media %s: %v", m.ID, err)
			continue
		}
		result.MediaCount++

		u.syncComments(ctx, userID, account, m, result)

		u.emit(userID, "sync_progress", map[string]int{
			"percent": (i + 1) * 100 / len(media),
		})
	}

	u.emit(userID, "sync_complete", result)
	log.Printf("[Sync] User %s: %d media, %d interactions, %d new messages, %d errors",
		userID, result.MediaCount, result.InteractionCount, result.MessageCount, len(result.Errors))
	return result, nil
}

// fetchMedia pages through the media listing up to the knowledge-store cap.
func (u *syncUsecase) fetchMedia(ctx context.Context, accessToken string) ([]instagram.Media, error) {
	var media []instagram.Media
	pageToken := ""
	for {
		page, err := u.client.ListMedia(ctx, accessToken, pageToken)
		if err != nil {
			return nil, err
		}
		media = append(media, page.Items...)
		// An empty page ends the walk even when a cursor is present.
		if len(page.Items) == 0 || page.NextPageToken == "" || len(media) >= knowledgedomain.MediaEntryCap {
			break
		}
		pageToken = page.NextPageToken
	}
	if len(media) > knowledgedomain.MediaEntryCap {
		media = media[:knowledgedomain.MediaEntryCap]
	}
	return media, nil
}

// syncComments classifies each foreign comment on one post: already answered
// by the owner becomes an interaction pair, unanswered enters the approval
// workflow.
func (u *syncUsecase) syncComments(ctx context.Context, userID string, account *authusecase.InstagramAccount, m instagram.Media, result *Result) {
	comments, err := u.client.ListComments(ctx, account.AccessToken, m.ID)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("comments of %s: %v", m.ID, err))
		log.Printf("[Sync] Failed to list comments of %s: %v", m.ID, err)
		return
	}

	for _, comment := range comments {
		if ownComment(comment.From, account) {
			continue
		}

		if reply, ok := ownerReply(comment.Replies, account); ok {
			if err := u.interactionRepo.Add(&knowledgedomain.InteractionEntry{
				UserID:            userID,
				ExternalCommentID: comment.ID,
				Channel:           knowledgedomain.ChannelPublicComment,
				SenderID:          comment.From.ID,
				SenderUsername:    comment.From.Username,
				UserMessage:       comment.Text,
				MyResponse:        reply.Text,
				PostContext:       m.Caption,
				InteractedAt:      reply.Timestamp,
			}); err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("interaction %s: %v", comment.ID, err))
				continue
			}
			result.InteractionCount++
			continue
		}

		ingested, err := u.ingestor.Ingest(ctx, userID, &messagedomain.InboundMessage{
			ExternalID:     comment.ID,
			Type:           messagedomain.MessageTypeComment,
			SenderID:       comment.From.ID,
			SenderUsername: comment.From.Username,
			Content:        comment.Text,
			PostID:         m.ID,
			PostCaption:    m.Caption,
			PostPermalink:  m.Permalink,
		})
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("comment %s: %v", comment.ID, err))
			continue
		}
		if ingested != nil {
			result.MessageCount++
		}
	}
}

func (u *syncUsecase) emit(userID, event string, payload interface{}) {
	if u.sseManager != nil {
		u.sseManager.SendToUser(userID, event, payload)
	}
}

func ownComment(author instagram.CommentAuthor, account *authusecase.InstagramAccount) bool {
	return author.ID == account.IGUserID || author.Username == account.Username
}

func ownerReply(replies []instagram.Comment, account *authusecase.InstagramAccount) (*instagram.Comment, bool) {
	for i := range replies {
		if ownComment(replies[i].From, account) {
			return &replies[i], true
		}
	}
	return nil, false
}
