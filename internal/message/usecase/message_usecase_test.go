package usecase

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	authusecase "github.com/gustavorubino/Insta-Replyer-sub002/internal/auth/usecase"
	knowledgedomain "github.com/gustavorubino/Insta-Replyer-sub002/internal/knowledge/domain"
	knowledgerepo "github.com/gustavorubino/Insta-Replyer-sub002/internal/knowledge/repository"
	"github.com/gustavorubino/Insta-Replyer-sub002/internal/message/domain"
	"github.com/gustavorubino/Insta-Replyer-sub002/internal/message/dto"
	"github.com/gustavorubino/Insta-Replyer-sub002/internal/message/repository"
	settingsdomain "github.com/gustavorubino/Insta-Replyer-sub002/internal/settings/domain"
	settingsrepo "github.com/gustavorubino/Insta-Replyer-sub002/internal/settings/repository"
	settingsusecase "github.com/gustavorubino/Insta-Replyer-sub002/internal/settings/usecase"
	"github.com/gustavorubino/Insta-Replyer-sub002/pkg/ai"
	"github.com/gustavorubino/Insta-Replyer-sub002/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fakeResponder struct {
	reply *ai.Reply
	err   error
	calls int
}

func (f *fakeResponder) GenerateReply(ctx context.Context, systemPrompt, message string) (*ai.Reply, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	r := *f.reply
	return &r, nil
}

func (f *fakeResponder) GeneratePersona(ctx context.Context, prompt string) (string, error) {
	return "", errors.New("not implemented")
}

type fakeSender struct {
	err          error
	dmCalls      int
	commentCalls int
	lastText     string
}

func (f *fakeSender) SendMessage(ctx context.Context, accessToken, recipientID, text string) error {
	f.dmCalls++
	f.lastText = text
	return f.err
}

func (f *fakeSender) SendCommentReply(ctx context.Context, accessToken, commentID, text string) error {
	f.commentCalls++
	f.lastText = text
	return f.err
}

type fakeAccounts struct {
	err error
}

func (f *fakeAccounts) InstagramAccount(userID string) (*authusecase.InstagramAccount, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &authusecase.InstagramAccount{
		UserID:      userID,
		IGUserID:    "ig-1",
		Username:    "owner",
		AccessToken: "tok",
	}, nil
}

type workflow struct {
	uc             MessageUsecase
	db             *gorm.DB
	responder      *fakeResponder
	sender         *fakeSender
	correctionRepo knowledgerepo.CorrectionRepository
	draftRepo      repository.DraftRepository
}

func newWorkflow(t *testing.T, mode settingsdomain.OperationMode, threshold int) *workflow {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "test.db") + "?_busy_timeout=10000&_txlock=immediate"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.InboundMessage{},
		&domain.DraftResponse{},
		&knowledgedomain.ManualCorrection{},
		&knowledgedomain.MediaEntry{},
		&knowledgedomain.InteractionEntry{},
		&knowledgedomain.Guideline{},
		&settingsdomain.GlobalSettings{},
		&settingsdomain.UserSettings{},
	))

	sRepo := settingsrepo.NewSettingsRepository(db)
	global, err := sRepo.GetGlobal()
	require.NoError(t, err)
	global.OperationMode = mode
	global.ConfidenceThreshold = threshold
	require.NoError(t, sRepo.UpdateGlobal(global))

	responder := &fakeResponder{reply: &ai.Reply{Text: "suggested reply", Confidence: 0.9}}
	sender := &fakeSender{}
	correctionRepo := knowledgerepo.NewCorrectionRepository(db)
	draftRepo := repository.NewDraftRepository(db)

	uc := NewMessageUsecase(
		repository.NewMessageRepository(db),
		draftRepo,
		correctionRepo,
		knowledgerepo.NewMediaRepository(db),
		knowledgerepo.NewInteractionRepository(db),
		knowledgerepo.NewGuidelineRepository(db),
		settingsusecase.NewSettingsUsecase(sRepo),
		responder,
		sender,
		&fakeAccounts{},
		func(igUserID string) (string, error) { return "", nil },
		nil,
		nil,
		5*time.Second,
	)

	return &workflow{
		uc:             uc,
		db:             db,
		responder:      responder,
		sender:         sender,
		correctionRepo: correctionRepo,
		draftRepo:      draftRepo,
	}
}

func newDM(externalID, content string) *domain.InboundMessage {
	return &domain.InboundMessage{
		ExternalID: externalID,
		Type:       domain.MessageTypeDM,
		SenderID:   "follower-1",
		Content:    content,
	}
}

func TestIngestIsIdempotent(t *testing.T) {
	w := newWorkflow(t, settingsdomain.ModeManual, 80)
	ctx := context.Background()

	first, err := w.uc.Ingest(ctx, "u1", newDM("ext-1", "hello"))
	require.NoError(t, err)
	require.NotNil(t, first)

	second, err := w.uc.Ingest(ctx, "u1", newDM("ext-1", "hello"))
	require.NoError(t, err)
	assert.Nil(t, second)

	var count int64
	require.NoError(t, w.db.Model(&domain.InboundMessage{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
	assert.Equal(t, 1, w.responder.calls)
}

func TestManualModeAlwaysQueues(t *testing.T) {
	w := newWorkflow(t, settingsdomain.ModeManual, 80)
	w.responder.reply = &ai.Reply{Text: "sure!", Confidence: 0.99}

	msg, err := w.uc.Ingest(context.Background(), "u1", newDM("ext-1", "open today?"))
	require.NoError(t, err)

	stored, err := w.uc.Get("u1", msg.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, stored.Status)
	require.NotNil(t, stored.Draft)
	assert.Equal(t, "sure!", stored.Draft.SuggestedResponse)
	assert.Equal(t, 0, w.sender.dmCalls)
}

func TestAutoModeAlwaysSends(t *testing.T) {
	w := newWorkflow(t, settingsdomain.ModeAuto, 80)
	w.responder.reply = &ai.Reply{Text: "low confidence answer", Confidence: 0.05}

	msg, err := w.uc.Ingest(context.Background(), "u1", newDM("ext-1", "hi"))
	require.NoError(t, err)

	stored, err := w.uc.Get("u1", msg.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAutoSent, stored.Status)
	assert.Equal(t, 1, w.sender.dmCalls)
	require.NotNil(t, stored.Draft)
	assert.Equal(t, "low confidence answer", stored.Draft.FinalResponse)
	require.NotNil(t, stored.Draft.WasApproved)
	assert.True(t, *stored.Draft.WasApproved)
}

func TestSemiAutoThresholdGate(t *testing.T) {
	t.Run("confidence at threshold auto-sends", func(t *testing.T) {
		w := newWorkflow(t, settingsdomain.ModeSemiAuto, 80)
		w.responder.reply = &ai.Reply{Text: "reply", Confidence: 0.80}

		msg, err := w.uc.Ingest(context.Background(), "u1", newDM("ext-1", "hi"))
		require.NoError(t, err)

		stored, err := w.uc.Get("u1", msg.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusAutoSent, stored.Status)
		assert.Equal(t, 1, w.sender.dmCalls)
	})

	t.Run("confidence just below threshold queues", func(t *testing.T) {
		w := newWorkflow(t, settingsdomain.ModeSemiAuto, 80)
		w.responder.reply = &ai.Reply{Text: "reply", Confidence: 0.79}

		msg, err := w.uc.Ingest(context.Background(), "u1", newDM("ext-1", "hi"))
		require.NoError(t, err)

		stored, err := w.uc.Get("u1", msg.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusPending, stored.Status)
		assert.Equal(t, 0, w.sender.dmCalls)
	})
}

func TestFailedAutoSendFallsBackToQueue(t *testing.T) {
	w := newWorkflow(t, settingsdomain.ModeAuto, 80)
	w.sender.err = apperr.New(apperr.CodeSendFailed, "recipient unavailable")

	msg, err := w.uc.Ingest(context.Background(), "u1", newDM("ext-1", "hi"))
	require.NoError(t, err)

	stored, err := w.uc.Get("u1", msg.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, stored.Status)
	require.NotNil(t, stored.Draft)
	assert.Empty(t, stored.Draft.FinalResponse)
	assert.Equal(t, 1, w.sender.dmCalls)
}

func TestDraftingFailureLeavesMessagePending(t *testing.T) {
	w := newWorkflow(t, settingsdomain.ModeAuto, 80)
	w.responder.err = apperr.New(apperr.CodeRateLimit, "quota exhausted")

	msg, err := w.uc.Ingest(context.Background(), "u1", newDM("ext-1", "hi"))
	require.NoError(t, err)

	stored, err := w.uc.Get("u1", msg.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, stored.Status)
	assert.Nil(t, stored.Draft)
	assert.Equal(t, 0, w.sender.dmCalls)
}

func TestApproveSendsResponse(t *testing.T) {
	w := newWorkflow(t, settingsdomain.ModeManual, 80)
	ctx := context.Background()

	msg, err := w.uc.Ingest(ctx, "u1", newDM("ext-1", "do you ship?"))
	require.NoError(t, err)

	resp, err := w.uc.Approve(ctx, "u1", msg.ID, &dto.ApproveRequest{Response: "suggested reply"})
	require.NoError(t, err)
	assert.Empty(t, resp.SendError)
	assert.Equal(t, 1, w.sender.dmCalls)
	assert.Equal(t, "suggested reply", w.sender.lastText)

	stored, err := w.uc.Get("u1", msg.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, stored.Status)
	require.NotNil(t, stored.Draft.WasApproved)
	assert.True(t, *stored.Draft.WasApproved)
	assert.False(t, stored.Draft.WasEdited)

	// Unedited approvals do not become corrections.
	count, err := w.correctionRepo.CountByUser("u1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestApproveEditedRecordsExactlyOneCorrection(t *testing.T) {
	w := newWorkflow(t, settingsdomain.ModeManual, 80)
	ctx := context.Background()
	w.responder.reply = &ai.Reply{Text: "R$45", Confidence: 0.7}

	msg, err := w.uc.Ingest(ctx, "u1", newDM("ext-1", "Qual o preco?"))
	require.NoError(t, err)

	resp, err := w.uc.Approve(ctx, "u1", msg.ID, &dto.ApproveRequest{Response: "R$50", WasEdited: true})
	require.NoError(t, err)
	assert.Empty(t, resp.SendError)

	corrections, err := w.correctionRepo.ListByUser("u1")
	require.NoError(t, err)
	require.Len(t, corrections, 1)
	assert.Equal(t, "Qual o preco?", corrections[0].Question)
	assert.Equal(t, "R$50", corrections[0].Answer)
	assert.Equal(t, knowledgedomain.SourceApprovalQueue, corrections[0].Source)

	// A second disposition is refused and changes nothing.
	_, err = w.uc.Approve(ctx, "u1", msg.ID, &dto.ApproveRequest{Response: "R$999", WasEdited: true})
	assert.Equal(t, apperr.CodeAlreadyProcessed, apperr.CodeOf(err))

	stored, err := w.uc.Get("u1", msg.ID)
	require.NoError(t, err)
	assert.Equal(t, "R$50", stored.Draft.FinalResponse)

	corrections, err = w.correctionRepo.ListByUser("u1")
	require.NoError(t, err)
	assert.Len(t, corrections, 1)
}

func TestRejectIsTerminal(t *testing.T) {
	w := newWorkflow(t, settingsdomain.ModeManual, 80)
	ctx := context.Background()

	msg, err := w.uc.Ingest(ctx, "u1", newDM("ext-1", "spam"))
	require.NoError(t, err)

	require.NoError(t, w.uc.Reject("u1", msg.ID))

	stored, err := w.uc.Get("u1", msg.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, stored.Status)
	require.NotNil(t, stored.Draft.WasApproved)
	assert.False(t, *stored.Draft.WasApproved)

	err = w.uc.Reject("u1", msg.ID)
	assert.Equal(t, apperr.CodeAlreadyProcessed, apperr.CodeOf(err))

	_, err = w.uc.Approve(ctx, "u1", msg.ID, &dto.ApproveRequest{Response: "nope"})
	assert.Equal(t, apperr.CodeAlreadyProcessed, apperr.CodeOf(err))
	assert.Equal(t, 0, w.sender.dmCalls)
}

func TestApprovePersistsWhenSendFails(t *testing.T) {
	w := newWorkflow(t, settingsdomain.ModeManual, 80)
	ctx := context.Background()

	msg, err := w.uc.Ingest(ctx, "u1", newDM("ext-1", "hi"))
	require.NoError(t, err)

	w.sender.err = apperr.New(apperr.CodeSendFailed, "network down")
	resp, err := w.uc.Approve(ctx, "u1", msg.ID, &dto.ApproveRequest{Response: "answer"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.SendError)

	stored, err := w.uc.Get("u1", msg.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, stored.Status)
}

func TestApproveCommentRepliesUnderComment(t *testing.T) {
	w := newWorkflow(t, settingsdomain.ModeManual, 80)
	ctx := context.Background()

	msg, err := w.uc.Ingest(ctx, "u1", &domain.InboundMessage{
		ExternalID:     "comment-1",
		Type:           domain.MessageTypeComment,
		SenderID:       "fan-1",
		SenderUsername: "fan",
		Content:        "love it",
		PostID:         "post-1",
	})
	require.NoError(t, err)

	_, err = w.uc.Approve(ctx, "u1", msg.ID, &dto.ApproveRequest{Response: "thanks!"})
	require.NoError(t, err)
	assert.Equal(t, 1, w.sender.commentCalls)
	assert.Equal(t, 0, w.sender.dmCalls)
}

func TestRegenerateFailureLeavesDraftIntact(t *testing.T) {
	w := newWorkflow(t, settingsdomain.ModeManual, 80)
	ctx := context.Background()

	msg, err := w.uc.Ingest(ctx, "u1", newDM("ext-1", "hi"))
	require.NoError(t, err)

	w.responder.err = apperr.New(apperr.CodeTimeout, "model timed out")
	_, err = w.uc.Regenerate(ctx, "u1", msg.ID)
	assert.Equal(t, apperr.CodeTimeout, apperr.CodeOf(err))

	stored, err := w.uc.Get("u1", msg.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.Draft)
	assert.Equal(t, "suggested reply", stored.Draft.SuggestedResponse)
	assert.Equal(t, domain.StatusPending, stored.Status)
}

func TestRegenerateOverwritesSuggestionOnly(t *testing.T) {
	w := newWorkflow(t, settingsdomain.ModeManual, 80)
	ctx := context.Background()

	msg, err := w.uc.Ingest(ctx, "u1", newDM("ext-1", "hi"))
	require.NoError(t, err)
	require.NoError(t, w.uc.Feedback("u1", msg.ID, "too formal"))

	w.responder.reply = &ai.Reply{Text: "fresh take", Confidence: 0.6}
	draft, err := w.uc.Regenerate(ctx, "u1", msg.ID)
	require.NoError(t, err)
	assert.Equal(t, "fresh take", draft.SuggestedResponse)
	assert.InDelta(t, 0.6, draft.ConfidenceScore, 1e-9)
	assert.Equal(t, "too formal", draft.HumanFeedback)
}

func TestRegenerateRefusedOnResolvedMessage(t *testing.T) {
	w := newWorkflow(t, settingsdomain.ModeManual, 80)
	ctx := context.Background()

	msg, err := w.uc.Ingest(ctx, "u1", newDM("ext-1", "hi"))
	require.NoError(t, err)
	require.NoError(t, w.uc.Reject("u1", msg.ID))

	_, err = w.uc.Regenerate(ctx, "u1", msg.ID)
	assert.Equal(t, apperr.CodeAlreadyProcessed, apperr.CodeOf(err))
}

func TestListFiltersByStatus(t *testing.T) {
	w := newWorkflow(t, settingsdomain.ModeManual, 80)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := w.uc.Ingest(ctx, "u1", newDM(fmt.Sprintf("ext-%d", i), "hi"))
		require.NoError(t, err)
	}
	pending, err := w.uc.List("u1", "pending", 10, 0)
	require.NoError(t, err)
	require.Len(t, pending, 3)

	require.NoError(t, w.uc.Reject("u1", pending[0].ID))

	pending, err = w.uc.List("u1", "pending", 10, 0)
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	rejected, err := w.uc.List("u1", "rejected", 10, 0)
	require.NoError(t, err)
	assert.Len(t, rejected, 1)

	_, err = w.uc.List("u1", "bogus", 10, 0)
	assert.Equal(t, apperr.CodeValidation, apperr.CodeOf(err))
}

func TestDeleteProcessedKeepsPendingAndRecent(t *testing.T) {
	w := newWorkflow(t, settingsdomain.ModeAuto, 80)
	ctx := context.Background()

	// Auto mode resolves these immediately.
	oldMsg, err := w.uc.Ingest(ctx, "u1", newDM("ext-old", "old"))
	require.NoError(t, err)
	newMsg, err := w.uc.Ingest(ctx, "u1", newDM("ext-new", "new"))
	require.NoError(t, err)

	// A pending one, older than the cutoff.
	w.responder.err = errors.New("ai down")
	pendingMsg, err := w.uc.Ingest(ctx, "u1", newDM("ext-pending", "pending"))
	require.NoError(t, err)

	backdate := time.Now().Add(-48 * time.Hour)
	require.NoError(t, w.db.Model(&domain.InboundMessage{}).
		Where("id IN ?", []string{oldMsg.ID, pendingMsg.ID}).
		Update("created_at", backdate).Error)

	deleted, err := w.uc.DeleteProcessed("u1", time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, err = w.uc.Get("u1", oldMsg.ID)
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))

	// The cascade removed the old draft too.
	draft, err := w.draftRepo.FindByMessageID(oldMsg.ID)
	require.NoError(t, err)
	assert.Nil(t, draft)

	_, err = w.uc.Get("u1", newMsg.ID)
	assert.NoError(t, err)
	_, err = w.uc.Get("u1", pendingMsg.ID)
	assert.NoError(t, err)
}

func TestSimulateAskPersistsNothing(t *testing.T) {
	w := newWorkflow(t, settingsdomain.ModeAuto, 80)
	w.responder.reply = &ai.Reply{Text: "we open at 9", Confidence: 0.88}

	resp, err := w.uc.SimulateAsk(context.Background(), "u1", "when do you open?")
	require.NoError(t, err)
	assert.Equal(t, "we open at 9", resp.Response)
	assert.InDelta(t, 0.88, resp.Confidence, 1e-9)

	var count int64
	require.NoError(t, w.db.Model(&domain.InboundMessage{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
	assert.Equal(t, 0, w.sender.dmCalls)
}

func TestApproveWorksWhenDraftingHadFailed(t *testing.T) {
	w := newWorkflow(t, settingsdomain.ModeManual, 80)
	ctx := context.Background()

	w.responder.err = errors.New("ai down")
	msg, err := w.uc.Ingest(ctx, "u1", newDM("ext-1", "hi"))
	require.NoError(t, err)

	resp, err := w.uc.Approve(ctx, "u1", msg.ID, &dto.ApproveRequest{Response: "manual answer", WasEdited: true})
	require.NoError(t, err)
	assert.Empty(t, resp.SendError)

	stored, err := w.uc.Get("u1", msg.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, stored.Status)
	require.NotNil(t, stored.Draft)
	assert.Equal(t, "manual answer", stored.Draft.FinalResponse)
}
