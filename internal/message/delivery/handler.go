package delivery

import (
	"net/http"
	"strconv"
	"time"

	knowledgedomain "github.com/gustavorubino/Insta-Replyer-sub002/internal/knowledge/domain"
	knowledgedto "github.com/gustavorubino/Insta-Replyer-sub002/internal/knowledge/dto"
	knowledgeusecase "github.com/gustavorubino/Insta-Replyer-sub002/internal/knowledge/usecase"
	"github.com/gustavorubino/Insta-Replyer-sub002/internal/message/dto"
	"github.com/gustavorubino/Insta-Replyer-sub002/internal/message/usecase"
	"github.com/gustavorubino/Insta-Replyer-sub002/pkg/apperr"

	"github.com/gin-gonic/gin"
)

type MessageHandler struct {
	messageUsecase   usecase.MessageUsecase
	knowledgeUsecase knowledgeusecase.KnowledgeUsecase
}

func NewMessageHandler(messageUsecase usecase.MessageUsecase, knowledgeUsecase knowledgeusecase.KnowledgeUsecase) *MessageHandler {
	return &MessageHandler{
		messageUsecase:   messageUsecase,
		knowledgeUsecase: knowledgeUsecase,
	}
}

func codedError(c *gin.Context, err error) {
	c.JSON(apperr.HTTPStatus(err), gin.H{"error": gin.H{"code": apperr.CodeOf(err), "message": err.Error()}})
}

func (h *MessageHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	messages, err := h.messageUsecase.List(c.GetString("userID"), c.Query("status"), limit, offset)
	if err != nil {
		codedError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

func (h *MessageHandler) Get(c *gin.Context) {
	message, err := h.messageUsecase.Get(c.GetString("userID"), c.Param("id"))
	if err != nil {
		codedError(c, err)
		return
	}
	c.JSON(http.StatusOK, message)
}

func (h *MessageHandler) Approve(c *gin.Context) {
	var req dto.ApproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.messageUsecase.Approve(c.Request.Context(), c.GetString("userID"), c.Param("id"), &req)
	if err != nil {
		codedError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *MessageHandler) Reject(c *gin.Context) {
	if err := h.messageUsecase.Reject(c.GetString("userID"), c.Param("id")); err != nil {
		codedError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "rejected"})
}

func (h *MessageHandler) Regenerate(c *gin.Context) {
	draft, err := h.messageUsecase.Regenerate(c.Request.Context(), c.GetString("userID"), c.Param("id"))
	if err != nil {
		codedError(c, err)
		return
	}
	c.JSON(http.StatusOK, draft)
}

func (h *MessageHandler) Feedback(c *gin.Context) {
	var req dto.FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.messageUsecase.Feedback(c.GetString("userID"), c.Param("id"), req.Feedback); err != nil {
		codedError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "feedback recorded"})
}

func (h *MessageHandler) DeleteProcessed(c *gin.Context) {
	before, err := time.Parse(time.RFC3339, c.Query("before"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "before must be an RFC3339 timestamp"})
		return
	}

	deleted, err := h.messageUsecase.DeleteProcessed(c.GetString("userID"), before)
	if err != nil {
		codedError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

func (h *MessageHandler) SimulatorAsk(c *gin.Context) {
	var req dto.SimulatorAskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.messageUsecase.SimulateAsk(c.Request.Context(), c.GetString("userID"), req.Question)
	if err != nil {
		codedError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *MessageHandler) SimulatorCorrect(c *gin.Context) {
	var req dto.SimulatorCorrectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	correction, err := h.knowledgeUsecase.AddCorrection(
		c.Request.Context(),
		c.GetString("userID"),
		&knowledgedto.AddCorrectionRequest{Question: req.Question, Answer: req.ExpectedAnswer},
		knowledgedomain.SourceSimulator,
	)
	if err != nil {
		codedError(c, err)
		return
	}
	c.JSON(http.StatusCreated, correction)
}
