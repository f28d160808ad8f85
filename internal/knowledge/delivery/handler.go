package delivery

import (
	"net/http"

	"github.com/gustavorubino/Insta-Replyer-sub002/internal/knowledge/domain"
	"github.com/gustavorubino/Insta-Replyer-sub002/internal/knowledge/dto"
	"github.com/gustavorubino/Insta-Replyer-sub002/internal/knowledge/usecase"
	"github.com/gustavorubino/Insta-Replyer-sub002/pkg/apperr"

	"github.com/gin-gonic/gin"
)

type KnowledgeHandler struct {
	knowledgeUsecase usecase.KnowledgeUsecase
}

func NewKnowledgeHandler(knowledgeUsecase usecase.KnowledgeUsecase) *KnowledgeHandler {
	return &KnowledgeHandler{knowledgeUsecase: knowledgeUsecase}
}

func codedError(c *gin.Context, err error) {
	c.JSON(apperr.HTTPStatus(err), gin.H{"error": gin.H{"code": apperr.CodeOf(err), "message": err.Error()}})
}

func (h *KnowledgeHandler) ListCorrections(c *gin.Context) {
	corrections, err := h.knowledgeUsecase.ListCorrections(c.GetString("userID"))
	if err != nil {
		codedError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"corrections": corrections})
}

func (h *KnowledgeHandler) AddCorrection(c *gin.Context) {
	var req dto.AddCorrectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	correction, err := h.knowledgeUsecase.AddCorrection(c.Request.Context(), c.GetString("userID"), &req, domain.SourceApprovalQueue)
	if err != nil {
		codedError(c, err)
		return
	}
	c.JSON(http.StatusCreated, correction)
}

func (h *KnowledgeHandler) RemoveCorrection(c *gin.Context) {
	if err := h.knowledgeUsecase.RemoveCorrection(c.Request.Context(), c.GetString("userID"), c.Param("id")); err != nil {
		codedError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "correction removed"})
}

func (h *KnowledgeHandler) ListMedia(c *gin.Context) {
	media, err := h.knowledgeUsecase.ListMedia(c.GetString("userID"))
	if err != nil {
		codedError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"media": media})
}

func (h *KnowledgeHandler) RemoveMedia(c *gin.Context) {
	if err := h.knowledgeUsecase.RemoveMedia(c.GetString("userID"), c.Param("id")); err != nil {
		codedError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "media entry removed"})
}

func (h *KnowledgeHandler) ListInteractions(c *gin.Context) {
	interactions, err := h.knowledgeUsecase.ListInteractions(c.GetString("userID"))
	if err != nil {
		codedError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"interactions": interactions})
}

func (h *KnowledgeHandler) RemoveInteraction(c *gin.Context) {
	if err := h.knowledgeUsecase.RemoveInteraction(c.GetString("userID"), c.Param("id")); err != nil {
		codedError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "interaction removed"})
}

func (h *KnowledgeHandler) ListGuidelines(c *gin.Context) {
	guidelines, err := h.knowledgeUsecase.ListGuidelines(c.GetString("userID"))
	if err != nil {
		codedError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"guidelines": guidelines})
}

func (h *KnowledgeHandler) CreateGuideline(c *gin.Context) {
	var req dto.CreateGuidelineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	guideline, err := h.knowledgeUsecase.CreateGuideline(c.GetString("userID"), &req)
	if err != nil {
		codedError(c, err)
		return
	}
	c.JSON(http.StatusCreated, guideline)
}

func (h *KnowledgeHandler) UpdateGuideline(c *gin.Context) {
	var req dto.UpdateGuidelineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	guideline, err := h.knowledgeUsecase.UpdateGuideline(c.GetString("userID"), c.Param("id"), &req)
	if err != nil {
		codedError(c, err)
		return
	}
	c.JSON(http.StatusOK, guideline)
}

func (h *KnowledgeHandler) RemoveGuideline(c *gin.Context) {
	if err := h.knowledgeUsecase.RemoveGuideline(c.GetString("userID"), c.Param("id")); err != nil {
		codedError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "guideline removed"})
}

func (h *KnowledgeHandler) GeneratePersona(c *gin.Context) {
	persona, err := h.knowledgeUsecase.GeneratePersona(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		codedError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.GeneratePersonaResponse{Persona: persona})
}
