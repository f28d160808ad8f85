package delivery

import (
	"net/http"

	"github.com/gustavorubino/Insta-Replyer-sub002/internal/settings/dto"
	"github.com/gustavorubino/Insta-Replyer-sub002/internal/settings/usecase"
	"github.com/gustavorubino/Insta-Replyer-sub002/pkg/apperr"

	"github.com/gin-gonic/gin"
)

type SettingsHandler struct {
	settingsUsecase usecase.SettingsUsecase
}

func NewSettingsHandler(settingsUsecase usecase.SettingsUsecase) *SettingsHandler {
	return &SettingsHandler{settingsUsecase: settingsUsecase}
}

func codedError(c *gin.Context, err error) {
	c.JSON(apperr.HTTPStatus(err), gin.H{"error": gin.H{"code": apperr.CodeOf(err), "message": err.Error()}})
}

func (h *SettingsHandler) GetUserSettings(c *gin.Context) {
	resp, err := h.settingsUsecase.GetUserSettings(c.GetString("userID"))
	if err != nil {
		codedError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SettingsHandler) UpdateUserSettings(c *gin.Context) {
	var req dto.UpdateUserSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.settingsUsecase.UpdateUserSettings(c.GetString("userID"), &req)
	if err != nil {
		codedError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SettingsHandler) GetGlobalSettings(c *gin.Context) {
	global, err := h.settingsUsecase.GetGlobal()
	if err != nil {
		codedError(c, err)
		return
	}
	c.JSON(http.StatusOK, global)
}

func (h *SettingsHandler) UpdateGlobalSettings(c *gin.Context) {
	var req dto.UpdateGlobalSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	global, err := h.settingsUsecase.UpdateGlobal(&req)
	if err != nil {
		codedError(c, err)
		return
	}
	c.JSON(http.StatusOK, global)
}
