package delivery

import (
	"net/http"

	authdomain "github.com/gustavorubino/Insta-Replyer-sub002/internal/auth/domain"
	authdto "github.com/gustavorubino/Insta-Replyer-sub002/internal/auth/dto"
	"github.com/gustavorubino/Insta-Replyer-sub002/internal/auth/repository"
	"github.com/gustavorubino/Insta-Replyer-sub002/internal/auth/usecase"
	"github.com/gustavorubino/Insta-Replyer-sub002/pkg/apperr"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authUsecase usecase.AuthUsecase
	fcmRepo     repository.FCMTokenRepository
}

func NewAuthHandler(authUsecase usecase.AuthUsecase, fcmRepo repository.FCMTokenRepository) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
		fcmRepo:     fcmRepo,
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req authdto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.authUsecase.Register(&req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req authdto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.authUsecase.Login(&req)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req authdto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.authUsecase.RefreshToken(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	var req authdto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.authUsecase.Logout(req.RefreshToken); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

func (h *AuthHandler) Me(c *gin.Context) {
	user := c.MustGet("user").(*authdomain.User)
	c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) ConnectInstagram(c *gin.Context) {
	var req authdto.ConnectInstagramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetString("userID")
	user, err := h.authUsecase.ConnectInstagram(c.Request.Context(), userID, req.Code)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": gin.H{"code": apperr.CodeOf(err), "message": err.Error()}})
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) DisconnectInstagram(c *gin.Context) {
	userID := c.GetString("userID")
	if err := h.authUsecase.DisconnectInstagram(userID); err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": gin.H{"code": apperr.CodeOf(err), "message": err.Error()}})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "instagram account disconnected"})
}

func (h *AuthHandler) RegisterFCMToken(c *gin.Context) {
	var req authdto.RegisterFCMTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetString("userID")
	if err := h.fcmRepo.Register(userID, req.Token, req.DeviceInfo); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "token registered"})
}

func (h *AuthHandler) UnregisterFCMToken(c *gin.Context) {
	token := c.Param("token")
	if err := h.fcmRepo.Remove(token); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "token removed"})
}
