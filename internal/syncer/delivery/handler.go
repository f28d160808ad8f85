package delivery

import (
	"net/http"

	"github.com/gustavorubino/Insta-Replyer-sub002/internal/syncer/usecase"
	"github.com/gustavorubino/Insta-Replyer-sub002/pkg/apperr"

	"github.com/gin-gonic/gin"
)

type SyncHandler struct {
	syncUsecase usecase.SyncUsecase
}

func NewSyncHandler(syncUsecase usecase.SyncUsecase) *SyncHandler {
	return &SyncHandler{syncUsecase: syncUsecase}
}

// Sync runs in the request; progress streams over /api/events while the
// response carries the final counts.
func (h *SyncHandler) Sync(c *gin.Context) {
	result, err := h.syncUsecase.Sync(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": gin.H{"code": apperr.CodeOf(err), "message": err.Error()}})
		return
	}
	c.JSON(http.StatusOK, result)
}
