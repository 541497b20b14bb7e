package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"TripPlanner-App/internal/domain/service"
)

// ShareHandler は共有URLからのトリップ読み込みを扱う
type ShareHandler struct {
	shareCodec service.ShareCodec
}

// NewShareHandler は新しいShareHandlerインスタンスを作成
func NewShareHandler(shareCodec service.ShareCodec) *ShareHandler {
	return &ShareHandler{shareCodec: shareCodec}
}

// GetSharedTrip GET /shared/trip?data=<token> - 共有トリップをアクティブなトリップとして読み込む
func (h *ShareHandler) GetSharedTrip(c *gin.Context) {
	token := c.Query(service.ShareQueryParam)
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "missing_parameter",
			"message": "data parameter is required",
		})
		return
	}

	shared, err := h.shareCodec.ImportIntoActive(c.Request.Context(), sessionFrom(c), token)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, shared)
}
