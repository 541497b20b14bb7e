package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"TripPlanner-App/internal/domain/model"
	"TripPlanner-App/internal/domain/service"
)

// SavedTripsHandler 保存済みトリップに関するHTTPハンドラー
type SavedTripsHandler struct {
	registry service.SavedTripRegistry
}

// NewSavedTripsHandler SavedTripsHandlerの新しいインスタンスを作成
func NewSavedTripsHandler(registry service.SavedTripRegistry) *SavedTripsHandler {
	return &SavedTripsHandler{
		registry: registry,
	}
}

// ListSavedTrips GET /saved-trips - 保存済みトリップ一覧
func (h *SavedTripsHandler) ListSavedTrips(c *gin.Context) {
	snapshots, err := h.registry.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trips": snapshots})
}

// CreateSavedTrip POST /saved-trips - アクティブなトリップを保存
func (h *SavedTripsHandler) CreateSavedTrip(c *gin.Context) {
	var req model.SaveTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	snapshot, err := h.registry.Save(c.Request.Context(), sessionFrom(c), req.Name, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, snapshot)
}

// GetSavedTrip GET /saved-trips/:id - 保存済みトリップの詳細
func (h *SavedTripsHandler) GetSavedTrip(c *gin.Context) {
	snapshot, err := h.registry.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if snapshot == nil {
		respondError(c, model.ErrSavedTripNotFound)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

// UpdateSavedTrip PUT /saved-trips/:id - 保存済みトリップをアクティブなトリップで上書き
func (h *SavedTripsHandler) UpdateSavedTrip(c *gin.Context) {
	var req model.SaveTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	snapshot, err := h.registry.Update(c.Request.Context(), sessionFrom(c), c.Param("id"), req.Name, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

// DeleteSavedTrip DELETE /saved-trips/:id - 保存済みトリップを削除 (存在しなくても成功)
func (h *SavedTripsHandler) DeleteSavedTrip(c *gin.Context) {
	if err := h.registry.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// LoadSavedTrip POST /saved-trips/:id/load - 保存済みトリップをアクティブなトリップとして読み込む
func (h *SavedTripsHandler) LoadSavedTrip(c *gin.Context) {
	snapshot, err := h.registry.LoadIntoActive(c.Request.Context(), sessionFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}
