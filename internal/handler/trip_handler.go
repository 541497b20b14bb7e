package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"TripPlanner-App/internal/domain/model"
	"TripPlanner-App/internal/domain/service"
	"TripPlanner-App/internal/usecase"
)

// TripHandler はアクティブなトリップに関するHTTPハンドラー
type TripHandler struct {
	planningUseCase usecase.TripPlanningUseCase
	shareCodec      service.ShareCodec
	publicBaseURL   string
}

// NewTripHandler は新しいTripHandlerインスタンスを作成
// publicBaseURL が空の場合、共有URLはリクエストのホストから組み立てる
func NewTripHandler(planningUseCase usecase.TripPlanningUseCase, shareCodec service.ShareCodec, publicBaseURL string) *TripHandler {
	return &TripHandler{
		planningUseCase: planningUseCase,
		shareCodec:      shareCodec,
		publicBaseURL:   publicBaseURL,
	}
}

// PostTrip POST /trips - 新しいトリップを開始
func (h *TripHandler) PostTrip(c *gin.Context) {
	var req model.StartTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	trip, route, err := h.planningUseCase.StartTrip(c.Request.Context(), sessionFrom(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"trip":  trip,
		"route": route,
	})
}

// GetActiveTrip GET /trips/active - アクティブなトリップを取得
func (h *TripHandler) GetActiveTrip(c *gin.Context) {
	trip, err := sessionFrom(c).GetActiveTrip(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if trip == nil {
		respondError(c, model.ErrNoActiveTrip)
		return
	}
	c.JSON(http.StatusOK, trip)
}

// PutActiveTrip PUT /trips/active - アクティブなトリップを上書き
func (h *TripHandler) PutActiveTrip(c *gin.Context) {
	var trip model.TripRecord
	if err := c.ShouldBindJSON(&trip); err != nil {
		respondBindError(c, err)
		return
	}

	session := sessionFrom(c)
	if err := session.UpdateActiveTrip(c.Request.Context(), &trip); err != nil {
		respondError(c, err)
		return
	}

	updated, err := session.GetActiveTrip(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// PostPlace POST /trips/active/places - スポットをトリップに追加
func (h *TripHandler) PostPlace(c *gin.Context) {
	var place model.TripPlace
	if err := c.ShouldBindJSON(&place); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.planningUseCase.AddPlace(c.Request.Context(), sessionFrom(c), place)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// PostCachedPlace POST /trips/active/places-cache/:placeId/add - 検索済みスポットをトリップに追加
func (h *TripHandler) PostCachedPlace(c *gin.Context) {
	result, err := h.planningUseCase.AddCachedPlace(c.Request.Context(), sessionFrom(c), c.Param("placeId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetRoute GET /trips/active/route - 経路要約を取得
func (h *TripHandler) GetRoute(c *gin.Context) {
	route, err := sessionFrom(c).GetRouteSummary(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if route == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "route_not_found",
			"message": "経路はまだ計算されていません",
		})
		return
	}
	c.JSON(http.StatusOK, route)
}

// PutRoute PUT /trips/active/route - 地図側で再計算した経路要約を保存
func (h *TripHandler) PutRoute(c *gin.Context) {
	var route model.RouteSummary
	if err := c.ShouldBindJSON(&route); err != nil {
		respondBindError(c, err)
		return
	}

	if err := sessionFrom(c).SetRouteSummary(c.Request.Context(), &route); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, route)
}

// PostRecalculateRoute POST /trips/active/route/recalculate - 経路を再計算
func (h *TripHandler) PostRecalculateRoute(c *gin.Context) {
	route, err := h.planningUseCase.RecalculateRoute(c.Request.Context(), sessionFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, route)
}

// GetPlacesCache GET /trips/active/places-cache - 検索済みスポットを取得
func (h *TripHandler) GetPlacesCache(c *gin.Context) {
	session := sessionFrom(c)
	if !session.HasActiveTrip(c.Request.Context()) {
		respondError(c, model.ErrNoActiveTrip)
		return
	}

	places, err := session.GetPlacesCache(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if places == nil {
		places = []model.PlaceResult{}
	}
	c.JSON(http.StatusOK, gin.H{"places": places})
}

// PostSearch POST /trips/active/search - カテゴリ検索 (追加) または自由入力検索 (置換)
func (h *TripHandler) PostSearch(c *gin.Context) {
	var req model.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	var (
		places []model.PlaceResult
		err    error
	)
	if strings.TrimSpace(req.Query) != "" {
		places, err = h.planningUseCase.CustomSearch(c.Request.Context(), sessionFrom(c), req.Query)
	} else {
		places, err = h.planningUseCase.SearchCategories(c.Request.Context(), sessionFrom(c), req.Categories)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	if places == nil {
		places = []model.PlaceResult{}
	}
	c.JSON(http.StatusOK, gin.H{"places": places})
}

// PostPurge POST /trips/purge - アクティブ以外のトリップデータを削除
func (h *TripHandler) PostPurge(c *gin.Context) {
	if err := sessionFrom(c).PurgeInactive(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetShareLink GET /trips/active/share - 共有URLを発行
func (h *TripHandler) GetShareLink(c *gin.Context) {
	token, err := h.shareCodec.Encode(c.Request.Context(), sessionFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"url":   service.ShareURL(h.baseURL(c), token),
		"token": token,
	})
}

func (h *TripHandler) baseURL(c *gin.Context) string {
	if h.publicBaseURL != "" {
		return h.publicBaseURL
	}
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host
}
