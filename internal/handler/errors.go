package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"TripPlanner-App/internal/domain/model"
)

// respondError はドメインエラーをHTTPステータスとエラーコードに変換して返す
func respondError(c *gin.Context, err error) {
	status, code := http.StatusInternalServerError, "internal_error"
	switch {
	case errors.Is(err, model.ErrNoActiveTrip):
		status, code = http.StatusNotFound, "no_active_trip"
	case errors.Is(err, model.ErrSavedTripNotFound):
		status, code = http.StatusNotFound, "saved_trip_not_found"
	case errors.Is(err, model.ErrPlaceNotCached):
		status, code = http.StatusNotFound, "place_not_cached"
	case errors.Is(err, model.ErrInvalidShareToken):
		status, code = http.StatusBadRequest, "invalid_share_token"
	case errors.Is(err, model.ErrInvalidTripName):
		status, code = http.StatusBadRequest, "invalid_request"
	case errors.Is(err, model.ErrQuotaExceeded):
		status, code = http.StatusInsufficientStorage, "quota_exceeded"
	}
	if status == http.StatusInternalServerError {
		log.Printf("❌ %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}

	c.JSON(status, gin.H{
		"error":   code,
		"message": err.Error(),
	})
}

// respondBindError はリクエストボディの解析エラーを返す
func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "invalid_request",
		"message": "Invalid JSON format: " + err.Error(),
	})
}
