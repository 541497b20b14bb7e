package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"TripPlanner-App/internal/domain/service"
)

// NewRouter はAPIサーバーのルーターを設定する
func NewRouter(sessions *service.TripSessions, tripHandler *TripHandler, savedTripsHandler *SavedTripsHandler, shareHandler *ShareHandler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "TripPlanner-App"})
	})

	api := r.Group("/", SessionMiddleware(sessions))

	trips := api.Group("/trips")
	{
		trips.POST("", tripHandler.PostTrip)
		trips.POST("/purge", tripHandler.PostPurge)
		trips.GET("/active", tripHandler.GetActiveTrip)
		trips.PUT("/active", tripHandler.PutActiveTrip)
		trips.POST("/active/places", tripHandler.PostPlace)
		trips.GET("/active/route", tripHandler.GetRoute)
		trips.PUT("/active/route", tripHandler.PutRoute)
		trips.POST("/active/route/recalculate", tripHandler.PostRecalculateRoute)
		trips.GET("/active/places-cache", tripHandler.GetPlacesCache)
		trips.POST("/active/places-cache/:placeId/add", tripHandler.PostCachedPlace)
		trips.POST("/active/search", tripHandler.PostSearch)
		trips.GET("/active/share", tripHandler.GetShareLink)
	}

	saved := api.Group("/saved-trips")
	{
		saved.GET("", savedTripsHandler.ListSavedTrips)
		saved.POST("", savedTripsHandler.CreateSavedTrip)
		saved.GET("/:id", savedTripsHandler.GetSavedTrip)
		saved.PUT("/:id", savedTripsHandler.UpdateSavedTrip)
		saved.DELETE("/:id", savedTripsHandler.DeleteSavedTrip)
		saved.POST("/:id/load", savedTripsHandler.LoadSavedTrip)
	}

	api.GET(service.SharedTripPath, shareHandler.GetSharedTrip)

	return r
}
