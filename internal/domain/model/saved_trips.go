package model

import "time"

// SavedTripSnapshot ユーザーが名前を付けて保存したトリップのスナップショット
type SavedTripSnapshot struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	SavedAt     time.Time     `json:"savedAt"`
	Trip        *TripRecord   `json:"tripData"`
	Route       *RouteSummary `json:"routeData,omitempty"`
	Places      []PlaceResult `json:"placesData"`
}

// SharedTrip 共有トークンに埋め込まれるトリップ一式
type SharedTrip struct {
	Trip   *TripRecord   `json:"tripData"`
	Route  *RouteSummary `json:"routeData,omitempty"`
	Places []PlaceResult `json:"placesData"`
}

// SaveTripRequest 保存・更新リクエスト
type SaveTripRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}
