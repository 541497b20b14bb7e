package model

import "time"

// Polyline エンコード済みポリライン
type Polyline struct {
	EncodedPolyline string `json:"encodedPolyline"`
}

// RouteSummary 経路計算結果の要約 (トリップごとに1件、後勝ち)
type RouteSummary struct {
	DistanceMeters int       `json:"distanceMeters"`
	Duration       string    `json:"duration"` // 秒数の文字列表現 (例: "22000")
	Polyline       Polyline  `json:"polyline"`
	Waypoints      []LatLng  `json:"waypoints,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

// RouteRequest 経路計算リクエスト
type RouteRequest struct {
	OriginPlaceRef      string
	DestinationPlaceRef string
	Intermediates       []LatLng
}
