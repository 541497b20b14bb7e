package model

import "time"

// TripRecord 現在のトリップ (出発地・目的地と追加済みスポット)
type TripRecord struct {
	From         string      `json:"from"`
	To           string      `json:"to"`
	FromPlaceRef string      `json:"fromPlaceId"`
	ToPlaceRef   string      `json:"toPlaceId"`
	Identity     string      `json:"tripId"`
	Places       []TripPlace `json:"places"`
}

// TripPlace トリップに追加されたスポット
type TripPlace struct {
	DisplayName      string    `json:"displayName" binding:"required"`
	FormattedAddress string    `json:"formattedAddress"`
	Location         *LatLng   `json:"location,omitempty"`
	Category         string    `json:"category,omitempty"`
	AddedAt          time.Time `json:"addedAt"`
}

// SamePlace は表示名と住所の組で同一スポットかを判定する
func (p TripPlace) SamePlace(other TripPlace) bool {
	return p.DisplayName == other.DisplayName && p.FormattedAddress == other.FormattedAddress
}

// HasPlace は同じ表示名・住所のスポットが既に含まれているかチェック
func (t *TripRecord) HasPlace(place TripPlace) bool {
	for _, p := range t.Places {
		if p.SamePlace(place) {
			return true
		}
	}
	return false
}

// AddPlace は未登録の場合のみスポットを末尾に追加し、追加したかどうかを返す
func (t *TripRecord) AddPlace(place TripPlace) bool {
	if t.HasPlace(place) {
		return false
	}
	t.Places = append(t.Places, place)
	return true
}

// HasPlaceRefs は出発地・目的地の両方の参照が設定されているか
func (t *TripRecord) HasPlaceRefs() bool {
	return t.FromPlaceRef != "" && t.ToPlaceRef != ""
}

// Clone はスポット列を含めたディープコピーを返す
func (t *TripRecord) Clone() *TripRecord {
	if t == nil {
		return nil
	}
	cp := *t
	if t.Places != nil {
		cp.Places = make([]TripPlace, len(t.Places))
		for i, p := range t.Places {
			cp.Places[i] = p
			if p.Location != nil {
				loc := *p.Location
				cp.Places[i].Location = &loc
			}
		}
	}
	return &cp
}

// Waypoints は位置情報を持つスポットの座標を追加順に返す
func (t *TripRecord) Waypoints() []LatLng {
	var waypoints []LatLng
	for _, p := range t.Places {
		if p.Location != nil {
			waypoints = append(waypoints, *p.Location)
		}
	}
	return waypoints
}

// StartTripRequest 新しいトリップ計画の開始リクエスト
type StartTripRequest struct {
	From         string `json:"from" binding:"required"`
	To           string `json:"to" binding:"required"`
	FromPlaceRef string `json:"fromPlaceId" binding:"required"`
	ToPlaceRef   string `json:"toPlaceId" binding:"required"`
}

// AddPlaceResult スポット追加の結果
type AddPlaceResult struct {
	Added bool          `json:"added"`
	Trip  *TripRecord   `json:"trip"`
	Route *RouteSummary `json:"route,omitempty"`
}

// SearchRequest カテゴリ検索または自由入力検索のリクエスト
type SearchRequest struct {
	Categories []string `json:"categories"`
	Query      string   `json:"query"`
}
