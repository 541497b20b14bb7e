package model

// LatLng 緯度経度を表す基本的な型
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Bounds 検索バイアス用の矩形領域 (南西端 Low / 北東端 High)
type Bounds struct {
	Low  LatLng `json:"low"`
	High LatLng `json:"high"`
}

// PlaceResult プレイス検索の1件分の結果
type PlaceResult struct {
	PlaceRef         string  `json:"id,omitempty"`
	DisplayName      string  `json:"displayName"`
	FormattedAddress string  `json:"formattedAddress"`
	Location         *LatLng `json:"location,omitempty"`
	Category         string  `json:"category,omitempty"`
}

// CacheKey はプレイスキャッシュの和集合を取る際の同一性キー
func (p PlaceResult) CacheKey() string {
	return p.Category + "\x00" + p.DisplayName + "\x00" + p.FormattedAddress
}

// CustomSearchCategory 自由入力検索で得た結果に付与されるカテゴリ
const CustomSearchCategory = "custom"
