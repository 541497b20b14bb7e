package maps

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"TripPlanner-App/internal/domain/model"
	"TripPlanner-App/internal/domain/repository"
)

const (
	defaultRoutesBaseURL = "https://routes.googleapis.com"
	routesFieldMask      = "routes.distanceMeters,routes.duration,routes.polyline.encodedPolyline"
	DefaultTravelMode    = "DRIVE"
)

// GoogleRoutesProvider はGoogle Maps Routes APIを使用した経路計算の実装
type GoogleRoutesProvider struct {
	apiKey     string
	baseURL    string
	travelMode string
	httpClient *http.Client
	now        func() time.Time
}

// NewGoogleRoutesProvider は新しいプロバイダを生成する。travelMode が空の場合は DRIVE
func NewGoogleRoutesProvider(apiKey, travelMode string) *GoogleRoutesProvider {
	if travelMode == "" {
		travelMode = DefaultTravelMode
	}
	return &GoogleRoutesProvider{
		apiKey:     apiKey,
		baseURL:    defaultRoutesBaseURL,
		travelMode: travelMode,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// WithBaseURL は接続先を差し替える (テスト用)
func (g *GoogleRoutesProvider) WithBaseURL(baseURL string) *GoogleRoutesProvider {
	g.baseURL = strings.TrimRight(baseURL, "/")
	return g
}

// ComputeRoute はRoutes APIを呼び出して経路要約を取得する
func (g *GoogleRoutesProvider) ComputeRoute(ctx context.Context, req model.RouteRequest) (*model.RouteSummary, error) {
	if req.OriginPlaceRef == "" || req.DestinationPlaceRef == "" {
		return nil, errors.New("出発地と目的地のプレイス参照は必須です")
	}

	// 1. リクエストボディを構築
	body, err := json.Marshal(g.buildRequest(req))
	if err != nil {
		return nil, fmt.Errorf("リクエストの構築に失敗: %w", err)
	}

	// 2. HTTPリクエストを作成・実行
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/directions/v2:computeRoutes", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("リクエストの作成に失敗: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Goog-Api-Key", g.apiKey)
	httpReq.Header.Set("X-Goog-FieldMask", routesFieldMask)

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("APIリクエストに失敗: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("APIからエラーステータスが返されました: %s", resp.Status)
	}

	// 3. JSONレスポンスをパース
	var apiResp computeRoutesResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("JSONのパースに失敗: %w", err)
	}

	if len(apiResp.Routes) == 0 {
		return nil, errors.New("APIから有効なルートが返されませんでした")
	}

	// 4. ドメインモデルに変換して返す
	first := apiResp.Routes[0]
	return &model.RouteSummary{
		DistanceMeters: first.DistanceMeters,
		Duration:       strings.TrimSuffix(first.Duration, "s"),
		Polyline:       model.Polyline{EncodedPolyline: first.Polyline.EncodedPolyline},
		Waypoints:      req.Intermediates,
		Timestamp:      g.now(),
	}, nil
}

func (g *GoogleRoutesProvider) buildRequest(req model.RouteRequest) computeRoutesRequest {
	body := computeRoutesRequest{
		Origin:      waypoint{PlaceID: req.OriginPlaceRef},
		Destination: waypoint{PlaceID: req.DestinationPlaceRef},
		TravelMode:  g.travelMode,
	}
	// 経由地は追加順に通る
	for _, ll := range req.Intermediates {
		body.Intermediates = append(body.Intermediates, waypoint{
			Location: &waypointLocation{LatLng: latLng{Latitude: ll.Lat, Longitude: ll.Lng}},
		})
	}
	return body
}

var _ repository.RouteProvider = (*GoogleRoutesProvider)(nil)

// --- Routes APIのリクエスト・レスポンス構造体 ---

type computeRoutesRequest struct {
	Origin        waypoint   `json:"origin"`
	Destination   waypoint   `json:"destination"`
	Intermediates []waypoint `json:"intermediates,omitempty"`
	TravelMode    string     `json:"travelMode"`
}
type waypoint struct {
	PlaceID  string            `json:"placeId,omitempty"`
	Location *waypointLocation `json:"location,omitempty"`
}
type waypointLocation struct {
	LatLng latLng `json:"latLng"`
}
type latLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type computeRoutesResponse struct {
	Routes []apiRoute `json:"routes"`
}
type apiRoute struct {
	DistanceMeters int         `json:"distanceMeters"`
	Duration       string      `json:"duration"` // "22000s"
	Polyline       apiPolyline `json:"polyline"`
}
type apiPolyline struct {
	EncodedPolyline string `json:"encodedPolyline"`
}
