package maps

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"TripPlanner-App/internal/domain/model"
	"TripPlanner-App/internal/domain/repository"
)

const (
	defaultPlacesBaseURL = "https://places.googleapis.com"
	placesFieldMask      = "places.id,places.displayName,places.formattedAddress,places.location"
	maxPlacesPerRequest  = 20
)

// GooglePlacesProvider はGoogle Places API (New) のテキスト検索を使用したスポット検索の実装
type GooglePlacesProvider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewGooglePlacesProvider は新しいプロバイダを生成する
func NewGooglePlacesProvider(apiKey string) *GooglePlacesProvider {
	return &GooglePlacesProvider{
		apiKey:     apiKey,
		baseURL:    defaultPlacesBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// WithBaseURL は接続先を差し替える (テスト用)
func (g *GooglePlacesProvider) WithBaseURL(baseURL string) *GooglePlacesProvider {
	g.baseURL = strings.TrimRight(baseURL, "/")
	return g
}

// SearchText はテキストクエリでスポットを検索する
func (g *GooglePlacesProvider) SearchText(ctx context.Context, query string, bias *model.Bounds, maxResults int) ([]model.PlaceResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("検索クエリは必須です")
	}
	if maxResults <= 0 || maxResults > maxPlacesPerRequest {
		maxResults = maxPlacesPerRequest
	}

	reqBody := searchTextRequest{TextQuery: query, MaxResultCount: maxResults}
	if bias != nil {
		reqBody.LocationBias = &locationBias{Rectangle: rectangle{
			Low:  latLng{Latitude: bias.Low.Lat, Longitude: bias.Low.Lng},
			High: latLng{Latitude: bias.High.Lat, Longitude: bias.High.Lng},
		}}
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("リクエストの構築に失敗: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/v1/places:searchText", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("リクエストの作成に失敗: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Goog-Api-Key", g.apiKey)
	httpReq.Header.Set("X-Goog-FieldMask", placesFieldMask)

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("APIリクエストに失敗: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("APIからエラーステータスが返されました: %s", resp.Status)
	}

	var apiResp searchTextResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("JSONのパースに失敗: %w", err)
	}

	results := make([]model.PlaceResult, 0, len(apiResp.Places))
	for _, p := range apiResp.Places {
		result := model.PlaceResult{
			PlaceRef:         p.ID,
			DisplayName:      p.DisplayName.Text,
			FormattedAddress: p.FormattedAddress,
		}
		if p.Location != nil {
			result.Location = &model.LatLng{Lat: p.Location.Latitude, Lng: p.Location.Longitude}
		}
		results = append(results, result)
	}
	return results, nil
}

var _ repository.PlacesProvider = (*GooglePlacesProvider)(nil)

// --- Places APIのリクエスト・レスポンス構造体 ---

type searchTextRequest struct {
	TextQuery      string        `json:"textQuery"`
	MaxResultCount int           `json:"maxResultCount,omitempty"`
	LocationBias   *locationBias `json:"locationBias,omitempty"`
}
type locationBias struct {
	Rectangle rectangle `json:"rectangle"`
}
type rectangle struct {
	Low  latLng `json:"low"`
	High latLng `json:"high"`
}

type searchTextResponse struct {
	Places []apiPlace `json:"places"`
}
type apiPlace struct {
	ID               string        `json:"id"`
	DisplayName      localizedText `json:"displayName"`
	FormattedAddress string        `json:"formattedAddress"`
	Location         *latLng       `json:"location"`
}
type localizedText struct {
	Text         string `json:"text"`
	LanguageCode string `json:"languageCode"`
}
