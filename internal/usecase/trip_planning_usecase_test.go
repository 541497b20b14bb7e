package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-polyline"

	"TripPlanner-App/internal/domain/event"
	"TripPlanner-App/internal/domain/model"
	"TripPlanner-App/internal/domain/service"
	kvstore "TripPlanner-App/internal/repository"
)

type fakeRouteProvider struct {
	requests []model.RouteRequest
	err      error
}

func (f *fakeRouteProvider) ComputeRoute(ctx context.Context, req model.RouteRequest) (*model.RouteSummary, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return &model.RouteSummary{
		DistanceMeters: 100000 + 1000*len(req.Intermediates),
		Duration:       "3600",
		Polyline: model.Polyline{EncodedPolyline: string(polyline.EncodeCoords([][]float64{
			{37.77, -122.42},
			{34.05, -118.24},
		}))},
		Waypoints: req.Intermediates,
		Timestamp: time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC),
	}, nil
}

type fakePlacesProvider struct {
	mu      sync.Mutex
	results map[string][]model.PlaceResult
	biases  []*model.Bounds
}

func (f *fakePlacesProvider) SearchText(ctx context.Context, query string, bias *model.Bounds, maxResults int) ([]model.PlaceResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.biases = append(f.biases, bias)
	return f.results[query], nil
}

func newTestSession() *service.TripSessionStore {
	return service.NewTripSessionStore(kvstore.NewMemoryKeyValueStore(0), event.NewEvents())
}

func startRequest() *model.StartTripRequest {
	return &model.StartTripRequest{
		From:         "San Francisco, CA",
		To:           "Los Angeles, CA",
		FromPlaceRef: "P1",
		ToPlaceRef:   "P2",
	}
}

func TestTripPlanningUseCase_StartTrip(t *testing.T) {
	ctx := context.Background()
	routes := &fakeRouteProvider{}
	uc := NewTripPlanningUseCase(routes, &fakePlacesProvider{})
	session := newTestSession()

	trip, route, err := uc.StartTrip(ctx, session, startRequest())
	require.NoError(t, err)
	require.NotNil(t, route)
	assert.NotEmpty(t, trip.Identity)
	assert.Equal(t, 100000, route.DistanceMeters)

	stored, err := session.GetRouteSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, route, stored)

	require.Len(t, routes.requests, 1)
	assert.Equal(t, "P1", routes.requests[0].OriginPlaceRef)
	assert.Equal(t, "P2", routes.requests[0].DestinationPlaceRef)
}

func TestTripPlanningUseCase_StartTripRouteFailure(t *testing.T) {
	ctx := context.Background()
	uc := NewTripPlanningUseCase(&fakeRouteProvider{err: errors.New("api down")}, &fakePlacesProvider{})
	session := newTestSession()

	trip, route, err := uc.StartTrip(ctx, session, startRequest())
	require.NoError(t, err, "経路計算に失敗してもトリップは開始できる")
	assert.NotNil(t, trip)
	assert.Nil(t, route)
	assert.True(t, session.HasActiveTrip(ctx))
}

func TestTripPlanningUseCase_StartTripPurgesPreviousTrip(t *testing.T) {
	ctx := context.Background()
	uc := NewTripPlanningUseCase(&fakeRouteProvider{}, &fakePlacesProvider{})
	session := newTestSession()

	first, _, err := uc.StartTrip(ctx, session, startRequest())
	require.NoError(t, err)

	_, _, err = uc.StartTrip(ctx, session, &model.StartTripRequest{From: "Seattle", To: "Portland", FromPlaceRef: "P3", ToPlaceRef: "P4"})
	require.NoError(t, err)

	// 元のトリップIDに戻すと経路は消えている
	require.NoError(t, session.SetActiveTrip(ctx, &model.TripRecord{FromPlaceRef: "P1", ToPlaceRef: "P2"}))
	assert.Equal(t, first.Identity, mustActiveIdentity(t, session))
	route, err := session.GetRouteSummary(ctx)
	require.NoError(t, err)
	assert.Nil(t, route)
}

func mustActiveIdentity(t *testing.T, session *service.TripSessionStore) string {
	t.Helper()
	identity, err := session.ActiveIdentity(context.Background())
	require.NoError(t, err)
	return identity
}

func TestTripPlanningUseCase_AddPlace(t *testing.T) {
	ctx := context.Background()
	routes := &fakeRouteProvider{}
	uc := NewTripPlanningUseCase(routes, &fakePlacesProvider{})
	session := newTestSession()
	_, _, err := uc.StartTrip(ctx, session, startRequest())
	require.NoError(t, err)

	place := model.TripPlace{
		DisplayName:      "Hearst Castle",
		FormattedAddress: "750 Hearst Castle Rd, San Simeon, CA",
		Location:         &model.LatLng{Lat: 35.6852, Lng: -121.1682},
	}

	result, err := uc.AddPlace(ctx, session, place)
	require.NoError(t, err)
	assert.True(t, result.Added)
	require.Len(t, result.Trip.Places, 1)
	assert.False(t, result.Trip.Places[0].AddedAt.IsZero())
	assert.Equal(t, 101000, result.Route.DistanceMeters)
	assert.Equal(t, []model.LatLng{*place.Location}, routes.requests[1].Intermediates)

	t.Run("重複は追加も再計算もしない", func(t *testing.T) {
		again, err := uc.AddPlace(ctx, session, place)
		require.NoError(t, err)
		assert.False(t, again.Added)
		assert.Len(t, again.Trip.Places, 1)
		assert.Equal(t, result.Route, again.Route)
		assert.Len(t, routes.requests, 2)
	})
}

func TestTripPlanningUseCase_AddPlaceWithoutTrip(t *testing.T) {
	uc := NewTripPlanningUseCase(&fakeRouteProvider{}, &fakePlacesProvider{})
	_, err := uc.AddPlace(context.Background(), newTestSession(), model.TripPlace{DisplayName: "x"})
	assert.ErrorIs(t, err, model.ErrNoActiveTrip)
}

func TestTripPlanningUseCase_SearchCategories(t *testing.T) {
	ctx := context.Background()
	places := &fakePlacesProvider{results: map[string][]model.PlaceResult{
		model.GetCategoryQuery(model.CategoryCafe): {
			{DisplayName: "Cafe on route", FormattedAddress: "1 Main St", Location: &model.LatLng{Lat: 36.0, Lng: -120.0}},
			{DisplayName: "Cafe in Tokyo", FormattedAddress: "Tokyo", Location: &model.LatLng{Lat: 35.68, Lng: 139.76}},
		},
		model.GetCategoryQuery(model.CategoryPark): {
			{DisplayName: "Park", FormattedAddress: "2 Main St"},
		},
	}}
	uc := NewTripPlanningUseCase(&fakeRouteProvider{}, places)
	session := newTestSession()
	_, _, err := uc.StartTrip(ctx, session, startRequest())
	require.NoError(t, err)

	found, err := uc.SearchCategories(ctx, session, []string{model.CategoryCafe})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Cafe on route", found[0].DisplayName)
	assert.Equal(t, model.CategoryCafe, found[0].Category)

	// 2回目の検索結果は和集合として追加される
	found, err = uc.SearchCategories(ctx, session, []string{model.CategoryPark, model.CategoryCafe})
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "Cafe on route", found[0].DisplayName)
	assert.Equal(t, "Park", found[1].DisplayName)

	for _, bias := range places.biases {
		require.NotNil(t, bias)
		assert.InDelta(t, 34.0, bias.Low.Lat, 1e-5)
		assert.InDelta(t, -122.47, bias.Low.Lng, 1e-5)
	}
}

func TestTripPlanningUseCase_SearchWithoutTrip(t *testing.T) {
	uc := NewTripPlanningUseCase(&fakeRouteProvider{}, &fakePlacesProvider{})
	session := newTestSession()

	_, err := uc.SearchCategories(context.Background(), session, nil)
	assert.ErrorIs(t, err, model.ErrNoActiveTrip)
	_, err = uc.CustomSearch(context.Background(), session, "pizza")
	assert.ErrorIs(t, err, model.ErrNoActiveTrip)
}

func TestTripPlanningUseCase_CustomSearchReplacesCache(t *testing.T) {
	ctx := context.Background()
	places := &fakePlacesProvider{results: map[string][]model.PlaceResult{
		model.GetCategoryQuery(model.CategoryPark): {{DisplayName: "Park", FormattedAddress: "2 Main St"}},
		"pizza": {{DisplayName: "Pizza Place", FormattedAddress: "3 Main St"}},
	}}
	uc := NewTripPlanningUseCase(&fakeRouteProvider{}, places)
	session := newTestSession()
	_, _, err := uc.StartTrip(ctx, session, startRequest())
	require.NoError(t, err)

	_, err = uc.SearchCategories(ctx, session, []string{model.CategoryPark})
	require.NoError(t, err)

	found, err := uc.CustomSearch(ctx, session, " pizza ")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, model.CustomSearchCategory, found[0].Category)

	cache, err := session.GetPlacesCache(ctx)
	require.NoError(t, err)
	assert.Equal(t, found, cache)

	_, err = uc.CustomSearch(ctx, session, "  ")
	assert.Error(t, err)
}

func TestTripPlanningUseCase_AddCachedPlace(t *testing.T) {
	ctx := context.Background()
	places := &fakePlacesProvider{results: map[string][]model.PlaceResult{
		"pizza": {{PlaceRef: "ChIJpizza", DisplayName: "Pizza Place", FormattedAddress: "3 Main St", Location: &model.LatLng{Lat: 35.0, Lng: -120.5}}},
	}}
	routes := &fakeRouteProvider{}
	uc := NewTripPlanningUseCase(routes, places)
	session := newTestSession()

	t.Run("トリップがない", func(t *testing.T) {
		_, err := uc.AddCachedPlace(ctx, session, "ChIJpizza")
		assert.ErrorIs(t, err, model.ErrNoActiveTrip)
	})

	_, _, err := uc.StartTrip(ctx, session, startRequest())
	require.NoError(t, err)
	_, err = uc.CustomSearch(ctx, session, "pizza")
	require.NoError(t, err)

	t.Run("キャッシュにある検索結果を追加", func(t *testing.T) {
		result, err := uc.AddCachedPlace(ctx, session, "ChIJpizza")
		require.NoError(t, err)
		assert.True(t, result.Added)
		require.Len(t, result.Trip.Places, 1)
		added := result.Trip.Places[0]
		assert.Equal(t, "Pizza Place", added.DisplayName)
		assert.Equal(t, model.CustomSearchCategory, added.Category)
		assert.False(t, added.AddedAt.IsZero())
		require.NotNil(t, result.Route)
		assert.Equal(t, 101000, result.Route.DistanceMeters)
	})

	t.Run("2回目は追加しない", func(t *testing.T) {
		result, err := uc.AddCachedPlace(ctx, session, "ChIJpizza")
		require.NoError(t, err)
		assert.False(t, result.Added)
		assert.Len(t, result.Trip.Places, 1)
	})

	t.Run("キャッシュにないID", func(t *testing.T) {
		_, err := uc.AddCachedPlace(ctx, session, "ChIJmissing")
		assert.ErrorIs(t, err, model.ErrPlaceNotCached)
	})
}

func TestTripPlanningUseCase_RecalculateRoute(t *testing.T) {
	ctx := context.Background()
	routes := &fakeRouteProvider{}
	uc := NewTripPlanningUseCase(routes, &fakePlacesProvider{})
	session := newTestSession()

	_, err := uc.RecalculateRoute(ctx, session)
	assert.ErrorIs(t, err, model.ErrNoActiveTrip)

	_, _, err = uc.StartTrip(ctx, session, startRequest())
	require.NoError(t, err)

	routes.err = errors.New("api down")
	_, err = uc.RecalculateRoute(ctx, session)
	assert.Error(t, err)

	stored, err := session.GetRouteSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 100000, stored.DistanceMeters, "失敗時は前回の経路を保持")
}
