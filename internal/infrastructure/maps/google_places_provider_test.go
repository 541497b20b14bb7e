package maps

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TripPlanner-App/internal/domain/model"
)

func TestGooglePlacesProvider_SearchText(t *testing.T) {
	var received searchTextRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/places:searchText", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Goog-Api-Key"))
		assert.Equal(t, placesFieldMask, r.Header.Get("X-Goog-FieldMask"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"places":[
			{"id":"ChIJ1","displayName":{"text":"Blue Bottle Coffee","languageCode":"en"},"formattedAddress":"66 Mint St, San Francisco, CA","location":{"latitude":37.7825,"longitude":-122.4078}},
			{"id":"ChIJ2","displayName":{"text":"No Location Cafe"},"formattedAddress":"Somewhere"}
		]}`))
	}))
	defer server.Close()

	bias := &model.Bounds{
		Low:  model.LatLng{Lat: 37.7, Lng: -122.5},
		High: model.LatLng{Lat: 37.8, Lng: -122.3},
	}
	places, err := NewGooglePlacesProvider("test-key").WithBaseURL(server.URL).
		SearchText(context.Background(), "coffee shops", bias, 10)
	require.NoError(t, err)

	require.Len(t, places, 2)
	assert.Equal(t, model.PlaceResult{
		PlaceRef:         "ChIJ1",
		DisplayName:      "Blue Bottle Coffee",
		FormattedAddress: "66 Mint St, San Francisco, CA",
		Location:         &model.LatLng{Lat: 37.7825, Lng: -122.4078},
	}, places[0])
	assert.Nil(t, places[1].Location)

	assert.Equal(t, "coffee shops", received.TextQuery)
	assert.Equal(t, 10, received.MaxResultCount)
	require.NotNil(t, received.LocationBias)
	assert.Equal(t, 37.7, received.LocationBias.Rectangle.Low.Latitude)
	assert.Equal(t, -122.3, received.LocationBias.Rectangle.High.Longitude)
}

func TestGooglePlacesProvider_MaxResultsCapped(t *testing.T) {
	var received searchTextRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	places, err := NewGooglePlacesProvider("key").WithBaseURL(server.URL).
		SearchText(context.Background(), "parks", nil, 100)
	require.NoError(t, err)
	assert.Empty(t, places)
	assert.Equal(t, maxPlacesPerRequest, received.MaxResultCount)
	assert.Nil(t, received.LocationBias)
}

func TestGooglePlacesProvider_EmptyQuery(t *testing.T) {
	_, err := NewGooglePlacesProvider("key").SearchText(context.Background(), "  ", nil, 10)
	assert.Error(t, err)
}
