package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nominatimStub(t *testing.T, hits *int32) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		assert.Equal(t, "ca", r.URL.Query().Get("countrycodes"))
		assert.Equal(t, "json", r.URL.Query().Get("format"))

		q := r.URL.Query().Get("q")
		if strings.Contains(q, "Sainte-Adèle") {
			json.NewEncoder(w).Encode([]map[string]string{
				{"lat": "45.9507", "lon": "-74.1322"},
			})
			return
		}
		json.NewEncoder(w).Encode([]map[string]string{})
	}))
}

func TestGeocodeResolvesAndCaches(t *testing.T) {
	var hits int32
	server := nominatimStub(t, &hits)
	defer server.Close()

	g := NewGeocoder(server.URL, "ca")

	coords := g.Geocode("123 chemin du Lac", "Sainte-Adèle", "QC", "J8B 1A1")
	require.NotNil(t, coords)
	assert.InDelta(t, 45.9507, coords.Lat, 1e-4)
	assert.InDelta(t, -74.1322, coords.Lng, 1e-4)

	// Same address again: served from cache, no second request.
	again := g.Geocode("123 chemin du Lac", "Sainte-Adèle", "QC", "J8B 1A1")
	require.NotNil(t, again)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestGeocodeUnknownAddressReturnsNil(t *testing.T) {
	var hits int32
	server := nominatimStub(t, &hits)
	defer server.Close()

	g := NewGeocoder(server.URL, "ca")
	assert.Nil(t, g.Geocode("1 rue Inconnue", "Ville-Fantôme", "QC", ""))
}

func TestGeocodeEmptyAddressSkipsLookup(t *testing.T) {
	var hits int32
	server := nominatimStub(t, &hits)
	defer server.Close()

	g := NewGeocoder(server.URL, "ca")
	assert.Nil(t, g.Geocode("", "", "", ""))
	assert.Equal(t, int32(0), atomic.LoadInt32(&hits))
}

func TestGeocodeServerErrorReturnsNil(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	g := NewGeocoder(server.URL, "ca")
	assert.Nil(t, g.Geocode("123 chemin du Lac", "Sainte-Adèle", "QC", ""))
}
