package utils

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Coordinates is a resolved lat/lng pair
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Geocoder converts postal addresses to coordinates using OpenStreetMap
// Nominatim, restricted to one country. Results are cached by the exact
// composed query string for the lifetime of the process. Failures of any
// kind (network, non-200, zero results) resolve to "not found" — callers
// must treat missing coordinates as a valid, expected state.
type Geocoder struct {
	baseURL     string
	countryCode string
	client      *http.Client

	mu    sync.RWMutex
	cache map[string]*Coordinates
}

// NewGeocoder creates a Geocoder against the given Nominatim endpoint
func NewGeocoder(baseURL, countryCode string) *Geocoder {
	return &Geocoder{
		baseURL:     baseURL,
		countryCode: countryCode,
		client:      &http.Client{Timeout: 10 * time.Second},
		cache:       make(map[string]*Coordinates),
	}
}

// Geocode resolves a Canadian postal address to coordinates. Returns nil
// when the address cannot be resolved.
func (g *Geocoder) Geocode(address, city, province, postalCode string) *Coordinates {
	parts := []string{}
	for _, p := range []string{address, city, province, postalCode, "Canada"} {
		if strings.TrimSpace(p) != "" {
			parts = append(parts, strings.TrimSpace(p))
		}
	}
	if len(parts) <= 1 {
		return nil
	}
	query := strings.Join(parts, ", ")

	g.mu.RLock()
	cached, ok := g.cache[query]
	g.mu.RUnlock()
	if ok {
		return cached
	}

	coords := g.lookup(query)
	if coords != nil {
		g.mu.Lock()
		g.cache[query] = coords
		g.mu.Unlock()
	}
	return coords
}

func (g *Geocoder) lookup(query string) *Coordinates {
	params := url.Values{
		"q":            {query},
		"format":       {"json"},
		"limit":        {"1"},
		"countrycodes": {g.countryCode},
	}

	req, err := http.NewRequest(http.MethodGet, fmt.Sprintf("%s?%s", g.baseURL, params.Encode()), nil)
	if err != nil {
		log.Printf("❌ Geocoding request build failed: %v", err)
		return nil
	}
	req.Header.Set("User-Agent", "ChaletProp/1.0")

	resp, err := g.client.Do(req)
	if err != nil {
		log.Printf("⚠️ Geocoding request failed for %q: %v", query, err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("⚠️ Geocoding service returned status %d for %q", resp.StatusCode, query)
		return nil
	}

	var results []struct {
		Lat string `json:"lat"`
		Lon string `json:"lon"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		log.Printf("⚠️ Failed to decode geocoding response: %v", err)
		return nil
	}
	if len(results) == 0 {
		return nil
	}

	lat, errLat := strconv.ParseFloat(results[0].Lat, 64)
	lng, errLng := strconv.ParseFloat(results[0].Lon, 64)
	if errLat != nil || errLng != nil {
		log.Printf("⚠️ Invalid coordinates in geocoding response for %q", query)
		return nil
	}

	return &Coordinates{Lat: lat, Lng: lng}
}
