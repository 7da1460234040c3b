package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"mycraft-api/config"

	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned when the geocoder has no result for a query.
var ErrNotFound = errors.New("location not found")

// Point is a geocoded WGS84 coordinate.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Suggestion is one structured address candidate for autocompletion.
type Suggestion struct {
	DisplayName string
	Road        string
	HouseNumber string
	ZipCode     string
	City        string
	Lat         float64
	Lng         float64
}

// Geocoder resolves free-text locations to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, query string) (*Point, error)
	Suggest(ctx context.Context, query string, limit int) ([]Suggestion, error)
}

// NominatimGeocoder queries the Nominatim search API, restricted to Germany,
// and caches successful lookups in Redis. Cache failures are ignored; the
// cache is an optimization, not a dependency.
type NominatimGeocoder struct {
	baseURL   string
	userAgent string
	cacheTTL  time.Duration
	client    *http.Client
	redis     *redis.Client
}

// NewNominatimGeocoder creates a geocoder from config. redisClient may be nil
// to disable caching.
func NewNominatimGeocoder(cfg config.GeocodingConfig, redisClient *redis.Client) *NominatimGeocoder {
	return &NominatimGeocoder{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		cacheTTL:  cfg.CacheTTL,
		client:    &http.Client{Timeout: 5 * time.Second},
		redis:     redisClient,
	}
}

var _ Geocoder = (*NominatimGeocoder)(nil)

type nominatimResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
	Address     struct {
		Road         string `json:"road"`
		HouseNumber  string `json:"house_number"`
		Postcode     string `json:"postcode"`
		City         string `json:"city"`
		Town         string `json:"town"`
		Village      string `json:"village"`
		Municipality string `json:"municipality"`
	} `json:"address"`
}

// city returns the best available locality name; Nominatim uses different
// keys depending on settlement size.
func (r *nominatimResult) city() string {
	for _, c := range []string{r.Address.City, r.Address.Town, r.Address.Village, r.Address.Municipality} {
		if c != "" {
			return c
		}
	}
	return ""
}

func (g *NominatimGeocoder) search(ctx context.Context, query string, limit int, addressDetails bool) ([]nominatimResult, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("countrycodes", "de")
	params.Set("limit", strconv.Itoa(limit))
	params.Set("accept-language", "de")
	if addressDetails {
		params.Set("addressdetails", "1")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build geocoding request: %w", err)
	}
	req.Header.Set("User-Agent", g.userAgent)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocoding request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocoding request failed with status %d", resp.StatusCode)
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("failed to decode geocoding response: %w", err)
	}

	return results, nil
}

// Geocode resolves a free-text location to a coordinate, using the Redis
// cache when available.
func (g *NominatimGeocoder) Geocode(ctx context.Context, query string) (*Point, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrNotFound
	}

	cacheKey := "geocode:" + strings.ToLower(query)
	if g.redis != nil {
		if cached, err := g.redis.Get(ctx, cacheKey).Result(); err == nil {
			var p Point
			if err := json.Unmarshal([]byte(cached), &p); err == nil {
				return &p, nil
			}
		}
	}

	results, err := g.search(ctx, query, 1, false)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, ErrNotFound
	}

	lat, latErr := strconv.ParseFloat(results[0].Lat, 64)
	lng, lngErr := strconv.ParseFloat(results[0].Lon, 64)
	if latErr != nil || lngErr != nil {
		return nil, fmt.Errorf("geocoder returned unparsable coordinates for %q", query)
	}

	p := &Point{Lat: lat, Lng: lng}

	if g.redis != nil {
		if payload, err := json.Marshal(p); err == nil {
			if err := g.redis.Set(ctx, cacheKey, payload, g.cacheTTL).Err(); err != nil {
				log.Printf("Geocode cache write failed for %q: %v", query, err)
			}
		}
	}

	return p, nil
}

// Suggest returns up to limit structured address candidates for the query.
func (g *NominatimGeocoder) Suggest(ctx context.Context, query string, limit int) ([]Suggestion, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 5
	}

	results, err := g.search(ctx, query, limit, true)
	if err != nil {
		return nil, err
	}

	suggestions := make([]Suggestion, 0, len(results))
	for _, res := range results {
		lat, latErr := strconv.ParseFloat(res.Lat, 64)
		lng, lngErr := strconv.ParseFloat(res.Lon, 64)
		if latErr != nil || lngErr != nil {
			continue
		}
		suggestions = append(suggestions, Suggestion{
			DisplayName: res.DisplayName,
			Road:        res.Address.Road,
			HouseNumber: res.Address.HouseNumber,
			ZipCode:     res.Address.Postcode,
			City:        res.city(),
			Lat:         lat,
			Lng:         lng,
		})
	}

	return suggestions, nil
}
