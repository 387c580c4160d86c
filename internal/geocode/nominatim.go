package geocode

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"zeme/internal/cache"
	apperrors "zeme/internal/errors"
	"zeme/internal/models"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the public Nominatim instance.
	DefaultBaseURL = "https://nominatim.openstreetmap.org"
	// UserAgent identifies the application, as Nominatim's usage policy requires.
	UserAgent = "Zeme/1.0"
	// NYCViewbox bounds results to New York City (lon1,lat1,lon2,lat2).
	NYCViewbox = "-74.2591,40.4774,-73.7002,40.9162"
	// CitySuffix is appended to every query.
	CitySuffix = "New York City"

	searchLimit = 50
)

// place is one Nominatim search result. Coordinates arrive as strings.
type place struct {
	DisplayName string  `json:"display_name"`
	Lat         string  `json:"lat"`
	Lon         string  `json:"lon"`
	Type        string  `json:"type"`
	Importance  float64 `json:"importance"`
}

// NominatimClient geocodes through the Nominatim search API. Requests are rate
// limited and results are cached.
type NominatimClient struct {
	client  *resty.Client
	limiter *rate.Limiter
	cache   cache.Cache
	ttl     time.Duration
}

// NewNominatimClient creates a client. ratePerSec <= 0 disables rate limiting;
// c may be nil to disable caching.
func NewNominatimClient(baseURL string, ratePerSec float64, c cache.Cache) *NominatimClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	limit := rate.Inf
	if ratePerSec > 0 {
		limit = rate.Limit(ratePerSec)
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(10*time.Second).
		SetHeader("User-Agent", UserAgent).
		SetHeader("Accept", "application/json")

	return &NominatimClient{
		client:  client,
		limiter: rate.NewLimiter(limit, 1),
		cache:   c,
		ttl:     cache.GeocodeTTL,
	}
}

// Search returns candidates for query within New York City. An empty query
// searches for the city itself.
func (n *NominatimClient) Search(ctx context.Context, query string) ([]models.Candidate, error) {
	q := CitySuffix
	if trimmed := strings.TrimSpace(query); trimmed != "" {
		q = trimmed + ", " + CitySuffix
	}

	key := cache.GeocodeCacheKey(q)
	if n.cache != nil {
		var cached []models.Candidate
		found, err := n.cache.Get(ctx, key, &cached)
		if err != nil {
			log.Printf("Geocode cache read failed: %v", err)
		} else if found {
			return cached, nil
		}
	}

	if err := n.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var places []place
	resp, err := n.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":               q,
			"format":          "json",
			"limit":           strconv.Itoa(searchLimit),
			"accept-language": "en",
			"countrycodes":    "us",
			"bounded":         "1",
			"viewbox":         NYCViewbox,
		}).
		SetResult(&places).
		Get("/search")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrGeocoderUnavailable, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", apperrors.ErrGeocoderUnavailable, resp.StatusCode())
	}

	candidates := make([]models.Candidate, 0, len(places))
	for _, p := range places {
		lat, latErr := strconv.ParseFloat(p.Lat, 64)
		lng, lngErr := strconv.ParseFloat(p.Lon, 64)
		if latErr != nil || lngErr != nil {
			continue
		}
		candidates = append(candidates, models.Candidate{
			DisplayName: p.DisplayName,
			Lat:         lat,
			Lng:         lng,
			Type:        p.Type,
			Importance:  p.Importance,
		})
	}

	if n.cache != nil {
		if err := n.cache.Set(ctx, key, candidates, n.ttl); err != nil {
			log.Printf("Geocode cache write failed: %v", err)
		}
	}

	return candidates, nil
}
