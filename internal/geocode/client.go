// Package geocode turns coordinates into human-readable place names.
package geocode

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"health-tracker/internal/metrics"
)

const (
	DefaultBaseURL   = "https://nominatim.openstreetmap.org"
	DefaultUserAgent = "health-tracker-rest/1.0 (contact: example@example.com)"
	DefaultTimeout   = 3000 * time.Millisecond
	MinTimeout       = 500 * time.Millisecond
)

// Geocoder resolves a coordinate to a place name. The boolean is false when
// no name could be obtained; callers fall back to their own label.
type Geocoder interface {
	Lookup(ctx context.Context, lat, lng float64) (string, bool)
}

// Client is a Nominatim reverse geocoding client.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	logger     *slog.Logger
}

// NewClient creates a Nominatim client. Empty values fall back to the public
// endpoint and default user agent; the timeout is clamped to MinTimeout.
func NewClient(baseURL, userAgent string, timeout time.Duration, logger *slog.Logger) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if strings.TrimSpace(userAgent) == "" {
		userAgent = DefaultUserAgent
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if timeout < MinTimeout {
		timeout = MinTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		userAgent:  userAgent,
		logger:     logger,
	}
}

type reverseResponse struct {
	DisplayName string `json:"display_name"`
}

// Lookup performs a reverse geocoding request. Every failure is logged and
// reported as ("", false).
func (c *Client) Lookup(ctx context.Context, lat, lng float64) (string, bool) {
	query := url.Values{}
	query.Set("format", "jsonv2")
	query.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	query.Set("lon", strconv.FormatFloat(lng, 'f', -1, 64))
	query.Set("zoom", "18")
	query.Set("addressdetails", "0")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/reverse?"+query.Encode(), nil)
	if err != nil {
		c.logger.Warn("Failed to create geocode request", "error", err)
		metrics.GeocodeLookupsTotal.WithLabelValues(metrics.GeocodeTransport).Inc()
		return "", false
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)
	metrics.GeocodeLookupDuration.Observe(duration.Seconds())

	if err != nil {
		c.logger.Warn("Geocode request failed", "lat", lat, "lng", lng, "error", err, "duration_ms", duration.Milliseconds())
		metrics.GeocodeLookupsTotal.WithLabelValues(metrics.GeocodeTransport).Inc()
		return "", false
	}
	defer resp.Body.Close()

	c.logger.Debug("Nominatim reverse lookup", "status", resp.StatusCode, "duration_ms", duration.Milliseconds())

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("Geocode request rejected", "lat", lat, "lng", lng, "status", resp.StatusCode)
		metrics.GeocodeLookupsTotal.WithLabelValues(metrics.GeocodeHTTPStatus).Inc()
		return "", false
	}

	var body reverseResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		c.logger.Warn("Failed to decode geocode response", "lat", lat, "lng", lng, "error", err)
		metrics.GeocodeLookupsTotal.WithLabelValues(metrics.GeocodeDecode).Inc()
		return "", false
	}

	name := strings.TrimSpace(body.DisplayName)
	if name == "" {
		c.logger.Warn("Geocode response has no display name", "lat", lat, "lng", lng)
		metrics.GeocodeLookupsTotal.WithLabelValues(metrics.GeocodeNoName).Inc()
		return "", false
	}

	metrics.GeocodeLookupsTotal.WithLabelValues(metrics.GeocodeOK).Inc()
	return name, true
}
