package geocoding

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"denti-directory/internal/platform/httpclient"
)

const DefaultNominatimURL = "https://nominatim.openstreetmap.org"

// Nominatim consulta la API pública de OpenStreetMap.
// Su política de uso exige un User-Agent identificable.
type Nominatim struct {
	client *httpclient.Client
}

func NewNominatim(baseURL, userAgent string, timeout time.Duration) (*Nominatim, error) {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultNominatimURL
	}
	c, err := httpclient.NewWithBaseURL(baseURL, timeout)
	if err != nil {
		return nil, err
	}
	if userAgent == "" {
		userAgent = "denti-directory"
	}
	c.UserAgent = userAgent
	return &Nominatim{client: c}, nil
}

type nominatimResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

func (n *Nominatim) Geocode(ctx context.Context, address string) (Coordinates, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return Coordinates{}, ErrNoResults
	}

	q := url.Values{}
	q.Set("q", address)
	q.Set("format", "json")
	q.Set("limit", "1")

	var results []nominatimResult
	if err := n.client.GetJSON(ctx, "/search", q, &results); err != nil {
		return Coordinates{}, fmt.Errorf("nominatim: %w", err)
	}
	if len(results) == 0 {
		return Coordinates{}, ErrNoResults
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return Coordinates{}, fmt.Errorf("nominatim: bad lat %q: %w", results[0].Lat, err)
	}
	lng, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return Coordinates{}, fmt.Errorf("nominatim: bad lon %q: %w", results[0].Lon, err)
	}
	return Coordinates{Lat: lat, Lng: lng, DisplayName: results[0].DisplayName}, nil
}
