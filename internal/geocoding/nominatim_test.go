package geocoding

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNominatim_Geocode(t *testing.T) {
	var gotUA, gotQ string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotQ = r.URL.Query().Get("q")
		assert.Equal(t, "/search", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"lat":"19.4326","lon":"-99.1332","display_name":"Zócalo, CDMX"}]`))
	}))
	defer srv.Close()

	g, err := NewNominatim(srv.URL, "denti-test", time.Second)
	require.NoError(t, err)

	c, err := g.Geocode(context.Background(), "Zócalo")
	require.NoError(t, err)
	assert.InDelta(t, 19.4326, c.Lat, 1e-9)
	assert.InDelta(t, -99.1332, c.Lng, 1e-9)
	assert.Equal(t, "Zócalo, CDMX", c.DisplayName)
	assert.Equal(t, "denti-test", gotUA)
	assert.Equal(t, "Zócalo", gotQ)
}

func TestNominatim_NoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	g, err := NewNominatim(srv.URL, "", time.Second)
	require.NoError(t, err)

	_, err = g.Geocode(context.Background(), "nowhere")
	assert.ErrorIs(t, err, ErrNoResults)
}

func TestNominatim_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "slow down", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	g, err := NewNominatim(srv.URL, "", time.Second)
	require.NoError(t, err)

	_, err = g.Geocode(context.Background(), "x")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoResults)
}

func TestStatic(t *testing.T) {
	s := Static{Known: map[string]Coordinates{"zócalo": {Lat: 1, Lng: 2}}}
	c, err := s.Geocode(context.Background(), " Zócalo ")
	require.NoError(t, err)
	assert.Equal(t, 1.0, c.Lat)

	_, err = s.Geocode(context.Background(), "otro")
	assert.ErrorIs(t, err, ErrNoResults)
}
