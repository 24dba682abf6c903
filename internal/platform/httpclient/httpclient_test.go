package httpclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetJSON_BaseURLAndUserAgent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/items", r.URL.Path)
		assert.Equal(t, "a b", r.URL.Query().Get("q"))
		assert.Equal(t, "denti-test", r.Header.Get("User-Agent"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c, err := NewWithBaseURL(srv.URL+"/", time.Second)
	require.NoError(t, err)
	c.UserAgent = "denti-test"

	var out struct {
		OK bool `json:"ok"`
	}
	require.NoError(t, c.GetJSON(context.Background(), "v1/items", url.Values{"q": {"a b"}}, &out))
	assert.True(t, out.OK)
}

func TestGetJSON_Non2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := New(time.Second)
	err := c.GetJSON(context.Background(), srv.URL, nil, nil)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
	assert.Equal(t, "nope", statusErr.Body)
}

func TestResolve_RelativeWithoutBase(t *testing.T) {
	c := New(0)
	_, err := c.resolve("/x")
	assert.Error(t, err)

	_, err = c.resolve("")
	assert.Error(t, err)
}
