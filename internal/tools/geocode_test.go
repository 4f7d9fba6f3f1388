package tools

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newGeocodeToolForURL(baseURL string) *GeocodeTool {
	tool := NewGeocodeTool(&http.Client{Timeout: 2 * time.Second}, zap.NewNop())
	tool.baseURL = baseURL
	return tool
}

func TestGeocodeResolvesLocation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Miami, Florida", r.URL.Query().Get("q"))
		require.NotEmpty(t, r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(`[
			{
				"lat": "25.7742",
				"lon": "-80.1936",
				"display_name": "Miami, Miami-Dade County, Florida, United States",
				"address": {"country": "United States", "state": "Florida"}
			}
		]`))
	}))
	defer srv.Close()

	tool := newGeocodeToolForURL(srv.URL)
	out, err := tool.Call(context.Background(), `{"location": "Miami, Florida"}`)
	require.NoError(t, err)

	assert.Contains(t, out, "25.7742, -80.1936")
	assert.Contains(t, out, "Florida")
}

func TestGeocodeNoMatches(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	tool := newGeocodeToolForURL(srv.URL)
	out, err := tool.Call(context.Background(), `{"location": "Xyzzy Nowhere"}`)
	require.NoError(t, err)
	assert.Contains(t, out, "No locations found")
}

func TestGeocodeServiceDown(t *testing.T) {
	tool := newGeocodeToolForURL("http://127.0.0.1:1")

	out, err := tool.Call(context.Background(), `{"location": "Miami"}`)
	require.NoError(t, err)
	assert.Contains(t, out, "unavailable")
}

func TestGeocodeEmptyLocation(t *testing.T) {
	tool := newGeocodeToolForURL("http://127.0.0.1:1")

	out, err := tool.Call(context.Background(), `{"location": "  "}`)
	require.NoError(t, err)
	assert.Contains(t, out, "No location given")
}
