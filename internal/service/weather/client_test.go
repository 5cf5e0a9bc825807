package weather

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const clearSky = `{"cod":200,"weather":[{"description":"clear sky","icon":"01d"}],"main":{"temp":30,"humidity":40},"wind":{"speed":3}}`

func newStub(t *testing.T, status int, body string) (*httptest.Server, *url.Values) {
	t.Helper()
	captured := &url.Values{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*captured = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, captured
}

func TestLookupSuccessDisplay(t *testing.T) {
	srv, captured := newStub(t, http.StatusOK, clearSky)
	client := NewClient(Config{BaseURL: srv.URL, APIKey: "key"}, srv.Client())

	result := client.Lookup(context.Background(), "jaipur")
	require.True(t, result.OK(), "unexpected failure: %v", result.Err)

	assert.Equal(t, "🌦️ Weather in Jaipur: Clear sky, Temp: 30°C, Humidity: 40%, Wind Speed: 3 m/s", result.Display())
	assert.Equal(t, "01d", result.Conditions.IconRef)

	query := *captured
	assert.Equal(t, "jaipur,IN", query.Get("q"))
	assert.Equal(t, "key", query.Get("appid"))
	assert.Equal(t, "metric", query.Get("units"))
}

func TestLookupFractionalValues(t *testing.T) {
	srv, _ := newStub(t, http.StatusOK, `{"cod":"200","weather":[{"description":"LIGHT RAIN"}],"main":{"temp":27.5,"humidity":88},"wind":{"speed":4.12}}`)
	client := NewClient(Config{BaseURL: srv.URL}, srv.Client())

	result := client.Lookup(context.Background(), "new delhi")
	require.True(t, result.OK())
	assert.Equal(t, "🌦️ Weather in New Delhi: Light rain, Temp: 27.5°C, Humidity: 88%, Wind Speed: 4.12 m/s", result.Display())
}

func TestLookupNonSuccessStatus(t *testing.T) {
	srv, _ := newStub(t, http.StatusNotFound, `{"cod":"404","message":"city not found"}`)
	client := NewClient(Config{BaseURL: srv.URL}, srv.Client())

	result := client.Lookup(context.Background(), "Atlantis")
	assert.False(t, result.OK())
	assert.Nil(t, result.Conditions)
	assert.True(t, errors.Is(result.Err, ErrBadStatus))
	assert.Equal(t, FailureNotice, result.Display())
}

func TestLookupCodFieldMismatch(t *testing.T) {
	srv, _ := newStub(t, http.StatusOK, `{"cod":401,"message":"Invalid API key"}`)
	client := NewClient(Config{BaseURL: srv.URL}, srv.Client())

	result := client.Lookup(context.Background(), "Jaipur")
	assert.ErrorIs(t, result.Err, ErrBadStatus)
}

func TestLookupMalformedBody(t *testing.T) {
	srv, _ := newStub(t, http.StatusOK, `{"cod":200,"weather":[]}`)
	client := NewClient(Config{BaseURL: srv.URL}, srv.Client())

	result := client.Lookup(context.Background(), "Jaipur")
	assert.ErrorIs(t, result.Err, ErrMalformed)

	srv2, _ := newStub(t, http.StatusOK, `not json`)
	result = NewClient(Config{BaseURL: srv2.URL}, srv2.Client()).Lookup(context.Background(), "Jaipur")
	assert.ErrorIs(t, result.Err, ErrMalformed)
}

func TestLookupTransportFailure(t *testing.T) {
	srv, _ := newStub(t, http.StatusOK, clearSky)
	client := NewClient(Config{BaseURL: srv.URL}, srv.Client())
	srv.Close()

	result := client.Lookup(context.Background(), "Jaipur")
	assert.ErrorIs(t, result.Err, ErrUnavailable)
}

func TestLookupEmptyCity(t *testing.T) {
	client := NewClient(Config{}, nil)
	result := client.Lookup(context.Background(), "   ")
	assert.ErrorIs(t, result.Err, ErrEmptyCity)
}

func TestLookupKeepsBaseURLQuery(t *testing.T) {
	srv, captured := newStub(t, http.StatusOK, clearSky)
	client := NewClient(Config{BaseURL: srv.URL + "?lang=en", APIKey: "key"}, srv.Client())

	result := client.Lookup(context.Background(), "Jaipur")
	require.True(t, result.OK(), "unexpected failure: %v", result.Err)

	query := *captured
	assert.Equal(t, "en", query.Get("lang"))
	assert.Equal(t, "Jaipur,IN", query.Get("q"))
	assert.Equal(t, "metric", query.Get("units"))
}

func TestLookupOversizedBody(t *testing.T) {
	body := `{"cod":200,"pad":"` + strings.Repeat("a", maxBodyBytes+10) + `"}`
	srv, _ := newStub(t, http.StatusOK, body)
	client := NewClient(Config{BaseURL: srv.URL}, srv.Client())

	result := client.Lookup(context.Background(), "Jaipur")
	assert.False(t, result.OK())
	assert.True(t, errors.Is(result.Err, ErrMalformed), "got %v", result.Err)
}
