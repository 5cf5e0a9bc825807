package handler

import (
	"bufio"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safetrip/backend/internal/metrics"
	chatModel "github.com/safetrip/backend/internal/model/chat"
	helplineModel "github.com/safetrip/backend/internal/model/helpline"
	"github.com/safetrip/backend/internal/service/assistant"
	chatService "github.com/safetrip/backend/internal/service/chat"
	"github.com/safetrip/backend/internal/service/weather"
)

func newTestServer(t *testing.T) (*httptest.Server, *chatService.Service) {
	t.Helper()

	weatherStub := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"cod":"404","message":"city not found"}`))
	}))
	t.Cleanup(weatherStub.Close)

	registry := prometheus.NewRegistry()
	collectors := metrics.New(registry)
	helplines := helplineModel.NewMemoryStore(helplineModel.Seed())
	chatSvc := chatService.NewService()
	lookup := weather.NewClient(weather.Config{BaseURL: weatherStub.URL, APIKey: "test"}, weatherStub.Client())
	assistantSvc := assistant.NewService(chatSvc, lookup, nil, helplines, assistant.Options{Metrics: collectors})

	srv := httptest.NewServer(NewRouter(helplines, chatSvc, assistantSvc, registry, collectors))
	t.Cleanup(srv.Close)
	return srv, chatSvc
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGreetingRoundTripAndMetrics(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/session", "application/json", nil)
	require.NoError(t, err)
	var session chatModel.Session
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&session))
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, err = http.Post(srv.URL+"/api/session/"+session.ID+"/messages", "application/json", strings.NewReader(`{"message":"hello"}`))
	require.NoError(t, err)
	var reply assistant.Reply
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&reply))
	resp.Body.Close()

	require.Len(t, reply.Messages, 1)
	assert.Equal(t, assistant.GreetingReply, reply.Messages[0].Text)

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	scanner := bufio.NewScanner(resp.Body)
	found := false
	for scanner.Scan() {
		if strings.HasPrefix(scanner.Text(), `safetrip_classifications_total{kind="greeting"}`) {
			found = true
		}
	}
	assert.True(t, found, "greeting classification not exported")
}

func TestHelplinesListed(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/helplines")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestStreamRequiresMessage(t *testing.T) {
	srv, chatSvc := newTestServer(t)
	session, err := chatSvc.CreateSession(t.Context())
	require.NoError(t, err)

	resp, err := http.Get(srv.URL + "/api/stream/" + session.ID)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStreamUnknownSession(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/stream/missing?message=" + url.QueryEscape("hi"))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestStreamEmitsEvents(t *testing.T) {
	srv, chatSvc := newTestServer(t)
	session, err := chatSvc.CreateSession(t.Context())
	require.NoError(t, err)

	resp, err := http.Get(srv.URL + "/api/stream/" + session.ID + "?message=" + url.QueryEscape("Atlantis"))
	require.NoError(t, err)
	defer resp.Body.Close()

	var events []string
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		if name, ok := strings.CutPrefix(scanner.Text(), "event: "); ok {
			events = append(events, name)
		}
	}
	assert.Equal(t, []string{"start", "message", "message", "notice", "end"}, events)
}
