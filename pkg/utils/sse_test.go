package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSendSSEEventWritesFrame(t *testing.T) {
	rr := httptest.NewRecorder()
	SetupSSEHeaders(rr)

	if err := SendSSEEvent(rr, rr, "message", map[string]string{"text": "hi"}); err != nil {
		t.Fatalf("SendSSEEvent err: %v", err)
	}

	if got := rr.Header().Get("Content-Type"); got != "text/event-stream" {
		t.Fatalf("unexpected content type %q", got)
	}
	want := "event: message\ndata: {\"text\":\"hi\"}\n\n"
	if rr.Body.String() != want {
		t.Fatalf("unexpected frame %q", rr.Body.String())
	}
	if !rr.Flushed {
		t.Fatal("expected flush")
	}
}

func TestRespondError(t *testing.T) {
	rr := httptest.NewRecorder()
	RespondError(rr, http.StatusNotFound, "session not found")

	if rr.Code != http.StatusNotFound {
		t.Fatalf("unexpected status %d", rr.Code)
	}
	if rr.Body.String() != "{\"error\":\"session not found\"}\n" {
		t.Fatalf("unexpected body %q", rr.Body.String())
	}
}
