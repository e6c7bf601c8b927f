package recognizer

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func shazamServer(t *testing.T, handler http.HandlerFunc) *ShazamClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewShazamClient(server.URL, 5*time.Second)
}

func TestShazamRecognizeMatch(t *testing.T) {
	client := shazamServer(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var payload map[string]string
		if err := json.Unmarshal(body, &payload); err != nil {
			t.Errorf("request body is not JSON: %v", err)
		}
		if decoded, err := base64.StdEncoding.DecodeString(payload["samples"]); err != nil || string(decoded) != "segment-audio" {
			t.Errorf("audio payload not round-tripped: %v", err)
		}
		w.Write([]byte(`{
			"matches": [{"score": 87}],
			"track": {"key": "track-123", "title": "Strobe", "subtitle": "deadmau5"}
		}`))
	})

	m, err := client.Recognize(context.Background(), []byte("segment-audio"), nil)
	if err != nil {
		t.Fatalf("Recognize() error: %v", err)
	}
	if m == nil || m.TrackID != "track-123" || m.Title != "Strobe" || m.Artist != "deadmau5" {
		t.Fatalf("unexpected match: %+v", m)
	}
	if m.Confidence != 0.87 {
		t.Fatalf("Confidence = %v, want 0.87", m.Confidence)
	}
}

func TestShazamRecognizeNoMatch(t *testing.T) {
	client := shazamServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"matches": []}`))
	})

	m, err := client.Recognize(context.Background(), []byte("audio"), nil)
	if err != nil {
		t.Fatalf("a clean no-match is not an error: %v", err)
	}
	if m != nil {
		t.Fatalf("expected nil match, got %+v", m)
	}
}

func TestShazamRecognizeMissingScoreDefaultsToFull(t *testing.T) {
	client := shazamServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"matches": [{}], "track": {"key": "k", "title": "T", "subtitle": "A"}}`))
	})

	m, err := client.Recognize(context.Background(), []byte("audio"), nil)
	if err != nil {
		t.Fatalf("Recognize() error: %v", err)
	}
	if m.Confidence != 1 {
		t.Fatalf("Confidence = %v, want 1", m.Confidence)
	}
}

func TestShazamErrorClassification(t *testing.T) {
	cases := []struct {
		status    int
		transient bool
		proxyAuth bool
	}{
		{http.StatusTooManyRequests, true, false},
		{http.StatusInternalServerError, true, false},
		{http.StatusBadGateway, true, false},
		{http.StatusProxyAuthRequired, false, true},
		{http.StatusBadRequest, false, false},
	}
	for _, c := range cases {
		client := shazamServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(c.status)
		})
		_, err := client.Recognize(context.Background(), []byte("audio"), nil)
		if err == nil {
			t.Fatalf("status %d: expected an error", c.status)
		}
		if IsTransient(err) != c.transient {
			t.Fatalf("status %d: IsTransient = %v, want %v", c.status, IsTransient(err), c.transient)
		}
		if IsProxyAuth(err) != c.proxyAuth {
			t.Fatalf("status %d: IsProxyAuth = %v, want %v", c.status, IsProxyAuth(err), c.proxyAuth)
		}
	}
}

func TestShazamMalformedBodyIsTransient(t *testing.T) {
	client := shazamServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"matches": [`))
	})

	_, err := client.Recognize(context.Background(), []byte("audio"), nil)
	if !IsTransient(err) {
		t.Fatalf("a truncated body must classify transient, got %v", err)
	}
}

func TestShazamConnectionErrorIsTransient(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close() // nothing listening anymore
	client := NewShazamClient(server.URL, time.Second)

	_, err := client.Recognize(context.Background(), []byte("audio"), nil)
	if !IsTransient(err) {
		t.Fatalf("a refused connection must classify transient, got %v", err)
	}
}
