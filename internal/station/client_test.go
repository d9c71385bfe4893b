package station

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestClientFetchSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"100": {"t": 1.0}, "200": {"t": 2.0}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.Client(), srv.URL, testLogger())

	set, err := client.FetchObservations(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(set) != 2 {
		t.Fatalf("expected 2 observations, got %d", len(set))
	}
	obs, _ := set.Latest()
	if v, _ := obs.Field("t"); v != 2.0 {
		t.Fatalf("expected latest t=2.0, got %v", v)
	}
}

func TestClientStationErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"messagesource":"weatherstation","message":"boom"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.Client(), srv.URL, testLogger())

	_, err := client.FetchObservations(context.Background())
	if !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
	if !strings.Contains(err.Error(), "weatherstation") || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("error should carry station attribution and message, got %q", err)
	}
}

func TestClientNonJSONContentType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html>service page</html>"))
	}))
	defer srv.Close()

	client := NewClient(srv.Client(), srv.URL, testLogger())

	if _, err := client.FetchObservations(context.Background()); !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected ErrUpstream for non-JSON content type, got %v", err)
	}
}

func TestClientMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"100": "not an object"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.Client(), srv.URL, testLogger())

	if _, err := client.FetchObservations(context.Background()); !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected ErrUpstream for malformed body, got %v", err)
	}
}

func TestClientEmptyObservationSet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewClient(srv.Client(), srv.URL, testLogger())

	if _, err := client.FetchObservations(context.Background()); !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected ErrUpstream for empty set, got %v", err)
	}
}

func TestClientTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := NewClient(http.DefaultClient, url, testLogger())

	if _, err := client.FetchObservations(context.Background()); !errors.Is(err, ErrTransport) {
		t.Fatalf("expected ErrTransport for refused connection, got %v", err)
	}
}
