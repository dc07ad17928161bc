package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

type payload struct {
	Name string `json:"name"`
}

func TestGetJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user, _, ok := r.BasicAuth(); !ok || user != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{"name": "Gare du Nord"}`))
	}))
	defer server.Close()

	requester := &Requester{
		Name: "test",
		Authorise: func(req *http.Request) {
			req.SetBasicAuth("secret", "")
		},
	}

	result, err := GetJSON[payload](context.Background(), requester, server.URL)
	if err != nil {
		t.Fatalf("GetJSON returned error: %v", err)
	}
	if result.Name != "Gare du Nord" {
		t.Errorf("Name = %q", result.Name)
	}
}

func TestGetJSONRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"name": "ok"}`))
	}))
	defer server.Close()

	requester := &Requester{Name: "test", MaxRetries: 3}

	result, err := GetJSON[payload](context.Background(), requester, server.URL)
	if err != nil {
		t.Fatalf("GetJSON returned error: %v", err)
	}
	if result.Name != "ok" || calls.Load() != 3 {
		t.Errorf("Name = %q after %d calls, expected ok after 3", result.Name, calls.Load())
	}
}

func TestGetJSONClientErrorIsPermanent(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	requester := &Requester{Name: "test", MaxRetries: 3}

	_, err := GetJSON[payload](context.Background(), requester, server.URL)

	var upstreamErr *UpstreamError
	if !errors.As(err, &upstreamErr) || upstreamErr.StatusCode != http.StatusNotFound {
		t.Fatalf("expected UpstreamError 404, got %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("expected a single call for a 4xx, got %d", calls.Load())
	}
}

func TestGetJSONMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>maintenance</html>`))
	}))
	defer server.Close()

	if _, err := GetJSON[payload](context.Background(), &Requester{Name: "test", MaxRetries: 2}, server.URL); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestGetJSONHonoursContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	if _, err := GetJSON[payload](ctx, &Requester{Name: "test", MaxRetries: 5}, server.URL); err == nil {
		t.Fatal("expected timeout error")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("GetJSON took %s, expected to give up with the context", elapsed)
	}
}
