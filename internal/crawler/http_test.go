package crawler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestGetJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			if r.Header.Get("Accept") != "application/json" {
				t.Errorf("Expected Accept header, got %q", r.Header.Get("Accept"))
			}
			w.Write([]byte(`{"price": 101.5}`))
		case "/broken":
			w.Write([]byte(`{"price":`))
		default:
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("maintenance"))
		}
	}))
	defer server.Close()

	client := NewHTTPClient(time.Second)
	ctx := context.Background()

	var out struct {
		Price float64 `json:"price"`
	}
	if err := GetJSON(ctx, client, server.URL+"/ok", &out); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if out.Price != 101.5 {
		t.Errorf("Expected price 101.5, got %v", out.Price)
	}

	if err := GetJSON(ctx, client, server.URL+"/broken", &out); err == nil {
		t.Error("Expected decode error for truncated body")
	}

	err := GetJSON(ctx, client, server.URL+"/down", &out)
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("Expected StatusError, got %v", err)
	}
	if statusErr.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503, got %d", statusErr.StatusCode)
	}
	if statusErr.Body != "maintenance" {
		t.Errorf("Expected body 'maintenance', got %q", statusErr.Body)
	}
}

func TestStatusErrorPermanent(t *testing.T) {
	tests := []struct {
		code     int
		expected bool
	}{
		{http.StatusBadRequest, true},
		{http.StatusNotFound, true},
		{http.StatusRequestTimeout, false},
		{http.StatusTooManyRequests, false},
		{http.StatusInternalServerError, false},
		{http.StatusBadGateway, false},
	}

	for _, tt := range tests {
		err := &StatusError{URL: "http://x", StatusCode: tt.code}
		if got := err.Permanent(); got != tt.expected {
			t.Errorf("Status %d: expected permanent=%v, got %v", tt.code, tt.expected, got)
		}
	}
}

func TestGetJSONHonorsContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	var out map[string]any
	if err := GetJSON(ctx, NewHTTPClient(time.Second), server.URL, &out); err == nil {
		t.Error("Expected error when context expires")
	}
}
