package geocode

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLookupSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("Expected GET request, got %s", r.Method)
		}
		if r.URL.Path != "/reverse" {
			t.Errorf("Expected /reverse, got %s", r.URL.Path)
		}

		q := r.URL.Query()
		expected := map[string]string{
			"format":         "jsonv2",
			"lat":            "53.3498",
			"lon":            "-6.2603",
			"zoom":           "18",
			"addressdetails": "0",
		}
		for k, v := range expected {
			if q.Get(k) != v {
				t.Errorf("Expected %s=%s, got %s", k, v, q.Get(k))
			}
		}

		if r.Header.Get("User-Agent") != "test-agent/1.0" {
			t.Errorf("Expected custom user agent, got %q", r.Header.Get("User-Agent"))
		}
		if r.Header.Get("Accept") != "application/json" {
			t.Errorf("Expected JSON accept header, got %q", r.Header.Get("Accept"))
		}

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"place_id": 1, "display_name": "O'Connell Street, Dublin"}`)
	}))
	defer server.Close()

	client := NewClient(server.URL+"/", "test-agent/1.0", time.Second, testLogger())

	name, ok := client.Lookup(context.Background(), 53.3498, -6.2603)
	if !ok {
		t.Fatal("Expected lookup to succeed")
	}
	if name != "O'Connell Street, Dublin" {
		t.Errorf("Unexpected name %q", name)
	}
}

func TestLookupFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "non-200 status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "slow down", http.StatusTooManyRequests)
			},
		},
		{
			name: "missing display name",
			handler: func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, `{"error": "Unable to geocode"}`)
			},
		},
		{
			name: "blank display name",
			handler: func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, `{"display_name": "   "}`)
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, `<html>`)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			client := NewClient(server.URL, "", time.Second, testLogger())
			name, ok := client.Lookup(context.Background(), 1, 2)
			if ok {
				t.Errorf("Expected failure, got %q", name)
			}
			if name != "" {
				t.Errorf("Expected empty name, got %q", name)
			}
		})
	}
}

func TestLookupTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client := NewClient(server.URL, "", MinTimeout, testLogger())

	start := time.Now()
	_, ok := client.Lookup(context.Background(), 1, 2)
	if ok {
		t.Fatal("Expected timeout to be reported as failure")
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("Lookup took %v, expected it to give up near %v", elapsed, MinTimeout)
	}
}

func TestLookupUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := NewClient(url, "", time.Second, testLogger())
	if _, ok := client.Lookup(context.Background(), 1, 2); ok {
		t.Fatal("Expected failure for unreachable server")
	}
}

func TestNewClientDefaults(t *testing.T) {
	client := NewClient("", "", 100*time.Millisecond, nil)

	if client.baseURL != DefaultBaseURL {
		t.Errorf("Expected default base URL, got %s", client.baseURL)
	}
	if client.userAgent != DefaultUserAgent {
		t.Errorf("Expected default user agent, got %s", client.userAgent)
	}
	if client.httpClient.Timeout != MinTimeout {
		t.Errorf("Expected timeout clamped to %v, got %v", MinTimeout, client.httpClient.Timeout)
	}
}
