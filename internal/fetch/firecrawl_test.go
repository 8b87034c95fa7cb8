package fetch_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pricewatch/internal/fetch"
)

func TestSearchURLKnownPlatforms(t *testing.T) {
	for _, id := range []string{"blinkit", "zepto", "swiggy", "amazon", "flipkart", "bigbasket", "jiomart", "dmart"} {
		u := fetch.SearchURL(id, "Tata Salt 1 kg")
		if u == "" {
			t.Fatalf("%s: expected a search URL", id)
		}
		if !strings.Contains(u, "Tata+Salt+1+kg") && !strings.Contains(u, "Tata%20Salt%201%20kg") {
			t.Fatalf("%s: product name not encoded into %q", id, u)
		}
	}
}

func TestSearchURLUnknownPlatform(t *testing.T) {
	if u := fetch.SearchURL("cornershop", "milk"); u != "" {
		t.Fatalf("unknown platform must yield empty URL, got %q", u)
	}
}

func TestClientFetchSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("auth header: %q", got)
		}
		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		if req["onlyMainContent"] != true {
			t.Errorf("want onlyMainContent, got %v", req)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data":    map[string]any{"markdown": "# Results\n₹99"},
		})
	}))
	defer srv.Close()

	c := fetch.NewClient(srv.URL, "test-key", "IN")
	text, err := c.Fetch(context.Background(), "https://example.com/search?q=milk")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(text, "₹99") {
		t.Fatalf("unexpected body: %q", text)
	}
}

func TestClientFetchRemoteFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "render timeout"})
	}))
	defer srv.Close()

	c := fetch.NewClient(srv.URL, "test-key", "IN")
	_, err := c.Fetch(context.Background(), "https://example.com")
	if err == nil {
		t.Fatal("ok:false must surface as an error")
	}
	if !strings.Contains(err.Error(), "render timeout") {
		t.Fatalf("error should carry the remote cause: %v", err)
	}
	var remote *fetch.RemoteError
	if !errors.As(err, &remote) {
		t.Fatalf("service-reported failure must be a RemoteError: %T", err)
	}
}

func TestClientFetchMissingBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true})
	}))
	defer srv.Close()

	c := fetch.NewClient(srv.URL, "test-key", "IN")
	if _, err := c.Fetch(context.Background(), "https://example.com"); err == nil {
		t.Fatal("missing text must surface as an error")
	}
}

func TestClientFetchBadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>gateway error</html>"))
	}))
	defer srv.Close()

	c := fetch.NewClient(srv.URL, "test-key", "IN")
	_, err := c.Fetch(context.Background(), "https://example.com")
	if err == nil {
		t.Fatal("non-JSON response must surface as an error")
	}
	var remote *fetch.RemoteError
	if errors.As(err, &remote) {
		t.Fatalf("a decode problem is not a service-reported failure: %v", err)
	}
}
