package loader

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const treeJSON = `[
 {"id":"a","parent_id":null,"list_order":1,"title":"A","href":"/resources/a/alpha","child_count":1},
 {"id":"b","parent_id":null,"list_order":0,"title":"B","href":"/resources/b/beta","child_count":0},
 {"id":"c","parent_id":"a","list_order":0,"title":"C","href":"/resources/c/gamma","child_count":0}
]`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/resources/tree", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Accept") != "application/json" {
			t.Errorf("expected Accept: application/json, got %q", r.Header.Get("Accept"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(treeJSON))
	})
	mux.HandleFunc("/api/resources/42", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"42","title":"Intro","content":"# Intro\n\nHello"}`))
	})
	mux.HandleFunc("/api/resources/noid", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"content":"body"}`))
	})
	mux.HandleFunc("/api/resources/garbage", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{not json`))
	})
	mux.HandleFunc("/api/resources/boom", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "server exploded", http.StatusInternalServerError)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_FetchTree(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient(srv.URL+"/api/", WithRateLimit(0))

	nodes, err := c.FetchTree(context.Background())
	if err != nil {
		t.Fatalf("FetchTree failed: %v", err)
	}
	if len(nodes) != 3 {
		t.Fatalf("expected 3 nodes, got %d", len(nodes))
	}
	if !nodes[0].IsRoot() {
		t.Error("expected null parent_id to decode as root")
	}
	if !nodes[2].HasParent("a") {
		t.Errorf("expected c under a, got %v", nodes[2].ParentID)
	}
	if c.BaseURL() != srv.URL+"/api" {
		t.Errorf("expected trailing slash trimmed, got %s", c.BaseURL())
	}
}

func TestClient_FetchResource(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient(srv.URL+"/api", WithRateLimit(0))

	res, err := c.FetchResource(context.Background(), "42")
	if err != nil {
		t.Fatalf("FetchResource failed: %v", err)
	}
	if res.Title != "Intro" || res.Content != "# Intro\n\nHello" {
		t.Errorf("unexpected resource: %+v", res)
	}

	res, err = c.FetchResource(context.Background(), "noid")
	if err != nil {
		t.Fatalf("FetchResource failed: %v", err)
	}
	if res.ID != "noid" {
		t.Errorf("expected id filled from request, got %q", res.ID)
	}
}

func TestClient_NotFound(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient(srv.URL+"/api", WithRateLimit(0))

	_, err := c.FetchResource(context.Background(), "missing")
	if !IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusNotFound {
		t.Errorf("expected *APIError with 404, got %v", err)
	}

	if _, err := c.FetchResource(context.Background(), ""); !IsNotFound(err) {
		t.Errorf("expected empty id to be not found, got %v", err)
	}
}

func TestClient_ServerError(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient(srv.URL+"/api", WithRateLimit(0))

	_, err := c.FetchResource(context.Background(), "boom")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.StatusCode != 500 {
		t.Errorf("expected status 500, got %d", apiErr.StatusCode)
	}
	if apiErr.Message != "server exploded" {
		t.Errorf("expected body in message, got %q", apiErr.Message)
	}
	if IsNotFound(err) {
		t.Error("500 must not count as not found")
	}
}

func TestClient_InvalidJSON(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient(srv.URL+"/api", WithRateLimit(0))

	_, err := c.FetchResource(context.Background(), "garbage")
	if !errors.Is(err, ErrInvalidResponse) {
		t.Errorf("expected ErrInvalidResponse, got %v", err)
	}
}

func TestClient_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(url, WithRateLimit(0), WithTimeout(time.Second))
	_, err := c.FetchTree(context.Background())
	if !IsNetworkError(err) {
		t.Errorf("expected network error, got %v", err)
	}
}

func TestClient_ContextCanceled(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient(srv.URL+"/api", WithRateLimit(1))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.FetchTree(ctx); err == nil {
		t.Error("expected error for canceled context")
	}
}

func TestClient_UserAgent(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("User-Agent")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, WithRateLimit(0), WithUserAgent("sn/test"))
	nodes, err := c.FetchTree(context.Background())
	if err != nil {
		t.Fatalf("FetchTree failed: %v", err)
	}
	if len(nodes) != 0 {
		t.Errorf("expected empty tree, got %d", len(nodes))
	}
	if got != "sn/test" {
		t.Errorf("expected user agent sn/test, got %q", got)
	}
}
