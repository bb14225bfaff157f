package main

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/kidandcat/rallypoint/internal/config"
)

func testServer(t *testing.T, backend string) http.Handler {
	t.Helper()
	u, err := url.Parse(backend)
	if err != nil {
		t.Fatal(err)
	}
	cfg := config.Config{BackendURL: u, RequestTimeout: 5 * time.Second}
	pwa := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "shell")
	})
	return newServer(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), pwa).routes()
}

func TestHealthz(t *testing.T) {
	h := testServer(t, "http://127.0.0.1:1")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil || body["status"] != "ok" {
		t.Errorf("body %v err %v", body, err)
	}
	if rec.Header().Get(requestIDHeader) == "" {
		t.Error("responses should carry a request id")
	}
}

type seen struct {
	id, cookie, uri string
}

func TestProxyForwardsAPI(t *testing.T) {
	got := make(chan seen, 2)
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got <- seen{r.Header.Get(requestIDHeader), r.Header.Get("Cookie"), r.URL.RequestURI()}
		http.SetCookie(w, &http.Cookie{Name: "sessionid", Value: "abc", Path: "/"})
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[]`)
	}))
	defer backend.Close()

	h := testServer(t, backend.URL)

	req := httptest.NewRequest(http.MethodGet, "/api/events/?mine=true", nil)
	req.Header.Set("Cookie", "sessionid=old")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK || rec.Body.String() != "[]" {
		t.Fatalf("status %d body %q", rec.Code, rec.Body.String())
	}
	first := <-got
	if first.uri != "/api/events/?mine=true" {
		t.Errorf("backend saw %q", first.uri)
	}
	if first.cookie != "sessionid=old" {
		t.Errorf("cookie not forwarded: %q", first.cookie)
	}
	if first.id == "" || first.id != rec.Header().Get(requestIDHeader) {
		t.Errorf("request id %q not forwarded or echoed", first.id)
	}
	if rec.Header().Get("Set-Cookie") == "" {
		t.Error("backend cookies should reach the browser")
	}

	req = httptest.NewRequest(http.MethodGet, "/api/profiles/me/", nil)
	req.Header.Set(requestIDHeader, "client-123")
	h.ServeHTTP(httptest.NewRecorder(), req)
	if second := <-got; second.id != "client-123" {
		t.Errorf("existing request id replaced with %q", second.id)
	}
}

func TestProxyBackendDown(t *testing.T) {
	backend := httptest.NewServer(http.NotFoundHandler())
	addr := backend.URL
	backend.Close()

	rec := httptest.NewRecorder()
	testServer(t, addr).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/events/", nil))

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status %d", rec.Code)
	}
	var body map[string]string
	json.NewDecoder(rec.Body).Decode(&body)
	if body["detail"] == "" {
		t.Errorf("expected a detail message, got %v", body)
	}
}

func TestPagesServedByShell(t *testing.T) {
	rec := httptest.NewRecorder()
	testServer(t, "http://127.0.0.1:1").ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/events/mine/", nil))
	if rec.Body.String() != "shell" {
		t.Errorf("got %q", rec.Body.String())
	}
}
