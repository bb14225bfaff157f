package session

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/kidandcat/rallypoint/internal/api"
	"github.com/kidandcat/rallypoint/internal/route"
)

// recordHandler keeps every slog record at or above Debug.
type recordHandler struct {
	mu      sync.Mutex
	records []slog.Record
}

func (h *recordHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *recordHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	h.records = append(h.records, r)
	h.mu.Unlock()
	return nil
}

func (h *recordHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *recordHandler) WithGroup(string) slog.Handler      { return h }

func (h *recordHandler) count(min slog.Level) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, r := range h.records {
		if r.Level >= min {
			n++
		}
	}
	return n
}

func profileServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != api.ProfilePath {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestProbeAuthenticated(t *testing.T) {
	srv := profileServer(t, http.StatusOK, `{"user":{"username":"alice"},"is_organizer":true}`)
	h := &recordHandler{}

	s := Probe(context.Background(), api.New(srv.URL), slog.New(h))
	if !s.Authenticated {
		t.Fatal("expected authenticated session")
	}
	nav := s.Nav()
	if nav.Username != "alice" || !nav.ShowAuth || nav.ShowGuest {
		t.Errorf("unexpected nav %+v", nav)
	}
	if !s.IsOrganizer() {
		t.Error("expected organizer")
	}
	if h.count(slog.LevelWarn) != 0 {
		t.Error("no warnings expected")
	}
}

func TestProbeUnauthorizedIsExpected(t *testing.T) {
	srv := profileServer(t, http.StatusUnauthorized, `{"detail":"Authentication credentials were not provided."}`)
	h := &recordHandler{}

	s := Probe(context.Background(), api.New(srv.URL), slog.New(h))
	if s.Authenticated {
		t.Fatal("expected guest session")
	}
	if n := h.count(slog.LevelWarn); n != 0 {
		t.Errorf("401 must not be logged as unexpected, got %d records", n)
	}
	nav := s.Nav()
	if nav.ShowAuth || !nav.ShowGuest || nav.Username != "" {
		t.Errorf("unexpected nav %+v", nav)
	}
}

func TestProbeServerErrorIsUnexpected(t *testing.T) {
	srv := profileServer(t, http.StatusInternalServerError, `boom`)
	h := &recordHandler{}

	s := Probe(context.Background(), api.New(srv.URL), slog.New(h))
	if s.Authenticated {
		t.Fatal("expected guest session")
	}
	if n := h.count(slog.LevelWarn); n != 1 {
		t.Errorf("expected one unexpected-response record, got %d", n)
	}
}

func TestProbeMalformedBody(t *testing.T) {
	srv := profileServer(t, http.StatusOK, `not json`)
	h := &recordHandler{}

	s := Probe(context.Background(), api.New(srv.URL), slog.New(h))
	if s.Authenticated {
		t.Fatal("unparseable profile must resolve to guest")
	}
	if h.count(slog.LevelError) != 1 {
		t.Error("expected an error record")
	}
}

func TestProbeTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()
	h := &recordHandler{}

	s := Probe(context.Background(), api.New(addr), slog.New(h))
	if s.Authenticated {
		t.Fatal("expected guest session")
	}
	if h.count(slog.LevelError) != 1 {
		t.Error("transport failure should be logged")
	}
}

func TestRedirectRequiresAuth(t *testing.T) {
	page := route.Lookup("/events/profile/messages/")
	current, _ := url.Parse("/events/profile/messages/?conversation=3&x=a b")

	target, ok := Redirect(page, Session{}, current)
	if !ok {
		t.Fatal("expected redirect")
	}
	want := "/events/login/?next=" + url.QueryEscape("/events/profile/messages/?conversation=3&x=a b")
	if target != want {
		t.Errorf("target = %q, want %q", target, want)
	}
	if !strings.Contains(target, "next=%2Fevents%2Fprofile%2Fmessages%2F%3Fconversation%3D3%26x%3Da") {
		t.Errorf("next not percent-encoded: %q", target)
	}

	u, err := url.Parse(target)
	if err != nil {
		t.Fatal(err)
	}
	if got := NextParam(u, "/events/"); got != "/events/profile/messages/?conversation=3&x=a b" {
		t.Errorf("NextParam round trip = %q", got)
	}
}

func TestRedirectAuthenticatedAwayFromLogin(t *testing.T) {
	page := route.Lookup("/events/login/")
	s := Session{Authenticated: true, Profile: &api.Profile{}}

	target, ok := Redirect(page, s, &url.URL{Path: "/events/login/"})
	if !ok || target != route.DefaultAuthRedirect {
		t.Errorf("got %q, %v", target, ok)
	}

	if _, ok := Redirect(route.Lookup("/events/"), Session{}, &url.URL{Path: "/events/"}); ok {
		t.Error("public page should not redirect")
	}
}

func TestNextParamRejectsOffsiteTargets(t *testing.T) {
	for _, next := range []string{"https://evil.example/", "//evil.example", "/\\evil.example", "relative"} {
		u := &url.URL{RawQuery: url.Values{"next": {next}}.Encode()}
		if got := NextParam(u, "/events/"); got != "/events/" {
			t.Errorf("NextParam(%q) = %q, want fallback", next, got)
		}
	}
}

func TestLogoutRedirectsEvenOnFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	if got := Logout(context.Background(), api.New(addr), slog.New(&recordHandler{}), ""); got != DefaultLogoutRedirect {
		t.Errorf("got %q", got)
	}
}
