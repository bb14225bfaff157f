package main

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/kidandcat/rallypoint/internal/alerts"
	"github.com/kidandcat/rallypoint/internal/prefs"
)

// fakeBackend accepts alice/secret and answers the profile endpoint only
// for the session cookie it handed out.
func fakeBackend(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login/", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if !strings.Contains(string(body), `"password":"secret"`) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			io.WriteString(w, `{"non_field_errors":["Unable to log in with provided credentials."]}`)
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "sessionid", Value: "s1", Path: "/"})
		io.WriteString(w, `{}`)
	})
	mux.HandleFunc("POST /api/auth/logout/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("GET /api/profiles/me/", func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie("sessionid"); err != nil || c.Value != "s1" {
			w.WriteHeader(http.StatusUnauthorized)
			io.WriteString(w, `{"detail":"Authentication credentials were not provided."}`)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"user":{"id":1,"username":"alice"},"is_organizer":true}`)
	})
	mux.HandleFunc("GET /api/events/{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[{"id":3,"title":"Picnic","start_time":"2025-06-14T10:00:00Z","going_count":1200}]`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func run(t *testing.T, backend, dataDir string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(append([]string{"--backend", backend, "--data-dir", dataDir}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestSessionSurvivesInvocations(t *testing.T) {
	t.Setenv("RALLY_BACKEND_URL", "")
	t.Setenv("RALLY_LOG_LEVEL", "error")
	srv := fakeBackend(t)
	dir := t.TempDir()

	out, err := run(t, srv.URL, dir, "whoami")
	if err != nil || !strings.Contains(out, "Not logged in.") {
		t.Fatalf("fresh whoami: %q %v", out, err)
	}

	out, err = run(t, srv.URL, dir, "login", "alice", "-p", "wrong")
	if !errors.Is(err, errReported) || !strings.Contains(out, "[danger] Unable to log in with provided credentials.") {
		t.Fatalf("bad login: %q %v", out, err)
	}

	out, err = run(t, srv.URL, dir, "login", "alice", "-p", "secret")
	if err != nil || !strings.Contains(out, "[success] Logged in successfully.") {
		t.Fatalf("login: %q %v", out, err)
	}

	out, err = run(t, srv.URL, dir, "whoami")
	if err != nil || strings.TrimSpace(out) != "alice (organizer)" {
		t.Fatalf("whoami after login: %q %v", out, err)
	}

	if _, err := run(t, srv.URL, dir, "logout"); err != nil {
		t.Fatal(err)
	}
	out, _ = run(t, srv.URL, dir, "whoami")
	if !strings.Contains(out, "Not logged in.") {
		t.Errorf("whoami after logout: %q", out)
	}
}

func TestEventsList(t *testing.T) {
	t.Setenv("RALLY_BACKEND_URL", "")
	t.Setenv("RALLY_LOG_LEVEL", "error")
	srv := fakeBackend(t)

	out, err := run(t, srv.URL, t.TempDir(), "events", "list")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Picnic") || !strings.Contains(out, "Going: 1,200") {
		t.Errorf("output %q", out)
	}
}

func TestThemeCommand(t *testing.T) {
	t.Setenv("RALLY_BACKEND_URL", "")
	srv := fakeBackend(t)
	dir := t.TempDir()

	if out, _ := run(t, srv.URL, dir, "theme"); strings.TrimSpace(out) != "light" {
		t.Errorf("default theme %q", out)
	}
	if out, _ := run(t, srv.URL, dir, "theme", "toggle"); strings.TrimSpace(out) != "dark" {
		t.Errorf("toggle %q", out)
	}
	if out, _ := run(t, srv.URL, dir, "theme"); strings.TrimSpace(out) != "dark" {
		t.Errorf("theme not persisted: %q", out)
	}
	if _, err := run(t, srv.URL, dir, "theme", "sepia"); err == nil {
		t.Error("unknown theme should fail")
	}
}

func TestCookieRoundTrip(t *testing.T) {
	u, _ := url.Parse("http://example.test")
	store := prefs.MemStore{}

	jar, _ := cookiejar.New(nil)
	jar.SetCookies(u, []*http.Cookie{{Name: "sessionid", Value: "abc", Path: "/"}})
	if err := saveCookies(store, jar, u); err != nil {
		t.Fatal(err)
	}

	fresh, _ := cookiejar.New(nil)
	if err := restoreCookies(store, fresh, u); err != nil {
		t.Fatal(err)
	}
	got := fresh.Cookies(u)
	if len(got) != 1 || got[0].Name != "sessionid" || got[0].Value != "abc" {
		t.Errorf("restored %v", got)
	}

	if err := restoreCookies(prefs.MemStore{}, fresh, u); err != nil {
		t.Errorf("empty store: %v", err)
	}
	if err := restoreCookies(prefs.MemStore{cookiesKey: "{"}, fresh, u); err == nil {
		t.Error("corrupt cookies should be reported")
	}
}

func TestPrintAlerts(t *testing.T) {
	a, b := alerts.NewRegion("a"), alerts.NewRegion("b")
	a.Danger("first", "second")
	b.Info("note")

	var buf bytes.Buffer
	printAlerts(&buf, a, b)
	want := "[danger] first\n[danger] second\n[info] note\n"
	if buf.String() != want {
		t.Errorf("got %q want %q", buf.String(), want)
	}
}
