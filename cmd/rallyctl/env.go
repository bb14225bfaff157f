package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"

	"github.com/kidandcat/rallypoint/internal/alerts"
	"github.com/kidandcat/rallypoint/internal/api"
	"github.com/kidandcat/rallypoint/internal/config"
	"github.com/kidandcat/rallypoint/internal/panels"
	"github.com/kidandcat/rallypoint/internal/prefs"
	"github.com/kidandcat/rallypoint/internal/session"
)

const cookiesKey = "session_cookies"

// env is what every command needs: config, the persisted store and a
// client whose cookie jar is restored from it.
type env struct {
	cfg    config.Config
	log    *slog.Logger
	store  *prefs.SQLiteStore
	jar    http.CookieJar
	client *api.Client
	out    io.Writer
}

func setup(dataDir, backend string) (*env, error) {
	if backend != "" {
		os.Setenv("RALLY_BACKEND_URL", backend)
	}
	cfg, err := config.Load("", dataDir)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	log := cfg.Logger()

	store, err := prefs.OpenSQLite(cfg.DataDir, cfg.BackendURL.String())
	if err != nil {
		return nil, fmt.Errorf("open preferences: %w", err)
	}
	hc, err := api.NewCookieClient()
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("cookie jar: %w", err)
	}
	hc.Timeout = cfg.RequestTimeout

	r := &env{
		cfg:    cfg,
		log:    log,
		store:  store,
		jar:    hc.Jar,
		client: api.New(cfg.BackendURL.String(), api.WithHTTPClient(hc), api.WithLogger(log)),
		out:    os.Stdout,
	}
	if err := restoreCookies(store, r.jar, cfg.BackendURL); err != nil {
		log.Warn("restore session", "error", err)
	}
	return r, nil
}

func (r *env) close() error {
	if r == nil {
		return nil
	}
	err := saveCookies(r.store, r.jar, r.cfg.BackendURL)
	if cerr := r.store.Close(); err == nil {
		err = cerr
	}
	return err
}

// deps probes the session and returns what panel controllers need.
func (r *env) deps(ctx context.Context) panels.Deps {
	return panels.Deps{
		Client:  r.client,
		Log:     r.log,
		Session: session.Probe(ctx, r.client, r.log),
	}
}

// report prints alerts and turns a controller error into errReported.
func (r *env) report(err error, regions ...*alerts.Region) error {
	printAlerts(r.out, regions...)
	if err != nil {
		return errReported
	}
	return nil
}

func printAlerts(w io.Writer, regions ...*alerts.Region) {
	for _, reg := range regions {
		for _, a := range reg.Alerts() {
			fmt.Fprintf(w, "[%s] %s\n", a.Variant, a.Message)
		}
	}
}

// forgetSession expires every stored cookie for the backend.
func (r *env) forgetSession() {
	var expired []*http.Cookie
	for _, c := range r.jar.Cookies(r.cfg.BackendURL) {
		expired = append(expired, &http.Cookie{Name: c.Name, Path: "/", MaxAge: -1})
	}
	r.jar.SetCookies(r.cfg.BackendURL, expired)
}

type storedCookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

func saveCookies(s prefs.Store, jar http.CookieJar, u *url.URL) error {
	var list []storedCookie
	for _, c := range jar.Cookies(u) {
		list = append(list, storedCookie{Name: c.Name, Value: c.Value})
	}
	data, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return s.Set(cookiesKey, string(data))
}

func restoreCookies(s prefs.Store, jar http.CookieJar, u *url.URL) error {
	raw, err := s.Get(cookiesKey)
	if err != nil || raw == "" {
		return err
	}
	var list []storedCookie
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return fmt.Errorf("decode stored cookies: %w", err)
	}
	cookies := make([]*http.Cookie, 0, len(list))
	for _, c := range list {
		cookies = append(cookies, &http.Cookie{Name: c.Name, Value: c.Value, Path: "/"})
	}
	jar.SetCookies(u, cookies)
	return nil
}
