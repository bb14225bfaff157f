// Package session decides, once per page load, whether the caller is
// signed in, and what the page should do about it.
package session

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/kidandcat/rallypoint/internal/api"
	"github.com/kidandcat/rallypoint/internal/route"
)

type Session struct {
	Authenticated bool
	Profile       *api.Profile
}

func (s Session) Username() string {
	if !s.Authenticated || s.Profile == nil {
		return ""
	}
	return s.Profile.User.Username
}

func (s Session) UserID() int64 {
	if s.Profile == nil {
		return 0
	}
	return s.Profile.User.ID
}

func (s Session) IsOrganizer() bool {
	return s.Authenticated && s.Profile != nil && s.Profile.IsOrganizer
}

// Nav is what the navigation bar shows.
type Nav struct {
	ShowAuth  bool
	ShowGuest bool
	Username  string
}

func (s Session) Nav() Nav {
	return Nav{
		ShowAuth:  s.Authenticated,
		ShowGuest: !s.Authenticated,
		Username:  s.Username(),
	}
}

// Probe fetches the caller's profile. Every failure resolves to a guest
// session; only 401 is an expected way to get there.
func Probe(ctx context.Context, c *api.Client, log *slog.Logger) Session {
	if log == nil {
		log = slog.Default()
	}
	profile, err := c.Me(ctx)
	if err == nil {
		return Session{Authenticated: true, Profile: profile}
	}

	var se *api.StatusError
	switch {
	case errors.As(err, &se) && se.Status == http.StatusUnauthorized:
		log.Debug("profile probe: not signed in")
	case errors.As(err, &se):
		log.Warn("unexpected profile response", "status", se.Status)
	case errors.Is(err, api.ErrMalformed):
		log.Error("invalid profile response", "error", err)
	default:
		log.Error("failed to reach profile endpoint", "error", err)
	}
	return Session{}
}

// Redirect reports where the page must go instead of rendering. The
// redirect is terminal: callers stop initializing when ok is true.
func Redirect(page route.Page, s Session, current *url.URL) (target string, ok bool) {
	if page.RequireAuth && !s.Authenticated {
		return LoginRedirect(page.Login(), current), true
	}
	if page.RedirectIfAuthenticated && s.Authenticated {
		return page.AuthTarget(), true
	}
	return "", false
}

// LoginRedirect builds loginURL?next=<path+query of current>.
func LoginRedirect(loginURL string, current *url.URL) string {
	next := "/"
	if current != nil {
		next = current.EscapedPath()
		if next == "" {
			next = "/"
		}
		if current.RawQuery != "" {
			next += "?" + current.RawQuery
		}
	}
	sep := "?"
	if strings.Contains(loginURL, "?") {
		sep = "&"
	}
	return loginURL + sep + "next=" + url.QueryEscape(next)
}

// NextParam returns the post-login target from the current URL, accepting
// only root-relative paths.
func NextParam(u *url.URL, fallback string) string {
	if u == nil {
		return fallback
	}
	next := u.Query().Get("next")
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return fallback
	}
	return next
}
