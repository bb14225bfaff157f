package session

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/kidandcat/rallypoint/internal/api"
)

const DefaultLogoutRedirect = "/events/login/"

var ErrMissingCredentials = errors.New("missing credentials")

func Login(ctx context.Context, c *api.Client, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return ErrMissingCredentials
	}
	return c.Login(ctx, username, password)
}

func Signup(ctx context.Context, c *api.Client, in api.SignupInput) error {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if in.Username == "" || in.Email == "" || in.Password == "" {
		return ErrMissingCredentials
	}
	return c.Signup(ctx, in)
}

// Logout ends the server session and returns where to go next. The
// redirect happens whether or not the request succeeded.
func Logout(ctx context.Context, c *api.Client, log *slog.Logger, redirect string) string {
	if log == nil {
		log = slog.Default()
	}
	if err := c.Logout(ctx); err != nil {
		log.Error("logout failed", "error", err)
	}
	if redirect == "" {
		redirect = DefaultLogoutRedirect
	}
	return redirect
}
