package panels

import (
	"context"
	"errors"
	"net/url"

	"github.com/kidandcat/rallypoint/internal/alerts"
	"github.com/kidandcat/rallypoint/internal/api"
	"github.com/kidandcat/rallypoint/internal/route"
	"github.com/kidandcat/rallypoint/internal/session"
)

// LoginForm submits credentials and decides where to go afterwards.
type LoginForm struct {
	deps   Deps
	Alerts *alerts.Region
	Busy   Busy
}

func NewLoginForm(d Deps) *LoginForm {
	return &LoginForm{deps: d, Busy: newBusy(d), Alerts: alerts.NewRegion("login")}
}

func (f *LoginForm) Name() string                   { return "login" }
func (f *LoginForm) Load(ctx context.Context) error { return nil }
func (f *LoginForm) Submitting() bool               { return f.Busy.Active("submit") }

// Submit logs in and returns the redirect target: the page's next
// parameter when it is local, the events list otherwise.
func (f *LoginForm) Submit(ctx context.Context, username, password string, current *url.URL) (string, error) {
	if !f.Busy.Begin("submit") {
		return "", ErrBusy
	}
	defer f.Busy.End("submit")

	err := session.Login(ctx, f.deps.Client, username, password)
	if errors.Is(err, session.ErrMissingCredentials) {
		f.Alerts.Warning("Please enter your username and password.")
		return "", ErrInvalid
	}
	if err != nil {
		reportFailure(f.deps.logger(), f.Alerts, err, "Unable to log in. Please try again.")
		return "", err
	}
	f.Alerts.Success("Logged in successfully. Redirecting…")
	return session.NextParam(current, route.DefaultAuthRedirect), nil
}

type SignupForm struct {
	deps   Deps
	Alerts *alerts.Region
	Busy   Busy
}

func NewSignupForm(d Deps) *SignupForm {
	return &SignupForm{deps: d, Busy: newBusy(d), Alerts: alerts.NewRegion("register")}
}

func (f *SignupForm) Name() string                   { return "register" }
func (f *SignupForm) Load(ctx context.Context) error { return nil }
func (f *SignupForm) Submitting() bool               { return f.Busy.Active("submit") }

// Submit creates the account and returns the login page to go to.
func (f *SignupForm) Submit(ctx context.Context, in api.SignupInput) (string, error) {
	if !f.Busy.Begin("submit") {
		return "", ErrBusy
	}
	defer f.Busy.End("submit")

	err := session.Signup(ctx, f.deps.Client, in)
	if errors.Is(err, session.ErrMissingCredentials) {
		f.Alerts.Warning("Please choose a username, email and password.")
		return "", ErrInvalid
	}
	if err != nil {
		reportFailure(f.deps.logger(), f.Alerts, err, "Unable to register right now. Please try again later.")
		return "", err
	}
	f.Alerts.Success("Account created! You can now log in.")
	return route.DefaultLoginURL, nil
}
