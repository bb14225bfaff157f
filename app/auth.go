package main

import (
	"time"

	"github.com/maxence-charriere/go-app/v10/pkg/app"

	"github.com/kidandcat/rallypoint/internal/route"
)

const redirectDelay = 800 * time.Millisecond

func (p *Page) renderLogin() app.UI {
	f := p.set.Login
	return app.Section().Class("auth col-md-6 mx-auto").Body(
		app.H1().Text("Log in"),
		alertList(f.Alerts),
		app.Form().OnSubmit(p.onLogin).Body(
			textField("login-username", "Username", "text", p.loginUser, func(s string) { p.loginUser = s }),
			textField("login-password", "Password", "password", p.loginPass, func(s string) { p.loginPass = s }),
			app.Button().Type("submit").Class("btn btn-primary w-100").Disabled(f.Submitting()).Text("Log in"),
		),
		app.P().Class("mt-3").Body(
			app.Text("No account? "),
			app.A().Href("/events/register/").Text("Register"),
		),
	)
}

func (p *Page) onLogin(ctx app.Context, e app.Event) {
	e.PreventDefault()
	user, pass := p.loginUser, p.loginPass
	current := *ctx.Page().URL()
	ctx.Async(func() {
		target, err := p.set.Login.Submit(ctx, user, pass, &current)
		ctx.Dispatch(func(ctx app.Context) {
			p.sync()
			if err != nil {
				return
			}
			p.loginPass = ""
			redirectSoon(ctx, target)
		})
	})
}

func (p *Page) renderSignup() app.UI {
	f := p.set.Signup
	in := &p.signup
	return app.Section().Class("auth col-md-6 mx-auto").Body(
		app.H1().Text("Register"),
		alertList(f.Alerts),
		app.Form().OnSubmit(p.onSignup).Body(
			textField("signup-username", "Username", "text", in.Username, func(s string) { in.Username = s }),
			textField("signup-email", "Email", "email", in.Email, func(s string) { in.Email = s }),
			textField("signup-password", "Password", "password", in.Password, func(s string) { in.Password = s }),
			app.Div().Class("row").Body(
				app.Div().Class("col").Body(
					textField("signup-first", "First name", "text", in.FirstName, func(s string) { in.FirstName = s }),
				),
				app.Div().Class("col").Body(
					textField("signup-last", "Last name", "text", in.LastName, func(s string) { in.LastName = s }),
				),
			),
			app.Div().Class("form-check mb-3").Body(
				app.Input().ID("signup-organizer").Type("checkbox").Class("form-check-input").Checked(in.IsOrganizer).
					OnChange(func(ctx app.Context, e app.Event) { in.IsOrganizer = ctx.JSSrc().Get("checked").Bool() }),
				app.Label().For("signup-organizer").Class("form-check-label").Text("I organize events"),
			),
			app.Button().Type("submit").Class("btn btn-primary w-100").Disabled(f.Submitting()).Text("Create account"),
		),
		app.P().Class("mt-3").Body(
			app.Text("Already registered? "),
			app.A().Href(route.DefaultLoginURL).Text("Log in"),
		),
	)
}

func (p *Page) onSignup(ctx app.Context, e app.Event) {
	e.PreventDefault()
	in := p.signup
	ctx.Async(func() {
		target, err := p.set.Signup.Submit(ctx, in)
		ctx.Dispatch(func(ctx app.Context) {
			p.sync()
			if err != nil {
				return
			}
			p.signup.Password = ""
			redirectSoon(ctx, target)
		})
	})
}

// redirectSoon leaves the page after the success alert has had a moment
// on screen.
func redirectSoon(ctx app.Context, target string) {
	ctx.Async(func() {
		time.Sleep(redirectDelay)
		ctx.Dispatch(func(ctx app.Context) {
			app.Window().Get("location").Call("replace", target)
		})
	})
}

func textField(id, label, kind, value string, set func(string)) app.UI {
	return app.Div().Class("mb-3").Body(
		app.Label().For(id).Class("form-label").Text(label),
		app.Input().ID(id).Type(kind).Class("form-control").Value(value).
			OnInput(func(ctx app.Context, e app.Event) { set(inputValue(ctx)) }),
	)
}
