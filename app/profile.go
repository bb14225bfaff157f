package main

import (
	"context"

	"github.com/maxence-charriere/go-app/v10/pkg/app"

	"github.com/kidandcat/rallypoint/internal/route"
)

func (p *Page) renderProfile() app.UI {
	v := p.profileView
	pr := p.set.Profile
	if !v.Available {
		return app.Section().Body(alertList(pr.Alerts))
	}
	if p.page.Has(route.Settings) {
		return p.renderSettings()
	}
	return app.Section().Class("profile").Body(
		app.H1().Text("Profile"),
		alertList(pr.Alerts),
		app.Div().Class("d-flex gap-4 mb-4").Body(
			app.If(v.Picture != "", func() app.UI {
				return app.Img().Class("profile-picture rounded").Src(v.Picture).Alt(v.Username)
			}),
			app.Dl().Body(
				app.Dt().Text("Username"), app.Dd().Text(v.Username),
				app.If(v.FullName != "", func() app.UI {
					return app.Div().Body(app.Dt().Text("Name"), app.Dd().Text(v.FullName))
				}),
				app.Dt().Text("Email"), app.Dd().Text(v.Email),
				app.Dt().Text("Role"), app.Dd().Text(v.Role),
				app.Dt().Text("About"), app.Dd().Text(v.About),
			),
		),
		app.Form().OnSubmit(func(ctx app.Context, e app.Event) {
			e.PreventDefault()
			about := p.aboutDraft
			p.run(ctx, func(ctx context.Context) { pr.SaveAbout(ctx, about) })
		}).Body(
			app.Label().For("about-me").Class("form-label").Text("About Me"),
			app.Textarea().ID("about-me").Class("form-control mb-2").Rows(4).Text(p.aboutDraft).
				OnInput(func(ctx app.Context, e app.Event) { p.aboutDraft = inputValue(ctx) }),
			app.Button().Type("submit").Class("btn btn-primary").Disabled(pr.SaveBusy()).Text("Save"),
		),
		app.Div().Class("mt-4").Body(
			app.Label().For("profile-picture").Class("form-label").Text("Profile picture"),
			app.Input().
				ID("profile-picture").
				Type("file").
				Accept("image/*").
				Class("form-control").
				Disabled(pr.UploadBusy()).
				OnChange(p.onPictureSelected),
		),
	)
}

// onPictureSelected reads the chosen file into Go memory and uploads it.
func (p *Page) onPictureSelected(ctx app.Context, e app.Event) {
	files := ctx.JSSrc().Get("files")
	if !files.Truthy() || files.Length() == 0 {
		p.run(ctx, func(ctx context.Context) { p.set.Profile.UploadPicture(ctx, "", nil) })
		return
	}
	file := files.Index(0)
	name := file.Get("name").String()
	file.Call("arrayBuffer").Then(func(buf app.Value) {
		u8 := app.Window().Get("Uint8Array").New(buf)
		data := make([]byte, u8.Length())
		app.CopyBytesToGo(data, u8)
		p.run(ctx, func(ctx context.Context) { p.set.Profile.UploadPicture(ctx, name, data) })
	})
}

func (p *Page) renderSettings() app.UI {
	v := p.profileView
	pr := p.set.Profile
	return app.Section().Class("settings").Body(
		app.H1().Text("Settings"),
		alertList(pr.Alerts),
		app.Div().Class("form-check").Body(
			app.Input().
				ID("notifications-opt-out").
				Type("checkbox").
				Class("form-check-input").
				Checked(v.NotificationsOptOut).
				Disabled(pr.SaveBusy()).
				OnChange(func(ctx app.Context, e app.Event) {
					optOut := ctx.JSSrc().Get("checked").Bool()
					p.run(ctx, func(ctx context.Context) { pr.SetNotifications(ctx, optOut) })
				}),
			app.Label().For("notifications-opt-out").Class("form-check-label").Text("Don't email me about events"),
		),
	)
}
