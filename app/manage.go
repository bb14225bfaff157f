package main

import (
	"context"

	"github.com/maxence-charriere/go-app/v10/pkg/app"

	"github.com/kidandcat/rallypoint/internal/panels"
)

// formField renders a labelled input bound to one EventForm field.
func (p *Page) formField(id, label, kind, value string, set func(*panels.EventForm, string)) app.UI {
	m := p.set.Manage
	onInput := func(ctx app.Context, e app.Event) {
		f := m.Snapshot().Form
		set(&f, inputValue(ctx))
		m.SetForm(f)
		p.sync()
	}
	var input app.UI
	if kind == "textarea" {
		input = app.Textarea().ID(id).Class("form-control").Rows(4).Text(value).OnInput(onInput)
	} else {
		input = app.Input().ID(id).Type(kind).Class("form-control").Value(value).OnInput(onInput)
	}
	return app.Div().Class("mb-3").Body(
		app.Label().For(id).Class("form-label").Text(label),
		input,
	)
}

func (p *Page) renderManage() app.UI {
	v := p.manageView
	m := p.set.Manage
	heading := "Create Event"
	if !v.Creating {
		heading = "Manage " + v.Title
	}
	return app.Section().Class("manage").Body(
		app.H1().Text(heading),
		alertList(m.Alerts),
		app.If(v.State == panels.Loading, spinner).
			ElseIf(v.State == panels.Unavailable, func() app.UI { return app.Div() }).
			Else(func() app.UI {
				return app.Div().Body(
					app.Form().OnSubmit(func(ctx app.Context, e app.Event) {
						e.PreventDefault()
						p.run(ctx, func(ctx context.Context) { m.Save(ctx) })
					}).Body(
						p.formField("event-title", "Title", "text", v.Form.Title, func(f *panels.EventForm, s string) { f.Title = s }),
						p.formField("event-description", "Description (Markdown)", "textarea", v.Form.Description, func(f *panels.EventForm, s string) { f.Description = s }),
						p.formField("event-perks", "Perks", "text", v.Form.Perks, func(f *panels.EventForm, s string) { f.Perks = s }),
						p.formField("event-location", "Location", "text", v.Form.LocationName, func(f *panels.EventForm, s string) { f.LocationName = s }),
						p.formField("event-address", "Address", "text", v.Form.Address, func(f *panels.EventForm, s string) { f.Address = s }),
						app.Div().Class("row").Body(
							app.Div().Class("col").Body(
								p.formField("event-start", "Starts", "datetime-local", v.Form.Start, func(f *panels.EventForm, s string) { f.Start = s }),
							),
							app.Div().Class("col").Body(
								p.formField("event-end", "Ends", "datetime-local", v.Form.End, func(f *panels.EventForm, s string) { f.End = s }),
							),
						),
						app.Button().Type("submit").Class("btn btn-primary").Disabled(m.SaveBusy()).Text("Save"),
					),
					app.If(!v.Creating, func() app.UI { return p.renderAnnounce() }),
				)
			}),
	)
}

func (p *Page) renderAnnounce() app.UI {
	m := p.set.Manage
	return app.Div().Class("announce mt-5").Body(
		app.H2().Text("Send announcement"),
		alertList(m.AnnounceAlerts),
		app.Form().OnSubmit(func(ctx app.Context, e app.Event) {
			e.PreventDefault()
			title, body := p.announceTitle, p.announceBody
			ctx.Async(func() {
				err := m.Announce(ctx, title, body)
				ctx.Dispatch(func(ctx app.Context) {
					if err == nil {
						p.announceTitle, p.announceBody = "", ""
					}
					p.sync()
				})
			})
		}).Body(
			app.Div().Class("mb-3").Body(
				app.Label().For("announce-title").Class("form-label").Text("Title"),
				app.Input().ID("announce-title").Class("form-control").Value(p.announceTitle).
					OnInput(func(ctx app.Context, e app.Event) { p.announceTitle = inputValue(ctx) }),
			),
			app.Div().Class("mb-3").Body(
				app.Label().For("announce-body").Class("form-label").Text("Message"),
				app.Textarea().ID("announce-body").Class("form-control").Rows(3).Text(p.announceBody).
					OnInput(func(ctx app.Context, e app.Event) { p.announceBody = inputValue(ctx) }),
			),
			app.Button().Type("submit").Class("btn btn-outline-primary").Disabled(m.AnnounceBusy()).Text("Send to attendees"),
		),
	)
}
