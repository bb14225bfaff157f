package main

import (
	"context"
	"strconv"

	"github.com/maxence-charriere/go-app/v10/pkg/app"

	"github.com/kidandcat/rallypoint/internal/api"
	"github.com/kidandcat/rallypoint/internal/panels"
)

func (p *Page) renderEvents() app.UI {
	v := p.eventsView
	return app.Section().Class("events").Body(
		app.H1().Text(p.page.Title),
		alertList(p.set.Events.Alerts),
		p.renderCards(v.State, v.Cards, "No upcoming events.", func(c panels.EventCard) app.UI {
			return app.Button().
				Class("btn btn-outline-primary btn-sm").
				Text("Details").
				OnClick(func(ctx app.Context, e app.Event) {
					p.set.Events.Select(c.ID)
					p.sync()
				})
		}),
		app.If(v.Detail != nil, func() app.UI { return p.renderDetail(v.Detail) }),
	)
}

func (p *Page) renderCards(state panels.ListState, cards []panels.EventCard, empty string, actions func(panels.EventCard) app.UI) app.UI {
	switch state {
	case panels.Loading:
		return spinner()
	case panels.Empty:
		return emptyState(empty)
	case panels.Unavailable:
		return app.Div()
	}
	return app.Div().Class("row").Body(
		app.Range(cards).Slice(func(i int) app.UI {
			c := cards[i]
			return app.Div().Class("col-md-6 col-lg-4 mb-3").Body(
				app.Div().Class("card h-100").Body(
					app.Div().Class("card-body").Body(
						app.H5().Class("card-title").Text(c.Title),
						app.P().Class("card-subtitle text-muted").Text(c.Schedule.String()),
						app.P().Class("card-text").Text(c.Summary),
						app.Small().Class("d-block text-muted").Text(c.Location),
						app.Small().Class("d-block").Text(c.Counts()),
					),
					app.Div().Class("card-footer").Body(actions(c)),
				),
			)
		}),
	)
}

func (p *Page) renderDetail(d *panels.EventDetail) app.UI {
	return app.Div().Class("modal d-block").Attr("role", "dialog").Body(
		app.Div().Class("modal-dialog modal-lg").Body(
			app.Div().Class("modal-content").Body(
				app.Div().Class("modal-header").Body(
					app.H5().Class("modal-title").Text(d.Title),
					app.Button().Class("btn-close").Attr("aria-label", "Close").OnClick(p.onCloseDetail),
				),
				app.Div().Class("modal-body").Body(
					app.P().Class("text-muted").Text(d.Schedule.String()),
					app.Div().Class("description").Body(app.Raw("<div>"+d.DescriptionHTML+"</div>")),
					app.If(d.Perks != "", func() app.UI {
						return app.P().Body(app.Strong().Text("Perks: "), app.Text(d.Perks))
					}),
					app.P().Body(
						app.Strong().Text("Where: "),
						app.A().Href(d.MapLink).Target("_blank").Text(d.Location),
					),
					app.If(d.Address != "", func() app.UI { return app.P().Class("text-muted").Text(d.Address) }),
					app.If(d.Organizer != "", func() app.UI {
						return app.P().Body(
							app.Strong().Text("Organizer: "),
							app.A().Href(d.OrganizerURL).Text(d.Organizer),
						)
					}),
					app.P().Text(d.Counts()),
				),
				app.Div().Class("modal-footer").Body(p.rsvpButtons(d.EventCard)),
			),
		),
	)
}

func (p *Page) rsvpButtons(c panels.EventCard) app.UI {
	busy := p.set.Events.RSVPBusy(c.ID)
	return app.Div().Class("btn-group").Attr("role", "group").Body(
		app.Range(api.RSVPStatuses).Slice(func(i int) app.UI {
			status := api.RSVPStatuses[i]
			class := "btn btn-outline-primary"
			if c.MyRSVP == status {
				class = "btn btn-primary"
			}
			return app.Button().
				Class(class).
				Disabled(busy).
				Text(status.Label()).
				OnClick(func(ctx app.Context, e app.Event) {
					p.run(ctx, func(ctx context.Context) {
						p.set.Events.RSVP(ctx, c.ID, status)
					})
				})
		}),
	)
}

func (p *Page) onCloseDetail(ctx app.Context, e app.Event) {
	p.set.Events.CloseDetail()
	p.sync()
}

func (p *Page) renderMyEvents() app.UI {
	v := p.myEventsView
	return app.Section().Class("my-events").Body(
		app.Div().Class("d-flex justify-content-between align-items-center").Body(
			app.H1().Text("My Events"),
			app.If(p.sess.IsOrganizer(), func() app.UI {
				return app.A().Class("btn btn-primary").Href("/events/create/").Text("Create event")
			}),
		),
		alertList(p.set.MyEvents.Alerts),
		p.renderCards(v.State, v.Cards, "You haven't created any events yet.", func(c panels.EventCard) app.UI {
			return app.Div().Class("d-flex gap-2").Body(
				app.A().
					Class("btn btn-outline-secondary btn-sm").
					Href("/events/"+strconv.FormatInt(c.ID, 10)+"/manage/").
					Text("Manage"),
				app.Button().
					Class("btn btn-outline-danger btn-sm").
					Disabled(p.set.MyEvents.DeleteBusy(c.ID)).
					Text("Delete").
					OnClick(func(ctx app.Context, e app.Event) {
						p.run(ctx, func(ctx context.Context) {
							p.set.MyEvents.Delete(ctx, c.ID)
						})
					}),
			)
		}),
	)
}
