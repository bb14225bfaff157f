package main

import (
	"context"
	"strconv"

	"github.com/maxence-charriere/go-app/v10/pkg/app"

	"github.com/kidandcat/rallypoint/internal/panels"
	"github.com/kidandcat/rallypoint/internal/prefs"
)

var friendTabLabels = map[string]string{
	panels.TabList:     "My Friends",
	panels.TabSend:     "Add Friend",
	panels.TabIncoming: "Requests",
}

func (p *Page) renderFriends() app.UI {
	v := p.friendsView
	return app.Section().Class("friends").Body(
		app.H1().Text("Friends"),
		app.Ul().Class("nav nav-tabs mb-3").Body(
			app.Range(panels.FriendTabs).Slice(func(i int) app.UI {
				tab := panels.FriendTabs[i]
				class := "nav-link"
				if tab == p.friendTab {
					class += " active"
				}
				label := friendTabLabels[tab]
				if tab == panels.TabIncoming && len(v.Incoming) > 0 {
					label += " (" + strconv.Itoa(len(v.Incoming)) + ")"
				}
				return app.Li().Class("nav-item").Body(
					app.A().
						Class(class).
						Href("#"+prefs.TabFragment("friends", tab)).
						Text(label).
						OnClick(func(ctx app.Context, e app.Event) { p.friendTab = tab }),
				)
			}),
		),
		app.If(p.friendTab == panels.TabList, func() app.UI { return p.renderFriendList(v) }).
			ElseIf(p.friendTab == panels.TabSend, func() app.UI { return p.renderSendForm(v) }).
			Else(func() app.UI { return p.renderIncoming(v) }),
	)
}

func (p *Page) renderFriendList(v panels.FriendsView) app.UI {
	f := p.set.Friends
	return app.Div().Body(
		alertList(f.FriendsAlerts),
		app.If(v.FriendsState == panels.Ready, func() app.UI {
			return app.Input().
				Type("search").
				Class("form-control mb-3").
				Placeholder("Filter friends").
				Value(v.Filter).
				OnInput(func(ctx app.Context, e app.Event) {
					f.Filter(inputValue(ctx))
					p.sync()
				})
		}),
		app.If(v.FriendsState == panels.Loading, spinner).
			ElseIf(v.FriendsState == panels.Empty, func() app.UI { return emptyState("No friends yet.") }).
			ElseIf(v.FriendsState == panels.Ready, func() app.UI {
				return app.Ul().Class("list-group").Body(
					app.Range(v.Friends).Slice(func(i int) app.UI {
						fr := v.Friends[i]
						return app.Li().Class("list-group-item d-flex align-items-center gap-2").Body(
							app.If(fr.Picture != "", func() app.UI {
								return app.Img().Class("avatar rounded-circle").Src(fr.Picture).Alt(fr.Name)
							}),
							app.Span().Text(fr.Name),
						)
					}),
				)
			}),
	)
}

func (p *Page) renderSendForm(v panels.FriendsView) app.UI {
	f := p.set.Friends
	return app.Form().Class("friend-request").OnSubmit(func(ctx app.Context, e app.Event) {
		e.PreventDefault()
		form := v.Form
		p.run(ctx, func(ctx context.Context) {
			f.Send(ctx, form.Username, form.Email)
		})
	}).Body(
		alertList(f.SendAlerts),
		app.Div().Class("mb-3").Body(
			app.Label().For("friend-username").Class("form-label").Text("Username"),
			app.Input().ID("friend-username").Class("form-control").Value(v.Form.Username).
				OnInput(func(ctx app.Context, e app.Event) {
					form := f.Snapshot().Form
					form.Username = inputValue(ctx)
					f.SetForm(form)
					p.sync()
				}),
		),
		app.Div().Class("mb-3").Body(
			app.Label().For("friend-email").Class("form-label").Text("or Email"),
			app.Input().ID("friend-email").Type("email").Class("form-control").Value(v.Form.Email).
				OnInput(func(ctx app.Context, e app.Event) {
					form := f.Snapshot().Form
					form.Email = inputValue(ctx)
					f.SetForm(form)
					p.sync()
				}),
		),
		app.Button().Type("submit").Class("btn btn-primary").Disabled(f.SendBusy()).Text("Send request"),
	)
}

func (p *Page) renderIncoming(v panels.FriendsView) app.UI {
	f := p.set.Friends
	return app.Div().Body(
		alertList(f.IncomingAlerts),
		app.If(v.IncomingState == panels.Loading, spinner).
			ElseIf(v.IncomingState == panels.Empty, func() app.UI { return emptyState("No pending requests.") }).
			ElseIf(v.IncomingState == panels.Ready, func() app.UI {
				return app.Ul().Class("list-group").Body(
					app.Range(v.Incoming).Slice(func(i int) app.UI {
						req := v.Incoming[i]
						busy := f.RequestBusy(req.ID)
						return app.Li().Class("list-group-item d-flex justify-content-between align-items-center").Body(
							app.Span().Text(req.Name),
							app.Div().Class("d-flex gap-2").Body(
								app.Button().Class("btn btn-success btn-sm").Disabled(busy).Text("Approve").
									OnClick(func(ctx app.Context, e app.Event) {
										p.run(ctx, func(ctx context.Context) { f.Approve(ctx, req.ID) })
									}),
								app.Button().Class("btn btn-outline-secondary btn-sm").Disabled(busy).Text("Decline").
									OnClick(func(ctx app.Context, e app.Event) {
										p.run(ctx, func(ctx context.Context) { f.Decline(ctx, req.ID) })
									}),
							),
						)
					}),
				)
			}),
	)
}
