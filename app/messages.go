package main

import (
	"context"

	"github.com/maxence-charriere/go-app/v10/pkg/app"

	"github.com/kidandcat/rallypoint/internal/panels"
)

func (p *Page) renderMessages() app.UI {
	v := p.messagesView
	m := p.set.Messages
	return app.Section().Class("messages").Body(
		app.H1().Text("Messages"),
		alertList(m.Alerts),
		app.If(v.State == panels.Loading, spinner).
			ElseIf(v.State == panels.Empty, func() app.UI { return emptyState("No conversations yet.") }).
			ElseIf(v.State == panels.Ready, func() app.UI {
				return app.Div().Class("row").Body(
					app.Div().Class("col-md-4").Body(p.renderConversations(v)),
					app.Div().Class("col-md-8").Body(p.renderThread(v)),
				)
			}),
	)
}

func (p *Page) renderConversations(v panels.MessagesView) app.UI {
	m := p.set.Messages
	return app.Div().Body(
		app.Input().
			Type("search").
			Class("form-control mb-2").
			Placeholder("Search conversations").
			Value(v.Filter).
			OnInput(func(ctx app.Context, e app.Event) {
				m.Filter(inputValue(ctx))
				p.sync()
			}),
		app.Div().Class("list-group").Body(
			app.Range(v.Conversations).Slice(func(i int) app.UI {
				c := v.Conversations[i]
				class := "list-group-item list-group-item-action"
				if c.Active {
					class += " active"
				}
				return app.A().Class(class).Href("#").
					OnClick(func(ctx app.Context, e app.Event) {
						e.PreventDefault()
						p.messageDraft = ""
						p.run(ctx, func(ctx context.Context) { m.Open(ctx, c.ID) })
					}).
					Body(
						app.Div().Class("d-flex justify-content-between").Body(
							app.Strong().Text(c.Name),
							app.Small().Text(c.When),
						),
						app.Div().Class("d-flex justify-content-between").Body(
							app.Small().Class("text-truncate").Text(c.Preview),
							app.If(c.Unread > 0, func() app.UI {
								return app.Span().Class("badge bg-primary").Text(c.Unread)
							}),
						),
					)
			}),
		),
	)
}

func (p *Page) renderThread(v panels.MessagesView) app.UI {
	if v.Current == nil {
		return emptyState("Select a conversation to start chatting.")
	}
	m := p.set.Messages
	return app.Div().Class("thread d-flex flex-column").Body(
		app.H5().Text(v.Current.Name),
		app.Div().Class("bubbles flex-grow-1").Body(
			app.If(v.ThreadState == panels.Loading, spinner).
				ElseIf(v.ThreadState == panels.Empty, func() app.UI { return emptyState("No messages yet") }).
				Else(func() app.UI {
					return app.Range(v.Thread).Slice(func(i int) app.UI {
						b := v.Thread[i]
						side := "bubble bubble-theirs"
						if b.Own {
							side = "bubble bubble-own ms-auto"
						}
						return app.Div().Class(side).Body(
							app.Div().Text(b.Text),
							app.Small().Class("text-muted").Text(b.When),
						)
					})
				}),
		),
		app.Form().Class("d-flex gap-2 mt-2").
			OnSubmit(func(ctx app.Context, e app.Event) {
				e.PreventDefault()
				text := p.messageDraft
				ctx.Async(func() {
					err := m.Send(ctx, text)
					ctx.Dispatch(func(ctx app.Context) {
						if err == nil && p.messageDraft == text {
							p.messageDraft = ""
						}
						p.sync()
					})
				})
			}).
			Body(
				app.Input().
					Class("form-control").
					Placeholder("Type a message").
					Value(p.messageDraft).
					OnInput(func(ctx app.Context, e app.Event) { p.messageDraft = inputValue(ctx) }),
				app.Button().Type("submit").Class("btn btn-primary").Disabled(m.SendBusy()).Text("Send"),
			),
	)
}
