package main

import (
	"github.com/maxence-charriere/go-app/v10/pkg/app"

	"github.com/kidandcat/rallypoint/internal/alerts"
)

// alertList renders a region's current alerts.
func alertList(r *alerts.Region) app.UI {
	items := r.Alerts()
	return app.Div().Class("alerts").Body(
		app.Range(items).Slice(func(i int) app.UI {
			return app.Div().
				Class(items[i].Class()).
				Attr("role", "alert").
				Text(items[i].Message)
		}),
	)
}

func emptyState(text string) app.UI {
	return app.P().Class("text-muted text-center py-4").Text(text)
}

func spinner() app.UI {
	return app.Div().Class("text-center py-4").Body(
		app.Span().Class("spinner-border").Attr("role", "status"),
	)
}

// inputValue reads the value of the element that fired an event.
func inputValue(ctx app.Context) string {
	return ctx.JSSrc().Get("value").String()
}
