package main

import (
	"github.com/maxence-charriere/go-app/v10/pkg/app"

	"github.com/kidandcat/rallypoint/internal/route"
)

func main() {
	for _, path := range route.Paths() {
		app.Route(path, func() app.Composer { return &Page{} })
	}
	app.Route("/", func() app.Composer { return &Page{} })
	app.RouteWithRegexp(route.ManagePattern, func() app.Composer { return &Page{} })
	app.RunWhenOnBrowser()
}
