package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/maxence-charriere/go-app/v10/pkg/app"

	"github.com/kidandcat/rallypoint/internal/api"
	"github.com/kidandcat/rallypoint/internal/panels"
	"github.com/kidandcat/rallypoint/internal/prefs"
	"github.com/kidandcat/rallypoint/internal/route"
	"github.com/kidandcat/rallypoint/internal/session"
)

const (
	appName   = "Rallypoint"
	initLimit = 4
)

// Page is the single component behind every route. It probes the session,
// redirects if the page demands it, and then mounts the page's panels.
type Page struct {
	app.Compo

	client *api.Client
	log    *slog.Logger

	page  route.Page
	navs  navGen
	sess  session.Session
	nav   session.Nav
	ready bool
	theme prefs.Theme
	set   *panels.Set

	loggingOut bool

	eventsView   panels.EventsView
	myEventsView panels.MyEventsView
	friendsView  panels.FriendsView
	messagesView panels.MessagesView
	manageView   panels.ManageView
	profileView  panels.ProfileView

	friendTab     string
	messageDraft  string
	aboutDraft    string
	announceTitle string
	announceBody  string
	loginUser     string
	loginPass     string
	signup        api.SignupInput
}

func (p *Page) OnInit() {
	p.client = api.New("")
	p.log = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
}

// OnNav runs on the first load and on every in-app navigation, so panels
// are built exactly once per page.
func (p *Page) OnNav(ctx app.Context) {
	u := *ctx.Page().URL()
	p.page = route.Lookup(u.Path)
	p.ready = false
	p.set = nil
	gen := p.navs.next()
	ctx.Page().SetTitle(p.page.Title + " · " + appName)
	p.applyTheme(ctx)

	page := p.page
	ctx.Async(func() {
		sess := session.Probe(ctx, p.client, p.log)
		if target, ok := session.Redirect(page, sess, &u); ok {
			ctx.Dispatch(func(ctx app.Context) {
				if !p.navs.current(gen) {
					return
				}
				app.Window().Get("location").Call("replace", target)
			})
			return
		}

		set := panels.ForPage(page, panels.Deps{
			Client:  p.client,
			Log:     p.log,
			Session: sess,
			OnBusy:  func() { ctx.Dispatch(func(ctx app.Context) { p.sync() }) },
		})
		ctx.Dispatch(func(ctx app.Context) {
			if !p.navs.current(gen) {
				return
			}
			p.sess = sess
			p.nav = sess.Nav()
			p.set = set
			p.ready = true
			p.friendTab = prefs.TabFromFragment(u.Fragment, "friends", panels.FriendTabs, page.DefaultTab)
			if set.Profile != nil {
				p.aboutDraft = set.Profile.Snapshot().AboutRaw
			}
			p.sync()
		})

		panels.Init(ctx, p.log, initLimit, set.Panels()...)
		ctx.Dispatch(func(ctx app.Context) {
			if p.navs.current(gen) {
				p.sync()
			}
		})
	})
}

// navGen numbers navigations so a load that finishes after the user has
// moved on is dropped. Only touched on the UI goroutine.
type navGen struct{ n uint64 }

func (g *navGen) next() uint64 {
	g.n++
	return g.n
}

func (g *navGen) current(n uint64) bool { return g.n == n }

// run executes a controller action off the UI goroutine and re-renders
// when it returns. Controllers re-render through Deps.OnBusy as soon as
// the action marks itself busy.
func (p *Page) run(ctx app.Context, action func(context.Context)) {
	ctx.Async(func() {
		action(ctx)
		ctx.Dispatch(func(ctx app.Context) { p.sync() })
	})
}

// sync copies controller snapshots into the component for rendering.
func (p *Page) sync() {
	s := p.set
	if s == nil {
		return
	}
	if s.Events != nil {
		p.eventsView = s.Events.Snapshot()
	}
	if s.MyEvents != nil {
		p.myEventsView = s.MyEvents.Snapshot()
	}
	if s.Friends != nil {
		p.friendsView = s.Friends.Snapshot()
	}
	if s.Messages != nil {
		p.messagesView = s.Messages.Snapshot()
	}
	if s.Manage != nil {
		p.manageView = s.Manage.Snapshot()
	}
	if s.Profile != nil {
		p.profileView = s.Profile.Snapshot()
	}
}

func (p *Page) applyTheme(ctx app.Context) {
	theme, err := prefs.LoadTheme(localStore{ctx.LocalStorage()})
	if err != nil {
		p.log.Warn("read theme", "error", err)
	}
	p.theme = theme
	app.Window().Get("document").Get("documentElement").Call("setAttribute", "data-theme", string(theme))
}

func (p *Page) onToggleTheme(ctx app.Context, e app.Event) {
	e.PreventDefault()
	next := p.theme.Toggle()
	if err := prefs.SaveTheme(localStore{ctx.LocalStorage()}, next); err != nil {
		p.log.Warn("save theme", "error", err)
	}
	p.applyTheme(ctx)
}

func (p *Page) onLogout(ctx app.Context, e app.Event) {
	e.PreventDefault()
	if p.loggingOut {
		return
	}
	p.loggingOut = true
	ctx.Async(func() {
		target := session.Logout(ctx, p.client, p.log, "")
		ctx.Dispatch(func(ctx app.Context) {
			app.Window().Get("location").Call("replace", target)
		})
	})
}

func (p *Page) Render() app.UI {
	return app.Div().Class("app").Body(
		p.renderNav(),
		app.Main().Class("container py-4").Body(
			app.If(!p.ready, func() app.UI {
				return app.Div().Class("text-muted text-center py-5").Text("Loading…")
			}).Else(func() app.UI {
				return p.renderPanels()
			}),
		),
	)
}

func (p *Page) renderPanels() app.UI {
	s := p.set
	if len(s.Panels()) == 0 {
		return app.Div().Class("text-center py-5").Body(
			app.H2().Text("Page not found"),
			app.A().Href(route.DefaultAuthRedirect).Text("Back to events"),
		)
	}
	return app.Div().Body(
		app.If(s.Events != nil, func() app.UI { return p.renderEvents() }),
		app.If(s.MyEvents != nil, func() app.UI { return p.renderMyEvents() }),
		app.If(s.Friends != nil, func() app.UI { return p.renderFriends() }),
		app.If(s.Messages != nil, func() app.UI { return p.renderMessages() }),
		app.If(s.Manage != nil, func() app.UI { return p.renderManage() }),
		app.If(s.Profile != nil, func() app.UI { return p.renderProfile() }),
		app.If(s.Login != nil, func() app.UI { return p.renderLogin() }),
		app.If(s.Signup != nil, func() app.UI { return p.renderSignup() }),
	)
}

func (p *Page) renderNav() app.UI {
	themeLabel := "Dark mode"
	if p.theme == prefs.Dark {
		themeLabel = "Light mode"
	}
	return app.Nav().Class("navbar navbar-expand").Body(
		app.A().Class("navbar-brand").Href(route.DefaultAuthRedirect).Text(appName),
		app.Ul().Class("navbar-nav mr-auto").Body(
			navLink("/events/", "Events"),
			app.If(p.nav.ShowAuth, func() app.UI {
				return app.Range(memberLinks).Slice(func(i int) app.UI {
					return navLink(memberLinks[i].href, memberLinks[i].label)
				})
			}),
		),
		app.Ul().Class("navbar-nav").Body(
			app.Li().Class("nav-item").Body(
				app.Button().Class("btn btn-link nav-link").Text(themeLabel).OnClick(p.onToggleTheme),
			),
			app.If(p.nav.ShowAuth, func() app.UI {
				return app.Li().Class("nav-item d-flex").Body(
					app.A().Class("nav-link").Href("/events/profile/").Text(p.nav.Username),
					app.Button().
						Class("btn btn-link nav-link").
						Disabled(p.loggingOut).
						Text("Log out").
						OnClick(p.onLogout),
				)
			}),
			app.If(p.nav.ShowGuest, func() app.UI {
				return app.Li().Class("nav-item d-flex").Body(
					navLink(route.DefaultLoginURL, "Log in"),
					navLink("/events/register/", "Register"),
				)
			}),
		),
	)
}

var memberLinks = []struct{ href, label string }{
	{"/events/mine/", "My Events"},
	{"/events/profile/friends/", "Friends"},
	{"/events/profile/messages/", "Messages"},
}

func navLink(href, label string) app.UI {
	return app.Li().Class("nav-item").Body(
		app.A().Class("nav-link").Href(href).Text(label),
	)
}

// localStore adapts browser local storage to prefs.Store.
type localStore struct {
	s app.BrowserStorage
}

func (l localStore) Get(key string) (string, error) {
	var v string
	err := l.s.Get(key, &v)
	return v, err
}

func (l localStore) Set(key, value string) error {
	return l.s.Set(key, value)
}
