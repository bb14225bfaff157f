// Package route describes every page the client serves: which panels it
// mounts and what it requires of the session. It is decided once per
// navigation, before anything loads.
package route

import (
	"regexp"
	"strconv"
	"strings"
)

type PanelKind string

const (
	Events   PanelKind = "events"
	MyEvents PanelKind = "my-events"
	Friends  PanelKind = "friends"
	Messages PanelKind = "messages"
	Manage   PanelKind = "manage"
	Create   PanelKind = "create"
	Profile  PanelKind = "profile"
	Settings PanelKind = "settings"
	Login    PanelKind = "login"
	Register PanelKind = "register"
)

const (
	DefaultLoginURL     = "/events/login/"
	DefaultAuthRedirect = "/events/"
)

type Page struct {
	Path                    string
	Title                   string
	RequireAuth             bool
	RedirectIfAuthenticated bool
	LoginURL                string
	RedirectAuthTarget      string
	Panels                  []PanelKind
	// DefaultTab is used by tabbed pages when the URL fragment names none.
	DefaultTab string
	// EventID is set for pages scoped to one event.
	EventID int64
}

func (p Page) Has(k PanelKind) bool {
	for _, pk := range p.Panels {
		if pk == k {
			return true
		}
	}
	return false
}

func (p Page) Login() string {
	if p.LoginURL != "" {
		return p.LoginURL
	}
	return DefaultLoginURL
}

func (p Page) AuthTarget() string {
	if p.RedirectAuthTarget != "" {
		return p.RedirectAuthTarget
	}
	return DefaultAuthRedirect
}

var pages = []Page{
	{Path: "/events/", Title: "Events", Panels: []PanelKind{Events}},
	{Path: "/events/mine/", Title: "My Events", RequireAuth: true, Panels: []PanelKind{MyEvents}},
	{Path: "/events/create/", Title: "Create Event", RequireAuth: true, Panels: []PanelKind{Create}},
	{Path: "/events/calendar/", Title: "Calendar", Panels: []PanelKind{Events}},
	{Path: "/events/login/", Title: "Log in", RedirectIfAuthenticated: true, Panels: []PanelKind{Login}},
	{Path: "/events/register/", Title: "Register", RedirectIfAuthenticated: true, Panels: []PanelKind{Register}},
	{Path: "/events/profile/", Title: "Profile", RequireAuth: true, Panels: []PanelKind{Profile}},
	{Path: "/events/profile/settings/", Title: "Settings", RequireAuth: true, Panels: []PanelKind{Settings}},
	{Path: "/events/profile/friends/", Title: "Friends", RequireAuth: true, Panels: []PanelKind{Friends}, DefaultTab: "list"},
	{Path: "/events/profile/friends/send/", Title: "Add Friend", RequireAuth: true, Panels: []PanelKind{Friends}, DefaultTab: "send"},
	{Path: "/events/profile/friends/incoming/", Title: "Friend Requests", RequireAuth: true, Panels: []PanelKind{Friends}, DefaultTab: "incoming"},
	{Path: "/events/profile/messages/", Title: "Messages", RequireAuth: true, Panels: []PanelKind{Messages}},
}

var manageRe = regexp.MustCompile(`^/events/(\d+)/manage/?$`)

// Lookup resolves a URL path. Unknown paths get a page with no panels.
func Lookup(path string) Page {
	if path == "" || path == "/" {
		path = "/events/"
	}
	if !strings.HasSuffix(path, "/") {
		path += "/"
	}
	for _, p := range pages {
		if p.Path == path {
			return p
		}
	}
	if id, ok := EventIDFromPath(path); ok {
		return Page{
			Path:        path,
			Title:       "Manage Event",
			RequireAuth: true,
			Panels:      []PanelKind{Manage},
			EventID:     id,
		}
	}
	return Page{Path: path, Title: "Not found"}
}

// EventIDFromPath extracts the id from /events/{id}/manage/.
func EventIDFromPath(path string) (int64, bool) {
	m := manageRe.FindStringSubmatch(path)
	if m == nil {
		return 0, false
	}
	id, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// Paths lists every static page path, for registering client routes.
func Paths() []string {
	out := make([]string, 0, len(pages))
	for _, p := range pages {
		out = append(out, p.Path)
	}
	return out
}

// ManagePattern matches event management pages.
const ManagePattern = `^/events/\d+/manage/?$`
