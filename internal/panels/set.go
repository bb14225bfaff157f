package panels

import "github.com/kidandcat/rallypoint/internal/route"

// Set is the controllers mounted by one page. Fields for panels the page
// does not have stay nil.
type Set struct {
	Events   *Events
	MyEvents *MyEvents
	Friends  *Friends
	Messages *Messages
	Manage   *Manage
	Profile  *Profile
	Login    *LoginForm
	Signup   *SignupForm
}

// ForPage builds the controllers a page descriptor asks for.
func ForPage(page route.Page, d Deps) *Set {
	s := &Set{}
	for _, k := range page.Panels {
		switch k {
		case route.Events:
			s.Events = NewEvents(d)
		case route.MyEvents:
			s.MyEvents = NewMyEvents(d)
		case route.Friends:
			s.Friends = NewFriends(d)
		case route.Messages:
			s.Messages = NewMessages(d)
		case route.Manage:
			s.Manage = NewManage(d, page.EventID)
		case route.Create:
			s.Manage = NewManage(d, 0)
		case route.Profile, route.Settings:
			s.Profile = NewProfile(d)
		case route.Login:
			s.Login = NewLoginForm(d)
		case route.Register:
			s.Signup = NewSignupForm(d)
		}
	}
	return s
}

// Panels lists the mounted controllers for Init.
func (s *Set) Panels() []Panel {
	var out []Panel
	add := func(p Panel, ok bool) {
		if ok {
			out = append(out, p)
		}
	}
	add(s.Events, s.Events != nil)
	add(s.MyEvents, s.MyEvents != nil)
	add(s.Friends, s.Friends != nil)
	add(s.Messages, s.Messages != nil)
	add(s.Manage, s.Manage != nil)
	add(s.Profile, s.Profile != nil)
	add(s.Login, s.Login != nil)
	add(s.Signup, s.Signup != nil)
	return out
}
