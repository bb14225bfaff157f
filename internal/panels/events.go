package panels

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/yuin/goldmark"

	"github.com/kidandcat/rallypoint/internal/alerts"
	"github.com/kidandcat/rallypoint/internal/api"
	"github.com/kidandcat/rallypoint/internal/timefmt"
)

var (
	// ErrInvalid is returned when an action was rejected before any request.
	ErrInvalid = errors.New("invalid input")
	// ErrBusy is returned when the same action is already in flight.
	ErrBusy = errors.New("action already in progress")
)

const (
	eventsUnavailable = "Unable to load events right now. Please try again later."
	rsvpFailed        = "Unable to update your RSVP. Please try again."
	rsvpGoing         = "You're going! Don't forget to add it to your calendar."
	rsvpUpdated       = "RSVP updated."
)

// EventCard is one entry of an events list.
type EventCard struct {
	ID       int64
	Title    string
	Schedule timefmt.Schedule
	Summary  string
	Location string
	Going    int
	Maybe    int
	NotGoing int
	MyRSVP   api.RSVPStatus
}

func (c EventCard) Counts() string {
	return fmt.Sprintf("Going: %s · Maybe: %s · Not Going: %s",
		humanize.Comma(int64(c.Going)), humanize.Comma(int64(c.Maybe)), humanize.Comma(int64(c.NotGoing)))
}

func cardFor(e api.Event, loc *time.Location) EventCard {
	c := EventCard{
		ID:       e.ID,
		Title:    e.Title,
		Schedule: timefmt.EventSchedule(e.StartTime.Time, e.EndTime.Time, loc),
		Summary:  e.Description,
		Location: e.LocationName,
		Going:    e.GoingCount,
		Maybe:    e.MaybeCount,
		NotGoing: e.NotGoingCount,
		MyRSVP:   e.MyRSVP,
	}
	if strings.TrimSpace(c.Summary) == "" {
		c.Summary = "Details coming soon."
	}
	if c.Location == "" {
		c.Location = e.Address
	}
	if c.Location == "" {
		c.Location = "Location TBA"
	}
	return c
}

// EventDetail is the modal view of a selected event.
type EventDetail struct {
	EventCard
	// DescriptionHTML is rendered from Markdown with raw HTML dropped.
	DescriptionHTML string
	Organizer       string
	OrganizerURL    string
	Perks           string
	Address         string
	MapLink         string
}

func detailFor(e api.Event, loc *time.Location) *EventDetail {
	d := &EventDetail{
		EventCard: cardFor(e, loc),
		Perks:     e.Perks,
		Address:   e.Address,
		MapLink:   e.MapLink,
	}
	d.DescriptionHTML = renderMarkdown(e.Description)
	if d.DescriptionHTML == "" {
		d.DescriptionHTML = "<p>Details coming soon.</p>"
	}
	if u := e.CreatedBy; u != nil {
		d.Organizer = strings.TrimSpace(u.FirstName + " " + u.LastName)
		if d.Organizer == "" {
			d.Organizer = u.Username
		}
		if u.Email != "" {
			d.OrganizerURL = "mailto:" + u.Email
		}
	}
	if d.MapLink == "" && e.Address != "" {
		d.MapLink = "https://www.google.com/maps/search/?api=1&query=" + url.QueryEscape(e.Address)
	}
	return d
}

func renderMarkdown(src string) string {
	if strings.TrimSpace(src) == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(src), &buf); err != nil {
		return "<p>" + html.EscapeString(src) + "</p>"
	}
	return buf.String()
}

type EventsView struct {
	State  ListState
	Cards  []EventCard
	Detail *EventDetail
}

// Events is the public events list with its detail modal and RSVP control.
type Events struct {
	deps   Deps
	Alerts *alerts.Region
	Busy   Busy

	mu       sync.Mutex
	state    ListState
	events   []api.Event
	selected int64
}

func NewEvents(d Deps) *Events {
	return &Events{deps: d, Busy: newBusy(d), Alerts: alerts.NewRegion("events")}
}

func (p *Events) Name() string { return "events" }

func (p *Events) Load(ctx context.Context) error {
	events, err := p.deps.Client.ListEvents(ctx, false)
	if err != nil {
		p.mu.Lock()
		p.state = Unavailable
		p.mu.Unlock()
		p.Alerts.Info(eventsUnavailable)
		return err
	}
	p.mu.Lock()
	p.events = events
	p.state = stateFor(len(events))
	p.mu.Unlock()
	return nil
}

func (p *Events) Snapshot() EventsView {
	p.mu.Lock()
	defer p.mu.Unlock()
	loc := p.deps.loc()
	v := EventsView{State: p.state, Cards: make([]EventCard, 0, len(p.events))}
	for _, e := range p.events {
		v.Cards = append(v.Cards, cardFor(e, loc))
		if e.ID == p.selected {
			v.Detail = detailFor(e, loc)
		}
	}
	return v
}

// Select opens the detail of a listed event.
func (p *Events) Select(id int64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, e := range p.events {
		if e.ID == id {
			p.selected = id
			return true
		}
	}
	return false
}

func (p *Events) CloseDetail() {
	p.mu.Lock()
	p.selected = 0
	p.mu.Unlock()
}

func rsvpKey(id int64) string { return "rsvp:" + strconv.FormatInt(id, 10) }

// RSVPBusy reports whether an RSVP for the event is in flight.
func (p *Events) RSVPBusy(id int64) bool { return p.Busy.Active(rsvpKey(id)) }

// RSVP records the caller's answer and refetches the list on success. Counts
// are never adjusted locally.
func (p *Events) RSVP(ctx context.Context, id int64, status api.RSVPStatus) error {
	if !status.Valid() {
		p.Alerts.Warning("Please choose Going, Maybe, or Not Going.")
		return ErrInvalid
	}
	if !p.deps.Session.Authenticated {
		p.Alerts.Warning("Please log in to RSVP.")
		return ErrInvalid
	}
	key := rsvpKey(id)
	if !p.Busy.Begin(key) {
		return ErrBusy
	}
	defer p.Busy.End(key)

	if _, err := p.deps.Client.SubmitRSVP(ctx, id, status); err != nil {
		reportFailure(p.deps.logger(), p.Alerts, err, rsvpFailed)
		return err
	}

	if status == api.RSVPGoing {
		p.Alerts.Success(rsvpGoing)
	} else {
		p.Alerts.Success(rsvpUpdated)
	}
	p.refresh(ctx)
	return nil
}

// refresh refetches the list after a mutation. A failed refetch keeps the
// previous list.
func (p *Events) refresh(ctx context.Context) {
	events, err := p.deps.Client.ListEvents(ctx, false)
	if err != nil {
		p.deps.logger().Warn("refetch failed", "panel", p.Name(), "error", err)
		return
	}
	p.mu.Lock()
	p.events = events
	p.state = stateFor(len(events))
	p.mu.Unlock()
}
