package panels

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/kidandcat/rallypoint/internal/alerts"
	"github.com/kidandcat/rallypoint/internal/api"
	"github.com/kidandcat/rallypoint/internal/timefmt"
)

// EventForm mirrors the editor inputs. Start and End are datetime-local
// values in the viewer's zone.
type EventForm struct {
	Title        string
	Description  string
	Perks        string
	LocationName string
	Address      string
	Start        string
	End          string
}

type ManageView struct {
	State   ListState
	EventID int64
	Title   string
	Form    EventForm
	// Creating is true until the event exists on the server.
	Creating bool
}

// Manage edits one event, or creates a new one when built with id 0.
type Manage struct {
	deps           Deps
	Alerts         *alerts.Region
	AnnounceAlerts *alerts.Region
	Busy           Busy

	mu      sync.Mutex
	eventID int64
	state   ListState
	event   *api.Event
	form    EventForm
}

func NewManage(d Deps, eventID int64) *Manage {
	return &Manage{
		deps:           d,
		Busy:           newBusy(d),
		eventID:        eventID,
		Alerts:         alerts.NewRegion("manage"),
		AnnounceAlerts: alerts.NewRegion("announce"),
	}
}

func (p *Manage) Name() string { return "manage" }

func (p *Manage) Load(ctx context.Context) error {
	p.mu.Lock()
	id := p.eventID
	p.mu.Unlock()

	if id == 0 {
		if !p.deps.Session.IsOrganizer() {
			p.setState(Unavailable)
			p.Alerts.Warning("Only organizers can create events.")
			return nil
		}
		p.setState(Ready)
		return nil
	}

	e, err := p.deps.Client.GetEvent(ctx, id)
	if err != nil {
		p.setState(Unavailable)
		reportFailure(p.deps.logger(), p.Alerts, err, "Unable to load this event.")
		return err
	}
	p.mu.Lock()
	p.event = e
	p.form = formFor(*e, p.deps.loc())
	p.state = Ready
	p.mu.Unlock()
	return nil
}

func (p *Manage) setState(s ListState) {
	p.mu.Lock()
	p.state = s
	p.mu.Unlock()
}

func formFor(e api.Event, loc *time.Location) EventForm {
	return EventForm{
		Title:        e.Title,
		Description:  e.Description,
		Perks:        e.Perks,
		LocationName: e.LocationName,
		Address:      e.Address,
		Start:        timefmt.ToLocalInput(e.StartTime.Time, loc),
		End:          timefmt.ToLocalInput(e.EndTime.Time, loc),
	}
}

// input validates the form and converts it for the API. problem is the
// message to show when the form is not submittable.
func (f EventForm) input(loc *time.Location) (in api.EventInput, problem string) {
	in = api.EventInput{
		Title:        strings.TrimSpace(f.Title),
		Description:  f.Description,
		Perks:        f.Perks,
		LocationName: strings.TrimSpace(f.LocationName),
		Address:      strings.TrimSpace(f.Address),
	}
	if in.Title == "" {
		return in, "Title is required."
	}
	if f.Start == "" {
		return in, "Start time is required."
	}
	var err error
	if in.StartTime, err = timefmt.FromLocalInput(f.Start, loc); err != nil {
		return in, "Start time is not a valid date and time."
	}
	if in.EndTime, err = timefmt.FromLocalInput(f.End, loc); err != nil {
		return in, "End time is not a valid date and time."
	}
	if in.EndTime != "" && in.EndTime < in.StartTime {
		return in, "End time must be after the start time."
	}
	return in, ""
}

func (p *Manage) SetForm(f EventForm) {
	p.mu.Lock()
	p.form = f
	p.mu.Unlock()
}

func (p *Manage) Snapshot() ManageView {
	p.mu.Lock()
	defer p.mu.Unlock()
	v := ManageView{State: p.state, EventID: p.eventID, Form: p.form, Creating: p.eventID == 0}
	if p.event != nil {
		v.Title = p.event.Title
	}
	return v
}

func (p *Manage) SaveBusy() bool { return p.Busy.Active("save") }

// Save creates the event on first save and PATCHes it afterwards.
func (p *Manage) Save(ctx context.Context) error {
	p.mu.Lock()
	form, id := p.form, p.eventID
	p.mu.Unlock()

	in, problem := form.input(p.deps.loc())
	if problem != "" {
		p.Alerts.Warning(problem)
		return ErrInvalid
	}
	if !p.Busy.Begin("save") {
		return ErrBusy
	}
	defer p.Busy.End("save")

	var (
		e   *api.Event
		err error
	)
	if id == 0 {
		e, err = p.deps.Client.CreateEvent(ctx, in)
	} else {
		e, err = p.deps.Client.UpdateEvent(ctx, id, in)
	}
	if err != nil {
		reportFailure(p.deps.logger(), p.Alerts, err, "Unable to save this event. Please try again.")
		return err
	}

	p.mu.Lock()
	p.event = e
	p.eventID = e.ID
	p.form = formFor(*e, p.deps.loc())
	p.state = Ready
	p.mu.Unlock()

	if id == 0 {
		p.Alerts.Success("Event created.")
	} else {
		p.Alerts.Success("Event updated.")
	}
	return nil
}

func (p *Manage) AnnounceBusy() bool { return p.Busy.Active("announce") }

// Announce notifies the event's attendees.
func (p *Manage) Announce(ctx context.Context, title, body string) error {
	title, body = strings.TrimSpace(title), strings.TrimSpace(body)
	if title == "" || body == "" {
		p.AnnounceAlerts.Warning("Please provide a title and message for the announcement.")
		return ErrInvalid
	}
	p.mu.Lock()
	id := p.eventID
	p.mu.Unlock()
	if id == 0 {
		p.AnnounceAlerts.Warning("Save the event before sending announcements.")
		return ErrInvalid
	}
	if !p.Busy.Begin("announce") {
		return ErrBusy
	}
	defer p.Busy.End("announce")

	if err := p.deps.Client.Announce(ctx, api.Announcement{Event: id, Title: title, Body: body}); err != nil {
		reportFailure(p.deps.logger(), p.AnnounceAlerts, err, "Unable to send announcement.")
		return err
	}
	p.AnnounceAlerts.Success("Announcement sent to attendees.")
	return nil
}
