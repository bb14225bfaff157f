package panels

import (
	"context"
	"strconv"
	"sync"

	"github.com/kidandcat/rallypoint/internal/alerts"
	"github.com/kidandcat/rallypoint/internal/api"
)

type MyEventsView struct {
	State ListState
	Cards []EventCard
}

// MyEvents lists the events the caller organizes.
type MyEvents struct {
	deps   Deps
	Alerts *alerts.Region
	Busy   Busy

	mu     sync.Mutex
	state  ListState
	events []api.Event
}

func NewMyEvents(d Deps) *MyEvents {
	return &MyEvents{deps: d, Busy: newBusy(d), Alerts: alerts.NewRegion("my-events")}
}

func (p *MyEvents) Name() string { return "my-events" }

func (p *MyEvents) Load(ctx context.Context) error {
	events, err := p.deps.Client.ListEvents(ctx, true)
	if err != nil {
		p.mu.Lock()
		p.state = Unavailable
		p.mu.Unlock()
		p.Alerts.Info("Unable to load your events right now. Please try again later.")
		return err
	}
	p.set(events)
	return nil
}

func (p *MyEvents) set(events []api.Event) {
	p.mu.Lock()
	p.events = events
	p.state = stateFor(len(events))
	p.mu.Unlock()
}

func (p *MyEvents) Snapshot() MyEventsView {
	p.mu.Lock()
	defer p.mu.Unlock()
	v := MyEventsView{State: p.state, Cards: make([]EventCard, 0, len(p.events))}
	for _, e := range p.events {
		v.Cards = append(v.Cards, cardFor(e, p.deps.loc()))
	}
	return v
}

func deleteKey(id int64) string { return "delete:" + strconv.FormatInt(id, 10) }

func (p *MyEvents) DeleteBusy(id int64) bool { return p.Busy.Active(deleteKey(id)) }

// Delete removes an event without confirmation. Only a 204 counts as
// success; the list is refetched afterwards and left alone otherwise.
func (p *MyEvents) Delete(ctx context.Context, id int64) error {
	key := deleteKey(id)
	if !p.Busy.Begin(key) {
		return ErrBusy
	}
	defer p.Busy.End(key)

	if err := p.deps.Client.DeleteEvent(ctx, id); err != nil {
		reportFailure(p.deps.logger(), p.Alerts, err, "Unable to delete this event.")
		return err
	}

	events, err := p.deps.Client.ListEvents(ctx, true)
	if err != nil {
		p.deps.logger().Warn("refetch failed", "panel", p.Name(), "error", err)
		events = p.without(id)
	}
	p.set(events)
	p.Alerts.Success("Event deleted.")
	return nil
}

func (p *MyEvents) without(id int64) []api.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]api.Event, 0, len(p.events))
	for _, e := range p.events {
		if e.ID != id {
			out = append(out, e)
		}
	}
	return out
}
