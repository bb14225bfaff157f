// Package panels holds the controllers behind each page region. A
// controller owns its state, talks to the API, and writes into its own
// alert region; views only ever read snapshots.
//
// Every controller method blocks on the network and is safe to call from
// any goroutine. In the browser they run inside ctx.Async.
package panels

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kidandcat/rallypoint/internal/alerts"
	"github.com/kidandcat/rallypoint/internal/api"
	"github.com/kidandcat/rallypoint/internal/session"
)

// Panel is one independently loading page region.
type Panel interface {
	Name() string
	Load(ctx context.Context) error
}

// Init runs every panel's initial load concurrently, at most limit at a
// time (0 means no limit). A failure or panic in one panel is logged and
// never reaches its siblings.
func Init(ctx context.Context, log *slog.Logger, limit int, panels ...Panel) {
	if log == nil {
		log = slog.Default()
	}
	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}
	for _, p := range panels {
		if p == nil {
			continue
		}
		p := p
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					log.Error("panel panicked", "panel", p.Name(), "panic", r)
				}
			}()
			start := time.Now()
			if err := p.Load(ctx); err != nil {
				log.Warn("panel unavailable", "panel", p.Name(), "error", err)
				return nil
			}
			log.Debug("panel loaded", "panel", p.Name(), "took", time.Since(start))
			return nil
		})
	}
	g.Wait()
}

type ListState int

const (
	Loading ListState = iota
	Ready
	Empty
	Unavailable
)

func (s ListState) String() string {
	switch s {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Empty:
		return "empty"
	case Unavailable:
		return "unavailable"
	}
	return "unknown"
}

func stateFor(n int) ListState {
	if n == 0 {
		return Empty
	}
	return Ready
}

// Deps is what every controller is built from.
type Deps struct {
	Client  *api.Client
	Log     *slog.Logger
	Session session.Session
	// Now and Loc default to time.Now and time.Local.
	Now func() time.Time
	Loc *time.Location
	// OnBusy is called whenever a control becomes busy or idle again, from
	// whichever goroutine runs the action.
	OnBusy func()
}

func (d Deps) logger() *slog.Logger {
	if d.Log == nil {
		return slog.Default()
	}
	return d.Log
}

func (d Deps) now() time.Time {
	if d.Now == nil {
		return time.Now()
	}
	return d.Now()
}

func (d Deps) loc() *time.Location {
	if d.Loc == nil {
		return time.Local
	}
	return d.Loc
}

// reportFailure shows err in r. Server-provided messages are shown verbatim;
// anything else gets the panel's fallback text.
func reportFailure(log *slog.Logger, r *alerts.Region, err error, fallback string) {
	var se *api.StatusError
	switch {
	case errors.As(err, &se) && len(shownMessages(se)) > 0:
		r.Danger(shownMessages(se)...)
	case errors.As(err, &se):
		log.Warn("request failed", "region", r.Name(), "status", se.Status)
		r.Warning(fallback)
	case errors.Is(err, api.ErrMalformed):
		log.Error("unreadable response", "region", r.Name(), "error", err)
		r.Warning(fallback)
	case errors.Is(err, context.Canceled):
		log.Debug("request canceled", "region", r.Name())
	default:
		log.Error("request failed", "region", r.Name(), "error", err)
		r.Danger(fallback)
	}
}

// shownMessages is se's messages without blank entries, which an alert
// would not display.
func shownMessages(se *api.StatusError) []string {
	var out []string
	for _, m := range se.Messages() {
		if strings.TrimSpace(m) != "" {
			out = append(out, m)
		}
	}
	return out
}
