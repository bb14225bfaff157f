// Package alerts holds the message regions panels write into. A Region is
// fully replaced on every Show; a nil Region swallows everything.
package alerts

import (
	"strings"
	"sync"
)

type Variant string

const (
	Info    Variant = "info"
	Success Variant = "success"
	Warning Variant = "warning"
	Danger  Variant = "danger"
)

type Alert struct {
	Message string
	Variant Variant
}

// Class is the CSS class pair used by the views.
func (a Alert) Class() string {
	return "alert alert-" + string(a.Variant)
}

type Region struct {
	mu     sync.Mutex
	name   string
	alerts []Alert
	// version increments on every change so views can cheaply detect updates.
	version uint64
}

func NewRegion(name string) *Region {
	return &Region{name: name}
}

func (r *Region) Name() string {
	if r == nil {
		return ""
	}
	return r.name
}

// Show replaces the region's content with one alert per non-empty message.
func (r *Region) Show(messages []string, v Variant) {
	if r == nil {
		return
	}
	if v == "" {
		v = Info
	}
	next := make([]Alert, 0, len(messages))
	for _, m := range messages {
		if strings.TrimSpace(m) == "" {
			continue
		}
		next = append(next, Alert{Message: m, Variant: v})
	}
	r.mu.Lock()
	r.alerts = next
	r.version++
	r.mu.Unlock()
}

func (r *Region) Info(messages ...string)    { r.Show(messages, Info) }
func (r *Region) Success(messages ...string) { r.Show(messages, Success) }
func (r *Region) Warning(messages ...string) { r.Show(messages, Warning) }
func (r *Region) Danger(messages ...string)  { r.Show(messages, Danger) }

func (r *Region) Clear() {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.alerts = nil
	r.version++
	r.mu.Unlock()
}

// Alerts returns a copy of the current content.
func (r *Region) Alerts() []Alert {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Alert, len(r.alerts))
	copy(out, r.alerts)
	return out
}

func (r *Region) Version() uint64 {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.version
}
