package panels

import "sync"

// Busy tracks in-flight mutating actions by key so the same control cannot
// submit twice. Always pair a successful Begin with a deferred End.
type Busy struct {
	mu     sync.Mutex
	active map[string]bool
	// notify, when set, runs after every Begin that succeeds and every End.
	notify func()
}

func newBusy(d Deps) Busy {
	return Busy{notify: d.OnBusy}
}

func (b *Busy) Begin(key string) bool {
	b.mu.Lock()
	if b.active[key] {
		b.mu.Unlock()
		return false
	}
	if b.active == nil {
		b.active = make(map[string]bool)
	}
	b.active[key] = true
	b.mu.Unlock()
	b.changed()
	return true
}

func (b *Busy) End(key string) {
	b.mu.Lock()
	delete(b.active, key)
	b.mu.Unlock()
	b.changed()
}

func (b *Busy) Active(key string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.active[key]
}

func (b *Busy) changed() {
	if b.notify != nil {
		b.notify()
	}
}
