package main

import "testing"

func TestNavGenDropsSupersededLoads(t *testing.T) {
	var g navGen
	first := g.next()
	if !g.current(first) {
		t.Fatal("latest navigation must be current")
	}

	second := g.next()
	if g.current(first) {
		t.Error("a load started before the second navigation must be dropped")
	}
	if !g.current(second) {
		t.Error("second navigation must be current")
	}

	// Navigating to the same path again still supersedes the earlier load.
	third := g.next()
	if g.current(second) || !g.current(third) {
		t.Error("re-navigation to the same path must supersede the earlier load")
	}
}
