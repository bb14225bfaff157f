// Package prefs holds client-only UI state: the persisted theme and the
// active tab derived from the URL fragment.
package prefs

import (
	"fmt"
	"strings"
)

// Store is durable per-origin key/value storage. Get returns "" for a
// missing key.
type Store interface {
	Get(key string) (string, error)
	Set(key, value string) error
}

type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

const ThemeKey = "theme"

func (t Theme) Toggle() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

func ParseTheme(s string) (Theme, bool) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case Light:
		return Light, true
	case Dark:
		return Dark, true
	}
	return Light, false
}

// LoadTheme reads the stored theme; missing or unknown values mean Light.
func LoadTheme(s Store) (Theme, error) {
	v, err := s.Get(ThemeKey)
	if err != nil {
		return Light, fmt.Errorf("read theme: %w", err)
	}
	t, _ := ParseTheme(v)
	return t, nil
}

func SaveTheme(s Store, t Theme) error {
	if err := s.Set(ThemeKey, string(t)); err != nil {
		return fmt.Errorf("save theme: %w", err)
	}
	return nil
}

// MemStore is a Store kept in memory, for pages without storage and tests.
type MemStore map[string]string

func (m MemStore) Get(key string) (string, error) { return m[key], nil }

func (m MemStore) Set(key, value string) error {
	m[key] = value
	return nil
}

// TabFromFragment picks the active tab from a fragment like "friends-send".
// The fragment must carry prefix and name an allowed tab; otherwise fallback
// wins, and an unknown fallback becomes the first allowed tab.
func TabFromFragment(fragment, prefix string, allowed []string, fallback string) string {
	fragment = strings.TrimPrefix(fragment, "#")
	if name, ok := strings.CutPrefix(fragment, prefix+"-"); ok && contains(allowed, name) {
		return name
	}
	if contains(allowed, fallback) {
		return fallback
	}
	if len(allowed) > 0 {
		return allowed[0]
	}
	return fallback
}

func TabFragment(prefix, tab string) string {
	return prefix + "-" + tab
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
