//go:build !(js && wasm)

package prefs

import "testing"

func TestSQLiteStoreIsPerOrigin(t *testing.T) {
	dir := t.TempDir()
	a, err := OpenSQLite(dir, "https://a.example")
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()
	b, err := OpenSQLite(dir, "https://b.example")
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()

	if err := SaveTheme(a, Dark); err != nil {
		t.Fatal(err)
	}
	if err := SaveTheme(a, Light); err != nil {
		t.Fatal(err)
	}
	if err := SaveTheme(b, Dark); err != nil {
		t.Fatal(err)
	}

	if th, _ := LoadTheme(a); th != Light {
		t.Errorf("origin a: expected light after upsert, got %s", th)
	}
	if th, _ := LoadTheme(b); th != Dark {
		t.Errorf("origin b: expected dark, got %s", th)
	}

	if err := a.Delete(ThemeKey); err != nil {
		t.Fatal(err)
	}
	if v, err := a.Get(ThemeKey); err != nil || v != "" {
		t.Errorf("expected deleted key, got %q, %v", v, err)
	}
}
