package main

import "fyne.io/fyne/v2"

// prefsBackend stores the favorites slot in Fyne's preference store.
type prefsBackend struct {
	prefs fyne.Preferences
}

func (b *prefsBackend) Get(key string) (string, bool) {
	v := b.prefs.String(key)
	return v, v != ""
}

func (b *prefsBackend) Set(key, value string) error {
	b.prefs.SetString(key, value)
	return nil
}
