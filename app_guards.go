package main

import (
	"errors"

	"clipmark/internal/clipwatch"
	"clipmark/internal/store"
)

func (a *App) requireStore() (*store.Store, error) {
	if a.store == nil {
		return nil, errors.New("bookmark store is unavailable")
	}
	return a.store, nil
}

func (a *App) requireClipboard() (*clipwatch.Watcher, error) {
	if a.clip == nil {
		return nil, errors.New("clipboard watcher is unavailable")
	}
	return a.clip, nil
}
