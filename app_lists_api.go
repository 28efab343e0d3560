package main

import (
	"fmt"
	"log/slog"

	"clipmark/internal/store"
)

// GetBookmarks returns bookmarks in the order they were added.
func (a *App) GetBookmarks() ([]store.Bookmark, error) {
	st, err := a.requireStore()
	if err != nil {
		return nil, err
	}
	return st.Bookmarks(a.operationContext())
}

// AddBookmark appends content as a bookmark.
func (a *App) AddBookmark(content string) (store.Bookmark, error) {
	st, err := a.requireStore()
	if err != nil {
		return store.Bookmark{}, err
	}
	b, err := st.AddBookmark(a.operationContext(), content)
	if err != nil {
		return store.Bookmark{}, err
	}
	a.publishBookmarks()
	return b, nil
}

// RemoveBookmark deletes the bookmark at index.
func (a *App) RemoveBookmark(index int) error {
	st, err := a.requireStore()
	if err != nil {
		return err
	}
	if err := st.RemoveBookmark(a.operationContext(), index); err != nil {
		return err
	}
	a.publishBookmarks()
	return nil
}

// ToggleBookmark bookmarks content, or removes the bookmark when one
// exists. It reports whether a bookmark was added.
func (a *App) ToggleBookmark(content string) (bool, error) {
	st, err := a.requireStore()
	if err != nil {
		return false, err
	}
	added, err := st.ToggleBookmark(a.operationContext(), content)
	if err != nil {
		return false, err
	}
	a.publishBookmarks()
	return added, nil
}

// GetClipboardItems returns the clipboard history, newest first.
func (a *App) GetClipboardItems() ([]string, error) {
	st, err := a.requireStore()
	if err != nil {
		return nil, err
	}
	return st.History(a.operationContext())
}

// DeleteClipboardItem removes item from the history. Deleting an item that
// is not present is not an error.
func (a *App) DeleteClipboardItem(item string) error {
	st, err := a.requireStore()
	if err != nil {
		return err
	}
	removed, err := st.DeleteHistoryItem(a.operationContext(), item)
	if err != nil {
		return err
	}
	if removed {
		a.publishClipboard()
	}
	return nil
}

// UseClipboardItem copies the history entry at index back to the system
// clipboard and hides the window.
func (a *App) UseClipboardItem(index int) error {
	st, err := a.requireStore()
	if err != nil {
		return err
	}
	clip, err := a.requireClipboard()
	if err != nil {
		return err
	}
	item, err := st.HistoryItem(a.operationContext(), index)
	if err != nil {
		return err
	}
	if err := clip.Write(item); err != nil {
		return fmt.Errorf("use clipboard item %d: %w", index, err)
	}
	slog.Debug("[DEBUG-CLIP] history item copied to clipboard", "index", index)
	a.HideWindow()
	return nil
}
