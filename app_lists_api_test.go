package main

import (
	"context"
	"errors"
	"slices"
	"testing"

	"clipmark/internal/notify"
	"clipmark/internal/store"
)

func bookmarkContentsForTest(t *testing.T, app *App) []string {
	t.Helper()
	list, err := app.GetBookmarks()
	if err != nil {
		t.Fatalf("GetBookmarks() error = %v", err)
	}
	out := make([]string, 0, len(list))
	for _, b := range list {
		out = append(out, b.Content)
	}
	return out
}

func TestBookmarkAPIPublishesUpdates(t *testing.T) {
	events := recordRuntimeEvents(t)
	app := newAPITestApp(t)
	app.forwardBusTopics()

	for _, content := range []string{"alpha", "beta", "gamma"} {
		b, err := app.AddBookmark(content)
		if err != nil {
			t.Fatalf("AddBookmark(%q) error = %v", content, err)
		}
		if b.ID == "" || b.Content != content {
			t.Fatalf("AddBookmark(%q) = %+v", content, b)
		}
	}
	if err := app.RemoveBookmark(1); err != nil {
		t.Fatalf("RemoveBookmark(1) error = %v", err)
	}
	if got := bookmarkContentsForTest(t, app); !slices.Equal(got, []string{"alpha", "gamma"}) {
		t.Fatalf("bookmarks = %v", got)
	}

	added, err := app.ToggleBookmark("alpha")
	if err != nil || added {
		t.Fatalf("ToggleBookmark(alpha) = %v, %v; want removed", added, err)
	}
	added, err = app.ToggleBookmark("delta")
	if err != nil || !added {
		t.Fatalf("ToggleBookmark(delta) = %v, %v; want added", added, err)
	}

	updates := events.named(notify.TopicBookmarks)
	if len(updates) != 6 {
		t.Fatalf("bookmarks-updated emitted %d times, want 6", len(updates))
	}
	last, ok := updates[len(updates)-1].payload.([]store.Bookmark)
	if !ok {
		t.Fatalf("payload type = %T, want []store.Bookmark", updates[len(updates)-1].payload)
	}
	if len(last) != 2 || last[0].Content != "gamma" || last[1].Content != "delta" {
		t.Fatalf("last payload = %+v", last)
	}
}

func TestRemoveBookmarkOutOfRange(t *testing.T) {
	events := recordRuntimeEvents(t)
	app := newAPITestApp(t)
	app.forwardBusTopics()

	if err := app.RemoveBookmark(0); !errors.Is(err, store.ErrIndexOutOfRange) {
		t.Fatalf("RemoveBookmark(0) error = %v, want ErrIndexOutOfRange", err)
	}
	if n := len(events.named(notify.TopicBookmarks)); n != 0 {
		t.Fatalf("bookmarks-updated emitted %d times on failure", n)
	}
}

func TestClipboardAPI(t *testing.T) {
	events := recordRuntimeEvents(t)
	app := newAPITestApp(t)
	app.forwardBusTopics()

	ctx := context.Background()
	for _, item := range []string{"one", "two"} {
		if _, err := app.store.AddHistoryItem(ctx, item, 10); err != nil {
			t.Fatal(err)
		}
	}
	items, err := app.GetClipboardItems()
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(items, []string{"two", "one"}) {
		t.Fatalf("GetClipboardItems() = %v", items)
	}

	if err := app.DeleteClipboardItem("one"); err != nil {
		t.Fatalf("DeleteClipboardItem(one) error = %v", err)
	}
	if err := app.DeleteClipboardItem("missing"); err != nil {
		t.Fatalf("DeleteClipboardItem(missing) error = %v", err)
	}
	if n := len(events.named(notify.TopicClipboard)); n != 1 {
		t.Fatalf("clipboard-updated emitted %d times, want 1", n)
	}
}

func TestUseClipboardItemRequiresWatcher(t *testing.T) {
	app := newAPITestApp(t)
	if _, err := app.store.AddHistoryItem(context.Background(), "x", 10); err != nil {
		t.Fatal(err)
	}
	if err := app.UseClipboardItem(0); err == nil {
		t.Fatal("UseClipboardItem() error = nil without clipboard watcher")
	}
}

func TestListAPIWithoutStore(t *testing.T) {
	app := NewApp()
	checks := map[string]error{}
	_, checks["GetBookmarks"] = app.GetBookmarks()
	_, checks["AddBookmark"] = app.AddBookmark("x")
	checks["RemoveBookmark"] = app.RemoveBookmark(0)
	_, checks["ToggleBookmark"] = app.ToggleBookmark("x")
	_, checks["GetClipboardItems"] = app.GetClipboardItems()
	checks["DeleteClipboardItem"] = app.DeleteClipboardItem("x")
	checks["UseClipboardItem"] = app.UseClipboardItem(0)

	for name, err := range checks {
		if err == nil {
			t.Errorf("%s() error = nil without store", name)
		}
	}
}
