package main

import (
	"context"
	"log/slog"
	"strings"
	"testing"

	"clipmark/internal/notify"
	"clipmark/internal/testutil"
)

func TestEmitRuntimeEventDropsWithoutContext(t *testing.T) {
	events := recordRuntimeEvents(t)
	logBuf := testutil.CaptureLogBuffer(t, slog.LevelWarn)

	app := NewApp()
	app.emitRuntimeEvent("config:updated", nil)

	if n := len(events.named("config:updated")); n != 0 {
		t.Fatalf("event emitted %d times without context", n)
	}
	if !strings.Contains(logBuf.String(), "runtime event dropped") {
		t.Fatalf("log output = %q, want drop warning", logBuf.String())
	}
}

func TestForwardBusTopics(t *testing.T) {
	events := recordRuntimeEvents(t)
	app := NewApp()
	app.setRuntimeContext(context.Background())
	app.forwardBusTopics()

	app.bus.Publish(notify.TopicBookmarks, "b")
	app.bus.Publish(notify.TopicClipboard, "c")
	app.bus.Publish("unrelated", "x")

	if got := events.named(notify.TopicBookmarks); len(got) != 1 || got[0].payload != "b" {
		t.Fatalf("bookmarks events = %+v", got)
	}
	if got := events.named(notify.TopicClipboard); len(got) != 1 || got[0].payload != "c" {
		t.Fatalf("clipboard events = %+v", got)
	}
	if len(events.named("unrelated")) != 0 {
		t.Fatal("unrelated topic forwarded")
	}
	if len(app.subscriptions) != 2 {
		t.Fatalf("subscriptions = %d, want 2", len(app.subscriptions))
	}
}

func TestPublishWithoutStoreIsNoop(t *testing.T) {
	app := NewApp()
	delivered := 0
	app.bus.Subscribe(notify.TopicBookmarks, func(any) { delivered++ })
	app.bus.Subscribe(notify.TopicClipboard, func(any) { delivered++ })

	app.publishBookmarks()
	app.publishClipboard()
	if delivered != 0 {
		t.Fatalf("delivered = %d, want 0 without store", delivered)
	}
}
