package main

import (
	"context"
	"log/slog"

	"clipmark/internal/notify"
)

// emitRuntimeEvent emits via the app context and delegates to emitRuntimeEventWithContext.
func (a *App) emitRuntimeEvent(name string, payload any) {
	a.emitRuntimeEventWithContext(a.runtimeContext(), name, payload)
}

// emitRuntimeEventWithContext emits a runtime event only when ctx is non-nil.
// Prefer this helper for best-effort contexts that may not be initialized yet.
func (a *App) emitRuntimeEventWithContext(ctx context.Context, name string, payload any) {
	if ctx == nil {
		slog.Warn("[EVENT] runtime event dropped because app context is nil", "event", name)
		return
	}
	runtimeEventsEmitFn(ctx, name, payload)
}

// forwardBusTopics relays list notifications to the webview. Topic names
// double as runtime event names.
func (a *App) forwardBusTopics() {
	for _, topic := range []string{notify.TopicBookmarks, notify.TopicClipboard} {
		a.subscribeBus(topic, func(payload any) {
			a.emitRuntimeEvent(topic, payload)
		})
	}
}

// publishBookmarks sends the fresh bookmark list to subscribers.
func (a *App) publishBookmarks() {
	if a.store == nil {
		return
	}
	list, err := a.store.Bookmarks(a.operationContext())
	if err != nil {
		slog.Warn("[DEBUG-STORE] bookmark list unavailable for notification", "error", err)
		return
	}
	a.bus.Publish(notify.TopicBookmarks, list)
}

// publishClipboard sends the fresh clipboard history to subscribers.
func (a *App) publishClipboard() {
	if a.store == nil {
		return
	}
	items, err := a.store.History(a.operationContext())
	if err != nil {
		slog.Warn("[DEBUG-STORE] clipboard history unavailable for notification", "error", err)
		return
	}
	a.bus.Publish(notify.TopicClipboard, items)
}
