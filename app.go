package main

import (
	"context"
	"sync"
	"sync/atomic"

	"clipmark/internal/applog"
	"clipmark/internal/capture"
	"clipmark/internal/clipwatch"
	"clipmark/internal/config"
	"clipmark/internal/formstate"
	"clipmark/internal/hotkeys"
	"clipmark/internal/notify"
	"clipmark/internal/store"
)

// App is the Wails-bound application service.
type App struct {
	// Runtime context lifecycle.
	ctx   context.Context
	ctxMu sync.RWMutex

	// Configuration state and startup warnings.
	// Lock ordering (outer -> inner):
	//   cfgSaveMu -> formstate.Store.mu
	// The capture engine never holds its own lock while writing the form,
	// so capture events may run concurrently with a save.
	cfgSaveMu          sync.Mutex
	configEventVersion atomic.Uint64
	configPath         string
	dbPath             string
	startupWarnMu      sync.Mutex
	configLoadWarnings []string

	// form is the single source of truth for the edited AppConfig.
	form            *formstate.Store[config.AppConfig]
	formUnsubscribe func()
	capture         *capture.Engine
	hotkeys         *hotkeys.Registry

	// Lists and their change notifications.
	bus           *notify.Bus
	subscriptions []*notify.Subscription
	store         *store.Store
	clip          *clipwatch.Watcher

	// Recent warnings and errors for the UI.
	logs *applog.Ring

	shuttingDown atomic.Bool // set true at the start of shutdown(); checked by worker recovery loops

	// Background worker cancellation/waits.
	bgCancel context.CancelFunc
	bgWG     sync.WaitGroup
}

// NewApp creates the app service with default config. startup replaces the
// defaults with the config file contents.
func NewApp() *App {
	form := formstate.New(config.DefaultConfig())
	a := &App{
		form:    form,
		capture: capture.NewEngine(configShortcutModel{form: form}),
		hotkeys: hotkeys.NewRegistry(),
		bus:     notify.NewBus(),
		logs:    applog.NewRing(applog.DefaultCapacity),
	}
	a.formUnsubscribe = form.Subscribe(a.syncCaptureFields)
	return a
}
