package main

import (
	"embed"
	"errors"
	"log/slog"

	"clipmark/internal/config"
	"clipmark/internal/singleinstance"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
)

//go:embed all:frontend/dist
var assets embed.FS

func main() {
	// Single-instance check before any Wails initialization. Two instances
	// would race on the database and register the same shortcuts.
	lock, err := singleinstance.TryLock(singleinstance.DefaultName())
	if errors.Is(err, singleinstance.ErrAlreadyRunning) {
		slog.Info("[DEBUG-SINGLE] another instance is already running, exiting")
		return
	}
	if err != nil {
		slog.Warn("[DEBUG-SINGLE] lock creation failed, proceeding without single-instance guard", "error", err)
	}
	if lock != nil {
		defer func() {
			if releaseErr := lock.Release(); releaseErr != nil {
				slog.Warn("[DEBUG-SINGLE] lock release failed", "error", releaseErr)
			}
		}()
	}

	// Only StartMinimized is read here; startup performs the full load and
	// reports failures to the webview.
	startHidden := false
	if cfg, loadErr := config.Load(config.DefaultPath()); loadErr == nil {
		startHidden = cfg.StartMinimized
	}

	app := NewApp()
	slog.SetDefault(slog.New(newAppLogHandler(app, slog.LevelInfo)))

	err = wails.Run(&options.App{
		Title:       "clipmark",
		Width:       420,
		Height:      640,
		MinWidth:    320,
		MinHeight:   400,
		StartHidden: startHidden,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		BackgroundColour: &options.RGBA{R: 10, G: 16, B: 22, A: 1},
		OnStartup:        app.startup,
		OnShutdown:       app.shutdown,
		Bind: []any{
			app,
		},
	})

	if err != nil {
		slog.Error("[DEBUG-SINGLE] wails run failed", "error", err)
	}
}
