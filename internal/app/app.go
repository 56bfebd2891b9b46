// Package app hosts the interactive 3D editor window.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/philipparndt/yardplan/internal/assets"
	"github.com/philipparndt/yardplan/internal/catalog"
	"github.com/philipparndt/yardplan/internal/config"
	"github.com/philipparndt/yardplan/internal/interaction"
	"github.com/philipparndt/yardplan/internal/measurement"
	"github.com/philipparndt/yardplan/internal/pricing"
	"github.com/philipparndt/yardplan/internal/scenestore"
	"github.com/philipparndt/yardplan/internal/tools"
)

// Options configures the editor
type Options struct {
	// ScenePath is the SQLite file the scene is saved to
	ScenePath string
	// ConfigPath is the YAML configuration file; relative paths in it are
	// resolved against its directory
	ConfigPath string
	Log        *slog.Logger
}

// Run opens the editor window and blocks until it is closed
func Run(opts Options) error {
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}

	store, err := scenestore.Open(context.Background(), opts.ScenePath, log)
	if err != nil {
		return fmt.Errorf("failed to open scene: %w", err)
	}
	defer store.Close()

	app := &App{
		cfg:      cfg,
		log:      log,
		store:    store,
		sink:     tools.NewLatestSink(),
		pricing:  pricing.New(cfg.Pricing.AreaRate, cfg.Pricing.LengthRate),
		assetDir: config.Resolve(opts.ConfigPath, cfg.AssetDir),
	}

	var cat *catalog.Catalog
	catalogPath := config.Resolve(opts.ConfigPath, cfg.Catalog)
	if reloader, err := catalog.NewReloader(catalogPath, log); err != nil {
		log.Warn("using built-in catalog", "path", catalogPath, "error", err)
		cat = catalog.Default()
	} else {
		defer reloader.Close()
		app.catalog = reloader
		cat = reloader.Catalog()
	}
	app.UI.products = cat.Products()

	reporter := assets.ReporterFunc(func(url string, err error) {
		log.Warn("asset failed to load", "url", url, "error", err)
		app.setStatus("Could not load " + url)
	})
	loader := assets.NewLoader(assets.NewSchemeFetcher(app.assetDir), reporter, log)

	app.ctrl = interaction.New(store, cat, loader, app.sink, log, interaction.OptionsFromConfig(cfg))
	app.ctrl.OnOrbitLock(func(locked bool) { app.Camera.orbitLocked = locked })

	// Initialize window
	screenWidth := int32(1400)
	screenHeight := int32(900)
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagWindowHighdpi | rl.FlagMsaa4xHint) // Must be before InitWindow
	rl.InitWindow(screenWidth, screenHeight, "Yardplan")
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)
	// Escape cancels the current tool instead of closing the window
	rl.SetExitKey(0)

	app.UI.font = rl.GetFontDefault()
	app.overlay = measurement.NewRenderer(app.UI.font, fontSize14)
	app.initGPU()
	defer app.unloadGPU()
	app.initCamera()

	log.Info("editor started", "scene", opts.ScenePath, "items", len(store.Items()))

	last := time.Now()
	for !rl.WindowShouldClose() {
		now := time.Now()
		dt := now.Sub(last).Seconds()
		last = now

		app.pollCatalog()
		app.handleInput()
		app.updateCamera()
		app.ctrl.Update(dt)

		if r, ok := app.sink.Take(); ok {
			app.UI.lastValue = r
			app.UI.hasValue = r.Kind != tools.ResultCleared
		}

		nodes := app.ctrl.View().Nodes()
		app.syncGPU(nodes)

		rl.BeginDrawing()
		rl.ClearBackground(rl.NewColor(15, 18, 25, 255))

		rl.BeginMode3D(app.Camera.camera)
		app.drawScene(nodes)
		rl.EndMode3D()

		app.overlay.Draw(measurement.FromController(app.ctrl), app.Camera.camera)
		app.drawUI()

		rl.EndDrawing()
	}
	return nil
}

// pollCatalog applies catalog file changes to the controller
func (app *App) pollCatalog() {
	if app.catalog == nil || !app.catalog.Poll() {
		return
	}
	cat := app.catalog.Catalog()
	app.ctrl.SetCatalog(cat)
	app.UI.products = cat.Products()
	app.setStatus("Catalog reloaded")
}
