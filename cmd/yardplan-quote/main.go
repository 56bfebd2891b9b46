package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"github.com/philipparndt/yardplan/internal/config"
	"github.com/philipparndt/yardplan/internal/pricing"
	"github.com/philipparndt/yardplan/internal/scene"
	"github.com/philipparndt/yardplan/internal/scenestore"
	"github.com/philipparndt/yardplan/pkg/analysis"
	"github.com/philipparndt/yardplan/pkg/viewer"
	"github.com/philipparndt/yardplan/pkg/watcher"
)

// App is a read-only quote window for a saved scene
type App struct {
	window fyne.Window
	log    *slog.Logger
	cfg    config.Config
	calc   pricing.Calculator

	path  string
	items []scene.Entity
	lines []pricing.Line

	plan     *viewer.PlanView
	list     *widget.List
	total    *widget.Label
	summary  *widget.Label
	selected *widget.Label

	watch *watcher.FileWatcher
}

func main() {
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	cfg, err := config.Load("yardplan.yaml")
	if err != nil {
		log.Warn("using default configuration", "error", err)
	}

	a := app.New()
	w := a.NewWindow("Yardplan - Quote")

	q := &App{
		window: w,
		log:    log,
		cfg:    cfg,
		calc:   pricing.New(cfg.Pricing.AreaRate, cfg.Pricing.LengthRate),
	}

	if len(os.Args) > 1 {
		q.loadFile(os.Args[1])
	} else {
		q.showWelcomeScreen()
	}

	w.SetOnClosed(func() {
		if q.watch != nil {
			q.watch.Close()
		}
	})
	w.Resize(fyne.NewSize(1200, 800))
	w.ShowAndRun()
}

func (a *App) showWelcomeScreen() {
	welcomeLabel := widget.NewLabel("Yardplan Quote")
	welcomeLabel.TextStyle = fyne.TextStyle{Bold: true}

	instructionLabel := widget.NewLabel("Open a scene saved by the editor to see its quote")

	openButton := widget.NewButton("Open Scene", func() {
		a.showFileDialog()
	})

	a.window.SetContent(container.NewVBox(
		layout.NewSpacer(),
		container.NewCenter(welcomeLabel),
		container.NewCenter(instructionLabel),
		layout.NewSpacer(),
		container.NewCenter(openButton),
		layout.NewSpacer(),
	))
}

func (a *App) showFileDialog() {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		if reader == nil {
			return
		}
		defer reader.Close()

		a.loadFile(reader.URI().Path())
	}, a.window)
}

func readScene(path string, log *slog.Logger) ([]scene.Entity, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	store, err := scenestore.Open(ctx, path, log)
	if err != nil {
		return nil, err
	}
	defer store.Close()
	return store.Items(), nil
}

func (a *App) loadFile(path string) {
	items, err := readScene(path, a.log)
	if err != nil {
		dialog.ShowError(fmt.Errorf("failed to load scene: %w", err), a.window)
		return
	}

	a.path = path
	a.window.SetTitle("Yardplan - Quote - " + filepath.Base(path))
	a.setupMainUI()
	a.setItems(items)
	a.watchFile(path)
}

// watchFile reloads the quote whenever the editor saves the scene
func (a *App) watchFile(path string) {
	if a.watch != nil {
		a.watch.Close()
		a.watch = nil
	}
	fw, err := watcher.NewFileWatcher(300*time.Millisecond, a.log)
	if err != nil {
		a.log.Warn("scene will not auto-reload", "error", err)
		return
	}
	if err := fw.Watch(path); err != nil {
		fw.Close()
		a.log.Warn("scene will not auto-reload", "error", err)
		return
	}
	fw.Start()
	a.watch = fw

	go func() {
		for range fw.Changes() {
			items, err := readScene(path, a.log)
			if err != nil {
				a.log.Warn("reload failed", "scene", path, "error", err)
				continue
			}
			fyne.Do(func() { a.setItems(items) })
		}
	}()
}

func (a *App) setupMainUI() {
	a.total = widget.NewLabel("")
	a.total.TextStyle = fyne.TextStyle{Bold: true}
	a.summary = widget.NewLabel("")
	a.selected = widget.NewLabel("Tap an item on the plan")
	a.selected.Wrapping = fyne.TextWrapWord

	a.plan = viewer.NewPlanView(nil)
	a.plan.SetOnSelect(a.showSelection)

	a.list = widget.NewList(
		func() int { return len(a.lines) },
		func() fyne.CanvasObject {
			return container.NewBorder(nil, nil, nil, widget.NewLabel("0000000.00"), widget.NewLabel("item"))
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			l := a.lines[id]
			row := obj.(*fyne.Container)
			row.Objects[0].(*widget.Label).SetText(fmt.Sprintf("%s (%.2f %s)", l.Name, l.Quantity, l.Unit))
			row.Objects[1].(*widget.Label).SetText(fmt.Sprintf("%.2f", l.Price))
		},
	)
	a.list.OnSelected = func(id widget.ListItemID) {
		if id < len(a.lines) {
			a.plan.Select(a.lines[id].ID)
			a.showSelection(a.lines[id].ID)
		}
	}

	openButton := widget.NewButton("Open Scene", a.showFileDialog)
	zoomIn := widget.NewButton("+", func() { a.plan.Zoom(1.25) })
	zoomOut := widget.NewButton("-", func() { a.plan.Zoom(0.8) })

	side := container.NewBorder(
		container.NewVBox(
			widget.NewLabel("Quote:"),
			widget.NewSeparator(),
		),
		container.NewVBox(
			widget.NewSeparator(),
			a.total,
			widget.NewSeparator(),
			a.summary,
			widget.NewSeparator(),
			a.selected,
			widget.NewSeparator(),
			container.NewHBox(zoomOut, zoomIn, layout.NewSpacer(), openButton),
		),
		nil, nil,
		a.list,
	)

	split := container.NewHSplit(a.plan, side)
	split.Offset = 0.68
	a.window.SetContent(split)
}

func (a *App) setItems(items []scene.Entity) {
	a.items = items
	var total float64
	a.lines, total = a.calc.Breakdown(items)
	a.total.SetText(fmt.Sprintf("Total: %.2f %s", total, a.cfg.Pricing.Currency))

	r := analysis.AnalyzeScene(items)
	a.summary.SetText(fmt.Sprintf("Items: %d\nFloor area: %s\nFence length: %s",
		r.Entities,
		analysis.FormatMeasurement(r.FloorArea, "m²"),
		analysis.FormatMeasurement(r.FenceLength, "m")))

	a.list.UnselectAll()
	a.list.Refresh()
	a.plan.SetItems(items)
}

func (a *App) showSelection(id string) {
	i := scene.Find(a.items, id)
	if i < 0 {
		a.selected.SetText("Tap an item on the plan")
		return
	}
	e := a.items[i]
	qty, unit := pricing.Measure(e)
	a.selected.SetText(fmt.Sprintf("%s\nType: %s\nQuantity: %.2f %s\nPrice: %.2f %s",
		e.Name, e.Kind, qty, unit, a.calc.Price(e), a.cfg.Pricing.Currency))
}
