package app

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/philipparndt/yardplan/internal/interaction"
	"github.com/philipparndt/yardplan/version"
)

const (
	fontSize16 = float32(16)
	fontSize14 = float32(14)
	fontSize12 = float32(12)
	lineHeight = float32(20)
)

var colorHint = rl.NewColor(144, 238, 144, 255)

func (app *App) setStatus(msg string) {
	app.UI.status = msg
}

func (app *App) text(s string, x, y, size float32, c rl.Color) {
	rl.DrawTextEx(app.UI.font, s, rl.Vector2{X: x, Y: y}, size, 1, c)
}

// drawUI draws the heads-up display
func (app *App) drawUI() {
	c := app.ctrl
	y := float32(10)

	// === MODE ===
	app.text("Mode:", 10, y, fontSize16, rl.Yellow)
	y += lineHeight
	app.text("  "+modeLabel(c.Mode()), 10, y, fontSize14, rl.White)
	y += lineHeight
	if p, ok := c.Product(); ok {
		app.text(fmt.Sprintf("  Product: %s", p.Name), 10, y, fontSize14, rl.White)
		y += lineHeight
	}
	if c.PlacementPending() {
		app.text("  Loading model...", 10, y, fontSize14, rl.Orange)
		y += lineHeight
	}
	y += lineHeight / 2

	// === QUOTE ===
	items := app.store.Items()
	_, total := app.pricing.Breakdown(items)
	app.text("Quote:", 10, y, fontSize16, rl.Yellow)
	y += lineHeight
	app.text(fmt.Sprintf("  Items: %d", len(items)), 10, y, fontSize14, rl.White)
	y += lineHeight
	app.text(fmt.Sprintf("  Total: %.2f %s", total, app.cfg.Pricing.Currency), 10, y, fontSize14, rl.NewColor(100, 200, 255, 255))
	y += lineHeight
	if e, ok := app.store.Get(c.Attached()); ok {
		app.text(fmt.Sprintf("  %s: %.2f %s", e.Name, app.pricing.Price(e), app.cfg.Pricing.Currency), 10, y, fontSize14, rl.White)
		y += lineHeight
	}
	y += lineHeight / 2

	// === MEASURE ===
	if app.UI.hasValue {
		app.text("Measure:", 10, y, fontSize16, rl.Yellow)
		y += lineHeight
		app.text("  "+app.UI.lastValue.String(), 10, y, fontSize16, rl.Yellow)
		y += lineHeight * 1.5
	}

	// === CATALOG ===
	app.text("Catalog:", 10, y, fontSize16, rl.Yellow)
	y += lineHeight
	for i, p := range app.UI.products {
		if i >= 9 {
			break
		}
		col := rl.LightGray
		if cur, ok := c.Product(); ok && cur.ID == p.ID {
			col = rl.Yellow
		}
		app.text(fmt.Sprintf("  %d: %s", i+1, p.Name), 10, y, fontSize14, col)
		y += lineHeight
	}
	y += lineHeight / 2

	if app.UI.showHelp {
		app.drawHelp(y)
	} else {
		app.text("  H: Help", 10, y, fontSize14, rl.LightGray)
	}

	app.drawEntry()
	app.drawStatus()

	// Version and FPS in bottom-left corner
	bottomY := float32(rl.GetScreenHeight()) - 30
	versionText := version.GetVersion()
	app.text(versionText, 10, bottomY, fontSize12, rl.Gray)

	fpsText := fmt.Sprintf("FPS: %d", rl.GetFPS())
	versionWidth := rl.MeasureTextEx(app.UI.font, versionText, fontSize12, 1).X
	app.text(fpsText, 10+versionWidth+15, bottomY, fontSize12, rl.Lime)
}

func modeLabel(m interaction.Mode) string {
	switch m {
	case interaction.ModeDrawingFloor:
		return "Drawing floor (right click or Enter to finish)"
	case interaction.ModeDrawingFence:
		return "Drawing fence (right click or Enter to finish)"
	case interaction.ModeMeasuring:
		return "Measuring"
	case interaction.ModePlacing:
		return "Placing (click the ground)"
	case interaction.ModeEditing:
		return "Editing"
	default:
		return "Idle"
	}
}

func (app *App) drawHelp(y float32) {
	lines := []string{
		"F: Floor | G: Fence | P: Place | M: Measure",
		"Esc: Cancel | Del: Delete | C: Cycle colours",
		"Ctrl+Z: Undo | Ctrl+Y: Redo",
		"Shift+Click: Multi-select vertices | Tab: Swap",
		"L: Set length | A: Set angle | R: Set price",
		"Right Drag: Orbit | Middle: Pan | Wheel: Zoom",
		"T: Top view | Home: Reset view",
	}
	for _, l := range lines {
		app.text("  "+l, 10, y, fontSize14, rl.LightGray)
		y += lineHeight
	}
}

// drawEntry shows the numeric override being typed
func (app *App) drawEntry() {
	if app.Entry.kind == EntryNone {
		return
	}
	label := map[EntryKind]string{
		EntryLength: "Length (m)",
		EntryAngle:  "Angle (°)",
		EntryPrice:  "Price",
	}[app.Entry.kind]
	txt := fmt.Sprintf("%s: %s_", label, app.Entry.buffer)

	screenWidth := float32(rl.GetScreenWidth())
	screenHeight := float32(rl.GetScreenHeight())
	boxPadding := float32(10)
	textSize := rl.MeasureTextEx(app.UI.font, txt, fontSize16, 1)
	boxWidth := textSize.X + boxPadding*2
	boxHeight := textSize.Y + boxPadding*2
	boxX := screenWidth - boxWidth - 20
	boxY := screenHeight - boxHeight - 20

	rl.DrawRectangle(int32(boxX), int32(boxY), int32(boxWidth), int32(boxHeight), rl.NewColor(0, 0, 0, 200))
	rl.DrawRectangleLines(int32(boxX), int32(boxY), int32(boxWidth), int32(boxHeight), rl.Yellow)
	app.text(txt, boxX+boxPadding, boxY+boxPadding, fontSize16, rl.Yellow)
}

func (app *App) drawStatus() {
	if app.UI.status == "" {
		return
	}
	screenWidth := float32(rl.GetScreenWidth())
	textSize := rl.MeasureTextEx(app.UI.font, app.UI.status, fontSize14, 1)
	app.text(app.UI.status, screenWidth-textSize.X-20, 20, fontSize14, colorHint)
}
