package app

import (
	"errors"
	"fmt"
	"strconv"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/philipparndt/yardplan/internal/interaction"
	"github.com/philipparndt/yardplan/internal/markers"
	"github.com/philipparndt/yardplan/internal/scene"
	"github.com/philipparndt/yardplan/pkg/geometry"
)

// clickThreshold is how far the mouse may travel before a press counts as a drag
const clickThreshold = 4

// handleInput processes user input
func (app *App) handleInput() {
	if app.Entry.kind != EntryNone {
		app.handleEntry()
	} else {
		app.handleKeys()
	}
	app.handleMouse()
}

func ctrlDown() bool {
	return rl.IsKeyDown(rl.KeyLeftControl) || rl.IsKeyDown(rl.KeyRightControl) ||
		rl.IsKeyDown(rl.KeyLeftSuper) || rl.IsKeyDown(rl.KeyRightSuper)
}

func shiftDown() bool {
	return rl.IsKeyDown(rl.KeyLeftShift) || rl.IsKeyDown(rl.KeyRightShift)
}

func (app *App) handleKeys() {
	c := app.ctrl

	if ctrlDown() {
		switch {
		case rl.IsKeyPressed(rl.KeyZ) && shiftDown(), rl.IsKeyPressed(rl.KeyY):
			if c.Redo() {
				app.setStatus("Redo")
			}
		case rl.IsKeyPressed(rl.KeyZ):
			if c.Undo() {
				app.setStatus("Undo")
			}
		}
		return
	}

	switch {
	case rl.IsKeyPressed(rl.KeyF):
		app.selectFirstOfKind(scene.KindFloor)
	case rl.IsKeyPressed(rl.KeyG):
		app.selectFirstOfKind(scene.KindFence)
	case rl.IsKeyPressed(rl.KeyM):
		c.SetMode(interaction.ModeMeasuring)
	case rl.IsKeyPressed(rl.KeyP):
		app.selectFirstOfKind(scene.KindModel)
	case rl.IsKeyPressed(rl.KeyEnter), rl.IsKeyPressed(rl.KeyKpEnter):
		if _, err := c.Finalize(); err != nil {
			app.setStatus(err.Error())
		}
	case rl.IsKeyPressed(rl.KeyEscape):
		c.SetMode(interaction.ModeIdle)
	case rl.IsKeyPressed(rl.KeyDelete), rl.IsKeyPressed(rl.KeyBackspace):
		c.Delete()
	case rl.IsKeyPressed(rl.KeyTab):
		c.Markers().Swap()
	case rl.IsKeyPressed(rl.KeyL):
		app.beginEntry(EntryLength)
	case rl.IsKeyPressed(rl.KeyA):
		app.beginEntry(EntryAngle)
	case rl.IsKeyPressed(rl.KeyR):
		app.beginEntry(EntryPrice)
	case rl.IsKeyPressed(rl.KeyC):
		app.cycleAttached()
	case rl.IsKeyPressed(rl.KeyT):
		app.setCameraTopView()
	case rl.IsKeyPressed(rl.KeyHome):
		app.resetCameraView()
	case rl.IsKeyPressed(rl.KeyH):
		app.UI.showHelp = !app.UI.showHelp
	}

	// 1-9 pick a catalog product
	for i := 0; i < 9; i++ {
		if rl.IsKeyPressed(int32(rl.KeyOne) + int32(i)) {
			app.selectProductIndex(i)
		}
	}
}

func (app *App) selectFirstOfKind(kind scene.Kind) {
	if p, ok := app.ctrl.Product(); ok && p.Type == kind {
		if err := app.ctrl.SelectProduct(p.ID); err == nil {
			return
		}
	}
	for _, p := range app.UI.products {
		if p.Type == kind {
			if err := app.ctrl.SelectProduct(p.ID); err != nil {
				app.setStatus(err.Error())
			}
			return
		}
	}
	app.setStatus(fmt.Sprintf("No %s products in catalog", kind))
}

func (app *App) selectProductIndex(i int) {
	if i >= len(app.UI.products) {
		return
	}
	p := app.UI.products[i]
	if err := app.ctrl.SelectProduct(p.ID); err != nil {
		app.setStatus(err.Error())
		return
	}
	app.setStatus("Selected " + p.Name)
}

// cycleAttached steps the attached fence through its slat colour palettes,
// or the attached floor through the built-in materials
func (app *App) cycleAttached() {
	id := app.ctrl.Attached()
	e, ok := app.store.Get(id)
	if !ok {
		return
	}
	switch e.Kind {
	case scene.KindFloor:
		next := nextMaterial(e.Floor)
		if err := app.ctrl.SetFloorMaterial(id, next); err != nil {
			app.setStatus(err.Error())
		}
	case scene.KindFence:
		cfg := e.Fence.Clone()
		if len(cfg.SlatColors) > 1 {
			cfg.SlatColors = append(cfg.SlatColors[1:], cfg.SlatColors[0])
		}
		if err := app.ctrl.SetFenceConfig(id, cfg); err != nil {
			app.setStatus(err.Error())
		}
	}
}

var materialCycle = []scene.FloorMaterial{
	scene.MaterialGrass,
	scene.MaterialRubber,
	scene.MaterialSand,
	scene.MaterialWoodchips,
	scene.MaterialConcrete,
	scene.MaterialPavers,
}

func nextMaterial(spec *scene.FloorSpec) scene.FloorMaterial {
	if spec == nil {
		return materialCycle[0]
	}
	for i, m := range materialCycle {
		if m == spec.Material {
			return materialCycle[(i+1)%len(materialCycle)]
		}
	}
	return materialCycle[0]
}

func (app *App) beginEntry(kind EntryKind) {
	switch kind {
	case EntryLength:
		if len(app.ctrl.Markers().Selected()) < 2 {
			app.setStatus("Select two vertices to set a length")
			return
		}
	case EntryAngle:
		if len(app.ctrl.Markers().Selected()) != 3 {
			app.setStatus("Select three vertices to set an angle")
			return
		}
	case EntryPrice:
		if e, ok := app.store.Get(app.ctrl.Attached()); !ok || e.Kind != scene.KindModel {
			app.setStatus("Attach a model to set its price")
			return
		}
	}
	app.Entry = EntryState{kind: kind}
}

// handleEntry collects typed digits until Enter applies or Escape cancels
func (app *App) handleEntry() {
	for ch := rl.GetCharPressed(); ch != 0; ch = rl.GetCharPressed() {
		if (ch >= '0' && ch <= '9') || ch == '.' || (ch == '-' && app.Entry.buffer == "") {
			app.Entry.buffer += string(rune(ch))
		}
	}
	switch {
	case rl.IsKeyPressed(rl.KeyBackspace) && len(app.Entry.buffer) > 0:
		app.Entry.buffer = app.Entry.buffer[:len(app.Entry.buffer)-1]
	case rl.IsKeyPressed(rl.KeyEscape):
		app.Entry = EntryState{}
	case rl.IsKeyPressed(rl.KeyEnter), rl.IsKeyPressed(rl.KeyKpEnter):
		app.applyEntry()
	}
}

func (app *App) applyEntry() {
	entry := app.Entry
	app.Entry = EntryState{}

	v, err := strconv.ParseFloat(entry.buffer, 64)
	if err != nil {
		app.setStatus("Not a number: " + entry.buffer)
		return
	}
	switch entry.kind {
	case EntryLength:
		err = app.ctrl.SetSelectedLength(v)
	case EntryAngle:
		err = app.ctrl.SetSelectedAngle(v)
	case EntryPrice:
		err = app.ctrl.SetModelPrice(app.ctrl.Attached(), v)
	}
	switch {
	case errors.Is(err, markers.ErrSelection):
		app.setStatus("Selection changed, override not applied")
	case err != nil:
		app.setStatus(err.Error())
	}
}

func (app *App) handleMouse() {
	c := app.ctrl
	pos := rl.GetMousePosition()
	ray := app.mouseRay()

	c.PointerMove(ray)

	// Orbit with right drag, pan with middle drag, zoom with the wheel
	if rl.IsMouseButtonPressed(rl.MouseRightButton) {
		app.Interaction.rightDownPos = pos
		app.Interaction.rightMoved = false
	}
	if rl.IsMouseButtonDown(rl.MouseRightButton) {
		if rl.Vector2Distance(pos, app.Interaction.rightDownPos) > clickThreshold {
			app.Interaction.rightMoved = true
		}
		if app.Interaction.rightMoved {
			app.doOrbit(rl.GetMouseDelta())
		}
	}
	if rl.IsMouseButtonReleased(rl.MouseRightButton) && !app.Interaction.rightMoved {
		c.PointerDown(interaction.Pointer{Ray: ray, Button: interaction.ButtonSecondary})
	}
	if rl.IsMouseButtonDown(rl.MouseMiddleButton) {
		app.doPan(rl.GetMouseDelta())
	}
	app.doZoom(rl.GetMouseWheelMove())

	if rl.IsMouseButtonPressed(rl.MouseLeftButton) {
		app.Interaction.mouseDownPos = pos
		app.Interaction.mouseMoved = false
		c.PointerDown(interaction.Pointer{Ray: ray, Button: interaction.ButtonPrimary, Multi: shiftDown()})
		app.beginDrag(ray)
	}

	if rl.IsMouseButtonDown(rl.MouseLeftButton) && app.Interaction.dragging {
		if rl.Vector2Distance(pos, app.Interaction.mouseDownPos) > clickThreshold {
			app.Interaction.mouseMoved = true
		}
		if app.Interaction.mouseMoved {
			app.continueDrag(ray)
		}
	}

	if rl.IsMouseButtonReleased(rl.MouseLeftButton) && app.Interaction.dragging {
		app.Interaction.dragging = false
		c.EndDrag()
	}
}

// beginDrag starts a gizmo drag when the press landed on the attached
// entity or one of its vertex handles
func (app *App) beginDrag(ray geometry.Ray) {
	c := app.ctrl
	if c.Mode() != interaction.ModeEditing || c.Attached() == "" {
		return
	}
	hit, ok := ray.IntersectGround(0)
	if !ok {
		return
	}

	vertex := c.GizmoVertex() >= 0
	if !vertex {
		tag, ok := c.View().PickEntity(ray)
		if !ok || tag.OwnerID != c.Attached() {
			return
		}
	}
	n, ok := c.View().Node(c.Attached())
	if !ok || !c.BeginDrag() {
		return
	}
	app.Interaction.dragging = true
	app.Interaction.dragVertex = vertex
	app.Interaction.dragHit = hit
	app.Interaction.dragStart = n.Entity.Transform
}

func (app *App) continueDrag(ray geometry.Ray) {
	hit, ok := ray.IntersectGround(0)
	if !ok {
		return
	}
	if app.Interaction.dragVertex {
		if err := app.ctrl.DragVertex(hit); err != nil {
			app.setStatus(err.Error())
		}
		return
	}
	t := app.Interaction.dragStart
	t.Position = t.Position.Add(hit.Sub(app.Interaction.dragHit))
	app.ctrl.DragTransform(t)
}
