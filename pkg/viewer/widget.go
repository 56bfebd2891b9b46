package viewer

import (
	"image"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"github.com/philipparndt/yardplan/internal/scene"
)

// PlanView is a fyne widget showing a layout from above. Tapping an entity
// selects it.
type PlanView struct {
	widget.BaseWidget

	mu       sync.Mutex
	items    []scene.Entity
	opts     Options
	view     View
	zoom     float64
	onSelect func(id string)

	raster *canvas.Raster
}

// NewPlanView creates a plan widget for items
func NewPlanView(items []scene.Entity) *PlanView {
	p := &PlanView{items: scene.CloneAll(items), opts: DefaultOptions(), zoom: 1}
	p.raster = canvas.NewRaster(p.generate)
	p.ExtendBaseWidget(p)
	return p
}

// SetItems replaces the drawn entities
func (p *PlanView) SetItems(items []scene.Entity) {
	p.mu.Lock()
	p.items = scene.CloneAll(items)
	p.mu.Unlock()
	p.Refresh()
}

// SetOnSelect sets the callback invoked with the tapped entity id ("" for
// empty ground)
func (p *PlanView) SetOnSelect(fn func(id string)) {
	p.onSelect = fn
}

// Select highlights an entity
func (p *PlanView) Select(id string) {
	p.mu.Lock()
	p.opts.Selected = id
	p.mu.Unlock()
	p.Refresh()
}

// Zoom changes the magnification relative to the fitted view
func (p *PlanView) Zoom(factor float64) {
	p.mu.Lock()
	p.zoom *= factor
	p.mu.Unlock()
	p.Refresh()
}

func (p *PlanView) generate(w, h int) image.Image {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.view = NewView(Footprint(p.items), w, h, 20).Zoom(p.zoom)
	return Render(p.items, p.view, p.opts)
}

// Tapped implements fyne.Tappable
func (p *PlanView) Tapped(ev *fyne.PointEvent) {
	size := p.Size()
	p.mu.Lock()
	if size.Width == 0 || size.Height == 0 || p.view.Width == 0 {
		p.mu.Unlock()
		return
	}
	// the raster is generated in device pixels, events arrive in fyne units
	x := float64(ev.Position.X) * float64(p.view.Width) / float64(size.Width)
	y := float64(ev.Position.Y) * float64(p.view.Height) / float64(size.Height)
	id := Hit(p.items, p.view, x, y, p.opts)
	p.opts.Selected = id
	p.mu.Unlock()

	p.Refresh()
	if p.onSelect != nil {
		p.onSelect(id)
	}
}

// Refresh redraws the plan
func (p *PlanView) Refresh() {
	p.raster.Refresh()
	p.BaseWidget.Refresh()
}

// MinSize implements fyne.Widget
func (p *PlanView) MinSize() fyne.Size {
	return fyne.NewSize(320, 240)
}

// CreateRenderer implements fyne.Widget
func (p *PlanView) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(p.raster)
}
