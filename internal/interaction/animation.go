package interaction

import "github.com/philipparndt/yardplan/pkg/geometry"

type animKind int

const (
	animPlace animKind = iota
	animRevert
)

// animation is a frame-stepped transition driven by Update(dt)
type animation struct {
	kind     animKind
	id       string
	elapsed  float64
	duration float64
	from, to geometry.Transform
}

func (a *animation) progress() float64 {
	if a.duration <= 0 {
		return 1
	}
	t := a.elapsed / a.duration
	if t > 1 {
		return 1
	}
	return t
}

func smoothstep(t float64) float64 {
	return t * t * (3 - 2*t)
}

// current returns the transform at the present progress
func (a *animation) current() geometry.Transform {
	e := smoothstep(a.progress())
	switch a.kind {
	case animPlace:
		t := a.to
		t.Scale = a.to.Scale.Mul(e)
		return t
	default:
		t := a.to
		t.Position = a.from.Position.Lerp(a.to.Position, e)
		return t
	}
}

func (a *animation) apply(c *Controller) {
	t := a.current()
	c.view.SetDisplay(a.id, t)
	if c.markers.EntityID() == a.id {
		c.markers.Follow(t)
		c.view.MoveVertexHandles(c.handlePositions())
	}
}

func (c *Controller) startPlace(id string, final geometry.Transform) {
	a := &animation{kind: animPlace, id: id, duration: c.opts.PlaceDuration, to: final}
	c.anims = append(c.anims, a)
	a.apply(c)
}

func (c *Controller) startRevert(id string, from, to geometry.Transform) {
	c.cancelAnimations(id)
	a := &animation{kind: animRevert, id: id, duration: c.opts.RevertDuration, from: from, to: to}
	c.anims = append(c.anims, a)
	a.apply(c)
}

func (c *Controller) cancelAnimations(id string) {
	kept := c.anims[:0]
	for _, a := range c.anims {
		if a.id != id {
			kept = append(kept, a)
			continue
		}
		if n, ok := c.view.Node(id); ok {
			n.Display = n.Entity.Transform
		}
	}
	c.anims = kept
}

// Animating reports whether any animation is running
func (c *Controller) Animating() bool {
	return len(c.anims) > 0
}

func (c *Controller) stepAnimations(dt float64) {
	var done []*animation
	kept := c.anims[:0]
	for _, a := range c.anims {
		if _, ok := c.view.Node(a.id); !ok {
			continue
		}
		a.elapsed += dt
		a.apply(c)
		if a.kind == animRevert {
			c.colliding = c.view.Collides(a.id, c.opts.CollisionTolerance)
		}
		if a.progress() >= 1 {
			done = append(done, a)
			continue
		}
		kept = append(kept, a)
	}
	c.anims = kept

	for _, a := range done {
		if a.kind != animRevert {
			continue
		}
		if err := c.store.UpdateTransform(a.id, a.to); err != nil {
			c.log.Debug("reverted entity vanished", "id", a.id, "error", err)
		}
		c.colliding = false
		c.sync()
	}
}
