package app

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/philipparndt/yardplan/pkg/geometry"
)

const (
	minCameraDistance = 2
	maxCameraDistance = 200
	minCameraAngleX   = 0.05
	maxCameraAngleX   = math.Pi/2 - 0.01
)

func (app *App) initCamera() {
	app.Camera.distance = 18
	app.Camera.angleX = 0.7
	app.Camera.angleY = 0.6
	app.Camera.defaultDist = app.Camera.distance
	app.Camera.defaultAngleX = app.Camera.angleX
	app.Camera.defaultAngleY = app.Camera.angleY

	app.Camera.camera = rl.Camera3D{
		Position:   rl.Vector3{X: 0, Y: 10, Z: 10},
		Target:     app.Camera.target,
		Up:         rl.Vector3{X: 0, Y: 1, Z: 0},
		Fovy:       45.0,
		Projection: rl.CameraPerspective,
	}
	app.updateCamera()
}

// resetCameraView resets the camera to the default view
func (app *App) resetCameraView() {
	app.Camera.distance = app.Camera.defaultDist
	app.Camera.angleX = app.Camera.defaultAngleX
	app.Camera.angleY = app.Camera.defaultAngleY
	app.Camera.target = rl.Vector3{}
}

// setCameraTopView looks straight down onto the plan
func (app *App) setCameraTopView() {
	app.Camera.angleX = maxCameraAngleX
	app.Camera.angleY = 0
}

// updateCamera updates camera position based on angles
func (app *App) updateCamera() {
	c := &app.Camera
	x := c.distance * float32(math.Cos(float64(c.angleX))) * float32(math.Sin(float64(c.angleY)))
	y := c.distance * float32(math.Sin(float64(c.angleX)))
	z := c.distance * float32(math.Cos(float64(c.angleX))) * float32(math.Cos(float64(c.angleY)))

	c.camera.Position = rl.Vector3{
		X: c.target.X + x,
		Y: c.target.Y + y,
		Z: c.target.Z + z,
	}
	c.camera.Target = c.target
}

// doOrbit rotates the camera around its target
func (app *App) doOrbit(delta rl.Vector2) {
	if app.Camera.orbitLocked {
		return
	}
	app.Camera.angleY -= delta.X * 0.005
	app.Camera.angleX += delta.Y * 0.005
	app.Camera.angleX = clamp(app.Camera.angleX, minCameraAngleX, maxCameraAngleX)
}

// doZoom moves the camera towards or away from its target
func (app *App) doZoom(wheel float32) {
	if wheel == 0 {
		return
	}
	app.Camera.distance *= 1 - wheel*0.1
	app.Camera.distance = clamp(app.Camera.distance, minCameraDistance, maxCameraDistance)
}

// doPan performs camera panning based on mouse delta
func (app *App) doPan(delta rl.Vector2) {
	c := &app.Camera
	// Pan on the ground plane
	forward := rl.Vector3Subtract(c.target, c.camera.Position)
	forward.Y = 0
	forward = rl.Vector3Normalize(forward)
	right := rl.Vector3Normalize(rl.Vector3CrossProduct(forward, c.camera.Up))

	panSpeed := c.distance * 0.0015

	c.target = rl.Vector3Add(c.target, rl.Vector3Scale(right, -delta.X*panSpeed))
	c.target = rl.Vector3Add(c.target, rl.Vector3Scale(forward, delta.Y*panSpeed))
}

// mouseRay returns the world ray under the mouse cursor
func (app *App) mouseRay() geometry.Ray {
	r := rl.GetMouseRay(rl.GetMousePosition(), app.Camera.camera)
	return geometry.NewRay(vec3(r.Position), vec3(r.Direction))
}

func vec3(v rl.Vector3) geometry.Vector3 {
	return geometry.NewVector3(float64(v.X), float64(v.Y), float64(v.Z))
}

func rlVec3(v geometry.Vector3) rl.Vector3 {
	return rl.Vector3{X: float32(v.X), Y: float32(v.Y), Z: float32(v.Z)}
}

func clamp(v, lo, hi float32) float32 {
	return float32(math.Max(float64(lo), math.Min(float64(hi), float64(v))))
}
