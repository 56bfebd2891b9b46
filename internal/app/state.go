package app

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/philipparndt/yardplan/internal/catalog"
	"github.com/philipparndt/yardplan/internal/config"
	"github.com/philipparndt/yardplan/internal/floor"
	"github.com/philipparndt/yardplan/internal/interaction"
	"github.com/philipparndt/yardplan/internal/measurement"
	"github.com/philipparndt/yardplan/internal/pricing"
	"github.com/philipparndt/yardplan/internal/scene"
	"github.com/philipparndt/yardplan/internal/tools"
	"github.com/philipparndt/yardplan/pkg/geometry"
)

// CameraState holds the orbit camera
type CameraState struct {
	camera        rl.Camera3D
	distance      float32
	angleX        float32
	angleY        float32
	target        rl.Vector3 // Current camera target (can be panned)
	defaultDist   float32
	defaultAngleX float32
	defaultAngleY float32
	orbitLocked   bool // Set by the controller while a gizmo drag is active
}

// gpuFloor is an uploaded floor mesh and the builder output it came from
type gpuFloor struct {
	mesh    rl.Mesh
	source  *floor.Mesh
	texture string
}

// SceneGPU holds GPU resources for the scene
type SceneGPU struct {
	floors   map[string]gpuFloor
	models   map[string]rl.Mesh // uploaded model templates by asset URL
	textures map[string]rl.Texture2D
	cube     rl.Mesh
	cylinder rl.Mesh
	material rl.Material
	textured rl.Material
	// instanced draws fence parts with per-instance transforms
	instanced rl.Material
}

// InteractionState holds mouse state between frames
type InteractionState struct {
	mouseDownPos rl.Vector2
	mouseMoved   bool
	rightDownPos rl.Vector2
	rightMoved   bool
	// entity drag
	dragging   bool
	dragVertex bool
	dragHit    geometry.Vector3
	dragStart  geometry.Transform
}

// EntryKind is the numeric override being typed
type EntryKind int

const (
	EntryNone EntryKind = iota
	EntryLength
	EntryAngle
	EntryPrice
)

// EntryState holds the digits typed for a numeric override
type EntryState struct {
	kind   EntryKind
	buffer string
}

// UIState holds HUD state
type UIState struct {
	font      rl.Font
	lastValue tools.Result
	hasValue  bool
	status    string
	showHelp  bool
	products  []catalog.Product
}

// App is the editor window
type App struct {
	Camera      CameraState
	Scene       SceneGPU
	Interaction InteractionState
	Entry       EntryState
	UI          UIState

	cfg      config.Config
	log      *slog.Logger
	store    scene.Store
	ctrl     *interaction.Controller
	catalog  *catalog.Reloader
	sink     *tools.LatestSink
	pricing  pricing.Calculator
	overlay  *measurement.Renderer
	assetDir string
}
