package app

import (
	_ "embed"
	"image/color"
	"math"
	"path/filepath"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/philipparndt/yardplan/internal/fence"
	"github.com/philipparndt/yardplan/internal/floor"
	"github.com/philipparndt/yardplan/internal/interaction"
	"github.com/philipparndt/yardplan/pkg/geometry"
	"github.com/philipparndt/yardplan/pkg/stl"
)

var (
	colorModel     = color.RGBA{R: 200, G: 120, B: 60, A: 255}
	colorSelection = rl.NewColor(255, 220, 0, 255)
	colorCollision = rl.NewColor(255, 60, 40, 255)
)

var (
	//go:embed shaders/instanced.vs
	instancedVS string
	//go:embed shaders/instanced.fs
	instancedFS string
)

// lightDir is the direction of the baked light
var lightDir = geometry.NewVector3(-0.5, -1.0, -0.5).Normalize()

// shade scales a colour by a diffuse term with 30% ambient
func shade(c color.RGBA, normal geometry.Vector3) color.RGBA {
	i := math.Max(0.3, -normal.Dot(lightDir))
	return color.RGBA{R: uint8(float64(c.R) * i), G: uint8(float64(c.G) * i), B: uint8(float64(c.B) * i), A: c.A}
}

// toMatrix converts a row-major geometry matrix to raylib's layout
func toMatrix(m geometry.Matrix4) rl.Matrix {
	return rl.Matrix{
		M0: float32(m[0]), M4: float32(m[1]), M8: float32(m[2]), M12: float32(m[3]),
		M1: float32(m[4]), M5: float32(m[5]), M9: float32(m[6]), M13: float32(m[7]),
		M2: float32(m[8]), M6: float32(m[9]), M10: float32(m[10]), M14: float32(m[11]),
		M3: float32(m[12]), M7: float32(m[13]), M11: float32(m[14]), M15: float32(m[15]),
	}
}

func (app *App) initGPU() {
	app.Scene.floors = make(map[string]gpuFloor)
	app.Scene.models = make(map[string]rl.Mesh)
	app.Scene.textures = make(map[string]rl.Texture2D)
	app.Scene.cube = rl.GenMeshCube(1, 1, 1)
	app.Scene.cylinder = rl.GenMeshCylinder(0.5, 1, 16)
	app.Scene.material = rl.LoadMaterialDefault()
	app.Scene.textured = rl.LoadMaterialDefault()

	shader := rl.LoadShaderFromMemory(instancedVS, instancedFS)
	shader.UpdateLocation(rl.ShaderLocMatrixMvp, rl.GetShaderLocation(shader, "mvp"))
	shader.UpdateLocation(rl.ShaderLocMatrixModel, rl.GetShaderLocationAttrib(shader, "instanceTransform"))
	app.Scene.instanced = rl.LoadMaterialDefault()
	app.Scene.instanced.Shader = shader
}

func (app *App) unloadGPU() {
	for _, f := range app.Scene.floors {
		rl.UnloadMesh(&f.mesh)
	}
	for _, m := range app.Scene.models {
		rl.UnloadMesh(&m)
	}
	for _, t := range app.Scene.textures {
		rl.UnloadTexture(t)
	}
	rl.UnloadMesh(&app.Scene.cube)
	rl.UnloadMesh(&app.Scene.cylinder)
	rl.UnloadShader(app.Scene.instanced.Shader)
}

// syncGPU uploads rebuilt floor meshes and drops those of removed entities
func (app *App) syncGPU(nodes []*interaction.Node) {
	alive := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		if n.Floor == nil || n.Floor.IsEmpty() {
			continue
		}
		alive[n.Entity.ID] = true
		if g, ok := app.Scene.floors[n.Entity.ID]; ok && g.source == n.Floor {
			continue
		}
		if g, ok := app.Scene.floors[n.Entity.ID]; ok {
			rl.UnloadMesh(&g.mesh)
		}
		app.Scene.floors[n.Entity.ID] = gpuFloor{mesh: floorToRaylibMesh(n.Floor), source: n.Floor, texture: n.Floor.TextureURL}
	}
	for id, g := range app.Scene.floors {
		if !alive[id] {
			rl.UnloadMesh(&g.mesh)
			delete(app.Scene.floors, id)
		}
	}
}

// floorToRaylibMesh uploads a floor slab with baked lighting
func floorToRaylibMesh(m *floor.Mesh) rl.Mesh {
	vertexCount := len(m.Vertices)
	mesh := rl.Mesh{
		VertexCount:   int32(vertexCount),
		TriangleCount: int32(m.TriangleCount()),
	}

	vertices := make([]float32, vertexCount*3)
	normals := make([]float32, vertexCount*3)
	texcoords := make([]float32, vertexCount*2)
	colors := make([]uint8, vertexCount*4)
	indices := make([]uint16, len(m.Indices))

	base := m.Color
	if m.TextureURL != "" {
		base = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	}
	for i, v := range m.Vertices {
		n := m.Normals[i]
		vertices[i*3+0] = float32(v.X)
		vertices[i*3+1] = float32(v.Y)
		vertices[i*3+2] = float32(v.Z)
		normals[i*3+0] = float32(n.X)
		normals[i*3+1] = float32(n.Y)
		normals[i*3+2] = float32(n.Z)
		texcoords[i*2+0] = float32(m.UVs[i].X)
		texcoords[i*2+1] = float32(m.UVs[i].Y)
		c := shade(base, n)
		colors[i*4+0] = c.R
		colors[i*4+1] = c.G
		colors[i*4+2] = c.B
		colors[i*4+3] = c.A
	}
	for i, idx := range m.Indices {
		indices[i] = uint16(idx)
	}

	if len(vertices) > 0 {
		mesh.Vertices = &vertices[0]
		mesh.Normals = &normals[0]
		mesh.Texcoords = &texcoords[0]
		mesh.Colors = &colors[0]
	}
	if len(indices) > 0 {
		mesh.Indices = &indices[0]
	}

	rl.UploadMesh(&mesh, false)
	return mesh
}

// stlToRaylibMesh converts an STL model to a Raylib mesh with baked lighting
func stlToRaylibMesh(model *stl.Model, base color.RGBA) rl.Mesh {
	triangleCount := len(model.Triangles)
	vertexCount := triangleCount * 3

	mesh := rl.Mesh{
		VertexCount:   int32(vertexCount),
		TriangleCount: int32(triangleCount),
	}

	vertices := make([]float32, vertexCount*3)
	normals := make([]float32, vertexCount*3)
	texcoords := make([]float32, vertexCount*2)
	colors := make([]uint8, vertexCount*4)

	idx := 0
	for _, triangle := range model.Triangles {
		normal := triangle.CalculateNormal()
		c := shade(base, normal)
		for _, v := range [3]geometry.Vector3{triangle.V1, triangle.V2, triangle.V3} {
			vertices[idx*3+0] = float32(v.X)
			vertices[idx*3+1] = float32(v.Y)
			vertices[idx*3+2] = float32(v.Z)
			normals[idx*3+0] = float32(normal.X)
			normals[idx*3+1] = float32(normal.Y)
			normals[idx*3+2] = float32(normal.Z)
			colors[idx*4+0] = c.R
			colors[idx*4+1] = c.G
			colors[idx*4+2] = c.B
			colors[idx*4+3] = 255
			idx++
		}
	}

	if len(vertices) > 0 {
		mesh.Vertices = &vertices[0]
		mesh.Normals = &normals[0]
		mesh.Texcoords = &texcoords[0]
		mesh.Colors = &colors[0]
	}

	rl.UploadMesh(&mesh, false)
	return mesh
}

// texture returns the floor texture for url, loading it on first use. A
// texture that fails to load is cached as the zero value so it is not
// retried every frame.
func (app *App) texture(url string) (rl.Texture2D, bool) {
	if t, ok := app.Scene.textures[url]; ok {
		return t, t.ID != 0
	}
	path := strings.TrimPrefix(url, "file://")
	if !filepath.IsAbs(path) {
		path = filepath.Join(app.assetDir, path)
	}
	var t rl.Texture2D
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		app.log.Debug("remote floor textures are not supported in the editor", "url", url)
	} else {
		t = rl.LoadTexture(path)
		if t.ID != 0 {
			rl.SetTextureWrap(t, rl.WrapRepeat)
		}
	}
	app.Scene.textures[url] = t
	return t, t.ID != 0
}

// drawScene draws all entities in 3D mode
func (app *App) drawScene(nodes []*interaction.Node) {
	rl.DrawGrid(60, 1)

	for _, n := range nodes {
		m := n.Display.Matrix()
		switch {
		case n.Floor != nil:
			app.drawFloor(n, m)
		case n.Fence != nil:
			app.drawFence(n.Fence, m)
		default:
			app.drawModel(n, m)
		}
	}

	if id := app.ctrl.Attached(); id != "" {
		if n, ok := app.ctrl.View().Node(id); ok {
			b := n.WorldBounds()
			if !b.IsEmpty() {
				c := colorSelection
				if app.ctrl.Colliding() {
					c = colorCollision
				}
				rl.DrawBoundingBox(rl.BoundingBox{Min: rlVec3(b.Min), Max: rlVec3(b.Max)}, c)
			}
		}
	}

	for _, h := range app.ctrl.Markers().Handles() {
		r := float32(app.cfg.Editor.HandleRadius)
		rl.DrawSphere(rlVec3(h.Position), r, rl.NewColor(h.Color.R, h.Color.G, h.Color.B, h.Color.A))
	}
}

func (app *App) drawFloor(n *interaction.Node, m geometry.Matrix4) {
	g, ok := app.Scene.floors[n.Entity.ID]
	if !ok {
		return
	}
	if g.texture != "" {
		if t, ok := app.texture(g.texture); ok {
			rl.SetMaterialTexture(&app.Scene.textured, rl.MapAlbedo, t)
			rl.DrawMesh(g.mesh, app.Scene.textured, toMatrix(m))
			return
		}
	}
	rl.DrawMesh(g.mesh, app.Scene.material, toMatrix(m))
}

// drawFence issues one instanced draw per shape and colour
func (app *App) drawFence(asm *fence.Assembly, entity geometry.Matrix4) {
	// raylib's cylinder spans y 0..1; parts are centred on their origin
	centre := geometry.Translation(geometry.Vector3{Y: -0.5})
	albedo := app.Scene.instanced.GetMap(rl.MapAlbedo)
	for _, g := range asm.Groups(entity) {
		mesh := app.Scene.cube
		if g.Shape == fence.ShapeCylinder {
			mesh = app.Scene.cylinder
		}
		transforms := make([]rl.Matrix, len(g.Matrices))
		for i, m := range g.Matrices {
			if g.Shape == fence.ShapeCylinder {
				m = m.Mul(centre)
			}
			transforms[i] = toMatrix(m)
		}
		if albedo != nil {
			albedo.Color = rl.NewColor(g.Color.R, g.Color.G, g.Color.B, g.Color.A)
		}
		rl.DrawMeshInstanced(mesh, app.Scene.instanced, transforms, len(transforms))
	}
}

// drawModel draws a placed model, or a placeholder box while its template
// is still loading
func (app *App) drawModel(n *interaction.Node, m geometry.Matrix4) {
	if n.Model == nil {
		b := n.WorldBounds()
		if !b.IsEmpty() {
			rl.DrawBoundingBox(rl.BoundingBox{Min: rlVec3(b.Min), Max: rlVec3(b.Max)}, rl.Gray)
		}
		return
	}
	url := n.Entity.AssetURL
	mesh, ok := app.Scene.models[url]
	if !ok {
		mesh = stlToRaylibMesh(n.Model, colorModel)
		app.Scene.models[url] = mesh
	}
	rl.DrawMesh(mesh, app.Scene.material, toMatrix(m))
}
