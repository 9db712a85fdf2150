// Package renderer provides OpenGL rendering functionality.
package renderer

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/wondermap/internal/engine/lighting"
	"github.com/Faultbox/wondermap/internal/engine/scene"
	"github.com/Faultbox/wondermap/internal/engine/shader"
	"github.com/Faultbox/wondermap/internal/logger"
	"github.com/Faultbox/wondermap/pkg/math"
)

// Config holds renderer configuration.
type Config struct {
	Width      int
	Height     int
	Background math.Vec3
	PointSize  float32
}

// Renderer draws line and point batches with the line shader.
type Renderer struct {
	config Config

	program *shader.Program
	vao     uint32
	vbo     uint32

	lights *lighting.PointLightBuffer

	// Per-frame counters
	drawCalls int
	vertices  int

	log *zap.Logger
}

// New creates a new renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config: cfg,
		lights: lighting.NewPointLightBuffer(),
		log:    logger.Named("renderer"),
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	r.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LEQUAL)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.Enable(gl.PROGRAM_POINT_SIZE)
	gl.Enable(gl.MULTISAMPLE)
	bg := cfg.Background
	gl.ClearColor(bg.X, bg.Y, bg.Z, 1.0)

	var err error
	r.program, err = shader.NewProgram(shader.LineVertex, shader.LineFragment)
	if err != nil {
		return nil, fmt.Errorf("failed to create line shader: %w", err)
	}

	gl.GenVertexArrays(1, &r.vao)
	gl.BindVertexArray(r.vao)
	gl.GenBuffers(1, &r.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 3*4, nil)
	gl.EnableVertexAttribArray(0)
	gl.BindVertexArray(0)

	r.Resize(cfg.Width, cfg.Height)
	return r, nil
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	r.log.Info("closing renderer")
	if r.vao != 0 {
		gl.DeleteVertexArrays(1, &r.vao)
	}
	if r.vbo != 0 {
		gl.DeleteBuffers(1, &r.vbo)
	}
	if r.program != nil {
		r.program.Delete()
	}
}

// Resize handles framebuffer resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Begin clears the frame and uploads camera and light state.
func (r *Renderer) Begin(viewProj math.Mat4, lights ...lighting.PointLight) {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	r.drawCalls, r.vertices = 0, 0

	r.lights.Clear()
	for _, l := range lights {
		if !r.lights.AddLight(l) {
			break
		}
	}

	r.program.Use()
	gl.UniformMatrix4fv(r.program.Uniform("uViewProj"), 1, false, viewProj.Ptr())
	gl.Uniform1i(r.program.Uniform("uLightCount"), int32(r.lights.Count))
	positions := r.lights.GetPositions()
	colors := r.lights.GetColors()
	ranges := r.lights.GetRanges()
	gl.Uniform3fv(r.program.Uniform("uLightPos"), lighting.MaxPointLights, &positions[0])
	gl.Uniform3fv(r.program.Uniform("uLightColor"), lighting.MaxPointLights, &colors[0])
	gl.Uniform1fv(r.program.Uniform("uLightRange"), lighting.MaxPointLights, &ranges[0])
	gl.BindVertexArray(r.vao)
}

// End finishes the current frame.
func (r *Renderer) End() {
	gl.BindVertexArray(0)
}

// Stats returns the draw calls and vertices submitted since Begin.
func (r *Renderer) Stats() (drawCalls, vertices int) {
	return r.drawCalls, r.vertices
}

// DrawLines draws line pairs under model with material m.
func (r *Renderer) DrawLines(lines []math.Vec3, model math.Mat4, m scene.Material) {
	r.draw(gl.LINES, lines, model, m)
}

// DrawPoints draws points under model with material m.
func (r *Renderer) DrawPoints(points []math.Vec3, model math.Mat4, m scene.Material) {
	r.draw(gl.POINTS, points, model, m)
}

// DrawNode draws root and its visible descendants. Nodes with zero opacity
// draw nothing but their children still do.
func (r *Renderer) DrawNode(root *scene.Node) {
	root.Walk(func(n *scene.Node, world math.Mat4) bool {
		g := n.Geometry
		if g == nil || n.Material.Opacity <= 0 {
			return true
		}
		r.DrawLines(g.Lines, world, n.Material)
		r.DrawPoints(g.Points, world, n.Material)
		return true
	})
}

func (r *Renderer) draw(mode uint32, verts []math.Vec3, model math.Mat4, m scene.Material) {
	if len(verts) == 0 {
		return
	}
	gl.UniformMatrix4fv(r.program.Uniform("uModel"), 1, false, model.Ptr())
	gl.Uniform3f(r.program.Uniform("uColor"), m.Color.X, m.Color.Y, m.Color.Z)
	gl.Uniform1f(r.program.Uniform("uOpacity"), m.Opacity)
	gl.Uniform1f(r.program.Uniform("uAssemble"), m.Assemble)
	gl.Uniform1f(r.program.Uniform("uPointSize"), r.config.PointSize)

	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(verts)*3*4, unsafe.Pointer(&verts[0]), gl.STREAM_DRAW)
	gl.DrawArrays(mode, 0, int32(len(verts)))

	r.drawCalls++
	r.vertices += len(verts)
}
