// Package renderer draws the render tree as wireframe boxes.
package renderer

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/partscope/internal/engine/debug"
	"github.com/Faultbox/partscope/internal/engine/shader"
)

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int
}

// Renderer handles all OpenGL rendering.
type Renderer struct {
	config  Config
	log     *zap.Logger
	program *shader.Program
	cubeVAO uint32
	cubeVBO uint32
}

const lineVertexShader = `
#version 410 core

layout (location = 0) in vec3 aPos;

uniform mat4 uMVP;

void main() {
	gl_Position = uMVP * vec4(aPos, 1.0);
}
`

const lineFragmentShader = `
#version 410 core

uniform vec4 uColor;
out vec4 FragColor;

void main() {
	FragColor = uColor;
}
`

// New creates a new renderer.
// Must be called after the OpenGL context is created.
func New(cfg Config, log *zap.Logger) (*Renderer, error) {
	if log == nil {
		log = zap.NewNop()
	}
	r := &Renderer{config: cfg, log: log}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.ClearColor(0.1, 0.1, 0.15, 1.0)

	var err error
	r.program, err = shader.Compile(lineVertexShader, lineFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("failed to create line shader: %w", err)
	}
	r.createCube()
	r.Resize(cfg.Width, cfg.Height)
	return r, nil
}

func (r *Renderer) createCube() {
	vertices := debug.UnitCube()

	gl.GenVertexArrays(1, &r.cubeVAO)
	gl.BindVertexArray(r.cubeVAO)

	gl.GenBuffers(1, &r.cubeVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.cubeVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, unsafe.Pointer(&vertices[0]), gl.STATIC_DRAW)

	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 3*4, nil)
	gl.EnableVertexAttribArray(0)

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	r.log.Debug("wireframe cube created",
		zap.Uint32("vao", r.cubeVAO),
		zap.Uint32("vbo", r.cubeVBO),
	)
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	r.log.Info("closing renderer")
	if r.cubeVAO != 0 {
		gl.DeleteVertexArrays(1, &r.cubeVAO)
	}
	if r.cubeVBO != 0 {
		gl.DeleteBuffers(1, &r.cubeVBO)
	}
	if r.program != nil {
		r.program.Delete()
	}
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Aspect returns the viewport aspect ratio.
func (r *Renderer) Aspect() float32 {
	if r.config.Height == 0 {
		return 1
	}
	return float32(r.config.Width) / float32(r.config.Height)
}

// Begin starts a new frame.
func (r *Renderer) Begin() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// DrawBoxes draws each box as a wireframe.
func (r *Renderer) DrawBoxes(viewProj mgl32.Mat4, boxes []debug.Box) {
	if len(boxes) == 0 {
		return
	}
	r.program.Use()
	gl.BindVertexArray(r.cubeVAO)
	for _, b := range boxes {
		r.program.SetMat4("uMVP", viewProj.Mul4(b.Model))
		r.program.SetVec4("uColor", b.Color)
		gl.DrawArrays(gl.LINES, 0, debug.BBoxWireframeVertexCount)
	}
	gl.BindVertexArray(0)
}

// End finishes the current frame.
func (r *Renderer) End() {}
