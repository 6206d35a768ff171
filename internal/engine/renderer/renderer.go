// Package renderer draws a geometry batch with OpenGL.
package renderer

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/flyview/internal/engine/geometry"
	"github.com/Faultbox/flyview/internal/engine/renderer/shaders"
	"github.com/Faultbox/flyview/internal/engine/shader"
	"github.com/Faultbox/flyview/internal/logger"
	"github.com/Faultbox/flyview/internal/scene"
	"github.com/Faultbox/flyview/pkg/math"
)

// ErrNotUploaded is returned by Draw before any batch was uploaded.
var ErrNotUploaded = errors.New("no geometry uploaded")

// Attribute locations shared with mesh.vert.
const (
	attribPosition = 0
	attribNormal   = 1
	attribColor    = 2
)

var uniforms = []string{"M", "V", "P", "lightPos", "viewPos", "lightColor", "ambientStrength", "material"}

// Config holds lighting and clear color.
type Config struct {
	Background    math.Vec3
	LightPosition math.Vec3
	LightColor    math.Vec3
	Ambient       float32
}

// View is what the renderer reads from a camera each frame.
type View interface {
	View() math.Mat4
	Projection() math.Mat4
	Position() math.Vec3
}

// Renderer owns the GL program and the batch's vertex buffers.
type Renderer struct {
	config  Config
	program *shader.Program
	log     *zap.Logger

	vao         uint32
	vbos        [3]uint32 // positions, normals, colors
	vertexCount int
}

// New initializes OpenGL and builds the mesh program.
// Must be called after the GL context is current.
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config: cfg,
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
	gl.DepthFunc(gl.LESS)
	gl.FrontFace(gl.CCW)
	gl.Disable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	bg := cfg.Background
	gl.ClearColor(bg.X, bg.Y, bg.Z, 1.0)

	var err error
	r.program, err = shader.NewProgram(shaders.MeshVertexShader, shaders.MeshFragmentShader, uniforms...)
	if err != nil {
		return nil, fmt.Errorf("mesh program: %w", err)
	}
	r.log.Debug("shader program created", zap.Uint32("program", r.program.ID))

	return r, nil
}

// Upload replaces the vertex buffers with the contents of b.
func (r *Renderer) Upload(b *geometry.Batch) error {
	r.deleteBuffers()
	if b.Len() == 0 {
		return fmt.Errorf("upload: %w", ErrNotUploaded)
	}

	gl.GenVertexArrays(1, &r.vao)
	gl.BindVertexArray(r.vao)
	gl.GenBuffers(int32(len(r.vbos)), &r.vbos[0])

	uploadAttrib(r.vbos[0], attribPosition, b.Positions())
	uploadAttrib(r.vbos[1], attribNormal, b.Normals())
	uploadAttrib(r.vbos[2], attribColor, b.Colors())

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	r.vertexCount = b.Len()
	r.log.Info("batch uploaded",
		zap.Int("vertices", r.vertexCount),
		zap.Int("objects", b.ObjectCount()),
		zap.Uint32("vao", r.vao),
	)
	return nil
}

func uploadAttrib(vbo, location uint32, data []math.Vec3) {
	stride := int32(unsafe.Sizeof(math.Vec3{}))
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*int(stride), unsafe.Pointer(&data[0]), gl.STATIC_DRAW)
	gl.VertexAttribPointerWithOffset(location, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(location)
}

// Resize sets the GL viewport to the drawable size.
func (r *Renderer) Resize(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized", zap.Int("width", width), zap.Int("height", height))
}

// Begin clears color and depth.
func (r *Renderer) Begin() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// Draw renders every instance of every scene object from the camera's view.
func (r *Renderer) Draw(cam View, sc *scene.Scene) error {
	if r.vao == 0 {
		return ErrNotUploaded
	}

	r.program.Use()
	gl.BindVertexArray(r.vao)

	r.program.SetMat4("V", cam.View())
	r.program.SetMat4("P", cam.Projection())
	r.program.SetVec3("viewPos", cam.Position())
	r.program.SetVec3("lightPos", r.config.LightPosition)
	r.program.SetVec3("lightColor", r.config.LightColor)
	r.program.SetFloat("ambientStrength", r.config.Ambient)

	for _, obj := range sc.Objects {
		if obj.End > r.vertexCount {
			return fmt.Errorf("object %s: range [%d, %d) exceeds %d uploaded vertices",
				obj.Name, obj.Start, obj.End, r.vertexCount)
		}
		r.program.SetFloat("material", obj.Material)
		for _, inst := range obj.Instances {
			r.program.SetMat4("M", inst.Matrix())
			gl.DrawArrays(gl.TRIANGLES, int32(obj.Start), int32(obj.Count()))
		}
	}

	gl.BindVertexArray(0)
	gl.UseProgram(0)
	return nil
}

// ReadPixels returns the back buffer as bottom-up RGBA rows.
func (r *Renderer) ReadPixels(width, height int) []byte {
	pixels := make([]byte, width*height*4)
	if len(pixels) == 0 {
		return pixels
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&pixels[0]))
	return pixels
}

func (r *Renderer) deleteBuffers() {
	if r.vbos[0] != 0 {
		gl.DeleteBuffers(int32(len(r.vbos)), &r.vbos[0])
		r.vbos = [3]uint32{}
	}
	if r.vao != 0 {
		gl.DeleteVertexArrays(1, &r.vao)
		r.vao = 0
	}
	r.vertexCount = 0
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	r.log.Info("closing renderer")
	r.deleteBuffers()
	if r.program != nil {
		r.program.Delete()
	}
}
