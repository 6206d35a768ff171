// Package geometry builds flat-shaded primitive meshes into one shared
// triangle-list batch.
package geometry

import (
	"errors"
	"fmt"
	gomath "math"
	"slices"

	"github.com/Faultbox/flyview/pkg/math"
)

var (
	ErrInvalidDimension = errors.New("primitive dimensions must be positive and finite")

	// ErrInvalidResolution rejects sphere grids below 2 stacks or 3 sectors.
	// A single stack has only pole rows and emits no triangles, which would
	// give the object an empty range; fewer than 3 sectors gives flat triangles.
	ErrInvalidResolution = errors.New("sphere needs at least 2 stacks and 3 sectors")
)

// Config holds tessellation settings.
type Config struct {
	SphereStacks  int `yaml:"sphere_stacks"`
	SphereSectors int `yaml:"sphere_sectors"`
}

// DefaultConfig returns the 250x250 sphere grid.
func DefaultConfig() Config {
	return Config{
		SphereStacks:  250,
		SphereSectors: 250,
	}
}

// Validate checks the sphere resolution.
func (c Config) Validate() error {
	if c.SphereStacks < 2 || c.SphereSectors < 3 {
		return fmt.Errorf("%w: got %dx%d", ErrInvalidResolution, c.SphereStacks, c.SphereSectors)
	}
	return nil
}

// Object is the vertex range and material of one built primitive.
// The range is half-open: [Start, End).
type Object struct {
	Start    int
	End      int
	Material float32
}

// Count returns the number of vertices in the object.
func (o Object) Count() int {
	return o.End - o.Start
}

// Batch is a growing triangle list with no shared vertices. Positions, normals
// and colors always have the same length, a multiple of 3. Each build call
// appends one object: its end offset to boundaries and its material scalar
// to materials.
//
// A Batch is not safe for concurrent use.
type Batch struct {
	config Config

	positions []math.Vec3
	normals   []math.Vec3
	colors    []math.Vec3

	boundaries []int
	materials  []float32
}

// NewBatch creates an empty batch.
func NewBatch(cfg Config) (*Batch, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Batch{config: cfg}, nil
}

// Config returns the tessellation settings.
func (b *Batch) Config() Config { return b.config }

// Len returns the total vertex count.
func (b *Batch) Len() int { return len(b.positions) }

// ObjectCount returns the number of build calls that succeeded.
func (b *Batch) ObjectCount() int { return len(b.boundaries) }

// Positions returns a copy of the vertex positions.
func (b *Batch) Positions() []math.Vec3 { return slices.Clone(b.positions) }

// Normals returns a copy of the per-vertex normals.
func (b *Batch) Normals() []math.Vec3 { return slices.Clone(b.normals) }

// Colors returns a copy of the per-vertex colors.
func (b *Batch) Colors() []math.Vec3 { return slices.Clone(b.colors) }

// Boundaries returns a copy of the cumulative end offsets, one per object.
func (b *Batch) Boundaries() []int { return slices.Clone(b.boundaries) }

// Materials returns a copy of the per-object material scalars.
func (b *Batch) Materials() []float32 { return slices.Clone(b.materials) }

// Range returns the half-open vertex range of object i.
func (b *Batch) Range(i int) (start, end int) {
	if i > 0 {
		start = b.boundaries[i-1]
	}
	return start, b.boundaries[i]
}

// Objects returns every object's range and material.
func (b *Batch) Objects() []Object {
	objects := make([]Object, len(b.boundaries))
	for i := range b.boundaries {
		start, end := b.Range(i)
		objects[i] = Object{Start: start, End: end, Material: b.materials[i]}
	}
	return objects
}

// Reset empties the batch, keeping the allocated capacity.
func (b *Batch) Reset() {
	b.positions = b.positions[:0]
	b.normals = b.normals[:0]
	b.colors = b.colors[:0]
	b.boundaries = b.boundaries[:0]
	b.materials = b.materials[:0]
}

// appendObject adds triangles as one object. vertices must be a triangle list.
func (b *Batch) appendObject(vertices []math.Vec3, color math.Vec3, material float32) {
	b.positions = slices.Grow(b.positions, len(vertices))
	b.normals = slices.Grow(b.normals, len(vertices))
	b.colors = slices.Grow(b.colors, len(vertices))

	for i := 0; i+2 < len(vertices); i += 3 {
		n := TriangleNormal(vertices[i], vertices[i+1], vertices[i+2])
		b.positions = append(b.positions, vertices[i], vertices[i+1], vertices[i+2])
		b.normals = append(b.normals, n, n, n)
		b.colors = append(b.colors, color, color, color)
	}

	b.boundaries = append(b.boundaries, len(b.positions))
	b.materials = append(b.materials, material)
}

// TriangleNormal returns the unit normal of a counter-clockwise triangle.
func TriangleNormal(p0, p1, p2 math.Vec3) math.Vec3 {
	return p1.Sub(p0).Cross(p2.Sub(p0)).Normalize()
}

func validExtent(values ...float32) bool {
	for _, v := range values {
		f := float64(v)
		if !(f > 0) || gomath.IsInf(f, 0) {
			return false
		}
	}
	return true
}
