// Package scene describes the primitives a viewer draws and builds them into
// a geometry batch.
package scene

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/flyview/internal/engine/geometry"
	"github.com/Faultbox/flyview/internal/engine/transform"
	"github.com/Faultbox/flyview/internal/logger"
	"github.com/Faultbox/flyview/pkg/math"
)

// ErrUnknownKind is returned for a primitive whose kind is not cube, plane or sphere.
var ErrUnknownKind = errors.New("unknown primitive kind")

// Kind selects the builder used for a primitive.
type Kind string

const (
	KindCube   Kind = "cube"
	KindPlane  Kind = "plane"
	KindSphere Kind = "sphere"
)

// Instance places one draw of a primitive. Rotation is Euler angles in degrees,
// applied X then Y then Z. A zero Scale means unit scale.
type Instance struct {
	Position math.Vec3 `yaml:"position"`
	Rotation math.Vec3 `yaml:"rotation"`
	Scale    math.Vec3 `yaml:"scale"`
}

// Primitive is one entry of a scene description. Only the extents used by
// its Kind are read: Size for cubes, Width and Length for planes, Radius
// for spheres.
type Primitive struct {
	Name      string     `yaml:"name"`
	Kind      Kind       `yaml:"kind"`
	Size      float32    `yaml:"size,omitempty"`
	Width     float32    `yaml:"width,omitempty"`
	Length    float32    `yaml:"length,omitempty"`
	Radius    float32    `yaml:"radius,omitempty"`
	Position  math.Vec3  `yaml:"position"`
	Color     math.Vec3  `yaml:"color"`
	Material  float32    `yaml:"material"`
	Instances []Instance `yaml:"instances,omitempty"`
}

type file struct {
	Primitives []Primitive `yaml:"primitives"`
}

// Object is a built primitive: its vertex range in the batch and the
// transforms it is drawn with.
type Object struct {
	ID        uuid.UUID
	Name      string
	Kind      Kind
	Start     int
	End       int
	Material  float32
	Instances []*transform.Transform
}

// Count returns the number of vertices in the object's range.
func (o Object) Count() int { return o.End - o.Start }

// Scene is the result of Build.
type Scene struct {
	Objects []Object
}

// Object looks up a built object by ID.
func (s *Scene) Object(id uuid.UUID) (Object, bool) {
	for _, o := range s.Objects {
		if o.ID == id {
			return o, true
		}
	}
	return Object{}, false
}

// DrawCount returns the total number of instance draws in the scene.
func (s *Scene) DrawCount() int {
	n := 0
	for _, o := range s.Objects {
		n += len(o.Instances)
	}
	return n
}

// Default returns the demo scene: a small cube drawn twice, a big cube,
// a ground plane and a sphere.
func Default() []Primitive {
	return []Primitive{
		{
			Name:     "small-cube",
			Kind:     KindCube,
			Size:     1,
			Color:    math.Vec3{X: 1, Y: 0, Z: 0},
			Material: 0.5,
			Instances: []Instance{
				{Position: math.Vec3{X: 2}},
				{Position: math.Vec3{X: -2}},
			},
		},
		{
			Name:     "big-cube",
			Kind:     KindCube,
			Size:     3,
			Position: math.Vec3{Z: -6},
			Color:    math.Vec3{X: 0.2, Y: 0.4, Z: 0.9},
			Material: 0.5,
		},
		{
			Name:     "ground",
			Kind:     KindPlane,
			Width:    10,
			Length:   10,
			Color:    math.Vec3{X: 0.35, Y: 0.6, Z: 0.3},
			Material: 0.1,
		},
		{
			Name:     "sphere",
			Kind:     KindSphere,
			Radius:   1.5,
			Position: math.Vec3{X: 3, Y: 1.5, Z: 3},
			Color:    math.Vec3{X: 0.9, Y: 0.8, Z: 0.2},
			Material: 1,
		},
	}
}

// Load reads a YAML scene file with a top-level "primitives" list.
func Load(path string) ([]Primitive, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scene: %w", err)
	}
	defer f.Close()

	var doc file
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse scene %s: %w", path, err)
	}
	if err := Validate(doc.Primitives); err != nil {
		return nil, fmt.Errorf("scene %s: %w", path, err)
	}
	return doc.Primitives, nil
}

// Validate checks that every primitive has a known kind.
func Validate(prims []Primitive) error {
	for i, p := range prims {
		switch p.Kind {
		case KindCube, KindPlane, KindSphere:
		default:
			return fmt.Errorf("primitive %d (%s): %w %q", i, p.Name, ErrUnknownKind, p.Kind)
		}
	}
	return nil
}

// Build appends prims to batch in order and returns the resulting objects.
// The context is checked between primitives. On error the batch keeps the
// primitives built before the failing one.
func Build(ctx context.Context, batch *geometry.Batch, prims []Primitive) (*Scene, error) {
	log := logger.Named("scene")
	sc := &Scene{Objects: make([]Object, 0, len(prims))}

	for i, p := range prims {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := buildPrimitive(batch, p); err != nil {
			return nil, fmt.Errorf("primitive %d (%s): %w", i, p.Name, err)
		}

		start, end := batch.Range(batch.ObjectCount() - 1)
		obj := Object{
			ID:        uuid.New(),
			Name:      p.Name,
			Kind:      p.Kind,
			Start:     start,
			End:       end,
			Material:  p.Material,
			Instances: instanceTransforms(p.Instances),
		}
		sc.Objects = append(sc.Objects, obj)

		log.Debug("built primitive",
			zap.String("name", p.Name),
			zap.String("kind", string(p.Kind)),
			zap.Int("start", start),
			zap.Int("vertices", obj.Count()),
			zap.Int("instances", len(obj.Instances)))
	}

	log.Info("scene built",
		zap.Int("objects", len(sc.Objects)),
		zap.Int("draws", sc.DrawCount()),
		zap.Int("vertices", batch.Len()))
	return sc, nil
}

func buildPrimitive(batch *geometry.Batch, p Primitive) error {
	switch p.Kind {
	case KindCube:
		return batch.BuildCube(p.Size, p.Position, p.Color, p.Material)
	case KindPlane:
		return batch.BuildPlane(p.Width, p.Length, p.Position, p.Color, p.Material)
	case KindSphere:
		return batch.BuildSphere(p.Radius, p.Position, p.Color, p.Material)
	default:
		return fmt.Errorf("%w %q", ErrUnknownKind, p.Kind)
	}
}

func instanceTransforms(instances []Instance) []*transform.Transform {
	if len(instances) == 0 {
		return []*transform.Transform{transform.New()}
	}
	out := make([]*transform.Transform, 0, len(instances))
	for _, in := range instances {
		t := transform.New()
		t.SetPosition(in.Position)
		t.SetRotation(math.QuatFromEuler(
			math.Radians(in.Rotation.X),
			math.Radians(in.Rotation.Y),
			math.Radians(in.Rotation.Z)))
		if in.Scale != (math.Vec3{}) {
			t.SetScale(in.Scale)
		}
		out = append(out, t)
	}
	return out
}
