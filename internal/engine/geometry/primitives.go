package geometry

import (
	"fmt"
	gomath "math"

	"github.com/Faultbox/flyview/pkg/math"
)

// Vertex counts of the fixed primitives.
const (
	CubeVertices  = 36
	PlaneVertices = 6
)

// SphereTriangles returns the triangle count of a UV sphere. The pole rows
// emit one triangle per sector instead of two.
func SphereTriangles(stacks, sectors int) int {
	return 2*stacks*sectors - 2*sectors
}

// BuildCube appends an axis-aligned box of edge size. The bottom face sits at
// position.Y and the box is centered on position.X and position.Z.
func (b *Batch) BuildCube(size float32, position, color math.Vec3, material float32) error {
	if !validExtent(size) {
		return fmt.Errorf("cube size %g: %w", size, ErrInvalidDimension)
	}

	half := size * 0.5
	x0, x1 := position.X-half, position.X+half
	y0, y1 := position.Y, position.Y+size
	z0, z1 := position.Z-half, position.Z+half

	vertices := make([]math.Vec3, 0, CubeVertices)
	// Each face lists its corners counter-clockwise as seen from outside.
	vertices = appendQuad(vertices, // +X
		math.Vec3{X: x1, Y: y0, Z: z1}, math.Vec3{X: x1, Y: y0, Z: z0},
		math.Vec3{X: x1, Y: y1, Z: z0}, math.Vec3{X: x1, Y: y1, Z: z1})
	vertices = appendQuad(vertices, // -X
		math.Vec3{X: x0, Y: y0, Z: z0}, math.Vec3{X: x0, Y: y0, Z: z1},
		math.Vec3{X: x0, Y: y1, Z: z1}, math.Vec3{X: x0, Y: y1, Z: z0})
	vertices = appendQuad(vertices, // +Y
		math.Vec3{X: x0, Y: y1, Z: z1}, math.Vec3{X: x1, Y: y1, Z: z1},
		math.Vec3{X: x1, Y: y1, Z: z0}, math.Vec3{X: x0, Y: y1, Z: z0})
	vertices = appendQuad(vertices, // -Y
		math.Vec3{X: x0, Y: y0, Z: z0}, math.Vec3{X: x1, Y: y0, Z: z0},
		math.Vec3{X: x1, Y: y0, Z: z1}, math.Vec3{X: x0, Y: y0, Z: z1})
	vertices = appendQuad(vertices, // +Z
		math.Vec3{X: x0, Y: y0, Z: z1}, math.Vec3{X: x1, Y: y0, Z: z1},
		math.Vec3{X: x1, Y: y1, Z: z1}, math.Vec3{X: x0, Y: y1, Z: z1})
	vertices = appendQuad(vertices, // -Z
		math.Vec3{X: x1, Y: y0, Z: z0}, math.Vec3{X: x0, Y: y0, Z: z0},
		math.Vec3{X: x0, Y: y1, Z: z0}, math.Vec3{X: x1, Y: y1, Z: z0})

	b.appendObject(vertices, color, material)
	return nil
}

// BuildPlane appends a horizontal quad centered on position, facing +Y.
func (b *Batch) BuildPlane(width, length float32, position, color math.Vec3, material float32) error {
	if !validExtent(width, length) {
		return fmt.Errorf("plane %gx%g: %w", width, length, ErrInvalidDimension)
	}

	hw, hl := width*0.5, length*0.5
	y := position.Y

	vertices := appendQuad(make([]math.Vec3, 0, PlaneVertices),
		math.Vec3{X: position.X - hw, Y: y, Z: position.Z + hl},
		math.Vec3{X: position.X + hw, Y: y, Z: position.Z + hl},
		math.Vec3{X: position.X + hw, Y: y, Z: position.Z - hl},
		math.Vec3{X: position.X - hw, Y: y, Z: position.Z - hl})

	b.appendObject(vertices, color, material)
	return nil
}

// BuildSphere appends a UV sphere centered on position using the batch's
// stack and sector counts. Poles lie on the Y axis.
func (b *Batch) BuildSphere(radius float32, position, color math.Vec3, material float32) error {
	if !validExtent(radius) {
		return fmt.Errorf("sphere radius %g: %w", radius, ErrInvalidDimension)
	}
	if err := b.config.Validate(); err != nil {
		return err
	}

	stacks, sectors := b.config.SphereStacks, b.config.SphereSectors
	grid := sphereGrid(radius, position, stacks, sectors)

	vertices := make([]math.Vec3, 0, 3*SphereTriangles(stacks, sectors))
	for i := 0; i < stacks; i++ {
		k1 := i * (sectors + 1) // current ring
		k2 := k1 + sectors + 1  // next ring, toward the south pole

		for j := 0; j < sectors; j, k1, k2 = j+1, k1+1, k2+1 {
			// The upper triangle collapses at the north pole.
			if i != 0 {
				vertices = append(vertices, grid[k1], grid[k2], grid[k1+1])
			}
			// The lower triangle collapses at the south pole.
			if i != stacks-1 {
				vertices = append(vertices, grid[k1+1], grid[k2], grid[k2+1])
			}
		}
	}

	b.appendObject(vertices, color, material)
	return nil
}

// sphereGrid sweeps the stack angle from +90 to -90 degrees and the sector
// angle from 0 to 360, producing (stacks+1)*(sectors+1) points. The first and
// last point of each ring coincide.
func sphereGrid(radius float32, center math.Vec3, stacks, sectors int) []math.Vec3 {
	r := float64(radius)
	stackStep := gomath.Pi / float64(stacks)
	sectorStep := 2 * gomath.Pi / float64(sectors)

	grid := make([]math.Vec3, 0, (stacks+1)*(sectors+1))
	for i := 0; i <= stacks; i++ {
		stackAngle := gomath.Pi/2 - float64(i)*stackStep
		ringRadius := r * gomath.Cos(stackAngle)
		y := r * gomath.Sin(stackAngle)

		for j := 0; j <= sectors; j++ {
			sectorAngle := float64(j) * sectorStep
			grid = append(grid, math.Vec3{
				X: center.X + float32(ringRadius*gomath.Cos(sectorAngle)),
				Y: center.Y + float32(y),
				Z: center.Z - float32(ringRadius*gomath.Sin(sectorAngle)),
			})
		}
	}
	return grid
}

// appendQuad appends corners a, b, c, d (counter-clockwise) as two triangles.
func appendQuad(dst []math.Vec3, a, b, c, d math.Vec3) []math.Vec3 {
	return append(dst, a, b, c, a, c, d)
}
