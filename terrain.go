package trellis

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Terrain is a regular height grid in the entity's local XZ plane. Sample
// (i, j) sits at local (i*CellSize, height, j*CellSize).
type Terrain struct {
	BaseComponent

	CellSize float32
	Material int

	width, depth int
	heights      []float32
	minH, maxH   float32
}

// Start configures an empty grid with unit cells.
func (t *Terrain) Start() {
	t.CellSize = 1
	t.Material = -1
}

// SetHeights replaces the grid. heights is row-major with width samples per
// row and depth rows; the slice is copied.
func (t *Terrain) SetHeights(width, depth int, heights []float32) error {
	if width < 2 || depth < 2 {
		return fmt.Errorf("terrain grid %dx%d: need at least 2x2 samples", width, depth)
	}
	if len(heights) != width*depth {
		return fmt.Errorf("terrain grid %dx%d: got %d samples", width, depth, len(heights))
	}
	t.width, t.depth = width, depth
	t.heights = append(t.heights[:0], heights...)
	t.minH, t.maxH = heights[0], heights[0]
	for _, h := range heights {
		t.minH = min(t.minH, h)
		t.maxH = max(t.maxH, h)
	}
	return nil
}

// Size returns the grid dimensions in samples.
func (t *Terrain) Size() (width, depth int) { return t.width, t.depth }

// Sample returns the height stored at grid point (i, j).
func (t *Terrain) Sample(i, j int) (float32, bool) {
	if i < 0 || j < 0 || i >= t.width || j >= t.depth {
		return 0, false
	}
	return t.heights[j*t.width+i], true
}

// LocalBounds returns the box enclosing the grid in local space.
func (t *Terrain) LocalBounds() AABB {
	return AABB{
		Min: mgl32.Vec3{0, t.minH, 0},
		Max: mgl32.Vec3{float32(t.width-1) * t.CellSize, t.maxH, float32(t.depth-1) * t.CellSize},
	}
}

// HeightAt bilinearly interpolates the height at local (x, z). It reports
// false outside the grid, for NaN coordinates or when no grid is set.
func (t *Terrain) HeightAt(x, z float32) (float32, bool) {
	if t.width < 2 || t.CellSize <= 0 {
		return 0, false
	}
	gx, gz := x/t.CellSize, z/t.CellSize
	maxX, maxZ := float32(t.width-1), float32(t.depth-1)
	if math.IsNaN(float64(gx)) || math.IsNaN(float64(gz)) {
		return 0, false
	}
	if gx < 0 || gz < 0 || gx > maxX || gz > maxZ {
		return 0, false
	}
	i, j := int(gx), int(gz)
	if i == t.width-1 {
		i--
	}
	if j == t.depth-1 {
		j--
	}
	fx, fz := gx-float32(i), gz-float32(j)
	h00 := t.heights[j*t.width+i]
	h10 := t.heights[j*t.width+i+1]
	h01 := t.heights[(j+1)*t.width+i]
	h11 := t.heights[(j+1)*t.width+i+1]
	near := h00 + (h10-h00)*fx
	far := h01 + (h11-h01)*fx
	return near + (far-near)*fz, true
}

// WorldHeightAt returns the world-space Y of the terrain surface under
// world (x, z). The terrain's rotation is assumed to keep local up roughly
// aligned with world up, which holds for yaw-only and unrotated terrains.
func (t *Terrain) WorldHeightAt(x, z float32) (float32, bool) {
	world := t.Transform().WorldMatrix()
	local := mgl32.TransformCoordinate(mgl32.Vec3{x, 0, z}, world.Inv())
	h, ok := t.HeightAt(local[0], local[2])
	if !ok {
		return 0, false
	}
	p := mgl32.TransformCoordinate(mgl32.Vec3{local[0], h, local[2]}, world)
	return p[1], true
}
