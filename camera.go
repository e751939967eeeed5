package trellis

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Projection selects how a Camera maps view space to clip space.
type Projection uint8

const (
	ProjectionPerspective  Projection = iota // vertical field of view FOV
	ProjectionOrthographic                   // half height OrthoSize
)

// Camera derives a view and projection from its entity's transform. The
// camera looks along its world forward with its world up, with the local
// right axis on the right of the screen. Both matrices are cached; the view
// is recomputed after the entity or an ancestor moves.
type Camera struct {
	BaseComponent

	// Priority orders cameras for the host; higher draws later.
	Priority   int
	Projection Projection
	FOV        float32 // radians
	Aspect     float32
	Near, Far  float32
	OrthoSize  float32

	proj      mgl32.Mat4
	view      mgl32.Mat4
	projDirty bool
	viewDirty bool
}

// Start configures a 60° perspective camera with a 16:9 aspect.
func (c *Camera) Start() {
	c.Projection = ProjectionPerspective
	c.FOV = math.Pi / 3
	c.Aspect = 16.0 / 9.0
	c.Near = 0.1
	c.Far = 1000
	c.OrthoSize = 10
	c.projDirty = true
	c.viewDirty = true
}

// SetPerspective switches to a perspective projection.
func (c *Camera) SetPerspective(fov, aspect, near, far float32) {
	c.Projection = ProjectionPerspective
	c.FOV, c.Aspect, c.Near, c.Far = fov, aspect, near, far
	c.projDirty = true
}

// SetOrthographic switches to an orthographic projection of half height size.
func (c *Camera) SetOrthographic(size, aspect, near, far float32) {
	c.Projection = ProjectionOrthographic
	c.OrthoSize, c.Aspect, c.Near, c.Far = size, aspect, near, far
	c.projDirty = true
}

// SetAspect changes only the aspect ratio, typically on window resize.
func (c *Camera) SetAspect(aspect float32) {
	if aspect == c.Aspect {
		return
	}
	c.Aspect = aspect
	c.projDirty = true
}

// MarkDirty forces both matrices to be recomputed. Call it after writing
// the projection fields directly.
func (c *Camera) MarkDirty() {
	c.projDirty = true
	c.viewDirty = true
}

// ProjectionMatrix returns the cached projection matrix.
func (c *Camera) ProjectionMatrix() mgl32.Mat4 {
	if c.projDirty {
		if c.Projection == ProjectionOrthographic {
			h := c.OrthoSize
			w := h * c.Aspect
			c.proj = mgl32.Ortho(-w, w, -h, h, c.Near, c.Far)
		} else {
			c.proj = mgl32.Perspective(c.FOV, c.Aspect, c.Near, c.Far)
		}
		c.projDirty = false
	}
	return c.proj
}

// ViewMatrix returns the cached world-to-view matrix.
func (c *Camera) ViewMatrix() mgl32.Mat4 {
	if c.viewDirty {
		t := c.Transform()
		eye := t.GlobalPosition()
		rot := t.GlobalRotation()
		// Local forward is +Z while view space looks down -Z, so Z is mirrored.
		c.view = mgl32.Scale3D(1, 1, -1).
			Mul4(rot.Conjugate().Mat4()).
			Mul4(mgl32.Translate3D(-eye[0], -eye[1], -eye[2]))
		c.viewDirty = false
	}
	return c.view
}

// ViewProjection returns projection * view.
func (c *Camera) ViewProjection() mgl32.Mat4 {
	return c.ProjectionMatrix().Mul4(c.ViewMatrix())
}

// WorldToScreen projects p onto a width x height viewport with the origin
// at the top-left. It reports false for points behind the camera.
func (c *Camera) WorldToScreen(p mgl32.Vec3, width, height float32) (x, y float32, ok bool) {
	clip := c.ViewProjection().Mul4x1(p.Vec4(1))
	if clip[3] <= 0 {
		return 0, 0, false
	}
	ndc := clip.Vec3().Mul(1 / clip[3])
	return (ndc[0] + 1) * 0.5 * width, (1 - ndc[1]) * 0.5 * height, true
}

// Visible reports whether any part of b may lie inside the view frustum.
// A box is culled only when all eight corners are outside one clip plane.
func (c *Camera) Visible(b AABB) bool {
	vp := c.ViewProjection()
	var outside [6]int
	for i := 0; i < 8; i++ {
		corner := b.Min
		if i&1 != 0 {
			corner[0] = b.Max[0]
		}
		if i&2 != 0 {
			corner[1] = b.Max[1]
		}
		if i&4 != 0 {
			corner[2] = b.Max[2]
		}
		p := vp.Mul4x1(corner.Vec4(1))
		for axis := 0; axis < 3; axis++ {
			if p[axis] < -p[3] {
				outside[axis*2]++
			}
			if p[axis] > p[3] {
				outside[axis*2+1]++
			}
		}
	}
	for _, n := range outside {
		if n == 8 {
			return false
		}
	}
	return true
}

func (c *Camera) OnEnable()                        { c.viewDirty = true }
func (c *Camera) OnTransform()                     { c.viewDirty = true }
func (c *Camera) OnParentTransform(parent *Entity) { c.viewDirty = true }
