package trellis

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// ColliderShape selects the bounding volume of a Collider.
type ColliderShape uint8

const (
	ColliderBox    ColliderShape = iota // box of half size Extents around Center
	ColliderSphere                      // sphere of Radius around Center
)

// Collider is a bounding volume tested by CollisionSystem. Center, Extents
// and Radius are in the entity's local space. A trigger reports overlaps
// through the trigger hooks instead of the collision hooks.
type Collider struct {
	BaseComponent

	Shape   ColliderShape
	Center  mgl32.Vec3
	Extents mgl32.Vec3
	Radius  float32
	Trigger bool
}

// Start configures a unit box.
func (c *Collider) Start() {
	c.Shape = ColliderBox
	c.Extents = mgl32Vec3(0.5)
	c.Radius = 0.5
}

// WorldCenter returns Center in world space.
func (c *Collider) WorldCenter() mgl32.Vec3 {
	return mgl32.TransformCoordinate(c.Center, c.Transform().WorldMatrix())
}

// WorldRadius returns Radius scaled by the largest world scale axis.
func (c *Collider) WorldRadius() float32 {
	s := c.Transform().GlobalScale()
	m := float32(math.Max(math.Abs(float64(s[0])), math.Max(math.Abs(float64(s[1])), math.Abs(float64(s[2])))))
	return c.Radius * m
}

// WorldBounds returns the world-space box enclosing the volume.
func (c *Collider) WorldBounds() AABB {
	if c.Shape == ColliderSphere {
		return AABBFromCenter(c.WorldCenter(), mgl32Vec3(c.WorldRadius()))
	}
	return AABBFromCenter(c.Center, c.Extents).Transform(c.Transform().WorldMatrix())
}

// Overlaps reports whether the world-space volumes of c and o intersect.
// Boxes are tested by their world AABBs.
func (c *Collider) Overlaps(o *Collider) bool {
	switch {
	case c.Shape == ColliderSphere && o.Shape == ColliderSphere:
		r := c.WorldRadius() + o.WorldRadius()
		return c.WorldCenter().Sub(o.WorldCenter()).LenSqr() <= r*r
	case c.Shape == ColliderSphere:
		return sphereBox(c.WorldCenter(), c.WorldRadius(), o.WorldBounds())
	case o.Shape == ColliderSphere:
		return sphereBox(o.WorldCenter(), o.WorldRadius(), c.WorldBounds())
	default:
		return c.WorldBounds().Intersects(o.WorldBounds())
	}
}

// sphereBox tests a sphere against a box by its closest point.
func sphereBox(center mgl32.Vec3, radius float32, b AABB) bool {
	var closest mgl32.Vec3
	for i := 0; i < 3; i++ {
		closest[i] = mgl32.Clamp(center[i], b.Min[i], b.Max[i])
	}
	return closest.Sub(center).LenSqr() <= radius*radius
}
