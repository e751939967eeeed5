package trellis

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Transform is the always-present component holding an entity's local
// position, rotation and scale and its place in the scene graph.
//
// Local state is authoritative. Everything derived from it is cached and
// guarded by a dirty flag:
//
//	matricesDirty  world matrix and its inverse transpose
//	globalsDirty   world-space position, rotation and scale
//	vectorsDirty   local up, right and forward axes
//
// Rotation is stored as pitch/yaw/roll in radians and composed as
// Ry(yaw) * Rx(pitch) * Rz(roll). The world matrix is parentWorld * T * R * S.
type Transform struct {
	BaseComponent

	position      mgl32.Vec3
	pitchYawRoll  mgl32.Vec3
	scale         mgl32.Vec3
	world         mgl32.Mat4
	worldInvTrans mgl32.Mat4

	globalPosition mgl32.Vec3
	globalRotation mgl32.Quat
	globalScale    mgl32.Vec3

	up, right, forward mgl32.Vec3

	matricesDirty bool
	globalsDirty  bool
	vectorsDirty  bool

	parent        *Transform
	children      []*Transform
	childEntities []*Entity
}

// Start resets the transform to identity.
func (t *Transform) Start() {
	t.scale = mgl32.Vec3{1, 1, 1}
	t.globalRotation = mgl32.QuatIdent()
	t.matricesDirty = true
	t.globalsDirty = true
	t.vectorsDirty = true
}

// OnDestroy orphans every child, preserving its world pose, then detaches
// from the parent.
func (t *Transform) OnDestroy() {
	for len(t.children) > 0 {
		t.RemoveChild(t.children[len(t.children)-1])
	}
	if t.parent != nil {
		t.parent.RemoveChild(t)
	}
}

// --- Local state ---

// LocalPosition returns the position relative to the parent.
func (t *Transform) LocalPosition() mgl32.Vec3 { return t.position }

// LocalRotation returns pitch, yaw and roll in radians relative to the parent.
func (t *Transform) LocalRotation() mgl32.Vec3 { return t.pitchYawRoll }

// LocalScale returns the scale relative to the parent.
func (t *Transform) LocalScale() mgl32.Vec3 { return t.scale }

// LocalQuat returns the local rotation as a quaternion.
func (t *Transform) LocalQuat() mgl32.Quat { return eulerToQuat(t.pitchYawRoll) }

// SetPosition sets the local position. No-op if unchanged.
func (t *Transform) SetPosition(p mgl32.Vec3) {
	if p == t.position {
		return
	}
	delta := p.Sub(t.position)
	t.position = p
	t.markMatricesDirty()
	t.notify(EventMove, EventParentMove, delta)
}

// SetRotation sets the local pitch, yaw and roll. No-op if unchanged.
func (t *Transform) SetRotation(pyr mgl32.Vec3) {
	if pyr == t.pitchYawRoll {
		return
	}
	delta := pyr.Sub(t.pitchYawRoll)
	t.pitchYawRoll = pyr
	t.vectorsDirty = true
	t.markMatricesDirty()
	t.notify(EventRotate, EventParentRotate, delta)
}

// SetScale sets the local scale. No-op if unchanged.
func (t *Transform) SetScale(s mgl32.Vec3) {
	if s == t.scale {
		return
	}
	delta := s.Sub(t.scale)
	t.scale = s
	t.markMatricesDirty()
	t.notify(EventScale, EventParentScale, delta)
}

// MoveAbsolute offsets the position by d in parent space.
func (t *Transform) MoveAbsolute(d mgl32.Vec3) {
	t.SetPosition(t.position.Add(d))
}

// MoveRelative offsets the position by d expressed along the local axes.
func (t *Transform) MoveRelative(d mgl32.Vec3) {
	t.SetPosition(t.position.Add(t.LocalQuat().Rotate(d)))
}

// Rotate adds d to pitch, yaw and roll.
func (t *Transform) Rotate(d mgl32.Vec3) {
	t.SetRotation(t.pitchYawRoll.Add(d))
}

// ScaleBy multiplies the scale component-wise by f.
func (t *Transform) ScaleBy(f mgl32.Vec3) {
	t.SetScale(mgl32.Vec3{t.scale[0] * f[0], t.scale[1] * f[1], t.scale[2] * f[2]})
}

// --- Derived state ---

// WorldMatrix returns the local-to-world matrix, recomputing it from the
// local state and the parent chain if stale.
func (t *Transform) WorldMatrix() mgl32.Mat4 {
	t.refreshMatrices()
	return t.world
}

// WorldInverseTranspose returns the inverse transpose of the world matrix,
// used to transform normals.
func (t *Transform) WorldInverseTranspose() mgl32.Mat4 {
	t.refreshMatrices()
	return t.worldInvTrans
}

// GlobalPosition returns the world-space position.
func (t *Transform) GlobalPosition() mgl32.Vec3 {
	t.refreshGlobals()
	return t.globalPosition
}

// GlobalRotation returns the world-space rotation.
func (t *Transform) GlobalRotation() mgl32.Quat {
	t.refreshGlobals()
	return t.globalRotation
}

// GlobalScale returns the world-space scale.
func (t *Transform) GlobalScale() mgl32.Vec3 {
	t.refreshGlobals()
	return t.globalScale
}

// Up returns the local up axis.
func (t *Transform) Up() mgl32.Vec3 {
	t.refreshVectors()
	return t.up
}

// Right returns the local right axis.
func (t *Transform) Right() mgl32.Vec3 {
	t.refreshVectors()
	return t.right
}

// Forward returns the local forward axis.
func (t *Transform) Forward() mgl32.Vec3 {
	t.refreshVectors()
	return t.forward
}

// WorldForward returns the forward axis in world space.
func (t *Transform) WorldForward() mgl32.Vec3 {
	return t.GlobalRotation().Rotate(AxisForward)
}

func (t *Transform) refreshMatrices() {
	if !t.matricesDirty {
		return
	}
	local := composeTRS(t.position, t.pitchYawRoll, t.scale)
	if t.parent != nil {
		t.world = t.parent.WorldMatrix().Mul4(local)
	} else {
		t.world = local
	}
	t.worldInvTrans = t.world.Inv().Transpose()
	t.matricesDirty = false
}

func (t *Transform) refreshGlobals() {
	if !t.globalsDirty {
		return
	}
	t.globalPosition, t.globalRotation, t.globalScale = decomposeQuat(t.WorldMatrix())
	t.globalsDirty = false
}

func (t *Transform) refreshVectors() {
	if !t.vectorsDirty {
		return
	}
	q := t.LocalQuat()
	t.up = q.Rotate(AxisUp)
	t.right = q.Rotate(AxisRight)
	t.forward = q.Rotate(AxisForward)
	t.vectorsDirty = false
}

// markMatricesDirty flags t and all of its descendants. A descendant that
// is already matrices-dirty has a dirty subtree, so the walk stops there.
func (t *Transform) markMatricesDirty() {
	t.matricesDirty = true
	t.globalsDirty = true
	for _, c := range t.children {
		if !c.matricesDirty {
			c.markMatricesDirty()
		}
	}
}

// setLocalFromMatrix rewrites the local state so that its TRS composition
// equals m. Used on reparenting; fires no events since the world pose is
// unchanged.
func (t *Transform) setLocalFromMatrix(m mgl32.Mat4) {
	pos, rot, scale := decompose(m)
	t.position = pos
	t.pitchYawRoll = matrixToEuler(rot)
	t.scale = scale
	t.vectorsDirty = true
	t.markMatricesDirty()
}

// notify delivers a change event to the owning entity and the matching
// parent event to every descendant entity.
func (t *Transform) notify(own, inherited EventKind, delta mgl32.Vec3) {
	e := t.entity
	if e == nil {
		return
	}
	// A hook may release the entity; stop delivering once it has.
	e.ReceiveEvent(Event{Kind: own, Delta: delta})
	if e.released {
		return
	}
	e.ReceiveEvent(Event{Kind: EventTransform})
	if e.released {
		return
	}
	t.notifyDescendants(Event{Kind: inherited, Delta: delta, Other: e})
}

func (t *Transform) notifyDescendants(ev Event) {
	if len(t.children) == 0 {
		return
	}
	children := append([]*Transform(nil), t.children...)
	for _, c := range children {
		ce := c.entity
		if c.parent != t || ce == nil || ce.released {
			continue
		}
		ce.ReceiveEvent(ev)
		if ce.released {
			continue
		}
		ce.ReceiveEvent(Event{Kind: EventParentTransform, Other: ev.Other})
		if ce.released {
			continue
		}
		c.notifyDescendants(ev)
	}
}

// --- Matrix helpers ---

// eulerToQuat converts pitch/yaw/roll to a quaternion applying roll, then
// pitch, then yaw.
func eulerToQuat(pyr mgl32.Vec3) mgl32.Quat {
	qy := mgl32.QuatRotate(pyr[1], AxisUp)
	qx := mgl32.QuatRotate(pyr[0], AxisRight)
	qz := mgl32.QuatRotate(pyr[2], AxisForward)
	return qy.Mul(qx).Mul(qz)
}

// composeTRS builds T * R * S.
func composeTRS(pos, pyr, scale mgl32.Vec3) mgl32.Mat4 {
	t := mgl32.Translate3D(pos[0], pos[1], pos[2])
	r := eulerToQuat(pyr).Mat4()
	s := mgl32.Scale3D(scale[0], scale[1], scale[2])
	return t.Mul4(r).Mul4(s)
}

// decompose splits an affine matrix into translation, a pure rotation
// matrix and per-axis scale. A negative determinant is folded into the X
// scale. Zero-length axes yield an identity rotation for that axis.
func decompose(m mgl32.Mat4) (pos mgl32.Vec3, rot mgl32.Mat4, scale mgl32.Vec3) {
	pos = m.Col(3).Vec3()
	cols := [3]mgl32.Vec3{m.Col(0).Vec3(), m.Col(1).Vec3(), m.Col(2).Vec3()}
	for i := range cols {
		scale[i] = cols[i].Len()
	}
	if cols[0].Dot(cols[1].Cross(cols[2])) < 0 {
		scale[0] = -scale[0]
	}
	rot = mgl32.Ident4()
	for i := range cols {
		if scale[i] == 0 {
			continue
		}
		axis := cols[i].Mul(1 / scale[i])
		rot.SetCol(i, axis.Vec4(0))
	}
	return pos, rot, scale
}

func decomposeQuat(m mgl32.Mat4) (mgl32.Vec3, mgl32.Quat, mgl32.Vec3) {
	pos, rot, scale := decompose(m)
	return pos, mgl32.Mat4ToQuat(rot).Normalize(), scale
}

// matrixToEuler extracts pitch/yaw/roll from a pure rotation matrix built as
// Ry(yaw) * Rx(pitch) * Rz(roll). At ±90° pitch roll is folded into yaw.
func matrixToEuler(r mgl32.Mat4) mgl32.Vec3 {
	m12 := float64(r.At(1, 2))
	if m12 > 1 {
		m12 = 1
	} else if m12 < -1 {
		m12 = -1
	}
	pitch := math.Asin(-m12)
	var yaw, roll float64
	if math.Abs(m12) < 0.9999 {
		yaw = math.Atan2(float64(r.At(0, 2)), float64(r.At(2, 2)))
		roll = math.Atan2(float64(r.At(1, 0)), float64(r.At(1, 1)))
	} else {
		yaw = math.Atan2(float64(-r.At(2, 0)), float64(r.At(0, 0)))
	}
	return mgl32.Vec3{float32(pitch), float32(yaw), float32(roll)}
}
