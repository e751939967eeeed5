package trellis

import "github.com/go-gl/mathgl/mgl32"

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float32
}

// ColorWhite is the default light and particle tint.
var ColorWhite = Color{1, 1, 1, 1}

// Vec3 returns the RGB components as a vector, dropping alpha.
func (c Color) Vec3() mgl32.Vec3 {
	return mgl32.Vec3{c.R, c.G, c.B}
}

// Canonical axes rotated by a Transform's local rotation.
var (
	AxisRight   = mgl32.Vec3{1, 0, 0}
	AxisUp      = mgl32.Vec3{0, 1, 0}
	AxisForward = mgl32.Vec3{0, 0, 1}
)

// AABB is an axis-aligned bounding box given by its min and max corners.
type AABB struct {
	Min, Max mgl32.Vec3
}

// AABBFromCenter builds a box from a center point and half extents.
func AABBFromCenter(center, extents mgl32.Vec3) AABB {
	return AABB{Min: center.Sub(extents), Max: center.Add(extents)}
}

// Center returns the midpoint of the box.
func (b AABB) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Extents returns the half size of the box.
func (b AABB) Extents() mgl32.Vec3 {
	return b.Max.Sub(b.Min).Mul(0.5)
}

// Contains reports whether p lies inside the box. Points on a face count as inside.
func (b AABB) Contains(p mgl32.Vec3) bool {
	return p[0] >= b.Min[0] && p[0] <= b.Max[0] &&
		p[1] >= b.Min[1] && p[1] <= b.Max[1] &&
		p[2] >= b.Min[2] && p[2] <= b.Max[2]
}

// Intersects reports whether b and other overlap.
// Boxes sharing only a face are considered intersecting.
func (b AABB) Intersects(other AABB) bool {
	return b.Min[0] <= other.Max[0] && b.Max[0] >= other.Min[0] &&
		b.Min[1] <= other.Max[1] && b.Max[1] >= other.Min[1] &&
		b.Min[2] <= other.Max[2] && b.Max[2] >= other.Min[2]
}

// Transform returns the world-space AABB enclosing b after applying m.
func (b AABB) Transform(m mgl32.Mat4) AABB {
	out := AABB{Min: mgl32.Vec3{inf32, inf32, inf32}, Max: mgl32.Vec3{-inf32, -inf32, -inf32}}
	for i := 0; i < 8; i++ {
		corner := mgl32.Vec3{b.Min[0], b.Min[1], b.Min[2]}
		if i&1 != 0 {
			corner[0] = b.Max[0]
		}
		if i&2 != 0 {
			corner[1] = b.Max[1]
		}
		if i&4 != 0 {
			corner[2] = b.Max[2]
		}
		p := m.Mul4x1(corner.Vec4(1)).Vec3()
		for k := 0; k < 3; k++ {
			if p[k] < out.Min[k] {
				out.Min[k] = p[k]
			}
			if p[k] > out.Max[k] {
				out.Max[k] = p[k]
			}
		}
	}
	return out
}

const inf32 = float32(3.4028234663852886e38)

// Range is a general-purpose min/max range used by particle configuration.
type Range struct {
	Min, Max float32
}

// EventKind identifies which hook an Event is routed to.
type EventKind uint8

const (
	EventNone            EventKind = iota // no hook; ignored by dispatch
	EventUpdate                           // per-frame game tick, DT set
	EventEditingUpdate                    // per-frame editor tick, DT set
	EventEnable                           // effective enabled state became true
	EventDisable                          // effective enabled state became false
	EventTransform                        // own transform changed (after move/rotate/scale)
	EventMove                             // own position changed, Delta set
	EventRotate                           // own rotation changed, Delta set
	EventScale                            // own scale changed, Delta set
	EventParentTransform                  // an ancestor transform changed, Other set
	EventParentMove                       // an ancestor moved, Delta and Other set
	EventParentRotate                     // an ancestor rotated, Delta and Other set
	EventParentScale                      // an ancestor scaled, Delta and Other set
	EventCollisionEnter                   // began touching Other
	EventCollisionExit                    // stopped touching Other
	EventTriggerEnter                     // entered trigger volume shared with Other
	EventTriggerExit                      // left trigger volume shared with Other
	EventInCollision                      // still touching Other this frame
	EventInTrigger                        // still inside trigger shared with Other
	EventAudioLoad                        // audio clip loaded, Audio set
	EventAudioPlay                        // audio clip started, Audio set
	EventAudioPause                       // audio clip paused, Audio set
	EventAudioEnd                         // audio clip finished, Audio set
)

var eventKindNames = [...]string{
	"None", "Update", "EditingUpdate", "Enable", "Disable",
	"Transform", "Move", "Rotate", "Scale",
	"ParentTransform", "ParentMove", "ParentRotate", "ParentScale",
	"CollisionEnter", "CollisionExit", "TriggerEnter", "TriggerExit",
	"InCollision", "InTrigger",
	"AudioLoad", "AudioPlay", "AudioPause", "AudioEnd",
}

// String returns the kind's name.
func (k EventKind) String() string {
	if int(k) < len(eventKindNames) {
		return eventKindNames[k]
	}
	return "Unknown"
}

// isFrame reports whether k is one of the per-frame tick kinds.
func (k EventKind) isFrame() bool {
	return k == EventUpdate || k == EventEditingUpdate
}

// AudioEvent describes an audio notification. A nil Source marks global
// audio not tied to any entity.
type AudioEvent struct {
	Filename string
	Source   *Entity
}

// Event is the value delivered to Component.ReceiveEvent. Kind selects
// which payload field is meaningful; the rest are zero.
type Event struct {
	Kind  EventKind
	DT    float32    // update kinds
	Delta mgl32.Vec3 // move/rotate/scale kinds
	Other *Entity    // collision, trigger and parent kinds
	Audio AudioEvent // audio kinds
}

// UpdateEvent returns a game tick event.
func UpdateEvent(dt float32) Event { return Event{Kind: EventUpdate, DT: dt} }

// EditingUpdateEvent returns an editor tick event.
func EditingUpdateEvent(dt float32) Event { return Event{Kind: EventEditingUpdate, DT: dt} }

// CollisionEvent returns a collision or trigger event of the given kind against other.
func CollisionEvent(kind EventKind, other *Entity) Event {
	return Event{Kind: kind, Other: other}
}

// AudioNotification returns an audio event of the given kind.
func AudioNotification(kind EventKind, filename string, source *Entity) Event {
	return Event{Kind: kind, Audio: AudioEvent{Filename: filename, Source: source}}
}

// EntityEvent is the flattened form of an Event forwarded to an EventSink.
// Entity references are replaced by IDs so sinks never hold pointers into
// the world.
type EntityEvent struct {
	Kind     EventKind
	Entity   EntityID
	Other    EntityID
	Delta    mgl32.Vec3
	Filename string
	Global   bool // audio event with no source entity
}

// EventSink is the interface for optional ECS integration.
// When set on a World, every non-tick event delivered to an entity is
// forwarded to the sink.
type EventSink interface {
	EmitEvent(event EntityEvent)
}

// mgl32Vec3 returns a vector with every component set to v.
func mgl32Vec3(v float32) mgl32.Vec3 {
	return mgl32.Vec3{v, v, v}
}
