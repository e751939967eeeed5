package trellis

import "github.com/go-gl/mathgl/mgl32"

// Component is a pooled behaviour bound to exactly one Entity at a time.
//
// Concrete components embed BaseComponent, which supplies the bookkeeping
// and a no-op default for every hook, and override only the hooks they
// need. Components are created with AddComponent and never constructed
// directly.
type Component interface {
	// Entity returns the owning entity, or nil when unbound.
	Entity() *Entity
	// Transform returns the owning entity's transform.
	Transform() *Transform
	// Enabled reports the local enabled flag.
	Enabled() bool
	// SetEnabled changes the local enabled flag, firing OnEnable/OnDisable
	// only when the effective state changes.
	SetEnabled(enabled bool)
	// ActiveInHierarchy reports the effective state: local enabled AND the
	// entity's hierarchy-enabled state.
	ActiveInHierarchy() bool
	// Bound reports whether the component occupies a live pool slot.
	Bound() bool
	// ReceiveEvent routes ev to the matching hook.
	ReceiveEvent(ev Event)

	// Lifecycle
	Start()
	OnDestroy()

	// Frame
	Update(dt float32)
	EditingUpdate(dt float32)

	// Enable state
	OnEnable()
	OnDisable()

	// Spatial
	OnTransform()
	OnMove(delta mgl32.Vec3)
	OnRotate(delta mgl32.Vec3)
	OnScale(delta mgl32.Vec3)
	OnParentTransform(parent *Entity)
	OnParentMove(parent *Entity, delta mgl32.Vec3)
	OnParentRotate(parent *Entity, delta mgl32.Vec3)
	OnParentScale(parent *Entity, delta mgl32.Vec3)

	// Collision
	OnCollisionEnter(other *Entity)
	OnCollisionExit(other *Entity)
	OnTriggerEnter(other *Entity)
	OnTriggerExit(other *Entity)
	InCollision(other *Entity)
	InTrigger(other *Entity)

	// Audio
	OnAudioLoad(ev AudioEvent)
	OnAudioPlay(ev AudioEvent)
	OnAudioPause(ev AudioEvent)
	OnAudioEnd(ev AudioEvent)

	base() *BaseComponent
}

// componentFreer returns a component to the pool that owns it.
type componentFreer interface {
	freeComponent(c Component)
}

// ComponentPtr constrains a type parameter to a pointer to a component struct.
type ComponentPtr[T any] interface {
	*T
	Component
}

// BaseComponent carries the state every component shares. Embed it by value.
type BaseComponent struct {
	self       Component
	owner      componentFreer
	entity     *Entity
	enabled    bool
	bound      bool
	generation uint32
}

func (b *BaseComponent) base() *BaseComponent { return b }

// Entity returns the owning entity, or nil when unbound.
func (b *BaseComponent) Entity() *Entity { return b.entity }

// Transform returns the owning entity's transform.
func (b *BaseComponent) Transform() *Transform {
	b.mustBeBound("Transform")
	return b.entity.transform
}

// World returns the world the owning entity lives in.
func (b *BaseComponent) World() *World {
	b.mustBeBound("World")
	return b.entity.world
}

// Enabled reports the local enabled flag.
func (b *BaseComponent) Enabled() bool { return b.enabled }

// ActiveInHierarchy reports whether the component is enabled and its entity
// is hierarchy-enabled.
func (b *BaseComponent) ActiveInHierarchy() bool {
	return b.bound && b.enabled && b.entity.hierarchyEnabled
}

// Bound reports whether the component currently occupies a live pool slot.
func (b *BaseComponent) Bound() bool { return b.bound }

// SetEnabled changes the local enabled flag. OnEnable or OnDisable fires
// only if the effective state changes, so toggling a component on a
// disabled entity is silent.
func (b *BaseComponent) SetEnabled(enabled bool) {
	b.mustBeBound("SetEnabled")
	if b.enabled == enabled {
		return
	}
	before := b.ActiveInHierarchy()
	b.enabled = enabled
	after := b.ActiveInHierarchy()
	if before == after {
		return
	}
	if after {
		b.self.OnEnable()
	} else {
		b.self.OnDisable()
	}
}

// ReceiveEvent routes ev to the hook of the concrete component. Panics
// raised by hooks are not recovered.
func (b *BaseComponent) ReceiveEvent(ev Event) {
	b.mustBeBound("ReceiveEvent")
	dispatch(b.self, ev)
}

func (b *BaseComponent) mustBeBound(op string) {
	if !b.bound {
		panic("trellis: " + op + " on unbound component")
	}
}

// bind attaches a freshly zeroed slot to e. generation survives the reset.
func (b *BaseComponent) bind(self Component, owner componentFreer, e *Entity) {
	b.self = self
	b.owner = owner
	b.entity = e
	b.enabled = true
	b.bound = true
}

func (b *BaseComponent) unbind() {
	b.self = nil
	b.owner = nil
	b.entity = nil
	b.enabled = false
	b.bound = false
	b.generation++
}

// No-op hooks.

func (b *BaseComponent) Start()                                          {}
func (b *BaseComponent) OnDestroy()                                      {}
func (b *BaseComponent) Update(dt float32)                               {}
func (b *BaseComponent) EditingUpdate(dt float32)                        {}
func (b *BaseComponent) OnEnable()                                       {}
func (b *BaseComponent) OnDisable()                                      {}
func (b *BaseComponent) OnTransform()                                    {}
func (b *BaseComponent) OnMove(delta mgl32.Vec3)                         {}
func (b *BaseComponent) OnRotate(delta mgl32.Vec3)                       {}
func (b *BaseComponent) OnScale(delta mgl32.Vec3)                        {}
func (b *BaseComponent) OnParentTransform(parent *Entity)                {}
func (b *BaseComponent) OnParentMove(parent *Entity, delta mgl32.Vec3)   {}
func (b *BaseComponent) OnParentRotate(parent *Entity, delta mgl32.Vec3) {}
func (b *BaseComponent) OnParentScale(parent *Entity, delta mgl32.Vec3)  {}
func (b *BaseComponent) OnCollisionEnter(other *Entity)                  {}
func (b *BaseComponent) OnCollisionExit(other *Entity)                   {}
func (b *BaseComponent) OnTriggerEnter(other *Entity)                    {}
func (b *BaseComponent) OnTriggerExit(other *Entity)                     {}
func (b *BaseComponent) InCollision(other *Entity)                       {}
func (b *BaseComponent) InTrigger(other *Entity)                         {}
func (b *BaseComponent) OnAudioLoad(ev AudioEvent)                       {}
func (b *BaseComponent) OnAudioPlay(ev AudioEvent)                       {}
func (b *BaseComponent) OnAudioPause(ev AudioEvent)                      {}
func (b *BaseComponent) OnAudioEnd(ev AudioEvent)                        {}

// dispatch is the single switch from event kind to hook.
func dispatch(c Component, ev Event) {
	switch ev.Kind {
	case EventUpdate:
		c.Update(ev.DT)
	case EventEditingUpdate:
		c.EditingUpdate(ev.DT)
	case EventEnable:
		c.OnEnable()
	case EventDisable:
		c.OnDisable()
	case EventTransform:
		c.OnTransform()
	case EventMove:
		c.OnMove(ev.Delta)
	case EventRotate:
		c.OnRotate(ev.Delta)
	case EventScale:
		c.OnScale(ev.Delta)
	case EventParentTransform:
		c.OnParentTransform(ev.Other)
	case EventParentMove:
		c.OnParentMove(ev.Other, ev.Delta)
	case EventParentRotate:
		c.OnParentRotate(ev.Other, ev.Delta)
	case EventParentScale:
		c.OnParentScale(ev.Other, ev.Delta)
	case EventCollisionEnter:
		c.OnCollisionEnter(ev.Other)
	case EventCollisionExit:
		c.OnCollisionExit(ev.Other)
	case EventTriggerEnter:
		c.OnTriggerEnter(ev.Other)
	case EventTriggerExit:
		c.OnTriggerExit(ev.Other)
	case EventInCollision:
		c.InCollision(ev.Other)
	case EventInTrigger:
		c.InTrigger(ev.Other)
	case EventAudioLoad:
		c.OnAudioLoad(ev.Audio)
	case EventAudioPlay:
		c.OnAudioPlay(ev.Audio)
	case EventAudioPause:
		c.OnAudioPause(ev.Audio)
	case EventAudioEnd:
		c.OnAudioEnd(ev.Audio)
	}
}

// Handle is a retained reference to a component that detects slot reuse.
// A component pointer must not be kept past Free; a Handle may be, and
// reports the component as gone once its slot has been freed.
type Handle[C Component] struct {
	c          C
	generation uint32
	valid      bool
}

// HandleOf returns a handle to the bound component c.
func HandleOf[C Component](c C) Handle[C] {
	b := c.base()
	b.mustBeBound("HandleOf")
	return Handle[C]{c: c, generation: b.generation, valid: true}
}

// Get returns the component if its slot still holds the same binding.
func (h Handle[C]) Get() (C, bool) {
	if !h.valid {
		var zero C
		return zero, false
	}
	b := h.c.base()
	if !b.bound || b.generation != h.generation {
		var zero C
		return zero, false
	}
	return h.c, true
}

// Valid reports whether Get would succeed.
func (h Handle[C]) Valid() bool {
	_, ok := h.Get()
	return ok
}
