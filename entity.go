package trellis

import "go.uber.org/zap"

// EntityID encodes a 32-bit slot index in the lower bits and a 32-bit
// generation in the upper bits. The generation increments on release so
// stale IDs stop resolving.
type EntityID uint64

// NilEntity is the zero ID; it never names a live entity.
const NilEntity EntityID = 0

func newEntityID(index, generation uint32) EntityID {
	return EntityID(uint64(generation)<<32 | uint64(index))
}

// Index returns the slot index.
func (id EntityID) Index() uint32 { return uint32(id) }

// Generation returns the slot generation.
func (id EntityID) Generation() uint32 { return uint32(id >> 32) }

// Entity is the addressable game object: a name, an enabled flag, exactly
// one Transform and an ordered set of components. Entities are created by
// World.CreateEntity.
//
// Child entities are linked only through their transforms; releasing an
// entity orphans its children rather than releasing them.
type Entity struct {
	id               EntityID
	name             string
	world            *World
	enabled          bool
	hierarchyEnabled bool
	transform        *Transform
	components       []Component
	released         bool
	queued           bool

	// UserData is free for host use and never read by trellis.
	UserData any
}

// initialize binds the entity's Transform.
func (e *Entity) initialize() {
	if e.transform != nil {
		panic("trellis: entity initialized twice")
	}
	e.transform = PoolFor[Transform](e.world.components).Instantiate(e)
}

// ID returns the entity's generational ID.
func (e *Entity) ID() EntityID { return e.id }

// Name returns the entity's name. Names are not required to be unique.
func (e *Entity) Name() string { return e.name }

// SetName renames the entity.
func (e *Entity) SetName(name string) { e.name = name }

// World returns the world that created the entity.
func (e *Entity) World() *World { return e.world }

// Transform returns the entity's transform.
func (e *Entity) Transform() *Transform {
	e.mustBeLive("Transform")
	return e.transform
}

// Released reports whether Release has been called.
func (e *Entity) Released() bool { return e.released }

// Enabled reports the local enabled flag.
func (e *Entity) Enabled() bool { return e.enabled }

// HierarchyEnabled reports the effective enabled state: the local flag AND
// every ancestor's local flag.
func (e *Entity) HierarchyEnabled() bool { return e.hierarchyEnabled }

// SetEnabled changes the local enabled flag and pushes any change of the
// effective state to this entity's components and all descendants.
func (e *Entity) SetEnabled(enabled bool) {
	e.mustBeLive("SetEnabled")
	if e.enabled == enabled {
		return
	}
	e.enabled = enabled
	e.refreshHierarchy()
}

// refreshHierarchy recomputes hierarchyEnabled from the local flag and the
// parent's effective state. On change, components that are locally
// enabled get OnEnable/OnDisable and the children are refreshed in turn.
func (e *Entity) refreshHierarchy() {
	if e.released || e.transform == nil {
		return
	}
	parentOn := true
	if p := e.transform.parent; p != nil && p.entity != nil {
		parentOn = p.entity.hierarchyEnabled
	}
	now := e.enabled && parentOn
	if now == e.hierarchyEnabled {
		return
	}
	e.hierarchyEnabled = now

	kind := EventDisable
	if now {
		kind = EventEnable
	}
	e.emit(Event{Kind: kind})
	for _, c := range e.snapshot() {
		if c.Bound() && c.Entity() == e && c.Enabled() {
			c.ReceiveEvent(Event{Kind: kind})
		}
	}
	children := append([]*Entity(nil), e.transform.childEntities...)
	for _, ch := range children {
		ch.refreshHierarchy()
	}
}

// ReceiveEvent delivers ev to every locally enabled component, in add
// order. Hierarchy filtering is the broadcaster's choice; see
// World.Broadcast.
func (e *Entity) ReceiveEvent(ev Event) {
	e.mustBeLive("ReceiveEvent")
	e.emit(ev)
	for _, c := range e.snapshot() {
		if c.Bound() && c.Entity() == e && c.Enabled() {
			c.ReceiveEvent(ev)
		}
	}
}

// emit mirrors non-tick events to the world's sink.
func (e *Entity) emit(ev Event) {
	if ev.Kind.isFrame() || e.world == nil || e.world.sink == nil {
		return
	}
	out := EntityEvent{
		Kind:     ev.Kind,
		Entity:   e.id,
		Delta:    ev.Delta,
		Filename: ev.Audio.Filename,
	}
	if ev.Other != nil {
		out.Other = ev.Other.id
	}
	switch ev.Kind {
	case EventAudioLoad, EventAudioPlay, EventAudioPause, EventAudioEnd:
		if ev.Audio.Source == nil {
			out.Global = true
		} else {
			out.Other = ev.Audio.Source.id
		}
	}
	e.world.sink.EmitEvent(out)
}

// snapshot copies the component list so hooks may add or remove
// components while an event is being delivered.
func (e *Entity) snapshot() []Component {
	if len(e.components) == 0 {
		return nil
	}
	return append([]Component(nil), e.components...)
}

// Components returns the component list in add order. The returned slice
// MUST NOT be mutated by the caller.
func (e *Entity) Components() []Component {
	return e.components
}

// Parent returns the entity owning the parent transform, or nil.
func (e *Entity) Parent() *Entity {
	e.mustBeLive("Parent")
	if p := e.transform.parent; p != nil {
		return p.entity
	}
	return nil
}

// SetParent reparents the entity's transform under parent's transform, or
// detaches it when parent is nil. World pose is preserved.
func (e *Entity) SetParent(parent *Entity) {
	e.mustBeLive("SetParent")
	if parent == nil {
		e.transform.SetParent(nil)
		return
	}
	parent.mustBeLive("SetParent (parent)")
	e.transform.SetParent(parent.transform)
}

// AddChild reparents child under this entity.
func (e *Entity) AddChild(child *Entity) {
	child.SetParent(e)
}

// Children returns the child entities. The returned slice MUST NOT be mutated by the caller.
func (e *Entity) Children() []*Entity {
	e.mustBeLive("Children")
	return e.transform.childEntities
}

// RemoveComponentInstance detaches and frees c if it belongs to e.
func (e *Entity) RemoveComponentInstance(c Component) bool {
	e.mustBeLive("RemoveComponentInstance")
	for i, have := range e.components {
		if have == c {
			e.removeAt(i)
			c.base().owner.freeComponent(c)
			return true
		}
	}
	return false
}

// detach drops c from the component list if present. Pools call it on every
// free so an entity never lists a slot that was handed to someone else.
func (e *Entity) detach(c Component) {
	for i, have := range e.components {
		if have == c {
			e.removeAt(i)
			return
		}
	}
}

func (e *Entity) removeAt(i int) {
	copy(e.components[i:], e.components[i+1:])
	e.components[len(e.components)-1] = nil
	e.components = e.components[:len(e.components)-1]
}

// Release frees every component in add order, then the Transform, and
// removes the entity from its world. Children are orphaned, not released.
func (e *Entity) Release() {
	e.mustBeLive("Release")
	for len(e.components) > 0 {
		c := e.components[0]
		e.removeAt(0)
		if c.Bound() && c.Entity() == e {
			c.base().owner.freeComponent(c)
		}
	}
	if e.transform.Bound() {
		PoolFor[Transform](e.world.components).Free(e.transform)
	}
	e.transform = nil
	e.released = true
	e.world.unregister(e)
}

func (e *Entity) mustBeLive(op string) {
	if e.released {
		panic("trellis: " + op + " on released entity " + e.name)
	}
}

// --- Typed component access ---

// AddComponent instantiates a T from the world's pool, binds it to e and
// appends it to e's component list. Start runs before AddComponent returns.
// Panics for Transform, which every entity already owns.
func AddComponent[T any, PT ComponentPtr[T]](e *Entity) *T {
	e.mustBeLive("AddComponent")
	if _, ok := any((*T)(nil)).(*Transform); ok {
		panic("trellis: entity already owns a Transform")
	}
	c := Instantiate[T, PT](e.world.components, e)
	e.components = append(e.components, PT(c))
	return c
}

// RemoveComponent frees the first component of type T on e. It returns
// false and leaves the component list untouched if e has none.
func RemoveComponent[T any](e *Entity) bool {
	e.mustBeLive("RemoveComponent")
	for i, c := range e.components {
		if !c.Bound() || c.Entity() != e {
			continue
		}
		if _, ok := any(c).(*T); ok {
			e.removeAt(i)
			c.base().owner.freeComponent(c)
			return true
		}
	}
	if e.world.debug {
		var zero *T
		e.world.log.Debug("remove of absent component",
			zap.String("entity", e.name),
			zap.String("type", typeName(zero)))
	}
	return false
}

// GetComponent returns the first component of type T on e.
func GetComponent[T any](e *Entity) (*T, bool) {
	e.mustBeLive("GetComponent")
	if t, ok := any(e.transform).(*T); ok {
		return t, true
	}
	for _, c := range e.components {
		if !c.Bound() || c.Entity() != e {
			continue
		}
		if t, ok := any(c).(*T); ok {
			return t, true
		}
	}
	return nil, false
}

// GetComponents returns every component of type T on e, in add order.
func GetComponents[T any](e *Entity) []*T {
	e.mustBeLive("GetComponents")
	var out []*T
	for _, c := range e.components {
		if !c.Bound() || c.Entity() != e {
			continue
		}
		if t, ok := any(c).(*T); ok {
			out = append(out, t)
		}
	}
	return out
}

// GetComponentInChildren searches e and then its descendants depth-first
// for a component of type T.
func GetComponentInChildren[T any](e *Entity) (*T, bool) {
	if c, ok := GetComponent[T](e); ok {
		return c, true
	}
	for _, ch := range e.transform.childEntities {
		if c, ok := GetComponentInChildren[T](ch); ok {
			return c, true
		}
	}
	return nil, false
}
