// Package trellis is the entity/component core of a scene-graph-driven 3D
// game and editor runtime built on [Ebitengine].
//
// Trellis provides pooled components, a Transform hierarchy with lazily
// cached world state, and a single event-dispatch protocol through which
// components react to lifecycle, spatial, collision and audio events
// without the core knowing their concrete types.
//
// # Quick start
//
// The simplest way to get started is [Run], which creates a window and
// ticks the world once per frame:
//
//	w := trellis.NewWorld(trellis.DefaultConfig())
//	e := w.CreateEntity("box")
//	trellis.AddComponent[trellis.MeshRenderer](e)
//	trellis.Run(w, w.Config().Run, draw)
//
// For full control, drive the world yourself and call [World.Update] or
// [World.EditingUpdate] each frame.
//
// # Entities and components
//
// An [Entity] owns exactly one [Transform] and an ordered list of
// components. Components embed [BaseComponent] and override only the
// hooks they need:
//
//	type Spinner struct {
//		trellis.BaseComponent
//		Speed float32
//	}
//
//	func (s *Spinner) Update(dt float32) {
//		s.Transform().Rotate(mgl32.Vec3{0, s.Speed * dt, 0})
//	}
//
//	spin := trellis.AddComponent[Spinner](e)
//
// Every component type lives in a [Pool] owned by the world's
// [ComponentManager]. Pointers returned by [AddComponent] stay valid until
// the component is removed; after that the slot may be reused. Keep a
// [Handle] instead of a pointer when the component may be removed while
// you hold it.
//
// # Transforms
//
// Transforms form a forest. Local position, rotation (pitch, yaw, roll in
// radians) and scale are authoritative; the world matrix, its inverse
// transpose, the decomposed global position/rotation/scale and the local
// axes are recomputed on demand after a change. Reparenting with
// [Transform.AddChild], [Transform.RemoveChild] or [Transform.SetParent]
// preserves the child's world pose.
//
// Each effective change fires OnMove, OnRotate or OnScale followed by
// OnTransform on the entity's components, and the matching OnParent*
// hooks on every descendant.
//
// # Enabling
//
// An entity is hierarchy-enabled when it and all its ancestors are
// enabled. Changes of that state reach each locally enabled component as
// exactly one OnEnable or OnDisable. [World.Update] skips
// hierarchy-disabled entities.
//
// # Built-in components
//
// [MeshRenderer], [Light], [Collider] (with [CollisionSystem]), [Terrain],
// [ParticleSystem], [Camera], [NoclipMovement], [FlashlightController],
// [AudioResponse], [Tween] (via [gween]) and [Script] (Lua, via
// [gopher-lua]).
//
// # Integration
//
// Input reaches components through the [Input] interface set on the
// world. Every non-tick event can be mirrored to an [EventSink]; the
// trellis/ecs package forwards them into a [Donburi] world.
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
// [gopher-lua]: https://github.com/yuin/gopher-lua
// [Donburi]: https://github.com/yohamta/donburi
package trellis
