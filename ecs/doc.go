// Package ecs provides ECS adapters for trellis's entity event stream.
//
// The primary adapter is [NewDonburiSink], which bridges trellis entity
// events (enable, transform, collision, trigger, audio) into a [Donburi]
// world as typed events. Subscribe to [EntityEventType] in your ECS
// systems to receive them.
//
// Usage:
//
//	sink := ecs.NewDonburiSink(dw)
//	world.SetEventSink(sink)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
