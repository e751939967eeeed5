// Package ecs provides ECS adapters for trellis.
package ecs

import (
	"github.com/phanxgames/trellis"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// EntityEventType is the Donburi event type for trellis entity events.
// Subscribe to this in your ECS systems to receive enable, transform,
// collision and audio notifications.
var EntityEventType = events.NewEventType[trellis.EntityEvent]()

type donburiSink struct {
	world donburi.World
	kinds map[trellis.EventKind]bool
}

// NewDonburiSink creates an EventSink backed by a Donburi world. Entity
// events are published to EntityEventType and can be consumed with
// events.Subscribe and ProcessEvents. When kinds are given, only events of
// those kinds are published.
func NewDonburiSink(world donburi.World, kinds ...trellis.EventKind) trellis.EventSink {
	s := &donburiSink{world: world}
	if len(kinds) > 0 {
		s.kinds = make(map[trellis.EventKind]bool, len(kinds))
		for _, k := range kinds {
			s.kinds[k] = true
		}
	}
	return s
}

func (s *donburiSink) EmitEvent(event trellis.EntityEvent) {
	if s.kinds != nil && !s.kinds[event.Kind] {
		return
	}
	EntityEventType.Publish(s.world, event)
}
