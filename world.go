package trellis

import (
	"sort"
	"time"

	"go.uber.org/zap"
)

// Phase orders systems relative to the component update broadcast.
type Phase int

const (
	PhasePreUpdate  Phase = iota // before components receive Update
	PhasePostUpdate              // after components, before deferred destruction
)

// System is a world-level step run once per tick, such as collision
// detection. Systems of the same phase run in registration order.
type System interface {
	Phase() Phase
	Update(w *World, dt float32)
}

// World is the top-level container. It owns the component registry, the
// live entities addressed by generational IDs, and a deferred destruction
// queue flushed at the end of each tick.
type World struct {
	cfg        Config
	log        *zap.Logger
	components *ComponentManager
	input      Input
	sink       EventSink
	debug      bool

	slots       []*Entity
	generations []uint32
	freeSlots   []uint32
	entities    []*Entity

	destroyQueue []*Entity
	systems      []System
	sorted       bool
	frame        uint64
}

// NewWorld creates an empty world. A zero PoolBatchSize selects
// DefaultPoolBatchSize. The logger defaults to a no-op logger.
func NewWorld(cfg Config) *World {
	w := &World{
		cfg:          cfg,
		log:          zap.NewNop(),
		debug:        cfg.Debug,
		destroyQueue: make([]*Entity, 0, 64),
	}
	w.components = NewComponentManager(cfg.PoolBatchSize, w.log)
	return w
}

// Config returns the configuration the world was created with.
func (w *World) Config() Config { return w.cfg }

// SetLogger replaces the world's logger. nil restores the no-op logger.
func (w *World) SetLogger(log *zap.Logger) {
	if log == nil {
		log = zap.NewNop()
	}
	w.log = log
	w.components.log = log
}

// Logger returns the world's logger.
func (w *World) Logger() *zap.Logger { return w.log }

// SetInput sets the input source read by input-driven components.
func (w *World) SetInput(in Input) { w.input = in }

// Input returns the input source, or a NopInput if none is set.
func (w *World) Input() Input {
	if w.input == nil {
		return NopInput{}
	}
	return w.input
}

// SetEventSink sets the optional sink receiving every non-tick entity event.
func (w *World) SetEventSink(sink EventSink) { w.sink = sink }

// SetDebugMode enables or disables debug mode. When enabled, per-tick
// timings are logged at debug level and hierarchy shape is checked on
// every reparent.
func (w *World) SetDebugMode(enabled bool) { w.debug = enabled }

// Components returns the world's component registry.
func (w *World) Components() *ComponentManager { return w.components }

// Frame returns the number of completed Update and EditingUpdate ticks.
func (w *World) Frame() uint64 { return w.frame }

// PoolOf returns the pool holding every T in w. Collaborators such as a
// renderer read AllEnabled from it.
func PoolOf[T any, PT ComponentPtr[T]](w *World) *Pool[T] {
	return PoolFor[T, PT](w.components)
}

// --- Entities ---

// CreateEntity creates an enabled root entity with an identity transform.
func (w *World) CreateEntity(name string) *Entity {
	var idx uint32
	if n := len(w.freeSlots); n > 0 {
		idx = w.freeSlots[n-1]
		w.freeSlots = w.freeSlots[:n-1]
	} else {
		idx = uint32(len(w.slots))
		w.slots = append(w.slots, nil)
		w.generations = append(w.generations, 1)
	}
	e := &Entity{
		id:               newEntityID(idx, w.generations[idx]),
		name:             name,
		world:            w,
		enabled:          true,
		hierarchyEnabled: true,
	}
	w.slots[idx] = e
	w.entities = append(w.entities, e)
	e.initialize()
	return e
}

// Entity resolves id. Stale and zero IDs report false.
func (w *World) Entity(id EntityID) (*Entity, bool) {
	idx := id.Index()
	if int(idx) >= len(w.slots) || w.generations[idx] != id.Generation() {
		return nil, false
	}
	e := w.slots[idx]
	if e == nil {
		return nil, false
	}
	return e, true
}

// Entities returns the live entities in creation order. The returned slice
// MUST NOT be mutated by the caller.
func (w *World) Entities() []*Entity { return w.entities }

// NumEntities returns the number of live entities.
func (w *World) NumEntities() int { return len(w.entities) }

// FindEntity returns the first live entity named name.
func (w *World) FindEntity(name string) (*Entity, bool) {
	for _, e := range w.entities {
		if e.name == name {
			return e, true
		}
	}
	return nil, false
}

// ReleaseEntity releases e immediately. See Entity.Release.
func (w *World) ReleaseEntity(e *Entity) {
	e.Release()
}

// Destroy queues e for release at the end of the current tick. Queuing the
// same entity twice is harmless.
func (w *World) Destroy(e *Entity) {
	e.mustBeLive("Destroy")
	if e.queued {
		return
	}
	e.queued = true
	w.destroyQueue = append(w.destroyQueue, e)
}

// FlushDestroyQueue releases every queued entity still alive.
func (w *World) FlushDestroyQueue() {
	for i := 0; i < len(w.destroyQueue); i++ {
		e := w.destroyQueue[i]
		w.destroyQueue[i] = nil
		if !e.released {
			e.Release()
		}
	}
	w.destroyQueue = w.destroyQueue[:0]
}

// unregister drops e from the live list and retires its ID.
func (w *World) unregister(e *Entity) {
	idx := e.id.Index()
	if int(idx) < len(w.slots) && w.slots[idx] == e {
		w.slots[idx] = nil
		w.generations[idx]++
		if w.generations[idx] == 0 {
			w.generations[idx] = 1
		}
		w.freeSlots = append(w.freeSlots, idx)
	}
	for i, have := range w.entities {
		if have == e {
			copy(w.entities[i:], w.entities[i+1:])
			w.entities[len(w.entities)-1] = nil
			w.entities = w.entities[:len(w.entities)-1]
			break
		}
	}
}

// --- Ticking ---

// AddSystem registers s.
func (w *World) AddSystem(s System) {
	w.systems = append(w.systems, s)
	w.sorted = false
}

func (w *World) runSystems(phase Phase, dt float32) {
	if !w.sorted {
		sort.SliceStable(w.systems, func(i, j int) bool {
			return w.systems[i].Phase() < w.systems[j].Phase()
		})
		w.sorted = true
	}
	for _, s := range w.systems {
		if s.Phase() == phase {
			s.Update(w, dt)
		}
	}
}

// Broadcast delivers ev to every live entity in creation order. With
// onlyEnabled set, hierarchy-disabled entities are skipped. Entities
// created during the broadcast are not visited; entities released during
// it are skipped.
func (w *World) Broadcast(ev Event, onlyEnabled bool) {
	snapshot := append([]*Entity(nil), w.entities...)
	for _, e := range snapshot {
		if e.released {
			continue
		}
		if onlyEnabled && !e.hierarchyEnabled {
			continue
		}
		e.ReceiveEvent(ev)
	}
}

// Update runs one game tick: pre-update systems, the input frame step,
// the Update broadcast to enabled entities, post-update systems, then
// deferred destruction.
func (w *World) Update(dt float32) {
	w.tick(UpdateEvent(dt), true)
}

// EditingUpdate runs one editor tick. Systems do not run; components
// receive EditingUpdate instead of Update.
func (w *World) EditingUpdate(dt float32) {
	w.tick(EditingUpdateEvent(dt), false)
}

func (w *World) tick(ev Event, systems bool) {
	var stats debugStats
	var t0 time.Time
	if w.debug {
		t0 = time.Now()
	}
	if systems {
		w.runSystems(PhasePreUpdate, ev.DT)
	}
	if a, ok := w.input.(frameAdvancer); ok {
		a.Advance()
	}
	if w.debug {
		stats.preTime = time.Since(t0)
		t0 = time.Now()
	}
	w.Broadcast(ev, true)
	if w.debug {
		stats.broadcastTime = time.Since(t0)
		t0 = time.Now()
	}
	if systems {
		w.runSystems(PhasePostUpdate, ev.DT)
	}
	if w.debug {
		stats.postTime = time.Since(t0)
		stats.destroyed = len(w.destroyQueue)
		t0 = time.Now()
	}
	w.FlushDestroyQueue()
	w.frame++
	if w.debug {
		stats.flushTime = time.Since(t0)
		stats.entities = len(w.entities)
		w.debugLog(ev.Kind, stats)
	}
}

// Shutdown releases every live entity, newest first, then tears down every
// component pool. The world is empty and reusable afterwards.
func (w *World) Shutdown() {
	n := len(w.entities)
	for len(w.entities) > 0 {
		w.entities[len(w.entities)-1].Release()
	}
	w.destroyQueue = w.destroyQueue[:0]
	w.components.DumpAll()
	w.log.Info("world shut down", zap.Int("released", n))
}
