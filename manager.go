package trellis

import (
	"reflect"

	"go.uber.org/zap"
)

// erasedPool is the type-erased face of a Pool[T] kept by the registry.
type erasedPool interface {
	dump()
	liveComponents() []Component
	Stats() PoolStats
}

type registration struct {
	typ  reflect.Type
	pool erasedPool
}

// ComponentManager is the registry of component pools. A pool is created
// and registered the first time its type is used; DumpAll tears every
// registered pool down without a compile-time list of types.
type ComponentManager struct {
	batchSize int
	log       *zap.Logger
	pools     map[reflect.Type]int
	order     []registration
}

// NewComponentManager returns an initialized, empty registry.
func NewComponentManager(batchSize int, log *zap.Logger) *ComponentManager {
	if log == nil {
		log = zap.NewNop()
	}
	m := &ComponentManager{batchSize: batchSize, log: log}
	m.Initialize()
	return m
}

// Initialize resets the registry. Pools registered before the call are
// forgotten without being torn down.
func (m *ComponentManager) Initialize() {
	m.pools = make(map[reflect.Type]int)
	m.order = nil
}

// PoolFor returns the pool for T, creating and registering it on first use.
func PoolFor[T any, PT ComponentPtr[T]](m *ComponentManager) *Pool[T] {
	t := reflect.TypeFor[T]()
	if idx, ok := m.pools[t]; ok {
		return m.order[idx].pool.(*Pool[T])
	}
	p := NewPool[T, PT](m.batchSize)
	m.pools[t] = len(m.order)
	m.order = append(m.order, registration{typ: t, pool: p})
	m.log.Debug("registered component pool",
		zap.String("type", t.String()),
		zap.Int("batch", p.batchSize))
	return p
}

// Instantiate forwards to the pool for T.
func Instantiate[T any, PT ComponentPtr[T]](m *ComponentManager, e *Entity) *T {
	return PoolFor[T, PT](m).Instantiate(e)
}

// Free forwards to the pool for T.
func Free[T any, PT ComponentPtr[T]](m *ComponentManager, c *T) {
	PoolFor[T, PT](m).Free(c)
}

// DumpAll tears down every registered pool exactly once, in registration
// order, and empties the registry. Calling it again is a no-op until new
// pools are registered.
func (m *ComponentManager) DumpAll() {
	order := m.order
	m.Initialize()
	for _, r := range order {
		st := r.pool.Stats()
		r.pool.dump()
		m.log.Debug("dumped component pool",
			zap.String("type", r.typ.String()),
			zap.Int("live", st.Live),
			zap.Int("capacity", st.Capacity))
	}
}

// Types returns the registered component types in registration order.
func (m *ComponentManager) Types() []reflect.Type {
	out := make([]reflect.Type, len(m.order))
	for i, r := range m.order {
		out[i] = r.typ
	}
	return out
}

// Live returns a snapshot of the live components of type t, or nil if no
// pool for t has been registered.
func (m *ComponentManager) Live(t reflect.Type) []Component {
	idx, ok := m.pools[t]
	if !ok {
		return nil
	}
	return m.order[idx].pool.liveComponents()
}

// Stats returns the bookkeeping of the pool for t.
func (m *ComponentManager) Stats(t reflect.Type) (PoolStats, bool) {
	idx, ok := m.pools[t]
	if !ok {
		return PoolStats{}, false
	}
	return m.order[idx].pool.Stats(), true
}

// typeName returns the element type name of a pointer value for logging.
func typeName(v any) string {
	t := reflect.TypeOf(v)
	if t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
