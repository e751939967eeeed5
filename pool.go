package trellis

// DefaultPoolBatchSize is the number of slots a pool grows by when its
// free list runs dry.
const DefaultPoolBatchSize = 30

// Pool is a free-list allocator owning every instance of T ever created.
// Slots are allocated in batches and recycled on Free; a *T handed out by
// Instantiate stays valid until it is passed to Free.
type Pool[T any] struct {
	batchSize int
	batches   int
	capacity  int
	free      []*T
	live      []*T
	iterating int
	asComp    func(*T) Component
}

// PoolStats is a snapshot of a pool's bookkeeping.
type PoolStats struct {
	Capacity int // slots ever allocated
	Live     int // slots bound to an entity
	Free     int // slots waiting for reuse
	Batches  int // number of batch allocations performed
}

// NewPool creates an empty pool for T. batchSize <= 0 selects
// DefaultPoolBatchSize. No slots are allocated until the first Instantiate.
func NewPool[T any, PT ComponentPtr[T]](batchSize int) *Pool[T] {
	if batchSize <= 0 {
		batchSize = DefaultPoolBatchSize
	}
	return &Pool[T]{
		batchSize: batchSize,
		asComp:    func(c *T) Component { return PT(c) },
	}
}

// grow allocates one batch of contiguous slots and pushes them onto the
// free list in reverse so they are handed out in address order.
func (p *Pool[T]) grow() {
	slab := make([]T, p.batchSize)
	for i := len(slab) - 1; i >= 0; i-- {
		p.free = append(p.free, &slab[i])
	}
	p.batches++
	p.capacity += p.batchSize
}

// Instantiate binds a free slot to e and calls its Start hook.
func (p *Pool[T]) Instantiate(e *Entity) *T {
	if p.iterating > 0 {
		panic("trellis: pool instantiate during iteration")
	}
	if len(p.free) == 0 {
		p.grow()
	}
	c := p.free[len(p.free)-1]
	p.free[len(p.free)-1] = nil
	p.free = p.free[:len(p.free)-1]

	comp := p.asComp(c)
	gen := comp.base().generation
	var zero T
	*c = zero
	b := comp.base()
	b.generation = gen
	b.bind(comp, p, e)

	p.live = append(p.live, c)
	comp.Start()
	return c
}

// Free detaches the component from its entity's component list, calls
// OnDestroy, unbinds it and returns its slot to the free list. Panics if c
// is not bound, which catches double frees.
func (p *Pool[T]) Free(c *T) {
	if p.iterating > 0 {
		panic("trellis: pool free during iteration")
	}
	comp := p.asComp(c)
	b := comp.base()
	if !b.bound {
		panic("trellis: free of unbound component")
	}
	idx := p.indexOf(c)
	if idx < 0 {
		panic("trellis: free of component owned by another pool")
	}
	if b.entity != nil {
		b.entity.detach(comp)
	}
	comp.OnDestroy()
	b.unbind()

	copy(p.live[idx:], p.live[idx+1:])
	p.live[len(p.live)-1] = nil
	p.live = p.live[:len(p.live)-1]
	p.free = append(p.free, c)
}

func (p *Pool[T]) freeComponent(c Component) {
	p.Free(any(c).(*T))
}

func (p *Pool[T]) indexOf(c *T) int {
	for i, l := range p.live {
		if l == c {
			return i
		}
	}
	return -1
}

// All returns a snapshot of the live set in allocation order.
func (p *Pool[T]) All() []*T {
	out := make([]*T, len(p.live))
	copy(out, p.live)
	return out
}

// AllEnabled returns a snapshot of the live components that are active in
// their hierarchy.
func (p *Pool[T]) AllEnabled() []*T {
	out := make([]*T, 0, len(p.live))
	for _, c := range p.live {
		if p.asComp(c).ActiveInHierarchy() {
			out = append(out, c)
		}
	}
	return out
}

// Each calls fn for every live component without copying. Instantiate or
// Free on this pool from inside fn panics.
func (p *Pool[T]) Each(fn func(*T)) {
	p.iterating++
	defer func() { p.iterating-- }()
	for _, c := range p.live {
		fn(c)
	}
}

// EachEnabled is Each restricted to components active in their hierarchy.
func (p *Pool[T]) EachEnabled(fn func(*T)) {
	p.Each(func(c *T) {
		if p.asComp(c).ActiveInHierarchy() {
			fn(c)
		}
	})
}

// Len returns the number of live components.
func (p *Pool[T]) Len() int {
	return len(p.live)
}

// Stats returns the pool's current bookkeeping.
func (p *Pool[T]) Stats() PoolStats {
	return PoolStats{
		Capacity: p.capacity,
		Live:     len(p.live),
		Free:     len(p.free),
		Batches:  p.batches,
	}
}

// dump frees every live component, newest first, and drops all slots.
func (p *Pool[T]) dump() {
	for len(p.live) > 0 {
		p.Free(p.live[len(p.live)-1])
	}
	p.free = nil
	p.live = nil
	p.capacity = 0
	p.batches = 0
}

// liveComponents returns the live set as type-erased components.
func (p *Pool[T]) liveComponents() []Component {
	out := make([]Component, len(p.live))
	for i, c := range p.live {
		out[i] = p.asComp(c)
	}
	return out
}
