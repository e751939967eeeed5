package trellis

import "go.uber.org/zap"

// contact is one overlapping collider pair remembered between ticks.
// a precedes b in the collider pool's allocation order.
type contact struct {
	a, b    Handle[*Collider]
	ea, eb  *Entity
	trigger bool
}

type contactKey struct {
	a, b   *Collider
	ga, gb uint32
}

func (c contact) key() contactKey {
	return contactKey{a: c.a.c, b: c.b.c, ga: c.a.generation, gb: c.b.generation}
}

// CollisionSystem tests every pair of enabled colliders once per tick and
// delivers enter, stay and exit events to both entities. A pair is a
// trigger pair if either collider is a trigger. Colliders on the same
// entity never collide with each other.
//
// The first tick of an overlap sends only the enter event; later ticks
// send the stay event until the pair separates, is disabled or is freed,
// at which point exit is sent to whichever entities are still alive.
type CollisionSystem struct {
	contacts []contact
	next     []contact
	seen     map[contactKey]struct{}
	prev     map[contactKey]int
}

// NewCollisionSystem returns an empty collision system. Register it with
// World.AddSystem.
func NewCollisionSystem() *CollisionSystem {
	return &CollisionSystem{
		seen: make(map[contactKey]struct{}),
		prev: make(map[contactKey]int),
	}
}

// Phase runs collision after components have moved.
func (s *CollisionSystem) Phase() Phase { return PhasePostUpdate }

// Contacts returns the number of pairs overlapping after the last tick.
func (s *CollisionSystem) Contacts() int { return len(s.contacts) }

// Update runs one detection pass.
func (s *CollisionSystem) Update(w *World, _ float32) {
	cols := PoolOf[Collider](w).AllEnabled()

	clear(s.prev)
	for i, c := range s.contacts {
		s.prev[c.key()] = i
	}
	clear(s.seen)
	s.next = s.next[:0]

	for i := 0; i < len(cols); i++ {
		a := cols[i]
		for j := i + 1; j < len(cols); j++ {
			// Hooks run during the pass may free or disable colliders.
			if !a.ActiveInHierarchy() {
				break
			}
			b := cols[j]
			if !b.ActiveInHierarchy() || a.entity == b.entity || !a.Overlaps(b) {
				continue
			}
			c := contact{
				a: HandleOf(a), b: HandleOf(b),
				ea: a.entity, eb: b.entity,
				trigger: a.Trigger || b.Trigger,
			}
			k := c.key()
			s.seen[k] = struct{}{}
			s.next = append(s.next, c)

			enter, stay := EventCollisionEnter, EventInCollision
			if c.trigger {
				enter, stay = EventTriggerEnter, EventInTrigger
			}
			if _, ok := s.prev[k]; ok {
				s.deliver(c, stay)
			} else {
				s.deliver(c, enter)
			}
		}
	}

	for _, c := range s.contacts {
		if _, ok := s.seen[c.key()]; ok {
			continue
		}
		exit := EventCollisionExit
		if c.trigger {
			exit = EventTriggerExit
		}
		s.deliver(c, exit)
		if w.debug {
			w.log.Debug("contact ended",
				zap.String("a", c.ea.name),
				zap.String("b", c.eb.name),
				zap.Bool("trigger", c.trigger))
		}
	}

	s.contacts, s.next = s.next, s.contacts
}

// deliver sends kind to each live entity of c naming the other as Other.
func (s *CollisionSystem) deliver(c contact, kind EventKind) {
	if !c.ea.released {
		c.ea.ReceiveEvent(CollisionEvent(kind, c.eb))
	}
	if !c.eb.released {
		c.eb.ReceiveEvent(CollisionEvent(kind, c.ea))
	}
}

// Reset forgets every contact without sending exit events.
func (s *CollisionSystem) Reset() {
	s.contacts = s.contacts[:0]
	s.next = s.next[:0]
}
