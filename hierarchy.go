package trellis

// --- Tree manipulation ---

// AddChild makes child a child of t. If child already has a parent it is
// removed from that parent first. The child's local state is rewritten so
// its world pose is unchanged. Position, rotation and scale are stored
// separately, so the pose is exact only when no ancestor combines
// non-uniform scale with a rotation relative to the child; otherwise the
// shear in the relative matrix is dropped and only position survives.
// Panics if child is nil or child is t or an ancestor of t (cycle).
func (t *Transform) AddChild(child *Transform) {
	if child == nil {
		panic("trellis: cannot add nil child")
	}
	t.mustBeBound("AddChild (parent)")
	child.mustBeBound("AddChild (child)")
	if isAncestor(child, t) {
		panic("trellis: adding child would create a cycle")
	}
	if child.parent == t {
		return
	}
	childWorld := child.WorldMatrix()
	if child.parent != nil {
		child.parent.removeChildByPtr(child)
	}
	child.setLocalFromMatrix(t.WorldMatrix().Inv().Mul4(childWorld))
	child.parent = t
	t.children = append(t.children, child)
	t.childEntities = append(t.childEntities, child.entity)
	child.entity.refreshHierarchy()
	if w := t.entity.world; w != nil && w.debug {
		w.debugCheckTreeDepth(child)
		w.debugCheckChildCount(t)
	}
}

// RemoveChild detaches child from t. The child keeps its world pose as its
// new local state, with the same scale limitation as AddChild.
// Panics if child's parent is not t.
func (t *Transform) RemoveChild(child *Transform) {
	if child == nil || child.parent != t {
		panic("trellis: child's parent is not this transform")
	}
	childWorld := child.WorldMatrix()
	t.removeChildByPtr(child)
	child.setLocalFromMatrix(childWorld)
	if child.entity != nil {
		child.entity.refreshHierarchy()
	}
}

// SetParent reparents t under parent, or detaches it when parent is nil.
func (t *Transform) SetParent(parent *Transform) {
	if parent == nil {
		if t.parent != nil {
			t.parent.RemoveChild(t)
		}
		return
	}
	parent.AddChild(t)
}

// Parent returns the parent transform, or nil for a root.
func (t *Transform) Parent() *Transform {
	return t.parent
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (t *Transform) Children() []*Transform {
	return t.children
}

// ChildEntities returns the entities owning each child, parallel to
// Children. The returned slice MUST NOT be mutated by the caller.
func (t *Transform) ChildEntities() []*Entity {
	return t.childEntities
}

// NumChildren returns the number of children.
func (t *Transform) NumChildren() int {
	return len(t.children)
}

// Child returns the child at index, or false if index is out of range.
func (t *Transform) Child(index int) (*Transform, bool) {
	if index < 0 || index >= len(t.children) {
		return nil, false
	}
	return t.children[index], true
}

// IsAncestorOf reports whether t is a strict ancestor of other.
func (t *Transform) IsAncestorOf(other *Transform) bool {
	if other == nil || other == t {
		return false
	}
	return isAncestor(t, other)
}

// --- Helpers ---

// isAncestor reports whether candidate is node or one of its ancestors.
func isAncestor(candidate, node *Transform) bool {
	for p := node; p != nil; p = p.parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr unlinks child from both child lists and clears its
// parent. Uses copy+nil to avoid retaining dangling pointers in the
// backing arrays.
func (t *Transform) removeChildByPtr(child *Transform) {
	for i, c := range t.children {
		if c == child {
			copy(t.children[i:], t.children[i+1:])
			t.children[len(t.children)-1] = nil
			t.children = t.children[:len(t.children)-1]

			copy(t.childEntities[i:], t.childEntities[i+1:])
			t.childEntities[len(t.childEntities)-1] = nil
			t.childEntities = t.childEntities[:len(t.childEntities)-1]
			break
		}
	}
	child.parent = nil
}
