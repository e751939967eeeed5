package trellis

import (
	"math/rand/v2"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestAddChildLinksBothSides(t *testing.T) {
	w := newTestWorld()
	parent := w.CreateEntity("parent")
	child := w.CreateEntity("child")
	parent.AddChild(child)

	if child.Parent() != parent {
		t.Error("child.Parent() should be parent")
	}
	pt := parent.Transform()
	if pt.NumChildren() != 1 || pt.Children()[0] != child.Transform() {
		t.Errorf("parent children = %v", pt.Children())
	}
	if len(parent.Children()) != 1 || parent.Children()[0] != child {
		t.Error("ChildEntities not parallel to Children")
	}
	if got, ok := pt.Child(0); !ok || got != child.Transform() {
		t.Error("Child(0) should return the child")
	}
}

func TestAddChildTwiceIsNoop(t *testing.T) {
	w := newTestWorld()
	p := w.CreateEntity("p").Transform()
	c := w.CreateEntity("c").Transform()
	p.AddChild(c)
	p.AddChild(c)
	if p.NumChildren() != 1 {
		t.Errorf("NumChildren = %d, want 1", p.NumChildren())
	}
}

func TestAddChildReparents(t *testing.T) {
	w := newTestWorld()
	p1 := w.CreateEntity("p1").Transform()
	p2 := w.CreateEntity("p2").Transform()
	c := w.CreateEntity("c").Transform()

	p1.AddChild(c)
	p2.AddChild(c)
	if p1.NumChildren() != 0 {
		t.Errorf("old parent still has %d children", p1.NumChildren())
	}
	if c.Parent() != p2 || p2.NumChildren() != 1 {
		t.Error("child should now belong to p2")
	}
}

// Uniform parent scale; under non-uniform scale only position is kept.
func TestAddChildPreservesWorldPose(t *testing.T) {
	w := newTestWorld()
	p := w.CreateEntity("p").Transform()
	c := w.CreateEntity("c").Transform()

	p.SetPosition(mgl32.Vec3{5, 0, 0})
	p.SetRotation(mgl32.Vec3{0, halfPi, 0})
	p.SetScale(mgl32.Vec3{2, 2, 2})
	c.SetPosition(mgl32.Vec3{1, 2, 3})
	before := c.WorldMatrix()

	p.AddChild(c)
	assertMat(t, "world after AddChild", c.WorldMatrix(), before)
	assertVec(t, "GlobalPosition", c.GlobalPosition(), mgl32.Vec3{1, 2, 3})
	assertVec(t, "LocalPosition", c.LocalPosition(), mgl32.Vec3{-1.5, 1, -2})
	assertVec(t, "LocalScale", c.LocalScale(), mgl32.Vec3{0.5, 0.5, 0.5})
	assertVec(t, "LocalRotation", c.LocalRotation(), mgl32.Vec3{0, -halfPi, 0})

	p.RemoveChild(c)
	assertMat(t, "world after RemoveChild", c.WorldMatrix(), before)
	assertVec(t, "detached LocalPosition", c.LocalPosition(), mgl32.Vec3{1, 2, 3})
	assertVec(t, "detached LocalScale", c.LocalScale(), mgl32.Vec3{1, 1, 1})
}

func TestAddChildNonUniformScaleKeepsPosition(t *testing.T) {
	w := newTestWorld()
	p := w.CreateEntity("p").Transform()
	c := w.CreateEntity("c").Transform()

	p.SetPosition(mgl32.Vec3{1, 2, 3})
	p.SetRotation(mgl32.Vec3{0, 0.7, 0})
	p.SetScale(mgl32.Vec3{2, 1, 1})
	c.SetPosition(mgl32.Vec3{4, -1, 2})
	c.SetRotation(mgl32.Vec3{0.5, 0, 0.3})

	p.AddChild(c)
	assertVec(t, "GlobalPosition", c.GlobalPosition(), mgl32.Vec3{4, -1, 2})

	p.RemoveChild(c)
	assertVec(t, "detached LocalPosition", c.LocalPosition(), mgl32.Vec3{4, -1, 2})
}

func TestReparentFiresNoMoveEvents(t *testing.T) {
	w := newTestWorld()
	p := w.CreateEntity("p")
	c := w.CreateEntity("c")
	p.Transform().SetPosition(mgl32.Vec3{3, 0, 0})
	r := AddComponent[recorder](c)

	p.AddChild(c)
	c.SetParent(nil)
	if len(r.moves) != 0 || r.transforms != 0 || r.parentTransforms != 0 {
		t.Errorf("reparent fired events: moves=%d transforms=%d parent=%d",
			len(r.moves), r.transforms, r.parentTransforms)
	}
}

func TestAddChildCyclePanics(t *testing.T) {
	w := newTestWorld()
	a := w.CreateEntity("a").Transform()
	b := w.CreateEntity("b").Transform()
	c := w.CreateEntity("c").Transform()
	a.AddChild(b)
	b.AddChild(c)

	mustPanic(t, "self", func() { a.AddChild(a) })
	mustPanic(t, "grandparent under grandchild", func() { c.AddChild(a) })
	mustPanic(t, "nil", func() { a.AddChild(nil) })

	if a.Parent() != nil || c.NumChildren() != 0 {
		t.Error("failed AddChild modified the tree")
	}
}

func TestRemoveChildNotChildPanics(t *testing.T) {
	w := newTestWorld()
	a := w.CreateEntity("a").Transform()
	b := w.CreateEntity("b").Transform()
	mustPanic(t, "remove non-child", func() { a.RemoveChild(b) })
	mustPanic(t, "remove nil", func() { a.RemoveChild(nil) })
}

func TestChildOutOfRange(t *testing.T) {
	w := newTestWorld()
	p := w.CreateEntity("p").Transform()
	p.AddChild(w.CreateEntity("c").Transform())
	for _, i := range []int{-1, 1, 5} {
		if _, ok := p.Child(i); ok {
			t.Errorf("Child(%d) should report false", i)
		}
	}
}

func TestIsAncestorOf(t *testing.T) {
	w := newTestWorld()
	a := w.CreateEntity("a").Transform()
	b := w.CreateEntity("b").Transform()
	c := w.CreateEntity("c").Transform()
	a.AddChild(b)
	b.AddChild(c)

	if !a.IsAncestorOf(c) || !b.IsAncestorOf(c) {
		t.Error("a and b should be ancestors of c")
	}
	if c.IsAncestorOf(a) || a.IsAncestorOf(a) || a.IsAncestorOf(nil) {
		t.Error("IsAncestorOf reported a false ancestor")
	}
}

func TestReparentRefreshesEnableState(t *testing.T) {
	w := newTestWorld()
	p := w.CreateEntity("p")
	c := w.CreateEntity("c")
	r := AddComponent[recorder](c)
	p.SetEnabled(false)

	p.AddChild(c)
	if c.HierarchyEnabled() {
		t.Error("child under a disabled parent should be hierarchy-disabled")
	}
	if r.disables != 1 {
		t.Errorf("disables = %d, want 1", r.disables)
	}

	p.Transform().RemoveChild(c.Transform())
	if !c.HierarchyEnabled() || r.enables != 1 {
		t.Errorf("detached child: hierarchyEnabled=%v enables=%d", c.HierarchyEnabled(), r.enables)
	}
}

// checkForest verifies that parent and child links agree everywhere.
func checkForest(t *testing.T, step int, all []*Transform) {
	t.Helper()
	for _, tr := range all {
		if p := tr.parent; p != nil {
			n := 0
			for _, c := range p.children {
				if c == tr {
					n++
				}
			}
			if n != 1 {
				t.Fatalf("step %d: %s appears %d times in its parent's children", step, tr.entity.name, n)
			}
			if isAncestor(tr, p) {
				t.Fatalf("step %d: %s is its own ancestor", step, tr.entity.name)
			}
		}
		if len(tr.children) != len(tr.childEntities) {
			t.Fatalf("step %d: child lists out of step", step)
		}
		for i, c := range tr.children {
			if c.parent != tr {
				t.Fatalf("step %d: child %s does not point back", step, c.entity.name)
			}
			if tr.childEntities[i] != c.entity {
				t.Fatalf("step %d: childEntities[%d] mismatch", step, i)
			}
		}
	}
}

func TestHierarchyRandomReparenting(t *testing.T) {
	w := newTestWorld()
	rng := rand.New(rand.NewPCG(7, 11))
	var all []*Transform
	for i := 0; i < 12; i++ {
		tr := w.CreateEntity(string(rune('a' + i))).Transform()
		tr.SetPosition(mgl32.Vec3{float32(i), 0, 0})
		all = append(all, tr)
	}

	for step := 0; step < 500; step++ {
		a := all[rng.IntN(len(all))]
		b := all[rng.IntN(len(all))]
		before := b.WorldMatrix()
		switch {
		case rng.IntN(4) == 0:
			b.SetParent(nil)
		case isAncestor(b, a):
			mustPanic(t, "cycle", func() { a.AddChild(b) })
		default:
			a.AddChild(b)
		}
		after := b.WorldMatrix()
		if !near(after[:], before[:], 1e-3) {
			t.Fatalf("step %d: world pose changed on reparent", step)
		}
		checkForest(t, step, all)
	}
}
