package trellis

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestMeshRendererDefaults(t *testing.T) {
	w := newTestWorld()
	m := AddComponent[MeshRenderer](w.CreateEntity("box"))
	if m.HasMesh() || m.Material != -1 {
		t.Errorf("Mesh=%d Material=%d, want unassigned", m.Mesh, m.Material)
	}
	if !m.CastShadows || !m.ReceiveShadow {
		t.Error("shadows should default on")
	}
	assertVec(t, "bounds extents", m.LocalBounds().Extents(), mgl32Vec3(0.5))
}

func TestMeshRendererWorldBoundsFollowTransform(t *testing.T) {
	w := newTestWorld()
	parent := w.CreateEntity("parent")
	e := w.CreateEntity("box")
	parent.AddChild(e)
	m := AddComponent[MeshRenderer](e)
	m.Mesh = 3

	assertVec(t, "initial center", m.WorldBounds().Center(), mgl32.Vec3{})

	e.Transform().SetPosition(mgl32.Vec3{2, 0, 0})
	assertVec(t, "after move", m.WorldBounds().Center(), mgl32.Vec3{2, 0, 0})

	parent.Transform().SetScale(mgl32.Vec3{3, 3, 3})
	b := m.WorldBounds()
	assertVec(t, "after parent scale center", b.Center(), mgl32.Vec3{6, 0, 0})
	assertVec(t, "after parent scale extents", b.Extents(), mgl32.Vec3{1.5, 1.5, 1.5})

	m.SetBounds(AABB{Min: mgl32.Vec3{0, 0, 0}, Max: mgl32.Vec3{1, 1, 1}})
	assertVec(t, "after SetBounds min", m.WorldBounds().Min, mgl32.Vec3{6, 0, 0})
}

func TestMeshRendererBoundsRefreshAfterReenable(t *testing.T) {
	w := newTestWorld()
	e := w.CreateEntity("box")
	m := AddComponent[MeshRenderer](e)
	m.WorldBounds()

	m.SetEnabled(false)
	e.Transform().SetPosition(mgl32.Vec3{0, 4, 0})
	m.SetEnabled(true)
	assertVec(t, "center", m.WorldBounds().Center(), mgl32.Vec3{0, 4, 0})
}

func TestMeshRendererPoolForHost(t *testing.T) {
	w := newTestWorld()
	a := AddComponent[MeshRenderer](w.CreateEntity("a"))
	b := AddComponent[MeshRenderer](w.CreateEntity("b"))
	b.SetEnabled(false)

	drawn := PoolOf[MeshRenderer](w).AllEnabled()
	if len(drawn) != 1 || drawn[0] != a {
		t.Errorf("AllEnabled = %v, want only a", drawn)
	}
}
