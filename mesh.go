package trellis

// MeshRenderer marks an entity as drawable. Mesh and Material are indices
// into the host's asset tables; the loader that sets them guarantees the
// referenced assets exist. A renderer iterates PoolOf[MeshRenderer].AllEnabled
// and reads WorldBounds and the entity's world matrix.
type MeshRenderer struct {
	BaseComponent

	Mesh          int
	Material      int
	CastShadows   bool
	ReceiveShadow bool

	bounds      AABB
	worldBounds AABB
	boundsDirty bool
}

// Start clears the asset references and enables shadows.
func (m *MeshRenderer) Start() {
	m.Mesh = -1
	m.Material = -1
	m.CastShadows = true
	m.ReceiveShadow = true
	m.bounds = AABB{Min: mgl32Vec3(-0.5), Max: mgl32Vec3(0.5)}
	m.boundsDirty = true
}

// HasMesh reports whether a mesh has been assigned.
func (m *MeshRenderer) HasMesh() bool { return m.Mesh >= 0 }

// SetBounds sets the mesh's local-space bounding box.
func (m *MeshRenderer) SetBounds(b AABB) {
	m.bounds = b
	m.boundsDirty = true
}

// LocalBounds returns the mesh's local-space bounding box.
func (m *MeshRenderer) LocalBounds() AABB { return m.bounds }

// WorldBounds returns the box enclosing the local bounds after the
// entity's world transform.
func (m *MeshRenderer) WorldBounds() AABB {
	if m.boundsDirty {
		m.worldBounds = m.bounds.Transform(m.Transform().WorldMatrix())
		m.boundsDirty = false
	}
	return m.worldBounds
}

func (m *MeshRenderer) OnEnable()                        { m.boundsDirty = true }
func (m *MeshRenderer) OnTransform()                     { m.boundsDirty = true }
func (m *MeshRenderer) OnParentTransform(parent *Entity) { m.boundsDirty = true }
