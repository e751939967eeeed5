package trellis

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
)

// maxPitch keeps mouse-look short of straight up and down.
const maxPitch = math.Pi/2 - 0.01

// NoclipMovement flies its entity with WASD, Space (up) and Shift (down),
// moving along the entity's local axes, and turns it with the mouse while
// LookButton is held. Control multiplies speed by FastMultiplier. Input is
// read from the world's Input.
type NoclipMovement struct {
	BaseComponent

	Speed          float32 // units per second
	FastMultiplier float32
	Sensitivity    float32 // radians per pixel
	LookButton     ebiten.MouseButton
	AlwaysLook     bool // turn without holding LookButton

	lastX, lastY int
	hasCursor    bool
}

// Start sets editor-style defaults.
func (n *NoclipMovement) Start() {
	n.Speed = 5
	n.FastMultiplier = 3
	n.Sensitivity = 0.003
	n.LookButton = ebiten.MouseButtonRight
}

// OnEnable forgets the last cursor position so re-enabling does not jump.
func (n *NoclipMovement) OnEnable() {
	n.hasCursor = false
}

// Update applies one tick of movement and look.
func (n *NoclipMovement) Update(dt float32) {
	in := n.World().Input()
	t := n.Transform()

	var dir mgl32.Vec3
	if in.KeyPressed(ebiten.KeyW) {
		dir = dir.Add(AxisForward)
	}
	if in.KeyPressed(ebiten.KeyS) {
		dir = dir.Sub(AxisForward)
	}
	if in.KeyPressed(ebiten.KeyD) {
		dir = dir.Add(AxisRight)
	}
	if in.KeyPressed(ebiten.KeyA) {
		dir = dir.Sub(AxisRight)
	}
	if in.KeyPressed(ebiten.KeySpace) {
		dir = dir.Add(AxisUp)
	}
	if in.KeyPressed(ebiten.KeyShift) {
		dir = dir.Sub(AxisUp)
	}
	if dir.LenSqr() > 0 {
		speed := n.Speed
		if in.KeyPressed(ebiten.KeyControl) {
			speed *= n.FastMultiplier
		}
		t.MoveRelative(dir.Normalize().Mul(speed * dt))
	}

	x, y := in.CursorPosition()
	if n.hasCursor && (n.AlwaysLook || in.MouseButtonPressed(n.LookButton)) {
		dx, dy := float32(x-n.lastX), float32(y-n.lastY)
		if dx != 0 || dy != 0 {
			pyr := t.LocalRotation()
			pyr[0] = mgl32.Clamp(pyr[0]+dy*n.Sensitivity, -maxPitch, maxPitch)
			pyr[1] += dx * n.Sensitivity
			t.SetRotation(pyr)
		}
	}
	n.lastX, n.lastY = x, y
	n.hasCursor = true
}
