package trellis

import "github.com/hajimehoshi/ebiten/v2"

// FlashlightController toggles the Light on its entity when ToggleKey is
// pressed. While the controller is inactive the light is forced off; when
// it becomes active again the light returns to the On state.
type FlashlightController struct {
	BaseComponent

	ToggleKey ebiten.Key
	On        bool
}

// Start binds F and turns the light on.
func (f *FlashlightController) Start() {
	f.ToggleKey = ebiten.KeyF
	f.On = true
}

// Update toggles on a fresh key press.
func (f *FlashlightController) Update(float32) {
	if f.World().Input().KeyJustPressed(f.ToggleKey) {
		f.Toggle()
	}
}

// Toggle flips On and applies it to the light.
func (f *FlashlightController) Toggle() {
	f.SetOn(!f.On)
}

// SetOn sets the light state.
func (f *FlashlightController) SetOn(on bool) {
	f.On = on
	f.apply(on && f.ActiveInHierarchy())
}

func (f *FlashlightController) OnEnable()  { f.apply(f.On) }
func (f *FlashlightController) OnDisable() { f.apply(false) }

func (f *FlashlightController) apply(lit bool) {
	if l, ok := GetComponent[Light](f.Entity()); ok {
		l.SetEnabled(lit)
	}
}
