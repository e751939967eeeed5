package trellis

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Input is the keyboard and mouse state read by input-driven components.
// Implementations must report a stable state for the duration of a tick.
type Input interface {
	KeyPressed(k ebiten.Key) bool
	KeyJustPressed(k ebiten.Key) bool
	MouseButtonPressed(b ebiten.MouseButton) bool
	CursorPosition() (x, y int)
}

// frameAdvancer is implemented by inputs that step their own state once
// per tick, such as InjectedInput.
type frameAdvancer interface {
	Advance()
}

// EbitenInput reads live Ebitengine input. Ebitengine updates its state
// between ticks, so no per-frame call is needed.
type EbitenInput struct{}

func (EbitenInput) KeyPressed(k ebiten.Key) bool { return ebiten.IsKeyPressed(k) }

func (EbitenInput) KeyJustPressed(k ebiten.Key) bool { return inpututil.IsKeyJustPressed(k) }

func (EbitenInput) MouseButtonPressed(b ebiten.MouseButton) bool {
	return ebiten.IsMouseButtonPressed(b)
}

func (EbitenInput) CursorPosition() (int, int) { return ebiten.CursorPosition() }

// NopInput reports nothing pressed and the cursor at the origin.
type NopInput struct{}

func (NopInput) KeyPressed(ebiten.Key) bool                 { return false }
func (NopInput) KeyJustPressed(ebiten.Key) bool             { return false }
func (NopInput) MouseButtonPressed(ebiten.MouseButton) bool { return false }
func (NopInput) CursorPosition() (int, int)                 { return 0, 0 }
