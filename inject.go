package trellis

import (
	"slices"

	"github.com/hajimehoshi/ebiten/v2"
)

// InputFrame is the complete input state of one synthetic tick.
type InputFrame struct {
	Keys             []ebiten.Key
	Buttons          []ebiten.MouseButton
	CursorX, CursorY int
}

// InjectedInput replays queued InputFrames, one per Advance. It drives
// input-dependent components from tests and automation without a window.
// When the queue is empty every key and button is released and the cursor
// stays where the last frame left it.
type InjectedInput struct {
	queue   []InputFrame
	current InputFrame
	prev    InputFrame
}

// NewInjectedInput returns an empty injected input.
func NewInjectedInput() *InjectedInput {
	return &InjectedInput{}
}

// InjectFrame queues one frame verbatim.
func (in *InjectedInput) InjectFrame(f InputFrame) {
	in.queue = append(in.queue, f)
}

// InjectKeyPress queues a frame with k held followed by a frame with k
// released. Consumes two frames.
func (in *InjectedInput) InjectKeyPress(k ebiten.Key) {
	x, y := in.lastCursor()
	in.InjectFrame(InputFrame{Keys: []ebiten.Key{k}, CursorX: x, CursorY: y})
	in.InjectFrame(InputFrame{CursorX: x, CursorY: y})
}

// InjectKeyHold queues frames frames with keys held.
func (in *InjectedInput) InjectKeyHold(frames int, keys ...ebiten.Key) {
	x, y := in.lastCursor()
	for i := 0; i < frames; i++ {
		in.InjectFrame(InputFrame{Keys: slices.Clone(keys), CursorX: x, CursorY: y})
	}
}

// InjectCursorMove queues a linear cursor motion from (fromX, fromY) to
// (toX, toY) over frames frames, the last landing exactly on the target.
// frames < 1 is treated as 1.
func (in *InjectedInput) InjectCursorMove(fromX, fromY, toX, toY, frames int) {
	if frames < 1 {
		frames = 1
	}
	for i := 1; i <= frames; i++ {
		x := fromX + (toX-fromX)*i/frames
		y := fromY + (toY-fromY)*i/frames
		in.InjectFrame(InputFrame{CursorX: x, CursorY: y})
	}
}

// Pending returns the number of queued frames.
func (in *InjectedInput) Pending() int { return len(in.queue) }

// Advance makes the next queued frame current.
func (in *InjectedInput) Advance() {
	in.prev = in.current
	if len(in.queue) == 0 {
		in.current = InputFrame{CursorX: in.current.CursorX, CursorY: in.current.CursorY}
		return
	}
	in.current = in.queue[0]
	copy(in.queue, in.queue[1:])
	in.queue[len(in.queue)-1] = InputFrame{}
	in.queue = in.queue[:len(in.queue)-1]
}

func (in *InjectedInput) lastCursor() (int, int) {
	if n := len(in.queue); n > 0 {
		return in.queue[n-1].CursorX, in.queue[n-1].CursorY
	}
	return in.current.CursorX, in.current.CursorY
}

func (in *InjectedInput) KeyPressed(k ebiten.Key) bool {
	return slices.Contains(in.current.Keys, k)
}

func (in *InjectedInput) KeyJustPressed(k ebiten.Key) bool {
	return slices.Contains(in.current.Keys, k) && !slices.Contains(in.prev.Keys, k)
}

func (in *InjectedInput) MouseButtonPressed(b ebiten.MouseButton) bool {
	return slices.Contains(in.current.Buttons, b)
}

func (in *InjectedInput) CursorPosition() (int, int) {
	return in.current.CursorX, in.current.CursorY
}
