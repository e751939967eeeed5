package trellis

import (
	"fmt"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"gopkg.in/yaml.v3"
)

// scriptStep represents a single action in an input script.
type scriptStep struct {
	Action string   `yaml:"action"`
	Keys   []string `yaml:"keys,omitempty"`
	Button string   `yaml:"button,omitempty"`
	X      int      `yaml:"x,omitempty"`
	Y      int      `yaml:"y,omitempty"`
	FromX  int      `yaml:"fromX,omitempty"`
	FromY  int      `yaml:"fromY,omitempty"`
	ToX    int      `yaml:"toX,omitempty"`
	ToY    int      `yaml:"toY,omitempty"`
	Frames int      `yaml:"frames,omitempty"`
}

// inputScript is the top-level structure of an input script file.
type inputScript struct {
	Steps []scriptStep `yaml:"steps"`
}

// InputScript sequences injected input across ticks for automated runs.
// It is a pre-update System feeding an InjectedInput:
//
//	steps:
//	  - {action: hold, keys: [W], frames: 30}
//	  - {action: press, keys: [F]}
//	  - {action: look, button: right, fromX: 0, fromY: 0, toX: 100, toY: 0, frames: 10}
//	  - {action: wait, frames: 5}
//
// Scripts are YAML; JSON scripts parse as well.
type InputScript struct {
	input     *InjectedInput
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
}

// LoadInputScript parses a script that will drive in.
func LoadInputScript(data []byte, in *InjectedInput) (*InputScript, error) {
	var script inputScript
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("parse input script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse input script: no steps")
	}
	for i, st := range script.Steps {
		if err := st.validate(); err != nil {
			return nil, fmt.Errorf("parse input script: step %d: %w", i, err)
		}
	}
	return &InputScript{input: in, steps: script.Steps}, nil
}

func (st scriptStep) validate() error {
	switch st.Action {
	case "press", "hold":
		if len(st.Keys) == 0 {
			return fmt.Errorf("%s needs keys", st.Action)
		}
		for _, k := range st.Keys {
			if _, ok := keyByName(k); !ok {
				return fmt.Errorf("unknown key %q", k)
			}
		}
	case "click", "look":
		if _, ok := buttonByName(st.Button); !ok {
			return fmt.Errorf("unknown button %q", st.Button)
		}
	case "cursor", "wait":
	default:
		return fmt.Errorf("unknown action %q", st.Action)
	}
	return nil
}

// Done reports whether every step has been executed and its input consumed.
func (r *InputScript) Done() bool {
	return r.done
}

// Phase queues input before the tick's input frame is taken.
func (r *InputScript) Phase() Phase { return PhasePreUpdate }

// Update advances the script by one tick.
func (r *InputScript) Update(_ *World, _ float32) {
	if r.done {
		return
	}
	// Wait for pending injections to drain before advancing.
	if r.input.Pending() > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	x, y := r.input.lastCursor()
	switch st.Action {
	case "press":
		r.input.InjectFrame(InputFrame{Keys: keysByName(st.Keys), CursorX: x, CursorY: y})
		r.input.InjectFrame(InputFrame{CursorX: x, CursorY: y})
	case "hold":
		r.input.InjectKeyHold(max(st.Frames, 1), keysByName(st.Keys)...)
	case "cursor":
		r.input.InjectCursorMove(st.FromX, st.FromY, st.ToX, st.ToY, st.Frames)
	case "click":
		b, _ := buttonByName(st.Button)
		r.input.InjectFrame(InputFrame{Buttons: []ebiten.MouseButton{b}, CursorX: st.X, CursorY: st.Y})
		r.input.InjectFrame(InputFrame{CursorX: st.X, CursorY: st.Y})
	case "look":
		b, _ := buttonByName(st.Button)
		r.input.InjectFrame(InputFrame{Buttons: []ebiten.MouseButton{b}, CursorX: st.FromX, CursorY: st.FromY})
		frames := max(st.Frames, 1)
		for i := 1; i <= frames; i++ {
			r.input.InjectFrame(InputFrame{
				Buttons: []ebiten.MouseButton{b},
				CursorX: st.FromX + (st.ToX-st.FromX)*i/frames,
				CursorY: st.FromY + (st.ToY-st.FromY)*i/frames,
			})
		}
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this tick counts as one
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && r.input.Pending() == 0 {
		r.done = true
	}
}

var keyNames map[string]ebiten.Key

func keyByName(name string) (ebiten.Key, bool) {
	if keyNames == nil {
		keyNames = make(map[string]ebiten.Key)
		for k := ebiten.Key(0); k <= ebiten.KeyMax; k++ {
			keyNames[strings.ToLower(k.String())] = k
		}
	}
	k, ok := keyNames[strings.ToLower(name)]
	return k, ok
}

func keysByName(names []string) []ebiten.Key {
	out := make([]ebiten.Key, 0, len(names))
	for _, n := range names {
		if k, ok := keyByName(n); ok {
			out = append(out, k)
		}
	}
	return out
}

func buttonByName(name string) (ebiten.MouseButton, bool) {
	switch strings.ToLower(name) {
	case "", "left":
		return ebiten.MouseButtonLeft, true
	case "right":
		return ebiten.MouseButtonRight, true
	case "middle":
		return ebiten.MouseButtonMiddle, true
	}
	return 0, false
}
