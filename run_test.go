package trellis

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

func TestNewGameDefaults(t *testing.T) {
	g := newGame(newTestWorld(), RunConfig{}, nil)
	if g.cfg.TPS != ebiten.DefaultTPS {
		t.Errorf("TPS = %d, want %d", g.cfg.TPS, ebiten.DefaultTPS)
	}
	assertNear(t, "dt", g.dt, 1/float32(ebiten.DefaultTPS))
	if w, h := g.Layout(0, 0); w != 1280 || h != 720 {
		t.Errorf("Layout = %dx%d, want 1280x720", w, h)
	}
}

func TestNewGameKeepsConfig(t *testing.T) {
	g := newGame(newTestWorld(), RunConfig{Width: 640, Height: 480, TPS: 30}, nil)
	assertNear(t, "dt", g.dt, 1.0/30)
	if w, h := g.Layout(1920, 1080); w != 640 || h != 480 {
		t.Errorf("Layout = %dx%d, want 640x480", w, h)
	}
}

func TestGameUpdateTicksWorld(t *testing.T) {
	tests := []struct {
		name     string
		editing  bool
		updates  int
		editings int
	}{
		{"play", false, 1, 0},
		{"editing", true, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newTestWorld()
			r := AddComponent[recorder](w.CreateEntity("e"))
			g := newGame(w, RunConfig{Editing: tt.editing}, nil)
			if err := g.Update(); err != nil {
				t.Fatalf("Update: %v", err)
			}
			if r.updates != tt.updates || r.editings != tt.editings {
				t.Errorf("updates=%d editings=%d, want %d and %d", r.updates, r.editings, tt.updates, tt.editings)
			}
			if w.Frame() != 1 {
				t.Errorf("Frame = %d, want 1", w.Frame())
			}
		})
	}
}

func TestGameDrawCallsHook(t *testing.T) {
	drawn := 0
	g := newGame(newTestWorld(), RunConfig{}, func(*ebiten.Image) { drawn++ })
	g.Draw(nil)
	if drawn != 1 {
		t.Errorf("draw hook ran %d times, want 1", drawn)
	}
	newGame(newTestWorld(), RunConfig{}, nil).Draw(nil)
}
