package trellis

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

// game adapts a World to ebiten.Game.
type game struct {
	world   *World
	cfg     RunConfig
	draw    func(screen *ebiten.Image)
	dt      float32
	editing bool
}

func newGame(w *World, cfg RunConfig, draw func(screen *ebiten.Image)) *game {
	if cfg.TPS <= 0 {
		cfg.TPS = ebiten.DefaultTPS
	}
	if cfg.Width <= 0 {
		cfg.Width = 1280
	}
	if cfg.Height <= 0 {
		cfg.Height = 720
	}
	return &game{
		world:   w,
		cfg:     cfg,
		draw:    draw,
		dt:      1 / float32(cfg.TPS),
		editing: cfg.Editing,
	}
}

// Update ticks the world once.
func (g *game) Update() error {
	if g.editing {
		g.world.EditingUpdate(g.dt)
	} else {
		g.world.Update(g.dt)
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	if g.draw != nil {
		g.draw(screen)
	}
}

func (g *game) Layout(_, _ int) (int, int) {
	return g.cfg.Width, g.cfg.Height
}

// Run opens a window and ticks w at cfg.TPS until the window closes, then
// shuts the world down. draw may be nil. If no Input was set on w, live
// Ebitengine input is installed.
func Run(w *World, cfg RunConfig, draw func(screen *ebiten.Image)) error {
	g := newGame(w, cfg, draw)
	if w.input == nil {
		w.SetInput(EbitenInput{})
	}
	ebiten.SetWindowTitle(g.cfg.Title)
	ebiten.SetWindowSize(g.cfg.Width, g.cfg.Height)
	ebiten.SetTPS(g.cfg.TPS)

	w.log.Info("starting run loop",
		zap.String("title", g.cfg.Title),
		zap.Int("tps", g.cfg.TPS),
		zap.Bool("editing", g.editing))
	err := ebiten.RunGame(g)
	w.Shutdown()
	if err != nil {
		return fmt.Errorf("run game: %w", err)
	}
	return nil
}
