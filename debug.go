package trellis

import (
	"time"

	"go.uber.org/zap"
)

// debugStats holds per-tick timings. Only populated when World.debug is true.
type debugStats struct {
	preTime       time.Duration
	broadcastTime time.Duration
	postTime      time.Duration
	flushTime     time.Duration
	entities      int
	destroyed     int
}

// debugLog writes one tick's stats at debug level.
func (w *World) debugLog(kind EventKind, stats debugStats) {
	if !w.debug {
		return
	}
	total := stats.preTime + stats.broadcastTime + stats.postTime + stats.flushTime
	w.log.Debug("tick",
		zap.Stringer("kind", kind),
		zap.Uint64("frame", w.frame),
		zap.Duration("pre", stats.preTime),
		zap.Duration("broadcast", stats.broadcastTime),
		zap.Duration("post", stats.postTime),
		zap.Duration("flush", stats.flushTime),
		zap.Duration("total", total),
		zap.Int("entities", stats.entities),
		zap.Int("destroyed", stats.destroyed))
}

// debugMaxTreeDepth is the transform depth above which a warning is logged.
const debugMaxTreeDepth = 32

func (w *World) debugCheckTreeDepth(t *Transform) {
	depth := 0
	for p := t; p != nil; p = p.parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		w.log.Warn("transform tree too deep",
			zap.String("entity", t.entity.name),
			zap.Int("depth", depth),
			zap.Int("threshold", debugMaxTreeDepth))
	}
}

// debugMaxChildCount is the child count above which a warning is logged.
const debugMaxChildCount = 1000

func (w *World) debugCheckChildCount(t *Transform) {
	if len(t.children) > debugMaxChildCount {
		w.log.Warn("transform has too many children",
			zap.String("entity", t.entity.name),
			zap.Int("children", len(t.children)),
			zap.Int("threshold", debugMaxChildCount))
	}
}
