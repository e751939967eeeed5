package trellis

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// tweenTrack animates the three components of one transform property.
type tweenTrack struct {
	tweens [3]*gween.Tween
	apply  func(t *Transform, v mgl32.Vec3)
	done   func()
}

// Tween animates its entity's transform. Each MoveTo, RotateTo or ScaleTo
// adds a track starting from the current value; tracks run in parallel
// and are dropped when they finish. Values go through the Transform
// setters, so every step fires the usual move, rotate and scale events.
//
// A disabled Tween does not advance.
type Tween struct {
	BaseComponent

	tracks []tweenTrack
}

// MoveTo animates the local position to `to` over duration seconds.
func (tw *Tween) MoveTo(to mgl32.Vec3, duration float32, fn ease.TweenFunc) *Tween {
	return tw.add(tw.Transform().LocalPosition(), to, duration, fn, (*Transform).SetPosition)
}

// RotateTo animates the local pitch, yaw and roll to `to`.
func (tw *Tween) RotateTo(to mgl32.Vec3, duration float32, fn ease.TweenFunc) *Tween {
	return tw.add(tw.Transform().LocalRotation(), to, duration, fn, (*Transform).SetRotation)
}

// ScaleTo animates the local scale to `to`.
func (tw *Tween) ScaleTo(to mgl32.Vec3, duration float32, fn ease.TweenFunc) *Tween {
	return tw.add(tw.Transform().LocalScale(), to, duration, fn, (*Transform).SetScale)
}

// OnDone sets a callback for the most recently added track.
func (tw *Tween) OnDone(fn func()) *Tween {
	if n := len(tw.tracks); n > 0 {
		tw.tracks[n-1].done = fn
	}
	return tw
}

func (tw *Tween) add(from, to mgl32.Vec3, duration float32, fn ease.TweenFunc, apply func(*Transform, mgl32.Vec3)) *Tween {
	if fn == nil {
		fn = ease.Linear
	}
	var tr tweenTrack
	for i := range tr.tweens {
		tr.tweens[i] = gween.New(from[i], to[i], duration, fn)
	}
	tr.apply = apply
	tw.tracks = append(tw.tracks, tr)
	return tw
}

// Active reports whether any track is still running.
func (tw *Tween) Active() bool { return len(tw.tracks) > 0 }

// Cancel drops every track where it stands. Done callbacks do not run.
func (tw *Tween) Cancel() { tw.tracks = nil }

// Update advances every track by dt seconds and applies the values.
func (tw *Tween) Update(dt float32) {
	if len(tw.tracks) == 0 {
		return
	}
	t := tw.Transform()
	running := tw.tracks
	tw.tracks = nil
	var kept []tweenTrack
	var finished []func()
	for _, tr := range running {
		var v mgl32.Vec3
		allDone := true
		for i, g := range tr.tweens {
			val, done := g.Update(dt)
			v[i] = val
			if !done {
				allDone = false
			}
		}
		tr.apply(t, v)
		if allDone {
			if tr.done != nil {
				finished = append(finished, tr.done)
			}
			continue
		}
		kept = append(kept, tr)
	}
	// Tracks added by hooks during this step run from the next one.
	tw.tracks = append(kept, tw.tracks...)
	for _, fn := range finished {
		fn()
	}
}

// OnDestroy drops every track.
func (tw *Tween) OnDestroy() {
	tw.tracks = nil
}
