package trellis

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// NotifyAudio broadcasts an audio event to every hierarchy-enabled entity.
// A nil source marks global audio.
func (w *World) NotifyAudio(kind EventKind, filename string, source *Entity) {
	switch kind {
	case EventAudioLoad, EventAudioPlay, EventAudioPause, EventAudioEnd:
	default:
		panic("trellis: NotifyAudio with non-audio kind " + kind.String())
	}
	w.Broadcast(AudioNotification(kind, filename, source), true)
}

// AudioResponse tracks the state of an audio clip from broadcast audio
// events and pulses its entity's scale while the clip plays.
//
// Filename selects the clip; empty matches every clip. With OwnOnly set,
// only events sourced from this entity count, which excludes global audio.
type AudioResponse struct {
	BaseComponent

	Filename   string
	OwnOnly    bool
	PulseScale float32 // relative scale amplitude; 0 disables pulsing
	PulseRate  float32 // pulses per second

	loaded    bool
	playing   bool
	plays     int
	last      string
	baseScale mgl32.Vec3
	phase     float32
}

// Start sets a gentle pulse.
func (a *AudioResponse) Start() {
	a.PulseScale = 0.1
	a.PulseRate = 2
}

// Loaded reports whether a matching load event was seen.
func (a *AudioResponse) Loaded() bool { return a.loaded }

// Playing reports whether a matching clip is playing.
func (a *AudioResponse) Playing() bool { return a.playing }

// Plays returns how many matching play events were seen.
func (a *AudioResponse) Plays() int { return a.plays }

// LastFilename returns the filename of the last matching event.
func (a *AudioResponse) LastFilename() string { return a.last }

func (a *AudioResponse) matches(ev AudioEvent) bool {
	if a.Filename != "" && ev.Filename != a.Filename {
		return false
	}
	if a.OwnOnly && ev.Source != a.Entity() {
		return false
	}
	a.last = ev.Filename
	return true
}

func (a *AudioResponse) OnAudioLoad(ev AudioEvent) {
	if a.matches(ev) {
		a.loaded = true
	}
}

func (a *AudioResponse) OnAudioPlay(ev AudioEvent) {
	if !a.matches(ev) {
		return
	}
	a.plays++
	if !a.playing {
		a.playing = true
		a.baseScale = a.Transform().LocalScale()
		a.phase = 0
	}
}

func (a *AudioResponse) OnAudioPause(ev AudioEvent) {
	if a.matches(ev) {
		a.stop()
	}
}

func (a *AudioResponse) OnAudioEnd(ev AudioEvent) {
	if a.matches(ev) {
		a.stop()
	}
}

// OnDisable restores the resting scale.
func (a *AudioResponse) OnDisable() {
	a.stop()
}

func (a *AudioResponse) stop() {
	if !a.playing {
		return
	}
	a.playing = false
	if a.PulseScale != 0 {
		a.Transform().SetScale(a.baseScale)
	}
}

// Update advances the pulse.
func (a *AudioResponse) Update(dt float32) {
	if !a.playing || a.PulseScale == 0 {
		return
	}
	a.phase += dt * a.PulseRate * 2 * math.Pi
	if a.phase > 2*math.Pi {
		a.phase -= 2 * math.Pi
	}
	f := 1 + a.PulseScale*float32(math.Sin(float64(a.phase)))
	a.Transform().SetScale(a.baseScale.Mul(f))
}
