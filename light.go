package trellis

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// LightKind selects how a Light illuminates the scene.
type LightKind uint8

const (
	LightPoint       LightKind = iota // radiates from the entity position up to Range
	LightDirectional                  // parallel rays along the entity's world forward
	LightSpot                         // cone along world forward, SpotAngle wide, up to Range
)

func (k LightKind) String() string {
	switch k {
	case LightPoint:
		return "point"
	case LightDirectional:
		return "directional"
	case LightSpot:
		return "spot"
	}
	return "unknown"
}

// Light is a light source placed by its entity's transform.
type Light struct {
	BaseComponent

	Kind        LightKind
	Color       Color
	Intensity   float32
	Range       float32
	SpotAngle   float32 // full cone angle in radians
	CastShadows bool
}

// Start configures a white point light of range 10.
func (l *Light) Start() {
	l.Kind = LightPoint
	l.Color = ColorWhite
	l.Intensity = 1
	l.Range = 10
	l.SpotAngle = math.Pi / 4
}

// Position returns the light's world-space position.
func (l *Light) Position() mgl32.Vec3 {
	return l.Transform().GlobalPosition()
}

// Direction returns the world-space direction the light points in.
func (l *Light) Direction() mgl32.Vec3 {
	return l.Transform().WorldForward()
}

// Radiance returns the light's color scaled by intensity.
func (l *Light) Radiance() mgl32.Vec3 {
	return l.Color.Vec3().Mul(l.Intensity)
}

// Attenuation returns the fraction of the light's intensity reaching p,
// in [0, 1]. Directional lights always reach 1. Point and spot lights fall
// off quadratically to zero at Range; spot lights are zero outside the cone.
func (l *Light) Attenuation(p mgl32.Vec3) float32 {
	if l.Kind == LightDirectional {
		return 1
	}
	if l.Range <= 0 {
		return 0
	}
	to := p.Sub(l.Position())
	d := to.Len()
	if d > l.Range {
		return 0
	}
	if l.Kind == LightSpot && d > 0 {
		cos := to.Mul(1 / d).Dot(l.Direction())
		if cos < float32(math.Cos(float64(l.SpotAngle/2))) {
			return 0
		}
	}
	f := 1 - d/l.Range
	return f * f
}

// Affects reports whether p receives any light.
func (l *Light) Affects(p mgl32.Vec3) bool {
	return l.Attenuation(p) > 0
}
