package trellis

import (
	"math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl32"
)

// particle holds per-particle simulation state. Unexported; managed by ParticleSystem.
type particle struct {
	pos, vel   mgl32.Vec3
	life       float32 // remaining lifetime in seconds
	maxLife    float32 // initial lifetime (for computing t)
	startScale float32
	endScale   float32
	scale      float32
	startAlpha float32
	endAlpha   float32
	alpha      float32
	startColor mgl32.Vec3
	endColor   mgl32.Vec3
	color      mgl32.Vec3
}

// Particle is the render view of one live particle.
type Particle struct {
	Position mgl32.Vec3 // world space
	Scale    float32
	Color    Color
}

// EmitterConfig controls how particles are spawned and behave.
type EmitterConfig struct {
	// MaxParticles is the pool size. New particles are silently dropped when full.
	MaxParticles int
	// EmitRate is the number of particles spawned per second.
	EmitRate float32
	// Lifetime is the range of particle lifetimes in seconds.
	Lifetime Range
	// Speed is the range of initial particle speeds in units per second.
	Speed Range
	// Spread is the half angle in radians of the emission cone around the
	// emitter's forward axis. Zero emits straight ahead.
	Spread float32
	// StartScale is the range of scale factors at birth, interpolated to EndScale over lifetime.
	StartScale Range
	// EndScale is the range of scale factors at death.
	EndScale Range
	// StartAlpha is the range of alpha values at birth, interpolated to EndAlpha over lifetime.
	StartAlpha Range
	// EndAlpha is the range of alpha values at death.
	EndAlpha Range
	// Gravity is the constant acceleration applied to all particles.
	Gravity mgl32.Vec3
	// StartColor is the tint at birth, interpolated to EndColor over lifetime.
	StartColor Color
	// EndColor is the tint at death.
	EndColor Color
	// WorldSpace, when true, causes particles to keep their world position
	// once emitted rather than following the emitter entity.
	WorldSpace bool
	// Material is the host's material index used to draw each particle.
	Material int
}

// ParticleSystem is a CPU-simulated particle emitter attached to an entity.
// Particles are simulated on Update, so a disabled system freezes.
type ParticleSystem struct {
	BaseComponent

	config    EmitterConfig
	particles []particle
	alive     int
	emitAccum float32
	active    bool
	rng       *rand.Rand
}

// Start allocates a default pool of 128 particles.
func (p *ParticleSystem) Start() {
	p.Configure(EmitterConfig{
		MaxParticles: 128,
		EmitRate:     10,
		Lifetime:     Range{1, 1},
		Speed:        Range{1, 1},
		StartScale:   Range{1, 1},
		EndScale:     Range{1, 1},
		StartAlpha:   Range{1, 1},
		EndAlpha:     Range{0, 0},
		StartColor:   ColorWhite,
		EndColor:     ColorWhite,
		Material:     -1,
	})
}

// Configure replaces the config, reallocating the pool and killing every
// live particle.
func (p *ParticleSystem) Configure(cfg EmitterConfig) {
	if cfg.MaxParticles <= 0 {
		cfg.MaxParticles = 128
	}
	p.config = cfg
	p.particles = make([]particle, cfg.MaxParticles)
	p.alive = 0
	p.emitAccum = 0
}

// Config returns a pointer to the config for live tuning. Changing
// MaxParticles through it has no effect; use Configure.
func (p *ParticleSystem) Config() *EmitterConfig {
	return &p.config
}

// Seed makes emission deterministic.
func (p *ParticleSystem) Seed(seed uint64) {
	p.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Play begins emitting particles.
func (p *ParticleSystem) Play() {
	p.active = true
}

// Stop stops emitting new particles. Existing particles continue to live out.
func (p *ParticleSystem) Stop() {
	p.active = false
}

// Reset stops emitting and kills all alive particles.
func (p *ParticleSystem) Reset() {
	p.active = false
	p.alive = 0
	p.emitAccum = 0
}

// IsActive reports whether the system is currently emitting new particles.
func (p *ParticleSystem) IsActive() bool {
	return p.active
}

// AliveCount returns the number of alive particles.
func (p *ParticleSystem) AliveCount() int {
	return p.alive
}

// Update advances the simulation by dt seconds.
func (p *ParticleSystem) Update(dt float32) {
	g := p.config.Gravity.Mul(dt)

	// Update existing particles, swap-remove dead ones.
	i := 0
	for i < p.alive {
		pt := &p.particles[i]
		pt.life -= dt
		if pt.life <= 0 {
			p.alive--
			p.particles[i] = p.particles[p.alive]
			continue
		}
		pt.vel = pt.vel.Add(g)
		pt.pos = pt.pos.Add(pt.vel.Mul(dt))

		t := 1 - pt.life/pt.maxLife
		pt.scale = lerp32(pt.startScale, pt.endScale, t)
		pt.alpha = lerp32(pt.startAlpha, pt.endAlpha, t)
		pt.color = pt.startColor.Add(pt.endColor.Sub(pt.startColor).Mul(t))
		i++
	}

	if p.active && p.config.EmitRate > 0 {
		p.emitAccum += p.config.EmitRate * dt
		for p.emitAccum >= 1 {
			p.emitAccum--
			if p.alive < len(p.particles) {
				p.spawn()
			}
		}
	}
}

// spawn initializes the particle at slot p.alive and increments alive.
func (p *ParticleSystem) spawn() {
	pt := &p.particles[p.alive]

	dir := p.emitDirection()
	speed := p.config.Speed.sample(p.rng)
	if p.config.WorldSpace {
		tr := p.Transform()
		pt.pos = tr.GlobalPosition()
		pt.vel = tr.GlobalRotation().Rotate(dir).Mul(speed)
	} else {
		pt.pos = mgl32.Vec3{}
		pt.vel = dir.Mul(speed)
	}

	pt.life = p.config.Lifetime.sample(p.rng)
	if pt.life <= 0 {
		pt.life = 1
	}
	pt.maxLife = pt.life

	pt.startScale = p.config.StartScale.sample(p.rng)
	pt.endScale = p.config.EndScale.sample(p.rng)
	pt.scale = pt.startScale
	pt.startAlpha = p.config.StartAlpha.sample(p.rng)
	pt.endAlpha = p.config.EndAlpha.sample(p.rng)
	pt.alpha = pt.startAlpha
	pt.startColor = p.config.StartColor.Vec3()
	pt.endColor = p.config.EndColor.Vec3()
	pt.color = pt.startColor

	p.alive++
}

// emitDirection picks a local-space direction inside the spread cone
// around AxisForward.
func (p *ParticleSystem) emitDirection() mgl32.Vec3 {
	if p.config.Spread <= 0 {
		return AxisForward
	}
	theta := Range{0, p.config.Spread}.sample(p.rng)
	phi := Range{0, 2 * math.Pi}.sample(p.rng)
	st, ct := math.Sincos(float64(theta))
	sp, cp := math.Sincos(float64(phi))
	return mgl32.Vec3{float32(st * cp), float32(st * sp), float32(ct)}
}

// Particles appends the live particles in world space to dst and returns it.
func (p *ParticleSystem) Particles(dst []Particle) []Particle {
	var world mgl32.Mat4
	if !p.config.WorldSpace {
		world = p.Transform().WorldMatrix()
	}
	for i := 0; i < p.alive; i++ {
		pt := &p.particles[i]
		pos := pt.pos
		if !p.config.WorldSpace {
			pos = mgl32.TransformCoordinate(pos, world)
		}
		dst = append(dst, Particle{
			Position: pos,
			Scale:    pt.scale,
			Color:    Color{pt.color[0], pt.color[1], pt.color[2], pt.alpha},
		})
	}
	return dst
}

// lerp32 linearly interpolates between a and b by t.
func lerp32(a, b, t float32) float32 {
	return a + (b-a)*t
}

// sample returns a random float32 in [Min, Max]. A nil rng uses the
// package-level source.
func (r Range) sample(rng *rand.Rand) float32 {
	if r.Min == r.Max {
		return r.Min
	}
	var f float32
	if rng != nil {
		f = rng.Float32()
	} else {
		f = rand.Float32()
	}
	return r.Min + f*(r.Max-r.Min)
}

// Random returns a random float32 in [Min, Max].
func (r Range) Random() float32 {
	return r.sample(nil)
}
