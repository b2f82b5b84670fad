package object

import (
	"math"
	"math/rand"
	"time"

	"github.com/tomz197/shardfall/internal/config"
	"github.com/tomz197/shardfall/internal/physics"
)

// Magnet pulls shards toward Target once they are within Radius.
type Magnet struct {
	Target physics.Vec
	Radius float64
	Force  float64 // Pull speed at zero distance, falling off linearly to 0 at Radius
	Blend  float64 // Share of the pull mixed into velocity each update
}

// Shard is a piece of currency dropped by destroyed asteroids.
type Shard struct {
	ID         uint64
	Value      int
	Position   physics.Vec
	Velocity   physics.Vec
	TimeToLive time.Duration
	Lifespan   time.Duration
	Attracting bool    // Within the magnet radius (presentation only)
	Alpha      float64 // 1 until the fade threshold, then down to 0 (presentation only)
	Radius     float64

	active bool
	cfg    *config.ShardConfig
	bounds physics.Bounds
	rng    *rand.Rand
}

// Spawn activates the shard at pos with a small burst in a random direction.
func (s *Shard) Spawn(pos physics.Vec, id uint64) {
	s.ID = id
	s.Value = s.cfg.Value
	s.Position = pos
	s.Velocity = physics.FromAngle(physics.Angle(s.rng)).Mul(s.cfg.ScatterSpeed)
	s.Lifespan = s.cfg.Lifespan
	s.TimeToLive = s.cfg.Lifespan
	s.Attracting = false
	s.Alpha = 1
	s.active = true
}

// IsActive reports whether the shard is in play.
func (s *Shard) IsActive() bool {
	return s.active
}

// Update counts down the lifetime, then applies the magnet when given one.
// Returns true once the shard has expired; an expired shard does not move.
func (s *Shard) Update(dt time.Duration, mag *Magnet) (expired bool) {
	if !s.active {
		return false
	}

	s.TimeToLive -= dt
	if s.TimeToLive <= 0 {
		s.TimeToLive = 0
		s.Alpha = 0
		return true
	}

	sec := dt.Seconds()
	s.Attracting = false
	if mag != nil && mag.Radius > 0 {
		toTarget := mag.Target.Sub(s.Position)
		if d := toTarget.Len(); d <= mag.Radius {
			s.Attracting = true
			pull := physics.Unit(toTarget).Mul(mag.Force * (1 - d/mag.Radius))
			s.Velocity = physics.Lerp(s.Velocity, pull, mag.Blend)
		}
	}
	if !s.Attracting {
		// Normalize drag to ~60fps
		s.Velocity = s.Velocity.Mul(math.Pow(s.cfg.Drag, sec*60))
	}

	s.Position = s.bounds.Wrap(s.Position.Add(s.Velocity.Mul(sec)), s.Radius)

	s.Alpha = 1
	if s.Lifespan > 0 && s.cfg.FadeThreshold > 0 {
		frac := float64(s.TimeToLive) / float64(s.Lifespan)
		if frac < s.cfg.FadeThreshold {
			s.Alpha = frac / s.cfg.FadeThreshold
		}
	}
	return false
}

// Collect takes the shard out of play and returns its value.
// Collecting an inactive shard yields nothing.
func (s *Shard) Collect() int {
	if !s.active {
		return 0
	}
	s.active = false
	return s.Value
}

// Reset returns the shard to its pooled state.
func (s *Shard) Reset() {
	s.active = false
	s.Velocity = physics.Vec{}
	s.TimeToLive = 0
	s.Attracting = false
	s.Alpha = 1
	s.Position = Parked
}
