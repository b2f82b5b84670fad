package object

import (
	"math"
	"time"

	"github.com/tomz197/shardfall/internal/config"
	"github.com/tomz197/shardfall/internal/physics"
)

// Ship is the player-controlled spaceship (Asteroids-style).
type Ship struct {
	ID        uint64
	Position  physics.Vec // Center of the ship
	Velocity  physics.Vec // Momentum
	Angle     float64     // Rotation in radians (0 = pointing right)
	Radius    float64
	Thrusting bool

	// Invincible counts down after a respawn; asteroids pass through meanwhile.
	Invincible time.Duration

	cfg    config.PlayerConfig
	bounds physics.Bounds
}

// NewShip creates a ship at the center of the playfield pointing up.
func NewShip(id uint64, cfg config.PlayerConfig, bounds physics.Bounds) *Ship {
	s := &Ship{
		ID:     id,
		Radius: cfg.Radius,
		cfg:    cfg,
		bounds: bounds,
	}
	s.Respawn(bounds.Center(), 0)
	return s
}

// Respawn places the ship at pos, at rest and pointing up, shielded for invincible.
func (s *Ship) Respawn(pos physics.Vec, invincible time.Duration) {
	s.Position = pos
	s.Velocity = physics.Vec{}
	s.Angle = -math.Pi / 2
	s.Thrusting = false
	s.Invincible = invincible
}

// Update handles rotation, thrust and momentum physics.
func (s *Ship) Update(dt time.Duration, in Input) {
	sec := dt.Seconds()

	if s.Invincible > 0 {
		s.Invincible = max(0, s.Invincible-dt)
	}

	// Rotation (left/right)
	if in.Left || in.UpLeft {
		s.Angle -= s.cfg.Rotation * sec
	}
	if in.Right || in.UpRight {
		s.Angle += s.cfg.Rotation * sec
	}

	// Normalize angle to [-π, π]
	for s.Angle > math.Pi {
		s.Angle -= 2 * math.Pi
	}
	for s.Angle < -math.Pi {
		s.Angle += 2 * math.Pi
	}

	// Thrust (accelerate in facing direction), drag otherwise
	s.Thrusting = in.Up || in.UpLeft || in.UpRight
	if s.Thrusting {
		s.Velocity = s.Velocity.Add(physics.FromAngle(s.Angle).Mul(s.cfg.Thrust * sec))
	} else {
		s.Velocity = s.Velocity.Mul(math.Pow(s.cfg.Drag, sec))
	}

	// Clamp to max speed
	if speed := s.Velocity.Len(); speed > s.cfg.MaxSpeed && speed > 0 {
		s.Velocity = s.Velocity.Mul(s.cfg.MaxSpeed / speed)
	}

	s.Position = s.bounds.Wrap(s.Position.Add(s.Velocity.Mul(sec)), s.Radius)
}

// Nose returns the tip of the ship, where bullets leave.
func (s *Ship) Nose() physics.Vec {
	return s.Position.Add(physics.FromAngle(s.Angle).Mul(s.Radius))
}

// IsInvincible reports whether the ship is still shielded after a respawn.
func (s *Ship) IsInvincible() bool {
	return s.Invincible > 0
}
