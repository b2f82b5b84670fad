package object

import (
	"time"

	"github.com/tomz197/shardfall/internal/physics"
)

// Bullet is a shot fired by the player. It hits at most one asteroid.
type Bullet struct {
	ID         uint64
	OwnerID    uint64 // Ship that fired it
	Position   physics.Vec
	Velocity   physics.Vec
	Damage     int
	TimeToLive time.Duration
	Radius     float64

	active bool
	bounds physics.Bounds
}

// BulletData is a value snapshot of a bullet.
type BulletData struct {
	ID         uint64
	Damage     int
	Velocity   physics.Vec
	TimeToLive time.Duration
	OwnerID    uint64
}

// Fire activates the bullet. Damage and lifetime are fixed from here on.
func (b *Bullet) Fire(pos, vel physics.Vec, damage int, ttl time.Duration, owner uint64) {
	b.Position = pos
	b.Velocity = vel
	b.Damage = damage
	b.TimeToLive = ttl
	b.OwnerID = owner
	b.active = true
}

// IsActive reports whether the bullet is in flight.
func (b *Bullet) IsActive() bool {
	return b.active
}

// Update moves the bullet and counts down its lifetime.
// Returns true once the bullet has expired.
func (b *Bullet) Update(dt time.Duration) (expired bool) {
	if !b.active {
		return false
	}

	b.TimeToLive -= dt
	if b.TimeToLive <= 0 {
		b.TimeToLive = 0
		return true
	}

	b.Position = b.bounds.Wrap(b.Position.Add(b.Velocity.Mul(dt.Seconds())), b.Radius)
	return false
}

// MarkHit takes the bullet out of play after its single hit.
func (b *Bullet) MarkHit() {
	b.active = false
}

// Reset returns the bullet to its pooled state.
func (b *Bullet) Reset() {
	b.active = false
	b.Velocity = physics.Vec{}
	b.TimeToLive = 0
	b.Damage = 0
	b.OwnerID = 0
	b.Position = Parked
}

// Data returns a snapshot of the bullet.
func (b *Bullet) Data() BulletData {
	return BulletData{
		ID:         b.ID,
		Damage:     b.Damage,
		Velocity:   b.Velocity,
		TimeToLive: b.TimeToLive,
		OwnerID:    b.OwnerID,
	}
}
