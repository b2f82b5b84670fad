package object

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/shardfall/internal/config"
	"github.com/tomz197/shardfall/internal/physics"
)

func TestShip_ThrustDragAndClamp(t *testing.T) {
	cfg := config.Default().Player
	s := NewShip(1, cfg, testBounds)
	assert.Equal(t, testBounds.Center(), s.Position)
	assert.InDelta(t, -math.Pi/2, s.Angle, 1e-12)

	s.Update(100*time.Millisecond, Input{Up: true})
	assert.True(t, s.Thrusting)
	assert.InDelta(t, -cfg.Thrust*0.1, s.Velocity[1], 1e-9)

	for i := 0; i < 100; i++ {
		s.Update(100*time.Millisecond, Input{Up: true})
	}
	assert.InDelta(t, cfg.MaxSpeed, s.Velocity.Len(), 1e-9)

	s.Update(time.Second, Input{})
	assert.False(t, s.Thrusting)
	assert.InDelta(t, cfg.MaxSpeed*cfg.Drag, s.Velocity.Len(), 1e-9)
}

func TestShip_Rotation(t *testing.T) {
	cfg := config.Default().Player
	s := NewShip(1, cfg, testBounds)

	s.Update(100*time.Millisecond, Input{Right: true})
	assert.InDelta(t, -math.Pi/2+cfg.Rotation*0.1, s.Angle, 1e-9)

	for i := 0; i < 100; i++ {
		s.Update(100*time.Millisecond, Input{Left: true})
		assert.LessOrEqual(t, math.Abs(s.Angle), math.Pi)
	}
}

func TestShip_InvincibilityCountsDown(t *testing.T) {
	cfg := config.Default().Player
	s := NewShip(1, cfg, testBounds)
	s.Respawn(physics.Vec{10, 10}, cfg.Invincibility)

	assert.True(t, s.IsInvincible())
	s.Update(cfg.Invincibility-time.Millisecond, Input{})
	assert.True(t, s.IsInvincible())
	s.Update(time.Second, Input{})
	assert.False(t, s.IsInvincible())
	assert.Zero(t, s.Invincible)
}

func TestWeapon_FireRate(t *testing.T) {
	bullets, _ := newTestBulletManager(t, nil)
	cfg := config.Default()
	ship := NewShip(9, cfg.Player, testBounds)
	w := NewWeapon(cfg.Bullets.FireRate, bullets)

	b := w.Update(time.Millisecond, true, ship)
	require.NotNil(t, b)
	assert.Equal(t, uint64(9), b.OwnerID)
	assert.Equal(t, ship.Nose(), b.Position)
	assert.False(t, w.Ready())

	assert.Nil(t, w.Update(cfg.Bullets.FireRate/2, true, ship))
	assert.Nil(t, w.Update(cfg.Bullets.FireRate/2-time.Millisecond, true, ship))
	assert.NotNil(t, w.Update(time.Millisecond, true, ship))
	assert.Equal(t, 2, bullets.ActiveCount())

	assert.Nil(t, w.Update(time.Second, false, ship), "no trigger, no shot")
	assert.True(t, w.Ready())
}

func TestWeapon_NoCooldownWhenBulletsFull(t *testing.T) {
	bullets, _ := newTestBulletManager(t, func(c *config.BulletConfig) { c.MaxActive = 0 })
	cfg := config.Default()
	w := NewWeapon(cfg.Bullets.FireRate, bullets)

	assert.Nil(t, w.Update(time.Millisecond, true, NewShip(1, cfg.Player, testBounds)))
	assert.True(t, w.Ready())
}
