package object

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/shardfall/internal/config"
	"github.com/tomz197/shardfall/internal/physics"
	"github.com/tomz197/shardfall/internal/wave"
)

func TestAsteroidSize_Next(t *testing.T) {
	next, ok := AsteroidLarge.Next()
	assert.True(t, ok)
	assert.Equal(t, AsteroidMedium, next)

	next, ok = AsteroidMedium.Next()
	assert.True(t, ok)
	assert.Equal(t, AsteroidSmall, next)

	_, ok = AsteroidSmall.Next()
	assert.False(t, ok)
	assert.Greater(t, AsteroidLarge, AsteroidMedium)
	assert.Greater(t, AsteroidMedium, AsteroidSmall)
}

func TestAsteroid_FiveHitsDestroyLarge(t *testing.T) {
	m, _ := newTestAsteroidManager(t, nil)
	a := m.GetAsteroid(AsteroidLarge, physics.Vec{400, 300})
	require.NotNil(t, a)
	require.Equal(t, 100, a.Health)

	for i := 0; i < 4; i++ {
		assert.False(t, a.TakeDamage(20), "hit %d", i+1)
	}
	assert.True(t, a.TakeDamage(20))
	assert.Equal(t, 0, a.Health)
	assert.False(t, a.TakeDamage(20), "already at zero")
	assert.Equal(t, 0, a.Health)
}

func TestAsteroid_WaveThreeHealth(t *testing.T) {
	m, _ := newTestAsteroidManager(t, nil)
	m.SetScaling(wave.ScalingFor(3, config.Default().Wave))

	a := m.GetAsteroid(AsteroidLarge, physics.Vec{400, 300})
	require.NotNil(t, a)
	assert.Equal(t, 144, a.MaxHealth)
	assert.Equal(t, 144, a.Health)
}

func TestAsteroid_SpeedScales(t *testing.T) {
	m, _ := newTestAsteroidManager(t, nil)
	m.SetScaling(wave.Scaling{Health: 1, Speed: 2, Yield: 1})

	a := m.GetAsteroid(AsteroidMedium, physics.Vec{400, 300})
	require.NotNil(t, a)
	assert.InDelta(t, 160, a.Velocity.Len(), 1e-9)

	cfg := config.Default().Asteroids.Medium
	assert.GreaterOrEqual(t, a.AngularVelocity, cfg.SpinMin)
	assert.LessOrEqual(t, a.AngularVelocity, cfg.SpinMax)
}

func TestAsteroid_InactiveIgnoresDamage(t *testing.T) {
	m, _ := newTestAsteroidManager(t, nil)
	a := m.GetAsteroid(AsteroidSmall, physics.Vec{400, 300})
	require.NotNil(t, a)
	require.True(t, m.Return(a))

	assert.False(t, a.TakeDamage(1000))
	assert.Equal(t, a.MaxHealth, a.Health)
	assert.False(t, m.Damage(a, 1000))
}

func TestAsteroid_DamageTier(t *testing.T) {
	m, _ := newTestAsteroidManager(t, nil)
	a := m.GetAsteroid(AsteroidLarge, physics.Vec{400, 300})
	require.NotNil(t, a)

	tiers := []struct {
		health, tier int
	}{
		{100, 0}, {81, 0}, {80, 1}, {61, 1}, {60, 2}, {41, 2}, {40, 3}, {21, 3}, {20, 4}, {1, 4},
	}
	for _, tt := range tiers {
		a.Health = tt.health
		assert.Equal(t, tt.tier, a.DamageTier(), "health %d", tt.health)
	}
}

func TestAsteroid_SplitLaw(t *testing.T) {
	m, _ := newTestAsteroidManager(t, nil)
	cfg := config.Default().Asteroids
	scaling := wave.Identity()

	for _, size := range []AsteroidSize{AsteroidLarge, AsteroidMedium} {
		next, _ := size.Next()
		want := sizeConfig(&cfg, next).Health
		counts := map[int]bool{}

		for i := 0; i < 50; i++ {
			a := m.GetAsteroid(size, physics.Vec{400, 300})
			require.NotNil(t, a)

			frags := a.Split(scaling)
			require.GreaterOrEqual(t, len(frags), 2)
			require.LessOrEqual(t, len(frags), 3)
			counts[len(frags)] = true

			for _, f := range frags {
				assert.Equal(t, next, f.Size)
				assert.Equal(t, want, f.Health)
				assert.Equal(t, f.MaxHealth, f.Health)
				assert.Equal(t, a.Position, f.Position)
				assert.GreaterOrEqual(t, f.AngularVelocity, -cfg.FragmentSpin)
				assert.LessOrEqual(t, f.AngularVelocity, cfg.FragmentSpin)
			}
			m.Return(a)
		}
		assert.Len(t, counts, 2, "%s splits should produce both 2 and 3 fragments", size)
	}
}

func TestAsteroid_SplitTerminalAndInactive(t *testing.T) {
	m, _ := newTestAsteroidManager(t, nil)

	small := m.GetAsteroid(AsteroidSmall, physics.Vec{400, 300})
	require.NotNil(t, small)
	assert.Empty(t, small.Split(wave.Identity()))

	large := m.GetAsteroid(AsteroidLarge, physics.Vec{100, 100})
	require.NotNil(t, large)
	m.Return(large)
	assert.Empty(t, large.Split(wave.Identity()))
}

func TestAsteroid_SplitScalesFragmentHealth(t *testing.T) {
	m, _ := newTestAsteroidManager(t, nil)
	a := m.GetAsteroid(AsteroidLarge, physics.Vec{400, 300})
	require.NotNil(t, a)

	frags := a.Split(wave.Scaling{Health: 1.44, Speed: 1, Yield: 1})
	require.NotEmpty(t, frags)
	for _, f := range frags {
		assert.Equal(t, 72, f.MaxHealth) // 50 × 1.44
	}
}

func TestAsteroid_SplitVelocities(t *testing.T) {
	m, _ := newTestAsteroidManager(t, func(c *config.AsteroidConfig) {
		c.Large.MinSplits = 3
		c.Large.MaxSplits = 3
	})
	cfg := config.Default().Asteroids

	a := m.GetAsteroidWithMotion(AsteroidLarge, physics.Vec{400, 300}, physics.Vec{100, 0}, 0)
	require.NotNil(t, a)
	frags := a.Split(wave.Identity())
	require.Len(t, frags, 3)

	inherited := a.Velocity.Mul(cfg.InheritFactor)
	for i, f := range frags {
		scatter := f.Velocity.Sub(inherited)
		speed := scatter.Len()
		assert.GreaterOrEqual(t, speed, cfg.ScatterFactor*100*cfg.ScatterMin-1e-9)
		assert.LessOrEqual(t, speed, cfg.ScatterFactor*100*cfg.ScatterMax+1e-9)

		// Headings stay within jitter of evenly spaced slots.
		slot := 2 * math.Pi * float64(i) / 3
		diff := math.Remainder(physics.Heading(scatter)-slot, 2*math.Pi)
		assert.LessOrEqual(t, math.Abs(diff), cfg.AngleJitter+1e-9, "fragment %d", i)
	}
}

func TestAsteroid_UpdateMovesAndWraps(t *testing.T) {
	m, _ := newTestAsteroidManager(t, nil)
	a := m.GetAsteroidWithMotion(AsteroidSmall, physics.Vec{800 + 11, 300}, physics.Vec{120, 0}, 90)
	require.NotNil(t, a)

	a.Update(100 * time.Millisecond)
	// 811 + 12 = 823 is past the 812 limit, so it reappears on the left.
	assert.InDelta(t, -12+11, a.Position[0], 1e-9)
	assert.Equal(t, 300.0, a.Position[1])
	assert.InDelta(t, math.Mod(a.Rotation, 360), a.Rotation, 1e-9)
}

func TestAsteroid_ResetIsCanonical(t *testing.T) {
	m, _ := newTestAsteroidManager(t, nil)
	m.SetScaling(wave.Scaling{Health: 2, Speed: 1, Yield: 1})
	a := m.GetAsteroid(AsteroidLarge, physics.Vec{400, 300})
	require.NotNil(t, a)
	a.TakeDamage(30)

	m.Return(a)
	assert.False(t, a.IsActive())
	assert.Equal(t, physics.Vec{}, a.Velocity)
	assert.Zero(t, a.AngularVelocity)
	assert.Equal(t, Parked, a.Position)
	assert.False(t, testBounds.Contains(a.Position))
	assert.Equal(t, 100, a.MaxHealth)
	assert.Equal(t, 100, a.Health)
}
