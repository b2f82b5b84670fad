package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/shardfall/internal/config"
	"github.com/tomz197/shardfall/internal/event"
	"github.com/tomz197/shardfall/internal/input"
	"github.com/tomz197/shardfall/internal/logging"
	"github.com/tomz197/shardfall/internal/object"
	"github.com/tomz197/shardfall/internal/physics"
	"github.com/tomz197/shardfall/internal/wave"
)

const tick = time.Second / 60

func newTestSession(t *testing.T, mutate func(*config.Config)) (*Session, *event.Recorder) {
	t.Helper()
	cfg := config.Default()
	if mutate != nil {
		mutate(&cfg)
	}
	require.NoError(t, cfg.Validate())

	rec := &event.Recorder{}
	s := New(cfg, WithSeed(1), WithLogger(logging.Discard()), WithListener(rec.Listen))
	s.Start()
	return s, rec
}

func firstOfSize(t *testing.T, s *Session, size object.AsteroidSize) *object.Asteroid {
	t.Helper()
	for _, a := range s.Asteroids.Active() {
		if a.Size == size {
			return a
		}
	}
	t.Fatalf("no %s asteroid on the field", size)
	return nil
}

func TestSession_Start(t *testing.T) {
	s, rec := newTestSession(t, nil)

	st := s.Status()
	assert.Equal(t, Playing, st.State)
	assert.Equal(t, 3, st.Lives)
	assert.Equal(t, 1, st.Wave.Wave)
	assert.Equal(t, wave.Active, st.Wave.State)
	assert.Equal(t, 3, st.Asteroids)
	assert.Equal(t, 1, rec.Count(event.WaveStarted))
	assert.Equal(t, 3, rec.Count(event.AsteroidSpawned))
	assert.True(t, s.Ship.IsInvincible())

	for _, a := range s.Asteroids.Active() {
		assert.GreaterOrEqual(t, physics.Dist(a.Position, s.Ship.Position), s.cfg.Spawn.AvoidRadius)
	}
}

func TestSession_DestructionIsAtomic(t *testing.T) {
	s, rec := newTestSession(t, nil)
	rec.Drain()

	a := firstOfSize(t, s, object.AsteroidLarge)
	id := a.ID
	a.Health = s.cfg.Bullets.Damage
	before := s.Asteroids.ActiveCount()

	s.resolveHits([]object.Hit{{Asteroid: a, AsteroidID: id, Damage: s.cfg.Bullets.Damage}})

	split, ok := rec.Last(event.AsteroidSplit)
	require.True(t, ok)
	frags := split.Payload.([]object.AsteroidData)

	assert.False(t, a.IsActive() && a.ID == id, "the hit asteroid is pooled")
	assert.Equal(t, before-1+len(frags), s.Asteroids.ActiveCount())
	assert.Equal(t, s.cfg.Shards.YieldLarge, s.Shards.ActiveCount())
	assert.Equal(t, s.cfg.Asteroids.Large.Score, s.Status().Score)
	assert.Equal(t, 1, s.Waves.Status().AsteroidsDestroyed)

	// Split, destroy, fragments, then shards.
	var order []event.Type
	for _, e := range rec.Events {
		if len(order) == 0 || order[len(order)-1] != e.Type {
			order = append(order, e.Type)
		}
	}
	assert.Equal(t, []event.Type{
		event.AsteroidSplit,
		event.AsteroidDestroyed,
		event.AsteroidSpawned,
		event.ShardSpawned,
	}, order)
}

func TestSession_NonLethalHitOnlyDamages(t *testing.T) {
	s, rec := newTestSession(t, nil)
	a := firstOfSize(t, s, object.AsteroidLarge)

	s.resolveHits([]object.Hit{{Asteroid: a, AsteroidID: a.ID, Damage: 20}})
	assert.True(t, a.IsActive())
	assert.Equal(t, 80, a.Health)
	assert.Equal(t, 1, a.DamageTier())
	assert.Zero(t, rec.Count(event.AsteroidDestroyed))
}

func TestSession_StaleHitIsSkipped(t *testing.T) {
	s, rec := newTestSession(t, nil)
	a := firstOfSize(t, s, object.AsteroidLarge)
	health := a.Health

	s.resolveHits([]object.Hit{{Asteroid: a, AsteroidID: a.ID + 100, Damage: 1000}})
	assert.Equal(t, health, a.Health)
	assert.Zero(t, rec.Count(event.AsteroidDestroyed))
}

func TestSession_BulletDestroysAsteroid(t *testing.T) {
	s, rec := newTestSession(t, nil)

	a := firstOfSize(t, s, object.AsteroidLarge)
	a.Position = s.Bounds().Center()
	a.Velocity = physics.Vec{}
	a.Health = 1

	// Park the ship just left of the asteroid, facing it.
	s.Ship.Respawn(a.Position.Sub(physics.Vec{a.Radius + s.Ship.Radius + 5, 0}), time.Hour)
	s.Ship.Angle = 0

	s.Update(tick, input.Input{Space: true})
	for i := 0; i < 30 && rec.Count(event.AsteroidDestroyed) == 0; i++ {
		s.Update(tick, input.Input{})
	}

	assert.Equal(t, 1, rec.Count(event.BulletHit))
	assert.Equal(t, 1, rec.Count(event.AsteroidDestroyed))
	assert.Equal(t, s.cfg.Asteroids.Large.Score, s.Status().Score)
}

func TestSession_DeathKeepsWave(t *testing.T) {
	s, rec := newTestSession(t, nil)
	waveBefore := s.Waves.Status()

	s.Ship.Invincible = 0
	a := s.Asteroids.Active()[0]
	a.Position = s.Ship.Position
	a.Velocity = physics.Vec{}

	s.Update(tick, input.Input{})
	st := s.Status()
	assert.Equal(t, Respawning, st.State)
	assert.Equal(t, 2, st.Lives)
	assert.Equal(t, 1, rec.Count(event.PlayerDied))
	assert.Equal(t, waveBefore.Wave, st.Wave.Wave)
	assert.Equal(t, wave.Active, st.Wave.State)

	s.Update(s.cfg.Player.RespawnDelay, input.Input{})
	assert.Equal(t, Playing, s.State())
	assert.True(t, s.Ship.IsInvincible())
	assert.Equal(t, 1, rec.Count(event.PlayerRespawned))
	assert.Equal(t, waveBefore.Wave, s.Waves.Wave())
}

func TestSession_GameOver(t *testing.T) {
	s, rec := newTestSession(t, func(c *config.Config) { c.Player.Lives = 1 })

	s.Ship.Invincible = 0
	a := s.Asteroids.Active()[0]
	a.Position = s.Ship.Position
	a.Velocity = physics.Vec{}

	s.Update(tick, input.Input{})
	assert.Equal(t, GameOver, s.State())
	assert.Zero(t, s.Status().Lives)

	tickBefore := s.Status().Tick
	s.Update(tick, input.Input{})
	assert.Equal(t, tickBefore, s.Status().Tick, "a finished session does not advance")

	s.Start()
	assert.Equal(t, Playing, s.State())
	assert.Equal(t, 1, s.Status().Lives)
	assert.Equal(t, 2, rec.Count(event.WaveStarted))
	assert.Equal(t, 1, s.Waves.Wave())
}

func TestSession_ClearingWaveAdvances(t *testing.T) {
	s, rec := newTestSession(t, nil)

	for s.Asteroids.ActiveCount() > 0 {
		s.destroyAsteroid(s.Asteroids.Active()[0])
	}
	assert.Zero(t, rec.Count(event.WaveCompleted), "completion is only checked in the wave step")

	s.Update(tick, input.Input{})
	require.Equal(t, 1, rec.Count(event.WaveCompleted))
	assert.True(t, s.Status().Wave.IsIntermission)

	s.Update(s.cfg.Wave.Intermission, input.Input{})
	assert.Equal(t, 2, s.Waves.Wave())
	assert.Equal(t, 3, s.Asteroids.ActiveCount())
}

func TestSession_CollectsShards(t *testing.T) {
	s, rec := newTestSession(t, nil)

	s.Shards.SpawnFromAsteroid(object.AsteroidData{Size: object.AsteroidMedium, Position: s.Ship.Position}, 1)
	require.Equal(t, 3, s.Shards.ActiveCount())

	s.Update(tick, input.Input{})
	assert.Equal(t, 3*s.cfg.Shards.Value, s.Status().Shards)
	assert.Zero(t, s.Shards.ActiveCount())
	assert.Equal(t, 3, rec.Count(event.ShardCollected))
}

func TestSession_Deterministic(t *testing.T) {
	run := func() (Status, []physics.Vec) {
		s := New(config.Default(), WithSeed(99), WithLogger(logging.Discard()))
		s.Start()
		for i := 0; i < 600; i++ {
			in := input.Input{Space: i%3 == 0, Right: i%120 < 40, Up: i%200 < 20}
			s.Update(tick, in)
		}
		var pos []physics.Vec
		for _, a := range s.Asteroids.Active() {
			pos = append(pos, a.Position)
		}
		return s.Status(), pos
	}

	st1, pos1 := run()
	st2, pos2 := run()
	assert.Equal(t, st1, st2)
	assert.Equal(t, pos1, pos2)
	assert.Equal(t, uint64(600), st1.Tick)
}

func TestSession_CapacityHolds(t *testing.T) {
	s, _ := newTestSession(t, func(c *config.Config) {
		c.Asteroids.MaxActive = 6
		c.Shards.MaxActive = 8
	})

	for i := 0; i < 20 && s.Asteroids.ActiveCount() > 0; i++ {
		s.destroyAsteroid(s.Asteroids.Active()[0])
		assert.LessOrEqual(t, s.Asteroids.ActiveCount(), 6)
		assert.LessOrEqual(t, s.Shards.ActiveCount(), 8)
	}
}
