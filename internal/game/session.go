// Package game ties the entity managers, spawner and wave manager into one
// playable session with a fixed update order.
package game

import (
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/shardfall/internal/config"
	"github.com/tomz197/shardfall/internal/event"
	"github.com/tomz197/shardfall/internal/input"
	"github.com/tomz197/shardfall/internal/logging"
	"github.com/tomz197/shardfall/internal/object"
	"github.com/tomz197/shardfall/internal/physics"
	"github.com/tomz197/shardfall/internal/wave"
)

// State is the player's situation within the session.
type State int

const (
	Idle State = iota
	Playing
	Respawning
	GameOver
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Playing:
		return "playing"
	case Respawning:
		return "respawning"
	case GameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// playerID owns every bullet fired in a single-player session.
const playerID = 1

// Option configures a Session.
type Option func(*options)

type options struct {
	seed      int64
	seeded    bool
	logger    *log.Logger
	listeners []event.Listener
}

// WithSeed makes the session deterministic.
func WithSeed(seed int64) Option {
	return func(o *options) {
		o.seed = seed
		o.seeded = true
	}
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithListener subscribes l to every event the session emits.
func WithListener(l event.Listener) Option {
	return func(o *options) {
		o.listeners = append(o.listeners, l)
	}
}

// Status is a read-only snapshot for the HUD.
type Status struct {
	State     State
	Wave      wave.Status
	Score     int
	Shards    int
	Lives     int
	RespawnIn time.Duration
	Asteroids int
	Bullets   int
	Loose     int // Shards on the field
	Tick      uint64
}

// Session is one game: a ship, the entity managers and the wave manager,
// updated in a fixed order each tick.
type Session struct {
	cfg    config.Config
	bounds physics.Bounds
	bus    *event.Bus
	logger *log.Logger

	Ship      *object.Ship
	Weapon    *object.Weapon
	Asteroids *object.AsteroidManager
	Bullets   *object.BulletManager
	Shards    *object.ShardManager
	Spawner   *object.Spawner
	Waves     *wave.Manager

	state   State
	score   int
	shards  int
	lives   int
	respawn time.Duration
	tick    uint64
}

// New builds a session from cfg. Call Start to begin playing.
func New(cfg config.Config, opts ...Option) *Session {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if !o.seeded {
		o.seed = time.Now().UnixNano()
	}

	bus := event.NewBus()
	for _, l := range o.listeners {
		bus.Subscribe(l)
	}

	logger := logging.OrDiscard(o.logger)
	rng := rand.New(rand.NewSource(o.seed))
	bounds := physics.Bounds{Width: cfg.World.Width, Height: cfg.World.Height}

	s := &Session{
		cfg:    cfg,
		bounds: bounds,
		bus:    bus,
		logger: logger.WithPrefix("game"),
	}

	s.Asteroids = object.NewAsteroidManager(cfg.Asteroids, bounds, rng, bus, logger)
	s.Bullets = object.NewBulletManager(cfg.Bullets, cfg.Asteroids.MaxRadius(), bounds, bus, logger)
	s.Shards = object.NewShardManager(cfg.Shards, bounds, rng, bus, logger)
	s.Spawner = object.NewSpawner(s.Asteroids, cfg.Spawn, bounds, rng, logger)
	s.Waves = wave.NewManager(cfg.Wave, cfg.Asteroids.MaxActive, s.Asteroids, s.Spawner, bus, logger)
	s.Ship = object.NewShip(playerID, cfg.Player, bounds)
	s.Weapon = object.NewWeapon(cfg.Bullets.FireRate, s.Bullets)

	s.logger.Debug("session created", "seed", o.seed)
	return s
}

// Bus returns the event bus so observers can subscribe.
func (s *Session) Bus() *event.Bus {
	return s.bus
}

// Bounds returns the playfield.
func (s *Session) Bounds() physics.Bounds {
	return s.bounds
}

// Config returns the configuration the session was built with.
func (s *Session) Config() config.Config {
	return s.cfg
}

// State returns the player's state.
func (s *Session) State() State {
	return s.state
}

// Start (re)starts the session: every entity goes back to its pool, the ship
// respawns shielded in the center and wave 1 begins.
func (s *Session) Start() {
	s.Asteroids.Reset()
	s.Bullets.Reset()
	s.Shards.Reset()
	s.Waves.Reset()
	s.Weapon.Reset()

	s.score = 0
	s.shards = 0
	s.lives = s.cfg.Player.Lives
	s.respawn = 0
	s.tick = 0
	s.state = Playing

	s.Ship.Respawn(s.bounds.Center(), s.cfg.Player.Invincibility)
	s.Waves.Start(s.Ship.Position)
	s.logger.Info("session started", "lives", s.lives)
}

// Update advances the simulation by dt. The order is fixed: ship, weapon,
// asteroids, bullets, bullet hits, ship contact, shards, waves. Everything a
// destroyed asteroid causes happens inside the hit step, so the wave check at
// the end sees this tick's final asteroid count.
func (s *Session) Update(dt time.Duration, in input.Input) {
	if s.state != Playing && s.state != Respawning {
		return
	}
	s.tick++
	alive := s.state == Playing

	if alive {
		s.Ship.Update(dt, in)
		s.Weapon.Update(dt, in.Space, s.Ship)
	} else {
		s.updateRespawn(dt)
	}

	s.Asteroids.Update(dt)
	s.Asteroids.Collide()
	s.Bullets.Update(dt)
	s.resolveHits(s.Bullets.CheckCollisions(s.Asteroids.Active()))

	if alive {
		s.checkShipContact()
	}

	if s.state == Playing {
		player := s.Ship.Position
		s.Shards.Update(dt, &player)
		s.shards += s.Shards.CheckCollection(player)
	} else {
		s.Shards.Update(dt, nil)
	}

	s.Waves.Update(dt, s.Ship.Position)
}

func (s *Session) resolveHits(hits []object.Hit) {
	for _, h := range hits {
		if h.Stale() {
			continue
		}
		if s.Asteroids.Damage(h.Asteroid, h.Damage) {
			s.destroyAsteroid(h.Asteroid)
		}
	}
}

// destroyAsteroid splits a, pools it, spawns its fragments and shards and
// books the kill, all in one step.
func (s *Session) destroyAsteroid(a *object.Asteroid) {
	data := a.Data()
	points := a.Score()

	frags := s.Asteroids.Split(a)
	s.Asteroids.Destroy(a)
	s.Spawner.SpawnSplits(data, frags)
	s.Shards.SpawnFromAsteroid(data, s.Waves.Scaling().Yield)
	s.Waves.OnAsteroidDestroyed()
	s.score += points
}

func (s *Session) checkShipContact() {
	if s.Ship.IsInvincible() {
		return
	}
	for _, a := range s.Asteroids.Active() {
		if a.IsActive() && physics.Overlap(s.Ship.Position, s.Ship.Radius, a.Position, a.Radius) {
			s.killPlayer(a)
			return
		}
	}
}

// killPlayer costs a life. The wave carries on regardless.
func (s *Session) killPlayer(by *object.Asteroid) {
	s.lives--
	s.Weapon.Reset()
	s.bus.Emit(event.Event{
		Type:     event.PlayerDied,
		ID:       s.Ship.ID,
		Position: s.Ship.Position,
		Value:    s.lives,
		Wave:     s.Waves.Wave(),
	})

	if s.lives <= 0 {
		s.lives = 0
		s.state = GameOver
		s.logger.Info("game over", "wave", s.Waves.Wave(), "score", s.score, "shards", s.shards)
		return
	}

	s.state = Respawning
	s.respawn = s.cfg.Player.RespawnDelay
	s.logger.Debug("player died", "lives", s.lives, "asteroid", by.ID, "size", by.Size)
}

func (s *Session) updateRespawn(dt time.Duration) {
	s.respawn -= dt
	if s.respawn > 0 {
		return
	}
	s.respawn = 0
	s.state = Playing
	s.Ship.Respawn(s.bounds.Center(), s.cfg.Player.Invincibility)
	s.bus.Emit(event.Event{
		Type:     event.PlayerRespawned,
		ID:       s.Ship.ID,
		Position: s.Ship.Position,
		Value:    s.lives,
		Wave:     s.Waves.Wave(),
	})
}

// Status returns a snapshot of the session.
func (s *Session) Status() Status {
	return Status{
		State:     s.state,
		Wave:      s.Waves.Status(),
		Score:     s.score,
		Shards:    s.shards,
		Lives:     s.lives,
		RespawnIn: s.respawn,
		Asteroids: s.Asteroids.ActiveCount(),
		Bullets:   s.Bullets.ActiveCount(),
		Loose:     s.Shards.ActiveCount(),
		Tick:      s.tick,
	}
}
