package object

import (
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/shardfall/internal/config"
	"github.com/tomz197/shardfall/internal/event"
	"github.com/tomz197/shardfall/internal/logging"
	"github.com/tomz197/shardfall/internal/physics"
	"github.com/tomz197/shardfall/internal/pool"
	"github.com/tomz197/shardfall/internal/wave"
)

// AsteroidManager owns every asteroid: one pool per size and a shared active
// set capped at MaxActive.
type AsteroidManager struct {
	cfg     config.AsteroidConfig
	pools   map[AsteroidSize]*pool.Pool[*Asteroid]
	active  *pool.ActiveSet[*Asteroid]
	grid    *physics.SpatialGrid
	ids     IDAllocator
	scaling wave.Scaling
	events  event.Emitter
	logger  *log.Logger
	scratch []*Asteroid
}

// NewAsteroidManager creates the manager and pre-warms its pools.
func NewAsteroidManager(cfg config.AsteroidConfig, bounds physics.Bounds, rng *rand.Rand, events event.Emitter, logger *log.Logger) *AsteroidManager {
	if events == nil {
		events = event.Discard
	}
	m := &AsteroidManager{
		cfg:     cfg,
		pools:   make(map[AsteroidSize]*pool.Pool[*Asteroid], len(Sizes)),
		active:  pool.NewActiveSet[*Asteroid](cfg.MaxActive),
		grid:    physics.NewSpatialGrid(bounds, 2*cfg.MaxRadius()),
		scaling: wave.Identity(),
		events:  events,
		logger:  logging.OrDiscard(logger).WithPrefix("asteroids"),
	}

	for _, size := range Sizes {
		m.pools[size] = pool.New(cfg.PoolSize,
			func() *Asteroid { return newAsteroid(size, &m.cfg, bounds, rng) },
			(*Asteroid).Reset,
			pool.WithActivate(m.activate),
		)
	}
	return m
}

// activate runs for every asteroid leaving a pool.
func (m *AsteroidManager) activate(a *Asteroid) {
	a.ID = m.ids.Next()
	a.applyScaling(m.scaling)
}

// SetScaling sets the multipliers applied to asteroids spawned from now on.
func (m *AsteroidManager) SetScaling(s wave.Scaling) {
	m.scaling = s
}

// Scaling returns the multipliers currently applied to new asteroids.
func (m *AsteroidManager) Scaling() wave.Scaling {
	return m.scaling
}

// GetAsteroid spawns an asteroid of size at pos with random motion.
// Returns nil when the field is full.
func (m *AsteroidManager) GetAsteroid(size AsteroidSize, pos physics.Vec) *Asteroid {
	a := m.take(size)
	if a == nil {
		return nil
	}
	a.Initialize(pos)
	m.added(a)
	return a
}

// GetAsteroidWithMotion spawns an asteroid with explicit velocity and spin.
// Returns nil when the field is full.
func (m *AsteroidManager) GetAsteroidWithMotion(size AsteroidSize, pos, vel physics.Vec, spin float64) *Asteroid {
	a := m.take(size)
	if a == nil {
		return nil
	}
	a.InitializeWithMotion(pos, vel, spin)
	m.added(a)
	return a
}

func (m *AsteroidManager) take(size AsteroidSize) *Asteroid {
	if !size.Valid() {
		return nil
	}
	if m.active.Len() >= m.cfg.MaxActive {
		m.logger.Debug("at capacity", "size", size, "max", m.cfg.MaxActive)
		return nil
	}
	return m.pools[size].Get()
}

func (m *AsteroidManager) added(a *Asteroid) {
	m.active.Add(a)
	m.events.Emit(event.Event{
		Type:     event.AsteroidSpawned,
		ID:       a.ID,
		Position: a.Position,
		Value:    int(a.Size),
		Payload:  a.Data(),
	})
}

// Return sends a back to its pool. Returning an asteroid that is not active
// is a no-op.
func (m *AsteroidManager) Return(a *Asteroid) bool {
	if a == nil || !m.active.Remove(a) {
		return false
	}
	m.pools[a.Size].Put(a)
	return true
}

// Damage applies amount to a and reports whether it was destroyed.
// Stale references are ignored.
func (m *AsteroidManager) Damage(a *Asteroid, amount int) bool {
	if a == nil || !m.active.Contains(a) {
		return false
	}
	return a.TakeDamage(amount)
}

// Split computes a's fragments using the current wave scaling.
func (m *AsteroidManager) Split(a *Asteroid) []AsteroidData {
	if a == nil || !m.active.Contains(a) {
		return nil
	}
	frags := a.Split(m.scaling)
	if len(frags) > 0 {
		m.events.Emit(event.Event{
			Type:     event.AsteroidSplit,
			ID:       a.ID,
			Position: a.Position,
			Value:    len(frags),
			Payload:  frags,
		})
	}
	return frags
}

// Destroy announces a's destruction and returns it to its pool.
func (m *AsteroidManager) Destroy(a *Asteroid) bool {
	if a == nil || !m.active.Contains(a) {
		return false
	}
	m.events.Emit(event.Event{
		Type:     event.AsteroidDestroyed,
		ID:       a.ID,
		Position: a.Position,
		Value:    int(a.Size),
		Payload:  a.Data(),
	})
	return m.Return(a)
}

// Update advances every active asteroid. Nothing is removed here.
func (m *AsteroidManager) Update(dt time.Duration) {
	for _, a := range m.active.Items() {
		if !a.IsActive() {
			continue
		}
		a.Update(dt)
	}
}

// Active returns the asteroids in play. The slice is only valid until the
// next spawn or return.
func (m *AsteroidManager) Active() []*Asteroid {
	return m.active.Items()
}

// ActiveCount returns the number of asteroids in play.
func (m *AsteroidManager) ActiveCount() int {
	return m.active.Len()
}

// Capacity returns the maximum number of asteroids in play.
func (m *AsteroidManager) Capacity() int {
	return m.cfg.MaxActive
}

func (m *AsteroidManager) radiusOf(size AsteroidSize) float64 {
	return sizeConfig(&m.cfg, size).Radius
}

// Pooled returns how many asteroids of size wait in the pool.
func (m *AsteroidManager) Pooled(size AsteroidSize) int {
	if p, ok := m.pools[size]; ok {
		return p.Free()
	}
	return 0
}

// Clear returns every active asteroid to its pool.
func (m *AsteroidManager) Clear() {
	m.scratch = m.active.AppendTo(m.scratch[:0])
	for _, a := range m.scratch {
		m.Return(a)
	}
	clear(m.scratch)
}

// Reset clears the field and restarts ids and scaling for a new session.
func (m *AsteroidManager) Reset() {
	m.Clear()
	m.ids.Reset()
	m.scaling = wave.Identity()
}
