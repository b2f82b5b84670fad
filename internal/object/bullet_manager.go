package object

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/shardfall/internal/config"
	"github.com/tomz197/shardfall/internal/event"
	"github.com/tomz197/shardfall/internal/logging"
	"github.com/tomz197/shardfall/internal/physics"
	"github.com/tomz197/shardfall/internal/pool"
)

// Hit is a bullet striking an asteroid. AsteroidID is the asteroid's id at the
// moment of the hit; if Asteroid.ID no longer matches, the asteroid has been
// recycled and the hit is stale.
type Hit struct {
	BulletID   uint64
	OwnerID    uint64
	Asteroid   *Asteroid
	AsteroidID uint64
	Damage     int
	Position   physics.Vec
}

// Stale reports whether the asteroid was recycled since the hit.
func (h Hit) Stale() bool {
	return h.Asteroid == nil || !h.Asteroid.IsActive() || h.Asteroid.ID != h.AsteroidID
}

// BulletManager owns bullets in flight.
type BulletManager struct {
	cfg     config.BulletConfig
	pool    *pool.Pool[*Bullet]
	active  *pool.ActiveSet[*Bullet]
	ids     IDAllocator
	grid    *physics.SpatialGrid
	events  event.Emitter
	logger  *log.Logger
	scratch []*Bullet
	hits    []Hit
}

// NewBulletManager creates the manager. maxAsteroidRadius sizes the broad
// phase grid so every possible contact lies in a 3x3 neighborhood.
func NewBulletManager(cfg config.BulletConfig, maxAsteroidRadius float64, bounds physics.Bounds, events event.Emitter, logger *log.Logger) *BulletManager {
	if events == nil {
		events = event.Discard
	}
	m := &BulletManager{
		cfg:    cfg,
		active: pool.NewActiveSet[*Bullet](cfg.MaxActive),
		grid:   physics.NewSpatialGrid(bounds, maxAsteroidRadius+cfg.Radius),
		events: events,
		logger: logging.OrDiscard(logger).WithPrefix("bullets"),
	}
	m.pool = pool.New(cfg.PoolSize,
		func() *Bullet { return &Bullet{Radius: cfg.Radius, bounds: bounds} },
		(*Bullet).Reset,
		pool.WithActivate(func(b *Bullet) { b.ID = m.ids.Next() }),
	)
	return m
}

// Fire launches a bullet from pos along heading (radians), adding the
// shooter's velocity. Returns nil when too many bullets are in flight.
func (m *BulletManager) Fire(pos physics.Vec, heading float64, inherit physics.Vec, owner uint64) *Bullet {
	if m.active.Len() >= m.cfg.MaxActive {
		m.logger.Debug("at capacity", "max", m.cfg.MaxActive)
		return nil
	}

	b := m.pool.Get()
	vel := inherit.Add(physics.FromAngle(heading).Mul(m.cfg.Speed))
	b.Fire(pos, vel, m.cfg.Damage, m.cfg.Lifetime, owner)
	m.active.Add(b)

	m.events.Emit(event.Event{
		Type:     event.BulletFired,
		ID:       b.ID,
		Position: pos,
		Value:    b.Damage,
		Payload:  b.Data(),
	})
	return b
}

// Return sends b back to the pool. Returning an inactive bullet is a no-op.
func (m *BulletManager) Return(b *Bullet) bool {
	if b == nil || !m.active.Remove(b) {
		return false
	}
	m.pool.Put(b)
	return true
}

// Update moves every bullet, then pools the ones whose lifetime ran out.
func (m *BulletManager) Update(dt time.Duration) {
	m.scratch = m.scratch[:0]
	for _, b := range m.active.Items() {
		if !b.IsActive() {
			continue
		}
		if b.Update(dt) {
			m.scratch = append(m.scratch, b)
		}
	}

	for _, b := range m.scratch {
		m.events.Emit(event.Event{Type: event.BulletExpired, ID: b.ID, Position: b.Position})
		m.Return(b)
	}
	clear(m.scratch)
}

// CheckCollisions tests every bullet against the given asteroids. Each bullet
// stops at its first hit and is pooled. The caller applies the damage.
// The returned slice is reused by the next call.
func (m *BulletManager) CheckCollisions(asteroids []*Asteroid) []Hit {
	m.hits = m.hits[:0]
	if m.active.Len() == 0 || len(asteroids) == 0 {
		return m.hits
	}

	m.grid.Clear()
	for i, a := range asteroids {
		if a.IsActive() {
			m.grid.Insert(a.Position, i)
		}
	}

	m.scratch = m.scratch[:0]
	for _, b := range m.active.Items() {
		if !b.IsActive() {
			continue
		}

		var target *Asteroid
		m.grid.QueryAround(b.Position, func(i int) bool {
			a := asteroids[i]
			if a.IsActive() && physics.Overlap(b.Position, b.Radius, a.Position, a.Radius) {
				target = a
				return true
			}
			return false
		})
		if target == nil {
			continue
		}

		b.MarkHit()
		hit := Hit{
			BulletID:   b.ID,
			OwnerID:    b.OwnerID,
			Asteroid:   target,
			AsteroidID: target.ID,
			Damage:     b.Damage,
			Position:   b.Position,
		}
		m.hits = append(m.hits, hit)
		m.scratch = append(m.scratch, b)
		m.events.Emit(event.Event{
			Type:     event.BulletHit,
			ID:       b.ID,
			Position: b.Position,
			Value:    b.Damage,
			Payload:  hit,
		})
	}

	for _, b := range m.scratch {
		m.Return(b)
	}
	clear(m.scratch)
	return m.hits
}

// Active returns the bullets in flight. The slice is only valid until the
// next fire or return.
func (m *BulletManager) Active() []*Bullet {
	return m.active.Items()
}

// ActiveCount returns the number of bullets in flight.
func (m *BulletManager) ActiveCount() int {
	return m.active.Len()
}

// Clear returns every bullet to the pool.
func (m *BulletManager) Clear() {
	m.scratch = m.active.AppendTo(m.scratch[:0])
	for _, b := range m.scratch {
		m.Return(b)
	}
	clear(m.scratch)
}

// Reset clears the manager and restarts ids.
func (m *BulletManager) Reset() {
	m.Clear()
	m.ids.Reset()
}
