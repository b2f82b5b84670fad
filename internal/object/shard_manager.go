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

// ShardManager owns the shards on the field, attracts them to the player and
// decides when they are collected.
type ShardManager struct {
	cfg     config.ShardConfig
	pool    *pool.Pool[*Shard]
	active  *pool.ActiveSet[*Shard]
	ids     IDAllocator
	magnet  Magnet
	events  event.Emitter
	logger  *log.Logger
	scratch []*Shard
}

// NewShardManager creates the manager and pre-warms its pool.
func NewShardManager(cfg config.ShardConfig, bounds physics.Bounds, rng *rand.Rand, events event.Emitter, logger *log.Logger) *ShardManager {
	if events == nil {
		events = event.Discard
	}
	m := &ShardManager{
		cfg:    cfg,
		active: pool.NewActiveSet[*Shard](cfg.MaxActive),
		magnet: Magnet{
			Radius: cfg.MagnetRadius,
			Force:  cfg.MagnetForce,
			Blend:  cfg.MagnetBlend,
		},
		events: events,
		logger: logging.OrDiscard(logger).WithPrefix("shards"),
	}
	m.pool = pool.New(cfg.PoolSize,
		func() *Shard { return &Shard{Radius: cfg.Radius, cfg: &m.cfg, bounds: bounds, rng: rng} },
		(*Shard).Reset,
	)
	return m
}

// BaseYield returns how many shards an asteroid of size drops at wave 1.
func (m *ShardManager) BaseYield(size AsteroidSize) int {
	switch size {
	case AsteroidLarge:
		return m.cfg.YieldLarge
	case AsteroidMedium:
		return m.cfg.YieldMedium
	case AsteroidSmall:
		return m.cfg.YieldSmall
	default:
		return 0
	}
}

// SpawnFromAsteroid drops round(baseYield × yield) shards where the asteroid
// died. Fewer are spawned when the field is full.
func (m *ShardManager) SpawnFromAsteroid(data AsteroidData, yield float64) []*Shard {
	count := wave.ScaleInt(m.BaseYield(data.Size), yield)
	if count <= 0 {
		return nil
	}

	spawned := make([]*Shard, 0, count)
	for range count {
		if m.active.Len() >= m.cfg.MaxActive {
			m.logger.Debug("at capacity", "requested", count, "spawned", len(spawned))
			break
		}
		s := m.pool.Get()
		s.Spawn(data.Position, m.ids.Next())
		m.active.Add(s)
		spawned = append(spawned, s)

		m.events.Emit(event.Event{
			Type:     event.ShardSpawned,
			ID:       s.ID,
			Position: s.Position,
			Value:    s.Value,
		})
	}
	return spawned
}

// Return sends s back to the pool. Returning an inactive shard is a no-op.
func (m *ShardManager) Return(s *Shard) bool {
	if s == nil || !m.active.Remove(s) {
		return false
	}
	m.pool.Put(s)
	return true
}

// Update ages and moves every shard, pulling it toward player when given,
// then pools the expired ones.
func (m *ShardManager) Update(dt time.Duration, player *physics.Vec) {
	var mag *Magnet
	if player != nil {
		m.magnet.Target = *player
		mag = &m.magnet
	}

	m.scratch = m.scratch[:0]
	for _, s := range m.active.Items() {
		if !s.IsActive() {
			continue
		}
		if s.Update(dt, mag) {
			m.scratch = append(m.scratch, s)
		}
	}

	for _, s := range m.scratch {
		m.events.Emit(event.Event{Type: event.ShardExpired, ID: s.ID, Position: s.Position, Value: s.Value})
		m.Return(s)
	}
	clear(m.scratch)
}

// CheckCollection collects every shard within the collect radius of player and
// returns their total value.
func (m *ShardManager) CheckCollection(player physics.Vec) int {
	m.scratch = m.scratch[:0]
	for _, s := range m.active.Items() {
		if s.IsActive() && physics.Within(s.Position, player, m.cfg.CollectRadius) {
			m.scratch = append(m.scratch, s)
		}
	}

	total := 0
	for _, s := range m.scratch {
		pos := s.Position
		v := s.Collect()
		total += v
		m.events.Emit(event.Event{Type: event.ShardCollected, ID: s.ID, Position: pos, Value: v})
		m.Return(s)
	}
	clear(m.scratch)
	return total
}

// Active returns the shards in play. The slice is only valid until the next
// spawn or return.
func (m *ShardManager) Active() []*Shard {
	return m.active.Items()
}

// ActiveCount returns the number of shards in play.
func (m *ShardManager) ActiveCount() int {
	return m.active.Len()
}

// Clear returns every shard to the pool.
func (m *ShardManager) Clear() {
	m.scratch = m.active.AppendTo(m.scratch[:0])
	for _, s := range m.scratch {
		m.Return(s)
	}
	clear(m.scratch)
}

// Reset clears the manager and restarts ids.
func (m *ShardManager) Reset() {
	m.Clear()
	m.ids.Reset()
}
