package object

import (
	"math/rand"

	"github.com/charmbracelet/log"

	"github.com/tomz197/shardfall/internal/config"
	"github.com/tomz197/shardfall/internal/logging"
	"github.com/tomz197/shardfall/internal/physics"
	"github.com/tomz197/shardfall/internal/wave"
)

// WaveRequest asks for Count asteroids. Sizes are used in order; past the end
// of the list a random entry is picked. An empty list means all large.
type WaveRequest struct {
	Count int
	Sizes []AsteroidSize
}

// Spawner places asteroids where they won't land on the player or on each
// other, and turns split fragments into live asteroids.
type Spawner struct {
	asteroids *AsteroidManager
	cfg       config.SpawnConfig
	bounds    physics.Bounds
	rng       *rand.Rand
	logger    *log.Logger
}

// NewSpawner creates a spawner feeding asteroids.
func NewSpawner(asteroids *AsteroidManager, cfg config.SpawnConfig, bounds physics.Bounds, rng *rand.Rand, logger *log.Logger) *Spawner {
	return &Spawner{
		asteroids: asteroids,
		cfg:       cfg,
		bounds:    bounds,
		rng:       rng,
		logger:    logging.OrDiscard(logger).WithPrefix("spawner"),
	}
}

// FindSafeSpawnPosition samples random interior points, accepting the first
// one at least avoidRadius from player and clear of every active asteroid.
// When the attempts run out it falls back to a point just past a screen edge,
// close enough that even the smallest asteroid is not wrapped away from it.
func (s *Spawner) FindSafeSpawnPosition(player physics.Vec, avoidRadius float64) physics.Vec {
	return s.safePosition(player, avoidRadius, s.asteroids.cfg.MinRadius())
}

func (s *Spawner) safePosition(player physics.Vec, avoidRadius, radius float64) physics.Vec {
	for range s.cfg.Attempts {
		p := physics.PointIn(s.rng, s.bounds)
		if physics.Dist(p, player) < avoidRadius {
			continue
		}
		if s.nearAsteroid(p) {
			continue
		}
		return p
	}

	s.logger.Debug("no safe interior position, spawning at edge", "attempts", s.cfg.Attempts)
	return s.edgePosition(player, avoidRadius, radius)
}

func (s *Spawner) nearAsteroid(p physics.Vec) bool {
	for _, a := range s.asteroids.Active() {
		if a.IsActive() && physics.Within(p, a.Position, s.cfg.AsteroidClearance) {
			return true
		}
	}
	return false
}

// edgePosition picks a random edge and steps outward by the edge margin, never
// further than radius: an asteroid wraps once it is more than its own radius
// off screen. If the point is still too close to the player the opposite edge
// is used instead.
func (s *Spawner) edgePosition(player physics.Vec, avoidRadius, radius float64) physics.Vec {
	w, h := s.bounds.Width, s.bounds.Height
	m := min(s.cfg.EdgeMargin, radius)

	var p physics.Vec
	edge := s.rng.Intn(4)
	switch edge {
	case 0: // Top
		p = physics.Vec{s.rng.Float64() * w, -m}
	case 1: // Bottom
		p = physics.Vec{s.rng.Float64() * w, h + m}
	case 2: // Left
		p = physics.Vec{-m, s.rng.Float64() * h}
	default: // Right
		p = physics.Vec{w + m, s.rng.Float64() * h}
	}

	if physics.Dist(s.bounds.Wrap(p, radius), player) < avoidRadius {
		switch edge {
		case 0:
			p[1] = h + m
		case 1:
			p[1] = -m
		case 2:
			p[0] = w + m
		default:
			p[0] = -m
		}
	}
	return s.bounds.Wrap(p, radius)
}

// SpawnWave spawns up to req.Count asteroids at safe positions. It stops early
// once the asteroid manager is full, so the result may be shorter.
func (s *Spawner) SpawnWave(req WaveRequest, player physics.Vec) []*Asteroid {
	spawned := make([]*Asteroid, 0, req.Count)
	for i := range req.Count {
		size := AsteroidLarge
		switch n := len(req.Sizes); {
		case i < n:
			size = req.Sizes[i]
		case n > 0:
			size = req.Sizes[s.rng.Intn(n)]
		}

		if s.asteroids.ActiveCount() >= s.asteroids.Capacity() {
			s.logger.Debug("wave truncated", "requested", req.Count, "spawned", len(spawned))
			break
		}
		pos := s.safePosition(player, s.cfg.AvoidRadius, s.asteroids.radiusOf(size))
		a := s.asteroids.GetAsteroid(size, pos)
		if a == nil {
			break
		}
		spawned = append(spawned, a)
	}
	return spawned
}

// SpawnSplits brings fragments to life around the parent's last position,
// each nudged a few units in a random direction, keeping their precomputed
// motion.
func (s *Spawner) SpawnSplits(parent AsteroidData, frags []AsteroidData) []*Asteroid {
	spawned := make([]*Asteroid, 0, len(frags))
	for _, f := range frags {
		offset := physics.FromAngle(physics.Angle(s.rng)).
			Mul(physics.Range(s.rng, s.cfg.SplitOffsetMin, s.cfg.SplitOffsetMax))
		a := s.asteroids.GetAsteroidWithMotion(f.Size, parent.Position.Add(offset), f.Velocity, f.AngularVelocity)
		if a == nil {
			s.logger.Debug("fragments dropped at capacity", "parent", parent.ID, "dropped", len(frags)-len(spawned))
			break
		}
		spawned = append(spawned, a)
	}
	return spawned
}

// WaveComposition returns the asteroid sizes for level, largest first: a
// baseline of min(3+level, 8) split between large and medium, plus up to three
// small ones after level 5.
func WaveComposition(level int) []AsteroidSize {
	level = max(level, 1)
	base := min(3+level, 8)
	large := min(level/2+1, 4)
	medium := max(0, base-large)
	small := 0
	if level > 5 {
		small = min(level-5, 3)
	}

	sizes := make([]AsteroidSize, 0, large+medium+small)
	for range large {
		sizes = append(sizes, AsteroidLarge)
	}
	for range medium {
		sizes = append(sizes, AsteroidMedium)
	}
	for range small {
		sizes = append(sizes, AsteroidSmall)
	}
	return sizes
}

// SpawnWaveByLevel spawns the full composition for level.
func (s *Spawner) SpawnWaveByLevel(level int, player physics.Vec) []*Asteroid {
	sizes := WaveComposition(level)
	return s.SpawnWave(WaveRequest{Count: len(sizes), Sizes: sizes}, player)
}

// StartWave applies the wave's scaling and spawns its asteroids.
// It implements wave.Spawner.
func (s *Spawner) StartWave(plan wave.Plan, player physics.Vec) int {
	s.asteroids.SetScaling(plan.Scaling)
	spawned := s.SpawnWave(WaveRequest{Count: plan.Count, Sizes: WaveComposition(plan.Wave)}, player)
	return len(spawned)
}
