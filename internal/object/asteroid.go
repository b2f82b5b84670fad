package object

import (
	"math"
	"math/rand"
	"time"

	"github.com/tomz197/shardfall/internal/config"
	"github.com/tomz197/shardfall/internal/physics"
	"github.com/tomz197/shardfall/internal/wave"
)

// AsteroidSize represents the size category of an asteroid.
type AsteroidSize int

const (
	AsteroidSmall  AsteroidSize = 1
	AsteroidMedium AsteroidSize = 2
	AsteroidLarge  AsteroidSize = 3
)

// Valid reports whether s is one of the known sizes.
func (s AsteroidSize) Valid() bool {
	return s >= AsteroidSmall && s <= AsteroidLarge
}

// Next returns the size fragments of s are born with.
// Small asteroids have no successor.
func (s AsteroidSize) Next() (AsteroidSize, bool) {
	switch s {
	case AsteroidLarge:
		return AsteroidMedium, true
	case AsteroidMedium:
		return AsteroidSmall, true
	default:
		return 0, false
	}
}

func (s AsteroidSize) String() string {
	switch s {
	case AsteroidSmall:
		return "small"
	case AsteroidMedium:
		return "medium"
	case AsteroidLarge:
		return "large"
	default:
		return "unknown"
	}
}

// Sizes lists every asteroid size, largest first.
var Sizes = [...]AsteroidSize{AsteroidLarge, AsteroidMedium, AsteroidSmall}

func sizeConfig(cfg *config.AsteroidConfig, s AsteroidSize) config.AsteroidSizeConfig {
	switch s {
	case AsteroidLarge:
		return cfg.Large
	case AsteroidMedium:
		return cfg.Medium
	default:
		return cfg.Small
	}
}

// AsteroidData is a value snapshot of an asteroid. Split returns fragments in
// this form so they can be spawned later without holding the parent.
type AsteroidData struct {
	ID              uint64
	Size            AsteroidSize
	Health          int
	MaxHealth       int
	Position        physics.Vec
	Velocity        physics.Vec
	AngularVelocity float64 // Degrees/sec
}

// Asteroid is a destructible space rock.
type Asteroid struct {
	ID              uint64
	Size            AsteroidSize
	Position        physics.Vec // Center
	Velocity        physics.Vec
	Rotation        float64 // Degrees
	AngularVelocity float64 // Degrees/sec
	Health          int
	MaxHealth       int
	Radius          float64   // Collision radius, half the visual extent
	Vertices        []float64 // Vertex distances from center (for irregular shape)

	active  bool
	scaling wave.Scaling
	cfg     *config.AsteroidConfig
	bounds  physics.Bounds
	rng     *rand.Rand
}

func newAsteroid(size AsteroidSize, cfg *config.AsteroidConfig, bounds physics.Bounds, rng *rand.Rand) *Asteroid {
	sc := sizeConfig(cfg, size)

	// Generate irregular polygon vertices (8-12 vertices) once per instance;
	// the outline survives pooling.
	numVerts := 8 + rng.Intn(5)
	vertices := make([]float64, numVerts)
	for i := range vertices {
		vertices[i] = sc.Radius * (0.75 + rng.Float64()*0.25)
	}

	return &Asteroid{
		Size:      size,
		Radius:    sc.Radius,
		Vertices:  vertices,
		Health:    sc.Health,
		MaxHealth: sc.Health,
		Position:  Parked,
		scaling:   wave.Identity(),
		cfg:       cfg,
		bounds:    bounds,
		rng:       rng,
	}
}

func (a *Asteroid) tuning() config.AsteroidSizeConfig {
	return sizeConfig(a.cfg, a.Size)
}

// applyScaling fixes MaxHealth and base speed for the coming activation.
func (a *Asteroid) applyScaling(s wave.Scaling) {
	a.scaling = s
	a.MaxHealth = max(1, wave.ScaleInt(a.tuning().Health, s.Health))
	a.Health = a.MaxHealth
}

// Initialize activates the asteroid at pos with a random heading at the
// size's scaled base speed and a random spin from the size's range.
func (a *Asteroid) Initialize(pos physics.Vec) {
	sc := a.tuning()
	speed := sc.Speed * a.scaling.Speed
	vel := physics.FromAngle(physics.Angle(a.rng)).Mul(speed)
	spin := physics.Range(a.rng, sc.SpinMin, sc.SpinMax)
	a.InitializeWithMotion(pos, vel, spin)
}

// InitializeWithMotion activates the asteroid at pos with explicit motion.
func (a *Asteroid) InitializeWithMotion(pos, vel physics.Vec, spin float64) {
	a.Position = pos
	a.Velocity = vel
	a.AngularVelocity = spin
	a.Rotation = a.rng.Float64() * 360
	a.Health = a.MaxHealth
	a.active = true
}

// IsActive reports whether the asteroid is in play.
func (a *Asteroid) IsActive() bool {
	return a.active
}

// TakeDamage subtracts amount from health. It returns true when this hit
// brought health to zero. Damaging an inactive asteroid does nothing.
func (a *Asteroid) TakeDamage(amount int) bool {
	if !a.active || a.Health == 0 || amount <= 0 {
		return false
	}
	a.Health -= amount
	if a.Health <= 0 {
		a.Health = 0
		return true
	}
	return false
}

// DamageTier maps remaining health to 0 (>80%) through 4 (<=20%).
func (a *Asteroid) DamageTier() int {
	if a.MaxHealth <= 0 {
		return 4
	}
	ratio := float64(a.Health) / float64(a.MaxHealth)
	switch {
	case ratio > 0.8:
		return 0
	case ratio > 0.6:
		return 1
	case ratio > 0.4:
		return 2
	case ratio > 0.2:
		return 3
	default:
		return 4
	}
}

// Split computes the fragments this asteroid breaks into. Fragments keep part
// of the parent's momentum and scatter on evenly spaced, jittered headings.
// Small or inactive asteroids yield nothing.
func (a *Asteroid) Split(scaling wave.Scaling) []AsteroidData {
	if !a.active {
		return nil
	}
	next, ok := a.Size.Next()
	if !ok {
		return nil
	}

	sc := a.tuning()
	count := physics.IntRange(a.rng, sc.MinSplits, sc.MaxSplits)
	if count <= 0 {
		return nil
	}

	nextCfg := sizeConfig(a.cfg, next)
	health := max(1, wave.ScaleInt(nextCfg.Health, scaling.Health))

	parentSpeed := a.Velocity.Len()
	if parentSpeed == 0 {
		// A motionless parent would leave its fragments stacked.
		parentSpeed = nextCfg.Speed * scaling.Speed
	}

	frags := make([]AsteroidData, 0, count)
	for i := 0; i < count; i++ {
		angle := 2*math.Pi*float64(i)/float64(count) +
			physics.Range(a.rng, -a.cfg.AngleJitter, a.cfg.AngleJitter)
		scatter := a.cfg.ScatterFactor * parentSpeed *
			physics.Range(a.rng, a.cfg.ScatterMin, a.cfg.ScatterMax)

		frags = append(frags, AsteroidData{
			Size:            next,
			Health:          health,
			MaxHealth:       health,
			Position:        a.Position,
			Velocity:        a.Velocity.Mul(a.cfg.InheritFactor).Add(physics.FromAngle(angle).Mul(scatter)),
			AngularVelocity: physics.Range(a.rng, -a.cfg.FragmentSpin, a.cfg.FragmentSpin),
		})
	}
	return frags
}

// Update moves and rotates the asteroid, wrapping at the playfield edges.
func (a *Asteroid) Update(dt time.Duration) {
	if !a.active {
		return
	}
	s := dt.Seconds()

	a.Rotation = math.Mod(a.Rotation+a.AngularVelocity*s, 360)
	if a.Rotation < 0 {
		a.Rotation += 360
	}

	a.Position = a.bounds.Wrap(a.Position.Add(a.Velocity.Mul(s)), a.Radius)
}

// Reset deactivates the asteroid, stops it, restores base health and parks it
// off the playfield.
func (a *Asteroid) Reset() {
	a.active = false
	a.Velocity = physics.Vec{}
	a.AngularVelocity = 0
	a.Rotation = 0
	a.scaling = wave.Identity()
	a.MaxHealth = a.tuning().Health
	a.Health = a.MaxHealth
	a.Position = Parked
}

// Data returns a snapshot of the asteroid.
func (a *Asteroid) Data() AsteroidData {
	return AsteroidData{
		ID:              a.ID,
		Size:            a.Size,
		Health:          a.Health,
		MaxHealth:       a.MaxHealth,
		Position:        a.Position,
		Velocity:        a.Velocity,
		AngularVelocity: a.AngularVelocity,
	}
}

// Score returns the points awarded for destroying the asteroid.
func (a *Asteroid) Score() int {
	return a.tuning().Score
}

// Scale returns the visual scale relative to a large asteroid.
func (a *Asteroid) Scale() float64 {
	return a.tuning().Scale
}
