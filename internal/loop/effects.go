package loop

import (
	"math"
	"math/rand"
	"time"

	"github.com/tomz197/shardfall/internal/draw"
	"github.com/tomz197/shardfall/internal/event"
	"github.com/tomz197/shardfall/internal/physics"
	"github.com/tomz197/shardfall/internal/pool"
)

// particle is a short-lived visual effect.
type particle struct {
	pos     physics.Vec
	vel     physics.Vec
	life    time.Duration // Remaining
	maxLife time.Duration // Initial, for fading
	symbol  rune
}

var burstSymbols = []rune{'#', '@', '*', '%', 'X', 'O', '+', '▪'}

// Effects owns the explosion particles. It only learns about the game through
// the event bus, so the simulation never calls into rendering.
type Effects struct {
	pool   *pool.Pool[*particle]
	active []*particle
	limit  int
	rng    *rand.Rand
}

// NewEffects creates an effects layer holding at most limit particles.
func NewEffects(rng *rand.Rand, limit int) *Effects {
	return &Effects{
		pool: pool.New(limit/4,
			func() *particle { return &particle{} },
			func(p *particle) { *p = particle{} },
		),
		active: make([]*particle, 0, limit),
		limit:  limit,
		rng:    rng,
	}
}

// Listen is the event.Listener that turns destruction into explosions.
func (e *Effects) Listen(ev event.Event) {
	switch ev.Type {
	case event.AsteroidDestroyed:
		e.Explode(ev.Position, asteroidBurstCount*max(ev.Value, 1), asteroidBurstSpeed, asteroidBurstLife)
	case event.PlayerDied:
		e.Explode(ev.Position, shipBurstCount, shipBurstSpeed, shipBurstLife)
	}
}

// Explode spawns up to count particles in a circular burst. Speed varies
// between 50% and 150% of speed, lifetime between 50% and 100% of lifetime.
func (e *Effects) Explode(at physics.Vec, count int, speed float64, lifetime time.Duration) {
	for i := 0; i < count && len(e.active) < e.limit; i++ {
		p := e.pool.Get()
		p.pos = at
		p.vel = physics.FromAngle(physics.Angle(e.rng)).Mul(speed * physics.Range(e.rng, 0.5, 1.5))
		p.life = time.Duration(float64(lifetime) * physics.Range(e.rng, 0.5, 1))
		p.maxLife = p.life
		p.symbol = burstSymbols[e.rng.Intn(len(burstSymbols))]
		e.active = append(e.active, p)
	}
}

// Update moves every particle and recycles the ones that burnt out.
func (e *Effects) Update(dt time.Duration) {
	sec := dt.Seconds()
	drag := math.Pow(particleDrag, sec*60)

	for i := 0; i < len(e.active); {
		p := e.active[i]
		p.life -= dt
		if p.life <= 0 {
			last := len(e.active) - 1
			e.active[i] = e.active[last]
			e.active[last] = nil
			e.active = e.active[:last]
			e.pool.Put(p)
			continue
		}
		p.vel = p.vel.Mul(drag)
		p.pos = p.pos.Add(p.vel.Mul(sec))
		i++
	}
}

// Draw writes the particles as text over the canvas. Old particles fade
// through the shade characters.
func (e *Effects) Draw(c *draw.Canvas, cw *draw.ChunkWriter) {
	width, height := c.TerminalWidth(), c.TerminalHeight()
	for _, p := range e.active {
		col, row := c.LogicalToTerminal(p.pos[0], p.pos[1])
		if col < 1 || col > width || row < 1 || row > height {
			continue
		}
		ch := p.symbol
		if frac := float64(p.life) / float64(p.maxLife); frac < 0.5 {
			ch = draw.ShadeLevel(frac * 2)
		}
		cw.MoveCursor(col, row)
		cw.WriteRune(ch)
		c.MarkTextDirty(col, row, 1)
	}
}

// Len returns the number of live particles.
func (e *Effects) Len() int {
	return len(e.active)
}

// Clear recycles every particle.
func (e *Effects) Clear() {
	for i, p := range e.active {
		e.pool.Put(p)
		e.active[i] = nil
	}
	e.active = e.active[:0]
}
