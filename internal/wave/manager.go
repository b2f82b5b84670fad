package wave

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/shardfall/internal/config"
	"github.com/tomz197/shardfall/internal/event"
	"github.com/tomz197/shardfall/internal/logging"
	"github.com/tomz197/shardfall/internal/physics"
)

// State is where the manager is within a wave.
type State int

const (
	Idle State = iota
	Active
	Intermission
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Active:
		return "active"
	case Intermission:
		return "intermission"
	default:
		return "unknown"
	}
}

// Population reports how many asteroids are alive.
type Population interface {
	ActiveCount() int
}

// Plan is what the manager asks the spawner to put on the field.
type Plan struct {
	Wave    int
	Count   int
	Scaling Scaling
}

// Spawner places a wave's asteroids and reports how many it managed.
type Spawner interface {
	StartWave(plan Plan, player physics.Vec) int
}

// Status is a read-only snapshot for the HUD and tests.
type Status struct {
	Wave               int
	Phase              Phase
	State              State
	AsteroidsRemaining int
	AsteroidsDestroyed int
	IsIntermission     bool
	IsEndless          bool
	IntermissionLeft   time.Duration
	Scaling            Scaling
}

// Manager is the wave state machine. It never touches asteroids directly:
// counts and multipliers go out through the Spawner, the alive count comes
// back through the Population.
type Manager struct {
	cfg          config.WaveConfig
	maxAsteroids int
	population   Population
	spawner      Spawner
	events       event.Emitter
	logger       *log.Logger

	wave         int
	state        State
	inProgress   bool
	intermission time.Duration
	spawned      int
	destroyed    int
	endless      bool
	scaling      Scaling
}

// NewManager creates a manager sitting before wave 1.
func NewManager(cfg config.WaveConfig, maxAsteroids int, pop Population, spawner Spawner, events event.Emitter, logger *log.Logger) *Manager {
	if events == nil {
		events = event.Discard
	}
	m := &Manager{
		cfg:          cfg,
		maxAsteroids: maxAsteroids,
		population:   pop,
		spawner:      spawner,
		events:       events,
		logger:       logging.OrDiscard(logger).WithPrefix("wave"),
	}
	m.Reset()
	return m
}

// Reset returns to wave 1, idle, for a new session.
func (m *Manager) Reset() {
	m.wave = 1
	m.state = Idle
	m.inProgress = false
	m.intermission = 0
	m.spawned = 0
	m.destroyed = 0
	m.endless = false
	m.scaling = ScalingFor(1, m.cfg)
}

// Start launches the current wave. It is a no-op unless the manager is idle.
func (m *Manager) Start(player physics.Vec) {
	if m.state != Idle {
		return
	}
	m.startWave(player)
}

// Update advances the intermission timer and checks for wave completion.
// Call it after collisions so the alive count is current for this tick.
func (m *Manager) Update(dt time.Duration, player physics.Vec) {
	switch m.state {
	case Active:
		m.checkCompletion()
	case Intermission:
		m.intermission -= dt
		if m.intermission <= 0 {
			m.intermission = 0
			m.wave++
			m.startWave(player)
		}
	}
}

// OnAsteroidDestroyed counts a kill toward the current wave.
func (m *Manager) OnAsteroidDestroyed() {
	if m.state == Active {
		m.destroyed++
	}
}

// Wave returns the current wave number, starting at 1.
func (m *Manager) Wave() int {
	return m.wave
}

// Scaling returns the multipliers of the current wave.
func (m *Manager) Scaling() Scaling {
	return m.scaling
}

// Status returns a snapshot of the wave state.
func (m *Manager) Status() Status {
	s := Status{
		Wave:               m.wave,
		Phase:              PhaseFor(m.wave, m.cfg),
		State:              m.state,
		AsteroidsDestroyed: m.destroyed,
		IsIntermission:     m.state == Intermission,
		IsEndless:          m.wave >= m.cfg.EndlessStart,
		IntermissionLeft:   m.intermission,
		Scaling:            m.scaling,
	}
	if m.state == Active {
		s.AsteroidsRemaining = m.population.ActiveCount()
	}
	return s
}

func (m *Manager) startWave(player physics.Vec) {
	m.scaling = ScalingFor(m.wave, m.cfg)
	m.state = Active
	m.destroyed = 0
	count := AsteroidCount(m.wave, m.cfg, m.maxAsteroids)
	phase := PhaseFor(m.wave, m.cfg)

	m.events.Emit(event.Event{Type: event.WaveStarted, Wave: m.wave, Value: count})
	if phase == Endless && !m.endless {
		m.endless = true
		m.events.Emit(event.Event{Type: event.EndlessActivated, Wave: m.wave})
		m.logger.Info("endless mode", "wave", m.wave)
	}

	// inProgress stays false until the spawn call returns, so an empty field
	// during spawning never reads as a cleared wave.
	m.inProgress = false
	m.spawned = m.spawner.StartWave(Plan{Wave: m.wave, Count: count, Scaling: m.scaling}, player)
	m.inProgress = true

	m.logger.Info("wave started",
		"wave", m.wave,
		"phase", phase,
		"asteroids", m.spawned,
		"health", m.scaling.Health,
		"speed", m.scaling.Speed,
		"yield", m.scaling.Yield,
	)
}

func (m *Manager) checkCompletion() {
	if !m.inProgress || m.population.ActiveCount() > 0 {
		return
	}
	m.inProgress = false
	m.state = Intermission
	m.intermission = m.cfg.Intermission

	m.events.Emit(event.Event{Type: event.WaveCompleted, Wave: m.wave, Value: m.destroyed})
	m.events.Emit(event.Event{Type: event.IntermissionStarted, Wave: m.wave, Value: int(m.cfg.Intermission.Milliseconds())})
	m.logger.Info("wave completed", "wave", m.wave, "destroyed", m.destroyed)
}
