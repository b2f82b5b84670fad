package loop

import "time"

// Frame pacing. The simulation runs at the session's own tick rate inside
// the frame through an accumulator; these only decide how often we draw.
const (
	TargetFPS       = 60
	TargetFrameTime = time.Second / TargetFPS

	// maxFrameDelta caps how much simulated time one slow frame may catch up.
	maxFrameDelta = 250 * time.Millisecond
)

// Render area. Larger terminals get a centered, bordered render area.
const (
	MaxTermWidth  = 160
	MaxTermHeight = 50
)

// Blink rates in Hz.
const (
	ShipBlinkFrequency  = 10.0
	ShardBlinkFrequency = 8.0
	PromptBlinkPeriod   = 600 * time.Millisecond
)

// Inactivity is the time since any key was last held.
const (
	InactivityWarn       = 90 * time.Second
	InactivityDisconnect = 120 * time.Second
)

// RestartDelay keeps a held fire key from skipping the game over screen.
const RestartDelay = time.Second

// Explosions
const (
	maxParticles       = 256
	asteroidBurstCount = 6 // Per size step: small 6, medium 12, large 18
	asteroidBurstSpeed = 70.0
	asteroidBurstLife  = 600 * time.Millisecond
	shipBurstCount     = 28
	shipBurstSpeed     = 110.0
	shipBurstLife      = 1200 * time.Millisecond
	particleDrag       = 0.95
)
