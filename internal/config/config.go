package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds every tunable of the game. Distances are in world units
// (pixels of the logical playfield), angles in degrees.
type Config struct {
	LogLevel  string         `mapstructure:"logLevel"`
	World     WorldConfig    `mapstructure:"world"`
	Asteroids AsteroidConfig `mapstructure:"asteroids"`
	Bullets   BulletConfig   `mapstructure:"bullets"`
	Shards    ShardConfig    `mapstructure:"shards"`
	Spawn     SpawnConfig    `mapstructure:"spawn"`
	Wave      WaveConfig     `mapstructure:"wave"`
	Player    PlayerConfig   `mapstructure:"player"`
	Server    ServerConfig   `mapstructure:"server"`
}

// WorldConfig describes the playfield and simulation rate.
type WorldConfig struct {
	Width    float64 `mapstructure:"width"`
	Height   float64 `mapstructure:"height"`
	TickRate int     `mapstructure:"tickRate"` // Simulation steps per second
}

// TickTime returns the fixed simulation step.
func (w WorldConfig) TickTime() time.Duration {
	if w.TickRate <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(w.TickRate)
}

// AsteroidSizeConfig tunes one asteroid size.
type AsteroidSizeConfig struct {
	Health    int     `mapstructure:"health"`
	Speed     float64 `mapstructure:"speed"`   // Base speed, units/sec
	SpinMin   float64 `mapstructure:"spinMin"` // Degrees/sec
	SpinMax   float64 `mapstructure:"spinMax"`
	MinSplits int     `mapstructure:"minSplits"`
	MaxSplits int     `mapstructure:"maxSplits"`
	Scale     float64 `mapstructure:"scale"`  // Visual scale relative to a large asteroid
	Radius    float64 `mapstructure:"radius"` // Collision radius, half the visual extent
	Score     int     `mapstructure:"score"`
}

// AsteroidConfig tunes asteroids and their splitting.
type AsteroidConfig struct {
	Large     AsteroidSizeConfig `mapstructure:"large"`
	Medium    AsteroidSizeConfig `mapstructure:"medium"`
	Small     AsteroidSizeConfig `mapstructure:"small"`
	MaxActive int                `mapstructure:"maxActive"`
	PoolSize  int                `mapstructure:"poolSize"` // Pre-warmed instances per size

	InheritFactor float64 `mapstructure:"inheritFactor"` // Share of parent velocity kept by fragments
	ScatterFactor float64 `mapstructure:"scatterFactor"` // Share of parent speed pushed radially
	ScatterMin    float64 `mapstructure:"scatterMin"`
	ScatterMax    float64 `mapstructure:"scatterMax"`
	AngleJitter   float64 `mapstructure:"angleJitter"`  // Radians
	FragmentSpin  float64 `mapstructure:"fragmentSpin"` // Fragments spin within ±FragmentSpin deg/s
	Bounce        bool    `mapstructure:"bounce"`       // Asteroids collide elastically with each other
}

// MaxRadius returns the largest collision radius across sizes.
func (a AsteroidConfig) MaxRadius() float64 {
	return max(a.Large.Radius, a.Medium.Radius, a.Small.Radius)
}

// MinRadius returns the smallest collision radius across sizes.
func (a AsteroidConfig) MinRadius() float64 {
	return min(a.Large.Radius, a.Medium.Radius, a.Small.Radius)
}

// BulletConfig tunes player bullets.
type BulletConfig struct {
	Damage    int           `mapstructure:"damage"`
	Speed     float64       `mapstructure:"speed"`
	Lifetime  time.Duration `mapstructure:"lifetime"`
	FireRate  time.Duration `mapstructure:"fireRate"` // Minimum interval between shots
	Radius    float64       `mapstructure:"radius"`
	MaxActive int           `mapstructure:"maxActive"`
	PoolSize  int           `mapstructure:"poolSize"`
}

// ShardConfig tunes the shard currency.
type ShardConfig struct {
	YieldLarge    int           `mapstructure:"yieldLarge"`
	YieldMedium   int           `mapstructure:"yieldMedium"`
	YieldSmall    int           `mapstructure:"yieldSmall"`
	Value         int           `mapstructure:"value"`
	Lifespan      time.Duration `mapstructure:"lifespan"`
	MagnetRadius  float64       `mapstructure:"magnetRadius"`
	MagnetForce   float64       `mapstructure:"magnetForce"`
	MagnetBlend   float64       `mapstructure:"magnetBlend"` // Per-tick blend of attraction into velocity
	CollectRadius float64       `mapstructure:"collectRadius"`
	ScatterSpeed  float64       `mapstructure:"scatterSpeed"`
	Drag          float64       `mapstructure:"drag"`          // Velocity kept per 1/60 s when not attracted
	FadeThreshold float64       `mapstructure:"fadeThreshold"` // Lifetime fraction where fading starts
	Radius        float64       `mapstructure:"radius"`
	MaxActive     int           `mapstructure:"maxActive"`
	PoolSize      int           `mapstructure:"poolSize"`
}

// SpawnConfig tunes safe-position search.
type SpawnConfig struct {
	Attempts          int     `mapstructure:"attempts"`
	AsteroidClearance float64 `mapstructure:"asteroidClearance"` // Minimum distance to any active asteroid
	AvoidRadius       float64 `mapstructure:"avoidRadius"`       // Minimum distance to the player for wave spawns
	EdgeMargin        float64 `mapstructure:"edgeMargin"` // At most the smallest asteroid radius
	SplitOffsetMin    float64 `mapstructure:"splitOffsetMin"`
	SplitOffsetMax    float64 `mapstructure:"splitOffsetMax"`
}

// WaveConfig tunes difficulty progression.
type WaveConfig struct {
	HealthRate          float64       `mapstructure:"healthRate"`
	SpeedRate           float64       `mapstructure:"speedRate"`
	YieldRate           float64       `mapstructure:"yieldRate"`
	MaxHealthMultiplier float64       `mapstructure:"maxHealthMultiplier"` // 0 disables the clamp
	MaxSpeedMultiplier  float64       `mapstructure:"maxSpeedMultiplier"`
	MaxYieldMultiplier  float64       `mapstructure:"maxYieldMultiplier"`
	Intermission        time.Duration `mapstructure:"intermission"`
	TutorialWaves       int           `mapstructure:"tutorialWaves"`
	EndlessStart        int           `mapstructure:"endlessStart"`
	BaseCount           int           `mapstructure:"baseCount"`
}

// PlayerConfig tunes the ship.
type PlayerConfig struct {
	Lives         int           `mapstructure:"lives"`
	Invincibility time.Duration `mapstructure:"invincibility"`
	RespawnDelay  time.Duration `mapstructure:"respawnDelay"`
	Thrust        float64       `mapstructure:"thrust"`   // Units/sec²
	Rotation      float64       `mapstructure:"rotation"` // Radians/sec
	MaxSpeed      float64       `mapstructure:"maxSpeed"`
	Drag          float64       `mapstructure:"drag"` // Velocity kept per second without thrust
	Radius        float64       `mapstructure:"radius"`
}

// ServerConfig configures the SSH frontend.
type ServerConfig struct {
	Host        string `mapstructure:"host"`
	Port        string `mapstructure:"port"`
	HostKeyPath string `mapstructure:"hostKeyPath"`
}

// Default returns the shipped tuning.
func Default() Config {
	return Config{
		LogLevel: "info",
		World: WorldConfig{
			Width:    800,
			Height:   600,
			TickRate: 60,
		},
		Asteroids: AsteroidConfig{
			Large: AsteroidSizeConfig{
				Health: 100, Speed: 50, SpinMin: -30, SpinMax: 30,
				MinSplits: 2, MaxSplits: 3, Scale: 1.0, Radius: 40, Score: 20,
			},
			Medium: AsteroidSizeConfig{
				Health: 50, Speed: 80, SpinMin: -60, SpinMax: 60,
				MinSplits: 2, MaxSplits: 3, Scale: 0.6, Radius: 24, Score: 50,
			},
			Small: AsteroidSizeConfig{
				Health: 25, Speed: 120, SpinMin: -90, SpinMax: 90,
				Scale: 0.3, Radius: 12, Score: 100,
			},
			MaxActive:     30,
			PoolSize:      8,
			InheritFactor: 0.3,
			ScatterFactor: 0.7,
			ScatterMin:    0.5,
			ScatterMax:    1.5,
			AngleJitter:   0.5,
			FragmentSpin:  60,
			Bounce:        true,
		},
		Bullets: BulletConfig{
			Damage:    20,
			Speed:     400,
			Lifetime:  time.Second,
			FireRate:  150 * time.Millisecond,
			Radius:    2,
			MaxActive: 30,
			PoolSize:  16,
		},
		Shards: ShardConfig{
			YieldLarge:    5,
			YieldMedium:   3,
			YieldSmall:    1,
			Value:         1,
			Lifespan:      4 * time.Second,
			MagnetRadius:  120,
			MagnetForce:   300,
			MagnetBlend:   0.15,
			CollectRadius: 24,
			ScatterSpeed:  60,
			Drag:          0.95,
			FadeThreshold: 0.3,
			Radius:        4,
			MaxActive:     100,
			PoolSize:      32,
		},
		Spawn: SpawnConfig{
			Attempts:          20,
			AsteroidClearance: 50,
			AvoidRadius:       150,
			EdgeMargin:        10,
			SplitOffsetMin:    5,
			SplitOffsetMax:    20,
		},
		Wave: WaveConfig{
			HealthRate:          0.20,
			SpeedRate:           0.05,
			YieldRate:           0.05,
			MaxHealthMultiplier: 25,
			MaxSpeedMultiplier:  2.5,
			MaxYieldMultiplier:  4,
			Intermission:        2500 * time.Millisecond,
			TutorialWaves:       2,
			EndlessStart:        11,
			BaseCount:           3,
		},
		Player: PlayerConfig{
			Lives:         3,
			Invincibility: 3 * time.Second,
			RespawnDelay:  time.Second,
			Thrust:        300,
			Rotation:      5,
			MaxSpeed:      250,
			Drag:          0.5,
			Radius:        10,
		},
		Server: ServerConfig{
			Host:        "::",
			Port:        "2222",
			HostKeyPath: "/app/keys/host_key",
		},
	}
}

// Validate checks the invariants the simulation relies on.
func (c Config) Validate() error {
	var errs []error

	if c.World.Width <= 0 || c.World.Height <= 0 {
		errs = append(errs, fmt.Errorf("world: size must be positive, got %gx%g", c.World.Width, c.World.Height))
	}
	if c.Shards.CollectRadius >= c.Shards.MagnetRadius {
		errs = append(errs, fmt.Errorf("shards: collect radius %g must be smaller than magnet radius %g",
			c.Shards.CollectRadius, c.Shards.MagnetRadius))
	}
	if c.Shards.MagnetBlend < 0 || c.Shards.MagnetBlend > 1 {
		errs = append(errs, fmt.Errorf("shards: magnet blend %g must be within [0,1]", c.Shards.MagnetBlend))
	}
	if c.Shards.Lifespan <= 0 {
		errs = append(errs, errors.New("shards: lifespan must be positive"))
	}
	for name, size := range map[string]AsteroidSizeConfig{
		"large":  c.Asteroids.Large,
		"medium": c.Asteroids.Medium,
		"small":  c.Asteroids.Small,
	} {
		if size.Health <= 0 {
			errs = append(errs, fmt.Errorf("asteroids.%s: health must be positive", name))
		}
		if size.MinSplits < 0 || size.MinSplits > size.MaxSplits {
			errs = append(errs, fmt.Errorf("asteroids.%s: split range [%d,%d] is invalid", name, size.MinSplits, size.MaxSplits))
		}
		if size.SpinMin > size.SpinMax {
			errs = append(errs, fmt.Errorf("asteroids.%s: spin range [%g,%g] is invalid", name, size.SpinMin, size.SpinMax))
		}
	}
	if c.Asteroids.ScatterMin > c.Asteroids.ScatterMax {
		errs = append(errs, errors.New("asteroids: scatter range is invalid"))
	}
	if c.Spawn.EdgeMargin <= 0 || c.Spawn.EdgeMargin > c.Asteroids.MinRadius() {
		errs = append(errs, fmt.Errorf("spawn: edge margin %g must be within (0, %g], the smallest asteroid radius",
			c.Spawn.EdgeMargin, c.Asteroids.MinRadius()))
	}
	for name, p := range map[string][2]int{
		"asteroids": {c.Asteroids.MaxActive, c.Asteroids.PoolSize},
		"bullets":   {c.Bullets.MaxActive, c.Bullets.PoolSize},
		"shards":    {c.Shards.MaxActive, c.Shards.PoolSize},
	} {
		if p[0] <= 0 {
			errs = append(errs, fmt.Errorf("%s: max active must be positive, got %d", name, p[0]))
		}
		if p[1] <= 0 {
			errs = append(errs, fmt.Errorf("%s: pool size must be positive, got %d", name, p[1]))
		}
	}
	if c.Spawn.SplitOffsetMin > c.Spawn.SplitOffsetMax {
		errs = append(errs, errors.New("spawn: split offset range is invalid"))
	}
	if c.Wave.EndlessStart <= c.Wave.TutorialWaves {
		errs = append(errs, fmt.Errorf("wave: endless start %d must come after the tutorial (%d waves)",
			c.Wave.EndlessStart, c.Wave.TutorialWaves))
	}
	if c.Wave.HealthRate < 0 || c.Wave.SpeedRate < 0 || c.Wave.YieldRate < 0 {
		errs = append(errs, errors.New("wave: scaling rates must not be negative"))
	}

	return errors.Join(errs...)
}

// Load reads configuration on top of Default. path may be empty, in which
// case only defaults and SHARDFALL_* environment overrides apply. The file
// format follows the extension (yaml, json, toml).
func Load(path string) (Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetEnvPrefix("SHARDFALL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Environment overrides only apply to keys viper knows about.
	v.SetDefault("logLevel", cfg.LogLevel)
	v.SetDefault("world.width", cfg.World.Width)
	v.SetDefault("world.height", cfg.World.Height)
	v.SetDefault("world.tickRate", cfg.World.TickRate)
	v.SetDefault("server.host", cfg.Server.Host)
	v.SetDefault("server.port", cfg.Server.Port)
	v.SetDefault("server.hostKeyPath", cfg.Server.HostKeyPath)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("error decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
