// Package wave drives difficulty progression: which wave is running, how much
// tougher its asteroids are, and the pause between waves.
package wave

import (
	"math"

	"github.com/tomz197/shardfall/internal/config"
)

// Multiplier returns (1+rate)^(wave-1). Wave 1 and below are unscaled.
func Multiplier(wave int, rate float64) float64 {
	if wave <= 1 {
		return 1
	}
	return math.Pow(1+rate, float64(wave-1))
}

// Scaling is the set of multipliers applied to everything spawned in a wave.
type Scaling struct {
	Health float64
	Speed  float64
	Yield  float64
}

// Identity is the wave 1 scaling.
func Identity() Scaling {
	return Scaling{Health: 1, Speed: 1, Yield: 1}
}

// ScaleInt applies m to a base value, rounding to the nearest integer.
func ScaleInt(base int, m float64) int {
	return int(math.Round(float64(base) * m))
}

// ScalingFor computes the multipliers for wave, clamped by the configured maxima.
func ScalingFor(wave int, cfg config.WaveConfig) Scaling {
	return Scaling{
		Health: clamp(Multiplier(wave, cfg.HealthRate), cfg.MaxHealthMultiplier),
		Speed:  clamp(Multiplier(wave, cfg.SpeedRate), cfg.MaxSpeedMultiplier),
		Yield:  clamp(Multiplier(wave, cfg.YieldRate), cfg.MaxYieldMultiplier),
	}
}

func clamp(m, limit float64) float64 {
	if limit > 0 && m > limit {
		return limit
	}
	return m
}

// AsteroidCount is the number of asteroids a wave starts with: the base count
// through the tutorial, then one more per wave, never above maxActive.
func AsteroidCount(wave int, cfg config.WaveConfig, maxActive int) int {
	count := cfg.BaseCount
	if wave > cfg.TutorialWaves {
		count += wave - cfg.TutorialWaves
	}
	if maxActive > 0 && count > maxActive {
		count = maxActive
	}
	return count
}

// Phase is the broad stage of a session.
type Phase int

const (
	Tutorial Phase = iota
	Progression
	Endless
)

func (p Phase) String() string {
	switch p {
	case Tutorial:
		return "tutorial"
	case Progression:
		return "progression"
	case Endless:
		return "endless"
	default:
		return "unknown"
	}
}

// PhaseFor returns the phase wave belongs to.
func PhaseFor(wave int, cfg config.WaveConfig) Phase {
	switch {
	case wave >= cfg.EndlessStart:
		return Endless
	case wave <= cfg.TutorialWaves:
		return Tutorial
	default:
		return Progression
	}
}
