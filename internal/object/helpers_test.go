package object

import (
	"math/rand"
	"testing"

	"github.com/tomz197/shardfall/internal/config"
	"github.com/tomz197/shardfall/internal/event"
	"github.com/tomz197/shardfall/internal/logging"
	"github.com/tomz197/shardfall/internal/physics"
)

var testBounds = physics.Bounds{Width: 800, Height: 600}

func testRand() *rand.Rand {
	return rand.New(rand.NewSource(42))
}

func newTestAsteroidManager(t *testing.T, mutate func(*config.AsteroidConfig)) (*AsteroidManager, *event.Recorder) {
	t.Helper()
	cfg := config.Default().Asteroids
	if mutate != nil {
		mutate(&cfg)
	}
	rec := &event.Recorder{}
	return NewAsteroidManager(cfg, testBounds, testRand(), rec, logging.Discard()), rec
}

func newTestShardManager(t *testing.T, mutate func(*config.ShardConfig)) (*ShardManager, *event.Recorder) {
	t.Helper()
	cfg := config.Default().Shards
	if mutate != nil {
		mutate(&cfg)
	}
	rec := &event.Recorder{}
	return NewShardManager(cfg, testBounds, testRand(), rec, logging.Discard()), rec
}

func newTestBulletManager(t *testing.T, mutate func(*config.BulletConfig)) (*BulletManager, *event.Recorder) {
	t.Helper()
	cfg := config.Default().Bullets
	if mutate != nil {
		mutate(&cfg)
	}
	rec := &event.Recorder{}
	return NewBulletManager(cfg, config.Default().Asteroids.MaxRadius(), testBounds, rec, logging.Discard()), rec
}
