package loop

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/shardfall/internal/config"
	"github.com/tomz197/shardfall/internal/draw"
	"github.com/tomz197/shardfall/internal/event"
	"github.com/tomz197/shardfall/internal/game"
	"github.com/tomz197/shardfall/internal/input"
	"github.com/tomz197/shardfall/internal/logging"
	"github.com/tomz197/shardfall/internal/object"
	"github.com/tomz197/shardfall/internal/physics"
)

const tick = time.Second / 60

func newTestApp(t *testing.T, size draw.TermSizeFunc) (*App, *bytes.Buffer) {
	t.Helper()
	if size == nil {
		size = draw.FixedSize(120, 40)
	}
	var out bytes.Buffer
	a := New(&out, config.Default(), Options{
		TermSizeFunc: size,
		Logger:       logging.Discard(),
		Seed:         7,
	})
	return a, &out
}

func startedApp(t *testing.T) (*App, *bytes.Buffer) {
	t.Helper()
	a, out := newTestApp(t, nil)
	a.Frame(tick, input.Input{Space: true})
	require.Equal(t, ScreenPlaying, a.Screen())
	a.Frame(tick, input.Input{})
	return a, out
}

func TestApp_TitleToPlaying(t *testing.T) {
	a, _ := newTestApp(t, nil)

	a.Frame(tick, input.Input{})
	assert.Equal(t, ScreenTitle, a.Screen())
	assert.Equal(t, game.Idle, a.Session().State())

	a.Frame(tick, input.Input{Enter: true})
	assert.Equal(t, ScreenPlaying, a.Screen())
	assert.Equal(t, game.Playing, a.Session().State())
}

func TestApp_FixedStepAccumulator(t *testing.T) {
	a, _ := startedApp(t)
	before := a.Session().Status().Tick

	a.Frame(tick*5/2, input.Input{})
	assert.Equal(t, before+2, a.Session().Status().Tick, "half a step stays in the accumulator")

	a.Frame(tick/2, input.Input{})
	assert.Equal(t, before+3, a.Session().Status().Tick)

	a.Frame(10*time.Second, input.Input{})
	assert.Equal(t, before+3+uint64(maxFrameDelta/tick), a.Session().Status().Tick, "a stalled frame only catches up so far")
}

func TestApp_PauseStopsSimulation(t *testing.T) {
	a, _ := startedApp(t)
	before := a.Session().Status().Tick

	a.Frame(tick, input.Input{Pause: true})
	a.Frame(tick*3, input.Input{})
	assert.Equal(t, before, a.Session().Status().Tick)

	a.Frame(tick, input.Input{Pause: true})
	assert.Equal(t, before+1, a.Session().Status().Tick)
}

func TestApp_GameOverAndRestart(t *testing.T) {
	a, _ := startedApp(t)

	for i := 0; i < 200 && a.Screen() != ScreenGameOver; i++ {
		s := a.Session()
		if s.State() == game.Playing {
			s.Ship.Invincible = 0
			rock := s.Asteroids.Active()[0]
			rock.Position = s.Ship.Position
			rock.Velocity = physics.Vec{}
		}
		a.Frame(100*time.Millisecond, input.Input{})
	}
	require.Equal(t, ScreenGameOver, a.Screen())
	assert.Positive(t, a.Effects().Len(), "the last death still has particles flying")

	a.Frame(tick, input.Input{Space: true})
	assert.Equal(t, ScreenGameOver, a.Screen(), "restart is held back for a moment")

	for i := 0; i < 5; i++ {
		a.Frame(maxFrameDelta, input.Input{})
	}
	a.Frame(tick, input.Input{Space: true})
	assert.Equal(t, ScreenPlaying, a.Screen())
	assert.Equal(t, 3, a.Session().Status().Lives)
	assert.Zero(t, a.Effects().Len())
}

func TestApp_Quit(t *testing.T) {
	a, _ := startedApp(t)
	a.Frame(tick, input.Input{Quit: true})
	assert.False(t, a.Running())
}

func TestApp_Inactivity(t *testing.T) {
	a, _ := newTestApp(t, nil)

	for a.idle <= InactivityWarn {
		a.Frame(maxFrameDelta, input.Input{})
	}
	assert.True(t, a.inactive)
	assert.True(t, a.Running())

	a.Frame(tick, input.Input{Enter: true})
	assert.False(t, a.inactive)
	assert.Equal(t, ScreenTitle, a.Screen(), "dismissing the warning does not start a game")

	for i := 0; i < 1000 && a.Running(); i++ {
		a.Frame(maxFrameDelta, input.Input{})
	}
	assert.False(t, a.Running())
}

func TestApp_DrawScreens(t *testing.T) {
	a, out := newTestApp(t, nil)

	a.Frame(tick, input.Input{})
	require.NoError(t, a.Draw())
	assert.Contains(t, out.String(), "Press SPACE to Start")
	assert.Contains(t, out.String(), "\033[H\033[2J", "first frame clears the terminal")

	out.Reset()
	a.Frame(tick, input.Input{Space: true})
	require.NoError(t, a.Draw())
	assert.Contains(t, out.String(), "Score: 0")
	assert.Contains(t, out.String(), "Wave 1")
	assert.Contains(t, out.String(), "tutorial")
	assert.Contains(t, out.String(), "Lives: 3")

	out.Reset()
	a.Frame(tick, input.Input{Pause: true})
	require.NoError(t, a.Draw())
	assert.Contains(t, out.String(), "PAUSED")
}

// emptyField starts a game and removes everything from the playfield.
func emptyField(t *testing.T) (*App, *bytes.Buffer) {
	t.Helper()
	a, out := startedApp(t)
	a.Session().Asteroids.Clear()
	a.Session().Shards.Clear()
	a.Effects().Clear()
	return a, out
}

// redraw repaints every cell and returns how many are lit.
func redraw(t *testing.T, a *App, out *bytes.Buffer) int {
	t.Helper()
	out.Reset()
	a.canvas.ForceRedraw()
	require.NoError(t, a.Draw())
	return strings.Count(out.String(), "█") + strings.Count(out.String(), "▀") + strings.Count(out.String(), "▄")
}

func TestApp_DamagedAsteroidsShowCracks(t *testing.T) {
	a, out := emptyField(t)
	rock := a.Session().Asteroids.GetAsteroidWithMotion(object.AsteroidLarge, physics.Vec{600, 150}, physics.Vec{}, 0)
	require.NotNil(t, rock)

	intact := redraw(t, a, out)

	rock.Health = 1
	require.Equal(t, 4, rock.DamageTier())
	cracked := redraw(t, a, out)
	assert.Greater(t, cracked, intact)
}

func TestApp_PulledShardsLookDifferent(t *testing.T) {
	a, out := emptyField(t)
	shards := a.Session().Shards.SpawnFromAsteroid(object.AsteroidData{Size: object.AsteroidLarge, Position: physics.Vec{200, 300}}, 1)
	require.NotEmpty(t, shards)
	for _, sh := range shards[1:] {
		a.Session().Shards.Return(sh)
	}
	sh := shards[0]
	sh.Position = physics.Vec{200, 300}
	sh.Velocity = physics.Vec{300, 0}

	loose := redraw(t, a, out)
	assert.NotContains(t, out.String(), "\033[96m")

	sh.Attracting = true
	pulled := redraw(t, a, out)
	assert.Greater(t, pulled, loose, "a pulled shard streaks behind itself")
	assert.Contains(t, out.String(), "\033[96mLoose shards:")
}

func TestApp_ResizeClearsAndRescales(t *testing.T) {
	width, height := 120, 40
	a, out := newTestApp(t, func() (int, int, error) { return width, height, nil })
	a.Frame(tick, input.Input{})
	require.NoError(t, a.Draw())

	out.Reset()
	width, height = 400, 100
	a.Frame(tick, input.Input{})
	require.NoError(t, a.Draw())

	assert.Contains(t, out.String(), "\033[H\033[2J")
	assert.Equal(t, MaxTermWidth, a.canvas.TerminalWidth())
	assert.Equal(t, MaxTermHeight, a.canvas.TerminalHeight())
	assert.Equal(t, (400-MaxTermWidth)/2, a.canvas.OffsetCol())
	assert.Contains(t, out.String(), "┌", "oversized terminals get a border")
}

func TestRun_StopsWhenInputCloses(t *testing.T) {
	var out bytes.Buffer
	err := Run(context.Background(), bufio.NewReader(strings.NewReader("")), &out, config.Default(), Options{
		TermSizeFunc: draw.FixedSize(80, 24),
		Logger:       logging.Discard(),
	})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(out.String(), "\033[H\033[2J\033[?25h"), "terminal is cleared and the cursor restored")
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	var out bytes.Buffer
	err := Run(ctx, bufio.NewReader(pr), &out, config.Default(), Options{
		TermSizeFunc: draw.FixedSize(80, 24),
		Logger:       logging.Discard(),
	})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Press SPACE to Start")
}

func TestEffects_BurstsAndRecycling(t *testing.T) {
	e := NewEffects(rand.New(rand.NewSource(1)), 10)

	e.Listen(event.Event{Type: event.AsteroidDestroyed, Position: physics.Vec{100, 100}, Value: 3})
	assert.Equal(t, 10, e.Len(), "bursts stop at the particle limit")
	created := e.pool.Created()

	e.Listen(event.Event{Type: event.ShardCollected})
	assert.Equal(t, 10, e.Len(), "other events are ignored")

	e.Update(2 * asteroidBurstLife)
	assert.Zero(t, e.Len())

	e.Listen(event.Event{Type: event.PlayerDied, Position: physics.Vec{5, 5}})
	assert.Equal(t, 10, e.Len())
	assert.Equal(t, created, e.pool.Created(), "particles are reused")

	e.Clear()
	assert.Zero(t, e.Len())
}

func TestEffects_ParticlesMoveAndSlow(t *testing.T) {
	e := NewEffects(rand.New(rand.NewSource(1)), 4)
	e.Explode(physics.Vec{0, 0}, 1, 100, time.Second)
	p := e.active[0]
	speed := p.vel.Len()

	e.Update(tick)
	assert.Positive(t, p.pos.Len())
	assert.Less(t, p.vel.Len(), speed)
}

func TestEffects_Draw(t *testing.T) {
	e := NewEffects(rand.New(rand.NewSource(1)), 4)
	e.Explode(physics.Vec{400, 300}, 2, 0, time.Second)
	e.Explode(physics.Vec{-500, 300}, 1, 0, time.Second) // off screen

	c := draw.NewScaledCanvas(80, 30, 800, 600)
	var out bytes.Buffer
	cw := draw.NewChunkWriter(&out, 0, 0)
	e.Draw(c, cw)
	require.NoError(t, cw.Flush())

	assert.Equal(t, 2, strings.Count(out.String(), "\033[16;41H"))
}

func TestBlinkVisible(t *testing.T) {
	assert.True(t, blinkVisible(0, 10))
	assert.True(t, blinkVisible(150*time.Millisecond, 10))
	assert.False(t, blinkVisible(250*time.Millisecond, 10))
}

func TestScreenString(t *testing.T) {
	assert.Equal(t, "game_over", ScreenGameOver.String())
	assert.Equal(t, "unknown", Screen(42).String())
}
