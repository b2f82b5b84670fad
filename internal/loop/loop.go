// Package loop runs one player's terminal frontend: it reads keys, steps a
// game.Session at its fixed tick rate and draws the result. One loop serves
// one connection; nothing is shared between loops.
package loop

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/shardfall/internal/config"
	"github.com/tomz197/shardfall/internal/draw"
	"github.com/tomz197/shardfall/internal/game"
	"github.com/tomz197/shardfall/internal/input"
	"github.com/tomz197/shardfall/internal/logging"
)

// Screen is the frontend's current phase.
type Screen int

const (
	ScreenTitle Screen = iota
	ScreenPlaying
	ScreenGameOver
)

func (s Screen) String() string {
	switch s {
	case ScreenTitle:
		return "title"
	case ScreenPlaying:
		return "playing"
	case ScreenGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// Options configures a frontend.
type Options struct {
	TermSizeFunc draw.TermSizeFunc // Defaults to draw.DefaultTermSizeFunc
	Logger       *log.Logger
	Seed         int64 // 0 seeds from the clock
}

// App is the frontend state machine around a game.Session. Frame advances it,
// Draw renders it; Run drives both in real time.
type App struct {
	session *game.Session
	effects *Effects
	step    time.Duration

	canvas   *draw.Canvas
	cw       *draw.ChunkWriter
	w        io.Writer
	termSize draw.TermSizeFunc
	logger   *log.Logger

	screen   Screen
	paused   bool
	inactive bool
	// What the last drawn frame showed; a change forces a full clear.
	drawn         Screen
	drawnPaused   bool
	drawnInactive bool

	clock    time.Duration // Frontend time, drives blinking
	acc      time.Duration // Unsimulated time
	idle     time.Duration
	overFor  time.Duration // Time spent on the game over screen
	prev     input.Input
	running  bool
	lastGame game.Status
}

// New builds a frontend writing to w.
func New(w io.Writer, cfg config.Config, opts Options) *App {
	termSize := opts.TermSizeFunc
	if termSize == nil {
		termSize = draw.DefaultTermSizeFunc
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger := logging.OrDiscard(opts.Logger)

	a := &App{
		step:     cfg.World.TickTime(),
		w:        w,
		termSize: termSize,
		logger:   logger.WithPrefix("loop"),
		screen:   ScreenTitle,
		drawn:    -1,
		running:  true,
	}

	a.effects = NewEffects(rand.New(rand.NewSource(seed+1)), maxParticles)
	a.session = game.New(cfg,
		game.WithSeed(seed),
		game.WithLogger(logger),
		game.WithListener(a.effects.Listen),
	)

	termWidth, termHeight, _ := termSize()
	renderWidth, renderHeight, offsetCol, offsetRow := draw.ClampSize(termWidth, termHeight, MaxTermWidth, MaxTermHeight)
	a.canvas = draw.NewScaledCanvas(renderWidth, renderHeight, cfg.World.Width, cfg.World.Height)
	a.canvas.SetOffset(offsetCol, offsetRow)
	a.cw = draw.NewChunkWriter(w, offsetCol, offsetRow)
	return a
}

// Run plays until the player quits, the input closes, the player goes idle
// for too long or ctx is done. It owns the terminal for that time.
func Run(ctx context.Context, r *bufio.Reader, w io.Writer, cfg config.Config, opts Options) error {
	a := New(w, cfg, opts)
	stream := input.StartStream(r)
	defer stream.Stop()

	draw.HideCursor(w)
	defer draw.ShowCursor(w)
	draw.ClearScreen(w)

	timer := time.NewTimer(0)
	defer timer.Stop()

	last := time.Now()
	for a.Running() {
		select {
		case <-ctx.Done():
			a.logger.Debug("context done", "err", ctx.Err())
			draw.ClearScreen(w)
			return nil
		case <-timer.C:
		}

		frameStart := time.Now()
		delta := frameStart.Sub(last)
		last = frameStart

		a.Frame(delta, stream.Read())
		if err := a.Draw(); err != nil {
			return fmt.Errorf("draw frame: %w", err)
		}

		timer.Reset(max(TargetFrameTime-time.Since(frameStart), 0))
	}

	draw.ClearScreen(w)
	return nil
}

// Running reports whether the frontend wants more frames.
func (a *App) Running() bool {
	return a.running
}

// Screen returns the current screen.
func (a *App) Screen() Screen {
	return a.screen
}

// Session returns the game being played.
func (a *App) Session() *game.Session {
	return a.session
}

// Effects returns the particle layer.
func (a *App) Effects() *Effects {
	return a.effects
}

// Frame advances the frontend by delta of wall time with the keys in held.
func (a *App) Frame(delta time.Duration, in input.Input) {
	if !a.running {
		return
	}
	delta = min(max(delta, 0), maxFrameDelta)
	a.clock += delta
	defer func() { a.prev = in }()

	if in.Quit {
		a.running = false
		a.logger.Debug("player quit", "screen", a.screen)
		return
	}
	if a.trackIdle(delta, in) {
		return
	}

	a.updateScreen()

	switch a.screen {
	case ScreenTitle:
		if a.pressed(in, func(i input.Input) bool { return i.Space || i.Enter }) {
			a.startGame()
		}
	case ScreenPlaying:
		a.updatePlaying(delta, in)
	case ScreenGameOver:
		a.overFor += delta
		a.effects.Update(delta)
		if a.overFor >= RestartDelay && a.pressed(in, func(i input.Input) bool { return i.Space || i.Enter }) {
			a.startGame()
		}
	}
}

// trackIdle handles the inactivity warning. It reports whether the frame
// should stop here.
func (a *App) trackIdle(delta time.Duration, in input.Input) bool {
	if in.Any() {
		wasInactive := a.inactive
		a.idle = 0
		a.inactive = false
		// The key that dismisses the warning is not also a game input.
		return wasInactive
	}
	a.idle += delta
	switch {
	case a.idle > InactivityDisconnect:
		a.running = false
		a.logger.Info("disconnecting idle player", "idle", a.idle)
		return true
	case a.idle > InactivityWarn:
		a.inactive = true
		return true
	}
	return false
}

func (a *App) pressed(in input.Input, key func(input.Input) bool) bool {
	return key(in) && !key(a.prev)
}

func (a *App) updatePlaying(delta time.Duration, in input.Input) {
	if a.pressed(in, func(i input.Input) bool { return i.Pause || i.Escape }) {
		a.paused = !a.paused
	}
	if a.paused {
		return
	}

	a.acc += delta
	for a.acc >= a.step {
		a.session.Update(a.step, in)
		a.effects.Update(a.step)
		a.acc -= a.step
	}

	a.lastGame = a.session.Status()
	if a.lastGame.State == game.GameOver {
		a.screen = ScreenGameOver
		a.overFor = 0
		a.acc = 0
	}
}

func (a *App) startGame() {
	a.session.Start()
	a.effects.Clear()
	a.lastGame = a.session.Status()
	a.screen = ScreenPlaying
	a.paused = false
	a.acc = 0
}

// updateScreen handles terminal resize, clamping to max render resolution.
// On actual size changes, clears the terminal to remove residual pixels
// outside the new canvas area.
func (a *App) updateScreen() {
	termWidth, termHeight, err := a.termSize()
	if err != nil {
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := draw.ClampSize(termWidth, termHeight, MaxTermWidth, MaxTermHeight)

	resized := a.canvas.Resize(renderWidth, renderHeight)
	if resized || offsetCol != a.canvas.OffsetCol() || offsetRow != a.canvas.OffsetRow() {
		a.cw.WriteString("\033[H\033[2J")
		a.canvas.ForceRedraw()
		a.logger.Debug("terminal resized", "width", termWidth, "height", termHeight)
	}
	a.canvas.SetOffset(offsetCol, offsetRow)
	a.cw.SetOffset(offsetCol, offsetRow)
}
