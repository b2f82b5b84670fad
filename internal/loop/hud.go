package loop

import (
	"fmt"

	"github.com/charmbracelet/x/ansi"

	"github.com/tomz197/shardfall/internal/draw"
	"github.com/tomz197/shardfall/internal/game"
	"github.com/tomz197/shardfall/internal/wave"
)

var titleArt = []string{
	` ___ _  _   _   ___ ___  ___ _   _    _    `,
	`/ __| || | /_\ | _ \   \| __/_\ | |  | |   `,
	`\__ \ __ |/ _ \|   / |) | _/ _ \| |__| |__ `,
	`|___/_||_/_/ \_\_|_\___/|_/_/ \_\____|____|`,
}

var gameOverArt = []string{
	`  ___   _   __  __ ___    _____   _____ ___  `,
	` / __| /_\ |  \/  | __|  / _ \ \ / / __| _ \ `,
	`| (_ |/ _ \| |\/| | _|  | (_) \ V /| _||   / `,
	` \___/_/ \_\_|  |_|___|  \___/ \_/ |___|_|_\ `,
}

var controlLines = []string{
	"W / Up  . . . . Thrust",
	"A D / < >  . .  Rotate",
	"SPACE  . . . . . Shoot",
	"P  . . . . . . . Pause",
	"Q  . . . . . . .  Quit",
}

// text writes s at the 1-based canvas position and has the canvas repaint
// those cells next frame, so text that disappears leaves nothing behind.
func (a *App) text(col, row int, s string) {
	if row < 1 || row > a.canvas.TerminalHeight() {
		return
	}
	a.cw.WriteAt(col, row, s)
	a.canvas.MarkTextDirty(col, row, ansi.StringWidth(s))
}

func (a *App) centered(row int, s string) {
	a.text(a.canvas.TerminalWidth()/2-ansi.StringWidth(s)/2+1, row, s)
}

func (a *App) block(top int, lines []string) int {
	width := 0
	for _, l := range lines {
		width = max(width, ansi.StringWidth(l))
	}
	left := a.canvas.TerminalWidth()/2 - width/2 + 1
	for i, l := range lines {
		a.text(left, top+i, l)
	}
	return top + len(lines)
}

func (a *App) promptVisible() bool {
	return (a.clock/PromptBlinkPeriod)%2 == 0
}

// drawUI draws the text layer for the current screen.
func (a *App) drawUI() {
	centerY := a.canvas.TerminalHeight() / 2

	if a.inactive {
		a.centered(centerY-2, "INACTIVITY WARNING")
		left := InactivityDisconnect - a.idle
		a.centered(centerY, fmt.Sprintf("You will be disconnected in %d seconds.", int(left.Seconds())))
		a.centered(centerY+2, "Press any key to continue")
		return
	}

	switch a.screen {
	case ScreenTitle:
		a.drawTitleScreen(centerY)
	case ScreenPlaying:
		a.drawPlayingHUD(centerY)
	case ScreenGameOver:
		a.drawPlayingHUD(centerY)
		a.drawGameOverScreen(centerY)
	}
}

func (a *App) drawTitleScreen(centerY int) {
	row := a.block(centerY-8, titleArt)
	a.centered(row+1, draw.Colorize(draw.ColorDim, "~ break rocks, catch the shards ~"))

	row += 3
	a.centered(row, "Controls")
	row = a.block(row+1, controlLines)

	if a.promptVisible() {
		a.centered(row+1, ">>  Press SPACE to Start  <<")
	}
}

// drawPlayingHUD draws the in-game HUD.
// Text fields use fixed-width formatting so shrinking values don't leave
// residual characters on screen.
func (a *App) drawPlayingHUD(centerY int) {
	st := a.lastGame
	width := a.canvas.TerminalWidth()
	height := a.canvas.TerminalHeight()

	a.text(2, 1, fmt.Sprintf("Score: %-8d", st.Score))
	a.text(2, 2, draw.Colorize(draw.ColorYellow, fmt.Sprintf("Shards: %-6d", st.Shards)))

	lives := fmt.Sprintf("Lives: %-3d", st.Lives)
	a.text(width-ansi.StringWidth(lives), 1, lives)

	a.centered(1, waveLabel(st.Wave))
	if st.Wave.IsEndless {
		a.centered(2, draw.Colorize(draw.ColorBrightRed, "ENDLESS"))
	}

	a.text(2, height, fmt.Sprintf("Rocks: %-4d", st.Wave.AsteroidsRemaining))
	loose := fmt.Sprintf("Loose shards: %-4d", st.Loose)
	if a.pulling() {
		loose = draw.Colorize(draw.ColorBrightCyan, loose)
	}
	a.text(width-ansi.StringWidth(loose), height, loose)

	switch {
	case a.paused:
		a.centered(centerY, "PAUSED")
		a.centered(centerY+2, "Press P to resume")
	case st.Wave.IsIntermission:
		a.centered(centerY-2, fmt.Sprintf("WAVE %d CLEARED", st.Wave.Wave))
		a.centered(centerY, fmt.Sprintf("Next wave in %.1f", st.Wave.IntermissionLeft.Seconds()))
	case st.State == game.Respawning:
		a.centered(centerY-2, fmt.Sprintf("Lives remaining: %d", st.Lives))
		a.centered(centerY, fmt.Sprintf("Respawn in %.1f seconds...", st.RespawnIn.Seconds()))
	}
}

// pulling reports whether any shard is inside the magnet radius.
func (a *App) pulling() bool {
	for _, sh := range a.session.Shards.Active() {
		if sh.Attracting {
			return true
		}
	}
	return false
}

func waveLabel(st wave.Status) string {
	return fmt.Sprintf("Wave %-3d %-11s", st.Wave, st.Phase)
}

func (a *App) drawGameOverScreen(centerY int) {
	st := a.lastGame
	row := a.block(centerY-6, gameOverArt)

	a.centered(row+1, fmt.Sprintf("Score: %d", st.Score))
	a.centered(row+2, fmt.Sprintf("Shards: %d", st.Shards))
	a.centered(row+3, fmt.Sprintf("Reached wave %d", st.Wave.Wave))

	if a.overFor >= RestartDelay && a.promptVisible() {
		a.centered(row+5, ">>  Press SPACE to Restart  <<")
	}
}
