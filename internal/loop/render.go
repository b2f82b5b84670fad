package loop

import (
	"math"
	"time"

	"github.com/tomz197/shardfall/internal/draw"
	"github.com/tomz197/shardfall/internal/game"
	"github.com/tomz197/shardfall/internal/object"
	"github.com/tomz197/shardfall/internal/physics"
)

// Cracks reach this share of the way from the center to a vertex.
const crackReach = 0.7

// shardTrail is how far back along its velocity a pulled shard streaks.
const shardTrail = 80 * time.Millisecond

// Draw renders the current frame and flushes it.
func (a *App) Draw() error {
	// On screen, pause or inactivity transitions, do a full terminal clear
	// so UI elements from the previous state don't persist on screen.
	if a.screen != a.drawn || a.paused != a.drawnPaused || a.inactive != a.drawnInactive {
		a.cw.WriteString("\033[H\033[2J")
		a.canvas.ForceRedraw()
		a.drawn = a.screen
		a.drawnPaused = a.paused
		a.drawnInactive = a.inactive
	}

	a.canvas.Clear()
	if a.screen != ScreenTitle && !a.inactive {
		a.drawWorld()
	}
	a.canvas.Render(a.cw)
	a.canvas.RenderBorder(a.cw)

	if a.screen != ScreenTitle && !a.inactive {
		a.effects.Draw(a.canvas, a.cw)
	}
	a.drawUI()

	return a.cw.Flush()
}

// drawWorld rasterizes every live entity onto the canvas.
func (a *App) drawWorld() {
	s := a.session
	c := a.canvas

	for _, ast := range s.Asteroids.Active() {
		pts := draw.Polygon(c.BorrowPoints(len(ast.Vertices)), ast.Position, ast.Vertices, ast.Rotation*math.Pi/180)
		c.DrawPolygon(pts, false)
		drawCracks(c, ast, pts)
	}

	for _, b := range s.Bullets.Active() {
		c.Set(b.Position)
	}

	for _, sh := range s.Shards.Active() {
		if sh.Alpha < 1 && !blinkVisible(sh.TimeToLive, ShardBlinkFrequency) {
			continue
		}
		if sh.Attracting {
			drawPulledShard(c, sh)
			continue
		}
		diamond := c.BorrowPoints(4)
		r := sh.Radius
		diamond[0] = sh.Position.Add(draw.Point{0, -r})
		diamond[1] = sh.Position.Add(draw.Point{r, 0})
		diamond[2] = sh.Position.Add(draw.Point{0, r})
		diamond[3] = sh.Position.Add(draw.Point{-r, 0})
		c.DrawPolygon(diamond, true)
	}

	if s.State() == game.Playing && blinkVisible(s.Ship.Invincible, ShipBlinkFrequency) {
		ship := s.Ship
		c.DrawPolygon(draw.Triangle(c.BorrowPoints(3), ship.Position, ship.Radius, ship.Angle), false)
		if ship.Thrusting && blinkVisible(a.clock, ShipBlinkFrequency*2) {
			tail := ship.Position.Sub(ship.Nose().Sub(ship.Position).Mul(1.4))
			c.DrawLine(ship.Position, tail)
		}
	}
}

// drawCracks draws one crack per damage tier, spread around the outline.
func drawCracks(c *draw.Canvas, ast *object.Asteroid, outline []draw.Point) {
	tier := ast.DamageTier()
	if tier == 0 || len(outline) == 0 {
		return
	}
	for i := range tier {
		v := outline[i*len(outline)/4]
		c.DrawLine(ast.Position, physics.Lerp(ast.Position, v, crackReach))
	}
}

// drawPulledShard draws a shard inside the magnet radius as an arrowhead
// pointing where it flies, with a short streak behind it.
func drawPulledShard(c *draw.Canvas, sh *object.Shard) {
	tail := sh.Position.Sub(sh.Velocity.Mul(shardTrail.Seconds()))
	c.DrawLine(tail, sh.Position)
	head := draw.Triangle(c.BorrowPoints(3), sh.Position, sh.Radius*1.5, physics.Heading(sh.Velocity))
	c.DrawPolygon(head, true)
}

// blinkVisible reports whether something blinking for the given remaining
// time is drawn this frame. No time left means steadily visible.
func blinkVisible(remaining time.Duration, frequency float64) bool {
	if remaining <= 0 {
		return true
	}
	phase := int(remaining.Seconds() * frequency)
	return phase%2 != 0
}
