package pileup

import (
	"github.com/pileupgame/pileup/internal/core"
	"github.com/pileupgame/pileup/internal/physics"
)

// Stats holds the running counters for one run. Reset in full on restart.
type Stats struct {
	Generated int // Blocks spawned
	Cleared   int // Blocks removed by full rows
	Lost      int // Blocks fallen out of play

	// GameOver is set once the run is unrecoverable: a block of the
	// active piece fell out, or health hit zero with the board settled.
	GameOver bool
	// SinceLoss accumulates simulated seconds since GameOver was set.
	SinceLoss float64
}

// Health derives the normalized health value from the counters.
//
// 1.0 for a clean run, 0.0 once the active piece is lost or blocks were
// lost before anything was ever cleared; otherwise one minus the loss
// ratio. The raw ratio can exceed the unit range when losses spike right
// after the first clear, so the result is clamped explicitly.
func (s Stats) Health() float64 {
	switch {
	case s.GameOver:
		return 0.0
	case s.Lost == 0:
		return 1.0
	case s.Cleared == 0:
		return 0.0
	default:
		ratio := float64(s.Lost) / float64(s.Cleared)
		return core.ClampF(1.0-ratio, 0.0, 1.0)
	}
}

// trackLosses destroys every block that dropped below the visible area and
// books the loss. Removal is deferred until the full scan is done so the
// scan never observes a half-updated block set.
func (g *Game) trackLosses() {
	limit := g.board.FloorY() - g.cfg.Health.LossMargin

	var doomed []physics.BodyID
	for id := range g.blocks {
		pos, ok := g.engine.Position(id)
		if !ok {
			continue
		}
		if pos.Y < limit {
			doomed = append(doomed, id)
		}
	}

	for _, id := range doomed {
		if g.active != nil && g.active.Contains(id) && !g.stats.GameOver {
			// Losing the piece under control cannot be recovered from.
			g.stats.GameOver = true
			g.stats.SinceLoss = 0
		}
		g.engine.DestroyBody(id)
		delete(g.blocks, id)
		g.stats.Lost++
	}
}

// tickGameOver advances the grace countdown and restarts the board once it
// expires.
func (g *Game) tickGameOver(dt float64) {
	if !g.stats.GameOver {
		return
	}
	g.stats.SinceLoss += dt
	if g.stats.SinceLoss > g.cfg.Health.GraceSeconds {
		g.restart()
	}
}

// restart wipes the board, resets all stats, and drops a fresh piece.
func (g *Game) restart() {
	if g.active != nil {
		for _, joint := range g.active.Joints {
			g.engine.DestroyJoint(joint)
		}
		g.active = nil
	}
	for id := range g.blocks {
		g.engine.DestroyBody(id)
		delete(g.blocks, id)
	}

	g.stats = Stats{}
	g.bar = healthBar{displayed: 1.0, smoothing: g.cfg.Health.Smoothing}
	g.spawnPiece()
}

// healthBar smooths the raw health value for display. Purely observational:
// it reads health and never feeds back into game state.
type healthBar struct {
	displayed float64
	smoothing float64
}

// update moves the displayed value a fraction of the way toward the target.
func (b *healthBar) update(target float64) {
	b.displayed += (target - b.displayed) * b.smoothing
}

// extent returns the displayed bar fill in [0, 1].
func (b *healthBar) extent() float64 {
	return core.ClampF(b.displayed, 0.0, 1.0)
}
