// Package pileup implements the physics falling-block puzzle.
//
// Unlike a grid puzzle, a piece here is four square rigid bodies pinned
// together by joints and dropped into a simulated pit. Pieces topple, lean,
// and wedge; the puzzle rules (settling, row completion, losing blocks off
// the bottom) are imposed on top of the continuous simulation using only
// positions and the engine's rest signal.
package pileup

import (
	"fmt"
	"math/rand"

	"github.com/pileupgame/pileup/internal/config"
	"github.com/pileupgame/pileup/internal/core"
	"github.com/pileupgame/pileup/internal/physics"
	"github.com/pileupgame/pileup/internal/registry"
)

// Mode represents the game mode.
type Mode string

const (
	// ModeClassic starts at the configured difficulty and progresses.
	ModeClassic Mode = "classic"
	// ModeSlick pins difficulty at maximum: minimal damping, fast falls.
	ModeSlick Mode = "slick"
)

// Package-level variables for config/difficulty set via CLI before creation.
var (
	configPath       string
	difficultyPreset config.DifficultyPreset
)

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset.
func SetDifficultyPreset(preset string) {
	switch preset {
	case "easy":
		difficultyPreset = config.DifficultyEasy
	case "normal":
		difficultyPreset = config.DifficultyNormal
	case "hard":
		difficultyPreset = config.DifficultyHard
	case "fixed":
		difficultyPreset = config.DifficultyFixed
	default:
		difficultyPreset = ""
	}
}

// Game implements the pileup game logic.
type Game struct {
	mode Mode
	rng  *rand.Rand
	tick uint64

	// Simulation
	engine physics.Engine
	// engineFactory builds the engine on Reset; tests swap in a scripted
	// engine through it.
	engineFactory func(config.PileupConfig) physics.Engine
	board         Board
	blocks        map[physics.BodyID]Block
	active        *ActivePiece

	// Bookkeeping
	stats Stats
	bar   healthBar

	// Configuration
	runtime    core.RuntimeConfig
	cfg        config.PileupConfig
	difficulty *config.DifficultyManager

	// UI state
	paused     bool
	minScreenW int
	minScreenH int
	tooSmall   bool
}

// New creates a classic-mode game instance.
func New() *Game {
	return &Game{mode: ModeClassic, engineFactory: defaultEngineFactory}
}

// NewSlick creates a slick-mode game instance.
func NewSlick() *Game {
	return &Game{mode: ModeSlick, engineFactory: defaultEngineFactory}
}

func init() {
	registry.Register("pileup", func() registry.Game {
		return New()
	})
	registry.Register("pileup_slick", func() registry.Game {
		return NewSlick()
	})
}

// ID returns the unique identifier for this mode.
func (g *Game) ID() string {
	if g.mode == ModeSlick {
		return "pileup_slick"
	}
	return "pileup"
}

// Title returns the display name for this mode.
func (g *Game) Title() string {
	if g.mode == ModeSlick {
		return "Pileup (Slick)"
	}
	return "Pileup"
}

// defaultEngineFactory builds the Box2D-backed world from game config.
func defaultEngineFactory(cfg config.PileupConfig) physics.Engine {
	wc := physics.DefaultWorldConfig()
	wc.Gravity = cfg.Physics.Gravity
	if cfg.Physics.VelocityIterations > 0 {
		wc.VelocityIterations = cfg.Physics.VelocityIterations
	}
	if cfg.Physics.PositionIterations > 0 {
		wc.PositionIterations = cfg.Physics.PositionIterations
	}
	if cfg.Physics.Rest.LinearSpeed > 0 {
		wc.RestLinearSpeed = cfg.Physics.Rest.LinearSpeed
	}
	if cfg.Physics.Rest.AngularSpeed > 0 {
		wc.RestAngularSpeed = cfg.Physics.Rest.AngularSpeed
	}
	if cfg.Physics.Rest.Ticks > 0 {
		wc.RestTicks = cfg.Physics.Rest.Ticks
	}
	return physics.NewWorld(wc)
}

// Reset initializes or restarts the game from scratch: fresh world, fresh
// stats, first piece spawned.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	g.runtime = runtime

	cfg, err := config.LoadPileup(configPath)
	if err != nil {
		cfg = config.DefaultPileupConfig()
	}
	if difficultyPreset != "" {
		config.ApplyPreset(&cfg, difficultyPreset)
	}
	g.cfg = cfg

	g.difficulty = config.NewDifficultyManager(cfg.Difficulty)
	if g.mode == ModeSlick {
		g.difficulty.SetInitialLevel(1.0)
	}

	g.board = Board{Lanes: cfg.Board.Lanes, Rows: cfg.Board.Rows}

	// Pit plus borders, two-column cells, HUD and health bar rows.
	g.minScreenW = g.board.Lanes*2 + 2
	g.minScreenH = g.board.Rows + 4
	g.tooSmall = runtime.ScreenW < g.minScreenW || runtime.ScreenH < g.minScreenH

	g.rng = rand.New(rand.NewSource(runtime.Seed))
	g.tick = 0
	g.paused = false
	g.stats = Stats{}
	g.bar = healthBar{displayed: 1.0, smoothing: cfg.Health.Smoothing}

	g.blocks = make(map[physics.BodyID]Block)
	g.active = nil
	g.engine = g.engineFactory(cfg)
	g.board.SpawnStatics(g.engine)
	g.spawnPiece()
}

// Step advances the game by one tick.
//
// Tick order is fixed: forces from input are applied first, the physics
// engine integrates, then detection (settle, row clearing, loss tracking)
// reads the freshly advanced state. Setting physics.logic_before_step in
// the config flips detection ahead of the step, making it read the previous
// tick's state instead; settle decisions are eventually consistent either
// way.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if g.tooSmall {
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionRestart) && g.stats.GameOver {
		g.restart()
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionPause) {
		g.paused = !g.paused
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	g.tick++
	dt := g.dt()

	g.driveActive(in)

	if g.cfg.Physics.LogicBeforeStep {
		g.runDetection(dt)
		g.engine.Step(dt)
	} else {
		g.engine.Step(dt)
		g.runDetection(dt)
	}

	return core.StepResult{State: g.State()}
}

// dt returns the simulated seconds per tick.
func (g *Game) dt() float64 {
	rate := g.runtime.TickRate
	if rate <= 0 {
		rate = 60
	}
	return 1.0 / float64(rate)
}

// runDetection runs the per-tick puzzle logic against the physics state.
func (g *Game) runDetection(dt float64) {
	g.detectSettle()
	g.trackLosses()
	g.tickGameOver(dt)
	g.bar.update(g.stats.Health())
}

// driveActive translates held inputs into forces on the active piece.
//
// Every block receives the identical force and torque: the piece is a
// loosely jointed cluster, so pushing all blocks keeps the shape roughly
// coherent while still letting it flex and rotate under physics. Spin is a
// continuous torque, not a discrete 90° turn.
func (g *Game) driveActive(in core.InputFrame) {
	if g.active == nil {
		return
	}

	lateral := 0
	if in.Has(core.ActionRight) {
		lateral++
	}
	if in.Has(core.ActionLeft) {
		lateral--
	}
	spin := 0
	if in.Has(core.ActionSpinCCW) {
		spin++
	}
	if in.Has(core.ActionSpinCW) {
		spin--
	}
	if lateral == 0 && spin == 0 {
		return
	}

	force := core.Vec2{X: float64(lateral) * g.cfg.Physics.MoveForce}
	torque := float64(spin) * g.cfg.Physics.Torque
	for _, id := range g.active.Blocks {
		if lateral != 0 {
			g.engine.ApplyForce(id, force)
		}
		if spin != 0 {
			g.engine.ApplyTorque(id, torque)
		}
	}
}

// detectSettle retires the active piece once every one of its blocks is at
// rest. This is the only point where control passes from "falling piece"
// to "placed pile": joints are detached so the blocks become independent
// members of the pile, completed rows are cleared, and the next piece is
// spawned if the run is still alive.
func (g *Game) detectSettle() {
	if g.active == nil {
		return
	}
	for _, id := range g.active.Blocks {
		// A destroyed handle reports not-resting, which correctly
		// blocks settling on a piece that is mid-loss.
		if !g.engine.Resting(id) {
			return
		}
	}

	for _, joint := range g.active.Joints {
		g.engine.DestroyJoint(joint)
	}
	g.active = nil

	g.clearRows()

	if g.stats.Health() > 0 {
		g.spawnPiece()
	} else if !g.stats.GameOver {
		// Health ran out from pile losses; leave the board piece-less
		// and let the grace countdown recycle it.
		g.stats.GameOver = true
		g.stats.SinceLoss = 0
	}
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:     g.stats.Cleared,
		Health:    g.stats.Health(),
		HealthBar: g.bar.extent(),
		GameOver:  g.stats.GameOver,
		Paused:    g.paused,
	}
}

// Render draws the pit, the pile, and the HUD into the screen buffer.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.tooSmall {
		dst.DrawTextCentered(dst.Height()/2-1, "Window too small")
		dst.DrawTextCentered(dst.Height()/2+1,
			fmt.Sprintf("Need %dx%d", g.minScreenW, g.minScreenH))
		return
	}

	pit := g.pitRect(dst)

	g.renderHUD(dst, pit)
	dst.DrawBox(core.NewRect(pit.X-1, pit.Y-1, pit.W+2, pit.H+2))
	g.renderBlocks(dst, pit)
	g.renderOverlay(dst, pit)
}

// pitRect computes the on-screen interior of the pit. Each board cell is
// two characters wide and one high.
func (g *Game) pitRect(dst *core.Screen) core.Rect {
	w := g.board.Lanes * 2
	h := g.board.Rows
	x := (dst.Width() - w) / 2
	y := core.Max(2, (dst.Height()-h)/2)
	return core.NewRect(x, y, w, h)
}

// renderHUD draws the mode title and counters above the pit.
func (g *Game) renderHUD(dst *core.Screen, pit core.Rect) {
	dst.DrawText(1, 0, g.Title())
	dst.DrawTextCentered(0, fmt.Sprintf("Cleared: %d", g.stats.Cleared))

	lostText := fmt.Sprintf("Lost: %d", g.stats.Lost)
	dst.DrawText(dst.Width()-len(lostText)-1, 0, lostText)
}

// renderBlocks draws every live block at its simulated position.
func (g *Game) renderBlocks(dst *core.Screen, pit core.Rect) {
	for id, block := range g.blocks {
		pos, ok := g.engine.Position(id)
		if !ok {
			continue
		}

		lane := g.board.LaneAt(pos.X)
		rowFromTop := g.board.Rows - 1 - g.board.RowAt(pos.Y)

		x := pit.X + lane*2
		y := pit.Y + rowFromTop
		dst.SetCell(x, y, '█', block.Kind.Color())
		dst.SetCell(x+1, y, '█', block.Kind.Color())
	}
}

// renderOverlay draws state messages on top of the pit.
func (g *Game) renderOverlay(dst *core.Screen, pit core.Rect) {
	switch {
	case g.paused:
		g.drawCenteredBox(dst, "PAUSED", "Press P to resume")
	case g.stats.GameOver:
		remaining := g.cfg.Health.GraceSeconds - g.stats.SinceLoss
		if remaining < 0 {
			remaining = 0
		}
		subtitle := fmt.Sprintf("Restarting in %.1fs  |  R to skip", remaining)
		g.drawCenteredBox(dst, "GAME OVER", subtitle)
	}
}

// drawCenteredBox draws a centered message box.
func (g *Game) drawCenteredBox(dst *core.Screen, title, subtitle string) {
	w := dst.Width()
	h := dst.Height()

	boxW := core.Max(len(title), len(subtitle)) + 4
	boxH := 5
	boxX := (w - boxW) / 2
	boxY := (h - boxH) / 2

	dst.DrawRect(core.NewRect(boxX, boxY, boxW, boxH), ' ')
	dst.DrawBox(core.NewRect(boxX, boxY, boxW, boxH))

	dst.DrawText(boxX+(boxW-len(title))/2, boxY+1, title)
	dst.DrawText(boxX+(boxW-len(subtitle))/2, boxY+3, subtitle)
}
