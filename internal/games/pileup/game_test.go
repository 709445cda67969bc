package pileup

import (
	"strings"
	"testing"

	"github.com/pileupgame/pileup/internal/config"
	"github.com/pileupgame/pileup/internal/core"
	"github.com/pileupgame/pileup/internal/physics"
)

// newTestGame builds a classic-mode game wired to a scripted engine.
func newTestGame(seed int64) (*Game, *fakeEngine) {
	var fe *fakeEngine
	g := New()
	g.engineFactory = func(config.PileupConfig) physics.Engine {
		fe = newFakeEngine()
		return fe
	}
	g.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 30, TickRate: 60, Seed: seed})
	return g, fe
}

func emptyFrame() core.InputFrame {
	return core.NewInputFrame()
}

func frameWith(actions ...core.Action) core.InputFrame {
	in := core.NewInputFrame()
	for _, a := range actions {
		in.Set(a)
	}
	return in
}

// settleActiveAt parks the four active blocks in the given lanes on one row,
// marks them resting, and steps once so the settle is observed.
func settleActiveAt(t *testing.T, g *Game, fe *fakeEngine, lanes [4]int, row int) {
	t.Helper()
	if g.active == nil {
		t.Fatal("no active piece to settle")
	}
	for i, id := range g.active.Blocks {
		fe.setPos(id, g.board.CellCenter(lanes[i], row))
		fe.setResting(id, true)
	}
	g.Step(emptyFrame())
}

func TestResetSpawnsFirstPiece(t *testing.T) {
	g, fe := newTestGame(1)

	if g.active == nil {
		t.Fatal("expected an active piece after reset")
	}
	if g.stats.Generated != 4 {
		t.Errorf("generated = %d, want 4", g.stats.Generated)
	}
	if got := fe.dynamicCount(); got != 4 {
		t.Errorf("dynamic bodies = %d, want 4", got)
	}
	// Floor plus two walls.
	if got := len(fe.bodies) - fe.dynamicCount(); got != 3 {
		t.Errorf("static bodies = %d, want 3", got)
	}
	if want := len(g.active.Kind.Layout().Joints); len(fe.joints) != want {
		t.Errorf("joints = %d, want %d for kind %s", len(fe.joints), want, g.active.Kind)
	}
}

func TestStepAdvancesPhysics(t *testing.T) {
	g, fe := newTestGame(1)

	g.Step(emptyFrame())
	g.Step(emptyFrame())

	if fe.steps != 2 {
		t.Errorf("engine steps = %d, want 2", fe.steps)
	}
}

func TestPauseFreezesSimulation(t *testing.T) {
	g, fe := newTestGame(1)

	g.Step(frameWith(core.ActionPause))
	if !g.State().Paused {
		t.Fatal("expected paused state")
	}
	g.Step(emptyFrame())
	g.Step(emptyFrame())
	if fe.steps != 0 {
		t.Errorf("engine stepped %d times while paused", fe.steps)
	}

	g.Step(frameWith(core.ActionPause))
	if g.State().Paused {
		t.Fatal("expected unpaused state")
	}
	if fe.steps != 1 {
		t.Errorf("engine steps after unpause = %d, want 1", fe.steps)
	}
}

func TestMovementPushesEveryActiveBlock(t *testing.T) {
	g, fe := newTestGame(1)

	g.Step(frameWith(core.ActionRight))

	for _, id := range g.active.Blocks {
		forces := fe.bodies[id].forces
		if len(forces) != 1 {
			t.Fatalf("block %d received %d forces, want 1", id, len(forces))
		}
		if forces[0].X != g.cfg.Physics.MoveForce || forces[0].Y != 0 {
			t.Errorf("block %d force = %v, want {%v 0}", id, forces[0], g.cfg.Physics.MoveForce)
		}
		if len(fe.bodies[id].torques) != 0 {
			t.Errorf("block %d received torque without spin input", id)
		}
	}
}

func TestOpposedInputsCancel(t *testing.T) {
	g, fe := newTestGame(1)

	g.Step(frameWith(core.ActionLeft, core.ActionRight))

	for _, id := range g.active.Blocks {
		if len(fe.bodies[id].forces) != 0 {
			t.Errorf("block %d received force from cancelled inputs", id)
		}
	}
}

func TestSpinAppliesTorque(t *testing.T) {
	g, fe := newTestGame(1)

	g.Step(frameWith(core.ActionSpinCCW))

	for _, id := range g.active.Blocks {
		torques := fe.bodies[id].torques
		if len(torques) != 1 {
			t.Fatalf("block %d received %d torques, want 1", id, len(torques))
		}
		if torques[0] != g.cfg.Physics.Torque {
			t.Errorf("block %d torque = %v, want %v", id, torques[0], g.cfg.Physics.Torque)
		}
	}
}

func TestSettleRequiresEveryBlockResting(t *testing.T) {
	g, fe := newTestGame(1)
	jointsBefore := len(fe.joints)

	// Three of four at rest must not count as settled.
	for _, id := range g.active.Blocks[:3] {
		fe.setResting(id, true)
	}
	g.Step(emptyFrame())

	if g.stats.Generated != 4 {
		t.Errorf("generated = %d, want 4 (no new spawn)", g.stats.Generated)
	}
	if len(fe.joints) != jointsBefore {
		t.Errorf("joints = %d, want %d (piece must stay pinned)", len(fe.joints), jointsBefore)
	}
}

func TestSettleDetachesJointsAndSpawnsNext(t *testing.T) {
	g, fe := newTestGame(1)
	first := g.active

	settleActiveAt(t, g, fe, [4]int{0, 1, 2, 3}, 5)

	if g.active == nil || g.active == first {
		t.Fatal("expected a fresh active piece after settle")
	}
	if g.stats.Generated != 8 {
		t.Errorf("generated = %d, want 8", g.stats.Generated)
	}
	// Only the new piece's joints remain.
	if want := len(g.active.Kind.Layout().Joints); len(fe.joints) != want {
		t.Errorf("joints = %d, want %d", len(fe.joints), want)
	}
	if fe.dynamicCount() != 8 {
		t.Errorf("dynamic bodies = %d, want 8 (pile keeps settled blocks)", fe.dynamicCount())
	}
}

func TestFullRowClears(t *testing.T) {
	g, fe := newTestGame(1)

	settleActiveAt(t, g, fe, [4]int{0, 1, 2, 3}, 0)
	if g.stats.Cleared != 0 {
		t.Fatalf("cleared = %d after half a row, want 0", g.stats.Cleared)
	}

	settleActiveAt(t, g, fe, [4]int{4, 5, 6, 7}, 0)

	if g.stats.Cleared != 8 {
		t.Errorf("cleared = %d, want 8", g.stats.Cleared)
	}
	if g.State().Score != 8 {
		t.Errorf("score = %d, want 8", g.State().Score)
	}
	// Both settled pieces are gone; only the newly spawned piece remains.
	if fe.dynamicCount() != 4 {
		t.Errorf("dynamic bodies = %d, want 4 after the clear", fe.dynamicCount())
	}
}

func TestTwoRowsCompletingTogetherClearInOnePass(t *testing.T) {
	g, fe := newTestGame(1)

	firstPiece := g.active.Blocks
	settleActiveAt(t, g, fe, [4]int{0, 1, 2, 3}, 0)
	settleActiveAt(t, g, fe, [4]int{0, 1, 2, 3}, 1)

	// Wake one bottom-row block so the third settle sees row 0 at seven
	// resting blocks and clears nothing.
	fe.setResting(firstPiece[0], false)
	settleActiveAt(t, g, fe, [4]int{4, 5, 6, 7}, 0)
	if g.stats.Cleared != 0 {
		t.Fatalf("cleared = %d before both rows complete, want 0", g.stats.Cleared)
	}

	// Once it rests again, the fourth settle completes rows 0 and 1 at the
	// same time.
	fe.setResting(firstPiece[0], true)
	settleActiveAt(t, g, fe, [4]int{4, 5, 6, 7}, 1)

	if g.stats.Cleared != 16 {
		t.Errorf("cleared = %d, want 16 (both rows in one pass)", g.stats.Cleared)
	}
	// Only the freshly spawned piece survives the double clear.
	if fe.dynamicCount() != 4 {
		t.Errorf("dynamic bodies = %d, want 4", fe.dynamicCount())
	}
}

func TestPartialRowsDoNotClear(t *testing.T) {
	g, fe := newTestGame(1)

	settleActiveAt(t, g, fe, [4]int{0, 1, 2, 3}, 0)
	settleActiveAt(t, g, fe, [4]int{4, 5, 6, 7}, 1)

	if g.stats.Cleared != 0 {
		t.Errorf("cleared = %d, want 0 (two rows of four each)", g.stats.Cleared)
	}
	if fe.dynamicCount() != 12 {
		t.Errorf("dynamic bodies = %d, want 12", fe.dynamicCount())
	}
}

func TestRowsOutsidePitIgnored(t *testing.T) {
	g, fe := newTestGame(1)

	// Just under the floor surface, still above the loss limit.
	settleActiveAt(t, g, fe, [4]int{0, 1, 2, 3}, -1)

	if g.stats.Cleared != 0 {
		t.Errorf("cleared = %d, want 0", g.stats.Cleared)
	}
	if g.stats.Lost != 0 {
		t.Errorf("lost = %d, want 0", g.stats.Lost)
	}
	if g.stats.Generated != 8 {
		t.Errorf("generated = %d, want 8 (settle still retires the piece)", g.stats.Generated)
	}
}

func TestPileBlockLostBelowBoard(t *testing.T) {
	g, fe := newTestGame(1)

	settleActiveAt(t, g, fe, [4]int{0, 1, 2, 3}, 3)
	pile := make([]physics.BodyID, 0)
	for id := range g.blocks {
		if !g.active.Contains(id) {
			pile = append(pile, id)
		}
	}

	limit := g.board.FloorY() - g.cfg.Health.LossMargin
	fe.setPos(pile[0], core.Vec2{X: 0, Y: limit - 0.5})
	// Exactly on the limit stays in play.
	fe.setPos(pile[1], core.Vec2{X: 1, Y: limit})
	g.Step(emptyFrame())

	if g.stats.Lost != 1 {
		t.Errorf("lost = %d, want 1", g.stats.Lost)
	}
	if _, ok := g.blocks[pile[0]]; ok {
		t.Error("lost block still tracked")
	}
	if _, ok := g.blocks[pile[1]]; !ok {
		t.Error("block on the loss boundary was removed")
	}
	if g.State().GameOver {
		t.Error("losing a pile block must not end the run")
	}
}

func TestActivePieceLossEndsRun(t *testing.T) {
	g, fe := newTestGame(1)

	limit := g.board.FloorY() - g.cfg.Health.LossMargin
	fe.setPos(g.active.Blocks[0], core.Vec2{X: 0, Y: limit - 1})
	g.Step(emptyFrame())

	state := g.State()
	if !state.GameOver {
		t.Fatal("expected game over after losing an active block")
	}
	if state.Health != 0 {
		t.Errorf("health = %v, want 0", state.Health)
	}
	if g.stats.Lost != 1 {
		t.Errorf("lost = %d, want 1", g.stats.Lost)
	}
}

func TestSettleWithZeroHealthEndsRunWithoutSpawn(t *testing.T) {
	g, fe := newTestGame(1)

	settleActiveAt(t, g, fe, [4]int{0, 1, 2, 3}, 3)

	// Lose one pile block before anything was ever cleared: health drops
	// to zero but the run keeps going while a piece is in flight.
	var pileBlock physics.BodyID
	for id := range g.blocks {
		if !g.active.Contains(id) {
			pileBlock = id
			break
		}
	}
	limit := g.board.FloorY() - g.cfg.Health.LossMargin
	fe.setPos(pileBlock, core.Vec2{X: 0, Y: limit - 1})
	g.Step(emptyFrame())

	if g.State().GameOver {
		t.Fatal("losing a pile block must not end the run by itself")
	}
	if g.State().Health != 0 {
		t.Fatalf("health = %v, want 0 (loss before any clear)", g.State().Health)
	}

	// Settling with health exhausted leaves the board piece-less and
	// starts the grace countdown instead of spawning.
	settleActiveAt(t, g, fe, [4]int{4, 5, 6, 7}, 3)

	if !g.State().GameOver {
		t.Fatal("expected game over once the piece settled with zero health")
	}
	if g.active != nil {
		t.Error("expected no active piece after the final settle")
	}
	if g.stats.Generated != 8 {
		t.Errorf("generated = %d, want 8 (no spawn on a dead run)", g.stats.Generated)
	}
	if g.Snapshot().State != StateGameOver {
		t.Errorf("state = %s, want %s", g.Snapshot().State, StateGameOver)
	}

	// The grace countdown recycles the piece-less board too.
	for i := 0; i < 200 && g.State().GameOver; i++ {
		g.Step(emptyFrame())
	}
	if g.State().GameOver {
		t.Fatal("expected automatic restart after the grace window")
	}
	if g.stats.Generated != 4 || g.active == nil {
		t.Errorf("generated = %d with active %v, want a fresh run", g.stats.Generated, g.active)
	}
}

func TestGraceCountdownRestartsRun(t *testing.T) {
	g, fe := newTestGame(1)

	limit := g.board.FloorY() - g.cfg.Health.LossMargin
	fe.setPos(g.active.Blocks[0], core.Vec2{X: 0, Y: limit - 1})
	g.Step(emptyFrame())
	if !g.State().GameOver {
		t.Fatal("expected game over")
	}

	// Three seconds of grace at 60 ticks per second, plus slack.
	for i := 0; i < 200 && g.State().GameOver; i++ {
		g.Step(emptyFrame())
	}

	if g.State().GameOver {
		t.Fatal("expected automatic restart after the grace window")
	}
	if g.stats.Generated != 4 || g.stats.Lost != 0 || g.stats.Cleared != 0 {
		t.Errorf("stats after restart = %+v, want a clean slate", g.stats)
	}
	if g.active == nil {
		t.Error("expected a fresh active piece after restart")
	}
}

func TestManualRestartSkipsGrace(t *testing.T) {
	g, fe := newTestGame(1)

	limit := g.board.FloorY() - g.cfg.Health.LossMargin
	fe.setPos(g.active.Blocks[0], core.Vec2{X: 0, Y: limit - 1})
	g.Step(emptyFrame())

	g.Step(frameWith(core.ActionRestart))

	if g.State().GameOver {
		t.Error("expected restart to clear game over")
	}
	if g.stats.Generated != 4 {
		t.Errorf("generated = %d, want 4", g.stats.Generated)
	}
}

func TestRestartIgnoredMidRun(t *testing.T) {
	g, _ := newTestGame(1)

	g.Step(frameWith(core.ActionRestart))

	if g.stats.Generated != 4 {
		t.Errorf("generated = %d, want 4 (restart must not respawn mid-run)", g.stats.Generated)
	}
	if g.tick != 1 {
		t.Errorf("tick = %d, want 1 (restart input is otherwise a normal tick)", g.tick)
	}
}

func TestDetectionBeforePhysicsStepStillConverges(t *testing.T) {
	g, fe := newTestGame(1)
	g.cfg.Physics.LogicBeforeStep = true

	// Detection now reads the state staged before the physics step; a
	// piece resting at the start of the tick settles on that same tick.
	for i, id := range g.active.Blocks {
		fe.setPos(id, g.board.CellCenter(i, 5))
		fe.setResting(id, true)
	}
	g.Step(emptyFrame())

	if g.stats.Generated != 8 {
		t.Errorf("generated = %d, want 8 (settle must be seen under the flipped order)", g.stats.Generated)
	}
	if fe.steps != 1 {
		t.Errorf("engine steps = %d, want 1 (the physics step still runs)", fe.steps)
	}

	// Loss tracking converges the same way.
	limit := g.board.FloorY() - g.cfg.Health.LossMargin
	fe.setPos(g.active.Blocks[0], core.Vec2{X: 0, Y: limit - 1})
	g.Step(emptyFrame())

	if g.stats.Lost != 1 {
		t.Errorf("lost = %d, want 1", g.stats.Lost)
	}
	if !g.State().GameOver {
		t.Error("expected game over under the flipped order")
	}
}

func TestHealthFormula(t *testing.T) {
	cases := []struct {
		name  string
		stats Stats
		want  float64
	}{
		{"clean run", Stats{}, 1.0},
		{"clears without losses", Stats{Cleared: 16}, 1.0},
		{"loss before any clear", Stats{Lost: 1}, 0.0},
		{"quarter lost", Stats{Lost: 2, Cleared: 8}, 0.75},
		{"losses exceed clears", Stats{Lost: 10, Cleared: 8}, 0.0},
		{"game over overrides counters", Stats{GameOver: true, Cleared: 100}, 0.0},
	}
	for _, tc := range cases {
		if got := tc.stats.Health(); got != tc.want {
			t.Errorf("%s: health = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestHealthBarSmoothing(t *testing.T) {
	bar := healthBar{displayed: 1.0, smoothing: 0.1}

	bar.update(0)
	if got := bar.extent(); got < 0.89 || got > 0.91 {
		t.Errorf("extent after one update = %v, want ~0.9", got)
	}
	bar.update(0)
	if got := bar.extent(); got < 0.80 || got > 0.82 {
		t.Errorf("extent after two updates = %v, want ~0.81", got)
	}

	for i := 0; i < 500; i++ {
		bar.update(0)
	}
	if got := bar.extent(); got > 0.01 {
		t.Errorf("extent = %v, want convergence toward 0", got)
	}
}

func TestSameSeedSameKindSequence(t *testing.T) {
	g1, fe1 := newTestGame(42)
	g2, fe2 := newTestGame(42)

	var kinds1, kinds2 []Kind
	for i := 0; i < 6; i++ {
		kinds1 = append(kinds1, g1.active.Kind)
		kinds2 = append(kinds2, g2.active.Kind)
		// A different row per settle so no row ever fills up.
		settleActiveAt(t, g1, fe1, [4]int{0, 1, 2, 3}, 2+i)
		settleActiveAt(t, g2, fe2, [4]int{0, 1, 2, 3}, 2+i)
	}

	for i := range kinds1 {
		if kinds1[i] != kinds2[i] {
			t.Fatalf("piece %d: kind %s vs %s for identical seeds", i, kinds1[i], kinds2[i])
		}
	}
}

func TestSnapshotReflectsState(t *testing.T) {
	g, _ := newTestGame(7)

	snap := g.Snapshot()
	if snap.Generated != 4 || snap.ActiveCount != 4 || snap.PileCount != 4 {
		t.Errorf("snapshot counters = %+v, want 4/4/4", snap)
	}
	if snap.State != StatePlaying {
		t.Errorf("state = %s, want %s", snap.State, StatePlaying)
	}
	if snap.Mode != string(ModeClassic) {
		t.Errorf("mode = %q, want %q", snap.Mode, ModeClassic)
	}
	if snap.ActiveKind != g.active.Kind.String() {
		t.Errorf("active kind = %q, want %q", snap.ActiveKind, g.active.Kind)
	}

	g.Step(frameWith(core.ActionPause))
	if got := g.Snapshot().State; got != StatePaused {
		t.Errorf("state = %s, want %s", got, StatePaused)
	}
}

func TestRenderShowsPitAndCounters(t *testing.T) {
	g, _ := newTestGame(1)

	screen := core.NewScreen(80, 30)
	g.Render(screen)

	out := screen.String()
	if !strings.Contains(out, "Cleared: 0") {
		t.Error("expected cleared counter in HUD")
	}
	if !strings.Contains(out, "Lost: 0") {
		t.Error("expected lost counter in HUD")
	}

	colored := 0
	for y := 0; y < screen.Height(); y++ {
		for x := 0; x < screen.Width(); x++ {
			if screen.GetCell(x, y).Color != core.ColorDefault {
				colored++
			}
		}
	}
	// Four blocks, two cells each.
	if colored != 8 {
		t.Errorf("colored cells = %d, want 8", colored)
	}
}

func TestTooSmallScreenSuspendsGame(t *testing.T) {
	var fe *fakeEngine
	g := New()
	g.engineFactory = func(config.PileupConfig) physics.Engine {
		fe = newFakeEngine()
		return fe
	}
	g.Reset(core.RuntimeConfig{ScreenW: 10, ScreenH: 8, TickRate: 60, Seed: 1})

	g.Step(emptyFrame())
	if fe.steps != 0 {
		t.Errorf("engine stepped %d times on a too-small screen", fe.steps)
	}

	screen := core.NewScreen(10, 8)
	g.Render(screen)
	if !strings.Contains(screen.String(), "too small") {
		t.Error("expected size warning on screen")
	}
	if g.Snapshot().State != StatePausedSmall {
		t.Errorf("state = %s, want %s", g.Snapshot().State, StatePausedSmall)
	}
}

func TestSlickModePinsDifficulty(t *testing.T) {
	var fe *fakeEngine
	g := NewSlick()
	g.engineFactory = func(config.PileupConfig) physics.Engine {
		fe = newFakeEngine()
		return fe
	}
	g.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 30, TickRate: 60, Seed: 1})

	// Maximum level takes the full damping drop from the very first piece.
	want := g.cfg.Physics.Damping - g.cfg.Difficulty.Scaling.DampingDrop
	if want < g.cfg.Difficulty.Scaling.MinDamping {
		want = g.cfg.Difficulty.Scaling.MinDamping
	}
	for _, id := range g.active.Blocks {
		if got := fe.bodies[id].damping; got != want {
			t.Errorf("block damping = %v, want %v", got, want)
		}
	}
	if g.ID() != "pileup_slick" {
		t.Errorf("id = %q, want pileup_slick", g.ID())
	}
}
