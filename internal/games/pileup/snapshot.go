package pileup

// GameStateType represents the current game state.
type GameStateType string

const (
	StatePlaying     GameStateType = "playing"
	StatePaused      GameStateType = "paused"
	StateGameOver    GameStateType = "game_over"
	StatePausedSmall GameStateType = "paused_small_window"
)

// Snapshot captures the observable game state for determinism testing.
// Physics body positions are intentionally excluded: they depend on the
// engine's floating-point internals and are verified through the counters
// they feed instead.
type Snapshot struct {
	Tick        uint64
	Mode        string
	Generated   int
	Cleared     int
	Lost        int
	Health      float64
	ActiveKind  string
	ActiveCount int // Live blocks of the active piece, 0 when none
	PileCount   int // Live blocks total, active piece included
	SinceLoss   float64
	State       GameStateType
}

// Snapshot returns the current game snapshot for determinism verification.
func (g *Game) Snapshot() Snapshot {
	state := StatePlaying
	switch {
	case g.tooSmall:
		state = StatePausedSmall
	case g.paused:
		state = StatePaused
	case g.stats.GameOver:
		state = StateGameOver
	}

	activeKind := ""
	activeCount := 0
	if g.active != nil {
		activeKind = g.active.Kind.String()
		for _, id := range g.active.Blocks {
			if _, ok := g.blocks[id]; ok {
				activeCount++
			}
		}
	}

	return Snapshot{
		Tick:        g.tick,
		Mode:        string(g.mode),
		Generated:   g.stats.Generated,
		Cleared:     g.stats.Cleared,
		Lost:        g.stats.Lost,
		Health:      g.stats.Health(),
		ActiveKind:  activeKind,
		ActiveCount: activeCount,
		PileCount:   len(g.blocks),
		SinceLoss:   g.stats.SinceLoss,
		State:       state,
	}
}
