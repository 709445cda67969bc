package pileup

import "github.com/pileupgame/pileup/internal/physics"

// clearRows removes every completed row from the pile.
//
// All resting blocks in the world are considered, not just the piece that
// triggered the scan: previously placed blocks may have been jolted and
// settled again elsewhere. Blocks still in motion never count toward a row,
// so a piece sweeping past a nearly-full row cannot complete it. A row
// clears only when its resting-block count matches the lane count exactly.
// Multiple full rows clear in the same pass, and nothing is shifted down
// afterwards: blocks above a cleared row simply resume falling.
func (g *Game) clearRows() {
	byRow := make(map[int][]physics.BodyID)
	for id := range g.blocks {
		if !g.engine.Resting(id) {
			continue
		}
		pos, ok := g.engine.Position(id)
		if !ok {
			continue
		}
		row := g.board.RowAt(pos.Y)
		if row < 0 || row >= g.board.Rows {
			continue
		}
		byRow[row] = append(byRow[row], id)
	}

	var doomed []physics.BodyID
	for _, ids := range byRow {
		if len(ids) != g.board.Lanes {
			continue
		}
		doomed = append(doomed, ids...)
	}

	// Destruction happens after the full scan so every row sees the same
	// consistent block set.
	for _, id := range doomed {
		g.engine.DestroyBody(id)
		delete(g.blocks, id)
	}
	g.stats.Cleared += len(doomed)
}
