package pileup

import (
	"github.com/pileupgame/pileup/internal/core"
	"github.com/pileupgame/pileup/internal/physics"
)

// blockHalf is the collider half-extent of one block. Blocks are exactly
// one grid cell square.
const blockHalf = 0.5

// Block is the game-side record for one simulated block. Position,
// velocity, and the rest flag live in the physics engine; the game only
// remembers what kind of piece the block came from.
type Block struct {
	Kind Kind
}

// ActivePiece is the cluster currently under player control: four block
// handles plus the joints holding them together while falling.
type ActivePiece struct {
	Kind   Kind
	Blocks [4]physics.BodyID
	Joints []physics.JointID
}

// Contains reports whether the given block belongs to this piece.
func (p *ActivePiece) Contains(id physics.BodyID) bool {
	for _, b := range p.Blocks {
		if b == id {
			return true
		}
	}
	return false
}

// spawnPiece creates a new active piece at the top center of the board and
// replaces any previous one. Callers must only invoke this once the
// previous piece has been retired.
func (g *Game) spawnPiece() {
	kind := Kind(g.rng.Intn(KindCount))
	layout := kind.Layout()

	centerLane := g.board.Lanes/2 - 1
	topRow := g.board.Rows - 1
	damping := g.difficulty.Damping(
		g.cfg.Physics.Damping, g.cfg.Difficulty.Scaling, g.stats.Cleared, int(g.tick))

	piece := &ActivePiece{Kind: kind}
	for i, c := range layout.Coords {
		lane := centerLane + c.X
		row := topRow - c.Y
		pos := g.board.CellCenter(lane, row)

		id := g.engine.CreateDynamicBody(pos, g.cfg.Physics.BlockMass, damping)
		g.engine.AttachBox(id, blockHalf, blockHalf)
		g.blocks[id] = Block{Kind: kind}
		piece.Blocks[i] = id
	}

	for _, pair := range layout.Joints {
		// The pin sits on the midpoint of the shared edge: half the
		// world-space offset from block A to block B, mirrored on B.
		// Grid y grows downward, world y grows upward.
		dx := float64(layout.Coords[pair.B].X - layout.Coords[pair.A].X)
		dy := -float64(layout.Coords[pair.B].Y - layout.Coords[pair.A].Y)
		anchorA := core.Vec2{X: dx / 2, Y: dy / 2}
		anchorB := core.Vec2{X: -dx / 2, Y: -dy / 2}

		joint := g.engine.CreateJoint(piece.Blocks[pair.A], piece.Blocks[pair.B], anchorA, anchorB)
		piece.Joints = append(piece.Joints, joint)
	}

	g.active = piece
	g.stats.Generated += 4
}
