package pileup

import (
	"math"

	"github.com/pileupgame/pileup/internal/core"
	"github.com/pileupgame/pileup/internal/physics"
)

// wallHeadroom is how far the walls extend above the top row, in cells.
// It keeps a freshly spawned piece from being nudged straight over the rim.
const wallHeadroom = 2.0

// Board maps the (lane, row) puzzle grid onto physics world space.
// The grid origin is the bottom-left cell: lane 0 is the leftmost lane,
// row 0 sits on the floor. The world origin is the pit center.
type Board struct {
	Lanes int
	Rows  int
}

// FloorY returns the y of the floor's top surface.
func (b Board) FloorY() float64 {
	return -float64(b.Rows) / 2
}

// LeftWallX returns the x of the left wall's inner surface.
func (b Board) LeftWallX() float64 {
	return -float64(b.Lanes) / 2
}

// RightWallX returns the x of the right wall's inner surface.
func (b Board) RightWallX() float64 {
	return float64(b.Lanes) / 2
}

// CellCenter returns the world position of a grid cell's center.
func (b Board) CellCenter(lane, row int) core.Vec2 {
	return core.Vec2{
		X: b.LeftWallX() + float64(lane) + 0.5,
		Y: b.FloorY() + float64(row) + 0.5,
	}
}

// RowAt discretizes a world height back into a row index. The result can
// fall outside [0, Rows) for blocks that drifted out of the pit; callers
// discard those.
func (b Board) RowAt(y float64) int {
	return int(math.Floor(y - b.FloorY()))
}

// LaneAt discretizes a world x back into a lane index, unbounded like RowAt.
func (b Board) LaneAt(x float64) int {
	return int(math.Floor(x - b.LeftWallX()))
}

// SpawnStatics creates the floor and both walls in the engine.
// The floor spans exactly the lane count; anything pushed past a wall has
// nothing underneath and will fall out of play.
func (b Board) SpawnStatics(eng physics.Engine) {
	floor := eng.CreateStaticBody(core.Vec2{X: 0, Y: b.FloorY() - 0.5})
	eng.AttachBox(floor, float64(b.Lanes)/2, 0.5)

	wallHalfH := float64(b.Rows)/2 + wallHeadroom/2
	wallCenterY := b.FloorY() + wallHalfH

	left := eng.CreateStaticBody(core.Vec2{X: b.LeftWallX() - 0.5, Y: wallCenterY})
	eng.AttachBox(left, 0.5, wallHalfH)

	right := eng.CreateStaticBody(core.Vec2{X: b.RightWallX() + 0.5, Y: wallCenterY})
	eng.AttachBox(right, 0.5, wallHalfH)
}
