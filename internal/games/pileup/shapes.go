package pileup

import "github.com/pileupgame/pileup/internal/core"

// Kind identifies one of the seven canonical piece shapes.
type Kind int

const (
	KindI Kind = iota
	KindO
	KindT
	KindJ
	KindL
	KindS
	KindZ

	// KindCount is the number of shapes in the catalog.
	KindCount = 7
)

// String returns the one-letter shape name.
func (k Kind) String() string {
	switch k {
	case KindI:
		return "I"
	case KindO:
		return "O"
	case KindT:
		return "T"
	case KindJ:
		return "J"
	case KindL:
		return "L"
	case KindS:
		return "S"
	case KindZ:
		return "Z"
	default:
		return "?"
	}
}

// Cell is a relative grid offset within a shape. X grows rightward, Y grows
// downward from the shape's top row (pieces spawn top-down).
type Cell struct {
	X, Y int
}

// JointPair names two block indices to be pinned together.
type JointPair struct {
	A, B int
}

// Layout describes how a shape is assembled from four blocks.
type Layout struct {
	Coords [4]Cell
	Joints []JointPair
}

// Layout returns the block offsets and joint graph for the shape.
// Joint pairs always connect grid-adjacent blocks so the pin anchors sit on
// a shared edge midpoint and are invisible when the piece enters undisturbed.
func (k Kind) Layout() Layout {
	switch k {
	case KindI:
		return Layout{
			Coords: [4]Cell{{1, 0}, {1, 1}, {1, 2}, {1, 3}},
			Joints: []JointPair{{0, 1}, {1, 2}, {2, 3}},
		}
	case KindO:
		return Layout{
			Coords: [4]Cell{{0, 0}, {1, 0}, {1, 1}, {0, 1}},
			Joints: []JointPair{{0, 1}, {1, 2}, {2, 3}, {3, 0}},
		}
	case KindT:
		return Layout{
			Coords: [4]Cell{{0, 0}, {1, 0}, {2, 0}, {1, 1}},
			Joints: []JointPair{{0, 1}, {1, 2}, {1, 3}},
		}
	case KindJ:
		return Layout{
			Coords: [4]Cell{{1, 0}, {1, 1}, {1, 2}, {0, 2}},
			Joints: []JointPair{{0, 1}, {1, 2}, {2, 3}},
		}
	case KindL:
		return Layout{
			Coords: [4]Cell{{1, 0}, {1, 1}, {1, 2}, {2, 2}},
			Joints: []JointPair{{0, 1}, {1, 2}, {2, 3}},
		}
	case KindS:
		return Layout{
			Coords: [4]Cell{{0, 1}, {1, 1}, {1, 0}, {2, 0}},
			Joints: []JointPair{{0, 1}, {1, 2}, {2, 3}},
		}
	default: // KindZ
		return Layout{
			Coords: [4]Cell{{0, 0}, {1, 0}, {1, 1}, {2, 1}},
			Joints: []JointPair{{0, 1}, {1, 2}, {2, 3}},
		}
	}
}

// Color returns the display color for blocks of this shape.
func (k Kind) Color() core.Color {
	switch k {
	case KindI:
		return core.ColorBrightCyan
	case KindO:
		return core.ColorBrightYellow
	case KindT:
		return core.ColorBrightMagenta
	case KindJ:
		return core.ColorBrightBlue
	case KindL:
		return core.ColorOrange
	case KindS:
		return core.ColorBrightGreen
	default: // KindZ
		return core.ColorBrightRed
	}
}
