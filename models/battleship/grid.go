package battleship

import "fmt"

const GridSize int = 10

type CellState uint8

const (
	CellStateWater CellState = iota
	CellStateShipPresent
	CellStateHit
	CellStateMiss
)

func (cs CellState) String() string {
	switch cs {
	case CellStateWater:
		return "water"
	case CellStateShipPresent:
		return "ship"
	case CellStateHit:
		return "hit"
	case CellStateMiss:
		return "miss"
	default:
		return fmt.Sprintf("cell_state(%d)", uint8(cs))
	}
}

// A resolved cell has been fired upon and never changes again.
func (cs CellState) IsResolved() bool {
	return cs == CellStateHit || cs == CellStateMiss
}

// canTransition lists the only moves a cell may make.
func (cs CellState) canTransition(to CellState) bool {
	switch cs {
	case CellStateWater:
		return to == CellStateShipPresent || to == CellStateMiss
	case CellStateShipPresent:
		return to == CellStateHit
	default:
		return false
	}
}

type Coordinates struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func NewCoordinates(row, col int) Coordinates {
	return Coordinates{Row: row, Col: col}
}

func (c Coordinates) InBounds() bool {
	return c.Row >= 0 && c.Row < GridSize && c.Col >= 0 && c.Col < GridSize
}

func (c Coordinates) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

type Grid [GridSize][GridSize]CellState

// All cells start as water.
func NewGrid() Grid {
	return Grid{}
}

func (g *Grid) at(c Coordinates) CellState {
	mustInBounds(c)
	return g[c.Row][c.Col]
}

func (g *Grid) set(c Coordinates, state CellState) {
	mustInBounds(c)
	g[c.Row][c.Col] = state
}

// Coordinates come from a fixed grid on the client side, so
// anything outside of it is a programming error.
func mustInBounds(c Coordinates) {
	if !c.InBounds() {
		panic(fmt.Sprintf("coordinates out of grid bound: %s", c))
	}
}
