package battleship

import (
	cerr "github.com/saeidalz13/battleship-solo/internal/error"
)

// Board owns the fleet and the grid. The fleet is the source of truth;
// the grid caches it for lookups and is only written through Board methods.
type Board struct {
	grid  Grid
	ships []*Ship
}

// NewBoard places DefaultFleet with the given placer.
func NewBoard(placer *ShipPlacer) (*Board, error) {
	placements, err := placer.Place(DefaultFleet)
	if err != nil {
		return nil, err
	}
	return NewBoardFromPlacements(placements)
}

// NewBoardFromPlacements builds a board from a fixed layout, rejecting
// ships that leave the grid or overlap.
func NewBoardFromPlacements(placements []Placement) (*Board, error) {
	b := &Board{
		grid:  NewGrid(),
		ships: make([]*Ship, 0, len(placements)),
	}

	for _, p := range placements {
		ship := NewShip(p.Spec.Name, p.Spec.Length)
		for _, c := range p.Cells() {
			if !c.InBounds() {
				return nil, cerr.ErrRowOrColOutOfGridBound(c.Row, c.Col)
			}
			if b.grid.at(c) != CellStateWater {
				return nil, cerr.ErrShipOverlap(p.Spec.Name, c.Row, c.Col)
			}
			b.grid.set(c, CellStateShipPresent)
			ship.AddCell(c)
		}
		b.ships = append(b.ships, ship)
	}

	return b, nil
}

func (b *Board) Size() int {
	return GridSize
}

// Panics if c is outside of the grid.
func (b *Board) CellAt(c Coordinates) CellState {
	return b.grid.at(c)
}

// SetCell applies a single legal transition. Ships are only ever laid
// down by the constructors, so Water -> ShipPresent is refused here too.
// A Hit is recorded on the ship as well, so the grid never runs ahead of the fleet.
func (b *Board) SetCell(c Coordinates, state CellState) error {
	if state == CellStateHit {
		_, _, err := b.hit(c)
		return err
	}

	current := b.grid.at(c)
	if state == CellStateShipPresent || !current.canTransition(state) {
		return cerr.ErrIllegalCellTransition(current.String(), state.String(), c.Row, c.Col)
	}
	b.grid.set(c, state)
	return nil
}

func (b *Board) HasShipsRemaining() bool {
	for _, ship := range b.ships {
		if !ship.IsSunk() {
			return true
		}
	}
	return false
}

// RegisterHit records the hit on whichever ship occupies c and marks
// the cell as hit. The name is returned only when this very hit sank the ship.
func (b *Board) RegisterHit(c Coordinates) (string, bool) {
	if b.grid.at(c) == CellStateShipPresent {
		b.grid.set(c, CellStateHit)
	}

	for _, ship := range b.ships {
		if !ship.Occupies(c) {
			continue
		}
		wasSunk := ship.IsSunk()
		ship.RegisterHit(c)
		if !wasSunk && ship.IsSunk() {
			return ship.Name(), true
		}
		return "", false
	}
	return "", false
}

// hit is the only path from ShipPresent to Hit.
func (b *Board) hit(c Coordinates) (string, bool, error) {
	current := b.grid.at(c)
	if !current.canTransition(CellStateHit) {
		return "", false, cerr.ErrIllegalCellTransition(current.String(), CellStateHit.String(), c.Row, c.Col)
	}
	name, sunk := b.RegisterHit(c)
	return name, sunk, nil
}

func (b *Board) Ships() []*Ship {
	ships := make([]*Ship, len(b.ships))
	copy(ships, b.ships)
	return ships
}

func (b *Board) SunkShips() []string {
	names := make([]string, 0, len(b.ships))
	for _, ship := range b.ships {
		if ship.IsSunk() {
			names = append(names, ship.Name())
		}
	}
	return names
}

// View returns a row-major copy of the grid. Unless reveal is set,
// unhit ship cells look like water.
func (b *Board) View(reveal bool) [][]CellState {
	view := make([][]CellState, GridSize)
	for r := 0; r < GridSize; r++ {
		view[r] = make([]CellState, GridSize)
		for c := 0; c < GridSize; c++ {
			state := b.grid[r][c]
			if state == CellStateShipPresent && !reveal {
				state = CellStateWater
			}
			view[r][c] = state
		}
	}
	return view
}
