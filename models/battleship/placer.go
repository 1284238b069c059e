package battleship

import (
	"math/rand/v2"
	"time"

	cerr "github.com/saeidalz13/battleship-solo/internal/error"
)

const DefaultMaxPlacementAttempts int = 100_000

type Placement struct {
	Spec       ShipSpec
	Origin     Coordinates
	Horizontal bool
}

// Cells extend right for horizontal placements and down for vertical ones.
func (p Placement) Cells() []Coordinates {
	cells := make([]Coordinates, p.Spec.Length)
	for i := range cells {
		if p.Horizontal {
			cells[i] = NewCoordinates(p.Origin.Row, p.Origin.Col+i)
		} else {
			cells[i] = NewCoordinates(p.Origin.Row+i, p.Origin.Col)
		}
	}
	return cells
}

// fits reports whether every cell is in bounds and still water.
func (p Placement) fits(grid *Grid) bool {
	for _, c := range p.Cells() {
		if !c.InBounds() || grid.at(c) != CellStateWater {
			return false
		}
	}
	return true
}

func drawPlacement(rng *rand.Rand, spec ShipSpec) Placement {
	horizontal := rng.IntN(2) == 0
	return Placement{
		Spec:       spec,
		Origin:     NewCoordinates(rng.IntN(GridSize), rng.IntN(GridSize)),
		Horizontal: horizontal,
	}
}

type ShipPlacer struct {
	rng         *rand.Rand
	maxAttempts int
}

type PlacerOption func(*ShipPlacer)

func WithSeed(seed uint64) PlacerOption {
	return func(sp *ShipPlacer) {
		sp.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

func WithRand(rng *rand.Rand) PlacerOption {
	return func(sp *ShipPlacer) {
		sp.rng = rng
	}
}

func WithMaxAttempts(n int) PlacerOption {
	return func(sp *ShipPlacer) {
		if n > 0 {
			sp.maxAttempts = n
		}
	}
}

func NewShipPlacer(opts ...PlacerOption) *ShipPlacer {
	sp := &ShipPlacer{maxAttempts: DefaultMaxPlacementAttempts}
	for _, opt := range opts {
		opt(sp)
	}
	if sp.rng == nil {
		now := uint64(time.Now().UnixNano())
		sp.rng = rand.New(rand.NewPCG(now, now>>1))
	}
	return sp
}

// Place finds a valid placement for every ship in fleet order, treating
// ships placed earlier as obstacles. The grid is not touched; the board
// applies the result.
func (sp *ShipPlacer) Place(fleet []ShipSpec) ([]Placement, error) {
	grid := NewGrid()
	placements := make([]Placement, 0, len(fleet))

	for _, spec := range fleet {
		placement, err := sp.placeOne(&grid, spec)
		if err != nil {
			return nil, err
		}
		for _, c := range placement.Cells() {
			grid.set(c, CellStateShipPresent)
		}
		placements = append(placements, placement)
	}

	return placements, nil
}

func (sp *ShipPlacer) placeOne(grid *Grid, spec ShipSpec) (Placement, error) {
	for attempt := 0; attempt < sp.maxAttempts; attempt++ {
		placement := drawPlacement(sp.rng, spec)
		if placement.fits(grid) {
			return placement, nil
		}
	}
	return Placement{}, cerr.ErrPlacement(spec.Name, sp.maxAttempts)
}
