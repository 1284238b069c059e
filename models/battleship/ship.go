package battleship

import "fmt"

type ShipSpec struct {
	Name   string `json:"name"`
	Length int    `json:"length"`
}

func NewShipSpec(kind string, length int) ShipSpec {
	return ShipSpec{Name: fmt.Sprintf("%s(%d)", kind, length), Length: length}
}

// Placed in this order; the two length 3 ships differ only by name.
var DefaultFleet = []ShipSpec{
	NewShipSpec("Carrier", 5),
	NewShipSpec("Battleship", 4),
	NewShipSpec("Cruiser", 3),
	NewShipSpec("Submarine", 3),
	NewShipSpec("Destroyer", 2),
}

func FleetCells(fleet []ShipSpec) int {
	total := 0
	for _, spec := range fleet {
		total += spec.Length
	}
	return total
}

type Ship struct {
	name   string
	length int
	cells  map[Coordinates]struct{}
	hits   map[Coordinates]struct{}

	// insertion order of cells for stable output
	order []Coordinates
}

func NewShip(name string, length int) *Ship {
	return &Ship{
		name:   name,
		length: length,
		cells:  make(map[Coordinates]struct{}, length),
		hits:   make(map[Coordinates]struct{}, length),
		order:  make([]Coordinates, 0, length),
	}
}

// No bounds or duplicate checks; the placer guarantees both.
func (sh *Ship) AddCell(c Coordinates) {
	if _, prs := sh.cells[c]; prs {
		return
	}
	sh.cells[c] = struct{}{}
	sh.order = append(sh.order, c)
}

func (sh *Ship) Occupies(c Coordinates) bool {
	_, prs := sh.cells[c]
	return prs
}

// Callers must check Occupies first. Repeated hits are no-ops.
func (sh *Ship) RegisterHit(c Coordinates) {
	sh.hits[c] = struct{}{}
}

func (sh *Ship) IsSunk() bool {
	return len(sh.cells) > 0 && len(sh.hits) == len(sh.cells)
}

func (sh *Ship) Name() string {
	return sh.name
}

func (sh *Ship) Length() int {
	return sh.length
}

func (sh *Ship) Cells() []Coordinates {
	cells := make([]Coordinates, len(sh.order))
	copy(cells, sh.order)
	return cells
}

func (sh *Ship) HitCoordinates() []Coordinates {
	hits := make([]Coordinates, 0, len(sh.hits))
	for _, c := range sh.order {
		if _, prs := sh.hits[c]; prs {
			hits = append(hits, c)
		}
	}
	return hits
}
