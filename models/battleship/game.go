package battleship

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Game is one play session: a freshly placed board and the engine
// resolving fire against it. A new game is always a new Game value.
type Game struct {
	uuid         string
	engine       *Engine
	createdAt    time.Time
	lastActivity time.Time
	now          func() time.Time
	mu           sync.Mutex
}

func NewGame(placer *ShipPlacer, opts ...EngineOption) (*Game, error) {
	return newGame(placer, time.Now, opts...)
}

func newGame(placer *ShipPlacer, now func() time.Time, opts ...EngineOption) (*Game, error) {
	board, err := NewBoard(placer)
	if err != nil {
		return nil, err
	}
	return newGameWithClock(board, now, opts...), nil
}

func newGameWithBoard(board *Board, opts ...EngineOption) *Game {
	return newGameWithClock(board, time.Now, opts...)
}

func newGameWithClock(board *Board, now func() time.Time, opts ...EngineOption) *Game {
	createdAt := now()
	return &Game{
		uuid:         uuid.NewString(),
		engine:       NewEngine(board, opts...),
		createdAt:    createdAt,
		lastActivity: createdAt,
		now:          now,
	}
}

func (g *Game) Uuid() string {
	return g.uuid
}

func (g *Game) CreatedAt() time.Time {
	return g.createdAt
}

// LastActivity is the last time the game was fired at or looked at.
func (g *Game) LastActivity() time.Time {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastActivity
}

func (g *Game) Fire(c Coordinates) FireResult {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lastActivity = g.now()
	return g.engine.Fire(c)
}

type Snapshot struct {
	Cells  [][]CellState
	Stats  Stats
	Status GameStatus
	Sunk   []string
}

// Snapshot reveals ship positions only once the game is over.
func (g *Game) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lastActivity = g.now()

	board := g.engine.Board()
	return Snapshot{
		Cells:  board.View(g.engine.IsOver()),
		Stats:  g.engine.Stats(),
		Status: g.engine.Status(),
		Sunk:   board.SunkShips(),
	}
}

func (g *Game) Status() GameStatus {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.engine.Status()
}
