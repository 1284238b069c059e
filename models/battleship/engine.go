package battleship

const (
	MissesPerStrike = 5
	StrikesToLose   = 3
)

type GameStatus uint8

const (
	GameStatusInProgress GameStatus = iota
	GameStatusWon
	GameStatusLost
)

func (gs GameStatus) String() string {
	switch gs {
	case GameStatusWon:
		return "won"
	case GameStatusLost:
		return "lost"
	default:
		return "in_progress"
	}
}

type Outcome uint8

const (
	OutcomeHit Outcome = iota
	OutcomeMiss
	OutcomeShipSunk
	OutcomeStrike
	OutcomeVictory
	OutcomeDefeat
	OutcomeAlreadyResolved
	OutcomeIgnored
)

var outcomeNames = map[Outcome]string{
	OutcomeHit:             "hit",
	OutcomeMiss:            "miss",
	OutcomeShipSunk:        "ship_sunk",
	OutcomeStrike:          "strike",
	OutcomeVictory:         "victory",
	OutcomeDefeat:          "defeat",
	OutcomeAlreadyResolved: "already_resolved",
	OutcomeIgnored:         "ignored",
}

func (o Outcome) String() string {
	if name, prs := outcomeNames[o]; prs {
		return name
	}
	return "unknown"
}

// Ended reports whether the outcome finished the game.
func (o Outcome) Ended() bool {
	return o == OutcomeVictory || o == OutcomeDefeat
}

type Stats struct {
	TotalHits   int `json:"total_hits"`
	TotalMisses int `json:"total_misses"`
	MissStreak  int `json:"miss_streak"`
	Strikes     int `json:"strikes"`
}

type FireResult struct {
	Coordinates Coordinates
	Outcome     Outcome
	// Only set for OutcomeShipSunk.
	ShipName string
	Stats    Stats
}

// StatsObserver receives the counters after every fire that changed them.
type StatsObserver func(Stats)

// Engine resolves fire requests against one board. It is not safe for
// concurrent use; a game session drives it from a single goroutine.
type Engine struct {
	board    *Board
	status   GameStatus
	stats    Stats
	observer StatsObserver
}

type EngineOption func(*Engine)

func WithStatsObserver(observer StatsObserver) EngineOption {
	return func(e *Engine) {
		e.observer = observer
	}
}

func NewEngine(board *Board, opts ...EngineOption) *Engine {
	e := &Engine{
		board:  board,
		status: GameStatusInProgress,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Fire(c Coordinates) FireResult {
	result := FireResult{Coordinates: c}

	if e.IsOver() {
		result.Outcome = OutcomeIgnored
		result.Stats = e.stats
		return result
	}

	switch e.board.CellAt(c) {
	case CellStateShipPresent:
		result.Outcome, result.ShipName = e.resolveHit(c)

	case CellStateWater:
		result.Outcome = e.resolveMiss(c)

	default:
		result.Outcome = OutcomeAlreadyResolved
		result.Stats = e.stats
		return result
	}

	result.Stats = e.stats
	if e.observer != nil {
		e.observer(e.stats)
	}
	return result
}

func (e *Engine) resolveHit(c Coordinates) (Outcome, string) {
	sunkName, sunk, err := e.board.hit(c)
	if err != nil {
		panic(err)
	}
	e.stats.TotalHits++
	e.stats.MissStreak = 0

	// Sinking the last ship is reported as victory only.
	if !e.board.HasShipsRemaining() {
		e.status = GameStatusWon
		return OutcomeVictory, ""
	}
	if sunk {
		return OutcomeShipSunk, sunkName
	}
	return OutcomeHit, ""
}

func (e *Engine) resolveMiss(c Coordinates) Outcome {
	e.mustSetCell(c, CellStateMiss)
	e.stats.TotalMisses++
	e.stats.MissStreak++

	if e.stats.MissStreak < MissesPerStrike {
		return OutcomeMiss
	}

	e.stats.Strikes++
	e.stats.MissStreak = 0
	if e.stats.Strikes >= StrikesToLose {
		e.status = GameStatusLost
		return OutcomeDefeat
	}
	return OutcomeStrike
}

// The cell state was read right before, so a refused transition
// means the board and engine disagree.
func (e *Engine) mustSetCell(c Coordinates, state CellState) {
	if err := e.board.SetCell(c, state); err != nil {
		panic(err)
	}
}

func (e *Engine) Status() GameStatus {
	return e.status
}

func (e *Engine) IsOver() bool {
	return e.status != GameStatusInProgress
}

func (e *Engine) Stats() Stats {
	return e.stats
}

func (e *Engine) Board() *Board {
	return e.board
}
