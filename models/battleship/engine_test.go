package battleship

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func waterCells(n int) []Coordinates {
	cells := make([]Coordinates, 0, n)
	for r := 0; r < GridSize && len(cells) < n; r++ {
		for c := 5; c < GridSize && len(cells) < n; c++ {
			cells = append(cells, NewCoordinates(r, c))
		}
	}
	return cells
}

func TestEngineFullMissPath(t *testing.T) {
	engine := NewEngine(fixedBoard(t))

	cells := waterCells(MissesPerStrike)
	for i, c := range cells[:len(cells)-1] {
		result := engine.Fire(c)
		require.Equal(t, OutcomeMiss, result.Outcome)
		require.Equal(t, i+1, result.Stats.MissStreak)
	}

	result := engine.Fire(cells[len(cells)-1])
	require.Equal(t, OutcomeStrike, result.Outcome)
	require.Equal(t, Stats{TotalMisses: 5, MissStreak: 0, Strikes: 1}, result.Stats)
	require.Equal(t, GameStatusInProgress, engine.Status())
}

func TestEngineDefeat(t *testing.T) {
	engine := NewEngine(fixedBoard(t))

	cells := waterCells(MissesPerStrike * StrikesToLose)
	for i, c := range cells[:len(cells)-1] {
		result := engine.Fire(c)
		if (i+1)%MissesPerStrike == 0 {
			require.Equal(t, OutcomeStrike, result.Outcome, "shot %d", i+1)
		} else {
			require.Equal(t, OutcomeMiss, result.Outcome, "shot %d", i+1)
		}
	}

	result := engine.Fire(cells[len(cells)-1])
	require.Equal(t, OutcomeDefeat, result.Outcome)
	require.Equal(t, Stats{TotalMisses: 15, MissStreak: 0, Strikes: 3}, result.Stats)
	require.Equal(t, GameStatusLost, engine.Status())
	require.True(t, engine.IsOver())

	after := engine.Fire(NewCoordinates(0, 0))
	require.Equal(t, OutcomeIgnored, after.Outcome)
	require.Equal(t, result.Stats, after.Stats)
	require.Equal(t, CellStateShipPresent, engine.Board().CellAt(NewCoordinates(0, 0)))
}

func TestEngineHitResetsStreak(t *testing.T) {
	engine := NewEngine(fixedBoard(t))

	for _, c := range waterCells(4) {
		require.Equal(t, OutcomeMiss, engine.Fire(c).Outcome)
	}
	require.Equal(t, 4, engine.Stats().MissStreak)

	result := engine.Fire(NewCoordinates(0, 0))
	require.Equal(t, OutcomeHit, result.Outcome)
	require.Equal(t, Stats{TotalHits: 1, TotalMisses: 4}, result.Stats)

	// the streak starts over, so four more misses are still not a strike
	for _, c := range waterCells(8)[4:] {
		require.Equal(t, OutcomeMiss, engine.Fire(c).Outcome)
	}
	require.Equal(t, 0, engine.Stats().Strikes)
}

func TestEngineSinkDestroyer(t *testing.T) {
	engine := NewEngine(fixedBoard(t))

	first := engine.Fire(NewCoordinates(8, 0))
	require.Equal(t, OutcomeHit, first.Outcome)
	require.Empty(t, first.ShipName)

	second := engine.Fire(NewCoordinates(8, 1))
	require.Equal(t, OutcomeShipSunk, second.Outcome)
	require.Equal(t, "Destroyer(2)", second.ShipName)

	for _, ship := range engine.Board().Ships() {
		require.Equal(t, ship.Name() == "Destroyer(2)", ship.IsSunk())
	}
}

func TestEngineVictory(t *testing.T) {
	engine := NewEngine(fixedBoard(t))

	var shots []Coordinates
	for _, ship := range engine.Board().Ships() {
		shots = append(shots, ship.Cells()...)
	}
	require.Len(t, shots, 17)

	for _, c := range shots[:len(shots)-1] {
		outcome := engine.Fire(c).Outcome
		require.Contains(t, []Outcome{OutcomeHit, OutcomeShipSunk}, outcome)
	}

	// the last shot also sinks the destroyer but only victory is reported
	result := engine.Fire(shots[len(shots)-1])
	require.Equal(t, OutcomeVictory, result.Outcome)
	require.Empty(t, result.ShipName)
	require.Equal(t, Stats{TotalHits: 17}, result.Stats)
	require.Equal(t, GameStatusWon, engine.Status())

	after := engine.Fire(NewCoordinates(9, 9))
	require.Equal(t, OutcomeIgnored, after.Outcome)
	require.Equal(t, CellStateWater, engine.Board().CellAt(NewCoordinates(9, 9)))
	require.Equal(t, result.Stats, engine.Stats())
}

func TestEngineAlreadyResolved(t *testing.T) {
	engine := NewEngine(fixedBoard(t))

	engine.Fire(NewCoordinates(0, 0))
	engine.Fire(NewCoordinates(0, 9))
	before := engine.Stats()

	require.Equal(t, OutcomeAlreadyResolved, engine.Fire(NewCoordinates(0, 0)).Outcome)
	require.Equal(t, OutcomeAlreadyResolved, engine.Fire(NewCoordinates(0, 9)).Outcome)
	require.Equal(t, before, engine.Stats())
	require.Equal(t, 2, before.TotalHits+before.TotalMisses)
}

func TestEngineObserverSeesStateChanges(t *testing.T) {
	var seen []Stats
	engine := NewEngine(fixedBoard(t), WithStatsObserver(func(s Stats) {
		seen = append(seen, s)
	}))

	engine.Fire(NewCoordinates(0, 0))
	engine.Fire(NewCoordinates(0, 9))
	engine.Fire(NewCoordinates(0, 9))

	require.Equal(t, []Stats{
		{TotalHits: 1},
		{TotalHits: 1, TotalMisses: 1, MissStreak: 1},
	}, seen)
}

func TestEngineRandomBoardCounters(t *testing.T) {
	board, err := NewBoard(NewShipPlacer(WithSeed(99)))
	require.NoError(t, err)
	engine := NewEngine(board)

	fired := 0
	for r := 0; r < GridSize && !engine.IsOver(); r++ {
		for c := 0; c < GridSize && !engine.IsOver(); c++ {
			coords := NewCoordinates(r, c)
			engine.Fire(coords)
			fired++
			// firing twice never changes the counters
			engine.Fire(coords)
			stats := engine.Stats()
			require.Equal(t, fired, stats.TotalHits+stats.TotalMisses)
			require.Less(t, stats.MissStreak, MissesPerStrike)
			require.LessOrEqual(t, stats.Strikes, StrikesToLose)
		}
	}
	require.True(t, engine.IsOver())
}

func TestEngineFireOutOfBoundsPanics(t *testing.T) {
	engine := NewEngine(fixedBoard(t))
	require.Panics(t, func() { engine.Fire(NewCoordinates(-1, 3)) })
	require.Equal(t, Stats{}, engine.Stats())
}
