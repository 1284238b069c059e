package battleship

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	cerr "github.com/saeidalz13/battleship-solo/internal/error"
)

const (
	DefaultGameTTL         time.Duration = time.Minute * 30
	defaultCleanupInterval time.Duration = time.Minute * 5
)

type GameManager interface {
	CreateGame() (*Game, error)
	GetGame(gameUuid string) (*Game, error)
	TerminateGame(gameUuid string)
	RestartGame(gameUuid string) (*Game, error)
	CleanupPeriodically(ctx context.Context)
}

type BattleshipGameManager struct {
	games           map[string]*Game
	newPlacer       func() *ShipPlacer
	gameTTL         time.Duration
	cleanupInterval time.Duration
	now             func() time.Time
	mu              sync.RWMutex
}

var _ GameManager = (*BattleshipGameManager)(nil)

type GameManagerOption func(*BattleshipGameManager)

// WithPlacerFactory controls the random source of every new board.
func WithPlacerFactory(newPlacer func() *ShipPlacer) GameManagerOption {
	return func(bgm *BattleshipGameManager) {
		bgm.newPlacer = newPlacer
	}
}

func WithGameTTL(ttl time.Duration) GameManagerOption {
	return func(bgm *BattleshipGameManager) {
		if ttl > 0 {
			bgm.gameTTL = ttl
		}
	}
}

func WithCleanupInterval(interval time.Duration) GameManagerOption {
	return func(bgm *BattleshipGameManager) {
		if interval > 0 {
			bgm.cleanupInterval = interval
		}
	}
}

// WithClock replaces time.Now for game timestamps and expiry.
func WithClock(now func() time.Time) GameManagerOption {
	return func(bgm *BattleshipGameManager) {
		if now != nil {
			bgm.now = now
		}
	}
}

func NewBattleshipGameManager(opts ...GameManagerOption) *BattleshipGameManager {
	bgm := &BattleshipGameManager{
		games:           make(map[string]*Game, 10),
		newPlacer:       func() *ShipPlacer { return NewShipPlacer() },
		gameTTL:         DefaultGameTTL,
		cleanupInterval: defaultCleanupInterval,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(bgm)
	}
	return bgm
}

func (bgm *BattleshipGameManager) CreateGame() (*Game, error) {
	game, err := newGame(bgm.newPlacer(), bgm.now)
	if err != nil {
		return nil, err
	}

	bgm.mu.Lock()
	bgm.games[game.Uuid()] = game
	bgm.mu.Unlock()

	log.Debug().Str("game", game.Uuid()).Msg("game created")
	return game, nil
}

func (bgm *BattleshipGameManager) GetGame(gameUuid string) (*Game, error) {
	bgm.mu.RLock()
	game, prs := bgm.games[gameUuid]
	bgm.mu.RUnlock()
	if !prs {
		return nil, cerr.ErrGameNotExists(gameUuid)
	}
	if game == nil {
		return nil, cerr.ErrGameIsNil(gameUuid)
	}

	return game, nil
}

func (bgm *BattleshipGameManager) TerminateGame(gameUuid string) {
	bgm.mu.Lock()
	delete(bgm.games, gameUuid)
	bgm.mu.Unlock()
}

// RestartGame drops the old game entirely and hands back a new one.
// An unknown uuid is not an error; the caller just gets a fresh game.
func (bgm *BattleshipGameManager) RestartGame(gameUuid string) (*Game, error) {
	if gameUuid != "" {
		bgm.TerminateGame(gameUuid)
	}
	return bgm.CreateGame()
}

func (bgm *BattleshipGameManager) Count() int {
	bgm.mu.RLock()
	defer bgm.mu.RUnlock()
	return len(bgm.games)
}

// To ensure abandoned games do not pile up, games left idle for
// longer than the TTL are removed on every tick. A game being played
// is never removed.
func (bgm *BattleshipGameManager) CleanupPeriodically(ctx context.Context) {
	ticker := time.NewTicker(bgm.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			bgm.removeExpired(now)
		}
	}
}

func (bgm *BattleshipGameManager) removeExpired(now time.Time) int {
	bgm.mu.Lock()
	defer bgm.mu.Unlock()

	removed := 0
	for id, game := range bgm.games {
		if now.Sub(game.LastActivity()) > bgm.gameTTL {
			delete(bgm.games, id)
			removed++
			log.Info().Str("game", id).Msg("expired game removed")
		}
	}
	return removed
}
