package error

import (
	"errors"
	"fmt"
)

const (
	ConstErrFireFailed = "fire operation failed"
	ConstErrNewGame    = "failed to create a new game"
)

// Returned when the placer could not fit a ship within its retry budget.
// This only happens with a broken random source or an oversized fleet.
var ErrPlacementExhausted = errors.New("ship placement exhausted its retry budget")

var ErrValueOutOfRange = errors.New("value out of range")

func ErrGameNotExists(gameUuid string) error {
	return fmt.Errorf("game with this uuid does not exist, uuid: %s", gameUuid)
}

func ErrGameIsNil(gameUuid string) error {
	return fmt.Errorf("game with this uuid is nil, uuid: %s", gameUuid)
}

func ErrNoActiveGame(sessionId string) error {
	return fmt.Errorf("session has no active game, session: %s", sessionId)
}

func ErrSessionNotFound(sessionId string) error {
	return fmt.Errorf("session with this id does not exist, id: %s", sessionId)
}

func ErrSessionIsNil(sessionId string) error {
	return fmt.Errorf("session with this id is nil, id: %s", sessionId)
}

func ErrPlacement(shipName string, attempts int) error {
	return fmt.Errorf("%w: ship %s not placed after %d attempts", ErrPlacementExhausted, shipName, attempts)
}

func ErrRowOrColOutOfGridBound(row, col int) error {
	return fmt.Errorf("incoming row or col is out of game grid bound\trow: %d\tcol: %d", row, col)
}

func ErrShipOverlap(shipName string, row, col int) error {
	return fmt.Errorf("ship %s overlaps another ship\trow: %d\tcol: %d", shipName, row, col)
}

func ErrIllegalCellTransition(from, to string, row, col int) error {
	return fmt.Errorf("illegal cell transition %s -> %s\trow: %d\tcol: %d", from, to, row, col)
}

func ErrInvalidStage(stage string) error {
	return fmt.Errorf("stage must be either dev or prod, got: %q", stage)
}

func ErrInvalidEnv(key, value string, err error) error {
	return fmt.Errorf("invalid value for %s: %q: %w", key, value, err)
}

func ErrMissingEnv(key string) error {
	return fmt.Errorf("required environment variable is not set: %s", key)
}

func ErrAnalyticsDisabled() error {
	return errors.New("analytics storage is not configured")
}

func ErrSignalAbsent() error {
	return errors.New("incoming req payload must contain 'code' field")
}
