package connection

const (
	CodeSessionID uint8 = iota
	CodeReceivedInvalidSessionID

	// Discards the current game of the session, if any,
	// and deals a freshly placed board
	CodeNewGame
	CodeFire
	CodeBoard
	CodeEndGame
	CodeInvalidSignal

	// if the req msg does not contain "code" field
	CodeSignalAbsent
)
