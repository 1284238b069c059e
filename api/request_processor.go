package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/saeidalz13/battleship-solo/db/sqlc"
	mb "github.com/saeidalz13/battleship-solo/models/battleship"
	mc "github.com/saeidalz13/battleship-solo/models/connection"
)

const (
	URLQuerySessionIDKeyword string = "sessionID"
)

var (
	upgrader = websocket.Upgrader{

		// good average time since this is not a high-latency operation such as video streaming
		HandshakeTimeout: time.Second * 5,

		// a revealed board is the largest message and fits easily
		ReadBufferSize:  2048,
		WriteBufferSize: 2048,
		CheckOrigin:     func(r *http.Request) bool { return true },
	}
)

// AnalyticsRecorder is satisfied by *sqlc.AnalyticsManager.
type AnalyticsRecorder interface {
	IncrementGamesCreatedCount(ctx context.Context) error
	IncrementGamesFinishedCount(ctx context.Context, won bool) error
	GetGameServerCounts(ctx context.Context) (sqlc.AnalyticsGetGameServerCountsRow, error)
}

var _ AnalyticsRecorder = (*sqlc.AnalyticsManager)(nil)

type RequestProcessor struct {
	sessionManager mc.SessionManager
	gameManager    mb.GameManager
	analytics      AnalyticsRecorder
}

// analytics may be nil, in which case nothing is recorded.
func NewRequestProcessor(
	sessionManager mc.SessionManager,
	gameManager mb.GameManager,
	analytics AnalyticsRecorder,
) *RequestProcessor {
	return &RequestProcessor{
		sessionManager: sessionManager,
		gameManager:    gameManager,
		analytics:      analytics,
	}
}

func (rp *RequestProcessor) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// use Upgrade method to make a websocket connection
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied to the client
		log.Warn().Err(err).Msg("could not open websocket connection")
		return
	}

	sessionIdQuery := r.URL.Query().Get(URLQuerySessionIDKeyword)
	if sessionIdQuery == "" {
		log.Info().Str("remote", conn.RemoteAddr().String()).Msg("a new connection established")
		rp.processSessionRequests(rp.sessionManager.GenerateNewSession(conn), conn)
		return
	}

	session, err := rp.sessionManager.ReconnectSession(sessionIdQuery, conn)
	if err != nil {
		// This either means an expired session or invalid session ID
		resp := mc.NewMessage[mc.NoPayload](mc.CodeReceivedInvalidSessionID)
		resp.AddError(err.Error(), "session expired; start a new connection")
		_ = conn.WriteJSON(resp)
		_ = conn.Close()
		return
	}
	rp.processSessionRequests(session, conn)
}

func (rp *RequestProcessor) processSessionRequests(session *mc.Session, conn *websocket.Conn) {
	sessionId := session.Id()
	logger := log.With().Str("session", sessionId).Logger()

	resp := mc.NewMessage[mc.RespSessionId](mc.CodeSessionID)
	resp.AddPayload(mc.RespSessionId{SessionID: sessionId, GameUuid: session.GameUuid()})
	if err := rp.sessionManager.WriteToSessionConn(session, conn, resp); err != nil {
		rp.closeSession(session, conn, err)
		return
	}

sessionLoop:
	for {
		payload, err := rp.sessionManager.ReadFromSessionConn(session, conn)
		if err != nil {
			rp.closeSession(session, conn, err)
			return
		}

		code, err := mc.FetchCodeFromMsg(payload)
		if err != nil {
			msg := mc.NewMessage[mc.NoPayload](mc.CodeSignalAbsent)
			msg.AddError(err.Error(), "")
			if err := rp.sessionManager.WriteToSessionConn(session, conn, msg); err != nil {
				rp.closeSession(session, conn, err)
				return
			}
			continue sessionLoop
		}

		switch code {

		// The old game, if any, is discarded and a new board is dealt
		case mc.CodeNewGame:
			respMsg, game := NewRequest(payload).HandleNewGame(rp.gameManager, session)
			if game != nil {
				logger.Info().Str("game", game.Uuid()).Msg("new game")
				rp.recordAnalytics(func(ctx context.Context) error {
					return rp.analytics.IncrementGamesCreatedCount(ctx)
				})
			}

			if err := rp.sessionManager.WriteToSessionConn(session, conn, respMsg); err != nil {
				rp.closeSession(session, conn, err)
				return
			}

		// Every fire gets its own response. A fire that ends the game is
		// followed by an end game message carrying the revealed board.
		case mc.CodeFire:
			respMsg, game, result := NewRequest(payload).HandleFire(rp.gameManager, session)

			if err := rp.sessionManager.WriteToSessionConn(session, conn, respMsg); err != nil {
				rp.closeSession(session, conn, err)
				return
			}

			// This means fire operation did not complete
			if respMsg.Error != nil {
				continue sessionLoop
			}

			logger.Debug().
				Str("game", game.Uuid()).
				Int("row", result.Coordinates.Row).
				Int("col", result.Coordinates.Col).
				Stringer("outcome", result.Outcome).
				Msg("fire resolved")

			if result.Outcome.Ended() {
				won := result.Outcome == mb.OutcomeVictory
				rp.recordAnalytics(func(ctx context.Context) error {
					return rp.analytics.IncrementGamesFinishedCount(ctx, won)
				})

				if err := rp.sessionManager.WriteToSessionConn(session, conn, newEndGameMessage(game, result.Outcome)); err != nil {
					rp.closeSession(session, conn, err)
					return
				}
			}

		case mc.CodeBoard:
			respMsg := NewRequest(payload).HandleBoard(rp.gameManager, session)
			if err := rp.sessionManager.WriteToSessionConn(session, conn, respMsg); err != nil {
				rp.closeSession(session, conn, err)
				return
			}

		default:
			respInvalidSignal := mc.NewMessage[mc.NoPayload](mc.CodeInvalidSignal)
			respInvalidSignal.AddError("", "invalid code in the incoming payload")
			if err := rp.sessionManager.WriteToSessionConn(session, conn, respInvalidSignal); err != nil {
				rp.closeSession(session, conn, err)
				return
			}
		}
	}
}

// closeSession decides what a dead connection means for its session.
// A replaced connection changes nothing; an abnormal closure keeps the
// session for a reconnect; anything else ends the session and its game.
func (rp *RequestProcessor) closeSession(session *mc.Session, conn *websocket.Conn, err error) {
	_ = conn.Close()

	current := session.Conn()
	if current != nil && current != conn {
		return
	}

	var connErr mc.ConnErr
	if errors.As(err, &connErr) && connErr.Code() == mc.ConnLoopAbnormalClosureRetry {
		rp.sessionManager.DetachSession(session, conn)
		return
	}

	if gameUuid := session.GameUuid(); gameUuid != "" {
		rp.gameManager.TerminateGame(gameUuid)
	}
	rp.sessionManager.TerminateSession(session.Id())
	log.Info().Str("session", session.Id()).Msg("session terminated")
}

// Analytics never affects play; failures are only logged.
func (rp *RequestProcessor) recordAnalytics(record func(ctx context.Context) error) {
	if rp.analytics == nil {
		return
	}
	if err := record(context.Background()); err != nil {
		log.Warn().Err(err).Msg("failed to record analytics")
	}
}
