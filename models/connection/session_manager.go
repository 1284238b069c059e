package connection

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	cerr "github.com/saeidalz13/battleship-solo/internal/error"
)

const (
	DefaultGracePeriod     time.Duration = time.Minute * 2
	defaultCleanupInterval time.Duration = time.Minute
)

type SessionManager interface {
	GenerateNewSession(conn *websocket.Conn) *Session
	FindSession(sessionId string) (*Session, error)
	ReconnectSession(sessionId string, conn *websocket.Conn) (*Session, error)
	DetachSession(session *Session, conn *websocket.Conn)
	TerminateSession(sessionId string)
	WriteToSessionConn(session *Session, conn *websocket.Conn, msg interface{}) error
	ReadFromSessionConn(session *Session, conn *websocket.Conn) ([]byte, error)
	CleanupPeriodically(ctx context.Context)
}

type BattleshipSessionManager struct {
	sessions        map[string]*Session
	gracePeriod     time.Duration
	cleanupInterval time.Duration

	// called with the game uuid of every session that expires
	onExpire func(gameUuid string)
	mu       sync.RWMutex
}

var _ SessionManager = (*BattleshipSessionManager)(nil)

type SessionManagerOption func(*BattleshipSessionManager)

func WithGracePeriod(d time.Duration) SessionManagerOption {
	return func(bsm *BattleshipSessionManager) {
		if d > 0 {
			bsm.gracePeriod = d
		}
	}
}

func WithCleanupInterval(d time.Duration) SessionManagerOption {
	return func(bsm *BattleshipSessionManager) {
		if d > 0 {
			bsm.cleanupInterval = d
		}
	}
}

func WithOnExpire(onExpire func(gameUuid string)) SessionManagerOption {
	return func(bsm *BattleshipSessionManager) {
		bsm.onExpire = onExpire
	}
}

func NewBattleshipSessionManager(opts ...SessionManagerOption) *BattleshipSessionManager {
	bsm := &BattleshipSessionManager{
		sessions:        make(map[string]*Session, 10),
		gracePeriod:     DefaultGracePeriod,
		cleanupInterval: defaultCleanupInterval,
	}
	for _, opt := range opts {
		opt(bsm)
	}
	return bsm
}

func (bsm *BattleshipSessionManager) GenerateNewSession(conn *websocket.Conn) *Session {
	sessionId := base64.RawURLEncoding.EncodeToString([]byte(uuid.New().String()))
	session := NewSession(sessionId, conn)

	bsm.mu.Lock()
	bsm.sessions[sessionId] = session
	bsm.mu.Unlock()

	return session
}

func (bsm *BattleshipSessionManager) FindSession(sessionId string) (*Session, error) {
	bsm.mu.RLock()
	defer bsm.mu.RUnlock()

	session, prs := bsm.sessions[sessionId]
	if !prs {
		return nil, cerr.ErrSessionNotFound(sessionId)
	}
	if session == nil {
		return nil, cerr.ErrSessionIsNil(sessionId)
	}

	return session, nil
}

// ReconnectSession attaches conn to a session that is still within its
// grace period. A previous connection, if any, is closed.
func (bsm *BattleshipSessionManager) ReconnectSession(sessionId string, conn *websocket.Conn) (*Session, error) {
	session, err := bsm.FindSession(sessionId)
	if err != nil {
		return nil, err
	}

	if old := session.Conn(); old != nil && old != conn {
		_ = old.Close()
	}
	session.attach(conn)
	log.Info().Str("session", sessionId).Msg("session reconnected")
	return session, nil
}

// DetachSession marks the session as waiting for its client. conn is the
// connection whose read loop ended; a newer connection is left untouched.
func (bsm *BattleshipSessionManager) DetachSession(session *Session, conn *websocket.Conn) {
	if session.detach(conn) {
		log.Info().Str("session", session.Id()).Msg("session detached")
	}
}

func (bsm *BattleshipSessionManager) TerminateSession(sessionId string) {
	bsm.mu.Lock()
	delete(bsm.sessions, sessionId)
	bsm.mu.Unlock()
}

func (bsm *BattleshipSessionManager) Count() int {
	bsm.mu.RLock()
	defer bsm.mu.RUnlock()
	return len(bsm.sessions)
}

// WriteToSessionConn writes to conn, the connection owned by the caller's
// read loop, never to whatever connection the session holds right now.
func (bsm *BattleshipSessionManager) WriteToSessionConn(session *Session, conn *websocket.Conn, msg interface{}) error {
	err := session.writeToConnWithRetry(conn, msg)
	if err == nil {
		return nil
	}

	var connErr ConnErr
	if !errors.As(err, &connErr) {
		return err
	}
	if connErr.Code() == ConnLoopAbnormalClosureRetry {
		bsm.DetachSession(session, conn)
	}
	return connErr
}

// ReadFromSessionConn blocks for the next text frame on conn. The
// returned ConnErr code tells the caller whether the session should be
// kept for a reconnect.
func (bsm *BattleshipSessionManager) ReadFromSessionConn(session *Session, conn *websocket.Conn) ([]byte, error) {
	for {
		messageType, payload, err := conn.ReadMessage()
		if err != nil {
			return nil, NewConnErr(session.handleReadFromConnErr(err)).AddDesc(err.Error())
		}

		// A WebSocket frame can be one of 6 types: text=1, binary=2, ping=9, pong=10, close=8 and continuation=0
		// https://www.rfc-editor.org/rfc/rfc6455.html#section-11.8
		if messageType != websocket.TextMessage {
			log.Debug().Str("session", session.Id()).Int("type", messageType).Msg("ignoring non-text frame")
			continue
		}
		return payload, nil
	}
}

// To ensure that there are no dangling sessions, sessions that stayed
// detached for longer than the grace period are removed together
// with their game.
func (bsm *BattleshipSessionManager) CleanupPeriodically(ctx context.Context) {
	ticker := time.NewTicker(bsm.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			bsm.removeExpired(now)
		}
	}
}

func (bsm *BattleshipSessionManager) removeExpired(now time.Time) int {
	bsm.mu.Lock()
	expired := make([]*Session, 0)
	for id, session := range bsm.sessions {
		if session.detachedFor(now) > bsm.gracePeriod {
			expired = append(expired, session)
			delete(bsm.sessions, id)
		}
	}
	bsm.mu.Unlock()

	for _, session := range expired {
		log.Info().Str("session", session.Id()).Msg("expired session removed")
		if gameUuid := session.GameUuid(); gameUuid != "" && bsm.onExpire != nil {
			bsm.onExpire(gameUuid)
		}
	}
	return len(expired)
}

// FetchCodeFromMsg extracts the signal code, telling an absent "code"
// field apart from code 0.
func FetchCodeFromMsg(payload []byte) (uint8, error) {
	var signal struct {
		Code *uint8 `json:"code"`
	}
	if err := json.Unmarshal(payload, &signal); err != nil {
		return CodeSignalAbsent, err
	}
	if signal.Code == nil {
		return CodeSignalAbsent, cerr.ErrSignalAbsent()
	}
	return *signal.Code, nil
}
