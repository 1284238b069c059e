package connection

import (
	"errors"
	"net"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	maxWsRetries  uint8         = 2
	backOffFactor uint8         = 2
	writeDeadline time.Duration = time.Second * 10
)

type ConnectionHandler interface {
	handleReadFromConnErr(err error) uint8
	writeToConnWithRetry(conn *websocket.Conn, msg interface{}) error
	onConnErr(err error) uint8
}

// Session ties one client to at most one game. The websocket
// connection may be swapped when the client reconnects; the game stays.
type Session struct {
	id         string
	conn       *websocket.Conn
	gameUuid   string
	createdAt  time.Time
	detachedAt time.Time
	backOff    func(retry uint8) time.Duration
	mu         sync.RWMutex

	// gorilla allows one concurrent writer per conn
	writeMu sync.Mutex
}

var _ ConnectionHandler = (*Session)(nil)

func NewSession(id string, conn *websocket.Conn) *Session {
	return &Session{
		id:        id,
		conn:      conn,
		createdAt: time.Now(),
		backOff: func(retry uint8) time.Duration {
			return time.Duration(retry*backOffFactor) * time.Second
		},
	}
}

func (s *Session) Id() string {
	return s.id
}

func (s *Session) Conn() *websocket.Conn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.conn
}

func (s *Session) GameUuid() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gameUuid
}

func (s *Session) SetGameUuid(gameUuid string) {
	s.mu.Lock()
	s.gameUuid = gameUuid
	s.mu.Unlock()
}

// IsDetached reports whether the client dropped and has not come back yet.
func (s *Session) IsDetached() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.conn == nil
}

func (s *Session) attach(conn *websocket.Conn) {
	s.mu.Lock()
	s.conn = conn
	s.detachedAt = time.Time{}
	s.mu.Unlock()
}

// detach only clears conn if it is still the one that failed, so a
// quick reconnect is not undone by the old read loop exiting.
func (s *Session) detach(conn *websocket.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn != conn {
		return false
	}
	s.conn = nil
	s.detachedAt = time.Now()
	return true
}

func (s *Session) detachedFor(now time.Time) time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.conn != nil {
		return 0
	}
	return now.Sub(s.detachedAt)
}

func (s *Session) onConnErr(err error) uint8 {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		log.Warn().Err(err).Str("session", s.id).Msg("timeout error")
		return ConnLoopRetry
	}

	if websocket.IsCloseError(err, websocket.CloseTryAgainLater) {
		log.Warn().Err(err).Str("session", s.id).Msg("high server load/traffic error")
		return ConnLoopRetry
	}

	// Happens when a mobile client goes to background; the session is
	// kept so the client can reconnect with its session id
	if websocket.IsCloseError(err, websocket.CloseAbnormalClosure) {
		log.Info().Err(err).Str("session", s.id).Msg("abnormal closure")
		return ConnLoopAbnormalClosureRetry
	}

	if websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
		log.Info().Str("session", s.id).Msg("connection closed by client")
		return ConnLoopBreak
	}

	/*
		CloseUnsupportedData (1003) and CloseInvalidFramePayloadData (1007)
		most likely mean the client is not ours. Breaking not to
		overwhelm the server with invalid payloads.
	*/
	log.Warn().Err(err).Str("session", s.id).Msg("unexpected connection error")
	return ConnLoopBreak
}

// Writes msg as JSON to conn, retrying timeouts with a linear back off.
// conn is the connection of the calling loop, which may already have
// been replaced by a reconnect; writes never go to someone else's conn.
func (s *Session) writeToConnWithRetry(conn *websocket.Conn, msg interface{}) error {
	if conn == nil {
		return NewConnErr(ConnLoopAbnormalClosureRetry).AddDesc("session is detached")
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	var retries uint8

	for {
		_ = conn.SetWriteDeadline(time.Now().Add(writeDeadline))

		err := conn.WriteJSON(msg)
		if err == nil {
			return nil
		}

		switch s.onConnErr(err) {
		case ConnLoopRetry:
			if retries >= maxWsRetries {
				log.Error().Err(err).Str("session", s.id).Msg("max retries reached for writing to ws")
				return NewConnErr(ConnLoopBreak).AddDesc(err.Error())
			}
			retries++
			log.Warn().Str("session", s.id).Uint8("retry", retries).Msg("writing to ws failed; retrying")
			time.Sleep(s.backOff(retries))

		case ConnLoopAbnormalClosureRetry:
			return NewConnErr(ConnLoopAbnormalClosureRetry).AddDesc(err.Error())

		default:
			return NewConnErr(ConnLoopBreak).AddDesc(err.Error())
		}
	}
}

// A failed websocket read can not be retried on the same conn, so
// anything recoverable leaves the session waiting for a reconnect.
func (s *Session) handleReadFromConnErr(err error) uint8 {
	switch s.onConnErr(err) {
	case ConnLoopRetry, ConnLoopAbnormalClosureRetry:
		return ConnLoopAbnormalClosureRetry
	default:
		return ConnLoopBreak
	}
}
