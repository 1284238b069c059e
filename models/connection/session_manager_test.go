package connection

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func TestFetchCodeFromMsg(t *testing.T) {
	tests := []struct {
		name         string
		payload      string
		expectedCode uint8
		expectErr    bool
	}{
		{name: "fire", payload: `{"code":3,"payload":{"row":1,"col":2}}`, expectedCode: CodeFire},
		{name: "zero code is a valid code", payload: `{"code":0}`, expectedCode: CodeSessionID},
		{name: "code absent", payload: `{"payload":{}}`, expectedCode: CodeSignalAbsent, expectErr: true},
		{name: "not json", payload: `fire!`, expectedCode: CodeSignalAbsent, expectErr: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			code, err := FetchCodeFromMsg([]byte(test.payload))
			require.Equal(t, test.expectedCode, code)
			if test.expectErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestSessionManagerLifecycle(t *testing.T) {
	bsm := NewBattleshipSessionManager()

	session := bsm.GenerateNewSession(nil)
	require.NotEmpty(t, session.Id())

	found, err := bsm.FindSession(session.Id())
	require.NoError(t, err)
	require.Same(t, session, found)

	bsm.TerminateSession(session.Id())
	_, err = bsm.FindSession(session.Id())
	require.Error(t, err)
}

func TestSessionManagerExpiresDetachedSessions(t *testing.T) {
	var expiredGames []string
	bsm := NewBattleshipSessionManager(
		WithGracePeriod(time.Minute),
		WithOnExpire(func(gameUuid string) { expiredGames = append(expiredGames, gameUuid) }),
	)

	withGame := bsm.GenerateNewSession(nil)
	withGame.SetGameUuid("game-1")
	bsm.DetachSession(withGame, nil)
	require.True(t, withGame.IsDetached())

	withoutGame := bsm.GenerateNewSession(nil)
	bsm.DetachSession(withoutGame, nil)

	now := time.Now()
	require.Zero(t, bsm.removeExpired(now))
	require.Equal(t, 2, bsm.removeExpired(now.Add(2*time.Minute)))
	require.Zero(t, bsm.Count())
	require.Equal(t, []string{"game-1"}, expiredGames)
}

func TestSessionManagerCleanupStopsWithContext(t *testing.T) {
	bsm := NewBattleshipSessionManager(WithCleanupInterval(time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		bsm.CleanupPeriodically(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cleanup should have returned after cancel")
	}
}

func TestConnErr(t *testing.T) {
	err := NewConnErr(ConnLoopBreak).AddDesc("closed")
	require.Equal(t, ConnLoopBreak, err.Code())
	require.Contains(t, err.Error(), "closed")
}

// connPair returns both ends of a live websocket connection.
func connPair(t *testing.T) (*websocket.Conn, *websocket.Conn) {
	t.Helper()

	serverConns := make(chan *websocket.Conn, 1)
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		serverConns <- conn
	}))
	t.Cleanup(srv.Close)

	client, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	select {
	case server := <-serverConns:
		t.Cleanup(func() { server.Close() })
		return server, client
	case <-time.After(5 * time.Second):
		t.Fatal("no server side connection")
		return nil, nil
	}
}

func readCode(t *testing.T, conn *websocket.Conn) uint8 {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg Message[NoPayload]
	require.NoError(t, conn.ReadJSON(&msg))
	return msg.Code
}

func TestWriteGoesToCallersConn(t *testing.T) {
	bsm := NewBattleshipSessionManager()
	oldServer, _ := connPair(t)
	newServer, newClient := connPair(t)

	session := bsm.GenerateNewSession(oldServer)
	_, err := bsm.ReconnectSession(session.Id(), newServer)
	require.NoError(t, err)

	// the replaced loop's reply fails on its own, closed conn
	require.Error(t, bsm.WriteToSessionConn(session, oldServer, NewMessage[NoPayload](CodeBoard)))
	require.Same(t, newServer, session.Conn())
	require.False(t, session.IsDetached())

	require.NoError(t, bsm.WriteToSessionConn(session, newServer, NewMessage[NoPayload](CodeFire)))
	require.Equal(t, CodeFire, readCode(t, newClient))
}

func TestConcurrentWritesAreSerialized(t *testing.T) {
	bsm := NewBattleshipSessionManager()
	server, client := connPair(t)
	session := bsm.GenerateNewSession(server)

	const writers = 20
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- bsm.WriteToSessionConn(session, server, NewMessage[NoPayload](CodeBoard))
		}()
	}

	for i := 0; i < writers; i++ {
		require.Equal(t, CodeBoard, readCode(t, client))
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}
}

func TestWriteToDetachedSession(t *testing.T) {
	bsm := NewBattleshipSessionManager()
	session := bsm.GenerateNewSession(nil)

	err := bsm.WriteToSessionConn(session, nil, NewMessage[NoPayload](CodeBoard))
	var connErr ConnErr
	require.ErrorAs(t, err, &connErr)
	require.Equal(t, ConnLoopAbnormalClosureRetry, connErr.Code())
}
