package api

import (
	"encoding/json"

	cerr "github.com/saeidalz13/battleship-solo/internal/error"
	mb "github.com/saeidalz13/battleship-solo/models/battleship"
	mc "github.com/saeidalz13/battleship-solo/models/connection"
)

type RequestHandler interface {
	HandleNewGame(gm mb.GameManager, session *mc.Session) (mc.Message[mc.RespNewGame], *mb.Game)
	HandleFire(gm mb.GameManager, session *mc.Session) (mc.Message[mc.RespFire], *mb.Game, mb.FireResult)
	HandleBoard(gm mb.GameManager, session *mc.Session) mc.Message[mc.RespBoard]
}

// Every incoming valid request will have this structure
// The request then is handled in line with RequestHandler interface
type Request struct {
	payload []byte
}

var _ RequestHandler = Request{}

func NewRequest(payload ...[]byte) Request {
	var req Request
	if len(payload) != 0 {
		req.payload = payload[0]
	}
	return req
}

// Whatever game the session had is thrown away; there is no way
// to reset a game in place.
func (r Request) HandleNewGame(gm mb.GameManager, session *mc.Session) (mc.Message[mc.RespNewGame], *mb.Game) {
	resp := mc.NewMessage[mc.RespNewGame](mc.CodeNewGame)

	game, err := gm.RestartGame(session.GameUuid())
	if err != nil {
		session.SetGameUuid("")
		resp.AddError(err.Error(), cerr.ConstErrNewGame)
		return resp, nil
	}
	session.SetGameUuid(game.Uuid())

	resp.AddPayload(mc.RespNewGame{
		GameUuid: game.Uuid(),
		GridSize: mb.GridSize,
		Fleet:    mb.DefaultFleet,
	})
	return resp, game
}

func (r Request) HandleFire(gm mb.GameManager, session *mc.Session) (mc.Message[mc.RespFire], *mb.Game, mb.FireResult) {
	resp := mc.NewMessage[mc.RespFire](mc.CodeFire)

	var reqFire mc.Message[mc.ReqFire]
	if err := json.Unmarshal(r.payload, &reqFire); err != nil {
		resp.AddError(err.Error(), cerr.ConstErrFireFailed)
		return resp, nil, mb.FireResult{}
	}

	// the engine treats these as a contract violation, so they stop here
	coords := reqFire.Payload.Coordinates()
	if !coords.InBounds() {
		resp.AddError(cerr.ErrRowOrColOutOfGridBound(coords.Row, coords.Col).Error(), cerr.ConstErrFireFailed)
		return resp, nil, mb.FireResult{}
	}

	game, err := findSessionGame(gm, session)
	if err != nil {
		resp.AddError(err.Error(), cerr.ConstErrFireFailed)
		return resp, nil, mb.FireResult{}
	}

	result := game.Fire(coords)
	resp.AddPayload(mc.NewRespFire(result))
	return resp, game, result
}

func (r Request) HandleBoard(gm mb.GameManager, session *mc.Session) mc.Message[mc.RespBoard] {
	resp := mc.NewMessage[mc.RespBoard](mc.CodeBoard)

	game, err := findSessionGame(gm, session)
	if err != nil {
		resp.AddError(err.Error(), "")
		return resp
	}

	resp.AddPayload(mc.NewRespBoard(game.Snapshot()))
	return resp
}

func newEndGameMessage(game *mb.Game, outcome mb.Outcome) mc.Message[mc.RespEndGame] {
	resp := mc.NewMessage[mc.RespEndGame](mc.CodeEndGame)
	resp.AddPayload(mc.RespEndGame{
		Outcome: outcome.String(),
		Board:   mc.NewRespBoard(game.Snapshot()),
	})
	return resp
}

func findSessionGame(gm mb.GameManager, session *mc.Session) (*mb.Game, error) {
	gameUuid := session.GameUuid()
	if gameUuid == "" {
		return nil, cerr.ErrNoActiveGame(session.Id())
	}
	return gm.GetGame(gameUuid)
}
