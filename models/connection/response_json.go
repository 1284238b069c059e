package connection

import (
	mb "github.com/saeidalz13/battleship-solo/models/battleship"
)

type RespSessionId struct {
	SessionID string `json:"session_id"`
	GameUuid  string `json:"game_uuid,omitempty"`
}

type RespNewGame struct {
	GameUuid string        `json:"game_uuid"`
	GridSize int           `json:"grid_size"`
	Fleet    []mb.ShipSpec `json:"fleet"`
}

type RespFire struct {
	Row      int      `json:"row"`
	Col      int      `json:"col"`
	Outcome  string   `json:"outcome"`
	ShipName string   `json:"ship_name,omitempty"`
	Stats    mb.Stats `json:"stats"`
}

func NewRespFire(result mb.FireResult) RespFire {
	return RespFire{
		Row:      result.Coordinates.Row,
		Col:      result.Coordinates.Col,
		Outcome:  result.Outcome.String(),
		ShipName: result.ShipName,
		Stats:    result.Stats,
	}
}

type RespBoard struct {
	Cells     [][]string `json:"cells"`
	Status    string     `json:"status"`
	SunkShips []string   `json:"sunk_ships"`
	Stats     mb.Stats   `json:"stats"`
}

func NewRespBoard(snapshot mb.Snapshot) RespBoard {
	cells := make([][]string, len(snapshot.Cells))
	for r, row := range snapshot.Cells {
		cells[r] = make([]string, len(row))
		for c, state := range row {
			cells[r][c] = state.String()
		}
	}
	return RespBoard{
		Cells:     cells,
		Status:    snapshot.Status.String(),
		SunkShips: snapshot.Sunk,
		Stats:     snapshot.Stats,
	}
}

type RespEndGame struct {
	Outcome string    `json:"outcome"`
	Board   RespBoard `json:"board"`
}

type RespErr struct {
	ErrorDetails string `json:"error_details,omitempty"`
	Message      string `json:"message,omitempty"`
}

func NewRespErr(errorDetails, message string) *RespErr {
	return &RespErr{
		ErrorDetails: errorDetails,
		Message:      message,
	}
}
