package connection

import (
	mb "github.com/saeidalz13/battleship-solo/models/battleship"
)

type ReqFire struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (r ReqFire) Coordinates() mb.Coordinates {
	return mb.NewCoordinates(r.Row, r.Col)
}
