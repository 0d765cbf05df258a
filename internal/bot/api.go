package bot

import (
	"pioneers/internal/domain"
)

// View is the read-only game snapshot an agent decides on.
type View struct {
	PlayerID  string
	Board     *domain.Board
	Players   []*domain.Player
	Buildings []*domain.Building
	State     *domain.GameState
}

// Self returns the viewing player, or nil when it is not in the game.
func (v View) Self() *domain.Player {
	for _, p := range v.Players {
		if p.ID == v.PlayerID {
			return p
		}
	}
	return nil
}

// Head returns the pending expected move when it is the viewer's turn to
// act on it.
func (v View) Head() *domain.ExpectedMove {
	if v.State == nil || len(v.State.ExpectedMoves) == 0 {
		return nil
	}
	head := &v.State.ExpectedMoves[0]
	for _, id := range head.Players {
		if id == v.PlayerID {
			return head
		}
	}
	return nil
}

// Brain is the interface all bot strategies implement. CalculateMoves
// returns candidate requests in preference order; the driver submits them
// until one is accepted.
type Brain interface {
	CalculateMoves(view View) []domain.MoveRequest
}
