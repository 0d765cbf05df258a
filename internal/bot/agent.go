package bot

import (
	"pioneers/internal/domain"
)

// Agent represents an autonomous player.
type Agent struct {
	ID       string
	Name     string
	Strategy Brain
}

// Play asks the agent for its candidate moves, in preference order. The
// caller submits them one by one until the rule engine accepts one; an
// empty slice means the agent has nothing to do.
func (a *Agent) Play(view View) []domain.MoveRequest {
	view.PlayerID = a.ID
	if view.Head() == nil {
		return nil
	}
	return a.Strategy.CalculateMoves(view)
}
