package ports

import (
	"context"

	"pioneers/internal/domain"
)

// GameRepository reads per-game settings.
type GameRepository interface {
	// Settings returns the game's configuration: victory target, starting
	// resources, map template/radius and the roll-7 allowance.
	Settings(ctx context.Context, gameID string) (domain.GameSettings, error)
}

// MembershipProvider lists the players of a game.
type MembershipProvider interface {
	// ActivePlayers returns active, non-spectator player ids in stable
	// join order.
	ActivePlayers(ctx context.Context, gameID string) ([]string, error)
}

// BoardRepository reads and writes a game's tile and harbor layout. The
// board is created once at game start and immutable afterwards.
type BoardRepository interface {
	Board(ctx context.Context, gameID string) (*domain.Board, error)
	SaveBoard(ctx context.Context, gameID string, board *domain.Board) error
}
