package ports

import (
	"context"

	"pioneers/internal/domain"
)

// PlayerStore persists player records keyed by game and player id.
//
// UpdatePlayer is conditional: the write only succeeds if the stored record
// is unchanged since this store last read it (compare-and-swap on the
// record version). A lost race surfaces as domain.ErrConflict, closing the
// window between a balance check and its commit.
type PlayerStore interface {
	FindPlayer(ctx context.Context, gameID, playerID string) (*domain.Player, error)
	ListPlayers(ctx context.Context, gameID string) ([]*domain.Player, error)
	CreatePlayer(ctx context.Context, gameID string, player *domain.Player) error
	UpdatePlayer(ctx context.Context, gameID string, player *domain.Player) error
	DeletePlayer(ctx context.Context, gameID, playerID string) error
}

// BuildingStore persists the building ledger of a game. SaveBuilding
// inserts or updates by building id; records are only ever deleted when
// the whole game is torn down.
type BuildingStore interface {
	ListBuildings(ctx context.Context, gameID string) ([]*domain.Building, error)
	SaveBuilding(ctx context.Context, gameID string, building *domain.Building) error
	DeleteBuildings(ctx context.Context, gameID string) error
}

// GameStateStore persists the turn state. UpdateState carries the same
// conditional-write contract as PlayerStore.
type GameStateStore interface {
	FindState(ctx context.Context, gameID string) (*domain.GameState, error)
	CreateState(ctx context.Context, gameID string, state *domain.GameState) error
	UpdateState(ctx context.Context, gameID string, state *domain.GameState) error
	DeleteState(ctx context.Context, gameID string) error
}

// MoveLog appends and reads the immutable move history of a game.
type MoveLog interface {
	AppendMove(ctx context.Context, move *domain.Move) error
	ListMoves(ctx context.Context, gameID string) ([]*domain.Move, error)
}
