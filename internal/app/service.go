package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"pioneers/internal/domain"
	"pioneers/internal/ports"
)

// Dependencies are the collaborators the orchestrator consumes. Everything
// behind them (storage, transport, membership) is external to the engine.
type Dependencies struct {
	Games     ports.GameRepository
	Members   ports.MembershipProvider
	Boards    ports.BoardRepository
	Players   ports.PlayerStore
	Buildings ports.BuildingStore
	States    ports.GameStateStore
	Moves     ports.MoveLog
	Events    ports.EventPublisher
}

// Service routes each incoming move through the turn state machine and the
// matching rule engine, commits the result and publishes events. Moves for
// one game must be submitted serially; the match loop (or any other caller)
// owns that guarantee.
type Service struct {
	deps Dependencies
	rng  domain.Rand
}

// NewService constructs the orchestrator with the provided rng or a
// time-seeded default.
func NewService(deps Dependencies, rng domain.Rand) *Service {
	if rng == nil {
		rng = domain.NewRand()
	}
	return &Service{deps: deps, rng: rng}
}

// StartGame seeds board, players and turn state for the game's active
// members and announces the start.
func (s *Service) StartGame(ctx context.Context, gameID string) error {
	settings, err := s.deps.Games.Settings(ctx, gameID)
	if err != nil {
		return fmt.Errorf("read settings: %w", err)
	}
	memberIDs, err := s.deps.Members.ActivePlayers(ctx, gameID)
	if err != nil {
		return fmt.Errorf("list members: %w", err)
	}
	if len(memberIDs) == 0 {
		return domain.IllegalMovef("a game needs at least one player")
	}

	board, players, state := domain.StartGame(gameID, settings, memberIDs, s.rng)
	if err := s.deps.Boards.SaveBoard(ctx, gameID, board); err != nil {
		return fmt.Errorf("save board: %w", err)
	}
	for _, p := range players {
		if err := s.deps.Players.CreatePlayer(ctx, gameID, p); err != nil {
			return fmt.Errorf("create player %s: %w", p.ID, err)
		}
	}
	if err := s.deps.States.CreateState(ctx, gameID, state); err != nil {
		return fmt.Errorf("create state: %w", err)
	}

	s.deps.Events.Publish(ctx, gameID, string(EventGameStarted),
		GameStartedPayload{GameID: gameID, Players: memberIDs}, nil)
	return nil
}

// HandleMove executes one move end to end: load the aggregate, validate
// against the expected-move queue, dispatch to the rule engines, commit the
// touched records conditionally, append the move log and publish events.
// All rule checks run before any write; a failed check leaves every record
// untouched.
func (s *Service) HandleMove(ctx context.Context, gameID, actorID string, req domain.MoveRequest) (*domain.MoveResult, error) {
	game, err := s.loadGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	res, err := game.Apply(actorID, req)
	if err != nil {
		return nil, err
	}

	if err := s.commit(ctx, game); err != nil {
		return nil, err
	}
	s.appendMove(ctx, game, req, res)
	s.publish(ctx, game, res)
	return res, nil
}

// RemovePlayer deactivates a player (disconnect, kick) and heals the
// expected-move queue.
func (s *Service) RemovePlayer(ctx context.Context, gameID, playerID string) error {
	game, err := s.loadGame(ctx, gameID)
	if err != nil {
		return err
	}
	if err := game.RemovePlayer(playerID); err != nil {
		return err
	}
	if err := s.commit(ctx, game); err != nil {
		return err
	}
	s.deps.Events.Publish(ctx, gameID, string(EventPlayerRemoved),
		PlayerRemovedPayload{Player: playerID}, nil)
	return nil
}

// loadGame assembles the aggregate from the collaborators.
func (s *Service) loadGame(ctx context.Context, gameID string) (*domain.Game, error) {
	settings, err := s.deps.Games.Settings(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}
	board, err := s.deps.Boards.Board(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("read board: %w", err)
	}
	players, err := s.deps.Players.ListPlayers(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	buildings, err := s.deps.Buildings.ListBuildings(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("list buildings: %w", err)
	}
	state, err := s.deps.States.FindState(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("read state: %w", err)
	}
	return domain.NewGame(gameID, settings, board, players, buildings, state, s.rng), nil
}

// commit persists every record the move touched. Player writes go out in
// change order, which puts a title grant before the matching revoke; a
// failure on a later write is reported to the caller as a partial
// completion rather than rolled back.
func (s *Service) commit(ctx context.Context, game *domain.Game) error {
	changes := game.Changes()

	written := 0
	for _, playerID := range changes.Players {
		p, err := game.Player(playerID)
		if err != nil {
			return err
		}
		if err := s.deps.Players.UpdatePlayer(ctx, game.ID, p); err != nil {
			if written > 0 {
				return fmt.Errorf("partial commit after %d player writes: %w", written, err)
			}
			return fmt.Errorf("update player %s: %w", playerID, err)
		}
		written++
	}

	for _, buildingID := range changes.Buildings {
		for _, b := range game.Buildings {
			if b.ID != buildingID {
				continue
			}
			if err := s.deps.Buildings.SaveBuilding(ctx, game.ID, b); err != nil {
				return fmt.Errorf("save building %s: %w", buildingID, err)
			}
			break
		}
	}

	if changes.State {
		if err := s.deps.States.UpdateState(ctx, game.ID, game.State); err != nil {
			return fmt.Errorf("update state: %w", err)
		}
	}
	return nil
}

// appendMove records the accepted move in the immutable history.
func (s *Service) appendMove(ctx context.Context, game *domain.Game, req domain.MoveRequest, res *domain.MoveResult) {
	move := &domain.Move{
		ID:        uuid.NewString(),
		GameID:    game.ID,
		Player:    res.Actor,
		Action:    res.Action,
		Request:   req,
		Roll:      res.Roll,
		CreatedAt: time.Now().UTC(),
	}
	if res.Building != nil {
		move.BuildingID = res.Building.ID
	}
	// History is best-effort bookkeeping; a failed append never fails the
	// already-committed move.
	_ = s.deps.Moves.AppendMove(ctx, move)
}

// publish fans the move's facts out to listeners. Hidden information (a
// drawn card) goes only to its owner.
func (s *Service) publish(ctx context.Context, game *domain.Game, res *domain.MoveResult) {
	emit := func(kind EventKind, payload any, audience []string) {
		s.deps.Events.Publish(ctx, game.ID, string(kind), payload, audience)
	}

	if res.Roll > 0 {
		emit(EventDiceRolled, DiceRolledPayload{Player: res.Actor, Roll: res.Roll}, nil)
	}
	if len(res.Distributions) > 0 {
		emit(EventResourcesGiven, ResourcesGivenPayload{Grants: res.Distributions}, nil)
	}
	if res.Building != nil {
		emit(EventBuildingPlaced, BuildingPlacedPayload{Building: res.Building}, nil)
	}
	if res.DrawnCard != nil {
		emit(EventCardBought, CardBoughtPayload{Player: res.Actor, Card: res.DrawnCard.Type},
			[]string{res.Actor})
	}
	if res.PlayedCard != "" {
		emit(EventCardPlayed, CardPlayedPayload{Player: res.Actor, Card: res.PlayedCard}, nil)
	}
	if res.Trade != nil {
		emit(EventTradeExecuted, TradeExecutedPayload{Trade: res.Trade}, nil)
	}
	if res.Action == domain.ActionRob {
		payload := RobberMovedPayload{Player: res.Actor}
		if res.Theft != nil {
			payload.Victim = res.Theft.From
		}
		if game.State.Robber != nil {
			payload.Tile = *game.State.Robber
		}
		emit(EventRobberMoved, payload, nil)
		if res.Theft != nil {
			// The stolen resource stays hidden from bystanders.
			emit(EventResourcesStolen, ResourcesStolenPayload{Theft: res.Theft},
				[]string{res.Theft.From, res.Theft.To})
		}
	}
	if len(res.Dropped) > 0 {
		emit(EventResourcesDropped, ResourcesDroppedPayload{Player: res.Actor, Dropped: res.Dropped}, nil)
	}
	for _, t := range res.TitleTransfers {
		emit(EventTitleTransferred, TitleTransferredPayload{Transfer: t}, nil)
	}
	if res.TurnEnded {
		emit(EventTurnEnded, TurnEndedPayload{Player: res.Actor, Next: res.NextPlayer}, nil)
	}
	if res.Winner != "" {
		emit(EventGameWon, GameWonPayload{Winner: res.Winner}, nil)
	}
}
