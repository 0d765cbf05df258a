// Package memory provides in-process implementations of the collaborator
// ports, used by tests and the local simulation runner. Records carry
// version counters so the conditional-update contract behaves like the
// production storage adapter: writing over a record that changed since it
// was last read fails with domain.ErrConflict.
package memory

import (
	"context"
	"encoding/json"
	"sync"

	"pioneers/internal/domain"
)

type record struct {
	data    []byte
	version uint64
}

// Store implements every persistence port plus the game repository and
// membership provider over process memory.
type Store struct {
	mu       sync.Mutex
	settings map[string]domain.GameSettings
	members  map[string][]string
	boards   map[string][]byte
	records  map[string]*record // players, states
	seen     map[string]uint64  // version observed at last read
	ledgers  map[string][]*domain.Building
	moves    map[string][]*domain.Move
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		settings: make(map[string]domain.GameSettings),
		members:  make(map[string][]string),
		boards:   make(map[string][]byte),
		records:  make(map[string]*record),
		seen:     make(map[string]uint64),
		ledgers:  make(map[string][]*domain.Building),
		moves:    make(map[string][]*domain.Move),
	}
}

// SetGame registers a game's settings and member list.
func (s *Store) SetGame(gameID string, settings domain.GameSettings, memberIDs []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings[gameID] = settings
	s.members[gameID] = append([]string(nil), memberIDs...)
}

// Settings implements ports.GameRepository.
func (s *Store) Settings(ctx context.Context, gameID string) (domain.GameSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	settings, ok := s.settings[gameID]
	if !ok {
		return domain.GameSettings{}, domain.NotFoundf("game %s", gameID)
	}
	return settings, nil
}

// ActivePlayers implements ports.MembershipProvider.
func (s *Store) ActivePlayers(ctx context.Context, gameID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	members, ok := s.members[gameID]
	if !ok {
		return nil, domain.NotFoundf("game %s", gameID)
	}
	return append([]string(nil), members...), nil
}

// Board implements ports.BoardRepository.
func (s *Store) Board(ctx context.Context, gameID string) (*domain.Board, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.boards[gameID]
	if !ok {
		return nil, domain.NotFoundf("board for game %s", gameID)
	}
	var board domain.Board
	if err := json.Unmarshal(data, &board); err != nil {
		return nil, err
	}
	return &board, nil
}

// SaveBoard implements ports.BoardRepository.
func (s *Store) SaveBoard(ctx context.Context, gameID string, board *domain.Board) error {
	data, err := json.Marshal(board)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.boards[gameID] = data
	return nil
}

func playerKey(gameID, playerID string) string { return "player/" + gameID + "/" + playerID }
func stateKey(gameID string) string            { return "state/" + gameID }

func (s *Store) readRecord(key string, out any) error {
	rec, ok := s.records[key]
	if !ok {
		return domain.NotFoundf("record %s", key)
	}
	if err := json.Unmarshal(rec.data, out); err != nil {
		return err
	}
	s.seen[key] = rec.version
	return nil
}

func (s *Store) createRecord(key string, v any) error {
	if _, ok := s.records[key]; ok {
		return domain.Conflictf("record %s already exists", key)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	s.records[key] = &record{data: data, version: 1}
	s.seen[key] = 1
	return nil
}

// updateRecord is the conditional write: it fails when the stored version
// moved past the version last read through this store.
func (s *Store) updateRecord(key string, v any) error {
	rec, ok := s.records[key]
	if !ok {
		return domain.NotFoundf("record %s", key)
	}
	if rec.version != s.seen[key] {
		return domain.Conflictf("record %s changed since it was read", key)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	rec.data = data
	rec.version++
	s.seen[key] = rec.version
	return nil
}

// FindPlayer implements ports.PlayerStore.
func (s *Store) FindPlayer(ctx context.Context, gameID, playerID string) (*domain.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var p domain.Player
	if err := s.readRecord(playerKey(gameID, playerID), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListPlayers implements ports.PlayerStore, preserving join order.
func (s *Store) ListPlayers(ctx context.Context, gameID string) ([]*domain.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	members := s.members[gameID]
	players := make([]*domain.Player, 0, len(members))
	for _, id := range members {
		var p domain.Player
		if err := s.readRecord(playerKey(gameID, id), &p); err != nil {
			continue
		}
		players = append(players, &p)
	}
	return players, nil
}

// CreatePlayer implements ports.PlayerStore.
func (s *Store) CreatePlayer(ctx context.Context, gameID string, player *domain.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createRecord(playerKey(gameID, player.ID), player)
}

// UpdatePlayer implements ports.PlayerStore's conditional write.
func (s *Store) UpdatePlayer(ctx context.Context, gameID string, player *domain.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateRecord(playerKey(gameID, player.ID), player)
}

// DeletePlayer implements ports.PlayerStore.
func (s *Store) DeletePlayer(ctx context.Context, gameID, playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, playerKey(gameID, playerID))
	return nil
}

// ListBuildings implements ports.BuildingStore.
func (s *Store) ListBuildings(ctx context.Context, gameID string) ([]*domain.Building, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ledger := s.ledgers[gameID]
	out := make([]*domain.Building, len(ledger))
	for i, b := range ledger {
		clone := *b
		out[i] = &clone
	}
	return out, nil
}

// SaveBuilding implements ports.BuildingStore: insert or update by id.
func (s *Store) SaveBuilding(ctx context.Context, gameID string, building *domain.Building) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *building
	for i, b := range s.ledgers[gameID] {
		if b.ID == building.ID {
			s.ledgers[gameID][i] = &clone
			return nil
		}
	}
	s.ledgers[gameID] = append(s.ledgers[gameID], &clone)
	return nil
}

// DeleteBuildings implements ports.BuildingStore.
func (s *Store) DeleteBuildings(ctx context.Context, gameID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.ledgers, gameID)
	return nil
}

// FindState implements ports.GameStateStore.
func (s *Store) FindState(ctx context.Context, gameID string) (*domain.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var st domain.GameState
	if err := s.readRecord(stateKey(gameID), &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// CreateState implements ports.GameStateStore.
func (s *Store) CreateState(ctx context.Context, gameID string, state *domain.GameState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createRecord(stateKey(gameID), state)
}

// UpdateState implements ports.GameStateStore's conditional write.
func (s *Store) UpdateState(ctx context.Context, gameID string, state *domain.GameState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateRecord(stateKey(gameID), state)
}

// DeleteState implements ports.GameStateStore.
func (s *Store) DeleteState(ctx context.Context, gameID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, stateKey(gameID))
	return nil
}

// AppendMove implements ports.MoveLog.
func (s *Store) AppendMove(ctx context.Context, move *domain.Move) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *move
	s.moves[move.GameID] = append(s.moves[move.GameID], &clone)
	return nil
}

// ListMoves implements ports.MoveLog.
func (s *Store) ListMoves(ctx context.Context, gameID string) ([]*domain.Move, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*domain.Move(nil), s.moves[gameID]...), nil
}

// Publisher implements ports.EventPublisher by recording events and
// optionally forwarding them to a sink.
type Publisher struct {
	mu     sync.Mutex
	Sink   func(gameID, event string, payload any, audience []string)
	events []PublishedEvent
}

// PublishedEvent is one recorded Publish call.
type PublishedEvent struct {
	GameID   string
	Event    string
	Payload  any
	Audience []string
}

// Publish implements ports.EventPublisher.
func (p *Publisher) Publish(ctx context.Context, gameID, event string, payload any, audience []string) {
	p.mu.Lock()
	p.events = append(p.events, PublishedEvent{GameID: gameID, Event: event, Payload: payload, Audience: audience})
	p.mu.Unlock()
	if p.Sink != nil {
		p.Sink(gameID, event, payload, audience)
	}
}

// Events returns a snapshot of everything published so far.
func (p *Publisher) Events() []PublishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]PublishedEvent(nil), p.events...)
}
