package nakama

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/heroiclabs/nakama-common/runtime"

	"pioneers/internal/domain"
)

// StorageStore persists the per-game records in Nakama's storage engine.
// Every record is written conditionally against the version read earlier in
// the same move; a version mismatch surfaces as domain.ErrConflict so the
// caller can retry the whole move. The adapter is owned by a single match
// goroutine and is not safe for concurrent use.
type StorageStore struct {
	nk runtime.NakamaModule

	// versions maps collection/key to the storage version observed on the
	// last read, consumed by the next conditional write.
	versions map[string]string
}

func NewStorageStore(nk runtime.NakamaModule) *StorageStore {
	return &StorageStore{nk: nk, versions: make(map[string]string)}
}

type roster struct {
	PlayerIDs []string `json:"playerIds"`
}

func versionKey(collection, key string) string {
	return collection + "/" + key
}

func playerKey(gameID, playerID string) string {
	return gameID + ":" + playerID
}

// read fetches one record, remembers its version and decodes it into out.
func (s *StorageStore) read(ctx context.Context, collection, key string, out any) error {
	objects, err := s.nk.StorageRead(ctx, []*runtime.StorageRead{{
		Collection: collection,
		Key:        key,
	}})
	if err != nil {
		return fmt.Errorf("storage read %s/%s: %w", collection, key, err)
	}
	if len(objects) == 0 {
		return domain.NotFoundf("no record %s/%s", collection, key)
	}
	s.versions[versionKey(collection, key)] = objects[0].Version
	if err := json.Unmarshal([]byte(objects[0].Value), out); err != nil {
		return fmt.Errorf("decode %s/%s: %w", collection, key, err)
	}
	return nil
}

// write performs a conditional write. An empty remembered version means the
// record must not exist yet ("*"); otherwise the write only succeeds when
// the stored version still matches the one read.
func (s *StorageStore) write(ctx context.Context, collection, key string, v any, create bool) error {
	value, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", collection, key, err)
	}
	version := s.versions[versionKey(collection, key)]
	if create {
		version = "*"
	}
	acks, err := s.nk.StorageWrite(ctx, []*runtime.StorageWrite{{
		Collection: collection,
		Key:        key,
		Value:      string(value),
		Version:    version,
	}})
	if err != nil {
		if isVersionConflict(err) {
			return domain.Conflictf("record %s/%s changed underneath us", collection, key)
		}
		return fmt.Errorf("storage write %s/%s: %w", collection, key, err)
	}
	if len(acks) == 1 {
		s.versions[versionKey(collection, key)] = acks[0].Version
	}
	return nil
}

func (s *StorageStore) delete(ctx context.Context, collection, key string) error {
	err := s.nk.StorageDelete(ctx, []*runtime.StorageDelete{{
		Collection: collection,
		Key:        key,
	}})
	if err != nil {
		return fmt.Errorf("storage delete %s/%s: %w", collection, key, err)
	}
	delete(s.versions, versionKey(collection, key))
	return nil
}

// isVersionConflict matches the storage engine's rejection of a stale or
// duplicate version; nakama-common exposes it only as an error string.
func isVersionConflict(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "version check failed") ||
		strings.Contains(msg, "version conflict")
}

// Board implements ports.BoardRepository.
func (s *StorageStore) Board(ctx context.Context, gameID string) (*domain.Board, error) {
	var board domain.Board
	if err := s.read(ctx, CollectionBoards, gameID, &board); err != nil {
		return nil, err
	}
	return &board, nil
}

// SaveBoard implements ports.BoardRepository. The board is written once at
// game start and never updated.
func (s *StorageStore) SaveBoard(ctx context.Context, gameID string, board *domain.Board) error {
	return s.write(ctx, CollectionBoards, gameID, board, true)
}

// FindPlayer implements ports.PlayerStore.
func (s *StorageStore) FindPlayer(ctx context.Context, gameID, playerID string) (*domain.Player, error) {
	var player domain.Player
	if err := s.read(ctx, CollectionPlayers, playerKey(gameID, playerID), &player); err != nil {
		return nil, err
	}
	return &player, nil
}

// ListPlayers implements ports.PlayerStore, preserving join order via the
// roster record.
func (s *StorageStore) ListPlayers(ctx context.Context, gameID string) ([]*domain.Player, error) {
	var r roster
	if err := s.read(ctx, CollectionRosters, gameID, &r); err != nil {
		return nil, err
	}
	players := make([]*domain.Player, 0, len(r.PlayerIDs))
	for _, id := range r.PlayerIDs {
		p, err := s.FindPlayer(ctx, gameID, id)
		if err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	return players, nil
}

// CreatePlayer implements ports.PlayerStore and appends the player to the
// game roster.
func (s *StorageStore) CreatePlayer(ctx context.Context, gameID string, player *domain.Player) error {
	if err := s.write(ctx, CollectionPlayers, playerKey(gameID, player.ID), player, true); err != nil {
		return err
	}
	var r roster
	create := false
	if err := s.read(ctx, CollectionRosters, gameID, &r); err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		create = true
	}
	r.PlayerIDs = append(r.PlayerIDs, player.ID)
	return s.write(ctx, CollectionRosters, gameID, &r, create)
}

// UpdatePlayer implements ports.PlayerStore's conditional write.
func (s *StorageStore) UpdatePlayer(ctx context.Context, gameID string, player *domain.Player) error {
	return s.write(ctx, CollectionPlayers, playerKey(gameID, player.ID), player, false)
}

// DeletePlayer implements ports.PlayerStore.
func (s *StorageStore) DeletePlayer(ctx context.Context, gameID, playerID string) error {
	var r roster
	if err := s.read(ctx, CollectionRosters, gameID, &r); err != nil {
		return err
	}
	kept := r.PlayerIDs[:0]
	for _, id := range r.PlayerIDs {
		if id != playerID {
			kept = append(kept, id)
		}
	}
	r.PlayerIDs = kept
	if err := s.write(ctx, CollectionRosters, gameID, &r, false); err != nil {
		return err
	}
	return s.delete(ctx, CollectionPlayers, playerKey(gameID, playerID))
}

// buildingLedger keeps all of a game's buildings in one record. Buildings
// change at most one per move, so a single conditional write covers them.
type buildingLedger struct {
	Buildings []*domain.Building `json:"buildings"`
}

// ListBuildings implements ports.BuildingStore.
func (s *StorageStore) ListBuildings(ctx context.Context, gameID string) ([]*domain.Building, error) {
	var ledger buildingLedger
	if err := s.read(ctx, CollectionBuildings, gameID, &ledger); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return ledger.Buildings, nil
}

// SaveBuilding implements ports.BuildingStore: insert or update by id.
func (s *StorageStore) SaveBuilding(ctx context.Context, gameID string, building *domain.Building) error {
	var ledger buildingLedger
	create := false
	if err := s.read(ctx, CollectionBuildings, gameID, &ledger); err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		create = true
	}
	replaced := false
	for i, b := range ledger.Buildings {
		if b.ID == building.ID {
			ledger.Buildings[i] = building
			replaced = true
			break
		}
	}
	if !replaced {
		ledger.Buildings = append(ledger.Buildings, building)
	}
	return s.write(ctx, CollectionBuildings, gameID, &ledger, create)
}

// DeleteBuildings implements ports.BuildingStore.
func (s *StorageStore) DeleteBuildings(ctx context.Context, gameID string) error {
	return s.delete(ctx, CollectionBuildings, gameID)
}

// FindState implements ports.GameStateStore.
func (s *StorageStore) FindState(ctx context.Context, gameID string) (*domain.GameState, error) {
	var state domain.GameState
	if err := s.read(ctx, CollectionStates, gameID, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// CreateState implements ports.GameStateStore.
func (s *StorageStore) CreateState(ctx context.Context, gameID string, state *domain.GameState) error {
	return s.write(ctx, CollectionStates, gameID, state, true)
}

// UpdateState implements ports.GameStateStore's conditional write.
func (s *StorageStore) UpdateState(ctx context.Context, gameID string, state *domain.GameState) error {
	return s.write(ctx, CollectionStates, gameID, state, false)
}

// DeleteState implements ports.GameStateStore.
func (s *StorageStore) DeleteState(ctx context.Context, gameID string) error {
	return s.delete(ctx, CollectionStates, gameID)
}

type moveLog struct {
	Moves []*domain.Move `json:"moves"`
}

// AppendMove implements ports.MoveLog.
func (s *StorageStore) AppendMove(ctx context.Context, move *domain.Move) error {
	var log moveLog
	create := false
	if err := s.read(ctx, CollectionMoves, move.GameID, &log); err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		create = true
	}
	log.Moves = append(log.Moves, move)
	return s.write(ctx, CollectionMoves, move.GameID, &log, create)
}

// ListMoves implements ports.MoveLog in append order.
func (s *StorageStore) ListMoves(ctx context.Context, gameID string) ([]*domain.Move, error) {
	var log moveLog
	if err := s.read(ctx, CollectionMoves, gameID, &log); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return log.Moves, nil
}
