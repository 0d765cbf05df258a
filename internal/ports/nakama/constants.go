package nakama

const (
	// RpcQuickMatch is the Nakama RPC id clients call to find or create a lobby-capable match.
	RpcQuickMatch = "quick_match"

	// MatchNamePioneers is the authoritative match handler name registered with Nakama.
	MatchNamePioneers = "pioneers_match"

	// MatchLabelKey_OpenSeats is the label key match listing queries filter on.
	MatchLabelKey_OpenSeats = "open"
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpStartGame int64 = 1
	OpMove      int64 = 2

	// Server -> Client events
	OpPlayerJoined int64 = 101
	OpPlayerLeft   int64 = 102
	OpGameEvent    int64 = 103
	OpMoveResult   int64 = 104
	OpGameError    int64 = 105
	OpMatchState   int64 = 106
)

// Storage collections for the per-game records.
const (
	CollectionBoards    = "game_boards"
	CollectionRosters   = "game_rosters"
	CollectionPlayers   = "game_players"
	CollectionBuildings = "game_buildings"
	CollectionStates    = "game_states"
	CollectionMoves     = "game_moves"
)
