package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

type GameConfig struct {
	VictoryPoints       int            `json:"victory_points"`
	MapTemplate         string         `json:"map_template"`
	MapRadius           int            `json:"map_radius"`
	StartingResources   map[string]int `json:"starting_resources"`
	RollSeven           bool           `json:"roll_seven"`
	TurnDurationSeconds int            `json:"turn_duration_seconds"`
	// MinPlayersToStart configures how many seated players the owner needs
	// before the start command is accepted.
	MinPlayersToStart int `json:"min_players_to_start"`
	MaxPlayers        int `json:"max_players"`
}

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// LoadGameConfig loads the game configuration from the given path.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read game config: %w", err)
			return
		}

		var c GameConfig
		if err := json.Unmarshal(data, &c); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal game config: %w", err)
			return
		}
		cfg = &c
	})
	return loadErr
}

// GetGameConfig returns the global game configuration.
func GetGameConfig() *GameConfig {
	return cfg
}

// GetVictoryPoints returns the configured victory target, or the standard
// target when no config was loaded.
func GetVictoryPoints() int {
	if cfg == nil || cfg.VictoryPoints <= 0 {
		return 10
	}
	return cfg.VictoryPoints
}

// GetMapRadius returns the configured board radius, or the standard radius
// when no config was loaded.
func GetMapRadius() int {
	if cfg == nil || cfg.MapRadius <= 0 {
		return 2
	}
	return cfg.MapRadius
}

// GetMaxPlayers returns the seat count for new matches.
func GetMaxPlayers() int {
	if cfg == nil || cfg.MaxPlayers <= 0 {
		return 4
	}
	return cfg.MaxPlayers
}

// GetMinPlayersToStart returns how many seated players a match needs before
// the owner may start it.
func GetMinPlayersToStart() int {
	if cfg == nil || cfg.MinPlayersToStart <= 0 {
		return 2
	}
	return cfg.MinPlayersToStart
}
