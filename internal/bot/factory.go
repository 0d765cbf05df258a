package bot

import (
	"fmt"
	"math/rand"
)

// BotLevel selects a strategy.
type BotLevel int

const (
	BotLevelRandom BotLevel = iota
	BotLevelGreedy
)

// NewBrain creates a new AI brain based on the specified level.
func NewBrain(level BotLevel, rng *rand.Rand) (Brain, error) {
	switch level {
	case BotLevelRandom:
		return &RandomBot{Rng: rng}, nil
	case BotLevelGreedy:
		return &GreedyBot{Rng: rng}, nil
	default:
		return nil, fmt.Errorf("unknown bot level: %d", level)
	}
}

// NewAgent builds an agent with the given id and strategy level.
func NewAgent(id string, level BotLevel, rng *rand.Rand) (*Agent, error) {
	brain, err := NewBrain(level, rng)
	if err != nil {
		return nil, err
	}
	return &Agent{ID: id, Name: id, Strategy: brain}, nil
}
