package domain

import (
	"math/rand"
	"time"
)

// Rand is the randomness source used for dice, card draws and board
// generation. Tests supply scripted sequences; production wiring supplies a
// time-seeded generator.
type Rand interface {
	// Intn returns a uniform value in [0, n).
	Intn(n int) int
}

// NewRand returns a time-seeded production randomness source.
func NewRand() Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// RollDie rolls a single six-sided die.
func RollDie(r Rand) int {
	return r.Intn(6) + 1
}

// RollDice rolls two dice and returns their sum (2..12).
func RollDice(r Rand) int {
	return RollDie(r) + RollDie(r)
}

// shuffle permutes s in place using the provided source.
func shuffle[T any](r Rand, s []T) {
	for i := len(s) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		s[i], s[j] = s[j], s[i]
	}
}
