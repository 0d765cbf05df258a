package bot

import (
	"math/rand"

	"pioneers/internal/domain"
)

// RandomBot plays a uniformly random candidate. It is the baseline opponent
// and the workhorse of long self-play runs.
type RandomBot struct {
	Rng *rand.Rand
}

func (b *RandomBot) CalculateMoves(view View) []domain.MoveRequest {
	reqs := CandidateMoves(view)
	if b.Rng != nil {
		b.Rng.Shuffle(len(reqs), func(i, j int) {
			reqs[i], reqs[j] = reqs[j], reqs[i]
		})
	}
	return reqs
}

// GreedyBot keeps the generator's value ordering, so it always grabs the
// best structure it can afford, and randomizes only among placements of
// equal kind.
type GreedyBot struct {
	Rng *rand.Rand
}

func (b *GreedyBot) CalculateMoves(view View) []domain.MoveRequest {
	reqs := CandidateMoves(view)
	if b.Rng == nil {
		return reqs
	}
	// Shuffle within runs of the same action+building kind.
	start := 0
	for i := 1; i <= len(reqs); i++ {
		if i < len(reqs) && sameKind(reqs[start], reqs[i]) {
			continue
		}
		run := reqs[start:i]
		b.Rng.Shuffle(len(run), func(a, c int) {
			run[a], run[c] = run[c], run[a]
		})
		start = i
	}
	return reqs
}

func sameKind(a, b domain.MoveRequest) bool {
	if a.Action != b.Action {
		return false
	}
	if (a.Building == nil) != (b.Building == nil) {
		return false
	}
	if a.Building != nil && a.Building.Type != b.Building.Type {
		return false
	}
	return true
}
