// Command simulate plays whole games between bot agents against the
// in-memory store. It is the fastest way to exercise the full rule engine
// end to end and to eyeball rule regressions from the event stream.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/rs/zerolog"

	"pioneers/internal/app"
	"pioneers/internal/bot"
	"pioneers/internal/domain"
	"pioneers/internal/ports/memory"
)

func main() {
	players := flag.Int("players", 4, "number of bot players")
	games := flag.Int("games", 1, "number of games to play")
	seed := flag.Int64("seed", time.Now().UnixNano(), "randomness seed")
	radius := flag.Int("radius", 0, "board radius (0 = default)")
	target := flag.Int("target", 0, "victory points to win (0 = default)")
	maxMoves := flag.Int("max-moves", 10000, "abort a game after this many accepted moves")
	verbose := flag.Bool("v", false, "log every event")
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().Timestamp().Logger()
	if !*verbose {
		logger = logger.Level(zerolog.InfoLevel)
	}

	rng := rand.New(rand.NewSource(*seed))
	wins := make(map[string]int)
	for i := 0; i < *games; i++ {
		winner, moves, err := runGame(logger, rng, *players, *radius, *target, *maxMoves)
		if err != nil {
			logger.Error().Err(err).Int("game", i).Msg("game failed")
			os.Exit(1)
		}
		wins[winner]++
		logger.Info().Int("game", i).Str("winner", winner).Int("moves", moves).Msg("game finished")
	}
	for id, n := range wins {
		fmt.Printf("%s\t%d\n", id, n)
	}
}

func runGame(logger zerolog.Logger, rng *rand.Rand, players, radius, target, maxMoves int) (string, int, error) {
	ctx := context.Background()
	gameID := fmt.Sprintf("sim-%d", rng.Int63())

	memberIDs := make([]string, players)
	agents := make([]*bot.Agent, players)
	for i := range memberIDs {
		memberIDs[i] = fmt.Sprintf("bot-%d", i+1)
		level := bot.BotLevelGreedy
		if i%2 == 1 {
			level = bot.BotLevelRandom
		}
		agent, err := bot.NewAgent(memberIDs[i], level, rng)
		if err != nil {
			return "", 0, err
		}
		agents[i] = agent
	}

	store := memory.NewStore()
	store.SetGame(gameID, domain.GameSettings{
		VictoryPoints: target,
		MapRadius:     radius,
	}, memberIDs)

	publisher := &memory.Publisher{Sink: func(gameID, event string, payload any, audience []string) {
		logger.Debug().Str("event", event).Interface("payload", payload).
			Strs("audience", audience).Msg("published")
	}}

	svc := app.NewService(app.Dependencies{
		Games:     store,
		Members:   store,
		Boards:    store,
		Players:   store,
		Buildings: store,
		States:    store,
		Moves:     store,
		Events:    publisher,
	}, rng)

	if err := svc.StartGame(ctx, gameID); err != nil {
		return "", 0, fmt.Errorf("start game: %w", err)
	}

	moves := 0
	for moves < maxMoves {
		view, err := loadView(ctx, store, gameID)
		if err != nil {
			return "", moves, err
		}
		if view.State.Winner != "" {
			return view.State.Winner, moves, nil
		}
		if len(view.State.ExpectedMoves) == 0 {
			return "", moves, fmt.Errorf("game stalled with an empty move queue")
		}

		res, err := playTurn(ctx, svc, agents, view, gameID)
		if err != nil {
			return "", moves, err
		}
		moves++
		if res.Winner != "" {
			return res.Winner, moves, nil
		}
	}
	return "", moves, fmt.Errorf("no winner after %d moves", maxMoves)
}

// playTurn finds the agent the queue is waiting on and submits its
// candidates until the engine accepts one.
func playTurn(ctx context.Context, svc *app.Service, agents []*bot.Agent, view bot.View, gameID string) (*domain.MoveResult, error) {
	head := view.State.ExpectedMoves[0]
	for _, agent := range agents {
		candidates := agent.Play(view)
		if len(candidates) == 0 {
			continue
		}
		var lastErr error
		for _, req := range candidates {
			res, err := svc.HandleMove(ctx, gameID, agent.ID, req)
			if err == nil {
				return res, nil
			}
			lastErr = err
		}
		return nil, fmt.Errorf("agent %s exhausted %d candidates for %s: %w",
			agent.ID, len(candidates), head.Action, lastErr)
	}
	return nil, fmt.Errorf("nobody can act on %s (players %v)", head.Action, head.Players)
}

func loadView(ctx context.Context, store *memory.Store, gameID string) (bot.View, error) {
	board, err := store.Board(ctx, gameID)
	if err != nil {
		return bot.View{}, err
	}
	players, err := store.ListPlayers(ctx, gameID)
	if err != nil {
		return bot.View{}, err
	}
	buildings, err := store.ListBuildings(ctx, gameID)
	if err != nil {
		return bot.View{}, err
	}
	state, err := store.FindState(ctx, gameID)
	if err != nil {
		return bot.View{}, err
	}
	return bot.View{Board: board, Players: players, Buildings: buildings, State: state}, nil
}
