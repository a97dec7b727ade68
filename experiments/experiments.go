package experiments

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"penguins/config"
	"penguins/engine"
	"penguins/experiments/metrics"
	"penguins/game"
	"penguins/searcher/agent"
)

var ErrHumanSeat = errors.New("experiments need an agent in every seat")

// RunTournament plays the configured number of games between the configured
// seats. Seat order rotates every game so that each agent gets to start.
// It returns the directory holding the records.
func RunTournament(cfg *config.Config) (string, error) {
	configs := make([]metrics.AgentConfig, len(cfg.Seats))
	for i, seat := range cfg.Seats {
		if seat.Kind == agent.Human {
			return "", fmt.Errorf("%w: seat %d", ErrHumanSeat, i)
		}
		opts := cfg.AgentOptions(i)
		configs[i] = metrics.AgentConfig{
			ID:         i,
			Kind:       seat.Kind,
			Greed:      opts.Greed,
			Goroutines: opts.Goroutines,
			Episodes:   opts.Episodes,
			Cutoff:     opts.Cutoff,
			Budget:     cfg.Budget(),
		}
	}

	matchUps := [][]metrics.AgentConfig{}
	for g := 0; g < cfg.Experiment.Games; g++ {
		matchUp := make([]metrics.AgentConfig, len(configs))
		for i := range configs {
			matchUp[i] = configs[(i+g)%len(configs)]
		}
		matchUps = append(matchUps, matchUp)
	}

	return runExperiment("tournament", cfg, configs, matchUps)
}

// RunThroughput pits tree search agents using each goroutine count against
// themselves, recording how many episodes they fit in the budget.
func RunThroughput(cfg *config.Config, goroutines []int) (string, error) {
	configs := make([]metrics.AgentConfig, len(goroutines))
	for i, g := range goroutines {
		configs[i] = metrics.AgentConfig{
			ID:         i,
			Kind:       "mcts",
			Goroutines: g,
			Episodes:   cfg.MCTS.Episodes,
			Cutoff:     cfg.MCTS.Cutoff,
			Budget:     cfg.Budget(),
		}
	}

	// Same config for both players in each game
	// for the same playing strength and similar game length
	matchUps := [][]metrics.AgentConfig{}
	for _, c := range configs {
		for g := 0; g < cfg.Experiment.Games; g++ {
			matchUps = append(matchUps, []metrics.AgentConfig{c, c})
		}
	}

	return runExperiment("throughput", cfg, configs, matchUps)
}

func runExperiment(name string, cfg *config.Config, configs []metrics.AgentConfig, matchUps [][]metrics.AgentConfig) (string, error) {
	rng := game.NewRand(cfg.Seed)
	gameRecords := []metrics.GameRecord{}
	moveRecords := []metrics.MoveRecord{}

	log.Info().Str("experiment", name).Int("games", len(matchUps)).Msg("starting experiment")

	for gi, matchUp := range matchUps {
		id := gi + 1
		gameMetric, moveMetrics, err := runGame(cfg, matchUp, rng)
		if err != nil {
			return "", fmt.Errorf("game %d: %w", id, err)
		}

		seats := make([]int, len(matchUp))
		for i, c := range matchUp {
			seats[i] = c.ID
		}
		gameRecords = append(gameRecords, metrics.GameRecord{
			ID:         id,
			Seats:      seats,
			GameMetric: gameMetric,
		})
		for _, mm := range moveMetrics {
			moveRecords = append(moveRecords, metrics.MoveRecord{
				Game:       id,
				MoveMetric: mm,
			})
		}

		log.Info().Int("game", id).Int("of", len(matchUps)).Ints("seats", seats).
			Ints("scores", gameMetric.FinalScores).Ints("winners", gameMetric.Winners).Msg("completed game")
	}

	log.Info().Str("experiment", name).Msg("completed experiment")

	writer, err := metrics.NewWriter(cfg.Experiment.OutputDir, name)
	if err != nil {
		return "", fmt.Errorf("failed to create experiment writer: %w", err)
	}
	if err = writer.WriteAgentConfigs(configs); err != nil {
		return "", fmt.Errorf("failed to store agent configs: %w", err)
	}
	if err = writer.WriteGameRecords(gameRecords); err != nil {
		return "", fmt.Errorf("failed to write game records: %w", err)
	}
	if err = writer.WriteMoveRecords(moveRecords); err != nil {
		return "", fmt.Errorf("failed to write move records: %w", err)
	}
	log.Info().Str("dir", writer.Dir()).Msg("stored experiment records")

	return writer.Dir(), nil
}

// runGame plays a single game with one agent per seat config
func runGame(cfg *config.Config, seatConfigs []metrics.AgentConfig, rng *rand.Rand) (metrics.GameMetric, []metrics.MoveMetric, error) {
	seats := make([]agent.Agent, len(seatConfigs))
	for i, c := range seatConfigs {
		a, err := createAgent(c, cfg.MCTS.Temperature, rand.New(rand.NewSource(rng.Uint64())))
		if err != nil {
			return metrics.GameMetric{}, nil, err
		}
		seats[i] = a
	}

	state, err := game.NewState(len(seats), cfg.Board.Cols, cfg.Board.Rows, rng)
	if err != nil {
		return metrics.GameMetric{}, nil, err
	}

	m, err := engine.NewMatch(state, seats,
		engine.WithBudget(cfg.Budget()),
		engine.WithTimeLimit(!cfg.DisableTimeLimit),
		engine.WithRand(rng),
	)
	if err != nil {
		return metrics.GameMetric{}, nil, err
	}
	return m.Run()
}

func createAgent(c metrics.AgentConfig, temperature float64, rng *rand.Rand) (agent.Agent, error) {
	return agent.New(c.Kind, agent.Options{
		Greed:       c.Greed,
		Goroutines:  c.Goroutines,
		Episodes:    c.Episodes,
		Cutoff:      c.Cutoff,
		Temperature: temperature,
		Rand:        rng,
	})
}
