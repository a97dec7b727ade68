package main

import (
	"flag"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"penguins/config"
	"penguins/engine"
	"penguins/experiments"
	"penguins/game"
	"penguins/logger"
	"penguins/searcher/agent"
)

func main() {
	cfgPath := flag.String("config", "", "Path to a YAML config file (defaults to $XDG_CONFIG_HOME/penguins/config.yaml)")
	experiment := flag.String("experiment", "", "Run an experiment instead of a single match: tournament or throughput")
	goroutines := flag.String("goroutines", "1,2,4,8", "Goroutine counts compared by the throughput experiment")
	flag.Parse()

	logger.Init()

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	switch *experiment {
	case "":
		playMatch(cfg)
	case "tournament":
		if _, err := experiments.RunTournament(cfg); err != nil {
			log.Fatal().Err(err).Msg("tournament failed")
		}
	case "throughput":
		counts, err := parseCounts(*goroutines)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid goroutine counts")
		}
		if _, err := experiments.RunThroughput(cfg, counts); err != nil {
			log.Fatal().Err(err).Msg("throughput experiment failed")
		}
	default:
		log.Fatal().Str("experiment", *experiment).Msg("unknown experiment")
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Find()
	}
	return config.Load(path)
}

func playMatch(cfg *config.Config) {
	rng := game.NewRand(cfg.Seed)

	seats := make([]agent.Agent, len(cfg.Seats))
	for i, seat := range cfg.Seats {
		opts := cfg.AgentOptions(i)
		opts.Rand = rand.New(rand.NewSource(rng.Uint64()))
		a, err := agent.New(seat.Kind, opts)
		if err != nil {
			log.Fatal().Err(err).Int("seat", i).Msg("failed to create agent")
		}
		if a == nil {
			log.Fatal().Int("seat", i).Msg("human seats need an input layer; use an agent kind")
		}
		seats[i] = a
	}

	state, err := game.NewState(len(seats), cfg.Board.Cols, cfg.Board.Rows, rng)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create board")
	}

	m, err := engine.NewMatch(state, seats,
		engine.WithBudget(cfg.Budget()),
		engine.WithTimeLimit(!cfg.DisableTimeLimit),
		engine.WithRand(rng),
		engine.WithObserver(func(u engine.Update) {
			log.Info().Int("step", u.Step).Str("agent", seats[u.Player].Name()).Int("player", u.Player).
				Stringer("move", u.Move).Bool("substituted", u.Substituted).Ints("scores", u.State.Scores()).Msg("move")
		}),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to start match")
	}

	gameMetric, _, err := m.Run()
	if err != nil {
		log.Fatal().Err(err).Msg("match failed")
	}
	log.Info().Ints("scores", gameMetric.FinalScores).Ints("winners", gameMetric.Winners).
		Int("moves", gameMetric.TotalMoves).Dur("duration", gameMetric.Duration).Msg("game over")
}

func parseCounts(list string) ([]int, error) {
	var counts []int
	for _, field := range strings.Split(list, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil {
			return nil, err
		}
		counts = append(counts, n)
	}
	return counts, nil
}
