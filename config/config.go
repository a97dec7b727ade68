package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"penguins/game"
	"penguins/hex"
	"penguins/searcher/agent"
)

const cfgFile = "penguins/config.yaml"

var ErrInvalid = errors.New("invalid config")

// Config holds the match and experiment settings
type Config struct {
	Board            BoardConfig      `yaml:"board"`
	Seats            []SeatConfig     `yaml:"seats"`
	BudgetMS         int              `yaml:"budget_ms"`
	DisableTimeLimit bool             `yaml:"disable_time_limit"`
	Seed             uint64           `yaml:"seed"` // 0 picks a time-based seed
	MCTS             MCTSConfig       `yaml:"mcts"`
	Experiment       ExperimentConfig `yaml:"experiment"`
}

type BoardConfig struct {
	Cols int `yaml:"cols"`
	Rows int `yaml:"rows"`
}

// SeatConfig selects the agent of one player. Greed only applies to greedy seats.
type SeatConfig struct {
	Kind  string   `yaml:"kind"`
	Greed *float64 `yaml:"greed"`
}

type MCTSConfig struct {
	Goroutines  int     `yaml:"goroutines"`
	Cutoff      int     `yaml:"cutoff"`   // 0 plays rollouts to the end
	Episodes    int     `yaml:"episodes"` // 0 searches for the whole budget
	Temperature float64 `yaml:"temperature"`
}

type ExperimentConfig struct {
	Games     int    `yaml:"games"`
	OutputDir string `yaml:"output_dir"`
}

// Default returns the configuration of a two player match on the standard board.
func Default() *Config {
	return &Config{
		Board:      BoardConfig{Cols: 7, Rows: 17},
		Seats:      []SeatConfig{{Kind: "network"}, {Kind: "greedy"}},
		BudgetMS:   5000,
		MCTS:       MCTSConfig{Goroutines: 1},
		Experiment: ExperimentConfig{Games: 10, OutputDir: "experiments"},
	}
}

// Find loads the config file from the XDG config directories, falling back to
// the defaults when there is none.
func Find() (*Config, error) {
	path, err := xdg.SearchConfigFile(cfgFile)
	if err != nil {
		cfg := Default()
		cfg.setDefaults()
		return cfg, nil
	}
	return Load(path)
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) setDefaults() {
	if c.Board.Cols == 0 {
		c.Board.Cols = 7
	}
	if c.Board.Rows == 0 {
		c.Board.Rows = 17
	}
	if c.BudgetMS == 0 {
		c.BudgetMS = 5000
	}
	if c.MCTS.Goroutines == 0 {
		c.MCTS.Goroutines = 1
	}
	if c.Experiment.Games == 0 {
		c.Experiment.Games = 10
	}
	if c.Experiment.OutputDir == "" {
		c.Experiment.OutputDir = "experiments"
	}
	for i := range c.Seats {
		if c.Seats[i].Kind == "greedy" && c.Seats[i].Greed == nil {
			greed := agent.DefaultGreed
			c.Seats[i].Greed = &greed
		}
	}
}

func (c *Config) Validate() error {
	pieces, err := game.PiecesPerPlayer(len(c.Seats))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if c.Board.Cols < 0 || c.Board.Rows < 0 {
		return fmt.Errorf("%w: board size %dx%d", ErrInvalid, c.Board.Cols, c.Board.Rows)
	}
	if cells := hex.RegionSize(c.Board.Cols, c.Board.Rows); cells < len(c.Seats)*pieces {
		return fmt.Errorf("%w: %d cells cannot hold %d pieces", ErrInvalid, cells, len(c.Seats)*pieces)
	}
	for i, seat := range c.Seats {
		if !agent.Known(seat.Kind) {
			return fmt.Errorf("%w: seat %d: %w: %q", ErrInvalid, i, agent.ErrUnknownKind, seat.Kind)
		}
		if seat.Greed != nil && (*seat.Greed < 0 || *seat.Greed > 1) {
			return fmt.Errorf("%w: seat %d: greed %v outside [0, 1]", ErrInvalid, i, *seat.Greed)
		}
	}
	if c.BudgetMS < 0 {
		return fmt.Errorf("%w: budget_ms %d", ErrInvalid, c.BudgetMS)
	}
	if c.MCTS.Goroutines < 0 || c.MCTS.Cutoff < 0 || c.MCTS.Episodes < 0 || c.MCTS.Temperature < 0 {
		return fmt.Errorf("%w: mcts %+v", ErrInvalid, c.MCTS)
	}
	if c.Experiment.Games < 0 {
		return fmt.Errorf("%w: experiment games %d", ErrInvalid, c.Experiment.Games)
	}
	return nil
}

func (c *Config) Budget() time.Duration {
	return time.Duration(c.BudgetMS) * time.Millisecond
}

// AgentOptions returns the options to build the agent of seat i.
func (c *Config) AgentOptions(i int) agent.Options {
	opts := agent.Options{
		Goroutines:  c.MCTS.Goroutines,
		Episodes:    c.MCTS.Episodes,
		Cutoff:      c.MCTS.Cutoff,
		Temperature: c.MCTS.Temperature,
	}
	if greed := c.Seats[i].Greed; greed != nil {
		opts.Greed = *greed
	}
	return opts
}
