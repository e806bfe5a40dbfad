package config

import (
	"errors"
	"fmt"
	"runtime"
	"slices"
	"strings"

	"gamesearch/engine"
	"gamesearch/experiments"
	"gamesearch/experiments/metrics"
	"gamesearch/searcher"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const EnvPrefix = "GAMESEARCH"

var (
	ErrInvalidAgent  = errors.New("invalid agent")
	ErrInvalidConfig = errors.New("invalid config")
)

// Config describes an arena run: the game, the agents and who plays whom.
type Config struct {
	Name        string                `mapstructure:"name" yaml:"name"`
	Game        string                `mapstructure:"game" yaml:"game"`
	Games       int                   `mapstructure:"games" yaml:"games"` // per matchup
	Parallel    int                   `mapstructure:"parallel" yaml:"parallel"`
	MaxTurns    int                   `mapstructure:"max_turns" yaml:"max_turns"`
	Output      string                `mapstructure:"output" yaml:"output"`
	LogLevel    string                `mapstructure:"log_level" yaml:"log_level"`
	MetricsAddr string                `mapstructure:"metrics_addr" yaml:"metrics_addr"`
	Agents      []metrics.AgentConfig `mapstructure:"agents" yaml:"agents"`
	Matchups    []experiments.Matchup `mapstructure:"matchups" yaml:"matchups"`
}

// DefaultAgents pits a depth-limited alpha-beta against a modest MCTS.
var DefaultAgents = []metrics.AgentConfig{
	{ID: 1, Algorithm: experiments.AlphaBeta, DepthLimit: experiments.DefaultDepthLimit},
	{ID: 2, Algorithm: experiments.MCTS, Iterations: 1000},
}

// flagKeys maps command-line flags onto config keys.
var flagKeys = map[string]string{
	"name":         "name",
	"game":         "game",
	"games":        "games",
	"parallel":     "parallel",
	"max-turns":    "max_turns",
	"output":       "output",
	"log-level":    "log_level",
	"metrics-addr": "metrics_addr",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("name", "arena")
	v.SetDefault("game", experiments.TicTacToe)
	v.SetDefault("games", 10)
	v.SetDefault("parallel", runtime.NumCPU())
	v.SetDefault("max_turns", engine.MaxTurns)
	v.SetDefault("output", "results")
	v.SetDefault("log_level", zerolog.LevelInfoValue)
	v.SetDefault("metrics_addr", "")
}

// Load reads the optional YAML file at path, then GAMESEARCH_* environment
// variables, then any flags in flags that were set. Later sources win.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	var cfg Config

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return cfg, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			flag := flags.Lookup(name)
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return cfg, fmt.Errorf("error binding flag %s: %w", name, err)
			}
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("error unmarshalling config: %w", err)
	}
	if len(cfg.Agents) == 0 {
		cfg.Agents = slices.Clone(DefaultAgents)
	} else {
		defaultDepths(v, cfg.Agents)
	}
	if len(cfg.Matchups) == 0 && len(cfg.Agents) >= 2 {
		cfg.Matchups = []experiments.Matchup{{Agent1: cfg.Agents[0].ID, Agent2: cfg.Agents[1].ID}}
	}
	return cfg, cfg.Validate()
}

// defaultDepths gives experiments.DefaultDepthLimit to every agent whose
// config has no depth_limit key. An explicit 0 is kept.
func defaultDepths(v *viper.Viper, agents []metrics.AgentConfig) {
	raw, _ := v.Get("agents").([]any)
	for i, entry := range raw {
		fields, ok := entry.(map[string]any)
		if !ok || i >= len(agents) {
			continue
		}
		set := lo.ContainsBy(lo.Keys(fields), func(key string) bool {
			return strings.EqualFold(key, "depth_limit")
		})
		if !set {
			agents[i].DepthLimit = experiments.DefaultDepthLimit
		}
	}
}

// Validate reports every problem in c at once.
func (c Config) Validate() error {
	var errs []error
	if _, err := experiments.NewGame(c.Game); err != nil {
		errs = append(errs, fmt.Errorf("%w: %w", ErrInvalidConfig, err))
	}
	if c.Games < 1 {
		errs = append(errs, fmt.Errorf("%w: games must be positive, got %d", ErrInvalidConfig, c.Games))
	}
	if c.Parallel < 1 {
		errs = append(errs, fmt.Errorf("%w: parallel must be positive, got %d", ErrInvalidConfig, c.Parallel))
	}
	if c.MaxTurns < 0 {
		errs = append(errs, fmt.Errorf("%w: max_turns cannot be negative", ErrInvalidConfig))
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("%w: %w", ErrInvalidConfig, err))
	}

	ids := map[int]bool{}
	for _, a := range c.Agents {
		if ids[a.ID] {
			errs = append(errs, fmt.Errorf("%w %d: duplicate id", ErrInvalidAgent, a.ID))
		}
		ids[a.ID] = true
		errs = append(errs, validateAgent(a)...)
	}

	for _, m := range c.Matchups {
		if !ids[m.Agent1] || !ids[m.Agent2] {
			errs = append(errs, fmt.Errorf("%w: matchup %d vs %d: %w", ErrInvalidConfig, m.Agent1, m.Agent2, experiments.ErrUnknownAgent))
		}
	}
	return errors.Join(errs...)
}

func validateAgent(a metrics.AgentConfig) []error {
	var errs []error
	if !slices.Contains(experiments.Algorithms, a.Algorithm) {
		errs = append(errs, fmt.Errorf("%w %d: %w %q", ErrInvalidAgent, a.ID, experiments.ErrUnknownAlgorithm, a.Algorithm))
	}
	if a.DepthLimit < searcher.NoDepthLimit {
		errs = append(errs, fmt.Errorf("%w %d: depth_limit must be %d (no limit) or more, got %d",
			ErrInvalidAgent, a.ID, searcher.NoDepthLimit, a.DepthLimit))
	}
	if a.TimeLimit < 0 || a.Iterations < 0 || a.Exploration < 0 {
		errs = append(errs, fmt.Errorf("%w %d: time_limit, iterations and exploration cannot be negative", ErrInvalidAgent, a.ID))
	}
	if (a.Algorithm == experiments.MCTS || a.Algorithm == experiments.MCTSSolver) && a.TimeLimit <= 0 && a.Iterations <= 0 {
		errs = append(errs, fmt.Errorf("%w %d: %w", ErrInvalidAgent, a.ID, experiments.ErrNoBudget))
	}
	return errs
}

// Experiment turns c into a runnable experiment.
func (c Config) Experiment() experiments.Experiment {
	return experiments.Experiment{
		Name:     c.Name,
		Game:     c.Game,
		Games:    c.Games,
		Parallel: c.Parallel,
		MaxTurns: c.MaxTurns,
		Agents:   c.Agents,
		Matchups: c.Matchups,
	}
}

// Agent returns the agent config with the given ID.
func (c Config) Agent(id int) (metrics.AgentConfig, error) {
	i := slices.IndexFunc(c.Agents, func(a metrics.AgentConfig) bool { return a.ID == id })
	if i < 0 {
		return metrics.AgentConfig{}, fmt.Errorf("agent %d: %w", id, experiments.ErrUnknownAgent)
	}
	return c.Agents[i], nil
}
