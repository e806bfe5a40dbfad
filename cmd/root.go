package cmd

import (
	"context"
	"io"
	"os"
	"time"

	"gamesearch/config"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// NewRootCommand builds the gamesearch command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "gamesearch",
		Short: "Pit adversarial search engines against each other",
		Long: `gamesearch plays two-player games between Minimax, AlphaBeta, MCTS and
MCTS-Solver agents, one game at a time or as a batch of matchups.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().String("config", "", "YAML config file")
	root.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	root.PersistentFlags().String("game", "", "game to play (tictactoe, connect4, boop)")
	root.PersistentFlags().Int("max-turns", 0, "turn cap per game")

	root.AddCommand(newPlayCommand(), newExperimentCommand())
	return root
}

func Execute() {
	if err := NewRootCommand().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the config for cmd and sets up logging from it.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return config.Config{}, err
	}
	cfg, err := config.Load(path, cmd.Flags())
	if err != nil {
		return cfg, err
	}
	setupLogging(cfg.LogLevel, cmd.ErrOrStderr())
	return cfg, nil
}

// setupLogging points the global logger at w, in human-readable form when w
// is a terminal.
func setupLogging(level string, w io.Writer) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	if f, ok := w.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen})
		return
	}
	log.Logger = zerolog.New(w).With().Timestamp().Logger()
}
