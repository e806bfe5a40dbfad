package cmd

import (
	"fmt"

	"gamesearch/engine"
	"gamesearch/experiments"
	"gamesearch/experiments/metrics"
	"gamesearch/game"
	"gamesearch/searcher"

	"github.com/spf13/cobra"
)

func newPlayCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play one game between two configured agents",
		Args:  cobra.NoArgs,
		RunE:  runPlay,
	}
	cmd.Flags().Int("agent1", 1, "ID of the agent playing first")
	cmd.Flags().Int("agent2", 2, "ID of the agent playing second")
	return cmd
}

func runPlay(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	strategies := map[game.Player]searcher.Strategy{}
	for player, flag := range map[game.Player]string{game.Player1: "agent1", game.Player2: "agent2"} {
		id, err := cmd.Flags().GetInt(flag)
		if err != nil {
			return err
		}
		agent, err := cfg.Agent(id)
		if err != nil {
			return err
		}
		s, err := experiments.NewStrategy(agent, player, metrics.NewCollector())
		if err != nil {
			return err
		}
		strategies[player] = s
	}

	state, err := experiments.NewGame(cfg.Game)
	if err != nil {
		return err
	}
	result, err := engine.New(state, strategies, engine.WithMaxTurns(cfg.MaxTurns)).Run()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, m := range result.Moves {
		fmt.Fprintf(out, "%3d  %-8s %-12s %-6s %8d iterations  %s\n",
			m.Step, m.Player, m.Algorithm, m.Move, m.Iterations, m.Duration)
	}
	fmt.Fprintf(out, "winner: %s after %d moves\n", result.Winner, result.Game.TotalMoves)
	return nil
}
