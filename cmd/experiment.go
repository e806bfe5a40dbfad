package cmd

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"gamesearch/experiments"
	"gamesearch/experiments/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newExperimentCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "experiment",
		Short: "Run every configured matchup and store the results",
		Long: `Runs the configured number of games per matchup, alternating which agent
starts, and writes agent configs, game and move records and a summary to
<output>/<name>/<timestamp>.`,
		Args: cobra.NoArgs,
		RunE: runExperiment,
	}
	cmd.Flags().String("name", "", "experiment name")
	cmd.Flags().Int("games", 0, "games per matchup")
	cmd.Flags().Int("parallel", 0, "games played at once")
	cmd.Flags().String("output", "", "results directory")
	cmd.Flags().String("metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9090")
	return cmd
}

func runExperiment(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	exp := cfg.Experiment()

	if cfg.MetricsAddr != "" {
		reg := prometheus.NewRegistry()
		exp.Metrics = metrics.NewPrometheusMetrics(reg)
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		srv := &http.Server{Addr: cfg.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Msg("metrics server failed")
			}
		}()
		defer srv.Close()
		log.Info().Msgf("serving metrics on %s/metrics", cfg.MetricsAddr)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	results, err := experiments.Run(ctx, exp)
	if err != nil {
		return err
	}
	dir, err := experiments.Store(cfg.Output, exp, results)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	summary := metrics.Summarize(exp.Name, exp.Agents, results.Games, results.Moves)
	for _, a := range summary.Agents {
		fmt.Fprintf(out, "agent %d (%s): %d wins, %d losses, %d draws, %.1f mean iterations\n",
			a.Agent, a.Algorithm, a.Wins, a.Losses, a.Draws, a.MeanIterations)
	}
	fmt.Fprintf(out, "results stored in %s\n", dir)
	return nil
}
