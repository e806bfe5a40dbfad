package cmd

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"gamesearch/experiments"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.TraceLevel) })

	var out bytes.Buffer
	root := NewRootCommand()
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(append(args, "--log-level", "error"))
	err := root.Execute()
	return out.String(), err
}

func TestPlay(t *testing.T) {
	t.Run("default agents", func(t *testing.T) {
		out, err := execute(t, "play")

		require.NoError(t, err)
		require.Contains(t, out, "AlphaBeta")
		require.Contains(t, out, "winner:")
	})

	t.Run("unknown agent", func(t *testing.T) {
		_, err := execute(t, "play", "--agent2", "9")
		require.ErrorIs(t, err, experiments.ErrUnknownAgent)
	})

	t.Run("unknown game", func(t *testing.T) {
		_, err := execute(t, "play", "--game", "chess")
		require.ErrorIs(t, err, experiments.ErrUnknownGame)
	})
}

func TestExperiment(t *testing.T) {
	dir := t.TempDir()

	out, err := execute(t, "experiment", "--name", "cli", "--games", "2", "--parallel", "2", "--output", dir)

	require.NoError(t, err)
	require.Contains(t, out, "agent 1 (alphabeta)")
	require.Contains(t, out, "results stored in")

	runs, err := os.ReadDir(filepath.Join(dir, "cli"))
	require.NoError(t, err)
	require.Len(t, runs, 1)
}

func TestSetupLogging(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.TraceLevel) })
	var buf bytes.Buffer

	setupLogging("warn", &buf)
	log.Info().Msg("hidden")
	log.Warn().Msg("shown")

	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), `"message":"shown"`)
}
