package engine

import (
	"errors"

	"gamesearch/experiments/metrics"
	"gamesearch/game"
)

// MaxTurns caps a game unless WithMaxTurns says otherwise.
const MaxTurns = 500

var (
	ErrIllegalMove = errors.New("illegal move")
	ErrNoAgent     = errors.New("no agent for player")
)

// Result is a finished (or capped) game. Agent IDs in Game are left for the
// caller to fill in.
type Result struct {
	Winner game.Player
	Game   metrics.GameMetric
	Moves  []metrics.MoveMetric
}
