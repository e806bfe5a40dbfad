package searcher

import (
	"math"
	"time"

	"gamesearch/experiments/metrics"
	"gamesearch/game"

	"github.com/rs/zerolog/log"
)

// AlphaBeta is minimax with alpha-beta pruning. It returns the same root
// score as Minimax but keeps the first root move reaching it, with no
// secondary tie-break. Like Minimax it searches the given state in place.
type AlphaBeta struct {
	player     game.Player
	depthLimit int
	metrics    metrics.Collector
	last       metrics.SearchMetric
}

// NewAlphaBeta takes the same depth limit semantics as NewMinimax.
func NewAlphaBeta(player game.Player, depthLimit int, opts ...Option) *AlphaBeta {
	o := newOptions(opts)
	return &AlphaBeta{player: player, depthLimit: depthLimit, metrics: o.metrics}
}

func (a *AlphaBeta) Name() string {
	return "AlphaBeta"
}

func (a *AlphaBeta) ChooseMove(state game.State) (game.Move, int) {
	d := a.Search(state)
	return d.Move, d.Calls
}

func (a *AlphaBeta) Update(game.Move) {}

func (a *AlphaBeta) LastSearch() metrics.SearchMetric {
	return a.last
}

func (a *AlphaBeta) Search(state game.State) Decision {
	a.metrics.Start(a.Name())
	start := time.Now()

	var d Decision
	alpha, beta := math.Inf(-1), math.Inf(1)
	for _, move := range state.LegalMoves() {
		mustPlay(state, move)
		score, calls := a.alphabeta(state, 0, false, alpha, beta)
		state.Undo()

		d.Calls += calls
		if score > alpha {
			alpha = score
			d.Move = move
		}
	}
	if d.Move != nil {
		d.Score = alpha
	}

	a.last = a.metrics.Complete()
	log.Debug().Msgf("%s chose %v (score %.3f) after %d calls in %s",
		a.Name(), d.Move, d.Score, d.Calls, time.Since(start))
	return d
}

func (a *AlphaBeta) alphabeta(state game.State, depth int, maximizing bool, alpha, beta float64) (float64, int) {
	a.metrics.AddIteration()
	if depth == a.depthLimit || state.IsOver() {
		return state.Evaluate(a.player), 1
	}

	calls := 1
	best := math.Inf(1)
	if maximizing {
		best = math.Inf(-1)
	}
	for _, move := range state.LegalMoves() {
		mustPlay(state, move)
		score, n := a.alphabeta(state, depth+1, !maximizing, alpha, beta)
		state.Undo()
		calls += n

		if maximizing {
			best = max(best, score)
			alpha = max(alpha, best)
		} else {
			best = min(best, score)
			beta = min(beta, best)
		}
		if beta <= alpha {
			break
		}
	}
	return best, calls
}
