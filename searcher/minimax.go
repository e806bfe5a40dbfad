package searcher

import (
	"time"

	"gamesearch/experiments/metrics"
	"gamesearch/game"

	"github.com/rs/zerolog/log"
)

// Decision is the outcome of a full-width search from the root.
type Decision struct {
	Move  game.Move // nil when the root has no legal moves
	Score float64
	Calls int // recursive calls below the root
}

// Minimax is an exhaustive depth-limited minimax. It searches on the given
// state in place through Play and Undo, so the state must track history.
type Minimax struct {
	player     game.Player
	depthLimit int
	metrics    metrics.Collector
	last       metrics.SearchMetric
}

// NewMinimax searches depthLimit plies below each root move, or to the end of
// the game with NoDepthLimit. Only WithMetrics applies.
func NewMinimax(player game.Player, depthLimit int, opts ...Option) *Minimax {
	o := newOptions(opts)
	return &Minimax{player: player, depthLimit: depthLimit, metrics: o.metrics}
}

func (m *Minimax) Name() string {
	return "Minimax"
}

func (m *Minimax) ChooseMove(state game.State) (game.Move, int) {
	d := m.Search(state)
	return d.Move, d.Calls
}

func (m *Minimax) Update(game.Move) {}

func (m *Minimax) LastSearch() metrics.SearchMetric {
	return m.last
}

// line summarizes the best continuation below a move.
type line struct {
	score float64
	acc   float64 // sum of leaf evaluations in the subtree
	plies int     // length of the chosen continuation
	calls int
}

// beats orders lines by score, then prefers faster wins and slower losses,
// then the larger accumulated score. The minimizing side mirrors every rule.
func (l line) beats(best line, maximizing bool) bool {
	if maximizing {
		switch {
		case l.score != best.score:
			return l.score > best.score
		case l.plies != best.plies:
			if l.score >= 0 {
				return l.plies < best.plies
			}
			return l.plies > best.plies
		}
		return l.acc > best.acc
	}

	switch {
	case l.score != best.score:
		return l.score < best.score
	case l.plies != best.plies:
		if l.score <= 0 {
			return l.plies < best.plies
		}
		return l.plies > best.plies
	}
	return l.acc < best.acc
}

// Search returns the best root move for the engine's player. Ties between
// equal lines keep the earlier move.
func (m *Minimax) Search(state game.State) Decision {
	m.metrics.Start(m.Name())
	start := time.Now()

	var d Decision
	var best line
	for _, move := range state.LegalMoves() {
		mustPlay(state, move)
		l := m.minimax(state, 0, false)
		state.Undo()

		d.Calls += l.calls
		if d.Move == nil || l.beats(best, true) {
			best = l
			d.Move, d.Score = move, l.score
		}
	}

	m.last = m.metrics.Complete()
	log.Debug().Msgf("%s chose %v (score %.3f, %d plies) after %d calls in %s",
		m.Name(), d.Move, d.Score, best.plies, d.Calls, time.Since(start))
	return d
}

func (m *Minimax) minimax(state game.State, depth int, maximizing bool) line {
	m.metrics.AddIteration()
	if depth == m.depthLimit || state.IsOver() {
		score := state.Evaluate(m.player)
		return line{score: score, acc: score, plies: depth + 1, calls: 1}
	}

	result := line{calls: 1}
	var best line
	found := false
	for _, move := range state.LegalMoves() {
		mustPlay(state, move)
		child := m.minimax(state, depth+1, !maximizing)
		state.Undo()

		result.calls += child.calls
		result.acc += child.acc
		if !found || child.beats(best, maximizing) {
			best, found = child, true
		}
	}
	result.score, result.plies = best.score, best.plies
	return result
}
