package searcher

import (
	"time"

	"gamesearch/game"

	"github.com/rs/zerolog/log"
)

// MCTS is a UCT Monte Carlo tree search with uniformly random rollouts.
type MCTS struct {
	tree
}

// NewMCTS panics unless a time limit or an iteration budget is given.
func NewMCTS(player game.Player, opts ...Option) *MCTS {
	return &MCTS{tree: newTree(player, opts)}
}

func (m *MCTS) Name() string {
	return "MCTS"
}

func (m *MCTS) ChooseMove(state game.State) (game.Move, int) {
	m.metrics.Start(m.Name())
	defer func() { m.last = m.metrics.Complete() }()

	moves := state.LegalMoves()
	switch len(moves) {
	case 0:
		return nil, 0
	case 1:
		m.metrics.AddIteration()
		return moves[0], 1
	}

	m.findRoot(state)
	start := time.Now()
	iterations := 0
	for m.withinBudget(start, iterations) {
		iterations++
		m.metrics.AddIteration()
		if move, won := m.simulate(state); won {
			log.Debug().Msgf("%s found winning move %v after %d iterations", m.Name(), move, iterations)
			return move, iterations
		}
	}

	best := bestRatio(m.root.children)
	if best == nil {
		return moves[0], iterations
	}
	log.Debug().Msgf("%s chose %v (%.3f over %d visits) after %d iterations in %s",
		m.Name(), best.move, best.ratio(), best.visits, iterations, time.Since(start))
	return best.move, iterations
}

// simulate runs one select, expand, rollout and backup pass on a scratch copy
// of state. It reports a move that wins on the spot when one is expanded
// directly from the root.
func (m *MCTS) simulate(state game.State) (game.Move, bool) {
	scratch := state.Copy(false)
	curr := m.root
	for curr.isFullyExpanded() && !curr.terminal {
		curr = curr.selectChild(m.exploration, curr.children)
		mustPlay(scratch, curr.move)
	}

	if !curr.isFullyExpanded() {
		fromRoot := curr == m.root
		curr = curr.expand(m.rng, scratch, m.player)
		if fromRoot && scratch.IsOver() && scratch.Winner() == m.player {
			curr.backup(scratch.Evaluate(m.player))
			return curr.move, true
		}
	}

	m.rollout(scratch)
	curr.backup(scratch.Evaluate(m.player))
	return nil, false
}
