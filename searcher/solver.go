package searcher

import (
	"time"

	"gamesearch/game"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

// Solver is MCTS that also proves wins, losses and draws and stops as soon
// as the root is proven.
type Solver struct {
	tree
}

// NewSolver panics unless a time limit or an iteration budget is given.
func NewSolver(player game.Player, opts ...Option) *Solver {
	return &Solver{tree: newTree(player, opts)}
}

func (s *Solver) Name() string {
	return "MCTS-Solver"
}

func (s *Solver) ChooseMove(state game.State) (game.Move, int) {
	s.metrics.Start(s.Name())
	defer func() { s.last = s.metrics.Complete() }()

	moves := state.LegalMoves()
	switch len(moves) {
	case 0:
		return nil, 0
	case 1:
		s.metrics.AddIteration()
		return moves[0], 1
	}

	s.findRoot(state)
	start := time.Now()
	iterations := 0
	for !s.root.outcome.Resolved() && s.withinBudget(start, iterations) {
		iterations++
		s.metrics.AddIteration()
		s.simulate(state)
	}
	if s.root.outcome.Resolved() {
		s.metrics.SetOutcome(s.root.outcome.String())
	}

	best := s.bestChild()
	if best == nil {
		return moves[0], iterations
	}
	log.Debug().Msgf("%s chose %v (%s, %.3f over %d visits) after %d iterations in %s",
		s.Name(), best.move, best.outcome, best.ratio(), best.visits, iterations, time.Since(start))
	return best.move, iterations
}

func (s *Solver) simulate(state game.State) {
	scratch := state.Copy(false)
	curr := s.root
	for curr.isFullyExpanded() && !curr.terminal {
		curr = s.selectChild(curr)
		mustPlay(scratch, curr.move)
	}
	if !curr.isFullyExpanded() {
		curr = curr.expand(s.rng, scratch, s.player)
	}

	s.rollout(scratch)
	reward := scratch.Evaluate(s.player)
	for n := curr; n != nil; n = n.parent {
		n.visits++
		n.rewards += reward
		if n.outcome.Resolved() && n.parent != nil {
			n.parent.resolve(s.rootDraw)
		}
	}
}

// selectChild runs UCT over unresolved children. When every child is proven
// it descends into the best proof for the player to move.
func (s *Solver) selectChild(n *node) *node {
	open := lo.Filter(n.children, func(c *node, _ int) bool { return !c.outcome.Resolved() })
	if len(open) > 0 {
		return n.selectChild(s.exploration, open)
	}
	return bestProof(n.children, n.maximizing)
}

// bestChild prefers a proven win, then the best unresolved child by reward
// ratio, then the least bad proof.
func (s *Solver) bestChild() *node {
	children := s.root.children
	if win, ok := lo.Find(children, func(c *node) bool { return c.outcome == ProvenWin }); ok {
		return win
	}
	open := lo.Filter(children, func(c *node, _ int) bool { return !c.outcome.Resolved() })
	if len(open) > 0 {
		return bestRatio(open)
	}
	return bestProof(children, true)
}

func bestProof(children []*node, maximizing bool) *node {
	return lo.MaxBy(children, func(a, b *node) bool {
		if maximizing {
			return a.outcome.Value() > b.outcome.Value()
		}
		return a.outcome.Value() < b.outcome.Value()
	})
}
