package searcher

import (
	"gamesearch/experiments/metrics"
	"gamesearch/game"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

// tree holds the search tree MCTS and the solver keep between moves.
type tree struct {
	options
	player game.Player
	rng    *rand.Rand
	root   *node
	synced bool // Update re-rooted the tree since the last search
	last   metrics.SearchMetric
}

func newTree(player game.Player, opts []Option) tree {
	o := newOptions(opts)
	if o.iterations <= 0 && o.duration <= 0 {
		panic("Must specify search iterations or time limit")
	}
	return tree{
		options: o,
		player:  player,
		rng:     rand.New(rand.NewSource(o.seed)),
	}
}

// findRoot keeps the subtree left by Update when it still describes state,
// otherwise it starts a fresh tree. Without Update calls since the last
// search the old tree is never trusted.
func (t *tree) findRoot(state game.State) {
	reused := t.synced && t.root != nil && t.root.maximizing
	t.synced = false
	if reused && t.root.hashed {
		if h, ok := state.(game.Hasher); ok && h.Hash() != t.root.hash {
			log.Warn().Msgf("root's state hash %d does not match game's state hash %d", t.root.hash, h.Hash())
			reused = false
		}
	}
	if !reused {
		t.root = newNode(nil, nil, state, t.player)
	}
	t.metrics.SetTreeReused(reused)
}

// Update re-roots the tree at the child reached by move, or discards the
// tree if that move was never expanded.
func (t *tree) Update(move game.Move) {
	if t.root == nil {
		return
	}
	child := t.root.childFor(move)
	if child == nil {
		t.root = nil
		t.synced = false
		return
	}
	child.parent = nil
	t.root = child
	t.synced = true
}

func (t *tree) LastSearch() metrics.SearchMetric {
	return t.last
}

// rollout plays uniformly random moves until the game ends.
func (t *tree) rollout(state game.State) {
	for !state.IsOver() {
		moves := state.LegalMoves()
		mustPlay(state, moves[t.rng.Intn(len(moves))])
	}
	t.metrics.AddPlayout()
}
