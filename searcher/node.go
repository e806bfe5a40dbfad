package searcher

import (
	"math"
	"slices"

	"gamesearch/game"

	"github.com/samber/lo"
	"golang.org/x/exp/rand"
)

// node is a position in an MCTS tree. Rewards are accumulated from the
// searching player's (the owner's) point of view at every depth.
type node struct {
	move       game.Move // move that led here, nil at the root
	parent     *node
	children   []*node
	untried    []game.Move
	visits     int
	rewards    float64
	terminal   bool
	maximizing bool // owner is to move
	outcome    Outcome
	hash       uint64
	hashed     bool
}

func newNode(parent *node, move game.Move, state game.State, owner game.Player) *node {
	n := &node{
		move:       move,
		parent:     parent,
		untried:    state.LegalMoves(),
		terminal:   state.IsOver(),
		maximizing: state.Player() == owner,
	}
	if n.terminal {
		n.untried = nil
		n.outcome = outcomeOf(state.Winner(), owner)
	}
	if h, ok := state.(game.Hasher); ok {
		n.hash, n.hashed = h.Hash(), true
	}
	return n
}

func (n *node) isFullyExpanded() bool {
	return len(n.untried) == 0
}

// expand plays a random untried move on state and attaches the resulting
// child.
func (n *node) expand(rng *rand.Rand, state game.State, owner game.Player) *node {
	i := rng.Intn(len(n.untried))
	move := n.untried[i]
	n.untried = slices.Delete(n.untried, i, i+1)
	mustPlay(state, move)
	child := newNode(n, move, state, owner)
	n.children = append(n.children, child)
	return child
}

func (n *node) ratio() float64 {
	if n.visits == 0 {
		return math.Inf(-1)
	}
	return n.rewards / float64(n.visits)
}

// selectChild applies UCT to candidates. Exploitation is taken from the
// point of view of the player to move at n.
func (n *node) selectChild(c float64, candidates []*node) *node {
	policy := newUCT(c, float64(n.visits))
	return lo.MaxBy(candidates, func(a, b *node) bool {
		return n.score(policy, a) > n.score(policy, b)
	})
}

// score negates owner rewards where the opponent moves, unlike plain UCT on
// owner-view rewards.
func (n *node) score(policy *uct, child *node) float64 {
	q := child.rewards
	if !n.maximizing {
		q = -q
	}
	return policy.evaluate(q, float64(child.visits))
}

func (n *node) childFor(move game.Move) *node {
	child, _ := lo.Find(n.children, func(c *node) bool { return c.move == move })
	return child
}

func (n *node) backup(reward float64) {
	for curr := n; curr != nil; curr = curr.parent {
		curr.visits++
		curr.rewards += reward
	}
}

// bestRatio returns the child with the highest average reward for the owner.
// Ties go to the earliest expanded child.
func bestRatio(children []*node) *node {
	return lo.MaxBy(children, func(a, b *node) bool { return a.ratio() > b.ratio() })
}

// resolve proves n from its children's outcomes. A proven node never changes.
func (n *node) resolve(rootDraw bool) {
	if n.outcome.Resolved() {
		return
	}

	unresolved := 0
	best := Unresolved
	for _, child := range n.children {
		if !child.outcome.Resolved() {
			unresolved++
			continue
		}
		if n.maximizing && child.outcome == ProvenWin {
			n.outcome = ProvenWin
			return
		}
		if !n.maximizing && child.outcome == ProvenLoss {
			n.outcome = ProvenLoss
			return
		}
		if best == Unresolved ||
			(n.maximizing && child.outcome.Value() > best.Value()) ||
			(!n.maximizing && child.outcome.Value() < best.Value()) {
			best = child.outcome
		}
	}
	if !n.isFullyExpanded() {
		return
	}

	switch {
	case unresolved == 0:
		n.outcome = best
	case rootDraw && n.parent == nil && unresolved == 1:
		n.outcome = ProvenDraw
	}
}
