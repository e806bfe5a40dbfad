package searcher

import (
	"fmt"
	"time"

	"gamesearch/experiments/metrics"
	"gamesearch/game"
)

// Hyperparameters for the searchers

const DefaultExploration = 1.4 // UCT exploration constant C

// NoDepthLimit lets Minimax and AlphaBeta search to terminal positions.
const NoDepthLimit = -1

// Strategy picks moves for one side of a game. ChooseMove must leave state
// exactly as it found it.
type Strategy interface {
	// ChooseMove returns the selected move and the number of iterations
	// (MCTS) or recursive calls (minimax) the search used.
	ChooseMove(state game.State) (game.Move, int)
	Name() string
	// Update tells the strategy which move was played on the live game,
	// whichever side played it.
	Update(move game.Move)
}

// Reporter exposes the metrics of the latest ChooseMove call.
type Reporter interface {
	LastSearch() metrics.SearchMetric
}

type Option func(o *options)

type options struct {
	duration    time.Duration
	iterations  int
	seed        uint64
	exploration float64
	metrics     metrics.Collector
	rootDraw    bool
}

// WithTimeLimit bounds MCTS searches by wall-clock time. A running iteration
// always completes, so a search may overrun by one iteration.
func WithTimeLimit(duration time.Duration) Option {
	return func(o *options) {
		if duration > 0 {
			o.duration = duration
		}
	}
}

// WithIterations bounds MCTS searches by iteration count.
func WithIterations(iterations int) Option {
	return func(o *options) {
		if iterations > 0 {
			o.iterations = iterations
		}
	}
}

// WithSeed fixes the random source of rollouts and expansions.
func WithSeed(seed uint64) Option {
	return func(o *options) {
		o.seed = seed
	}
}

func WithExploration(c float64) Option {
	return func(o *options) {
		if c >= 0 {
			o.exploration = c
		}
	}
}

func WithMetrics(collector metrics.Collector) Option {
	return func(o *options) {
		if collector != nil {
			o.metrics = collector
		}
	}
}

// WithRootDrawHeuristic makes the solver call the root a draw once it is
// fully expanded and exactly one child is still unresolved. This is not a
// proof: the remaining child may still win or lose.
func WithRootDrawHeuristic() Option {
	return func(o *options) {
		o.rootDraw = true
	}
}

func newOptions(opts []Option) options {
	o := options{ // Default values
		seed:        uint64(time.Now().UnixNano()),
		exploration: DefaultExploration,
		metrics:     metrics.NewDummyCollector(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// withinBudget reports whether another iteration may start.
func (o *options) withinBudget(start time.Time, iterations int) bool {
	if o.iterations > 0 && iterations >= o.iterations {
		return false
	}
	return o.duration <= 0 || time.Since(start) < o.duration
}

func mustPlay(state game.State, move game.Move) {
	if !state.Play(move) {
		panic(fmt.Sprintf("state rejected its own legal move %v", move))
	}
}
