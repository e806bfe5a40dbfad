package engine

import (
	"fmt"
	"time"

	"gamesearch/experiments/metrics"
	"gamesearch/game"
	"gamesearch/searcher"

	"github.com/rs/zerolog/log"
)

// Engine alternates strategies over one live game state.
type Engine struct {
	state    game.State
	agents   map[game.Player]searcher.Strategy
	maxTurns int
}

type Option func(e *Engine)

func WithMaxTurns(turns int) Option {
	return func(e *Engine) {
		if turns > 0 {
			e.maxTurns = turns
		}
	}
}

func New(state game.State, agents map[game.Player]searcher.Strategy, opts ...Option) *Engine {
	e := &Engine{
		state:    state,
		agents:   agents,
		maxTurns: MaxTurns,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// State returns the live game, which Run advances in place.
func (e *Engine) State() game.State {
	return e.state
}

// Run plays until the game is over or the turn cap is reached. Every played
// move is forwarded to all agents.
func (e *Engine) Run() (Result, error) {
	var result Result
	result.Game.StartTime = time.Now()
	log.Info().Msgf("%s is starting", e.state.Player())

	for turn := 1; !e.state.IsOver() && turn <= e.maxTurns; turn++ {
		player := e.state.Player()
		agent, ok := e.agents[player]
		if !ok {
			return result, fmt.Errorf("turn %d: %w %s", turn, ErrNoAgent, player)
		}

		move, iterations := agent.ChooseMove(e.state)
		if move == nil || !e.state.Play(move) {
			return result, fmt.Errorf("turn %d: %s chose %v for %s: %w", turn, agent.Name(), move, player, ErrIllegalMove)
		}
		for _, a := range e.agents {
			a.Update(move)
		}

		m := metrics.MoveMetric{
			Step:       turn,
			Player:     player,
			Move:       move.String(),
			Iterations: iterations,
		}
		if r, ok := agent.(searcher.Reporter); ok {
			m.SearchMetric = r.LastSearch()
		}
		result.Moves = append(result.Moves, m)
		log.Debug().Msgf("turn %d: %s (%s) played %s", turn, player, agent.Name(), move)
	}

	if !e.state.IsOver() {
		log.Info().Msgf("stopped after %d turns without a result", e.maxTurns)
	}
	result.Winner = e.state.Winner()
	result.Game.Winner = result.Winner
	result.Game.EndTime = time.Now()
	result.Game.Duration = result.Game.EndTime.Sub(result.Game.StartTime)
	result.Game.TotalMoves = len(result.Moves)
	log.Info().Msgf("game over after %d moves, winner: %s", result.Game.TotalMoves, result.Winner)
	return result, nil
}
