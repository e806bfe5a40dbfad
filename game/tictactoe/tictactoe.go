// Package tictactoe implements 3x3 noughts and crosses on the game.State
// contract.
package tictactoe

import (
	"slices"
	"strconv"
	"strings"

	"gamesearch/game"
	"gamesearch/game/zobrist"
)

// Cell indexes the board row-major, 0 to 8.
type Cell int

func (c Cell) String() string {
	return strconv.Itoa(int(c))
}

// Centre first, then corners, then edges.
var moveOrder = [...]Cell{4, 0, 2, 6, 8, 1, 3, 5, 7}

var lines = [...][3]Cell{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	{0, 4, 8}, {2, 4, 6},
}

var keys = zobrist.NewTable(9)

type Game struct {
	board   [9]game.Player
	current game.Player
	winner  game.Player
	history []Cell
	tracked bool
}

// New returns an empty board with Player1 to move and undo history enabled.
func New() *Game {
	return &Game{
		current: game.Player1,
		history: make([]Cell, 0, len(moveOrder)),
		tracked: true,
	}
}

func (g *Game) Player() game.Player {
	return g.current
}

func (g *Game) Winner() game.Player {
	return g.winner
}

func (g *Game) LegalMoves() []game.Move {
	if g.IsOver() {
		return nil
	}
	moves := make([]game.Move, 0, len(moveOrder))
	for _, c := range moveOrder {
		if g.board[c] == game.NoPlayer {
			moves = append(moves, c)
		}
	}
	return moves
}

func (g *Game) Play(move game.Move) bool {
	c, ok := move.(Cell)
	if !ok || c < 0 || int(c) >= len(g.board) || g.IsOver() || g.board[c] != game.NoPlayer {
		return false
	}

	g.board[c] = g.current
	if g.completesLine(c) {
		g.winner = g.current
	}
	g.current = g.current.Opponent()
	if g.tracked {
		g.history = append(g.history, c)
	}
	return true
}

func (g *Game) completesLine(c Cell) bool {
	for _, line := range lines {
		if line[0] != c && line[1] != c && line[2] != c {
			continue
		}
		if g.board[line[0]] == g.current && g.board[line[1]] == g.current && g.board[line[2]] == g.current {
			return true
		}
	}
	return false
}

func (g *Game) Undo() {
	if len(g.history) == 0 {
		panic("tictactoe: undo without a recorded move")
	}
	last := len(g.history) - 1
	c := g.history[last]
	g.history = g.history[:last]

	g.board[c] = game.NoPlayer
	// A decided game accepts no further moves, so the undone move was the
	// only one that could have produced the winner.
	g.winner = game.NoPlayer
	g.current = g.current.Opponent()
}

func (g *Game) Copy(trackHistory bool) game.State {
	clone := *g
	clone.tracked = trackHistory
	clone.history = nil
	if trackHistory {
		clone.history = slices.Clone(g.history)
	}
	return &clone
}

func (g *Game) IsOver() bool {
	return g.winner != game.NoPlayer || !slices.Contains(g.board[:], game.NoPlayer)
}

// Evaluate has no heuristic: undecided positions score as a draw.
func (g *Game) Evaluate(player game.Player) float64 {
	if g.winner != game.NoPlayer {
		return game.TerminalScore(g.winner, player)
	}
	return game.DrawScore
}

func (g *Game) Hash() uint64 {
	return keys.Hash(g.board[:], g.current)
}

func (g *Game) String() string {
	var sb strings.Builder
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			sb.WriteByte(mark(g.board[row*3+col]))
		}
		if row < 2 {
			sb.WriteByte('/')
		}
	}
	return sb.String()
}

func mark(p game.Player) byte {
	switch p {
	case game.Player1:
		return 'X'
	case game.Player2:
		return 'O'
	}
	return '.'
}
