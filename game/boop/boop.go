// Package boop implements a two-player 6x6 placement game where every
// placed piece pushes its neighbours one square away. Pieces pushed off the
// edge leave the board. Three in a row, or eight pieces on the board, wins.
package boop

import (
	"fmt"
	"slices"
	"strings"

	"gamesearch/game"
	"gamesearch/game/zobrist"
)

const (
	Size      = 6
	lineToWin = 3
	maxPieces = 8
)

type Square struct {
	Row, Col int
}

func (s Square) String() string {
	return fmt.Sprintf("%d,%d", s.Row, s.Col)
}

func (s Square) onBoard() bool {
	return s.Row >= 0 && s.Row < Size && s.Col >= 0 && s.Col < Size
}

func (s Square) index() int {
	return s.Row*Size + s.Col
}

var directions = [...]Square{
	{-1, 0}, {1, 0}, {0, -1}, {0, 1},
	{-1, -1}, {-1, 1}, {1, -1}, {1, 1},
}

// Central squares, then the ring around them, then the edge.
var moveOrder = orderSquares()

var keys = zobrist.NewTable(Size * Size)

type snapshot struct {
	cells   [Size * Size]game.Player
	pieces  [3]int
	current game.Player
	winner  game.Player
}

type Game struct {
	snapshot
	history []snapshot
	tracked bool
}

func New() *Game {
	return &Game{
		snapshot: snapshot{current: game.Player1},
		history:  []snapshot{},
		tracked:  true,
	}
}

func (g *Game) Player() game.Player {
	return g.current
}

func (g *Game) Winner() game.Player {
	return g.winner
}

// Pieces returns how many pieces p has on the board.
func (g *Game) Pieces(p game.Player) int {
	return g.pieces[p]
}

func (g *Game) At(s Square) game.Player {
	return g.cells[s.index()]
}

func (g *Game) IsOver() bool {
	return g.winner != game.NoPlayer || !slices.Contains(g.cells[:], game.NoPlayer)
}

func (g *Game) LegalMoves() []game.Move {
	if g.IsOver() {
		return nil
	}
	moves := make([]game.Move, 0, len(moveOrder))
	for _, s := range moveOrder {
		if g.cells[s.index()] == game.NoPlayer {
			moves = append(moves, s)
		}
	}
	return moves
}

func (g *Game) Play(move game.Move) bool {
	s, ok := move.(Square)
	if !ok || !s.onBoard() || g.IsOver() || g.cells[s.index()] != game.NoPlayer {
		return false
	}
	if g.tracked {
		g.history = append(g.history, g.snapshot)
	}

	moved := g.push(s)
	g.cells[s.index()] = g.current
	g.pieces[g.current]++
	moved = append(moved, s)

	g.winner = g.decide(moved)
	g.current = g.current.Opponent()
	return true
}

// push moves every neighbour of s one square away from it and returns the
// squares pieces landed on.
func (g *Game) push(s Square) []Square {
	var moved []Square
	for _, d := range directions {
		from := Square{s.Row + d.Row, s.Col + d.Col}
		if !from.onBoard() || g.cells[from.index()] == game.NoPlayer {
			continue
		}
		to := Square{from.Row + d.Row, from.Col + d.Col}
		owner := g.cells[from.index()]
		switch {
		case !to.onBoard():
			g.cells[from.index()] = game.NoPlayer
			g.pieces[owner]--
		case g.cells[to.index()] == game.NoPlayer:
			g.cells[to.index()] = owner
			g.cells[from.index()] = game.NoPlayer
			moved = append(moved, to)
		}
	}
	return moved
}

// decide finds a winner among the pieces that moved this turn. The mover
// wins ties: a push can complete a line for both sides at once.
func (g *Game) decide(moved []Square) game.Player {
	if g.pieces[g.current] >= maxPieces {
		return g.current
	}
	winner := game.NoPlayer
	for _, s := range moved {
		owner := g.cells[s.index()]
		if owner == game.NoPlayer || !g.inLine(s) {
			continue
		}
		if owner == g.current {
			return owner
		}
		winner = owner
	}
	return winner
}

func (g *Game) inLine(s Square) bool {
	owner := g.cells[s.index()]
	for _, d := range directions {
		// One direction per axis; the inner loop walks both ways.
		if d.Row < 0 || (d.Row == 0 && d.Col < 0) {
			continue
		}
		count := 1
		for _, sign := range [...]int{1, -1} {
			for k := 1; k < lineToWin; k++ {
				t := Square{s.Row + sign*k*d.Row, s.Col + sign*k*d.Col}
				if !t.onBoard() || g.cells[t.index()] != owner {
					break
				}
				count++
			}
		}
		if count >= lineToWin {
			return true
		}
	}
	return false
}

func (g *Game) Undo() {
	if len(g.history) == 0 {
		panic("boop: undo without a recorded move")
	}
	last := len(g.history) - 1
	g.snapshot = g.history[last]
	g.history = g.history[:last]
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

// Evaluate scores undecided positions by piece advantage, kept within
// (-0.5, 0.5).
func (g *Game) Evaluate(player game.Player) float64 {
	if g.winner != game.NoPlayer {
		return game.TerminalScore(g.winner, player)
	}
	if g.IsOver() {
		return game.DrawScore
	}
	diff := g.pieces[player] - g.pieces[player.Opponent()]
	return 0.5 * float64(diff) / (maxPieces + 1)
}

func (g *Game) Hash() uint64 {
	return keys.Hash(g.cells[:], g.current)
}

func (g *Game) String() string {
	var sb strings.Builder
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			switch g.cells[row*Size+col] {
			case game.Player1:
				sb.WriteByte('a')
			case game.Player2:
				sb.WriteByte('b')
			default:
				sb.WriteByte('.')
			}
		}
		if row < Size-1 {
			sb.WriteByte('/')
		}
	}
	return sb.String()
}

func orderSquares() []Square {
	var central, ring, edge []Square
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			s := Square{row, col}
			switch {
			case row >= 2 && row <= 3 && col >= 2 && col <= 3:
				central = append(central, s)
			case row >= 1 && row <= 4 && col >= 1 && col <= 4:
				ring = append(ring, s)
			default:
				edge = append(edge, s)
			}
		}
	}
	return slices.Concat(central, ring, edge)
}
