// Package connect4 implements six-row, seven-column connect-four on the
// game.State contract.
package connect4

import (
	"math"
	"slices"
	"strconv"
	"strings"

	"gamesearch/game"
	"gamesearch/game/zobrist"
)

const (
	Rows    = 6
	Columns = 7
	connect = 4
)

// Column is a drop column, 0 (left) to 6.
type Column int

func (c Column) String() string {
	return strconv.Itoa(int(c))
}

// Central columns first.
var moveOrder = [...]Column{3, 2, 4, 1, 5, 0, 6}

// Window weights by number of pieces of a single colour in a four-square
// window that the other colour has not blocked.
var windowWeights = [connect]float64{0, 1, 4, 16}

var (
	keys    = zobrist.NewTable(Rows * Columns)
	windows = allWindows()
)

// Game stores cells row-major with row 0 at the bottom.
type Game struct {
	cells   [Rows * Columns]game.Player
	heights [Columns]int
	current game.Player
	winner  game.Player
	placed  int
	history []Column
	tracked bool
}

func New() *Game {
	return &Game{
		current: game.Player1,
		history: make([]Column, 0, Rows*Columns),
		tracked: true,
	}
}

func index(row, col int) int {
	return row*Columns + col
}

func (g *Game) Player() game.Player {
	return g.current
}

func (g *Game) Winner() game.Player {
	return g.winner
}

func (g *Game) IsOver() bool {
	return g.winner != game.NoPlayer || g.placed == Rows*Columns
}

func (g *Game) LegalMoves() []game.Move {
	if g.IsOver() {
		return nil
	}
	moves := make([]game.Move, 0, Columns)
	for _, c := range moveOrder {
		if g.heights[c] < Rows {
			moves = append(moves, c)
		}
	}
	return moves
}

func (g *Game) Play(move game.Move) bool {
	c, ok := move.(Column)
	if !ok || c < 0 || c >= Columns || g.IsOver() || g.heights[c] == Rows {
		return false
	}

	row := g.heights[c]
	g.cells[index(row, int(c))] = g.current
	g.heights[c]++
	g.placed++
	if g.connects(row, int(c)) {
		g.winner = g.current
	}
	g.current = g.current.Opponent()
	if g.tracked {
		g.history = append(g.history, c)
	}
	return true
}

// connects reports whether the piece at (row, col) completes four in a line.
func (g *Game) connects(row, col int) bool {
	owner := g.cells[index(row, col)]
	for _, d := range [...][2]int{{0, 1}, {1, 0}, {1, 1}, {1, -1}} {
		count := 1
		count += g.run(row, col, d[0], d[1], owner)
		count += g.run(row, col, -d[0], -d[1], owner)
		if count >= connect {
			return true
		}
	}
	return false
}

func (g *Game) run(row, col, dr, dc int, owner game.Player) int {
	n := 0
	for r, c := row+dr, col+dc; r >= 0 && r < Rows && c >= 0 && c < Columns; r, c = r+dr, c+dc {
		if g.cells[index(r, c)] != owner {
			break
		}
		n++
	}
	return n
}

func (g *Game) Undo() {
	if len(g.history) == 0 {
		panic("connect4: undo without a recorded move")
	}
	last := len(g.history) - 1
	c := g.history[last]
	g.history = g.history[:last]

	g.heights[c]--
	g.cells[index(g.heights[c], int(c))] = game.NoPlayer
	g.placed--
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

// Evaluate scores undecided positions by counting open windows, squashed
// into (-0.9, 0.9) so they never reach a terminal score.
func (g *Game) Evaluate(player game.Player) float64 {
	if g.IsOver() {
		return game.TerminalScore(g.winner, player)
	}

	score := 0.0
	for _, w := range windows {
		mine, theirs := 0, 0
		for _, i := range w {
			switch g.cells[i] {
			case player:
				mine++
			case game.NoPlayer:
			default:
				theirs++
			}
		}
		switch {
		case mine > 0 && theirs == 0:
			score += windowWeights[mine]
		case theirs > 0 && mine == 0:
			score -= windowWeights[theirs]
		}
	}
	return 0.9 * math.Tanh(score/32)
}

func allWindows() [][connect]int {
	var ws [][connect]int
	for row := 0; row < Rows; row++ {
		for col := 0; col < Columns; col++ {
			for _, d := range [...][2]int{{0, 1}, {1, 0}, {1, 1}, {1, -1}} {
				endRow, endCol := row+d[0]*(connect-1), col+d[1]*(connect-1)
				if endRow < 0 || endRow >= Rows || endCol < 0 || endCol >= Columns {
					continue
				}
				var w [connect]int
				for k := 0; k < connect; k++ {
					w[k] = index(row+d[0]*k, col+d[1]*k)
				}
				ws = append(ws, w)
			}
		}
	}
	return ws
}

func (g *Game) Hash() uint64 {
	return keys.Hash(g.cells[:], g.current)
}

// String renders the board top row first.
func (g *Game) String() string {
	var sb strings.Builder
	for row := Rows - 1; row >= 0; row-- {
		for col := 0; col < Columns; col++ {
			switch g.cells[index(row, col)] {
			case game.Player1:
				sb.WriteByte('X')
			case game.Player2:
				sb.WriteByte('O')
			default:
				sb.WriteByte('.')
			}
		}
		if row > 0 {
			sb.WriteByte('/')
		}
	}
	return sb.String()
}
