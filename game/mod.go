package game

import "fmt"

// Player identifies a side. Games are two-player, so the only valid sides
// are Player1 and Player2; NoPlayer marks an absent winner or an empty square.
type Player int

const (
	NoPlayer Player = iota
	Player1
	Player2
)

func (p Player) Opponent() Player {
	switch p {
	case Player1:
		return Player2
	case Player2:
		return Player1
	}
	return NoPlayer
}

func (p Player) String() string {
	if p == NoPlayer {
		return "none"
	}
	return fmt.Sprintf("player%d", int(p))
}

// Move is a single ply. Implementations must be comparable value types so
// that searchers can match moves with ==.
type Move interface {
	String() string
}

// Fixed evaluations of terminal positions. Heuristic evaluations of
// unfinished positions lie strictly between LossScore and WinScore.
const (
	WinScore  = 1.0
	LossScore = -1.0
	DrawScore = 0.0
)

// State is a mutable game position. Play and Undo mutate it in place; Copy
// gives searchers a disposable clone.
type State interface {
	// Player returns the side to move.
	Player() Player
	// LegalMoves returns the moves available to the side to move, in a stable
	// order. Move order drives tie-breaking and pruning. Empty once IsOver.
	LegalMoves() []Move
	// Play applies move and reports whether it was legal. An illegal move
	// leaves the state untouched.
	Play(move Move) bool
	// Undo reverts the latest successful Play.
	Undo()
	// Copy returns an independent deep clone. Without history the clone
	// cannot Undo moves played before or after the copy.
	Copy(trackHistory bool) State
	IsOver() bool
	// Winner returns NoPlayer while the game is undecided or drawn.
	Winner() Player
	// Evaluate scores the position from player's point of view. Terminal
	// positions score WinScore, LossScore or DrawScore.
	Evaluate(player Player) float64
}

// Hasher is implemented by states that can identify their position.
type Hasher interface {
	Hash() uint64
}

// TerminalScore maps the winner of a finished game to a fixed score from
// viewpoint's side.
func TerminalScore(winner, viewpoint Player) float64 {
	switch winner {
	case NoPlayer:
		return DrawScore
	case viewpoint:
		return WinScore
	}
	return LossScore
}
