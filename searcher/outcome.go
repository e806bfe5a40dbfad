package searcher

import "gamesearch/game"

// Outcome is the exact game-theoretic value of a search node from the
// searching player's point of view.
type Outcome int

const (
	Unresolved Outcome = iota
	ProvenLoss
	ProvenDraw
	ProvenWin
)

func outcomeOf(winner, owner game.Player) Outcome {
	switch winner {
	case game.NoPlayer:
		return ProvenDraw
	case owner:
		return ProvenWin
	}
	return ProvenLoss
}

func (o Outcome) Resolved() bool {
	return o != Unresolved
}

// Value orders proven outcomes. It panics for Unresolved, which has no value.
func (o Outcome) Value() float64 {
	switch o {
	case ProvenWin:
		return 10
	case ProvenLoss:
		return -10
	case ProvenDraw:
		return 0
	}
	panic("unresolved outcome has no value")
}

func (o Outcome) String() string {
	switch o {
	case ProvenWin:
		return "win"
	case ProvenLoss:
		return "loss"
	case ProvenDraw:
		return "draw"
	}
	return "unresolved"
}
