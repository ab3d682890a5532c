// Package game implements a single-guess number game. One guess is one
// complete game: the player either hits the target or the computer wins.
package game

import (
	"time"
)

// Winner identifies who won a finished game.
type Winner string

const (
	WinnerUser     Winner = "USER"
	WinnerComputer Winner = "COMPUTER"
)

// Session is one game round. The target is fixed at creation and consumed by
// exactly one guess.
type Session struct {
	Min       int
	Max       int
	Target    int
	StartedAt time.Time
}

// Outcome is the finished result of a session, shaped for persistence.
type Outcome struct {
	PlayedAt      time.Time
	Winner        Winner
	WinningNumber int
}

// ProcessGuess resolves the session with a single guess.
func (s Session) ProcessGuess(guess int, at time.Time) Outcome {
	winner := WinnerComputer
	if guess == s.Target {
		winner = WinnerUser
	}
	return Outcome{
		PlayedAt:      at,
		Winner:        winner,
		WinningNumber: s.Target,
	}
}
