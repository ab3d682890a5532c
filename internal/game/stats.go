package game

import (
	"time"
)

// Statistics summarizes a set of finished games.
type Statistics struct {
	TotalGames              int
	UserWins                int
	ComputerWins            int
	UserWinRate             float64
	MostCommonWinningNumber int
	FirstGame               time.Time
	LastGame                time.Time
}

// Calculate computes aggregate statistics over outcomes in played order. An
// empty input yields the zero Statistics.
func Calculate(outcomes []Outcome) Statistics {
	if len(outcomes) == 0 {
		return Statistics{}
	}

	stats := Statistics{
		TotalGames: len(outcomes),
		FirstGame:  outcomes[0].PlayedAt,
		LastGame:   outcomes[len(outcomes)-1].PlayedAt,
	}

	counts := make(map[int]int)
	for _, o := range outcomes {
		if o.Winner == WinnerUser {
			stats.UserWins++
		} else {
			stats.ComputerWins++
		}
		counts[o.WinningNumber]++
	}

	stats.UserWinRate = float64(stats.UserWins) / float64(stats.TotalGames)

	best := 0
	for number, count := range counts {
		if count > best || (count == best && number < stats.MostCommonWinningNumber) {
			best = count
			stats.MostCommonWinningNumber = number
		}
	}

	return stats
}
