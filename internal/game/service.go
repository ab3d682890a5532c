package game

import (
	"fmt"

	"github.com/zoobzio/clockz"

	"github.com/miketheofan/dispatchlab/internal/dispatch"
)

// Service creates sessions and validates guesses against the configured
// bounds.
type Service struct {
	min     int
	max     int
	sampler dispatch.Sampler
	clock   clockz.Clock
}

// NewService creates a game Service for the inclusive range [min, max].
func NewService(min, max int, sampler dispatch.Sampler, clock clockz.Clock) *Service {
	return &Service{
		min:     min,
		max:     max,
		sampler: sampler,
		clock:   clock,
	}
}

// NewGame creates a fresh session with a random target. Each call is a new
// game.
func (s *Service) NewGame() Session {
	span := s.max - s.min + 1
	target := s.min + int(s.sampler.Float64()*float64(span))
	if target > s.max {
		target = s.max
	}
	return Session{
		Min:       s.min,
		Max:       s.max,
		Target:    target,
		StartedAt: s.clock.Now(),
	}
}

// ValidateGuess checks the guess against the bounds before the session
// consumes it.
func (s *Service) ValidateGuess(guess int) error {
	if guess < s.min || guess > s.max {
		return dispatch.Failed(fmt.Sprintf("Input must be between %d and %d", s.min, s.max)).Err()
	}
	return nil
}

// Min returns the lower bound of the guessing range.
func (s *Service) Min() int { return s.min }

// Max returns the upper bound of the guessing range.
func (s *Service) Max() int { return s.max }
