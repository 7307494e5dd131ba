// Package game implements the round engine: country selection, the
// five-clue funnel, guess evaluation, the round state machine and the
// cross-round session aggregate. It holds no transport or rendering code.
package game

import "errors"

// NumClues is the length of the clue funnel.
const NumClues = 5

// cluePoints maps clue index to the points awarded for a win at that index.
// This table is the source of truth for scoring; clue text is purely
// presentational.
var cluePoints = [NumClues]int{10, 8, 6, 4, 2}

// PointsAt returns the points a correct guess earns at the given clue index.
func PointsAt(clueIndex int) int {
	if clueIndex < 0 || clueIndex >= NumClues {
		return 0
	}
	return cluePoints[clueIndex]
}

var (
	// ErrNoEligibleCountry means the selector exhausted its retry budget
	// without finding an unused, coordinate-resolvable country.
	ErrNoEligibleCountry = errors.New("no eligible country")

	// ErrEmptyGuess rejects blank guess text before any state transition.
	ErrEmptyGuess = errors.New("empty guess")

	// ErrRoundNotStarted is returned by guess/skip on a round that was
	// never started.
	ErrRoundNotStarted = errors.New("round not started")

	// ErrRoundFinished is returned by guess/skip once a round is won or
	// lost; terminal states are sticky.
	ErrRoundFinished = errors.New("round already finished")

	// ErrRoundActive rejects starting a round that already ran.
	ErrRoundActive = errors.New("round already started")
)
