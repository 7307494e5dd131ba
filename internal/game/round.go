package game

import "github.com/terracaughta/geoguess/internal/countries"

// Outcome is the round's lifecycle state. Transitions run not_started →
// in_progress → won|lost; won and lost are terminal.
type Outcome string

const (
	OutcomeNotStarted Outcome = "not_started"
	OutcomeInProgress Outcome = "in_progress"
	OutcomeWon        Outcome = "won"
	OutcomeLost       Outcome = "lost"
)

// Terminal reports whether the round has ended.
func (o Outcome) Terminal() bool {
	return o == OutcomeWon || o == OutcomeLost
}

// StepResult describes the effect of one guess or skip.
type StepResult struct {
	Outcome       Outcome
	Correct       bool
	PointsAwarded int
	ClueIndex     int
	Guess         string // normalized guess text, empty for a skip
}

// Round is the state machine for a single mystery country. The clue index
// only ever moves forward, and a finished round ignores further moves.
type Round struct {
	target    countries.Country
	geo       countries.GeoClue
	clues     ClueSet
	clueIndex int
	outcome   Outcome
	evaluator *Evaluator
}

func NewRound(evaluator *Evaluator) *Round {
	return &Round{
		outcome:   OutcomeNotStarted,
		evaluator: evaluator,
	}
}

// Start moves the round into play with the selected country and its built
// clue set. Only valid once, from the not-started state.
func (r *Round) Start(target countries.Country, geo countries.GeoClue, clues ClueSet) error {
	if r.outcome != OutcomeNotStarted {
		return ErrRoundActive
	}
	r.target = target
	r.geo = geo
	r.clues = clues
	r.clueIndex = 0
	r.outcome = OutcomeInProgress
	return nil
}

// SubmitGuess evaluates one guess. A match wins the round and awards the
// points for the current clue index. A miss reveals the next clue, or
// loses the round when no clues remain. Empty text is invalid input and
// causes no transition.
func (r *Round) SubmitGuess(text string) (StepResult, error) {
	if err := r.inPlay(); err != nil {
		return StepResult{}, err
	}

	guess := Normalize(text)
	if guess == "" {
		return StepResult{}, ErrEmptyGuess
	}

	if r.evaluator.Match(guess, r.target.Name) {
		r.outcome = OutcomeWon
		return StepResult{
			Outcome:       OutcomeWon,
			Correct:       true,
			PointsAwarded: PointsAt(r.clueIndex),
			ClueIndex:     r.clueIndex,
			Guess:         guess,
		}, nil
	}
	return r.advance(guess), nil
}

// Skip reveals the next clue without a guess. Skipping past the last clue
// loses the round, identically to a wrong final guess.
func (r *Round) Skip() (StepResult, error) {
	if err := r.inPlay(); err != nil {
		return StepResult{}, err
	}
	return r.advance(""), nil
}

func (r *Round) inPlay() error {
	switch r.outcome {
	case OutcomeNotStarted:
		return ErrRoundNotStarted
	case OutcomeWon, OutcomeLost:
		return ErrRoundFinished
	}
	return nil
}

func (r *Round) advance(guess string) StepResult {
	if r.clueIndex < NumClues-1 {
		r.clueIndex++
		return StepResult{Outcome: OutcomeInProgress, ClueIndex: r.clueIndex, Guess: guess}
	}
	r.outcome = OutcomeLost
	return StepResult{Outcome: OutcomeLost, ClueIndex: r.clueIndex, Guess: guess}
}

// Clues returns the revealed prefix of the funnel, indices 0..clueIndex.
func (r *Round) Clues() []string {
	if r.outcome == OutcomeNotStarted {
		return nil
	}
	revealed := make([]string, r.clueIndex+1)
	copy(revealed, r.clues[:r.clueIndex+1])
	return revealed
}

func (r *Round) ClueIndex() int { return r.clueIndex }

func (r *Round) Outcome() Outcome { return r.outcome }

func (r *Round) Target() countries.Country { return r.target }

func (r *Round) Geo() countries.GeoClue { return r.geo }
