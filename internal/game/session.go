package game

// UsedSet tracks the names of mystery countries already played this
// session. It grows by one name per completed round and is cleared only
// when the whole pool has been played (deck reshuffle) or on reset.
type UsedSet struct {
	names map[string]struct{}
}

func NewUsedSet() *UsedSet {
	return &UsedSet{names: make(map[string]struct{})}
}

func (u *UsedSet) Has(name string) bool {
	_, ok := u.names[name]
	return ok
}

func (u *UsedSet) Add(name string) {
	u.names[name] = struct{}{}
}

func (u *UsedSet) Len() int { return len(u.names) }

func (u *UsedSet) Clear() {
	clear(u.names)
}

// Session is the cross-round aggregate for one player: streak, points and
// the used-country set. It is mutated only by round outcomes.
type Session struct {
	PlayerName    string
	CurrentStreak int
	LastStreak    int
	Points        int
	Used          *UsedSet
}

func NewSession(playerName string) *Session {
	return &Session{
		PlayerName: playerName,
		Used:       NewUsedSet(),
	}
}

// Apply folds a round's terminal step into the session. A win extends the
// streak and banks the points; a loss saves the streak for the end screen
// and resets it. Either way the target joins the used set, exactly one
// name per completed round. Non-terminal steps are no-ops.
func (s *Session) Apply(res StepResult, targetName string) {
	switch res.Outcome {
	case OutcomeWon:
		s.CurrentStreak++
		s.Points += res.PointsAwarded
		s.Used.Add(targetName)
	case OutcomeLost:
		s.LastStreak = s.CurrentStreak
		s.CurrentStreak = 0
		s.Used.Add(targetName)
	}
}

// Summary is the end-of-session report shown on exit.
type Summary struct {
	FinalPoints int
	FinalStreak int
}

func (s *Session) Summary() Summary {
	return Summary{
		FinalPoints: s.Points,
		FinalStreak: s.CurrentStreak,
	}
}
