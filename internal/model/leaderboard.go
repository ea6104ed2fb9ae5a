package model

import (
	"encoding/json"
	"time"
)

// Completion is a user who found their password.
type Completion struct {
	// Place is the 1-based solve order.
	Place int `json:"place"`

	// Username is the normalized name the user joined with.
	Username string `json:"username"`

	// Attempts is the number of checks made up to and including the
	// correct one.
	Attempts int64 `json:"attempts"`

	// TimeToSolve is the time between joining and the first correct check.
	TimeToSolve time.Duration `json:"-"`

	// SolvedAt is when the first correct check happened.
	SolvedAt time.Time `json:"solved_at"`
}

// MarshalJSON renders TimeToSolve as a Go duration string ("1h2m3s").
func (c Completion) MarshalJSON() ([]byte, error) {
	type plain Completion
	return json.Marshal(struct {
		plain
		TimeToSolve string `json:"time_to_solve"`
	}{
		plain:       plain(c),
		TimeToSolve: c.TimeToSolve.Round(time.Second).String(),
	})
}

// Stats holds aggregate counters across every user.
type Stats struct {
	// Users is the number of users that have joined.
	Users int `json:"users"`

	// Solved is the number of users that found their password.
	Solved int `json:"solved"`

	// TotalHits is the number of check requests made by all users.
	TotalHits int64 `json:"total_hits"`
}

// Unsolved returns the number of users still searching.
func (s Stats) Unsolved() int {
	return s.Users - s.Solved
}

// Leaderboard is a point-in-time view of the challenge.
type Leaderboard struct {
	// GeneratedAt is when the snapshot was taken.
	GeneratedAt time.Time `json:"generated_at"`

	// Stats are the aggregate counters at GeneratedAt.
	Stats Stats `json:"stats"`

	// Completions are ordered by Place, fastest solver first.
	Completions []Completion `json:"completions"`
}

// NewLeaderboard creates an empty leaderboard stamped with the current time.
func NewLeaderboard() *Leaderboard {
	return &Leaderboard{
		GeneratedAt: time.Now().UTC(),
		Completions: make([]Completion, 0),
	}
}

// Add appends a completion, assigning it the next place.
func (l *Leaderboard) Add(c Completion) {
	c.Place = len(l.Completions) + 1
	l.Completions = append(l.Completions, c)
}

// IsEmpty reports whether nobody has solved the challenge yet.
func (l *Leaderboard) IsEmpty() bool {
	return len(l.Completions) == 0
}
