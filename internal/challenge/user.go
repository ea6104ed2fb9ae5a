package challenge

import (
	"crypto/subtle"
	"math/rand/v2"
	"time"
)

const (
	// NumPasswords is the length of every user's password list.
	NumPasswords = 50_000

	// PasswordLength is the number of characters in each password.
	PasswordLength = 32

	// MinSecretOffset is the lowest list index the secret can be moved to.
	// It keeps the secret out of the first lines so it cannot be found by hand.
	MinSecretOffset = 10_000

	// SentinelCorrect is the first line of a successful check.
	SentinelCorrect = "True"

	// SentinelIncorrect is the first line of a failed check.
	SentinelIncorrect = "False"
)

// alphanumeric is the alphabet passwords are drawn from.
const alphanumeric = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// Outcome is the result of checking one password.
type Outcome int

const (
	// Incorrect means the password is not the secret.
	Incorrect Outcome = iota

	// Correct means the password is the secret and the user had already solved.
	Correct

	// FirstSolve means the password is the secret and this is the first
	// time the user found it.
	FirstSolve
)

// String returns the response sentinel for the outcome.
func (o Outcome) String() string {
	if o == Incorrect {
		return SentinelIncorrect
	}
	return SentinelCorrect
}

// IsCorrect reports whether the checked password was the secret.
func (o Outcome) IsCorrect() bool {
	return o == Correct || o == FirstSolve
}

// User is the state kept for one player.
type User struct {
	// Username is the normalized name, see NormalizeUsername.
	Username string `json:"username"`

	// CreatedAt is when the user joined.
	CreatedAt time.Time `json:"created_at"`

	// Solved is true once the secret has been checked successfully.
	Solved bool `json:"solved"`

	// SolvedAt is set on the first successful check.
	SolvedAt *time.Time `json:"solved_at,omitempty"`

	// HitsBeforeSolved counts checks up to and including the first
	// successful one. It stops growing once the user has solved.
	HitsBeforeSolved int64 `json:"hits_before_solved"`

	// TotalHits counts every check, including those after solving.
	TotalHits int64 `json:"total_hits"`

	// Seed drives both the secret and the password list.
	Seed int64 `json:"-"`

	// Secret is the password the user is looking for.
	Secret string `json:"-"`
}

// NewUser creates a user whose seed is derived from the username and the
// join time, so two users joining at the same millisecond still differ.
func NewUser(username string, now time.Time) *User {
	seed := seedFor(username, now)
	return &User{
		Username:  username,
		CreatedAt: now.UTC(),
		Seed:      seed,
		Secret:    newPasswordSource(seed).next(),
	}
}

// seedFor sums the bytes of the username and adds the Unix time in milliseconds.
func seedFor(username string, now time.Time) int64 {
	var sum int64
	for _, b := range []byte(username) {
		sum += int64(b)
	}
	return sum + now.UnixMilli()
}

// Passwords returns the user's password list.
//
// The secret is the first password drawn from the seeded source; it is then
// swapped to SecretOffset so it sits somewhere past MinSecretOffset.
func (u *User) Passwords() []string {
	src := newPasswordSource(u.Seed)
	passwords := make([]string, NumPasswords)
	for i := range passwords {
		passwords[i] = src.next()
	}

	offset := u.SecretOffset()
	passwords[0], passwords[offset] = passwords[offset], passwords[0]
	return passwords
}

// SecretOffset returns the index of the secret in Passwords.
func (u *User) SecretOffset() int {
	span := uint64(NumPasswords - MinSecretOffset)
	return int(uint64(u.Seed)%span) + MinSecretOffset
}

// Check records one attempt and reports whether password is the secret.
func (u *User) Check(password string, now time.Time) Outcome {
	if !u.Solved {
		u.HitsBeforeSolved++
	}
	u.TotalHits++

	if subtle.ConstantTimeCompare([]byte(password), []byte(u.Secret)) != 1 {
		return Incorrect
	}
	if u.Solved {
		return Correct
	}

	solvedAt := now.UTC()
	u.Solved = true
	u.SolvedAt = &solvedAt
	return FirstSolve
}

// TimeToSolve returns how long the user took, or zero if unsolved.
func (u *User) TimeToSolve() time.Duration {
	if u.SolvedAt == nil {
		return 0
	}
	return u.SolvedAt.Sub(u.CreatedAt)
}

// passwordSource draws alphanumeric passwords from a seeded PCG generator.
type passwordSource struct {
	rng *rand.Rand
}

func newPasswordSource(seed int64) *passwordSource {
	s := uint64(seed)
	return &passwordSource{rng: rand.New(rand.NewPCG(s, s^0x9e3779b97f4a7c15))}
}

func (p *passwordSource) next() string {
	b := make([]byte, PasswordLength)
	for i := range b {
		b[i] = alphanumeric[p.rng.IntN(len(alphanumeric))]
	}
	return string(b)
}
