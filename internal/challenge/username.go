package challenge

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

// MaxUsernameLength is the longest accepted username, in runes.
const MaxUsernameLength = 64

// ErrInvalidUsername is returned for usernames that cannot be used in a URL path.
var ErrInvalidUsername = errors.New("invalid username")

// NormalizeUsername trims and case-folds a username so "Luke" and "luke"
// refer to the same player. Empty names, names longer than
// MaxUsernameLength and names containing whitespace, control characters
// or URL delimiters are rejected.
func NormalizeUsername(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", fmt.Errorf("%w: username must not just be whitespace", ErrInvalidUsername)
	}
	if utf8.RuneCountInString(name) > MaxUsernameLength {
		return "", fmt.Errorf("%w: username is longer than %d characters", ErrInvalidUsername, MaxUsernameLength)
	}

	for _, r := range name {
		if unicode.IsSpace(r) || unicode.IsControl(r) || strings.ContainsRune("/?#%", r) {
			return "", fmt.Errorf("%w: username contains %q", ErrInvalidUsername, r)
		}
	}

	// A Caser keeps state, so each call gets its own.
	return cases.Fold().String(name), nil
}
