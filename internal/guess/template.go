package guess

import (
	"fmt"
	"net/url"
	"strings"
)

// Template placeholders.
const (
	PasswordPlaceholder = "{password}"
	UsernamePlaceholder = "{username}"
)

// Template is a check URL with {password} and optional {username} slots.
type Template struct {
	raw string
}

// ParseTemplate validates raw and returns a Template.
func ParseTemplate(raw string) (*Template, error) {
	if !strings.Contains(raw, PasswordPlaceholder) {
		return nil, ErrMissingPasswordPlaceholder
	}

	// Placeholders are not valid in every URL position, so parse a sample.
	u, err := url.Parse(strings.NewReplacer(PasswordPlaceholder, "p", UsernamePlaceholder, "u").Replace(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTemplate, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, ErrInvalidTemplate
	}
	// The fragment never reaches the server.
	if _, fragment, ok := strings.Cut(raw, "#"); ok &&
		(strings.Contains(fragment, PasswordPlaceholder) || strings.Contains(fragment, UsernamePlaceholder)) {
		return nil, fmt.Errorf("%w: placeholders are not allowed after '#'", ErrInvalidTemplate)
	}
	return &Template{raw: raw}, nil
}

// String returns the template as given.
func (t *Template) String() string {
	return t.raw
}

// HasUsername reports whether the template contains {username}.
func (t *Template) HasUsername() bool {
	return strings.Contains(t.raw, UsernamePlaceholder)
}

// Expand substitutes username and password. Values that land in the path are
// path-escaped; values after "?" are query-escaped.
func (t *Template) Expand(username, password string) string {
	queryStart := strings.IndexByte(t.raw, '?')

	var b strings.Builder
	rest := t.raw
	offset := 0
	for {
		pi := strings.Index(rest, PasswordPlaceholder)
		ui := strings.Index(rest, UsernamePlaceholder)
		if pi < 0 && ui < 0 {
			b.WriteString(rest)
			return b.String()
		}

		idx, placeholder, value := pi, PasswordPlaceholder, password
		if pi < 0 || (ui >= 0 && ui < pi) {
			idx, placeholder, value = ui, UsernamePlaceholder, username
		}

		b.WriteString(rest[:idx])
		if queryStart >= 0 && offset+idx > queryStart {
			b.WriteString(url.QueryEscape(value))
		} else {
			b.WriteString(url.PathEscape(value))
		}

		consumed := idx + len(placeholder)
		rest = rest[consumed:]
		offset += consumed
	}
}
