package guess

import (
	"errors"
	"testing"
)

func TestParseTemplate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     string
		wantErr error
	}{
		{name: "path template", raw: "http://127.0.0.1:3000/u/{username}/check/{password}"},
		{name: "https query template", raw: "https://example.com/check?pw={password}"},
		{name: "missing password", raw: "http://example.com/u/{username}", wantErr: ErrMissingPasswordPlaceholder},
		{name: "relative", raw: "/check/{password}", wantErr: ErrInvalidTemplate},
		{name: "ftp", raw: "ftp://example.com/{password}", wantErr: ErrInvalidTemplate},
		{name: "no host", raw: "http:///{password}", wantErr: ErrInvalidTemplate},
		{name: "username in host", raw: "http://{username}.example.com/check/{password}"},
		{name: "fragment after placeholders", raw: "http://example.com/check/{password}#top"},
		{name: "password in fragment", raw: "http://example.com/check#{password}", wantErr: ErrInvalidTemplate},
		{name: "username in fragment", raw: "http://example.com/check/{password}#{username}", wantErr: ErrInvalidTemplate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tmpl, err := ParseTemplate(tt.raw)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("ParseTemplate(%q) error = %v, want %v", tt.raw, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseTemplate(%q) unexpected error: %v", tt.raw, err)
			}
			if tmpl.String() != tt.raw {
				t.Errorf("String() = %q, want %q", tmpl.String(), tt.raw)
			}
		})
	}
}

func TestTemplateExpand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		raw      string
		username string
		password string
		want     string
	}{
		{
			name:     "username and password in path",
			raw:      "http://h/u/{username}/check/{password}",
			username: "alice",
			password: "abc123",
			want:     "http://h/u/alice/check/abc123",
		},
		{
			name:     "path escaping",
			raw:      "http://h/check/{password}",
			password: "a/b c?d",
			want:     "http://h/check/a%2Fb%20c%3Fd",
		},
		{
			name:     "query escaping",
			raw:      "http://h/check?user={username}&pw={password}",
			username: "bob",
			password: "a&b=c d",
			want:     "http://h/check?user=bob&pw=a%26b%3Dc+d",
		},
		{
			name:     "password before username",
			raw:      "http://h/{password}/{username}",
			username: "u",
			password: "p",
			want:     "http://h/p/u",
		},
		{
			name:     "repeated placeholder",
			raw:      "http://h/{password}/{password}",
			password: "x",
			want:     "http://h/x/x",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tmpl, err := ParseTemplate(tt.raw)
			if err != nil {
				t.Fatal(err)
			}
			if got := tmpl.Expand(tt.username, tt.password); got != tt.want {
				t.Errorf("Expand() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTemplateHasUsername(t *testing.T) {
	t.Parallel()

	with, _ := ParseTemplate("http://h/u/{username}/check/{password}")
	without, _ := ParseTemplate("http://h/check/{password}")

	if !with.HasUsername() {
		t.Error("expected HasUsername() to be true")
	}
	if without.HasUsername() {
		t.Error("expected HasUsername() to be false")
	}
}
