package linkhub

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "bare host gets https", in: "github.com/me", want: "https://github.com/me"},
		{name: "http kept", in: "http://example.com", want: "http://example.com"},
		{name: "https kept", in: "https://example.com/a?b=c", want: "https://example.com/a?b=c"},
		{name: "upper case scheme kept", in: "HTTPS://example.com", want: "HTTPS://example.com"},
		{name: "whitespace trimmed", in: "  example.com  ", want: "https://example.com"},
		{name: "empty", in: "", wantErr: true},
		{name: "space in host", in: "foo bar", wantErr: true},
		{name: "scheme only", in: "https://", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeURL(tt.in)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrValidationFailed), "got %v", err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateLink(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		l, err := ValidateLink(" GitHub ", "github.com/me", "Projects")
		assert.NoError(t, err)
		assert.Equal(t, Link{Title: "GitHub", URL: "https://github.com/me", Category: "Projects"}, l)
	})

	t.Run("empty category allowed", func(t *testing.T) {
		_, err := ValidateLink("Blog", "blog.example.com", "")
		assert.NoError(t, err)
	})

	t.Run("missing title", func(t *testing.T) {
		_, err := ValidateLink("  ", "github.com", "")
		assert.True(t, errors.Is(err, ErrValidationFailed))
	})

	t.Run("unknown category", func(t *testing.T) {
		_, err := ValidateLink("x", "github.com", "Hobbies")
		assert.True(t, errors.Is(err, ErrValidationFailed))
	})
}

func TestValidateUsername(t *testing.T) {
	for _, ok := range []string{"abc", "ab-ok", "Mixed-Case-42", "a23456789012345678901234567890"} {
		_, err := ValidateUsername(ok)
		assert.NoError(t, err, ok)
	}
	for _, bad := range []string{"ab", "", "with space", "under_score", "a234567890123456789012345678901"} {
		_, err := ValidateUsername(bad)
		assert.True(t, errors.Is(err, ErrValidationFailed), bad)
	}

	got, err := ValidateUsername("  JaneDoe ")
	assert.NoError(t, err)
	assert.Equal(t, "janedoe", got)
}

func TestNextLinkID(t *testing.T) {
	now := time.UnixMilli(1000)

	assert.Equal(t, int64(1000), nextLinkID(nil, now))
	assert.Equal(t, int64(1000), nextLinkID([]Link{{ID: 3}}, now))
	assert.Equal(t, int64(1001), nextLinkID([]Link{{ID: 1000}}, now))
	assert.Equal(t, int64(5001), nextLinkID([]Link{{ID: 5000}, {ID: 2}}, now))
}

func TestThemes(t *testing.T) {
	dark, ok := LookupTheme("dark")
	assert.True(t, ok)
	assert.Equal(t, "Dark", dark.Name)

	_, ok = LookupTheme("neon")
	assert.False(t, ok)
	assert.Equal(t, "dark", ResolveTheme("neon").ID)

	vars := Theme{Primary: "#111", Secondary: "#222", Accent: "#333"}.CSSVariables()
	assert.Equal(t, []CSSVariable{
		{Name: "--profile-primary", Value: "#111"},
		{Name: "--profile-secondary", Value: "#222"},
		{Name: "--profile-accent", Value: "#333"},
		{Name: "--profile-background", Value: "#111"},
		{Name: "--profile-text", Value: "#ffffff"},
		{Name: "--profile-contrast-text", Value: "#ffffff"},
	}, vars)

	css := dark.Stylesheet()
	assert.Contains(t, css, "--profile-background: #121212;")
	assert.Contains(t, css, ":root {")
}

func TestAssignIDs(t *testing.T) {
	got := AssignIDs([]Link{{Title: "a"}, {Title: "b"}, {Title: "c"}}, time.UnixMilli(50))
	assert.Equal(t, []int64{50, 51, 52}, ids(got))
	assert.Equal(t, "b", got[1].Title)
}
