package shared_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reelmap/internal/shared"
)

func TestNormalizePermalink(t *testing.T) {
	cases := map[string]string{
		"https://www.instagram.com/reel/ABC123?igsh=xyz#frag": "https://www.instagram.com/reel/ABC123/",
		"https://www.instagram.com/p/XYZ/":                    "https://www.instagram.com/p/XYZ/",
		"https://www.instagram.com":                           "https://www.instagram.com/",
	}
	for in, want := range cases {
		got, err := shared.NormalizePermalink(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestShortcodeFromURL(t *testing.T) {
	tests := []struct {
		in   string
		code string
		ok   bool
	}{
		{"https://www.instagram.com/reel/ABC_12-x/", "ABC_12-x", true},
		{"https://www.instagram.com/p/XYZ", "XYZ", true},
		{"https://www.instagram.com/reel/ABC/?utm=1", "ABC", true},
		{"https://www.instagram.com/stories/ABC/", "", false},
		{"https://www.instagram.com/", "", false},
		{"https://instagram.com/p/abcdEF12/?igshid=123", "abcdEF12", true},
		{"https://example.com/reel/ABC123/", "", false},
		{"not a url", "", false},
	}
	for _, tt := range tests {
		code, ok := shared.ShortcodeFromURL(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.code, code, tt.in)
	}
}

func TestResolveShortcode(t *testing.T) {
	code, err := shared.ResolveShortcode("DAbc_12")
	require.NoError(t, err)
	assert.Equal(t, "DAbc_12", code)

	code, err = shared.ResolveShortcode("https://www.instagram.com/reel/DAbc_12/?igsh=1")
	require.NoError(t, err)
	assert.Equal(t, "DAbc_12", code)

	_, err = shared.ResolveShortcode("https://www.instagram.com/explore/")
	require.ErrorIs(t, err, shared.ErrInvalidURL)
}
