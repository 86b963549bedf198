package steam

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want ProfileURL
	}{
		{
			name: "direct url with query",
			raw:  "https://steamcommunity.com/profiles/76561198000000000?x=1",
			want: "https://steamcommunity.com/profiles/76561198000000000",
		},
		{
			name: "vanity url",
			raw:  "https://steamcommunity.com/id/someplayer",
			want: "https://steamcommunity.com/id/someplayer",
		},
		{
			name: "trailing slash and fragment",
			raw:  "https://steamcommunity.com/id/someplayer/#games",
			want: "https://steamcommunity.com/id/someplayer",
		},
		{
			name: "extra segments dropped",
			raw:  "https://steamcommunity.com/profiles/76561198000000000/inventory/",
			want: "https://steamcommunity.com/profiles/76561198000000000",
		},
		{
			name: "duplicate slashes",
			raw:  "https://steamcommunity.com//id//someplayer",
			want: "https://steamcommunity.com/id/someplayer",
		},
		{
			name: "surrounding whitespace",
			raw:  "  http://steamcommunity.com/id/someplayer  ",
			want: "http://steamcommunity.com/id/someplayer",
		},
		{
			name: "userinfo dropped",
			raw:  "https://user:pw@steamcommunity.com/id/someplayer",
			want: "https://steamcommunity.com/id/someplayer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"https://steamcommunity.com/id/someplayer",
		"https://steamcommunity.com/profiles/76561198000000000?x=1#top",
		"https://steamcommunity.com/id/some%20player/",
		"http://example.com/id/x/y/z",
	}

	for _, raw := range inputs {
		t.Run(raw, func(t *testing.T) {
			once, err := Normalize(raw)
			require.NoError(t, err)

			twice, err := Normalize(once.String())
			require.NoError(t, err)
			assert.Equal(t, once, twice)
		})
	}
}

func TestNormalize_Invalid(t *testing.T) {
	inputs := []string{
		"not a url",
		"",
		"steamcommunity.com/id/someplayer",
		"https://steamcommunity.com",
		"https://steamcommunity.com/",
		"https://steamcommunity.com/id",
		"https://steamcommunity.com/id/",
		"https://steamcommunity.com/groups/somegroup",
		"https://steamcommunity.com/ID/someplayer",
		"://missing-scheme/id/x",
		"https://steamcommunity.com/%zz/x",
	}

	for _, raw := range inputs {
		t.Run(raw, func(t *testing.T) {
			_, err := Normalize(raw)
			assert.ErrorIs(t, err, ErrInvalidURL)
		})
	}
}

func TestClassify(t *testing.T) {
	assert.Equal(t, Vanity, Classify("https://steamcommunity.com/id/someplayer"))
	assert.Equal(t, Direct, Classify("https://steamcommunity.com/profiles/76561198000000000"))
	assert.Equal(t, "vanity", Vanity.String())
	assert.Equal(t, "direct", Direct.String())
}

func TestResolveDirect(t *testing.T) {
	id, err := ResolveDirect("https://steamcommunity.com/profiles/76561198000000000")
	require.NoError(t, err)
	assert.Equal(t, "76561198000000000", id)

	_, err = ResolveDirect("https://steamcommunity.com/profiles")
	assert.ErrorIs(t, err, ErrMalformedDirectURL)
}

func TestResolveDirect_VerbatimIdentifier(t *testing.T) {
	// no validation beyond presence
	id, err := ResolveDirect("https://steamcommunity.com/profiles/not-a-number")
	require.NoError(t, err)
	assert.Equal(t, "not-a-number", id)
}
