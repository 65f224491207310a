package helper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		title string
		want  string
	}{
		{"How do I use goroutines?", "how-do-i-use-goroutines"},
		{"  Leading and trailing  ", "leading-and-trailing"},
		{"C++ vs. Go: which one?", "c-vs-go-which-one"},
		{"Crème brûlée recipe", "creme-brulee-recipe"},
		{"already-slugged-title", "already-slugged-title"},
		{"MixedCASE Title", "mixedcase-title"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, Slugify(tc.title), "title %q", tc.title)
	}
}

func TestBaseUsername(t *testing.T) {
	assert.Equal(t, "jo.doe", BaseUsername("Jo.Doe@example.com"))
	assert.Equal(t, "a", BaseUsername("a@x.com"))
}

func TestNextUsername_FirstFree(t *testing.T) {
	got, err := NextUsername("a", func(string) (bool, error) { return false, nil })
	require.NoError(t, err)
	assert.Equal(t, "a", got)
}

func TestNextUsername_SuffixesUntilFree(t *testing.T) {
	// "a" and "a1" already claimed, as after two registrations sharing a
	// local part
	existing := map[string]bool{"a": true, "a1": true}
	got, err := NextUsername("a", func(candidate string) (bool, error) {
		return existing[candidate], nil
	})
	require.NoError(t, err)
	assert.Equal(t, "a2", got)
}

func TestNextUsername_PropagatesLookupError(t *testing.T) {
	_, err := NextUsername("a", func(string) (bool, error) {
		return false, assert.AnError
	})
	require.Error(t, err)
}

func TestNewPagination(t *testing.T) {
	p := NewPagination(1, 10, 25)
	assert.Equal(t, int64(3), p.TotalPages)
	assert.True(t, p.HasMore)
	assert.Equal(t, int64(0), p.Skip())

	p = NewPagination(3, 10, 25)
	assert.False(t, p.HasMore)
	assert.Equal(t, int64(20), p.Skip())

	p = NewPagination(1, 20, 0)
	assert.Equal(t, int64(0), p.TotalPages)
	assert.False(t, p.HasMore)
}
