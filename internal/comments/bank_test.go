package comments_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aishoubot/aishou/internal/comments"
)

func TestBandFor_Boundaries(t *testing.T) {
	t.Parallel()

	cases := []struct {
		score float64
		want  comments.Band
	}{
		{100, comments.Band95},
		{95.1, comments.Band95},
		{95, comments.Band95},
		{94.9, comments.Band90},
		{90, comments.Band90},
		{85, comments.Band85},
		{80, comments.Band80},
		{79.9, comments.Band70},
		{70, comments.Band70},
		{60, comments.Band60},
		{50, comments.Band50},
		{49.9, comments.Band49},
		{0, comments.Band49},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, comments.BandFor(tc.score), "score %v", tc.score)
	}
}

func TestLookup_MissingIsEmpty(t *testing.T) {
	t.Parallel()

	bank, err := comments.Load("")
	require.NoError(t, err)

	assert.Equal(t, "", bank.Lookup(comments.Category("nonexistent"), "95"))
	assert.Equal(t, "", bank.Lookup(comments.CategoryOverall, "no-such-band"))
}

func TestEmbeddedBank_CoversAllBands(t *testing.T) {
	t.Parallel()

	bank, err := comments.Load("")
	require.NoError(t, err)

	bands := []comments.Band{
		comments.Band95, comments.Band90, comments.Band85, comments.Band80,
		comments.Band70, comments.Band60, comments.Band50, comments.Band49,
	}
	scoreCategories := []comments.Category{
		comments.CategoryOverall, comments.CategoryTime, comments.CategoryBalance,
		comments.CategoryTempo, comments.CategoryType, comments.CategoryWords,
	}
	for _, category := range scoreCategories {
		for _, band := range bands {
			assert.NotEmpty(t, bank.Lookup(category, string(band)), "%s/%s", category, band)
		}
	}
	for _, key := range []string{"time", "balance", "tempo", "type", "words"} {
		assert.NotEmpty(t, bank.Lookup(comments.CategorySevenPoint, key), "7p/%s", key)
	}
}

func TestRender_SubstitutesEveryPlaceholder(t *testing.T) {
	t.Parallel()

	template := "（相手）と話そう。（相手）はきっと待っています。"
	got := comments.Render(template, "Alice")

	assert.Zero(t, strings.Count(got, comments.PlaceholderOther))
	assert.Equal(t, 2, strings.Count(got, "Alice"))
}

func TestAnimal(t *testing.T) {
	t.Parallel()

	bank, err := comments.Load("")
	require.NoError(t, err)

	info, ok := bank.Animal("犬")
	require.True(t, ok)
	assert.NotEmpty(t, info.Name)
	assert.NotEmpty(t, info.Description)

	_, ok = bank.Animal("unknown")
	assert.False(t, ok)
}
