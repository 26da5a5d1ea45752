package slug_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/belonio2793/backlinkoo-solar-system-sub047/internal/slug"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMake(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"plain", "Best Solar Panels for 2026", "best-solar-panels-for-2026"},
		{"punctuation", "What's   the deal?! (really)", "what-s-the-deal-really"},
		{"accents", "Café Déjà Vu", "cafe-deja-vu"},
		{"url removed", "Read https://example.com/page now", "read-now"},
		{"domain removed", "Why example.com ranks", "why-ranks"},
		{"underscores and dots", "solar_panel guide v2", "solar-panel-guide-v2"},
		{"empty", "!!!", slug.Fallback},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, slug.Make(tt.title))
		})
	}
}

func TestMake_Truncates(t *testing.T) {
	t.Parallel()

	got := slug.Make(strings.Repeat("solar energy ", 20))
	assert.LessOrEqual(t, len(got), slug.MaxLength)
	assert.False(t, strings.HasSuffix(got, "-"))
}

func TestTheme(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "minimal", slug.Theme(""))
	assert.Equal(t, "random", slug.Theme("random-ai-generated"))
	assert.Equal(t, "elegant-dark", slug.Theme("Elegant Dark"))
	assert.Equal(t, "post", slug.Theme("post"))
	assert.Equal(t, "minimal", slug.Theme("???"))
}

func TestJoinInner(t *testing.T) {
	t.Parallel()

	full := slug.Join("minimal", "solar-guide")
	assert.Equal(t, "minimal/solar-guide", full)
	assert.Equal(t, "solar-guide", slug.Inner(full))
	assert.Equal(t, "bare", slug.Inner("bare"))
}

func TestUnique_SameTitleTwiceYieldsDistinctDeterministicSlugs(t *testing.T) {
	t.Parallel()

	taken := map[string]bool{}
	exists := func(_ context.Context, s string) (bool, error) { return taken[s], nil }
	ctx := context.Background()
	base := slug.Make("Solar Guide")

	first, err := slug.Unique(ctx, "minimal", base, 20, exists, nil)
	require.NoError(t, err)
	taken[first] = true

	second, err := slug.Unique(ctx, "minimal", base, 20, exists, nil)
	require.NoError(t, err)

	assert.Equal(t, "minimal/solar-guide", first)
	assert.Equal(t, "minimal/solar-guide-1", second)
}

func TestUnique_FallsBackToTimestamp(t *testing.T) {
	t.Parallel()

	exists := func(context.Context, string) (bool, error) { return true, nil }
	now := func() time.Time { return time.UnixMilli(36 * 36) }

	got, err := slug.Unique(context.Background(), "minimal", "guide", 2, exists, now)
	require.NoError(t, err)
	assert.Equal(t, "minimal/guide-100", got)
}

func TestUnique_PropagatesLookupError(t *testing.T) {
	t.Parallel()

	boom := errors.New("db down")
	_, err := slug.Unique(context.Background(), "minimal", "guide", 2,
		func(context.Context, string) (bool, error) { return false, boom }, nil)
	assert.ErrorIs(t, err, boom)
}
