package hostname_test

import (
	"errors"
	"testing"

	"github.com/belonio2793/backlinkoo-solar-system-sub047/internal/hostname"
	"github.com/belonio2793/backlinkoo-solar-system-sub047/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"Example.com/", "example.com"},
		{"  https://www.Example.com/blog/post?x=1 ", "example.com"},
		{"http://shop.example.co.uk:8080", "shop.example.co.uk"},
		{"example.com.", "example.com"},
		{"WWW.leadpages.org", "leadpages.org"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, hostname.Normalize(tt.in))
		})
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		host  string
		valid bool
	}{
		{"example.com", true},
		{"my-site.example.io", true},
		{"blog.my-site.com", true},
		{"a1.co", true},
		{"ex", false},
		{"-bad-.com", false},
		{"bad-.com", false},
		{"example.c", false},
		{"exa_mple.com", false},
		{"example.123", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			t.Parallel()
			err := hostname.Validate(tt.host)
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, models.ErrInvalidDomain), "want ErrInvalidDomain, got %v", err)
		})
	}
}

func TestParseAll(t *testing.T) {
	t.Parallel()

	valid, invalid := hostname.ParseAll([]string{"Example.com/", "example.com", "https://www.blog.example.org", "ex", " "})

	assert.Equal(t, []string{"example.com", "blog.example.org"}, valid)
	assert.Equal(t, []string{"ex"}, invalid)
}

func TestMerge(t *testing.T) {
	t.Parallel()

	merged, added := hostname.Merge([]string{"a.com", "B.com"}, []string{"b.com", "c.com", "c.com"})
	assert.Equal(t, []string{"a.com", "B.com", "c.com"}, merged)
	assert.Equal(t, []string{"c.com"}, added)

	again, addedAgain := hostname.Merge(merged, []string{"Example.com/"})
	assert.Equal(t, []string{"a.com", "B.com", "c.com", "example.com"}, again)
	assert.Equal(t, []string{"example.com"}, addedAgain)

	_, repeat := hostname.Merge(again, []string{"example.com"})
	assert.Empty(t, repeat)
}

func TestMerge_KeepsCurrentEntriesVerbatim(t *testing.T) {
	t.Parallel()

	current := []string{"www.keep.com", "keep.com", "Shop.Other.com"}
	merged, added := hostname.Merge(current, []string{"new.com", "shop.other.com"})
	assert.Equal(t, []string{"www.keep.com", "keep.com", "Shop.Other.com", "new.com"}, merged)
	assert.Equal(t, []string{"new.com"}, added)

	merged, added = hostname.Merge([]string{"www.only.com"}, []string{"only.com"})
	assert.Equal(t, []string{"www.only.com", "only.com"}, merged)
	assert.Equal(t, []string{"only.com"}, added)
}

func TestWithoutAndApex(t *testing.T) {
	t.Parallel()

	out, found := hostname.Without([]string{"a.com", "b.com"}, "b.com")
	assert.True(t, found)
	assert.Equal(t, []string{"a.com"}, out)

	_, found = hostname.Without(out, "z.com")
	assert.False(t, found)

	out, found = hostname.Without([]string{"www.keep.com", "Keep.com", "other.com"}, "keep.com")
	assert.True(t, found)
	assert.Equal(t, []string{"www.keep.com", "other.com"}, out)

	assert.True(t, hostname.Contains([]string{"Shop.Other.com"}, "shop.other.com"))
	assert.False(t, hostname.Contains([]string{"www.keep.com"}, "keep.com"))

	assert.True(t, hostname.IsApex("example.com"))
	assert.False(t, hostname.IsApex("blog.example.com"))
}
