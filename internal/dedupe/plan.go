package dedupe

import (
	"sort"

	"github.com/belonio2793/backlinkoo-solar-system-sub047/internal/models"
)

// Group kinds.
const (
	KindTitle   = "title"
	KindContent = "content"
)

// Group is a set of posts sharing a hash. Winner is kept.
type Group struct {
	Key    string
	Kind   string
	Winner models.BlogPost
	Losers []models.BlogPost
}

// Plan lists the duplicate groups found and every post to remove.
type Plan struct {
	Groups []Group
	Losers []models.BlogPost
}

// BuildPlan groups posts by title hash and then, among the remaining
// winners and ungrouped posts, by content hash. Posts with an empty hash
// are never grouped on that hash.
func BuildPlan(posts []models.BlogPost) Plan {
	var plan Plan

	byTitle := groupBy(posts, func(p models.BlogPost) string { return TitleHash(p.Title) })
	survivors := make([]models.BlogPost, 0, len(posts))
	for _, g := range byTitle {
		if len(g.members) == 1 {
			survivors = append(survivors, g.members[0])
			continue
		}
		group := resolve(g.key, KindTitle, g.members)
		plan.Groups = append(plan.Groups, group)
		plan.Losers = append(plan.Losers, group.Losers...)
		survivors = append(survivors, group.Winner)
	}

	byContent := groupBy(survivors, func(p models.BlogPost) string { return ContentHash(p.Content) })
	for _, g := range byContent {
		if len(g.members) == 1 {
			continue
		}
		group := resolve(g.key, KindContent, g.members)
		plan.Groups = append(plan.Groups, group)
		plan.Losers = append(plan.Losers, group.Losers...)
	}
	return plan
}

type bucket struct {
	key     string
	members []models.BlogPost
}

// groupBy keeps first-seen order of keys. Posts with an empty key each get
// their own bucket.
func groupBy(posts []models.BlogPost, key func(models.BlogPost) string) []*bucket {
	index := make(map[string]*bucket)
	out := make([]*bucket, 0, len(posts))
	for _, p := range posts {
		k := key(p)
		if k == "" {
			out = append(out, &bucket{members: []models.BlogPost{p}})
			continue
		}
		b, ok := index[k]
		if !ok {
			b = &bucket{key: k}
			index[k] = b
			out = append(out, b)
		}
		b.members = append(b.members, p)
	}
	return out
}

func resolve(key, kind string, members []models.BlogPost) Group {
	sorted := append([]models.BlogPost(nil), members...)
	sort.SliceStable(sorted, func(i, j int) bool { return better(sorted[i], sorted[j]) })
	return Group{Key: key, Kind: kind, Winner: sorted[0], Losers: sorted[1:]}
}

// better orders the preferred survivor first: published, then older, then
// lower id.
func better(a, b models.BlogPost) bool {
	ap := a.Status == models.BlogPostStatusPublished
	bp := b.Status == models.BlogPostStatusPublished
	if ap != bp {
		return ap
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID.String() < b.ID.String()
}
