package diversify

import (
	"fmt"
	"hash/fnv"
	"math/rand/v2"
	"regexp"
	"slices"
	"sort"
	"strings"
	"sync"

	ahocorasick "github.com/cloudflare/ahocorasick"
)

var (
	anchorOpen  = regexp.MustCompile(`(?is)<a\b[^>]*>`)
	anchorClose = regexp.MustCompile(`(?i)</a\s*>`)
)

// Changes counts what Apply did to one page.
type Changes struct {
	Phrases      int  `json:"phrases"`
	LinksRemoved int  `json:"links_removed"`
	FAQShuffled  bool `json:"faq_shuffled"`
}

// Any reports whether the page changed.
func (c Changes) Any() bool {
	return c.Phrases > 0 || c.LinksRemoved > 0 || c.FAQShuffled
}

type phrase struct {
	pattern      *regexp.Regexp
	key          string
	alternatives []string
}

// Transformer applies Rules. Output depends only on the page name and its
// text, so rerunning over unchanged input is stable.
type Transformer struct {
	mu       sync.Mutex
	matcher  *ahocorasick.Matcher
	phrases  []phrase
	maxLinks int
	faq      *regexp.Regexp
}

// NewTransformer compiles rules.
func NewTransformer(rules Rules) (*Transformer, error) {
	t := &Transformer{maxLinks: rules.MaxLinks}

	byKey := make(map[string][]string, len(rules.Phrases))
	for key, alts := range rules.Phrases {
		key = strings.ToLower(strings.TrimSpace(key))
		if key != "" && len(alts) > 0 {
			byKey[key] = alts
		}
	}
	keys := make([]string, 0, len(byKey))
	for key := range byKey {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		t.phrases = append(t.phrases, phrase{
			pattern:      regexp.MustCompile(`(?i)` + regexp.QuoteMeta(key)),
			key:          key,
			alternatives: byKey[key],
		})
	}
	if len(keys) > 0 {
		t.matcher = ahocorasick.NewStringMatcher(keys)
	}

	switch rules.FAQPattern {
	case "-":
	case "":
		t.faq = regexp.MustCompile(DefaultFAQPattern)
	default:
		re, err := regexp.Compile(rules.FAQPattern)
		if err != nil {
			return nil, fmt.Errorf("compile faq pattern: %w", err)
		}
		t.faq = re
	}
	return t, nil
}

// Apply transforms one page. name seeds every choice.
func (t *Transformer) Apply(name, text string) (string, Changes) {
	var changes Changes
	text, changes.Phrases = t.swapPhrases(name, text)
	text, changes.LinksRemoved = t.capLinks(text)
	text, changes.FAQShuffled = t.shuffleFAQ(name, text)
	return text, changes
}

func (t *Transformer) swapPhrases(name, text string) (string, int) {
	if t.matcher == nil {
		return text, 0
	}
	t.mu.Lock()
	hits := t.matcher.Match([]byte(strings.ToLower(text)))
	t.mu.Unlock()
	if len(hits) == 0 {
		return text, 0
	}
	sort.Ints(hits)
	hits = slices.Compact(hits)

	swapped := 0
	for _, i := range hits {
		p := t.phrases[i]
		alt := p.alternatives[seed(name, p.key)%uint64(len(p.alternatives))]
		text = p.pattern.ReplaceAllStringFunc(text, func(match string) string {
			swapped++
			return matchCase(match, alt)
		})
	}
	return text, swapped
}

// capLinks keeps the first maxLinks anchors and unwraps the rest.
func (t *Transformer) capLinks(text string) (string, int) {
	if t.maxLinks <= 0 {
		return text, 0
	}
	opens := anchorOpen.FindAllStringIndex(text, -1)
	if len(opens) <= t.maxLinks {
		return text, 0
	}

	var b strings.Builder
	last, removed := 0, 0
	for n, loc := range opens {
		if n < t.maxLinks || loc[0] < last {
			continue
		}
		closeLoc := anchorClose.FindStringIndex(text[loc[1]:])
		b.WriteString(text[last:loc[0]])
		if closeLoc == nil {
			last = loc[1]
		} else {
			b.WriteString(text[loc[1] : loc[1]+closeLoc[0]])
			last = loc[1] + closeLoc[1]
		}
		removed++
	}
	b.WriteString(text[last:])
	return b.String(), removed
}

func (t *Transformer) shuffleFAQ(name, text string) (string, bool) {
	if t.faq == nil {
		return text, false
	}
	locs := t.faq.FindAllStringIndex(text, -1)
	if len(locs) < 2 {
		return text, false
	}

	items := make([]string, len(locs))
	for i, loc := range locs {
		items[i] = text[loc[0]:loc[1]]
	}
	rng := rand.New(rand.NewPCG(seed(name, "faq"), uint64(len(items))))
	order := rng.Perm(len(items))
	if isIdentity(order) {
		order[0], order[1] = order[1], order[0]
	}

	var b strings.Builder
	last := 0
	for i, loc := range locs {
		b.WriteString(text[last:loc[0]])
		b.WriteString(items[order[i]])
		last = loc[1]
	}
	b.WriteString(text[last:])
	return b.String(), true
}

func seed(name, salt string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(name))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(salt))
	return h.Sum64()
}

func isIdentity(order []int) bool {
	for i, v := range order {
		if i != v {
			return false
		}
	}
	return true
}

// matchCase capitalizes alt when the replaced text started upper-case.
func matchCase(original, alt string) string {
	if original == "" || alt == "" {
		return alt
	}
	if first := original[0]; first >= 'A' && first <= 'Z' {
		return strings.ToUpper(alt[:1]) + alt[1:]
	}
	return alt
}
